//go:build unit

package api_test

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"coffee-orders/internal/handler/api"
	reqdto "coffee-orders/internal/handler/dto/request"
	resdto "coffee-orders/internal/handler/dto/response"
	"coffee-orders/internal/usecase/commands"
	"coffee-orders/internal/usecase/queries"
	"coffee-orders/tests/common/httptest"
	"coffee-orders/tests/common/testutil"
	commandsmock "coffee-orders/tests/mock/commands"
	queriesmock "coffee-orders/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type SlotHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockSlotCommands
	mockQueries  *queriesmock.MockSlotQueries
	handler      *api.SlotHandler
}

func (s *SlotHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockSlotCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockSlotQueries(s.mockCtrl)
	s.handler = api.NewSlotHandler(s.mockCommands, s.mockQueries)

	s.router.POST("/slots", s.handler.CreateSlot)
	s.router.GET("/slots", s.handler.ListSlots)
}

func (s *SlotHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestSlotHandlerSuite(t *testing.T) {
	suite.Run(t, new(SlotHandlerTestSuite))
}

// ================================================================================
// TestCreateSlot
// ================================================================================

func (s *SlotHandlerTestSuite) TestCreateSlot() {
	url := "/slots"
	capacity := int32(5)
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	reqBody := reqdto.CreateSlotRequest{
		ShopID:   uuid.New(),
		Start:    start,
		End:      start.Add(30 * time.Minute),
		Capacity: &capacity,
	}
	slotID := uuid.New()

	s.Run("success: returns 201 Created with slot id", func() {
		s.mockCommands.EXPECT().CreateSlot(gomock.Any(), gomock.Any()).
			Return(slotID, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody)

		var response resdto.CreateSlotResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &response)
		s.Equal(slotID, response.SlotID)
	})

	s.Run("success: omitted capacity creates an unlimited slot", func() {
		s.mockCommands.EXPECT().CreateSlot(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ any, input commands.CreateSlotInput) (uuid.UUID, error) {
				s.Nil(input.Capacity)
				return slotID, nil
			}).Times(1)

		requestMap := testutil.DtoMap(s.T(), reqBody, testutil.Field("capacity", nil))
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap)
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, nil)
	})

	s.Run("error: 400 Bad Request on validation errors", func() {
		testCases := []struct {
			name   string
			mutate func(m map[string]any)
		}{
			{name: "missing field: shop_id (required)", mutate: testutil.Field("shop_id", nil)},
			{name: "missing field: start (required)", mutate: testutil.Field("start", nil)},
			{name: "missing field: end (required)", mutate: testutil.Field("end", nil)},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				requestMap := testutil.DtoMap(s.T(), reqBody, tc.mutate)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap)
				httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
			})
		}
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		testCases := []struct {
			name           string
			commandsError  error
			expectedStatus int
			expectedMsg    string
		}{
			{
				name:           "domain validation error",
				commandsError:  commands.ErrDomainValidation,
				expectedStatus: http.StatusUnprocessableEntity,
				expectedMsg:    "Domain validation failed",
			},
			{
				name:           "internal server error",
				commandsError:  errors.New("database error"),
				expectedStatus: http.StatusInternalServerError,
				expectedMsg:    "Internal server error",
			},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().CreateSlot(gomock.Any(), gomock.Any()).
					Return(uuid.Nil, tc.commandsError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody)
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})
}

// ================================================================================
// TestListSlots
// ================================================================================

func (s *SlotHandlerTestSuite) TestListSlots() {
	shopID := uuid.New()
	url := "/slots?shop_id=" + shopID.String()

	capacity := int32(5)
	remaining := int32(3)
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	views := []*queries.SlotView{
		{
			ID:        uuid.New(),
			ShopID:    shopID,
			Start:     start,
			End:       start.Add(30 * time.Minute),
			Capacity:  &capacity,
			Remaining: &remaining,
		},
		{
			ID:     uuid.New(),
			ShopID: shopID,
			Start:  start.Add(time.Hour),
			End:    start.Add(90 * time.Minute),
		},
	}

	s.Run("success: returns slots with remaining capacity", func() {
		s.mockQueries.EXPECT().ListByShop(gomock.Any(), shopID).
			Return(views, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil)

		var response []resdto.SlotResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Len(response, 2)
		s.Equal(int32(3), *response[0].RemainingCapacity)
		// Unlimited slots report null for both fields.
		s.Nil(response[1].Capacity)
		s.Nil(response[1].RemainingCapacity)
	})

	s.Run("error: 400 Bad Request without shop_id", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/slots", nil)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid shop ID")
	})

	s.Run("error: 400 Bad Request for invalid shop UUID", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/slots?shop_id=invalid-uuid", nil)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid shop ID")
	})

	s.Run("error: 500 Internal Server Error on query failure", func() {
		s.mockQueries.EXPECT().ListByShop(gomock.Any(), shopID).
			Return(nil, errors.New("database error")).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusInternalServerError, "Internal server error")
	})
}
