package api

import (
	"errors"
	"net/http"

	reqdto "coffee-orders/internal/handler/dto/request"
	resdto "coffee-orders/internal/handler/dto/response"
	"coffee-orders/internal/usecase/commands"
	"coffee-orders/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SlotHandler struct {
	slotCommands commands.SlotCommands
	slotQueries  queries.SlotQueries
}

func NewSlotHandler(slotCommands commands.SlotCommands, slotQueries queries.SlotQueries) *SlotHandler {
	return &SlotHandler{
		slotCommands: slotCommands,
		slotQueries:  slotQueries,
	}
}

// @Summary Create slot
// @Description Create a pickup time slot for a shop
// @Tags slots
// @Accept json
// @Produce json
// @Param request body reqdto.CreateSlotRequest true "Slot request"
// @Success 201 {object} resdto.CreateSlotResponse
// @Failure 400 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /slots [post]
func (h *SlotHandler) CreateSlot(c *gin.Context) {
	var req reqdto.CreateSlotRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	id, err := h.slotCommands.CreateSlot(c.Request.Context(), req.ToInput())
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrDomainValidation):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Domain validation failed",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.CreateSlotResponse{SlotID: id})
}

// @Summary List slots
// @Description List a shop's slots with remaining capacity
// @Tags slots
// @Produce json
// @Param shop_id query string true "Shop ID"
// @Success 200 {array} resdto.SlotResponse
// @Failure 400 {object} map[string]string
// @Router /slots [get]
func (h *SlotHandler) ListSlots(c *gin.Context) {
	shopID, err := uuid.Parse(c.Query("shop_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid shop ID format",
		})
		return
	}

	views, err := h.slotQueries.ListByShop(c.Request.Context(), shopID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	response := make([]*resdto.SlotResponse, len(views))
	for i, rm := range views {
		response[i] = resdto.FromSlotView(rm)
	}
	c.JSON(http.StatusOK, response)
}
