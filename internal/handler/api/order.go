package api

import (
	"errors"
	"net/http"

	reqdto "coffee-orders/internal/handler/dto/request"
	resdto "coffee-orders/internal/handler/dto/response"
	"coffee-orders/internal/infra"
	"coffee-orders/internal/usecase/commands"
	"coffee-orders/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type OrderHandler struct {
	orderCommands      commands.OrderCommands
	assignmentCommands commands.SlotAssignmentCommands
	orderQueries       queries.OrderQueries
}

func NewOrderHandler(
	orderCommands commands.OrderCommands,
	assignmentCommands commands.SlotAssignmentCommands,
	orderQueries queries.OrderQueries,
) *OrderHandler {
	return &OrderHandler{
		orderCommands:      orderCommands,
		assignmentCommands: assignmentCommands,
		orderQueries:       orderQueries,
	}
}

// @Summary Create order
// @Description Create a new order with at least one item
// @Tags orders
// @Accept json
// @Produce json
// @Param request body reqdto.CreateOrderRequest true "Order request"
// @Success 201 {object} resdto.CreateOrderResponse
// @Failure 400 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /orders [post]
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req reqdto.CreateOrderRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	id, err := h.orderCommands.CreateOrder(c.Request.Context(), req.ToInput())
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

	c.JSON(http.StatusCreated, resdto.CreateOrderResponse{OrderID: id})
}

// @Summary Assign slot to order
// @Description Bind the order to a pickup slot behind a short-lived hold
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param request body reqdto.AssignSlotRequest true "Target slot"
// @Success 200 {object} resdto.AssignSlotResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} resdto.SlotFullResponse
// @Router /orders/{id}/slot [patch]
func (h *OrderHandler) AssignSlot(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid order ID format",
		})
		return
	}

	var req reqdto.AssignSlotRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	result, err := h.assignmentCommands.AssignSlot(c.Request.Context(), orderID, req.SlotID)
	if err != nil {
		var slotFull *commands.SlotFullError
		switch {
		case errors.As(err, &slotFull):
			c.JSON(http.StatusConflict, resdto.FromSlotFullError(slotFull))
		case errors.Is(err, commands.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Order not found",
			})
		case errors.Is(err, commands.ErrSlotNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Slot not found",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromAssignSlotResult(result))
}

// @Summary Get order
// @Description Get order by ID with its items
// @Tags orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} resdto.OrderResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /orders/{id} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid order ID format",
		})
		return
	}

	view, err := h.orderQueries.GetByID(c.Request.Context(), id)
	if err != nil {
		switch {
		case infra.IsKind(err, infra.KindNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Order not found",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromOrderView(view))
}

// @Summary List orders
// @Description List orders, optionally filtered by shop
// @Tags orders
// @Produce json
// @Param shop_id query string false "Shop ID"
// @Success 200 {array} resdto.OrderListResponse
// @Failure 400 {object} map[string]string
// @Router /orders [get]
func (h *OrderHandler) ListOrders(c *gin.Context) {
	var shopID *uuid.UUID
	if raw := c.Query("shop_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid shop ID format",
			})
			return
		}
		shopID = &id
	}

	items, err := h.orderQueries.List(c.Request.Context(), shopID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	response := make([]*resdto.OrderListResponse, len(items))
	for i, rm := range items {
		response[i] = resdto.FromOrderListItem(rm)
	}
	c.JSON(http.StatusOK, response)
}
