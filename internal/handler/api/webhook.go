package api

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"

	reqdto "coffee-orders/internal/handler/dto/request"
	resdto "coffee-orders/internal/handler/dto/response"
	"coffee-orders/internal/pkg/config"
	"coffee-orders/internal/usecase/commands"
	"coffee-orders/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

const paymentEventType = "payment"

type WebhookHandler struct {
	paymentCommands commands.PaymentCommands
	eventQueries    queries.WebhookEventQueries
	secret          []byte
}

func NewWebhookHandler(
	paymentCommands commands.PaymentCommands,
	eventQueries queries.WebhookEventQueries,
	cfg config.WebhookConfig,
) *WebhookHandler {
	return &WebhookHandler{
		paymentCommands: paymentCommands,
		eventQueries:    eventQueries,
		secret:          []byte(cfg.PaymentSecret),
	}
}

// @Summary Payment webhook
// @Description Receive a signed payment settlement notification
// @Tags webhooks
// @Accept json
// @Produce json
// @Param X-Signature header string true "HMAC-SHA256 hex of the raw body"
// @Param request body reqdto.PaymentWebhookRequest true "Payment event"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /webhooks/payments [post]
func (h *WebhookHandler) ReceivePayment(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Failed to read request body",
		})
		return
	}

	if !h.verifySignature(body, c.GetHeader("X-Signature")) {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Invalid signature",
		})
		return
	}

	var req reqdto.PaymentWebhookRequest
	if err := json.Unmarshal(body, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}
	if req.Status != "paid" && req.Status != "failed" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid payment status",
		})
		return
	}

	ev := commands.PaymentEvent{
		OrderID:   req.OrderID,
		Result:    req.Status,
		EventType: paymentEventType,
		Payload:   body,
	}
	if err := h.paymentCommands.ApplyPaymentEvent(c.Request.Context(), ev); err != nil {
		switch {
		case errors.Is(err, commands.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Order not found",
			})
		case errors.Is(err, commands.ErrUnknownPaymentResult):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid payment status",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// @Summary List webhook events
// @Description List recently received webhook events, newest first
// @Tags webhooks
// @Produce json
// @Success 200 {array} resdto.WebhookEventResponse
// @Router /webhooks/events [get]
func (h *WebhookHandler) ListEvents(c *gin.Context) {
	views, err := h.eventQueries.ListRecent(c.Request.Context(), 0)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	response := make([]*resdto.WebhookEventResponse, len(views))
	for i, rm := range views {
		response[i] = resdto.FromWebhookEventView(rm)
	}
	c.JSON(http.StatusOK, response)
}

func (h *WebhookHandler) verifySignature(body []byte, signature string) bool {
	if signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, h.secret)
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
