package payment

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

// SignatureHeader carries the provider's HMAC signature on webhook deliveries.
const SignatureHeader = "X-Payment-Signature"

// RegisterRoutes mounts checkout and the payment webhook under the group.
func RegisterRoutes(group *gin.RouterGroup, service *Service) {
	handler := &httpHandler{service: service}
	group.POST("/checkout", handler.createCheckout)
	group.POST("/webhooks/payment", handler.paymentWebhook)
}

type httpHandler struct {
	service *Service
}

func (h *httpHandler) createCheckout(c *gin.Context) {
	var in CheckoutInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid checkout payload"})
		return
	}

	session, err := h.service.Checkout(c.Request.Context(), in)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmptyCart):
			c.JSON(http.StatusBadRequest, gin.H{"error": "cart is empty"})
		case errors.Is(err, ErrProviderUnavailable):
			c.JSON(http.StatusBadGateway, gin.H{"error": "payment provider unavailable"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start checkout"})
		}
		return
	}

	c.JSON(http.StatusCreated, session)
}

func (h *httpHandler) paymentWebhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
		return
	}

	if err := h.service.VerifySignature(body, c.GetHeader(SignatureHeader)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid signature"})
		return
	}

	var evt WebhookEvent
	if err := json.Unmarshal(body, &evt); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid webhook payload"})
		return
	}

	if err := h.service.HandleEvent(c.Request.Context(), evt); err != nil {
		// The provider retries on non-2xx; notification failure is worth a retry.
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process event"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
