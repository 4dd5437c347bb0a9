package payment

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWebhookRouter(service *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r.Group("/v1"), service)
	return r
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	service := NewService(nil, &fakeAggregator{}, &fakeNotifier{}, "whsec", nil)
	r := newWebhookRouter(service)

	body := []byte(`{"type":"payment.succeeded","quoteId":"Q-1"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/webhooks/payment", bytes.NewReader(body))
	req.Header.Set(SignatureHeader, "deadbeef")
	rr := httptest.NewRecorder()

	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestWebhookAcceptsSignedEvent(t *testing.T) {
	notifier := &fakeNotifier{}
	service := NewService(nil, &fakeAggregator{}, notifier, "whsec", nil)
	r := newWebhookRouter(service)

	body := []byte(`{"type":"payment.succeeded","orderId":"ORD-1","quoteId":"Q-1"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/webhooks/payment", bytes.NewReader(body))
	req.Header.Set(SignatureHeader, sign("whsec", body))
	rr := httptest.NewRecorder()

	r.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, notifier.sent, 1)
}

func TestWebhookRejectsMalformedPayload(t *testing.T) {
	service := NewService(nil, &fakeAggregator{}, &fakeNotifier{}, "whsec", nil)
	r := newWebhookRouter(service)

	body := []byte(`{broken`)
	req := httptest.NewRequest(http.MethodPost, "/v1/webhooks/payment", bytes.NewReader(body))
	req.Header.Set(SignatureHeader, sign("whsec", body))
	rr := httptest.NewRecorder()

	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
