package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/askhat-b/partforge/internal/model"
	"github.com/askhat-b/partforge/internal/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAggregator struct {
	models []model.ModelFile
	err    error
}

func (f *fakeAggregator) OrderModels(ctx context.Context, quoteID string) ([]model.ModelFile, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.models, nil
}

type fakeNotifier struct {
	sent []notify.Message
	err  error
}

func (f *fakeNotifier) Send(ctx context.Context, msg notify.Message) error {
	if f.err != nil {
		return f.err
	}
	// Drain attachment readers so file handles behave as in real delivery.
	for _, att := range msg.Attachments {
		_, _ = io.ReadAll(att.Reader)
	}
	f.sent = append(f.sent, msg)
	return nil
}

type fakeCheckout struct {
	session Session
	err     error
}

func (f *fakeCheckout) CreateSession(ctx context.Context, in CheckoutInput) (Session, error) {
	if f.err != nil {
		return Session{}, f.err
	}
	return f.session, nil
}

func sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	service := NewService(nil, nil, nil, "whsec_test", nil)
	body := []byte(`{"type":"payment.succeeded"}`)

	require.NoError(t, service.VerifySignature(body, sign("whsec_test", body)))
	require.NoError(t, service.VerifySignature(body, "sha256="+sign("whsec_test", body)))

	require.ErrorIs(t, service.VerifySignature(body, sign("wrong", body)), ErrBadSignature)
	require.ErrorIs(t, service.VerifySignature(body, ""), ErrBadSignature)
	require.ErrorIs(t, service.VerifySignature([]byte("tampered"), sign("whsec_test", body)), ErrBadSignature)
}

func TestHandleEventAttachesOrderModels(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Q-1-A_part.stl")
	require.NoError(t, os.WriteFile(path, []byte("solid"), 0o644))

	agg := &fakeAggregator{models: []model.ModelFile{{
		QuoteID:        "Q-1-A",
		FileName:       "part.stl",
		StoredFileName: "Q-1-A_part.stl",
		FilePath:       path,
		FileSize:       5,
		Metadata:       map[string]string{"quantity": "2", "material": "PLA"},
	}}}
	notifier := &fakeNotifier{}
	service := NewService(nil, agg, notifier, "whsec", nil)

	err := service.HandleEvent(context.Background(), WebhookEvent{
		Type:        eventPaymentSucceeded,
		OrderID:     "ORD-99",
		QuoteID:     "Q-1",
		AmountCents: 4500,
		Currency:    "USD",
	})
	require.NoError(t, err)

	require.Len(t, notifier.sent, 1)
	msg := notifier.sent[0]
	assert.Contains(t, msg.Text, "ORD-99")
	assert.Contains(t, msg.Text, "part.stl")
	assert.Contains(t, msg.Text, "x2")
	require.Len(t, msg.Attachments, 1)
	assert.Equal(t, "Q-1-A_part.stl", msg.Attachments[0].Name)
}

func TestHandleEventDegradesWhenModelsUnresolvable(t *testing.T) {
	agg := &fakeAggregator{err: model.ErrModelNotFound}
	notifier := &fakeNotifier{}
	service := NewService(nil, agg, notifier, "whsec", nil)

	err := service.HandleEvent(context.Background(), WebhookEvent{
		Type:    eventPaymentSucceeded,
		OrderID: "ORD-100",
		QuoteID: "Q-gone",
	})
	require.NoError(t, err, "storage failure must not fail the webhook")

	require.Len(t, notifier.sent, 1)
	assert.Empty(t, notifier.sent[0].Attachments)
	assert.Contains(t, notifier.sent[0].Text, "No model files could be attached")
}

func TestHandleEventSkipsMissingAttachmentFiles(t *testing.T) {
	agg := &fakeAggregator{models: []model.ModelFile{{
		QuoteID:  "Q-2-A",
		FileName: "gone.stl",
		FilePath: filepath.Join(t.TempDir(), "missing.stl"),
	}}}
	notifier := &fakeNotifier{}
	service := NewService(nil, agg, notifier, "whsec", nil)

	err := service.HandleEvent(context.Background(), WebhookEvent{
		Type:    eventPaymentSucceeded,
		QuoteID: "Q-2",
		OrderID: "ORD-101",
	})
	require.NoError(t, err)
	require.Len(t, notifier.sent, 1)
	assert.Empty(t, notifier.sent[0].Attachments)
}

func TestHandleEventIgnoresOtherEventTypes(t *testing.T) {
	notifier := &fakeNotifier{}
	service := NewService(nil, &fakeAggregator{}, notifier, "whsec", nil)

	err := service.HandleEvent(context.Background(), WebhookEvent{Type: "payment.failed"})
	require.NoError(t, err)
	assert.Empty(t, notifier.sent)
}

func TestHandleEventPropagatesNotifierFailure(t *testing.T) {
	notifier := &fakeNotifier{err: notify.ErrDeliveryFailed}
	service := NewService(nil, &fakeAggregator{}, notifier, "whsec", nil)

	err := service.HandleEvent(context.Background(), WebhookEvent{
		Type:    eventPaymentSucceeded,
		QuoteID: "Q-3",
	})
	require.Error(t, err)
	require.True(t, errors.Is(err, notify.ErrDeliveryFailed))
}

func TestCheckoutRejectsEmptyCart(t *testing.T) {
	service := NewService(&fakeCheckout{err: ErrEmptyCart}, nil, nil, "whsec", nil)
	_, err := service.Checkout(context.Background(), CheckoutInput{})
	require.ErrorIs(t, err, ErrEmptyCart)
}
