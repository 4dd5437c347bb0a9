package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/askhat-b/partforge/internal/metrics"
	"github.com/askhat-b/partforge/internal/model"
	"github.com/askhat-b/partforge/internal/notify"
	"go.uber.org/zap"
)

// modelAggregator locates every stored part of a paid order.
type modelAggregator interface {
	OrderModels(ctx context.Context, quoteID string) ([]model.ModelFile, error)
}

// notifier delivers the fulfillment notification.
type notifier interface {
	Send(ctx context.Context, msg notify.Message) error
}

// checkout opens hosted-checkout sessions.
type checkout interface {
	CreateSession(ctx context.Context, in CheckoutInput) (Session, error)
}

// Service verifies webhook deliveries and runs order fulfillment: gather the
// order's model files and post the team notification with attachments.
type Service struct {
	provider      checkout
	models        modelAggregator
	notifications notifier
	webhookSecret string
	logg          *zap.Logger
}

// NewService constructs a payment service.
func NewService(provider checkout, models modelAggregator, notifications notifier, webhookSecret string, logg *zap.Logger) *Service {
	if logg == nil {
		logg = zap.NewNop()
	}
	return &Service{
		provider:      provider,
		models:        models,
		notifications: notifications,
		webhookSecret: webhookSecret,
		logg:          logg,
	}
}

// Checkout opens a hosted-checkout session for the cart.
func (s *Service) Checkout(ctx context.Context, in CheckoutInput) (Session, error) {
	return s.provider.CreateSession(ctx, in)
}

// VerifySignature checks the HMAC-SHA256 hex signature over the raw webhook
// body.
func (s *Service) VerifySignature(body []byte, signature string) error {
	mac := hmac.New(sha256.New, []byte(s.webhookSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	signature = strings.TrimSpace(strings.TrimPrefix(signature, "sha256="))
	if signature == "" || !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrBadSignature
	}
	return nil
}

// HandleEvent processes one verified webhook event. Payment has already
// completed by the time this runs, so storage failures degrade the
// notification instead of failing the delivery: a missing model file means
// "no attachment", never an aborted order.
func (s *Service) HandleEvent(ctx context.Context, evt WebhookEvent) error {
	if evt.Type != eventPaymentSucceeded {
		s.logg.Debug("ignoring webhook event", zap.String("type", evt.Type))
		return nil
	}

	models, err := s.models.OrderModels(ctx, evt.QuoteID)
	if err != nil {
		s.logg.Warn("order models unavailable for notification",
			zap.String("quote_id", evt.QuoteID),
			zap.String("order_id", evt.OrderID),
			zap.Error(err),
		)
		models = nil
	}

	msg := notify.Message{Text: formatOrderMessage(evt, models)}
	var open []*os.File
	defer func() {
		for _, f := range open {
			f.Close()
		}
	}()
	for _, mf := range models {
		f, err := os.Open(mf.FilePath)
		if err != nil {
			s.logg.Warn("attachment unavailable",
				zap.String("path", mf.FilePath),
				zap.Error(err),
			)
			continue
		}
		open = append(open, f)
		msg.Attachments = append(msg.Attachments, notify.Attachment{
			Name:   mf.StoredFileName,
			Reader: f,
		})
	}

	if err := s.notifications.Send(ctx, msg); err != nil {
		metrics.Notifications.WithLabelValues("failed").Inc()
		s.logg.Error("order notification failed",
			zap.String("order_id", evt.OrderID),
			zap.Error(err),
		)
		return err
	}

	metrics.Notifications.WithLabelValues("sent").Inc()
	s.logg.Info("order notification sent",
		zap.String("order_id", evt.OrderID),
		zap.String("quote_id", evt.QuoteID),
		zap.Int("attachments", len(msg.Attachments)),
	)
	return nil
}

func formatOrderMessage(evt WebhookEvent, models []model.ModelFile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Payment received for order %s (quote %s)\n", evt.OrderID, evt.QuoteID)
	if evt.CustomerEmail != "" {
		fmt.Fprintf(&b, "Customer: %s\n", evt.CustomerEmail)
	}
	if evt.AmountCents > 0 {
		fmt.Fprintf(&b, "Amount: %.2f %s\n", float64(evt.AmountCents)/100, evt.Currency)
	}
	if len(models) == 0 {
		b.WriteString("No model files could be attached; locate them manually in the pool.\n")
		return b.String()
	}
	fmt.Fprintf(&b, "Parts (%d):\n", len(models))
	for _, mf := range models {
		fmt.Fprintf(&b, "  - %s [%s] %d bytes", mf.FileName, mf.QuoteID, mf.FileSize)
		if qty := mf.Metadata["quantity"]; qty != "" {
			fmt.Fprintf(&b, " x%s", qty)
		}
		if mat := mf.Metadata["material"]; mat != "" {
			fmt.Fprintf(&b, " (%s)", mat)
		}
		b.WriteByte('\n')
	}
	return b.String()
}
