package pricing

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"strconv"

	"github.com/askhat-b/partforge/internal/model"
	"go.uber.org/zap"
)

// modelSaver persists quoted parts through the storage subsystem.
type modelSaver interface {
	Upload(ctx context.Context, in model.UploadInput) (model.ModelFile, error)
}

// quoter prices one part via the external DFM service.
type quoter interface {
	QuotePart(ctx context.Context, fileName string, payload io.Reader, spec PartSpec) (QuoteResult, error)
}

// Service implements quote intake: price a part, then persist it under its
// quote identity.
type Service struct {
	models modelSaver
	quotes quoter
	logg   *zap.Logger
}

// NewService constructs a pricing service.
func NewService(models modelSaver, quotes quoter, logg *zap.Logger) *Service {
	if logg == nil {
		logg = zap.NewNop()
	}
	return &Service{models: models, quotes: quotes, logg: logg}
}

// CreateQuoteInput carries one storefront quote request.
type CreateQuoteInput struct {
	FileHeader *multipart.FileHeader
	QuoteID    string
	PartName   string
	Spec       PartSpec
}

// CreateQuote prices the part and persists the model file. Adding another
// part with the same base quote id extends the quoting session; the storage
// layer assigns the next part suffix.
func (s *Service) CreateQuote(ctx context.Context, in CreateQuoteInput) (Quote, error) {
	if in.FileHeader == nil {
		return Quote{}, fmt.Errorf("missing file payload")
	}

	payload, err := in.FileHeader.Open()
	if err != nil {
		return Quote{}, fmt.Errorf("open upload file: %w", err)
	}
	result, err := s.quotes.QuotePart(ctx, in.FileHeader.Filename, payload, in.Spec)
	payload.Close()
	if err != nil {
		return Quote{}, err
	}

	metadata := map[string]string{
		"technology": in.Spec.Technology,
		"material":   in.Spec.Material,
		"quantity":   strconv.Itoa(in.Spec.Quantity),
		"priceCents": strconv.FormatInt(result.PriceCents, 10),
	}
	if in.Spec.Finish != "" {
		metadata["finish"] = in.Spec.Finish
	}

	mf, err := s.models.Upload(ctx, model.UploadInput{
		FileHeader: in.FileHeader,
		QuoteID:    in.QuoteID,
		PartName:   in.PartName,
		Metadata:   metadata,
	})
	if err != nil {
		return Quote{}, err
	}

	s.logg.Info("quote created",
		zap.String("quote_id", mf.QuoteID),
		zap.Int64("price_cents", result.PriceCents),
		zap.Int("lead_time_days", result.LeadTimeDays),
	)

	return Quote{
		QuoteID:      mf.QuoteID,
		BaseQuoteID:  mf.BaseQuoteID,
		Model:        mf,
		PriceCents:   result.PriceCents,
		Currency:     result.Currency,
		LeadTimeDays: result.LeadTimeDays,
		Issues:       result.Issues,
	}, nil
}
