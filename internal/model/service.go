package model

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
)

const defaultMaxFileSize = 100 * 1024 * 1024 // 100MB

// storage abstracts the filesystem store for the service layer.
type storage interface {
	Save(ctx context.Context, in SaveInput) (ModelFile, error)
	Resolve(ctx context.Context, quoteID, fileName string) (string, error)
	Delete(ctx context.Context, id string) error
	OrderModels(ctx context.Context, quoteID string) ([]ModelFile, error)
}

// Service manages model file lifecycle operations.
type Service struct {
	store       storage
	maxFileSize int64
}

// NewService constructs a model service.
func NewService(store storage, maxFileSize int64) *Service {
	if maxFileSize <= 0 {
		maxFileSize = defaultMaxFileSize
	}
	return &Service{store: store, maxFileSize: maxFileSize}
}

// UploadInput carries one multipart upload into the service.
type UploadInput struct {
	FileHeader  *multipart.FileHeader
	QuoteID     string
	OrderNumber string
	OrderID     string
	PartName    string
	Metadata    map[string]string
}

// Upload validates the payload and persists it through the store.
func (s *Service) Upload(ctx context.Context, in UploadInput) (ModelFile, error) {
	if in.FileHeader == nil {
		return ModelFile{}, fmt.Errorf("missing file payload")
	}
	if in.FileHeader.Size > s.maxFileSize {
		return ModelFile{}, ErrFileTooLarge
	}

	file, err := in.FileHeader.Open()
	if err != nil {
		return ModelFile{}, fmt.Errorf("open upload file: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return ModelFile{}, fmt.Errorf("read upload file: %w", err)
	}

	return s.store.Save(ctx, SaveInput{
		Bytes:       data,
		FileName:    in.FileHeader.Filename,
		QuoteID:     in.QuoteID,
		OrderNumber: in.OrderNumber,
		OrderID:     in.OrderID,
		PartName:    in.PartName,
		Metadata:    in.Metadata,
	})
}

// Resolve translates a logical quote id + filename into a physical path.
func (s *Service) Resolve(ctx context.Context, quoteID, fileName string) (string, error) {
	return s.store.Resolve(ctx, quoteID, fileName)
}

// Delete removes a model payload and its sidecar by logical id.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

// OrderModels returns every part persisted for one base quote id.
func (s *Service) OrderModels(ctx context.Context, quoteID string) ([]ModelFile, error) {
	return s.store.OrderModels(ctx, quoteID)
}
