package pricing

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/askhat-b/partforge/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildFileHeader(t *testing.T, fieldName, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(fieldName, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(int64(len(content))+1024))

	return req.MultipartForm.File[fieldName][0]
}

type fakeSaver struct {
	saved []model.UploadInput
	err   error
}

func (f *fakeSaver) Upload(ctx context.Context, in model.UploadInput) (model.ModelFile, error) {
	if f.err != nil {
		return model.ModelFile{}, f.err
	}
	f.saved = append(f.saved, in)
	quoteID := in.QuoteID
	if quoteID == "" {
		quoteID = "Q-fa11back"
	}
	return model.ModelFile{
		QuoteID:     quoteID + "-A",
		BaseQuoteID: quoteID,
		Suffix:      "A",
		FileName:    in.FileHeader.Filename,
	}, nil
}

type fakeQuoter struct {
	result QuoteResult
	err    error
	specs  []PartSpec
}

func (f *fakeQuoter) QuotePart(ctx context.Context, fileName string, payload io.Reader, spec PartSpec) (QuoteResult, error) {
	f.specs = append(f.specs, spec)
	if f.err != nil {
		return QuoteResult{}, f.err
	}
	return f.result, nil
}

func TestCreateQuotePricesThenPersists(t *testing.T) {
	saver := &fakeSaver{}
	quoter := &fakeQuoter{result: QuoteResult{PriceCents: 2599, Currency: "USD", LeadTimeDays: 5}}
	service := NewService(saver, quoter, nil)

	fh := buildFileHeader(t, "file", "bracket.stl", []byte("solid"))
	out, err := service.CreateQuote(context.Background(), CreateQuoteInput{
		FileHeader: fh,
		QuoteID:    "Q-77",
		Spec:       PartSpec{Technology: "CNC", Material: "6061", Quantity: 3},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(2599), out.PriceCents)
	assert.Equal(t, 5, out.LeadTimeDays)
	assert.Equal(t, "Q-77-A", out.QuoteID)

	require.Len(t, saver.saved, 1)
	meta := saver.saved[0].Metadata
	assert.Equal(t, "CNC", meta["technology"])
	assert.Equal(t, "3", meta["quantity"])
	assert.Equal(t, "2599", meta["priceCents"])
}

func TestCreateQuoteDoesNotPersistWhenUnquotable(t *testing.T) {
	saver := &fakeSaver{}
	quoter := &fakeQuoter{err: ErrUnquotable}
	service := NewService(saver, quoter, nil)

	fh := buildFileHeader(t, "file", "bracket.stl", []byte("solid"))
	_, err := service.CreateQuote(context.Background(), CreateQuoteInput{
		FileHeader: fh,
		Spec:       PartSpec{Technology: "CNC", Material: "6061", Quantity: 1},
	})
	require.ErrorIs(t, err, ErrUnquotable)
	assert.Empty(t, saver.saved)
}

func TestCreateQuotePropagatesStorageErrors(t *testing.T) {
	saver := &fakeSaver{err: model.ErrInvalidFileType}
	quoter := &fakeQuoter{result: QuoteResult{PriceCents: 100}}
	service := NewService(saver, quoter, nil)

	fh := buildFileHeader(t, "file", "bracket.stl", []byte("solid"))
	_, err := service.CreateQuote(context.Background(), CreateQuoteInput{
		FileHeader: fh,
		Spec:       PartSpec{Quantity: 1},
	})
	require.ErrorIs(t, err, model.ErrInvalidFileType)
}
