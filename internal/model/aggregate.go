package model

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/askhat-b/partforge/internal/quote"
	"go.uber.org/zap"
)

// OrderModels collects every persisted part belonging to one base quote id,
// reading sidecars to reconstruct per-part attributes. Missing or corrupt
// sidecars degrade to defaults derived from the stored filename. The result
// follows directory-listing order.
func (s *Store) OrderModels(ctx context.Context, quoteID string) ([]ModelFile, error) {
	folder, err := s.resolveOrderFolder(ctx, quoteID, "")
	if err != nil {
		return nil, err
	}

	var models []ModelFile
	err = s.do(ctx, func() error {
		entries, err := os.ReadDir(folder)
		if err != nil {
			return wrapWrite(err)
		}

		for _, e := range entries {
			if e.IsDir() || isSidecarName(e.Name()) || !isModelName(e.Name()) {
				continue
			}
			path := filepath.Join(folder, e.Name())
			info, err := e.Info()
			if err != nil {
				s.logg.Warn("stat failed during aggregation", zap.String("path", path), zap.Error(err))
				continue
			}
			models = append(models, s.rebuildModel(path, e.Name(), info.Size()))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logg.Debug("order models aggregated",
		zap.String("quote_id", quoteID),
		zap.Int("count", len(models)),
	)
	return models, nil
}

// rebuildModel reconstructs a ModelFile from a physical file and, when
// available, its sidecar.
func (s *Store) rebuildModel(path, storedName string, size int64) ModelFile {
	fileType := strings.ToLower(strings.TrimPrefix(filepath.Ext(storedName), "."))

	sc, ok := readSidecar(path)
	if !ok {
		// No usable sidecar: best-effort identity from the stored name,
		// which is "<suffixedQuoteId>_<sanitizedFileName>".
		suffixedID, fileName, found := strings.Cut(storedName, "_")
		if !found {
			suffixedID, fileName = "", storedName
		}
		return ModelFile{
			ID:             suffixedID + "-" + strconv.FormatInt(size, 10),
			FileName:       fileName,
			StoredFileName: storedName,
			QuoteID:        suffixedID,
			BaseQuoteID:    quote.BaseID(suffixedID),
			Suffix:         quote.Suffix(suffixedID),
			FileType:       fileType,
			FileSize:       size,
			FilePath:       path,
			FileURL:        "/models/" + suffixedID + "/" + url.PathEscape(fileName),
		}
	}

	return ModelFile{
		ID:             sc.QuoteID + "-" + strconv.FormatInt(sc.Timestamp.UnixMilli(), 10),
		FileName:       sc.FileName,
		StoredFileName: storedName,
		QuoteID:        sc.QuoteID,
		BaseQuoteID:    sc.BaseQuoteID,
		Suffix:         sc.Suffix,
		OrderNumber:    sc.OrderNumber,
		FileType:       sc.FileType,
		FileSize:       size,
		UploadDate:     sc.Timestamp,
		FilePath:       path,
		FileURL:        "/models/" + sc.QuoteID + "/" + url.PathEscape(sc.FileName),
		Metadata:       sc.Metadata,
	}
}
