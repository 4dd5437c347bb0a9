// Package model implements the quote-to-order file storage subsystem: a flat
// pool of uploaded model files plus per-order folders, with identity encoded
// entirely in paths, filenames and JSON sidecars. There is no database.
package model

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/askhat-b/partforge/internal/config"
	"github.com/askhat-b/partforge/internal/metrics"
	"github.com/askhat-b/partforge/internal/quote"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// modelExtensions is the accepted set of model file formats.
var modelExtensions = map[string]bool{
	"stl":  true,
	"step": true,
	"stp":  true,
	"obj":  true,
}

// unsafeChars matches every character not allowed in a stored filename.
var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// sanitizeFileName replaces disallowed characters with underscores. Case and
// allowed punctuation are preserved.
func sanitizeFileName(name string) string {
	return unsafeChars.ReplaceAllString(name, "_")
}

// Store persists model files to the pool and order folders and locates them
// again by exact, partial or reconstructed identity.
type Store struct {
	poolDir   string
	opTimeout time.Duration
	alloc     *quote.Allocator
	logg      *zap.Logger
	folders   singleflight.Group
	now       func() time.Time
}

// NewStore ensures the base storage directories exist and builds a Store.
func NewStore(cfg config.StorageConfig, alloc *quote.Allocator, logg *zap.Logger) (*Store, error) {
	poolDir := cfg.PoolDir()
	if err := os.MkdirAll(poolDir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create pool dir %s: %v", ErrStorageInit, poolDir, err)
	}

	if logg == nil {
		logg = zap.NewNop()
	}
	if alloc == nil {
		alloc = quote.NewAllocator()
	}

	opTimeout := cfg.OpTimeout
	if opTimeout <= 0 {
		opTimeout = 10 * time.Second
	}

	return &Store{
		poolDir:   poolDir,
		opTimeout: opTimeout,
		alloc:     alloc,
		logg:      logg,
		now:       time.Now,
	}, nil
}

// PoolDir returns the flat pool directory path.
func (s *Store) PoolDir() string {
	return s.poolDir
}

// Ping verifies the pool directory is still readable. Used by readiness checks.
func (s *Store) Ping(ctx context.Context) error {
	return s.do(ctx, func() error {
		_, err := os.ReadDir(s.poolDir)
		return err
	})
}

// do runs one filesystem operation under the per-operation deadline. A missed
// deadline is reported as ErrStorageUnavailable, which callers may retry.
func (s *Store) do(ctx context.Context, fn func() error) error {
	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- fn() }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, ctx.Err())
	}
}

// SaveInput carries one upload into the persistence layer.
type SaveInput struct {
	Bytes       []byte
	FileName    string
	QuoteID     string
	OrderNumber string
	OrderID     string
	PartName    string
	Metadata    map[string]string
}

// Save writes the payload to both the order folder and the flat pool, plus a
// metadata sidecar next to each copy when metadata is supplied. Either write
// failing fails the whole save; the call is idempotent because it overwrites
// by the same stored name.
func (s *Store) Save(ctx context.Context, in SaveInput) (ModelFile, error) {
	fileType := strings.ToLower(strings.TrimPrefix(filepath.Ext(in.FileName), "."))
	if !modelExtensions[fileType] {
		metrics.Uploads.WithLabelValues("invalid_type").Inc()
		return ModelFile{}, fmt.Errorf("%w: .%s", ErrInvalidFileType, fileType)
	}

	quoteID := in.QuoteID
	if quoteID == "" {
		quoteID = quote.NewID()
	}

	baseID := quote.BaseID(quoteID)
	var suffix, suffixedID string
	if quote.IsSuffixed(quoteID) {
		// The incoming id already names a specific part; reuse its suffix.
		suffix = quote.Suffix(quoteID)
		suffixedID = quoteID
	} else {
		suffix = s.alloc.Next(baseID)
		suffixedID = baseID + "-" + suffix
	}

	orderFolder, err := s.resolveOrderFolder(ctx, quoteID, in.OrderID)
	if err != nil {
		metrics.Uploads.WithLabelValues("error").Inc()
		return ModelFile{}, err
	}

	storedName := suffixedID + "_" + sanitizeFileName(in.FileName)
	orderPath := filepath.Join(orderFolder, storedName)
	poolPath := filepath.Join(s.poolDir, storedName)

	now := s.now()

	if err := s.writeBoth(ctx, orderPath, poolPath, in.Bytes); err != nil {
		metrics.Uploads.WithLabelValues("error").Inc()
		return ModelFile{}, err
	}

	if in.Metadata != nil {
		sidecar := Sidecar{
			FileName:        in.FileName,
			BaseQuoteID:     baseID,
			QuoteID:         suffixedID,
			Suffix:          suffix,
			OrderNumber:     in.OrderNumber,
			OrderID:         in.OrderID,
			PartName:        in.PartName,
			Timestamp:       now,
			FileSize:        int64(len(in.Bytes)),
			FileType:        fileType,
			OrderFolderPath: orderFolder,
			Metadata:        in.Metadata,
		}
		if err := s.writeSidecars(ctx, sidecar, orderPath, poolPath); err != nil {
			metrics.Uploads.WithLabelValues("error").Inc()
			return ModelFile{}, err
		}
	}

	s.logg.Info("model saved",
		zap.String("quote_id", suffixedID),
		zap.String("stored_name", storedName),
		zap.String("order_folder", filepath.Base(orderFolder)),
		zap.Int("size", len(in.Bytes)),
	)
	metrics.Uploads.WithLabelValues("stored").Inc()

	return ModelFile{
		ID:             suffixedID + "-" + strconv.FormatInt(now.UnixMilli(), 10),
		FileName:       in.FileName,
		StoredFileName: storedName,
		QuoteID:        suffixedID,
		BaseQuoteID:    baseID,
		Suffix:         suffix,
		OrderNumber:    in.OrderNumber,
		FileType:       fileType,
		FileSize:       int64(len(in.Bytes)),
		UploadDate:     now,
		FilePath:       orderPath,
		FileURL:        "/models/" + suffixedID + "/" + url.PathEscape(in.FileName),
		Metadata:       in.Metadata,
	}, nil
}

// writeBoth writes the payload to the order folder and the pool. On a second-
// write failure the first copy is removed so a failed save leaves no partial
// state behind.
func (s *Store) writeBoth(ctx context.Context, orderPath, poolPath string, data []byte) error {
	if err := s.do(ctx, func() error { return os.WriteFile(orderPath, data, 0o644) }); err != nil {
		s.logg.Error("order folder write failed", zap.String("path", orderPath), zap.Error(err))
		return wrapWrite(err)
	}
	if err := s.do(ctx, func() error { return os.WriteFile(poolPath, data, 0o644) }); err != nil {
		s.logg.Error("pool write failed", zap.String("path", poolPath), zap.Error(err))
		_ = os.Remove(orderPath)
		return wrapWrite(err)
	}
	return nil
}

// writeSidecars serializes the sidecar next to each payload copy.
func (s *Store) writeSidecars(ctx context.Context, sidecar Sidecar, paths ...string) error {
	data, err := json.MarshalIndent(sidecar, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode sidecar: %v", ErrWriteFailed, err)
	}
	for _, p := range paths {
		target := p + sidecarSuffix
		if err := s.do(ctx, func() error { return os.WriteFile(target, data, 0o644) }); err != nil {
			s.logg.Error("sidecar write failed", zap.String("path", target), zap.Error(err))
			return wrapWrite(err)
		}
	}
	return nil
}

func wrapWrite(err error) error {
	if errors.Is(err, ErrStorageUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrWriteFailed, err)
}

// readSidecar loads and decodes the sidecar for a payload path. The second
// return value is false when the sidecar is missing or corrupt.
func readSidecar(payloadPath string) (Sidecar, bool) {
	data, err := os.ReadFile(payloadPath + sidecarSuffix)
	if err != nil {
		return Sidecar{}, false
	}
	var sc Sidecar
	if err := json.Unmarshal(data, &sc); err != nil {
		return Sidecar{}, false
	}
	return sc, true
}

func isSidecarName(name string) bool {
	return strings.HasSuffix(name, sidecarSuffix)
}

func isModelName(name string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	return modelExtensions[ext]
}
