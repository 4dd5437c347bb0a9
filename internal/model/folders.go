package model

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/askhat-b/partforge/internal/quote"
	"go.uber.org/zap"
)

var (
	pstOnce sync.Once
	pstLoc  *time.Location
)

// folderTimestamp renders the creation time of an order folder in Pacific
// time with all punctuation stripped, e.g. 20260828143055.
func folderTimestamp(t time.Time) string {
	pstOnce.Do(func() {
		loc, err := time.LoadLocation("America/Los_Angeles")
		if err != nil {
			loc = time.UTC
		}
		pstLoc = loc
	})
	return t.In(pstLoc).Format("20060102150405")
}

// resolveOrderFolder finds or creates the directory grouping every file of
// one physical order. An order id is preferred when known; the base quote id
// is the fallback. Resolve-or-create is collapsed through singleflight so
// two concurrent saves for the same order cannot each create a folder.
func (s *Store) resolveOrderFolder(ctx context.Context, quoteID, orderID string) (string, error) {
	baseID := quote.BaseID(quoteID)

	key := baseID
	if orderID != "" {
		key = orderID + "|" + baseID
	}

	v, err, _ := s.folders.Do(key, func() (interface{}, error) {
		var path string
		err := s.do(ctx, func() error {
			var inner error
			path, inner = s.findOrCreateOrderFolder(baseID, orderID)
			return inner
		})
		return path, err
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (s *Store) findOrCreateOrderFolder(baseID, orderID string) (string, error) {
	entries, err := os.ReadDir(s.poolDir)
	if err != nil {
		return "", fmt.Errorf("%w: list pool: %v", ErrStorageInit, err)
	}

	if orderID != "" {
		for _, e := range entries {
			if e.IsDir() && strings.HasPrefix(e.Name(), orderID+"-") {
				return filepath.Join(s.poolDir, e.Name()), nil
			}
		}
	}

	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, baseID+"-") || strings.Contains(name, "-"+baseID+"-") {
			return filepath.Join(s.poolDir, name), nil
		}
	}

	preferred := baseID
	if orderID != "" {
		preferred = orderID
	}
	name := preferred + "-" + folderTimestamp(s.now())
	path := filepath.Join(s.poolDir, name)
	if err := os.MkdirAll(path, 0o755); err != nil {
		return "", fmt.Errorf("%w: create order folder %s: %v", ErrWriteFailed, name, err)
	}

	s.logg.Info("order folder created", zap.String("folder", name))
	return path, nil
}

// orderFolders lists every order folder in the pool.
func (s *Store) orderFolders() ([]string, error) {
	entries, err := os.ReadDir(s.poolDir)
	if err != nil {
		return nil, fmt.Errorf("%w: list pool: %v", ErrStorageInit, err)
	}
	var dirs []string
	for _, e := range entries {
		if e.IsDir() {
			dirs = append(dirs, e.Name())
		}
	}
	return dirs, nil
}
