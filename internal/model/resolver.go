package model

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/askhat-b/partforge/internal/metrics"
	"go.uber.org/zap"
)

// matchQuery carries one resolution request through the matcher cascade.
type matchQuery struct {
	id        string
	fileName  string
	sanitized string
}

// matcher is one tier of the resolution cascade. Tiers are evaluated in a
// fixed order of descending specificity; a looser tier must only run after
// every stricter one has failed, otherwise multiple parts sharing a filename
// can produce false positives.
type matcher struct {
	tier    string
	resolve func(s *Store, q matchQuery) (string, bool)
}

var matchers = []matcher{
	{"exact_path", (*Store).matchExactPath},
	{"exact_name", (*Store).matchExactName},
	{"prefix_and_suffix", (*Store).matchPrefixAndSuffix},
	{"prefix", (*Store).matchPrefix},
	{"order_folder", (*Store).matchOrderFolder},
}

// Resolve locates the physical file for a quote id and filename. Callers
// often hold only a truncated or re-derived identifier, so the cascade
// trades precision for recall; the first tier to produce a hit wins.
func (s *Store) Resolve(ctx context.Context, quoteID, fileName string) (string, error) {
	q := matchQuery{
		id:        quoteID,
		fileName:  fileName,
		sanitized: sanitizeFileName(fileName),
	}

	var path, tier string
	err := s.do(ctx, func() error {
		for _, m := range matchers {
			if p, ok := m.resolve(s, q); ok {
				path, tier = p, m.tier
				return nil
			}
		}
		return ErrModelNotFound
	})
	if err != nil {
		metrics.Resolutions.WithLabelValues("none").Inc()
		s.logg.Warn("model resolution exhausted",
			zap.String("quote_id", quoteID),
			zap.String("file_name", fileName),
		)
		return "", err
	}

	metrics.Resolutions.WithLabelValues(tier).Inc()
	s.logg.Debug("model resolved",
		zap.String("quote_id", quoteID),
		zap.String("tier", tier),
		zap.String("path", path),
	)
	return path, nil
}

// Tier 1: the exact pool path computed from id and sanitized filename.
func (s *Store) matchExactPath(q matchQuery) (string, bool) {
	path := filepath.Join(s.poolDir, q.id+"_"+q.sanitized)
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		return path, true
	}
	return "", false
}

// Tier 2: a pool listing entry equal to the computed name. Defensive
// re-check of tier 1 against listing state.
func (s *Store) matchExactName(q matchQuery) (string, bool) {
	want := q.id + "_" + q.sanitized
	return s.findPoolFile(func(name string) bool {
		return name == want
	})
}

// Tier 3: id-prefixed entry ending with the sanitized filename.
func (s *Store) matchPrefixAndSuffix(q matchQuery) (string, bool) {
	return s.findPoolFile(func(name string) bool {
		return strings.HasPrefix(name, q.id+"_") && strings.HasSuffix(name, q.sanitized)
	})
}

// Tier 4: any id-prefixed entry.
func (s *Store) matchPrefix(q matchQuery) (string, bool) {
	return s.findPoolFile(func(name string) bool {
		return strings.HasPrefix(name, q.id+"_")
	})
}

// Tier 5: scan order folders. Folders referencing the id by name are tried
// first with exact-then-partial filename matching; remaining folders may
// still hold the part when they were named from a payment/order id the
// caller never saw, but only entries that reference the id are accepted
// there.
func (s *Store) matchOrderFolder(q matchQuery) (string, bool) {
	dirs, err := s.orderFolders()
	if err != nil {
		return "", false
	}

	for _, dir := range dirs {
		if strings.Contains(dir, q.id) {
			if p, ok := s.scanOrderFolder(dir, q, true); ok {
				return p, true
			}
		}
	}
	for _, dir := range dirs {
		if strings.Contains(dir, q.id) {
			continue
		}
		if p, ok := s.scanOrderFolder(dir, q, false); ok {
			return p, true
		}
	}
	return "", false
}

func (s *Store) scanOrderFolder(dir string, q matchQuery, allowFileNameOnly bool) (string, bool) {
	entries, err := os.ReadDir(filepath.Join(s.poolDir, dir))
	if err != nil {
		return "", false
	}

	if allowFileNameOnly {
		for _, e := range entries {
			if e.IsDir() || isSidecarName(e.Name()) {
				continue
			}
			if e.Name() == q.fileName || e.Name() == q.sanitized {
				return filepath.Join(s.poolDir, dir, e.Name()), true
			}
		}
	}
	for _, e := range entries {
		if e.IsDir() || isSidecarName(e.Name()) {
			continue
		}
		name := e.Name()
		if strings.Contains(name, q.id) {
			return filepath.Join(s.poolDir, dir, name), true
		}
		if allowFileNameOnly &&
			(strings.HasSuffix(name, q.sanitized) || strings.HasSuffix(name, q.fileName)) {
			return filepath.Join(s.poolDir, dir, name), true
		}
	}
	return "", false
}

// findPoolFile returns the first non-sidecar pool file accepted by match.
func (s *Store) findPoolFile(match func(name string) bool) (string, bool) {
	entries, err := os.ReadDir(s.poolDir)
	if err != nil {
		return "", false
	}
	for _, e := range entries {
		if e.IsDir() || isSidecarName(e.Name()) {
			continue
		}
		if match(e.Name()) {
			return filepath.Join(s.poolDir, e.Name()), true
		}
	}
	return "", false
}

// Delete locates a model by its logical id and removes the payload together
// with its metadata sidecar. The cascade is broader than Resolve because the
// id may be a stored filename, a URL-encoded logical path, or a fragment.
// A missing sidecar is not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	var target string
	err := s.do(ctx, func() error {
		target = s.locateForDelete(id)
		if target == "" {
			return ErrModelNotFound
		}
		if err := os.Remove(target); err != nil {
			return wrapWrite(err)
		}
		if err := os.Remove(target + sidecarSuffix); err != nil && !os.IsNotExist(err) {
			return wrapWrite(err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logg.Info("model deleted", zap.String("id", id), zap.String("path", target))
	return nil
}

func (s *Store) locateForDelete(id string) string {
	// Direct hit: id is the stored filename itself.
	direct := filepath.Join(s.poolDir, id)
	if info, err := os.Stat(direct); err == nil && !info.IsDir() {
		return direct
	}

	// The logical retrieval path form "<quoteID>/<urlEncodedFileName>".
	decoded, err := url.QueryUnescape(id)
	if err != nil {
		decoded = id
	}
	if quoteID, fileName, ok := strings.Cut(decoded, "/"); ok {
		q := matchQuery{id: quoteID, fileName: fileName, sanitized: sanitizeFileName(fileName)}
		for _, m := range matchers {
			if p, found := m.resolve(s, q); found {
				return p
			}
		}
	}

	// Pool scan: exact, prefixed, suffixed, or decoded name.
	if p, ok := s.findPoolFile(func(name string) bool {
		return name == id ||
			strings.HasPrefix(name, id+"_") ||
			strings.HasPrefix(name, id) ||
			strings.HasSuffix(name, id) ||
			name == decoded
	}); ok {
		return p
	}

	return ""
}
