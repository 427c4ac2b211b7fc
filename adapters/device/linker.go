package device

import (
	"context"
	"strings"
	"sync"

	"github.com/layer-3/signa/ports"
	"go.uber.org/zap"
)

// StaticLinker answers capability checks from a fixed list of installed schemes
// and records every URI it is asked to open
type StaticLinker struct {
	installed map[string]bool
	logger    *zap.Logger

	mu     sync.Mutex
	opened []string
}

// NewStaticLinker creates a linker that treats the given schemes as installed.
// Schemes may be passed as "phantom" or "phantom://".
func NewStaticLinker(schemes []string, logger *zap.Logger) *StaticLinker {
	installed := make(map[string]bool, len(schemes))
	for _, s := range schemes {
		if s = normalizeScheme(s); s != "" {
			installed[s] = true
		}
	}
	return &StaticLinker{installed: installed, logger: logger}
}

var _ ports.Linker = (*StaticLinker)(nil)

// CanOpen reports whether an app handling scheme is installed
func (l *StaticLinker) CanOpen(ctx context.Context, scheme string) (bool, error) {
	return l.installed[normalizeScheme(scheme)], nil
}

// Open records the URI as opened
func (l *StaticLinker) Open(ctx context.Context, uri string) error {
	l.mu.Lock()
	l.opened = append(l.opened, uri)
	l.mu.Unlock()

	l.logger.Info("opening link", zap.String("uri", uri))
	return nil
}

// Opened returns the URIs opened so far
func (l *StaticLinker) Opened() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]string, len(l.opened))
	copy(out, l.opened)
	return out
}

func normalizeScheme(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimSuffix(s, "://")
	s = strings.TrimSuffix(s, ":")
	return s
}
