// Package healthcheck emits the one-time readiness log line.
package healthcheck

import (
	"log/slog"
	"sync"

	"github.com/aretw0/tally/internal/logging"
)

// Probe reports readiness at most once per instance.
type Probe struct {
	once    sync.Once
	logger  *slog.Logger
	verbose bool
	path    string
}

// New creates a probe. It only logs when verbose is set.
func New(logger *slog.Logger, verbose bool, path string) *Probe {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Probe{logger: logger, verbose: verbose, path: path}
}

// Ready logs the app-ready line the first time it is called. Later calls are no-ops.
func (p *Probe) Ready() {
	p.once.Do(func() {
		if !p.verbose {
			return
		}
		attrs := []any{"component", "calc"}
		if p.path != "" {
			attrs = append(attrs, "healthcheck_path", p.path)
		}
		p.logger.Debug("app-ready", attrs...)
	})
}
