package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/discograph/pkg/observability"
)

// logHooks reports graph and upstream HTTP events to a logger.
type logHooks struct {
	logger *log.Logger
}

var (
	_ observability.GraphHooks = logHooks{}
	_ observability.HTTPHooks  = logHooks{}
)

// registerHooks routes observability events to l. Call once per process.
func registerHooks(l *log.Logger) {
	h := logHooks{logger: l}
	observability.SetGraphHooks(h)
	observability.SetHTTPHooks(h)
}

func (h logHooks) OnReset(_ context.Context, artistID string, releaseCount int) {
	h.logger.Debug("graph reset", "artist", artistID, "releases", releaseCount)
}

func (h logHooks) OnExpand(_ context.Context, releaseNodeID string, added int) {
	h.logger.Debug("release expanded", "node", releaseNodeID, "videos", added)
}

func (h logHooks) OnDiscard(_ context.Context, operation string, generation uint64) {
	h.logger.Debug("stale result discarded", "op", operation, "generation", generation)
}

func (h logHooks) OnFailure(_ context.Context, operation string, d time.Duration, err error) {
	h.logger.Debug("action failed", "op", operation, "duration", d.Round(time.Millisecond), "err", err)
}

func (h logHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("upstream request", "method", method, "host", host, "path", path)
}

func (h logHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	l := h.logger.With("method", method, "host", host, "path", path, "status", status, "duration", d.Round(time.Millisecond))
	if status >= 500 || status == 429 {
		l.Warn("upstream response")
		return
	}
	l.Debug("upstream response")
}

func (h logHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Warn("upstream request failed", "method", method, "host", host, "path", path, "err", err)
}
