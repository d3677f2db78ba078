package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every hook event to a logger at debug level. Failures
// are logged at warn level.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks that log to logger, prefixed with "hooks".
func NewLogHooks(logger *log.Logger) *LogHooks {
	return &LogHooks{logger: logger.WithPrefix("hooks")}
}

func (h *LogHooks) done(err error, msg string, kv ...any) {
	if err != nil {
		h.logger.Warn(msg, append(kv, "err", err)...)
		return
	}
	h.logger.Debug(msg, kv...)
}

func (h *LogHooks) OnFetchStart(_ context.Context, source, pageID string) {
	h.logger.Debug("fetch start", "source", source, "page", pageID)
}

func (h *LogHooks) OnFetchComplete(_ context.Context, source, pageID string, blocks int, d time.Duration, err error) {
	h.done(err, "fetch complete", "source", source, "page", pageID, "blocks", blocks, "duration", d)
}

func (h *LogHooks) OnBlockRendered(_ context.Context, typename string, cached bool, d time.Duration, err error) {
	h.done(err, "block rendered", "typename", typename, "cached", cached, "duration", d)
}

func (h *LogHooks) OnUnknownTypename(_ context.Context, typename string) {
	h.logger.Warn("unknown typename", "typename", typename)
}

func (h *LogHooks) OnPageComplete(_ context.Context, pageID string, blocks int, d time.Duration, err error) {
	h.done(err, "page complete", "page", pageID, "blocks", blocks, "duration", d)
}

func (h *LogHooks) OnSubmit(_ context.Context, typename, status string, d time.Duration) {
	h.logger.Debug("form submit", "typename", typename, "status", status, "duration", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "kind", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "kind", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "kind", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("http request", "method", method, "host", host, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("http response", "method", method, "host", host, "path", path, "status", status, "duration", d)
}

func (h *LogHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Warn("http error", "method", method, "host", host, "path", path, "err", err)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ FormHooks     = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ HTTPHooks     = (*LogHooks)(nil)
)
