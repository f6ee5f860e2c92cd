package log

import (
	"context"
	"log/slog"

	"github.com/cockroachdb/errors"
)

// StacktraceHandler は error 属性を持つレコードに stacktrace 属性を
// 付加するslogハンドラ。学習・推論のエラーは cockroachdb/errors で
// スタック付きに包まれているため、ログ側で展開して1レコードに収める。
type StacktraceHandler struct {
	next slog.Handler
}

// WithStacktraces wraps a handler so that records logged with ErrAttr carry
// the wrapped error's stacktrace as a separate attribute.
func WithStacktraces(next slog.Handler) slog.Handler {
	return &StacktraceHandler{next: next}
}

func (h *StacktraceHandler) Enabled(ctx context.Context, l slog.Level) bool {
	return h.next.Enabled(ctx, l)
}

func (h *StacktraceHandler) Handle(ctx context.Context, r slog.Record) error {
	if trace := recordStacktrace(r); trace != "" {
		r.AddAttrs(slog.String(StacktraceAttrKey, trace))
	}
	return h.next.Handle(ctx, r)
}

func (h *StacktraceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &StacktraceHandler{next: h.next.WithAttrs(attrs)}
}

func (h *StacktraceHandler) WithGroup(g string) slog.Handler {
	return &StacktraceHandler{next: h.next.WithGroup(g)}
}

// recordStacktrace finds the ErrAttrKey attribute and pulls the stacktrace
// out of its error value, if it carries one.
func recordStacktrace(r slog.Record) string {
	var trace string
	r.Attrs(func(attr slog.Attr) bool {
		if attr.Key != ErrAttrKey {
			return true
		}
		if err, ok := attr.Value.Any().(error); ok {
			details := errors.GetSafeDetails(err).SafeDetails
			if len(details) > 0 {
				trace = details[0]
			}
		}
		return false
	})
	return trace
}
