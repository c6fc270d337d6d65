package log

import (
	"context"
	"log/slog"
)

// SlogAdapter writes trace events to an slog.Logger at Debug level.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter returns an adapter writing to logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event as a single "radiodns" record.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("trace_id", event.TraceID),
		slog.String("stage", event.Stage.String()),
		slog.String("category", event.Category.String()),
	}
	if event.Domain != "" {
		attrs = append(attrs, slog.String("domain", event.Domain))
	}

	switch {
	case event.Query != nil:
		q := event.Query
		attrs = append(attrs,
			slog.String("name", q.Name),
			slog.String("qtype", q.TypeString()),
			slog.Int("size", q.Size),
			slog.Int("answers", q.Answers),
		)
		if q.Rcode != 0 {
			attrs = append(attrs, slog.Int("rcode", q.Rcode))
		}
		if q.Duration > 0 {
			attrs = append(attrs, slog.Duration("duration", q.Duration))
		}
	case event.Redirect != nil:
		r := event.Redirect
		attrs = append(attrs,
			slog.String("from", r.From),
			slog.String("to", r.To),
			slog.String("rrtype", RRTypeString(r.Type)),
			slog.Int("hop", r.Hop),
		)
	case event.Instance != nil:
		in := event.Instance
		attrs = append(attrs,
			slog.String("instance", in.Name),
			slog.Bool("default", in.Default),
			slog.Int("srv", in.SRVCount),
			slog.Int("params", in.ParamCount),
			slog.String("outcome", in.Outcome.String()),
		)
		if in.Reason != "" {
			attrs = append(attrs, slog.String("reason", in.Reason))
		}
	case event.Error != nil:
		attrs = append(attrs,
			slog.String("error_kind", event.Error.Kind),
			slog.String("error_msg", event.Error.Message),
		)
		if event.Error.Name != "" {
			attrs = append(attrs, slog.String("name", event.Error.Name))
		}
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "radiodns", attrs...)
}

var _ Logger = (*SlogAdapter)(nil)
