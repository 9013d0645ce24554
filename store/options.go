package store

import (
	"io"
	"log/slog"

	"github.com/viant/densevec/internal/blockzip"
)

type options struct {
	logger  *slog.Logger
	metrics MetricsCollector
	codec   blockzip.Codec
}

// Option configures a SQLiteStore at construction time.
type Option func(*options)

// WithLogger configures structured logging for store operations. Pass nil to
// keep logging disabled.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMetrics configures a metrics collector for store operations. Pass nil
// to keep metrics disabled.
func WithMetrics(mc MetricsCollector) Option {
	return func(o *options) {
		if mc != nil {
			o.metrics = mc
		}
	}
}

// WithSourceCompression selects the codec document sources are compressed
// with at rest. Reads always honor the codec a row was written under, so the
// option can change between opens of the same database.
func WithSourceCompression(codec blockzip.Codec) Option {
	return func(o *options) { o.codec = codec }
}

func applyOptions(opts []Option) options {
	o := options{
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics: NoopMetricsCollector{},
		codec:   blockzip.None,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}
