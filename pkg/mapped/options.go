package mapped

import (
	"io"
	"log/slog"

	"github.com/goliatone/go-mappedtypes/pkg/validation"
)

// Option configures a Generator.
type Option func(*Generator)

// WithLogger sets the logger used for diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithOptionalFiltering toggles optional-marker handling. When disabled,
// Required copies every validation rule unfiltered and Partial adds no markers.
func WithOptionalFiltering(enabled bool) Option {
	return func(g *Generator) {
		g.filterOptional = enabled
	}
}

// WithOptionalKind names the rule kind that marks a field optional. An empty
// kind means the marker is unavailable and filtering fails open.
func WithOptionalKind(kind string) Option {
	return func(g *Generator) {
		g.optionalKind = kind
	}
}

func defaultGenerator() Generator {
	return Generator{
		logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		filterOptional: true,
		optionalKind:   validation.KindIsOptional,
	}
}
