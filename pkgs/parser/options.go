package parser

import (
	"io"
	"log/slog"
)

// ParserOpt represents a parser configuration option
type ParserOpt func(*ParserConfig)

// ParserConfig holds parser configuration
type ParserConfig struct {
	output      io.Writer
	logger      *slog.Logger
	suggestions bool
}

func defaultConfig() *ParserConfig {
	return &ParserConfig{
		output:      io.Discard,
		logger:      slog.New(slog.DiscardHandler),
		suggestions: true,
	}
}

// WithOutput sets where diagnostics and the declared-variables report are printed.
// Output is discarded by default; the ParseTree carries everything either way.
func WithOutput(w io.Writer) ParserOpt {
	return func(c *ParserConfig) {
		if w != nil {
			c.output = w
		}
	}
}

// WithLogger enables production tracing at debug level
func WithLogger(logger *slog.Logger) ParserOpt {
	return func(c *ParserConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithSuggestions controls "did you mean" hints on undefined variables (on by default)
func WithSuggestions(enabled bool) ParserOpt {
	return func(c *ParserConfig) {
		c.suggestions = enabled
	}
}
