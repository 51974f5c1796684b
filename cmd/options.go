package cmd

// Options holds the shared command-line options for the repoquery CLI.
type Options struct {
	Format      string
	Limit       int
	Window      string
	Complete    bool
	NoCache     bool
	NoLLM       bool
	Interactive bool
	Verbosity   int
}

// Option is a functional option for configuring Options.
type Option func(*Options)

// NewOptions creates a new Options with defaults and applies any provided options.
func NewOptions(opts ...Option) *Options {
	o := &Options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithFormat sets the output format (table, json, markdown).
func WithFormat(format string) Option {
	return func(o *Options) {
		o.Format = format
	}
}

// WithLimit overrides the number of results regardless of the query text.
func WithLimit(limit int) Option {
	return func(o *Options) {
		o.Limit = limit
	}
}

// WithWindow overrides the time window (week, month, year).
func WithWindow(window string) Option {
	return func(o *Options) {
		o.Window = window
	}
}

// WithComplete enables model-generated answer prose.
func WithComplete(complete bool) Option {
	return func(o *Options) {
		o.Complete = complete
	}
}

// WithNoCache bypasses the result cache.
func WithNoCache(noCache bool) Option {
	return func(o *Options) {
		o.NoCache = noCache
	}
}

// WithNoLLM disables all language model usage, forcing rule-based
// understanding and template answers.
func WithNoLLM(noLLM bool) Option {
	return func(o *Options) {
		o.NoLLM = noLLM
	}
}

// WithInteractive starts the interactive ask loop.
func WithInteractive(interactive bool) Option {
	return func(o *Options) {
		o.Interactive = interactive
	}
}

// WithVerbosity sets the verbosity level.
func WithVerbosity(v int) Option {
	return func(o *Options) {
		o.Verbosity = v
	}
}
