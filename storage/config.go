package storage

import "log/slog"

// defaultStorageRoot mirrors the source's default, translated from
// "./blob_diff_storage" to this project's name.
const defaultStorageRoot = "./fiver_storage"

// Config holds the tunables for a Store. Zero value is not usable
// directly; build one with NewConfig.
type Config struct {
	Root   string
	Logger *slog.Logger
}

// Option configures a Config. Apply with NewConfig.
type Option func(*Config)

// WithRoot overrides the storage root directory.
func WithRoot(root string) Option {
	return func(c *Config) { c.Root = root }
}

// WithLogger attaches a structured logger for operationally-interesting
// events (append, delete, orphan detection during enumeration). A nil
// logger (the default) makes the Store silent.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) { c.Logger = logger }
}

// NewConfig applies opts over the default configuration.
func NewConfig(opts ...Option) Config {
	cfg := Config{Root: defaultStorageRoot}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

func (c Config) log() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.NewTextHandler(discardWriter{}, nil))
	}
	return c.Logger
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }
