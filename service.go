package magic

import (
	"sync"

	"github.com/gobeaver/beaver-kit/config"
)

// Global instance
var (
	defaultMagic *Magic
	defaultMu    sync.Mutex
)

// Builder creates Magic instances from environment variables with a
// custom prefix
type Builder struct {
	prefix string
}

// WithPrefix creates a new Builder with the specified prefix
func WithPrefix(prefix string) *Builder {
	return &Builder{prefix: prefix}
}

// New creates a Magic using the builder's prefix
func (b *Builder) New(opts ...Option) (*Magic, error) {
	cfg := &Config{}
	if err := config.Load(cfg, config.LoadOptions{Prefix: b.prefix}); err != nil {
		return nil, err
	}
	return NewFromConfig(cfg, opts...)
}

// NewFromConfig creates a Magic from cfg. Options given here are applied
// after the ones derived from cfg.
func NewFromConfig(cfg *Config, opts ...Option) (*Magic, error) {
	all := append(cfg.Options(), opts...)
	if cfg.File == "" {
		return New(all...)
	}
	return NewFromPath(cfg.File, all...)
}

// NewFromEnv creates an instance from environment variables
func NewFromEnv(opts ...Option) (*Magic, error) {
	cfg, err := GetConfig()
	if err != nil {
		return nil, err
	}
	return NewFromConfig(cfg, opts...)
}

// Default returns the process wide Magic configured from the environment,
// creating it on first use. A failed creation is retried on the next call.
func Default() (*Magic, error) {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultMagic != nil {
		return defaultMagic, nil
	}
	m, err := NewFromEnv()
	if err != nil {
		return nil, err
	}
	defaultMagic = m
	return m, nil
}

// ContentTypeOfBytes matches data with the Default instance
func ContentTypeOfBytes(data []byte) (*ContentType, error) {
	m, err := Default()
	if err != nil {
		return nil, err
	}
	return m.ContentTypeOfBytes(data)
}

// ContentTypeOfFile matches the file at path with the Default instance
func ContentTypeOfFile(path string) (*ContentType, error) {
	m, err := Default()
	if err != nil {
		return nil, err
	}
	return m.ContentTypeOfFile(path)
}

// Reset clears the global instance (for testing)
func Reset() {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultMagic = nil
}
