package magic

import (
	"github.com/gobeaver/beaver-kit/config"
)

type Config struct {
	// Magic file or directory; empty uses the built-in database
	File string `env:"MAGIC_FILE"`

	// Leading bytes of a file read by ContentTypeOfFile
	ReadSize int `env:"MAGIC_READ_SIZE,default:102400"`

	// Glob for entries loaded from a directory source, e.g. "*.magic"
	Pattern string `env:"MAGIC_PATTERN"`
}

// GetConfig returns config loaded from environment
func GetConfig() (*Config, error) {
	cfg := &Config{}
	if err := config.Load(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Options converts the config into construction options.
func (c *Config) Options() []Option {
	opts := []Option{WithReadSize(c.ReadSize)}
	if c.Pattern != "" {
		opts = append(opts, WithPattern(c.Pattern))
	}
	return opts
}
