package conf

import (
	"fmt"

	"github.com/squareup/pgrow/common"
	"github.com/squareup/pgrow/errors"
)

const (
	DefaultStatementCacheSize = 256
	DefaultMaxLineWidth       = 120
	DefaultMetricsListenAddr  = "localhost:2112"
	MinLineWidth              = 10
	MaxLineWidth              = 10000
	MaxStatementCacheSize     = 1 << 20
)

// Config is shared by the client and the pgrow CLI, which fills it from flags and an optional HCL file.
type Config struct {
	StatementCacheSize int    `json:"statement_cache_size,omitempty" help:"Maximum number of prepared statements kept per client" default:"256"`
	DefaultFormat      string `json:"default_format,omitempty" help:"Result encoding requested when none is given" enum:"text,binary" default:"binary"`
	MaxLineWidth       int    `json:"max_line_width,omitempty" help:"Maximum width of a printed table line" default:"120"`
	MetricsEnabled     bool   `json:"metrics_enabled,omitempty" help:"Export metrics over HTTP"`
	MetricsListenAddr  string `json:"metrics_listen_addr,omitempty" name:"metrics-addr" help:"Address the metrics HTTP server listens on" default:"localhost:2112"`
}

func NewDefaultConfig() *Config {
	return &Config{
		StatementCacheSize: DefaultStatementCacheSize,
		DefaultFormat:      common.FormatBinary.String(),
		MaxLineWidth:       DefaultMaxLineWidth,
		MetricsListenAddr:  DefaultMetricsListenAddr,
	}
}

func (c *Config) Validate() error {
	if c.StatementCacheSize < 1 || c.StatementCacheSize > MaxStatementCacheSize {
		return errors.NewInvalidConfigurationError(fmt.Sprintf("StatementCacheSize must be in the range 1 to %d", MaxStatementCacheSize))
	}
	if _, ok := common.ParseFormat(c.DefaultFormat); !ok {
		return errors.NewInvalidConfigurationError("DefaultFormat must be either text or binary")
	}
	if c.MaxLineWidth < MinLineWidth || c.MaxLineWidth > MaxLineWidth {
		return errors.NewInvalidConfigurationError(fmt.Sprintf("MaxLineWidth must be in the range %d to %d", MinLineWidth, MaxLineWidth))
	}
	if c.MetricsEnabled && c.MetricsListenAddr == "" {
		return errors.NewInvalidConfigurationError("MetricsListenAddr must be specified when MetricsEnabled is true")
	}
	return nil
}

// Format returns DefaultFormat as a common.Format. The config must have been validated.
func (c *Config) Format() common.Format {
	f, _ := common.ParseFormat(c.DefaultFormat)
	return f
}
