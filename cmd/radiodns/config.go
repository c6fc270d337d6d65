package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/nexgenta/libradiodns/pkg/dnsquery"
	"github.com/nexgenta/libradiodns/pkg/radiodns"
)

// FileConfig is the YAML configuration file. Command-line flags override
// its values.
type FileConfig struct {
	// Servers lists recursive name servers (host or host:port).
	Servers []string `yaml:"servers"`

	// Net is the query transport: udp, tcp or tcp-tls.
	Net string `yaml:"net"`

	// Timeout bounds each exchange, e.g. "3s".
	Timeout Duration `yaml:"timeout"`

	// ResolvConf supplies servers when Servers is empty.
	ResolvConf string `yaml:"resolv_conf"`

	MaxRedirects     int `yaml:"max_redirects"`
	AnswerBufferSize int `yaml:"answer_buffer_size"`

	// Suffix and DVBSuffix replace radiodns.org and tvdns.net.
	Suffix    string `yaml:"suffix"`
	DVBSuffix string `yaml:"dvb_suffix"`

	// Protocol is the default application protocol.
	Protocol string `yaml:"protocol"`

	// TraceLog is a trace file to append to.
	TraceLog string `yaml:"trace_log"`

	// LogLevel is debug, info, warn or error.
	LogLevel string `yaml:"log_level"`

	// Zone answers queries from a YAML zone file instead of the network.
	Zone string `yaml:"zone"`
}

// Duration is a time.Duration read from a string such as "500ms".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("line %d: invalid duration %q", node.Line, s)
	}
	*d = Duration(v)
	return nil
}

// DefaultFileConfig returns the built-in defaults.
func DefaultFileConfig() *FileConfig {
	return &FileConfig{
		Net:              dnsquery.DefaultNet,
		Timeout:          Duration(dnsquery.DefaultTimeout),
		ResolvConf:       dnsquery.DefaultResolvConf,
		MaxRedirects:     radiodns.DefaultMaxRedirects,
		AnswerBufferSize: radiodns.DefaultAnswerBufferSize,
		Protocol:         radiodns.DefaultProtocol,
		LogLevel:         "info",
	}
}

// LoadConfig reads path over the defaults and validates the result. An
// empty path returns the defaults.
func LoadConfig(path string) (*FileConfig, error) {
	cfg := DefaultFileConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks field values.
func (c *FileConfig) Validate() error {
	var errs []error
	switch c.Net {
	case "udp", "tcp", "tcp-tls":
	default:
		errs = append(errs, fmt.Errorf("net: unsupported transport %q", c.Net))
	}
	if c.Timeout < 0 {
		errs = append(errs, errors.New("timeout: must not be negative"))
	}
	if c.MaxRedirects < 0 {
		errs = append(errs, errors.New("max_redirects: must not be negative"))
	}
	if c.AnswerBufferSize != 0 && c.AnswerBufferSize < 512 {
		errs = append(errs, errors.New("answer_buffer_size: must be at least 512"))
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}
	return errors.Join(errs...)
}

// SuffixFor returns the configured suffix for a bearer subcommand.
func (c *FileConfig) SuffixFor(bearer string) string {
	if bearer == "dvb" {
		return c.DVBSuffix
	}
	return c.Suffix
}

// Querier builds the DNS collaborator the configuration describes.
func (c *FileConfig) Querier(logger *slog.Logger) (radiodns.Querier, error) {
	if c.Zone != "" {
		return dnsquery.LoadZone(c.Zone)
	}
	return dnsquery.NewUnicastQuerier(dnsquery.UnicastConfig{
		Servers:    c.Servers,
		ResolvConf: c.ResolvConf,
		Net:        c.Net,
		Timeout:    time.Duration(c.Timeout),
		Logger:     logger,
	})
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown level %q", s)
	}
}
