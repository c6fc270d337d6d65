package main

import (
	"flag"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionsApply(t *testing.T) {
	var opts options
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	opts.register(fs)
	require.NoError(t, fs.Parse([]string{
		"-server", "192.0.2.53", "-net", "tcp", "-timeout", "2s",
		"-proto", "udp", "-suffix", "example.net", "-log-level", "debug",
	}))

	cfg := DefaultFileConfig()
	cfg.Servers = []string{"198.51.100.1"}
	opts.apply(cfg)

	assert.Equal(t, []string{"192.0.2.53"}, cfg.Servers)
	assert.Equal(t, "tcp", cfg.Net)
	assert.Equal(t, Duration(2*time.Second), cfg.Timeout)
	assert.Equal(t, "udp", cfg.Protocol)
	assert.Equal(t, "example.net", cfg.SuffixFor("fm"))
	assert.Equal(t, "example.net", cfg.SuffixFor("dvb"))
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestOptionsApplyKeepsFileValues(t *testing.T) {
	var opts options
	cfg := DefaultFileConfig()
	cfg.Servers = []string{"198.51.100.1"}
	cfg.Suffix = "radiodns.example"
	opts.apply(cfg)

	assert.Equal(t, []string{"198.51.100.1"}, cfg.Servers)
	assert.Equal(t, "radiodns.example", cfg.Suffix)
	assert.Equal(t, "udp", cfg.Net)
}

func TestNewSessionFromZone(t *testing.T) {
	opts := options{zone: writeConfig(t, "records: []\n"), app: "radioepg", sort: true}
	s, err := newSession(&opts)
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, "radioepg", s.lookup.App)
	assert.Equal(t, "tcp", s.lookup.Protocol)
	assert.True(t, s.lookup.Sort)
	assert.NotNil(t, s.lookup.Config.Querier)
	assert.Nil(t, s.lookup.Config.TraceLogger)
}
