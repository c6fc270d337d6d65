// Command radiodns resolves RadioDNS source domains and discovers the
// application instances published for them.
//
// Usage:
//
//	radiodns <command> [flags] [args]
//
// Commands:
//
//	lookup    Resolve one or more source domains
//	fm        FM service: FREQ PI COUNTRY
//	dab       DAB service: SCIDS SID EID ECC
//	dab-sc    DAB service component: PA SCIDS SID EID ECC
//	dab-xpad  DAB X-PAD application: APPTYPE UATYPE SCIDS SID EID ECC
//	drm       DRM service: SID
//	amss      AMSS service: SID
//	hd        HD Radio service: TX CC
//	dvb       DVB service: ONID TSID SID NID
//	shell     Interactive shell
//
// Examples:
//
//	# Resolve the authoritative FQDN of 95.8MHz, PI C479, Germany
//	radiodns fm 9580 0xc479 de0
//
//	# Discover RadioEPG instances for a DAB service
//	radiodns dab -app radioepg 0 0xc221 0xe1c0 0xe1
//
//	# Answer from a fixture zone and record a trace
//	radiodns lookup -zone zone.yaml -trace-log lookup.rlog 09580.c479.de0.fm.radiodns.org
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/nexgenta/libradiodns/cmd/radiodns/commands"
	"github.com/nexgenta/libradiodns/cmd/radiodns/interactive"
	"github.com/nexgenta/libradiodns/pkg/log"
	"github.com/nexgenta/libradiodns/pkg/radiodns"
)

const usage = `radiodns - RadioDNS resolver

Usage:
  radiodns <command> [flags] [args]

Commands:
  lookup    Resolve one or more source domains
  fm        FM service: FREQ PI COUNTRY
  dab       DAB service: SCIDS SID EID ECC
  dab-sc    DAB service component: PA SCIDS SID EID ECC
  dab-xpad  DAB X-PAD application: APPTYPE UATYPE SCIDS SID EID ECC
  drm       DRM service: SID
  amss      AMSS service: SID
  hd        HD Radio service: TX CC
  dvb       DVB service: ONID TSID SID NID
  shell     Interactive shell

Use "radiodns <command> -help" for more information about a command.
`

// options are the flags shared by every command.
type options struct {
	config    string
	zone      string
	server    string
	net       string
	timeout   time.Duration
	app       string
	proto     string
	suffix    string
	sort      bool
	traceLog  string
	logLevel  string
	domainOut bool
}

func (o *options) register(fs *flag.FlagSet) {
	fs.StringVar(&o.config, "config", "", "YAML configuration file")
	fs.StringVar(&o.zone, "zone", "", "Answer queries from a YAML zone file")
	fs.StringVar(&o.server, "server", "", "Name server (host or host:port), overrides the configuration")
	fs.StringVar(&o.net, "net", "", "Query transport (udp, tcp, tcp-tls)")
	fs.DurationVar(&o.timeout, "timeout", 0, "Timeout per exchange")
	fs.StringVar(&o.app, "app", "", "Discover instances of this application (e.g. radioepg)")
	fs.StringVar(&o.proto, "proto", "", "Application protocol (default tcp)")
	fs.StringVar(&o.suffix, "suffix", "", "Domain suffix replacing radiodns.org or tvdns.net")
	fs.BoolVar(&o.sort, "sort", false, "Sort SRV entries by priority and weight")
	fs.StringVar(&o.traceLog, "trace-log", "", "Append resolution trace events to this file")
	fs.StringVar(&o.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.BoolVar(&o.domainOut, "domain-only", false, "Print the source domain without resolving it")
}

// apply overlays the flags that were set onto cfg.
func (o *options) apply(cfg *FileConfig) {
	if o.zone != "" {
		cfg.Zone = o.zone
	}
	if o.server != "" {
		cfg.Servers = []string{o.server}
	}
	if o.net != "" {
		cfg.Net = o.net
	}
	if o.timeout > 0 {
		cfg.Timeout = Duration(o.timeout)
	}
	if o.proto != "" {
		cfg.Protocol = o.proto
	}
	if o.suffix != "" {
		cfg.Suffix = o.suffix
		cfg.DVBSuffix = o.suffix
	}
	if o.traceLog != "" {
		cfg.TraceLog = o.traceLog
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "lookup":
		runLookup(args)
	case "shell":
		runShell(args)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		b, ok := commands.LookupBearer(cmd)
		if !ok {
			fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
			fmt.Fprint(os.Stderr, usage)
			os.Exit(1)
		}
		runBearer(b, args)
	}
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func newFlagSet(name, synopsis string, opts *options) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage:\n  radiodns %s [flags] %s\n\nFlags:\n", name, synopsis)
		fs.PrintDefaults()
	}
	opts.register(fs)
	return fs
}

// session holds what a command needs to run lookups.
type session struct {
	cfg    *FileConfig
	lookup *commands.Lookup
	logger *slog.Logger
	trace  *log.FileLogger
}

func (s *session) Close() {
	if s.trace != nil {
		if err := s.trace.Close(); err != nil {
			s.logger.Warn("close trace log", "error", err)
		}
	}
}

func newSession(opts *options) (*session, error) {
	cfg, err := LoadConfig(opts.config)
	if err != nil {
		return nil, err
	}
	opts.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level, _ := parseLevel(cfg.LogLevel)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	querier, err := cfg.Querier(logger)
	if err != nil {
		return nil, fmt.Errorf("create querier: %w", err)
	}

	s := &session{cfg: cfg, logger: logger}

	var sinks []log.Logger
	if cfg.TraceLog != "" {
		s.trace, err = log.NewFileLogger(cfg.TraceLog)
		if err != nil {
			return nil, fmt.Errorf("open trace log: %w", err)
		}
		sinks = append(sinks, s.trace)
	}
	if level <= slog.LevelDebug {
		sinks = append(sinks, log.NewSlogAdapter(logger))
	}

	rcfg := radiodns.DefaultConfig()
	rcfg.Querier = querier
	rcfg.Logger = logger
	if len(sinks) > 0 {
		rcfg.TraceLogger = log.NewMultiLogger(sinks...)
	}
	if cfg.MaxRedirects > 0 {
		rcfg.MaxRedirects = cfg.MaxRedirects
	}
	if cfg.AnswerBufferSize > 0 {
		rcfg.AnswerBufferSize = cfg.AnswerBufferSize
	}

	s.lookup = &commands.Lookup{
		Config:   rcfg,
		App:      opts.app,
		Protocol: cfg.Protocol,
		Sort:     opts.sort,
	}
	return s, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runLookup(args []string) {
	var opts options
	fs := newFlagSet("lookup", "<domain>...", &opts)
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: at least one domain required")
		fs.Usage()
		os.Exit(1)
	}

	s, err := newSession(&opts)
	if err != nil {
		fail(err)
	}
	defer s.Close()

	ctx, cancel := signalContext()
	defer cancel()

	if failed := s.lookup.RunAll(ctx, fs.Args(), os.Stdout, os.Stderr); failed > 0 {
		s.Close()
		os.Exit(1)
	}
}

func runBearer(b commands.Bearer, args []string) {
	var opts options
	fs := newFlagSet(b.Name, strings.Join(b.Args, " "), &opts)
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if opts.domainOut {
		cfg, err := LoadConfig(opts.config)
		if err != nil {
			fail(err)
		}
		opts.apply(cfg)
		domain, err := b.Domain(fs.Args(), cfg.SuffixFor(b.Name))
		if err != nil {
			fail(err)
		}
		fmt.Println(domain)
		return
	}

	s, err := newSession(&opts)
	if err != nil {
		fail(err)
	}
	defer s.Close()

	domain, err := b.Domain(fs.Args(), s.cfg.SuffixFor(b.Name))
	if err != nil {
		s.Close()
		fail(err)
	}

	ctx, cancel := signalContext()
	defer cancel()

	if err := s.lookup.Run(ctx, domain, os.Stdout); err != nil {
		s.Close()
		fail(err)
	}
}

func runShell(args []string) {
	var opts options
	fs := newFlagSet("shell", "", &opts)
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	s, err := newSession(&opts)
	if err != nil {
		fail(err)
	}
	defer s.Close()

	sh, err := interactive.New(s.lookup, s.cfg.SuffixFor)
	if err != nil {
		fail(err)
	}

	ctx, cancel := signalContext()
	defer cancel()

	sh.Run(ctx)
}
