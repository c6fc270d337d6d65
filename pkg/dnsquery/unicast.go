package dnsquery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/miekg/dns"

	"github.com/nexgenta/libradiodns/pkg/radiodns"
)

const (
	// DefaultResolvConf is read when no servers are configured.
	DefaultResolvConf = "/etc/resolv.conf"

	// DefaultTimeout bounds each exchange with one server.
	DefaultTimeout = 5 * time.Second

	// DefaultNet is the transport of the first attempt.
	DefaultNet = "udp"
)

// ErrNoServers is returned when no name server could be determined.
var ErrNoServers = errors.New("no name servers configured")

// UnicastConfig configures a UnicastQuerier.
type UnicastConfig struct {
	// Servers lists name servers as host or host:port. Empty means use the
	// servers in ResolvConf.
	Servers []string

	// ResolvConf is the resolver configuration file.
	// Default: /etc/resolv.conf.
	ResolvConf string

	// Net is "udp", "tcp" or "tcp-tls". Truncated UDP answers are retried
	// over TCP. Default: udp.
	Net string

	// Timeout bounds each exchange. Default: 5 seconds.
	Timeout time.Duration

	// Logger receives per-server failures. Nil disables logging.
	Logger *slog.Logger
}

// DefaultUnicastConfig returns the default configuration.
func DefaultUnicastConfig() UnicastConfig {
	return UnicastConfig{
		ResolvConf: DefaultResolvConf,
		Net:        DefaultNet,
		Timeout:    DefaultTimeout,
	}
}

// UnicastQuerier queries recursive name servers in order until one gives a
// usable answer.
type UnicastQuerier struct {
	servers []string
	client  *dns.Client
	tcp     *dns.Client
	logger  *slog.Logger
}

// NewUnicastQuerier creates a querier from cfg.
func NewUnicastQuerier(cfg UnicastConfig) (*UnicastQuerier, error) {
	if cfg.Net == "" {
		cfg.Net = DefaultNet
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	servers := make([]string, 0, len(cfg.Servers))
	for _, s := range cfg.Servers {
		servers = append(servers, withPort(s, "53"))
	}
	if len(servers) == 0 {
		path := cfg.ResolvConf
		if path == "" {
			path = DefaultResolvConf
		}
		cc, err := dns.ClientConfigFromFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		for _, s := range cc.Servers {
			servers = append(servers, net.JoinHostPort(s, cc.Port))
		}
	}
	if len(servers) == 0 {
		return nil, ErrNoServers
	}

	return &UnicastQuerier{
		servers: servers,
		client:  &dns.Client{Net: cfg.Net, Timeout: cfg.Timeout},
		tcp:     &dns.Client{Net: "tcp", Timeout: cfg.Timeout},
		logger:  cfg.Logger,
	}, nil
}

// Servers returns the name servers in query order.
func (q *UnicastQuerier) Servers() []string {
	return append([]string(nil), q.servers...)
}

// Query implements radiodns.Querier.
//
// NOERROR and NXDOMAIN answers are returned as they are. SERVFAIL, REFUSED
// and other response codes, as well as network errors, move on to the next
// server; when every server fails the result is a transient error.
func (q *UnicastQuerier) Query(ctx context.Context, name string, qclass, qtype uint16, answer []byte) (int, error) {
	req := new(dns.Msg)
	req.SetQuestion(dns.Fqdn(name), qtype)
	req.Question[0].Qclass = qclass
	req.RecursionDesired = true
	req.SetEdns0(ednsSize(len(answer)), false)

	var lastErr error
	for _, server := range q.servers {
		resp, err := q.exchange(ctx, req, server)
		if err != nil {
			lastErr = err
			q.warn("dnsquery: exchange failed", "server", server, "name", name, "error", err)
			if ctx.Err() != nil {
				break
			}
			continue
		}

		switch resp.Rcode {
		case dns.RcodeSuccess, dns.RcodeNameError:
			return radiodns.PackAnswer(resp, name, answer)
		default:
			lastErr = fmt.Errorf("%s from %s", dns.RcodeToString[resp.Rcode], server)
			q.warn("dnsquery: server error", "server", server, "name", name, "rcode", dns.RcodeToString[resp.Rcode])
		}
	}

	if lastErr == nil {
		lastErr = ErrNoServers
	}
	return 0, radiodns.NewTransientError("query", name, fmt.Errorf("%w: %w", radiodns.ErrQueryFailed, lastErr))
}

func (q *UnicastQuerier) exchange(ctx context.Context, req *dns.Msg, server string) (*dns.Msg, error) {
	resp, _, err := q.client.ExchangeContext(ctx, req, server)
	if err != nil {
		return nil, err
	}
	if resp.Truncated && q.client.Net == "udp" {
		resp, _, err = q.tcp.ExchangeContext(ctx, req, server)
		if err != nil {
			return nil, err
		}
	}
	return resp, nil
}

func (q *UnicastQuerier) warn(msg string, args ...any) {
	if q.logger != nil {
		q.logger.Warn(msg, args...)
	}
}

// withPort appends port to host unless it already has one.
func withPort(server, port string) string {
	if _, _, err := net.SplitHostPort(server); err == nil {
		return server
	}
	return net.JoinHostPort(server, port)
}

// ednsSize clamps the advertised UDP payload size to what answer can hold.
func ednsSize(n int) uint16 {
	switch {
	case n < dns.MinMsgSize:
		return dns.MinMsgSize
	case n > dns.MaxMsgSize:
		return dns.MaxMsgSize
	default:
		return uint16(n)
	}
}

var _ radiodns.Querier = (*UnicastQuerier)(nil)
