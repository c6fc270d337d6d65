package radiodns

import (
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/miekg/dns"

	"github.com/nexgenta/libradiodns/pkg/log"
)

// Config configures a Context.
type Config struct {
	// Querier answers DNS queries. Required.
	Querier Querier

	// Logger receives operational messages. Nil disables them.
	Logger *slog.Logger

	// TraceLogger receives resolution trace events. Nil disables tracing.
	TraceLogger log.Logger

	// MaxRedirects bounds the CNAME/DNAME hops ResolveTarget follows.
	// Default: DefaultMaxRedirects.
	MaxRedirects int

	// AnswerBufferSize is the size of the buffer answers are written into.
	// Default: DefaultAnswerBufferSize.
	AnswerBufferSize int
}

// DefaultConfig returns a Config with default limits. The Querier must
// still be set.
func DefaultConfig() Config {
	return Config{
		MaxRedirects:     DefaultMaxRedirects,
		AnswerBufferSize: DefaultAnswerBufferSize,
	}
}

// Context holds a source domain, the target it resolves to, and the answer
// buffer reused by every query issued through it.
//
// A Context is not safe for concurrent use.
type Context struct {
	domain    string
	target    string
	hasTarget bool
	answer    []byte
	traceID   string
	closed    bool

	querier      Querier
	logger       *slog.Logger
	trace        log.Logger
	maxRedirects int
	bufSize      int
}

// NewContext creates a Context for domain. Leading and trailing dots are
// removed; the remainder must be a valid domain name.
func NewContext(domain string, cfg Config) (*Context, error) {
	const op = "create context"

	domain = strings.TrimSuffix(strings.TrimLeft(domain, "."), ".")
	if domain == "" {
		return nil, NewValidationError(op, domain, ErrInvalidDomain)
	}
	if len(domain) > MaxDomainLength {
		return nil, NewValidationError(op, domain, ErrDomainTooLong)
	}
	if _, ok := dns.IsDomainName(domain); !ok {
		return nil, NewValidationError(op, domain, ErrInvalidDomain)
	}
	if cfg.Querier == nil {
		return nil, NewValidationError(op, domain, ErrNoQuerier)
	}

	if cfg.MaxRedirects <= 0 {
		cfg.MaxRedirects = DefaultMaxRedirects
	}
	if cfg.AnswerBufferSize <= 0 {
		cfg.AnswerBufferSize = DefaultAnswerBufferSize
	}

	return &Context{
		domain:       domain,
		traceID:      uuid.NewString(),
		querier:      cfg.Querier,
		logger:       cfg.Logger,
		trace:        cfg.TraceLogger,
		maxRedirects: cfg.MaxRedirects,
		bufSize:      cfg.AnswerBufferSize,
	}, nil
}

// NewFMContext creates a Context for an FM service. See FMDomain.
func NewFMContext(freq, pi uint32, country, suffix string, cfg Config) (*Context, error) {
	domain, err := FMDomain(freq, pi, country, suffix)
	if err != nil {
		return nil, err
	}
	return NewContext(domain, cfg)
}

// NewDABContext creates a Context for a DAB service. See DABDomain.
func NewDABContext(scids, sid, eid, ecc uint32, suffix string, cfg Config) (*Context, error) {
	domain, err := DABDomain(scids, sid, eid, ecc, suffix)
	if err != nil {
		return nil, err
	}
	return NewContext(domain, cfg)
}

// NewDABSCContext creates a Context for a DAB data service component.
func NewDABSCContext(pa, scids, sid, eid, ecc uint32, suffix string, cfg Config) (*Context, error) {
	domain, err := DABSCDomain(pa, scids, sid, eid, ecc, suffix)
	if err != nil {
		return nil, err
	}
	return NewContext(domain, cfg)
}

// NewDABXPADContext creates a Context for a DAB X-PAD application.
func NewDABXPADContext(appType, uaType, scids, sid, eid, ecc uint32, suffix string, cfg Config) (*Context, error) {
	domain, err := DABXPADDomain(appType, uaType, scids, sid, eid, ecc, suffix)
	if err != nil {
		return nil, err
	}
	return NewContext(domain, cfg)
}

// NewDRMContext creates a Context for a DRM service.
func NewDRMContext(sid uint32, suffix string, cfg Config) (*Context, error) {
	domain, err := DRMDomain(sid, suffix)
	if err != nil {
		return nil, err
	}
	return NewContext(domain, cfg)
}

// NewAMSSContext creates a Context for an AMSS service.
func NewAMSSContext(sid uint32, suffix string, cfg Config) (*Context, error) {
	domain, err := AMSSDomain(sid, suffix)
	if err != nil {
		return nil, err
	}
	return NewContext(domain, cfg)
}

// NewHDRadioContext creates a Context for an HD Radio service.
func NewHDRadioContext(tx, cc uint32, suffix string, cfg Config) (*Context, error) {
	domain, err := HDRadioDomain(tx, cc, suffix)
	if err != nil {
		return nil, err
	}
	return NewContext(domain, cfg)
}

// NewDVBContext creates a Context for a DVB service.
func NewDVBContext(onid, tsid, sid, nid uint32, suffix string, cfg Config) (*Context, error) {
	domain, err := DVBDomain(onid, tsid, sid, nid, suffix)
	if err != nil {
		return nil, err
	}
	return NewContext(domain, cfg)
}

// Domain returns the source domain.
func (c *Context) Domain() string {
	return c.domain
}

// Target returns the resolved target domain, if ResolveTarget has succeeded.
func (c *Context) Target() (string, bool) {
	return c.target, c.hasTarget
}

// TraceID returns the identifier stamped on this Context's trace events.
func (c *Context) TraceID() string {
	return c.traceID
}

// Close releases the target and the answer buffer. Further resolution
// calls fail with ErrClosed. Close is idempotent.
func (c *Context) Close() error {
	c.closed = true
	c.target = ""
	c.hasTarget = false
	c.answer = nil
	return nil
}

func (c *Context) checkOpen(op string) error {
	if c.closed {
		return NewValidationError(op, c.domain, ErrClosed)
	}
	return nil
}

// answerBuffer returns the Context's answer buffer, allocating it on first
// use.
func (c *Context) answerBuffer() []byte {
	if c.answer == nil {
		c.answer = make([]byte, c.bufSize)
	}
	return c.answer
}
