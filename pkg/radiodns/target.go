package radiodns

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/miekg/dns"

	"github.com/nexgenta/libradiodns/pkg/log"
)

// ResolveTarget follows CNAME and DNAME records from the source domain to
// the application discovery target, stores it in the Context and returns it.
//
// Each step queries the current domain for ANY records. An empty answer, or
// one without redirection, ends the chain at the current domain. When
// several redirection records are present the last one wins, and a record
// pointing back at the current domain ends the chain. Chains longer than
// Config.MaxRedirects fail with ErrRedirectLoop.
//
// A failed query aborts resolution and leaves any previous target in place.
func (c *Context) ResolveTarget(ctx context.Context) (string, error) {
	const op = "resolve target"
	if err := c.checkOpen(op); err != nil {
		return "", err
	}

	buf := c.answerBuffer()
	domain := c.domain
	hops := 0
	for {
		msg, err := c.query(ctx, log.StageTarget, domain, buf)
		if err != nil {
			c.traceError(log.StageTarget, domain, err)
			return "", err
		}
		if msg == nil {
			break
		}

		next, rrtype, ok := lastRedirect(msg)
		if !ok || next == domain {
			break
		}

		hops++
		if hops > c.maxRedirects {
			err := NewFatalError(op, c.domain, fmt.Errorf("%w (%d)", ErrRedirectLoop, c.maxRedirects))
			c.traceError(log.StageTarget, domain, err)
			return "", err
		}
		c.traceRedirect(domain, next, rrtype, hops)
		c.debug("radiodns: redirect", "from", domain, "to", next, "type", log.RRTypeString(rrtype))
		domain = next
	}

	c.target = domain
	c.hasTarget = true
	c.debug("radiodns: target resolved", "domain", c.domain, "target", domain, "hops", hops)
	return domain, nil
}

// lastRedirect returns the target of the last class IN CNAME or DNAME
// record in the answer section, without its trailing dot.
func lastRedirect(msg *dns.Msg) (string, uint16, bool) {
	var (
		next   string
		rrtype uint16
		found  bool
	)
	for _, rr := range msg.Answer {
		if rr.Header().Class != dns.ClassINET {
			continue
		}
		var t string
		switch v := rr.(type) {
		case *dns.CNAME:
			t = v.Target
		case *dns.DNAME:
			t = v.Target
		default:
			continue
		}
		if t = trimDot(t); t == "" {
			continue
		}
		next, rrtype, found = t, rr.Header().Rrtype, true
	}
	return next, rrtype, found
}

// query issues an IN/ANY query for name into buf and unpacks the answer.
// It returns nil, nil when there is no usable answer.
func (c *Context) query(ctx context.Context, stage log.Stage, name string, buf []byte) (*dns.Msg, error) {
	const op = "query"

	if err := ctx.Err(); err != nil {
		return nil, NewTransientError(op, name, err)
	}

	start := time.Now()
	n, err := c.querier.Query(ctx, name, dns.ClassINET, dns.TypeANY, buf)
	elapsed := time.Since(start)
	if err != nil {
		var e *Error
		if !errors.As(err, &e) {
			err = NewTransientError(op, name, fmt.Errorf("%w: %w", ErrQueryFailed, err))
		}
		c.debug("radiodns: query failed", "name", name, "error", err)
		return nil, err
	}
	if n > len(buf) {
		return nil, NewFatalError(op, name, ErrAnswerTooLarge)
	}

	q := &log.QueryEvent{
		Name:     name,
		Class:    dns.ClassINET,
		Type:     dns.TypeANY,
		Size:     n,
		Duration: elapsed,
	}
	if n == 0 {
		c.traceQuery(stage, q)
		c.debug("radiodns: no answer", "name", name)
		return nil, nil
	}

	msg := new(dns.Msg)
	if err := msg.Unpack(buf[:n]); err != nil {
		c.traceQuery(stage, q)
		c.traceError(stage, name, NewTransientError(op, name, fmt.Errorf("%w: %w", ErrNoAnswerMessage, err)))
		c.warn("radiodns: undecodable answer", "name", name, "size", n, "error", err)
		return nil, nil
	}

	q.Rcode = msg.Rcode
	q.Answers = len(msg.Answer)
	c.traceQuery(stage, q)
	c.debug("radiodns: query", "name", name, "size", n, "answers", len(msg.Answer), "rcode", dns.RcodeToString[msg.Rcode])
	return msg, nil
}

// trimDot removes a single trailing dot from a presentation-format name,
// unless it is escaped.
func trimDot(name string) string {
	if !strings.HasSuffix(name, ".") || strings.HasSuffix(name, `\.`) && !strings.HasSuffix(name, `\\.`) {
		return name
	}
	return name[:len(name)-1]
}
