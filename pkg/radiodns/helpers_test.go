package radiodns

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/mock"

	"github.com/nexgenta/libradiodns/pkg/log"
)

// zoneQuerier answers from an in-memory set of records keyed by owner name.
type zoneQuerier struct {
	records map[string][]dns.RR
	failing map[string]error
	queries []string
}

func newZone(t *testing.T, rrs ...string) *zoneQuerier {
	t.Helper()
	z := &zoneQuerier{records: map[string][]dns.RR{}, failing: map[string]error{}}
	for _, s := range rrs {
		rr, err := dns.NewRR(s)
		if err != nil {
			t.Fatalf("bad record %q: %v", s, err)
		}
		name := canonicalName(rr.Header().Name)
		z.records[name] = append(z.records[name], rr)
	}
	return z
}

func (z *zoneQuerier) fail(name string, err error) {
	z.failing[canonicalName(name)] = err
}

func (z *zoneQuerier) Query(_ context.Context, name string, _, qtype uint16, answer []byte) (int, error) {
	z.queries = append(z.queries, name)
	fqdn := canonicalName(name)
	if err, ok := z.failing[fqdn]; ok {
		return 0, err
	}

	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(name), qtype)
	msg.Response = true
	rrs, ok := z.records[fqdn]
	if !ok {
		msg.Rcode = dns.RcodeNameError
	}
	msg.Answer = append(msg.Answer, rrs...)
	return PackAnswer(msg, name, answer)
}

// canonicalName lowercases name and normalizes its escaping by a wire round
// trip, so `a\032b` and `a\ b` compare equal.
func canonicalName(name string) string {
	buf := make([]byte, 256)
	n, err := dns.PackDomainName(dns.Fqdn(name), buf, 0, nil, false)
	if err != nil {
		return strings.ToLower(dns.Fqdn(name))
	}
	out, _, err := dns.UnpackDomainName(buf[:n], 0)
	if err != nil {
		return strings.ToLower(dns.Fqdn(name))
	}
	return strings.ToLower(out)
}

// mockQuerier is a testify mock of Querier.
type mockQuerier struct {
	mock.Mock
}

func (m *mockQuerier) Query(ctx context.Context, name string, qclass, qtype uint16, answer []byte) (int, error) {
	args := m.Called(ctx, name, qclass, qtype, answer)
	return args.Int(0), args.Error(1)
}

// traceRecorder collects trace events.
type traceRecorder struct {
	mu     sync.Mutex
	events []log.Event
}

func (r *traceRecorder) Log(e log.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *traceRecorder) byCategory(c log.Category) []log.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []log.Event
	for _, e := range r.events {
		if e.Category == c {
			out = append(out, e)
		}
	}
	return out
}

func newTestContext(t *testing.T, domain string, q Querier) *Context {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Querier = q
	c, err := NewContext(domain, cfg)
	if err != nil {
		t.Fatalf("NewContext(%q): %v", domain, err)
	}
	return c
}
