package dnsquery

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/miekg/dns"
	"gopkg.in/yaml.v3"

	"github.com/nexgenta/libradiodns/pkg/radiodns"
)

// ZoneFile is the YAML form of a static zone.
//
//	records:
//	  - name: 09580.c479.ce1.fm.radiodns.org
//	    type: CNAME
//	    value: rdns.example.com.
//	failures:
//	  - name: broken.example.com
//	    kind: transient
type ZoneFile struct {
	Records  []ZoneRecord  `yaml:"records"`
	Failures []ZoneFailure `yaml:"failures"`
}

// ZoneRecord is one resource record in presentation form.
type ZoneRecord struct {
	Name  string `yaml:"name"`
	Type  string `yaml:"type"`
	Class string `yaml:"class,omitempty"`
	TTL   uint32 `yaml:"ttl,omitempty"`
	Value string `yaml:"value"`
}

// ZoneFailure makes queries for Name fail.
type ZoneFailure struct {
	Name    string `yaml:"name"`
	Kind    string `yaml:"kind"`
	Message string `yaml:"message,omitempty"`
}

// DefaultTTL is used for records without a TTL.
const DefaultTTL = 300

// StaticQuerier answers queries from an in-memory zone. It is safe for
// concurrent use.
type StaticQuerier struct {
	mu       sync.RWMutex
	records  map[string][]dns.RR
	failures map[string]error
}

// NewStaticQuerier creates a querier holding rrs.
func NewStaticQuerier(rrs ...dns.RR) *StaticQuerier {
	q := &StaticQuerier{
		records:  make(map[string][]dns.RR),
		failures: make(map[string]error),
	}
	for _, rr := range rrs {
		q.Add(rr)
	}
	return q
}

// LoadZone reads a YAML zone file.
func LoadZone(path string) (*StaticQuerier, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	q, err := ParseZone(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return q, nil
}

// ParseZone parses a YAML zone.
func ParseZone(data []byte) (*StaticQuerier, error) {
	var zf ZoneFile
	if err := yaml.Unmarshal(data, &zf); err != nil {
		return nil, fmt.Errorf("parse zone: %w", err)
	}

	q := NewStaticQuerier()
	for i, r := range zf.Records {
		rr, err := r.RR()
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i+1, err)
		}
		q.Add(rr)
	}
	for i, f := range zf.Failures {
		qerr, err := f.QueryError()
		if err != nil {
			return nil, fmt.Errorf("failure %d: %w", i+1, err)
		}
		q.Fail(f.Name, qerr)
	}
	return q, nil
}

// RR parses the record.
func (r ZoneRecord) RR() (dns.RR, error) {
	if r.Name == "" || r.Type == "" {
		return nil, errors.New("name and type are required")
	}
	class := r.Class
	if class == "" {
		class = "IN"
	}
	ttl := r.TTL
	if ttl == 0 {
		ttl = DefaultTTL
	}
	return dns.NewRR(fmt.Sprintf("%s %d %s %s %s", dns.Fqdn(r.Name), ttl, class, strings.ToUpper(r.Type), r.Value))
}

// QueryError builds the error queries for f.Name report.
func (f ZoneFailure) QueryError() (*radiodns.Error, error) {
	if f.Name == "" {
		return nil, errors.New("name is required")
	}
	msg := f.Message
	if msg == "" {
		msg = "simulated failure"
	}
	cause := fmt.Errorf("%w: %s", radiodns.ErrQueryFailed, msg)
	switch strings.ToLower(f.Kind) {
	case "", "transient":
		return radiodns.NewTransientError("query", f.Name, cause), nil
	case "fatal":
		return radiodns.NewFatalError("query", f.Name, cause), nil
	default:
		return nil, fmt.Errorf("unknown failure kind %q", f.Kind)
	}
}

// Add appends rr to the records at its owner name.
func (q *StaticQuerier) Add(rr dns.RR) {
	name := canonicalName(rr.Header().Name)
	q.mu.Lock()
	defer q.mu.Unlock()
	q.records[name] = append(q.records[name], rr)
}

// Fail makes every query for name return err.
func (q *StaticQuerier) Fail(name string, err error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.failures[canonicalName(name)] = err
}

// Len returns the number of records held.
func (q *StaticQuerier) Len() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	n := 0
	for _, rrs := range q.records {
		n += len(rrs)
	}
	return n
}

// Query implements radiodns.Querier. Names without records answer
// NXDOMAIN.
func (q *StaticQuerier) Query(_ context.Context, name string, qclass, qtype uint16, answer []byte) (int, error) {
	key := canonicalName(name)

	q.mu.RLock()
	err := q.failures[key]
	rrs, exists := q.records[key]
	q.mu.RUnlock()
	if err != nil {
		return 0, err
	}

	resp := new(dns.Msg)
	resp.SetQuestion(dns.Fqdn(name), qtype)
	resp.Question[0].Qclass = qclass
	resp.Response = true
	resp.Authoritative = true
	if !exists {
		resp.Rcode = dns.RcodeNameError
	}
	for _, rr := range rrs {
		h := rr.Header()
		if qclass != dns.ClassANY && h.Class != qclass {
			continue
		}
		if qtype != dns.TypeANY && h.Rrtype != qtype {
			continue
		}
		resp.Answer = append(resp.Answer, rr)
	}
	return radiodns.PackAnswer(resp, name, answer)
}

var _ radiodns.Querier = (*StaticQuerier)(nil)
