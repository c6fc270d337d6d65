package log

import (
	"fmt"
	"time"

	"github.com/miekg/dns"
)

// Event is one resolution trace record.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// TraceID identifies the radiodns.Context that produced the event (UUID).
	TraceID string `cbor:"2,keyasint"`

	// Domain is the context's source domain.
	Domain string `cbor:"3,keyasint,omitempty"`

	// Stage of resolution that produced the event.
	Stage Stage `cbor:"4,keyasint"`

	// Category classifies the event.
	Category Category `cbor:"5,keyasint"`

	// Type-specific payload (one of these will be set).
	Query    *QueryEvent     `cbor:"10,keyasint,omitempty"`
	Redirect *RedirectEvent  `cbor:"11,keyasint,omitempty"`
	Instance *InstanceEvent  `cbor:"12,keyasint,omitempty"`
	Error    *ErrorEventData `cbor:"13,keyasint,omitempty"`
}

// Stage indicates which part of resolution produced an event.
type Stage uint8

const (
	// StageTarget is source-to-target domain resolution.
	StageTarget Stage = 0
	// StageService is the _app._proto.target query.
	StageService Stage = 1
	// StageInstance is a PTR follow-up query for a named instance.
	StageInstance Stage = 2
)

// String returns the stage name.
func (s Stage) String() string {
	switch s {
	case StageTarget:
		return "TARGET"
	case StageService:
		return "SERVICE"
	case StageInstance:
		return "INSTANCE"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryQuery indicates a DNS query and its answer summary.
	CategoryQuery Category = 0
	// CategoryRedirect indicates a CNAME/DNAME hop.
	CategoryRedirect Category = 1
	// CategoryInstance indicates an instance decision.
	CategoryInstance Category = 2
	// CategoryError indicates a failure.
	CategoryError Category = 3
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryQuery:
		return "QUERY"
	case CategoryRedirect:
		return "REDIRECT"
	case CategoryInstance:
		return "INSTANCE"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// QueryEvent summarises one DNS query.
type QueryEvent struct {
	// Name is the queried domain.
	Name string `cbor:"1,keyasint"`

	// Class and Type are the query class and type.
	Class uint16 `cbor:"2,keyasint"`
	Type  uint16 `cbor:"3,keyasint"`

	// Size is the answer message size in bytes (0 when there was no answer).
	Size int `cbor:"4,keyasint,omitempty"`

	// Rcode is the response code of the answer.
	Rcode int `cbor:"5,keyasint,omitempty"`

	// Answers is the number of records in the answer section.
	Answers int `cbor:"6,keyasint,omitempty"`

	// Duration is the round trip time. Stored as nanoseconds.
	Duration time.Duration `cbor:"7,keyasint,omitempty"`
}

// TypeString returns the mnemonic of the query type.
func (q *QueryEvent) TypeString() string {
	return RRTypeString(q.Type)
}

// RedirectEvent records one CNAME/DNAME hop.
type RedirectEvent struct {
	From string `cbor:"1,keyasint"`
	To   string `cbor:"2,keyasint"`

	// Type is the record type that caused the hop.
	Type uint16 `cbor:"3,keyasint"`

	// Hop counts redirects followed so far, starting at 1.
	Hop int `cbor:"4,keyasint"`
}

// InstanceEvent records whether an instance was kept in the result.
type InstanceEvent struct {
	// Name is the instance name; empty for the default instance.
	Name string `cbor:"1,keyasint,omitempty"`

	// Default is set for the default instance.
	Default bool `cbor:"2,keyasint,omitempty"`

	SRVCount   int `cbor:"3,keyasint"`
	ParamCount int `cbor:"4,keyasint"`

	Outcome Outcome `cbor:"5,keyasint"`

	// Reason explains a dropped instance.
	Reason string `cbor:"6,keyasint,omitempty"`
}

// Outcome is the fate of a discovered instance.
type Outcome uint8

const (
	// OutcomeKept means the instance is part of the result.
	OutcomeKept Outcome = 0
	// OutcomeDropped means the instance was discarded.
	OutcomeDropped Outcome = 1
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeKept:
		return "KEPT"
	case OutcomeDropped:
		return "DROPPED"
	default:
		return "UNKNOWN"
	}
}

// ErrorEventData captures a failure.
type ErrorEventData struct {
	// Kind is the failure kind (validation, transient, fatal).
	Kind string `cbor:"1,keyasint"`

	// Message is the error message.
	Message string `cbor:"2,keyasint"`

	// Name is the domain being processed, if any.
	Name string `cbor:"3,keyasint,omitempty"`
}

// RRTypeString returns the mnemonic for a DNS record type.
func RRTypeString(t uint16) string {
	if s, ok := dns.TypeToString[t]; ok {
		return s
	}
	return fmt.Sprintf("TYPE%d", t)
}
