package radiodns

import (
	"context"

	"github.com/miekg/dns"
)

// Querier sends one DNS query and writes the raw wire-format answer message
// into answer, returning its length. A return of 0, nil means there was no
// answer at all.
//
// Errors should be *Error values of KindTransient or KindFatal; other errors
// are treated as transient. A message that does not fit in answer must be
// reported as a KindFatal error wrapping ErrAnswerTooLarge.
type Querier interface {
	Query(ctx context.Context, name string, qclass, qtype uint16, answer []byte) (int, error)
}

// QuerierFunc adapts a function to the Querier interface.
type QuerierFunc func(ctx context.Context, name string, qclass, qtype uint16, answer []byte) (int, error)

// Query calls f.
func (f QuerierFunc) Query(ctx context.Context, name string, qclass, qtype uint16, answer []byte) (int, error) {
	return f(ctx, name, qclass, qtype, answer)
}

// PackAnswer packs msg into answer for a Querier implementation.
func PackAnswer(msg *dns.Msg, name string, answer []byte) (int, error) {
	out, err := msg.PackBuffer(answer)
	if err != nil {
		return 0, NewFatalError("pack", name, err)
	}
	if len(out) > len(answer) {
		return 0, NewFatalError("pack", name, ErrAnswerTooLarge)
	}
	return copy(answer, out), nil
}
