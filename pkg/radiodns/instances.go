package radiodns

import (
	"context"
	"strings"

	"github.com/miekg/dns"

	"github.com/nexgenta/libradiodns/pkg/log"
)

// ResolveInstances discovers the instances of an application published
// beneath the Context's target, resolving the target first if needed.
//
// The name _<name>._<protocol>.<target> is queried once. SRV and TXT
// records found there form the default instance; every PTR record names a
// further instance whose own SRV and TXT records are fetched with a second
// query. Instances without SRV records are left out. The default instance,
// when kept, comes first, followed by named instances in answer order.
//
// No answer, or no usable instance, is not an error: the result is empty.
// An instance whose follow-up query fails transiently is skipped; a fatal
// failure anywhere discards everything and is returned.
//
// An empty protocol means DefaultProtocol. Leading underscores on name and
// protocol are accepted.
func (c *Context) ResolveInstances(ctx context.Context, name, protocol string) ([]Instance, error) {
	const op = "resolve instances"
	if err := c.checkOpen(op); err != nil {
		return nil, err
	}

	qname, err := c.serviceName(ctx, op, name, protocol)
	if err != nil {
		return nil, err
	}

	msg, err := c.query(ctx, log.StageService, qname, c.answerBuffer())
	if err != nil {
		c.traceError(log.StageService, qname, err)
		return nil, err
	}
	if msg == nil {
		return nil, nil
	}

	var (
		def     *Instance
		named   []Instance
		scratch []byte
	)
	defaultInstance := func() *Instance {
		if def == nil {
			def = &Instance{Default: true, SRV: make([]SRVEntry, 0, len(msg.Answer))}
		}
		return def
	}

	for _, rr := range msg.Answer {
		if rr.Header().Class != dns.ClassINET {
			continue
		}
		switch v := rr.(type) {
		case *dns.PTR:
			if scratch == nil {
				scratch = make([]byte, c.bufSize)
			}
			inst, err := c.resolveNamed(ctx, v.Ptr, scratch)
			if err != nil {
				c.traceError(log.StageInstance, v.Ptr, err)
				return nil, err
			}
			if inst != nil {
				named = append(named, *inst)
			}
		case *dns.TXT:
			d := defaultInstance()
			d.Params = DecodeTXT(v.Txt, d.Params)
		case *dns.SRV:
			d := defaultInstance()
			d.SRV = append(d.SRV, srvEntry(v))
		}
	}

	var result []Instance
	if def != nil {
		if len(def.SRV) > 0 {
			c.traceInstance(log.StageService, def, log.OutcomeKept, "")
			result = append(result, *def)
		} else {
			c.traceInstance(log.StageService, def, log.OutcomeDropped, "no SRV records")
			c.debug("radiodns: default instance has no SRV records", "name", qname)
		}
	}
	result = append(result, named...)

	c.debug("radiodns: instances resolved", "name", qname, "count", len(result))
	return result, nil
}

// serviceName builds _<name>._<protocol>.<target>.
func (c *Context) serviceName(ctx context.Context, op, name, protocol string) (string, error) {
	name = strings.TrimPrefix(name, "_")
	if name == "" {
		return "", NewValidationError(op, "", ErrInvalidService)
	}
	protocol = strings.TrimPrefix(protocol, "_")
	if protocol == "" {
		protocol = DefaultProtocol
	}

	target, ok := c.Target()
	if !ok {
		var err error
		if target, err = c.ResolveTarget(ctx); err != nil {
			return "", err
		}
	}

	qname := "_" + name + "._" + protocol + "." + target
	if len(qname) > MaxDomainLength {
		return "", NewValidationError(op, qname, ErrDomainTooLong)
	}
	if _, ok := dns.IsDomainName(qname); !ok {
		return "", NewValidationError(op, qname, ErrInvalidService)
	}
	return qname, nil
}

// resolveNamed fetches the instance a PTR record points at. It returns nil,
// nil when the instance is to be skipped; only fatal errors are returned.
func (c *Context) resolveNamed(ctx context.Context, ptr string, buf []byte) (*Instance, error) {
	inst := &Instance{Name: FirstLabel(ptr)}
	name := trimDot(ptr)

	msg, err := c.query(ctx, log.StageInstance, name, buf)
	if err != nil {
		if IsFatal(err) {
			return nil, err
		}
		c.traceInstance(log.StageInstance, inst, log.OutcomeDropped, err.Error())
		c.warn("radiodns: dropping instance", "instance", name, "error", err)
		return nil, nil
	}
	if msg == nil {
		c.traceInstance(log.StageInstance, inst, log.OutcomeDropped, "no answer")
		c.debug("radiodns: dropping instance", "instance", name, "reason", "no answer")
		return nil, nil
	}

	for _, rr := range msg.Answer {
		if rr.Header().Class != dns.ClassINET {
			continue
		}
		switch v := rr.(type) {
		case *dns.TXT:
			inst.Params = DecodeTXT(v.Txt, inst.Params)
		case *dns.SRV:
			inst.SRV = append(inst.SRV, srvEntry(v))
		}
	}

	if len(inst.SRV) == 0 {
		c.traceInstance(log.StageInstance, inst, log.OutcomeDropped, "no SRV records")
		c.debug("radiodns: dropping instance", "instance", name, "reason", "no SRV records")
		return nil, nil
	}
	c.traceInstance(log.StageInstance, inst, log.OutcomeKept, "")
	return inst, nil
}

func srvEntry(rr *dns.SRV) SRVEntry {
	return SRVEntry{
		Priority: rr.Priority,
		Weight:   rr.Weight,
		Port:     rr.Port,
		Target:   trimDot(rr.Target),
	}
}
