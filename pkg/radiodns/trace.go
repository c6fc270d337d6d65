package radiodns

import (
	"time"

	"github.com/nexgenta/libradiodns/pkg/log"
)

func (c *Context) emit(e log.Event) {
	if c.trace == nil {
		return
	}
	e.Timestamp = time.Now()
	e.TraceID = c.traceID
	e.Domain = c.domain
	c.trace.Log(e)
}

func (c *Context) traceQuery(stage log.Stage, q *log.QueryEvent) {
	c.emit(log.Event{Stage: stage, Category: log.CategoryQuery, Query: q})
}

func (c *Context) traceRedirect(from, to string, rrtype uint16, hop int) {
	c.emit(log.Event{
		Stage:    log.StageTarget,
		Category: log.CategoryRedirect,
		Redirect: &log.RedirectEvent{From: from, To: to, Type: rrtype, Hop: hop},
	})
}

func (c *Context) traceInstance(stage log.Stage, in *Instance, outcome log.Outcome, reason string) {
	c.emit(log.Event{
		Stage:    stage,
		Category: log.CategoryInstance,
		Instance: &log.InstanceEvent{
			Name:       in.Name,
			Default:    in.Default,
			SRVCount:   len(in.SRV),
			ParamCount: len(in.Params),
			Outcome:    outcome,
			Reason:     reason,
		},
	})
}

func (c *Context) traceError(stage log.Stage, name string, err error) {
	c.emit(log.Event{
		Stage:    stage,
		Category: log.CategoryError,
		Error: &log.ErrorEventData{
			Kind:    KindOf(err).String(),
			Message: err.Error(),
			Name:    name,
		},
	})
}

func (c *Context) debug(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Debug(msg, args...)
	}
}

func (c *Context) warn(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Warn(msg, args...)
	}
}
