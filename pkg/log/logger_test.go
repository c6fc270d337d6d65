package log

import (
	"testing"
	"time"
)

func TestNoopLoggerAcceptsAllPayloads(t *testing.T) {
	var l Logger = NoopLogger{}

	l.Log(Event{Timestamp: time.Now(), Category: CategoryQuery, Query: &QueryEvent{Name: "x"}})
	l.Log(Event{Timestamp: time.Now(), Category: CategoryRedirect, Redirect: &RedirectEvent{From: "a", To: "b"}})
	l.Log(Event{Timestamp: time.Now(), Category: CategoryInstance, Instance: &InstanceEvent{Default: true}})
	l.Log(Event{Timestamp: time.Now(), Category: CategoryError, Error: &ErrorEventData{Kind: "fatal"}})
	l.Log(Event{})
}
