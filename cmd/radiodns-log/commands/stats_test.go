package commands

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/nexgenta/libradiodns/pkg/log"
)

func TestStatsOutput(t *testing.T) {
	path := createTestLogFile(t, sampleEvents())

	var buf bytes.Buffer
	if err := RunStats(path, &buf); err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}
	output := buf.String()

	for _, want := range []string{
		"Total Events: 5",
		"TARGET:",
		"INSTANCE:",
		"REDIRECT:",
		"Traces: 2",
		"[1b4e28ba] 4 events, 2 queries (2.000ms), 1 redirects",
		"Domain: 09580.c479.ce1.fm.radiodns.org",
		"Instances: 0 kept, 1 dropped",
		"Errors: 1",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output:\n%s", want, output)
		}
	}
}

func TestCollectStatsTimeRange(t *testing.T) {
	base := time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)
	path := createTestLogFile(t, []log.Event{
		{Timestamp: base.Add(time.Minute), TraceID: "a"},
		{Timestamp: base, TraceID: "a"},
		{Timestamp: base.Add(2 * time.Minute), TraceID: "b"},
	})

	reader, err := log.NewReader(path)
	if err != nil {
		t.Fatal(err)
	}
	defer reader.Close()

	stats, err := CollectStats(reader)
	if err != nil {
		t.Fatal(err)
	}
	if !stats.TimeRange.Start.Equal(base) {
		t.Errorf("Start = %v", stats.TimeRange.Start)
	}
	if !stats.TimeRange.End.Equal(base.Add(2 * time.Minute)) {
		t.Errorf("End = %v", stats.TimeRange.End)
	}
	if len(stats.Traces) != 2 || stats.Traces["a"].Events != 2 {
		t.Errorf("Traces = %+v", stats.Traces)
	}
}

func TestStatsEmptyFile(t *testing.T) {
	path := createTestLogFile(t, nil)

	var buf bytes.Buffer
	if err := RunStats(path, &buf); err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}
	if !strings.Contains(buf.String(), "Total Events: 0") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
}
