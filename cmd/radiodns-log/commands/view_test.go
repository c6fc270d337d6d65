package commands

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/miekg/dns"

	"github.com/nexgenta/libradiodns/pkg/log"
)

const testTraceID = "1b4e28ba-2fa1-11d2-883f-0016d3cca427"

func createTestLogFile(t *testing.T, events []log.Event) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test"+log.FileExtension)

	logger, err := log.NewFileLogger(path)
	if err != nil {
		t.Fatalf("failed to create test log: %v", err)
	}
	for _, e := range events {
		logger.Log(e)
	}
	logger.Close()
	return path
}

func sampleEvents() []log.Event {
	ts := time.Date(2026, 1, 28, 10, 15, 32, 123456000, time.UTC)
	domain := "09580.c479.ce1.fm.radiodns.org"
	return []log.Event{
		{
			Timestamp: ts, TraceID: testTraceID, Domain: domain,
			Stage: log.StageTarget, Category: log.CategoryQuery,
			Query: &log.QueryEvent{Name: domain, Class: dns.ClassINET, Type: dns.TypeANY, Size: 96, Answers: 1, Duration: 2 * time.Millisecond},
		},
		{
			Timestamp: ts.Add(time.Millisecond), TraceID: testTraceID, Domain: domain,
			Stage: log.StageTarget, Category: log.CategoryRedirect,
			Redirect: &log.RedirectEvent{From: domain, To: "rdns.example.com", Type: dns.TypeCNAME, Hop: 1},
		},
		{
			Timestamp: ts.Add(2 * time.Millisecond), TraceID: testTraceID, Domain: domain,
			Stage: log.StageTarget, Category: log.CategoryQuery,
			Query: &log.QueryEvent{Name: "rdns.example.com", Class: dns.ClassINET, Type: dns.TypeANY, Rcode: dns.RcodeNameError},
		},
		{
			Timestamp: ts.Add(3 * time.Millisecond), TraceID: testTraceID, Domain: domain,
			Stage: log.StageInstance, Category: log.CategoryInstance,
			Instance: &log.InstanceEvent{Name: "alt", SRVCount: 0, ParamCount: 1, Outcome: log.OutcomeDropped, Reason: "no SRV records"},
		},
		{
			Timestamp: ts.Add(4 * time.Millisecond), TraceID: "ffffffff-0000", Domain: "other.example",
			Stage: log.StageService, Category: log.CategoryError,
			Error: &log.ErrorEventData{Kind: "transient", Message: "query failed: timeout", Name: "_radioepg._tcp.other.example"},
		},
	}
}

func TestFormatQueryEvent(t *testing.T) {
	var buf bytes.Buffer
	formatEvent(&buf, sampleEvents()[0])
	output := buf.String()

	for _, want := range []string{
		"2026-01-28T10:15:32.123456Z",
		"[trace:1b4e28ba]",
		"TARGET",
		"Query",
		"Name: 09580.c479.ce1.fm.radiodns.org IN ANY",
		"96 bytes, 1 records, NOERROR",
		"Duration: 2.000ms",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output:\n%s", want, output)
		}
	}
}

func TestFormatNoAnswer(t *testing.T) {
	var buf bytes.Buffer
	formatEvent(&buf, sampleEvents()[2])
	if !strings.Contains(buf.String(), "No answer") {
		t.Errorf("expected no answer marker, got:\n%s", buf.String())
	}
}

func TestFormatRedirectEvent(t *testing.T) {
	var buf bytes.Buffer
	formatEvent(&buf, sampleEvents()[1])
	output := buf.String()

	if !strings.Contains(output, "CNAME") {
		t.Errorf("expected CNAME label, got:\n%s", output)
	}
	if !strings.Contains(output, "09580.c479.ce1.fm.radiodns.org -> rdns.example.com") {
		t.Errorf("expected redirect arrow, got:\n%s", output)
	}
	if !strings.Contains(output, "Hop: 1") {
		t.Errorf("expected hop count, got:\n%s", output)
	}
}

func TestFormatInstanceAndErrorEvents(t *testing.T) {
	var buf bytes.Buffer
	formatEvent(&buf, sampleEvents()[3])
	output := buf.String()
	if !strings.Contains(output, "Instance DROPPED") || !strings.Contains(output, "Reason: no SRV records") {
		t.Errorf("unexpected instance output:\n%s", output)
	}

	buf.Reset()
	formatEvent(&buf, sampleEvents()[4])
	output = buf.String()
	if !strings.Contains(output, "Kind: transient") || !strings.Contains(output, "Name: _radioepg._tcp.other.example") {
		t.Errorf("unexpected error output:\n%s", output)
	}
}

func TestRunViewFilters(t *testing.T) {
	path := createTestLogFile(t, sampleEvents())
	redirect := log.CategoryRedirect
	target := log.StageTarget

	tests := []struct {
		name   string
		filter ViewFilter
		want   int
	}{
		{"all", ViewFilter{}, 5},
		{"category", ViewFilter{Category: &redirect}, 1},
		{"stage", ViewFilter{Stage: &target}, 3},
		{"trace prefix", ViewFilter{TraceID: "ffff"}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := RunView(path, tt.filter, &buf); err != nil {
				t.Fatalf("RunView failed: %v", err)
			}
			if got := strings.Count(buf.String(), "[trace:"); got != tt.want {
				t.Errorf("got %d events, want %d", got, tt.want)
			}
		})
	}
}

func TestRunViewMissingFile(t *testing.T) {
	var buf bytes.Buffer
	if err := RunView(filepath.Join(t.TempDir(), "nope.rlog"), ViewFilter{}, &buf); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestParseFlags(t *testing.T) {
	if s, err := ParseStageFlag("Instance"); err != nil || s != log.StageInstance {
		t.Errorf("ParseStageFlag(Instance) = %v, %v", s, err)
	}
	if _, err := ParseStageFlag("wire"); err == nil {
		t.Error("expected error for unknown stage")
	}
	if c, err := ParseCategoryFlag("REDIRECT"); err != nil || c != log.CategoryRedirect {
		t.Errorf("ParseCategoryFlag(REDIRECT) = %v, %v", c, err)
	}
	if _, err := ParseCategoryFlag("message"); err == nil {
		t.Error("expected error for unknown category")
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{500 * time.Nanosecond, "0.500us"},
		{1500 * time.Microsecond, "1.500ms"},
		{2 * time.Second, "2.000s"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
