package log

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func createTestLogFile(t *testing.T, events []Event) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test"+FileExtension)

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("failed to create test log: %v", err)
	}
	for _, e := range events {
		logger.Log(e)
	}
	logger.Close()
	return path
}

func readAll(t *testing.T, r *Reader) []Event {
	t.Helper()
	var out []Event
	for {
		e, err := r.Next()
		if err == io.EOF {
			return out
		}
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		out = append(out, e)
	}
}

func TestReaderIteratesEvents(t *testing.T) {
	path := createTestLogFile(t, []Event{
		{Timestamp: time.Now(), TraceID: "t-1", Stage: StageTarget, Category: CategoryQuery},
		{Timestamp: time.Now(), TraceID: "t-2", Stage: StageService, Category: CategoryQuery},
		{Timestamp: time.Now(), TraceID: "t-3", Stage: StageInstance, Category: CategoryInstance},
	})

	r, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer r.Close()

	read := readAll(t, r)
	if len(read) != 3 {
		t.Fatalf("got %d events, want 3", len(read))
	}
	for i, want := range []string{"t-1", "t-2", "t-3"} {
		if read[i].TraceID != want {
			t.Errorf("event %d: TraceID = %q, want %q", i, read[i].TraceID, want)
		}
	}
}

func TestFilteredReader(t *testing.T) {
	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	events := []Event{
		{Timestamp: base, TraceID: "a", Domain: "d1", Stage: StageTarget, Category: CategoryQuery},
		{Timestamp: base.Add(time.Second), TraceID: "a", Domain: "d1", Stage: StageTarget, Category: CategoryRedirect},
		{Timestamp: base.Add(2 * time.Second), TraceID: "b", Domain: "d2", Stage: StageService, Category: CategoryQuery},
		{Timestamp: base.Add(3 * time.Second), TraceID: "b", Domain: "d2", Stage: StageInstance, Category: CategoryError},
	}
	path := createTestLogFile(t, events)

	redirect := CategoryRedirect
	service := StageService
	start := base.Add(time.Second)
	end := base.Add(3 * time.Second)

	tests := []struct {
		name   string
		filter Filter
		want   int
	}{
		{"all", Filter{}, 4},
		{"trace id", Filter{TraceID: "a"}, 2},
		{"domain", Filter{Domain: "d2"}, 2},
		{"category", Filter{Category: &redirect}, 1},
		{"stage", Filter{Stage: &service}, 1},
		{"time window", Filter{TimeStart: &start, TimeEnd: &end}, 2},
		{"combined", Filter{TraceID: "b", Category: &redirect}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewFilteredReader(path, tt.filter)
			if err != nil {
				t.Fatal(err)
			}
			defer r.Close()
			if got := len(readAll(t, r)); got != tt.want {
				t.Errorf("got %d events, want %d", got, tt.want)
			}
		})
	}
}

func TestReaderMissingFile(t *testing.T) {
	if _, err := NewReader(filepath.Join(t.TempDir(), "nope.rlog")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestReaderCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad"+FileExtension)
	if err := os.WriteFile(path, []byte{0xff, 0xff, 0xff}, 0o644); err != nil {
		t.Fatal(err)
	}
	r, err := NewReader(path)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	if _, err := r.Next(); err == nil || err == io.EOF {
		t.Errorf("expected decode error, got %v", err)
	}
}
