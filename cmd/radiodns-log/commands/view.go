// Package commands implements the radiodns-log CLI commands.
package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/miekg/dns"

	"github.com/nexgenta/libradiodns/pkg/log"
)

const timestampFormat = "2006-01-02T15:04:05.000000Z"

// ViewFilter specifies criteria for filtering events in the view command.
type ViewFilter struct {
	Stage    *log.Stage
	Category *log.Category

	// TraceID matches trace IDs starting with this prefix.
	TraceID string
}

func (f ViewFilter) matches(e log.Event) bool {
	if f.Stage != nil && e.Stage != *f.Stage {
		return false
	}
	if f.Category != nil && e.Category != *f.Category {
		return false
	}
	if f.TraceID != "" && !strings.HasPrefix(e.TraceID, f.TraceID) {
		return false
	}
	return true
}

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event log.Event) {
	ts := event.Timestamp.UTC().Format(timestampFormat)
	fmt.Fprintf(w, "%s [trace:%s] %-8s %s\n", ts, shortenID(event.TraceID), event.Stage.String(), typeLabel(event))
	if event.Domain != "" {
		fmt.Fprintf(w, "  Domain: %s\n", event.Domain)
	}

	switch {
	case event.Query != nil:
		formatQueryDetails(w, event.Query)
	case event.Redirect != nil:
		formatRedirectDetails(w, event.Redirect)
	case event.Instance != nil:
		formatInstanceDetails(w, event.Instance)
	case event.Error != nil:
		formatErrorDetails(w, event.Error)
	}

	fmt.Fprintln(w)
}

func typeLabel(event log.Event) string {
	switch {
	case event.Query != nil:
		return "Query"
	case event.Redirect != nil:
		return log.RRTypeString(event.Redirect.Type)
	case event.Instance != nil:
		return "Instance " + event.Instance.Outcome.String()
	case event.Error != nil:
		return "Error"
	default:
		return "Unknown"
	}
}

// shortenID returns the first 8 characters of a trace ID.
func shortenID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

func formatQueryDetails(w io.Writer, q *log.QueryEvent) {
	class := dns.ClassToString[q.Class]
	if class == "" {
		class = fmt.Sprintf("CLASS%d", q.Class)
	}
	fmt.Fprintf(w, "  Name: %s %s %s\n", q.Name, class, q.TypeString())
	if q.Size == 0 {
		fmt.Fprintln(w, "  No answer")
	} else {
		fmt.Fprintf(w, "  Answer: %d bytes, %d records, %s\n", q.Size, q.Answers, rcodeString(q.Rcode))
	}
	if q.Duration > 0 {
		fmt.Fprintf(w, "  Duration: %s\n", formatDuration(q.Duration))
	}
}

func formatRedirectDetails(w io.Writer, r *log.RedirectEvent) {
	fmt.Fprintf(w, "  %s -> %s\n", r.From, r.To)
	fmt.Fprintf(w, "  Hop: %d\n", r.Hop)
}

func formatInstanceDetails(w io.Writer, in *log.InstanceEvent) {
	name := in.Name
	if in.Default {
		name = "(default)"
	}
	fmt.Fprintf(w, "  Instance: %s\n", name)
	fmt.Fprintf(w, "  SRV: %d  Params: %d\n", in.SRVCount, in.ParamCount)
	if in.Reason != "" {
		fmt.Fprintf(w, "  Reason: %s\n", in.Reason)
	}
}

func formatErrorDetails(w io.Writer, e *log.ErrorEventData) {
	fmt.Fprintf(w, "  Kind: %s\n", e.Kind)
	fmt.Fprintf(w, "  Message: %s\n", e.Message)
	if e.Name != "" {
		fmt.Fprintf(w, "  Name: %s\n", e.Name)
	}
}

func rcodeString(rcode int) string {
	if s, ok := dns.RcodeToString[rcode]; ok {
		return s
	}
	return fmt.Sprintf("RCODE%d", rcode)
}

// formatDuration formats a duration for display.
func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%.3fus", float64(d.Nanoseconds())/1000)
	}
	if d < time.Second {
		return fmt.Sprintf("%.3fms", float64(d.Microseconds())/1000)
	}
	return fmt.Sprintf("%.3fs", d.Seconds())
}

// ParseStageFlag parses a stage name (case-insensitive).
func ParseStageFlag(s string) (log.Stage, error) {
	switch strings.ToLower(s) {
	case "target":
		return log.StageTarget, nil
	case "service":
		return log.StageService, nil
	case "instance":
		return log.StageInstance, nil
	default:
		return 0, fmt.Errorf("invalid stage: %s (must be target, service, or instance)", s)
	}
}

// ParseCategoryFlag parses a category name (case-insensitive).
func ParseCategoryFlag(s string) (log.Category, error) {
	switch strings.ToLower(s) {
	case "query":
		return log.CategoryQuery, nil
	case "redirect":
		return log.CategoryRedirect, nil
	case "instance":
		return log.CategoryInstance, nil
	case "error":
		return log.CategoryError, nil
	default:
		return 0, fmt.Errorf("invalid category: %s (must be query, redirect, instance, or error)", s)
	}
}

// forEachEvent calls fn for every event in the trace file at path.
func forEachEvent(reader *log.Reader, fn func(log.Event) error) error {
	for {
		event, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		if err := fn(event); err != nil {
			return err
		}
	}
}

// RunView executes the view command.
func RunView(path string, filter ViewFilter, output io.Writer) error {
	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open trace file: %w", err)
	}
	defer reader.Close()

	return forEachEvent(reader, func(e log.Event) error {
		if filter.matches(e) {
			formatEvent(output, e)
		}
		return nil
	})
}
