package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/nexgenta/libradiodns/pkg/log"
)

// Stats holds aggregate statistics about a trace file.
type Stats struct {
	TotalEvents      int
	EventsByStage    map[log.Stage]int
	EventsByCategory map[log.Category]int
	Traces           map[string]*TraceStats
	Errors           int
	TimeRange        struct {
		Start time.Time
		End   time.Time
	}
}

// TraceStats holds statistics for one resolution trace.
type TraceStats struct {
	Domain           string
	FirstSeen        time.Time
	LastSeen         time.Time
	Events           int
	Queries          int
	Redirects        int
	QueryTime        time.Duration
	InstancesKept    int
	InstancesDropped int
}

// CollectStats reads every event from reader.
func CollectStats(reader *log.Reader) (*Stats, error) {
	stats := &Stats{
		EventsByStage:    make(map[log.Stage]int),
		EventsByCategory: make(map[log.Category]int),
		Traces:           make(map[string]*TraceStats),
	}

	err := forEachEvent(reader, func(e log.Event) error {
		stats.TotalEvents++
		stats.EventsByStage[e.Stage]++
		stats.EventsByCategory[e.Category]++

		if stats.TimeRange.Start.IsZero() || e.Timestamp.Before(stats.TimeRange.Start) {
			stats.TimeRange.Start = e.Timestamp
		}
		if e.Timestamp.After(stats.TimeRange.End) {
			stats.TimeRange.End = e.Timestamp
		}

		tr, ok := stats.Traces[e.TraceID]
		if !ok {
			tr = &TraceStats{FirstSeen: e.Timestamp, LastSeen: e.Timestamp}
			stats.Traces[e.TraceID] = tr
		}
		tr.Events++
		if e.Timestamp.After(tr.LastSeen) {
			tr.LastSeen = e.Timestamp
		}
		if tr.Domain == "" {
			tr.Domain = e.Domain
		}

		switch {
		case e.Query != nil:
			tr.Queries++
			tr.QueryTime += e.Query.Duration
		case e.Redirect != nil:
			tr.Redirects++
		case e.Instance != nil:
			if e.Instance.Outcome == log.OutcomeKept {
				tr.InstancesKept++
			} else {
				tr.InstancesDropped++
			}
		case e.Error != nil:
			stats.Errors++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// RunStats analyzes the trace file and prints statistics.
func RunStats(path string, w io.Writer) error {
	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open trace file: %w", err)
	}
	defer reader.Close()

	stats, err := CollectStats(reader)
	if err != nil {
		return err
	}
	printStats(w, stats)
	return nil
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== RadioDNS Trace Statistics ===")
	fmt.Fprintln(w)

	if stats.TotalEvents > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n", stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Second))
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total Events: %d\n", stats.TotalEvents)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Stage:")
	for _, s := range []log.Stage{log.StageTarget, log.StageService, log.StageInstance} {
		if count := stats.EventsByStage[s]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", s.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Category:")
	for _, c := range []log.Category{log.CategoryQuery, log.CategoryRedirect, log.CategoryInstance, log.CategoryError} {
		if count := stats.EventsByCategory[c]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", c.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Traces: %d\n", len(stats.Traces))
	if len(stats.Traces) > 0 {
		type traceInfo struct {
			id    string
			stats *TraceStats
		}
		traces := make([]traceInfo, 0, len(stats.Traces))
		for id, ts := range stats.Traces {
			traces = append(traces, traceInfo{id, ts})
		}
		sort.Slice(traces, func(i, j int) bool {
			return traces[i].stats.FirstSeen.Before(traces[j].stats.FirstSeen)
		})

		fmt.Fprintln(w)
		for _, tr := range traces {
			fmt.Fprintf(w, "  [%s] %d events, %d queries (%s), %d redirects\n",
				shortenID(tr.id), tr.stats.Events, tr.stats.Queries,
				formatDuration(tr.stats.QueryTime), tr.stats.Redirects)
			if tr.stats.Domain != "" {
				fmt.Fprintf(w, "           Domain: %s\n", tr.stats.Domain)
			}
			if tr.stats.InstancesKept+tr.stats.InstancesDropped > 0 {
				fmt.Fprintf(w, "           Instances: %d kept, %d dropped\n",
					tr.stats.InstancesKept, tr.stats.InstancesDropped)
			}
		}
	}

	if stats.Errors > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Errors: %d\n", stats.Errors)
	}
}
