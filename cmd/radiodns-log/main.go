// Command radiodns-log views and analyzes RadioDNS resolution trace files.
//
// Trace files are written by radiodns with the -trace-log flag, or by any
// program that sets radiodns.Config.TraceLogger to a log.FileLogger.
//
// Usage:
//
//	radiodns-log <command> [flags] <file.rlog>
//
// Commands:
//
//	view     View trace file in human-readable format
//	export   Export trace file to JSONL or CSV format
//	filter   Filter trace file and write to new file
//	stats    Show statistics about the trace file
//
// Examples:
//
//	# View all events
//	radiodns-log view lookup.rlog
//
//	# View only redirects
//	radiodns-log view -category redirect lookup.rlog
//
//	# Export to JSONL
//	radiodns-log export -format jsonl lookup.rlog
//
//	# Keep one lookup and save it to a new file
//	radiodns-log filter -trace-id 1b4e28ba -o one.rlog lookup.rlog
//
//	# Show statistics
//	radiodns-log stats lookup.rlog
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/nexgenta/libradiodns/cmd/radiodns-log/commands"
)

const usage = `radiodns-log - RadioDNS Resolution Trace Analyzer

Usage:
  radiodns-log <command> [flags] <file.rlog>

Commands:
  view     View trace file in human-readable format
  export   Export trace file to JSONL or CSV format
  filter   Filter trace file and write to new file
  stats    Show statistics about the trace file

Use "radiodns-log <command> -help" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "view":
		runView(args)
	case "export":
		runExport(args)
	case "filter":
		runFilter(args)
	case "stats":
		runStats(args)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func requirePath(fs *flag.FlagSet) string {
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: trace file path required")
		fs.Usage()
		os.Exit(1)
	}
	return fs.Arg(0)
}

func runView(args []string) {
	fs := flag.NewFlagSet("view", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `radiodns-log view - View trace file in human-readable format

Usage:
  radiodns-log view [flags] <file.rlog>

Flags:
`)
		fs.PrintDefaults()
	}

	stage := fs.String("stage", "", "Filter by stage (target, service, instance)")
	category := fs.String("category", "", "Filter by category (query, redirect, instance, error)")
	traceID := fs.String("trace-id", "", "Filter by trace ID prefix")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := requirePath(fs)

	filter := commands.ViewFilter{TraceID: *traceID}
	if *stage != "" {
		s, err := commands.ParseStageFlag(*stage)
		if err != nil {
			fail(err)
		}
		filter.Stage = &s
	}
	if *category != "" {
		c, err := commands.ParseCategoryFlag(*category)
		if err != nil {
			fail(err)
		}
		filter.Category = &c
	}

	if err := commands.RunView(path, filter, os.Stdout); err != nil {
		fail(err)
	}
}

func runExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `radiodns-log export - Export trace file to JSONL or CSV format

Usage:
  radiodns-log export [flags] <file.rlog>

Flags:
`)
		fs.PrintDefaults()
	}

	format := fs.String("format", "jsonl", "Output format (jsonl, csv)")
	output := fs.String("o", "", "Output file (default: stdout)")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := requirePath(fs)

	if err := commands.RunExport(path, *format, *output); err != nil {
		fail(err)
	}
}

func runFilter(args []string) {
	fs := flag.NewFlagSet("filter", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `radiodns-log filter - Filter trace file and write to new file

Usage:
  radiodns-log filter [flags] <file.rlog>

Flags:
`)
		fs.PrintDefaults()
	}

	output := fs.String("o", "", "Output file (required)")
	traceID := fs.String("trace-id", "", "Filter by trace ID")
	domain := fs.String("domain", "", "Filter by source domain")
	timeStart := fs.String("time-start", "", "Filter by start time (RFC3339)")
	timeEnd := fs.String("time-end", "", "Filter by end time (RFC3339)")
	stage := fs.String("stage", "", "Filter by stage (target, service, instance)")
	category := fs.String("category", "", "Filter by category (query, redirect, instance, error)")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := requirePath(fs)

	if *output == "" {
		fmt.Fprintln(os.Stderr, "Error: output file (-o) required")
		fs.Usage()
		os.Exit(1)
	}

	opts := commands.FilterOptions{
		Output:    *output,
		TraceID:   *traceID,
		Domain:    *domain,
		TimeStart: *timeStart,
		TimeEnd:   *timeEnd,
		Stage:     *stage,
		Category:  *category,
	}
	if err := commands.RunFilter(path, opts, os.Stdout); err != nil {
		fail(err)
	}
}

func runStats(args []string) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `radiodns-log stats - Show statistics about the trace file

Usage:
  radiodns-log stats <file.rlog>

`)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := requirePath(fs)

	if err := commands.RunStats(path, os.Stdout); err != nil {
		fail(err)
	}
}
