package commands

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/nexgenta/libradiodns/pkg/log"
)

// RunExport exports the trace file to the specified format.
func RunExport(path, format, output string) error {
	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open trace file: %w", err)
	}
	defer reader.Close()

	var w io.Writer = os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	return export(reader, format, w)
}

func export(reader *log.Reader, format string, w io.Writer) error {
	switch format {
	case "jsonl":
		return exportJSONL(reader, w)
	case "csv":
		return exportCSV(reader, w)
	default:
		return fmt.Errorf("unknown format: %s (supported: jsonl, csv)", format)
	}
}

func exportJSONL(reader *log.Reader, w io.Writer) error {
	encoder := json.NewEncoder(w)
	return forEachEvent(reader, func(e log.Event) error {
		if err := encoder.Encode(e); err != nil {
			return fmt.Errorf("failed to encode event: %w", err)
		}
		return nil
	})
}

var csvHeader = []string{"timestamp", "trace_id", "domain", "stage", "category", "name", "detail"}

func exportCSV(reader *log.Reader, w io.Writer) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	err := forEachEvent(reader, func(e log.Event) error {
		name, detail := csvDetail(e)
		row := []string{
			e.Timestamp.UTC().Format(timestampFormat),
			e.TraceID,
			e.Domain,
			e.Stage.String(),
			e.Category.String(),
			name,
			detail,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

// csvDetail summarises an event's payload as a name and a one-line detail.
func csvDetail(e log.Event) (string, string) {
	switch {
	case e.Query != nil:
		return e.Query.Name, e.Query.TypeString() + " answers=" + strconv.Itoa(e.Query.Answers)
	case e.Redirect != nil:
		return e.Redirect.From, log.RRTypeString(e.Redirect.Type) + " " + e.Redirect.To
	case e.Instance != nil:
		name := e.Instance.Name
		if e.Instance.Default {
			name = "(default)"
		}
		detail := e.Instance.Outcome.String()
		if e.Instance.Reason != "" {
			detail += ": " + e.Instance.Reason
		}
		return name, detail
	case e.Error != nil:
		return e.Error.Name, e.Error.Kind + ": " + e.Error.Message
	default:
		return "", ""
	}
}
