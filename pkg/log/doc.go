// Package log captures RadioDNS resolution traces.
//
// Every DNS query, CNAME/DNAME redirect and service-instance decision made
// by a radiodns.Context can be recorded as an Event. This is separate from
// operational logging (slog): a trace is a complete, machine-readable record
// of how a target and its instances were found, for debugging broadcaster
// DNS configurations.
//
// # Basic Usage
//
// Applications configure tracing by providing a Logger implementation:
//
//	// For development: log to console via slog
//	cfg.TraceLogger = log.NewSlogAdapter(slog.Default())
//
//	// For later analysis: write to a binary file
//	cfg.TraceLogger, _ = log.NewFileLogger("lookup.rlog")
//
//	// Both: use MultiLogger
//	cfg.TraceLogger = log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    fileLogger,
//	)
//
// # Event Types
//
// Events are grouped by stage (target resolution, service query, instance
// follow-up) and category:
//   - Query: one DNS query and a summary of its answer (QueryEvent)
//   - Redirect: a CNAME/DNAME hop (RedirectEvent)
//   - Instance: an instance kept or dropped (InstanceEvent)
//   - Error: a failure at any stage (ErrorEventData)
//
// # File Format
//
// Trace files are a stream of CBOR-encoded events with the .rlog extension.
// The radiodns-log tool views, filters and exports them.
package log
