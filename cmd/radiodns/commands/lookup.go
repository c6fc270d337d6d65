package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/nexgenta/libradiodns/pkg/radiodns"
)

// Lookup resolves source domains and reports the result.
type Lookup struct {
	// Config is used for every Context created.
	Config radiodns.Config

	// App, when set, lists the instances of this application after the
	// target is found.
	App string

	// Protocol is the application's transport protocol. Empty means tcp.
	Protocol string

	// Sort orders each instance's SRV entries by priority and weight.
	Sort bool
}

// Run resolves domain and writes a report to w:
//
//	Domain: 09580.c479.ce1.fm.radiodns.org
//	Target: rdns.example.com
func (l *Lookup) Run(ctx context.Context, domain string, w io.Writer) error {
	rc, err := radiodns.NewContext(domain, l.Config)
	if err != nil {
		return err
	}
	defer rc.Close()

	fmt.Fprintf(w, "Domain: %s\n", rc.Domain())

	target, err := rc.ResolveTarget(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Target: %s\n", target)

	if l.App == "" {
		return nil
	}

	instances, err := rc.ResolveInstances(ctx, l.App, l.Protocol)
	if err != nil {
		return err
	}
	if l.Sort {
		for i := range instances {
			radiodns.SortSRV(instances[i].SRV)
		}
	}
	PrintInstances(w, l.App, instances)
	return nil
}

// RunAll resolves every domain in turn, reporting failures to errw and
// carrying on. It returns the number of domains that failed.
func (l *Lookup) RunAll(ctx context.Context, domains []string, w, errw io.Writer) int {
	failed := 0
	for i, d := range domains {
		if i > 0 {
			fmt.Fprintln(w)
		}
		if err := l.Run(ctx, d, w); err != nil {
			fmt.Fprintf(errw, "%s: %v\n", d, err)
			failed++
		}
	}
	return failed
}

// PrintInstances writes an instance listing.
func PrintInstances(w io.Writer, app string, instances []radiodns.Instance) {
	app = strings.TrimPrefix(app, "_")
	if len(instances) == 0 {
		fmt.Fprintf(w, "No %s instances\n", app)
		return
	}

	fmt.Fprintf(w, "Instances of %s: %d\n", app, len(instances))
	for _, in := range instances {
		name := in.Name
		if in.Default {
			name = "(default)"
		}
		fmt.Fprintf(w, "  %s\n", name)
		for _, s := range in.SRV {
			fmt.Fprintf(w, "    SRV %d %d %d %s\n", s.Priority, s.Weight, s.Port, s.Target)
		}
		for _, p := range in.Params {
			fmt.Fprintf(w, "    %s=%q\n", p.Key, p.Value)
		}
	}
}
