// Package commands implements the radiodns CLI commands.
package commands

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/nexgenta/libradiodns/pkg/radiodns"
)

// ErrUsage reports a wrong number of arguments.
var ErrUsage = errors.New("wrong number of arguments")

// Bearer describes one bearer subcommand.
type Bearer struct {
	Name  string
	Args  []string
	Help  string
	build func(args []uint32, country, suffix string) (string, error)
}

// Usage returns the argument synopsis, e.g. "fm FREQ PI COUNTRY".
func (b Bearer) Usage() string {
	return strings.Join(append([]string{b.Name}, b.Args...), " ")
}

var bearers = map[string]Bearer{
	"fm": {
		Name: "fm", Args: []string{"FREQ", "PI", "COUNTRY"},
		Help: "VHF/FM: frequency in 10kHz units, RDS PI, ISO country or ECC",
		build: func(a []uint32, country, suffix string) (string, error) {
			return radiodns.FMDomain(a[0], a[1], country, suffix)
		},
	},
	"dab": {
		Name: "dab", Args: []string{"SCIDS", "SID", "EID", "ECC"},
		Help: "DAB service",
		build: func(a []uint32, _, suffix string) (string, error) {
			return radiodns.DABDomain(a[0], a[1], a[2], a[3], suffix)
		},
	},
	"dab-sc": {
		Name: "dab-sc", Args: []string{"PA", "SCIDS", "SID", "EID", "ECC"},
		Help: "DAB service via an independent service component",
		build: func(a []uint32, _, suffix string) (string, error) {
			return radiodns.DABSCDomain(a[0], a[1], a[2], a[3], a[4], suffix)
		},
	},
	"dab-xpad": {
		Name: "dab-xpad", Args: []string{"APPTYPE", "UATYPE", "SCIDS", "SID", "EID", "ECC"},
		Help: "DAB service via X-PAD",
		build: func(a []uint32, _, suffix string) (string, error) {
			return radiodns.DABXPADDomain(a[0], a[1], a[2], a[3], a[4], a[5], suffix)
		},
	},
	"drm": {
		Name: "drm", Args: []string{"SID"},
		Help: "DRM service",
		build: func(a []uint32, _, suffix string) (string, error) {
			return radiodns.DRMDomain(a[0], suffix)
		},
	},
	"amss": {
		Name: "amss", Args: []string{"SID"},
		Help: "AMSS service",
		build: func(a []uint32, _, suffix string) (string, error) {
			return radiodns.AMSSDomain(a[0], suffix)
		},
	},
	"hd": {
		Name: "hd", Args: []string{"TX", "CC"},
		Help: "HD Radio: transmitter ID and country code",
		build: func(a []uint32, _, suffix string) (string, error) {
			return radiodns.HDRadioDomain(a[0], a[1], suffix)
		},
	},
	"dvb": {
		Name: "dvb", Args: []string{"ONID", "TSID", "SID", "NID"},
		Help: "DVB service",
		build: func(a []uint32, _, suffix string) (string, error) {
			return radiodns.DVBDomain(a[0], a[1], a[2], a[3], suffix)
		},
	},
}

// LookupBearer returns the bearer subcommand called name.
func LookupBearer(name string) (Bearer, bool) {
	b, ok := bearers[strings.ToLower(name)]
	return b, ok
}

// Bearers returns all bearer subcommands sorted by name.
func Bearers() []Bearer {
	out := make([]Bearer, 0, len(bearers))
	for _, b := range bearers {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Domain parses args for bearer b and synthesizes its source domain. The
// FM country argument is taken verbatim; every other argument is a number
// in decimal or 0x-prefixed hex.
func (b Bearer) Domain(args []string, suffix string) (string, error) {
	if len(args) != len(b.Args) {
		return "", fmt.Errorf("%w: usage: %s", ErrUsage, b.Usage())
	}

	var country string
	nums := make([]uint32, 0, len(args))
	for i, a := range args {
		if b.Args[i] == "COUNTRY" {
			country = a
			continue
		}
		v, err := ParseNumber(a)
		if err != nil {
			return "", fmt.Errorf("%s: %w", b.Args[i], err)
		}
		nums = append(nums, v)
	}
	return b.build(nums, country, suffix)
}

// ParseNumber parses a 32-bit unsigned number in decimal or, with a 0x
// prefix, hex. Leading zeros do not select octal.
func ParseNumber(s string) (uint32, error) {
	base := 10
	digits := s
	if len(s) > 2 && (s[:2] == "0x" || s[:2] == "0X") {
		base = 16
		digits = s[2:]
	}
	v, err := strconv.ParseUint(digits, base, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return uint32(v), nil
}
