package radiodns

import (
	"sort"
	"strings"
)

// Domain name limits.
const (
	// MaxDomainLength is the longest presentation-format domain name accepted.
	MaxDomainLength = 253

	// MaxPrefixLength is reserved ahead of a suffix for the synthesized
	// identifier labels.
	MaxPrefixLength = 32
)

// Default suffixes.
const (
	// DefaultSuffix is appended to FM, DAB, DRM, AMSS and HD Radio domains.
	DefaultSuffix = "radiodns.org"

	// DefaultDVBSuffix is appended to DVB domains.
	DefaultDVBSuffix = "tvdns.net"
)

// Resolution limits.
const (
	// DefaultAnswerBufferSize holds one DNS answer: 16 classic UDP packets.
	DefaultAnswerBufferSize = 512 * 16

	// DefaultMaxRedirects bounds CNAME/DNAME chain following.
	DefaultMaxRedirects = 16

	// DefaultProtocol is used when ResolveInstances is given no protocol.
	DefaultProtocol = "tcp"

	// MaxParams is the number of TXT parameters kept per instance.
	MaxParams = 8
)

// Bearer identifies a broadcast technology.
type Bearer uint8

const (
	BearerUnknown Bearer = iota
	BearerFM
	BearerDAB
	BearerDRM
	BearerAMSS
	BearerHDRadio
	BearerDVB
)

// String returns the bearer's domain label.
func (b Bearer) String() string {
	switch b {
	case BearerFM:
		return "fm"
	case BearerDAB:
		return "dab"
	case BearerDRM:
		return "drm"
	case BearerAMSS:
		return "amss"
	case BearerHDRadio:
		return "hd"
	case BearerDVB:
		return "dvb"
	default:
		return "unknown"
	}
}

// SRVEntry is one SRV record of a service instance.
type SRVEntry struct {
	Priority uint16
	Weight   uint16
	Port     uint16

	// Target is the host name, without trailing dot.
	Target string
}

// Param is one decoded TXT key/value pair.
type Param struct {
	Key   string
	Value string
}

// Instance is one discovered application instance.
type Instance struct {
	// Name is the unescaped first label of the PTR target.
	// Empty for the default instance.
	Name string

	// Default is set for the instance published directly at the service name.
	Default bool

	// SRV lists the instance's endpoints in answer order.
	SRV []SRVEntry

	// Params holds up to MaxParams decoded TXT parameters.
	Params []Param
}

// Param returns the value of the first parameter named key.
func (i *Instance) Param(key string) (string, bool) {
	for _, p := range i.Params {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// SortSRV orders entries by ascending priority, then descending weight, then
// target name.
func SortSRV(entries []SRVEntry) {
	sort.SliceStable(entries, func(a, b int) bool {
		ea, eb := entries[a], entries[b]
		if ea.Priority != eb.Priority {
			return ea.Priority < eb.Priority
		}
		if ea.Weight != eb.Weight {
			return ea.Weight > eb.Weight
		}
		return strings.Compare(ea.Target, eb.Target) < 0
	})
}
