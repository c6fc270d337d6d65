package dnsquery

import (
	"strings"

	"github.com/miekg/dns"
)

// canonicalName returns the lowercased absolute form of name with its
// escaping normalized, so that `a\032b` and `a\ b` map to the same key.
func canonicalName(name string) string {
	fqdn := dns.Fqdn(name)
	buf := make([]byte, 256)
	n, err := dns.PackDomainName(fqdn, buf, 0, nil, false)
	if err != nil {
		return strings.ToLower(fqdn)
	}
	out, _, err := dns.UnpackDomainName(buf[:n], 0)
	if err != nil {
		return strings.ToLower(fqdn)
	}
	return strings.ToLower(out)
}
