// Package dnsquery provides radiodns.Querier implementations.
//
// UnicastQuerier sends conventional DNS queries to recursive name servers,
// taken from configuration or from /etc/resolv.conf. StaticQuerier answers
// from an in-memory zone, typically loaded from a YAML fixture, for offline
// use and tests.
package dnsquery
