// Package radiodns implements RadioDNS service discovery for broadcast receivers.
//
// A receiver that knows the technical identifiers of the service it is tuned to
// (FM frequency and PI code, DAB ensemble identifiers, DRM/AMSS service IDs,
// HD Radio transmitter IDs or DVB triplets) derives a canonical source domain,
// resolves that domain through CNAME/DNAME redirection to an application
// discovery target, and then enumerates the service instances published
// beneath the target.
//
// # Source Domains
//
// One synthesizer exists per broadcast technology:
//
//	fm:       <freq:05d>.<pi:04x>.<country>.fm.radiodns.org
//	dab:      <scids>.<sid>.<eid:04x>.<ecc:03x>.dab.radiodns.org
//	dab (SC): <pa>.<scids>.<sid>.<eid:04x>.<ecc:03x>.dab.radiodns.org
//	dab (XPAD): <apptype:02x>-<uatype:03x>.<scids>.<sid>.<eid:04x>.<ecc:03x>.dab.radiodns.org
//	drm:      <sid:06x>.drm.radiodns.org
//	amss:     <sid:06x>.amss.radiodns.org
//	hd:       <tx:05x>.<cc:03x>.hd.radiodns.org
//	dvb:      <nid:04x>.<sid:04x>.<tsid:04x>.<onid:04x>.dvb.tvdns.net
//
// Country codes and ECCs are embedded as given; callers are responsible for
// case normalisation.
//
// # Resolution
//
// A Context holds the source domain, the resolved target and a reusable answer
// buffer:
//
//	rdns, err := radiodns.NewFMContext(9580, 0xc479, "gb", "", cfg)
//	target, err := rdns.ResolveTarget(ctx)
//	instances, err := rdns.ResolveInstances(ctx, "radioepg", "tcp")
//
// Instances found directly at _<app>._<proto>.<target> form the default
// instance (Name == ""); instances reached through PTR records are named after
// the first label of the PTR target. Instances without SRV records are omitted.
//
// # Errors
//
// Failures are *Error values tagged with a Kind. Validation errors come from
// bad identifiers, transient errors from queries that may succeed later, and
// fatal errors abort the whole operation. Malformed individual records never
// surface as errors; they are skipped.
//
// A Context is not safe for concurrent use.
package radiodns
