package research

import (
	"net"
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// domainFilter rejects links that point back to the search engine or to the
// site being enhanced.
type domainFilter struct {
	domains []string
}

func newDomainFilter(domains ...string) domainFilter {
	normalized := make([]string, 0, len(domains))
	for _, d := range domains {
		d = normalizeHost(d)
		if d != "" {
			normalized = append(normalized, d)
		}
	}
	return domainFilter{domains: normalized}
}

// Allowed reports whether rawURL may be used as a research source.
func (f domainFilter) Allowed(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := normalizeHost(parsed.Hostname())
	if host == "" {
		return false
	}

	for _, d := range f.domains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return false
		}
		if sameRegistrableDomain(host, d) {
			return false
		}
	}
	return true
}

func sameRegistrableDomain(a, b string) bool {
	if net.ParseIP(a) != nil || net.ParseIP(b) != nil {
		return false
	}
	ra, err := publicsuffix.EffectiveTLDPlusOne(a)
	if err != nil {
		return false
	}
	rb, err := publicsuffix.EffectiveTLDPlusOne(b)
	if err != nil {
		return false
	}
	return ra == rb
}

func normalizeHost(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	host = strings.TrimSuffix(host, ".")
	return strings.TrimPrefix(host, "www.")
}
