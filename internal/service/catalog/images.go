package catalog

import (
	"net/url"
	"strings"
)

// ImageResolver turns the image references of the commerce service into displayable URLs.
type ImageResolver struct {
	Origin      string
	Placeholder string
}

// Resolve passes absolute URLs through, prefixes relative paths with the service origin and
// falls back to the placeholder for empty or unparsable references.
func (r ImageResolver) Resolve(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return r.Placeholder
	}
	if strings.HasPrefix(ref, "http") {
		if u, err := url.Parse(ref); err != nil || u.Host == "" {
			return r.Placeholder
		}
		return ref
	}
	if _, err := url.Parse(ref); err != nil || r.Origin == "" {
		return r.Placeholder
	}
	if !strings.HasPrefix(ref, "/") {
		ref = "/" + ref
	}
	return strings.TrimSuffix(r.Origin, "/") + ref
}
