// Package apiurl resolves the VibeFlo API base URL and request paths
// from explicit environment signals. Everything here is pure: the same
// inputs always produce the same outputs and nothing reads globals, so
// resolution is testable without environment mocking.
package apiurl

import "strings"

const (
	// ProductionURL is the known production API origin.
	ProductionURL = "https://api.vibeflo.app"

	// DevelopmentURL is the local development default.
	DevelopmentURL = "http://localhost:5000"

	// ProductionHostSuffix identifies a production deployment by
	// hostname.
	ProductionHostSuffix = "vibeflo.app"
)

// Signals are the explicit inputs to resolution: a configured URL
// override, the hostname the app is served from, and whether the build
// is flagged as production.
type Signals struct {
	ConfiguredURL string
	Hostname      string
	Production    bool
}

// Endpoints is a resolved base URL plus the prefixing rule that applies
// to request paths against it.
type Endpoints struct {
	BaseURL string

	// production controls path prefixing: in production every path is
	// mounted under /api, while development mounts /auth routes at the
	// root.
	production bool
}

// Resolve picks the base URL by precedence: explicit configured URL
// (with any trailing /api stripped), then recognized production
// hostname, then the local development default.
func Resolve(sig Signals) Endpoints {
	if url := strings.TrimSpace(sig.ConfiguredURL); url != "" {
		url = strings.TrimSuffix(strings.TrimSuffix(url, "/"), "/api")
		return Endpoints{BaseURL: url, production: sig.Production || isProductionHost(sig.Hostname)}
	}

	if sig.Production || isProductionHost(sig.Hostname) {
		return Endpoints{BaseURL: ProductionURL, production: true}
	}

	return Endpoints{BaseURL: DevelopmentURL}
}

func isProductionHost(hostname string) bool {
	host := strings.ToLower(strings.TrimSpace(hostname))
	return host == ProductionHostSuffix || strings.HasSuffix(host, "."+ProductionHostSuffix)
}

// NormalizePath produces the final request path for a caller-supplied
// endpoint path. The path always gains a single leading slash. In
// production every path is prefixed with /api unless already so
// prefixed. In development /auth routes are mounted without the /api
// prefix, everything else under /api.
func (e Endpoints) NormalizePath(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	if strings.HasPrefix(path, "/api/") || path == "/api" {
		return path
	}

	if !e.production && (strings.HasPrefix(path, "/auth/") || path == "/auth") {
		return path
	}

	return "/api" + path
}

// URL joins the base URL and the normalized form of path.
func (e Endpoints) URL(path string) string {
	return e.BaseURL + e.NormalizePath(path)
}
