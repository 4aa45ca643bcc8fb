package client

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"
)

const (
	EnvAPIURL     = "EVENTHUB_API_URL"
	EnvOriginHost = "EVENTHUB_ORIGIN_HOST"

	DefaultLocalURL       = "http://localhost:8000/api/v1"
	DefaultProductionHost = "eventhub.app"
	DefaultProductionURL  = "https://api.eventhub.app/api/v1"
)

// Resolver computes the backend base address. It holds no cached result:
// BaseURL reads the environment on every call.
type Resolver struct {
	// APIBaseURL is the configured explicit address, used when EnvAPIURL is unset.
	APIBaseURL string
	// OriginHost is the configured host the client runs on, used when
	// EnvOriginHost is unset.
	OriginHost     string
	ProductionHost string
	ProductionURL  string
	LocalURL       string

	lookupEnv func(string) (string, bool)
}

func NewResolver(apiBaseURL, originHost, productionHost, productionURL string) *Resolver {
	return &Resolver{
		APIBaseURL:     apiBaseURL,
		OriginHost:     originHost,
		ProductionHost: productionHost,
		ProductionURL:  productionURL,
		LocalURL:       DefaultLocalURL,
		lookupEnv:      os.LookupEnv,
	}
}

func (r *Resolver) env(key string) string {
	lookup := r.lookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}
	v, _ := lookup(key)
	return strings.TrimSpace(v)
}

func (r *Resolver) BaseURL() string {
	explicit := r.env(EnvAPIURL)
	if explicit == "" {
		explicit = strings.TrimSpace(r.APIBaseURL)
	}
	if explicit != "" {
		return strings.TrimRight(explicit, "/")
	}

	host := r.env(EnvOriginHost)
	if host == "" {
		host = r.OriginHost
	}

	prodHost := r.ProductionHost
	if prodHost == "" {
		prodHost = DefaultProductionHost
	}
	if hostname(host) == strings.ToLower(prodHost) {
		if r.ProductionURL != "" {
			return strings.TrimRight(r.ProductionURL, "/")
		}
		return DefaultProductionURL
	}

	if r.LocalURL != "" {
		return strings.TrimRight(r.LocalURL, "/")
	}
	return DefaultLocalURL
}

// URL joins path onto the current base address and attaches query.
func (r *Resolver) URL(path string, query url.Values) (string, error) {
	raw := r.BaseURL() + "/" + strings.TrimLeft(path, "/")
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid request url %q: %w", raw, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("invalid request url %q: missing scheme or host", raw)
	}
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String(), nil
}

// hostname lowercases h and drops a port.
func hostname(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	if host, _, err := net.SplitHostPort(h); err == nil {
		return host
	}
	return h
}
