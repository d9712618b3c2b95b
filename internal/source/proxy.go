package source

import (
	"net/http"
	"net/url"
)

// ProxyFunc routes requests through the configured proxy for their scheme.
// Schemes without a configured proxy use HTTP_PROXY, HTTPS_PROXY and NO_PROXY.
func ProxyFunc(httpProxy, httpsProxy string) func(*http.Request) (*url.URL, error) {
	configured := map[string]string{}
	if httpProxy != "" {
		configured["http"] = httpProxy
	}
	if httpsProxy != "" {
		configured["https"] = httpsProxy
	}
	if len(configured) == 0 {
		return http.ProxyFromEnvironment
	}

	return func(req *http.Request) (*url.URL, error) {
		if proxy, ok := configured[req.URL.Scheme]; ok {
			return url.Parse(proxy)
		}
		return http.ProxyFromEnvironment(req)
	}
}
