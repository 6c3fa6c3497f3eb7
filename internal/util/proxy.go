// Package util holds small shared helpers: robots.txt checking and proxy
// resolution for outbound HTTP clients.
package util

import (
	"net/http"
	"net/url"
)

// NewProxyFunc builds a proxy resolver for an http.Transport. Explicit
// proxy URLs win; with neither set the standard environment variables
// (HTTP_PROXY, HTTPS_PROXY, NO_PROXY) apply.
func NewProxyFunc(httpProxy, httpsProxy string) func(*http.Request) (*url.URL, error) {
	if httpProxy == "" && httpsProxy == "" {
		return http.ProxyFromEnvironment
	}

	return func(req *http.Request) (*url.URL, error) {
		if req.URL.Scheme == "https" && httpsProxy != "" {
			return url.Parse(httpsProxy)
		}
		if httpProxy != "" {
			return url.Parse(httpProxy)
		}
		return http.ProxyFromEnvironment(req)
	}
}
