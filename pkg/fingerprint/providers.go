package fingerprint

import (
	"net/http"
	"os"
	"runtime"
	"sort"
	"strconv"
	"strings"
)

// Standard signal names emitted by the built-in providers. Use with
// Exclude to drop volatile signals from the hash.
const (
	SignalUserAgent   = "user_agent"
	SignalAcceptLang  = "accept_language"
	SignalAcceptEnc   = "accept_encoding"
	SignalAccept      = "accept"
	SignalHeaderSet   = "header_set"
	SignalHostname    = "hostname"
	SignalPlatform    = "platform"
	SignalConcurrency = "concurrency"
	SignalLocale      = "locale"
)

// FromRequest builds a SignalProvider from an HTTP request.
//
// The header-set signal fingerprints which standard browser headers are
// present, not their values: different browsers and HTTP clients send
// different header sets, which makes presence alone a useful signal.
// Frequently-changing headers (cookies, cache directives) are excluded
// to reduce false positives. IP addresses are deliberately not a signal;
// they change constantly for mobile and VPN users.
func FromRequest(r *http.Request) SignalProvider {
	return SignalProviderFunc(func() []Signal {
		return []Signal{
			{Name: SignalUserAgent, Value: r.UserAgent()},
			{Name: SignalAcceptLang, Value: r.Header.Get("Accept-Language")},
			{Name: SignalAcceptEnc, Value: r.Header.Get("Accept-Encoding")},
			{Name: SignalAccept, Value: r.Header.Get("Accept")},
			{Name: SignalHeaderSet, Value: headerSet(r)},
		}
	})
}

// Host builds a SignalProvider from local process attributes. This is the
// analogue of browser fingerprinting for CLI and server targets: hostname,
// platform, hardware concurrency, and locale stand in for user agent,
// display geometry, and navigator signals.
func Host() SignalProvider {
	return SignalProviderFunc(func() []Signal {
		hostname, _ := os.Hostname()
		return []Signal{
			{Name: SignalHostname, Value: hostname},
			{Name: SignalPlatform, Value: runtime.GOOS + "/" + runtime.GOARCH},
			{Name: SignalConcurrency, Value: strconv.Itoa(runtime.NumCPU())},
			{Name: SignalLocale, Value: localeFromEnv()},
		}
	})
}

// Static wraps a fixed signal list, primarily for tests and for callers
// that gather signals out-of-band (e.g. relayed from a browser client).
func Static(signals ...Signal) SignalProvider {
	return SignalProviderFunc(func() []Signal { return signals })
}

// headerSet lists which stable, identity-relevant headers the request
// carries. Only presence is recorded, never values.
func headerSet(r *http.Request) string {
	var names []string
	for name := range r.Header {
		switch strings.ToLower(name) {
		case "user-agent", "accept", "accept-language", "accept-encoding",
			"connection", "upgrade-insecure-requests", "sec-fetch-dest",
			"sec-fetch-mode", "sec-fetch-site", "cache-control":
			names = append(names, strings.ToLower(name))
		}
	}

	sort.Strings(names)
	return strings.Join(names, ",")
}

func localeFromEnv() string {
	for _, key := range []string{"LC_ALL", "LANG", "LANGUAGE"} {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return ""
}
