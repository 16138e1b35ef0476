package auth

import (
	"context"
	"net/url"
	"strings"
)

// Scheme is the custom URL scheme the OS routes back to the app.
const Scheme = "sunless"

const schemePrefix = Scheme + "://"

// IsProtocolURL reports whether raw is a sunless:// URL.
func IsProtocolURL(raw string) bool {
	return strings.HasPrefix(raw, schemePrefix)
}

// FindProtocolURL returns the first sunless:// argument, if any.
func FindProtocolURL(args []string) (string, bool) {
	for _, arg := range args {
		if IsProtocolURL(arg) {
			return arg, true
		}
	}
	return "", false
}

// HandleProtocolURL dispatches a sunless:// URL. It reports whether the URL
// was recognised; outcomes are delivered as auth-session-updated events.
func (s *Service) HandleProtocolURL(ctx context.Context, raw string) bool {
	if !IsProtocolURL(raw) {
		return false
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		s.log.WithError(err).Warn("Error parsing protocol URL")
		return false
	}

	if parsed.Host == "auth-complete" || strings.Trim(parsed.Path, "/") == "auth-complete" {
		q := parsed.Query()
		s.complete(ctx, q.Get("code"), q.Get("state"))
		return true
	}

	s.log.WithField("target", parsed.Host+parsed.Path).Debug("Unhandled protocol URL")
	return false
}
