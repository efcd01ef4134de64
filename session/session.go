// Package session manages the on-disk cookie jar and saved credentials
// used to talk to Einthusan across invocations.
package session

import (
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"golang.org/x/net/publicsuffix"
)

// Session holds the cookies restored from (or produced for) the cookie
// store, plus whether they amount to an authenticated site session.
type Session struct {
	Cookies       []*http.Cookie
	Authenticated bool
}

// NewSession returns an empty, unauthenticated session.
func NewSession() *Session {
	return &Session{}
}

// Jar builds an http.CookieJar seeded with the session's cookies for the
// given site base URL.
func (s *Session) Jar(baseURL string) (http.CookieJar, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, err
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}

	if len(s.Cookies) > 0 {
		jar.SetCookies(u, s.Cookies)
	}

	return jar, nil
}

// Merge adds or replaces cookies by (name, domain), keeping the most
// recent value. Used after login responses set fresh cookies.
func (s *Session) Merge(cookies []*http.Cookie) {
	for _, c := range cookies {
		replaced := false
		for i, existing := range s.Cookies {
			if existing.Name == c.Name && existing.Domain == c.Domain {
				s.Cookies[i] = c
				replaced = true
				break
			}
		}
		if !replaced {
			s.Cookies = append(s.Cookies, c)
		}
	}
}

// HasLiveCookies reports whether any cookie is still valid at the given
// time. Cookies without an expiry are treated as session cookies and
// count as live.
func (s *Session) HasLiveCookies(now time.Time) bool {
	for _, c := range s.Cookies {
		if c.Expires.IsZero() || c.Expires.After(now) {
			return true
		}
	}
	return false
}
