package session

import (
	"bufio"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Netscape cookie-jar text format: one cookie per line, seven
// tab-separated fields (domain, include-subdomains flag, path, secure,
// expiry, name, value). Lines starting with # and blank lines are
// ignored.

const netscapeHeader = "# Netscape HTTP Cookie File"

func parseNetscape(r io.Reader) ([]*http.Cookie, error) {
	var cookies []*http.Cookie

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		fields := strings.Split(scanner.Text(), "\t")
		if len(fields) < 7 {
			return nil, fmt.Errorf("cookie file line %d: expected 7 tab-separated fields, got %d", line, len(fields))
		}

		expiry, err := strconv.ParseInt(fields[4], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("cookie file line %d: invalid expiry %q: %w", line, fields[4], err)
		}

		cookie := &http.Cookie{
			Domain: fields[0],
			Path:   fields[2],
			Secure: strings.EqualFold(fields[3], "TRUE"),
			Name:   fields[5],
			Value:  fields[6],
		}
		if expiry > 0 {
			cookie.Expires = time.Unix(expiry, 0)
		}

		cookies = append(cookies, cookie)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading cookie file: %w", err)
	}

	return cookies, nil
}

func writeNetscape(w io.Writer, cookies []*http.Cookie) error {
	if _, err := fmt.Fprintln(w, netscapeHeader); err != nil {
		return err
	}

	for _, c := range cookies {
		includeSub := "FALSE"
		if strings.HasPrefix(c.Domain, ".") {
			includeSub = "TRUE"
		}

		secure := "FALSE"
		if c.Secure {
			secure = "TRUE"
		}

		path := c.Path
		if path == "" {
			path = "/"
		}

		var expiry int64
		if !c.Expires.IsZero() {
			expiry = c.Expires.Unix()
		}

		_, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
			c.Domain, includeSub, path, secure, expiry, c.Name, c.Value)
		if err != nil {
			return err
		}
	}

	return nil
}
