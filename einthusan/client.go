package einthusan

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"github.com/s0up4200/einthusarr/session"
)

const (
	requestTimeout = 30 * time.Second

	userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

var (
	watchPathRe = regexp.MustCompile(`/movie/watch/([^/]+)/`)
	yearRe      = regexp.MustCompile(`\b(\d{4})\b`)
)

// Client talks to the Einthusan site.
type Client struct {
	baseURL    string
	httpClient *http.Client
	session    *session.Session
	logger     zerolog.Logger
}

// NewClient creates a site client whose requests carry the session's
// cookies.
func NewClient(baseURL string, sess *session.Session, logger zerolog.Logger) (*Client, error) {
	baseURL = strings.TrimRight(baseURL, "/")

	jar, err := sess.Jar(baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to build cookie jar: %w", err)
	}

	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Jar:     jar,
			Timeout: requestTimeout,
		},
		session: sess,
		logger:  logger,
	}, nil
}

// Session returns the session the client was built with. Login updates
// it in place.
func (c *Client) Session() *session.Session {
	return c.session
}

// Search queries the site for movies matching the query and returns
// results in the site's own relevance order, deduplicated by movie ID.
// Zero results yield a *NotFoundError.
func (c *Client) Search(ctx context.Context, query Query) ([]SearchResult, error) {
	searchURL := fmt.Sprintf("%s/movie/results/?lang=%s&query=%s",
		c.baseURL, query.Language, url.QueryEscape(query.Title))

	c.logger.Debug().Str("url", searchURL).Msg("Searching Einthusan")

	body, err := c.get(ctx, searchURL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse search results: %w", err)
	}

	var results []SearchResult
	seen := make(map[string]bool)

	doc.Find("#UIMovieSummary li, .block2").Each(func(_ int, block *goquery.Selection) {
		title := strings.TrimSpace(block.Find("a.title h3").Text())
		href, ok := block.Find("a.title").Attr("href")
		if title == "" || !ok {
			return
		}

		m := watchPathRe.FindStringSubmatch(href)
		if m == nil {
			return
		}

		id := m[1]
		if seen[id] {
			return
		}
		seen[id] = true

		results = append(results, SearchResult{
			ID:       id,
			Title:    title,
			Year:     extractYear(block.Find(".info p").Text()),
			Language: query.Language,
			URL:      fmt.Sprintf("%s/movie/watch/%s/?lang=%s", c.baseURL, id, query.Language),
			// The free stream always exists; the premium tier is
			// confirmed at resolve time.
			Qualities: []Quality{QualitySD, QualityHD},
		})
	})

	if len(results) == 0 {
		return nil, &NotFoundError{Query: query.Title, Language: query.Language}
	}

	c.logger.Debug().Int("results", len(results)).Str("query", query.Title).Msg("Search complete")
	return results, nil
}

// get fetches a page and returns its body.
func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

// postForm posts an AJAX form and returns the raw response body.
func (c *Client) postForm(ctx context.Context, rawURL string, form url.Values) ([]byte, *http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, resp, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	return body, resp, err
}

func extractYear(text string) int {
	m := yearRe.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	year, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return year
}

func languageFromURL(rawURL string) Language {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	lang, err := ParseLanguage(u.Query().Get("lang"))
	if err != nil {
		return ""
	}
	return lang
}
