package einthusan

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// premiumPageMarker appears in the markup of premium watch pages.
const premiumPageMarker = "PGPremiumMovieWatch"

// ajaxResponse is the envelope of the site's AJAX endpoints. Data is a
// plain string for redirect events and an object otherwise.
type ajaxResponse struct {
	Event string          `json:"Event"`
	Data  json.RawMessage `json:"Data"`
}

type ajaxLinkData struct {
	EJLinks string `json:"EJLinks"`
}

// Resolve turns a watch-page URL into a direct download link.
//
// Requesting HD with an unauthenticated session short-circuits to
// ResolvedLink{RequiresAuth: true} without touching the network: the
// premium stream is gated behind login and there is nothing to fetch.
func (c *Client) Resolve(ctx context.Context, watchURL string, quality Quality) (*ResolvedLink, error) {
	if quality == QualityHD && !c.session.Authenticated {
		return &ResolvedLink{RequiresAuth: true, Language: languageFromURL(watchURL)}, nil
	}
	return c.resolvePage(ctx, watchURL, false)
}

func (c *Client) resolvePage(ctx context.Context, watchURL string, followedRedirect bool) (*ResolvedLink, error) {
	body, err := c.get(ctx, watchURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch watch page: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse watch page: %w", err)
	}

	pageID := doc.Find("html").AttrOr("data-pageid", "")

	player := doc.Find("section#UIVideoPlayer")
	if player.Length() == 0 {
		if !c.session.Authenticated {
			// Premium-only pages hide the player from anonymous
			// visitors.
			return &ResolvedLink{RequiresAuth: true, Language: languageFromURL(watchURL)}, nil
		}
		return nil, fmt.Errorf("no video player on %s", watchURL)
	}

	pingables := player.AttrOr("data-ejpingables", "")
	title := player.AttrOr("data-content-title", "")
	year := extractYear(doc.Find("#UIMovieSummary .info p").Text())

	payload, err := json.Marshal(map[string]any{
		"EJOutcomes": pingables,
		"NativeHLS":  false,
	})
	if err != nil {
		return nil, err
	}

	form := url.Values{
		"xEvent":             {"UIVideoPlayer.PingOutcome"},
		"xJson":              {string(payload)},
		"gorilla.csrf.Token": {pageID},
	}

	ajaxBody, _, err := c.postForm(ctx, ajaxURL(watchURL), form)
	if err != nil {
		return nil, fmt.Errorf("link request failed: %w", err)
	}

	var envelope ajaxResponse
	if err := json.Unmarshal(ajaxBody, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode link response: %w", err)
	}

	if envelope.Event == "redirect" {
		var path string
		if err := json.Unmarshal(envelope.Data, &path); err != nil {
			return nil, fmt.Errorf("failed to decode redirect target: %w", err)
		}
		if followedRedirect {
			return nil, fmt.Errorf("redirect loop resolving %s", watchURL)
		}
		// Premium watch pages live behind a one-hop redirect.
		c.logger.Debug().Str("target", path).Msg("Following premium redirect")
		return c.resolvePage(ctx, c.baseURL+path, true)
	}

	var data ajaxLinkData
	if err := json.Unmarshal(envelope.Data, &data); err != nil {
		return nil, fmt.Errorf("unexpected link response format: %w", err)
	}
	if data.EJLinks == "" {
		if !c.session.Authenticated {
			return &ResolvedLink{RequiresAuth: true, Language: languageFromURL(watchURL)}, nil
		}
		return nil, fmt.Errorf("no download links in response for %s", watchURL)
	}

	links, err := decodeEJLinks(data.EJLinks)
	if err != nil {
		return nil, fmt.Errorf("failed to decode download links: %w", err)
	}

	premium := bytes.Contains(body, []byte(premiumPageMarker)) ||
		strings.Contains(links.MP4Link, "p=priority")

	return &ResolvedLink{
		Title:    title,
		Year:     year,
		Language: languageFromURL(watchURL),
		MP4URL:   links.MP4Link,
		HLSURL:   links.HLSLink,
		Premium:  premium,
	}, nil
}

// ajaxURL maps a watch-page URL to its AJAX counterpart, for both the
// free and premium page layouts.
func ajaxURL(watchURL string) string {
	if strings.Contains(watchURL, "/premium/") {
		return strings.Replace(watchURL, "/premium/movie/", "/ajax/premium/movie/", 1)
	}
	return strings.Replace(watchURL, "/movie/", "/ajax/movie/", 1)
}
