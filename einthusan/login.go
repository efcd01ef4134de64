package einthusan

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/PuerkitoBio/goquery"

	"github.com/s0up4200/einthusarr/session"
)

// Login authenticates against the site with the given credentials.
//
// On success the client's session gains the login cookies and is marked
// authenticated; the caller is responsible for persisting it. Invalid
// credentials or a site-side challenge yield an *AuthError.
func (c *Client) Login(ctx context.Context, creds session.Credentials) (*session.Session, error) {
	if creds.Email == "" || creds.Password == "" {
		return nil, &AuthError{Reason: "email and password are required"}
	}

	body, err := c.get(ctx, c.baseURL+"/login/")
	if err != nil {
		return nil, &AuthError{Reason: "could not load login page", Err: err}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, &AuthError{Reason: "could not parse login page", Err: err}
	}

	pageID := doc.Find("html").AttrOr("data-pageid", "")
	if pageID == "" {
		return nil, &AuthError{Reason: "login page carried no CSRF token"}
	}

	payload, err := json.Marshal(map[string]string{
		"Email":    creds.Email,
		"Password": creds.Password,
	})
	if err != nil {
		return nil, err
	}

	form := url.Values{
		"xEvent":             {"UIAccountLogin.Submit"},
		"xJson":              {string(payload)},
		"gorilla.csrf.Token": {pageID},
	}

	respBody, resp, err := c.postForm(ctx, c.baseURL+"/ajax/login/", form)
	if err != nil {
		return nil, &AuthError{Reason: "login request failed", Err: err}
	}

	var envelope struct {
		Event   string `json:"Event"`
		Message string `json:"Message"`
	}
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return nil, &AuthError{Reason: "unexpected login response", Err: err}
	}

	if envelope.Event != "redirect" {
		reason := envelope.Message
		if reason == "" {
			reason = fmt.Sprintf("site rejected login (event %q)", envelope.Event)
		}
		return nil, &AuthError{Reason: reason}
	}

	c.session.Merge(resp.Cookies())
	c.session.Authenticated = true

	c.logger.Info().Str("email", creds.Email).Msg("Logged in to Einthusan")
	return c.session, nil
}
