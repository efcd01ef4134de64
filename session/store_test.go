package session

import (
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStoreAt(t.TempDir(), zerolog.Nop())
}

func TestLoadSessionMissingFile(t *testing.T) {
	store := newTestStore(t)

	sess, err := store.LoadSession()
	require.NoError(t, err)
	assert.Empty(t, sess.Cookies)
	assert.False(t, sess.Authenticated)
}

func TestSessionRoundTrip(t *testing.T) {
	store := newTestStore(t)

	expires := time.Now().Add(24 * time.Hour).Truncate(time.Second)
	sess := &Session{
		Cookies: []*http.Cookie{
			{Domain: ".einthusan.tv", Path: "/", Secure: true, Expires: expires, Name: "lfca", Value: "abc123"},
			{Domain: "einthusan.tv", Path: "/movie", Name: "prefs", Value: "x"},
		},
	}

	require.NoError(t, store.SaveSession(sess))

	loaded, err := store.LoadSession()
	require.NoError(t, err)
	require.Len(t, loaded.Cookies, 2)

	first := loaded.Cookies[0]
	assert.Equal(t, ".einthusan.tv", first.Domain)
	assert.Equal(t, "/", first.Path)
	assert.True(t, first.Secure)
	assert.Equal(t, expires.Unix(), first.Expires.Unix())
	assert.Equal(t, "lfca", first.Name)
	assert.Equal(t, "abc123", first.Value)

	assert.True(t, loaded.Authenticated)
}

func TestLoadSessionExpiredCookies(t *testing.T) {
	store := newTestStore(t)

	sess := &Session{
		Cookies: []*http.Cookie{
			{Domain: ".einthusan.tv", Path: "/", Expires: time.Now().Add(-time.Hour), Name: "lfca", Value: "stale"},
		},
	}
	require.NoError(t, store.SaveSession(sess))

	loaded, err := store.LoadSession()
	require.NoError(t, err)
	assert.False(t, loaded.Authenticated)
}

func TestParseNetscapeSkipsCommentsAndBlanks(t *testing.T) {
	input := strings.Join([]string{
		"# Netscape HTTP Cookie File",
		"",
		"# a comment",
		"einthusan.tv\tFALSE\t/\tFALSE\t0\tprefs\tdark",
	}, "\n")

	cookies, err := parseNetscape(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, cookies, 1)
	assert.Equal(t, "prefs", cookies[0].Name)
	assert.True(t, cookies[0].Expires.IsZero())
}

func TestParseNetscapeMalformedLine(t *testing.T) {
	_, err := parseNetscape(strings.NewReader("einthusan.tv\tFALSE\t/\n"))
	assert.Error(t, err)
}

func TestCredentialsRoundTrip(t *testing.T) {
	store := newTestStore(t)

	_, err := store.LoadCredentials()
	assert.True(t, errors.Is(err, fs.ErrNotExist))

	creds := Credentials{Email: "user@example.com", Password: "hunter2"}
	require.NoError(t, store.SaveCredentials(creds))

	loaded, err := store.LoadCredentials()
	require.NoError(t, err)
	assert.Equal(t, creds, *loaded)

	info, err := os.Stat(store.CredentialsPath())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestMergeReplacesByNameAndDomain(t *testing.T) {
	sess := &Session{
		Cookies: []*http.Cookie{
			{Domain: "einthusan.tv", Name: "lfca", Value: "old"},
		},
	}

	sess.Merge([]*http.Cookie{
		{Domain: "einthusan.tv", Name: "lfca", Value: "new"},
		{Domain: "einthusan.tv", Name: "other", Value: "v"},
	})

	require.Len(t, sess.Cookies, 2)
	assert.Equal(t, "new", sess.Cookies[0].Value)
}

func TestJarSeedsCookies(t *testing.T) {
	sess := &Session{
		Cookies: []*http.Cookie{
			{Name: "lfca", Value: "abc", Path: "/"},
		},
	}

	jar, err := sess.Jar("https://einthusan.tv")
	require.NoError(t, err)

	req, _ := http.NewRequest(http.MethodGet, "https://einthusan.tv/movie/results/", nil)
	found := false
	for _, c := range jar.Cookies(req.URL) {
		if c.Name == "lfca" && c.Value == "abc" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestCookiePathLocations(t *testing.T) {
	dir := t.TempDir()
	store := NewStoreAt(dir, zerolog.Nop())
	assert.Equal(t, filepath.Join(dir, "cookies.txt"), store.CookiePath())
	assert.Equal(t, filepath.Join(dir, "credentials.json"), store.CredentialsPath())
}
