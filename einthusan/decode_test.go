package einthusan

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// encodeEJLinks builds an obfuscated value the way the site does:
// two junk characters spliced in at positions 10-11 and the displaced
// character appended.
func encodeEJLinks(payload string) string {
	d := base64.StdEncoding.EncodeToString([]byte(payload))
	return d[:10] + "!!" + d[11:] + d[10:11]
}

func TestDecodeEJLinks(t *testing.T) {
	payload := `{"MP4Link":"https://cdn.example.com/movie.mp4?p=priority","HLSLink":"https://cdn.example.com/movie.m3u8"}`

	links, err := decodeEJLinks(encodeEJLinks(payload))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/movie.mp4?p=priority", links.MP4Link)
	assert.Equal(t, "https://cdn.example.com/movie.m3u8", links.HLSLink)
}

func TestDecodeEJLinksMissingHLS(t *testing.T) {
	payload := `{"MP4Link":"https://cdn.example.com/free.mp4"}`

	links, err := decodeEJLinks(encodeEJLinks(payload))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/free.mp4", links.MP4Link)
	assert.Empty(t, links.HLSLink)
}

func TestDecodeEJLinksErrors(t *testing.T) {
	tests := []struct {
		name    string
		encoded string
	}{
		{name: "too short", encoded: "short"},
		{name: "empty", encoded: ""},
		{name: "not base64 after deshuffle", encoded: "@@@@@@@@@@!!@@@@@@@@@@@@"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeEJLinks(tt.encoded)
			assert.Error(t, err)
		})
	}
}
