package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDownloadFlagValidation(t *testing.T) {
	t.Cleanup(func() {
		directURL = ""
		searchOnly = false
	})

	directURL = ""
	searchOnly = false
	err := runDownload(downloadCmd, nil)
	assert.ErrorContains(t, err, "a movie name or --url is required")

	directURL = "https://einthusan.tv/movie/watch/11x9Ab/"
	searchOnly = true
	err = runDownload(downloadCmd, nil)
	assert.ErrorContains(t, err, "cannot be combined with --url")
}
