package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/einthusarr/download"
	"github.com/s0up4200/einthusarr/einthusan"
	"github.com/s0up4200/einthusarr/plex"
)

var (
	directURL  string
	langFlag   string
	outputDir  string
	searchOnly bool
	infoOnly   bool
)

// downloadCmd represents the download command
var downloadCmd = &cobra.Command{
	Use:   "download [movie name]",
	Short: "Search Einthusan for a movie and download it",
	Long: `Search Einthusan for a movie by name and download the first result,
or download directly from a watch-page URL.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDownload,
}

func init() {
	downloadCmd.Flags().StringVar(&directURL, "url", "", "direct Einthusan watch-page URL")
	downloadCmd.Flags().StringVar(&langFlag, "lang", "", "movie language (default from config)")
	downloadCmd.Flags().BoolVar(&searchOnly, "search", false, "list search results without downloading")
	downloadCmd.Flags().BoolVar(&infoOnly, "info", false, "print the resolved link info without downloading")
	downloadCmd.Flags().StringVar(&outputDir, "output", "", "output directory (default from config)")
}

func runDownload(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if directURL == "" && len(args) == 0 {
		return fmt.Errorf("a movie name or --url is required")
	}
	if directURL != "" && searchOnly {
		return fmt.Errorf("--search lists query results and cannot be combined with --url")
	}

	lang, err := resolveLanguage()
	if err != nil {
		return err
	}

	quality, err := einthusan.ParseQuality(cfg.Einthusan.Quality)
	if err != nil {
		return err
	}

	destDir := cfg.Download.Dir
	if outputDir != "" {
		destDir = outputDir
	}

	watchURL := directURL
	var fallback *einthusan.SearchResult

	if watchURL == "" {
		query := einthusan.Query{Title: args[0], Language: lang}
		results, err := siteClient.Search(ctx, query)
		if err != nil {
			return err
		}

		fmt.Printf("Found %d result(s):\n\n", len(results))
		for i, r := range results {
			year := ""
			if r.Year > 0 {
				year = fmt.Sprintf(" (%d)", r.Year)
			}
			fmt.Printf("  %d. %s%s\n     %s\n", i+1, r.Title, year, r.URL)
		}

		if searchOnly {
			return nil
		}

		fallback = &results[0]
		watchURL = results[0].URL
		fmt.Printf("\nDownloading first result: %s\n", results[0].Title)
	}

	link, err := siteClient.Resolve(ctx, watchURL, quality)
	if err != nil {
		return err
	}
	if link.RequiresAuth {
		return fmt.Errorf("%s quality requires an authenticated session; run 'einthusarr login' first", quality)
	}

	if infoOnly {
		out, err := json.MarshalIndent(link, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	if link.MP4URL == "" {
		return fmt.Errorf("no downloadable link resolved for %s", watchURL)
	}

	title, year := link.Title, link.Year
	if fallback != nil {
		if title == "" {
			title = fallback.Title
		}
		if year == 0 {
			year = fallback.Year
		}
	}

	tier := einthusan.QualitySD
	if link.Premium {
		tier = einthusan.QualityHD
	}

	language := lang
	if link.Language != "" {
		language = link.Language
	}

	name := plex.Filename(plex.Metadata{
		Title:    title,
		Year:     year,
		Language: string(language),
		Quality:  string(tier),
		Ext:      "mp4",
	})

	path, err := download.New(logger).Fetch(ctx, link.MP4URL, destDir, name)
	if err != nil {
		return err
	}

	fmt.Printf("✓ Downloaded: %s\n", path)
	return nil
}

func resolveLanguage() (einthusan.Language, error) {
	raw := cfg.Einthusan.Language
	if langFlag != "" {
		raw = langFlag
	}
	lang, err := einthusan.ParseLanguage(strings.TrimSpace(raw))
	if err != nil {
		return "", err
	}
	return lang, nil
}
