package einthusan

import (
	"fmt"
	"strings"
)

// Language is one of the site's supported movie languages.
type Language string

const (
	LanguageTamil     Language = "tamil"
	LanguageHindi     Language = "hindi"
	LanguageTelugu    Language = "telugu"
	LanguageMalayalam Language = "malayalam"
	LanguageKannada   Language = "kannada"
	LanguageBengali   Language = "bengali"
	LanguageMarathi   Language = "marathi"
	LanguagePunjabi   Language = "punjabi"
)

// Languages lists every supported language.
var Languages = []Language{
	LanguageTamil,
	LanguageHindi,
	LanguageTelugu,
	LanguageMalayalam,
	LanguageKannada,
	LanguageBengali,
	LanguageMarathi,
	LanguagePunjabi,
}

// ParseLanguage validates a user-supplied language string.
func ParseLanguage(s string) (Language, error) {
	lang := Language(strings.ToLower(strings.TrimSpace(s)))
	for _, l := range Languages {
		if lang == l {
			return l, nil
		}
	}
	return "", fmt.Errorf("unsupported language %q (supported: %s)", s, joinLanguages())
}

func joinLanguages() string {
	names := make([]string, len(Languages))
	for i, l := range Languages {
		names[i] = string(l)
	}
	return strings.Join(names, ", ")
}

// Quality is a requested stream tier. HD maps to the site's premium
// stream and requires an authenticated session; SD is the free stream.
type Quality string

const (
	QualityHD Quality = "hd"
	QualitySD Quality = "sd"
)

// ParseQuality validates a user-supplied quality string.
func ParseQuality(s string) (Quality, error) {
	switch Quality(strings.ToLower(strings.TrimSpace(s))) {
	case QualityHD:
		return QualityHD, nil
	case QualitySD:
		return QualitySD, nil
	}
	return "", fmt.Errorf("unsupported quality %q (supported: hd, sd)", s)
}

// Query identifies a movie to look for.
type Query struct {
	Title    string
	Language Language
}

// SearchResult is one movie from the site's search results, in the
// site's own relevance order.
type SearchResult struct {
	ID        string
	Title     string
	Year      int
	Language  Language
	URL       string
	Qualities []Quality
}

// ResolvedLink is the outcome of resolving a watch page.
//
// When RequiresAuth is set no URLs are populated: the requested quality
// is premium-gated and the session is not authenticated. The caller
// either downgrades to SD or performs a login and retries.
type ResolvedLink struct {
	Title        string
	Year         int
	Language     Language
	MP4URL       string
	HLSURL       string
	Premium      bool
	RequiresAuth bool
}
