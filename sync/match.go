package sync

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"github.com/s0up4200/einthusarr/einthusan"
)

// Year bonuses: an exact year match is strong evidence the result is
// the wanted movie (remakes share titles across decades), a one-year
// offset still counts for release-date disagreements between Radarr
// and the site.
const (
	exactYearBonus = 0.30
	nearYearBonus  = 0.10
)

// normalizeTitle lowercases and strips everything except letters,
// digits, and single spaces.
func normalizeTitle(s string) string {
	var b strings.Builder
	lastSpace := true
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastSpace = false
		case !lastSpace:
			b.WriteRune(' ')
			lastSpace = true
		}
	}
	return strings.TrimSpace(b.String())
}

// similarity returns a [0,1] ratio from the levenshtein distance of the
// normalized titles.
func similarity(a, b string) float64 {
	a = normalizeTitle(a)
	b = normalizeTitle(b)

	if a == b {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}

	// ComputeDistance counts runes, so the denominator has to as well
	// or multi-byte titles come out inflated.
	distance := levenshtein.ComputeDistance(a, b)
	maxLen := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))

	return 1.0 - float64(distance)/float64(maxLen)
}

// score rates a search result against the wanted title and year.
func score(wantTitle string, wantYear int, result einthusan.SearchResult) float64 {
	s := similarity(wantTitle, result.Title)

	if wantYear > 0 && result.Year > 0 {
		diff := wantYear - result.Year
		if diff < 0 {
			diff = -diff
		}
		switch {
		case diff == 0:
			s += exactYearBonus
		case diff <= 1:
			s += nearYearBonus
		}
	}

	return s
}

// bestMatch picks the highest-scoring result. Ties break on higher
// available quality, then the more recent year.
func bestMatch(wantTitle string, wantYear int, results []einthusan.SearchResult) (*einthusan.SearchResult, float64) {
	var best *einthusan.SearchResult
	var bestScore float64

	for i := range results {
		r := &results[i]
		s := score(wantTitle, wantYear, *r)

		switch {
		case best == nil || s > bestScore:
			best, bestScore = r, s
		case s == bestScore && betterTie(r, best):
			best = r
		}
	}

	return best, bestScore
}

func betterTie(candidate, current *einthusan.SearchResult) bool {
	ch, uh := hasQuality(candidate, einthusan.QualityHD), hasQuality(current, einthusan.QualityHD)
	if ch != uh {
		return ch
	}
	return candidate.Year > current.Year
}

func hasQuality(r *einthusan.SearchResult, q einthusan.Quality) bool {
	for _, rq := range r.Qualities {
		if rq == q {
			return true
		}
	}
	return false
}
