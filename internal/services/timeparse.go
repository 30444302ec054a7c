package services

import (
	"strings"
	"time"

	"github.com/markusmobius/go-dateparser"
)

// parserConfig builds a dateparser configuration anchored at the given
// instant. Relative expressions ("tomorrow at 3") resolve against the
// anchor, never against wall-clock now, and ambiguous expressions prefer
// the future (a commitment is something still to happen).
func parserConfig(anchor time.Time) *dateparser.Configuration {
	return &dateparser.Configuration{
		CurrentTime:         anchor,
		PreferredDateSource: dateparser.Future,
		Languages:           []string{"en"},
	}
}

// resolveTimeExpression parses a single time expression relative to anchor.
// Returns false when the expression cannot be resolved to an absolute
// instant — callers must omit the candidate rather than fabricate a time.
func resolveTimeExpression(expr string, anchor time.Time) (time.Time, bool) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return time.Time{}, false
	}

	dt, err := dateparser.Parse(parserConfig(anchor), expr)
	if err != nil || dt.Time.IsZero() {
		return time.Time{}, false
	}
	return dt.Time, true
}

// searchTimeExpression scans free text for the first resolvable time
// expression. Returns the matched snippet and its resolved instant.
func searchTimeExpression(text string, anchor time.Time) (string, time.Time, bool) {
	_, results, err := dateparser.Search(parserConfig(anchor), text)
	if err != nil || len(results) == 0 {
		return "", time.Time{}, false
	}

	for _, res := range results {
		if !res.Date.Time.IsZero() {
			return res.Text, res.Date.Time, true
		}
	}
	return "", time.Time{}, false
}
