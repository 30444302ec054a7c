package services

import (
	"context"
	"regexp"
	"strings"
	"time"

	"lifecoach/internal/models"
)

// CommitmentExtractor identifies commitments in a communication.
// Implementations may be model-backed and non-deterministic; an empty result
// is a valid outcome, not an error. A candidate whose time expression cannot
// be resolved must be omitted, never returned with a fabricated time.
type CommitmentExtractor interface {
	IdentifyCommitments(ctx context.Context, comm models.Communication) ([]models.Commitment, error)
}

var (
	sentenceSplitRe = regexp.MustCompile(`[.!?;\n]+`)

	// "20 minutes travel", "travel time of 20 min", "20 min drive"
	travelBeforeRe = regexp.MustCompile(`(?i)(\d{1,3})\s*min(?:ute)?s?\s+(?:of\s+)?(?:travel|drive|driving|walk|walking|commute)`)
	travelAfterRe  = regexp.MustCompile(`(?i)(?:travel|drive|commute)(?:\s+time)?\s+(?:of\s+|is\s+)?(?:about\s+)?(\d{1,3})\s*min(?:ute)?s?`)

	// "at the office", "in the library", "at school"
	locationRe = regexp.MustCompile(`(?i)\b(?:at|in)\s+(?:the\s+)?([a-z][a-z' ]{1,40}?)(?:[,.!?;]|\s+(?:at|on|by|tomorrow|today|tonight|next|this)\b|$)`)
)

// Words that follow "at"/"in" but are not places
var locationStopwords = map[string]bool{
	"noon": true, "midnight": true, "night": true, "morning": true,
	"afternoon": true, "evening": true, "time": true, "least": true,
	"most": true, "first": true, "all": true, "once": true,
}

// RuleBasedExtractor identifies commitments with indicator phrases and a
// natural-language date parser. It is the deterministic fallback for the
// model-backed extractor and the default when no NER endpoint is configured.
type RuleBasedExtractor struct {
	rules *RulesService
}

// NewRuleBasedExtractor creates a rule-based extractor backed by the given
// rules service
func NewRuleBasedExtractor(rules *RulesService) *RuleBasedExtractor {
	return &RuleBasedExtractor{rules: rules}
}

// IdentifyCommitments scans the communication sentence by sentence. A
// sentence yields a commitment when it contains an indicator phrase and a
// time expression resolvable against the communication's timestamp.
func (e *RuleBasedExtractor) IdentifyCommitments(_ context.Context, comm models.Communication) ([]models.Commitment, error) {
	var commitments []models.Commitment

	for _, sentence := range splitSentences(comm.Content) {
		if !e.hasIndicator(sentence) {
			continue
		}

		snippet, when, ok := searchTimeExpression(sentence, comm.Timestamp)
		if !ok {
			// No resolvable time: omit the candidate
			continue
		}

		c := models.Commitment{
			When: when,
			Who:  comm.Sender,
			What: describeAction(sentence, snippet),
		}

		if where := extractLocation(sentence); where != "" {
			c.Where = where
			if lead, found := e.rules.LocationLead(where); found {
				c.EstimatedTravelTime = &lead
			}
		}

		if travel, ok := extractTravelHint(sentence); ok {
			c.EstimatedTravelTime = &travel
		}

		commitments = append(commitments, c)
	}

	return commitments, nil
}

func (e *RuleBasedExtractor) hasIndicator(sentence string) bool {
	lowered := strings.ToLower(sentence)
	for _, indicator := range e.rules.Indicators() {
		if strings.Contains(lowered, indicator) {
			return true
		}
	}
	return false
}

func splitSentences(content string) []string {
	parts := sentenceSplitRe.Split(content, -1)
	sentences := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			sentences = append(sentences, p)
		}
	}
	return sentences
}

// describeAction turns a sentence into the commitment's "what": the sentence
// with the matched time snippet removed, capped for readability
func describeAction(sentence, timeSnippet string) string {
	what := sentence
	if timeSnippet != "" {
		what = strings.ReplaceAll(what, timeSnippet, "")
	}
	what = strings.Join(strings.Fields(what), " ")
	what = strings.Trim(what, " ,-")
	if runes := []rune(what); len(runes) > 120 {
		what = string(runes[:117]) + "..."
	}
	if what == "" {
		what = sentence
	}
	return what
}

// extractLocation pulls a location phrase out of a sentence, skipping
// time-of-day words that follow the same prepositions
func extractLocation(sentence string) string {
	matches := locationRe.FindAllStringSubmatch(sentence, -1)
	for _, m := range matches {
		candidate := strings.TrimSpace(m[1])
		if candidate == "" {
			continue
		}
		first := strings.ToLower(strings.Fields(candidate)[0])
		if locationStopwords[first] {
			continue
		}
		// Digits mean we grabbed part of a time expression
		if strings.ContainsAny(candidate, "0123456789") {
			continue
		}
		return candidate
	}
	return ""
}

// extractTravelHint finds an explicit travel estimate in the sentence
func extractTravelHint(sentence string) (time.Duration, bool) {
	if m := travelBeforeRe.FindStringSubmatch(sentence); m != nil {
		return parseMinutes(m[1])
	}
	if m := travelAfterRe.FindStringSubmatch(sentence); m != nil {
		return parseMinutes(m[1])
	}
	return 0, false
}

func parseMinutes(s string) (time.Duration, bool) {
	n := 0
	for _, c := range s {
		n = n*10 + int(c-'0')
	}
	if n <= 0 {
		return 0, false
	}
	return time.Duration(n) * time.Minute, true
}
