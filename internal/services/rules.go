package services

import (
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

const maxRulesFileSize = 256 * 1024 // 256KB

// ExtractionRules configures the rule-based extractor: which phrases signal
// a commitment and which known locations carry a measured travel lead.
type ExtractionRules struct {
	// Indicator phrases that mark a sentence as a candidate commitment
	Indicators []string `yaml:"indicators"`

	// Known locations with measured travel leads
	Locations []LocationRule `yaml:"locations"`
}

// LocationRule maps a location name to its typical travel lead
type LocationRule struct {
	Name          string `yaml:"name"`
	TravelMinutes int    `yaml:"travelMinutes"`
}

// DefaultExtractionRules returns the built-in rule set used when no rules
// file is configured
func DefaultExtractionRules() *ExtractionRules {
	return &ExtractionRules{
		Indicators: []string{
			"i will", "i'll", "i'm going to", "i am going to", "i can",
			"i promise to", "i commit to", "i agree to", "i plan to",
			"let me", "i intend to", "i shall", "see you", "meet you",
			"be there", "pick you up", "i'll be",
		},
	}
}

// ParseExtractionRules parses a YAML rules document. An empty indicator list
// falls back to the built-in defaults so a locations-only file still extracts.
func ParseExtractionRules(content []byte) (*ExtractionRules, error) {
	if len(content) > maxRulesFileSize {
		return nil, fmt.Errorf("rules file exceeds maximum size of %d bytes", maxRulesFileSize)
	}

	rules := &ExtractionRules{}
	if err := yaml.Unmarshal(content, rules); err != nil {
		return nil, fmt.Errorf("failed to parse rules YAML: %w", err)
	}

	if len(rules.Indicators) == 0 {
		rules.Indicators = DefaultExtractionRules().Indicators
	}

	for i := range rules.Indicators {
		rules.Indicators[i] = strings.ToLower(strings.TrimSpace(rules.Indicators[i]))
	}

	return rules, nil
}

// RulesService holds the active extraction rules and supports hot reload
// when the rules file changes on disk.
type RulesService struct {
	mu    sync.RWMutex
	rules *ExtractionRules
	path  string
}

// NewRulesService loads rules from path, falling back to the built-in
// defaults when the file does not exist
func NewRulesService(path string) *RulesService {
	s := &RulesService{
		rules: DefaultExtractionRules(),
		path:  path,
	}

	if err := s.Reload(); err != nil {
		log.Printf("⚠️  Using built-in extraction rules: %v", err)
	}

	return s
}

// Reload re-reads the rules file. On error the previous rules stay active.
func (s *RulesService) Reload() error {
	if s.path == "" {
		return fmt.Errorf("no rules path configured")
	}

	content, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("failed to read rules file: %w", err)
	}

	rules, err := ParseExtractionRules(content)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.rules = rules
	s.mu.Unlock()

	log.Printf("✅ Extraction rules loaded: %d indicators, %d known locations",
		len(rules.Indicators), len(rules.Locations))
	return nil
}

// Indicators returns the active indicator phrases
func (s *RulesService) Indicators() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rules.Indicators
}

// LocationLead returns the measured travel lead for a known location.
// Matching is case-insensitive on substring: "the office" matches "office".
func (s *RulesService) LocationLead(where string) (time.Duration, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lowered := strings.ToLower(where)
	for _, loc := range s.rules.Locations {
		if loc.TravelMinutes <= 0 {
			continue
		}
		if strings.Contains(lowered, strings.ToLower(loc.Name)) {
			return time.Duration(loc.TravelMinutes) * time.Minute, true
		}
	}
	return 0, false
}
