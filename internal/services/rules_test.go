package services

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestParseExtractionRules(t *testing.T) {
	content := []byte(`
indicators:
  - "I WILL"
  - " see you "
locations:
  - name: office
    travelMinutes: 25
`)

	rules, err := ParseExtractionRules(content)
	if err != nil {
		t.Fatalf("ParseExtractionRules failed: %v", err)
	}

	if len(rules.Indicators) != 2 {
		t.Fatalf("Expected 2 indicators, got %d", len(rules.Indicators))
	}
	// Indicators are normalized to lowercase, trimmed
	if rules.Indicators[0] != "i will" || rules.Indicators[1] != "see you" {
		t.Errorf("Expected normalized indicators, got %v", rules.Indicators)
	}
	if len(rules.Locations) != 1 || rules.Locations[0].TravelMinutes != 25 {
		t.Errorf("Expected office location with 25 minutes, got %v", rules.Locations)
	}
}

func TestParseExtractionRulesEmptyIndicatorsFallsBack(t *testing.T) {
	rules, err := ParseExtractionRules([]byte(`
locations:
  - name: gym
    travelMinutes: 10
`))
	if err != nil {
		t.Fatalf("ParseExtractionRules failed: %v", err)
	}
	if len(rules.Indicators) == 0 {
		t.Error("Expected built-in indicators for a locations-only file")
	}
}

func TestParseExtractionRulesRejectsOversizedFile(t *testing.T) {
	huge := bytes.Repeat([]byte("a"), maxRulesFileSize+1)
	if _, err := ParseExtractionRules(huge); err == nil {
		t.Error("Expected error for oversized rules file")
	}
}

func TestParseExtractionRulesInvalidYAML(t *testing.T) {
	if _, err := ParseExtractionRules([]byte("indicators: [unclosed")); err == nil {
		t.Error("Expected error for invalid YAML")
	}
}

func TestRulesServiceReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")

	if err := os.WriteFile(path, []byte("indicators:\n  - \"i will\"\n"), 0o644); err != nil {
		t.Fatalf("Failed to write rules file: %v", err)
	}

	svc := NewRulesService(path)
	if len(svc.Indicators()) != 1 {
		t.Fatalf("Expected 1 indicator, got %d", len(svc.Indicators()))
	}

	update := `
indicators:
  - "i will"
  - "i promise to"
locations:
  - name: office
    travelMinutes: 25
`
	if err := os.WriteFile(path, []byte(update), 0o644); err != nil {
		t.Fatalf("Failed to update rules file: %v", err)
	}
	if err := svc.Reload(); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}

	if len(svc.Indicators()) != 2 {
		t.Errorf("Expected 2 indicators after reload, got %d", len(svc.Indicators()))
	}
	if lead, ok := svc.LocationLead("the office downtown"); !ok || lead != 25*time.Minute {
		t.Errorf("Expected 25m lead for office, got %v (found=%v)", lead, ok)
	}
}

func TestRulesServiceReloadKeepsPreviousRulesOnError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")

	if err := os.WriteFile(path, []byte("indicators:\n  - \"i will\"\n"), 0o644); err != nil {
		t.Fatalf("Failed to write rules file: %v", err)
	}
	svc := NewRulesService(path)

	if err := os.WriteFile(path, []byte("indicators: [broken"), 0o644); err != nil {
		t.Fatalf("Failed to write broken rules file: %v", err)
	}
	if err := svc.Reload(); err == nil {
		t.Fatal("Expected reload error for broken file")
	}

	if len(svc.Indicators()) != 1 || svc.Indicators()[0] != "i will" {
		t.Errorf("Expected previous rules to stay active, got %v", svc.Indicators())
	}
}

func TestLocationLeadUnknownLocation(t *testing.T) {
	svc := NewRulesService("")
	if _, ok := svc.LocationLead("somewhere nobody configured"); ok {
		t.Error("Expected no lead for unknown location")
	}
}
