package services

import (
	"testing"
	"time"
)

func TestResolveTimeExpression(t *testing.T) {
	anchor := time.Date(2026, 3, 10, 11, 45, 0, 0, time.UTC)

	when, ok := resolveTimeExpression("tomorrow at 3:30pm", anchor)
	if !ok {
		t.Fatal("Expected expression to resolve")
	}
	if !when.After(anchor) {
		t.Errorf("Expected future instant relative to anchor, got %v", when)
	}
	if when.Day() != 11 || when.Hour() != 15 || when.Minute() != 30 {
		t.Errorf("Expected March 11 15:30, got %v", when)
	}
}

func TestResolveTimeExpressionUnresolvable(t *testing.T) {
	anchor := time.Date(2026, 3, 10, 11, 45, 0, 0, time.UTC)

	for _, expr := range []string{"", "   ", "qqqqq zzzzz"} {
		if _, ok := resolveTimeExpression(expr, anchor); ok {
			t.Errorf("Expected %q to be unresolvable", expr)
		}
	}
}

func TestSearchTimeExpression(t *testing.T) {
	anchor := time.Date(2026, 3, 10, 11, 45, 0, 0, time.UTC)

	snippet, when, ok := searchTimeExpression("I'll pick up the kids tomorrow at 3:30pm from practice", anchor)
	if !ok {
		t.Fatal("Expected a time expression to be found")
	}
	if snippet == "" {
		t.Error("Expected the matched snippet to be returned")
	}
	if when.IsZero() || !when.After(anchor) {
		t.Errorf("Expected resolved future instant, got %v", when)
	}
}

func TestSearchTimeExpressionNoMatch(t *testing.T) {
	anchor := time.Date(2026, 3, 10, 11, 45, 0, 0, time.UTC)

	if _, _, ok := searchTimeExpression("nothing temporal in here", anchor); ok {
		t.Error("Expected no match in text without a time expression")
	}
}
