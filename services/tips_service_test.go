package services

import (
	"strings"
	"testing"
)

func TestParseTipsNumberedList(t *testing.T) {
	tips := ParseTips("1. Take a short walk. 2. Review your notes. 3. Drink some water.")
	if len(tips) != 3 {
		t.Fatalf("expected 3 tips, got %d: %v", len(tips), tips)
	}
	if tips[0] != "Take a short walk." {
		t.Errorf("unexpected first tip: %q", tips[0])
	}
}

func TestParseTipsBullets(t *testing.T) {
	tips := ParseTips("- Stretch for five minutes\n- Message a study buddy")
	if len(tips) != 2 {
		t.Fatalf("expected 2 tips, got %d: %v", len(tips), tips)
	}
}

func TestParseTipsEmpty(t *testing.T) {
	if tips := ParseTips("   "); tips != nil {
		t.Errorf("expected nil for blank input, got %v", tips)
	}
}

func TestParseTipsFiltersOverlongSegments(t *testing.T) {
	long := strings.Repeat("x", 200)
	tips := ParseTips("1. " + long + " 2. Short and sweet.")
	if len(tips) != 1 || tips[0] != "Short and sweet." {
		t.Errorf("expected only the short tip, got %v", tips)
	}
}

func TestParseTipsCapsAtThree(t *testing.T) {
	tips := ParseTips("1. a 2. b 3. c 4. d 5. e")
	if len(tips) != 3 {
		t.Errorf("expected at most 3 tips, got %d", len(tips))
	}
}

func TestFallbackTipsArePersonalized(t *testing.T) {
	tips := fallbackTips("Asha", 120, "Stressed", "wellness check-in")
	if len(tips) != 3 {
		t.Fatalf("expected 3 fallback tips, got %d", len(tips))
	}
	if !strings.Contains(tips[0], "Asha") || !strings.Contains(tips[0], "120") {
		t.Errorf("first fallback tip not personalized: %q", tips[0])
	}
	if !strings.Contains(tips[1], "Stressed") {
		t.Errorf("second fallback tip missing mood: %q", tips[1])
	}
}
