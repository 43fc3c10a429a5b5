package services

import (
	"math"
	"testing"

	"github.com/smartbuddy/smartbuddy/models"
)

func intp(n int) *int { return &n }

func TestRankMatchesWorkedExample(t *testing.T) {
	current := models.User{Skills: []string{"Python"}, Interests: []string{"AI"}}
	candidate := models.User{Skills: []string{"Python", "ML"}, Interests: []string{"AI"}}

	matches := RankMatches(current, []models.User{candidate})
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}

	// skillsCosine = 1/sqrt(2), skillsOverlap = 0.5, interestsCosine = 1,
	// interestsOverlap = 1, no availability or proximity contribution.
	if matches[0].Score != 55.18 {
		t.Errorf("expected score 55.18, got %v", matches[0].Score)
	}
	if len(matches[0].SharedSkills) != 1 || matches[0].SharedSkills[0] != "Python" {
		t.Errorf("expected shared skills [Python], got %v", matches[0].SharedSkills)
	}
	if len(matches[0].SharedInterests) != 1 || matches[0].SharedInterests[0] != "AI" {
		t.Errorf("expected shared interests [AI], got %v", matches[0].SharedInterests)
	}
}

func TestRankMatchesDisjointVocabularies(t *testing.T) {
	current := models.User{
		Skills:       []string{"Go"},
		Interests:    []string{"Chess"},
		Availability: []string{"Mon Evening"},
		Branch:       "CSE",
		Year:         intp(2),
	}
	candidate := models.User{
		Skills:       []string{"Rust"},
		Interests:    []string{"Piano"},
		Availability: []string{"Mon Evening"},
		Branch:       "CSE",
		Year:         intp(2),
	}

	matches := RankMatches(current, []models.User{candidate})

	// All skill/interest components are zero, so only availability (0.20)
	// and proximity (0.10) contribute.
	if matches[0].Score != 30 {
		t.Errorf("expected score 30, got %v", matches[0].Score)
	}
	if len(matches[0].SharedSkills) != 0 {
		t.Errorf("expected no shared skills, got %v", matches[0].SharedSkills)
	}
}

func TestRankMatchesSelfSimilarity(t *testing.T) {
	user := models.User{
		Skills:       []string{"Python", "Go"},
		Interests:    []string{"AI", "Music"},
		Availability: []string{"Sat Morning"},
	}
	twin := models.User{
		Skills:       []string{"Python", "Go"},
		Interests:    []string{"AI", "Music"},
		Availability: []string{"Sat Morning"},
	}

	matches := RankMatches(user, []models.User{twin})

	// Everything except proximity is a perfect 1, so the score is the sum of
	// all weights but proximity's: 0.9 * 100.
	if matches[0].Score != 90 {
		t.Errorf("expected score 90, got %v", matches[0].Score)
	}
}

func TestRankMatchesScoreBounds(t *testing.T) {
	current := models.User{
		Skills:       []string{"Python", "ML", "Go"},
		Interests:    []string{"AI"},
		Availability: []string{"Mon", "Tue"},
		Branch:       "ECE",
		Year:         intp(3),
	}
	candidates := []models.User{
		{},
		{Skills: []string{"Python"}},
		{Skills: []string{"Python", "ML", "Go"}, Interests: []string{"AI"}, Availability: []string{"Mon", "Tue"}, Branch: "ECE", Year: intp(3)},
		{Interests: []string{"Robotics", "AI"}, Branch: "ECE"},
		{Year: intp(3), Availability: []string{"Tue"}},
	}

	for _, m := range RankMatches(current, candidates) {
		if m.Score < 0 || m.Score > 100 {
			t.Errorf("score out of range for %v: %v", m.User.Skills, m.Score)
		}
		if math.IsNaN(m.Score) {
			t.Errorf("score is NaN for candidate %v", m.User.Skills)
		}
	}
}

func TestRankMatchesEmptyVectorsDoNotProduceNaN(t *testing.T) {
	current := models.User{Interests: []string{"AI"}}
	candidate := models.User{Skills: []string{"Python"}}

	matches := RankMatches(current, []models.User{candidate})
	if math.IsNaN(matches[0].Score) {
		t.Fatal("score must be 0, not NaN, when a vector is all-zero")
	}
	if matches[0].Score != 0 {
		t.Errorf("expected score 0, got %v", matches[0].Score)
	}
}

func TestRankMatchesSortsDescending(t *testing.T) {
	current := models.User{Skills: []string{"Python"}, Interests: []string{"AI"}}
	weak := models.User{Name: "weak", Skills: []string{"Python"}, Interests: []string{"Art"}}
	strong := models.User{Name: "strong", Skills: []string{"Python"}, Interests: []string{"AI"}}

	matches := RankMatches(current, []models.User{weak, strong})
	if matches[0].User.Name != "strong" {
		t.Errorf("expected strongest match first, got %q", matches[0].User.Name)
	}
	if matches[0].Score < matches[1].Score {
		t.Errorf("matches not sorted descending: %v < %v", matches[0].Score, matches[1].Score)
	}
}

func TestRankMatchesEmptyPool(t *testing.T) {
	current := models.User{Skills: []string{"Python"}}
	if matches := RankMatches(current, nil); len(matches) != 0 {
		t.Errorf("expected no matches, got %d", len(matches))
	}
}

func TestWeightsSumToOne(t *testing.T) {
	sum := weightSkillsCosine + weightSkillsOverlap + weightInterestsCosine +
		weightInterestsOverlap + weightAvailability + weightProximity
	if math.Abs(sum-1.0) > 1e-9 {
		t.Errorf("weights sum to %v, want 1.0", sum)
	}
}

func TestProximityScore(t *testing.T) {
	tests := []struct {
		name string
		a, b models.User
		want float64
	}{
		{"branch and year match", models.User{Branch: "CSE", Year: intp(2)}, models.User{Branch: "CSE", Year: intp(2)}, 1},
		{"only branch matches", models.User{Branch: "CSE", Year: intp(2)}, models.User{Branch: "CSE", Year: intp(3)}, 0.5},
		{"only year matches", models.User{Branch: "CSE", Year: intp(2)}, models.User{Branch: "ECE", Year: intp(2)}, 0.5},
		{"neither matches", models.User{Branch: "CSE", Year: intp(2)}, models.User{Branch: "ECE", Year: intp(3)}, 0},
		{"branch comparable and equal, year missing", models.User{Branch: "CSE"}, models.User{Branch: "CSE", Year: intp(1)}, 0.5},
		{"year comparable and equal, branch missing", models.User{Year: intp(4)}, models.User{Branch: "ME", Year: intp(4)}, 0.5},
		{"nothing comparable", models.User{}, models.User{Branch: "CSE", Year: intp(1)}, 0},
	}

	for _, tt := range tests {
		if got := proximityScore(tt.a, tt.b); got != tt.want {
			t.Errorf("%s: proximityScore = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestCosineSimilarityZeroVector(t *testing.T) {
	if got := cosineSimilarity([]float64{0, 0}, []float64{1, 0}); got != 0 {
		t.Errorf("expected 0 for zero vector, got %v", got)
	}
	if got := cosineSimilarity([]float64{1, 1}, []float64{1, 1}); math.Abs(got-1) > 1e-9 {
		t.Errorf("expected 1 for identical vectors, got %v", got)
	}
}
