package services

import (
	"math"
	"sort"

	"github.com/smartbuddy/smartbuddy/models"
)

// Scoring weights. They sum to 1.0 so the weighted total stays in [0,1]
// before scaling to a percentage.
const (
	weightSkillsCosine     = 0.25
	weightSkillsOverlap    = 0.15
	weightInterestsCosine  = 0.20
	weightInterestsOverlap = 0.10
	weightAvailability     = 0.20
	weightProximity        = 0.10
)

type MatchCandidate struct {
	User            models.User
	Score           float64
	SharedSkills    []string
	SharedInterests []string
}

// RankMatches scores every candidate against the current user and returns
// them ordered best first. The skill and interest vocabularies are rebuilt
// from scratch on every call from the union across all users.
func RankMatches(current models.User, candidates []models.User) []MatchCandidate {
	skillVocab := buildVocabulary(current.Skills, candidates, func(u models.User) []string { return u.Skills })
	interestVocab := buildVocabulary(current.Interests, candidates, func(u models.User) []string { return u.Interests })

	currentSkillsVec := toBinaryVector(current.Skills, skillVocab)
	currentInterestsVec := toBinaryVector(current.Interests, interestVocab)

	matches := make([]MatchCandidate, 0, len(candidates))
	for _, candidate := range candidates {
		skillsCosine := cosineSimilarity(currentSkillsVec, toBinaryVector(candidate.Skills, skillVocab))
		interestsCosine := cosineSimilarity(currentInterestsVec, toBinaryVector(candidate.Interests, interestVocab))

		sharedSkills := intersection(current.Skills, candidate.Skills)
		sharedInterests := intersection(current.Interests, candidate.Interests)
		sharedAvailability := intersection(current.Availability, candidate.Availability)

		skillsOverlap := float64(len(sharedSkills)) / maxLen(current.Skills, candidate.Skills)
		interestsOverlap := float64(len(sharedInterests)) / maxLen(current.Interests, candidate.Interests)
		availability := float64(len(sharedAvailability)) / maxLen(current.Availability, candidate.Availability)

		total := skillsCosine*weightSkillsCosine +
			skillsOverlap*weightSkillsOverlap +
			interestsCosine*weightInterestsCosine +
			interestsOverlap*weightInterestsOverlap +
			availability*weightAvailability +
			proximityScore(current, candidate)*weightProximity

		matches = append(matches, MatchCandidate{
			User:            candidate,
			Score:           round2(total * 100),
			SharedSkills:    sharedSkills,
			SharedInterests: sharedInterests,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	return matches
}

func buildVocabulary(base []string, users []models.User, pick func(models.User) []string) []string {
	seen := make(map[string]bool)
	vocab := make([]string, 0, len(base))
	add := func(items []string) {
		for _, item := range items {
			if !seen[item] {
				seen[item] = true
				vocab = append(vocab, item)
			}
		}
	}
	add(base)
	for _, u := range users {
		add(pick(u))
	}
	return vocab
}

func toBinaryVector(items, vocab []string) []float64 {
	has := make(map[string]bool, len(items))
	for _, item := range items {
		has[item] = true
	}
	vec := make([]float64, len(vocab))
	for i, term := range vocab {
		if has[term] {
			vec[i] = 1
		}
	}
	return vec
}

func dotProduct(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

func magnitude(v []float64) float64 {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// cosineSimilarity is 0 when either vector is all-zero.
func cosineSimilarity(a, b []float64) float64 {
	magA, magB := magnitude(a), magnitude(b)
	if magA == 0 || magB == 0 {
		return 0
	}
	return dotProduct(a, b) / (magA * magB)
}

func intersection(a, b []string) []string {
	has := make(map[string]bool, len(b))
	for _, item := range b {
		has[item] = true
	}
	shared := make([]string, 0)
	for _, item := range a {
		if has[item] {
			shared = append(shared, item)
		}
	}
	return shared
}

func maxLen(a, b []string) float64 {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	if n < 1 {
		n = 1
	}
	return float64(n)
}

// proximityScore is 1 when branch and year both match, 0.5 when exactly one
// matches (including when only one of the two fields is comparable), else 0.
func proximityScore(a, b models.User) float64 {
	branchComparable := a.Branch != "" && b.Branch != ""
	yearComparable := a.Year != nil && b.Year != nil

	switch {
	case branchComparable && yearComparable:
		branchMatch := a.Branch == b.Branch
		yearMatch := *a.Year == *b.Year
		if branchMatch && yearMatch {
			return 1
		}
		if branchMatch || yearMatch {
			return 0.5
		}
	case branchComparable && a.Branch == b.Branch:
		return 0.5
	case yearComparable && *a.Year == *b.Year:
		return 0.5
	}
	return 0
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
