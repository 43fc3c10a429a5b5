package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"regexp"
	"strings"
	"time"

	config "github.com/smartbuddy/smartbuddy/configs"
)

const hfInferenceURL = "https://api-inference.huggingface.co/models/google/flan-t5-small"

var httpClient = &http.Client{Timeout: 15 * time.Second}

var tipSplitter = regexp.MustCompile(`\d+\.|[-•]\s*`)

type hfRequest struct {
	Inputs string `json:"inputs"`
}

type hfResult struct {
	GeneratedText string `json:"generated_text"`
}

// GenerateAITips asks the inference API for three personalized tips. It never
// fails: any API or parse problem falls back to templated tips.
func GenerateAITips(name string, xp int, mood, activity string) []string {
	tips, err := requestTips(name, xp, mood, activity)
	if err != nil {
		log.Printf("[Tips] Inference API error: %v", err)
		return fallbackTips(name, xp, mood, activity)
	}
	if len(tips) == 0 {
		return fallbackTips(name, xp, mood, activity)
	}
	return tips
}

func requestTips(name string, xp int, mood, activity string) ([]string, error) {
	prompt := fmt.Sprintf(`You are SmartBuddy, an AI companion for students.
Generate 3 short motivational or wellness tips (<25 words each)
personalized for %s, XP level %d, feeling %s,
with recent activity %s.
Keep tone friendly, positive, and helpful.`, name, xp, mood, activity)

	body, err := json.Marshal(hfRequest{Inputs: prompt})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodPost, hfInferenceURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+config.Config("HF_API_KEY"))
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("inference API returned status %d", resp.StatusCode)
	}

	var results []hfResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return ParseTips(results[0].GeneratedText), nil
}

// ParseTips splits generated text on numbering or bullets and keeps up to
// three plausible tips.
func ParseTips(generated string) []string {
	cleaned := strings.TrimSpace(generated)
	if cleaned == "" {
		return nil
	}

	tips := make([]string, 0, 3)
	for _, part := range tipSplitter.Split(cleaned, -1) {
		tip := strings.TrimSpace(part)
		if tip == "" || len(tip) >= 150 {
			continue
		}
		tips = append(tips, tip)
		if len(tips) == 3 {
			break
		}
	}
	return tips
}

func fallbackTips(name string, xp int, mood, activity string) []string {
	return []string{
		fmt.Sprintf("Hey %s! Keep going strong at level %d! Your perseverance is admirable.", name, xp),
		fmt.Sprintf("Feeling %s? Remember that every challenge is an opportunity to grow. You've got this!", mood),
		fmt.Sprintf("Your recent %s is building your success, %s. Stay positive and keep moving forward!", activity, name),
	}
}
