package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestGetWellnessTipForKnownMood(t *testing.T) {
	app := fiber.New()
	app.Get("/wellness", GetWellnessTip)

	resp, err := app.Test(httptest.NewRequest("GET", "/wellness?mood=Happy", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		Tip string `json:"tip"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}

	found := false
	for _, tip := range moodTips["Happy"] {
		if tip == body.Tip {
			found = true
		}
	}
	if !found {
		t.Errorf("tip %q is not one of the Happy tips", body.Tip)
	}
}

func TestGetWellnessTipFallsBackToNeutral(t *testing.T) {
	app := fiber.New()
	app.Get("/wellness", GetWellnessTip)

	resp, err := app.Test(httptest.NewRequest("GET", "/wellness?mood=Confused", nil))
	if err != nil {
		t.Fatal(err)
	}

	var body struct {
		Tip string `json:"tip"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}

	found := false
	for _, tip := range moodTips["Neutral"] {
		if tip == body.Tip {
			found = true
		}
	}
	if !found {
		t.Errorf("tip %q is not one of the Neutral tips", body.Tip)
	}
}
