package advisory

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/krishiguru/apiserver/types"
)

type stubGenerator struct {
	text       string
	err        error
	lastSystem string
	lastUser   string
}

func (g *stubGenerator) GenerateText(_ context.Context, systemPrompt, userPrompt string) (string, error) {
	g.lastSystem = systemPrompt
	g.lastUser = userPrompt
	return g.text, g.err
}

func (g *stubGenerator) GenerateJSON(_ context.Context, systemPrompt, userPrompt string) (string, error) {
	return g.GenerateText(context.Background(), systemPrompt, userPrompt)
}

func TestChatRelaysProviderText(t *testing.T) {
	gen := &stubGenerator{text: "use drip irrigation"}
	svc := NewService(gen, nil)

	resp, err := svc.Chat(context.Background(), ChatRequest{
		Message:  "How to save water?",
		Location: "Jaipur, Rajasthan",
		Language: "en",
	})
	if err != nil {
		t.Fatalf("chat: %v", err)
	}
	if resp != "use drip irrigation" {
		t.Errorf("unexpected response: %q", resp)
	}
	if !strings.Contains(gen.lastUser, "Jaipur, Rajasthan") {
		t.Error("location not included in prompt")
	}
	if !strings.Contains(gen.lastUser, "How to save water?") {
		t.Error("question not included in prompt")
	}
}

func TestChatPropagatesProviderError(t *testing.T) {
	gen := &stubGenerator{err: errors.New("provider down")}
	if _, err := NewService(gen, nil).Chat(context.Background(), ChatRequest{Message: "hi"}); err == nil {
		t.Fatal("expected error")
	}
}

func TestWeatherRecommendationsVerbatim(t *testing.T) {
	gen := &stubGenerator{text: "irrigate now"}
	svc := NewService(gen, nil)

	resp, err := svc.WeatherRecommendations(context.Background(), types.WeatherSnapshot{
		Temperature: 35,
		Humidity:    80,
		WindSpeed:   5,
		Condition:   "clear",
		Rainfall:    0,
	}, "Delhi, India")
	if err != nil {
		t.Fatalf("weather: %v", err)
	}
	if resp != "irrigate now" {
		t.Errorf("expected verbatim provider text, got %q", resp)
	}
	for _, want := range []string{"Delhi, India", "35.0", "80", "clear"} {
		if !strings.Contains(gen.lastUser, want) {
			t.Errorf("prompt missing %q:\n%s", want, gen.lastUser)
		}
	}
}

func TestMarketAnalysisIncludesRecords(t *testing.T) {
	gen := &stubGenerator{text: "wheat is rising"}
	svc := NewService(gen, nil)

	records := []types.MarketRecord{
		{Name: "Wheat", Price: 2250.50, Change: 3.2, Volume: 1200, Market: "Azadpur"},
		{Name: "Onion", Price: 1800, Change: -5.1, Volume: 900},
	}
	resp, err := svc.MarketAnalysis(context.Background(), records, "Delhi")
	if err != nil {
		t.Fatalf("market: %v", err)
	}
	if resp != "wheat is rising" {
		t.Errorf("unexpected response: %q", resp)
	}
	for _, want := range []string{"Wheat", "2250.50", "+3.20", "Onion", "-5.10", "Azadpur"} {
		if !strings.Contains(gen.lastUser, want) {
			t.Errorf("prompt missing %q:\n%s", want, gen.lastUser)
		}
	}
}

func TestDiagnoseDiseaseParsesStructuredResponse(t *testing.T) {
	gen := &stubGenerator{text: `{
		"disease": "Leaf Blight",
		"confidence": 87,
		"description": "Fungal infection of the leaf margins.",
		"severity": "medium",
		"treatment": {"chemical": ["Mancozeb 75% WP"], "organic": ["Neem oil spray"]},
		"prevention": ["Crop rotation"]
	}`}
	report := NewService(gen, nil).DiagnoseDisease(context.Background(), "leaf_spot.jpg, 2.1 MB, image/jpeg")

	if report.Disease != "Leaf Blight" {
		t.Errorf("unexpected disease: %q", report.Disease)
	}
	if report.Confidence != 87 {
		t.Errorf("unexpected confidence: %d", report.Confidence)
	}
	if len(report.Treatment.Chemical) != 1 || report.Treatment.Chemical[0] != "Mancozeb 75% WP" {
		t.Errorf("unexpected chemical treatment: %v", report.Treatment.Chemical)
	}
}

func TestDiagnoseDiseaseStripsCodeFence(t *testing.T) {
	gen := &stubGenerator{text: "```json\n{\"disease\": \"Powdery Mildew\", \"confidence\": 70}\n```"}
	report := NewService(gen, nil).DiagnoseDisease(context.Background(), "photo.png")

	if report.Disease != "Powdery Mildew" {
		t.Errorf("unexpected disease: %q", report.Disease)
	}
	if report.Prevention == nil || report.Treatment.Chemical == nil || report.Treatment.Organic == nil {
		t.Error("list fields must never be nil")
	}
}

func TestDiagnoseDiseaseClampsConfidence(t *testing.T) {
	gen := &stubGenerator{text: `{"disease": "Rust", "confidence": 250}`}
	report := NewService(gen, nil).DiagnoseDisease(context.Background(), "photo.png")
	if report.Confidence != 100 {
		t.Errorf("confidence not clamped: %d", report.Confidence)
	}
}

func TestDiagnoseDiseasePlaceholderOnProviderError(t *testing.T) {
	gen := &stubGenerator{err: errors.New("provider down")}
	report := NewService(gen, nil).DiagnoseDisease(context.Background(), "photo.png")

	if report.Disease != unknownDiseaseLabel {
		t.Errorf("expected placeholder disease, got %q", report.Disease)
	}
	if report.Confidence < 0 || report.Confidence > 100 {
		t.Errorf("confidence out of range: %d", report.Confidence)
	}
	if len(report.Prevention) == 0 {
		t.Error("placeholder must carry prevention advice")
	}
}

func TestDiagnoseDiseasePlaceholderOnMalformedJSON(t *testing.T) {
	gen := &stubGenerator{text: "I think it might be blight, hard to say."}
	report := NewService(gen, nil).DiagnoseDisease(context.Background(), "photo.png")

	if report.Disease != unknownDiseaseLabel {
		t.Errorf("expected placeholder disease, got %q", report.Disease)
	}
}
