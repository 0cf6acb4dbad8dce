// Package advisory forwards templated agricultural prompts to a
// generative-AI provider and relays its answers.
package advisory

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/krishiguru/apiserver/internal/mq"
	"github.com/krishiguru/apiserver/types"
)

// TextGenerator is the outbound provider contract, satisfied by the
// gemini client.
type TextGenerator interface {
	GenerateText(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	GenerateJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// ChatRequest is a free-text question with optional context.
type ChatRequest struct {
	Message  string
	Location string
	Language string
	Context  string
}

// Service implements the four advisory operations. Chat, weather and
// market calls propagate provider failures to the caller; disease
// diagnosis never fails and substitutes a fixed placeholder instead.
type Service struct {
	llm    TextGenerator
	events *mq.Events
}

// NewService constructs the advisory service. events may be nil, which
// disables usage-event publishing.
func NewService(llm TextGenerator, events *mq.Events) *Service {
	return &Service{llm: llm, events: events}
}

// Chat answers a free-text farming question.
func (s *Service) Chat(ctx context.Context, req ChatRequest) (string, error) {
	resp, err := s.llm.GenerateText(ctx, chatSystemPrompt, buildChatPrompt(req))
	if err != nil {
		return "", err
	}
	s.publishEvent(ctx, "chat", req.Location, false)
	return resp, nil
}

// WeatherRecommendations turns a weather snapshot into farming advice.
func (s *Service) WeatherRecommendations(ctx context.Context, weather types.WeatherSnapshot, location string) (string, error) {
	resp, err := s.llm.GenerateText(ctx, weatherSystemPrompt, buildWeatherPrompt(weather, location))
	if err != nil {
		return "", err
	}
	s.publishEvent(ctx, "weather-recommendations", location, false)
	return resp, nil
}

// MarketAnalysis summarises a set of commodity price records.
func (s *Service) MarketAnalysis(ctx context.Context, records []types.MarketRecord, location string) (string, error) {
	resp, err := s.llm.GenerateText(ctx, marketSystemPrompt, buildMarketPrompt(records, location))
	if err != nil {
		return "", err
	}
	s.publishEvent(ctx, "market-analysis", location, false)
	return resp, nil
}

// DiagnoseDisease asks the provider for a structured diagnosis of the
// described photo. The image itself never reaches the server; only its
// name/size/type description is forwarded. On provider failure or
// unparsable output the fixed placeholder report is returned.
func (s *Service) DiagnoseDisease(ctx context.Context, imageDescription string) types.DiseaseReport {
	raw, err := s.llm.GenerateJSON(ctx, diseaseSystemPrompt, buildDiseasePrompt(imageDescription))
	if err != nil {
		log.Printf("disease diagnosis provider error: %v", err)
		s.publishEvent(ctx, "crop-disease", "", true)
		return placeholderDiseaseReport()
	}

	report, err := parseDiseaseReport(raw)
	if err != nil {
		log.Printf("disease diagnosis malformed response: %v", err)
		s.publishEvent(ctx, "crop-disease", "", true)
		return placeholderDiseaseReport()
	}
	s.publishEvent(ctx, "crop-disease", "", false)
	return report
}

func (s *Service) publishEvent(ctx context.Context, operation, location string, fallback bool) {
	s.events.PublishAdvisory(ctx, mq.AdvisoryEvent{
		Operation: operation,
		Location:  location,
		Fallback:  fallback,
		At:        time.Now(),
	})
}

func parseDiseaseReport(raw string) (types.DiseaseReport, error) {
	var report types.DiseaseReport
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &report); err != nil {
		return types.DiseaseReport{}, err
	}
	if strings.TrimSpace(report.Disease) == "" {
		report.Disease = unknownDiseaseLabel
	}
	if report.Confidence < 0 {
		report.Confidence = 0
	}
	if report.Confidence > 100 {
		report.Confidence = 100
	}
	if report.Treatment.Chemical == nil {
		report.Treatment.Chemical = []string{}
	}
	if report.Treatment.Organic == nil {
		report.Treatment.Organic = []string{}
	}
	if report.Prevention == nil {
		report.Prevention = []string{}
	}
	return report, nil
}

// stripCodeFence removes a surrounding markdown code fence, which models
// sometimes emit around JSON even when asked not to.
func stripCodeFence(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}

const unknownDiseaseLabel = "Unknown Disease"

func placeholderDiseaseReport() types.DiseaseReport {
	return types.DiseaseReport{
		Disease:     unknownDiseaseLabel,
		Confidence:  0,
		Description: "The analysis service is currently unavailable. Please consult your local Krishi Vigyan Kendra or an agricultural extension officer for an in-person diagnosis.",
		Severity:    "unknown",
		Treatment: types.DiseaseTreatment{
			Chemical: []string{"Consult a local agro dealer before applying any chemical treatment."},
			Organic:  []string{"Remove and destroy visibly affected leaves.", "Apply neem oil spray as a general protectant."},
		},
		Prevention: []string{
			"Use certified disease-free seed.",
			"Rotate crops each season.",
			"Avoid overhead irrigation late in the day.",
		},
	}
}
