package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/krishiguru/apiserver/internal/advisory"
	"github.com/krishiguru/apiserver/internal/weather"
	"github.com/krishiguru/apiserver/types"
)

// AdvisoryHandler exposes the four generative-AI endpoints plus the
// current-weather proxy.
type AdvisoryHandler struct {
	advisoryService *advisory.Service
	weatherClient   *weather.Client
}

func NewAdvisoryHandler(advisoryService *advisory.Service, weatherClient *weather.Client) *AdvisoryHandler {
	return &AdvisoryHandler{
		advisoryService: advisoryService,
		weatherClient:   weatherClient,
	}
}

// AdvisoryRouter registers the AI advisory routes.
func AdvisoryRouter(r chi.Router, handler *AdvisoryHandler) {
	r.Post("/chat", handler.Chat)
	r.Post("/weather-recommendations", handler.WeatherRecommendations)
	r.Post("/market-analysis", handler.MarketAnalysis)
	r.Post("/crop-disease", handler.CropDisease)
}

type ChatRequest struct {
	Message  string `json:"message"`
	Location string `json:"location"`
	Language string `json:"language"`
	Context  string `json:"context"`
}

type ChatResponse struct {
	Response string `json:"response"`
}

// Chat proxies a free-text question to the AI provider.
func (h *AdvisoryHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	response, err := h.advisoryService.Chat(r.Context(), advisory.ChatRequest{
		Message:  req.Message,
		Location: req.Location,
		Language: req.Language,
		Context:  req.Context,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get AI response")
		return
	}

	writeJSON(w, http.StatusOK, ChatResponse{Response: response})
}

type WeatherRecommendationsRequest struct {
	WeatherData *types.WeatherSnapshot `json:"weatherData"`
	Location    string                 `json:"location"`
}

type WeatherRecommendationsResponse struct {
	Recommendations string `json:"recommendations"`
}

// WeatherRecommendations proxies a weather snapshot to the AI provider.
func (h *AdvisoryHandler) WeatherRecommendations(w http.ResponseWriter, r *http.Request) {
	var req WeatherRecommendationsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.WeatherData == nil {
		writeError(w, http.StatusBadRequest, "weatherData is required")
		return
	}

	recommendations, err := h.advisoryService.WeatherRecommendations(r.Context(), *req.WeatherData, req.Location)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get weather recommendations")
		return
	}

	writeJSON(w, http.StatusOK, WeatherRecommendationsResponse{Recommendations: recommendations})
}

type MarketAnalysisRequest struct {
	MarketData []types.MarketRecord `json:"marketData"`
	Location   string               `json:"location"`
}

type MarketAnalysisResponse struct {
	Analysis string `json:"analysis"`
}

// MarketAnalysis proxies commodity price records to the AI provider.
func (h *AdvisoryHandler) MarketAnalysis(w http.ResponseWriter, r *http.Request) {
	var req MarketAnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.MarketData) == 0 {
		writeError(w, http.StatusBadRequest, "marketData is required")
		return
	}

	analysis, err := h.advisoryService.MarketAnalysis(r.Context(), req.MarketData, req.Location)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get market analysis")
		return
	}

	writeJSON(w, http.StatusOK, MarketAnalysisResponse{Analysis: analysis})
}

type CropDiseaseRequest struct {
	ImageDescription string `json:"imageDescription"`
}

// CropDisease returns a structured diagnosis. Unlike the other three
// advisory endpoints it never returns a provider error: failures yield
// the fixed placeholder record with status 200.
func (h *AdvisoryHandler) CropDisease(w http.ResponseWriter, r *http.Request) {
	var req CropDiseaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.ImageDescription) == "" {
		writeError(w, http.StatusBadRequest, "imageDescription is required")
		return
	}

	report := h.advisoryService.DiagnoseDisease(r.Context(), req.ImageDescription)
	writeJSON(w, http.StatusOK, report)
}

// CurrentWeather proxies the weather provider so the frontend needs no
// provider key of its own.
func (h *AdvisoryHandler) CurrentWeather(w http.ResponseWriter, r *http.Request) {
	location := strings.TrimSpace(r.URL.Query().Get("location"))
	if location == "" {
		writeError(w, http.StatusBadRequest, "location is required")
		return
	}

	snapshot, err := h.weatherClient.Current(r.Context(), location)
	if err != nil {
		if errors.Is(err, weather.ErrNoAPIKey) {
			writeError(w, http.StatusServiceUnavailable, "weather provider not configured")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to fetch weather")
		return
	}

	writeJSON(w, http.StatusOK, snapshot)
}
