package advisory

import (
	"fmt"
	"strings"

	"github.com/krishiguru/apiserver/types"
)

// Fixed system instructions, one per advisory use case. Each biases the
// model toward Indian agriculture and bilingual Hindi/English answers.

const chatSystemPrompt = `You are Krishi Guru, an expert agricultural advisor for Indian farmers.
Answer questions about crops, soil, irrigation, pests, fertilizers, government schemes and farm economics.
Give practical, season-aware advice suited to Indian conditions and smallholder budgets.
Reply in the language the farmer uses; if they write in Hindi, answer in Hindi, otherwise answer in simple English with common Hindi terms where natural.
Keep answers short and actionable.`

const weatherSystemPrompt = `You are an agricultural advisor generating weather-based farming recommendations for Indian farmers.
Given current weather conditions, suggest concrete actions for irrigation, spraying, sowing, harvesting and crop protection.
Mention risks the weather creates (fungal disease in high humidity, heat stress, lodging in strong wind, waterlogging after rain).
Answer with a short numbered list in simple English with Hindi terms where natural.`

const marketSystemPrompt = `You are an agricultural market analyst for Indian mandi prices.
Given today's commodity price records, summarise the market: top gainers and losers, overall trend, and what a farmer should consider selling or holding.
Base every statement only on the provided records. Answer in simple English with a short summary first.`

const diseaseSystemPrompt = `You are a plant pathologist diagnosing crop diseases for Indian farmers.
You receive a textual description of an uploaded photo (file name, size and type), not the image itself.
Respond ONLY with a JSON object of this exact shape:
{"disease": string, "confidence": number between 0 and 100, "description": string, "severity": "low"|"medium"|"high", "treatment": {"chemical": [string], "organic": [string]}, "prevention": [string]}
Name the most likely disease for common Indian crops given the description, with treatments available in Indian agro shops.`

func buildChatPrompt(req ChatRequest) string {
	var b strings.Builder
	if req.Location != "" {
		fmt.Fprintf(&b, "Farmer location: %s\n", req.Location)
	}
	if req.Language != "" {
		fmt.Fprintf(&b, "Preferred language: %s\n", req.Language)
	}
	if req.Context != "" {
		fmt.Fprintf(&b, "Recent conversation:\n%s\n", req.Context)
	}
	fmt.Fprintf(&b, "Question: %s", req.Message)
	return b.String()
}

func buildWeatherPrompt(weather types.WeatherSnapshot, location string) string {
	return fmt.Sprintf(
		"Current weather in %s:\n- Temperature: %.1f C\n- Humidity: %.0f%%\n- Wind speed: %.1f km/h\n- Condition: %s\n- Rainfall: %.1f mm\n\nWhat should a farmer do today?",
		location,
		weather.Temperature,
		weather.Humidity,
		weather.WindSpeed,
		weather.Condition,
		weather.Rainfall,
	)
}

func buildMarketPrompt(records []types.MarketRecord, location string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Today's mandi prices near %s:\n", location)
	for _, rec := range records {
		unit := rec.Unit
		if unit == "" {
			unit = "quintal"
		}
		fmt.Fprintf(&b, "- %s: Rs %.2f per %s, change %+.2f%%, volume %.0f", rec.Name, rec.Price, unit, rec.Change, rec.Volume)
		if rec.Market != "" {
			fmt.Fprintf(&b, " (%s)", rec.Market)
		}
		b.WriteString("\n")
	}
	b.WriteString("\nAnalyse this market for a farmer deciding what to sell.")
	return b.String()
}

func buildDiseasePrompt(imageDescription string) string {
	return fmt.Sprintf("Uploaded crop photo: %s\nDiagnose the most likely disease.", imageDescription)
}
