package types

// WeatherSnapshot is the structured weather state attached to a
// weather-recommendation request or returned by the weather proxy.
type WeatherSnapshot struct {
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	WindSpeed   float64 `json:"windSpeed"`
	Condition   string  `json:"condition"`
	Rainfall    float64 `json:"rainfall"`
}

// MarketRecord is a single commodity price entry supplied by the caller
// for market analysis.
type MarketRecord struct {
	Name   string  `json:"name"`
	Price  float64 `json:"price"`
	Change float64 `json:"change"`
	Volume float64 `json:"volume"`
	Unit   string  `json:"unit,omitempty"`
	Market string  `json:"market,omitempty"`
}

// DiseaseReport is the structured crop-disease diagnosis. Confidence is a
// percentage in [0,100].
type DiseaseReport struct {
	Disease     string           `json:"disease"`
	Confidence  int              `json:"confidence"`
	Description string           `json:"description"`
	Severity    string           `json:"severity"`
	Treatment   DiseaseTreatment `json:"treatment"`
	Prevention  []string         `json:"prevention"`
}

// DiseaseTreatment splits treatment advice into chemical and organic options.
type DiseaseTreatment struct {
	Chemical []string `json:"chemical"`
	Organic  []string `json:"organic"`
}
