package coordinator

// Units is the unit-of-measurement tuple derived from the API unit-system
// code at construction. The API reports all numeric fields in these units;
// the tuple is what the presentation layer attaches to values.
type Units struct {
	Temperature   string `json:"temperature"`
	Precipitation string `json:"precipitation"`
	Length        string `json:"length"`
	WindSpeed     string `json:"windSpeed"`
	Pressure      string `json:"pressure"`
	PrecipRate    string `json:"precipRate"`
	Humidity      string `json:"humidity"`
}

var (
	metricUnits = Units{
		Temperature:   "°C",
		Precipitation: "mm",
		Length:        "m",
		WindSpeed:     "km/h",
		Pressure:      "mbar",
		PrecipRate:    "mm/h",
		Humidity:      "%",
	}
	imperialUnits = Units{
		Temperature:   "°F",
		Precipitation: "in",
		Length:        "ft",
		WindSpeed:     "mph",
		Pressure:      "inHg",
		PrecipRate:    "in/h",
		Humidity:      "%",
	}
)

// unitsForSystem maps the API unit-system code ("m" or "e") to the tuple.
func unitsForSystem(code string) Units {
	if code == "m" {
		return metricUnits
	}
	return imperialUnits
}
