package coordinator

// Weather.com v3 response field names served by the accessors.
const (
	FieldTemperature          = "temperature"
	FieldTemperatureFeelsLike = "temperatureFeelsLike"
	FieldTemperatureDewPoint  = "temperatureDewPoint"
	FieldHumidity             = "relativeHumidity"
	FieldPressure             = "pressureAltimeter"
	FieldWindDirection        = "windDirection"
	FieldWindDirCardinal      = "windDirectionCardinal"
	FieldWindSpeed            = "windSpeed"
	FieldWindGust             = "windGust"
	FieldUVIndex              = "uvIndex"
	FieldVisibility           = "visibility"
	FieldPrecip1Hour          = "precip1Hour"
	FieldIconCode             = "iconCode"
	FieldDescription          = "wxPhraseLong"
	FieldValidTimeLocal       = "validTimeLocal"

	FieldDaypart                   = "daypart"
	FieldValidTimeUTC              = "validTimeUtc"
	FieldTemperatureMax            = "temperatureMax"
	FieldTemperatureMin            = "temperatureMin"
	FieldCalendarDayTemperatureMax = "calendarDayTemperatureMax"
	FieldCalendarDayTemperatureMin = "calendarDayTemperatureMin"
	FieldPrecipChance              = "precipChance"
	FieldQPF                       = "qpf"
	FieldQPFSnow                   = "qpfSnow"
	FieldDaypartName               = "daypartName"
	FieldNarrative                 = "narrative"
)

// conditionPolicy is the per-field lookup rule for current-condition fields.
type conditionPolicy int

const (
	// passThrough returns the stored value as-is; absent fields read as nil
	// and callers must handle that.
	passThrough conditionPolicy = iota
	// zeroDefault is for unit-less fields that read as 0 when falsy/absent.
	zeroDefault
)

// conditionFields enumerates the recognized current-condition fields with
// their lookup policy and the unit selector the presentation layer uses.
var conditionFields = map[string]struct {
	policy conditionPolicy
	unit   func(Units) string
}{
	FieldTemperature:          {passThrough, func(u Units) string { return u.Temperature }},
	FieldTemperatureFeelsLike: {passThrough, func(u Units) string { return u.Temperature }},
	FieldTemperatureDewPoint:  {passThrough, func(u Units) string { return u.Temperature }},
	FieldHumidity:             {zeroDefault, func(u Units) string { return u.Humidity }},
	FieldPressure:             {passThrough, func(u Units) string { return u.Pressure }},
	FieldWindDirection:        {zeroDefault, noUnit},
	FieldWindDirCardinal:      {passThrough, noUnit},
	FieldWindSpeed:            {passThrough, func(u Units) string { return u.WindSpeed }},
	FieldWindGust:             {passThrough, func(u Units) string { return u.WindSpeed }},
	FieldUVIndex:              {passThrough, noUnit},
	FieldVisibility:           {passThrough, func(u Units) string { return u.Length }},
	FieldPrecip1Hour:          {passThrough, func(u Units) string { return u.PrecipRate }},
	FieldIconCode:             {passThrough, noUnit},
	FieldDescription:          {passThrough, noUnit},
	FieldValidTimeLocal:       {passThrough, noUnit},
}

func noUnit(Units) string { return "" }

// forecastIndexing is the per-field indexing rule for forecast fields.
type forecastIndexing int

const (
	// perDaypart fields live in daypart[0].<field>, one entry per half day.
	perDaypart forecastIndexing = iota
	// perCalendarDay fields live in a top-level array with one entry per
	// day, so a daypart period indexes them at period/2.
	perCalendarDay
)

// forecastFields enumerates the recognized forecast fields.
var forecastFields = map[string]forecastIndexing{
	FieldValidTimeUTC:              perCalendarDay,
	FieldTemperatureMax:            perCalendarDay,
	FieldTemperatureMin:            perCalendarDay,
	FieldCalendarDayTemperatureMax: perCalendarDay,
	FieldCalendarDayTemperatureMin: perCalendarDay,
	FieldNarrative:                 perDaypart,
	FieldIconCode:                  perDaypart,
	FieldPrecipChance:              perDaypart,
	FieldQPF:                       perDaypart,
	FieldQPFSnow:                   perDaypart,
	FieldWindSpeed:                 perDaypart,
	FieldWindDirCardinal:           perDaypart,
	FieldDaypartName:               perDaypart,
	FieldDescription:               perDaypart,
}

// IsConditionField reports whether field is a recognized current-condition
// field. Used by the HTTP layer to reject unknown identifiers.
func IsConditionField(field string) bool {
	_, ok := conditionFields[field]
	return ok
}

// IsForecastField reports whether field is a recognized forecast field.
func IsForecastField(field string) bool {
	_, ok := forecastFields[field]
	return ok
}

// ConditionUnit returns the unit string for a recognized condition field
// under the given unit tuple; "" for unit-less or unknown fields.
func ConditionUnit(field string, u Units) string {
	entry, ok := conditionFields[field]
	if !ok {
		return ""
	}
	return entry.unit(u)
}
