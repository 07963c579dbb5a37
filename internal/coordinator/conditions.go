package coordinator

// Normalized condition labels resolved from Weather.com icon codes.
const (
	ConditionClearNight     = "clear-night"
	ConditionCloudy         = "cloudy"
	ConditionExceptional    = "exceptional"
	ConditionFog            = "fog"
	ConditionHail           = "hail"
	ConditionLightning      = "lightning"
	ConditionLightningRainy = "lightning-rainy"
	ConditionPartlyCloudy   = "partlycloudy"
	ConditionPouring        = "pouring"
	ConditionRainy          = "rainy"
	ConditionSnowy          = "snowy"
	ConditionSnowyRainy     = "snowy-rainy"
	ConditionSunny          = "sunny"
	ConditionWindy          = "windy"
	ConditionWindyVariant   = "windy-variant"
)

// iconConditionEntry pairs a condition with the icon codes that resolve to
// it.
type iconConditionEntry struct {
	condition string
	iconCodes []int
}

// iconConditionMap is process-wide read-only data shared by all coordinator
// instances. Lookup order matters: resolution takes the first condition
// whose code set contains the icon code, so the table is a slice, not a map.
// Icon code 44 (Not Available) is deliberately absent.
var iconConditionMap = []iconConditionEntry{
	{ConditionClearNight, []int{31, 33}},
	{ConditionCloudy, []int{26, 27, 28}},
	{ConditionExceptional, []int{0, 1, 2, 19, 22}},
	{ConditionFog, []int{20, 21}},
	{ConditionHail, []int{17}},
	{ConditionLightning, nil},
	{ConditionLightningRainy, []int{3, 4, 37, 38, 47}},
	{ConditionPartlyCloudy, []int{29, 30}},
	{ConditionPouring, []int{40}},
	{ConditionRainy, []int{9, 11, 12, 39, 45}},
	{ConditionSnowy, []int{13, 14, 15, 16, 41, 42, 43, 46}},
	{ConditionSnowyRainy, []int{5, 6, 7, 8, 10, 18, 25, 35}},
	{ConditionSunny, []int{32, 34}},
	{ConditionWindy, []int{23, 24}},
	{ConditionWindyVariant, nil},
}
