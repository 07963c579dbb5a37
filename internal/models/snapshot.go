package models

// Snapshot is the merged current-conditions + daily-forecast payload as of
// the last successful refresh. Values carry the encoding/json generic types
// (float64, string, bool, []any, map[string]any, nil).
type Snapshot map[string]any

// Merge combines a current-conditions response and a forecast response into
// a fresh snapshot. The merge is right-biased: on key collision the forecast
// value wins, matching the order the upstream resources are fetched in.
func Merge(current, forecast Snapshot) Snapshot {
	merged := make(Snapshot, len(current)+len(forecast))
	for k, v := range current {
		merged[k] = v
	}
	for k, v := range forecast {
		merged[k] = v
	}
	return merged
}

// Float reads a numeric field. Returns false when the field is absent or not
// a JSON number.
func (s Snapshot) Float(key string) (float64, bool) {
	v, ok := s[key].(float64)
	return v, ok
}

// String reads a string field. Returns false when absent or not a string.
func (s Snapshot) String(key string) (string, bool) {
	v, ok := s[key].(string)
	return v, ok
}

// Slice reads an array field. Returns false when absent or not an array.
func (s Snapshot) Slice(key string) ([]any, bool) {
	v, ok := s[key].([]any)
	return v, ok
}
