package translations

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// DefaultLanguage is the fallback language; a <dir>/en.json file is expected
// to always be present.
const DefaultLanguage = "en"

// Table maps label keys to localized display strings for one language.
type Table map[string]string

// Load reads the label file for the given language code. Region subtags are
// stripped, so "de-DE" loads <dir>/de.json.
func Load(dir, lang string) (Table, error) {
	subtag := strings.SplitN(lang, "-", 2)[0]
	path := filepath.Join(dir, subtag+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read translation file: %w", err)
	}
	var table Table
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("parse translation file %s: %w", path, err)
	}
	return table, nil
}

// LoadWithFallback loads the label table for lang, falling back to the
// default language on any load error. Failures are logged as warnings, never
// returned: translations are cosmetic and must not block startup.
func LoadWithFallback(dir, lang string, logger *zap.Logger) Table {
	table, err := Load(dir, lang)
	if err == nil {
		return table
	}
	logger.Warn("translation file not loadable, defaulting to en",
		zap.String("language", lang), zap.Error(err))

	table, err = Load(dir, DefaultLanguage)
	if err != nil {
		logger.Warn("default translation file not loadable", zap.Error(err))
		return Table{}
	}
	return table
}

// Label returns the localized string for key, or the key itself when no
// translation exists.
func (t Table) Label(key string) string {
	if v, ok := t[key]; ok {
		return v
	}
	return key
}
