package model

// Preference keys persisted by the Preference Store.
const (
	// PrefRowSpacing toggles extra spacing between list rows.
	PrefRowSpacing = "isListRowSpacing"
	// PrefDarkMode selects the dark colour theme.
	PrefDarkMode = "isDarkOn"
)

// PreferenceKeys lists the preference keys the application knows about.
var PreferenceKeys = []string{PrefRowSpacing, PrefDarkMode}

// KnownPreference reports whether key is one of PreferenceKeys.
func KnownPreference(key string) bool {
	for _, k := range PreferenceKeys {
		if k == key {
			return true
		}
	}
	return false
}
