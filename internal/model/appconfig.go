package model

// AppConfig holds application-wide preferences and default settings.
type AppConfig struct {
	// Default estimator settings applied to new quotes
	Defaults Settings `json:"defaults"`

	DefaultCutterProfile string `json:"default_cutter_profile"`
	DefaultDigitalSheet  string `json:"default_digital_sheet"`

	// Application preferences
	ServerAddr   string   `json:"server_addr"`
	RecentQuotes []string `json:"recent_quotes"`
	// "light", "dark" or "system"
	Theme string `json:"theme"`
	// Spoilage allowance added to paper orders, in percent
	WastePercent float64 `json:"waste_percent"`
	// 0 disables memoization
	MemoMaxEntries int `json:"memo_max_entries"`
}

// DefaultAppConfig returns an AppConfig populated with sensible defaults
// matching DefaultSettings().
func DefaultAppConfig() AppConfig {
	return AppConfig{
		Defaults:             DefaultSettings(),
		DefaultCutterProfile: "Generic",
		DefaultDigitalSheet:  DigitalSheets[0].Name,
		ServerAddr:           ":8080",
		RecentQuotes:         []string{},
		Theme:                "system",
		WastePercent:         5,
		MemoMaxEntries:       4096,
	}
}

// ApplyToSettings copies the defaults into the given settings. This is
// used when creating a new quote so it inherits the user's saved defaults.
func (c AppConfig) ApplyToSettings(s *Settings) {
	*s = c.Defaults
	s.DigitalSheet = FindDigitalSheet(c.DefaultDigitalSheet).Piece()
}

// AddRecentQuote moves path to the front of the recent list, keeping at
// most ten entries.
func (c *AppConfig) AddRecentQuote(path string) {
	out := []string{path}
	for _, p := range c.RecentQuotes {
		if p != path && len(out) < 10 {
			out = append(out, p)
		}
	}
	c.RecentQuotes = out
}
