package settings

// AdSettings is the client-facing ad configuration, stored as one JSON
// value under the "ads" key.
type AdSettings struct {
	AdCode         string `json:"adCode"`
	AdTimerSeconds int    `json:"adTimerSeconds"`
	AdEnabled      bool   `json:"adEnabled"`
	AdPlacement    string `json:"adPlacement"`
}

// DefaultAds is what clients see before an admin has saved anything.
func DefaultAds() AdSettings {
	return AdSettings{
		AdCode:         "",
		AdTimerSeconds: 20,
		AdEnabled:      true,
		AdPlacement:    "credits",
	}
}
