package domain

// PreferencesVersion is bumped whenever the persisted layout changes.
const PreferencesVersion = 1

// Preferences is the persisted browsing selection.
type Preferences struct {
	Version  int      `json:"version" yaml:"version"`
	Category Category `json:"category" yaml:"category"`
	Search   string   `json:"search" yaml:"search"`
	Page     int      `json:"page" yaml:"page"`
}

func DefaultPreferences() Preferences {
	return Preferences{
		Version:  PreferencesVersion,
		Category: DefaultCategory,
		Search:   "",
		Page:     1,
	}
}

// Normalize replaces invalid fields with their defaults.
func (p Preferences) Normalize() Preferences {
	if !p.Category.Valid() {
		p.Category = DefaultCategory
	}
	if p.Page < 1 {
		p.Page = 1
	}
	p.Version = PreferencesVersion
	return p
}
