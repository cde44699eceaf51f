package rewards

import "strings"

// Theme selects which badge table and streak badge names a player sees.
type Theme int

const (
	ThemeSpace Theme = iota
	ThemeHeroes
	ThemeAnimals
)

func (t Theme) String() string {
	switch t {
	case ThemeHeroes:
		return "heroes"
	case ThemeAnimals:
		return "animals"
	default:
		return "space"
	}
}

// ParseTheme maps a stored theme name to a Theme. Unknown names resolve to
// ThemeSpace with ok=false so callers can decide whether to reject them.
func ParseTheme(s string) (Theme, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "space":
		return ThemeSpace, true
	case "heroes":
		return ThemeHeroes, true
	case "animals":
		return ThemeAnimals, true
	default:
		return ThemeSpace, false
	}
}

// Themes lists every theme in catalog order.
func Themes() []Theme {
	return []Theme{ThemeSpace, ThemeHeroes, ThemeAnimals}
}

// Gender only affects which variant of a gendered icon is shown.
type Gender int

const (
	GenderUnspecified Gender = iota
	GenderBoy
	GenderGirl
)

func (g Gender) String() string {
	switch g {
	case GenderBoy:
		return "boy"
	case GenderGirl:
		return "girl"
	default:
		return ""
	}
}

// ParseGender accepts "boy"/"girl" (and "male"/"female"); anything else is unspecified.
func ParseGender(s string) Gender {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "boy", "male":
		return GenderBoy
	case "girl", "female":
		return GenderGirl
	default:
		return GenderUnspecified
	}
}
