package rewards

// Icon is either a fixed glyph or a set of gendered variants.
type Icon struct {
	fixed    string
	gendered bool
	male     string
	female   string
	fallback string
}

// FixedIcon returns an icon that ignores gender.
func FixedIcon(glyph string) Icon {
	return Icon{fixed: glyph}
}

// GenderedIcon returns an icon with per-gender variants and a default.
func GenderedIcon(male, female, fallback string) Icon {
	return Icon{gendered: true, male: male, female: female, fallback: fallback}
}

// IsGendered reports whether the icon varies with gender.
func (i Icon) IsGendered() bool {
	return i.gendered
}

// Resolve returns the glyph to display for the given gender.
func (i Icon) Resolve(g Gender) string {
	if !i.gendered {
		return i.fixed
	}
	switch g {
	case GenderBoy:
		return i.male
	case GenderGirl:
		return i.female
	default:
		return i.fallback
	}
}
