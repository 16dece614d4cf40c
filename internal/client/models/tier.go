package models

import "strings"

// Tier is a subscription level. The set is closed: every Tier other than
// TierUnknown has an entry in the feature table.
type Tier int

const (
	TierUnknown Tier = iota
	TierFree
	TierQuickRead
	TierExplorer
	TierBookworm
)

var knownTiers = []Tier{TierFree, TierQuickRead, TierExplorer, TierBookworm}

// Tiers lists every known tier, cheapest first.
func Tiers() []Tier {
	out := make([]Tier, len(knownTiers))
	copy(out, knownTiers)
	return out
}

func (t Tier) String() string {
	switch t {
	case TierFree:
		return "free"
	case TierQuickRead:
		return "quick-read"
	case TierExplorer:
		return "explorer"
	case TierBookworm:
		return "bookworm"
	default:
		return "unknown"
	}
}

// DisplayName is the name the backend uses in its tier list.
func (t Tier) DisplayName() string {
	switch t {
	case TierFree:
		return "Free"
	case TierQuickRead:
		return "Quick Read"
	case TierExplorer:
		return "Explorer"
	case TierBookworm:
		return "Bookworm"
	default:
		return "Unknown"
	}
}

// ParseTier maps a tier name to a Tier, ignoring case, surrounding blanks
// and separators, so "Quick Read", "quick-read" and "QUICK_READ" are equal.
// The plan ids used by the pricing page ("daily", "weekly", "monthly") are
// accepted as aliases. Anything else yields TierUnknown.
func ParseTier(s string) Tier {
	switch normalizeName(s) {
	case "free":
		return TierFree
	case "quickread", "daily":
		return TierQuickRead
	case "explorer", "weekly":
		return TierExplorer
	case "bookworm", "monthly":
		return TierBookworm
	default:
		return TierUnknown
	}
}

func (t Tier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText never fails: names the client does not know decode to
// TierUnknown, which grants nothing.
func (t *Tier) UnmarshalText(b []byte) error {
	*t = ParseTier(string(b))
	return nil
}

func normalizeName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '_', '.':
			return -1
		}
		return r
	}, s)
}
