package models

// Unlimited marks a numeric limit with no ceiling.
const Unlimited = -1

// Feature names one entry of a tier's feature table.
type Feature int

const (
	FeatureUnknown Feature = iota
	FeatureDownloadBooks
	FeatureAccessPremiumBooks
	FeatureBookLimit
	FeatureMaxDownloads
	FeaturePrice
)

func (f Feature) String() string {
	switch f {
	case FeatureDownloadBooks:
		return "canDownloadBooks"
	case FeatureAccessPremiumBooks:
		return "canAccessPremiumBooks"
	case FeatureBookLimit:
		return "bookLimit"
	case FeatureMaxDownloads:
		return "maxDownloads"
	case FeaturePrice:
		return "price"
	default:
		return "unknown"
	}
}

// ParseFeature accepts the feature keys used by the web client
// (canDownloadBooks, maxBooksPerMonth, ...) in any case or separator style.
func ParseFeature(s string) Feature {
	switch normalizeName(s) {
	case "candownloadbooks", "downloadbooks", "download":
		return FeatureDownloadBooks
	case "canaccesspremiumbooks", "accesspremiumbooks", "premium":
		return FeatureAccessPremiumBooks
	case "booklimit", "maxbookspermonth":
		return FeatureBookLimit
	case "maxdownloads":
		return FeatureMaxDownloads
	case "price":
		return FeaturePrice
	default:
		return FeatureUnknown
	}
}

// TierFeatures is one row of the static feature table.
type TierFeatures struct {
	CanDownloadBooks      bool    `json:"can_download_books"`
	CanAccessPremiumBooks bool    `json:"can_access_premium_books"`
	BookLimit             int     `json:"book_limit"`
	MaxDownloads          int     `json:"max_downloads"`
	Price                 float64 `json:"price"`
	PriceUSD              float64 `json:"price_usd"`
	Description           string  `json:"description"`
}

// Features returns the feature row for t. The switch is exhaustive over the
// known tiers; ok is false only for TierUnknown.
func (t Tier) Features() (TierFeatures, bool) {
	switch t {
	case TierFree:
		return TierFeatures{
			CanDownloadBooks: true,
			BookLimit:        10,
			MaxDownloads:     1,
			Price:            0,
			PriceUSD:         0,
			Description:      "Free default subscription",
		}, true
	case TierQuickRead:
		return TierFeatures{
			CanDownloadBooks:      true,
			CanAccessPremiumBooks: true,
			BookLimit:             3,
			MaxDownloads:          3,
			Price:                 39,
			PriceUSD:              0.78,
			Description:           "24-hour unlimited reading",
		}, true
	case TierExplorer:
		return TierFeatures{
			CanDownloadBooks:      true,
			CanAccessPremiumBooks: true,
			BookLimit:             15,
			MaxDownloads:          10,
			Price:                 129,
			PriceUSD:              2.58,
			Description:           "7-day unlimited reading",
		}, true
	case TierBookworm:
		return TierFeatures{
			CanDownloadBooks:      true,
			CanAccessPremiumBooks: true,
			BookLimit:             Unlimited,
			MaxDownloads:          Unlimited,
			Price:                 99,
			PriceUSD:              1.98,
			Description:           "Ideal for avid readers",
		}, true
	}
	return TierFeatures{}, false
}

// Allows reports whether the feature is granted. Numeric entries count as
// granted when non-zero, so Unlimited grants.
func (f TierFeatures) Allows(feature Feature) bool {
	switch feature {
	case FeatureDownloadBooks:
		return f.CanDownloadBooks
	case FeatureAccessPremiumBooks:
		return f.CanAccessPremiumBooks
	case FeatureBookLimit:
		return f.BookLimit != 0
	case FeatureMaxDownloads:
		return f.MaxDownloads != 0
	case FeaturePrice:
		return f.Price != 0
	default:
		return false
	}
}

// CheckFeatureAccess is the fail-closed gate: unknown tiers and unknown
// features are always denied.
func CheckFeatureAccess(tier Tier, feature Feature) bool {
	features, ok := tier.Features()
	if !ok {
		return false
	}
	return features.Allows(feature)
}
