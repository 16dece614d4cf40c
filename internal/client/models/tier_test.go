package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestParseTier(t *testing.T) {
	tests := []struct {
		in   string
		want Tier
	}{
		{"free", TierFree},
		{"FREE", TierFree},
		{" Bookworm ", TierBookworm},
		{"BOOKWORM", TierBookworm},
		{"Quick Read", TierQuickRead},
		{"quick-read", TierQuickRead},
		{"QUICK_READ", TierQuickRead},
		{"daily", TierQuickRead},
		{"explorer", TierExplorer},
		{"weekly", TierExplorer},
		{"monthly", TierBookworm},
		{"platinum", TierUnknown},
		{"", TierUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseTier(tt.in))
		})
	}
}

func TestTier_StringRoundTrip(t *testing.T) {
	for _, tier := range Tiers() {
		assert.Equal(t, tier, ParseTier(tier.String()))
		assert.Equal(t, tier, ParseTier(tier.DisplayName()))
	}
}

func TestTier_EveryKnownTierHasFeatures(t *testing.T) {
	for _, tier := range Tiers() {
		_, ok := tier.Features()
		assert.True(t, ok, "missing feature row for %s", tier)
	}
	_, ok := TierUnknown.Features()
	assert.False(t, ok)
}

func TestTier_TextUnmarshalUnknownIsNotAnError(t *testing.T) {
	var v struct {
		Tier Tier `json:"tier"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"tier":"diamond"}`), &v))
	assert.Equal(t, TierUnknown, v.Tier)

	require.NoError(t, json.Unmarshal([]byte(`{"tier":"Explorer"}`), &v))
	assert.Equal(t, TierExplorer, v.Tier)

	b, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `{"tier":"explorer"}`, string(b))
}

func TestCheckFeatureAccess(t *testing.T) {
	tests := []struct {
		name    string
		tier    Tier
		feature Feature
		want    bool
	}{
		{"free can download", TierFree, FeatureDownloadBooks, true},
		{"free no premium", TierFree, FeatureAccessPremiumBooks, false},
		{"free has book limit", TierFree, FeatureBookLimit, true},
		{"free price is zero", TierFree, FeaturePrice, false},
		{"bookworm premium", TierBookworm, FeatureAccessPremiumBooks, true},
		{"bookworm unlimited downloads", TierBookworm, FeatureMaxDownloads, true},
		{"explorer premium", TierExplorer, FeatureAccessPremiumBooks, true},
		{"unknown tier", TierUnknown, FeatureDownloadBooks, false},
		{"unknown feature", TierBookworm, FeatureUnknown, false},
		{"out of range tier", Tier(42), FeatureDownloadBooks, false},
		{"out of range feature", TierBookworm, Feature(42), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CheckFeatureAccess(tt.tier, tt.feature))
		})
	}
}

func TestParseFeature(t *testing.T) {
	assert.Equal(t, FeatureDownloadBooks, ParseFeature("canDownloadBooks"))
	assert.Equal(t, FeatureAccessPremiumBooks, ParseFeature("can_access_premium_books"))
	assert.Equal(t, FeatureBookLimit, ParseFeature("maxBooksPerMonth"))
	assert.Equal(t, FeatureBookLimit, ParseFeature("bookLimit"))
	assert.Equal(t, FeatureMaxDownloads, ParseFeature("maxDownloads"))
	assert.Equal(t, FeaturePrice, ParseFeature("price"))
	assert.Equal(t, FeatureUnknown, ParseFeature("teleport"))

	for _, f := range []Feature{FeatureDownloadBooks, FeatureAccessPremiumBooks, FeatureBookLimit, FeatureMaxDownloads, FeaturePrice} {
		assert.Equal(t, f, ParseFeature(f.String()))
	}
}

func TestCheckFeatureAccess_FailsClosedForUnknownNames(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		tierName := rapid.String().Draw(t, "tier")
		featureName := rapid.String().Draw(t, "feature")

		tier := ParseTier(tierName)
		feature := ParseFeature(featureName)

		got := CheckFeatureAccess(tier, feature)
		if tier == TierUnknown || feature == FeatureUnknown {
			if got {
				t.Fatalf("access granted for unknown pair (%q, %q)", tierName, featureName)
			}
		}
	})
}

func TestCheckFeatureAccess_ArbitraryValuesNeverPanic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		tier := Tier(rapid.Int().Draw(t, "tier"))
		feature := Feature(rapid.Int().Draw(t, "feature"))
		_ = CheckFeatureAccess(tier, feature)
	})
}
