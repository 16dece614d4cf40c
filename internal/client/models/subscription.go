package models

import (
	"bytes"
	"encoding/json"
	"time"
)

// TierInfo is one entry of the server-side tier list.
type TierInfo struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	Price           Amount `json:"price"`
	PriceUSD        Amount `json:"price_usd"`
	Currency        string `json:"currency,omitempty"`
	Duration        string `json:"duration,omitempty"`
	PaymentRequired bool   `json:"payment_required"`
	BookLimit       int    `json:"book_limit"`
	MaxDownloads    int    `json:"max_downloads"`
	Description     string `json:"description,omitempty"`
}

// Tier resolves the server name to the client-side variant.
func (t TierInfo) Tier() Tier {
	return ParseTier(t.Name)
}

// TierRef is the "tier" field of a subscription. The backend sends the
// nested tier object, the tier name or the tier primary key.
type TierRef struct {
	Name string
	Info *TierInfo
}

func (r TierRef) Tier() Tier {
	return ParseTier(r.Name)
}

func (r TierRef) MarshalJSON() ([]byte, error) {
	if r.Info != nil {
		return json.Marshal(r.Info)
	}
	return json.Marshal(r.Name)
}

func (r *TierRef) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*r = TierRef{}
		return nil
	case len(b) > 0 && b[0] == '"':
		var name string
		if err := json.Unmarshal(b, &name); err != nil {
			return err
		}
		*r = TierRef{Name: name}
		return nil
	case len(b) > 0 && b[0] != '{':
		var id int64
		if err := json.Unmarshal(b, &id); err != nil {
			return err
		}
		*r = TierRef{Info: &TierInfo{ID: id}}
		return nil
	default:
		var info TierInfo
		if err := json.Unmarshal(b, &info); err != nil {
			return err
		}
		*r = TierRef{Name: info.Name, Info: &info}
		return nil
	}
}

// Subscription is the caller's active subscription.
type Subscription struct {
	ID        ID         `json:"id,omitempty"`
	Tier      TierRef    `json:"tier"`
	Details   *TierInfo  `json:"tier_details,omitempty"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	IsActive  bool       `json:"is_active"`
	Status    string     `json:"status,omitempty"`
}

// ResolvedTier prefers the tier name and falls back to tier_details.
func (s *Subscription) ResolvedTier() Tier {
	if s == nil {
		return TierUnknown
	}
	if t := s.Tier.Tier(); t != TierUnknown {
		return t
	}
	if s.Details != nil {
		return s.Details.Tier()
	}
	return TierUnknown
}

// Features looks the subscription's tier up in the static table.
func (s *Subscription) Features() (TierFeatures, bool) {
	return s.ResolvedTier().Features()
}
