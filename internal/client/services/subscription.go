package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/bookflix/internal/client/client"
	"github.com/dmitrijs2005/bookflix/internal/client/models"
	"github.com/dmitrijs2005/bookflix/internal/logging"
)

const (
	PathCurrentSubscription = "/subscriptions/current/"
	PathTiers               = "/subscriptions/tiers/"
	PathUpgrade             = "/subscriptions/upgrade/"
)

type SubscriptionStatus string

const (
	StatusActive         SubscriptionStatus = "active"
	StatusUnauthorized   SubscriptionStatus = "unauthorized"
	StatusNoSubscription SubscriptionStatus = "no_subscription"
	StatusFetchFailed    SubscriptionStatus = "fetch_failed"
)

// NoSubscriptionPolicy decides what a 404 from the current-subscription
// endpoint means.
type NoSubscriptionPolicy string

const (
	// NoSubscriptionFree treats the caller as an active free-tier subscriber.
	NoSubscriptionFree NoSubscriptionPolicy = "free"
	// NoSubscriptionError reports StatusNoSubscription.
	NoSubscriptionError NoSubscriptionPolicy = "error"
)

func ParseNoSubscriptionPolicy(s string) (NoSubscriptionPolicy, error) {
	switch p := NoSubscriptionPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case NoSubscriptionFree, NoSubscriptionError:
		return p, nil
	case "":
		return NoSubscriptionFree, nil
	default:
		return "", fmt.Errorf("unknown no-subscription policy %q (want %q or %q)", s, NoSubscriptionFree, NoSubscriptionError)
	}
}

// SubscriptionResult is the outcome of a current-subscription lookup.
// Subscription is set only for StatusActive; Err carries the cause of
// StatusFetchFailed.
type SubscriptionResult struct {
	Status       SubscriptionStatus
	Subscription *models.Subscription
	Err          error
}

// SubscriptionService is the subscription gate.
type SubscriptionService interface {
	Current(ctx context.Context) SubscriptionResult
	Tiers(ctx context.Context) ([]models.TierInfo, error)
	Upgrade(ctx context.Context, name string) (*models.Subscription, error)
	CheckFeatureAccess(tier, feature string) bool
	Limits(tier string) (models.TierFeatures, bool)
}

// Authenticator reports whether a session is present.
type Authenticator interface {
	IsAuthenticated() bool
}

type subscriptionService struct {
	api    API
	auth   Authenticator
	policy NoSubscriptionPolicy
	log    logging.Logger
}

func NewSubscriptionService(api API, auth Authenticator, policy NoSubscriptionPolicy, log logging.Logger) SubscriptionService {
	if log == nil {
		log = logging.Nop()
	}
	if policy == "" {
		policy = NoSubscriptionFree
	}
	return &subscriptionService{
		api:    api,
		auth:   auth,
		policy: policy,
		log:    log.With("service", "subscription"),
	}
}

func (s *subscriptionService) Current(ctx context.Context) SubscriptionResult {
	if !s.auth.IsAuthenticated() {
		return SubscriptionResult{Status: StatusUnauthorized}
	}

	var sub models.Subscription
	err := s.api.Get(ctx, PathCurrentSubscription, nil, &sub)
	switch {
	case err == nil:
		return SubscriptionResult{Status: StatusActive, Subscription: &sub}
	case errors.Is(err, client.ErrUnauthorized), errors.Is(err, client.ErrSessionExpired):
		return SubscriptionResult{Status: StatusUnauthorized}
	case errors.Is(err, client.ErrNotFound):
		if s.policy == NoSubscriptionFree {
			return SubscriptionResult{Status: StatusActive, Subscription: freeSubscription()}
		}
		return SubscriptionResult{Status: StatusNoSubscription}
	default:
		s.log.Warn(ctx, "failed to fetch subscription", "error", err)
		return SubscriptionResult{Status: StatusFetchFailed, Err: err}
	}
}

func freeSubscription() *models.Subscription {
	f, _ := models.TierFree.Features()
	return &models.Subscription{
		Tier: models.TierRef{Name: models.TierFree.String()},
		Details: &models.TierInfo{
			Name:         models.TierFree.DisplayName(),
			Price:        models.Amount(f.Price),
			PriceUSD:     models.Amount(f.PriceUSD),
			BookLimit:    f.BookLimit,
			MaxDownloads: f.MaxDownloads,
			Description:  f.Description,
		},
		IsActive: true,
		Status:   string(StatusActive),
	}
}

func (s *subscriptionService) Tiers(ctx context.Context) ([]models.TierInfo, error) {
	var tiers []models.TierInfo
	if err := s.api.Get(ctx, PathTiers, nil, &tiers); err != nil {
		return nil, fmt.Errorf("list tiers: %w", err)
	}
	return tiers, nil
}

type upgradeRequest struct {
	TierID int64 `json:"tier_id"`
}

// Upgrade switches the caller to the server tier whose name matches name,
// compared case-insensitively or through tier name normalization.
func (s *subscriptionService) Upgrade(ctx context.Context, name string) (*models.Subscription, error) {
	if !s.auth.IsAuthenticated() {
		return nil, ErrNotAuthenticated
	}

	tiers, err := s.Tiers(ctx)
	if err != nil {
		return nil, err
	}

	selected, ok := matchTier(tiers, name)
	if !ok {
		available := make([]string, 0, len(tiers))
		for _, t := range tiers {
			available = append(available, t.Name)
		}
		return nil, &TierNotFoundError{Name: name, Available: available}
	}

	var sub models.Subscription
	if err := s.api.Post(ctx, PathUpgrade, upgradeRequest{TierID: selected.ID}, &sub); err != nil {
		return nil, fmt.Errorf("upgrade subscription: %w", err)
	}
	s.log.Info(ctx, "subscription upgraded", "tier", selected.Name, "tier_id", selected.ID)
	return &sub, nil
}

func matchTier(tiers []models.TierInfo, name string) (models.TierInfo, bool) {
	want := strings.ToLower(strings.TrimSpace(name))
	if want == "" {
		return models.TierInfo{}, false
	}
	for _, t := range tiers {
		if strings.ToLower(strings.TrimSpace(t.Name)) == want {
			return t, true
		}
	}
	if variant := models.ParseTier(name); variant != models.TierUnknown {
		for _, t := range tiers {
			if t.Tier() == variant {
				return t, true
			}
		}
	}
	return models.TierInfo{}, false
}

// CheckFeatureAccess answers from the static feature table; unknown tiers
// and features yield false.
func (s *subscriptionService) CheckFeatureAccess(tier, feature string) bool {
	return models.CheckFeatureAccess(models.ParseTier(tier), models.ParseFeature(feature))
}

func (s *subscriptionService) Limits(tier string) (models.TierFeatures, bool) {
	return models.ParseTier(tier).Features()
}
