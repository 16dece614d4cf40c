package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/dmitrijs2005/bookflix/internal/client/models"
	"github.com/dmitrijs2005/bookflix/internal/client/services"
)

// Subscription prints the caller's plan and its limits.
func (a *App) Subscription(ctx context.Context) error {
	res := a.subscriptionService.Current(ctx)

	switch res.Status {
	case services.StatusUnauthorized:
		fmt.Fprintln(a.out, "Sign in to see your subscription.")
		return nil
	case services.StatusNoSubscription:
		fmt.Fprintln(a.out, "You have no active subscription. Type 'tiers' to see the plans.")
		return nil
	case services.StatusFetchFailed:
		return res.Err
	}

	sub := res.Subscription
	tier := sub.ResolvedTier()
	fmt.Fprintf(a.out, "Plan:   %s\n", tier.DisplayName())
	fmt.Fprintf(a.out, "Active: %t\n", sub.IsActive)
	if sub.StartDate != nil {
		fmt.Fprintf(a.out, "Since:  %s\n", sub.StartDate.Format("2006-01-02"))
	}
	if sub.EndDate != nil {
		fmt.Fprintf(a.out, "Until:  %s\n", sub.EndDate.Format("2006-01-02"))
	}
	if f, ok := tier.Features(); ok {
		fmt.Fprintf(a.out, "Books:  %s\n", limit(f.BookLimit))
		fmt.Fprintf(a.out, "Downloads: %s\n", limit(f.MaxDownloads))
		fmt.Fprintf(a.out, "Premium titles: %s\n", yesNo(f.CanAccessPremiumBooks))
	}
	return nil
}

// Tiers lists the plans offered by the server.
func (a *App) Tiers(ctx context.Context) error {
	tiers, err := a.subscriptionService.Tiers(ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tPRICE\tBOOKS\tDOWNLOADS\tDESCRIPTION")
	for _, t := range tiers {
		books, downloads := t.BookLimit, t.MaxDownloads
		description := t.Description
		if f, ok := t.Tier().Features(); ok {
			books, downloads = f.BookLimit, f.MaxDownloads
			if description == "" {
				description = f.Description
			}
		}
		fmt.Fprintf(tw, "%s\t%.2f %s\t%s\t%s\t%s\n",
			t.Name, float64(t.Price), currency(t.Currency), limit(books), limit(downloads), description)
	}
	return tw.Flush()
}

func (a *App) Upgrade(ctx context.Context, tier string) error {
	sub, err := a.subscriptionService.Upgrade(ctx, tier)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "You are now on the %s plan.\n", sub.ResolvedTier().DisplayName())
	return nil
}

// Can answers whether a feature is included in tier, or in the caller's
// current plan when tier is empty.
func (a *App) Can(ctx context.Context, feature, tier string) error {
	f := models.ParseFeature(feature)
	if f == models.FeatureUnknown {
		fmt.Fprintf(a.out, "Unknown feature %q. Try canDownloadBooks, canAccessPremiumBooks, bookLimit or maxDownloads.\n", feature)
		return nil
	}

	t := models.ParseTier(tier)
	switch {
	case tier == "":
		t = a.currentTier(ctx)
	case t == models.TierUnknown:
		fmt.Fprintf(a.out, "Unknown tier %q. Type 'tiers' to see the plans.\n", tier)
		return nil
	}

	if a.subscriptionService.CheckFeatureAccess(t.String(), f.String()) {
		fmt.Fprintf(a.out, "%s: included in %s.\n", f, t.DisplayName())
		return nil
	}
	a.upgradePrompt(t, f.String())
	return nil
}

// currentTier resolves the caller's plan; anonymous callers and failed
// lookups resolve to TierUnknown, which grants nothing.
func (a *App) currentTier(ctx context.Context) models.Tier {
	res := a.subscriptionService.Current(ctx)
	if res.Status != services.StatusActive {
		return models.TierUnknown
	}
	return res.Subscription.ResolvedTier()
}

func (a *App) upgradePrompt(t models.Tier, what string) {
	if t == models.TierUnknown {
		fmt.Fprintf(a.out, "%s is not available without a plan. Sign in and type 'tiers' to see the plans.\n", what)
		return
	}
	fmt.Fprintf(a.out, "Your %s plan does not include %s. Type 'tiers' to compare plans and 'upgrade <tier>' to switch.\n",
		t.DisplayName(), what)
}

func limit(n int) string {
	if n == models.Unlimited {
		return "unlimited"
	}
	return fmt.Sprint(n)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func currency(c string) string {
	if c == "" {
		return "PHP"
	}
	return c
}
