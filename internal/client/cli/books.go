package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/bookflix/internal/client/models"
)

func (a *App) Trending(ctx context.Context) error {
	books, err := a.catalogService.Trending(ctx)
	if err != nil {
		return err
	}
	a.printBooks("Trending", books)
	return nil
}

func (a *App) NewReleases(ctx context.Context) error {
	books, err := a.catalogService.NewReleases(ctx)
	if err != nil {
		return err
	}
	a.printBooks("New releases", books)
	return nil
}

func (a *App) Recommended(ctx context.Context) error {
	books, err := a.catalogService.Recommended(ctx)
	if err != nil {
		return err
	}
	a.printBooks("Recommended for you", books)
	return nil
}

// Search runs query through the debouncer, so a burst of searches only
// reaches the server once and only the newest answer is shown.
func (a *App) Search(ctx context.Context, query string) error {
	gen := a.searcher.Submit(query)
	if gen == 0 {
		return context.Canceled
	}

	res, err := a.searcher.Await(ctx, gen)
	if err != nil {
		return err
	}
	if res.Err != nil {
		return res.Err
	}
	a.printBooks(fmt.Sprintf("Results for %q", res.Query), res.Value)
	return nil
}

// Book prints one book. Premium titles the current plan does not cover are
// marked with an upgrade hint instead of failing.
func (a *App) Book(ctx context.Context, id string) error {
	book, err := a.catalogService.Details(ctx, id)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s\n", book.Title)
	if book.Authors != "" {
		fmt.Fprintf(a.out, "by %s\n", book.Authors)
	}
	if book.FirstPublishYear != 0 {
		fmt.Fprintf(a.out, "First published: %d\n", book.FirstPublishYear)
	}
	if len(book.Subjects) > 0 {
		fmt.Fprintf(a.out, "Subjects: %s\n", strings.Join(book.Subjects, ", "))
	}
	if book.Description != "" {
		fmt.Fprintf(a.out, "\n%s\n", book.Description)
	}
	if book.PreviewLink != "" {
		fmt.Fprintf(a.out, "\nPreview: %s\n", book.PreviewLink)
	}

	if book.Premium {
		tier := a.currentTier(ctx)
		if !models.CheckFeatureAccess(tier, models.FeatureAccessPremiumBooks) {
			a.upgradePrompt(tier, "premium books")
		}
	}
	return nil
}

func (a *App) Favorite(ctx context.Context, id string) error {
	if err := a.catalogService.Favorite(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Added %s to favorites.\n", id)
	return nil
}

func (a *App) Unfavorite(ctx context.Context, id string) error {
	if err := a.catalogService.Unfavorite(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Removed %s from favorites.\n", id)
	return nil
}

func (a *App) Progress(ctx context.Context, id, value string) error {
	progress, err := strconv.Atoi(strings.TrimSuffix(value, "%"))
	if err != nil {
		fmt.Fprintln(a.out, "Progress must be a whole number between 0 and 100.")
		return nil
	}
	if err := a.catalogService.UpdateProgress(ctx, id, progress); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Progress for %s set to %d%%.\n", id, progress)
	return nil
}

func (a *App) printBooks(title string, books []models.Book) {
	fmt.Fprintf(a.out, "%s:\n", title)
	if len(books) == 0 {
		fmt.Fprintln(a.out, "  (no books)")
		return
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  ID\tTITLE\tAUTHORS\tYEAR")
	for _, b := range books {
		id := b.ID.String()
		if id == "" {
			id = b.OpenLibraryID
		}
		year := ""
		if b.FirstPublishYear != 0 {
			year = strconv.Itoa(b.FirstPublishYear)
		}
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", id, b.Title, b.Authors, year)
	}
	_ = tw.Flush()
}
