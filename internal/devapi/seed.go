package devapi

import (
	"time"

	"github.com/dmitrijs2005/bookflix/internal/client/models"
)

const day = 24 * time.Hour

// tierDurations maps the duration codes of the tier list to lifetimes.
var tierDurations = map[string]time.Duration{
	"1D":  day,
	"7D":  7 * day,
	"30D": 30 * day,
	"LT":  100 * 365 * day,
}

// seedTiers builds the tier list from the client's feature table so both
// sides agree on limits and prices.
func seedTiers() []models.TierInfo {
	durations := map[models.Tier]string{
		models.TierFree:      "LT",
		models.TierQuickRead: "1D",
		models.TierExplorer:  "7D",
		models.TierBookworm:  "30D",
	}

	var out []models.TierInfo
	for i, t := range models.Tiers() {
		f, _ := t.Features()
		out = append(out, models.TierInfo{
			ID:              int64(i + 1),
			Name:            t.DisplayName(),
			Price:           models.Amount(f.Price),
			PriceUSD:        models.Amount(f.PriceUSD),
			Currency:        "PHP",
			Duration:        durations[t],
			PaymentRequired: f.Price > 0,
			BookLimit:       f.BookLimit,
			MaxDownloads:    f.MaxDownloads,
			Description:     f.Description,
		})
	}
	return out
}

func seedBooks() []models.Book {
	return []models.Book{
		{ID: "1", OpenLibraryID: "OL893415W", Title: "Dune", Authors: "Frank Herbert", FirstPublishYear: 1965,
			Subjects: []string{"Science Fiction"}, Language: "eng",
			Description: "A desert planet, a noble family and the spice that drives an empire."},
		{ID: "2", OpenLibraryID: "OL66554W", Title: "Pride and Prejudice", Authors: "Jane Austen", FirstPublishYear: 1813,
			Subjects: []string{"Classics", "Romance"}, Language: "eng"},
		{ID: "3", OpenLibraryID: "OL27448W", Title: "The Lord of the Rings", Authors: "J.R.R. Tolkien", FirstPublishYear: 1954,
			Subjects: []string{"Fantasy", "Classics"}, Language: "eng", Premium: true},
		{ID: "4", OpenLibraryID: "OL45804W", Title: "Noli Me Tangere", Authors: "José Rizal", FirstPublishYear: 1887,
			Subjects: []string{"Classics", "Philippine Literature"}, Language: "spa"},
		{ID: "5", OpenLibraryID: "OL17930368W", Title: "Project Hail Mary", Authors: "Andy Weir", FirstPublishYear: 2021,
			Subjects: []string{"Science Fiction"}, Language: "eng", Premium: true},
		{ID: "6", OpenLibraryID: "OL20600614W", Title: "The Midnight Library", Authors: "Matt Haig", FirstPublishYear: 2020,
			Subjects: []string{"Fantasy", "Fiction"}, Language: "eng"},
		{ID: "7", OpenLibraryID: "OL1168083W", Title: "Foundation", Authors: "Isaac Asimov", FirstPublishYear: 1951,
			Subjects: []string{"Science Fiction", "Classics"}, Language: "eng"},
	}
}
