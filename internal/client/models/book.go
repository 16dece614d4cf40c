package models

// Book is a pass-through catalog record. It is fetched on demand and never
// cached by the client.
type Book struct {
	ID               ID       `json:"id"`
	OpenLibraryID    string   `json:"open_library_id,omitempty"`
	GoogleBooksID    string   `json:"google_books_id,omitempty"`
	Title            string   `json:"title"`
	Authors          string   `json:"authors"`
	Description      string   `json:"description,omitempty"`
	ThumbnailURL     string   `json:"thumbnail_url,omitempty"`
	PreviewLink      string   `json:"preview_link,omitempty"`
	Subjects         []string `json:"subjects,omitempty"`
	FirstPublishYear int      `json:"first_publish_year,omitempty"`
	Language         string   `json:"language,omitempty"`
	Premium          bool     `json:"premium,omitempty"`
}
