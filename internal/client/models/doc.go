// Package models defines the client-side data model of the bookflix client:
// the session credential, the user profile, catalog books, subscription
// records and the static tier feature table.
package models
