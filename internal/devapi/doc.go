// Package devapi is an in-memory HTTP implementation of the bookflix API
// for local development and end-to-end tests of the client.
//
// It serves the users, token, books and subscriptions endpoints under
// BasePath. Passwords are stored as argon2id hashes, sessions are HS256
// access/refresh JWT pairs and the tier list is seeded from the client's
// feature table. Nothing is persisted.
package devapi
