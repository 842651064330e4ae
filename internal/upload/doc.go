// Package upload stages images for a search.
//
// A Candidate is the image bytes plus declared MIME type and size. Validator
// enforces the configured size ceiling and the image/* constraint before any
// network call is made. Stage keeps at most one candidate together with its
// preview handle and releases the superseded preview whenever a new
// candidate replaces it.
package upload
