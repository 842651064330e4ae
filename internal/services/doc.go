// Package services defines shared utilities consumed by the search pipeline
// and its external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp correlation identifiers and the image being
//     searched so log lines can be tied back to a single request.
//   - Structured error markers plus the Wrap helper that let callers classify
//     failures (validation, transport, upstream rejection) with errors.Is.
//
// Use these helpers when wiring new components so error classification and
// observability stay uniform across the client.
package services
