// Package tracemoe provides the minimal trace.moe API client used to look up
// the anime a screenshot was taken from.
//
// Search uploads a staged candidate as a single multipart field named
// "image", bounds the request by a timeout and body ceiling, and returns the
// matches ranked by similarity. Failures are classified with the markers in
// internal/services: transport failures (no response), upstream rejections
// (UpstreamError), and validation failures for candidates that exceed the
// ceiling. A malformed success body degrades to an empty outcome.
package tracemoe
