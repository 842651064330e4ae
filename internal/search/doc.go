// Package search coordinates a single image search: it validates and stages a
// candidate, runs it through the trace.moe client, and holds the resulting
// state for rendering.
//
// The Controller is a small mutex-guarded state machine (Idle, Loading,
// Succeeded, Failed). Present converts an outcome into display records using
// the titles and timecode packages, and Linker builds the external search
// link for a title.
package search
