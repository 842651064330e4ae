// Package main hosts the animeid CLI entrypoint and command graph.
//
// The Cobra command tree resolves configuration once, builds the structured
// logger, and hands images to the search controller. Rendering (tables,
// colours, JSON) lives here; validation, upload, and ranking live in the
// internal packages.
package main
