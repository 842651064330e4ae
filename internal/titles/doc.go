// Package titles derives human-readable anime titles from release filenames.
//
// Release filenames follow loose community conventions such as
// "[Group] Show Name - 01 (1080p).mkv". Extract drops the leading release
// group tag, keeps whole words made of letters optionally followed by digits,
// and skips annotations in parentheses that carry digits (resolutions, years).
// When nothing survives, callers show the raw filename via DisplayTitle.
package titles
