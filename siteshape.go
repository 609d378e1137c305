// Package siteshape discovers the pages of a single-origin web site and
// groups them by page layout, so that downstream analysis only has to look
// at one representative page per template.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., rod/, goquery/, mcp/).
package siteshape
