// Package htmldoc provides the HTML sectioning primitives used to turn
// EPUB content documents into bounded, readable sections: sanitizing
// markup for embedded rendering, locating structural headings, splitting
// content on heading boundaries, subdividing over-length sections, and
// estimating reading time.
//
// All functions are pure: they parse permissively (malformed input never
// returns an error, only degraded output) and share no state.
package htmldoc
