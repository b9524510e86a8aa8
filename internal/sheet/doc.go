// Package sheet holds the entity graph of a token sheet: tokens keyed by
// their byte values, each owning version records with per-language
// translations, plus the XML load boundary that produces the graph.
//
// Nothing here is validated beyond document shape. Version records arrive in
// document order, possibly unsorted; interval validation is the timeline
// builder's job, and name uniqueness is checked when the name index is built.
// All entities are immutable once Decode returns.
package sheet
