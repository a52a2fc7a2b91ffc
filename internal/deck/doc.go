// Package deck holds the slide model shared by every preprocessing stage.
//
// A deck is an ordered list of units. Each unit is one eventual output page:
// a run of Markdown lines plus at most one layout tag. Authors write tags as
// marker lines:
//
//	@[quote]
//	@[toc:4]
//
// The marker is lifted out of the unit's lines when the unit is parsed and
// stored in Unit.Tag, so later stages rewrite the tag without touching text.
//
// The package also provides the line-level primitives the stages share:
// fence-aware line walking, heading and list-item matching, and the
// "clean text" measure used for every density and budget decision.
package deck
