// Package pipeline turns an annotated Markdown source into paginated,
// layout-tagged deck units.
//
// Stages run in this order:
//   - source cleanup (line endings, blank-line runs)
//   - metadata extraction and heading rank analysis
//   - pagination at markers and significant headings
//   - title discovery, chapter tagging and system page injection
//   - per-unit splitting, heading promotion, layout inference and
//     flow layout pagination, fanned out over a bounded worker group
//   - validation and the quality report
//
// RebasePaths keeps relative image and link paths valid when a deck is
// written away from its source. Rendering the units for the slide renderer
// is handled by the render package.
package pipeline
