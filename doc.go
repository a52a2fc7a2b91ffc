// Package md2deck turns annotated Markdown into paginated, layout-tagged
// Markdown for the Marp slide renderer, and drives marp-cli to build the deck.
//
// # Quick Start
//
//	p := md2deck.NewPreprocessor()
//
//	result, err := p.Process(ctx, md2deck.Input{
//	    Markdown: "# Launch\n\n## Why\n\nBecause.",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile(".process_launch.md", []byte(result.Markdown), 0644)
//
// # Layout Markers
//
// A line holding only @[name] or @[name:param] picks the layout of the slide
// it starts: front, toc, back, chapter, quote, split, focus, metric, cards
// and cols2 to cols6. Slides without a marker get one inferred from their
// shape, and front, contents and back pages are added when missing.
//
// # Pipeline
//
//  1. Metadata extraction (leading --- block, defaults, Marp directives)
//  2. Heading rank discovery and pagination into slide units
//  3. Title discovery, chapter tagging and system page injection
//  4. Per-slide splitting, heading promotion, layout inference and list pagination
//  5. Validation against per-layout content budgets
//  6. Rendering as Marp Markdown
//
// Fatal diagnostics make Process return an error wrapping ErrValidation
// together with the result, so callers can report every problem at once.
// WithForce downgrades contract and budget violations to warnings.
//
// # Building Decks
//
// Compiler runs marp-cli on a rendered deck:
//
//	c := md2deck.NewCompiler()
//	out, err := c.Compile(ctx, md2deck.CompileRequest{
//	    Source: ".process_launch.md",
//	    Format: md2deck.FormatPPTX,
//	})
//
// The theme stylesheet is looked up beside the source as <theme>.css, then
// theme-<theme>.css. PPTX and PDF output need Chrome; set CHROME_PATH to use
// a custom binary.
package md2deck
