package layout

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/alnah/go-md2deck/internal/deck"
)

// Shape is the structural summary the classification rules look at.
type Shape struct {
	Heading    string // raw source of the first level-1 heading
	HasHeading bool
	Items      int // list items at any nesting depth
	HasQuote   bool
	HasImage   bool
	CleanLen   int // clean-text runes, headings excluded
}

// shaper parses unit bodies. A goldmark parser holds no per-parse state and
// is shared.
type shaper struct {
	md goldmark.Markdown
}

func newShaper() *shaper {
	return &shaper{md: goldmark.New()}
}

func (s *shaper) shape(body string) Shape {
	src := []byte(body)
	doc := s.md.Parser().Parse(text.NewReader(src))

	sh := Shape{CleanLen: deck.CleanLen(body)}
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading:
			if node.Level == 1 && !sh.HasHeading {
				sh.HasHeading = true
				sh.Heading = string(bytes.TrimSpace(blockSource(node, src)))
			}
		case *ast.ListItem:
			sh.Items++
		case *ast.Blockquote:
			sh.HasQuote = true
		case *ast.Image:
			sh.HasImage = true
		}
		return ast.WalkContinue, nil
	})

	// images goldmark rejects (bad destinations) still count
	if !sh.HasImage {
		sh.HasImage = deck.HasImage(body)
	}
	return sh
}

// blockSource returns the raw source lines of a block node.
func blockSource(n ast.Node, src []byte) []byte {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(src))
	}
	return buf.Bytes()
}
