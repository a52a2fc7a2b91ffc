package pipeline

import (
	"net/url"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/alnah/go-md2deck/internal/deck"
)

// markdownTarget matches the destination of an inline image or link:
// ![alt](dest) or [text](dest "title"). Group 2 is the destination.
var markdownTarget = regexp.MustCompile(`(!?\[[^\]]*\]\()\s*(<[^>]+>|[^)\s]+)`)

// RebasePaths rewrites relative image and link paths of a deck written
// from sourceDir so they keep resolving when the deck lives in targetDir.
// Returns markdown unchanged when either directory is empty or both are the
// same.
//
// Rewrites:
//   - Markdown images and links, including Marp background images
//   - img[src] in inline HTML
//
// Leaves alone:
//   - fenced code
//   - URLs, anchors and absolute paths
func RebasePaths(markdown, sourceDir, targetDir string) string {
	if sourceDir == "" || targetDir == "" {
		return markdown
	}

	absSource, err := filepath.Abs(sourceDir)
	if err != nil {
		return markdown
	}
	absTarget, err := filepath.Abs(targetDir)
	if err != nil || absSource == absTarget {
		return markdown
	}

	lines := deck.SplitLines(markdown)
	deck.WalkLines(lines, func(i int, line string, inFence bool) {
		if inFence {
			return
		}
		line = markdownTarget.ReplaceAllStringFunc(line, func(m string) string {
			sub := markdownTarget.FindStringSubmatch(m)
			dest := sub[2]
			bracketed := strings.HasPrefix(dest, "<")
			if bracketed {
				dest = strings.Trim(dest, "<>")
			}
			rebased, ok := rebase(dest, absSource, absTarget)
			if !ok {
				return m
			}
			if bracketed {
				rebased = "<" + rebased + ">"
			}
			return sub[1] + rebased
		})
		if strings.Contains(line, "<img") {
			line = rebaseImgTags(line, absSource, absTarget)
		}
		lines[i] = line
	})
	return strings.Join(lines, "\n")
}

// rebaseImgTags rewrites the src of every img tag on line.
func rebaseImgTags(line, absSource, absTarget string) string {
	z := html.NewTokenizer(strings.NewReader(line))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			return line
		}
		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			continue
		}
		tok := z.Token()
		if tok.DataAtom != atom.Img {
			continue
		}
		for _, attr := range tok.Attr {
			if attr.Key != "src" {
				continue
			}
			rebased, ok := rebase(attr.Val, absSource, absTarget)
			if !ok {
				continue
			}
			for _, q := range []string{`"`, `'`} {
				line = strings.Replace(line, "src="+q+attr.Val+q, "src="+q+rebased+q, 1)
			}
		}
	}
}

// rebase returns path, relative to absSource, as seen from absTarget.
// Paths on another volume become file:// URLs.
func rebase(path, absSource, absTarget string) (string, bool) {
	if !isRelativePath(path) {
		return "", false
	}

	absPath := filepath.Join(absSource, filepath.FromSlash(path))
	rel, err := filepath.Rel(absTarget, absPath)
	if err != nil {
		return pathToFileURL(absPath), true
	}
	return filepath.ToSlash(rel), true
}

// isRelativePath returns true if the path should be rewritten.
func isRelativePath(path string) bool {
	if path == "" {
		return false
	}

	// Skip URLs (http, https, file, data, protocol-relative)
	if strings.HasPrefix(path, "http://") ||
		strings.HasPrefix(path, "https://") ||
		strings.HasPrefix(path, "file://") ||
		strings.HasPrefix(path, "data:") ||
		strings.HasPrefix(path, "mailto:") ||
		strings.HasPrefix(path, "//") {
		return false
	}

	// Skip anchors
	if strings.HasPrefix(path, "#") {
		return false
	}

	return !filepath.IsAbs(path) && !strings.HasPrefix(path, "/")
}

// pathToFileURL converts an absolute path to a file:// URL.
// Handles both Unix and Windows paths correctly.
func pathToFileURL(absPath string) string {
	u := url.URL{
		Scheme: "file",
		Path:   filepath.ToSlash(absPath),
	}
	return u.String()
}
