// Package render produces the files Cursor expects for rules and commands.
//
// Cursor reads a different frontmatter than the source repository carries,
// so these artifacts are written as generated copies instead of symlinks.
// Rendering is a pure function of the artifact path and source bytes; the
// reconciler compares its output against what is on disk to decide whether
// anything needs writing.
package render

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/aisetup/pkg/types"
)

const delimiter = "---"

// Func renders the target content of one artifact from its source bytes
type Func func(a types.Artifact, source []byte) []byte

// For returns the renderer of a category, if it has one
func For(c types.Category) (Func, bool) {
	switch c {
	case types.CategoryRule:
		return func(a types.Artifact, source []byte) []byte { return Rule(a.RelPath, source) }, true
	case types.CategoryCommand:
		return func(_ types.Artifact, source []byte) []byte { return Command(source) }, true
	default:
		return nil, false
	}
}

// Rule replaces any frontmatter with the two keys Cursor uses to decide when
// to attach a rule. Rules are never always-applied; the description lets
// the agent pick them.
func Rule(relPath string, source []byte) []byte {
	_, body := SplitFrontmatter(source)

	var b bytes.Buffer
	fmt.Fprintf(&b, "---\ndescription: %q\nalwaysApply: false\n---\n\n", Description(relPath))
	b.Write(body)
	return b.Bytes()
}

// Command strips frontmatter, since Cursor commands are plain markdown, and
// keeps the description and argument hint as visible lines at the top
func Command(source []byte) []byte {
	fm, body := SplitFrontmatter(source)

	var b bytes.Buffer
	if d := fm["description"]; d != "" {
		fmt.Fprintf(&b, "**Description:** %s\n", d)
	}
	if h := fm["argument-hint"]; h != "" {
		fmt.Fprintf(&b, "**Arguments:** %s\n", h)
	}
	if b.Len() > 0 {
		b.WriteString(delimiter + "\n")
	}
	b.Write(body)
	return b.Bytes()
}

// Description turns a rule path into a title-cased one-liner:
// "swe/coding-style.md" becomes "Swe Coding Style"
func Description(relPath string) string {
	stem := strings.TrimSuffix(filepath.ToSlash(relPath), ".md")
	stem = strings.NewReplacer("/", " ", "-", " ", "_", " ").Replace(stem)

	words := strings.Fields(stem)
	for i, w := range words {
		words[i] = capitalize(w)
	}
	if len(words) == 0 {
		return stem
	}
	return strings.Join(words, " ")
}

func capitalize(w string) string {
	lower := []rune(strings.ToLower(w))
	lower[0] = []rune(strings.ToUpper(string(lower[0])))[0]
	return string(lower)
}
