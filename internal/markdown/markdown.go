// Package markdown applies a text rewrite to the TypeScript code fences of a
// markdown document, leaving everything outside them untouched.
package markdown

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// fenceLanguages are the info strings whose fences get rewritten.
var fenceLanguages = map[string]struct{}{
	"ts":         {},
	"typescript": {},
	"tsx":        {},
}

// IsMarkdown reports whether path names a markdown document.
func IsMarkdown(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return true
	}
	return false
}

// CodeBlock is the byte range of a fenced code block's content.
type CodeBlock struct {
	// Lang is the language identifier of the code block (e.g., "ts").
	Lang  string
	Start int
	Stop  int
	// Nested is set for fences inside a blockquote or list item. Their
	// source lines carry container prefixes that are not part of the block.
	Nested bool
}

// ExtractCodeBlocks uses a markdown AST to find all fenced code blocks with
// content, in document order.
func ExtractCodeBlocks(source []byte) ([]CodeBlock, error) {
	var blocks []CodeBlock
	parser := goldmark.DefaultParser()
	root := parser.Parse(text.NewReader(source))

	walker := func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		fencedCodeBlock, ok := node.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}

		lines := fencedCodeBlock.Lines()
		if lines.Len() == 0 {
			return ast.WalkSkipChildren, nil
		}

		parent := fencedCodeBlock.Parent()
		blocks = append(blocks, CodeBlock{
			Lang:   strings.ToLower(string(fencedCodeBlock.Language(source))),
			Start:  lines.At(0).Start,
			Stop:   lines.At(lines.Len() - 1).Stop,
			Nested: parent != nil && parent.Kind() != ast.KindDocument,
		})
		return ast.WalkSkipChildren, nil
	}

	if err := ast.Walk(root, walker); err != nil {
		return nil, err
	}

	sort.Slice(blocks, func(i, j int) bool { return blocks[i].Start < blocks[j].Start })
	return blocks, nil
}

// Rewrite runs fn over the content of every TypeScript fence in source and
// returns the new document plus the sum of the counts fn reported. Fences
// nested in blockquotes or list items are left alone.
func Rewrite(source []byte, fn func(string) (string, int)) ([]byte, int, error) {
	blocks, err := ExtractCodeBlocks(source)
	if err != nil {
		return nil, 0, err
	}

	var out strings.Builder
	out.Grow(len(source))
	total := 0
	last := 0
	for _, block := range blocks {
		if _, ok := fenceLanguages[block.Lang]; !ok || block.Nested {
			continue
		}
		rewritten, n := fn(string(source[block.Start:block.Stop]))
		if n == 0 {
			continue
		}
		out.Write(source[last:block.Start])
		out.WriteString(rewritten)
		last = block.Stop
		total += n
	}
	if total == 0 {
		return source, 0, nil
	}
	out.Write(source[last:])
	return []byte(out.String()), total, nil
}
