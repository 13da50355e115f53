package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"mindmap/diagram"
	"mindmap/export"
	"mindmap/markdown"
)

func isMarkdown(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return true
	default:
		return false
	}
}

// markdownBlock returns the 1-based mind map block of a Markdown document.
func markdownBlock(content string, index int) (markdown.Block, error) {
	blocks := markdown.NewScanner(content).Blocks()
	if len(blocks) == 0 {
		return markdown.Block{}, errors.New("no mermaid or plantuml mind map blocks found")
	}
	if index < 1 || index > len(blocks) {
		var sb strings.Builder
		fmt.Fprintf(&sb, "block %d out of range, found:", index)
		for i, b := range blocks {
			sb.WriteString("\n  " + b.Describe(i))
		}
		return markdown.Block{}, errors.New(sb.String())
	}
	return blocks[index-1], nil
}

// markdownTarget writes an edited map back into the block it was read from,
// in the block's own syntax.
type markdownTarget struct {
	path  string
	block markdown.Block
}

func newMarkdownTarget(path string, index int) (*markdownTarget, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	b, err := markdownBlock(string(data), index)
	if err != nil {
		return nil, err
	}
	return &markdownTarget{path: path, block: b}, nil
}

// write replaces the block with t. It refuses when the block was edited on
// disk since it was read.
func (m *markdownTarget) write(t *diagram.Tree) error {
	exp, err := export.NewExporter(export.Format(m.block.Format()), export.DefaultOptions())
	if err != nil {
		return err
	}
	text, err := exp.Export(t)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(m.path)
	if err != nil {
		return err
	}
	content, next, err := markdown.NewScanner(string(data)).Replace(m.block, text)
	if err != nil {
		return fmt.Errorf("write %s: %w", m.path, err)
	}
	if err := os.WriteFile(m.path, []byte(content), 0o644); err != nil {
		return err
	}
	m.block = next
	return nil
}
