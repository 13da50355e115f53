// Package markdown finds mind map code blocks in Markdown documents and
// writes edited maps back into them.
package markdown

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrBlockModified is returned when a block changed since it was scanned.
	ErrBlockModified = errors.New("block content has been modified externally")
	// ErrBlockMoved is returned when the fences of a block are gone.
	ErrBlockMoved = errors.New("block boundaries have changed")
)

// Block is a mind map code block found in Markdown.
type Block struct {
	Lang        string // mermaid or plantuml
	Content     string // Block body with the fence indentation removed
	StartLine   int    // Line of the opening fence (0-based)
	EndLine     int    // Line of the closing fence
	Indent      string // Indentation before the fences
	ContentHash string // SHA256 of Content when scanned
}

// Format returns the importer and exporter name for the block language.
func (b Block) Format() string {
	if b.Lang == "puml" {
		return "plantuml"
	}
	return b.Lang
}

// Describe returns a one-line summary for block pickers.
func (b Block) Describe(index int) string {
	preview := ""
	for _, line := range strings.Split(b.Content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || trimmed == "mindmap" || strings.HasPrefix(trimmed, "@") {
			continue
		}
		preview = strings.TrimLeft(trimmed, "*+-_ ")
		if len(preview) > 50 {
			preview = preview[:47] + "..."
		}
		break
	}
	return fmt.Sprintf("%d. %s (line %d): %s", index+1, b.Lang, b.StartLine+1, preview)
}

// Scanner finds and replaces mind map blocks.
type Scanner struct {
	lines []string
}

// NewScanner creates a scanner over content.
func NewScanner(content string) *Scanner {
	return &Scanner{lines: strings.Split(content, "\n")}
}

// Content returns the current document.
func (s *Scanner) Content() string {
	return strings.Join(s.lines, "\n")
}

// Blocks returns the mermaid and PlantUML blocks that hold mind maps. Other
// diagram blocks are skipped.
func (s *Scanner) Blocks() []Block {
	var blocks []Block
	var cur *Block
	var body []string

	for i, line := range s.lines {
		trimmed := strings.TrimLeft(line, " \t")
		if cur == nil {
			if lang, ok := fenceLanguage(trimmed); ok {
				cur = &Block{Lang: lang, StartLine: i, Indent: line[:len(line)-len(trimmed)]}
				body = body[:0]
			}
			continue
		}
		if !strings.HasPrefix(trimmed, "```") {
			body = append(body, strings.TrimPrefix(line, cur.Indent))
			continue
		}
		cur.EndLine = i
		cur.Content = strings.Join(body, "\n")
		cur.ContentHash = hash(cur.Content)
		if isMindMap(cur.Lang, cur.Content) {
			blocks = append(blocks, *cur)
		}
		cur = nil
	}
	return blocks
}

// Unchanged checks that block still holds the content it was scanned with.
func (s *Scanner) Unchanged(b Block) error {
	if err := s.checkFences(b); err != nil {
		return err
	}
	if hash(s.body(b)) != b.ContentHash {
		return ErrBlockModified
	}
	return nil
}

// Replace swaps the body of b for content, keeping the fences and their
// indentation, and returns the new document. The scanner then holds the new
// document, so the returned block must be used for further replacements.
func (s *Scanner) Replace(b Block, content string) (string, Block, error) {
	if err := s.Unchanged(b); err != nil {
		return "", b, err
	}

	body := strings.Split(strings.TrimRight(content, "\n"), "\n")
	out := make([]string, 0, len(s.lines)-(b.EndLine-b.StartLine-1)+len(body))
	out = append(out, s.lines[:b.StartLine+1]...)
	for _, line := range body {
		if line == "" {
			out = append(out, "")
			continue
		}
		out = append(out, b.Indent+line)
	}
	out = append(out, s.lines[b.EndLine:]...)
	s.lines = out

	next := b
	next.Content = strings.Join(body, "\n")
	next.EndLine = b.StartLine + len(body) + 1
	next.ContentHash = hash(next.Content)
	return s.Content(), next, nil
}

func (s *Scanner) checkFences(b Block) error {
	if b.StartLine < 0 || b.EndLine >= len(s.lines) || b.StartLine >= b.EndLine {
		return fmt.Errorf("%w: start=%d, end=%d, total lines=%d",
			ErrBlockMoved, b.StartLine, b.EndLine, len(s.lines))
	}
	start := strings.TrimLeft(s.lines[b.StartLine], " \t")
	if lang, ok := fenceLanguage(start); !ok || lang != b.Lang {
		return fmt.Errorf("%w: expected ```%s at line %d", ErrBlockMoved, b.Lang, b.StartLine+1)
	}
	if !strings.HasPrefix(strings.TrimLeft(s.lines[b.EndLine], " \t"), "```") {
		return fmt.Errorf("%w: expected closing fence at line %d", ErrBlockMoved, b.EndLine+1)
	}
	return nil
}

func (s *Scanner) body(b Block) string {
	lines := make([]string, 0, b.EndLine-b.StartLine-1)
	for _, line := range s.lines[b.StartLine+1 : b.EndLine] {
		lines = append(lines, strings.TrimPrefix(line, b.Indent))
	}
	return strings.Join(lines, "\n")
}

func fenceLanguage(trimmed string) (string, bool) {
	if !strings.HasPrefix(trimmed, "```") {
		return "", false
	}
	lang := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(trimmed, "```")))
	switch lang {
	case "mermaid", "plantuml", "puml":
		return lang, true
	default:
		return "", false
	}
}

func isMindMap(lang, content string) bool {
	if lang == "mermaid" {
		return strings.HasPrefix(strings.TrimSpace(content), "mindmap")
	}
	return strings.Contains(content, "@startmindmap")
}

func hash(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}
