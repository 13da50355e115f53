package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const readme = "# Launch\n" +
	"\n" +
	"```mermaid\n" +
	"graph TD\n" +
	"  A --> B\n" +
	"```\n" +
	"\n" +
	"- item\n" +
	"  ```mermaid\n" +
	"  mindmap\n" +
	"    root((Launch))\n" +
	"      Plan\n" +
	"  ```\n" +
	"\n" +
	"```plantuml\n" +
	"@startmindmap\n" +
	"* Ops\n" +
	"@endmindmap\n" +
	"```\n" +
	"\n" +
	"```go\n" +
	"fmt.Println()\n" +
	"```\n"

func TestScanner_Blocks(t *testing.T) {
	blocks := NewScanner(readme).Blocks()
	require.Len(t, blocks, 2)

	assert.Equal(t, "mermaid", blocks[0].Lang)
	assert.Equal(t, "mermaid", blocks[0].Format())
	assert.Equal(t, 8, blocks[0].StartLine)
	assert.Equal(t, 12, blocks[0].EndLine)
	assert.Equal(t, "  ", blocks[0].Indent)
	assert.Equal(t, "mindmap\n  root((Launch))\n    Plan", blocks[0].Content)

	assert.Equal(t, "plantuml", blocks[1].Format())
	assert.Equal(t, "@startmindmap\n* Ops\n@endmindmap", blocks[1].Content)
	assert.Empty(t, blocks[1].Indent)
}

func TestBlock_Describe(t *testing.T) {
	blocks := NewScanner(readme).Blocks()
	require.Len(t, blocks, 2)
	assert.Equal(t, "1. mermaid (line 9): root((Launch))", blocks[0].Describe(0))
	assert.Equal(t, "2. plantuml (line 15): Ops", blocks[1].Describe(1))

	long := Block{Lang: "puml", Content: "@startmindmap\n* " + strings.Repeat("x", 60)}
	assert.True(t, strings.HasSuffix(long.Describe(0), "..."))
	assert.Equal(t, "plantuml", long.Format())
}

func TestScanner_Replace(t *testing.T) {
	s := NewScanner(readme)
	blocks := s.Blocks()
	require.Len(t, blocks, 2)

	out, next, err := s.Replace(blocks[0], "mindmap\n  root((Launch))\n    Plan\n    Ship\n")
	require.NoError(t, err)
	assert.Contains(t, out, "- item\n  ```mermaid\n  mindmap\n    root((Launch))\n      Plan\n      Ship\n  ```\n")
	assert.Equal(t, 13, next.EndLine)
	assert.Equal(t, out, s.Content())

	// The second block moved down a line; rescan to find it.
	again := NewScanner(out).Blocks()
	require.Len(t, again, 2)
	assert.Equal(t, next, again[0])
	assert.Equal(t, blocks[1].StartLine+1, again[1].StartLine)

	// A second replace through the returned block succeeds.
	_, _, err = s.Replace(next, "mindmap\n  root((Launch))")
	assert.NoError(t, err)
}

func TestScanner_ReplaceDetectsChanges(t *testing.T) {
	blocks := NewScanner(readme).Blocks()
	require.Len(t, blocks, 2)

	edited := strings.Replace(readme, "      Plan", "      Build", 1)
	_, _, err := NewScanner(edited).Replace(blocks[0], "mindmap\n  root")
	assert.ErrorIs(t, err, ErrBlockModified)

	shifted := "intro\n" + readme
	_, _, err = NewScanner(shifted).Replace(blocks[0], "mindmap\n  root")
	assert.ErrorIs(t, err, ErrBlockMoved)

	truncated := "# Launch\n"
	_, _, err = NewScanner(truncated).Replace(blocks[1], "mindmap")
	assert.ErrorIs(t, err, ErrBlockMoved)
}
