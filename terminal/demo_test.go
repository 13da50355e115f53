package terminal

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKey(t *testing.T) {
	tests := []struct {
		name string
		key  tcell.Key
		r    rune
		mod  tcell.ModMask
	}{
		{"n", tcell.KeyRune, 'n', tcell.ModNone},
		{"Tab", tcell.KeyTab, 0, tcell.ModNone},
		{"esc", tcell.KeyEscape, 0, tcell.ModNone},
		{"Space", tcell.KeyRune, ' ', tcell.ModNone},
		{"Shift+Down", tcell.KeyDown, 0, tcell.ModShift},
		{"Ctrl+R", tcell.KeyCtrlR, 0, tcell.ModCtrl},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := ParseKey(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.key, ev.Key())
			assert.Equal(t, tt.mod, ev.Modifiers())
			if tt.key == tcell.KeyRune {
				assert.Equal(t, tt.r, ev.Rune())
			}
		})
	}

	for _, bad := range []string{"", "F13", "Ctrl+1", "Shift+Meta"} {
		_, err := ParseKey(bad)
		assert.Error(t, err, bad)
	}
}

func TestPlayer_ExampleScriptBuildsMap(t *testing.T) {
	a, ed, _ := newTestApp(t)
	ctx := context.Background()

	var posted int
	err := NewPlayer(WithoutDelays()).Play(ctx, ExampleScript(), func(ev tcell.Event) error {
		posted++
		require.False(t, a.HandleEvent(ctx, ev))
		return nil
	})
	require.NoError(t, err)
	assert.Greater(t, posted, len(ExampleScript().Commands))
	assert.Equal(t, ModeNormal, a.Mode())

	nodes := ed.Nodes()
	require.Len(t, nodes, 5)
	byContent := make(map[string]int)
	for _, n := range nodes {
		byContent[n.Content] = n.ID
		assert.False(t, n.IsCollapsed, n.Content)
	}
	for _, c := range []string{"Launch", "Plan", "Build", "Ship", "Tests"} {
		assert.Contains(t, byContent, c)
	}
	tests, err := ed.Node(byContent["Tests"])
	require.NoError(t, err)
	require.NotNil(t, tests.ParentID)
	assert.Equal(t, byContent["Build"], *tests.ParentID)
}

func TestPlayer_StopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	script := &Script{Commands: []ScriptCommand{
		{Type: "key", Value: "n"},
		{Type: "key", Value: "q"},
	}}

	var keys []rune
	err := NewPlayer(WithSeed(1)).Play(ctx, script, func(ev tcell.Event) error {
		keys = append(keys, ev.(*tcell.EventKey).Rune())
		cancel()
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []rune{'n'}, keys)
}

func TestPlayer_Delay(t *testing.T) {
	p := NewPlayer(WithSeed(7))
	script := &Script{BaseDelay: 300, BaseVariance: 100}

	for range 20 {
		d := p.delay(script, ScriptCommand{})
		assert.GreaterOrEqual(t, d, 200*time.Millisecond)
		assert.Less(t, d, 400*time.Millisecond)
	}
	assert.Equal(t, 50*time.Millisecond, p.delay(script, ScriptCommand{Delay: 10, Variance: -1}))
}

func TestLoadScript(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "demo.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(`name: Tiny
commands:
  - type: key
    value: n
  - type: text
    value: Root
  - type: key
    value: Enter
`), 0o644))
	script, err := LoadScript(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, "Tiny", script.Name)
	assert.Len(t, script.Commands, 3)
	assert.Equal(t, 300, script.BaseDelay)
	assert.Equal(t, 100, script.BaseVariance)

	jsonPath := filepath.Join(dir, "demo.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"commands":[{"type":"key","value":"Hyper+X"}]}`), 0o644))
	_, err = LoadScript(jsonPath)
	assert.ErrorContains(t, err, "command 1")

	_, err = LoadScript(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}
