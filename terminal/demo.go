package terminal

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"gopkg.in/yaml.v3"
)

// ScriptCommand is a single step of a demo script.
type ScriptCommand struct {
	Type     string `json:"type" yaml:"type"`         // "key", "text", "pause"
	Value    string `json:"value" yaml:"value"`       // key name or text to type
	Delay    int    `json:"delay" yaml:"delay"`       // delay after the step in milliseconds
	Variance int    `json:"variance" yaml:"variance"` // random variance in ms (±variance)
}

// Script is a recorded session replayed into the view.
type Script struct {
	Name         string          `json:"name" yaml:"name"`
	Description  string          `json:"description" yaml:"description"`
	Commands     []ScriptCommand `json:"commands" yaml:"commands"`
	BaseDelay    int             `json:"base_delay" yaml:"base_delay"`
	BaseVariance int             `json:"base_variance" yaml:"base_variance"`
}

// LoadScript reads a JSON or YAML script.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read demo script: %w", err)
	}

	var script Script
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &script)
	default:
		err = json.Unmarshal(data, &script)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse demo script: %w", err)
	}

	if script.BaseDelay == 0 {
		script.BaseDelay = 300
	}
	if script.BaseVariance == 0 {
		script.BaseVariance = 100
	}
	for i, cmd := range script.Commands {
		if cmd.Type != "key" {
			continue
		}
		if _, err := ParseKey(cmd.Value); err != nil {
			return nil, fmt.Errorf("command %d: %w", i+1, err)
		}
	}
	return &script, nil
}

// ExampleScript builds a small map from scratch.
func ExampleScript() *Script {
	return &Script{
		Name:         "Product launch",
		Description:  "Creates a root with three branches and tidies one up",
		BaseDelay:    400,
		BaseVariance: 150,
		Commands: []ScriptCommand{
			{Type: "key", Value: "n", Delay: 800},
			{Type: "text", Value: "Launch"},
			{Type: "key", Value: "Enter"},

			{Type: "key", Value: "Tab", Delay: 600},
			{Type: "text", Value: "Plan"},
			{Type: "key", Value: "Esc"},
			{Type: "key", Value: "Enter"},
			{Type: "text", Value: "Build"},
			{Type: "key", Value: "Esc"},
			{Type: "key", Value: "Enter"},
			{Type: "text", Value: "Ship"},
			{Type: "key", Value: "Esc"},

			{Type: "key", Value: "Up", Delay: 600},
			{Type: "key", Value: "Tab"},
			{Type: "text", Value: "Tests"},
			{Type: "key", Value: "Esc"},
			{Type: "key", Value: "Left"},
			{Type: "key", Value: "Space", Delay: 800},
			{Type: "key", Value: "Space"},

			{Type: "pause", Delay: 2000},
		},
	}
}

var namedKeys = map[string]tcell.Key{
	"enter":     tcell.KeyEnter,
	"tab":       tcell.KeyTab,
	"esc":       tcell.KeyEscape,
	"escape":    tcell.KeyEscape,
	"backspace": tcell.KeyBackspace2,
	"delete":    tcell.KeyDelete,
	"up":        tcell.KeyUp,
	"down":      tcell.KeyDown,
	"left":      tcell.KeyLeft,
	"right":     tcell.KeyRight,
}

// ParseKey turns a key name from a script into a key event. Names are case
// insensitive and may carry a Shift+ or Ctrl+ prefix; a single character is
// sent as that rune.
func ParseKey(name string) (*tcell.EventKey, error) {
	if name == "" {
		return nil, fmt.Errorf("empty key name")
	}
	if r := []rune(name); len(r) == 1 {
		return tcell.NewEventKey(tcell.KeyRune, r[0], tcell.ModNone), nil
	}

	lower := strings.ToLower(name)
	if lower == "space" {
		return tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone), nil
	}
	if rest, ok := strings.CutPrefix(lower, "ctrl+"); ok && len(rest) == 1 && rest[0] >= 'a' && rest[0] <= 'z' {
		return tcell.NewEventKey(tcell.KeyCtrlA+tcell.Key(rest[0]-'a'), 0, tcell.ModCtrl), nil
	}
	mod := tcell.ModNone
	if rest, ok := strings.CutPrefix(lower, "shift+"); ok {
		mod, lower = tcell.ModShift, rest
	}
	k, ok := namedKeys[lower]
	if !ok {
		return nil, fmt.Errorf("unknown key %q", name)
	}
	return tcell.NewEventKey(k, 0, mod), nil
}

// Player replays scripts as key events.
type Player struct {
	rng   *rand.Rand
	sleep func(context.Context, time.Duration) error
}

// PlayerOption configures a Player.
type PlayerOption func(*Player)

// WithSeed makes delays reproducible.
func WithSeed(seed uint64) PlayerOption {
	return func(p *Player) {
		p.rng = rand.New(rand.NewPCG(seed, seed))
	}
}

// WithoutDelays replays as fast as events can be posted.
func WithoutDelays() PlayerOption {
	return func(p *Player) {
		p.sleep = func(ctx context.Context, _ time.Duration) error { return ctx.Err() }
	}
}

// NewPlayer creates a player.
func NewPlayer(opts ...PlayerOption) *Player {
	p := &Player{
		rng:   rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)),
		sleep: sleepContext,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Play sends the script's events to post in order until the script ends or
// ctx is done.
func (p *Player) Play(ctx context.Context, script *Script, post func(tcell.Event) error) error {
	for i, cmd := range script.Commands {
		switch cmd.Type {
		case "key":
			ev, err := ParseKey(cmd.Value)
			if err != nil {
				return fmt.Errorf("command %d: %w", i+1, err)
			}
			if err := post(ev); err != nil {
				return err
			}
		case "text":
			for _, r := range cmd.Value {
				if err := post(tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)); err != nil {
					return err
				}
				// Typing pace between characters
				if err := p.sleep(ctx, time.Duration(30+p.rng.IntN(40))*time.Millisecond); err != nil {
					return err
				}
			}
		case "pause":
		default:
			// Unknown command type, skip
		}

		if err := p.sleep(ctx, p.delay(script, cmd)); err != nil {
			return err
		}
	}
	return nil
}

func (p *Player) delay(script *Script, cmd ScriptCommand) time.Duration {
	delay := cmd.Delay
	if delay == 0 {
		delay = script.BaseDelay
	}
	variance := cmd.Variance
	if variance == 0 {
		variance = script.BaseVariance
	}
	if variance > 0 {
		delay += p.rng.IntN(variance*2) - variance
	}
	return time.Duration(max(delay, 50)) * time.Millisecond
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
