package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"mindmap/diagram"
	"mindmap/terminal"
)

func (a *app) viewCmd() *cobra.Command {
	var format, savePath, demo string

	cmd := &cobra.Command{
		Use:   "view [file]",
		Short: "Edit a mind map in the terminal",
		Long: `Open a map in the interactive terminal view.

Keys:
  n            new root
  Tab          add child         Enter      add sibling
  x, Delete    delete subtree    Space      collapse or expand
  arrows       select nearest    Shift+arrows  move
  e            edit text         Esc/Enter  finish editing
  u            undo              Ctrl-R     redo
  H J K L      pan               0          reset pan
  s            save              q          quit

Markdown files are edited in place: s rewrites the selected mind map block
(see --block) unless --save names another file. --demo replays a key script
(JSON or YAML, or "example" for the built-in one) into the view.
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) == 1 {
				path = args[0]
			}
			inPlace := isMarkdown(path) && savePath == ""
			if savePath == "" {
				savePath = defaultSavePath(path)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			ed, err := a.openMap(ctx, path, format, cmd.InOrStdin())
			if err != nil {
				return err
			}
			screen, err := tcell.NewScreen()
			if err != nil {
				return err
			}

			name := "untitled"
			if path != "" && path != "-" {
				name = filepath.Base(path)
			}
			save := func(_ context.Context, doc diagram.Document) error {
				return saveJSON(savePath, doc)
			}
			if inPlace {
				target, err := newMarkdownTarget(path, a.block)
				if err != nil {
					return err
				}
				save = func(context.Context, diagram.Document) error {
					return target.write(ed.Snapshot())
				}
			}

			opts := []terminal.Option{
				terminal.WithName(name),
				terminal.WithSave(save),
			}
			if demo != "" {
				script, err := loadDemo(demo)
				if err != nil {
					return err
				}
				opts = append(opts, terminal.WithScript(script, nil))
			}
			return terminal.New(ed, screen, opts...).Run(ctx)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "input format (detected when empty)")
	cmd.Flags().StringVar(&savePath, "save", "", "file written by the s key (default: the input as .json)")
	cmd.Flags().StringVar(&demo, "demo", "", "replay a demo key script")

	return cmd
}

// defaultSavePath keeps JSON inputs in place and writes other formats next
// to the input with a .json extension.
func defaultSavePath(path string) string {
	if path == "" || path == "-" {
		return "mindmap.json"
	}
	ext := filepath.Ext(path)
	if strings.EqualFold(ext, ".json") {
		return path
	}
	return strings.TrimSuffix(path, ext) + ".json"
}

func loadDemo(path string) (*terminal.Script, error) {
	if path == "example" {
		return terminal.ExampleScript(), nil
	}
	return terminal.LoadScript(path)
}

func saveJSON(path string, doc diagram.Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
