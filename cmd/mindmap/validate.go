package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"mindmap/diagram"
	"mindmap/export"
	"mindmap/layout"
	"mindmap/validation"
)

func (a *app) validateCmd() *cobra.Command {
	var lines, colorize, nocolor, quiet bool

	cmd := &cobra.Command{
		Use:   "validate <file.json|->",
		Short: "Validate a mind map document",
		Long: `Validate a JSON mind map document against the document schema and
check its node relationships. With --lines the map is also rendered and every
connector cell is checked.

Examples:
  mindmap validate plan.json
  mindmap validate --lines - < plan.json
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if nocolor {
				color.NoColor = true
			} else if colorize {
				color.NoColor = false
			}
			data, err := readInput(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			return a.runValidate(cmd.OutOrStdout(), args[0], data, lines, quiet)
		},
	}

	cmd.Flags().BoolVar(&lines, "lines", false, "render the map and check connector lines")
	cmd.Flags().BoolVar(&colorize, "color", false, "force colored output")
	cmd.Flags().BoolVar(&nocolor, "no-color", false, "disable colored output")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "only print problems")

	return cmd
}

func (a *app) runValidate(out io.Writer, label string, data []byte, lines, quiet bool) error {
	report, err := validation.Validate(data)
	if err != nil {
		return err
	}

	red := color.New(color.FgRed)
	yellow := color.New(color.FgYellow)
	green := color.New(color.FgGreen)

	if !report.Valid() {
		red.Fprintf(out, "Map validation failed (%s)\n", label)
		for _, issue := range report.Errors() {
			red.Fprintf(out, "  - %s: %s\n", issue.Field, issue.Message)
		}
		printWarnings(out, yellow, report)
		return errValidationFailed
	}
	printWarnings(out, yellow, report)

	if lines {
		broken, err := a.checkLines(data)
		if err != nil {
			return err
		}
		if len(broken) > 0 {
			red.Fprintf(out, "Rendered connectors are broken (%s)\n", label)
			for _, e := range broken {
				red.Fprintf(out, "  - %s\n", e)
			}
			return errValidationFailed
		}
	}

	if !quiet {
		green.Fprintf(out, "Map is valid (%s)\n", label)
	}
	return nil
}

func printWarnings(out io.Writer, c *color.Color, report *validation.Report) {
	warnings := report.Warnings()
	if len(warnings) == 0 {
		return
	}
	c.Fprintf(out, "Warnings:\n")
	for _, issue := range warnings {
		c.Fprintf(out, "  - %s: %s\n", issue.Field, issue.Message)
	}
}

// checkLines renders the document as plain text and checks every connector.
func (a *app) checkLines(data []byte) ([]validation.LineError, error) {
	doc, err := diagram.DecodeDocument(data)
	if err != nil {
		return nil, err
	}
	if len(doc.Nodes) == 0 {
		return nil, nil
	}
	engine, err := layout.NewEngine(a.cfg.LayoutConfig())
	if err != nil {
		return nil, err
	}
	tree, err := diagram.FromDocument(doc, engine.Measure())
	if err != nil {
		return nil, err
	}
	opts := export.DefaultOptions()
	opts.NodeHeight = a.cfg.Layout.NodeHeight
	exp, err := export.NewExporter(export.FormatASCII, opts)
	if err != nil {
		return nil, err
	}
	rendered, err := exp.Export(tree)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return validation.NewLineValidator().Validate(rendered), nil
}
