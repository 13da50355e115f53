package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"mindmap/export"
)

func (a *app) exportCmd() *cobra.Command {
	var from, to, output, title string

	cmd := &cobra.Command{
		Use:   "export <file|->",
		Short: "Convert a mind map to another format",
		Long: fmt.Sprintf(`Convert a mind map to another format.

Formats: %s

Examples:
  mindmap export plan.json
  mindmap export -t mermaid -o plan.mmd plan.json
  mindmap export -t svg --from plantuml - < plan.puml > plan.svg
`, formatList()),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := export.ParseFormat(to)
			if err != nil {
				return err
			}
			ed, err := a.openMap(cmd.Context(), args[0], from, cmd.InOrStdin())
			if err != nil {
				return err
			}

			opts := export.DefaultOptions()
			opts.Title = title
			opts.NodeHeight = a.cfg.Layout.NodeHeight
			exp, err := export.NewExporter(format, opts)
			if err != nil {
				return err
			}
			out, err := exp.Export(ed.Snapshot())
			if err != nil {
				return err
			}
			if !strings.HasSuffix(out, "\n") {
				out += "\n"
			}
			return writeOutput(output, cmd.OutOrStdout(), out)
		},
	}

	cmd.Flags().StringVarP(&to, "to", "t", string(export.FormatASCII), "output format")
	cmd.Flags().StringVar(&from, "from", "", "input format (detected when empty)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVar(&title, "title", "", "document title (default: first root)")

	return cmd
}

func formatList() string {
	formats := export.GetAvailableFormats()
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}
