package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func (a *app) importCmd() *cobra.Command {
	var from, output, name, title string

	cmd := &cobra.Command{
		Use:   "import <file|->",
		Short: "Lay out a Mermaid, PlantUML or YAML map as a JSON document",
		Long: `Read a map in any supported format, lay it out and write the JSON
document. With --name the document is saved to the configured store instead.

Examples:
  mindmap import plan.mmd > plan.json
  mindmap import --from plantuml -o plan.json - < plan.puml
  mindmap import --name plan plan.mmd
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ed, err := a.openMap(ctx, args[0], from, cmd.InOrStdin())
			if err != nil {
				return err
			}
			doc := ed.Export(title)

			if name != "" {
				st, err := a.openStore()
				if err != nil {
					return err
				}
				defer st.Close()
				if err := st.Save(ctx, name, doc); err != nil {
					return err
				}
				a.logger.Info("Map saved", zap.String("name", name), zap.Int("nodes", len(doc.Nodes)))
				fmt.Fprintf(cmd.OutOrStdout(), "Saved %q (%d nodes)\n", name, len(doc.Nodes))
				return nil
			}

			data, err := json.MarshalIndent(doc, "", "  ")
			if err != nil {
				return err
			}
			return writeOutput(output, cmd.OutOrStdout(), string(data)+"\n")
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "input format (detected when empty)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVar(&name, "name", "", "save to the store under this name")
	cmd.Flags().StringVar(&title, "title", "", "document title (default: first root)")

	return cmd
}
