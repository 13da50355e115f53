package main

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"mindmap/diagram"
	"mindmap/navigation"
)

// mapStats summarizes a laid out map.
type mapStats struct {
	Nodes     int
	Roots     int
	Leaves    int
	MaxDepth  int
	Collapsed int
	Hidden    int
	Bounds    diagram.Bounds
	PerRoot   []rootStats
}

type rootStats struct {
	Content string
	Nodes   int
	Depth   int
}

func computeStats(t *diagram.Tree, nodeHeight float64) mapStats {
	s := mapStats{
		Nodes:    t.Len(),
		Roots:    len(t.Roots()),
		MaxDepth: t.MaxLevel(),
		Hidden:   t.Len() - len(navigation.VisibleNodes(t)),
	}
	for i, n := range t.NodeList() {
		if len(t.Children(n.ID)) == 0 {
			s.Leaves++
		}
		if n.IsCollapsed {
			s.Collapsed++
		}
		b := diagram.Bounds{
			Min: diagram.Point{X: n.X, Y: n.Y},
			Max: diagram.Point{X: n.X + n.Width, Y: n.Y + nodeHeight},
		}
		if i == 0 {
			s.Bounds = b
		} else {
			s.Bounds = s.Bounds.Union(b)
		}
	}
	for _, id := range t.Roots() {
		rs := rootStats{Content: t.Node(id).Content, Nodes: 1}
		for _, d := range t.Descendants(id) {
			rs.Nodes++
			rs.Depth = max(rs.Depth, t.Node(d).Level)
		}
		s.PerRoot = append(s.PerRoot, rs)
	}
	return s
}

func (a *app) statsCmd() *cobra.Command {
	var from string

	cmd := &cobra.Command{
		Use:   "stats <file|->",
		Short: "Show node counts, depth and extent of a mind map",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ed, err := a.openMap(cmd.Context(), args[0], from, cmd.InOrStdin())
			if err != nil {
				return err
			}
			writeStats(cmd.OutOrStdout(), computeStats(ed.Snapshot(), a.cfg.Layout.NodeHeight))
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "input format (detected when empty)")

	return cmd
}

func writeStats(out io.Writer, s mapStats) {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"Metric", "Value"})
	tbl.AppendRows([]table.Row{
		{"Nodes", s.Nodes},
		{"Roots", s.Roots},
		{"Leaves", s.Leaves},
		{"Max depth", s.MaxDepth},
		{"Collapsed", s.Collapsed},
		{"Hidden", s.Hidden},
	})
	if s.Nodes > 0 {
		tbl.AppendRow(table.Row{"Bounds", fmt.Sprintf("(%g, %g) to (%g, %g)",
			s.Bounds.Min.X, s.Bounds.Min.Y, s.Bounds.Max.X, s.Bounds.Max.Y)})
		tbl.AppendRow(table.Row{"Size", fmt.Sprintf("%g x %g", s.Bounds.Width(), s.Bounds.Height())})
	}
	fmt.Fprintln(out, tbl.Render())

	if len(s.PerRoot) < 2 {
		return
	}
	roots := table.NewWriter()
	roots.SetStyle(table.StyleLight)
	roots.AppendHeader(table.Row{"Root", "Nodes", "Depth"})
	for _, r := range s.PerRoot {
		roots.AppendRow(table.Row{r.Content, r.Nodes, r.Depth})
	}
	roots.AppendFooter(table.Row{fmt.Sprintf("Total: %d roots", len(s.PerRoot))})
	fmt.Fprintln(out, roots.Render())
}
