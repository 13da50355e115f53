package editor

import (
	"encoding/json"
	"testing"
	"time"

	"mindmap/diagram"
	"mindmap/layout"
)

func benchTree(b *testing.B, depth, breadth int) *diagram.Tree {
	b.Helper()
	engine, err := layout.NewEngine(layout.DefaultConfig())
	if err != nil {
		b.Fatal(err)
	}
	t, err := layout.GenerateTree(engine, depth, breadth)
	if err != nil {
		b.Fatal(err)
	}
	return t
}

// Snapshots are clones; the document round trip is what a serialized
// history would pay instead.
func BenchmarkHistoryScaling(b *testing.B) {
	sizes := []struct {
		name           string
		depth, breadth int
	}{
		{"Small", 2, 2},
		{"Medium", 3, 3},
		{"Large", 4, 4},
	}

	for _, size := range sizes {
		t := benchTree(b, size.depth, size.breadth)

		b.Run("Clone/"+size.name, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_ = t.Clone()
			}
		})

		b.Run("JSON/"+size.name, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				doc := t.ToDocument("", time.Time{})
				data, _ := json.Marshal(doc)
				var restored diagram.Document
				_ = json.Unmarshal(data, &restored)
			}
		})
	}
}

func BenchmarkHistorySave(b *testing.B) {
	t := benchTree(b, 3, 3)
	h := NewStructHistory(DefaultHistorySize)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		h.SaveState(t)
	}
}
