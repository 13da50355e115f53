package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"mindmap/editor"
	"mindmap/importer"
	"mindmap/layout"
)

// newEditor builds an editor from the loaded configuration.
func (a *app) newEditor(opts ...editor.Option) (*editor.Editor, error) {
	engine, err := layout.NewEngine(a.cfg.LayoutConfig(), layout.WithLogger(a.logger))
	if err != nil {
		return nil, err
	}
	opts = append([]editor.Option{
		editor.WithLogger(a.logger),
		editor.WithHistorySize(a.cfg.Editor.HistorySize),
	}, opts...)
	return editor.New(engine, opts...), nil
}

// readInput reads path, or stdin when path is "-".
func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}

// importFile parses a map in any supported format. An explicit format wins;
// otherwise the file extension is tried before content detection. Markdown
// files contribute the mind map code block numbered block.
func importFile(path, format string, block int, stdin io.Reader) (*importer.Result, error) {
	data, err := readInput(path, stdin)
	if err != nil {
		return nil, err
	}
	registry := importer.NewImporterRegistry()
	content := string(data)

	if format == "" && isMarkdown(path) {
		b, err := markdownBlock(content, block)
		if err != nil {
			return nil, err
		}
		return registry.ImportWithFormat(b.Content, b.Format())
	}

	if format != "" {
		return registry.ImportWithFormat(content, format)
	}
	if ext := strings.TrimPrefix(filepath.Ext(path), "."); ext != "" {
		if res, err := registry.ImportWithFormat(content, ext); err == nil {
			return res, nil
		}
	}
	return registry.Import(content)
}

// openMap returns an editor holding the map at path. An empty path gives an
// empty map.
func (a *app) openMap(ctx context.Context, path, format string, stdin io.Reader, opts ...editor.Option) (*editor.Editor, error) {
	ed, err := a.newEditor(opts...)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return ed, nil
	}
	res, err := importFile(path, format, a.block, stdin)
	if err != nil {
		return nil, fmt.Errorf("import %s: %w", path, err)
	}
	if res.Positioned {
		err = ed.ImportDocument(ctx, res.Document)
	} else {
		err = ed.ImportOutline(ctx, res.Document)
	}
	if err != nil {
		return nil, fmt.Errorf("import %s: %w", path, err)
	}
	return ed, nil
}

// writeOutput writes data to path, or to w when path is empty.
func writeOutput(path string, w io.Writer, data string) error {
	if path == "" {
		_, err := io.WriteString(w, data)
		return err
	}
	return os.WriteFile(path, []byte(data), 0o644)
}
