package server

import (
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"mindmap/diagram"
	"mindmap/export"
	"mindmap/importer"
)

// NewRootRequest represents the request body for creating a root
type NewRootRequest struct {
	Content string   `json:"content" validate:"max=500"`
	X       *float64 `json:"x" validate:"required"`
	Y       *float64 `json:"y" validate:"required"`
}

// ContentRequest represents the request body for committing node content
type ContentRequest struct {
	Content *string `json:"content" validate:"required"`
}

// MoveRequest represents the request body for dragging a node
type MoveRequest struct {
	DX *float64 `json:"dx" validate:"required"`
	DY *float64 `json:"dy" validate:"required"`
}

// SaveMapRequest represents the optional request body for saving a map
type SaveMapRequest struct {
	Title string `json:"title" validate:"max=200"`
}

// NodeView is a node with its ephemeral flags exposed.
type NodeView struct {
	diagram.Node
	Selected bool `json:"selected"`
	Editing  bool `json:"editing"`
}

// IDResponse is returned when a command creates a node.
type IDResponse struct {
	ID int `json:"id"`
}

// HistoryResponse describes the undo history.
type HistoryResponse struct {
	Current int `json:"current"`
	Total   int `json:"total"`
}

func view(n diagram.Node) NodeView {
	return NodeView{Node: n, Selected: n.IsSelected, Editing: n.IsEditing}
}

func views(nodes []diagram.Node) []NodeView {
	out := make([]NodeView, len(nodes))
	for i, n := range nodes {
		out[i] = view(n)
	}
	return out
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) listNodes(w http.ResponseWriter, _ *http.Request) {
	s.respondJSON(w, http.StatusOK, views(s.editor.Nodes()))
}

func (s *Server) getNode(w http.ResponseWriter, r *http.Request) {
	id, err := nodeID(r)
	if err != nil {
		s.respondErr(w, err)
		return
	}
	s.respondNode(w, http.StatusOK, id)
}

func (s *Server) respondNode(w http.ResponseWriter, status, id int) {
	n, err := s.editor.Node(id)
	if err != nil {
		s.respondErr(w, err)
		return
	}
	s.respondJSON(w, status, view(n))
}

func (s *Server) connections(w http.ResponseWriter, _ *http.Request) {
	s.respondJSON(w, http.StatusOK, s.editor.Connections())
}

func (s *Server) visible(w http.ResponseWriter, _ *http.Request) {
	s.respondJSON(w, http.StatusOK, views(s.editor.VisibleNodes()))
}

// nearest answers 204 when no visible node lies in the direction.
func (s *Server) nearest(w http.ResponseWriter, r *http.Request) {
	id, err := nodeID(r)
	if err != nil {
		s.respondErr(w, err)
		return
	}
	dir, err := diagram.ParseDirection(r.URL.Query().Get("direction"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	n, ok, err := s.editor.FindNearestNode(id, dir)
	if err != nil {
		s.respondErr(w, err)
		return
	}
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	s.respondJSON(w, http.StatusOK, view(n))
}

func (s *Server) createRoot(w http.ResponseWriter, r *http.Request) {
	var req NewRootRequest
	if !s.decode(w, r, &req) {
		return
	}
	id, err := s.editor.NewRoot(r.Context(), req.Content, *req.X, *req.Y)
	if err != nil {
		s.respondErr(w, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, IDResponse{ID: id})
}

func (s *Server) createChild(w http.ResponseWriter, r *http.Request) {
	id, err := nodeID(r)
	if err != nil {
		s.respondErr(w, err)
		return
	}
	child, err := s.editor.CreateChild(r.Context(), id)
	if err != nil {
		s.respondErr(w, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, IDResponse{ID: child})
}

func (s *Server) createSibling(w http.ResponseWriter, r *http.Request) {
	id, err := nodeID(r)
	if err != nil {
		s.respondErr(w, err)
		return
	}
	sib, err := s.editor.CreateSibling(r.Context(), id)
	if err != nil {
		s.respondErr(w, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, IDResponse{ID: sib})
}

func (s *Server) deleteNode(w http.ResponseWriter, r *http.Request) {
	id, err := nodeID(r)
	if err != nil {
		s.respondErr(w, err)
		return
	}
	if err := s.editor.DeleteNode(r.Context(), id); err != nil {
		s.respondErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// commitContent answers 204 when an empty commit removed the node.
func (s *Server) commitContent(w http.ResponseWriter, r *http.Request) {
	id, err := nodeID(r)
	if err != nil {
		s.respondErr(w, err)
		return
	}
	var req ContentRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := s.editor.CommitContent(r.Context(), id, *req.Content); err != nil {
		s.respondErr(w, err)
		return
	}
	if _, err := s.editor.Node(id); err != nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	s.respondNode(w, http.StatusOK, id)
}

func (s *Server) toggleCollapse(w http.ResponseWriter, r *http.Request) {
	id, err := nodeID(r)
	if err != nil {
		s.respondErr(w, err)
		return
	}
	if err := s.editor.ToggleCollapse(r.Context(), id); err != nil {
		s.respondErr(w, err)
		return
	}
	s.respondNode(w, http.StatusOK, id)
}

func (s *Server) moveNode(w http.ResponseWriter, r *http.Request) {
	id, err := nodeID(r)
	if err != nil {
		s.respondErr(w, err)
		return
	}
	var req MoveRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := s.editor.MoveNode(r.Context(), id, *req.DX, *req.DY); err != nil {
		s.respondErr(w, err)
		return
	}
	s.respondNode(w, http.StatusOK, id)
}

func (s *Server) selectNode(w http.ResponseWriter, r *http.Request) {
	id, err := nodeID(r)
	if err != nil {
		s.respondErr(w, err)
		return
	}
	if err := s.editor.Select(r.Context(), id); err != nil {
		s.respondErr(w, err)
		return
	}
	s.respondNode(w, http.StatusOK, id)
}

func (s *Server) undo(w http.ResponseWriter, r *http.Request) {
	if err := s.editor.Undo(r.Context()); err != nil {
		s.respondErr(w, err)
		return
	}
	s.history(w, r)
}

func (s *Server) redo(w http.ResponseWriter, r *http.Request) {
	if err := s.editor.Redo(r.Context()); err != nil {
		s.respondErr(w, err)
		return
	}
	s.history(w, r)
}

func (s *Server) history(w http.ResponseWriter, _ *http.Request) {
	current, total := s.editor.HistoryStats()
	s.respondJSON(w, http.StatusOK, HistoryResponse{Current: current, Total: total})
}

// exportMap writes the map in ?format= (json by default).
func (s *Server) exportMap(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	title := q.Get("title")
	format := export.FormatJSON
	if raw := q.Get("format"); raw != "" {
		f, err := export.ParseFormat(raw)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		format = f
	}
	if format == export.FormatJSON {
		s.respondJSON(w, http.StatusOK, s.editor.Export(title))
		return
	}

	opts := export.DefaultOptions()
	opts.Title = title
	opts.NodeHeight = s.editor.Config().Metrics.NodeHeight
	exp, err := export.NewExporter(format, opts)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	out, err := exp.Export(s.editor.Snapshot())
	if err != nil {
		s.respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	contentType := "text/plain; charset=utf-8"
	if format == export.FormatSVG {
		contentType = "image/svg+xml"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	if _, err := io.WriteString(w, out); err != nil {
		s.logger.Error("Failed to write export", zap.Error(err))
	}
}

// importMap replaces the map with the request body. ?format= selects an
// importer; "auto" detects it; the default is the native JSON document.
func (s *Server) importMap(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	format := strings.ToLower(r.URL.Query().Get("format"))
	if format == "" || format == "json" {
		if err := s.editor.Import(r.Context(), body); err != nil {
			s.respondErr(w, err)
			return
		}
		s.respondJSON(w, http.StatusOK, map[string]int{"nodes": len(s.editor.Nodes())})
		return
	}

	var res *importer.Result
	if format == "auto" {
		res, err = s.importers.Import(string(body))
	} else {
		res, err = s.importers.ImportWithFormat(string(body), format)
	}
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if res.Positioned {
		err = s.editor.ImportDocument(r.Context(), res.Document)
	} else {
		err = s.editor.ImportOutline(r.Context(), res.Document)
	}
	if err != nil {
		s.respondErr(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]int{"nodes": len(s.editor.Nodes())})
}
