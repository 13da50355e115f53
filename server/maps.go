package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func (s *Server) listMaps(w http.ResponseWriter, r *http.Request) {
	names, err := s.store.List(r.Context())
	if err != nil {
		s.respondErr(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string][]string{"maps": names})
}

// saveMap stores the current map under the name in the path. The body is
// optional and only carries a title.
func (s *Server) saveMap(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	var req SaveMapRequest
	if r.ContentLength > 0 && !s.decode(w, r, &req) {
		return
	}
	doc := s.editor.Export(req.Title)
	if err := s.store.Save(r.Context(), name, doc); err != nil {
		s.respondErr(w, err)
		return
	}
	s.logger.Info("Map saved", zap.String("name", name), zap.Int("nodes", len(doc.Nodes)))
	s.respondJSON(w, http.StatusOK, doc.Metadata)
}

func (s *Server) loadMap(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	doc, err := s.store.Load(r.Context(), name)
	if err != nil {
		s.respondErr(w, err)
		return
	}
	if err := s.editor.ImportDocument(r.Context(), doc); err != nil {
		s.respondErr(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, doc.Metadata)
}

func (s *Server) deleteMap(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "name")); err != nil {
		s.respondErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
