package server

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"metromap/pkg/editor"
)

// requireEditable rejects editor API calls unless editing is enabled.
func (s *Server) requireEditable(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.config.MapEditable {
			writeError(w, http.StatusForbidden, "Map editor disabled")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// handleEditorPage serves the editor, or the disabled notice.
func (s *Server) handleEditorPage(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	writeHTML(w, func() error {
		var err error
		if s.config.MapEditable {
			err = s.deps.Renderer.Editor(&buf, s.deps.Editor.State())
		} else {
			err = s.deps.Renderer.EditorDisabled(&buf)
		}
		if err != nil {
			return err
		}
		_, err = buf.WriteTo(w)
		return err
	})
}

func (s *Server) handleEditorFragment(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	writeHTML(w, func() error {
		if err := s.deps.Renderer.EditorFragment(&buf, s.deps.Editor.State()); err != nil {
			return err
		}
		_, err := buf.WriteTo(w)
		return err
	})
}

func (s *Server) editorState(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, s.deps.Editor.State())
}

func (s *Server) handleEditorState(w http.ResponseWriter, r *http.Request) {
	s.editorState(w)
}

func (s *Server) handleEditorExport(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(s.deps.Editor.Export() + "\n"))
}

// handleEditorLine handles POST /api/editor/line?id=<line>. A failed stop
// fetch still answers with the state so the notice can be shown.
func (s *Server) handleEditorLine(w http.ResponseWriter, r *http.Request) {
	err := s.deps.Editor.SelectLine(r.Context(), r.URL.Query().Get("id"))
	if errors.Is(err, editor.ErrUnknownLine) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		writeJSON(w, http.StatusBadGateway, s.deps.Editor.State())
		return
	}
	s.editorState(w)
}

func (s *Server) handleEditorArm(w http.ResponseWriter, r *http.Request) {
	stop := r.URL.Query().Get("stop")
	if stop == "" {
		s.deps.Editor.Disarm()
		s.editorState(w)
		return
	}
	if err := s.deps.Editor.Arm(stop); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.editorState(w)
}

// handleEditorClick handles POST /api/editor/click?x=&y=&w=&h= with pixel
// coordinates in a canvas rendered at w x h.
func (s *Server) handleEditorClick(w http.ResponseWriter, r *http.Request) {
	v, ok := floatParams(r, "x", "y", "w", "h")
	if !ok {
		writeError(w, http.StatusBadRequest, "x, y, w and h are required")
		return
	}
	if _, err := s.deps.Editor.Click(v[0], v[1], v[2], v[3]); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.editorState(w)
}

func (s *Server) handleEditorDragStart(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Editor.BeginDrag(r.URL.Query().Get("stop")); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleEditorDrag(w http.ResponseWriter, r *http.Request) {
	v, ok := floatParams(r, "x", "y", "w", "h")
	if !ok {
		writeError(w, http.StatusBadRequest, "x, y, w and h are required")
		return
	}
	entry, moved, err := s.deps.Editor.DragTo(v[0], v[1], v[2], v[3])
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !moved {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (s *Server) handleEditorDragEnd(w http.ResponseWriter, r *http.Request) {
	s.deps.Editor.EndDrag()
	s.editorState(w)
}

func (s *Server) handleEditorNudge(w http.ResponseWriter, r *http.Request) {
	v, ok := floatParams(r, "dx", "dy")
	if !ok {
		writeError(w, http.StatusBadRequest, "dx and dy are required")
		return
	}
	if _, err := s.deps.Editor.Nudge(v[0], v[1]); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.editorState(w)
}

func (s *Server) handleEditorSet(w http.ResponseWriter, r *http.Request) {
	v, ok := floatParams(r, "x", "y")
	if !ok {
		writeError(w, http.StatusBadRequest, "x and y must be numbers")
		return
	}
	if _, err := s.deps.Editor.Set(v[0], v[1]); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.editorState(w)
}

func (s *Server) handleEditorDelete(w http.ResponseWriter, r *http.Request) {
	stop := chi.URLParam(r, "stopID")
	if !s.deps.Editor.Delete(stop) {
		writeError(w, http.StatusNotFound, "stop is not mapped")
		return
	}
	s.editorState(w)
}

func (s *Server) handleEditorZoom(w http.ResponseWriter, r *http.Request) {
	steps, err := strconv.Atoi(r.URL.Query().Get("steps"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "steps must be an integer")
		return
	}
	s.deps.Editor.ZoomBy(steps)
	s.editorState(w)
}

func (s *Server) handleEditorPan(w http.ResponseWriter, r *http.Request) {
	v, ok := floatParams(r, "dx", "dy")
	if !ok {
		writeError(w, http.StatusBadRequest, "dx and dy are required")
		return
	}
	if _, err := s.deps.Editor.Pan(v[0], v[1]); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.editorState(w)
}

func (s *Server) handleEditorResetView(w http.ResponseWriter, r *http.Request) {
	s.deps.Editor.ResetView()
	s.editorState(w)
}

func (s *Server) handleEditorGrid(w http.ResponseWriter, r *http.Request) {
	s.deps.Editor.ToggleGrid()
	s.editorState(w)
}

func (s *Server) handleEditorFilter(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	mapped, _ := strconv.ParseBool(q.Get("mapped"))
	s.deps.Editor.SetFilter(q.Get("q"), mapped)
	s.editorState(w)
}

func (s *Server) handleEditorDismiss(w http.ResponseWriter, r *http.Request) {
	s.deps.Editor.DismissNotice()
	s.editorState(w)
}
