package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/goliatone/go-contractform/pkg/render"
	"github.com/goliatone/go-contractform/pkg/session"
)

// sessionField is the hidden form input carrying the session ID for clients
// that do not keep cookies.
const sessionField = "session"

func (s *Server) sessionID(r *http.Request) string {
	if cookie, err := r.Cookie(s.cfg.Session.CookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	return strings.TrimSpace(r.FormValue(sessionField))
}

// scope returns the caller's scope, creating one and setting the session
// cookie when the request carries no live session.
func (s *Server) scope(w http.ResponseWriter, r *http.Request) (*Scope, error) {
	current := s.sessionID(r)
	id, scope, err := s.sessions.GetOrCreate(current)
	if err != nil {
		return nil, err
	}
	if id != current {
		http.SetCookie(w, &http.Cookie{
			Name:     s.cfg.Session.CookieName,
			Value:    id,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return scope, nil
}

// existingScope looks up the caller's scope without creating one.
func (s *Server) existingScope(r *http.Request) (*Scope, error) {
	id := s.sessionID(r)
	if id == "" {
		return nil, session.ErrNotFound
	}
	return s.sessions.Get(id)
}

// rendererFor honours ?format=<name> before Accept negotiation.
func (s *Server) rendererFor(r *http.Request) (render.Renderer, error) {
	if name := strings.TrimSpace(r.URL.Query().Get("format")); name != "" {
		return s.renderers.Get(name)
	}
	return s.renderers.Negotiate(r.Header.Get("Accept"))
}

func (s *Server) respond(w http.ResponseWriter, r *http.Request, status int, scope *Scope, page render.Page, errs map[string][]string) {
	renderer, err := s.rendererFor(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotAcceptable)
		return
	}
	options := render.RenderOptions{
		Theme:  s.theme,
		Errors: errs,
	}
	if scope != nil {
		options.SessionID = scope.ID
		options.Hidden = render.MergeHiddenFields(options.Hidden, render.Hidden(sessionField, scope.ID))
	}
	output, err := renderer.Render(r.Context(), page, options)
	if err != nil {
		s.logger.Printf("render %s page: %v", page.Kind, err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", renderer.ContentType())
	w.WriteHeader(status)
	if _, err := w.Write(output); err != nil {
		s.logger.Printf("write response: %v", err)
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload []byte) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(payload); err != nil {
		s.logger.Printf("write json response: %v", err)
	}
}

func (s *Server) encodeJSON(w http.ResponseWriter, status int, value any) {
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		s.logger.Printf("encode json response: %v", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, status, payload)
}

func (s *Server) scopeError(w http.ResponseWriter, err error) {
	s.logger.Printf("session: %v", err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.respond(w, r, http.StatusOK, nil, render.IndexPage(), nil)
}

func (s *Server) handleSessionClose(w http.ResponseWriter, r *http.Request) {
	if id := s.sessionID(r); id != "" {
		if err := s.sessions.Dispose(id); err != nil && !errors.Is(err, session.ErrNotFound) {
			s.logger.Printf("close session: %v", err)
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.Session.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}
