package web

import (
	"embed"
	"errors"
	"html/template"
	"net/http"

	"github.com/adrianliechti/furnish/config"
	"github.com/adrianliechti/furnish/pkg/store"

	"github.com/go-chi/chi/v5"
)

//go:embed templates/*.html
var templatesFS embed.FS

type Handler struct {
	*config.Config

	templates *template.Template
}

func New(cfg *config.Config) (*Handler, error) {
	templates, err := template.ParseFS(templatesFS, "templates/*.html")

	if err != nil {
		return nil, err
	}

	h := &Handler{
		Config: cfg,

		templates: templates,
	}

	return h, nil
}

func (h *Handler) Attach(r chi.Router) {
	r.Get("/", h.handleIndex)

	r.Get("/login", h.handleLoginForm)
	r.Post("/login", h.handleLogin)

	r.Get("/logout", h.handleLogout)

	r.Get("/demo", h.handleDemo)

	r.Get("/api/me", h.handleMe)

	r.Get("/admin", h.handleAdmin)
	r.Post("/admin", h.handleAdminUpdate)
}

func (h *Handler) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// sessionUser resolves the logged-in user from the session cookie.
func (h *Handler) sessionUser(r *http.Request) (*store.User, error) {
	if h.Store == nil {
		return nil, errors.New("no store configured")
	}

	cookie, err := r.Cookie("session")

	if err != nil {
		return nil, err
	}

	session, err := h.Store.Session(r.Context(), cookie.Value)

	if err != nil {
		return nil, err
	}

	return h.Store.User(r.Context(), session.Username)
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	user, _ := h.sessionUser(r)

	h.render(w, "index.html", map[string]any{
		"User": user,
	})
}

func (h *Handler) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, "login.html", nil)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		http.Error(w, "login unavailable", http.StatusServiceUnavailable)
		return
	}

	username := r.FormValue("username")
	password := r.FormValue("password")

	user, err := h.Store.Authenticate(r.Context(), username, password)

	if err != nil {
		w.WriteHeader(http.StatusUnauthorized)

		h.render(w, "login.html", map[string]any{
			"Error": "invalid username or password",
		})

		return
	}

	session, err := h.Store.CreateSession(r.Context(), user.Username)

	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:  "session",
		Value: session.ID,

		Path: "/",

		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,

		Expires: session.Expiry,
	})

	http.Redirect(w, r, "/demo", http.StatusSeeOther)
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie("session"); err == nil && h.Store != nil {
		h.Store.DeleteSession(r.Context(), cookie.Value)
	}

	http.SetCookie(w, &http.Cookie{
		Name:  "session",
		Value: "",

		Path: "/",

		MaxAge: -1,
	})

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) handleDemo(w http.ResponseWriter, r *http.Request) {
	user, err := h.sessionUser(r)

	if err != nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	h.render(w, "demo.html", map[string]any{
		"User": user,
	})
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	user, err := h.sessionUser(r)

	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	writeJson(w, map[string]any{
		"username": user.Username,

		"tokens": user.Tokens,
		"admin":  user.Admin,
	})
}

func (h *Handler) handleAdmin(w http.ResponseWriter, r *http.Request) {
	user, err := h.sessionUser(r)

	if err != nil || !user.Admin {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	users, err := h.Store.Users(r.Context())

	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.render(w, "admin.html", map[string]any{
		"User":  user,
		"Users": users,
	})
}

func (h *Handler) handleAdminUpdate(w http.ResponseWriter, r *http.Request) {
	user, err := h.sessionUser(r)

	if err != nil || !user.Admin {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	username := r.FormValue("username")
	tokens := formInt(r, "tokens")

	if username == "" || tokens < 0 {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	if err := h.Store.SetTokens(r.Context(), username, tokens); err != nil {
		code := http.StatusInternalServerError

		if errors.Is(err, store.ErrNotFound) {
			code = http.StatusNotFound
		}

		http.Error(w, err.Error(), code)

		return
	}

	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}
