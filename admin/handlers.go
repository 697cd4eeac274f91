package admin

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/a-h/templ"

	"datagate/engine"
	"datagate/middleware/auth"
)

const basePath = "/admin"

// Handler returns the HTTP handler for the admin panel, mounted at /admin.
// All data shown in the panel comes from the engine's management endpoints;
// the gateway itself stores nothing but sessions.
func Handler(client *engine.Client, authConfig *auth.AuthConfig) http.Handler {
	handler := &PanelHandler{client: client, auth: authConfig}

	mux := http.NewServeMux()
	if authConfig != nil && authConfig.Enabled {
		mux.HandleFunc(basePath+authConfig.LoginPath, handler.loginHandler)
		mux.HandleFunc(basePath+authConfig.LogoutPath, handler.logoutHandler)
	}
	mux.HandleFunc(basePath+"/", handler.indexHandler)

	var finalHandler http.Handler = mux
	if authConfig != nil {
		authMiddleware := auth.CreateAuthMiddleware(authConfig)
		finalHandler = authMiddleware(finalHandler)
	}

	return finalHandler
}

// PanelHandler provides the HTTP handler methods of the admin panel
type PanelHandler struct {
	client *engine.Client
	auth   *auth.AuthConfig
}

// indexHandler routes panel pages by path segment
func (h *PanelHandler) indexHandler(w http.ResponseWriter, r *http.Request) {
	path := strings.Trim(strings.TrimPrefix(r.URL.Path, basePath), "/")
	if path == "" {
		h.renderDashboard(w, r)
		return
	}

	segments := strings.Split(path, "/")
	for i, segment := range segments {
		if unescaped, err := url.PathUnescape(segment); err == nil {
			segments[i] = unescaped
		}
	}
	if segments[0] != "projects" {
		http.NotFound(w, r)
		return
	}

	switch len(segments) {
	case 1:
		// /admin/projects - project list
		if r.Method == http.MethodPost {
			h.handleCreateProject(w, r)
			return
		}
		h.renderProjects(w, r)
	case 3:
		projectID := segments[1]
		switch segments[2] {
		case "delete":
			// /admin/projects/{id}/delete
			h.handleDeleteProject(w, r, projectID)
		case "instances":
			// /admin/projects/{id}/instances
			if r.Method == http.MethodPost {
				h.handleCreateInstance(w, r, projectID)
				return
			}
			h.renderInstances(w, r, projectID)
		case "tables":
			// /admin/projects/{id}/tables
			if r.Method == http.MethodPost {
				h.handleCreateTable(w, r, projectID)
				return
			}
			h.renderTables(w, r, projectID)
		default:
			http.NotFound(w, r)
		}
	case 5:
		// /admin/projects/{id}/instances/{iid}/delete
		// /admin/projects/{id}/tables/{name}/delete
		if segments[4] != "delete" {
			http.NotFound(w, r)
			return
		}
		switch segments[2] {
		case "instances":
			h.handleDeleteInstance(w, r, segments[1], segments[3])
		case "tables":
			h.handleDeleteTable(w, r, segments[1], segments[3])
		default:
			http.NotFound(w, r)
		}
	default:
		http.NotFound(w, r)
	}
}

// renderDashboard renders the panel landing page
func (h *PanelHandler) renderDashboard(w http.ResponseWriter, r *http.Request) {
	engineUp := h.client.Ping(r.Context()) == nil

	var projects []engine.Project
	var loadErr string
	if engineUp {
		var err error
		projects, err = h.client.ListProjects(r.Context())
		if err != nil {
			loadErr = engineErrorMessage(err)
		}
	}

	h.renderPage(w, r, "Dashboard", Dashboard(engineUp, projects), loadErr)
}

// renderProjects renders the project list page
func (h *PanelHandler) renderProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.client.ListProjects(r.Context())
	if err != nil {
		// Render the page shell with an error banner instead of failing
		h.renderPage(w, r, "Projects", ProjectsPage(nil), engineErrorMessage(err))
		return
	}
	h.renderPage(w, r, "Projects", ProjectsPage(projects), "")
}

// renderInstances renders the instance list of one project
func (h *PanelHandler) renderInstances(w http.ResponseWriter, r *http.Request, projectID string) {
	instances, err := h.client.ListInstances(r.Context(), projectID)
	if err != nil {
		h.renderPage(w, r, "Instances", InstancesPage(projectID, nil), engineErrorMessage(err))
		return
	}
	h.renderPage(w, r, "Instances", InstancesPage(projectID, instances), "")
}

// renderTables renders the table schema list of one project
func (h *PanelHandler) renderTables(w http.ResponseWriter, r *http.Request, projectID string) {
	tables, err := h.client.ListTables(r.Context(), projectID)
	if err != nil {
		h.renderPage(w, r, "Tables", TablesPage(projectID, nil), engineErrorMessage(err))
		return
	}
	h.renderPage(w, r, "Tables", TablesPage(projectID, tables), "")
}

// handleCreateProject handles the project creation form
func (h *PanelHandler) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.writeHTTPError(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		h.redirect(w, r, NewPanelURL("projects").WithError("Project name is required"))
		return
	}

	project, err := h.client.CreateProject(r.Context(), name)
	if err != nil {
		h.redirect(w, r, NewPanelURL("projects").WithError(engineErrorMessage(err)))
		return
	}

	h.redirect(w, r, NewPanelURL("projects").WithFlash(fmt.Sprintf("Project %q created", project.Name)))
}

// handleDeleteProject handles project deletion
func (h *PanelHandler) handleDeleteProject(w http.ResponseWriter, r *http.Request, projectID string) {
	if r.Method != http.MethodPost {
		h.writeHTTPError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := h.client.DeleteProject(r.Context(), projectID); err != nil {
		h.redirect(w, r, NewPanelURL("projects").WithError(engineErrorMessage(err)))
		return
	}

	h.redirect(w, r, NewPanelURL("projects").WithFlash("Project deleted"))
}

// handleCreateInstance handles the instance creation form
func (h *PanelHandler) handleCreateInstance(w http.ResponseWriter, r *http.Request, projectID string) {
	if err := r.ParseForm(); err != nil {
		h.writeHTTPError(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	listURL := NewPanelURL("projects", projectID, "instances")

	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		h.redirect(w, r, listURL.WithError("Instance name is required"))
		return
	}

	instance, err := h.client.CreateInstance(r.Context(), projectID, name)
	if err != nil {
		h.redirect(w, r, listURL.WithError(engineErrorMessage(err)))
		return
	}

	h.redirect(w, r, listURL.WithFlash(fmt.Sprintf("Instance %q created", instance.Name)))
}

// handleDeleteInstance handles instance deletion
func (h *PanelHandler) handleDeleteInstance(w http.ResponseWriter, r *http.Request, projectID, instanceID string) {
	if r.Method != http.MethodPost {
		h.writeHTTPError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	listURL := NewPanelURL("projects", projectID, "instances")

	if err := h.client.DeleteInstance(r.Context(), projectID, instanceID); err != nil {
		h.redirect(w, r, listURL.WithError(engineErrorMessage(err)))
		return
	}

	h.redirect(w, r, listURL.WithFlash("Instance deleted"))
}

// handleCreateTable handles the schema editor form
func (h *PanelHandler) handleCreateTable(w http.ResponseWriter, r *http.Request, projectID string) {
	if err := r.ParseForm(); err != nil {
		h.writeHTTPError(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	listURL := NewPanelURL("projects", projectID, "tables")

	schema, err := parseSchemaForm(projectID, r.PostForm)
	if err != nil {
		h.redirect(w, r, listURL.WithError(err.Error()))
		return
	}

	if err := h.client.CreateTable(r.Context(), schema); err != nil {
		h.redirect(w, r, listURL.WithError(engineErrorMessage(err)))
		return
	}

	h.redirect(w, r, listURL.WithFlash(fmt.Sprintf("Table %q created", schema.Name)))
}

// handleDeleteTable handles table schema deletion
func (h *PanelHandler) handleDeleteTable(w http.ResponseWriter, r *http.Request, projectID, table string) {
	if r.Method != http.MethodPost {
		h.writeHTTPError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	listURL := NewPanelURL("projects", projectID, "tables")

	if err := h.client.DeleteTable(r.Context(), projectID, table); err != nil {
		h.redirect(w, r, listURL.WithError(engineErrorMessage(err)))
		return
	}

	h.redirect(w, r, listURL.WithFlash(fmt.Sprintf("Table %q deleted", table)))
}

// loginHandler handles login requests
func (h *PanelHandler) loginHandler(w http.ResponseWriter, r *http.Request) {
	if h.auth == nil || !h.auth.Enabled {
		http.NotFound(w, r)
		return
	}

	if r.Method == http.MethodGet {
		h.renderLoginPage(w, r, "")
		return
	}

	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			h.writeHTTPError(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		username := r.FormValue("username")
		password := r.FormValue("password")

		user, err := h.auth.Authenticator(r.Context(), username, password)
		if err != nil {
			h.renderLoginPage(w, r, "Invalid username or password")
			return
		}

		sessionID, err := h.auth.SessionStore.CreateSession(r.Context(), user)
		if err != nil {
			fmt.Printf("❌ DEBUG: Failed to create session: %v\n", err)
			h.writeHTTPError(w, "Failed to create session", http.StatusInternalServerError)
			return
		}

		http.SetCookie(w, auth.CreateSessionCookie(sessionID, h.auth.SessionSecret))

		// Only panel-internal return targets are honored
		redirectURL := r.FormValue("return")
		if !strings.HasPrefix(redirectURL, basePath) {
			redirectURL = h.auth.LoginRedirect
		}
		http.Redirect(w, r, redirectURL, http.StatusSeeOther)
		return
	}

	http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
}

// logoutHandler handles logout requests
func (h *PanelHandler) logoutHandler(w http.ResponseWriter, r *http.Request) {
	if h.auth == nil || !h.auth.Enabled {
		http.NotFound(w, r)
		return
	}

	// Drop the stored session; a tampered cookie has nothing to drop
	if cookie, err := r.Cookie(auth.SessionCookieName); err == nil {
		if sessionID, ok := auth.VerifySessionValue(cookie.Value, h.auth.SessionSecret); ok {
			h.auth.SessionStore.DeleteSession(r.Context(), sessionID)
		}
	}

	http.SetCookie(w, auth.DeleteSessionCookie())
	http.Redirect(w, r, h.auth.LogoutRedirect, http.StatusSeeOther)
}

// renderLoginPage renders the sign-in form, optionally with an error message
func (h *PanelHandler) renderLoginPage(w http.ResponseWriter, r *http.Request, errMsg string) {
	returnURL := r.URL.Query().Get("return")

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := LoginPage(returnURL, errMsg).Render(r.Context(), w); err != nil {
		h.writeHTTPError(w, "Template rendering error", http.StatusInternalServerError)
	}
}

// renderPage wraps a page body in the shared layout and renders it. The
// one-shot flash/error query parameters feed the layout banners; an explicit
// errMsg (e.g. a failed engine fetch) takes precedence.
func (h *PanelHandler) renderPage(w http.ResponseWriter, r *http.Request, title string, content templ.Component, errMsg string) {
	if errMsg == "" {
		errMsg = r.URL.Query().Get("error")
	}
	flash := r.URL.Query().Get("flash")

	user, _ := auth.GetAuthUser(r.Context())
	layout := Layout(title, user, flash, errMsg, content)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := layout.Render(r.Context(), w); err != nil {
		h.writeHTTPError(w, "Template rendering error", http.StatusInternalServerError)
	}
}

// redirect finishes a mutating request post-redirect-get style
func (h *PanelHandler) redirect(w http.ResponseWriter, r *http.Request, u *PanelURLBuilder) {
	http.Redirect(w, r, u.String(), http.StatusSeeOther)
}

// writeHTTPError writes an HTTP error response
func (h *PanelHandler) writeHTTPError(w http.ResponseWriter, message string, statusCode int) {
	w.WriteHeader(statusCode)
	fmt.Fprintf(w, "<html><body><h1>Error %d</h1><p>%s</p></body></html>", statusCode, message)
}

// engineErrorMessage extracts the operator-facing description of an engine
// call failure. Connectivity failures already carry the fixed message; the
// underlying network error never reaches the page.
func engineErrorMessage(err error) string {
	var engErr *engine.Error
	if errors.As(err, &engErr) {
		return engErr.Message
	}
	return err.Error()
}
