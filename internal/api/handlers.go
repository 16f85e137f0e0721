// Package api exposes the HTTP handlers for the roster service.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"example.com/roster/internal/domain"
	"example.com/roster/internal/events"
)

// ChangeFeed exposes recent roster changes for the events endpoint.
type ChangeFeed interface {
	Recent(limit int) []events.RosterChange
}

// Handler coordinates HTTP requests with the domain service.
type Handler struct {
	service   *domain.Service
	feed      ChangeFeed
	staticDir string
}

// NewHandler builds a Handler. feed may be nil when no change journal is wired.
func NewHandler(service *domain.Service, feed ChangeFeed, staticDir string) *Handler {
	return &Handler{service: service, feed: feed, staticDir: staticDir}
}

// RegisterRoutes wires endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/activities", h.activities)
	mux.HandleFunc("/activities/", h.activityAction)
	mux.HandleFunc("/healthz", healthz)
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir(h.staticDir))))
	mux.HandleFunc("/", h.root)
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// root redirects the bare path to the static front-end.
func (h *Handler) root(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeError(w, http.StatusNotFound, "not_found", "resource not found")
		return
	}
	http.Redirect(w, r, "/static/index.html", http.StatusTemporaryRedirect)
}

func (h *Handler) activities(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	catalog, err := h.service.ListActivities(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	resp := make(map[string]ActivityView, len(catalog))
	for name, activity := range catalog {
		resp[name] = toActivityView(activity)
	}
	writeJSON(w, http.StatusOK, resp)
}

// activityAction routes /activities/{name}/signup, /activities/{name}/unregister,
// and /activities/events. Activity names may contain spaces; the path arrives
// already unescaped.
func (h *Handler) activityAction(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/activities/")

	if rest == "events" {
		h.recentChanges(w, r)
		return
	}

	idx := strings.LastIndex(rest, "/")
	if idx <= 0 || idx == len(rest)-1 {
		writeError(w, http.StatusNotFound, "not_found", "resource not found")
		return
	}
	name, op := rest[:idx], rest[idx+1:]

	switch op {
	case "signup":
		h.signup(w, r, name)
	case "unregister":
		h.unregister(w, r, name)
	default:
		writeError(w, http.StatusNotFound, "not_found", "resource not found")
	}
}

func (h *Handler) signup(w http.ResponseWriter, r *http.Request, activity string) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	email := r.URL.Query().Get("email")
	if strings.TrimSpace(email) == "" {
		writeError(w, http.StatusBadRequest, "validation_failed", "missing email parameter")
		return
	}

	if err := h.service.Signup(r.Context(), activity, email); err != nil {
		writeRosterError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{
		Message: fmt.Sprintf("Signed up %s for %s", email, activity),
	})
}

func (h *Handler) unregister(w http.ResponseWriter, r *http.Request, activity string) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	email := r.URL.Query().Get("email")
	if strings.TrimSpace(email) == "" {
		writeError(w, http.StatusBadRequest, "validation_failed", "missing email parameter")
		return
	}

	if err := h.service.Unregister(r.Context(), activity, email); err != nil {
		writeRosterError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{
		Message: fmt.Sprintf("Unregistered %s from %s", email, activity),
	})
}

func (h *Handler) recentChanges(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	if h.feed == nil {
		writeJSON(w, http.StatusOK, ChangesResponse{Items: []events.RosterChange{}})
		return
	}

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			if parsed > 100 {
				parsed = 100
			}
			limit = parsed
		}
	}

	items := h.feed.Recent(limit)
	if items == nil {
		items = []events.RosterChange{}
	}
	writeJSON(w, http.StatusOK, ChangesResponse{Items: items})
}

// writeRosterError maps domain errors onto the HTTP error taxonomy: unknown
// activity is NotFound, membership violations are InvalidState. The detail
// phrases are an external-interface contract.
func writeRosterError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrActivityNotFound):
		writeError(w, http.StatusNotFound, "not_found", "Activity not found")
	case errors.Is(err, domain.ErrAlreadySignedUp):
		writeError(w, http.StatusBadRequest, "invalid_state", "Student is already signed up")
	case errors.Is(err, domain.ErrNotSignedUp):
		writeError(w, http.StatusBadRequest, "invalid_state", "Student is not signed up for this activity")
	default:
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
	}
}

// ActivityView is the JSON shape of one catalog entry.
type ActivityView struct {
	Description     string   `json:"description"`
	Schedule        string   `json:"schedule"`
	MaxParticipants int      `json:"max_participants"`
	Participants    []string `json:"participants"`
}

// MessageResponse confirms a successful roster mutation.
type MessageResponse struct {
	Message string `json:"message"`
}

// ChangesResponse packages the recent roster change feed.
type ChangesResponse struct {
	Items []events.RosterChange `json:"items"`
}

func toActivityView(activity domain.Activity) ActivityView {
	participants := activity.Participants
	if participants == nil {
		participants = []string{}
	}
	return ActivityView{
		Description:     activity.Description,
		Schedule:        activity.Schedule,
		MaxParticipants: activity.MaxParticipants,
		Participants:    participants,
	}
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	payload := map[string]string{
		"type":   code,
		"detail": detail,
	}
	writeJSON(w, status, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
