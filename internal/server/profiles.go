package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/silentbyte/quackhunt/internal/calib"
	"github.com/silentbyte/quackhunt/internal/store"
)

// ProfilesHandler serves the SQLite library of named calibration profiles.
//
//	GET    /api/profiles               list saved profiles
//	POST   /api/profiles               save a profile under a name
//	GET    /api/profiles/{id}          fetch one saved profile
//	DELETE /api/profiles/{id}          remove a saved profile
//	POST   /api/profiles/{id}/activate swap the saved profile in as live
type ProfilesHandler struct {
	store    *store.Store
	pipeline Pipeline
}

// NewProfilesHandler creates a handler backed by the given store.
func NewProfilesHandler(st *store.Store, p Pipeline) *ProfilesHandler {
	return &ProfilesHandler{store: st, pipeline: p}
}

// savedProfileResponse is the wire form of a stored profile.
type savedProfileResponse struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Profile   calib.Profile `json:"profile"`
	CreatedAt string        `json:"created_at"`
	UpdatedAt string        `json:"updated_at"`
}

func toResponse(p *store.SavedProfile) savedProfileResponse {
	return savedProfileResponse{
		ID:        p.ID,
		Name:      p.Name,
		Profile:   p.Profile,
		CreatedAt: p.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt: p.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// ServeHTTP routes profile-library requests.
func (h *ProfilesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, action := pathID(r.URL.Path, "/api/profiles")

	switch {
	case id == "" && r.Method == http.MethodGet:
		h.list(w)
	case id == "" && r.Method == http.MethodPost:
		h.create(w, r)
	case id != "" && action == "" && r.Method == http.MethodGet:
		h.get(w, id)
	case id != "" && action == "" && r.Method == http.MethodDelete:
		h.delete(w, id)
	case id != "" && action == "activate" && r.Method == http.MethodPost:
		h.activate(w, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *ProfilesHandler) list(w http.ResponseWriter) {
	profiles, err := h.store.Profiles().List()
	if err != nil {
		http.Error(w, "Failed to list profiles", http.StatusInternalServerError)
		return
	}

	out := make([]savedProfileResponse, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, toResponse(p))
	}

	writeJSON(w, out)
}

// createRequest saves a profile under a name. When Profile is omitted the
// live profile is saved, which is the common case after tuning.
type createRequest struct {
	Name    string         `json:"name"`
	Profile *calib.Profile `json:"profile,omitempty"`
}

func (h *ProfilesHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		http.Error(w, "Profile name is required", http.StatusBadRequest)
		return
	}

	profile := req.Profile
	if profile == nil {
		profile = h.pipeline.Profile()
	}

	saved := &store.SavedProfile{
		Name:    req.Name,
		Profile: *profile,
	}
	if err := h.store.Profiles().Create(saved); err != nil {
		http.Error(w, "Failed to save profile", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	writeJSON(w, toResponse(saved))
}

func (h *ProfilesHandler) get(w http.ResponseWriter, id string) {
	p, err := h.store.Profiles().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "Profile not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to load profile", http.StatusInternalServerError)
		return
	}

	writeJSON(w, toResponse(p))
}

func (h *ProfilesHandler) delete(w http.ResponseWriter, id string) {
	if err := h.store.Profiles().Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "Profile not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to delete profile", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// activate swaps a saved profile in as the live profile.
func (h *ProfilesHandler) activate(w http.ResponseWriter, id string) {
	p, err := h.store.Profiles().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "Profile not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to load profile", http.StatusInternalServerError)
		return
	}

	h.pipeline.SetProfile(p.Profile)
	writeJSON(w, toResponse(p))
}
