package schedule

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/schedulewise/backend/internal/auth"
	"github.com/schedulewise/backend/internal/models"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// EventStore defines the interface for event persistence. Every method that
// touches an existing event requires the owner id.
type EventStore interface {
	InsertEvent(ctx context.Context, ev *models.Event) (string, error)
	ListEvents(ctx context.Context, ownerID string) ([]models.Event, error)
	GetEvent(ctx context.Context, ownerID, id string) (*models.Event, error)
	UpdateEvent(ctx context.Context, ownerID, id string, upd *models.EventUpdate) (*models.Event, error)
	DeleteEvent(ctx context.Context, ownerID, id string) error
}

// ProfileStore defines the interface for profile persistence.
type ProfileStore interface {
	GetOrCreateProfile(ctx context.Context, ownerID string) (*models.Profile, error)
	UpdateProfile(ctx context.Context, ownerID string, upd *models.ProfileUpdate) (*models.Profile, error)
}

// Handler holds the event and profile HTTP handlers.
type Handler struct {
	events   EventStore
	profiles ProfileStore
}

func NewHandler(events EventStore, profiles ProfileStore) *Handler {
	return &Handler{events: events, profiles: profiles}
}

// ownerID pulls the authenticated account id bound by the auth middleware.
func ownerID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := auth.UserIDFrom(r.Context())
	if !ok {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return "", false
	}
	return id, true
}

// decodeStrict decodes a JSON body, rejecting unknown fields so callers can
// never smuggle attributes (id, user_id, ...) outside the allow-list.
func decodeStrict(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// ListEvents returns all events owned by the current account.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	evs, err := h.events.ListEvents(r.Context(), owner)
	if err != nil {
		log.Error().Err(err).Msg("list events")
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}
	if evs == nil {
		evs = []models.Event{}
	}
	writeJSON(w, http.StatusOK, evs)
}

// CreateEvent stores a new event for the current account.
func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	var req models.EventCreate
	if err := decodeStrict(r, &req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}
	if req.Title == "" {
		http.Error(w, `{"error":"title is required"}`, http.StatusBadRequest)
		return
	}

	id, err := h.events.InsertEvent(r.Context(), models.NewEvent(owner, &req))
	if err != nil {
		log.Error().Err(err).Msg("insert event")
		http.Error(w, `{"error":"failed to save event"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id, "message": "event created"})
}

// GetEvent returns one of the current account's events. Ids owned by someone
// else are reported as not found.
func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	ev, err := h.events.GetEvent(r.Context(), owner, chi.URLParam(r, "id"))
	if err != nil {
		writeEventErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

// UpdateEvent applies a partial update; fields absent from the body keep
// their prior values.
func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	var upd models.EventUpdate
	if err := decodeStrict(r, &upd); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}
	ev, err := h.events.UpdateEvent(r.Context(), owner, chi.URLParam(r, "id"), &upd)
	if err != nil {
		writeEventErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

// DeleteEvent removes one of the current account's events.
func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	if err := h.events.DeleteEvent(r.Context(), owner, chi.URLParam(r, "id")); err != nil {
		writeEventErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "event deleted"})
}

// GetProfile returns the current account's profile, creating the default one
// on first access.
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	p, err := h.profiles.GetOrCreateProfile(r.Context(), owner)
	if err != nil {
		log.Error().Err(err).Msg("get profile")
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// UpdateProfile applies a partial update to the profile, creating it from
// defaults first when absent.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	var upd models.ProfileUpdate
	if err := decodeStrict(r, &upd); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}
	p, err := h.profiles.UpdateProfile(r.Context(), owner, &upd)
	if err != nil {
		log.Error().Err(err).Msg("update profile")
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func writeEventErr(w http.ResponseWriter, err error) {
	if errors.Is(err, models.ErrNotFound) {
		http.Error(w, `{"error":"event not found"}`, http.StatusNotFound)
		return
	}
	log.Error().Err(err).Msg("event store")
	http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
}
