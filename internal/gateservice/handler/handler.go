// Package handler exposes the gate service over HTTP with JSON bodies.
package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"tanker-queue/internal/gateservice/core"
	"tanker-queue/internal/gateservice/query"
	"tanker-queue/internal/gateservice/service"
	"tanker-queue/pkg/logger"
	"tanker-queue/pkg/models"
)

type GateHandler struct {
	service *service.GateService
	logger  *logger.Logger
}

func NewGateHandler(svc *service.GateService, log *logger.Logger) *GateHandler {
	return &GateHandler{
		service: svc,
		logger:  log,
	}
}

func requestID(r *http.Request) string {
	if id := r.Header.Get("X-Request-ID"); id != "" {
		return id
	}
	return "req-" + strconv.FormatInt(time.Now().UnixNano(), 10)
}

func (h *GateHandler) GetQueueNumber(w http.ResponseWriter, r *http.Request) {
	reqID := requestID(r)

	queueNumber, err := h.service.GenerateQueueNumber(r.Context())
	if err != nil {
		h.logger.Error(reqID, "queue_number_failed", "Failed to generate queue number", err)
		jsonError(w, http.StatusInternalServerError, errors.New("failed to generate queue number"))
		return
	}

	jsonResponse(w, http.StatusOK, models.QueueNumberResponse{QueueNumber: queueNumber})
}

func (h *GateHandler) CheckPlate(w http.ResponseWriter, r *http.Request) {
	reqID := requestID(r)

	plate := r.URL.Query().Get("plate")
	if plate == "" {
		jsonError(w, http.StatusBadRequest, errors.New("plate query parameter is required"))
		return
	}

	result, err := h.service.CheckPlate(r.Context(), plate)
	if err != nil {
		h.logger.Error(reqID, "check_plate_failed", "Failed to check plate", err)
		jsonError(w, http.StatusInternalServerError, errors.New("failed to check plate"))
		return
	}

	jsonResponse(w, http.StatusOK, result)
}

func (h *GateHandler) AddEntry(w http.ResponseWriter, r *http.Request) {
	reqID := requestID(r)

	var req models.CreateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error(reqID, "validation_failed", "Invalid JSON payload", err)
		jsonError(w, http.StatusBadRequest, errors.New("invalid JSON payload"))
		return
	}

	entry, err := h.service.AddEntry(r.Context(), &req, reqID)
	if err != nil {
		h.writeServiceError(w, reqID, "entry_creation_failed", err)
		return
	}

	h.logger.Info(reqID, "entry_created", fmt.Sprintf("Entry %s created for truck %s", entry.QueueNumber, entry.TruckNumber))
	jsonResponse(w, http.StatusCreated, entry)
}

func (h *GateHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	reqID := requestID(r)

	params, err := parseQueryParams(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err)
		return
	}

	entries, err := h.service.ListEntries(r.Context(), params)
	if err != nil {
		h.logger.Error(reqID, "list_entries_failed", "Failed to list entries", err)
		jsonError(w, http.StatusInternalServerError, errors.New("failed to list entries"))
		return
	}

	jsonResponse(w, http.StatusOK, models.EntryListResponse{Vehicles: entries})
}

func (h *GateHandler) SearchEntries(w http.ResponseWriter, r *http.Request) {
	reqID := requestID(r)

	term := r.URL.Query().Get("q")
	if len(term) < 2 {
		jsonResponse(w, http.StatusOK, models.EntryListResponse{Vehicles: []*models.Entry{}})
		return
	}

	entries, err := h.service.SearchEntries(r.Context(), term)
	if err != nil {
		h.logger.Error(reqID, "search_entries_failed", "Failed to search entries", err)
		jsonError(w, http.StatusInternalServerError, errors.New("failed to search entries"))
		return
	}

	jsonResponse(w, http.StatusOK, models.EntryListResponse{Vehicles: entries})
}

func (h *GateHandler) RegisterVehicle(w http.ResponseWriter, r *http.Request) {
	reqID := requestID(r)

	var req models.RegisterVehicleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error(reqID, "validation_failed", "Invalid JSON payload", err)
		jsonError(w, http.StatusBadRequest, errors.New("invalid JSON payload"))
		return
	}

	reg, err := h.service.RegisterVehicle(r.Context(), &req, reqID)
	if err != nil {
		h.writeServiceError(w, reqID, "registration_failed", err)
		return
	}

	h.logger.Info(reqID, "vehicle_registered", fmt.Sprintf("Vehicle %s registered", reg.VehicleNumber))
	jsonResponse(w, http.StatusCreated, reg)
}

func (h *GateHandler) ListRegistry(w http.ResponseWriter, r *http.Request) {
	reqID := requestID(r)

	regs, err := h.service.ListRegistry(r.Context())
	if err != nil {
		h.logger.Error(reqID, "list_registry_failed", "Failed to list registry", err)
		jsonError(w, http.StatusInternalServerError, errors.New("failed to list registry"))
		return
	}

	jsonResponse(w, http.StatusOK, models.RegistrationListResponse{Vehicles: regs})
}

func (h *GateHandler) SearchRegistry(w http.ResponseWriter, r *http.Request) {
	reqID := requestID(r)

	term := r.URL.Query().Get("q")
	regs, err := h.service.SearchRegistry(r.Context(), term)
	if err != nil {
		h.logger.Error(reqID, "search_registry_failed", "Failed to search registry", err)
		jsonError(w, http.StatusInternalServerError, errors.New("failed to search registry"))
		return
	}

	jsonResponse(w, http.StatusOK, models.RegistrationListResponse{Vehicles: regs})
}

func (h *GateHandler) UpdateRegistration(w http.ResponseWriter, r *http.Request) {
	reqID := requestID(r)

	id := r.PathValue("id")
	if id == "" {
		jsonError(w, http.StatusBadRequest, errors.New("registration id is required"))
		return
	}

	var req models.UpdateRegistrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, http.StatusBadRequest, errors.New("invalid JSON payload"))
		return
	}

	if err := h.service.UpdateRegistration(r.Context(), id, &req); err != nil {
		h.writeServiceError(w, reqID, "registration_update_failed", err)
		return
	}

	jsonResponse(w, http.StatusOK, models.StatusResponse{Message: "registration updated"})
}

func (h *GateHandler) DeleteRegistration(w http.ResponseWriter, r *http.Request) {
	reqID := requestID(r)

	id := r.PathValue("id")
	if id == "" {
		jsonError(w, http.StatusBadRequest, errors.New("registration id is required"))
		return
	}

	if err := h.service.DeleteRegistration(r.Context(), id); err != nil {
		h.logger.Error(reqID, "registration_delete_failed", "Failed to delete registration", err)
		jsonError(w, http.StatusInternalServerError, errors.New("failed to delete registration"))
		return
	}

	jsonResponse(w, http.StatusOK, models.StatusResponse{Message: "registration deleted"})
}

func (h *GateHandler) SeedRegistry(w http.ResponseWriter, r *http.Request) {
	reqID := requestID(r)

	created, err := h.service.SeedRegistry(r.Context())
	if err != nil {
		h.logger.Error(reqID, "registry_seed_failed", "Failed to seed registry", err)
		jsonError(w, http.StatusInternalServerError, errors.New("failed to seed registry"))
		return
	}

	jsonResponse(w, http.StatusOK, models.StatusResponse{Message: fmt.Sprintf("seeded %d registrations", created)})
}

func (h *GateHandler) ClearRegistry(w http.ResponseWriter, r *http.Request) {
	reqID := requestID(r)

	if err := h.service.ClearRegistry(r.Context()); err != nil {
		h.logger.Error(reqID, "registry_clear_failed", "Failed to clear registry", err)
		jsonError(w, http.StatusInternalServerError, errors.New("failed to clear registry"))
		return
	}

	jsonResponse(w, http.StatusOK, models.StatusResponse{Message: "registry cleared"})
}

func (h *GateHandler) Health(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, map[string]string{"status": "healthy", "service": "gate-service"})
}

// writeServiceError maps the service error taxonomy onto HTTP status codes.
func (h *GateHandler) writeServiceError(w http.ResponseWriter, reqID, action string, err error) {
	var ve *core.ValidationError
	switch {
	case errors.As(err, &ve):
		jsonError(w, http.StatusBadRequest, ve)
	case errors.Is(err, core.ErrDuplicateVehicle):
		jsonError(w, http.StatusConflict, core.ErrDuplicateVehicle)
	case errors.Is(err, core.ErrDuplicateQueueNumber):
		jsonError(w, http.StatusConflict, core.ErrDuplicateQueueNumber)
	default:
		h.logger.Error(reqID, action, "Request failed", err)
		jsonError(w, http.StatusInternalServerError, errors.New("internal server error"))
	}
}

func parseQueryParams(r *http.Request) (query.Params, error) {
	q := r.URL.Query()
	params := query.Params{
		SearchTerm: q.Get("q"),
		Company:    q.Get("company"),
		SortBy:     q.Get("sort_by"),
		SortOrder:  q.Get("sort_order"),
	}

	if v := q.Get("from"); v != "" {
		t, err := parseDateParam(v)
		if err != nil {
			return params, fmt.Errorf("invalid from date %q", v)
		}
		params.From = &t
	}
	if v := q.Get("to"); v != "" {
		t, err := parseDateParam(v)
		if err != nil {
			return params, fmt.Errorf("invalid to date %q", v)
		}
		// A bare date means "through the end of that day".
		if len(v) == len("2006-01-02") {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		params.To = &t
	}
	return params, nil
}

func parseDateParam(v string) (time.Time, error) {
	if t, err := time.ParseInLocation("2006-01-02", v, time.Local); err == nil {
		return t, nil
	}
	return time.ParseInLocation(time.RFC3339, v, time.Local)
}
