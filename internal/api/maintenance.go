package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"

	"assettrack/internal/model"
	"assettrack/internal/store"
)

// MaintenanceHandler handles maintenance request endpoints.
type MaintenanceHandler struct {
	DB *sql.DB
}

type createMaintenanceRequest struct {
	ItemID   int64  `json:"item_id"`
	Notes    string `json:"notes"`
	Priority string `json:"priority"`
}

type updateMaintenanceRequest struct {
	Status  string `json:"status"`
	DueDate string `json:"due_date"`
}

// Create handles POST /api/maintenance. Any authenticated user may report
// a problem with an item.
func (h *MaintenanceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createMaintenanceRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.ItemID <= 0 {
		jsonError(w, http.StatusBadRequest, "item_id is required")
		return
	}
	if req.Notes == "" {
		jsonError(w, http.StatusBadRequest, "notes are required")
		return
	}

	claims := GetClaims(r.Context())
	request, err := store.CreateMaintenanceRequest(r.Context(), h.DB, req.ItemID, claims.UserID, req.Notes, req.Priority)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	slog.Info("maintenance requested", "item", request.ItemName,
		"priority", request.Priority, "by", claims.Username)
	jsonResponse(w, http.StatusCreated, request)
}

// List handles GET /api/maintenance.
func (h *MaintenanceHandler) List(w http.ResponseWriter, r *http.Request) {
	requests, err := store.ListMaintenanceRequests(r.Context(), h.DB)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list maintenance requests")
		return
	}
	if requests == nil {
		requests = []model.MaintenanceRequest{}
	}
	jsonResponse(w, http.StatusOK, requests)
}

// ListMine handles GET /api/maintenance/my.
func (h *MaintenanceHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	requests, err := store.ListMaintenanceRequestsByUser(r.Context(), h.DB, claims.UserID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list maintenance requests")
		return
	}
	if requests == nil {
		requests = []model.MaintenanceRequest{}
	}
	jsonResponse(w, http.StatusOK, requests)
}

// Update handles PUT /api/maintenance/{id}. Resolving a request frees the
// item again if it is currently under repair.
func (h *MaintenanceHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request id")
		return
	}

	var req updateMaintenanceRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	dueDate, err := parseOptionalDate(req.DueDate)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid due_date")
		return
	}

	claims := GetClaims(r.Context())
	request, err := store.UpdateMaintenanceRequest(r.Context(), h.DB, id, claims.UserID, req.Status, dueDate)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	slog.Info("maintenance updated", "item", request.ItemName,
		"status", request.Status, "by", claims.Username)
	jsonResponse(w, http.StatusOK, request)
}
