package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"

	"assettrack/internal/model"
	"assettrack/internal/store"
)

// AssignmentsHandler handles assignment endpoints.
type AssignmentsHandler struct {
	DB *sql.DB
}

type createAssignmentRequest struct {
	ItemID             int64  `json:"item_id"`
	EmployeeID         int64  `json:"employee_id"`
	AssignmentDate     string `json:"assignment_date"`
	ExpectedReturnDate string `json:"expected_return_date"`
	Condition          string `json:"condition"`
	Notes              string `json:"notes"`
}

type returnAssignmentRequest struct {
	Condition        string `json:"condition"`
	ActualReturnDate string `json:"actual_return_date"`
	Notes            string `json:"notes"`
}

type updateAssignmentRequest struct {
	Status             *string `json:"status"`
	Condition          *string `json:"condition"`
	Notes              *string `json:"notes"`
	ExpectedReturnDate *string `json:"expected_return_date"`
}

// Create handles POST /api/assignments.
func (h *AssignmentsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createAssignmentRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.ItemID <= 0 || req.EmployeeID <= 0 {
		jsonError(w, http.StatusBadRequest, "item_id and employee_id are required")
		return
	}
	if req.Condition != "" && !model.ValidCondition(req.Condition) {
		jsonError(w, http.StatusBadRequest, "invalid condition")
		return
	}

	assignmentDate, err := parseOptionalDate(req.AssignmentDate)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid assignment_date")
		return
	}
	expectedReturn, err := parseOptionalDate(req.ExpectedReturnDate)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid expected_return_date")
		return
	}

	claims := GetClaims(r.Context())
	assignment, err := store.CreateAssignment(r.Context(), h.DB, store.CreateAssignmentParams{
		ItemID:             req.ItemID,
		EmployeeID:         req.EmployeeID,
		AssignedBy:         claims.UserID,
		AssignmentDate:     assignmentDate,
		ExpectedReturnDate: expectedReturn,
		Condition:          req.Condition,
		Notes:              req.Notes,
	})
	if err != nil {
		writeStoreError(w, err)
		return
	}

	slog.Info("item assigned", "item", assignment.ItemName,
		"employee", assignment.EmployeeName, "by", claims.Username)
	jsonResponse(w, http.StatusCreated, assignment)
}

// List handles GET /api/assignments.
func (h *AssignmentsHandler) List(w http.ResponseWriter, r *http.Request) {
	assignments, err := store.ListAssignments(r.Context(), h.DB)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list assignments")
		return
	}
	if assignments == nil {
		assignments = []model.Assignment{}
	}
	jsonResponse(w, http.StatusOK, assignments)
}

// ListByUser handles GET /api/assignments/user/{id}.
func (h *AssignmentsHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	assignments, err := store.ListAssignmentsByEmployee(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list assignments")
		return
	}
	if assignments == nil {
		assignments = []model.Assignment{}
	}
	jsonResponse(w, http.StatusOK, assignments)
}

// Update handles PUT /api/assignments/{id}.
func (h *AssignmentsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid assignment id")
		return
	}

	var req updateAssignmentRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	params := store.UpdateAssignmentParams{
		Status:    req.Status,
		Condition: req.Condition,
		Notes:     req.Notes,
	}
	if req.ExpectedReturnDate != nil {
		expected, err := parseDate(*req.ExpectedReturnDate)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "invalid expected_return_date")
			return
		}
		params.ExpectedReturnDate = &expected
	}

	assignment, err := store.UpdateAssignment(r.Context(), h.DB, id, params)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, assignment)
}

// Return handles PUT /api/assignments/{id}/return.
func (h *AssignmentsHandler) Return(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid assignment id")
		return
	}

	var req returnAssignmentRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	actualReturn, err := parseOptionalDate(req.ActualReturnDate)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid actual_return_date")
		return
	}

	assignment, err := store.ReturnAssignment(r.Context(), h.DB, id, req.Condition, actualReturn, req.Notes)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	claims := GetClaims(r.Context())
	slog.Info("item returned", "item", assignment.ItemName,
		"condition", assignment.Condition, "by", claims.Username)
	jsonResponse(w, http.StatusOK, assignment)
}

// Delete handles DELETE /api/assignments/{id}.
func (h *AssignmentsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid assignment id")
		return
	}

	if err := store.DeleteAssignment(r.Context(), h.DB, id); err != nil {
		writeStoreError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "assignment deleted"})
}
