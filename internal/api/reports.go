package api

import (
	"database/sql"
	"net/http"

	"assettrack/internal/store"
)

// ReportsHandler handles reporting endpoints.
type ReportsHandler struct {
	DB *sql.DB
}

// Overview handles GET /api/reports/overview.
func (h *ReportsHandler) Overview(w http.ResponseWriter, r *http.Request) {
	overview, err := store.GetOverview(r.Context(), h.DB)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to build overview")
		return
	}
	jsonResponse(w, http.StatusOK, overview)
}
