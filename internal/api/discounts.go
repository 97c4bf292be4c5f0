package api

import (
	"database/sql"
	"log/slog"
	"net/http"

	"assettrack/internal/model"
	"assettrack/internal/store"
)

// DiscountsHandler handles discount endpoints.
type DiscountsHandler struct {
	DB *sql.DB
}

type createDiscountRequest struct {
	ItemID int64  `json:"item_id"`
	UserID int64  `json:"user_id"`
	Date   string `json:"date"`
}

// Create handles POST /api/discounts. The discount percentage is derived
// from the day of month of the given date and only days 1 through 15
// qualify.
func (h *DiscountsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createDiscountRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.ItemID <= 0 || req.UserID <= 0 {
		jsonError(w, http.StatusBadRequest, "item_id and user_id are required")
		return
	}
	if req.Date == "" {
		jsonError(w, http.StatusBadRequest, "date is required")
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid date")
		return
	}

	claims := GetClaims(r.Context())
	discount, err := store.CreateDiscount(r.Context(), h.DB, req.ItemID, req.UserID, claims.UserID, date)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	slog.Info("discount granted", "item", discount.ItemName, "user", discount.RecipientName,
		"percent", discount.Percent, "by", claims.Username)
	jsonResponse(w, http.StatusCreated, discount)
}

// List handles GET /api/discounts.
func (h *DiscountsHandler) List(w http.ResponseWriter, r *http.Request) {
	discounts, err := store.ListDiscounts(r.Context(), h.DB)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list discounts")
		return
	}
	if discounts == nil {
		discounts = []model.Discount{}
	}
	jsonResponse(w, http.StatusOK, discounts)
}

// ListMine handles GET /api/discounts/my.
func (h *DiscountsHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	discounts, err := store.ListDiscountsByUser(r.Context(), h.DB, claims.UserID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list discounts")
		return
	}
	if discounts == nil {
		discounts = []model.Discount{}
	}
	jsonResponse(w, http.StatusOK, discounts)
}
