package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"assettrack/internal/imaging"
	"assettrack/internal/model"
	"assettrack/internal/store"
)

// ItemsHandler handles item CRUD, status, history and photo endpoints.
type ItemsHandler struct {
	DB *sql.DB
}

type itemRequest struct {
	Name          string  `json:"name"`
	Category      string  `json:"category"`
	Brand         string  `json:"brand"`
	Model         string  `json:"model"`
	SerialNumber  string  `json:"serial_number"`
	Status        string  `json:"status"`
	Location      string  `json:"location"`
	Description   string  `json:"description"`
	PurchaseDate  string  `json:"purchase_date"`
	PurchasePrice float64 `json:"purchase_price"`
}

type changeStatusRequest struct {
	Status string `json:"status"`
	Note   string `json:"note"`
}

func (req *itemRequest) validate() (model.Item, string) {
	if req.Name == "" || req.Category == "" || req.Brand == "" || req.Model == "" ||
		req.SerialNumber == "" || req.Location == "" {
		return model.Item{}, "name, category, brand, model, serial_number and location are required"
	}

	purchaseDate := time.Now()
	if req.PurchaseDate != "" {
		parsed, err := parseDate(req.PurchaseDate)
		if err != nil {
			return model.Item{}, "invalid purchase_date"
		}
		purchaseDate = parsed
	}
	if req.PurchasePrice < 0 {
		return model.Item{}, "purchase_price must not be negative"
	}

	return model.Item{
		Name:          req.Name,
		Category:      req.Category,
		Brand:         req.Brand,
		Model:         req.Model,
		SerialNumber:  req.SerialNumber,
		Status:        req.Status,
		Location:      req.Location,
		Description:   req.Description,
		PurchaseDate:  purchaseDate,
		PurchasePrice: req.PurchasePrice,
	}, ""
}

// List handles GET /api/items.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status != "" && !model.ValidItemStatus(status) {
		jsonError(w, http.StatusBadRequest, "invalid status filter")
		return
	}

	items, err := store.ListItems(r.Context(), h.DB, status)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list items")
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	jsonResponse(w, http.StatusOK, items)
}

// Create handles POST /api/items.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, msg := req.validate()
	if msg != "" {
		jsonError(w, http.StatusBadRequest, msg)
		return
	}
	if item.Status != "" && !model.ValidItemStatus(item.Status) {
		jsonError(w, http.StatusBadRequest, "invalid status")
		return
	}

	created, err := store.CreateItem(r.Context(), h.DB, item)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	slog.Info("item created", "item", created.Name, "serial", created.SerialNumber)
	jsonResponse(w, http.StatusCreated, created)
}

// Get handles GET /api/items/{id}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	item, err := store.GetItem(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get item")
		return
	}
	if item == nil || item.DeletedAt != nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// Update handles PUT /api/items/{id}.
func (h *ItemsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	var req itemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, msg := req.validate()
	if msg != "" {
		jsonError(w, http.StatusBadRequest, msg)
		return
	}

	updated, err := store.UpdateItem(r.Context(), h.DB, id, item)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/items/{id}.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	if err := store.DeleteItem(r.Context(), h.DB, id); err != nil {
		writeStoreError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "item deleted"})
}

// ChangeStatus handles PUT /api/items/{id}/status: the admin override that
// can move an item between any two lifecycle statuses, with an audit entry.
func (h *ItemsHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	var req changeStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	claims := GetClaims(r.Context())
	item, err := store.ChangeItemStatus(r.Context(), h.DB, id, claims.UserID, req.Status, req.Note)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	slog.Info("item status changed", "item", item.Name, "status", item.Status, "by", claims.Username)
	jsonResponse(w, http.StatusOK, item)
}

// GetHistory handles GET /api/items/{id}/history.
func (h *ItemsHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	history, err := store.GetStatusHistory(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get item history")
		return
	}
	if history == nil {
		history = []model.StatusHistoryEntry{}
	}
	jsonResponse(w, http.StatusOK, history)
}

// UploadPhoto handles PUT /api/items/{id}/photo.
func (h *ItemsHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	// Limit to 5 MB.
	r.Body = http.MaxBytesReader(w, r.Body, 5<<20)

	if err := r.ParseMultipartForm(5 << 20); err != nil {
		jsonError(w, http.StatusBadRequest, "file too large or invalid multipart form")
		return
	}

	file, _, err := r.FormFile("photo")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "photo file required")
		return
	}
	defer file.Close()

	photo, err := imaging.Process(file)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := store.SetItemPhoto(r.Context(), h.DB, id, photo.Data, photo.MIME); err != nil {
		writeStoreError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "photo uploaded"})
}

// GetPhoto handles GET /api/items/{id}/photo.
func (h *ItemsHandler) GetPhoto(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	data, mime, err := store.GetItemPhoto(r.Context(), h.DB, id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if data == nil {
		jsonError(w, http.StatusNotFound, "no photo")
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(data)
}
