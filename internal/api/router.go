package api

import (
	"database/sql"
	"net/http"

	"github.com/justinas/alice"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, jwtSecret string) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: db, JWTSecret: jwtSecret}
	usersHandler := &UsersHandler{DB: db}
	itemsHandler := &ItemsHandler{DB: db}
	assignmentsHandler := &AssignmentsHandler{DB: db}
	maintenanceHandler := &MaintenanceHandler{DB: db}
	discountsHandler := &DiscountsHandler{DB: db}
	reportsHandler := &ReportsHandler{DB: db}

	authed := alice.New(AuthMiddleware(jwtSecret, db))
	admin := authed.Append(RequireAdmin)

	// Public: register and login.
	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)

	// Authenticated account routes.
	mux.Handle("POST /api/auth/logout", authed.ThenFunc(authHandler.Logout))
	mux.Handle("PUT /api/auth/password", authed.ThenFunc(authHandler.ChangePassword))

	// Users: directory for everyone, management for admins.
	mux.Handle("GET /api/users", admin.ThenFunc(usersHandler.List))
	mux.Handle("GET /api/users/employees", authed.ThenFunc(usersHandler.ListEmployees))
	mux.Handle("GET /api/users/{id}", admin.ThenFunc(usersHandler.Get))
	mux.Handle("PUT /api/users/{id}", admin.ThenFunc(usersHandler.Update))
	mux.Handle("DELETE /api/users/{id}", admin.ThenFunc(usersHandler.Delete))

	// Items: read (all authenticated), write (admin).
	mux.Handle("GET /api/items", authed.ThenFunc(itemsHandler.List))
	mux.Handle("POST /api/items", admin.ThenFunc(itemsHandler.Create))
	mux.Handle("GET /api/items/{id}", authed.ThenFunc(itemsHandler.Get))
	mux.Handle("PUT /api/items/{id}", admin.ThenFunc(itemsHandler.Update))
	mux.Handle("DELETE /api/items/{id}", admin.ThenFunc(itemsHandler.Delete))
	mux.Handle("PUT /api/items/{id}/status", admin.ThenFunc(itemsHandler.ChangeStatus))
	mux.Handle("GET /api/items/{id}/history", admin.ThenFunc(itemsHandler.GetHistory))
	mux.Handle("PUT /api/items/{id}/photo", admin.ThenFunc(itemsHandler.UploadPhoto))
	mux.Handle("GET /api/items/{id}/photo", authed.ThenFunc(itemsHandler.GetPhoto))

	// Assignments (admin, except viewing a user's own).
	mux.Handle("POST /api/assignments", admin.ThenFunc(assignmentsHandler.Create))
	mux.Handle("GET /api/assignments", admin.ThenFunc(assignmentsHandler.List))
	mux.Handle("GET /api/assignments/user/{id}", authed.ThenFunc(assignmentsHandler.ListByUser))
	mux.Handle("PUT /api/assignments/{id}", admin.ThenFunc(assignmentsHandler.Update))
	mux.Handle("PUT /api/assignments/{id}/return", admin.ThenFunc(assignmentsHandler.Return))
	mux.Handle("DELETE /api/assignments/{id}", admin.ThenFunc(assignmentsHandler.Delete))

	// Maintenance: anyone may report, admins manage.
	mux.Handle("POST /api/maintenance", authed.ThenFunc(maintenanceHandler.Create))
	mux.Handle("GET /api/maintenance", admin.ThenFunc(maintenanceHandler.List))
	mux.Handle("GET /api/maintenance/my", authed.ThenFunc(maintenanceHandler.ListMine))
	mux.Handle("PUT /api/maintenance/{id}", admin.ThenFunc(maintenanceHandler.Update))

	// Discounts: admins grant, recipients see their own.
	mux.Handle("POST /api/discounts", admin.ThenFunc(discountsHandler.Create))
	mux.Handle("GET /api/discounts", admin.ThenFunc(discountsHandler.List))
	mux.Handle("GET /api/discounts/my", authed.ThenFunc(discountsHandler.ListMine))

	// Reports.
	mux.Handle("GET /api/reports/overview", authed.ThenFunc(reportsHandler.Overview))

	return SecureHeaders(mux)
}
