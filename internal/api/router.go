package api

import (
	"database/sql"
	"net/http"

	"github.com/mabuhanifa/aahaar-backend/internal/donation"
	"github.com/mabuhanifa/aahaar-backend/internal/inventory"
	"github.com/mabuhanifa/aahaar-backend/internal/media"
	"github.com/mabuhanifa/aahaar-backend/internal/model"
	"github.com/mabuhanifa/aahaar-backend/internal/notify"
	"github.com/mabuhanifa/aahaar-backend/internal/payment"
	"github.com/mabuhanifa/aahaar-backend/internal/task"
)

// NewRouter creates the API router with all endpoints registered. The
// default wiring dispatches notifications to the log and charges
// through the mock gateway.
func NewRouter(db *sql.DB, jwtSecret string) http.Handler {
	notifier := &notify.Dispatcher{DB: db, Channel: notify.LogChannel{}}
	inventoryEngine := &inventory.Engine{DB: db, Notifier: notifier}
	taskEngine := &task.Engine{DB: db, Inventory: inventoryEngine, Notifier: notifier}
	paymentService := &payment.Service{DB: db, Gateway: payment.MockGateway{}}
	donationService := &donation.Service{DB: db, Payments: paymentService, Notifier: notifier}
	mediaService := &media.Service{DB: db, Notifier: notifier}

	authHandler := &AuthHandler{DB: db, JWTSecret: jwtSecret}
	usersHandler := &UsersHandler{DB: db}
	locationsHandler := &LocationsHandler{DB: db}
	donationsHandler := &DonationsHandler{DB: db, Donations: donationService}
	tasksHandler := &TasksHandler{DB: db, Tasks: taskEngine}
	inventoryHandler := &InventoryHandler{DB: db, Inventory: inventoryEngine}
	paymentsHandler := &PaymentsHandler{Payments: paymentService}
	mediaHandler := &MediaHandler{Media: mediaService}

	authMW := AuthMiddleware(jwtSecret, db)
	optionalAuth := OptionalAuth(jwtSecret, db)
	requireAdmin := RequireAnyRole(model.RoleAdmin)
	requireManager := RequireAnyRole(model.RoleAdmin, model.RoleManager)
	requireStaff := RequireAnyRole(model.RoleAdmin, model.RoleManager, model.RoleCook, model.RoleVolunteer)

	mux := http.NewServeMux()

	// Public: registration, login, anonymous donation paths, webhook.
	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.Handle("POST /api/donations", optionalAuth(http.HandlerFunc(donationsHandler.Create)))
	mux.HandleFunc("GET /api/donations/ref/{reference}", donationsHandler.GetByReference)
	mux.HandleFunc("POST /api/payments/webhook", paymentsHandler.Webhook)

	// Authenticated routes.
	mux.Handle("POST /api/auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))
	mux.Handle("PUT /api/auth/password", authMW(http.HandlerFunc(authHandler.ChangePassword)))

	// Users (admin only).
	mux.Handle("GET /api/users", authMW(requireAdmin(http.HandlerFunc(usersHandler.List))))
	mux.Handle("POST /api/users", authMW(requireAdmin(http.HandlerFunc(usersHandler.Create))))
	mux.Handle("GET /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Get))))
	mux.Handle("PUT /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Update))))
	mux.Handle("PUT /api/users/{id}/roles", authMW(requireAdmin(http.HandlerFunc(usersHandler.UpdateRoles))))
	mux.Handle("DELETE /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Delete))))

	// Locations: read (all authenticated), write (manager+).
	mux.Handle("GET /api/locations", authMW(http.HandlerFunc(locationsHandler.List)))
	mux.Handle("POST /api/locations", authMW(requireManager(http.HandlerFunc(locationsHandler.Create))))
	mux.Handle("GET /api/locations/{id}", authMW(http.HandlerFunc(locationsHandler.Get)))
	mux.Handle("PUT /api/locations/{id}", authMW(requireManager(http.HandlerFunc(locationsHandler.Update))))
	mux.Handle("DELETE /api/locations/{id}", authMW(requireManager(http.HandlerFunc(locationsHandler.Delete))))

	// Donations: listing is staff-side, own history for donors.
	mux.Handle("GET /api/donations", authMW(requireManager(http.HandlerFunc(donationsHandler.List))))
	mux.Handle("GET /api/donations/mine", authMW(http.HandlerFunc(donationsHandler.ListMine)))
	mux.Handle("GET /api/donations/{id}", authMW(http.HandlerFunc(donationsHandler.Get)))
	mux.Handle("GET /api/donations/{id}/payment", authMW(http.HandlerFunc(donationsHandler.GetPayment)))

	// Tasks: creation and assignment (manager+), status updates (staff).
	mux.Handle("POST /api/tasks", authMW(requireManager(http.HandlerFunc(tasksHandler.Create))))
	mux.Handle("GET /api/tasks", authMW(requireStaff(http.HandlerFunc(tasksHandler.List))))
	mux.Handle("GET /api/tasks/{id}", authMW(requireStaff(http.HandlerFunc(tasksHandler.Get))))
	mux.Handle("POST /api/tasks/{id}/assign", authMW(requireManager(http.HandlerFunc(tasksHandler.Assign))))
	mux.Handle("PUT /api/tasks/{id}/status", authMW(requireStaff(http.HandlerFunc(tasksHandler.UpdateStatus))))

	// Inventory: read (staff), mutations (manager+).
	mux.Handle("GET /api/inventory", authMW(requireStaff(http.HandlerFunc(inventoryHandler.List))))
	mux.Handle("POST /api/inventory", authMW(requireManager(http.HandlerFunc(inventoryHandler.Create))))
	mux.Handle("GET /api/inventory/{id}", authMW(requireStaff(http.HandlerFunc(inventoryHandler.Get))))
	mux.Handle("PUT /api/inventory/{id}", authMW(requireManager(http.HandlerFunc(inventoryHandler.Update))))
	mux.Handle("DELETE /api/inventory/{id}", authMW(requireManager(http.HandlerFunc(inventoryHandler.Delete))))
	mux.Handle("POST /api/inventory/{name}/deduct", authMW(requireManager(http.HandlerFunc(inventoryHandler.Deduct))))
	mux.Handle("POST /api/inventory/{name}/add", authMW(requireManager(http.HandlerFunc(inventoryHandler.Add))))

	// Media: anonymous donors upload proof too, so intake is public.
	mux.Handle("POST /api/media", optionalAuth(http.HandlerFunc(mediaHandler.Upload)))
	mux.Handle("GET /api/media/{id}", authMW(http.HandlerFunc(mediaHandler.Get)))
	mux.Handle("GET /api/media/{id}/file", authMW(http.HandlerFunc(mediaHandler.File)))

	return mux
}
