package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"farmequip-backoffice/internal/notify"
	"farmequip-backoffice/internal/security"
	"farmequip-backoffice/internal/service"
)

// Screens are the admin screens served over HTTP.
type Screens struct {
	Equipment *service.EquipmentScreen
	Bookings  *service.BookingScreen
	Farmers   *service.FarmerScreen
	Dashboard *service.DashboardScreen
	Settings  *service.SettingsScreen
}

type Options struct {
	Auth        *security.Authenticator
	Tokens      security.TokenManager
	Hub         *notify.Hub
	ExportSheet string
	MetricsPath string
	// OnReload, when set, is told the outcome of every reload request.
	OnReload func(kind service.RecordKind, err error)
}

type Handler struct {
	screens Screens
	opts    Options
}

// NewRouter registers every admin route. Route names key the access rules in
// config.RouteSecurityConfig.
func NewRouter(screens Screens, opts Options) *mux.Router {
	if opts.MetricsPath == "" {
		opts.MetricsPath = "/metrics"
	}
	h := &Handler{screens: screens, opts: opts}

	r := mux.NewRouter()
	r.Use(observe, h.authenticate)

	r.Handle(opts.MetricsPath, promhttp.Handler()).Methods(http.MethodGet).Name("metrics")

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/auth/login", h.Login).Methods(http.MethodPost).Name("auth.login")
	api.HandleFunc("/dashboard", h.GetDashboard).Methods(http.MethodGet).Name("dashboard.get")

	api.HandleFunc("/equipment", h.ListEquipment).Methods(http.MethodGet).Name("equipment.list")
	api.HandleFunc("/equipment/sort", h.SortEquipment).Methods(http.MethodPost).Name("equipment.sort")
	api.HandleFunc("/equipment/reload", h.ReloadEquipment).Methods(http.MethodPost).Name("equipment.reload")
	api.HandleFunc("/equipment/{id}", h.GetEquipment).Methods(http.MethodGet).Name("equipment.get")
	api.HandleFunc("/equipment/{id}", h.UpdateEquipment).Methods(http.MethodPatch).Name("equipment.update")
	api.HandleFunc("/equipment/{id}", h.DeleteEquipment).Methods(http.MethodDelete).Name("equipment.delete")
	api.HandleFunc("/equipment/{id}/approve", h.ApproveEquipment).Methods(http.MethodPost).Name("equipment.approve")
	api.HandleFunc("/equipment/{id}/reject", h.RejectEquipment).Methods(http.MethodPost).Name("equipment.reject")
	api.HandleFunc("/equipment/{id}/quote", h.QuoteEquipment).Methods(http.MethodGet).Name("equipment.quote")

	api.HandleFunc("/bookings", h.ListBookings).Methods(http.MethodGet).Name("bookings.list")
	api.HandleFunc("/bookings/export", h.ExportBookings).Methods(http.MethodGet).Name("bookings.export")
	api.HandleFunc("/bookings/sort", h.SortBookings).Methods(http.MethodPost).Name("bookings.sort")
	api.HandleFunc("/bookings/reload", h.ReloadBookings).Methods(http.MethodPost).Name("bookings.reload")
	api.HandleFunc("/bookings/{id}", h.GetBooking).Methods(http.MethodGet).Name("bookings.get")
	api.HandleFunc("/bookings/{id}/approve", h.ApproveBooking).Methods(http.MethodPost).Name("bookings.approve")
	api.HandleFunc("/bookings/{id}/reject", h.RejectBooking).Methods(http.MethodPost).Name("bookings.reject")

	api.HandleFunc("/farmers", h.ListFarmers).Methods(http.MethodGet).Name("farmers.list")
	api.HandleFunc("/farmers/sort", h.SortFarmers).Methods(http.MethodPost).Name("farmers.sort")
	api.HandleFunc("/farmers/reload", h.ReloadFarmers).Methods(http.MethodPost).Name("farmers.reload")
	api.HandleFunc("/farmers/{id}", h.GetFarmer).Methods(http.MethodGet).Name("farmers.get")
	api.HandleFunc("/farmers/{id}", h.UpdateFarmer).Methods(http.MethodPatch).Name("farmers.update")
	api.HandleFunc("/farmers/{id}", h.DeleteFarmer).Methods(http.MethodDelete).Name("farmers.delete")
	api.HandleFunc("/farmers/{id}/verify", h.VerifyFarmer).Methods(http.MethodPost).Name("farmers.verify")
	api.HandleFunc("/farmers/{id}/reject", h.RejectFarmer).Methods(http.MethodPost).Name("farmers.reject")
	api.HandleFunc("/farmers/{id}/toggle-status", h.ToggleFarmer).Methods(http.MethodPost).Name("farmers.toggle")

	api.HandleFunc("/settings", h.GetSettings).Methods(http.MethodGet).Name("settings.get")
	api.HandleFunc("/settings", h.SaveSettings).Methods(http.MethodPut).Name("settings.update")

	api.HandleFunc("/notifications/ws", h.Notifications).Methods(http.MethodGet).Name("notifications.ws")

	return r
}
