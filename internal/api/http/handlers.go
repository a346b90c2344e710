package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"farmequip-backoffice/internal/domain"
	"farmequip-backoffice/internal/export"
	"farmequip-backoffice/internal/listing"
	"farmequip-backoffice/internal/logger"
	"farmequip-backoffice/internal/service"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string         `json:"access_token"`
	Session     domain.Session `json:"session"`
}

type sortRequest struct {
	Key string `json:"key"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	token, session, err := h.opts.Auth.Login(req.Username, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	logger.InfoContext(r.Context(), "Admin logged in", "username", session.Username)
	writeJSON(w, http.StatusOK, loginResponse{AccessToken: token, Session: session})
}

func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	m, err := h.screens.Dashboard.Metrics(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// reloaded reports a reload to the OnReload hook and writes the error, if
// any. It returns true when the caller should write the fresh view.
func (h *Handler) reloaded(w http.ResponseWriter, r *http.Request, kind service.RecordKind, err error) bool {
	if h.opts.OnReload != nil {
		h.opts.OnReload(kind, err)
	}
	if err != nil {
		writeError(w, r, err)
		return false
	}
	return true
}

// sortParam returns the explicit sort of a list request, if any.
func sortParam(r *http.Request) *listing.SortConfig {
	key := r.URL.Query().Get("sort")
	if key == "" {
		return nil
	}
	return &listing.SortConfig{Key: key, Direction: listing.ParseDirection(r.URL.Query().Get("direction"))}
}

func decodeSort(r *http.Request) (string, error) {
	var req sortRequest
	if err := decodeJSON(r, &req); err != nil {
		return "", err
	}
	if req.Key == "" {
		return "", fmt.Errorf("%w: sort key is required", domain.ErrValidation)
	}
	return req.Key, nil
}

// Equipment

func equipmentQuery(r *http.Request) service.EquipmentQuery {
	q := r.URL.Query()
	return service.EquipmentQuery{
		Search:       q.Get("q"),
		Category:     q.Get("category"),
		Availability: q.Get("availability"),
		Approval:     q.Get("approval"),
		Sort:         sortParam(r),
	}
}

func (h *Handler) ListEquipment(w http.ResponseWriter, r *http.Request) {
	if err := h.screens.Equipment.LoadErr(); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.screens.Equipment.View(equipmentQuery(r)))
}

func (h *Handler) ReloadEquipment(w http.ResponseWriter, r *http.Request) {
	_, err := h.screens.Equipment.Load(r.Context())
	if h.reloaded(w, r, service.KindEquipment, err) {
		writeJSON(w, http.StatusOK, h.screens.Equipment.View(equipmentQuery(r)))
	}
}

func (h *Handler) SortEquipment(w http.ResponseWriter, r *http.Request) {
	key, err := decodeSort(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.screens.Equipment.RequestSort(key))
}

func (h *Handler) GetEquipment(w http.ResponseWriter, r *http.Request) {
	e, err := h.screens.Equipment.Get(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (h *Handler) UpdateEquipment(w http.ResponseWriter, r *http.Request) {
	var patch domain.EquipmentPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, r, err)
		return
	}
	e, err := h.screens.Equipment.Update(r.Context(), mux.Vars(r)["id"], patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (h *Handler) DeleteEquipment(w http.ResponseWriter, r *http.Request) {
	ctx := service.WithConfirmation(r.Context(), confirmed(r))
	if err := h.screens.Equipment.Delete(ctx, mux.Vars(r)["id"]); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ApproveEquipment(w http.ResponseWriter, r *http.Request) {
	e, err := h.screens.Equipment.Approve(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (h *Handler) RejectEquipment(w http.ResponseWriter, r *http.Request) {
	e, err := h.screens.Equipment.Reject(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (h *Handler) QuoteEquipment(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	quote, err := h.screens.Equipment.Quote(mux.Vars(r)["id"], q.Get("start"), q.Get("end"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, quote)
}

// Bookings

func bookingQuery(r *http.Request) service.BookingQuery {
	q := r.URL.Query()
	return service.BookingQuery{
		Search:  q.Get("q"),
		Status:  q.Get("status"),
		Payment: q.Get("payment"),
		Dates:   listing.DateWindow(q.Get("date")),
		Sort:    sortParam(r),
	}
}

func (h *Handler) ListBookings(w http.ResponseWriter, r *http.Request) {
	if err := h.screens.Bookings.LoadErr(); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.screens.Bookings.View(bookingQuery(r)))
}

func (h *Handler) ReloadBookings(w http.ResponseWriter, r *http.Request) {
	_, err := h.screens.Bookings.Load(r.Context())
	if h.reloaded(w, r, service.KindBookings, err) {
		writeJSON(w, http.StatusOK, h.screens.Bookings.View(bookingQuery(r)))
	}
}

// ExportBookings downloads the filtered and sorted bookings.
func (h *Handler) ExportBookings(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.screens.Bookings.LoadErr(); err != nil {
		writeError(w, r, err)
		return
	}
	rows := h.screens.Bookings.View(bookingQuery(r))

	filename := fmt.Sprintf("bookings-%s.%s", time.Now().Format("20060102"), format.Extension())
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := export.Bookings(w, format, rows, h.opts.ExportSheet); err != nil {
		logger.ErrorContext(r.Context(), "Booking export failed", "error", err, "format", format)
		return
	}
	logger.InfoContext(r.Context(), "Bookings exported", "format", format, "rows", len(rows))
}

func (h *Handler) SortBookings(w http.ResponseWriter, r *http.Request) {
	key, err := decodeSort(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.screens.Bookings.RequestSort(key))
}

func (h *Handler) GetBooking(w http.ResponseWriter, r *http.Request) {
	b, err := h.screens.Bookings.Get(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *Handler) ApproveBooking(w http.ResponseWriter, r *http.Request) {
	b, err := h.screens.Bookings.Approve(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *Handler) RejectBooking(w http.ResponseWriter, r *http.Request) {
	b, err := h.screens.Bookings.Reject(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// Farmers

func farmerQuery(r *http.Request) service.FarmerQuery {
	q := r.URL.Query()
	return service.FarmerQuery{
		Search:       q.Get("q"),
		Verification: q.Get("verification"),
		Account:      q.Get("account"),
		Sort:         sortParam(r),
	}
}

func (h *Handler) ListFarmers(w http.ResponseWriter, r *http.Request) {
	if err := h.screens.Farmers.LoadErr(); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.screens.Farmers.View(farmerQuery(r)))
}

func (h *Handler) ReloadFarmers(w http.ResponseWriter, r *http.Request) {
	_, err := h.screens.Farmers.Load(r.Context())
	if h.reloaded(w, r, service.KindFarmers, err) {
		writeJSON(w, http.StatusOK, h.screens.Farmers.View(farmerQuery(r)))
	}
}

func (h *Handler) SortFarmers(w http.ResponseWriter, r *http.Request) {
	key, err := decodeSort(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.screens.Farmers.RequestSort(key))
}

func (h *Handler) GetFarmer(w http.ResponseWriter, r *http.Request) {
	f, err := h.screens.Farmers.Get(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func (h *Handler) UpdateFarmer(w http.ResponseWriter, r *http.Request) {
	var edit domain.FarmerEdit
	if err := decodeJSON(r, &edit); err != nil {
		writeError(w, r, err)
		return
	}
	f, err := h.screens.Farmers.Update(r.Context(), mux.Vars(r)["id"], edit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func (h *Handler) DeleteFarmer(w http.ResponseWriter, r *http.Request) {
	ctx := service.WithConfirmation(r.Context(), confirmed(r))
	if err := h.screens.Farmers.Delete(ctx, mux.Vars(r)["id"]); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) VerifyFarmer(w http.ResponseWriter, r *http.Request) {
	f, err := h.screens.Farmers.Verify(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func (h *Handler) RejectFarmer(w http.ResponseWriter, r *http.Request) {
	f, err := h.screens.Farmers.Reject(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func (h *Handler) ToggleFarmer(w http.ResponseWriter, r *http.Request) {
	f, err := h.screens.Farmers.ToggleStatus(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

// Settings

func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	s, err := h.screens.Settings.Get(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *Handler) SaveSettings(w http.ResponseWriter, r *http.Request) {
	var settings domain.Settings
	if err := decodeJSON(r, &settings); err != nil {
		writeError(w, r, err)
		return
	}
	saved, err := h.screens.Settings.Save(r.Context(), settings)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

// Notifications

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Notifications streams screen notifications to an admin browser.
func (h *Handler) Notifications(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.WarnContext(r.Context(), "WebSocket upgrade failed", "error", err)
		return
	}
	id := uuid.NewString()
	if session, ok := SessionFromContext(r.Context()); ok {
		id = session.Username + ":" + id
	}
	logger.InfoContext(r.Context(), "Notification stream opened", "connection", id)
	h.opts.Hub.Serve(id, conn)
	logger.InfoContext(r.Context(), "Notification stream closed", "connection", id)
}
