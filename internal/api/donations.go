package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/mabuhanifa/aahaar-backend/internal/donation"
	"github.com/mabuhanifa/aahaar-backend/internal/model"
	"github.com/mabuhanifa/aahaar-backend/internal/store"
)

// DonationsHandler handles donation intake and lookup endpoints.
type DonationsHandler struct {
	DB        *sql.DB
	Donations *donation.Service
}

type createDonationRequest struct {
	Type           string          `json:"type"`
	Amount         decimal.Decimal `json:"amount"`
	Notes          string          `json:"notes"`
	LocationID     *int64          `json:"location_id"`
	AnonymousEmail string          `json:"anonymous_email"`
}

// Create handles POST /api/donations. Logged-in donors are attached to
// the donation; anonymous donors supply an email and get a reference ID
// back for later lookup.
func (h *DonationsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createDonationRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var donor *model.User
	if claims := GetClaims(r.Context()); claims != nil {
		user, err := store.GetUser(r.Context(), h.DB, claims.UserID)
		if err != nil {
			jsonError(w, http.StatusInternalServerError, "internal error")
			return
		}
		donor = user
	}

	d, err := h.Donations.Create(r.Context(), req.Type, req.Amount, req.Notes, req.LocationID, donor, req.AnonymousEmail)
	if err != nil {
		serviceError(w, err)
		return
	}

	jsonResponse(w, http.StatusCreated, d)
}

// List handles GET /api/donations. Supports ?status= filtering.
func (h *DonationsHandler) List(w http.ResponseWriter, r *http.Request) {
	donations, err := store.ListDonations(r.Context(), h.DB, r.URL.Query().Get("status"))
	if err != nil {
		slog.Error("listing donations", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list donations")
		return
	}
	if donations == nil {
		donations = []model.Donation{}
	}
	jsonResponse(w, http.StatusOK, donations)
}

// ListMine handles GET /api/donations/mine for logged-in donors.
func (h *DonationsHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	donations, err := store.ListDonationsByDonor(r.Context(), h.DB, claims.UserID)
	if err != nil {
		slog.Error("listing donor donations", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list donations")
		return
	}
	if donations == nil {
		donations = []model.Donation{}
	}
	jsonResponse(w, http.StatusOK, donations)
}

// Get handles GET /api/donations/{id}.
func (h *DonationsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid donation id")
		return
	}

	d, err := h.Donations.Get(r.Context(), id)
	if err != nil {
		serviceError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, d)
}

// GetByReference handles GET /api/donations/ref/{reference}. Public:
// the reference ID is the anonymous donor's receipt.
func (h *DonationsHandler) GetByReference(w http.ResponseWriter, r *http.Request) {
	d, err := h.Donations.GetByReference(r.Context(), r.PathValue("reference"))
	if err != nil {
		serviceError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, d)
}

// GetPayment handles GET /api/donations/{id}/payment.
func (h *DonationsHandler) GetPayment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid donation id")
		return
	}

	p, err := store.GetPaymentByDonation(r.Context(), h.DB, id)
	if err != nil {
		slog.Error("getting payment", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get payment")
		return
	}
	if p == nil {
		jsonError(w, http.StatusNotFound, "payment not found")
		return
	}
	jsonResponse(w, http.StatusOK, p)
}
