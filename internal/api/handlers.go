package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"renthub/internal/calc"
	"renthub/internal/database"
	"renthub/internal/models"
)

func (s *HTTPServer) handleListings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	listings, err := s.listings.GetActiveListings(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"listings": listings})
}

// handleListingActions dispatches /api/v1/listings/{id} and the
// /block, /unblock and /deactivate actions.
func (s *HTTPServer) handleListingActions(w http.ResponseWriter, r *http.Request) {
	parts := pathParts(r.URL.Path, "/api/v1/listings/")

	if len(parts) == 1 {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		id, err := strconv.ParseInt(parts[0], 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid listing id")
			return
		}
		listing, err := s.listings.GetListingByID(r.Context(), id)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, listing)
		return
	}

	if len(parts) != 2 {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	id, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid listing id")
		return
	}

	if parts[1] == "deactivate" {
		if err := s.listings.DeactivateListing(r.Context(), id); err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		return
	}

	var body struct {
		Dates  []string `json:"dates"`
		Reason string   `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if len(body.Dates) == 0 {
		writeError(w, http.StatusBadRequest, "dates is required")
		return
	}

	dates := make([]time.Time, 0, len(body.Dates))
	for _, raw := range body.Dates {
		d, err := time.Parse("2006-01-02", strings.TrimSpace(raw))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date format; expected YYYY-MM-DD")
			return
		}
		dates = append(dates, d)
	}

	switch parts[1] {
	case "block":
		err = s.listings.BlockDates(r.Context(), id, dates, body.Reason)
	case "unblock":
		err = s.listings.UnblockDates(r.Context(), id, dates)
	default:
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *HTTPServer) handleAvailability(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	parts := pathParts(r.URL.Path, "/api/v1/availability/")
	if len(parts) != 1 {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	listingID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid listing id")
		return
	}

	start, err := parseDateParam(r, "start")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	end, err := parseDateParam(r, "end")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	window, err := s.availability.GetWindow(r.Context(), listingID, start, end)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, window)
}

func (s *HTTPServer) handleQuotes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req models.QuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	quote, err := s.quotes.BuildQuote(r.Context(), &req)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quote)
}

func (s *HTTPServer) handleBookings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req models.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	booking, err := s.bookings.CreateBooking(r.Context(), &req)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, booking)
}

// handleBookingByID dispatches /api/v1/bookings/{id} and
// /api/v1/bookings/{id}/confirm|cancel|complete.
func (s *HTTPServer) handleBookingByID(w http.ResponseWriter, r *http.Request) {
	parts := pathParts(r.URL.Path, "/api/v1/bookings/")
	if len(parts) == 0 || len(parts) > 2 {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	id, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid booking id")
		return
	}

	if len(parts) == 1 {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		booking, err := s.bookings.GetBooking(r.Context(), id)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, booking)
		return
	}

	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var body struct {
		Version int64 `json:"version"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	switch parts[1] {
	case "confirm":
		err = s.bookings.ConfirmBooking(r.Context(), id, body.Version)
	case "cancel":
		err = s.bookings.CancelBooking(r.Context(), id, body.Version)
	case "complete":
		err = s.bookings.CompleteBooking(r.Context(), id, body.Version)
	default:
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	booking, err := s.bookings.GetBooking(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (s *HTTPServer) handleRenterBookings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	parts := pathParts(r.URL.Path, "/api/v1/renters/")
	if len(parts) != 2 || parts[1] != "bookings" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	renterID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid renter id")
		return
	}

	bookings, err := s.bookings.GetRenterBookings(r.Context(), renterID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"bookings": bookings})
}

func (s *HTTPServer) handleExportBookings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.exporter == nil {
		writeError(w, http.StatusServiceUnavailable, "exports are not configured")
		return
	}

	var body struct {
		Start string `json:"start"`
		End   string `json:"end"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	// Omitted bounds fall back to the standard reporting window around today.
	now := time.Now()
	start := now.AddDate(0, -models.DefaultExportRangeMonthsBefore, 0)
	end := now.AddDate(0, models.DefaultExportRangeMonthsAfter, 0)

	if raw := strings.TrimSpace(body.Start); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid start format; expected YYYY-MM-DD")
			return
		}
		start = parsed
	}
	if raw := strings.TrimSpace(body.End); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid end format; expected YYYY-MM-DD")
			return
		}
		end = parsed
	}
	if end.Before(start) {
		writeError(w, http.StatusBadRequest, "end must not precede start")
		return
	}

	path, err := s.exporter.ExportBookings(r.Context(), start, end)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"file_path": path})
}

// writeServiceError maps domain errors to HTTP statuses.
func (s *HTTPServer) writeServiceError(w http.ResponseWriter, err error) {
	var conflict *database.RangeConflictError
	switch {
	case errors.As(err, &conflict):
		dates := make([]string, 0, len(conflict.Dates))
		for _, d := range conflict.Dates {
			dates = append(dates, d.Format("2006-01-02"))
		}
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":          "dates are not available",
			"conflict_dates": dates,
		})
	case errors.Is(err, database.ErrConcurrentModification):
		writeError(w, http.StatusConflict, "booking was modified concurrently; reload and retry")
	case errors.Is(err, database.ErrAvailabilityUnconfirmed):
		writeError(w, http.StatusServiceUnavailable, "availability could not be confirmed; try again shortly")
	case errors.Is(err, database.ErrListingNotFound),
		errors.Is(err, database.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, database.ErrInvalidRange),
		errors.Is(err, database.ErrWindowTooLarge),
		errors.Is(err, database.ErrPastDate),
		errors.Is(err, database.ErrDateTooFar),
		errors.Is(err, database.ErrStayTooLong):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, calc.ErrInvalidRate):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		s.logger.Error().Err(err).Msg("http handler error")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func pathParts(path, prefix string) []string {
	trimmed := strings.Trim(strings.TrimPrefix(path, prefix), "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

func parseDateParam(r *http.Request, name string) (time.Time, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return time.Time{}, errors.New(name + " is required")
	}
	d, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, errors.New("invalid " + name + " format; expected YYYY-MM-DD")
	}
	return d, nil
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}
