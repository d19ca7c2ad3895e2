package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/aventuratime/timeclock-backend-go/internal/domain/punch"
	"github.com/aventuratime/timeclock-backend-go/internal/domain/summary"
	"github.com/aventuratime/timeclock-backend-go/internal/handler/http/response"
	"github.com/aventuratime/timeclock-backend-go/internal/pkg/validator"
	"github.com/aventuratime/timeclock-backend-go/internal/service/attendance"
	"github.com/go-chi/chi/v5"
)

type AttendanceHandler interface {
	Import(w http.ResponseWriter, r *http.Request)
	AddPunch(w http.ResponseWriter, r *http.Request)
	Correct(w http.ResponseWriter, r *http.Request)
	DeriveDay(w http.ResponseWriter, r *http.Request)
	DeriveRange(w http.ResponseWriter, r *http.Request)
	RebuildTotals(w http.ResponseWriter, r *http.Request)
	ListSummaries(w http.ResponseWriter, r *http.Request)
	GetStats(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	derivation summary.DerivationService
	intake     punch.IntakeService
	summaries  summary.SummaryRepository
	weekly     summary.WeeklyRepository
	monthly    summary.MonthlyRepository
}

func NewAttendanceHandler(
	derivation summary.DerivationService,
	intake punch.IntakeService,
	summaries summary.SummaryRepository,
	weekly summary.WeeklyRepository,
	monthly summary.MonthlyRepository,
) AttendanceHandler {
	return &attendanceHandlerImpl{
		derivation: derivation,
		intake:     intake,
		summaries:  summaries,
		weekly:     weekly,
		monthly:    monthly,
	}
}

// Import implements AttendanceHandler.
func (h *attendanceHandlerImpl) Import(w http.ResponseWriter, r *http.Request) {
	// Parse multipart form (max 10MB)
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		slog.Error("Failed to parse multipart form", "error", err)
		response.BadRequest(w, "Failed to parse form data", nil)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		if err == http.ErrMissingFile {
			response.BadRequest(w, "Attendance spreadsheet is required", nil)
			return
		}
		slog.Error("Failed to get file from form", "error", err)
		response.BadRequest(w, "Invalid file upload", nil)
		return
	}
	defer file.Close()

	result, err := h.intake.ImportPunches(r.Context(), file)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Import finished", result)
}

// AddPunch implements AttendanceHandler.
func (h *attendanceHandlerImpl) AddPunch(w http.ResponseWriter, r *http.Request) {
	var req punch.ManualPunchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	p, err := h.intake.AddManualPunch(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Punch recorded", p)
}

// Correct implements AttendanceHandler.
func (h *attendanceHandlerImpl) Correct(w http.ResponseWriter, r *http.Request) {
	var req summary.ManualCorrectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	row, err := h.derivation.ApplyManualCorrection(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Correction applied", row)
}

type deriveDayRequest struct {
	AttendanceID string `json:"attendance_id"`
	Date         string `json:"date"`
}

// DeriveDay implements AttendanceHandler.
func (h *attendanceHandlerImpl) DeriveDay(w http.ResponseWriter, r *http.Request) {
	var req deriveDayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	date, ok := validator.IsValidDate(req.Date)
	if !ok {
		response.BadRequest(w, "date must be YYYY-MM-DD", nil)
		return
	}

	if err := h.derivation.RunDailySummary(r.Context(), req.AttendanceID, date); err != nil {
		response.HandleError(w, err)
		return
	}

	row, err := h.summaries.Get(r.Context(), req.AttendanceID, date)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, row)
}

type deriveRangeRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// DeriveRange implements AttendanceHandler.
func (h *attendanceHandlerImpl) DeriveRange(w http.ResponseWriter, r *http.Request) {
	var req deriveRangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	from, okFrom := validator.IsValidDate(req.From)
	to, okTo := validator.IsValidDate(req.To)
	if !okFrom || !okTo {
		response.BadRequest(w, "from and to must be YYYY-MM-DD", nil)
		return
	}

	if err := h.derivation.RunPeriod(r.Context(), from, to); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Batch derivation finished", nil)
}

type rebuildRequest struct {
	Date string `json:"date"`
}

// RebuildTotals implements AttendanceHandler.
func (h *attendanceHandlerImpl) RebuildTotals(w http.ResponseWriter, r *http.Request) {
	var req rebuildRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	date, ok := validator.IsValidDate(req.Date)
	if !ok {
		response.BadRequest(w, "date must be YYYY-MM-DD", nil)
		return
	}

	if err := h.derivation.RebuildWeeklyTotals(r.Context(), date); err != nil {
		response.HandleError(w, err)
		return
	}
	if err := h.derivation.RebuildMonthlyTotals(r.Context(), date); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Totals rebuilt", nil)
}

// ListSummaries implements AttendanceHandler.
func (h *attendanceHandlerImpl) ListSummaries(w http.ResponseWriter, r *http.Request) {
	attendanceID := chi.URLParam(r, "attendanceID")

	from, okFrom := validator.IsValidDate(r.URL.Query().Get("from"))
	to, okTo := validator.IsValidDate(r.URL.Query().Get("to"))
	if !okFrom || !okTo {
		response.BadRequest(w, "from and to query params must be YYYY-MM-DD", nil)
		return
	}

	rows, err := h.summaries.ListRange(r.Context(), attendanceID, from, to)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, rows)
}

// GetStats implements AttendanceHandler. Returns the weekly and monthly
// totals covering the requested date.
func (h *attendanceHandlerImpl) GetStats(w http.ResponseWriter, r *http.Request) {
	attendanceID := chi.URLParam(r, "attendanceID")

	date, ok := validator.IsValidDate(r.URL.Query().Get("date"))
	if !ok {
		response.BadRequest(w, "date query param must be YYYY-MM-DD", nil)
		return
	}

	week, err := h.weekly.GetForDate(r.Context(), attendanceID, date)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	periodStart, _ := attendance.PayPeriodFor(date)
	month, err := h.monthly.Get(r.Context(), attendanceID, periodStart)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, map[string]interface{}{
		"week":  week,
		"month": month,
	})
}
