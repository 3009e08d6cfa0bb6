package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/bachesapp/bachesapp/internal/models"
)

// ReportService defines the report-store operations required by the
// HTTP handlers.
type ReportService interface {
	// Create builds and stores a report owned by identity (or the
	// anonymous sentinel when nil).
	Create(draft models.ReportDraft, identity *models.Identity) models.Report
	// GetByID returns the report with the given id.
	GetByID(id int64) (models.Report, bool)
	// Vote increments the vote counter.
	Vote(id int64) error
	// AddComment increments the comment counter.
	AddComment(id int64) error
	// Delete removes the report if identity owns it.
	Delete(id int64, identity *models.Identity) bool
	// Reports returns the collection, most recent first.
	Reports() []models.Report
	// Located returns the reports carrying a map coordinate.
	Located() []models.Report
}

// SessionSource supplies the acting identity for ownership stamping
// and delete authorization. Satisfied by the auth manager.
type SessionSource interface {
	CurrentIdentity() *models.Identity
}

// ReportHandler handles HTTP requests for creating, listing, voting on,
// commenting on, and deleting reports.
type ReportHandler struct {
	// Reports performs the underlying report operations.
	Reports ReportService
	// Session supplies the acting identity.
	Session SessionSource

	validate *validator.Validate
}

// NewReportHandler constructs a ReportHandler over the given services.
func NewReportHandler(reports ReportService, session SessionSource) *ReportHandler {
	return &ReportHandler{
		Reports:  reports,
		Session:  session,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// reportID parses the {id} URL parameter. A non-numeric id answers 400
// and returns false.
func reportID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid report id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// List returns every report, most recent first.
func (h *ReportHandler) List(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(h.Reports.Reports())
}

// Located returns the reports carrying a map coordinate.
func (h *ReportHandler) Located(w http.ResponseWriter, r *http.Request) {
	reports := h.Reports.Located()
	if reports == nil {
		reports = []models.Report{}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(reports)
}

// Create stores a new report from the posted draft, stamping ownership
// from the active session or the anonymous sentinel.
func (h *ReportHandler) Create(w http.ResponseWriter, r *http.Request) {
	var draft models.ReportDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(draft); err != nil {
		http.Error(w, "invalid request: "+err.Error(), http.StatusBadRequest)
		return
	}

	report := h.Reports.Create(draft, h.Session.CurrentIdentity())
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(report)
}

// Get returns the report with the given id.
func (h *ReportHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := reportID(w, r)
	if !ok {
		return
	}
	report, found := h.Reports.GetByID(id)
	if !found {
		http.Error(w, "report not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(report)
}

// Vote increments the vote counter of the report.
func (h *ReportHandler) Vote(w http.ResponseWriter, r *http.Request) {
	id, ok := reportID(w, r)
	if !ok {
		return
	}
	if err := h.Reports.Vote(id); err != nil {
		http.Error(w, "report not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Comment increments the comment counter of the report.
func (h *ReportHandler) Comment(w http.ResponseWriter, r *http.Request) {
	id, ok := reportID(w, r)
	if !ok {
		return
	}
	if err := h.Reports.AddComment(id); err != nil {
		http.Error(w, "report not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Delete removes the report when the active identity owns it. Unknown
// ids answer 404; an ownership mismatch answers 403, the expected
// outcome for deleting someone else's report.
func (h *ReportHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := reportID(w, r)
	if !ok {
		return
	}
	if _, found := h.Reports.GetByID(id); !found {
		http.Error(w, "report not found", http.StatusNotFound)
		return
	}
	if !h.Reports.Delete(id, h.Session.CurrentIdentity()) {
		http.Error(w, "not the report owner", http.StatusForbidden)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
