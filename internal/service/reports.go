package service

import (
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/bachesapp/bachesapp/internal/models"
	"github.com/bachesapp/bachesapp/internal/snapshot"
)

// ErrNotFound is returned when no report carries the requested id.
var ErrNotFound = errors.New("report not found")

// ReportStore owns the mutable, most-recent-first collection of
// road-defect reports. Reports are created, voted on, commented on, and
// deleted; no other field changes after creation. Deletion is gated on
// ownership: only the identity stamped into the report at creation may
// remove it.
type ReportStore struct {
	mu          sync.Mutex
	store       snapshot.Store
	log         *zap.Logger
	now         func() time.Time
	seedIfEmpty bool

	reports []models.Report
	lastID  int64
}

// NewReportStore creates a ReportStore persisting to store. With
// seedIfEmpty set, Load populates an empty snapshot with the bundled
// example reports. Call Load before use.
func NewReportStore(store snapshot.Store, seedIfEmpty bool, log *zap.Logger) *ReportStore {
	return &ReportStore{
		store:       store,
		log:         log,
		now:         time.Now,
		seedIfEmpty: seedIfEmpty,
	}
}

// Load populates the collection from its snapshot key, seeding the
// example reports when the snapshot is absent and seeding is enabled.
func (s *ReportStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var reports []models.Report
	ok, err := s.store.Get(snapshot.KeyReports, &reports)
	if err != nil {
		return err
	}
	switch {
	case ok:
		s.reports = reports
	case s.seedIfEmpty:
		s.reports = seedReports()
		s.persist()
	}
	for _, r := range s.reports {
		if r.ID > s.lastID {
			s.lastID = r.ID
		}
	}
	return nil
}

// Create builds a report from the draft, stamping ownership from the
// acting identity (or the anonymous sentinel when nil), and prepends it
// to the collection. Estado starts at "pendiente" and both counters at
// zero regardless of the draft.
func (s *ReportStore) Create(draft models.ReportDraft, identity *models.Identity) models.Report {
	s.mu.Lock()
	defer s.mu.Unlock()

	usuario := models.AnonymousUsuario()
	if identity != nil {
		usuario = models.Usuario{
			Nombre: identity.Name,
			Avatar: identity.Avatar,
			ID:     identity.ID,
		}
		if usuario.Avatar == "" {
			usuario.Avatar = models.PlaceholderAvatar
		}
	}

	// Millisecond timestamps are unique enough between human
	// submissions; the bump keeps ids strictly increasing when two
	// creations land in the same millisecond.
	id := s.now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id

	report := models.Report{
		ID:          id,
		Titulo:      draft.Titulo,
		Direccion:   draft.Direccion,
		Fecha:       s.now().Format("2006-01-02"),
		Estado:      models.StatusPendiente,
		Severidad:   draft.Severidad,
		Descripcion: draft.Descripcion,
		Usuario:     usuario,
		Imagen:      draft.Imagen,
		Comuna:      draft.Comuna,
		Ubicacion:   draft.Ubicacion,
	}
	s.reports = append([]models.Report{report}, s.reports...)
	s.persist()
	s.log.Info("report created",
		zap.Int64("report_id", report.ID),
		zap.String("owner_id", usuario.ID),
	)
	return report
}

// GetByID returns the report with the given id.
func (s *ReportStore) GetByID(id int64) (models.Report, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return models.Report{}, false
	}
	return s.reports[i], true
}

// Vote increments the vote counter of the report. Repeat votes by the
// same identity are counted again; there is no deduplication.
func (s *ReportStore) Vote(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	s.reports[i].Votos++
	s.persist()
	return nil
}

// AddComment increments the comment counter of the report. Comment
// bodies are not stored, only the count.
func (s *ReportStore) AddComment(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	s.reports[i].Comentarios++
	s.persist()
	return nil
}

// CanDelete reports whether identity owns the report with the given id.
// False without an acting identity, for unknown ids, and for reports
// owned by someone else. The anonymous sentinel never matches a real
// identity, so sessionless reports stay undeletable.
func (s *ReportStore) CanDelete(id int64, identity *models.Identity) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.canDeleteLocked(id, identity)
}

func (s *ReportStore) canDeleteLocked(id int64, identity *models.Identity) bool {
	if identity == nil {
		return false
	}
	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	return s.reports[i].Usuario.ID == identity.ID
}

// Delete removes the report if identity owns it, reporting whether the
// removal happened. A false return leaves the collection untouched;
// denied ownership is an expected outcome, not an error.
func (s *ReportStore) Delete(id int64, identity *models.Identity) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.canDeleteLocked(id, identity) {
		return false
	}
	i := s.indexOf(id)
	s.reports = append(s.reports[:i], s.reports[i+1:]...)
	s.persist()
	s.log.Info("report deleted",
		zap.Int64("report_id", id),
		zap.String("user_id", identity.ID),
	)
	return true
}

// Reports returns a copy of the collection, most recent first.
func (s *ReportStore) Reports() []models.Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Report, len(s.reports))
	copy(out, s.reports)
	return out
}

// Located returns the reports carrying a map coordinate, most recent
// first, for map-display consumers.
func (s *ReportStore) Located() []models.Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Report
	for _, r := range s.reports {
		if r.Ubicacion != nil {
			out = append(out, r)
		}
	}
	return out
}

// indexOf returns the position of the report with the given id, or -1.
// Caller holds the lock.
func (s *ReportStore) indexOf(id int64) int {
	for i, r := range s.reports {
		if r.ID == id {
			return i
		}
	}
	return -1
}

// persist mirrors the collection to the snapshot store. Failures are
// logged, not returned. Caller holds the lock.
func (s *ReportStore) persist() {
	if err := s.store.Put(snapshot.KeyReports, s.reports); err != nil {
		s.log.Error("failed to persist reports", zap.Error(err))
	}
}
