package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"hash/fnv"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/mensah-labs/shs-timetable-api/internal/models"
	"github.com/mensah-labs/shs-timetable-api/internal/timetable"
	appErrors "github.com/mensah-labs/shs-timetable-api/pkg/errors"
)

type timetableRepository interface {
	ListDetailByClass(ctx context.Context, classID string) ([]models.TimetableEntryDetail, error)
	ListDetailByClassWeekday(ctx context.Context, classID string, weekday models.Weekday) ([]models.TimetableEntryDetail, error)
	ListDetailByClassWeekdayTx(ctx context.Context, tx *sqlx.Tx, classID string, weekday models.Weekday) ([]models.TimetableEntryDetail, error)
	ListDetailByTeacherWeekday(ctx context.Context, teacherID string, weekday models.Weekday) ([]models.TimetableEntryDetail, error)
	ListDetailByTeacherWeekdayTx(ctx context.Context, tx *sqlx.Tx, teacherID string, weekday models.Weekday) ([]models.TimetableEntryDetail, error)
	ListDetailByRoomWeekdayTx(ctx context.Context, tx *sqlx.Tx, classroomID string, weekday models.Weekday) ([]models.TimetableEntryDetail, error)
	ListDetailByRoomWeekday(ctx context.Context, classroomID string, weekday models.Weekday) ([]models.TimetableEntryDetail, error)
	FindDetailByID(ctx context.Context, id string) (*models.TimetableEntryDetail, error)
	CreateTx(ctx context.Context, tx *sqlx.Tx, entry *models.TimetableEntry) error
	UpdateTx(ctx context.Context, tx *sqlx.Tx, entry *models.TimetableEntry) error
	Delete(ctx context.Context, id string) error
	WithPlacementLocks(ctx context.Context, keys []int64, fn func(tx *sqlx.Tx) error) error
}

type assignmentRepository interface {
	FindByClassAndSubject(ctx context.Context, classID, subjectID string) (*models.ClassSubject, error)
	FindByClassAndSubjectTx(ctx context.Context, tx *sqlx.Tx, classID, subjectID string) (*models.ClassSubject, error)
	CreateTx(ctx context.Context, tx *sqlx.Tx, assignment *models.ClassSubject) error
	UpdateTeacherTx(ctx context.Context, tx *sqlx.Tx, id, teacherID string) error
}

type activePeriodLister interface {
	ListActive(ctx context.Context) ([]models.Period, error)
}

// PlacementRequest is a proposed lesson placement.
type PlacementRequest struct {
	ClassID     string `json:"class_id" validate:"required"`
	SubjectID   string `json:"subject_id" validate:"required"`
	TeacherID   string `json:"teacher_id" validate:"required"`
	PeriodID    string `json:"period_id" validate:"required"`
	Weekday     int    `json:"weekday" validate:"required,min=1,max=5"`
	IsDouble    bool   `json:"is_double"`
	ClassroomID string `json:"classroom_id"`
}

// ValidatePlacementResult reports whether a placement would be admitted and,
// when not, which constraint it violates.
type ValidatePlacementResult struct {
	Valid    bool                `json:"valid"`
	Conflict *timetable.Conflict `json:"conflict,omitempty"`
}

// BulkPlacementRequest places multiple lessons in one call.
type BulkPlacementRequest struct {
	Items          []PlacementRequest `json:"items" validate:"required,min=1,dive"`
	PartialOnError bool               `json:"partial_on_error"`
}

// BulkPlacementResult summarises a bulk placement.
type BulkPlacementResult struct {
	Created   []models.TimetableEntryDetail `json:"created"`
	Conflicts []timetable.Conflict          `json:"conflicts,omitempty"`
}

// CopyTimetableResult reports the outcome of copying one class's timetable
// onto another.
type CopyTimetableResult struct {
	Copied    int                  `json:"copied"`
	Skipped   int                  `json:"skipped"`
	Conflicts []timetable.Conflict `json:"conflicts,omitempty"`
}

// ClassGridResponse is the rendered weekly grid for a class.
type ClassGridResponse struct {
	ClassID     string          `json:"class_id"`
	Periods     []models.Period `json:"periods"`
	Grid        timetable.Grid  `json:"grid"`
	GeneratedAt time.Time       `json:"generated_at"`
}

// TimetableService admits, edits and renders lesson placements. All writes
// run inside an advisory-lock transaction so concurrent placements touching
// the same teacher or room slots serialise instead of racing.
type TimetableService struct {
	entries     timetableRepository
	assignments assignmentRepository
	periods     activePeriodLister
	cache       *CacheService
	metrics     *MetricsService
	validator   *validator.Validate
	logger      *zap.Logger
	gridTTL     time.Duration
}

// NewTimetableService instantiates TimetableService.
func NewTimetableService(entries timetableRepository, assignments assignmentRepository, periods activePeriodLister, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, gridTTL time.Duration) *TimetableService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if gridTTL <= 0 {
		gridTTL = 5 * time.Minute
	}
	return &TimetableService{
		entries:     entries,
		assignments: assignments,
		periods:     periods,
		cache:       cache,
		metrics:     metrics,
		validator:   validate,
		logger:      logger,
		gridTTL:     gridTTL,
	}
}

func gridCacheKey(classID string) string {
	return "timetable:grid:" + classID
}

// ValidatePlacement runs the admission checks without writing anything.
func (s *TimetableService) ValidatePlacement(ctx context.Context, req PlacementRequest) (*ValidatePlacementResult, error) {
	cand, catalog, err := s.prepareCandidate(ctx, req, "")
	if err != nil {
		return nil, err
	}

	idx, err := s.loadSlotIndex(ctx, nil, *cand)
	if err != nil {
		return nil, err
	}

	conflict := timetable.NewChecker(catalog).Validate(*cand, idx)
	s.recordValidation(conflict)
	if conflict != nil {
		return &ValidatePlacementResult{Valid: false, Conflict: conflict}, nil
	}
	return &ValidatePlacementResult{Valid: true}, nil
}

// CreateEntry admits a placement and persists it. The slot index is re-read
// under the placement locks so the admission decision holds at commit time.
func (s *TimetableService) CreateEntry(ctx context.Context, req PlacementRequest) (*models.TimetableEntryDetail, error) {
	cand, catalog, err := s.prepareCandidate(ctx, req, "")
	if err != nil {
		return nil, err
	}

	var entryID string
	err = s.entries.WithPlacementLocks(ctx, s.lockKeys(catalog, *cand), func(tx *sqlx.Tx) error {
		idx, err := s.loadSlotIndex(ctx, tx, *cand)
		if err != nil {
			return err
		}
		conflict := timetable.NewChecker(catalog).Validate(*cand, idx)
		s.recordValidation(conflict)
		if conflict != nil {
			return wrapConflict(conflict)
		}

		assignment, err := s.resolveAssignment(ctx, tx, cand.ClassID, cand.SubjectID, cand.TeacherID)
		if err != nil {
			return err
		}

		entry := models.TimetableEntry{
			ClassSubjectID: assignment.ID,
			PeriodID:       cand.PeriodID,
			Weekday:        cand.Weekday,
			IsDouble:       cand.IsDouble,
			ClassroomID:    optionalID(cand.ClassroomID),
		}
		if err := s.entries.CreateTx(ctx, tx, &entry); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create timetable entry")
		}
		entryID = entry.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateGrid(ctx, cand.ClassID)
	return s.findDetail(ctx, entryID)
}

// UpdateEntry moves or reshapes an existing placement. The entry being
// edited is excluded from the checks so it never conflicts with itself.
func (s *TimetableService) UpdateEntry(ctx context.Context, id string, req PlacementRequest) (*models.TimetableEntryDetail, error) {
	existing, err := s.findDetail(ctx, id)
	if err != nil {
		return nil, err
	}

	cand, catalog, err := s.prepareCandidate(ctx, req, id)
	if err != nil {
		return nil, err
	}

	err = s.entries.WithPlacementLocks(ctx, s.lockKeys(catalog, *cand), func(tx *sqlx.Tx) error {
		idx, err := s.loadSlotIndex(ctx, tx, *cand)
		if err != nil {
			return err
		}
		conflict := timetable.NewChecker(catalog).Validate(*cand, idx)
		s.recordValidation(conflict)
		if conflict != nil {
			return wrapConflict(conflict)
		}

		assignment, err := s.resolveAssignment(ctx, tx, cand.ClassID, cand.SubjectID, cand.TeacherID)
		if err != nil {
			return err
		}

		entry := models.TimetableEntry{
			ID:             id,
			ClassSubjectID: assignment.ID,
			PeriodID:       cand.PeriodID,
			Weekday:        cand.Weekday,
			IsDouble:       cand.IsDouble,
			ClassroomID:    optionalID(cand.ClassroomID),
		}
		if err := s.entries.UpdateTx(ctx, tx, &entry); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update timetable entry")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateGrid(ctx, cand.ClassID)
	if existing.ClassID != cand.ClassID {
		s.invalidateGrid(ctx, existing.ClassID)
	}
	return s.findDetail(ctx, id)
}

// DeleteEntry removes a placement.
func (s *TimetableService) DeleteEntry(ctx context.Context, id string) error {
	existing, err := s.findDetail(ctx, id)
	if err != nil {
		return err
	}
	if err := s.entries.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "timetable entry not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete timetable entry")
	}
	s.invalidateGrid(ctx, existing.ClassID)
	return nil
}

// ClassGrid renders the weekly grid for a class, served from cache when
// fresh.
func (s *TimetableService) ClassGrid(ctx context.Context, classID string) (*ClassGridResponse, error) {
	if s.cache.Enabled() {
		var cached ClassGridResponse
		if hit, err := s.cache.Get(ctx, gridCacheKey(classID), &cached); err == nil && hit {
			return &cached, nil
		}
	}

	catalog, err := s.loadCatalog(ctx)
	if err != nil {
		return nil, err
	}
	entries, err := s.entries.ListDetailByClass(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list timetable entries")
	}

	resp := &ClassGridResponse{
		ClassID:     classID,
		Periods:     catalog.Ordered(),
		Grid:        timetable.BuildGrid(catalog, entries),
		GeneratedAt: time.Now().UTC(),
	}
	if s.cache.Enabled() {
		if err := s.cache.Set(ctx, gridCacheKey(classID), resp, s.gridTTL); err != nil {
			s.logger.Warn("failed to cache class grid", zap.String("class_id", classID), zap.Error(err))
		}
	}
	return resp, nil
}

// TeacherDaySchedule lists a teacher's lessons for one weekday in period
// order.
func (s *TimetableService) TeacherDaySchedule(ctx context.Context, teacherID string, weekday models.Weekday) ([]models.TimetableEntryDetail, error) {
	if !weekday.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "weekday must be between Monday and Friday")
	}
	entries, err := s.entries.ListDetailByTeacherWeekday(ctx, teacherID, weekday)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teacher schedule")
	}
	return entries, nil
}

// BulkCreateEntries places multiple lessons in one transaction. Every item
// is checked, against the committed schedules and against the items admitted
// before it, and only then is anything written. Without partial_on_error the
// first conflict rejects the whole batch and no entry is persisted.
func (s *TimetableService) BulkCreateEntries(ctx context.Context, req BulkPlacementRequest) (*BulkPlacementResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid bulk placement payload")
	}

	catalog, err := s.loadCatalog(ctx)
	if err != nil {
		return nil, err
	}

	cands := make([]timetable.Candidate, 0, len(req.Items))
	keySet := make(map[int64]struct{})
	for _, item := range req.Items {
		cand, err := buildCandidate(catalog, item, "")
		if err != nil {
			return nil, err
		}
		cands = append(cands, *cand)
		for _, k := range s.lockKeys(catalog, *cand) {
			keySet[k] = struct{}{}
		}
	}
	keys := make([]int64, 0, len(keySet))
	for k := range keySet {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	result := &BulkPlacementResult{}
	var entryIDs []string
	classIDs := make(map[string]struct{})
	err = s.entries.WithPlacementLocks(ctx, keys, func(tx *sqlx.Tx) error {
		checker := timetable.NewChecker(catalog)
		var admitted []timetable.Candidate
		for _, cand := range cands {
			idx, err := s.loadSlotIndex(ctx, tx, cand)
			if err != nil {
				return err
			}
			overlayPending(idx, catalog, admitted, cand)

			conflict := checker.Validate(cand, idx)
			s.recordValidation(conflict)
			if conflict != nil {
				if !req.PartialOnError {
					return wrapConflict(conflict)
				}
				result.Conflicts = append(result.Conflicts, *conflict)
				continue
			}
			admitted = append(admitted, cand)
		}

		for _, cand := range admitted {
			assignment, err := s.resolveAssignment(ctx, tx, cand.ClassID, cand.SubjectID, cand.TeacherID)
			if err != nil {
				return err
			}
			entry := models.TimetableEntry{
				ClassSubjectID: assignment.ID,
				PeriodID:       cand.PeriodID,
				Weekday:        cand.Weekday,
				IsDouble:       cand.IsDouble,
				ClassroomID:    optionalID(cand.ClassroomID),
			}
			if err := s.entries.CreateTx(ctx, tx, &entry); err != nil {
				return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create timetable entry")
			}
			entryIDs = append(entryIDs, entry.ID)
			classIDs[cand.ClassID] = struct{}{}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for classID := range classIDs {
		s.invalidateGrid(ctx, classID)
	}
	for _, id := range entryIDs {
		detail, err := s.findDetail(ctx, id)
		if err != nil {
			return nil, err
		}
		result.Created = append(result.Created, *detail)
	}
	return result, nil
}

// overlayPending folds batch items admitted before the current one into the
// snapshot, so items in the same batch are checked against each other before
// any of them exist. IDs stand in for the display names until commit.
func overlayPending(idx *timetable.SlotIndex, catalog *timetable.Catalog, admitted []timetable.Candidate, cand timetable.Candidate) {
	for i, a := range admitted {
		if a.Weekday != cand.Weekday {
			continue
		}
		periodName := a.PeriodID
		if p, ok := catalog.Get(a.PeriodID); ok {
			periodName = p.Name
		}
		d := models.TimetableEntryDetail{
			TimetableEntry: models.TimetableEntry{
				ID:          fmt.Sprintf("pending-%d", i),
				PeriodID:    a.PeriodID,
				Weekday:     a.Weekday,
				IsDouble:    a.IsDouble,
				ClassroomID: optionalID(a.ClassroomID),
			},
			ClassID:     a.ClassID,
			ClassName:   a.ClassID,
			SubjectID:   a.SubjectID,
			SubjectName: a.SubjectID,
			TeacherID:   a.TeacherID,
			PeriodName:  periodName,
		}
		if a.ClassID == cand.ClassID {
			idx.ClassDay = append(idx.ClassDay, d)
		}
		if a.TeacherID == cand.TeacherID {
			idx.TeacherDay = append(idx.TeacherDay, d)
		}
		if cand.ClassroomID != "" && a.ClassroomID == cand.ClassroomID {
			idx.RoomDay = append(idx.RoomDay, d)
		}
	}
}

// CopyTimetable replays one class's placements onto another class as a
// starting layout. Each lesson is taught by the target class's own teacher
// for the subject when that pairing exists; entries that would conflict in
// the target are skipped and reported. Rooms are not carried over, the
// source class still occupies them.
func (s *TimetableService) CopyTimetable(ctx context.Context, fromClassID, toClassID string) (*CopyTimetableResult, error) {
	if fromClassID == "" || toClassID == "" || fromClassID == toClassID {
		return nil, appErrors.Clone(appErrors.ErrValidation, "source and target classes must be distinct")
	}

	source, err := s.entries.ListDetailByClass(ctx, fromClassID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list source timetable")
	}

	result := &CopyTimetableResult{}
	for _, e := range source {
		teacherID := e.TeacherID
		if assignment, err := s.assignments.FindByClassAndSubject(ctx, toClassID, e.SubjectID); err == nil {
			teacherID = assignment.TeacherID
		} else if !errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve target class subject")
		}

		req := PlacementRequest{
			ClassID:   toClassID,
			SubjectID: e.SubjectID,
			TeacherID: teacherID,
			PeriodID:  e.PeriodID,
			Weekday:   int(e.Weekday),
			IsDouble:  e.IsDouble,
		}
		if _, err := s.CreateEntry(ctx, req); err != nil {
			var conflict *timetable.Conflict
			if errors.As(err, &conflict) {
				result.Skipped++
				result.Conflicts = append(result.Conflicts, *conflict)
				continue
			}
			return nil, err
		}
		result.Copied++
	}
	return result, nil
}

// prepareCandidate validates the request, loads the period catalog and
// rejects placements on unknown or break periods.
func (s *TimetableService) prepareCandidate(ctx context.Context, req PlacementRequest, excludeEntryID string) (*timetable.Candidate, *timetable.Catalog, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid placement payload")
	}

	catalog, err := s.loadCatalog(ctx)
	if err != nil {
		return nil, nil, err
	}

	cand, err := buildCandidate(catalog, req, excludeEntryID)
	if err != nil {
		return nil, nil, err
	}
	return cand, catalog, nil
}

func buildCandidate(catalog *timetable.Catalog, req PlacementRequest, excludeEntryID string) (*timetable.Candidate, error) {
	period, ok := catalog.Get(req.PeriodID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "period does not exist or is inactive")
	}
	if period.IsBreak {
		return nil, appErrors.Clone(appErrors.ErrValidation, "lessons cannot be placed on a break period")
	}

	return &timetable.Candidate{
		ClassID:        req.ClassID,
		SubjectID:      req.SubjectID,
		TeacherID:      req.TeacherID,
		PeriodID:       req.PeriodID,
		Weekday:        models.Weekday(req.Weekday),
		IsDouble:       req.IsDouble,
		ClassroomID:    req.ClassroomID,
		ExcludeEntryID: excludeEntryID,
	}, nil
}

func (s *TimetableService) loadCatalog(ctx context.Context) (*timetable.Catalog, error) {
	periods, err := s.periods.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load period catalog")
	}
	return timetable.NewCatalog(periods), nil
}

// loadSlotIndex snapshots the schedules a candidate must be checked
// against. With a transaction the reads run under the placement locks.
func (s *TimetableService) loadSlotIndex(ctx context.Context, tx *sqlx.Tx, cand timetable.Candidate) (*timetable.SlotIndex, error) {
	idx := &timetable.SlotIndex{}
	var err error

	if tx != nil {
		idx.ClassDay, err = s.entries.ListDetailByClassWeekdayTx(ctx, tx, cand.ClassID, cand.Weekday)
	} else {
		idx.ClassDay, err = s.entries.ListDetailByClassWeekday(ctx, cand.ClassID, cand.Weekday)
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class schedule")
	}

	if tx != nil {
		idx.TeacherDay, err = s.entries.ListDetailByTeacherWeekdayTx(ctx, tx, cand.TeacherID, cand.Weekday)
	} else {
		idx.TeacherDay, err = s.entries.ListDetailByTeacherWeekday(ctx, cand.TeacherID, cand.Weekday)
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher schedule")
	}

	if cand.ClassroomID != "" {
		if tx != nil {
			idx.RoomDay, err = s.entries.ListDetailByRoomWeekdayTx(ctx, tx, cand.ClassroomID, cand.Weekday)
		} else {
			idx.RoomDay, err = s.entries.ListDetailByRoomWeekday(ctx, cand.ClassroomID, cand.Weekday)
		}
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load room schedule")
		}
	}

	return idx, nil
}

// lockKeys derives the advisory lock keys for every teacher and room slot
// the candidate would occupy. Keys are sorted so concurrent placements
// acquire them in the same order.
func (s *TimetableService) lockKeys(catalog *timetable.Catalog, cand timetable.Candidate) []int64 {
	periodIDs := []string{cand.PeriodID}
	if cand.IsDouble {
		if next, ok := catalog.Next(cand.PeriodID); ok {
			periodIDs = append(periodIDs, next.ID)
		}
	}

	keys := make([]int64, 0, 2*len(periodIDs))
	for _, pid := range periodIDs {
		keys = append(keys, placementLockKey("teacher", cand.Weekday, pid, cand.TeacherID))
		if cand.ClassroomID != "" {
			keys = append(keys, placementLockKey("room", cand.Weekday, pid, cand.ClassroomID))
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func placementLockKey(kind string, weekday models.Weekday, periodID, resourceID string) int64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s:%d:%s:%s", kind, weekday, periodID, resourceID)
	return int64(h.Sum64())
}

// resolveAssignment returns the (class, subject) pairing, creating it when
// absent. A differing teacher overwrites the teacher of record, which
// relabels every existing entry for the pair.
func (s *TimetableService) resolveAssignment(ctx context.Context, tx *sqlx.Tx, classID, subjectID, teacherID string) (*models.ClassSubject, error) {
	assignment, err := s.assignments.FindByClassAndSubjectTx(ctx, tx, classID, subjectID)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve class subject")
		}
		assignment = &models.ClassSubject{ClassID: classID, SubjectID: subjectID, TeacherID: teacherID}
		if err := s.assignments.CreateTx(ctx, tx, assignment); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create class subject")
		}
		return assignment, nil
	}

	if assignment.TeacherID != teacherID {
		if err := s.assignments.UpdateTeacherTx(ctx, tx, assignment.ID, teacherID); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update class subject teacher")
		}
		assignment.TeacherID = teacherID
	}
	return assignment, nil
}

func (s *TimetableService) findDetail(ctx context.Context, id string) (*models.TimetableEntryDetail, error) {
	detail, err := s.entries.FindDetailByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "timetable entry not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable entry")
	}
	return detail, nil
}

func (s *TimetableService) invalidateGrid(ctx context.Context, classID string) {
	if !s.cache.Enabled() {
		return
	}
	if err := s.cache.Invalidate(ctx, gridCacheKey(classID)+"*"); err != nil {
		s.logger.Warn("failed to invalidate grid cache", zap.String("class_id", classID), zap.Error(err))
	}
}

func (s *TimetableService) recordValidation(conflict *timetable.Conflict) {
	if s.metrics == nil {
		return
	}
	reason := ""
	if conflict != nil {
		reason = string(conflict.Reason)
	}
	s.metrics.RecordValidation(reason)
}

func wrapConflict(conflict *timetable.Conflict) error {
	return appErrors.Wrap(conflict, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, conflict.Message)
}

func optionalID(id string) *string {
	if id == "" {
		return nil
	}
	return &id
}
