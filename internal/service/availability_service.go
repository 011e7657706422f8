package service

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/visitly/availability-api/internal/models"
	"github.com/visitly/availability-api/internal/schedule"
	appErrors "github.com/visitly/availability-api/pkg/errors"
	"github.com/visitly/availability-api/pkg/export"
)

type availabilityRepo interface {
	ListByHost(ctx context.Context, hostID string) ([]models.Availability, error)
	Insert(ctx context.Context, record *models.Availability) error
	Delete(ctx context.Context, id string) error
	DeleteAllByHost(ctx context.Context, hostID string) error
}

type hostFinder interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

type gridCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// SlotInput addresses one grid cell in a save request. Day accepts both
// the long and the short label; Time accepts H:MM, HH:MM and HH:MM:SS.
type SlotInput struct {
	Day  string `json:"day" validate:"required"`
	Time string `json:"time" validate:"required"`
}

// SaveWeeklyRequest carries the full desired selection of a host's weekly
// grid. Saving replaces the recurring selection; slots absent from the
// request are deselected.
type SaveWeeklyRequest struct {
	Slots []SlotInput `json:"slots" validate:"dive"`
}

// AvailabilityService owns the weekly recurring-availability flows: grid
// expansion on read, record-level reconciliation on save, export.
type AvailabilityService struct {
	users     hostFinder
	repo      availabilityRepo
	cache     gridCache
	metrics   *MetricsService
	grid      schedule.Grid
	cacheTTL  time.Duration
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAvailabilityService builds the service. cache and metrics may be nil.
func NewAvailabilityService(users hostFinder, repo availabilityRepo, cache gridCache, metrics *MetricsService, grid schedule.Grid, cacheTTL time.Duration, validate *validator.Validate, logger *zap.Logger) (*AvailabilityService, error) {
	if err := grid.Validate(); err != nil {
		return nil, fmt.Errorf("availability grid: %w", err)
	}
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AvailabilityService{
		users:     users,
		repo:      repo,
		cache:     cache,
		metrics:   metrics,
		grid:      grid,
		cacheTTL:  cacheTTL,
		validator: validate,
		logger:    logger,
	}, nil
}

func gridCacheKey(hostID string) string {
	return "availability:grid:" + hostID
}

// GetWeekly returns a host's stored ranges plus the expanded weekly grid.
// Malformed stored records are skipped and surfaced in the Issues field.
func (s *AvailabilityService) GetWeekly(ctx context.Context, hostID string) (*models.WeeklyGrid, error) {
	if err := s.checkHost(ctx, hostID); err != nil {
		return nil, err
	}

	if s.cache != nil {
		var cached models.WeeklyGrid
		if err := s.cache.Get(ctx, gridCacheKey(hostID), &cached); err == nil {
			s.metrics.ObserveCacheHit()
			return &cached, nil
		}
		s.metrics.ObserveCacheMiss()
	}

	grid, err := s.buildWeekly(ctx, hostID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, gridCacheKey(hostID), grid, s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache weekly grid", zap.String("host_id", hostID), zap.Error(err))
		}
	}
	return grid, nil
}

// SaveWeekly reconciles the host's persisted recurring records against the
// desired selection with per-record writes: kept records are untouched,
// records containing a deselected slot are deleted, and the uncovered
// remainder is inserted as coalesced ranges. There is no rollback; the
// first failing write surfaces to the caller, who retries or reloads.
func (s *AvailabilityService) SaveWeekly(ctx context.Context, hostID string, req SaveWeeklyRequest) (*models.WeeklyGrid, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid availability payload")
	}
	if err := s.checkHost(ctx, hostID); err != nil {
		return nil, err
	}

	desired, err := s.parseSlots(req.Slots)
	if err != nil {
		return nil, err
	}

	records, err := s.repo.ListByHost(ctx, hostID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load availability")
	}

	persisted, recordIDs, purgeIDs, issues := s.parseRecords(records)
	for _, issue := range issues {
		s.logger.Warn("skipping malformed availability record", zap.String("host_id", hostID), zap.Error(issue))
	}

	plan := schedule.Reconcile(desired, persisted, s.grid.SlotMinutes)
	for _, planErr := range plan.Errors {
		s.logger.Warn("reconcile flagged stored record", zap.String("host_id", hostID), zap.Error(planErr))
	}

	// Recurring rows that no longer parse cannot be expanded, so they no
	// longer contribute availability; a save drops them like any other
	// unwanted row.
	for _, id := range purgeIDs {
		if err := s.repo.Delete(ctx, id); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete availability range")
		}
	}
	for _, r := range plan.Delete {
		ids := recordIDs[r]
		if len(ids) == 0 {
			continue
		}
		recordIDs[r] = ids[1:]
		if err := s.repo.Delete(ctx, ids[0]); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete availability range")
		}
	}
	for _, r := range plan.Create {
		record := &models.Availability{
			HostID:      hostID,
			DaysOfWeek:  r.Day.String(),
			StartTime:   r.Start.Backend(),
			EndTime:     r.End.Backend(),
			IsRecurring: true,
		}
		if err := s.repo.Insert(ctx, record); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create availability range")
		}
	}

	s.metrics.ObserveReconcileWrites(len(purgeIDs) + len(plan.Delete) + len(plan.Create))
	s.logger.Info("availability saved",
		zap.String("host_id", hostID),
		zap.Int("kept", len(plan.Keep)),
		zap.Int("deleted", len(plan.Delete)),
		zap.Int("created", len(plan.Create)),
		zap.Int("purged", len(purgeIDs)),
	)

	if s.cache != nil {
		if err := s.cache.DeleteByPattern(ctx, gridCacheKey(hostID)); err != nil {
			s.logger.Warn("failed to invalidate grid cache", zap.String("host_id", hostID), zap.Error(err))
		}
	}

	return s.buildWeekly(ctx, hostID)
}

// ClearWeekly removes every recurring record of a host in one call.
// Specific-date records are untouched.
func (s *AvailabilityService) ClearWeekly(ctx context.Context, hostID string) error {
	if err := s.checkHost(ctx, hostID); err != nil {
		return err
	}
	if err := s.repo.DeleteAllByHost(ctx, hostID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear availability")
	}
	if s.cache != nil {
		if err := s.cache.DeleteByPattern(ctx, gridCacheKey(hostID)); err != nil {
			s.logger.Warn("failed to invalidate grid cache", zap.String("host_id", hostID), zap.Error(err))
		}
	}
	return nil
}

// ExportWeekly renders the host's coalesced weekly ranges as CSV or PDF.
func (s *AvailabilityService) ExportWeekly(ctx context.Context, hostID, format string) ([]byte, string, error) {
	grid, err := s.GetWeekly(ctx, hostID)
	if err != nil {
		return nil, "", err
	}

	dataset := export.Dataset{Headers: []string{"Day", "Start", "End"}}
	for _, rec := range grid.Ranges {
		if !rec.IsRecurring {
			continue
		}
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Day":   rec.DaysOfWeek,
			"Start": rec.StartTime,
			"End":   rec.EndTime,
		})
	}

	switch format {
	case "csv":
		payload, err := export.NewCSVExporter().Render(dataset)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv export")
		}
		return payload, "text/csv", nil
	case "pdf":
		payload, err := export.NewPDFExporter().Render(dataset, "Weekly availability")
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf export")
		}
		return payload, "application/pdf", nil
	default:
		return nil, "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
}

func (s *AvailabilityService) checkHost(ctx context.Context, hostID string) error {
	user, err := s.users.FindByID(ctx, hostID)
	if err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "host not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load host")
	}
	if user.Role != models.RoleHost {
		return appErrors.Clone(appErrors.ErrNotFound, "host not found")
	}
	return nil
}

// parseSlots converts request cells into a slot set. Unlike stored
// records, malformed user input aborts the save outright.
func (s *AvailabilityService) parseSlots(inputs []SlotInput) (schedule.SlotSet, error) {
	desired := schedule.NewSlotSet()
	for _, in := range inputs {
		day, err := schedule.ParseDay(in.Day)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrUnknownDay.Code, appErrors.ErrUnknownDay.Status, fmt.Sprintf("unknown day label %q", in.Day))
		}
		start, err := schedule.ParseTimeOfDay(in.Time)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, fmt.Sprintf("invalid slot time %q", in.Time))
		}
		key := schedule.SlotKey{Day: day, Start: start}
		if err := s.grid.CheckSlot(key); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrSlotOffGrid.Code, appErrors.ErrSlotOffGrid.Status, fmt.Sprintf("slot %s %s is not on the grid", in.Day, in.Time))
		}
		desired.Add(key)
	}
	return desired, nil
}

// parseRecords converts stored rows into engine ranges. Rows that fail to
// parse are reported and skipped; they never abort the batch. Recurring
// rows that fail to parse land on the purge list so a save can drop them;
// specific-date rows are never purged. Duplicate rows with identical
// coordinates keep one ID each, so a delete of the range removes all of
// them.
func (s *AvailabilityService) parseRecords(records []models.Availability) ([]schedule.Range, map[schedule.Range][]string, []string, []error) {
	ranges := make([]schedule.Range, 0, len(records))
	ids := make(map[schedule.Range][]string, len(records))
	var purge []string
	var issues []error

	report := func(rec models.Availability, err error) {
		issues = append(issues, fmt.Errorf("record %s: %w", rec.ID, err))
		if rec.IsRecurring {
			purge = append(purge, rec.ID)
		}
	}

	for _, rec := range records {
		day, err := schedule.ParseDay(rec.DaysOfWeek)
		if err != nil {
			report(rec, err)
			continue
		}
		start, err := schedule.ParseTimeOfDay(rec.StartTime)
		if err != nil {
			report(rec, err)
			continue
		}
		end, err := schedule.ParseTimeOfDay(rec.EndTime)
		if err != nil {
			report(rec, err)
			continue
		}
		r := schedule.Range{Day: day, Start: start, End: end, Recurring: rec.IsRecurring}
		ranges = append(ranges, r)
		ids[r] = append(ids[r], rec.ID)
	}
	return ranges, ids, purge, issues
}

func (s *AvailabilityService) buildWeekly(ctx context.Context, hostID string) (*models.WeeklyGrid, error) {
	records, err := s.repo.ListByHost(ctx, hostID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load availability")
	}

	ranges, _, _, issues := s.parseRecords(records)
	slots, expandErrs := schedule.Expand(ranges, s.grid.SlotMinutes)
	issues = append(issues, expandErrs...)

	grid := &models.WeeklyGrid{HostID: hostID, Ranges: records}
	for _, issue := range issues {
		s.logger.Warn("weekly grid issue", zap.String("host_id", hostID), zap.Error(issue))
		grid.Issues = append(grid.Issues, issue.Error())
	}

	byDay := make(map[schedule.Day][]schedule.TimeOfDay)
	for key := range slots {
		byDay[key.Day] = append(byDay[key.Day], key.Start)
	}
	for _, day := range schedule.Days {
		starts := byDay[day]
		sort.Slice(starts, func(i, j int) bool { return starts[i] < starts[j] })
		times := make([]string, 0, len(starts))
		for _, start := range starts {
			times = append(times, start.String())
		}
		grid.Days = append(grid.Days, models.WeeklyGridDay{
			Day:   day.String(),
			Label: day.Short(),
			Slots: times,
		})
	}
	return grid, nil
}
