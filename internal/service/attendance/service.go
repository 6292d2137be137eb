package attendance

import (
	"context"
	"errors"
	"fmt"

	"github.com/amar4h/rituyog-booking/internal/domain"
	attendanceRepo "github.com/amar4h/rituyog-booking/internal/infra/storage/attendance"
	memberRepo "github.com/amar4h/rituyog-booking/internal/infra/storage/member"
	subscriptionRepo "github.com/amar4h/rituyog-booking/internal/infra/storage/subscription"
	"github.com/amar4h/rituyog-booking/pkg/dates"
)

// MarkRequest carries one attendance mark.
type MarkRequest struct {
	MemberID int64
	SlotID   int64
	Date     dates.DateOnly
	Status   domain.AttendanceStatus
	Notes    *string
}

// Service tracks per-day attendance and keeps the member's classesAttended
// counter in step with the marks. The counter is adjusted by the transition
// delta of each mark, never recomputed from scratch.
type Service struct {
	attendanceRepo   AttendanceRepository
	memberRepo       MemberRepository
	subscriptionRepo SubscriptionRepository
	settingsRepo     SettingsRepository
	txManager        TransactionManager
	timeProvider     TimeProvider
	logger           Logger
}

// NewService creates an attendance service.
func NewService(
	attendanceRepo AttendanceRepository,
	memberRepo MemberRepository,
	subscriptionRepo SubscriptionRepository,
	settingsRepo SettingsRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		attendanceRepo:   attendanceRepo,
		memberRepo:       memberRepo,
		subscriptionRepo: subscriptionRepo,
		settingsRepo:     settingsRepo,
		txManager:        txManager,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// Mark records or updates the attendance for (member, slot, date).
func (s *Service) Mark(ctx context.Context, req *MarkRequest) (*domain.AttendanceRecord, error) {
	s.logger.Info("Mark: member=%d, slot=%d, date=%s, status=%s", req.MemberID, req.SlotID, req.Date, req.Status)

	if err := validateMarkRequest(req); err != nil {
		s.logger.Warn("Mark: validation failed: %v", err)
		return nil, err
	}

	backfillDays, err := s.settingsRepo.GetInt(ctx, domain.SettingAttendanceBackfillDays, domain.DefaultAttendanceBackfillDays)
	if err != nil {
		s.logger.Error("Mark: failed to read backfill setting: %v", err)
		return nil, fmt.Errorf("%w: failed to read settings: %v", ErrInternal, err)
	}

	today := dates.FromTime(s.timeProvider.Now())
	if req.Date.Before(today.AddDays(-backfillDays)) {
		s.logger.Warn("Mark: date %s is more than %d days old", req.Date, backfillDays)
		return nil, fmt.Errorf("%w: %s is more than %d days in the past", ErrStaleDate, req.Date, backfillDays)
	}

	var result *domain.AttendanceRecord

	err = s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		if _, err := s.memberRepo.GetByID(txCtx, req.MemberID); err != nil {
			if errors.Is(err, memberRepo.ErrMemberNotFound) {
				s.logger.Warn("Mark: member id=%d not found", req.MemberID)
				return ErrMemberNotFound
			}
			s.logger.Error("Mark: failed to get member id=%d: %v", req.MemberID, err)
			return fmt.Errorf("%w: failed to get member: %v", ErrInternal, err)
		}

		existing, err := s.attendanceRepo.GetByMemberSlotDate(txCtx, req.MemberID, req.SlotID, req.Date)
		if err != nil && !errors.Is(err, attendanceRepo.ErrAttendanceNotFound) {
			s.logger.Error("Mark: failed to get attendance record: %v", err)
			return fmt.Errorf("%w: failed to get attendance record: %v", ErrInternal, err)
		}

		if existing != nil {
			return s.updateMark(txCtx, existing, req, &result)
		}
		return s.createMark(txCtx, req, &result)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Mark: recorded %s for member id=%d on %s", result.Status, req.MemberID, req.Date)
	return result, nil
}

// updateMark rewrites an existing record and adjusts the counter by the
// present/absent transition delta.
func (s *Service) updateMark(ctx context.Context, existing *domain.AttendanceRecord, req *MarkRequest, out **domain.AttendanceRecord) error {
	if err := s.attendanceRepo.UpdateMark(ctx, existing.ID, req.Status, req.Notes); err != nil {
		s.logger.Error("Mark: failed to update record id=%d: %v", existing.ID, err)
		return fmt.Errorf("%w: failed to update attendance record: %v", ErrInternal, err)
	}

	delta := domain.CounterDelta(
		existing.Status == domain.AttendancePresent,
		req.Status == domain.AttendancePresent,
	)
	if err := s.memberRepo.AddClassesAttended(ctx, req.MemberID, delta); err != nil {
		s.logger.Error("Mark: failed to adjust counter for member id=%d: %v", req.MemberID, err)
		return fmt.Errorf("%w: failed to adjust attendance counter: %v", ErrInternal, err)
	}

	updated := *existing
	updated.Status = req.Status
	updated.Notes = req.Notes
	*out = &updated
	return nil
}

// createMark inserts a new record, snapshotting the subscription active on
// the date, and bumps the counter for a present mark.
func (s *Service) createMark(ctx context.Context, req *MarkRequest, out **domain.AttendanceRecord) error {
	var subscriptionID *int64
	sub, err := s.subscriptionRepo.GetActiveOnDate(ctx, req.MemberID, req.Date)
	if err != nil && !errors.Is(err, subscriptionRepo.ErrSubscriptionNotFound) {
		s.logger.Error("Mark: failed to get subscription for member id=%d: %v", req.MemberID, err)
		return fmt.Errorf("%w: failed to get subscription: %v", ErrInternal, err)
	}
	if sub != nil {
		subscriptionID = &sub.ID
	}

	created, err := s.attendanceRepo.Create(ctx, &domain.AttendanceRecord{
		MemberID:       req.MemberID,
		SlotID:         req.SlotID,
		Date:           req.Date,
		Status:         req.Status,
		SubscriptionID: subscriptionID,
		Notes:          req.Notes,
	})
	if err != nil {
		s.logger.Error("Mark: failed to create attendance record: %v", err)
		return fmt.Errorf("%w: failed to create attendance record: %v", ErrInternal, err)
	}

	delta := domain.CounterDelta(false, req.Status == domain.AttendancePresent)
	if err := s.memberRepo.AddClassesAttended(ctx, req.MemberID, delta); err != nil {
		s.logger.Error("Mark: failed to adjust counter for member id=%d: %v", req.MemberID, err)
		return fmt.Errorf("%w: failed to adjust attendance counter: %v", ErrInternal, err)
	}

	*out = created
	return nil
}

// SummaryForPeriod reports present days against the working days covered by
// the member's subscriptions in the slot. The per-member no-overlap rule
// guarantees the subscription intersections never count a day twice.
func (s *Service) SummaryForPeriod(ctx context.Context, memberID, slotID int64, periodStart, periodEnd dates.DateOnly) (*domain.AttendanceSummary, error) {
	if periodStart.IsZero() || periodEnd.IsZero() || periodEnd.Before(periodStart) {
		return nil, fmt.Errorf("%w: invalid period %s..%s", ErrInvalidInput, periodStart, periodEnd)
	}

	presentDays, err := s.attendanceRepo.CountPresent(ctx, memberID, slotID, periodStart, periodEnd)
	if err != nil {
		s.logger.Error("SummaryForPeriod: failed to count present days for member id=%d: %v", memberID, err)
		return nil, fmt.Errorf("%w: failed to count present days: %v", ErrInternal, err)
	}

	subs, err := s.subscriptionRepo.GetByMemberAndSlot(ctx, memberID, slotID, domain.SummarySubscriptionStatuses)
	if err != nil {
		s.logger.Error("SummaryForPeriod: failed to get subscriptions for member id=%d: %v", memberID, err)
		return nil, fmt.Errorf("%w: failed to get subscriptions: %v", ErrInternal, err)
	}

	totalWorkingDays := 0
	for _, sub := range subs {
		start, end, ok := dates.Intersect(sub.StartDate, sub.EndDate, periodStart, periodEnd)
		if !ok {
			continue
		}
		totalWorkingDays += dates.WorkingDaysInclusive(start, end)
	}

	return &domain.AttendanceSummary{
		MemberID:         memberID,
		SlotID:           slotID,
		PeriodStart:      periodStart,
		PeriodEnd:        periodEnd,
		PresentDays:      presentDays,
		TotalWorkingDays: totalWorkingDays,
	}, nil
}

func validateMarkRequest(req *MarkRequest) error {
	if req.MemberID <= 0 {
		return fmt.Errorf("%w: memberID must be positive", ErrInvalidInput)
	}

	if req.SlotID <= 0 {
		return fmt.Errorf("%w: slotID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.Status != domain.AttendancePresent && req.Status != domain.AttendanceAbsent {
		return fmt.Errorf("%w: status must be present or absent", ErrInvalidInput)
	}

	return nil
}
