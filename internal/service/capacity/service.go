// Package capacity implements the slot capacity model: distinct-member
// occupancy of a slot over a date window and its classification into
// available, exception-only or full.
package capacity

import (
	"context"
	"errors"
	"fmt"

	"github.com/samber/lo"

	"github.com/amar4h/rituyog-booking/internal/domain"
	slotRepo "github.com/amar4h/rituyog-booking/internal/infra/storage/slot"
	"github.com/amar4h/rituyog-booking/pkg/dates"
)

// Service computes slot occupancy and classification.
type Service struct {
	subscriptionRepo SubscriptionRepository
	trialRepo        TrialRepository
	slotRepo         SlotRepository
	logger           Logger
}

// NewService creates a capacity service.
func NewService(
	subscriptionRepo SubscriptionRepository,
	trialRepo TrialRepository,
	slotRepo SlotRepository,
	logger Logger,
) *Service {
	return &Service{
		subscriptionRepo: subscriptionRepo,
		trialRepo:        trialRepo,
		slotRepo:         slotRepo,
		logger:           logger,
	}
}

// CheckWindow classifies a slot's occupancy over an inclusive date range.
// Occupancy is the number of distinct members holding a seat-occupying
// subscription that overlaps the window: a renewal (two rows for the same
// member, old expiring plus new starting) counts once. When the caller is
// renewing excludeMemberID, that member is left out entirely so a renewal
// never competes with itself for a seat.
func (s *Service) CheckWindow(ctx context.Context, slot *domain.SessionSlot, start, end dates.DateOnly, excludeMemberID *int64) (*domain.CapacityResult, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("%w: %s..%s", ErrInvalidWindow, start, end)
	}

	subs, err := s.subscriptionRepo.GetBySlotOverlapping(ctx, slot.ID, start, end, domain.CountedSubscriptionStatuses)
	if err != nil {
		s.logger.Error("CheckWindow: failed to load subscriptions for slot=%d: %v", slot.ID, err)
		return nil, fmt.Errorf("%w: failed to load subscriptions: %v", ErrInternal, err)
	}

	memberIDs := lo.Uniq(lo.Map(subs, func(sub *domain.MembershipSubscription, _ int) int64 {
		return sub.MemberID
	}))
	if excludeMemberID != nil {
		memberIDs = lo.Without(memberIDs, *excludeMemberID)
	}

	return classify(slot, len(memberIDs)), nil
}

// CheckDate classifies a slot's occupancy on one calendar date. On top of
// the distinct-member subscription count, pending and confirmed trial
// bookings for that date hold seats too.
func (s *Service) CheckDate(ctx context.Context, slot *domain.SessionSlot, date dates.DateOnly, excludeMemberID *int64) (*domain.CapacityResult, error) {
	result, err := s.CheckWindow(ctx, slot, date, date, excludeMemberID)
	if err != nil {
		return nil, err
	}

	trials, err := s.trialRepo.CountOccupyingBySlotDate(ctx, slot.ID, date)
	if err != nil {
		s.logger.Error("CheckDate: failed to count trials for slot=%d date=%s: %v", slot.ID, date, err)
		return nil, fmt.Errorf("%w: failed to count trial bookings: %v", ErrInternal, err)
	}

	return classify(slot, result.CurrentBookings+trials), nil
}

// CheckSlot is the read-path entry: it resolves the slot itself and
// dispatches to the single-date or window check.
func (s *Service) CheckSlot(ctx context.Context, slotID int64, start, end dates.DateOnly, excludeMemberID *int64) (*domain.CapacityResult, error) {
	slot, err := s.slotRepo.GetByID(ctx, slotID)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			return nil, ErrSlotNotFound
		}
		s.logger.Error("CheckSlot: failed to get slot id=%d: %v", slotID, err)
		return nil, fmt.Errorf("%w: failed to get slot: %v", ErrInternal, err)
	}

	if !slot.IsActive {
		return nil, ErrSlotInactive
	}

	if start.Equal(end) {
		return s.CheckDate(ctx, slot, start, excludeMemberID)
	}
	return s.CheckWindow(ctx, slot, start, end, excludeMemberID)
}

// SlotOccupancy pairs a slot with its capacity classification for one date.
type SlotOccupancy struct {
	Slot   *domain.SessionSlot
	Result *domain.CapacityResult
}

// ListActiveWithOccupancy returns every active slot with its occupancy on
// the given date. Feeds the slot directory shown by the booking UIs.
func (s *Service) ListActiveWithOccupancy(ctx context.Context, date dates.DateOnly) ([]SlotOccupancy, error) {
	slots, err := s.slotRepo.ListActive(ctx)
	if err != nil {
		s.logger.Error("ListActiveWithOccupancy: failed to list slots: %v", err)
		return nil, fmt.Errorf("%w: failed to list slots: %v", ErrInternal, err)
	}

	out := make([]SlotOccupancy, 0, len(slots))
	for _, slot := range slots {
		result, err := s.CheckDate(ctx, slot, date, nil)
		if err != nil {
			return nil, err
		}
		out = append(out, SlotOccupancy{Slot: slot, Result: result})
	}

	return out, nil
}

// classify maps an occupancy count onto the capacity pools:
// below normal capacity the slot is open, between normal and total only the
// exception pool remains, at or above total the slot is full.
func classify(slot *domain.SessionSlot, current int) *domain.CapacityResult {
	normal := slot.Capacity
	total := slot.TotalCapacity()

	result := &domain.CapacityResult{
		CurrentBookings: current,
		NormalCapacity:  normal,
		TotalCapacity:   total,
	}

	switch {
	case current < normal:
		result.Available = true
		result.Message = fmt.Sprintf("slot %q has open seats (%d/%d)", slot.DisplayName, current, normal)
	case current < total:
		result.Available = true
		result.IsExceptionOnly = true
		result.Message = fmt.Sprintf("slot %q is at normal capacity, next booking uses an exception seat (%d/%d)", slot.DisplayName, current, total)
	default:
		result.Message = fmt.Sprintf("slot %q is full (%d booked, %d normal, %d total)", slot.DisplayName, current, normal, total)
	}

	return result
}
