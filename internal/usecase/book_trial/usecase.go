package book_trial

import (
	"context"
	"errors"
	"fmt"

	"github.com/amar4h/rituyog-booking/internal/domain"
	leadRepo "github.com/amar4h/rituyog-booking/internal/infra/storage/lead"
	memberRepo "github.com/amar4h/rituyog-booking/internal/infra/storage/member"
	slotRepo "github.com/amar4h/rituyog-booking/internal/infra/storage/slot"
	subscriptionRepo "github.com/amar4h/rituyog-booking/internal/infra/storage/subscription"
	"github.com/amar4h/rituyog-booking/pkg/dates"
)

// UseCase books a trial session for a lead. Eligibility checks run in a
// fixed order so the caller always sees the most specific rejection.
type UseCase struct {
	leadRepo         LeadRepository
	trialRepo        TrialRepository
	memberRepo       MemberRepository
	subscriptionRepo SubscriptionRepository
	slotRepo         SlotRepository
	settingsRepo     SettingsRepository
	capacity         CapacityChecker
	txManager        TransactionManager
	logger           Logger
}

// NewUseCase creates the use case.
func NewUseCase(
	leadRepo LeadRepository,
	trialRepo TrialRepository,
	memberRepo MemberRepository,
	subscriptionRepo SubscriptionRepository,
	slotRepo SlotRepository,
	settingsRepo SettingsRepository,
	capacity CapacityChecker,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		leadRepo:         leadRepo,
		trialRepo:        trialRepo,
		memberRepo:       memberRepo,
		subscriptionRepo: subscriptionRepo,
		slotRepo:         slotRepo,
		settingsRepo:     settingsRepo,
		capacity:         capacity,
		txManager:        txManager,
		logger:           logger,
	}
}

// Execute books the trial. Eligibility checks that only read per-lead data
// run before the transaction; the capacity check, the booking insert and
// the lead update share one serializable transaction keyed on the locked
// slot row.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("BookTrial: lead=%d, slot=%d, date=%s, exception=%t",
		req.LeadID, req.SlotID, req.Date, req.IsException)

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("BookTrial: validation failed: %v", err)
		return nil, err
	}

	// 1. Lead exists.
	lead, err := uc.leadRepo.GetByID(ctx, req.LeadID)
	if err != nil {
		if errors.Is(err, leadRepo.ErrLeadNotFound) {
			uc.logger.Warn("BookTrial: lead id=%d not found", req.LeadID)
			return nil, ErrLeadNotFound
		}
		uc.logger.Error("BookTrial: failed to get lead id=%d: %v", req.LeadID, err)
		return nil, fmt.Errorf("%w: failed to get lead: %v", ErrInternal, err)
	}

	// 2. Completed trials stay under the policy limit.
	maxTrials, err := uc.settingsRepo.GetInt(ctx, domain.SettingMaxTrialsPerLead, domain.DefaultMaxTrialsPerLead)
	if err != nil {
		uc.logger.Error("BookTrial: failed to read trial limit setting: %v", err)
		return nil, fmt.Errorf("%w: failed to read settings: %v", ErrInternal, err)
	}

	completed, err := uc.trialRepo.CountCompletedByLead(ctx, req.LeadID)
	if err != nil {
		uc.logger.Error("BookTrial: failed to count completed trials for lead id=%d: %v", req.LeadID, err)
		return nil, fmt.Errorf("%w: failed to count trials: %v", ErrInternal, err)
	}

	if completed >= maxTrials {
		uc.logger.Warn("BookTrial: lead id=%d used %d/%d trials", req.LeadID, completed, maxTrials)
		return nil, fmt.Errorf("%w: %d of %d used", ErrTrialLimitReached, completed, maxTrials)
	}

	// 3. No second trial on the same date.
	hasTrial, err := uc.trialRepo.HasOccupyingOnDate(ctx, req.LeadID, req.Date)
	if err != nil {
		uc.logger.Error("BookTrial: failed to check existing trials for lead id=%d: %v", req.LeadID, err)
		return nil, fmt.Errorf("%w: failed to check existing trials: %v", ErrInternal, err)
	}

	if hasTrial {
		uc.logger.Warn("BookTrial: lead id=%d already has a trial on %s", req.LeadID, req.Date)
		return nil, ErrDuplicateTrial
	}

	// 4. A lead whose email belongs to a covered member books classes, not
	// trials.
	if err := uc.checkNotMember(ctx, lead, req.Date); err != nil {
		return nil, err
	}

	var result *domain.TrialBooking

	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 5. Capacity on the date, against the locked slot row.
		slot, err := uc.slotRepo.GetByID(txCtx, req.SlotID)
		if err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotFound) {
				uc.logger.Warn("BookTrial: slot id=%d not found", req.SlotID)
				return ErrSlotNotFound
			}
			uc.logger.Error("BookTrial: failed to get slot id=%d: %v", req.SlotID, err)
			return fmt.Errorf("%w: failed to get slot: %v", ErrInternal, err)
		}

		if !slot.IsActive {
			uc.logger.Warn("BookTrial: slot id=%d is not active", req.SlotID)
			return ErrSlotInactive
		}

		capResult, err := uc.capacity.CheckDate(txCtx, slot, req.Date, nil)
		if err != nil {
			uc.logger.Error("BookTrial: capacity check failed for slot id=%d: %v", req.SlotID, err)
			return fmt.Errorf("%w: capacity check failed: %v", ErrInternal, err)
		}

		if !capResult.Available {
			uc.logger.Warn("BookTrial: slot id=%d full on %s, %d/%d",
				req.SlotID, req.Date, capResult.CurrentBookings, capResult.TotalCapacity)
			return fmt.Errorf("%w: %s", ErrSlotFull, capResult.Message)
		}

		// The overflow pool is opt-in for trials.
		if capResult.IsExceptionOnly && !req.IsException {
			uc.logger.Warn("BookTrial: slot id=%d only has exception seats on %s, %d/%d",
				req.SlotID, req.Date, capResult.CurrentBookings, capResult.TotalCapacity)
			return fmt.Errorf("%w: only exception seats left, %s", ErrSlotFull, capResult.Message)
		}

		created, err := uc.trialRepo.Create(txCtx, &domain.TrialBooking{
			LeadID:      req.LeadID,
			SlotID:      req.SlotID,
			Date:        req.Date,
			Status:      domain.TrialConfirmed,
			IsException: req.IsException || capResult.IsExceptionOnly,
		})
		if err != nil {
			uc.logger.Error("BookTrial: failed to create trial booking: %v", err)
			return fmt.Errorf("%w: failed to create trial booking: %v", ErrInternal, err)
		}

		if err := uc.leadRepo.MarkTrialScheduled(txCtx, req.LeadID, req.Date, req.SlotID); err != nil {
			uc.logger.Error("BookTrial: failed to update lead id=%d: %v", req.LeadID, err)
			return fmt.Errorf("%w: failed to update lead: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("BookTrial: created trial id=%d for lead id=%d on %s", result.ID, req.LeadID, req.Date)

	return &Response{
		ID:          result.ID,
		LeadID:      result.LeadID,
		SlotID:      result.SlotID,
		Date:        result.Date,
		Status:      string(result.Status),
		IsException: result.IsException,
		CreatedAt:   result.CreatedAt,
	}, nil
}

// checkNotMember rejects the booking when the lead's email belongs to a
// member with an active subscription covering the date.
func (uc *UseCase) checkNotMember(ctx context.Context, lead *domain.Lead, date dates.DateOnly) error {
	member, err := uc.memberRepo.GetByEmail(ctx, lead.Email)
	if err != nil {
		if errors.Is(err, memberRepo.ErrMemberNotFound) {
			return nil
		}
		uc.logger.Error("BookTrial: failed to look up member by email for lead id=%d: %v", lead.ID, err)
		return fmt.Errorf("%w: failed to look up member: %v", ErrInternal, err)
	}

	_, err = uc.subscriptionRepo.GetActiveOnDate(ctx, member.ID, date)
	if err != nil {
		if errors.Is(err, subscriptionRepo.ErrSubscriptionNotFound) {
			return nil
		}
		uc.logger.Error("BookTrial: failed to check subscriptions for member id=%d: %v", member.ID, err)
		return fmt.Errorf("%w: failed to check subscriptions: %v", ErrInternal, err)
	}

	uc.logger.Warn("BookTrial: lead id=%d matches member id=%d with coverage on %s", lead.ID, member.ID, date)
	return ErrAlreadyMember
}
