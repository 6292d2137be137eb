package trials

import (
	"context"
	"errors"
	"fmt"

	"github.com/amar4h/rituyog-booking/internal/domain"
	trialRepo "github.com/amar4h/rituyog-booking/internal/infra/storage/trial"
)

// Service resolves trial bookings. Outcomes are plain state transitions
// that free the seat for the date and move the lead along the funnel; they
// never touch capacity.
type Service struct {
	trialRepo TrialRepository
	leadRepo  LeadRepository
	txManager TransactionManager
	logger    Logger
}

// NewService creates a trials service.
func NewService(
	trialRepo TrialRepository,
	leadRepo LeadRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		trialRepo: trialRepo,
		leadRepo:  leadRepo,
		txManager: txManager,
		logger:    logger,
	}
}

// MarkAttended records that the lead showed up.
func (s *Service) MarkAttended(ctx context.Context, id int64) (*domain.TrialBooking, error) {
	return s.resolve(ctx, "MarkAttended", id, domain.TrialAttended, domain.LeadTrialAttended)
}

// MarkNoShow records that the lead did not show up.
func (s *Service) MarkNoShow(ctx context.Context, id int64) (*domain.TrialBooking, error) {
	return s.resolve(ctx, "MarkNoShow", id, domain.TrialNoShow, domain.LeadTrialNoShow)
}

// resolve transitions a pending or confirmed trial and stamps the matching
// status onto the lead, both in one transaction.
func (s *Service) resolve(ctx context.Context, op string, id int64, trialStatus domain.TrialStatus, leadStatus domain.LeadStatus) (*domain.TrialBooking, error) {
	s.logger.Info("%s: trial=%d", op, id)

	var result *domain.TrialBooking

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		trial, err := s.getTrial(txCtx, op, id)
		if err != nil {
			return err
		}

		if !trial.CanTransition() {
			s.logger.Warn("%s: trial id=%d has status %s", op, id, trial.Status)
			return fmt.Errorf("%w: trial status is %s", ErrInvalidTransition, trial.Status)
		}

		if err := s.trialRepo.UpdateStatus(txCtx, id, trialStatus); err != nil {
			s.logger.Error("%s: failed to update trial id=%d: %v", op, id, err)
			return fmt.Errorf("%w: failed to update trial: %v", ErrInternal, err)
		}

		if err := s.leadRepo.UpdateStatus(txCtx, trial.LeadID, leadStatus); err != nil {
			s.logger.Error("%s: failed to update lead id=%d: %v", op, trial.LeadID, err)
			return fmt.Errorf("%w: failed to update lead: %v", ErrInternal, err)
		}

		trial.Status = trialStatus
		result = trial
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("%s: trial id=%d resolved as %s", op, id, trialStatus)
	return result, nil
}

// Cancel releases the seat before the trial date. The lead returns to the
// top of the funnel; a cancelled trial does not count against the limit.
func (s *Service) Cancel(ctx context.Context, id int64, reason string) (*domain.TrialBooking, error) {
	s.logger.Info("Cancel: trial=%d", id)

	if reason == "" {
		return nil, fmt.Errorf("%w: reason is required", ErrInvalidInput)
	}

	var result *domain.TrialBooking

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		trial, err := s.getTrial(txCtx, "Cancel", id)
		if err != nil {
			return err
		}

		if !trial.CanTransition() {
			s.logger.Warn("Cancel: trial id=%d has status %s", id, trial.Status)
			return fmt.Errorf("%w: trial status is %s", ErrInvalidTransition, trial.Status)
		}

		if err := s.trialRepo.Cancel(txCtx, id, reason); err != nil {
			s.logger.Error("Cancel: failed to cancel trial id=%d: %v", id, err)
			return fmt.Errorf("%w: failed to cancel trial: %v", ErrInternal, err)
		}

		if err := s.leadRepo.UpdateStatus(txCtx, trial.LeadID, domain.LeadNew); err != nil {
			s.logger.Error("Cancel: failed to update lead id=%d: %v", trial.LeadID, err)
			return fmt.Errorf("%w: failed to update lead: %v", ErrInternal, err)
		}

		trial.Status = domain.TrialCancelled
		trial.CancellationReason = &reason
		result = trial
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Cancel: trial id=%d cancelled", id)
	return result, nil
}

func (s *Service) getTrial(ctx context.Context, op string, id int64) (*domain.TrialBooking, error) {
	trial, err := s.trialRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, trialRepo.ErrTrialNotFound) {
			s.logger.Warn("%s: trial id=%d not found", op, id)
			return nil, ErrTrialNotFound
		}
		s.logger.Error("%s: repository error for trial id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return trial, nil
}
