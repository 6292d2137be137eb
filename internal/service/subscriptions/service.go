package subscriptions

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/amar4h/rituyog-booking/internal/domain"
	subscriptionRepo "github.com/amar4h/rituyog-booking/internal/infra/storage/subscription"
	"github.com/amar4h/rituyog-booking/internal/service/subscriptions/models"
)

// Service handles subscription reads and the date-arithmetic mutations
// that do not touch slot capacity: extensions and extra days.
type Service struct {
	subscriptionRepo SubscriptionRepository
	txManager        TransactionManager
	logger           Logger
}

// NewService creates a subscriptions service.
func NewService(
	subscriptionRepo SubscriptionRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		subscriptionRepo: subscriptionRepo,
		txManager:        txManager,
		logger:           logger,
	}
}

// GetByID returns one subscription.
func (s *Service) GetByID(ctx context.Context, id int64) (*models.SubscriptionResponse, error) {
	sub, err := s.getSubscription(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}
	return models.FromDomain(sub), nil
}

// GetByMember returns all of a member's subscriptions, newest range first.
func (s *Service) GetByMember(ctx context.Context, memberID int64) (*models.SubscriptionListResponse, error) {
	subs, err := s.subscriptionRepo.GetByMember(ctx, memberID, nil)
	if err != nil {
		s.logger.Error("GetByMember: repository error for member=%d: %v", memberID, err)
		return nil, fmt.Errorf("%w: GetByMember - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainList(subs), nil
}

// Extend pushes the end date out by the given number of days and records
// the extension in the accumulating counter and the notes.
func (s *Service) Extend(ctx context.Context, id int64, days int, reason *string) (*models.SubscriptionResponse, error) {
	s.logger.Info("Extend: subscription=%d, days=%d", id, days)

	if days <= 0 {
		return nil, fmt.Errorf("%w: days must be positive", ErrInvalidInput)
	}

	var result *domain.MembershipSubscription

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		sub, err := s.getSubscription(txCtx, "Extend", id)
		if err != nil {
			return err
		}

		if sub.Status == domain.SubscriptionCancelled {
			s.logger.Warn("Extend: subscription id=%d is cancelled", id)
			return fmt.Errorf("%w: subscription is cancelled", ErrInvalidTransition)
		}

		newEnd := sub.EndDate.AddDays(days)
		notes := appendNote(sub.Notes, fmt.Sprintf("extended by %d days to %s", days, newEnd), reason)

		if err := s.subscriptionRepo.ApplyExtension(txCtx, id, newEnd, sub.ExtensionDays+days, notes); err != nil {
			s.logger.Error("Extend: failed to update subscription id=%d: %v", id, err)
			return fmt.Errorf("%w: Extend - repository error: %v", ErrInternal, err)
		}

		sub.EndDate = newEnd
		sub.ExtensionDays += days
		sub.Notes = notes
		result = sub
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Extend: subscription id=%d now ends %s", id, result.EndDate)
	return models.FromDomain(result), nil
}

// SetExtraDays sets the authoritative extra-days total. The end date moves
// by the difference to the previous total, so repeating a value is a no-op
// and lowering it pulls the end date back.
func (s *Service) SetExtraDays(ctx context.Context, id int64, newTotal int, reason *string) (*models.SubscriptionResponse, error) {
	s.logger.Info("SetExtraDays: subscription=%d, total=%d", id, newTotal)

	if newTotal < 0 {
		return nil, fmt.Errorf("%w: extra days total must not be negative", ErrInvalidInput)
	}

	var result *domain.MembershipSubscription

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		sub, err := s.getSubscription(txCtx, "SetExtraDays", id)
		if err != nil {
			return err
		}

		if sub.Status == domain.SubscriptionCancelled {
			s.logger.Warn("SetExtraDays: subscription id=%d is cancelled", id)
			return fmt.Errorf("%w: subscription is cancelled", ErrInvalidTransition)
		}

		delta := newTotal - sub.ExtraDays
		newEnd := sub.EndDate.AddDays(delta)

		if err := s.subscriptionRepo.ApplyExtraDays(txCtx, id, newEnd, newTotal, reason); err != nil {
			s.logger.Error("SetExtraDays: failed to update subscription id=%d: %v", id, err)
			return fmt.Errorf("%w: SetExtraDays - repository error: %v", ErrInternal, err)
		}

		sub.EndDate = newEnd
		sub.ExtraDays = newTotal
		sub.ExtraDaysReason = reason
		result = sub
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("SetExtraDays: subscription id=%d now ends %s with %d extra days", id, result.EndDate, newTotal)
	return models.FromDomain(result), nil
}

func (s *Service) getSubscription(ctx context.Context, op string, id int64) (*domain.MembershipSubscription, error) {
	sub, err := s.subscriptionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, subscriptionRepo.ErrSubscriptionNotFound) {
			s.logger.Warn("%s: subscription id=%d not found", op, id)
			return nil, ErrSubscriptionNotFound
		}
		s.logger.Error("%s: repository error for subscription id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return sub, nil
}

func appendNote(notes *string, line string, reason *string) *string {
	if reason != nil && *reason != "" {
		line += ": " + *reason
	}

	var b strings.Builder
	if notes != nil && *notes != "" {
		b.WriteString(*notes)
		b.WriteString("\n")
	}
	b.WriteString(line)

	out := b.String()
	return &out
}
