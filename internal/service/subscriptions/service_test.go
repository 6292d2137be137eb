package subscriptions

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amar4h/rituyog-booking/internal/domain"
	subscriptionRepo "github.com/amar4h/rituyog-booking/internal/infra/storage/subscription"
	"github.com/amar4h/rituyog-booking/pkg/dates"
)

type fakeRepo struct {
	sub *domain.MembershipSubscription
}

func (f *fakeRepo) GetByID(context.Context, int64) (*domain.MembershipSubscription, error) {
	if f.sub == nil {
		return nil, subscriptionRepo.ErrSubscriptionNotFound
	}
	out := *f.sub
	return &out, nil
}

func (f *fakeRepo) GetByMember(context.Context, int64, []domain.SubscriptionStatus) ([]*domain.MembershipSubscription, error) {
	if f.sub == nil {
		return nil, nil
	}
	return []*domain.MembershipSubscription{f.sub}, nil
}

func (f *fakeRepo) ApplyExtension(_ context.Context, _ int64, endDate dates.DateOnly, extensionDays int, notes *string) error {
	f.sub.EndDate = endDate
	f.sub.ExtensionDays = extensionDays
	f.sub.Notes = notes
	return nil
}

func (f *fakeRepo) ApplyExtraDays(_ context.Context, _ int64, endDate dates.DateOnly, extraDays int, reason *string) error {
	f.sub.EndDate = endDate
	f.sub.ExtraDays = extraDays
	f.sub.ExtraDaysReason = reason
	return nil
}

type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newService(sub *domain.MembershipSubscription) (*Service, *fakeRepo) {
	repo := &fakeRepo{sub: sub}
	return NewService(repo, fakeTxManager{}, nopLogger{}), repo
}

func baseSubscription() *domain.MembershipSubscription {
	return &domain.MembershipSubscription{
		ID:        40,
		MemberID:  1,
		StartDate: dates.New(2025, time.March, 1),
		EndDate:   dates.New(2025, time.March, 31),
		Status:    domain.SubscriptionActive,
	}
}

func TestExtendMovesEndDateAndAccumulates(t *testing.T) {
	svc, repo := newService(baseSubscription())

	resp, err := svc.Extend(context.Background(), 40, 7, nil)
	require.NoError(t, err)
	assert.Equal(t, "2025-04-07", resp.EndDate.String())
	assert.Equal(t, 7, resp.ExtensionDays)

	resp, err = svc.Extend(context.Background(), 40, 3, nil)
	require.NoError(t, err)
	assert.Equal(t, "2025-04-10", resp.EndDate.String())
	assert.Equal(t, 10, resp.ExtensionDays)

	require.NotNil(t, repo.sub.Notes)
	assert.Contains(t, *repo.sub.Notes, "extended by 7 days")
	assert.Contains(t, *repo.sub.Notes, "extended by 3 days")
}

func TestExtendRejectsNonPositiveDays(t *testing.T) {
	svc, _ := newService(baseSubscription())

	_, err := svc.Extend(context.Background(), 40, 0, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Extend(context.Background(), 40, -5, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExtendRejectsCancelled(t *testing.T) {
	sub := baseSubscription()
	sub.Status = domain.SubscriptionCancelled
	svc, _ := newService(sub)

	_, err := svc.Extend(context.Background(), 40, 7, nil)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestSetExtraDaysIsSetAbsolute(t *testing.T) {
	svc, _ := newService(baseSubscription())

	// 0 -> 5 pushes the end date out by five days.
	resp, err := svc.SetExtraDays(context.Background(), 40, 5, nil)
	require.NoError(t, err)
	assert.Equal(t, "2025-04-05", resp.EndDate.String())
	assert.Equal(t, 5, resp.ExtraDays)

	// Repeating the same total leaves the end date unchanged.
	resp, err = svc.SetExtraDays(context.Background(), 40, 5, nil)
	require.NoError(t, err)
	assert.Equal(t, "2025-04-05", resp.EndDate.String())

	// Lowering the total pulls the end date back by the difference.
	resp, err = svc.SetExtraDays(context.Background(), 40, 2, nil)
	require.NoError(t, err)
	assert.Equal(t, "2025-04-02", resp.EndDate.String())
	assert.Equal(t, 2, resp.ExtraDays)
}

func TestSetExtraDaysRejectsNegativeTotal(t *testing.T) {
	svc, _ := newService(baseSubscription())

	_, err := svc.SetExtraDays(context.Background(), 40, -1, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetByIDNotFound(t *testing.T) {
	svc, _ := newService(nil)

	_, err := svc.GetByID(context.Background(), 40)
	assert.ErrorIs(t, err, ErrSubscriptionNotFound)
}
