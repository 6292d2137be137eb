package book_trial

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amar4h/rituyog-booking/internal/domain"
	memberRepo "github.com/amar4h/rituyog-booking/internal/infra/storage/member"
	subscriptionRepo "github.com/amar4h/rituyog-booking/internal/infra/storage/subscription"
	"github.com/amar4h/rituyog-booking/pkg/dates"
)

type fakeLeadRepo struct {
	lead          *domain.Lead
	scheduledDate dates.DateOnly
	scheduledSlot int64
}

func (f *fakeLeadRepo) GetByID(context.Context, int64) (*domain.Lead, error) {
	return f.lead, nil
}

func (f *fakeLeadRepo) MarkTrialScheduled(_ context.Context, _ int64, date dates.DateOnly, slotID int64) error {
	f.scheduledDate = date
	f.scheduledSlot = slotID
	return nil
}

type fakeTrialRepo struct {
	completed int
	hasOnDate bool
	created   *domain.TrialBooking
}

func (f *fakeTrialRepo) Create(_ context.Context, t *domain.TrialBooking) (*domain.TrialBooking, error) {
	out := *t
	out.ID = 61
	out.CreatedAt = time.Now()
	f.created = &out
	return &out, nil
}

func (f *fakeTrialRepo) CountCompletedByLead(context.Context, int64) (int, error) {
	return f.completed, nil
}

func (f *fakeTrialRepo) HasOccupyingOnDate(context.Context, int64, dates.DateOnly) (bool, error) {
	return f.hasOnDate, nil
}

type fakeMemberRepo struct {
	member *domain.Member
}

func (f *fakeMemberRepo) GetByEmail(context.Context, string) (*domain.Member, error) {
	if f.member == nil {
		return nil, memberRepo.ErrMemberNotFound
	}
	return f.member, nil
}

type fakeSubscriptionRepo struct {
	covering *domain.MembershipSubscription
}

func (f *fakeSubscriptionRepo) GetActiveOnDate(context.Context, int64, dates.DateOnly) (*domain.MembershipSubscription, error) {
	if f.covering == nil {
		return nil, subscriptionRepo.ErrSubscriptionNotFound
	}
	return f.covering, nil
}

type fakeSlotRepo struct {
	slot *domain.SessionSlot
}

func (f *fakeSlotRepo) GetByID(context.Context, int64) (*domain.SessionSlot, error) {
	return f.slot, nil
}

type fakeSettingsRepo struct {
	maxTrials int
}

func (f *fakeSettingsRepo) GetInt(_ context.Context, _ string, fallback int) (int, error) {
	if f.maxTrials == 0 {
		return fallback, nil
	}
	return f.maxTrials, nil
}

type fakeCapacity struct {
	result *domain.CapacityResult
	called bool
}

func (f *fakeCapacity) CheckDate(context.Context, *domain.SessionSlot, dates.DateOnly, *int64) (*domain.CapacityResult, error) {
	f.called = true
	return f.result, nil
}

type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixture struct {
	leads         *fakeLeadRepo
	trials        *fakeTrialRepo
	members       *fakeMemberRepo
	subscriptions *fakeSubscriptionRepo
	slots         *fakeSlotRepo
	settings      *fakeSettingsRepo
	capacity      *fakeCapacity
	uc            *UseCase
}

func newFixture() *fixture {
	f := &fixture{
		leads: &fakeLeadRepo{
			lead: &domain.Lead{ID: 1, FullName: "Ravi Menon", Email: "ravi@example.com", Status: domain.LeadNew},
		},
		trials:        &fakeTrialRepo{},
		members:       &fakeMemberRepo{},
		subscriptions: &fakeSubscriptionRepo{},
		slots: &fakeSlotRepo{
			slot: &domain.SessionSlot{ID: 3, DisplayName: "7:30 AM batch", Capacity: 10, ExceptionCapacity: 1, IsActive: true},
		},
		settings: &fakeSettingsRepo{},
		capacity: &fakeCapacity{
			result: &domain.CapacityResult{Available: true, CurrentBookings: 4, NormalCapacity: 10, TotalCapacity: 11},
		},
	}

	f.uc = NewUseCase(
		f.leads, f.trials, f.members, f.subscriptions, f.slots,
		f.settings, f.capacity, fakeTxManager{}, nopLogger{},
	)
	return f
}

func baseRequest() *Request {
	return &Request{
		LeadID: 1,
		SlotID: 3,
		// 2025-03-12 is a Wednesday.
		Date: dates.New(2025, time.March, 12),
	}
}

func TestExecuteBooksTrial(t *testing.T) {
	f := newFixture()

	resp, err := f.uc.Execute(context.Background(), baseRequest())
	require.NoError(t, err)

	assert.Equal(t, int64(61), resp.ID)
	assert.Equal(t, string(domain.TrialConfirmed), resp.Status)
	assert.False(t, resp.IsException)

	require.NotNil(t, f.trials.created)
	assert.Equal(t, "2025-03-12", f.leads.scheduledDate.String())
	assert.Equal(t, int64(3), f.leads.scheduledSlot)
}

func TestExecuteRejectsTrialLimit(t *testing.T) {
	f := newFixture()
	f.trials.completed = domain.DefaultMaxTrialsPerLead

	_, err := f.uc.Execute(context.Background(), baseRequest())
	assert.ErrorIs(t, err, ErrTrialLimitReached)
	assert.Nil(t, f.trials.created)
}

func TestExecuteHonorsConfiguredTrialLimit(t *testing.T) {
	f := newFixture()
	f.settings.maxTrials = 5
	f.trials.completed = 3

	_, err := f.uc.Execute(context.Background(), baseRequest())
	require.NoError(t, err)
}

func TestExecuteRejectsDuplicateDate(t *testing.T) {
	f := newFixture()
	f.trials.hasOnDate = true

	_, err := f.uc.Execute(context.Background(), baseRequest())
	assert.ErrorIs(t, err, ErrDuplicateTrial)
}

func TestExecuteRejectsCoveredMember(t *testing.T) {
	f := newFixture()
	f.members.member = &domain.Member{ID: 9, Email: "ravi@example.com"}
	f.subscriptions.covering = &domain.MembershipSubscription{ID: 40, MemberID: 9}

	_, err := f.uc.Execute(context.Background(), baseRequest())
	assert.ErrorIs(t, err, ErrAlreadyMember)
}

func TestExecuteAllowsMatchingMemberWithoutCoverage(t *testing.T) {
	f := newFixture()
	f.members.member = &domain.Member{ID: 9, Email: "ravi@example.com"}

	_, err := f.uc.Execute(context.Background(), baseRequest())
	require.NoError(t, err)
}

func TestExecuteRejectsFullSlot(t *testing.T) {
	f := newFixture()
	f.capacity.result = &domain.CapacityResult{
		Available: false, CurrentBookings: 11, NormalCapacity: 10, TotalCapacity: 11,
		Message: "slot is full",
	}

	_, err := f.uc.Execute(context.Background(), baseRequest())
	assert.ErrorIs(t, err, ErrSlotFull)
}

func TestExecuteExceptionPoolIsOptIn(t *testing.T) {
	f := newFixture()
	f.capacity.result = &domain.CapacityResult{
		Available: true, IsExceptionOnly: true,
		CurrentBookings: 10, NormalCapacity: 10, TotalCapacity: 11,
	}

	// Without the flag the overflow pool is off limits.
	_, err := f.uc.Execute(context.Background(), baseRequest())
	assert.ErrorIs(t, err, ErrSlotFull)

	req := baseRequest()
	req.IsException = true
	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, resp.IsException)
}

func TestExecuteRejectsWeekend(t *testing.T) {
	f := newFixture()
	req := baseRequest()
	// 2025-03-15 is a Saturday.
	req.Date = dates.New(2025, time.March, 15)

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrNotWorkingDay)
	assert.Nil(t, f.trials.created)
}

func TestExecuteRejectsFullSlotOnWeekendAsWeekend(t *testing.T) {
	f := newFixture()
	f.capacity.result = &domain.CapacityResult{
		Available: false, CurrentBookings: 11, NormalCapacity: 10, TotalCapacity: 11,
		Message: "slot is full",
	}
	req := baseRequest()
	// 2025-03-15 is a Saturday. The weekend rule wins over capacity.
	req.Date = dates.New(2025, time.March, 15)

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrNotWorkingDay)
	assert.NotErrorIs(t, err, ErrSlotFull)
}

func TestExecuteRejectsInactiveSlot(t *testing.T) {
	f := newFixture()
	f.slots.slot.IsActive = false

	_, err := f.uc.Execute(context.Background(), baseRequest())
	assert.ErrorIs(t, err, ErrSlotInactive)
}
