package transfer_slot

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amar4h/rituyog-booking/internal/domain"
	assignmentRepo "github.com/amar4h/rituyog-booking/internal/infra/storage/assignment"
	slotRepo "github.com/amar4h/rituyog-booking/internal/infra/storage/slot"
	"github.com/amar4h/rituyog-booking/pkg/dates"
)

type fakeSubscriptionRepo struct {
	sub         *domain.MembershipSubscription
	updatedSlot int64
	updatedName string
	notes       *string
}

func (f *fakeSubscriptionRepo) GetByID(context.Context, int64) (*domain.MembershipSubscription, error) {
	return f.sub, nil
}

func (f *fakeSubscriptionRepo) UpdateSlot(_ context.Context, _ int64, slotID int64, slotName string, notes *string) error {
	f.updatedSlot = slotID
	f.updatedName = slotName
	f.notes = notes
	return nil
}

type fakeSlotRepo struct {
	slots map[int64]*domain.SessionSlot
}

func (f *fakeSlotRepo) GetByID(_ context.Context, id int64) (*domain.SessionSlot, error) {
	s, ok := f.slots[id]
	if !ok {
		return nil, slotRepo.ErrSlotNotFound
	}
	return s, nil
}

type fakeMemberRepo struct {
	updatedSlotID int64
}

func (f *fakeMemberRepo) UpdateStatusAndSlot(_ context.Context, _ int64, _ domain.MemberStatus, slotID int64) error {
	f.updatedSlotID = slotID
	return nil
}

type fakeAssignmentRepo struct {
	active      *domain.SlotAssignment
	deactivated []int64
	created     *domain.SlotAssignment
}

func (f *fakeAssignmentRepo) GetActiveByMember(context.Context, int64) (*domain.SlotAssignment, error) {
	if f.active == nil {
		return nil, assignmentRepo.ErrAssignmentNotFound
	}
	return f.active, nil
}

func (f *fakeAssignmentRepo) Create(_ context.Context, a *domain.SlotAssignment) (*domain.SlotAssignment, error) {
	out := *a
	out.ID = 21
	f.created = &out
	return &out, nil
}

func (f *fakeAssignmentRepo) Deactivate(_ context.Context, id int64, _ dates.DateOnly) error {
	f.deactivated = append(f.deactivated, id)
	return nil
}

type fakeCapacity struct {
	result   *domain.CapacityResult
	gotStart dates.DateOnly
	gotEnd   dates.DateOnly
}

func (f *fakeCapacity) CheckWindow(_ context.Context, _ *domain.SessionSlot, start, end dates.DateOnly, _ *int64) (*domain.CapacityResult, error) {
	f.gotStart = start
	f.gotEnd = end
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
	subscriptions *fakeSubscriptionRepo
	slots         *fakeSlotRepo
	members       *fakeMemberRepo
	assignments   *fakeAssignmentRepo
	capacity      *fakeCapacity
	uc            *UseCase
}

func newFixture() *fixture {
	f := &fixture{
		subscriptions: &fakeSubscriptionRepo{
			sub: &domain.MembershipSubscription{
				ID:        40,
				MemberID:  1,
				SlotID:    3,
				SlotName:  "7:30 AM batch",
				StartDate: dates.New(2025, time.March, 1),
				EndDate:   dates.New(2025, time.March, 31),
				Status:    domain.SubscriptionActive,
			},
		},
		slots: &fakeSlotRepo{
			slots: map[int64]*domain.SessionSlot{
				5: {ID: 5, DisplayName: "6:00 PM batch", Capacity: 10, ExceptionCapacity: 1, IsActive: true},
			},
		},
		members:     &fakeMemberRepo{},
		assignments: &fakeAssignmentRepo{active: &domain.SlotAssignment{ID: 9, MemberID: 1, SlotID: 3, IsActive: true}},
		capacity: &fakeCapacity{
			result: &domain.CapacityResult{Available: true, CurrentBookings: 4, NormalCapacity: 10, TotalCapacity: 11},
		},
	}

	f.uc = NewUseCase(f.subscriptions, f.slots, f.members, f.assignments, f.capacity, fakeTxManager{}, nopLogger{})
	return f
}

func baseRequest() *Request {
	return &Request{
		SubscriptionID: 40,
		NewSlotID:      5,
		EffectiveDate:  dates.New(2025, time.March, 15),
	}
}

func TestExecuteTransfersSubscription(t *testing.T) {
	f := newFixture()

	resp, err := f.uc.Execute(context.Background(), baseRequest())
	require.NoError(t, err)

	assert.Equal(t, int64(3), resp.OldSlotID)
	assert.Equal(t, int64(5), resp.NewSlotID)
	assert.Equal(t, "6:00 PM batch", resp.NewSlotName)
	assert.Empty(t, resp.Warning)

	// Capacity is checked over the remaining period only.
	assert.Equal(t, "2025-03-15", f.capacity.gotStart.String())
	assert.Equal(t, "2025-03-31", f.capacity.gotEnd.String())

	assert.Equal(t, int64(5), f.subscriptions.updatedSlot)
	assert.Equal(t, "6:00 PM batch", f.subscriptions.updatedName)
	require.NotNil(t, f.subscriptions.notes)
	assert.Contains(t, *f.subscriptions.notes, "transferred from 7:30 AM batch to 6:00 PM batch")

	assert.Equal(t, int64(5), f.members.updatedSlotID)
	assert.Equal(t, []int64{9}, f.assignments.deactivated)
	require.NotNil(t, f.assignments.created)
	assert.Equal(t, int64(5), f.assignments.created.SlotID)
	assert.Equal(t, "2025-03-15", f.assignments.created.StartDate.String())
}

func TestExecutePreservesExistingNotes(t *testing.T) {
	f := newFixture()
	existing := "joined via referral"
	f.subscriptions.sub.Notes = &existing

	req := baseRequest()
	reason := "moved cities"
	req.Reason = &reason

	_, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	require.NotNil(t, f.subscriptions.notes)
	assert.Contains(t, *f.subscriptions.notes, "joined via referral\n")
	assert.Contains(t, *f.subscriptions.notes, ": moved cities")
}

func TestExecuteRejectsExpiredSubscription(t *testing.T) {
	f := newFixture()
	f.subscriptions.sub.Status = domain.SubscriptionExpired

	_, err := f.uc.Execute(context.Background(), baseRequest())
	assert.ErrorIs(t, err, ErrNotTransferable)
}

func TestExecuteRejectsSameSlot(t *testing.T) {
	f := newFixture()
	req := baseRequest()
	req.NewSlotID = 3

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrSameSlot)
}

func TestExecuteRejectsOutOfRangeDate(t *testing.T) {
	f := newFixture()
	req := baseRequest()
	req.EffectiveDate = dates.New(2025, time.April, 1)

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrDateOutOfRange)
}

func TestExecuteRejectsUnknownSlot(t *testing.T) {
	f := newFixture()
	req := baseRequest()
	req.NewSlotID = 77

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrSlotNotFound)
}

func TestExecuteRejectsFullTargetSlot(t *testing.T) {
	f := newFixture()
	f.capacity.result = &domain.CapacityResult{
		Available: false, CurrentBookings: 11, NormalCapacity: 10, TotalCapacity: 11,
		Message: "slot is full",
	}

	_, err := f.uc.Execute(context.Background(), baseRequest())
	assert.ErrorIs(t, err, ErrSlotFull)
	assert.Zero(t, f.subscriptions.updatedSlot)
}

func TestExecuteExceptionSeatWarns(t *testing.T) {
	f := newFixture()
	f.capacity.result = &domain.CapacityResult{
		Available: true, IsExceptionOnly: true,
		CurrentBookings: 10, NormalCapacity: 10, TotalCapacity: 11,
	}

	resp, err := f.uc.Execute(context.Background(), baseRequest())
	require.NoError(t, err)

	assert.True(t, resp.IsException)
	assert.Contains(t, resp.Warning, "exception pool")
	assert.True(t, f.assignments.created.IsException)
}
