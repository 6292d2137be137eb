package capacity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amar4h/rituyog-booking/internal/domain"
	"github.com/amar4h/rituyog-booking/pkg/dates"
	"github.com/amar4h/rituyog-booking/pkg/ptr"
)

type fakeSubscriptionRepo struct {
	subs []*domain.MembershipSubscription
}

func (f *fakeSubscriptionRepo) GetBySlotOverlapping(_ context.Context, slotID int64, start, end dates.DateOnly, _ []domain.SubscriptionStatus) ([]*domain.MembershipSubscription, error) {
	out := make([]*domain.MembershipSubscription, 0)
	for _, sub := range f.subs {
		if sub.SlotID == slotID && dates.Overlaps(sub.StartDate, sub.EndDate, start, end) {
			out = append(out, sub)
		}
	}
	return out, nil
}

type fakeTrialRepo struct {
	trialsByDate map[string]int
}

func (f *fakeTrialRepo) CountOccupyingBySlotDate(_ context.Context, _ int64, date dates.DateOnly) (int, error) {
	return f.trialsByDate[date.String()], nil
}

type fakeSlotRepo struct {
	slots map[int64]*domain.SessionSlot
}

func (f *fakeSlotRepo) GetByID(_ context.Context, id int64) (*domain.SessionSlot, error) {
	s, ok := f.slots[id]
	if !ok {
		return nil, assert.AnError
	}
	return s, nil
}

func (f *fakeSlotRepo) ListActive(_ context.Context) ([]*domain.SessionSlot, error) {
	out := make([]*domain.SessionSlot, 0)
	for _, s := range f.slots {
		if s.IsActive {
			out = append(out, s)
		}
	}
	return out, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func testSlot(capacity, exception int) *domain.SessionSlot {
	return &domain.SessionSlot{
		ID:                1,
		DisplayName:       "7:30 AM batch",
		Capacity:          capacity,
		ExceptionCapacity: exception,
		IsActive:          true,
	}
}

func sub(memberID int64, start, end string, status domain.SubscriptionStatus) *domain.MembershipSubscription {
	s, _ := dates.Parse(start)
	e, _ := dates.Parse(end)
	return &domain.MembershipSubscription{
		MemberID:  memberID,
		SlotID:    1,
		StartDate: s,
		EndDate:   e,
		Status:    status,
	}
}

func newService(subs []*domain.MembershipSubscription, trials map[string]int) *Service {
	return NewService(
		&fakeSubscriptionRepo{subs: subs},
		&fakeTrialRepo{trialsByDate: trials},
		&fakeSlotRepo{},
		nopLogger{},
	)
}

func window(t *testing.T, s, e string) (dates.DateOnly, dates.DateOnly) {
	t.Helper()
	start, err := dates.Parse(s)
	require.NoError(t, err)
	end, err := dates.Parse(e)
	require.NoError(t, err)
	return start, end
}

func TestCheckWindowClassification(t *testing.T) {
	slot := testSlot(2, 1)

	tests := []struct {
		name          string
		subs          []*domain.MembershipSubscription
		wantBookings  int
		wantAvailable bool
		wantException bool
	}{
		{
			name:          "empty slot is available",
			subs:          nil,
			wantBookings:  0,
			wantAvailable: true,
		},
		{
			name: "below normal capacity",
			subs: []*domain.MembershipSubscription{
				sub(10, "2025-03-01", "2025-03-31", domain.SubscriptionActive),
			},
			wantBookings:  1,
			wantAvailable: true,
		},
		{
			name: "at normal capacity only exception pool remains",
			subs: []*domain.MembershipSubscription{
				sub(10, "2025-03-01", "2025-03-31", domain.SubscriptionActive),
				sub(11, "2025-03-01", "2025-03-31", domain.SubscriptionScheduled),
			},
			wantBookings:  2,
			wantAvailable: true,
			wantException: true,
		},
		{
			name: "at total capacity the slot is full",
			subs: []*domain.MembershipSubscription{
				sub(10, "2025-03-01", "2025-03-31", domain.SubscriptionActive),
				sub(11, "2025-03-01", "2025-03-31", domain.SubscriptionActive),
				sub(12, "2025-03-01", "2025-03-31", domain.SubscriptionPending),
			},
			wantBookings:  3,
			wantAvailable: false,
		},
		{
			name: "non-overlapping subscriptions are ignored",
			subs: []*domain.MembershipSubscription{
				sub(10, "2025-01-01", "2025-01-31", domain.SubscriptionActive),
			},
			wantBookings:  0,
			wantAvailable: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newService(tt.subs, nil)
			start, end := window(t, "2025-03-10", "2025-03-20")

			result, err := svc.CheckWindow(context.Background(), slot, start, end, nil)
			require.NoError(t, err)

			assert.Equal(t, tt.wantBookings, result.CurrentBookings)
			assert.Equal(t, tt.wantAvailable, result.Available)
			assert.Equal(t, tt.wantException, result.IsExceptionOnly)
			assert.Equal(t, 2, result.NormalCapacity)
			assert.Equal(t, 3, result.TotalCapacity)
			assert.NotEmpty(t, result.Message)
		})
	}
}

func TestCheckWindowDeduplicatesRenewals(t *testing.T) {
	// Member 10 has an expiring subscription plus its renewal: one seat.
	svc := newService([]*domain.MembershipSubscription{
		sub(10, "2025-02-01", "2025-03-15", domain.SubscriptionActive),
		sub(10, "2025-03-16", "2025-04-15", domain.SubscriptionScheduled),
		sub(11, "2025-03-01", "2025-03-31", domain.SubscriptionActive),
	}, nil)

	start, end := window(t, "2025-03-01", "2025-03-31")
	result, err := svc.CheckWindow(context.Background(), testSlot(10, 0), start, end, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, result.CurrentBookings)
}

func TestCheckWindowExcludesRenewingMember(t *testing.T) {
	// Slot full with 2/2, but member 10 holds one of those seats: the
	// renewal check excludes them and sees an open seat.
	subs := []*domain.MembershipSubscription{
		sub(10, "2025-03-01", "2025-03-31", domain.SubscriptionActive),
		sub(11, "2025-03-01", "2025-03-31", domain.SubscriptionActive),
	}
	slot := testSlot(2, 0)
	start, end := window(t, "2025-03-15", "2025-04-14")

	svc := newService(subs, nil)

	full, err := svc.CheckWindow(context.Background(), slot, start, end, nil)
	require.NoError(t, err)
	assert.False(t, full.Available)

	renewing, err := svc.CheckWindow(context.Background(), slot, start, end, ptr.Ptr(int64(10)))
	require.NoError(t, err)
	assert.True(t, renewing.Available)
	assert.Equal(t, 1, renewing.CurrentBookings)
}

func TestCheckDateAddsTrials(t *testing.T) {
	subs := []*domain.MembershipSubscription{
		sub(10, "2025-03-01", "2025-03-31", domain.SubscriptionActive),
	}
	svc := newService(subs, map[string]int{"2025-03-10": 1})

	date, _ := dates.Parse("2025-03-10")
	result, err := svc.CheckDate(context.Background(), testSlot(2, 0), date, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, result.CurrentBookings)
	assert.False(t, result.Available)
}

func TestCheckWindowRejectsInvertedWindow(t *testing.T) {
	svc := newService(nil, nil)
	start, end := window(t, "2025-03-20", "2025-03-10")

	_, err := svc.CheckWindow(context.Background(), testSlot(2, 0), start, end, nil)
	assert.ErrorIs(t, err, ErrInvalidWindow)
}
