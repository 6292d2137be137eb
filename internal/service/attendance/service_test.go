package attendance

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amar4h/rituyog-booking/internal/domain"
	attendanceRepo "github.com/amar4h/rituyog-booking/internal/infra/storage/attendance"
	subscriptionRepo "github.com/amar4h/rituyog-booking/internal/infra/storage/subscription"
	"github.com/amar4h/rituyog-booking/pkg/dates"
)

type fakeAttendanceRepo struct {
	records     map[string]*domain.AttendanceRecord
	nextID      int64
	presentDays int
}

func key(memberID, slotID int64, date dates.DateOnly) string {
	return fmt.Sprintf("%d/%d/%s", memberID, slotID, date)
}

func (f *fakeAttendanceRepo) GetByMemberSlotDate(_ context.Context, memberID, slotID int64, date dates.DateOnly) (*domain.AttendanceRecord, error) {
	rec, ok := f.records[key(memberID, slotID, date)]
	if !ok {
		return nil, attendanceRepo.ErrAttendanceNotFound
	}
	out := *rec
	return &out, nil
}

func (f *fakeAttendanceRepo) Create(_ context.Context, rec *domain.AttendanceRecord) (*domain.AttendanceRecord, error) {
	f.nextID++
	out := *rec
	out.ID = f.nextID
	out.MarkedAt = time.Now()
	f.records[key(rec.MemberID, rec.SlotID, rec.Date)] = &out
	return &out, nil
}

func (f *fakeAttendanceRepo) UpdateMark(_ context.Context, id int64, status domain.AttendanceStatus, notes *string) error {
	for _, rec := range f.records {
		if rec.ID == id {
			rec.Status = status
			rec.Notes = notes
			return nil
		}
	}
	return attendanceRepo.ErrAttendanceNotFound
}

func (f *fakeAttendanceRepo) CountPresent(context.Context, int64, int64, dates.DateOnly, dates.DateOnly) (int, error) {
	return f.presentDays, nil
}

type fakeMemberRepo struct {
	counter int
}

func (f *fakeMemberRepo) GetByID(context.Context, int64) (*domain.Member, error) {
	return &domain.Member{ID: 1, Status: domain.MemberActive}, nil
}

func (f *fakeMemberRepo) AddClassesAttended(_ context.Context, _ int64, delta int) error {
	f.counter += delta
	return nil
}

type fakeSubscriptionRepo struct {
	active *domain.MembershipSubscription
	subs   []*domain.MembershipSubscription
}

func (f *fakeSubscriptionRepo) GetActiveOnDate(context.Context, int64, dates.DateOnly) (*domain.MembershipSubscription, error) {
	if f.active == nil {
		return nil, subscriptionRepo.ErrSubscriptionNotFound
	}
	return f.active, nil
}

func (f *fakeSubscriptionRepo) GetByMemberAndSlot(context.Context, int64, int64, []domain.SubscriptionStatus) ([]*domain.MembershipSubscription, error) {
	return f.subs, nil
}

type fakeSettingsRepo struct{}

func (fakeSettingsRepo) GetInt(_ context.Context, _ string, fallback int) (int, error) {
	return fallback, nil
}

type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedTimeProvider struct {
	now time.Time
}

func (p fixedTimeProvider) Now() time.Time {
	return p.now
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixture struct {
	attendance    *fakeAttendanceRepo
	members       *fakeMemberRepo
	subscriptions *fakeSubscriptionRepo
	svc           *Service
}

func newFixture() *fixture {
	f := &fixture{
		attendance:    &fakeAttendanceRepo{records: map[string]*domain.AttendanceRecord{}},
		members:       &fakeMemberRepo{},
		subscriptions: &fakeSubscriptionRepo{},
	}
	f.svc = NewService(f.attendance, f.members, f.subscriptions, fakeSettingsRepo{}, fakeTxManager{}, nopLogger{})
	f.svc.timeProvider = fixedTimeProvider{now: time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC)}
	return f
}

func markRequest(status domain.AttendanceStatus) *MarkRequest {
	return &MarkRequest{
		MemberID: 1,
		SlotID:   3,
		Date:     dates.New(2025, time.March, 12),
		Status:   status,
	}
}

func TestMarkCreatesRecordWithSnapshot(t *testing.T) {
	f := newFixture()
	f.subscriptions.active = &domain.MembershipSubscription{ID: 40}

	rec, err := f.svc.Mark(context.Background(), markRequest(domain.AttendancePresent))
	require.NoError(t, err)

	assert.Equal(t, domain.AttendancePresent, rec.Status)
	require.NotNil(t, rec.SubscriptionID)
	assert.Equal(t, int64(40), *rec.SubscriptionID)
	assert.Equal(t, 1, f.members.counter)
}

func TestMarkAbsentDoesNotIncrement(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Mark(context.Background(), markRequest(domain.AttendanceAbsent))
	require.NoError(t, err)

	assert.Equal(t, 0, f.members.counter)
}

func TestMarkToggleNetsOneIncrement(t *testing.T) {
	f := newFixture()

	// present -> absent -> present nets exactly +1 on the counter.
	_, err := f.svc.Mark(context.Background(), markRequest(domain.AttendancePresent))
	require.NoError(t, err)
	_, err = f.svc.Mark(context.Background(), markRequest(domain.AttendanceAbsent))
	require.NoError(t, err)
	_, err = f.svc.Mark(context.Background(), markRequest(domain.AttendancePresent))
	require.NoError(t, err)

	assert.Equal(t, 1, f.members.counter)
	assert.Len(t, f.attendance.records, 1)
}

func TestMarkRepeatedSameStatusIsNeutral(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Mark(context.Background(), markRequest(domain.AttendancePresent))
	require.NoError(t, err)
	_, err = f.svc.Mark(context.Background(), markRequest(domain.AttendancePresent))
	require.NoError(t, err)

	assert.Equal(t, 1, f.members.counter)
}

func TestMarkRejectsStaleDate(t *testing.T) {
	f := newFixture()
	req := markRequest(domain.AttendancePresent)
	// Four days before the fixed "today" of 2025-03-12.
	req.Date = dates.New(2025, time.March, 8)

	_, err := f.svc.Mark(context.Background(), req)
	assert.ErrorIs(t, err, ErrStaleDate)
}

func TestMarkAllowsBackfillWithinWindow(t *testing.T) {
	f := newFixture()
	req := markRequest(domain.AttendancePresent)
	req.Date = dates.New(2025, time.March, 9)

	_, err := f.svc.Mark(context.Background(), req)
	require.NoError(t, err)
}

func TestSummaryIntersectsSubscriptionRanges(t *testing.T) {
	f := newFixture()
	f.attendance.presentDays = 8
	f.subscriptions.subs = []*domain.MembershipSubscription{
		{
			// 2025-03-03 .. 2025-03-14 overlaps the period from the 10th:
			// Mon 10 .. Fri 14 is five working days.
			StartDate: dates.New(2025, time.March, 3),
			EndDate:   dates.New(2025, time.March, 14),
			Status:    domain.SubscriptionExpired,
		},
		{
			// 2025-03-15 .. 2025-04-14 clipped to the period end of the
			// 21st: Mon 17 .. Fri 21 is five working days.
			StartDate: dates.New(2025, time.March, 15),
			EndDate:   dates.New(2025, time.April, 14),
			Status:    domain.SubscriptionActive,
		},
	}

	summary, err := f.svc.SummaryForPeriod(context.Background(), 1, 3,
		dates.New(2025, time.March, 10), dates.New(2025, time.March, 21))
	require.NoError(t, err)

	assert.Equal(t, 8, summary.PresentDays)
	assert.Equal(t, 10, summary.TotalWorkingDays)
}

func TestSummaryIgnoresNonOverlappingSubscriptions(t *testing.T) {
	f := newFixture()
	f.subscriptions.subs = []*domain.MembershipSubscription{
		{
			StartDate: dates.New(2025, time.January, 1),
			EndDate:   dates.New(2025, time.January, 31),
			Status:    domain.SubscriptionExpired,
		},
	}

	summary, err := f.svc.SummaryForPeriod(context.Background(), 1, 3,
		dates.New(2025, time.March, 10), dates.New(2025, time.March, 21))
	require.NoError(t, err)

	assert.Zero(t, summary.TotalWorkingDays)
}

func TestSummaryRejectsInvertedPeriod(t *testing.T) {
	f := newFixture()

	_, err := f.svc.SummaryForPeriod(context.Background(), 1, 3,
		dates.New(2025, time.March, 21), dates.New(2025, time.March, 10))
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestMarkValidation(t *testing.T) {
	f := newFixture()

	req := markRequest("late")
	_, err := f.svc.Mark(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)

	req = markRequest(domain.AttendancePresent)
	req.MemberID = 0
	_, err = f.svc.Mark(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
