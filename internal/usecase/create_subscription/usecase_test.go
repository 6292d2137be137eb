package create_subscription

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amar4h/rituyog-booking/internal/domain"
	assignmentRepo "github.com/amar4h/rituyog-booking/internal/infra/storage/assignment"
	"github.com/amar4h/rituyog-booking/internal/integrations/invoicing"
	"github.com/amar4h/rituyog-booking/pkg/dates"
	"github.com/amar4h/rituyog-booking/pkg/ptr"
)

type fakeMemberRepo struct {
	member        *domain.Member
	updatedStatus domain.MemberStatus
	updatedSlotID int64
}

func (f *fakeMemberRepo) GetByID(context.Context, int64) (*domain.Member, error) {
	return f.member, nil
}

func (f *fakeMemberRepo) UpdateStatusAndSlot(_ context.Context, _ int64, status domain.MemberStatus, slotID int64) error {
	f.updatedStatus = status
	f.updatedSlotID = slotID
	return nil
}

type fakePlanRepo struct {
	plan *domain.Plan
}

func (f *fakePlanRepo) GetByID(context.Context, int64) (*domain.Plan, error) {
	return f.plan, nil
}

type fakeSlotRepo struct {
	slot *domain.SessionSlot
}

func (f *fakeSlotRepo) GetByID(context.Context, int64) (*domain.SessionSlot, error) {
	return f.slot, nil
}

type fakeSubscriptionRepo struct {
	existing  []*domain.MembershipSubscription
	created   *domain.MembershipSubscription
	invoiceID int64
}

func (f *fakeSubscriptionRepo) Create(_ context.Context, sub *domain.MembershipSubscription) (*domain.MembershipSubscription, error) {
	out := *sub
	out.ID = 101
	out.CreatedAt = time.Now()
	out.UpdatedAt = out.CreatedAt
	f.created = &out
	return &out, nil
}

func (f *fakeSubscriptionRepo) GetByMember(context.Context, int64, []domain.SubscriptionStatus) ([]*domain.MembershipSubscription, error) {
	return f.existing, nil
}

func (f *fakeSubscriptionRepo) SetInvoiceID(_ context.Context, _, invoiceID int64) error {
	f.invoiceID = invoiceID
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
	out.ID = 7
	f.created = &out
	return &out, nil
}

func (f *fakeAssignmentRepo) Deactivate(_ context.Context, id int64, _ dates.DateOnly) error {
	f.deactivated = append(f.deactivated, id)
	return nil
}

type fakeInvoiceRepo struct {
	created *domain.Invoice
}

func (f *fakeInvoiceRepo) Create(_ context.Context, inv *domain.Invoice) (*domain.Invoice, error) {
	out := *inv
	out.ID = 55
	f.created = &out
	return &out, nil
}

type fakeCapacity struct {
	result     *domain.CapacityResult
	gotExclude *int64
	gotStart   dates.DateOnly
	gotEnd     dates.DateOnly
}

func (f *fakeCapacity) CheckWindow(_ context.Context, _ *domain.SessionSlot, start, end dates.DateOnly, excludeMemberID *int64) (*domain.CapacityResult, error) {
	f.gotStart = start
	f.gotEnd = end
	f.gotExclude = excludeMemberID
	return f.result, nil
}

type fakeNumberProvider struct {
	number   string
	degraded bool
}

func (f *fakeNumberProvider) NextNumberWithGracefulDegradation(context.Context, int64) (string, error) {
	if f.degraded {
		return f.number, fmt.Errorf("%w: down", invoicing.ErrServiceDegraded)
	}
	return f.number, nil
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
	members       *fakeMemberRepo
	plans         *fakePlanRepo
	slots         *fakeSlotRepo
	subscriptions *fakeSubscriptionRepo
	assignments   *fakeAssignmentRepo
	invoices      *fakeInvoiceRepo
	capacity      *fakeCapacity
	numbers       *fakeNumberProvider
	uc            *UseCase
}

func newFixture() *fixture {
	f := &fixture{
		members: &fakeMemberRepo{
			member: &domain.Member{ID: 1, FullName: "Asha Rao", Email: "asha@example.com", Status: domain.MemberInactive},
		},
		plans: &fakePlanRepo{
			plan: &domain.Plan{ID: 2, Name: "Monthly Unlimited", DurationMonths: 1, Price: 2500, IsActive: true},
		},
		slots: &fakeSlotRepo{
			slot: &domain.SessionSlot{ID: 3, DisplayName: "7:30 AM batch", Capacity: 10, ExceptionCapacity: 1, IsActive: true},
		},
		subscriptions: &fakeSubscriptionRepo{},
		assignments:   &fakeAssignmentRepo{},
		invoices:      &fakeInvoiceRepo{},
		capacity: &fakeCapacity{
			result: &domain.CapacityResult{Available: true, CurrentBookings: 4, NormalCapacity: 10, TotalCapacity: 11},
		},
		numbers: &fakeNumberProvider{number: "MEM-2025-0042"},
	}

	f.uc = NewUseCase(
		f.members, f.plans, f.slots, f.subscriptions, f.assignments,
		f.invoices, f.capacity, f.numbers, fakeTxManager{}, nopLogger{},
	)
	f.uc.timeProvider = fixedTimeProvider{now: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
	return f
}

func baseRequest() *Request {
	return &Request{
		MemberID:  1,
		PlanID:    2,
		SlotID:    3,
		StartDate: dates.New(2025, time.March, 1),
	}
}

func TestExecuteCreatesSubscriptionWithInvoice(t *testing.T) {
	f := newFixture()

	resp, err := f.uc.Execute(context.Background(), baseRequest())
	require.NoError(t, err)

	// One calendar month inclusive: Mar 1 runs through Mar 31.
	assert.Equal(t, "2025-03-31", resp.EndDate.String())
	assert.Equal(t, string(domain.SubscriptionActive), resp.Status)
	assert.Equal(t, string(domain.PaymentPending), resp.PaymentStatus)
	assert.Equal(t, 2500.0, resp.PayableAmount)
	assert.Equal(t, "MEM-2025-0042", resp.InvoiceNumber)
	assert.Empty(t, resp.Warning)

	require.NotNil(t, f.invoices.created)
	assert.Equal(t, int64(101), f.invoices.created.SubscriptionID)
	assert.Equal(t, "Monthly Unlimited @ 7:30 AM batch", f.invoices.created.Description)
	assert.Equal(t, domain.InvoiceSent, f.invoices.created.Status)
	assert.Equal(t, int64(55), f.subscriptions.invoiceID)

	assert.Equal(t, domain.MemberActive, f.members.updatedStatus)
	assert.Equal(t, int64(3), f.members.updatedSlotID)

	require.NotNil(t, f.assignments.created)
	assert.Equal(t, int64(3), f.assignments.created.SlotID)
	assert.False(t, f.assignments.created.IsException)
}

func TestExecuteFutureStartIsScheduled(t *testing.T) {
	f := newFixture()
	req := baseRequest()
	req.StartDate = dates.New(2025, time.April, 1)

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, string(domain.SubscriptionScheduled), resp.Status)
}

func TestExecuteAppliesDiscount(t *testing.T) {
	f := newFixture()
	req := baseRequest()
	req.DiscountAmount = 3000 // more than the price, payable floors at zero

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 0.0, resp.PayableAmount)
	assert.Equal(t, 0.0, f.invoices.created.Total)
}

func TestExecuteRejectsOverlap(t *testing.T) {
	f := newFixture()
	f.subscriptions.existing = []*domain.MembershipSubscription{
		{
			PlanName:  "Quarterly",
			StartDate: dates.New(2025, time.February, 1),
			EndDate:   dates.New(2025, time.April, 30),
			Status:    domain.SubscriptionActive,
		},
	}

	_, err := f.uc.Execute(context.Background(), baseRequest())
	assert.ErrorIs(t, err, ErrOverlapConflict)
	assert.Nil(t, f.subscriptions.created)
}

func TestExecuteRejectsFullSlot(t *testing.T) {
	f := newFixture()
	f.capacity.result = &domain.CapacityResult{
		Available: false, CurrentBookings: 11, NormalCapacity: 10, TotalCapacity: 11,
		Message: "slot is full",
	}

	_, err := f.uc.Execute(context.Background(), baseRequest())
	assert.ErrorIs(t, err, ErrSlotFull)
	assert.Nil(t, f.subscriptions.created)
}

func TestExecuteRenewalExcludesOwnSeat(t *testing.T) {
	f := newFixture()
	f.members.member.AssignedSlotID = ptr.Ptr(int64(3))
	f.assignments.active = &domain.SlotAssignment{ID: 9, MemberID: 1, SlotID: 3, IsActive: true}

	_, err := f.uc.Execute(context.Background(), baseRequest())
	require.NoError(t, err)

	require.NotNil(t, f.capacity.gotExclude)
	assert.Equal(t, int64(1), *f.capacity.gotExclude)

	// The active same-slot assignment is kept as-is.
	assert.Nil(t, f.assignments.created)
	assert.Empty(t, f.assignments.deactivated)
}

func TestExecuteSlotChangeRollsAssignment(t *testing.T) {
	f := newFixture()
	f.members.member.AssignedSlotID = ptr.Ptr(int64(8))
	f.assignments.active = &domain.SlotAssignment{ID: 9, MemberID: 1, SlotID: 8, IsActive: true}

	_, err := f.uc.Execute(context.Background(), baseRequest())
	require.NoError(t, err)

	assert.Nil(t, f.capacity.gotExclude)
	assert.Equal(t, []int64{9}, f.assignments.deactivated)
	require.NotNil(t, f.assignments.created)
	assert.Equal(t, int64(3), f.assignments.created.SlotID)
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

func TestExecuteRenewalExceptionSeatDoesNotWarn(t *testing.T) {
	f := newFixture()
	f.members.member.AssignedSlotID = ptr.Ptr(int64(3))
	f.assignments.active = &domain.SlotAssignment{ID: 9, MemberID: 1, SlotID: 3, IsActive: true}
	f.capacity.result = &domain.CapacityResult{
		Available: true, IsExceptionOnly: true,
		CurrentBookings: 10, NormalCapacity: 10, TotalCapacity: 11,
	}

	resp, err := f.uc.Execute(context.Background(), baseRequest())
	require.NoError(t, err)

	// The member keeps their own seat, so the overflow warning is noise.
	assert.True(t, resp.IsException)
	assert.Empty(t, resp.Warning)
}

func TestExecuteDegradedNumberingStillBooks(t *testing.T) {
	f := newFixture()
	f.numbers.number = invoicing.FallbackNumber()
	f.numbers.degraded = true

	resp, err := f.uc.Execute(context.Background(), baseRequest())
	require.NoError(t, err)

	assert.Equal(t, f.numbers.number, resp.InvoiceNumber)
	assert.Contains(t, resp.Warning, "invoice number")
}

func TestExecuteRejectsInactivePlan(t *testing.T) {
	f := newFixture()
	f.plans.plan.IsActive = false

	_, err := f.uc.Execute(context.Background(), baseRequest())
	assert.ErrorIs(t, err, ErrPlanInactive)
}

func TestExecuteValidation(t *testing.T) {
	f := newFixture()

	tests := []struct {
		name   string
		mutate func(*Request)
	}{
		{"zero member", func(r *Request) { r.MemberID = 0 }},
		{"zero plan", func(r *Request) { r.PlanID = 0 }},
		{"zero slot", func(r *Request) { r.SlotID = 0 }},
		{"zero start date", func(r *Request) { r.StartDate = dates.DateOnly{} }},
		{"negative discount", func(r *Request) { r.DiscountAmount = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := baseRequest()
			tt.mutate(req)
			_, err := f.uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
