package trials

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amar4h/rituyog-booking/internal/domain"
	trialRepo "github.com/amar4h/rituyog-booking/internal/infra/storage/trial"
	"github.com/amar4h/rituyog-booking/pkg/dates"
)

type fakeTrialRepo struct {
	trial        *domain.TrialBooking
	updatedTo    domain.TrialStatus
	cancelReason string
}

func (f *fakeTrialRepo) GetByID(context.Context, int64) (*domain.TrialBooking, error) {
	if f.trial == nil {
		return nil, trialRepo.ErrTrialNotFound
	}
	out := *f.trial
	return &out, nil
}

func (f *fakeTrialRepo) UpdateStatus(_ context.Context, _ int64, status domain.TrialStatus) error {
	f.updatedTo = status
	return nil
}

func (f *fakeTrialRepo) Cancel(_ context.Context, _ int64, reason string) error {
	f.cancelReason = reason
	return nil
}

type fakeLeadRepo struct {
	updatedTo domain.LeadStatus
}

func (f *fakeLeadRepo) UpdateStatus(_ context.Context, _ int64, status domain.LeadStatus) error {
	f.updatedTo = status
	return nil
}

type fakeTxManager struct{}

func (fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newService(trial *domain.TrialBooking) (*Service, *fakeTrialRepo, *fakeLeadRepo) {
	trials := &fakeTrialRepo{trial: trial}
	leads := &fakeLeadRepo{}
	return NewService(trials, leads, fakeTxManager{}, nopLogger{}), trials, leads
}

func confirmedTrial() *domain.TrialBooking {
	return &domain.TrialBooking{
		ID:     61,
		LeadID: 1,
		SlotID: 3,
		Date:   dates.New(2025, time.March, 12),
		Status: domain.TrialConfirmed,
	}
}

func TestMarkAttendedPropagatesToLead(t *testing.T) {
	svc, trials, leads := newService(confirmedTrial())

	trial, err := svc.MarkAttended(context.Background(), 61)
	require.NoError(t, err)

	assert.Equal(t, domain.TrialAttended, trial.Status)
	assert.Equal(t, domain.TrialAttended, trials.updatedTo)
	assert.Equal(t, domain.LeadTrialAttended, leads.updatedTo)
}

func TestMarkNoShowPropagatesToLead(t *testing.T) {
	svc, trials, leads := newService(confirmedTrial())

	trial, err := svc.MarkNoShow(context.Background(), 61)
	require.NoError(t, err)

	assert.Equal(t, domain.TrialNoShow, trial.Status)
	assert.Equal(t, domain.TrialNoShow, trials.updatedTo)
	assert.Equal(t, domain.LeadTrialNoShow, leads.updatedTo)
}

func TestResolveRejectsCompletedTrial(t *testing.T) {
	trial := confirmedTrial()
	trial.Status = domain.TrialAttended
	svc, _, _ := newService(trial)

	_, err := svc.MarkNoShow(context.Background(), 61)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestCancelReleasesLead(t *testing.T) {
	svc, trials, leads := newService(confirmedTrial())

	trial, err := svc.Cancel(context.Background(), 61, "lead asked to reschedule")
	require.NoError(t, err)

	assert.Equal(t, domain.TrialCancelled, trial.Status)
	require.NotNil(t, trial.CancellationReason)
	assert.Equal(t, "lead asked to reschedule", trials.cancelReason)
	assert.Equal(t, domain.LeadNew, leads.updatedTo)
}

func TestCancelRequiresReason(t *testing.T) {
	svc, _, _ := newService(confirmedTrial())

	_, err := svc.Cancel(context.Background(), 61, "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestNotFound(t *testing.T) {
	svc, _, _ := newService(nil)

	_, err := svc.MarkAttended(context.Background(), 61)
	assert.ErrorIs(t, err, ErrTrialNotFound)
}
