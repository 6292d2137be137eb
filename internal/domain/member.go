package domain

import (
	"time"

	"github.com/amar4h/rituyog-booking/pkg/dates"
)

// MemberStatus represents the membership state of a studio member.
type MemberStatus string

const (
	MemberActive   MemberStatus = "active"
	MemberInactive MemberStatus = "inactive"
	MemberFrozen   MemberStatus = "frozen"
)

// Member is a paying studio member. The engine reads members for eligibility
// checks and writes status, assigned slot and the attendance counter; member
// CRUD itself lives outside the engine.
type Member struct {
	ID              int64
	FullName        string
	Email           string
	Phone           *string
	Status          MemberStatus
	AssignedSlotID  *int64 // historical reference, kept after deactivation
	ClassesAttended int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// LeadStatus represents where a prospective member sits in the trial funnel.
type LeadStatus string

const (
	LeadNew            LeadStatus = "new"
	LeadTrialScheduled LeadStatus = "trial_scheduled"
	LeadTrialAttended  LeadStatus = "trial_attended"
	LeadTrialNoShow    LeadStatus = "trial_no_show"
	LeadConverted      LeadStatus = "converted"
)

// Lead is a prospective member who may book trial sessions.
type Lead struct {
	ID          int64
	FullName    string
	Email       string
	Phone       *string
	Status      LeadStatus
	TrialDate   *dates.DateOnly
	TrialSlotID *int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Plan is a read-only catalog entry supplying duration and price.
type Plan struct {
	ID             int64
	Name           string
	DurationMonths int
	Price          float64
	IsActive       bool
}
