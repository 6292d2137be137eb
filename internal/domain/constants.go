package domain

// Default policy values used when the settings table has no override.
const (
	DefaultMaxTrialsPerLead       = 2
	DefaultAttendanceBackfillDays = 3
)

// Settings keys resolved through the settings repository.
const (
	SettingMaxTrialsPerLead       = "max_trials_per_person"
	SettingAttendanceBackfillDays = "attendance_backfill_days"
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// CountedSubscriptionStatuses are the statuses that occupy a seat: the
// member-overlap check and the capacity count both consider exactly these.
var CountedSubscriptionStatuses = []SubscriptionStatus{
	SubscriptionActive,
	SubscriptionPending,
	SubscriptionScheduled,
}

// SummarySubscriptionStatuses are the statuses the attendance summary walks
// when counting working days.
var SummarySubscriptionStatuses = []SubscriptionStatus{
	SubscriptionActive,
	SubscriptionExpired,
}

// OccupyingTrialStatuses are the trial statuses that hold a seat on their
// calendar date.
var OccupyingTrialStatuses = []TrialStatus{
	TrialPending,
	TrialConfirmed,
}

// CompletedTrialStatuses count against the per-lead trial limit.
var CompletedTrialStatuses = []TrialStatus{
	TrialAttended,
	TrialNoShow,
}
