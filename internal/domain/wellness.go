package domain

import (
	"time"

	"github.com/google/uuid"
)

// Profile holds the onboarding answers the coach conditions on.
// Optional columns stay nil until the user fills them in.
type Profile struct {
	ID                 uuid.UUID
	Email              string
	FullName           *string
	BiologicalSex      *string
	WakeTime           *string
	WorkStart          *string
	WorkEnd            *string
	TrainingPreference *string
	Personas           []string
	Goals              []string
	Why                *string
	Currency           string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// DailyCheckin is the self-reported state for one calendar day. Scores are 1..10.
type DailyCheckin struct {
	ID      uuid.UUID
	UserID  uuid.UUID
	Date    time.Time
	Energy  int
	Clarity int
	Body    int
	Mood    string
}

// DayPlan is the hybrid day schedule for one calendar day.
type DayPlan struct {
	ID                   uuid.UUID
	UserID               uuid.UUID
	Date                 time.Time
	Word                 string
	CompletionPercentage int
}
