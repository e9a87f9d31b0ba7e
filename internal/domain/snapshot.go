package domain

import "github.com/shopspring/decimal"

// Defaults used when a context source has no row for the user.
const (
	DefaultName               = "there"
	DefaultBiologicalSex      = "unspecified"
	DefaultPersona            = "optimizer"
	DefaultWakeTime           = "06:30"
	DefaultWorkStart          = "08:00"
	DefaultWorkEnd            = "18:00"
	DefaultTrainingPreference = "morning"
	DefaultCurrency           = "USD"
	DefaultScore              = 5
)

// ContextSnapshot is the user state assembled for one generation.
// It is stored only inside the assistant message that it produced.
type ContextSnapshot struct {
	Name               string          `json:"name"`
	BiologicalSex      string          `json:"biologicalSex"`
	Personas           []string        `json:"personas"`
	Goals              []string        `json:"goals"`
	Why                string          `json:"why"`
	WakeTime           string          `json:"wakeTime"`
	WorkStart          string          `json:"workStart"`
	WorkEnd            string          `json:"workEnd"`
	TrainingPreference string          `json:"trainingPreference"`
	Energy             int             `json:"energy"`
	Clarity            int             `json:"clarity"`
	Body               int             `json:"body"`
	DayWord            string          `json:"dayWord"`
	DayCompletion      int             `json:"dayCompletion"`
	Streak             int             `json:"streak"`
	Currency           string          `json:"currency"`
	SavedMonth         decimal.Decimal `json:"savedMonth"`
	WellnessMonth      decimal.Decimal `json:"wellnessMonth"`
	Memories           []MemoryFact    `json:"memories"`
}

// MemoryFact is the prompt-facing projection of a MemoryEntry.
type MemoryFact struct {
	Category string `json:"category"`
	Key      string `json:"key"`
	Value    string `json:"value"`
}

// DefaultContextSnapshot returns the snapshot of a user with no related rows.
func DefaultContextSnapshot() ContextSnapshot {
	return ContextSnapshot{
		Name:               DefaultName,
		BiologicalSex:      DefaultBiologicalSex,
		Personas:           []string{DefaultPersona},
		Goals:              []string{},
		WakeTime:           DefaultWakeTime,
		WorkStart:          DefaultWorkStart,
		WorkEnd:            DefaultWorkEnd,
		TrainingPreference: DefaultTrainingPreference,
		Energy:             DefaultScore,
		Clarity:            DefaultScore,
		Body:               DefaultScore,
		Currency:           DefaultCurrency,
		SavedMonth:         decimal.Zero,
		WellnessMonth:      decimal.Zero,
		Memories:           []MemoryFact{},
	}
}

// ApplyProfile overlays the non-empty profile fields onto the snapshot.
func (s *ContextSnapshot) ApplyProfile(p *Profile) {
	if p == nil {
		return
	}
	setIfPresent(&s.Name, p.FullName)
	setIfPresent(&s.BiologicalSex, p.BiologicalSex)
	setIfPresent(&s.Why, p.Why)
	setIfPresent(&s.WakeTime, p.WakeTime)
	setIfPresent(&s.WorkStart, p.WorkStart)
	setIfPresent(&s.WorkEnd, p.WorkEnd)
	setIfPresent(&s.TrainingPreference, p.TrainingPreference)
	if len(p.Personas) > 0 {
		s.Personas = p.Personas
	}
	if len(p.Goals) > 0 {
		s.Goals = p.Goals
	}
	if p.Currency != "" {
		s.Currency = p.Currency
	}
}

// ApplyCheckin overlays today's check-in scores onto the snapshot.
func (s *ContextSnapshot) ApplyCheckin(c *DailyCheckin) {
	if c == nil {
		return
	}
	if c.Energy > 0 {
		s.Energy = c.Energy
	}
	if c.Clarity > 0 {
		s.Clarity = c.Clarity
	}
	if c.Body > 0 {
		s.Body = c.Body
	}
}

// ApplyDayPlan overlays today's plan onto the snapshot.
func (s *ContextSnapshot) ApplyDayPlan(p *DayPlan) {
	if p == nil {
		return
	}
	s.DayWord = p.Word
	s.DayCompletion = p.CompletionPercentage
}

func setIfPresent(dst *string, v *string) {
	if v != nil && *v != "" {
		*dst = *v
	}
}
