package domain

// Role identifies the author of a coach message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

func (r Role) String() string { return string(r) }

func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleAssistant, RoleSystem:
		return true
	}
	return false
}

// MemoryCategory groups coach memories. Only preferences are extracted
// automatically; other categories are written by clients.
type MemoryCategory string

const (
	MemoryCategoryPreference MemoryCategory = "preference"
	MemoryCategoryGoal       MemoryCategory = "goal"
	MemoryCategoryPattern    MemoryCategory = "pattern"
	MemoryCategoryInsight    MemoryCategory = "insight"
)

func (c MemoryCategory) String() string { return string(c) }

func (c MemoryCategory) IsValid() bool {
	switch c {
	case MemoryCategoryPreference, MemoryCategoryGoal, MemoryCategoryPattern, MemoryCategoryInsight:
		return true
	}
	return false
}
