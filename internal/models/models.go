package models

import "time"

// Role identifies which track the user is on.
type Role string

const (
	RoleStudent Role = "student"
	RoleRN      Role = "rn"
)

// TimeBlockType classifies a weekly planner block.
type TimeBlockType string

const (
	BlockFixed   TimeBlockType = "Fixed"
	BlockFocused TimeBlockType = "Focused"
	BlockFlex    TimeBlockType = "Flex"
)

// ShiftType classifies a logged work shift.
type ShiftType string

const (
	ShiftDay     ShiftType = "Day"
	ShiftEvening ShiftType = "Evening"
	ShiftNight   ShiftType = "Night"
)

// MediaType distinguishes audio from video recordings.
type MediaType string

const (
	MediaAudio MediaType = "audio"
	MediaVideo MediaType = "video"
)

// StudentProfile holds the student-specific part of a profile.
type StudentProfile struct {
	ProgramType string `json:"programType"` // BSN, ADN, Accelerated
	Semester    string `json:"semester"`
	Year        string `json:"year"`
}

// RNProfile holds the RN-specific part of a profile.
type RNProfile struct {
	YearsExperience string `json:"yearsExperience"`
	Setting         string `json:"setting"` // Hospital, Clinic, Community
}

// UserProfile is the single active profile on the device.
// At most one of StudentProfile/RNProfile is set, matching Role.
type UserProfile struct {
	FirstName              string          `json:"firstName"`
	Role                   Role            `json:"role"`
	Priorities             []string        `json:"priorities,omitempty"`
	StudentProfile         *StudentProfile `json:"studentProfile,omitempty"`
	RNProfile              *RNProfile      `json:"rnProfile,omitempty"`
	HasCompletedOnboarding bool            `json:"hasCompletedOnboarding"`
	AvatarEmoji            *string         `json:"avatarEmoji,omitempty"`
	AvatarURL              *string         `json:"avatarUrl,omitempty"`
	CreatedAt              time.Time       `json:"createdAt,omitzero"`
	UpdatedAt              time.Time       `json:"updatedAt,omitzero"`
}

// DailyCheckIn is the once-per-day mood record. Date is "YYYY-MM-DD";
// a second check-in on the same date overwrites the first.
type DailyCheckIn struct {
	ID        string    `json:"id,omitempty"`
	Date      string    `json:"date"`
	Mood      int       `json:"mood"`   // 1-5
	Stress    int       `json:"stress"` // 1-5
	Energy    int       `json:"energy"` // 1-5
	Note      *string   `json:"note,omitempty"`
	Gratitude []string  `json:"gratitude"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
}

// JournalEntry is an append-only dated note.
type JournalEntry struct {
	ID        string    `json:"id,omitempty"`
	Date      string    `json:"date"`
	Title     *string   `json:"title,omitempty"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
}

// SelfCareActivity is a catalog entry. RoleTag limits visibility to one
// role; nil means visible to both.
type SelfCareActivity struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	DurationMinutes int       `json:"durationMinutes"`
	Category        string    `json:"category"` // Body, Mind, Heart, Academic, Boundaries
	RoleTag         *Role     `json:"roleTag,omitempty"`
	IsFavorite      bool      `json:"isFavorite"`
	CreatedAt       time.Time `json:"createdAt,omitzero"`
}

// TimeBlock is one block in the weekly planner.
type TimeBlock struct {
	ID        string        `json:"id,omitempty"`
	Day       string        `json:"day"` // Monday..Sunday
	StartTime string        `json:"startTime"`
	EndTime   string        `json:"endTime"`
	Type      TimeBlockType `json:"type"`
	Title     *string       `json:"title,omitempty"`
	CreatedAt time.Time     `json:"createdAt,omitzero"`
}

// Shift is a logged work shift with optional end-of-shift reflections.
type Shift struct {
	ID               string    `json:"id,omitempty"`
	Date             string    `json:"date"`
	StartTime        string    `json:"startTime"`
	EndTime          string    `json:"endTime"`
	Type             ShiftType `json:"type"`
	ProudOf          *string   `json:"proudOf,omitempty"`
	Releasing        *string   `json:"releasing,omitempty"`
	MeaningfulMoment *string   `json:"meaningfulMoment,omitempty"`
	CreatedAt        time.Time `json:"createdAt,omitzero"`
}

// BarrierCategories is the closed category set for student barriers.
var BarrierCategories = []string{"Academic", "Time", "Family-Work", "Financial", "Health", "Emotional", "Other"}

// ChallengeCategories is the closed category set for RN challenges.
var ChallengeCategories = []string{"Workload", "Emotional", "Team", "Moral Distress", "Health", "Other"}

// ReflectionEntry is a barrier (student) or challenge (RN) record. The two
// are structurally identical apart from the category set; the sync layer
// keeps them in separate collections.
type ReflectionEntry struct {
	ID          string    `json:"id,omitempty"`
	Date        string    `json:"date"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	ActionStep  string    `json:"actionStep"`
	CreatedAt   time.Time `json:"createdAt,omitzero"`
}

// MediaRecording is the metadata row for one uploaded blob. FilePath is
// the object key inside the type-specific bucket.
type MediaRecording struct {
	ID              string    `json:"id"`
	UserID          string    `json:"userId"`
	MediaType       MediaType `json:"mediaType"`
	FilePath        string    `json:"filePath"`
	Title           *string   `json:"title,omitempty"`
	Description     *string   `json:"description,omitempty"`
	DurationSeconds *int      `json:"durationSeconds,omitempty"`
	FileSizeBytes   *int64    `json:"fileSizeBytes,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}
