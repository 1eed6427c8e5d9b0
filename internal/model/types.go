package model

import "time"

// Profile represents a local user profile. One device may carry several
// profiles (e.g. family sharing); every plan and entry belongs to exactly one.
type Profile struct {
	ProfileID       string     `json:"profileId"`
	DisplayName     string     `json:"displayName"`
	Denomination    string     `json:"denomination,omitempty"`
	Goals           string     `json:"goals,omitempty"`
	StreakCount     int        `json:"streakCount"`
	WeeklyCompleted int        `json:"weeklyCompleted"`
	LastActive      *time.Time `json:"lastActive,omitempty"`
	LastWeekKey     string     `json:"-"`
	CreationTime    time.Time  `json:"creationTime"`
}

// Entry is a free-form journal entry. Kind is "journal" or "prayer".
type Entry struct {
	EntryID      string    `json:"entryId"`
	ProfileID    string    `json:"profileId"`
	Kind         string    `json:"kind"`
	Content      string    `json:"content"`
	Tags         []string  `json:"tags,omitempty"`
	CreationTime time.Time `json:"creationTime"`
}

// Passage is a fixed unit of scripture with theme tags, loaded once at
// startup from the bundled catalog.
type Passage struct {
	Reference string   `json:"reference"`
	Text      string   `json:"text"`
	Themes    []string `json:"themes"`
	CrossRefs []string `json:"crossrefs"`
}

// DevotionalContent is the generated (or fallback) reflection attached to a
// daily plan. Immutable once constructed; the governor returns new values.
type DevotionalContent struct {
	Application string   `json:"application"`
	Prayer      string   `json:"prayer"`
	Challenge   string   `json:"challenge"`
	CrossRefs   []string `json:"crossrefs,omitempty"`
}

// DailyPlan progress markers. The core only ever writes StatusActive;
// the client advances the status forward from there.
const (
	StatusActive  = "active"
	StatusStarted = "started"
	StatusDone    = "done"
	StatusSkipped = "skipped"
)

// DailyPlan is the daily unit of devotional content for a profile. At most
// one exists per (profile, day); the scripture fields are a frozen snapshot
// of the selected passage.
type DailyPlan struct {
	PlanID        string            `json:"planId"`
	ProfileID     string            `json:"profileId"`
	Day           time.Time         `json:"day"`
	ScriptureRef  string            `json:"scriptureRef"`
	ScriptureText string            `json:"scriptureText"`
	Content       DevotionalContent `json:"content"`
	Status        string            `json:"status"`
	CreationTime  time.Time         `json:"creationTime"`
}

// WeeklyRecap is the rendered weekly summary for a profile, one per
// (profile, week start).
type WeeklyRecap struct {
	RecapID      string                 `json:"recapId"`
	ProfileID    string                 `json:"profileId"`
	WeekStart    time.Time              `json:"weekStart"`
	RecapMD      string                 `json:"recapMD"`
	Metrics      map[string]interface{} `json:"metrics,omitempty"`
	CreationTime time.Time              `json:"creationTime"`
}

// ListEntriesRequest captures filters used when listing journal entries.
type ListEntriesRequest struct {
	ProfileID string
	After     *time.Time
	Before    *time.Time
	Limit     int
}

// ListPlansRequest captures filters used when listing daily plans.
type ListPlansRequest struct {
	ProfileID string
	From      *time.Time
	To        *time.Time
}
