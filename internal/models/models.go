package models

import (
	"strconv"
	"time"
)

// DateLayout is the calendar-date format used for record dates everywhere.
const DateLayout = "2006-01-02"

// Scope partitions records and categories. An empty UserID is the shared
// anonymous scope.
type Scope struct {
	UserID string
}

// Anonymous is the shared scope used when no identity is present.
var Anonymous = Scope{}

// UserScope returns the scope owned by userID.
func UserScope(userID string) Scope { return Scope{UserID: userID} }

func (s Scope) IsAnonymous() bool { return s.UserID == "" }

// Key is the string form used in local cache keys. The user id is
// length-prefixed so a key followed by a separator never parses two ways.
func (s Scope) Key() string {
	if s.IsAnonymous() {
		return "anon"
	}
	return "u" + strconv.Itoa(len(s.UserID)) + ":" + s.UserID
}

// Owner returns the nullable owner_scope column value.
func (s Scope) Owner() *string {
	if s.IsAnonymous() {
		return nil
	}
	id := s.UserID
	return &id
}

// ScopeFromOwner is the inverse of Owner.
func ScopeFromOwner(owner *string) Scope {
	if owner == nil {
		return Anonymous
	}
	return Scope{UserID: *owner}
}

type MoodRecord struct {
	ID         string    `db:"id" json:"id"`
	OwnerScope *string   `db:"owner_scope" json:"owner_scope"`
	Date       string    `db:"date" json:"date"`
	Mood       string    `db:"mood" json:"mood"`
	Intensity  int       `db:"intensity" json:"intensity"`
	Diary      string    `db:"diary" json:"diary"`
	PhotoURL   *string   `db:"photo_url" json:"photo_url,omitempty"`
	AudioURL   *string   `db:"audio_url" json:"audio_url,omitempty"`
	Tags       Tags      `db:"tags" json:"tags"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// RecordInput is the writable part of a MoodRecord.
type RecordInput struct {
	Date      string   `json:"date" validate:"required,calendardate"`
	Mood      string   `json:"mood" validate:"required,min=1,max=20"`
	Intensity int      `json:"intensity" validate:"gte=1,lte=5"`
	Diary     string   `json:"diary" validate:"max=500"`
	PhotoURL  *string  `json:"photo_url,omitempty" validate:"omitempty,min=1,max=2048"`
	AudioURL  *string  `json:"audio_url,omitempty" validate:"omitempty,min=1,max=2048"`
	Tags      []string `json:"tags" validate:"max=20,dive,min=1,max=30"`
}

// Input strips the identity and timestamps from r.
func (r MoodRecord) Input() RecordInput {
	return RecordInput{
		Date:      r.Date,
		Mood:      r.Mood,
		Intensity: r.Intensity,
		Diary:     r.Diary,
		PhotoURL:  r.PhotoURL,
		AudioURL:  r.AudioURL,
		Tags:      append([]string(nil), r.Tags...),
	}
}

type MoodCategory struct {
	ID           string    `db:"id" json:"id"`
	OwnerScope   *string   `db:"owner_scope" json:"owner_scope"`
	Name         string    `db:"name" json:"name"`
	Icon         string    `db:"icon" json:"icon"`
	Color        string    `db:"color" json:"color"`
	Description  string    `db:"description" json:"description"`
	IsPredefined bool      `db:"is_predefined" json:"is_predefined"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// CategoryInput is a candidate custom category.
type CategoryInput struct {
	Name        string `json:"name" validate:"required,min=1,max=20"`
	Icon        string `json:"icon" validate:"required,min=1,max=10"`
	Color       string `json:"color" validate:"required,min=1,max=20"`
	Description string `json:"description" validate:"required,min=1,max=100"`
}

// CategoryPatch holds the fields an owner may change. Nil fields are kept.
type CategoryPatch struct {
	Icon        *string `json:"icon,omitempty" validate:"omitempty,min=1,max=10"`
	Color       *string `json:"color,omitempty" validate:"omitempty,min=1,max=20"`
	Description *string `json:"description,omitempty" validate:"omitempty,min=1,max=100"`
}

func (p CategoryPatch) IsEmpty() bool {
	return p.Icon == nil && p.Color == nil && p.Description == nil
}

// Apply returns c with the patch applied.
func (p CategoryPatch) Apply(c MoodCategory) MoodCategory {
	if p.Icon != nil {
		c.Icon = *p.Icon
	}
	if p.Color != nil {
		c.Color = *p.Color
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
	return c
}

// MoodShare is one slice of the mood distribution.
type MoodShare struct {
	Mood       string `json:"mood"`
	Count      int    `json:"count"`
	Percentage int    `json:"percentage"`
}

type Stats struct {
	TotalRecords     int            `json:"total_records"`
	MoodCounts       map[string]int `json:"mood_counts"`
	Distribution     []MoodShare    `json:"distribution"`
	AverageIntensity float64        `json:"average_intensity"`
	CurrentStreak    int            `json:"current_streak"`
	LongestStreak    int            `json:"longest_streak"`
}

type WordFrequency struct {
	Word      string `json:"word"`
	Frequency int    `json:"frequency"`
}

type TrendPoint struct {
	Date          string  `json:"date"`
	Mood          string  `json:"mood"`
	Intensity     int     `json:"intensity"`
	MoodValue     int     `json:"mood_value"`
	CombinedValue float64 `json:"combined_value"`
}

// MediaKind is the attachment slot a media object belongs to.
type MediaKind string

const (
	MediaPhoto MediaKind = "photo"
	MediaAudio MediaKind = "audio"
)

func (k MediaKind) Valid() bool { return k == MediaPhoto || k == MediaAudio }
