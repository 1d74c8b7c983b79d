package models

import "time"

// catalogEpoch is the creation time reported for the built-in categories.
var catalogEpoch = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

var predefined = []MoodCategory{
	{ID: "system-happy", Name: "happy", Icon: "😊", Color: "#FFD93D", Description: "感到快乐和满足"},
	{ID: "system-sad", Name: "sad", Icon: "😢", Color: "#74B9FF", Description: "感到悲伤或沮丧"},
	{ID: "system-anxious", Name: "anxious", Icon: "😰", Color: "#FD79A8", Description: "感到紧张或担心"},
	{ID: "system-calm", Name: "calm", Icon: "😌", Color: "#6C5CE7", Description: "感到平静和放松"},
	{ID: "system-angry", Name: "angry", Icon: "😡", Color: "#E84393", Description: "感到愤怒或烦躁"},
	{ID: "system-excited", Name: "excited", Icon: "🤩", Color: "#00B894", Description: "感到兴奋或激动"},
	{ID: "system-tired", Name: "tired", Icon: "😴", Color: "#636E72", Description: "感到疲惫或倦怠"},
	{ID: "system-peaceful", Name: "peaceful", Icon: "🧘‍♀️", Color: "#00CEC9", Description: "感到内心宁静"},
}

// DefaultCategories returns a fresh copy of the eight system categories in
// catalog order.
func DefaultCategories() []MoodCategory {
	out := make([]MoodCategory, len(predefined))
	for i, c := range predefined {
		c.IsPredefined = true
		c.CreatedAt = catalogEpoch
		out[i] = c
	}
	return out
}

// PredefinedMoodNames lists the system category names in catalog order.
func PredefinedMoodNames() []string {
	names := make([]string, len(predefined))
	for i, c := range predefined {
		names[i] = c.Name
	}
	return names
}

// IsPredefinedMood reports whether name is one of the system categories.
func IsPredefinedMood(name string) bool {
	for _, c := range predefined {
		if c.Name == name {
			return true
		}
	}
	return false
}
