package model

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"
)

// Mission is the dispatch mission lifecycle entity. Vehicles are weak
// references by name. Notes and alarms are embedded, append-only children.
// Version guards concurrent updates with a conditional write.
type Mission struct {
	ID          uint       `gorm:"primarykey" json:"id"`
	Version     uint       `json:"version"`
	Vehicles    []string   `gorm:"serializer:json" json:"vehicles"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	CreatedBy   string     `json:"createdBy"`
	CreatedAt   time.Time  `json:"createdAt"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completedAt"`

	Notes  []*MissionNote  `json:"notes"`
	Alarms []*MissionAlarm `json:"alarms"`
}

type MissionNote struct {
	ID        uint      `gorm:"primarykey" json:"-"`
	MissionID uint      `gorm:"index" json:"-"`
	By        string    `json:"by"`
	At        time.Time `json:"at"`
	Text      string    `json:"text"`
}

type MissionAlarm struct {
	ID        uint      `gorm:"primarykey" json:"-"`
	MissionID uint      `gorm:"index" json:"-"`
	At        time.Time `json:"at"`
	Note      string    `json:"note"`
}

// MissionUpdate carries the fields of a partial mission update. A nil
// pointer (or nil Vehicles) means the field was absent or of the wrong
// type and must be left alone.
type MissionUpdate struct {
	Vehicles    []string
	Title       *string
	Description *string
	Completed   *bool
}

// ParseMissionUpdate reads a partial update from a request body. Fields
// that are missing or not of the expected type are silently skipped, so a
// caller can send any subset.
func ParseMissionUpdate(data []byte) (*MissionUpdate, error) {
	raw := make(map[string]any)

	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	u := new(MissionUpdate)

	if v, ok := raw["vehicles"].([]any); ok {
		vehicles := make([]string, 0, len(v))

		ok := true

		for _, x := range v {
			s, isStr := x.(string)
			if !isStr {
				ok = false
				break
			}

			vehicles = append(vehicles, s)
		}

		if ok {
			u.Vehicles = vehicles
		}
	}

	if s, ok := raw["title"].(string); ok {
		u.Title = &s
	}

	if s, ok := raw["description"].(string); ok {
		u.Description = &s
	}

	if b, ok := raw["completed"].(bool); ok {
		u.Completed = &b
	}

	return u, nil
}

// Apply applies the changed fields of u to the mission and returns one
// human-readable clause per field that actually changed, in the order
// vehicles, title, description, completed. Setting completed also sets or
// clears CompletedAt.
func (m *Mission) Apply(u *MissionUpdate, now time.Time) []string {
	var changes []string

	if u.Vehicles != nil && !slices.Equal(u.Vehicles, m.Vehicles) {
		changes = append(changes, fmt.Sprintf("vehicles: [%s]→[%s]",
			strings.Join(m.Vehicles, ", "), strings.Join(u.Vehicles, ", ")))
		m.Vehicles = u.Vehicles
	}

	if u.Title != nil && *u.Title != m.Title {
		changes = append(changes, fmt.Sprintf("title: %q→%q", m.Title, *u.Title))
		m.Title = *u.Title
	}

	if u.Description != nil && *u.Description != m.Description {
		// no before/after here - descriptions are long
		changes = append(changes, "description changed")
		m.Description = *u.Description
	}

	if u.Completed != nil && *u.Completed != m.Completed {
		changes = append(changes, fmt.Sprintf("status: %s→%s",
			completedText(m.Completed), completedText(*u.Completed)))
		m.Completed = *u.Completed

		if m.Completed {
			t := now
			m.CompletedAt = &t
		} else {
			m.CompletedAt = nil
		}
	}

	return changes
}

func completedText(completed bool) string {
	if completed {
		return "completed"
	}

	return "open"
}

// HasVehicle reports whether the given vehicle is assigned to the mission.
func (m *Mission) HasVehicle(name string) bool {
	if m == nil {
		return false
	}

	return slices.Contains(m.Vehicles, name)
}
