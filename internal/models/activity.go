package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ScheduleDetails is the structured form of an activity schedule.
type ScheduleDetails struct {
	Days      []string `json:"days"`
	StartTime string   `json:"start_time"`
	EndTime   string   `json:"end_time"`
}

// Activity is an extracurricular offering as served by the catalog.
type Activity struct {
	Name            string           `json:"-"`
	Description     string           `json:"description"`
	Schedule        string           `json:"schedule"`
	ScheduleDetails *ScheduleDetails `json:"schedule_details,omitempty"`
	MaxParticipants int              `json:"max_participants"`
	Participants    []string         `json:"participants"`
}

// HasScheduleDetails reports whether structured schedule data was recorded.
// An empty day list still counts as recorded.
func (a Activity) HasScheduleDetails() bool {
	return a.ScheduleDetails != nil
}

// HasParticipant reports whether email is registered.
func (a Activity) HasParticipant(email string) bool {
	for _, p := range a.Participants {
		if p == email {
			return true
		}
	}
	return false
}

// ActivityFilter narrows the catalog at the data source.
type ActivityFilter struct {
	Day       string `form:"day" json:"day" validate:"omitempty,weekday"`
	StartTime string `form:"start_time" json:"start_time" validate:"omitempty,clock"`
	EndTime   string `form:"end_time" json:"end_time" validate:"omitempty,clock"`
}

// IsZero reports whether no server-side restriction is requested.
func (f ActivityFilter) IsZero() bool {
	return f.Day == "" && f.StartTime == "" && f.EndTime == ""
}

// Catalog is an ordered set of activities keyed by unique name.
// On the wire it is a JSON object keyed by activity name, kept in document order.
type Catalog []Activity

// Names returns the activity names in catalog order.
func (c Catalog) Names() []string {
	names := make([]string, len(c))
	for i, a := range c {
		names[i] = a.Name
	}
	return names
}

// Find returns the activity with the given name.
func (c Catalog) Find(name string) (Activity, bool) {
	for _, a := range c {
		if a.Name == name {
			return a, true
		}
	}
	return Activity{}, false
}

// MarshalJSON encodes the catalog as a name-keyed object preserving order.
func (c Catalog) MarshalJSON() ([]byte, error) {
	buf := &bytes.Buffer{}
	buf.WriteByte('{')
	for i, a := range c {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(a.Name)
		if err != nil {
			return nil, err
		}
		if a.Participants == nil {
			a.Participants = []string{}
		}
		value, err := json.Marshal(a)
		if err != nil {
			return nil, fmt.Errorf("marshal activity %q: %w", a.Name, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a name-keyed object, keeping document order.
func (c *Catalog) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("decode catalog: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("decode catalog: expected object")
	}
	catalog := Catalog{}
	seen := map[string]int{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("decode catalog key: %w", err)
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("decode catalog: expected string key")
		}
		var activity Activity
		if err := dec.Decode(&activity); err != nil {
			return fmt.Errorf("decode activity %q: %w", name, err)
		}
		activity.Name = name
		if idx, dup := seen[name]; dup {
			catalog[idx] = activity
			continue
		}
		seen[name] = len(catalog)
		catalog = append(catalog, activity)
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("decode catalog: %w", err)
	}
	*c = catalog
	return nil
}
