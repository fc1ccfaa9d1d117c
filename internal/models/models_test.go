package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogUnmarshalKeepsDocumentOrder(t *testing.T) {
	raw := []byte(`{
		"Programming Class": {"description": "Learn programming", "schedule": "Tue", "max_participants": 20, "participants": ["a@x.edu"]},
		"Chess Club": {"schedule_details": {"days": ["Friday"], "start_time": "15:30", "end_time": "17:00"}, "max_participants": 12, "participants": []},
		"Art Club": {"description": "Paint", "max_participants": 15}
	}`)
	var catalog Catalog
	require.NoError(t, json.Unmarshal(raw, &catalog))
	assert.Equal(t, []string{"Programming Class", "Chess Club", "Art Club"}, catalog.Names())

	chess, ok := catalog.Find("Chess Club")
	require.True(t, ok)
	assert.Equal(t, "", chess.Description)
	assert.True(t, chess.HasScheduleDetails())
	assert.Equal(t, "15:30", chess.ScheduleDetails.StartTime)
}

func TestCatalogUnmarshalDuplicateKeepsFirstPosition(t *testing.T) {
	var catalog Catalog
	require.NoError(t, json.Unmarshal([]byte(`{"A": {"max_participants": 1}, "B": {}, "A": {"max_participants": 2}}`), &catalog))
	assert.Equal(t, []string{"A", "B"}, catalog.Names())
	assert.Equal(t, 2, catalog[0].MaxParticipants)
}

func TestCatalogUnmarshalRejectsArrays(t *testing.T) {
	var catalog Catalog
	require.Error(t, json.Unmarshal([]byte(`[1,2]`), &catalog))
}

func TestCatalogMarshalRoundTripOrder(t *testing.T) {
	catalog := Catalog{{Name: "Zeta", MaxParticipants: 3}, {Name: "Alpha", Description: "first"}}
	out, err := json.Marshal(catalog)
	require.NoError(t, err)
	assert.Equal(t, `{"Zeta":{"description":"","schedule":"","max_participants":3,"participants":[]},"Alpha":{"description":"first","schedule":"","max_participants":0,"participants":[]}}`, string(out))
}

func TestAnnouncementStatusAt(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	future := now.Add(24 * time.Hour)
	past := now.Add(-24 * time.Hour)

	assert.Equal(t, AnnouncementStatusInactive, Announcement{Active: false, ExpirationDate: future}.StatusAt(now))
	assert.Equal(t, AnnouncementStatusExpired, Announcement{Active: true, ExpirationDate: past}.StatusAt(now))
	assert.Equal(t, AnnouncementStatusExpired, Announcement{Active: true, ExpirationDate: now}.StatusAt(now))
	assert.Equal(t, AnnouncementStatusScheduled, Announcement{Active: true, StartDate: &future, ExpirationDate: future.Add(time.Hour)}.StatusAt(now))
	assert.True(t, Announcement{Active: true, StartDate: &past, ExpirationDate: future}.VisibleAt(now))
	assert.True(t, Announcement{Active: true, ExpirationDate: future}.VisibleAt(now))
}

func TestActivityHelpers(t *testing.T) {
	a := Activity{Participants: []string{"a@x.edu"}}
	assert.True(t, a.HasParticipant("a@x.edu"))
	assert.False(t, a.HasParticipant("b@x.edu"))
	assert.False(t, a.HasScheduleDetails())
	assert.True(t, Activity{ScheduleDetails: &ScheduleDetails{}}.HasScheduleDetails())
	assert.True(t, ActivityFilter{}.IsZero())
	assert.False(t, ActivityFilter{Day: "Monday"}.IsZero())
}
