package directory

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/noah-isme/sma-activities-api/internal/models"
)

// FormatSchedule renders the display schedule of an activity.
// Structured schedules become "Monday, Wednesday, 3:30 PM - 5:00 PM"; legacy strings are returned as-is.
func FormatSchedule(a models.Activity) string {
	if a.ScheduleDetails == nil {
		return a.Schedule
	}
	d := a.ScheduleDetails
	return fmt.Sprintf("%s, %s - %s", strings.Join(d.Days, ", "), To12Hour(d.StartTime), To12Hour(d.EndTime))
}

// To12Hour converts a 24h HH:MM clock to H:MM AM/PM. Unparseable input is returned unchanged.
func To12Hour(clock string) string {
	hoursRaw, minutesRaw, ok := strings.Cut(strings.TrimSpace(clock), ":")
	if !ok {
		return clock
	}
	hours, err := strconv.Atoi(hoursRaw)
	if err != nil || hours < 0 || hours > 23 {
		return clock
	}
	minutes, err := strconv.Atoi(minutesRaw)
	if err != nil || minutes < 0 || minutes > 59 {
		return clock
	}
	period := "AM"
	if hours >= 12 {
		period = "PM"
	}
	display := hours % 12
	if display == 0 {
		display = 12
	}
	return fmt.Sprintf("%d:%02d %s", display, minutes, period)
}
