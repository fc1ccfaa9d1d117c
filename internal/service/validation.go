package service

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/sma-activities-api/internal/directory"
)

// calendarDays is the display order for weekday listings.
var calendarDays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

func normalizeWeekday(raw string) string {
	trimmed := strings.TrimSpace(raw)
	for _, day := range calendarDays {
		if strings.EqualFold(day, trimmed) {
			return day
		}
	}
	return trimmed
}

func isClock(value string) bool {
	if len(value) != 5 || value[2] != ':' {
		return false
	}
	for i, r := range value {
		if i == 2 {
			continue
		}
		if r < '0' || r > '9' {
			return false
		}
	}
	return value[:2] <= "23" && value[3:] <= "59"
}

// registerDirectoryValidations installs the weekday, clock, category and timerange tags.
func registerDirectoryValidations(v *validator.Validate) {
	_ = v.RegisterValidation("weekday", func(fl validator.FieldLevel) bool {
		day := normalizeWeekday(fl.Field().String())
		for _, d := range calendarDays {
			if d == day {
				return true
			}
		}
		return false
	})
	_ = v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		return isClock(fl.Field().String())
	})
	_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		_, ok := directory.ParseCategory(fl.Field().String())
		return ok
	})
	_ = v.RegisterValidation("timerange", func(fl validator.FieldLevel) bool {
		_, ok := directory.ParseTimeRange(fl.Field().String())
		return ok
	})
}
