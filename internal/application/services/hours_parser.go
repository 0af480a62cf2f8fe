package services

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Hash-621/TEAM202507-01-Final/internal/domain/entities"
	apperrors "github.com/Hash-621/TEAM202507-01-Final/pkg/errors"
)

const minutesPerDay = 24 * 60

// H:MM or HH:MM, then "~" or "-", then another clock
var timeRangePattern = regexp.MustCompile(`(\d{1,2}):(\d{2})\s*[~\-]\s*(\d{1,2}):(\d{2})`)

var breakMarkers = []string{"브레이크", "break"}

// ParseSchedule extracts the operating window and an optional break window from
// free-form hours text. The first time range is the operating window; when the
// text mentions a break, the next range after it is the break window. Later
// ranges are ignored.
//
// A text without any range yields an empty Schedule and no error. Out-of-range
// clock values yield a PARSE AppError.
func ParseSchedule(text string) (entities.Schedule, error) {
	matches := timeRangePattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return entities.Schedule{}, nil
	}

	primary, err := windowFromMatch(matches[0])
	if err != nil {
		return entities.Schedule{}, err
	}
	if primary.CloseMinutes < primary.OpenMinutes {
		primary.CloseMinutes += minutesPerDay
	}
	schedule := entities.Schedule{Primary: &primary}

	if len(matches) > 1 && mentionsBreak(text) {
		brk, err := windowFromMatch(matches[1])
		if err != nil {
			return entities.Schedule{}, err
		}
		if brk.CloseMinutes < brk.OpenMinutes {
			brk.CloseMinutes += minutesPerDay
		}
		// Move a break that falls after midnight onto the operating window's timeline.
		if primary.CrossesMidnight() && brk.OpenMinutes < primary.OpenMinutes {
			brk.OpenMinutes += minutesPerDay
			brk.CloseMinutes += minutesPerDay
		}
		schedule.Break = &brk
	}

	return schedule, nil
}

func mentionsBreak(text string) bool {
	lower := strings.ToLower(text)
	for _, marker := range breakMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

func windowFromMatch(m []string) (entities.TimeWindow, error) {
	open, err := clockMinutes(m[1], m[2])
	if err != nil {
		return entities.TimeWindow{}, err
	}
	closing, err := clockMinutes(m[3], m[4])
	if err != nil {
		return entities.TimeWindow{}, err
	}
	return entities.TimeWindow{
		OpenMinutes:  open,
		CloseMinutes: closing,
		OpenLabel:    m[1] + ":" + m[2],
		CloseLabel:   m[3] + ":" + m[4],
	}, nil
}

func clockMinutes(hourRaw, minuteRaw string) (int, error) {
	hour, err := strconv.Atoi(hourRaw)
	if err != nil {
		return 0, apperrors.NewParseError("invalid hour", err)
	}
	minute, err := strconv.Atoi(minuteRaw)
	if err != nil {
		return 0, apperrors.NewParseError("invalid minute", err)
	}
	if minute >= 60 || hour > 24 || (hour == 24 && minute > 0) {
		return 0, apperrors.NewParseError("clock out of range", fmt.Errorf("%s:%s", hourRaw, minuteRaw))
	}
	return hour*60 + minute, nil
}
