package services

import (
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Hash-621/TEAM202507-01-Final/internal/domain/entities"
)

var koreanWeekdays = [7]string{"일", "월", "화", "수", "목", "금", "토"}

// BusinessHoursService resolves whether a facility is open right now. Any
// failure degrades to CLOSED: showing a closed place as open is the worse error.
type BusinessHoursService struct {
	loc   *time.Location
	clock func() time.Time
}

// NewBusinessHoursService creates a resolver evaluating wall-clock time in loc.
// A nil clock uses time.Now.
func NewBusinessHoursService(loc *time.Location, clock func() time.Time) *BusinessHoursService {
	if loc == nil {
		loc = time.Local
	}
	if clock == nil {
		clock = time.Now
	}
	return &BusinessHoursService{loc: loc, clock: clock}
}

// Resolve evaluates hoursText against the current time
func (s *BusinessHoursService) Resolve(hoursText *string) entities.BusinessStatus {
	return s.ResolveAt(hoursText, s.clock())
}

// ResolveAt evaluates hoursText against now
func (s *BusinessHoursService) ResolveAt(hoursText *string, now time.Time) entities.BusinessStatus {
	if hoursText == nil || strings.TrimSpace(*hoursText) == "" {
		return closed(entities.HoursLabelNoInfo)
	}
	text := *hoursText
	local := now.In(s.loc)

	// Over-triggers on phrases like "화요일 휴무 없음"; kept deliberately conservative.
	today := koreanWeekdays[local.Weekday()]
	if strings.Contains(text, today+"요일 휴무") || strings.Contains(text, today+"요일휴무") {
		return closed(entities.HoursLabelClosedToday)
	}

	schedule, err := ParseSchedule(text)
	if err != nil {
		log.Debug().Err(err).Str("hours", text).Msg("unparseable hours text")
		return closed(text)
	}
	if schedule.Primary == nil {
		return closed(text)
	}
	window := *schedule.Primary
	label := window.Label()

	current := local.Hour()*60 + local.Minute()
	if window.CrossesMidnight() && current < window.OpenMinutes && current < window.CloseMinutes-minutesPerDay {
		current += minutesPerDay
	}

	if schedule.Break != nil && schedule.Break.Contains(current) {
		return entities.BusinessStatus{Status: entities.OpenStateBreak, TodayLabel: label}
	}
	if window.Contains(current) {
		return entities.BusinessStatus{Status: entities.OpenStateOpen, TodayLabel: label}
	}
	return closed(label)
}

func closed(label string) entities.BusinessStatus {
	return entities.BusinessStatus{Status: entities.OpenStateClosed, TodayLabel: label}
}
