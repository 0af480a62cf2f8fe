package entities

// OpenState is the tri-state outcome of resolving operating hours
type OpenState string

const (
	OpenStateOpen   OpenState = "OPEN"
	OpenStateBreak  OpenState = "BREAK"
	OpenStateClosed OpenState = "CLOSED"
)

// Labels shown when no time window can be displayed
const (
	HoursLabelNoInfo      = "정보 없음"
	HoursLabelClosedToday = "금일 휴무"
)

// BusinessStatus is derived from hours text and the current time; never persisted.
type BusinessStatus struct {
	Status     OpenState `json:"status"`
	TodayLabel string    `json:"todayLabel"`
}

// TimeWindow is a span in minutes since midnight. CloseMinutes exceeds 1440 when
// the window runs past midnight.
type TimeWindow struct {
	OpenMinutes  int    `json:"openMinutes"`
	CloseMinutes int    `json:"closeMinutes"`
	OpenLabel    string `json:"openLabel"`
	CloseLabel   string `json:"closeLabel"`
}

// CrossesMidnight reports whether the window wraps into the next day
func (w TimeWindow) CrossesMidnight() bool {
	return w.CloseMinutes >= 24*60
}

// Contains reports whether minute falls in [open, close)
func (w TimeWindow) Contains(minute int) bool {
	return minute >= w.OpenMinutes && minute < w.CloseMinutes
}

// Label renders the window the way it was written
func (w TimeWindow) Label() string {
	return w.OpenLabel + "~" + w.CloseLabel
}

// Schedule is the parsed form of an hours string
type Schedule struct {
	Primary *TimeWindow `json:"primary,omitempty"`
	Break   *TimeWindow `json:"break,omitempty"`
}
