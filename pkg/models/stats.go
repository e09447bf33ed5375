package models

// DayActivity is the per-calendar-day rollup inside an activity window.
type DayActivity struct {
	Count        int `json:"count"`
	TotalMinutes int `json:"total_minutes"`
}

// ProductiveDay names the day with the most accumulated focus time.
type ProductiveDay struct {
	Day     string `json:"day"`
	Minutes int    `json:"minutes"`
}

// Stats is the server-derived summary over a user's sessions.
//
// The three activity maps are keyed by calendar day ("2026-08-30" for
// the 7/30-day windows, weekday names for all-time). After Normalize
// they are always present, possibly empty, never nil, so consumers can
// index them unconditionally.
type Stats struct {
	TotalSessions     int                    `json:"total_sessions"`
	CompletedSessions int                    `json:"completed_sessions"`
	TotalFocusTime    int                    `json:"total_focus_time"` // minutes
	Last7Days         map[string]DayActivity `json:"last_7_days"`
	Last30Days        map[string]DayActivity `json:"last_30_days"`
	AllTime           map[string]DayActivity `json:"all_time"`

	// Derived metrics. Optional: older servers omit them.
	AverageSessionMinutes float64        `json:"average_session_minutes,omitempty"`
	MostProductiveDay     *ProductiveDay `json:"most_productive_day,omitempty"`
	CompletionTrend       float64        `json:"completion_trend,omitempty"`
	CurrentStreak         int            `json:"current_streak,omitempty"`
}

// Normalize fills in any activity map the server omitted so every map
// can be indexed without a nil check.
func (s *Stats) Normalize() {
	if s.Last7Days == nil {
		s.Last7Days = map[string]DayActivity{}
	}
	if s.Last30Days == nil {
		s.Last30Days = map[string]DayActivity{}
	}
	if s.AllTime == nil {
		s.AllTime = map[string]DayActivity{}
	}
}

// Clone returns a deep copy so callers can hand out snapshots without
// sharing map state.
func (s *Stats) Clone() *Stats {
	if s == nil {
		return nil
	}
	out := *s
	out.Last7Days = cloneActivity(s.Last7Days)
	out.Last30Days = cloneActivity(s.Last30Days)
	out.AllTime = cloneActivity(s.AllTime)
	if s.MostProductiveDay != nil {
		day := *s.MostProductiveDay
		out.MostProductiveDay = &day
	}
	return &out
}

func cloneActivity(m map[string]DayActivity) map[string]DayActivity {
	if m == nil {
		return nil
	}
	out := make(map[string]DayActivity, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
