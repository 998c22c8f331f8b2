package agent

import "time"

// TodayContext grounds relative dates ("yesterday", "last 10 mins") on the host clock.
func TodayContext(now time.Time) map[string]any {
	zone, _ := now.Zone()
	return map[string]any{
		"today":    now.Format("2006-01-02"),
		"now_iso":  now.Format(time.RFC3339),
		"timezone": zone,
	}
}
