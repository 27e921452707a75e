package kobo

import "fmt"

// FormatReadingTime renders minutes of reading as "45min", "2h 5min" or
// "3d 4h". Minutes are dropped once the total reaches a day.
func FormatReadingTime(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	if minutes < 60 {
		return fmt.Sprintf("%dmin", minutes)
	}

	hours, mins := minutes/60, minutes%60
	if hours < 24 {
		if mins > 0 {
			return fmt.Sprintf("%dh %dmin", hours, mins)
		}
		return fmt.Sprintf("%dh", hours)
	}

	days, remainingHours := hours/24, hours%24
	if remainingHours > 0 {
		return fmt.Sprintf("%dd %dh", days, remainingHours)
	}
	return fmt.Sprintf("%dd", days)
}
