package activity

// Streak returns the number of consecutive active days ending today, or
// ending yesterday when today has no activity yet. Older runs do not count:
// with no activity today or yesterday the streak is 0.
func Streak(counts Counts, today Date) int {
	cursor := today
	if !counts.Active(today) {
		cursor = today.AddDays(-1)
		if !counts.Active(cursor) {
			return 0
		}
	}

	streak := 0
	for counts.Active(cursor) {
		streak++
		cursor = cursor.AddDays(-1)
	}
	return streak
}
