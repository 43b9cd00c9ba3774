package activity

import (
	"sort"
	"time"
)

// Counts maps an active day to the number of events seen on it.
type Counts map[Date]int

// Aggregate tallies every non-nil timestamp of every source into its UTC day.
// The result does not depend on the order of the input.
func Aggregate(events Events) Counts {
	counts := make(Counts)
	for _, source := range [][]*time.Time{events.Logins, events.ResourceCompletions, events.QuizAttempts} {
		for _, ts := range source {
			if ts == nil {
				continue
			}
			counts[DateOf(*ts)]++
		}
	}
	return counts
}

func (c Counts) Active(d Date) bool {
	return c[d] > 0
}

// Days returns the active days in ascending order.
func (c Counts) Days() []Date {
	days := make([]Date, 0, len(c))
	for d, n := range c {
		if n > 0 {
			days = append(days, d)
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days
}

// ActiveDaysBetween counts active days in [from, to].
func (c Counts) ActiveDaysBetween(from, to Date) int {
	n := 0
	for d, v := range c {
		if v > 0 && !d.Before(from) && !d.After(to) {
			n++
		}
	}
	return n
}
