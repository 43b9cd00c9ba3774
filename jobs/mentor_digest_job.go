package jobs

import (
	"context"
	"fmt"
	"html"
	"log"
	"strings"
	"time"

	"github.com/anjiri1684/mentor_connect/activity"
	"github.com/anjiri1684/mentor_connect/database"
	"github.com/anjiri1684/mentor_connect/models"
	"github.com/anjiri1684/mentor_connect/notifications"
	"github.com/google/uuid"
)

const InactivityThreshold = 7 * 24 * time.Hour

type inactiveStudent struct {
	models.User
	LastSeen *time.Time
}

// lastSeen is the latest of the user's activity columns and activity events.
func lastSeen(u models.User, ev activity.Events) *time.Time {
	var last *time.Time
	consider := func(t *time.Time) {
		if t != nil && (last == nil || t.After(*last)) {
			last = t
		}
	}
	consider(u.LastActivity)
	consider(u.LastLogin)
	for _, source := range [][]*time.Time{ev.Logins, ev.ResourceCompletions, ev.QuizAttempts} {
		for _, t := range source {
			consider(t)
		}
	}
	return last
}

// inactiveStudents returns the students with no activity since
// now-threshold. A student with no recorded activity counts as inactive.
func inactiveStudents(students []models.User, events map[uuid.UUID]activity.Events, now time.Time, threshold time.Duration) []inactiveStudent {
	cutoff := now.Add(-threshold)
	var out []inactiveStudent
	for _, s := range students {
		last := lastSeen(s, events[s.ID])
		if last == nil || last.Before(cutoff) {
			out = append(out, inactiveStudent{User: s, LastSeen: last})
		}
	}
	return out
}

func digestBody(mentor models.User, students []inactiveStudent, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<h1>Weekly mentee digest</h1><p>Hi %s,</p><p>These students have not been active in the last 7 days:</p><ul>", html.EscapeString(mentor.Username))
	for _, s := range students {
		seen := "never"
		if s.LastSeen != nil {
			seen = fmt.Sprintf("%d days ago", int(now.Sub(*s.LastSeen).Hours()/24))
		}
		fmt.Fprintf(&b, "<li>%s (last active %s)</li>", html.EscapeString(s.Username), seen)
	}
	b.WriteString("</ul><p>A quick message can help them get back on track.</p>")
	return b.String()
}

func SendMentorDigests() {
	log.Println("Running job: SendMentorDigests...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	var mentors []models.User
	if err := database.DB.WithContext(ctx).Where("role = ?", models.RoleMentor).Find(&mentors).Error; err != nil {
		log.Printf("Error loading mentors for digest: %v", err)
		return
	}

	store := database.NewActivityStore(database.DB)
	now := time.Now().UTC()
	sent := 0
	for _, mentor := range mentors {
		var students []models.User
		if err := database.DB.WithContext(ctx).Where("mentor_id = ? AND role = ?", mentor.ID, models.RoleStudent).Find(&students).Error; err != nil {
			log.Printf("Error loading students of mentor %s: %v", mentor.ID, err)
			continue
		}
		events := make(map[uuid.UUID]activity.Events, len(students))
		for _, student := range students {
			ev, err := store.Events(ctx, student.ID)
			if err != nil {
				log.Printf("Error loading activity for student %s: %v", student.ID, err)
				continue
			}
			events[student.ID] = ev
		}
		inactive := inactiveStudents(students, events, now, InactivityThreshold)
		if len(inactive) == 0 {
			continue
		}
		notifications.SendEmail(mentor.Username, mentor.Email, "Students who need a check-in", digestBody(mentor, inactive, now))
		sent++
	}

	log.Printf("Queued %d mentor digest(s).", sent)
}
