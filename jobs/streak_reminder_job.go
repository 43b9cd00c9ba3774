package jobs

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/anjiri1684/mentor_connect/activity"
	"github.com/anjiri1684/mentor_connect/database"
	"github.com/anjiri1684/mentor_connect/models"
	"github.com/anjiri1684/mentor_connect/notifications"
)

// streakAtRisk reports the streak a student would lose by staying inactive
// today: they were active yesterday but not yet today.
func streakAtRisk(counts activity.Counts, today activity.Date) (int, bool) {
	if counts.Active(today) || !counts.Active(today.AddDays(-1)) {
		return 0, false
	}
	return activity.Streak(counts, today), true
}

func streakReminderBody(username string, streak int) string {
	return fmt.Sprintf(
		"<h1>Keep your streak going!</h1><p>Hi %s,</p><p>You have been active %d day(s) in a row. Log in, finish a resource or take a quiz today to keep your streak alive.</p>",
		username, streak,
	)
}

func SendStreakReminders() {
	log.Println("Running job: SendStreakReminders...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	var students []models.User
	if err := database.DB.WithContext(ctx).Where("role = ?", models.RoleStudent).Find(&students).Error; err != nil {
		log.Printf("Error loading students for streak reminders: %v", err)
		return
	}

	store := database.NewActivityStore(database.DB)
	today := activity.DateOf(time.Now())
	sent := 0
	for _, student := range students {
		ev, err := store.Events(ctx, student.ID)
		if err != nil {
			log.Printf("Error loading activity for student %s: %v", student.ID, err)
			continue
		}
		streak, ok := streakAtRisk(activity.Aggregate(ev), today)
		if !ok {
			continue
		}
		notifications.SendEmail(student.Username, student.Email, "Don't lose your streak!", streakReminderBody(student.Username, streak))
		sent++
	}

	log.Printf("Queued %d streak reminder(s).", sent)
}
