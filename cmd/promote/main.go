// Command promote changes the role of an existing user.
//
//	promote -email jane@example.com -role mentor
package main

import (
	"context"
	"flag"
	"log"
	"strings"

	"github.com/anjiri1684/mentor_connect/database"
	"github.com/anjiri1684/mentor_connect/models"
	"github.com/anjiri1684/mentor_connect/services"
)

func main() {
	email := flag.String("email", "", "email of the user to promote")
	role := flag.String("role", models.RoleAdmin, "new role: admin, mentor or student")
	flag.Parse()

	if *email == "" {
		flag.Usage()
		log.Fatal("🔥 -email is required")
	}
	if !models.ValidRole(*role) {
		log.Fatalf("🔥 Invalid role %q", *role)
	}

	database.ConnectDB()

	var user models.User
	if err := database.DB.Where("email = ?", strings.ToLower(strings.TrimSpace(*email))).First(&user).Error; err != nil {
		log.Fatalf("🔥 User %s not found: %v", *email, err)
	}

	updated, err := services.NewUserService(database.DB).Update(context.Background(), user.ID, services.UserUpdate{Role: role})
	if err != nil {
		log.Fatalf("🔥 Failed to change role: %v", err)
	}
	log.Printf("✅ %s is now %s", updated.Email, updated.Role)
}
