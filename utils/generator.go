package utils

import (
	"errors"
	"math/rand"
	"strings"
	"time"

	"github.com/anjiri1684/mentor_connect/models"
	"gorm.io/gorm"
)

const (
	maxUsernameLength = 20
	minUsernameLength = 2
	suffixLength      = 4
	digitBytes        = "0123456789"
	maxAttempts       = 50
)

var ErrNoUsername = errors.New("could not generate a unique username")

// BaseUsername derives a username candidate from the local part of an email,
// keeping letters, digits, dots, dashes and underscores.
func BaseUsername(email string) string {
	local := strings.ToLower(email)
	if i := strings.Index(local, "@"); i >= 0 {
		local = local[:i]
	}
	var b strings.Builder
	for _, r := range local {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		}
	}
	base := b.String()
	if len(base) < minUsernameLength {
		base = "user"
	}
	if len(base) > maxUsernameLength-suffixLength {
		base = base[:maxUsernameLength-suffixLength]
	}
	return base
}

func GenerateUniqueUsername(tx *gorm.DB, email string) (string, error) {
	seededRand := rand.New(rand.NewSource(time.Now().UnixNano()))
	base := BaseUsername(email)

	candidate := base
	for i := 0; i < maxAttempts; i++ {
		var count int64
		if err := tx.Model(&models.User{}).Where("username = ?", candidate).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}

		b := make([]byte, suffixLength)
		for j := range b {
			b[j] = digitBytes[seededRand.Intn(len(digitBytes))]
		}
		candidate = base + string(b)
	}
	return "", ErrNoUsername
}
