package user

import "time"

type User struct {
	ID              string `gorm:"primaryKey"` // UUID venant de auth.users
	CreatedAt       time.Time
	Username        string
	Firstname       string
	Lastname        string
	AvatarURL       string
	Bio             string
	Email           string
	Language        string
	Stance          string // "regular" ou "goofy"
	SkillLevel      string // "beginner", "intermediate", "advanced"
	HomeParkID      string
	IsAdmin         bool
	IsSeller        bool
	StripeAccountID string
}
