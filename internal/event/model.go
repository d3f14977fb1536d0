package event

import (
	"time"
)

// Event est un événement organisé dans un park (contest, initiation,
// session nocturne...).
type Event struct {
	ID          string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	CreatedAt   time.Time `json:"created_at"`
	ParkID      string    `json:"park_id" gorm:"index"`
	Title       string    `json:"title"`
	Description string    `json:"description" gorm:"type:text"`
	StartsAt    time.Time `json:"starts_at" gorm:"index"`
	Capacity    int       `json:"capacity"`
	CreatedBy   string    `json:"created_by"`
}

func (Event) TableName() string {
	return "events"
}

// Attendance lie un utilisateur à un événement. Paire unique : un
// utilisateur ne s'inscrit qu'une fois.
type Attendance struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	CreatedAt time.Time `json:"created_at"`
	EventID   string    `json:"event_id" gorm:"uniqueIndex:idx_event_user"`
	UserID    string    `json:"user_id" gorm:"uniqueIndex:idx_event_user"`
}

func (Attendance) TableName() string {
	return "attendances"
}
