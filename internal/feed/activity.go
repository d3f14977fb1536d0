package feed

import (
	"time"

	"github.com/google/uuid"

	"github.com/LucasBertrand/SkateHub-Back/internal/database"
	"github.com/LucasBertrand/SkateHub-Back/internal/logs"
)

// ActivityKind est l'union fermée des événements non-post affichables dans le
// feed. Tout nouveau type d'activité passe par une constante ici, jamais par
// un payload libre.
type ActivityKind string

const (
	ActivityChallengeCompleted ActivityKind = "challenge_completed"
	ActivityEventCreated       ActivityKind = "event_created"
	ActivityPassMilestone      ActivityKind = "pass_milestone"
	ActivityListingSold        ActivityKind = "listing_sold"
)

func (k ActivityKind) IsValid() bool {
	switch k {
	case ActivityChallengeCompleted, ActivityEventCreated, ActivityPassMilestone, ActivityListingSold:
		return true
	default:
		return false
	}
}

// Activity est un élément de feed non-post. Les champs Subject* pointent vers
// l'entité concernée selon Kind (défi, événement, pass, listing).
type Activity struct {
	ID            string       `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	CreatedAt     time.Time    `json:"created_at"`
	Kind          ActivityKind `json:"kind" gorm:"index"`
	ActorID       string       `json:"actor_id" gorm:"index"`
	ActorUsername string       `json:"actor_username" gorm:"-"`
	ParkID        string       `json:"park_id,omitempty" gorm:"index"`
	SubjectID     string       `json:"subject_id"`
	SubjectLabel  string       `json:"subject_label"`
}

func (Activity) TableName() string {
	return "activities"
}

// EmitActivity enregistre une activité et la laisse remonter dans le feed au
// prochain chargement de page 1. Best-effort : une erreur est loguée, jamais
// propagée à l'appelant.
func EmitActivity(kind ActivityKind, actorID, parkID, subjectID, subjectLabel string) {
	if !kind.IsValid() {
		logs.LogJSON("WARN", "Invalid activity kind ignored", map[string]interface{}{
			"kind":    string(kind),
			"actorID": actorID,
		})
		return
	}

	activity := Activity{
		ID:           uuid.New().String(),
		CreatedAt:    time.Now(),
		Kind:         kind,
		ActorID:      actorID,
		ParkID:       parkID,
		SubjectID:    subjectID,
		SubjectLabel: subjectLabel,
	}

	if err := database.DB.Create(&activity).Error; err != nil {
		logs.LogJSON("ERROR", "Activity creation error", map[string]interface{}{
			"error":   err.Error(),
			"kind":    string(kind),
			"actorID": actorID,
		})
	}
}
