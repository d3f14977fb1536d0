package notification

import (
	"time"

	"github.com/google/uuid"

	"github.com/LucasBertrand/SkateHub-Back/internal/database"
	"github.com/LucasBertrand/SkateHub-Back/internal/logs"
	"github.com/LucasBertrand/SkateHub-Back/internal/push"
)

// Notify crée une notification in-app et tente une livraison Web Push.
// Best-effort : jamais bloquant pour l'appelant.
func Notify(recipientID string, ntype NotificationType, actorID, targetID, targetType, message string) {
	if recipientID == "" || recipientID == actorID {
		return
	}

	notif := Notification{
		ID:          uuid.New().String(),
		CreatedAt:   time.Now(),
		Type:        ntype,
		ActorID:     actorID,
		RecipientID: recipientID,
		TargetID:    targetID,
		TargetType:  targetType,
		Message:     message,
	}

	if err := database.DB.Create(&notif).Error; err != nil {
		logs.LogJSON("ERROR", "Notification creation error", map[string]interface{}{
			"error":       err.Error(),
			"recipientID": recipientID,
			"type":        string(ntype),
		})
		return
	}

	push.SendToUser(recipientID, push.Payload{
		Title: "SkateHub",
		Body:  message,
	})
}
