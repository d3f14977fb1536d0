package push

import (
	"encoding/json"
	"net/http"
	"os"

	webpush "github.com/SherClockHolmes/webpush-go"

	"github.com/LucasBertrand/SkateHub-Back/internal/database"
	"github.com/LucasBertrand/SkateHub-Back/internal/logs"
)

// Payload est le corps envoyé au service worker.
type Payload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	URL   string `json:"url,omitempty"`
}

// SendToUser envoie une notification push à tous les appareils d'un
// utilisateur. Best-effort : les erreurs sont loguées, jamais remontées.
func SendToUser(userID string, payload Payload) {
	var subs []Subscription
	if err := database.DB.Where("user_id = ?", userID).Find(&subs).Error; err != nil {
		logs.LogJSON("ERROR", "Push subscriptions lookup error", map[string]interface{}{
			"error":  err.Error(),
			"userID": userID,
		})
		return
	}

	for _, sub := range subs {
		send(sub, payload)
	}
}

// Broadcast envoie une notification push à tous les abonnés.
func Broadcast(payload Payload) int {
	var subs []Subscription
	if err := database.DB.Find(&subs).Error; err != nil {
		logs.LogJSON("ERROR", "Push subscriptions lookup error", map[string]interface{}{
			"error": err.Error(),
		})
		return 0
	}

	for _, sub := range subs {
		send(sub, payload)
	}
	return len(subs)
}

func send(sub Subscription, payload Payload) {
	body, _ := json.Marshal(payload)

	resp, err := webpush.SendNotification(body, &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256dh,
			Auth:   sub.Auth,
		},
	}, &webpush.Options{
		Subscriber:      os.Getenv("VAPID_CONTACT_EMAIL"),
		VAPIDPublicKey:  os.Getenv("VAPID_PUBLIC_KEY"),
		VAPIDPrivateKey: os.Getenv("VAPID_PRIVATE_KEY"),
		TTL:             3600,
	})
	if err != nil {
		logs.LogJSON("WARN", "Push delivery error", map[string]interface{}{
			"error":  err.Error(),
			"userID": sub.UserID,
		})
		return
	}
	defer resp.Body.Close()

	// Abonnement mort : le navigateur a révoqué l'endpoint, on purge la ligne
	if resp.StatusCode == http.StatusGone || resp.StatusCode == http.StatusNotFound {
		if err := database.DB.Delete(&Subscription{}, "id = ?", sub.ID).Error; err == nil {
			logs.LogJSON("INFO", "Stale push subscription pruned", map[string]interface{}{
				"userID": sub.UserID,
			})
		}
	}
}
