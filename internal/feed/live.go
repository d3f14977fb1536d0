package feed

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/LucasBertrand/SkateHub-Back/internal/logs"
	"github.com/LucasBertrand/SkateHub-Back/internal/realtime"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// L'auth se fait par JWT, pas par origine
	CheckOrigin: func(r *http.Request) bool { return true },
}

// message entrant d'un client live
type liveCommand struct {
	Action string `json:"action"`            // "load_more" | "refresh" | "remove"
	PostID string `json:"post_id,omitempty"` // cible de "remove"
}

// message sortant vers un client live
type liveState struct {
	Items []FeedItem `json:"items"`
}

// LiveFeed GET /api/feed/live : connexion WebSocket portant le feed vivant du
// lecteur. La connexion détient son Reconciler et son abonnement au hub ;
// tout est libéré à la fermeture.
func LiveFeed(c *gin.Context) {
	viewerID := c.GetString("user_id")
	if viewerID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Utilisateur non authentifié"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logs.LogJSON("WARN", "WebSocket upgrade failed", map[string]interface{}{
			"error":  err.Error(),
			"userID": viewerID,
		})
		return
	}
	defer conn.Close()

	reconciler := NewReconciler(source, viewerID, 20)
	sub := realtime.DefaultHub.Subscribe()
	defer sub.Close()

	// Chargement initial
	if err := reconciler.LoadNext(); err == nil {
		_ = conn.WriteJSON(liveState{Items: reconciler.Items()})
	}

	// Commandes du client (pagination) sur une goroutine dédiée.
	// done garantit que le lecteur ne reste pas bloqué sur l'envoi
	// quand la boucle principale sort la première.
	commands := make(chan liveCommand)
	done := make(chan struct{})
	defer close(done)
	go func() {
		defer close(commands)
		for {
			var cmd liveCommand
			if err := conn.ReadJSON(&cmd); err != nil {
				return
			}
			select {
			case commands <- cmd:
			case <-done:
				return
			}
		}
	}()

	for {
		select {
		case change, ok := <-sub.C:
			if !ok {
				return
			}
			reconciler.ApplyChange(change)
			if err := conn.WriteJSON(liveState{Items: reconciler.Items()}); err != nil {
				return
			}

		case cmd, ok := <-commands:
			if !ok {
				return
			}
			switch cmd.Action {
			case "load_more":
				_ = reconciler.LoadNext()
			case "refresh":
				_ = reconciler.Refresh()
			case "remove":
				// retrait optimiste côté client, avant l'ack du serveur
				reconciler.RemoveLocal(cmd.PostID)
			}
			if err := conn.WriteJSON(liveState{Items: reconciler.Items()}); err != nil {
				return
			}
		}
	}
}
