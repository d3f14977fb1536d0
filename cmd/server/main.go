package main

import (
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/LucasBertrand/SkateHub-Back/internal/admin"
	"github.com/LucasBertrand/SkateHub-Back/internal/announcement"
	"github.com/LucasBertrand/SkateHub-Back/internal/auth"
	"github.com/LucasBertrand/SkateHub-Back/internal/config"
	"github.com/LucasBertrand/SkateHub-Back/internal/database"
	"github.com/LucasBertrand/SkateHub-Back/internal/event"
	"github.com/LucasBertrand/SkateHub-Back/internal/feed"
	"github.com/LucasBertrand/SkateHub-Back/internal/like"
	"github.com/LucasBertrand/SkateHub-Back/internal/logs"
	"github.com/LucasBertrand/SkateHub-Back/internal/marketplace"
	"github.com/LucasBertrand/SkateHub-Back/internal/message"
	"github.com/LucasBertrand/SkateHub-Back/internal/middleware"
	"github.com/LucasBertrand/SkateHub-Back/internal/notification"
	"github.com/LucasBertrand/SkateHub-Back/internal/park"
	"github.com/LucasBertrand/SkateHub-Back/internal/pass"
	"github.com/LucasBertrand/SkateHub-Back/internal/push"
	"github.com/LucasBertrand/SkateHub-Back/internal/report"
	"github.com/LucasBertrand/SkateHub-Back/internal/storage"
	"github.com/LucasBertrand/SkateHub-Back/internal/stripe"
	"github.com/LucasBertrand/SkateHub-Back/internal/user"
	"github.com/LucasBertrand/SkateHub-Back/internal/waiver"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	database.Connect(cfg.DBUrl)

	if err := storage.InitS3(); err != nil {
		logs.LogJSON("WARN", "S3 init failed, uploads disabled", map[string]interface{}{
			"error": err.Error(),
		})
	}

	r := gin.Default()
	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	// Inscription & Connexion
	api.POST("/signup", auth.Signup)
	api.POST("/login", auth.Login)

	// Webhook Stripe : signé, jamais authentifié par JWT
	api.POST("/webhooks/stripe", stripe.HandleStripeWebhook)

	// Parks & annonces officielles, lisibles sans compte
	api.GET("/parks", park.GetParks)
	api.GET("/parks/:slug", park.GetParkBySlug)
	api.GET("/announcements", announcement.GetAnnouncements)
	api.GET("/push/subscribe", push.GetPublicKey)

	// Lecture du feed et du marché avec session facultative
	optional := api.Group("")
	optional.Use(middleware.OptionalAuthMiddleware())
	{
		optional.GET("/feed", feed.GetFeed)
		optional.GET("/feed/:id/comments", feed.GetComments)
		optional.GET("/marketplace", marketplace.GetListings)
		optional.GET("/marketplace/:id", marketplace.GetListingByID)
		optional.GET("/events", event.GetEvents)
		optional.GET("/users/:username", user.GetUserByUsername)
		optional.GET("/users", user.SearchUsers)
	}

	// Tout le reste exige un token valide
	authed := api.Group("")
	authed.Use(middleware.AuthMiddleware())
	{
		authed.GET("/me", user.GetMe)
		authed.PUT("/me", user.UpdateMe)

		// Sessions
		authed.GET("/sessions", auth.GetSessions)
		authed.POST("/sessions", auth.CreateSession)
		authed.DELETE("/sessions/:id", auth.DeleteSession)
		authed.POST("/sessions/revoke-all", auth.RevokeAllSessions)

		// Feed temps réel
		authed.GET("/feed/live", feed.LiveFeed)
		authed.POST("/feed", feed.CreatePost)
		authed.POST("/feed/media", feed.UploadPostMedia)
		authed.DELETE("/feed/:id", feed.DeletePost)
		authed.POST("/feed/:id/comments", feed.CreateComment)
		authed.DELETE("/feed/:id/comments/:commentId", feed.DeleteComment)
		authed.POST("/feed/:id/like", like.ToggleLike)
		authed.GET("/feed/:id/like", like.GetLikeStatus)

		// Pass
		authed.GET("/passes", pass.GetMyPasses)
		authed.GET("/passes/:id", pass.GetPassByID)

		// Checkout
		authed.POST("/checkout", stripe.CreatePassCheckout)
		authed.POST("/checkout/listing", stripe.CreateListingCheckout)
		authed.POST("/stripe/connect", stripe.CreateAccountLink)
		authed.GET("/stripe/connect/complete", stripe.CompleteConnect)

		// Marketplace
		authed.POST("/marketplace", marketplace.CreateListing)
		authed.DELETE("/marketplace/:id", marketplace.DeleteListing)
		authed.GET("/marketplace/transactions", marketplace.GetMyTransactions)

		// Événements
		authed.POST("/events/:id/attend", event.Attend)
		authed.DELETE("/events/:id/attend", event.Unattend)

		// Décharges
		authed.POST("/waivers", waiver.SignWaiver)
		authed.GET("/waivers/me", waiver.GetMyWaivers)

		// Messagerie
		authed.GET("/messages/conversations", message.GetConversations)
		authed.GET("/messages/conversations/:id", message.GetConversationMessages)
		authed.POST("/messages", message.SendMessage)
		authed.PUT("/messages/:id/read", message.MarkMessageAsRead)
		authed.DELETE("/messages/:id", message.DeleteMessage)
		authed.DELETE("/messages/conversations/:id", message.DeleteConversation)

		// Notifications
		authed.GET("/notifications", notification.GetNotifications)
		authed.PUT("/notifications/:id/read", notification.MarkRead)
		authed.PUT("/notifications/read-all", notification.MarkAllRead)

		// Web push
		authed.POST("/push/subscribe", push.Subscribe)
		authed.DELETE("/push/subscribe", push.Unsubscribe)

		// Signalements
		authed.POST("/reports", report.CreateReport)
	}

	// Espace admin
	adminGroup := api.Group("/admin")
	adminGroup.Use(middleware.AuthMiddleware(), middleware.AdminOnlyMiddleware())
	{
		adminGroup.GET("/stats", admin.GetDashboardStats)
		adminGroup.GET("/charts/:type", admin.GetChartData)
		adminGroup.GET("/top-users", admin.GetTopUsers)

		// Contrôle d'accès à l'entrée
		adminGroup.POST("/scan", pass.ScanPass)

		adminGroup.PUT("/users/:id/admin", user.SetAdmin)
		adminGroup.DELETE("/users/:id", user.DeleteUser)

		adminGroup.POST("/events", event.CreateEvent)

		adminGroup.GET("/waivers", waiver.ListWaivers)

		adminGroup.POST("/announcements", announcement.CreateAnnouncement)
		adminGroup.PUT("/announcements/:id", announcement.UpdateAnnouncement)
		adminGroup.DELETE("/announcements/:id", announcement.DeleteAnnouncement)

		adminGroup.DELETE("/marketplace/:id", marketplace.RemoveListingAdmin)

		adminGroup.GET("/reports", report.GetReports)
		adminGroup.GET("/reports/stats", report.GetReportStats)
		adminGroup.PUT("/reports/:id", report.UpdateReport)
		adminGroup.DELETE("/reports/:id", report.DeleteReport)

		adminGroup.POST("/push/send", push.Send)
	}

	if err := r.Run(":" + cfg.Port); err != nil {
		logs.LogJSON("ERROR", "Server stopped", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
