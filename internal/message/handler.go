package message

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/LucasBertrand/SkateHub-Back/internal/database"
	"github.com/LucasBertrand/SkateHub-Back/internal/storage"
	"github.com/LucasBertrand/SkateHub-Back/internal/user"
)

func conversationUser(u user.User) ConversationUser {
	return ConversationUser{
		ID:        u.ID,
		Username:  u.Username,
		AvatarURL: u.AvatarURL,
		Stance:    u.Stance,
	}
}

func messageResponse(msg Message) MessageResponse {
	return MessageResponse{
		ID:             msg.ID,
		CreatedAt:      msg.CreatedAt,
		ConversationID: msg.ConversationID,
		Sender:         conversationUser(msg.Sender),
		Content:        msg.Content,
		MessageType:    msg.MessageType,
		MediaURL:       msg.MediaURL,
		IsRead:         msg.IsRead,
		ReadAt:         msg.ReadAt,
		IsDeleted:      msg.IsDeleted,
	}
}

// GetConversations récupère toutes les conversations de l'utilisateur connecté
func GetConversations(c *gin.Context) {
	userID := c.GetString("user_id")

	// Les conversations que l'utilisateur a supprimées sont exclues tant
	// qu'aucun message n'est arrivé depuis
	var conversations []Conversation
	if err := database.DB.
		Where("(user1_id = ? OR user2_id = ?) AND id NOT IN (?)",
			userID, userID,
			database.DB.Table("conversation_deletions").
				Select("conversation_id").
				Where("user_id = ?", userID)).
		Preload("User1").
		Preload("User2").
		Order("last_message_at DESC NULLS LAST, created_at DESC").
		Find(&conversations).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la récupération des conversations"})
		return
	}

	var response []ConversationResponse
	for _, conv := range conversations {
		otherUser := conv.User2
		if conv.User2ID == userID {
			otherUser = conv.User1
		}

		var unreadCount int64
		database.DB.Model(&Message{}).
			Where("conversation_id = ? AND receiver_id = ? AND is_read = false AND is_deleted = false", conv.ID, userID).
			Count(&unreadCount)

		var lastMessage *MessageResponse
		if conv.LastMessageAt != nil {
			var msg Message
			if err := database.DB.
				Where("conversation_id = ? AND is_deleted = false", conv.ID).
				Preload("Sender").
				Order("created_at DESC").
				First(&msg).Error; err == nil {
				resp := messageResponse(msg)
				lastMessage = &resp
			}
		}

		response = append(response, ConversationResponse{
			ID:            conv.ID,
			CreatedAt:     conv.CreatedAt,
			UpdatedAt:     conv.UpdatedAt,
			OtherUser:     conversationUser(otherUser),
			LastMessage:   lastMessage,
			LastMessageAt: conv.LastMessageAt,
			UnreadCount:   unreadCount,
		})
	}

	c.JSON(http.StatusOK, gin.H{"conversations": response})
}

// GetConversationMessages récupère les messages d'une conversation
func GetConversationMessages(c *gin.Context) {
	userID := c.GetString("user_id")
	conversationID := c.Param("id")

	// Vérifier que l'utilisateur fait partie de la conversation
	var conversation Conversation
	if err := database.DB.
		Where("id = ? AND (user1_id = ? OR user2_id = ?)", conversationID, userID, userID).
		First(&conversation).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Conversation non trouvée"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la récupération de la conversation"})
		}
		return
	}

	// Date de suppression éventuelle : seuls les messages postérieurs
	// restent visibles pour cet utilisateur
	var deletionTime *time.Time
	var deletion ConversationDeletion
	if err := database.DB.
		Where("user_id = ? AND conversation_id = ?", userID, conversationID).
		First(&deletion).Error; err == nil {
		deletionTime = &deletion.DeletedAt
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset := (page - 1) * limit

	var messages []Message
	msgQuery := database.DB.
		Where("conversation_id = ? AND is_deleted = false", conversationID)

	if deletionTime != nil {
		msgQuery = msgQuery.Where("created_at > ?", *deletionTime)
	}

	if err := msgQuery.
		Preload("Sender").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&messages).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la récupération des messages"})
		return
	}

	// Marquage lu en arrière-plan
	go func() {
		markAsReadQuery := database.DB.Model(&Message{}).
			Where("conversation_id = ? AND receiver_id = ? AND is_read = false", conversationID, userID)

		if deletionTime != nil {
			markAsReadQuery = markAsReadQuery.Where("created_at > ?", *deletionTime)
		}

		markAsReadQuery.Updates(map[string]interface{}{
			"is_read": true,
			"read_at": time.Now(),
		})
	}()

	var response []MessageResponse
	for _, msg := range messages {
		response = append(response, messageResponse(msg))
	}

	c.JSON(http.StatusOK, gin.H{"messages": response})
}

// SendMessage envoie un nouveau message (texte en JSON, image en form-data)
func SendMessage(c *gin.Context) {
	userID := c.GetString("user_id")

	var input CreateMessageInput
	var mediaURL string

	if err := c.ShouldBindJSON(&input); err != nil {
		// Pas du JSON : form-data avec média
		receiverID := c.PostForm("receiver_id")
		content := c.PostForm("content")
		messageTypeStr := c.PostForm("message_type")

		if receiverID == "" || messageTypeStr == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "receiver_id et message_type sont requis"})
			return
		}

		input = CreateMessageInput{
			ReceiverID:  receiverID,
			Content:     content,
			MessageType: MessageType(messageTypeStr),
		}

		if input.MessageType == MessageTypeImage {
			file, header, err := c.Request.FormFile("media")
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Fichier média requis pour ce type de message"})
				return
			}
			defer file.Close()

			ext := strings.ToLower(filepath.Ext(header.Filename))
			validExtensions := map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true}
			if !validExtensions[ext] {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Extension de fichier invalide"})
				return
			}

			messageID := uuid.New().String()
			filename := fmt.Sprintf("message_%s%s", messageID, ext)
			contentType := header.Header.Get("Content-Type")

			url, err := storage.UploadToS3(file, filename, contentType, storage.FolderMessages)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de l'upload du fichier"})
				return
			}
			mediaURL = url
		}
	}

	if input.MessageType != MessageTypeText && input.MessageType != MessageTypeImage {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Type de message invalide"})
		return
	}
	if input.MessageType == MessageTypeText && input.Content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Contenu requis pour un message texte"})
		return
	}

	var receiver user.User
	if err := database.DB.First(&receiver, "id = ?", input.ReceiverID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Utilisateur destinataire non trouvé"})
		return
	}

	if userID == input.ReceiverID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Impossible d'envoyer un message à soi-même"})
		return
	}

	conversation, err := findOrCreateConversation(userID, input.ReceiverID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la création de la conversation"})
		return
	}

	message := Message{
		ConversationID: conversation.ID,
		SenderID:       userID,
		ReceiverID:     input.ReceiverID,
		Content:        input.Content,
		MessageType:    input.MessageType,
		MediaURL:       mediaURL,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}

	if err := database.DB.Create(&message).Error; err != nil {
		// L'upload est orphelin si l'insertion échoue
		if mediaURL != "" {
			_ = storage.DeleteFromS3(storage.KeyFromURL(mediaURL))
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de l'envoi du message"})
		return
	}

	// Un nouveau message réactive la conversation pour les deux côtés
	database.DB.Where("user_id IN (?, ?) AND conversation_id = ?", userID, input.ReceiverID, conversation.ID).
		Delete(&ConversationDeletion{})

	now := time.Now()
	database.DB.Model(&conversation).Updates(map[string]interface{}{
		"last_message_at": now,
		"updated_at":      now,
	})

	database.DB.Preload("Sender").First(&message, "id = ?", message.ID)

	c.JSON(http.StatusCreated, gin.H{
		"message":         messageResponse(message),
		"conversation_id": conversation.ID,
	})
}

// MarkMessageAsRead marque un message comme lu
func MarkMessageAsRead(c *gin.Context) {
	userID := c.GetString("user_id")
	messageID := c.Param("id")

	var message Message
	if err := database.DB.
		Where("id = ? AND receiver_id = ?", messageID, userID).
		First(&message).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Message non trouvé"})
		return
	}

	if !message.IsRead {
		now := time.Now()
		if err := database.DB.Model(&message).Updates(map[string]interface{}{
			"is_read": true,
			"read_at": now,
		}).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la mise à jour du message"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Message marqué comme lu"})
}

// DeleteMessage supprime un message (soft delete)
func DeleteMessage(c *gin.Context) {
	userID := c.GetString("user_id")
	messageID := c.Param("id")

	var message Message
	if err := database.DB.
		Where("id = ? AND sender_id = ?", messageID, userID).
		First(&message).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Message non trouvé"})
		return
	}

	now := time.Now()
	if err := database.DB.Model(&message).Updates(map[string]interface{}{
		"is_deleted": true,
		"deleted_at": now,
	}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la suppression du message"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Message supprimé"})
}

// DeleteConversation supprime une conversation côté utilisateur (soft delete)
func DeleteConversation(c *gin.Context) {
	userID := c.GetString("user_id")
	conversationID := c.Param("id")

	var conversation Conversation
	if err := database.DB.
		Where("id = ? AND (user1_id = ? OR user2_id = ?)", conversationID, userID, userID).
		First(&conversation).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Conversation non trouvée"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la récupération de la conversation"})
		}
		return
	}

	var existingDeletion ConversationDeletion
	err := database.DB.
		Where("user_id = ? AND conversation_id = ?", userID, conversationID).
		First(&existingDeletion).Error

	if err == nil {
		c.JSON(http.StatusOK, gin.H{"message": "Conversation déjà supprimée"})
		return
	}

	if err != gorm.ErrRecordNotFound {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la vérification"})
		return
	}

	deletion := ConversationDeletion{
		UserID:         userID,
		ConversationID: conversationID,
		CreatedAt:      time.Now(),
		DeletedAt:      time.Now(),
	}

	if err := database.DB.Create(&deletion).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la suppression de la conversation"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Conversation supprimée avec succès"})
}

func findOrCreateConversation(user1ID, user2ID string) (*Conversation, error) {
	var conversation Conversation

	err := database.DB.
		Where("(user1_id = ? AND user2_id = ?) OR (user1_id = ? AND user2_id = ?)",
			user1ID, user2ID, user2ID, user1ID).
		First(&conversation).Error

	if err == nil {
		return &conversation, nil
	}

	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	conversation = Conversation{
		User1ID:   user1ID,
		User2ID:   user2ID,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := database.DB.Create(&conversation).Error; err != nil {
		return nil, err
	}

	return &conversation, nil
}
