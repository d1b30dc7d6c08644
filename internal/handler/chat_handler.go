package handler

import (
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"gamearena/backend/internal/auth"
	"gamearena/backend/internal/database"
	"gamearena/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// ChatChannels are the community channels messages may be posted to.
var ChatChannels = []string{"general", "tournaments", "looking-for-team", "fortnite", "cs2", "valorant"}

const maxChatHistory = 100

type ChatMessageInput struct {
	Channel string `json:"channel" binding:"required" example:"general"`
	Content string `json:"content" binding:"required,max=1000" example:"Anyone up for Valorant tonight?"`
}

type ChatMessageResponse struct {
	ID        string    `json:"id"`
	Channel   string    `json:"channel"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

func newChatMessageResponse(m models.ChatMessage) ChatMessageResponse {
	return ChatMessageResponse{
		ID:        m.ID,
		Channel:   m.Channel,
		UserID:    m.UserID,
		Username:  m.Username,
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
	}
}

// GetChatChannels godoc
// @Summary      List chat channels
// @Tags         chat
// @Produce      json
// @Success      200  {array}  string
// @Router       /chat/channels [get]
func GetChatChannels(c *gin.Context) {
	c.JSON(http.StatusOK, ChatChannels)
}

// GetChatMessages godoc
// @Summary      Channel history
// @Description  The most recent messages of a channel, oldest first.
// @Tags         chat
// @Produce      json
// @Param        channel query string false "Channel" default(general)
// @Param        limit   query int    false "Number of messages" default(50)
// @Success      200  {array}   ChatMessageResponse
// @Failure      400  {object}  ErrorResponse
// @Router       /chat/messages [get]
func GetChatMessages(c *gin.Context) {
	channel := c.DefaultQuery("channel", "general")
	if !slices.Contains(ChatChannels, channel) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown channel"})
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit < 1 {
		limit = 50
	}
	limit = min(limit, maxChatHistory)

	var messages []models.ChatMessage
	if err := database.DB.WithContext(c.Request.Context()).
		Where("channel = ?", channel).
		Order("created_at DESC").
		Limit(limit).
		Find(&messages).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch messages"})
		return
	}

	response := make([]ChatMessageResponse, len(messages))
	for i, m := range messages {
		response[len(messages)-1-i] = newChatMessageResponse(m)
	}
	c.JSON(http.StatusOK, response)
}

// PostChatMessage godoc
// @Summary      Post to a channel
// @Tags         chat
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body ChatMessageInput true "Message"
// @Success      201  {object}  ChatMessageResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /chat/messages [post]
func PostChatMessage(c *gin.Context) {
	var input ChatMessageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	content := strings.TrimSpace(input.Content)
	if content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message is empty"})
		return
	}
	if !slices.Contains(ChatChannels, input.Channel) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown channel"})
		return
	}
	db := database.DB.WithContext(c.Request.Context())

	var author models.Profile
	if err := db.Select("id", "username").First(&author, "id = ?", auth.UserID(c)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Authenticated user not found"})
		return
	}

	msg := models.ChatMessage{
		Channel:  input.Channel,
		UserID:   author.ID,
		Username: author.Username,
		Content:  content,
	}
	if err := db.Create(&msg).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to post message"})
		return
	}
	c.JSON(http.StatusCreated, newChatMessageResponse(msg))
}
