package handler

import (
	"net/http"
	"time"

	"gamearena/backend/internal/apperr"
	"gamearena/backend/internal/auth"
	"gamearena/backend/internal/hub"
	"gamearena/backend/internal/models"
	"gamearena/backend/internal/registration"
	"gamearena/backend/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RoomHandler serves rooms and the join flow.
type RoomHandler struct {
	store  repository.Store
	engine *registration.Engine
	hub    *hub.Hub
	db     *gorm.DB
}

func NewRoomHandler(store repository.Store, engine *registration.Engine, h *hub.Hub, db *gorm.DB) *RoomHandler {
	return &RoomHandler{store: store, engine: engine, hub: h, db: db}
}

// region --- DTOs ---

// CreateRoomInput is the form a host submits.
type CreateRoomInput struct {
	Title       string            `json:"title" binding:"required" example:"Battle Royale Championship"`
	Description string            `json:"description" example:"Epic Fortnite tournament with massive prizes"`
	Game        string            `json:"game" binding:"required" example:"Fortnite"`
	EntryFee    decimal.Decimal   `json:"entry_fee" swaggertype:"number" example:"25"`
	MaxPlayers  int               `json:"max_players" example:"20"`
	StartDate   string            `json:"start_date" example:"2024-02-15"`
	StartTime   string            `json:"start_time" example:"20:00"`
	Difficulty  models.Difficulty `json:"difficulty" example:"Expert"`
	Rules       string            `json:"rules" example:"No teaming, no stream sniping"`
}

type RoomResponse struct {
	ID             string            `json:"id"`
	Slug           string            `json:"slug"`
	Title          string            `json:"title"`
	Description    string            `json:"description,omitempty"`
	Game           string            `json:"game"`
	EntryFee       string            `json:"entry_fee" example:"25.00"`
	MaxPlayers     int               `json:"max_players"`
	CurrentPlayers int               `json:"current_players"`
	SpotsLeft      int               `json:"spots_left"`
	PrizePool      string            `json:"prize_pool" example:"475.00"`
	StartDate      string            `json:"start_date"`
	StartTime      string            `json:"start_time"`
	Difficulty     models.Difficulty `json:"difficulty"`
	Rules          string            `json:"rules,omitempty"`
	Status         models.RoomStatus `json:"status"`
	HostID         string            `json:"host_id"`
	HostUsername   string            `json:"host_username,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

func newRoomResponse(r models.GameRoom) RoomResponse {
	return RoomResponse{
		ID:             r.ID,
		Slug:           r.Slug,
		Title:          r.Title,
		Description:    r.Description,
		Game:           r.Game,
		EntryFee:       r.EntryFee.StringFixed(2),
		MaxPlayers:     r.MaxPlayers,
		CurrentPlayers: r.CurrentPlayers,
		SpotsLeft:      r.MaxPlayers - r.CurrentPlayers,
		PrizePool:      r.PrizePool.StringFixed(2),
		StartDate:      r.StartDate,
		StartTime:      r.StartTime,
		Difficulty:     r.Difficulty,
		Rules:          r.Rules,
		Status:         r.Status,
		HostID:         r.HostID,
		HostUsername:   r.HostUsername,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

// SplitResponse is a 60/25/15 payout.
type SplitResponse struct {
	Total  string `json:"total" example:"500.00"`
	First  string `json:"first" example:"300.00"`
	Second string `json:"second" example:"125.00"`
	Third  string `json:"third" example:"75.00"`
}

func newSplitResponse(s registration.Split) SplitResponse {
	return SplitResponse{
		Total:  s.Total.StringFixed(2),
		First:  s.First.StringFixed(2),
		Second: s.Second.StringFixed(2),
		Third:  s.Third.StringFixed(2),
	}
}

// PrizesResponse shows what a room pays out now, after the caller joins, and when full.
type PrizesResponse struct {
	Current      SplitResponse `json:"current"`
	Projected    SplitResponse `json:"projected"`
	MaxPrizePool string        `json:"max_prize_pool" example:"500.00"`
}

type RegistrationResponse struct {
	ID            string               `json:"id"`
	UserID        string               `json:"user_id"`
	RoomID        string               `json:"room_id"`
	PaymentStatus models.PaymentStatus `json:"payment_status"`
	PaymentAmount string               `json:"payment_amount" example:"25.00"`
	PaymentID     string               `json:"payment_id,omitempty"`
	RegisteredAt  time.Time            `json:"registered_at"`
	Room          *RoomResponse        `json:"room,omitempty"`
}

func newRegistrationResponse(reg models.Registration) RegistrationResponse {
	resp := RegistrationResponse{
		ID:            reg.ID,
		UserID:        reg.UserID,
		RoomID:        reg.RoomID,
		PaymentStatus: reg.PaymentStatus,
		PaymentAmount: reg.PaymentAmount.StringFixed(2),
		PaymentID:     reg.PaymentID,
		RegisteredAt:  reg.RegisteredAt,
	}
	if reg.Room != nil {
		room := newRoomResponse(*reg.Room)
		resp.Room = &room
	}
	return resp
}

// JoinResponse is the finished registration and the room after it.
type JoinResponse struct {
	Registration RegistrationResponse `json:"registration"`
	Room         RoomResponse         `json:"room"`
}

// endregion

// region --- Room Handlers ---

// CreateRoom godoc
// @Summary      Create a room
// @Description  Opens a new tournament room hosted by the authenticated user.
// @Tags         rooms
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body CreateRoomInput true "Room Info"
// @Success      201  {object}  RoomResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /rooms [post]
func (h *RoomHandler) CreateRoom(c *gin.Context) {
	var input CreateRoomInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx := c.Request.Context()
	userID := auth.UserID(c)

	var host models.Profile
	if err := h.db.WithContext(ctx).Select("id", "username").First(&host, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Authenticated user not found"})
		return
	}

	room, err := h.store.Rooms().Create(ctx, repository.RoomInput{
		Title:        input.Title,
		Description:  input.Description,
		Game:         input.Game,
		EntryFee:     input.EntryFee,
		MaxPlayers:   input.MaxPlayers,
		StartDate:    input.StartDate,
		StartTime:    input.StartTime,
		Difficulty:   input.Difficulty,
		Rules:        input.Rules,
		HostID:       host.ID,
		HostUsername: host.Username,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newRoomResponse(*room))
}

// ListRooms godoc
// @Summary      Browse rooms
// @Description  Lists rooms, newest first, filtered by status, game and a text search over title and game.
// @Tags         rooms
// @Produce      json
// @Param        status query string false "Room status" Enums(open, full, started, completed, cancelled)
// @Param        game   query string false "Exact game name, case-insensitive"
// @Param        q      query string false "Search in title or game"
// @Param        page   query int    false "Page number" default(1)
// @Param        limit  query int    false "Items per page" default(10)
// @Success      200  {object}  PaginatedResponse[RoomResponse]
// @Failure      400  {object}  ErrorResponse
// @Router       /rooms [get]
func (h *RoomHandler) ListRooms(c *gin.Context) {
	page, limit := pageParams(c)
	filter := repository.RoomFilter{
		Status: models.RoomStatus(c.Query("status")),
		Game:   c.Query("game"),
		Query:  c.Query("q"),
		Page:   page,
		Limit:  limit,
	}
	if filter.Status != "" && !filter.Status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}
	ctx := c.Request.Context()

	total, err := h.store.Rooms().Count(ctx, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	rooms, err := h.store.Rooms().List(ctx, filter)
	if err != nil {
		respondError(c, err)
		return
	}

	data := make([]RoomResponse, len(rooms))
	for i, r := range rooms {
		data[i] = newRoomResponse(r)
	}
	c.JSON(http.StatusOK, NewPaginatedResponse(data, total, page, limit))
}

// GetRoom godoc
// @Summary      Get a room
// @Tags         rooms
// @Produce      json
// @Param        id path string true "Room ID"
// @Success      200  {object}  RoomResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /rooms/{id} [get]
func (h *RoomHandler) GetRoom(c *gin.Context) {
	room, err := h.store.Rooms().Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newRoomResponse(*room))
}

// GetRoomPrizes godoc
// @Summary      Prize breakdown
// @Description  Current split, the split after one more player joins, and the pool once the room is full.
// @Tags         rooms
// @Produce      json
// @Param        id path string true "Room ID"
// @Success      200  {object}  PrizesResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /rooms/{id}/prizes [get]
func (h *RoomHandler) GetRoomPrizes(c *gin.Context) {
	room, err := h.store.Rooms().Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, PrizesResponse{
		Current:      newSplitResponse(registration.PrizeSplit(room.PrizePool)),
		Projected:    newSplitResponse(registration.ProjectedSplit(room)),
		MaxPrizePool: registration.MaxPrizePool(room.EntryFee, room.MaxPlayers).StringFixed(2),
	})
}

// JoinRoom godoc
// @Summary      Join a room
// @Description  Pays the entry fee and takes a seat. Joining again returns the existing registration. With stream=true the payment stages are sent as server-sent events ("progress", then "result" or "error").
// @Tags         rooms
// @Produce      json
// @Produce      text/event-stream
// @Security     BearerAuth
// @Param        id     path  string true  "Room ID"
// @Param        stream query bool   false "Stream progress as SSE"
// @Success      200  {object}  JoinResponse
// @Failure      401  {object}  ErrorResponse "Sign in required"
// @Failure      404  {object}  ErrorResponse "Room not found"
// @Failure      409  {object}  ErrorResponse "Room is full"
// @Failure      429  {object}  ErrorResponse "Too many join attempts"
// @Failure      500  {object}  ErrorResponse "Registration failed"
// @Router       /rooms/{id}/join [post]
func (h *RoomHandler) JoinRoom(c *gin.Context) {
	ctx := c.Request.Context()
	roomID := c.Param("id")
	userID := auth.UserID(c)

	if c.Query("stream") != "true" {
		reg, err := h.engine.JoinTournament(ctx, userID, roomID, nil)
		if err != nil {
			respondError(c, err)
			return
		}
		resp, err := h.joinResponse(c, reg)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)
		return
	}

	setSSEHeaders(c)
	reg, err := h.engine.JoinTournament(ctx, userID, roomID, func(p registration.Progress) {
		c.SSEvent("progress", p)
		c.Writer.Flush()
	})
	if err != nil {
		c.SSEvent("error", ErrorResponse{Error: apperr.Message(err)})
		c.Writer.Flush()
		return
	}
	resp, err := h.joinResponse(c, reg)
	if err != nil {
		c.SSEvent("error", ErrorResponse{Error: apperr.Message(err)})
		c.Writer.Flush()
		return
	}
	c.SSEvent("result", resp)
	c.Writer.Flush()
}

func (h *RoomHandler) joinResponse(c *gin.Context, reg *models.Registration) (JoinResponse, error) {
	room, err := h.store.Rooms().Get(c.Request.Context(), reg.RoomID)
	if err != nil {
		return JoinResponse{}, err
	}
	return JoinResponse{
		Registration: newRegistrationResponse(*reg),
		Room:         newRoomResponse(*room),
	}, nil
}

// RoomEvents godoc
// @Summary      Watch a room
// @Description  Server-sent events for registrations and room updates. The stream stays open until the client disconnects.
// @Tags         rooms
// @Produce      text/event-stream
// @Param        id path string true "Room ID"
// @Success      200
// @Failure      404  {object}  ErrorResponse
// @Router       /rooms/{id}/events [get]
func (h *RoomHandler) RoomEvents(c *gin.Context) {
	ctx := c.Request.Context()
	roomID := c.Param("id")
	if _, err := h.store.Rooms().Get(ctx, roomID); err != nil {
		respondError(c, err)
		return
	}

	client := make(hub.Client, 16)
	h.hub.Subscribe(roomID, client)
	defer h.hub.Unsubscribe(roomID, client)

	setSSEHeaders(c)
	c.Writer.WriteHeader(http.StatusOK)
	c.Writer.Flush()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-client:
			if !ok {
				return
			}
			c.SSEvent("message", string(msg))
			c.Writer.Flush()
		}
	}
}

// ListRoomRegistrations godoc
// @Summary      Registrations of a room
// @Description  Every registration attempt for the room. Only the host may see them.
// @Tags         rooms
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Room ID"
// @Success      200  {array}   RegistrationResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /rooms/{id}/registrations [get]
func (h *RoomHandler) ListRoomRegistrations(c *gin.Context) {
	ctx := c.Request.Context()
	room, err := h.store.Rooms().Get(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if room.HostID != auth.UserID(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the host can see registrations"})
		return
	}
	regs, err := h.store.Registrations().ListByRoom(ctx, room.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]RegistrationResponse, len(regs))
	for i, reg := range regs {
		reg.Room = nil
		out[i] = newRegistrationResponse(reg)
	}
	c.JSON(http.StatusOK, out)
}

// endregion

func setSSEHeaders(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
}
