package handler

import (
	"net/http"

	"gamearena/backend/internal/auth"
	"gamearena/backend/internal/models"
	"gamearena/backend/internal/repository"

	"github.com/gin-gonic/gin"
)

// MyRegistrationsResponse groups the caller's tournaments by what happens next.
type MyRegistrationsResponse struct {
	Upcoming  []RegistrationResponse `json:"upcoming"`
	Active    []RegistrationResponse `json:"active"`
	Completed []RegistrationResponse `json:"completed"`
}

// RegistrationHandler serves the caller's own registrations.
type RegistrationHandler struct {
	store repository.Store
}

func NewRegistrationHandler(store repository.Store) *RegistrationHandler {
	return &RegistrationHandler{store: store}
}

// MyRegistrations godoc
// @Summary      My tournaments
// @Description  The caller's paid and pending registrations, newest first, grouped by room status. Failed attempts are left out.
// @Tags         registrations
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  MyRegistrationsResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /registrations/me [get]
func (h *RegistrationHandler) MyRegistrations(c *gin.Context) {
	regs, err := h.store.Registrations().ListByUser(c.Request.Context(), auth.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, groupRegistrations(regs))
}

func groupRegistrations(regs []models.Registration) MyRegistrationsResponse {
	out := MyRegistrationsResponse{
		Upcoming:  []RegistrationResponse{},
		Active:    []RegistrationResponse{},
		Completed: []RegistrationResponse{},
	}
	for _, reg := range regs {
		if reg.PaymentStatus == models.PaymentFailed || reg.Room == nil {
			continue
		}
		resp := newRegistrationResponse(reg)
		switch reg.Room.Status {
		case models.RoomOpen, models.RoomFull:
			out.Upcoming = append(out.Upcoming, resp)
		case models.RoomStarted:
			out.Active = append(out.Active, resp)
		default:
			out.Completed = append(out.Completed, resp)
		}
	}
	return out
}
