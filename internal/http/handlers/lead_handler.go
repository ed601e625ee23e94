// Lead HTTP handlers.
//
// This file exposes the public lead-intake endpoint:
//   - POST /leads (create; no authentication)
//
// The admin notification email is dispatched by the service on a background
// goroutine; the handler reports the lead as accepted regardless of delivery.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bodegaresearch/go-review-backend/internal/services"
)

// CreateLeadRequest is the JSON payload for submitting a lead.
type CreateLeadRequest struct {
	// Name of the person or project reaching out.
	Name string `json:"name" binding:"required" example:"Jane Doe"`
	// Email is the reply-to address.
	Email string `json:"email" binding:"required" example:"jane@example.com"`
	// ProjectLink optionally points at the project to review.
	ProjectLink string `json:"project_link" example:"https://example.xyz"`
	// TelegramUsername optionally names a Telegram handle.
	TelegramUsername string `json:"telegram_username" example:"@janedoe"`
	// PreferredContact is one of: email, x_dms, telegram, other.
	PreferredContact string `json:"preferred_contact" example:"email"`
	// PreferredContactOther describes the channel when preferred_contact is "other".
	PreferredContactOther string `json:"preferred_contact_other" example:"Discord: jane#1234"`
	// Message is free-form context for the request.
	Message string `json:"message" example:"Looking for a full review of our beta."`
}

// CreateLead godoc
// @ID          createLead
// @Summary     Submit a lead
// @Description Validates and stores a review inquiry, then emails the admin in the background. The response does not depend on email delivery.
// @Tags        Leads
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.CreateLeadRequest  true  "Lead payload"
//
// @Success     201  {object}  handlers.SuccessResponse{data=domain.Lead}
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /leads [post]
func (h *Handlers) CreateLead(c *gin.Context) {
	var req CreateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "name and email are required")
		return
	}

	lead, _, err := h.leadSvc.Submit(c.Request.Context(), services.LeadInput{
		Name:                  req.Name,
		ProjectLink:           req.ProjectLink,
		Email:                 req.Email,
		TelegramUsername:      req.TelegramUsername,
		PreferredContact:      req.PreferredContact,
		PreferredContactOther: req.PreferredContactOther,
		Message:               req.Message,
	})
	if err != nil {
		if errors.Is(err, services.ErrInvalidLead) {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, err.Error())
		return
	}
	ok(c, http.StatusCreated, lead)
}
