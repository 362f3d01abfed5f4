package applications

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"neon/collab-portal/collab-portal-backend/internal/apperr"
	"neon/collab-portal/collab-portal-backend/internal/auth"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/projects/:id/applications", h.Apply)
	rg.GET("/projects/:id/applications/pending", h.ListPending)
	rg.DELETE("/projects/:id/participants/:user_id", h.RemoveParticipant)
	rg.PUT("/applications/:id/process", h.Process)
	rg.GET("/applications/mine", h.ListMine)
}

func (h *Handler) Apply(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
		return
	}

	var body struct {
		UserID      string    `json:"user_id"`
		SkillTypeID uuid.UUID `json:"skill_type_id"`
		Message     string    `json:"message"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	application, err := h.service.Apply(c.Request.Context(), ApplyRequest{
		ProjectID:   projectID,
		ApplicantID: auth.Caller(c, body.UserID),
		SkillTypeID: body.SkillTypeID,
		Message:     body.Message,
	})
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": application})
}

func (h *Handler) Process(c *gin.Context) {
	applicationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid application id"})
		return
	}

	var body struct {
		UserID          string `json:"user_id"`
		Decision        string `json:"decision"`
		ResponseMessage string `json:"response_message"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	application, err := h.service.Process(c.Request.Context(), ProcessRequest{
		ApplicationID:   applicationID,
		Actor:           auth.Caller(c, body.UserID),
		Decision:        Status(body.Decision),
		ResponseMessage: body.ResponseMessage,
	})
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": application})
}

func (h *Handler) RemoveParticipant(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
		return
	}

	actor := auth.Caller(c, c.Query("user_id"))
	if err := h.service.RemoveParticipant(c.Request.Context(), projectID, c.Param("user_id"), actor); err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) ListMine(c *gin.Context) {
	applicantID := auth.Caller(c, c.Query("user_id"))
	if applicantID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}

	result, err := h.service.ListByApplicant(c.Request.Context(), applicantID)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": result, "total": len(result)})
}

func (h *Handler) ListPending(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
		return
	}

	result, err := h.service.ListPendingByProject(c.Request.Context(), projectID)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": result, "total": len(result)})
}
