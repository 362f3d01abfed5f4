package users

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"neon/collab-portal/collab-portal-backend/internal/apperr"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/users", h.Create)
	rg.GET("/users", h.List)
	rg.GET("/users/participant", h.ListParticipants)
	rg.GET("/users/:user_id", h.Get)
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.service.CreateUser(c.Request.Context(), req)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": user})
}

func (h *Handler) Get(c *gin.Context) {
	user, err := h.service.GetUser(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": user})
}

func filterFromQuery(c *gin.Context) UserFilter {
	return UserFilter{
		Email:    c.Query("email"),
		FullName: c.Query("full_name"),
		Gender:   c.Query("gender"),
		MBTI:     c.Query("mbti"),
		StarSign: c.Query("star_sign"),
		Major:    c.Query("major"),
		UserID:   c.Query("user_id"),
	}
}

func (h *Handler) List(c *gin.Context) {
	result, err := h.service.ListUsers(c.Request.Context(), filterFromQuery(c))
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": result, "total": len(result)})
}

func (h *Handler) ListParticipants(c *gin.Context) {
	projectID, err := uuid.Parse(c.Query("project_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project_id"})
		return
	}

	result, err := h.service.ListParticipants(c.Request.Context(), projectID, filterFromQuery(c))
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": result, "total": len(result)})
}
