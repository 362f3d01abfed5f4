package skills

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"neon/collab-portal/collab-portal-backend/internal/apperr"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/skill-types", h.List)
	rg.POST("/skill-types", h.Create)
}

func (h *Handler) List(c *gin.Context) {
	types, err := h.service.ListSkillTypes(c.Request.Context())
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": types, "total": len(types)})
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateSkillTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	skillType, err := h.service.CreateSkillType(c.Request.Context(), req)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": skillType})
}
