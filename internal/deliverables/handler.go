package deliverables

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
	rg.POST("/projects/:id/deliverables", h.Upload)
	rg.GET("/projects/:id/deliverables", h.ListByProject)
	rg.GET("/projects/:id/confirm-status", h.ProjectConfirmStatus)
	rg.GET("/deliverables/:id", h.Get)
	rg.GET("/deliverables/:id/download", h.Download)
	rg.PUT("/deliverables/:id/status", h.UpdateStatus)
	rg.DELETE("/deliverables/:id", h.Delete)
	rg.POST("/deliverables/:id/confirm", h.Confirm)
	rg.GET("/deliverables/:id/confirm-status", h.ConfirmStatus)
}

func (h *Handler) Upload(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
		return
	}

	req := UploadRequest{
		ProjectID:  projectID,
		UploaderID: auth.Caller(c, c.PostForm("uploader_id")),
		FileType:   c.PostForm("file_type"),
		LinkURL:    c.PostForm("link_url"),
		Status:     Status(c.PostForm("status")),
	}

	if file, err := c.FormFile("file"); err == nil {
		f, err := file.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		defer f.Close()
		req.FileContent = f
		req.FileName = file.Filename
		req.FileSize = file.Size
		req.ContentType = file.Header.Get("Content-Type")
	}

	deliverable, err := h.service.Upload(c.Request.Context(), req)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": deliverable})
}

func (h *Handler) ListByProject(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
		return
	}

	result, err := h.service.ListByProject(c.Request.Context(), projectID)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": result, "total": len(result)})
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid deliverable id"})
		return
	}

	deliverable, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": deliverable})
}

func (h *Handler) Download(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid deliverable id"})
		return
	}

	url, err := h.service.DownloadURL(c.Request.Context(), id)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.Redirect(http.StatusFound, url)
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid deliverable id"})
		return
	}

	var body struct {
		Status     string `json:"status"`
		ReviewerID string `json:"reviewer_id"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	deliverable, err := h.service.UpdateStatus(c.Request.Context(), id, Status(body.Status), auth.Caller(c, body.ReviewerID))
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": deliverable})
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid deliverable id"})
		return
	}

	actor := auth.Caller(c, c.Query("uploader_id"))
	if err := h.service.Delete(c.Request.Context(), id, actor); err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) Confirm(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid deliverable id"})
		return
	}

	var body struct {
		UserID string `json:"user_id"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	confirmation, err := h.service.Confirm(c.Request.Context(), id, auth.Caller(c, body.UserID))
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": confirmation})
}

func (h *Handler) ConfirmStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid deliverable id"})
		return
	}

	userID := auth.Caller(c, c.Query("user_id"))
	confirmed, err := h.service.ConfirmStatus(c.Request.Context(), id, userID)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"confirmed": confirmed}})
}

func (h *Handler) ProjectConfirmStatus(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
		return
	}

	userID := auth.Caller(c, c.Query("user_id"))
	status, err := h.service.ProjectConfirmStatus(c.Request.Context(), projectID, userID)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": status})
}
