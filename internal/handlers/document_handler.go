package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"vernopromo/internal/models"
	"vernopromo/internal/services"
)

type DocumentHandler struct {
	members services.MemberService
	docs    *services.DocumentService
}

func NewDocumentHandler(members services.MemberService, docs *services.DocumentService) *DocumentHandler {
	return &DocumentHandler{members: members, docs: docs}
}

// @Summary      Пакетная загрузка документов
// @Description  Повторная загрузка слота возможна только пока он отклонён или пуст.
// @Tags         Documents
// @Accept       mpfd
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/upload [post]
func (h *DocumentHandler) Upload(c *gin.Context) {
	memberID, ok := getMemberID(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	files := make(map[models.DocKind]services.UploadFile)
	var closers []func() error
	defer func() {
		for _, cl := range closers {
			_ = cl()
		}
	}()

	for _, kind := range models.DocKinds {
		header, err := c.FormFile(string(kind))
		if err != nil {
			continue // слота нет в запросе
		}
		f, err := openFormFile(header)
		if err != nil {
			respondFieldError(c, string(kind), "Не удалось прочитать файл.")
			return
		}
		closers = append(closers, f.close)
		files[kind] = f.UploadFile
	}

	docs, advanced, err := h.docs.Upload(memberID, files)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":             true,
		"update_user_status": advanced,
		"docs_statuses":      docs,
	})
}

// GetFile — выдача сохранённого документа или фото потоком с
// Content-Type по магическим байтам.
func (h *DocumentHandler) GetFile(c *gin.Context) {
	memberID, ok := getMemberID(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	m, err := h.members.GetByID(memberID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if m == nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	key := c.Param("doc")
	f, size, contentType, err := h.docs.OpenFile(m, key)
	if err != nil {
		if errors.Is(err, services.ErrDocumentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
			return
		}
		respondServiceError(c, err)
		return
	}
	defer f.Close()

	c.Header("Content-Type", contentType)
	c.Header("Content-Length", fmt.Sprintf("%d", size))
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, f)
}

// AgreementTemplate — заполненный шаблон соглашения для печати и
// подписи (слот agreement).
func (h *DocumentHandler) AgreementTemplate(c *gin.Context) {
	memberID, ok := getMemberID(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	m, err := h.members.GetByID(memberID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if m == nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	path, err := h.docs.AgreementTemplate(m)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=agreement_%d.pdf", m.ID))
	c.File(path)
}
