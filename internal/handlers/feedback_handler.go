package handlers

import (
	"github.com/gin-gonic/gin"

	"vernopromo/internal/logger"
	"vernopromo/internal/models"
	"vernopromo/internal/services"
)

type FeedbackHandler struct {
	emails services.EmailService
}

func NewFeedbackHandler(emails services.EmailService) *FeedbackHandler {
	return &FeedbackHandler{emails: emails}
}

// @Summary      Форма обратной связи
// @Description  Пересылает сообщение на служебный ящик.
// @Tags         Feedback
// @Accept       json
// @Produce      json
// @Param        feedback  body      models.FeedbackRequest  true  "Сообщение"
// @Success      200       {object}  map[string]interface{}
// @Failure      422       {object}  map[string]interface{}
// @Router       /api/feedback [post]
func (h *FeedbackHandler) Feedback(c *gin.Context) {
	var req models.FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if err := h.emails.SendFeedback(req.Name, req.Email, req.Subject, req.Message); err != nil {
		logger.Log.Warnf("[feedback] send failed from=%s err=%v", req.Email, err)
		respondFieldError(c, "sendmail", err.Error())
		return
	}
	respondStatusOK(c)
}
