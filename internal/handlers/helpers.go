package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"vernopromo/internal/logger"
	"vernopromo/internal/services"
)

// более устойчиво к типам (int / int64 / float64 / string)
func getIntFromCtx(c *gin.Context, key string) (int, bool) {
	v, ok := c.Get(key)
	if !ok {
		return 0, false
	}
	switch t := v.(type) {
	case int:
		return t, true
	case int64:
		return int(t), true
	case float64:
		return int(t), true
	case string:
		if n, err := strconv.Atoi(t); err == nil {
			return n, true
		}
	}
	return 0, false
}

func getMemberID(c *gin.Context) (int, bool) {
	return getIntFromCtx(c, "member_id")
}

// Конверт ответов: успех {"status":true,...}, бизнес-ошибки
// {"errors":{field:[messages]}} с кодом 422.

func respondStatusOK(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": true})
}

func respondFieldErrors(c *gin.Context, fe services.FieldErrors) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": fe})
}

func respondFieldError(c *gin.Context, field, message string) {
	respondFieldErrors(c, services.FieldErrors{field: {message}})
}

// respondServiceError различает бизнес-ошибки (422) и всё остальное (500).
func respondServiceError(c *gin.Context, err error) {
	var fe services.FieldErrors
	if errors.As(err, &fe) {
		respondFieldErrors(c, fe)
		return
	}
	logger.Log.Errorf("[http] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

// bindError переводит ошибку биндинга в тот же конверт, что и
// бизнес-валидация.
func bindError(c *gin.Context, err error) {
	respondFieldErrors(c, services.FieldErrors{"request": {err.Error()}})
}
