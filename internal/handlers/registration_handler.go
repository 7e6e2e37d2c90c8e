package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"vernopromo/internal/models"
	"vernopromo/internal/services"
)

// RegistrationHandler — воронка регистрации: проверка номера, отправка
// и подтверждение кода, завершение регистрации.
type RegistrationHandler struct {
	members    services.MemberService
	phoneCodes services.PhoneCodeService
	auth       *AuthHandler
}

func NewRegistrationHandler(members services.MemberService, phoneCodes services.PhoneCodeService, auth *AuthHandler) *RegistrationHandler {
	return &RegistrationHandler{members: members, phoneCodes: phoneCodes, auth: auth}
}

// @Summary      Проверка номера: зарегистрирован или нет
// @Description  Для незарегистрированного номера сразу отправляет код подтверждения.
// @Tags         Registration
// @Accept       json
// @Produce      json
// @Param        phone  body      models.PhoneRequest  true  "Телефон (10 цифр)"
// @Success      200    {object}  map[string]interface{}
// @Router       /api/login_registration [post]
func (h *RegistrationHandler) LoginRegistration(c *gin.Context) {
	var req models.PhoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	registered, err := h.members.RegisteredExists(req.Phone)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if registered {
		c.JSON(http.StatusOK, gin.H{"registration_status": "registered"})
		return
	}

	sent, err := h.phoneCodes.RequestCode(req.Phone)
	if err != nil && !errors.Is(err, services.ErrSMSLimitReached) {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"registration_status": "not registered",
		"send_phone_code":     sent,
	})
}

// @Summary      Отправка SMS-кода
// @Description  Не больше 10 отправок на номер за календарные сутки.
// @Tags         Registration
// @Accept       json
// @Produce      json
// @Param        phone  body      models.PhoneRequest  true  "Телефон (10 цифр)"
// @Success      200    {object}  map[string]interface{}
// @Failure      422    {object}  map[string]interface{}
// @Router       /api/send_phone_code [post]
func (h *RegistrationHandler) SendPhoneCode(c *gin.Context) {
	var req models.PhoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	sent, err := h.phoneCodes.RequestCode(req.Phone)
	if errors.Is(err, services.ErrSMSLimitReached) {
		respondFieldError(c, "sms_sended_counter", "SMS sending limit has been reached.")
		return
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}
	// sent=false: шлюз не принял сообщение, попытка уже списана из лимита
	c.JSON(http.StatusOK, gin.H{"status": sent})
}

// @Summary      Проверка SMS-кода
// @Tags         Registration
// @Accept       json
// @Produce      json
// @Param        check  body      models.CheckPhoneCodeRequest  true  "Телефон и код"
// @Success      200    {object}  map[string]interface{}
// @Failure      422    {object}  map[string]interface{}
// @Router       /api/check_phone_code [post]
func (h *RegistrationHandler) CheckPhoneCode(c *gin.Context) {
	var req models.CheckPhoneCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	ok, err := h.phoneCodes.VerifyCode(req.Phone, req.Code)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if !ok {
		respondFieldError(c, "code", "SMS code is incorrect.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":              true,
		"phone_confirm_token": h.phoneCodes.ConfirmToken(req.Code),
	})
}

// @Summary      Завершение регистрации
// @Description  Требует phone_confirm_token, полученный после проверки кода.
// @Tags         Registration
// @Accept       json
// @Produce      json
// @Param        registration  body      models.RegistrationRequest  true  "Телефон, токен, пароль"
// @Success      200           {object}  map[string]interface{}
// @Failure      422           {object}  map[string]interface{}
// @Router       /api/registration [post]
func (h *RegistrationHandler) Registration(c *gin.Context) {
	var req models.RegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	m, err := h.members.Register(req.Phone, req.PhoneConfirmToken, req.Password, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	resp, err := h.auth.issueTokens(c, m.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
