package models

type LoginRequest struct {
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type PhoneRequest struct {
	Phone string `json:"phone" binding:"required,len=10,numeric"`
}

type CheckPhoneCodeRequest struct {
	Phone string `json:"phone" binding:"required,len=10,numeric"`
	Code  string `json:"code" binding:"required,len=4,numeric"`
}

type RegistrationRequest struct {
	Phone             string `json:"phone" binding:"required,len=10,numeric"`
	PhoneConfirmToken string `json:"phone_confirm_token" binding:"required"`
	Password          string `json:"password" binding:"required,min=6"`
}

// PatchRequest — частичное обновление анкеты. nil-поле не трогаем.
// Привязывается из multipart-формы (файл фото идёт отдельным полем photo).
type PatchRequest struct {
	Name           *string `form:"name" json:"name"`
	Surname        *string `form:"surname" json:"surname"`
	Patronymic     *string `form:"patronymic" json:"patronymic"`
	Email          *string `form:"email" json:"email" binding:"omitempty,email"`
	Birthday       *string `form:"birthday" json:"birthday" binding:"omitempty,datetime=2006-01-02"`
	CityID         *int    `form:"city_id" json:"city_id"`
	FamilyStatusID *int    `form:"family_status_id" json:"family_status_id"`
	Address        *string `form:"address" json:"address"`
	Password       *string `form:"password" json:"password" binding:"omitempty,min=6"`
	OldPassword    *string `form:"old_password" json:"old_password"`
}

type FeedbackRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Subject string `json:"subject" binding:"required"`
	Message string `json:"message" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}
