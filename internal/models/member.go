package models

import "time"

// Статусы участника. Закрытый набор: переходы описаны в
// services.MemberTransitions, сравнение по строкам из БД.
const (
	StatusUnverified     = "UNVERIFIED"
	StatusRegistered     = "REGISTERED"
	StatusBaseFormRefill = "BASE_FORM_REFILL"
	StatusDocsRequest    = "DOCS_REQUEST"
	StatusDocsCheck      = "DOCS_CHECK"
	StatusApproved       = "APPROVED"
	StatusRejected       = "REJECTED"
)

// Статусы проверки документа. Пустая строка — документ не загружен.
const (
	DocStatusNone        = ""
	DocStatusUnderReview = "На проверке"
	DocStatusRejected    = "Отклонён"
	DocStatusApproved    = "Принят"
)

// DocKind — именованный слот документа участника.
type DocKind string

const (
	DocPassportMain          DocKind = "passport_main"
	DocPassportRegistration  DocKind = "passport_registration"
	DocNameChangeCertificate DocKind = "name_change_certificate"
	DocRequisites            DocKind = "requisites"
	DocAgreement             DocKind = "agreement"
)

// DocKinds — полный набор слотов в порядке обработки upload.
var DocKinds = []DocKind{
	DocPassportMain,
	DocPassportRegistration,
	DocNameChangeCertificate,
	DocRequisites,
	DocAgreement,
}

// IsDocKind сообщает, является ли ключ запроса известным слотом.
func IsDocKind(key string) bool {
	for _, k := range DocKinds {
		if string(k) == key {
			return true
		}
	}
	return false
}

// DocumentFile — пара "путь в хранилище + статус проверки" для одного слота.
type DocumentFile struct {
	Path   string `json:"path"`
	Status string `json:"status"`
}

// Submitted — документ хоть раз загружался.
func (d *DocumentFile) Submitted() bool {
	return d != nil && d.Path != ""
}

type Member struct {
	ID    int    `json:"id"`
	Phone string `json:"phone"`

	// nil — пароль ещё не задан (регистрация не завершена)
	PasswordHash *string `json:"-"`

	// Верификация телефона
	SMSCode         *string    `json:"-"`
	SMSCodeExpire   *time.Time `json:"-"`
	PhoneVerifiedAt *time.Time `json:"phone_verified_at"`

	// Суточный лимит отправок
	LastSMSSentAt  *time.Time `json:"-"`
	SMSSentCounter int        `json:"-"`

	Status string `json:"status"`

	// Анкета
	Name           string     `json:"name"`
	Surname        string     `json:"surname"`
	Patronymic     string     `json:"patronymic"`
	Email          string     `json:"email"`
	Birthday       *time.Time `json:"birthday"`
	CityID         *int       `json:"city_id"`
	FamilyStatusID *int       `json:"family_status_id"`
	Address        string     `json:"address"`
	Photo          string     `json:"photo"`

	// Геолокация на момент регистрации
	BadIP bool   `json:"bad_ip"`
	GeoIP string `json:"-"`

	// Документы по слотам
	Documents map[DocKind]*DocumentFile `json:"documents"`

	// refresh-хранение в БД
	RefreshToken     *string    `json:"-"`
	RefreshExpiresAt *time.Time `json:"-"`
	RefreshRevoked   bool       `json:"-"`
}

// Registered — участник завершил регистрацию (задан пароль).
func (m *Member) Registered() bool {
	return m.PasswordHash != nil && *m.PasswordHash != ""
}

// Document возвращает слот, создавая пустую запись при первом обращении.
func (m *Member) Document(kind DocKind) *DocumentFile {
	if m.Documents == nil {
		m.Documents = make(map[DocKind]*DocumentFile, len(DocKinds))
	}
	d, ok := m.Documents[kind]
	if !ok {
		d = &DocumentFile{}
		m.Documents[kind] = d
	}
	return d
}
