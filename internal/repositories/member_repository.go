package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"vernopromo/internal/models"
)

type MemberRepository interface {
	GetByID(id int) (*models.Member, error)
	GetByPhone(phone string) (*models.Member, error)
	FirstOrCreateByPhone(phone string) (*models.Member, error)
	RegisteredExists(phone string) (bool, error)

	// Верификация телефона. Обновления атомарные (check-and-set одним
	// UPDATE), чтобы параллельные запросы по одному номеру не теряли
	// инкременты счётчика и не подтверждали код дважды.
	BumpSMSCounter(memberID, maxPerDay int) (counter int, allowed bool, err error)
	SetCode(memberID int, code string, expire time.Time) error
	ConfirmPhone(phone, code string) (bool, error)
	CompleteRegistration(memberID int, passwordHash string, badIP bool, geoip string) error

	Update(m *models.Member) error
	UpdateDocument(memberID int, kind models.DocKind, path, status string) error
	UpdateStatus(memberID int, status string) error

	// refresh helpers
	UpdateRefresh(memberID int, token string, expiresAt time.Time) error
	RotateRefresh(oldToken, newToken string, newExpiresAt time.Time) (*models.Member, error)
	GetByRefreshToken(token string) (*models.Member, error)
}

type memberRepository struct {
	DB *sql.DB
}

func NewMemberRepository(db *sql.DB) MemberRepository {
	return &memberRepository{DB: db}
}

const memberColumns = `
	id, phone, password_hash,
	sms_code, sms_code_expire, phone_verified_at,
	last_sms_sent_at, sms_sent_counter,
	status,
	name, surname, patronymic, email, birthday,
	city_id, family_status_id, address, photo,
	bad_ip, geoip,
	passport_main, passport_main_status,
	passport_registration, passport_registration_status,
	name_change_certificate, name_change_certificate_status,
	requisites, requisites_status,
	agreement, agreement_status,
	refresh_token, refresh_expires_at, refresh_revoked
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMember(row rowScanner) (*models.Member, error) {
	var m models.Member
	docs := make(map[models.DocKind]*models.DocumentFile, len(models.DocKinds))
	for _, k := range models.DocKinds {
		docs[k] = &models.DocumentFile{}
	}
	if err := row.Scan(
		&m.ID, &m.Phone, &m.PasswordHash,
		&m.SMSCode, &m.SMSCodeExpire, &m.PhoneVerifiedAt,
		&m.LastSMSSentAt, &m.SMSSentCounter,
		&m.Status,
		&m.Name, &m.Surname, &m.Patronymic, &m.Email, &m.Birthday,
		&m.CityID, &m.FamilyStatusID, &m.Address, &m.Photo,
		&m.BadIP, &m.GeoIP,
		&docs[models.DocPassportMain].Path, &docs[models.DocPassportMain].Status,
		&docs[models.DocPassportRegistration].Path, &docs[models.DocPassportRegistration].Status,
		&docs[models.DocNameChangeCertificate].Path, &docs[models.DocNameChangeCertificate].Status,
		&docs[models.DocRequisites].Path, &docs[models.DocRequisites].Status,
		&docs[models.DocAgreement].Path, &docs[models.DocAgreement].Status,
		&m.RefreshToken, &m.RefreshExpiresAt, &m.RefreshRevoked,
	); err != nil {
		return nil, err
	}
	m.Documents = docs
	return &m, nil
}

func (r *memberRepository) GetByID(id int) (*models.Member, error) {
	q := `SELECT ` + memberColumns + ` FROM members WHERE id = $1`
	m, err := scanMember(r.DB.QueryRow(q, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get member by id: %w", err)
	}
	return m, nil
}

func (r *memberRepository) GetByPhone(phone string) (*models.Member, error) {
	q := `SELECT ` + memberColumns + ` FROM members WHERE phone = $1`
	m, err := scanMember(r.DB.QueryRow(q, phone))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get member by phone: %w", err)
	}
	return m, nil
}

// FirstOrCreateByPhone — идемпотентное создание по уникальному phone.
func (r *memberRepository) FirstOrCreateByPhone(phone string) (*models.Member, error) {
	const ins = `
		INSERT INTO members (phone, status)
		VALUES ($1, $2)
		ON CONFLICT (phone) DO NOTHING
	`
	if _, err := r.DB.Exec(ins, phone, models.StatusUnverified); err != nil {
		return nil, fmt.Errorf("create member: %w", err)
	}
	return r.GetByPhone(phone)
}

func (r *memberRepository) RegisteredExists(phone string) (bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM members WHERE phone = $1 AND password_hash IS NOT NULL)`
	var exists bool
	if err := r.DB.QueryRow(q, phone).Scan(&exists); err != nil {
		return false, fmt.Errorf("registered exists: %w", err)
	}
	return exists, nil
}

// BumpSMSCounter — сброс/инкремент суточного счётчика одним UPDATE.
// Если лимит за сегодня исчерпан, строка не матчится и allowed=false.
func (r *memberRepository) BumpSMSCounter(memberID, maxPerDay int) (int, bool, error) {
	const q = `
		UPDATE members SET
			sms_sent_counter = CASE
				WHEN last_sms_sent_at IS NOT NULL AND last_sms_sent_at::date = CURRENT_DATE
					THEN sms_sent_counter + 1
				ELSE 1
			END,
			last_sms_sent_at = NOW()
		WHERE id = $1
		  AND NOT (
			last_sms_sent_at IS NOT NULL
			AND last_sms_sent_at::date = CURRENT_DATE
			AND sms_sent_counter >= $2
		  )
		RETURNING sms_sent_counter
	`
	var counter int
	err := r.DB.QueryRow(q, memberID, maxPerDay).Scan(&counter)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("bump sms counter: %w", err)
	}
	return counter, true, nil
}

func (r *memberRepository) SetCode(memberID int, code string, expire time.Time) error {
	const q = `UPDATE members SET sms_code = $2, sms_code_expire = $3 WHERE id = $1`
	if _, err := r.DB.Exec(q, memberID, code, expire); err != nil {
		return fmt.Errorf("set sms code: %w", err)
	}
	return nil
}

// ConfirmPhone — проверка кода и отметка времени одним UPDATE.
func (r *memberRepository) ConfirmPhone(phone, code string) (bool, error) {
	const q = `
		UPDATE members SET phone_verified_at = NOW()
		WHERE phone = $1 AND sms_code = $2
		  AND sms_code_expire IS NOT NULL AND sms_code_expire >= NOW()
		RETURNING id
	`
	var id int
	err := r.DB.QueryRow(q, phone, code).Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("confirm phone: %w", err)
	}
	return true, nil
}

// CompleteRegistration — пароль, геометка и очистка одноразового кода.
func (r *memberRepository) CompleteRegistration(memberID int, passwordHash string, badIP bool, geoip string) error {
	const q = `
		UPDATE members SET
			password_hash = $2,
			bad_ip = $3,
			geoip = $4,
			sms_code = NULL,
			sms_code_expire = NULL,
			status = $5
		WHERE id = $1
	`
	if _, err := r.DB.Exec(q, memberID, passwordHash, badIP, geoip, models.StatusRegistered); err != nil {
		return fmt.Errorf("complete registration: %w", err)
	}
	return nil
}

// Update — анкетные поля, фото, пароль и статус.
func (r *memberRepository) Update(m *models.Member) error {
	const q = `
		UPDATE members SET
			password_hash = $2,
			status = $3,
			name = $4, surname = $5, patronymic = $6, email = $7, birthday = $8,
			city_id = $9, family_status_id = $10, address = $11, photo = $12
		WHERE id = $1
	`
	if _, err := r.DB.Exec(q,
		m.ID,
		m.PasswordHash,
		m.Status,
		m.Name, m.Surname, m.Patronymic, m.Email, m.Birthday,
		m.CityID, m.FamilyStatusID, m.Address, m.Photo,
	); err != nil {
		return fmt.Errorf("update member: %w", err)
	}
	return nil
}

// UpdateDocument — слот и его статус проверки. Имя колонки берётся из
// закрытого набора DocKind, подстановка безопасна.
func (r *memberRepository) UpdateDocument(memberID int, kind models.DocKind, path, status string) error {
	if !models.IsDocKind(string(kind)) {
		return fmt.Errorf("unknown document kind: %s", kind)
	}
	q := fmt.Sprintf(`UPDATE members SET %s = $2, %s_status = $3 WHERE id = $1`, kind, kind)
	if _, err := r.DB.Exec(q, memberID, path, status); err != nil {
		return fmt.Errorf("update document %s: %w", kind, err)
	}
	return nil
}

func (r *memberRepository) UpdateStatus(memberID int, status string) error {
	const q = `UPDATE members SET status = $2 WHERE id = $1`
	if _, err := r.DB.Exec(q, memberID, status); err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	return nil
}

func (r *memberRepository) UpdateRefresh(memberID int, token string, expiresAt time.Time) error {
	const q = `
		UPDATE members SET refresh_token = $2, refresh_expires_at = $3, refresh_revoked = FALSE
		WHERE id = $1
	`
	if _, err := r.DB.Exec(q, memberID, token, expiresAt); err != nil {
		return fmt.Errorf("update refresh: %w", err)
	}
	return nil
}

func (r *memberRepository) RotateRefresh(oldToken, newToken string, newExpiresAt time.Time) (*models.Member, error) {
	q := `
		UPDATE members SET refresh_token = $2, refresh_expires_at = $3
		WHERE refresh_token = $1 AND NOT refresh_revoked
		  AND refresh_expires_at IS NOT NULL AND refresh_expires_at >= NOW()
		RETURNING ` + memberColumns
	m, err := scanMember(r.DB.QueryRow(q, oldToken, newToken, newExpiresAt))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("rotate refresh: %w", err)
	}
	return m, nil
}

func (r *memberRepository) GetByRefreshToken(token string) (*models.Member, error) {
	q := `SELECT ` + memberColumns + ` FROM members WHERE refresh_token = $1`
	m, err := scanMember(r.DB.QueryRow(q, token))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get member by refresh token: %w", err)
	}
	return m, nil
}
