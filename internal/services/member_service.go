package services

import (
	"errors"
	"io"
	"time"

	"vernopromo/internal/logger"
	"vernopromo/internal/models"
	"vernopromo/internal/repositories"
	"vernopromo/internal/storage"
	"vernopromo/internal/utils"
)

var ErrMemberNotFound = errors.New("member not found")

// GeoLocator — внешний геосервис (внедряется, в тестах мокается).
type GeoLocator interface {
	Locate(ip string) (*utils.GeoLocation, error)
}

// UploadFile — файл из multipart-запроса, переданный сервису явно.
type UploadFile struct {
	Name   string
	Reader io.Reader
}

type MemberService interface {
	GetByID(id int) (*models.Member, error)
	GetByPhone(phone string) (*models.Member, error)
	RegisteredExists(phone string) (bool, error)

	// Login возвращает участника при совпадении пароля, иначе nil.
	Login(phone, password string) (*models.Member, error)

	// Register завершает регистрацию по токену подтверждения телефона.
	Register(phone, confirmToken, password, ip string) (*models.Member, error)

	// UpdateProfile — частичное обновление анкеты, разрешено только из
	// requiredStatus; при успехе статус двигается на шаг вперёд.
	UpdateProfile(memberID int, requiredStatus string, req *models.PatchRequest, photo *UploadFile) error

	// refresh-токены
	UpdateRefresh(memberID int, token string, expiresAt time.Time) error
	RotateRefresh(oldToken, newToken string, newExpiresAt time.Time) (*models.Member, error)
	GetByRefreshToken(token string) (*models.Member, error)
}

type memberService struct {
	members    repositories.MemberRepository
	lookups    repositories.LookupRepository
	auth       AuthService
	phoneCodes PhoneCodeService
	geo        GeoLocator
	files      *storage.FileStorage
}

func NewMemberService(
	members repositories.MemberRepository,
	lookups repositories.LookupRepository,
	auth AuthService,
	phoneCodes PhoneCodeService,
	geo GeoLocator,
	files *storage.FileStorage,
) MemberService {
	return &memberService{
		members:    members,
		lookups:    lookups,
		auth:       auth,
		phoneCodes: phoneCodes,
		geo:        geo,
		files:      files,
	}
}

func (s *memberService) GetByID(id int) (*models.Member, error) {
	return s.members.GetByID(id)
}

func (s *memberService) GetByPhone(phone string) (*models.Member, error) {
	return s.members.GetByPhone(phone)
}

func (s *memberService) RegisteredExists(phone string) (bool, error) {
	return s.members.RegisteredExists(phone)
}

func (s *memberService) Login(phone, password string) (*models.Member, error) {
	m, err := s.members.GetByPhone(phone)
	if err != nil {
		return nil, err
	}
	if m == nil || !m.Registered() {
		return nil, nil
	}
	if err := s.auth.CheckPassword(*m.PasswordHash, password); err != nil {
		return nil, nil
	}
	return m, nil
}

func (s *memberService) Register(phone, confirmToken, password, ip string) (*models.Member, error) {
	m, err := s.members.GetByPhone(phone)
	if err != nil {
		return nil, err
	}
	// токен пересчитывается из хранимого кода: после очистки кода
	// регистрация этим токеном уже невозможна
	if m == nil || m.SMSCode == nil || s.phoneCodes.ConfirmToken(*m.SMSCode) != confirmToken {
		return nil, fieldError("phone_confirm_token", "Token is incorrect.")
	}

	hash, err := s.auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	badIP := false
	geoRaw := ""
	if s.geo != nil {
		if loc, gerr := s.geo.Locate(ip); gerr != nil {
			logger.Log.Warnf("[member][register] geoip failed ip=%s err=%v", ip, gerr)
		} else {
			geoRaw = loc.Raw
			city, cerr := s.lookups.GetCityByName(loc.City)
			if cerr != nil {
				return nil, cerr
			}
			badIP = city == nil
		}
	}

	if err := s.members.CompleteRegistration(m.ID, hash, badIP, geoRaw); err != nil {
		return nil, fieldError("update", "Не удалось сохранить данные в БД.")
	}
	logger.Log.Infof("[member][register] done member_id=%d bad_ip=%v", m.ID, badIP)
	return s.members.GetByID(m.ID)
}

func (s *memberService) UpdateProfile(memberID int, requiredStatus string, req *models.PatchRequest, photo *UploadFile) error {
	m, err := s.members.GetByID(memberID)
	if err != nil {
		return err
	}
	if m == nil {
		return ErrMemberNotFound
	}
	if m.Status != requiredStatus {
		return fieldError("member_status", "Статус участника должен быть "+requiredStatus+".")
	}

	// смена пароля только при верном старом
	if req.Password != nil {
		if req.OldPassword == nil || m.PasswordHash == nil ||
			s.auth.CheckPassword(*m.PasswordHash, *req.OldPassword) != nil {
			return fieldError("old_password", "Old password required.")
		}
		hash, herr := s.auth.HashPassword(*req.Password)
		if herr != nil {
			return herr
		}
		m.PasswordHash = &hash
	}

	savedPhoto := ""
	if photo != nil {
		path, _, serr := s.files.Save(m.ID, "photos", photo.Name, photo.Reader)
		if serr != nil {
			logger.Log.Warnf("[member][patch] photo save failed member_id=%d err=%v", m.ID, serr)
			return fieldError("photo", "Не удалось сохранить файл.")
		}
		savedPhoto = path
		m.Photo = path
	}

	applyPatch(m, req)

	if next, ok := NextMemberStatus(m.Status); ok {
		m.Status = next
	}

	if err := s.members.Update(m); err != nil {
		logger.Log.Errorf("[member][patch] update failed member_id=%d err=%v", m.ID, err)
		// строка не записалась — свежезагруженное фото не должно осиротеть
		if savedPhoto != "" {
			if rerr := s.files.Remove(savedPhoto); rerr != nil {
				logger.Log.Warnf("[member][patch] orphan photo cleanup failed path=%s err=%v", savedPhoto, rerr)
			}
		}
		return fieldError("update", "Не удалось сохранить данные в БД.")
	}
	return nil
}

func applyPatch(m *models.Member, req *models.PatchRequest) {
	if req.Name != nil {
		m.Name = *req.Name
	}
	if req.Surname != nil {
		m.Surname = *req.Surname
	}
	if req.Patronymic != nil {
		m.Patronymic = *req.Patronymic
	}
	if req.Email != nil {
		m.Email = *req.Email
	}
	if req.Birthday != nil {
		// формат проверен биндингом (datetime=2006-01-02)
		if t, err := time.Parse("2006-01-02", *req.Birthday); err == nil {
			m.Birthday = &t
		}
	}
	if req.CityID != nil {
		m.CityID = req.CityID
	}
	if req.FamilyStatusID != nil {
		m.FamilyStatusID = req.FamilyStatusID
	}
	if req.Address != nil {
		m.Address = *req.Address
	}
}

func (s *memberService) UpdateRefresh(memberID int, token string, expiresAt time.Time) error {
	return s.members.UpdateRefresh(memberID, token, expiresAt)
}

func (s *memberService) RotateRefresh(oldToken, newToken string, newExpiresAt time.Time) (*models.Member, error) {
	return s.members.RotateRefresh(oldToken, newToken, newExpiresAt)
}

func (s *memberService) GetByRefreshToken(token string) (*models.Member, error) {
	return s.members.GetByRefreshToken(token)
}
