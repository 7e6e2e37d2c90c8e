package services

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"vernopromo/internal/logger"
	"vernopromo/internal/repositories"
)

var ErrSMSLimitReached = errors.New("sms sending limit has been reached")

const (
	// не больше 10 отправок на номер за календарные сутки
	maxDailySends = 10
	codeTTL       = time.Hour
	bypassCode    = "1111"
	// код страны дописывается перед отправкой в шлюз
	countryPrefix = "7"
)

// SMSProvider — внешний SMS-шлюз: send(phone, message) -> bool.
type SMSProvider interface {
	Send(phone, message string) (bool, error)
}

// PhoneCodeService владеет жизненным циклом одноразового кода:
// генерация, суточный лимит, срок действия, токен подтверждения.
type PhoneCodeService interface {
	// RequestCode: false без ошибки — шлюз не принял сообщение
	// (попытка при этом уже списана из суточного лимита).
	RequestCode(phone string) (bool, error)
	// VerifyCode: true, если код совпал и не истёк; отмечает
	// phone_verified_at.
	VerifyCode(phone, code string) (bool, error)
	// ConfirmToken — детерминированная свёртка кода; нигде не хранится,
	// только пересчитывается для сравнения.
	ConfirmToken(code string) string
}

type phoneCodeService struct {
	members repositories.MemberRepository
	sms     SMSProvider
	salt    string
	bypass  bool
}

func NewPhoneCodeService(members repositories.MemberRepository, sms SMSProvider, salt string, bypass bool) PhoneCodeService {
	return &phoneCodeService{
		members: members,
		sms:     sms,
		salt:    salt,
		bypass:  bypass,
	}
}

// --- генерация 4-значного кода, цифры могут повторяться ---
func (s *phoneCodeService) generateCode() string {
	src := rand.NewSource(time.Now().UnixNano())
	rnd := rand.New(src)
	return fmt.Sprintf("%04d", rnd.Intn(10000))
}

func (s *phoneCodeService) RequestCode(phone string) (bool, error) {
	m, err := s.members.FirstOrCreateByPhone(phone)
	if err != nil {
		return false, err
	}

	counter, allowed, err := s.members.BumpSMSCounter(m.ID, maxDailySends)
	if err != nil {
		return false, err
	}
	if !allowed {
		logger.Log.Infof("[phone][code] limit reached phone=%s", phone)
		return false, ErrSMSLimitReached
	}

	if s.bypass {
		if err := s.members.SetCode(m.ID, bypassCode, time.Now().Add(codeTTL)); err != nil {
			return false, err
		}
		logger.Log.Infof("[phone][code] bypass phone=%s counter=%d", phone, counter)
		return true, nil
	}

	code := s.generateCode()
	sent, err := s.sms.Send(countryPrefix+phone, "Ваш проверочный код: "+code)
	if err != nil || !sent {
		// попытка уже списана из суточного лимита
		logger.Log.Warnf("[phone][code] send failed phone=%s err=%v", phone, err)
		return false, nil
	}

	if err := s.members.SetCode(m.ID, code, time.Now().Add(codeTTL)); err != nil {
		return false, err
	}
	logger.Log.Infof("[phone][code] sent phone=%s counter=%d", phone, counter)
	return true, nil
}

func (s *phoneCodeService) VerifyCode(phone, code string) (bool, error) {
	return s.members.ConfirmPhone(phone, code)
}

func (s *phoneCodeService) ConfirmToken(code string) string {
	sum := md5.Sum([]byte(code + s.salt))
	return hex.EncodeToString(sum[:])
}
