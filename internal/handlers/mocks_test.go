package handlers_test

import (
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"vernopromo/internal/handlers"
	"vernopromo/internal/logger"
	"vernopromo/internal/middleware"
	"vernopromo/internal/models"
	"vernopromo/internal/routes"
	"vernopromo/internal/services"
)

func TestMain(m *testing.M) {
	logger.Init("error")
	os.Exit(m.Run())
}

// --- стаб сервиса участников: только то, что нужно хендлерам ---

type memberServiceStub struct {
	byID    map[int]*models.Member
	byPhone map[string]*models.Member

	loginResult    *models.Member
	registerResult *models.Member
	registerErr    error
	updateErr      error
}

func newMemberServiceStub() *memberServiceStub {
	return &memberServiceStub{
		byID:    make(map[int]*models.Member),
		byPhone: make(map[string]*models.Member),
	}
}

func (s *memberServiceStub) add(m *models.Member) *models.Member {
	if m.ID == 0 {
		m.ID = len(s.byID) + 1
	}
	s.byID[m.ID] = m
	s.byPhone[m.Phone] = m
	return m
}

func (s *memberServiceStub) GetByID(id int) (*models.Member, error)       { return s.byID[id], nil }
func (s *memberServiceStub) GetByPhone(phone string) (*models.Member, error) {
	return s.byPhone[phone], nil
}

func (s *memberServiceStub) RegisteredExists(phone string) (bool, error) {
	m := s.byPhone[phone]
	return m != nil && m.Registered(), nil
}

func (s *memberServiceStub) Login(phone, password string) (*models.Member, error) {
	return s.loginResult, nil
}

func (s *memberServiceStub) Register(phone, confirmToken, password, ip string) (*models.Member, error) {
	return s.registerResult, s.registerErr
}

func (s *memberServiceStub) UpdateProfile(memberID int, requiredStatus string, req *models.PatchRequest, photo *services.UploadFile) error {
	return s.updateErr
}

func (s *memberServiceStub) UpdateRefresh(memberID int, token string, expiresAt time.Time) error {
	m := s.byID[memberID]
	m.RefreshToken = &token
	m.RefreshExpiresAt = &expiresAt
	return nil
}

func (s *memberServiceStub) RotateRefresh(oldToken, newToken string, newExpiresAt time.Time) (*models.Member, error) {
	for _, m := range s.byID {
		if m.RefreshToken != nil && *m.RefreshToken == oldToken && !m.RefreshRevoked &&
			m.RefreshExpiresAt != nil && !m.RefreshExpiresAt.Before(time.Now()) {
			m.RefreshToken = &newToken
			m.RefreshExpiresAt = &newExpiresAt
			return m, nil
		}
	}
	return nil, nil
}

func (s *memberServiceStub) GetByRefreshToken(token string) (*models.Member, error) {
	for _, m := range s.byID {
		if m.RefreshToken != nil && *m.RefreshToken == token {
			return m, nil
		}
	}
	return nil, nil
}

// --- стаб сервиса кодов ---

type phoneCodeStub struct {
	sent   bool
	err    error
	verify bool
}

func (s *phoneCodeStub) RequestCode(phone string) (bool, error)      { return s.sent, s.err }
func (s *phoneCodeStub) VerifyCode(phone, code string) (bool, error) { return s.verify, nil }
func (s *phoneCodeStub) ConfirmToken(code string) string             { return "tok-" + code }

// newTestRouter поднимает полный роутер поверх стабов: маршруты и
// middleware боевые, подменены только сервисы.
func newTestRouter(t *testing.T, members *memberServiceStub, phones services.PhoneCodeService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	middleware.SetSecret("test-secret")

	auth := services.NewAuthService(time.Minute)
	authHandler := handlers.NewAuthHandler(members, auth, time.Hour)
	registrationHandler := handlers.NewRegistrationHandler(members, phones, authHandler)
	profileHandler := handlers.NewProfileHandler(members)
	documentHandler := handlers.NewDocumentHandler(members, nil)
	lookupHandler := handlers.NewLookupHandler(nil, nil)
	feedbackHandler := handlers.NewFeedbackHandler(nil)

	return routes.SetupRoutes(
		gin.New(),
		"100-S",
		authHandler,
		registrationHandler,
		profileHandler,
		documentHandler,
		lookupHandler,
		feedbackHandler,
	)
}
