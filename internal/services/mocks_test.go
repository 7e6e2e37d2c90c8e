package services

import (
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"vernopromo/internal/logger"
	"vernopromo/internal/models"
	"vernopromo/internal/utils"
)

func TestMain(m *testing.M) {
	logger.Init("error")
	os.Exit(m.Run())
}

// --- in-memory репозиторий участников, повторяет семантику SQL-запросов ---

type memberRepoMock struct {
	mu      sync.Mutex
	members map[int]*models.Member
	byPhone map[string]int
	nextID  int

	failUpdate bool
}

func newMemberRepoMock() *memberRepoMock {
	return &memberRepoMock{
		members: make(map[int]*models.Member),
		byPhone: make(map[string]int),
		nextID:  1,
	}
}

func (r *memberRepoMock) add(m *models.Member) *models.Member {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m.ID == 0 {
		m.ID = r.nextID
		r.nextID++
	}
	if m.Documents == nil {
		m.Documents = make(map[models.DocKind]*models.DocumentFile)
		for _, k := range models.DocKinds {
			m.Documents[k] = &models.DocumentFile{}
		}
	}
	r.members[m.ID] = m
	r.byPhone[m.Phone] = m.ID
	return m
}

func (r *memberRepoMock) GetByID(id int) (*models.Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.members[id], nil
}

func (r *memberRepoMock) GetByPhone(phone string) (*models.Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byPhone[phone]
	if !ok {
		return nil, nil
	}
	return r.members[id], nil
}

func (r *memberRepoMock) FirstOrCreateByPhone(phone string) (*models.Member, error) {
	if m, _ := r.GetByPhone(phone); m != nil {
		return m, nil
	}
	return r.add(&models.Member{Phone: phone, Status: models.StatusUnverified}), nil
}

func (r *memberRepoMock) RegisteredExists(phone string) (bool, error) {
	m, _ := r.GetByPhone(phone)
	return m != nil && m.Registered(), nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func (r *memberRepoMock) BumpSMSCounter(memberID, maxPerDay int) (int, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.members[memberID]
	if !ok {
		return 0, false, nil
	}
	now := time.Now()
	today := m.LastSMSSentAt != nil && sameDay(*m.LastSMSSentAt, now)
	if today && m.SMSSentCounter >= maxPerDay {
		return 0, false, nil
	}
	if today {
		m.SMSSentCounter++
	} else {
		m.SMSSentCounter = 1
	}
	m.LastSMSSentAt = &now
	return m.SMSSentCounter, true, nil
}

func (r *memberRepoMock) SetCode(memberID int, code string, expire time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m := r.members[memberID]
	m.SMSCode = &code
	m.SMSCodeExpire = &expire
	return nil
}

func (r *memberRepoMock) ConfirmPhone(phone, code string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byPhone[phone]
	if !ok {
		return false, nil
	}
	m := r.members[id]
	if m.SMSCode == nil || *m.SMSCode != code {
		return false, nil
	}
	if m.SMSCodeExpire == nil || m.SMSCodeExpire.Before(time.Now()) {
		return false, nil
	}
	now := time.Now()
	m.PhoneVerifiedAt = &now
	return true, nil
}

func (r *memberRepoMock) CompleteRegistration(memberID int, passwordHash string, badIP bool, geoip string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m := r.members[memberID]
	m.PasswordHash = &passwordHash
	m.BadIP = badIP
	m.GeoIP = geoip
	m.SMSCode = nil
	m.SMSCodeExpire = nil
	m.Status = models.StatusRegistered
	return nil
}

func (r *memberRepoMock) Update(m *models.Member) error {
	if r.failUpdate {
		return fmt.Errorf("update failed")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.members[m.ID] = m
	return nil
}

func (r *memberRepoMock) UpdateDocument(memberID int, kind models.DocKind, path, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d := r.members[memberID].Document(kind)
	d.Path = path
	d.Status = status
	return nil
}

func (r *memberRepoMock) UpdateStatus(memberID int, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.members[memberID].Status = status
	return nil
}

func (r *memberRepoMock) UpdateRefresh(memberID int, token string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m := r.members[memberID]
	m.RefreshToken = &token
	m.RefreshExpiresAt = &expiresAt
	m.RefreshRevoked = false
	return nil
}

func (r *memberRepoMock) RotateRefresh(oldToken, newToken string, newExpiresAt time.Time) (*models.Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.members {
		if m.RefreshToken != nil && *m.RefreshToken == oldToken && !m.RefreshRevoked &&
			m.RefreshExpiresAt != nil && !m.RefreshExpiresAt.Before(time.Now()) {
			m.RefreshToken = &newToken
			m.RefreshExpiresAt = &newExpiresAt
			return m, nil
		}
	}
	return nil, nil
}

func (r *memberRepoMock) GetByRefreshToken(token string) (*models.Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.members {
		if m.RefreshToken != nil && *m.RefreshToken == token {
			return m, nil
		}
	}
	return nil, nil
}

// --- справочники ---

type lookupRepoMock struct {
	cities []*models.City
}

func (r *lookupRepoMock) ListCities() ([]*models.City, error) { return r.cities, nil }

func (r *lookupRepoMock) ListFamilyStatuses() ([]*models.FamilyStatus, error) {
	return []*models.FamilyStatus{{ID: 1, Name: "Холост/не замужем"}}, nil
}

func (r *lookupRepoMock) GetCityByName(name string) (*models.City, error) {
	for _, c := range r.cities {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, nil
}

// --- внешние адаптеры ---

type smsMock struct {
	ok  bool
	err error

	calls    int
	lastTo   string
	lastText string
}

func (s *smsMock) Send(phone, message string) (bool, error) {
	s.calls++
	s.lastTo = phone
	s.lastText = message
	return s.ok, s.err
}

type geoMock struct {
	city string
	err  error
}

func (g *geoMock) Locate(ip string) (*utils.GeoLocation, error) {
	if g.err != nil {
		return nil, g.err
	}
	return &utils.GeoLocation{City: g.city, IP: ip, Raw: `{"city":"` + g.city + `"}`}, nil
}
