package services

import (
	"errors"
	"io"
	"path/filepath"
	"time"

	"github.com/h2non/filetype"

	"vernopromo/internal/logger"
	"vernopromo/internal/models"
	"vernopromo/internal/pdf"
	"vernopromo/internal/repositories"
	"vernopromo/internal/storage"
)

var ErrDocumentNotFound = errors.New("document not found")

// DocumentService — пакетная загрузка документов по слотам, выдача
// сохранённых файлов и шаблон соглашения.
type DocumentService struct {
	Members repositories.MemberRepository
	Files   *storage.FileStorage
	PDFGen  pdf.Generator
}

func NewDocumentService(members repositories.MemberRepository, files *storage.FileStorage, pdfGen pdf.Generator) *DocumentService {
	return &DocumentService{Members: members, Files: files, PDFGen: pdfGen}
}

// Upload обрабатывает присланные слоты. Повторная загрузка допускается
// только для отклонённого или ещё не загружавшегося документа; остальные
// слоты считаются уже закрытыми и не перезаписываются.
//
// Возвращает статус "закрыт" по каждому из пяти слотов и признак того,
// что агрегатная проверка продвинула статус участника.
func (s *DocumentService) Upload(memberID int, files map[models.DocKind]UploadFile) (map[models.DocKind]bool, bool, error) {
	m, err := s.Members.GetByID(memberID)
	if err != nil {
		return nil, false, err
	}
	if m == nil {
		return nil, false, ErrMemberNotFound
	}

	docs := make(map[models.DocKind]bool, len(models.DocKinds))
	for _, kind := range models.DocKinds {
		docs[kind] = m.Document(kind).Submitted()
	}

	for _, kind := range models.DocKinds {
		f, ok := files[kind]
		if !ok {
			continue
		}
		d := m.Document(kind)

		if d.Submitted() && d.Status != models.DocStatusRejected {
			// уже на проверке или принят — не перезаписываем
			docs[kind] = true
			continue
		}

		path, _, serr := s.Files.Save(memberID, filepath.Join("docs", string(kind)), f.Name, f.Reader)
		if serr != nil {
			logger.Log.Warnf("[docs][upload] save failed member_id=%d kind=%s err=%v", memberID, kind, serr)
			continue
		}
		if uerr := s.Members.UpdateDocument(memberID, kind, path, models.DocStatusUnderReview); uerr != nil {
			logger.Log.Errorf("[docs][upload] db update failed member_id=%d kind=%s err=%v", memberID, kind, uerr)
			continue
		}
		d.Path = path
		d.Status = models.DocStatusUnderReview
		docs[kind] = true
	}

	advanced, err := s.refreshMemberStatus(m)
	if err != nil {
		return docs, false, err
	}
	return docs, advanced, nil
}

// refreshMemberStatus — агрегатная проверка: все пять слотов загружены
// и ни один не отклонён => участник переходит на проверку документов.
func (s *DocumentService) refreshMemberStatus(m *models.Member) (bool, error) {
	for _, kind := range models.DocKinds {
		d := m.Document(kind)
		if !d.Submitted() || d.Status == models.DocStatusRejected {
			return false, nil
		}
	}
	if m.Status != models.StatusDocsRequest || !CanTransition(m.Status, models.StatusDocsCheck) {
		return false, nil
	}
	if err := s.Members.UpdateStatus(m.ID, models.StatusDocsCheck); err != nil {
		return false, err
	}
	m.Status = models.StatusDocsCheck
	logger.Log.Infof("[docs][upload] all docs in, member_id=%d -> %s", m.ID, models.StatusDocsCheck)
	return true, nil
}

// OpenFile отдаёт сохранённый документ или фото участника потоком.
// Тип содержимого определяется по магическим байтам.
func (s *DocumentService) OpenFile(m *models.Member, key string) (io.ReadSeekCloser, int64, string, error) {
	var path string
	switch {
	case key == "photo":
		path = m.Photo
	case models.IsDocKind(key):
		path = m.Document(models.DocKind(key)).Path
	}
	if path == "" {
		return nil, 0, "", ErrDocumentNotFound
	}

	f, size, err := s.Files.Open(path)
	if err != nil {
		return nil, 0, "", ErrDocumentNotFound
	}

	head := make([]byte, 261)
	n, _ := f.Read(head)
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return nil, 0, "", err
	}

	contentType := "application/octet-stream"
	if kind, kerr := filetype.Match(head[:n]); kerr == nil && kind != filetype.Unknown {
		contentType = kind.MIME.Value
	}
	return f, size, contentType, nil
}

// AgreementTemplate генерирует заполненный шаблон соглашения для слота
// agreement.
func (s *DocumentService) AgreementTemplate(m *models.Member) (string, error) {
	if s.PDFGen == nil {
		return "", errors.New("pdf generator not configured")
	}
	return s.PDFGen.GenerateAgreement(pdf.AgreementData{
		MemberID:   m.ID,
		Phone:      m.Phone,
		Surname:    m.Surname,
		Name:       m.Name,
		Patronymic: m.Patronymic,
		Address:    m.Address,
		CreatedAt:  time.Now(),
	})
}
