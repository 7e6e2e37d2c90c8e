package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vernopromo/internal/models"
	"vernopromo/internal/storage"
)

func newDocServiceForTest(t *testing.T, repo *memberRepoMock) *DocumentService {
	t.Helper()
	files, err := storage.NewFileStorage(t.TempDir(), 1)
	require.NoError(t, err)
	return NewDocumentService(repo, files, nil)
}

func docUpload(name string) UploadFile {
	return UploadFile{Name: name, Reader: strings.NewReader("file-body")}
}

func TestUploadMarksSlotsUnderReview(t *testing.T) {
	repo := newMemberRepoMock()
	m := repo.add(&models.Member{Phone: "9001234567", Status: models.StatusDocsRequest})
	svc := newDocServiceForTest(t, repo)

	docs, advanced, err := svc.Upload(m.ID, map[models.DocKind]UploadFile{
		models.DocPassportMain: docUpload("passport.jpg"),
		models.DocRequisites:   docUpload("requisites.pdf"),
	})
	require.NoError(t, err)
	assert.False(t, advanced, "двух документов из пяти мало для перехода")

	assert.True(t, docs[models.DocPassportMain])
	assert.True(t, docs[models.DocRequisites])
	assert.False(t, docs[models.DocAgreement])

	got, _ := repo.GetByID(m.ID)
	d := got.Document(models.DocPassportMain)
	assert.NotEmpty(t, d.Path)
	assert.Equal(t, models.DocStatusUnderReview, d.Status)
	assert.Equal(t, models.StatusDocsRequest, got.Status)
}

func TestUploadAllSlotsAdvancesStatus(t *testing.T) {
	repo := newMemberRepoMock()
	m := repo.add(&models.Member{Phone: "9001234567", Status: models.StatusDocsRequest})
	svc := newDocServiceForTest(t, repo)

	files := make(map[models.DocKind]UploadFile, len(models.DocKinds))
	for _, kind := range models.DocKinds {
		files[kind] = docUpload(string(kind) + ".pdf")
	}

	docs, advanced, err := svc.Upload(m.ID, files)
	require.NoError(t, err)
	assert.True(t, advanced)
	for _, kind := range models.DocKinds {
		assert.True(t, docs[kind], "слот %s закрыт", kind)
	}

	got, _ := repo.GetByID(m.ID)
	assert.Equal(t, models.StatusDocsCheck, got.Status)
}

func TestUploadSkipsSlotOnReview(t *testing.T) {
	repo := newMemberRepoMock()
	m := repo.add(&models.Member{Phone: "9001234567", Status: models.StatusDocsRequest})
	m.Document(models.DocPassportMain).Path = "docs/passport_main/1/old.jpg"
	m.Document(models.DocPassportMain).Status = models.DocStatusUnderReview
	svc := newDocServiceForTest(t, repo)

	docs, _, err := svc.Upload(m.ID, map[models.DocKind]UploadFile{
		models.DocPassportMain: docUpload("new.jpg"),
	})
	require.NoError(t, err)
	assert.True(t, docs[models.DocPassportMain])

	got, _ := repo.GetByID(m.ID)
	assert.Equal(t, "docs/passport_main/1/old.jpg", got.Document(models.DocPassportMain).Path,
		"документ на проверке не перезаписывается")
}

func TestUploadRejectedSlotReplaced(t *testing.T) {
	repo := newMemberRepoMock()
	m := repo.add(&models.Member{Phone: "9001234567", Status: models.StatusDocsRequest})
	m.Document(models.DocPassportMain).Path = "docs/passport_main/1/old.jpg"
	m.Document(models.DocPassportMain).Status = models.DocStatusRejected
	svc := newDocServiceForTest(t, repo)

	docs, _, err := svc.Upload(m.ID, map[models.DocKind]UploadFile{
		models.DocPassportMain: docUpload("new.jpg"),
	})
	require.NoError(t, err)
	assert.True(t, docs[models.DocPassportMain])

	got, _ := repo.GetByID(m.ID)
	d := got.Document(models.DocPassportMain)
	assert.NotEqual(t, "docs/passport_main/1/old.jpg", d.Path, "отклонённый документ заменяется")
	assert.Equal(t, models.DocStatusUnderReview, d.Status)
}

func TestUploadRejectedSlotBlocksAdvance(t *testing.T) {
	repo := newMemberRepoMock()
	m := repo.add(&models.Member{Phone: "9001234567", Status: models.StatusDocsRequest})
	for _, kind := range models.DocKinds {
		m.Document(kind).Path = "docs/" + string(kind) + "/1/file.pdf"
		m.Document(kind).Status = models.DocStatusUnderReview
	}
	m.Document(models.DocRequisites).Status = models.DocStatusRejected
	svc := newDocServiceForTest(t, repo)

	// пустая пачка: агрегатная проверка всё равно выполняется
	_, advanced, err := svc.Upload(m.ID, nil)
	require.NoError(t, err)
	assert.False(t, advanced, "отклонённый слот держит участника в DOCS_REQUEST")
}

func TestUploadUnknownMember(t *testing.T) {
	svc := newDocServiceForTest(t, newMemberRepoMock())
	_, _, err := svc.Upload(42, nil)
	assert.ErrorIs(t, err, ErrMemberNotFound)
}

func TestOpenFile(t *testing.T) {
	repo := newMemberRepoMock()
	m := repo.add(&models.Member{Phone: "9001234567", Status: models.StatusDocsRequest})
	svc := newDocServiceForTest(t, repo)

	_, _, err := svc.Upload(m.ID, map[models.DocKind]UploadFile{
		models.DocPassportMain: docUpload("passport.jpg"),
	})
	require.NoError(t, err)

	got, _ := repo.GetByID(m.ID)
	f, size, contentType, err := svc.OpenFile(got, string(models.DocPassportMain))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, int64(len("file-body")), size)
	assert.NotEmpty(t, contentType)
}

func TestOpenFileUnknownKey(t *testing.T) {
	repo := newMemberRepoMock()
	m := repo.add(&models.Member{Phone: "9001234567", Status: models.StatusDocsRequest})
	svc := newDocServiceForTest(t, repo)

	_, _, _, err := svc.OpenFile(m, "not_a_slot")
	assert.ErrorIs(t, err, ErrDocumentNotFound)

	// слот известен, но пуст
	_, _, _, err = svc.OpenFile(m, string(models.DocAgreement))
	assert.ErrorIs(t, err, ErrDocumentNotFound)
}
