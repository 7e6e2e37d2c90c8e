package handlers

import (
	"mime/multipart"

	"github.com/gin-gonic/gin"

	"vernopromo/internal/models"
	"vernopromo/internal/services"
)

// ProfileHandler — два шага заполнения анкеты. Оба делают один и тот же
// patch, различаются только требуемым статусом участника.
type ProfileHandler struct {
	members services.MemberService
}

func NewProfileHandler(members services.MemberService) *ProfileHandler {
	return &ProfileHandler{members: members}
}

// @Summary      Первичное заполнение анкеты
// @Description  Доступно только в статусе REGISTERED.
// @Tags         Profile
// @Accept       mpfd
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      422  {object}  map[string]interface{}
// @Router       /api/profileData [patch]
func (h *ProfileHandler) ProfileData(c *gin.Context) {
	h.patch(c, models.StatusRegistered)
}

// @Summary      Обновление базовой анкеты
// @Description  Доступно только в статусе BASE_FORM_REFILL.
// @Tags         Profile
// @Accept       mpfd
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      422  {object}  map[string]interface{}
// @Router       /api/update [patch]
func (h *ProfileHandler) Update(c *gin.Context) {
	h.patch(c, models.StatusBaseFormRefill)
}

func (h *ProfileHandler) patch(c *gin.Context, requiredStatus string) {
	memberID, ok := getMemberID(c)
	if !ok {
		c.AbortWithStatusJSON(401, gin.H{"error": "Unauthorized"})
		return
	}

	var req models.PatchRequest
	if err := c.ShouldBind(&req); err != nil {
		bindError(c, err)
		return
	}

	photo, err := h.photoFromForm(c)
	if err != nil {
		respondFieldError(c, "photo", "Не удалось прочитать файл.")
		return
	}
	if photo != nil {
		defer photo.close()
	}

	var upload *services.UploadFile
	if photo != nil {
		upload = &photo.UploadFile
	}
	if err := h.members.UpdateProfile(memberID, requiredStatus, &req, upload); err != nil {
		respondServiceError(c, err)
		return
	}
	respondStatusOK(c)
}

type formFile struct {
	services.UploadFile
	close func() error
}

func (h *ProfileHandler) photoFromForm(c *gin.Context) (*formFile, error) {
	header, err := c.FormFile("photo")
	if err != nil {
		// файла просто нет в форме
		return nil, nil
	}
	f, err := openFormFile(header)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func openFormFile(header *multipart.FileHeader) (*formFile, error) {
	src, err := header.Open()
	if err != nil {
		return nil, err
	}
	return &formFile{
		UploadFile: services.UploadFile{Name: header.Filename, Reader: src},
		close:      src.Close,
	}, nil
}
