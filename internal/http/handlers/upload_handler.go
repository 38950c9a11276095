package handlers

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var allowedImageExts = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".webp": {},
	".gif":  {},
}

// UploadResponse returns the public path of a stored image.
type UploadResponse struct {
	Path     string `json:"path"`
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
}

// UploadImage godoc
// @ID          uploadImage
// @Summary     Upload a menu image (staff)
// @Description Accepts jpg, jpeg, png, webp, or gif under the "image" form
// @Description field. The stored name is randomized; the returned path can
// @Description be set on a menu item.
// @Tags        Uploads
// @Accept      multipart/form-data
// @Produce     json
// @Param       image  formData  file  true  "Image file"
// @Success     201  {object}  handlers.UploadResponse
// @Failure     400  {object}  handlers.ErrorResponse
// @Failure     413  {object}  handlers.ErrorResponse "File too large"
// @Router      /staff/uploads [post]
func (h *Handlers) UploadImage(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "image form field required")
		return
	}
	if fileHeader.Size > h.maxUploadBytes {
		fail(c, http.StatusRequestEntityTooLarge, ErrCodeBadRequest, "file exceeds the upload limit")
		return
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if _, allowed := allowedImageExts[ext]; !allowed {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "unsupported image type")
		return
	}

	name := uuid.NewString() + ext
	dst := filepath.Join(h.uploadDir, name)
	if err := c.SaveUploadedFile(fileHeader, dst); err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not store file")
		return
	}

	ok(c, http.StatusCreated, UploadResponse{
		Path:     "/uploads/" + name,
		Filename: name,
		Size:     fileHeader.Size,
	})
}
