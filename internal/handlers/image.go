package handlers

import (
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"realestate-catalog/internal/errors"
	"realestate-catalog/internal/models"
	"realestate-catalog/pkg/imagehost"

	"github.com/gin-gonic/gin"
)

// sniffBytes is how much of an upload is read to detect its content type.
const sniffBytes = 3072

type ImageHandler struct {
	images ImageManager
}

func NewImageHandler(images ImageManager) *ImageHandler {
	return &ImageHandler{images: images}
}

// UploadImage godoc
// @Summary Upload a property photo
// @Description Multipart form with a "file" part plus optional "description" and "isMain"
// @Tags Images
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param propertyId path string true "Property ID"
// @Success 201 {object} models.PropertyImage
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /images/property/{propertyId}/upload [post]
func (h *ImageHandler) UploadImage(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, imagehost.MaxUploadBytes+(1<<20))

	header, err := c.FormFile("file")
	if err != nil {
		fail(c, errors.Validation("file is required"))
		return
	}

	isMain := false
	if raw := c.PostForm("isMain"); raw != "" {
		if isMain, err = strconv.ParseBool(raw); err != nil {
			fail(c, errors.Validation("isMain must be true or false"))
			return
		}
	}

	file, err := header.Open()
	if err != nil {
		fail(c, errors.Validation("file could not be read"))
		return
	}
	defer file.Close()

	contentType, err := sniff(file)
	if err != nil {
		fail(c, errors.Validation("file could not be read"))
		return
	}

	upload := &models.ImageUpload{
		FileName:    header.Filename,
		ContentType: contentType,
		Size:        header.Size,
		Description: c.PostForm("description"),
		IsMain:      isMain,
	}
	image, err := h.images.Upload(c, c.Param("propertyId"), upload, file)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, image)
}

// sniff detects the content type from the head of file and rewinds it.
func sniff(file multipart.File) (string, error) {
	head := make([]byte, sniffBytes)
	n, err := io.ReadFull(file, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", err
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	return imagehost.DetectContentType(head[:n]), nil
}

// GetImages lists enabled images, main first. all=true includes disabled ones.
func (h *ImageHandler) GetImages(c *gin.Context) {
	all, _ := strconv.ParseBool(c.Query("all"))
	images, err := h.images.GetImages(c, c.Param("propertyId"), !all)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, images)
}

func (h *ImageHandler) GetMainImage(c *gin.Context) {
	image, err := h.images.GetMainImage(c, c.Param("propertyId"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, image)
}

// SetMainImage godoc
// @Summary Make an image the property's main image
// @Description Any other main image of the property is cleared. Repeating the call is a no-op.
// @Tags Images
// @Security BearerAuth
// @Param propertyId path string true "Property ID"
// @Param imageId path string true "Image ID"
// @Success 204
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /images/property/{propertyId}/main/{imageId} [put]
func (h *ImageHandler) SetMainImage(c *gin.Context) {
	if err := h.images.SetMainImage(c, c.Param("propertyId"), c.Param("imageId")); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ImageHandler) DisableImage(c *gin.Context) {
	if err := h.images.DisableImage(c, c.Param("propertyId"), c.Param("imageId")); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ImageHandler) DeleteImage(c *gin.Context) {
	if err := h.images.DeleteImage(c, c.Param("propertyId"), c.Param("imageId")); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ImageHandler) GetResponsiveURLs(c *gin.Context) {
	urls, err := h.images.GetResponsiveURLs(c, c.Param("propertyId"), c.Param("imageId"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, urls)
}
