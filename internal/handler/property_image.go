package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/uniliving/backend/internal/repository"
	"github.com/uniliving/backend/internal/service"
)

// ImageHandler serves upload, listing and management of property images.
// Write operations require the caller to own the property.
type ImageHandler struct {
	Images *service.ImageService
	Props  *repository.PropertyRepo
	Files  *service.FileStore
}

func NewImageHandler(images *service.ImageService, props *repository.PropertyRepo, files *service.FileStore) *ImageHandler {
	return &ImageHandler{Images: images, Props: props, Files: files}
}

// requireOwner loads the property and checks the caller owns it.  A non-nil
// return is the already-written response and must be returned as-is.
func (h *ImageHandler) requireOwner(c echo.Context, propertyID uint64) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	ctx, cancel := reqContext(c)
	defer cancel()

	p, err := h.Props.ByID(ctx, propertyID)
	if err != nil {
		return writeRepoError(c, err)
	}
	if p.OwnerID != userID {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}
	return nil
}

// Upload handles POST /api/properties/:id/images.  Expects a multipart form
// with the upload under the "file" field.  The declared file name is used
// only for extension and content-type checks; the stored name is opaque.
func (h *ImageHandler) Upload(c echo.Context) error {
	propertyID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid property id"})
	}
	if resp := h.requireOwner(c, propertyID); resp != nil {
		return resp
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "image file is required"})
	}
	src, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "cannot read uploaded file"})
	}
	defer src.Close()

	stored, err := h.Files.Save(src, fh.Filename, fh.Size, propertyID)
	if err != nil {
		return writeServiceError(c, err)
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	mime := fh.Header.Get("Content-Type")
	img, err := h.Images.Add(ctx, propertyID, stored, fh.Size, mime)
	if err != nil {
		// The row failed, so the file on disk is an orphan.
		h.Files.Delete(propertyID, stored)
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, img)
}

// List handles GET /api/properties/:id/images, main image first.
func (h *ImageHandler) List(c echo.Context) error {
	propertyID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid property id"})
	}
	ctx, cancel := reqContext(c)
	defer cancel()

	imgs, err := h.Images.List(ctx, propertyID)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, imgs)
}

// SetMain handles POST /api/properties/images/:imageId/set-main with the
// owning property passed as ?propertyId=.
func (h *ImageHandler) SetMain(c echo.Context) error {
	imageID, err := pathID(c, "imageId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid image id"})
	}
	propertyID, err := queryUint(c, "propertyId")
	if err != nil || propertyID == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "propertyId query parameter is required"})
	}
	if resp := h.requireOwner(c, *propertyID); resp != nil {
		return resp
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	if err := h.Images.SetMain(ctx, *propertyID, imageID); err != nil {
		return writeServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete handles DELETE /api/properties/images/:imageId.  Ownership is
// checked through the image's property.
func (h *ImageHandler) Delete(c echo.Context) error {
	imageID, err := pathID(c, "imageId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid image id"})
	}
	ctx, cancel := reqContext(c)
	defer cancel()

	img, err := h.Images.Get(ctx, imageID)
	if err != nil {
		return writeServiceError(c, err)
	}
	if resp := h.requireOwner(c, img.PropertyID); resp != nil {
		return resp
	}
	if err := h.Images.Remove(ctx, imageID); err != nil {
		return writeServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// File handles GET /api/properties/:id/images/:file and streams the image
// bytes.  The file store only resolves names it generated itself, under its
// own root, so traversal input in :file can never reach the filesystem.
func (h *ImageHandler) File(c echo.Context) error {
	propertyID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid property id"})
	}
	path := h.Files.Resolve(propertyID, c.Param("file"))
	if path == "" {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "image file not found"})
	}
	return c.File(path)
}
