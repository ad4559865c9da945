package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/anonto42/shared-places/backend/internal/apperr"
	"github.com/anonto42/shared-places/backend/pkg/storage"
	"github.com/gabriel-vasile/mimetype"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// MaxImageSize is the largest accepted image upload in bytes.
const MaxImageSize = 500000

// saveImage stores the multipart "image" field. It returns "" when the field
// is absent and required is false.
func saveImage(c echo.Context, images storage.ImageStore, required bool) (string, error) {
	fh, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) && !required {
			return "", nil
		}
		return "", apperr.Wrap(apperr.Validation, "An image is required.", err)
	}
	if fh.Size > MaxImageSize {
		return "", apperr.New(apperr.Validation, "Image is too large.")
	}

	src, err := fh.Open()
	if err != nil {
		return "", apperr.Wrap(apperr.BadRequest, "Could not read the uploaded image.", err)
	}
	defer src.Close()

	// the declared part Content-Type is ignored, only the content counts
	mtype, err := mimetype.DetectReader(src)
	if err != nil {
		return "", apperr.Wrap(apperr.BadRequest, "Could not read the uploaded image.", err)
	}
	if _, err := storage.ExtensionFor(mtype.String()); err != nil {
		return "", apperr.Wrap(apperr.Validation, "Invalid mime type!", err)
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", apperr.Wrap(apperr.BadRequest, "Could not read the uploaded image.", err)
	}

	ref, err := images.Save(c.Request().Context(), mtype.String(), src)
	if err != nil {
		return "", apperr.Wrap(apperr.Internal, "Could not store the uploaded image.", err)
	}
	return ref, nil
}

// discardImage removes an uploaded image after the request that stored it
// failed. Errors are logged only.
func discardImage(c echo.Context, images storage.ImageStore, logger *zap.Logger, ref string) {
	if ref == "" {
		return
	}
	if err := images.Remove(c.Request().Context(), ref); err != nil {
		logger.Warn("failed to remove uploaded image", zap.String("image", ref), zap.Error(err))
	}
}
