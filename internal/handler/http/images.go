package http

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/utafrali/brand-admin/internal/domain"
	apperrors "github.com/utafrali/brand-admin/pkg/errors"
)

// imagesField is the multipart field the admin UI sends thumbnails in.
const imagesField = "images"

// maxMemory is how much of a multipart body is held in memory before
// spilling to temporary files.
const maxMemory = 32 << 20

// readImages collects the thumbnail images of a submit request. A request
// without a multipart body carries no images.
func readImages(w http.ResponseWriter, r *http.Request, maxSize int64, maxImages int) ([]domain.LocalImage, error) {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "multipart/form-data" {
		return nil, nil
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxSize*int64(maxImages)+1<<20)
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, apperrors.InvalidInput("request body is too large")
		}
		return nil, apperrors.InvalidInput("invalid multipart form: " + err.Error())
	}

	headers := r.MultipartForm.File[imagesField]
	if len(headers) > maxImages {
		return nil, apperrors.InvalidInput(fmt.Sprintf("at most %d images may be uploaded", maxImages))
	}

	images := make([]domain.LocalImage, 0, len(headers))
	for _, fh := range headers {
		img, err := readImage(fh, maxSize)
		if err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, nil
}

func readImage(fh *multipart.FileHeader, maxSize int64) (domain.LocalImage, error) {
	if fh.Size > maxSize {
		return domain.LocalImage{}, apperrors.InvalidInput(
			fmt.Sprintf("image %q exceeds the maximum size of %d bytes", fh.Filename, maxSize))
	}

	f, err := fh.Open()
	if err != nil {
		return domain.LocalImage{}, fmt.Errorf("open image %q: %w", fh.Filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return domain.LocalImage{}, fmt.Errorf("read image %q: %w", fh.Filename, err)
	}

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	if !strings.HasPrefix(contentType, "image/") {
		return domain.LocalImage{}, apperrors.InvalidInput(
			fmt.Sprintf("file %q is not an image (%s)", fh.Filename, contentType))
	}

	return domain.LocalImage{
		Name:        fh.Filename,
		ContentType: contentType,
		Size:        int64(len(data)),
		Data:        data,
	}, nil
}
