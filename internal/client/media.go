package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/utafrali/brand-admin/internal/domain"
	"github.com/utafrali/brand-admin/pkg/httpclient"
)

// MediaService is the service name used in errors and breaker metrics.
const MediaService = "media"

// MediaClient uploads brand images to the media service. Each image is sent
// as its own multipart request with the form session as owner.
type MediaClient struct {
	doer      httpclient.Doer
	uploadURL string
	ownerType string
	logger    *slog.Logger
}

// NewMediaClient creates a media service client.
func NewMediaClient(doer httpclient.Doer, uploadURL, ownerType string, logger *slog.Logger) *MediaClient {
	return &MediaClient{
		doer:      doer,
		uploadURL: uploadURL,
		ownerType: ownerType,
		logger:    logger,
	}
}

type mediaResponse struct {
	Data struct {
		ID  string `json:"id"`
		URL string `json:"url"`
	} `json:"data"`
}

// Upload stores every image and returns their URLs in input order. It stops
// at the first failed image and returns a *domain.Failure of kind upload.
func (c *MediaClient) Upload(ctx context.Context, ownerID string, images []domain.LocalImage) ([]string, error) {
	urls := make([]string, 0, len(images))
	for i, img := range images {
		url, err := c.uploadOne(ctx, ownerID, i, img)
		if err != nil {
			c.logger.WarnContext(ctx, "image upload failed",
				slog.String("file", img.Name),
				slog.Int("index", i),
				slog.String("error", err.Error()),
			)
			return nil, err
		}
		urls = append(urls, url)
	}

	if len(urls) != len(images) {
		return nil, protocolFailure(domain.FailureUpload,
			"media returned %d urls for %d images", len(urls), len(images))
	}
	return urls, nil
}

func (c *MediaClient) uploadOne(ctx context.Context, ownerID string, index int, img domain.LocalImage) (string, error) {
	body, contentType, err := c.encode(ownerID, index, img)
	if err != nil {
		return "", failureFrom(domain.FailureUpload, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uploadURL, body)
	if err != nil {
		return "", failureFrom(domain.FailureUpload, fmt.Errorf("create upload request: %w", err))
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := c.doer.Do(ctx, req)
	if err != nil {
		return "", failureFrom(domain.FailureUpload, err)
	}
	if err := checkResponse(domain.FailureUpload, resp, MediaService); err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var out mediaResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", protocolFailure(domain.FailureUpload, "decode media response: %w", err)
	}
	if out.Data.URL == "" {
		return "", protocolFailure(domain.FailureUpload, "media response for %q has no url", img.Name)
	}
	return out.Data.URL, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func (c *MediaClient) encode(ownerID string, index int, img domain.LocalImage) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="file"; filename="%s"`, quoteEscaper.Replace(img.Name)))
	contentType := img.ContentType
	if contentType == "" {
		contentType = http.DetectContentType(img.Data)
	}
	h.Set("Content-Type", contentType)

	part, err := mw.CreatePart(h)
	if err != nil {
		return nil, "", fmt.Errorf("create file part: %w", err)
	}
	if _, err := part.Write(img.Data); err != nil {
		return nil, "", fmt.Errorf("write file part: %w", err)
	}

	fields := map[string]string{
		"owner_id":   ownerID,
		"owner_type": c.ownerType,
		"alt_text":   img.Name,
		"sort_order": fmt.Sprint(index),
	}
	for name, value := range fields {
		if err := mw.WriteField(name, value); err != nil {
			return nil, "", fmt.Errorf("write %s field: %w", name, err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart body: %w", err)
	}
	return &buf, mw.FormDataContentType(), nil
}
