package http

import (
	"log/slog"
	"net/http"
	"path"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/brand-admin/internal/domain"
	"github.com/utafrali/brand-admin/internal/service"
	"github.com/utafrali/brand-admin/pkg/httpclient"
	"github.com/utafrali/brand-admin/pkg/httputil"
	"github.com/utafrali/brand-admin/pkg/logger"
	"github.com/utafrali/brand-admin/pkg/middleware"
	"github.com/utafrali/brand-admin/pkg/pagination"
	"github.com/utafrali/brand-admin/pkg/validator"
)

// Error codes for failed submits.
const (
	CodeUploadFailed = "UPLOAD_FAILED"
	CodeCreateFailed = "CREATE_FAILED"
)

// BrandFormHandler handles HTTP requests for brand form endpoints.
type BrandFormHandler struct {
	service        *service.BrandFormService
	adminBrandPath string
	maxImageSize   int64
	maxImages      int
	logger         *slog.Logger
}

// NewBrandFormHandler creates a new brand form HTTP handler.
func NewBrandFormHandler(svc *service.BrandFormService, cfg RouterConfig, logger *slog.Logger) *BrandFormHandler {
	return &BrandFormHandler{
		service:        svc,
		adminBrandPath: cfg.AdminBrandPath,
		maxImageSize:   cfg.MaxImageSize,
		maxImages:      cfg.MaxImages,
		logger:         logger,
	}
}

// SubmitResponse is the body of a submit answer, successful or not.
type SubmitResponse struct {
	Form          domain.FormView        `json:"form"`
	State         domain.SubmissionState `json:"state"`
	Brand         *domain.Brand          `json:"brand,omitempty"`
	Redirect      string                 `json:"redirect,omitempty"`
	Notifications []domain.Notification  `json:"notifications"`
}

// Open handles POST /api/v1/admin/brand-forms
func (h *BrandFormHandler) Open(w http.ResponseWriter, r *http.Request) {
	session, err := h.service.Open(r.Context(), middleware.UserIDFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.Header().Set("Location", path.Join(r.URL.Path, session.ID))
	httputil.WriteData(w, http.StatusCreated, session.View())
}

// List handles GET /api/v1/admin/brand-forms
func (h *BrandFormHandler) List(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.service.ListOpen(r.Context(), middleware.UserIDFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	views := make([]domain.FormView, 0, len(sessions))
	for _, s := range sessions {
		views = append(views, s.View())
	}
	httputil.WriteJSON(w, http.StatusOK, pagination.Slice(views, pagination.FromRequest(r)))
}

// Get handles GET /api/v1/admin/brand-forms/{id}
func (h *BrandFormHandler) Get(w http.ResponseWriter, r *http.Request) {
	session, err := h.service.Get(r.Context(), middleware.UserIDFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, session.View())
}

// Update handles PATCH /api/v1/admin/brand-forms/{id}
func (h *BrandFormHandler) Update(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var input service.UpdateDraftInput
	if err := validator.DecodeAndValidate(r, &input); err != nil {
		httputil.WriteValidationError(w, r, err)
		return
	}

	session, err := h.service.UpdateDraft(r.Context(), middleware.UserIDFromContext(r.Context()), chi.URLParam(r, "id"), input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, session.View())
}

// Discard handles DELETE /api/v1/admin/brand-forms/{id}
func (h *BrandFormHandler) Discard(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Discard(r.Context(), middleware.UserIDFromContext(r.Context()), chi.URLParam(r, "id")); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Submit handles POST /api/v1/admin/brand-forms/{id}/submit
func (h *BrandFormHandler) Submit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx := logger.WithFormID(r.Context(), id)
	r = r.WithContext(ctx)

	images, err := readImages(w, r, h.maxImageSize, h.maxImages)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if r.MultipartForm != nil {
		defer func() { _ = r.MultipartForm.RemoveAll() }()
	}

	res, err := h.service.Submit(ctx, middleware.UserIDFromContext(ctx), id, images)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	view := res.Session.View()
	body := SubmitResponse{
		Form:          view,
		State:         view.State,
		Notifications: view.Notifications,
	}

	if res.Failure != nil {
		status, code := failureStatus(res.Failure)
		httputil.WriteFailure(w, r, status, code, failureMessage(res), body)
		return
	}

	body.Brand = res.Brand
	body.Redirect = res.Session.Redirect
	w.Header().Set("Location", path.Join(h.adminBrandPath, res.Session.Redirect))
	httputil.WriteData(w, http.StatusCreated, body)
}

// failureStatus maps a failed collaborator call to our answer. Catalog
// rejections of the payload keep their 4xx status; anything else is a bad
// gateway.
func failureStatus(f *domain.Failure) (int, string) {
	if f.Kind == domain.FailureUpload {
		return http.StatusBadGateway, CodeUploadFailed
	}
	if httpclient.IsClientError(f.Status) {
		return f.Status, CodeCreateFailed
	}
	return http.StatusBadGateway, CodeCreateFailed
}

// failureMessage is the toast description shown for the failure.
func failureMessage(res *service.SubmitResult) string {
	if n := len(res.Session.Notifications); n > 0 {
		return res.Session.Notifications[n-1].Description
	}
	if res.Failure.Message != "" {
		return res.Failure.Message
	}
	return res.Failure.Error()
}
