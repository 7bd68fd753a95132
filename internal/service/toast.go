package service

import (
	"net/http"

	"golang.org/x/text/language"

	"github.com/utafrali/brand-admin/internal/domain"
	"github.com/utafrali/brand-admin/internal/i18n"
)

// uploadToast explains a failed upload. A 500 from the media service usually
// means no file service is configured, so the hint is added then.
func uploadToast(tag language.Tag, f *domain.Failure) domain.Notification {
	desc := i18n.Text(tag, i18n.KeyUploadFailed)
	if f.Status == http.StatusInternalServerError {
		desc += " " + i18n.Text(tag, i18n.KeyNoFileService)
	}
	return domain.Notification{Title: i18n.Text(tag, i18n.KeyErrorTitle), Description: desc}
}

// createToast shows the catalog's own explanation when it sent one.
func createToast(tag language.Tag, f *domain.Failure) domain.Notification {
	desc := f.Message
	if desc == "" {
		desc = i18n.Text(tag, i18n.KeyCreateFailed)
	}
	return domain.Notification{Title: i18n.Text(tag, i18n.KeyErrorTitle), Description: desc}
}
