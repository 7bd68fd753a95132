// Package i18n holds the user-facing strings of the brand form and resolves
// the language a request should be answered in.
package i18n

import (
	"context"
	"net/http"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys.
const (
	KeyErrorTitle        = "brand.error.title"
	KeyUploadFailed      = "brand.upload.failed"
	KeyNoFileService     = "brand.upload.no_file_service"
	KeyCreateFailed      = "brand.create.failed"
	KeyFormBusy          = "brand.form.busy"
	KeyFormAlreadyClosed = "brand.form.closed"
)

// LangParam is the query parameter that overrides Accept-Language.
const LangParam = "lang"

var supported = []language.Tag{language.English, language.Turkish}

var (
	matcher = language.NewMatcher(supported)
	builder = catalog.NewBuilder(catalog.Fallback(language.English))
)

func init() {
	set(language.English, map[string]string{
		KeyErrorTitle:        "Error",
		KeyUploadFailed:      "Something went wrong while trying to upload images.",
		KeyNoFileService:     "You might not have a file service configured. Please contact your administrator",
		KeyCreateFailed:      "Something went wrong, Please try again.",
		KeyFormBusy:          "This brand is already being saved.",
		KeyFormAlreadyClosed: "This brand has already been created.",
	})
	set(language.Turkish, map[string]string{
		KeyErrorTitle:        "Hata",
		KeyUploadFailed:      "Görseller yüklenirken bir şeyler ters gitti.",
		KeyNoFileService:     "Bir dosya servisi yapılandırılmamış olabilir. Lütfen yöneticinize başvurun",
		KeyCreateFailed:      "Bir şeyler ters gitti, lütfen tekrar deneyin.",
		KeyFormBusy:          "Bu marka şu anda kaydediliyor.",
		KeyFormAlreadyClosed: "Bu marka zaten oluşturuldu.",
	})
}

func set(tag language.Tag, messages map[string]string) {
	for key, msg := range messages {
		// Strings contain no format verbs; SetString cannot fail for them.
		_ = builder.SetString(tag, key, msg)
	}
}

// Default is the language used when nothing better matches.
func Default() language.Tag { return language.English }

// Supported lists the languages with a full message set.
func Supported() []language.Tag {
	out := make([]language.Tag, len(supported))
	copy(out, supported)
	return out
}

// Match picks the closest supported language for the given preferences,
// each either a BCP 47 tag or an Accept-Language header value.
func Match(prefs ...string) language.Tag {
	tags := make([]language.Tag, 0, len(prefs))
	for _, p := range prefs {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		parsed, _, err := language.ParseAcceptLanguage(p)
		if err != nil {
			continue
		}
		tags = append(tags, parsed...)
	}
	if len(tags) == 0 {
		return Default()
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return Default()
	}
	return supported[idx]
}

// Printer returns a printer bound to the package catalog.
func Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag, message.Catalog(builder))
}

// Text renders key in the given language.
func Text(tag language.Tag, key string) string {
	return Printer(tag).Sprintf(key)
}

type ctxKey struct{}

// WithLanguage stores the resolved language in ctx.
func WithLanguage(ctx context.Context, tag language.Tag) context.Context {
	return context.WithValue(ctx, ctxKey{}, tag)
}

// LanguageFromContext returns the language stored in ctx, or Default.
func LanguageFromContext(ctx context.Context) language.Tag {
	if tag, ok := ctx.Value(ctxKey{}).(language.Tag); ok {
		return tag
	}
	return Default()
}

// ResolveTag picks the response language: ?lang first, then Accept-Language.
func ResolveTag(r *http.Request) language.Tag {
	if lang := strings.TrimSpace(r.URL.Query().Get(LangParam)); lang != "" {
		if tag, err := language.Parse(lang); err == nil {
			if _, idx, conf := matcher.Match(tag); conf != language.No {
				return supported[idx]
			}
		}
	}
	return Match(r.Header.Get("Accept-Language"))
}

// Middleware resolves the request language and stores it in the context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tag := ResolveTag(r)
		w.Header().Set("Content-Language", tag.String())
		next.ServeHTTP(w, r.WithContext(WithLanguage(r.Context(), tag)))
	})
}
