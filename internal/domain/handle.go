package domain

import (
	"fmt"
	"strings"

	"github.com/utafrali/brand-admin/pkg/slug"
)

// HandleFunc derives a handle from a brand title.
type HandleFunc func(title string) string

// LegacyHandle lower-cases the title and replaces only its first space with a
// hyphen: "Acme Co Ltd" becomes "acme-co ltd".
func LegacyHandle(title string) string {
	return strings.Replace(strings.ToLower(title), " ", "-", 1)
}

// SlugHandle derives a URL-safe handle: "Acme Co Ltd" becomes "acme-co-ltd".
func SlugHandle(title string) string {
	return slug.Generate(title)
}

// HandleDeriver returns the HandleFunc for a configured strategy name.
func HandleDeriver(strategy string) (HandleFunc, error) {
	switch strategy {
	case "", "slug":
		return SlugHandle, nil
	case "legacy":
		return LegacyHandle, nil
	default:
		return nil, fmt.Errorf("unknown handle strategy %q", strategy)
	}
}

// ResolveHandle returns the draft's handle, or one derived from the title
// when the handle is missing or blank.
func ResolveHandle(draft BrandDraft, derive HandleFunc) string {
	if draft.Handle != nil && strings.TrimSpace(*draft.Handle) != "" {
		return *draft.Handle
	}
	if derive == nil {
		derive = SlugHandle
	}
	return derive(draft.Title)
}
