package domain

// Brand is the entity returned by the catalog service once a brand is created.
type Brand struct {
	ID        string   `json:"id"`
	Title     string   `json:"title,omitempty"`
	Handle    string   `json:"handle,omitempty"`
	Thumbnail string   `json:"thumbnail,omitempty"`
	Images    []string `json:"images,omitempty"`
}

// BrandDraft holds the general fields of a brand being edited.
// A nil Handle means the user never entered one.
type BrandDraft struct {
	Title  string  `json:"title"`
	Handle *string `json:"handle"`
}

// LocalImage is an image the user picked but has not uploaded yet.
type LocalImage struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	Data        []byte `json:"-"`
}

// ThumbnailDraft holds the images selected for the brand thumbnail.
type ThumbnailDraft struct {
	Images []LocalImage `json:"images"`
}

// NewBlankDraft returns the values a freshly opened form starts with.
func NewBlankDraft() (BrandDraft, ThumbnailDraft) {
	return BrandDraft{Title: "", Handle: nil}, ThumbnailDraft{Images: []LocalImage{}}
}

// CreatePayload is the body sent to the catalog create endpoint.
type CreatePayload struct {
	Title     string   `json:"title"`
	Handle    string   `json:"handle"`
	Images    []string `json:"images,omitempty"`
	Thumbnail string   `json:"thumbnail,omitempty"`
}

// BuildPayload turns a draft into a create payload. The handle is taken
// verbatim when set, otherwise derived from the title.
func BuildPayload(draft BrandDraft, derive HandleFunc) CreatePayload {
	return CreatePayload{
		Title:  draft.Title,
		Handle: ResolveHandle(draft, derive),
	}
}

// AttachImages sets every uploaded URL as an image and the first one as the
// thumbnail. An empty list leaves the payload untouched.
func (p *CreatePayload) AttachImages(urls []string) {
	if len(urls) == 0 {
		return
	}
	p.Images = append([]string(nil), urls...)
	p.Thumbnail = urls[0]
}
