package domain

import (
	"errors"
	"time"
)

// ErrNotEditable is returned when the draft is changed while a submit is
// running or after the brand was created.
var ErrNotEditable = errors.New("brand form is not editable")

// FormSession is a brand creation form held on the server between requests.
type FormSession struct {
	ID            string          `json:"id"`
	OwnerID       string          `json:"owner_id"`
	State         SubmissionState `json:"state"`
	General       BrandDraft      `json:"general"`
	Notifications []Notification  `json:"notifications"`
	BrandID       string          `json:"brand_id,omitempty"`
	Redirect      string          `json:"redirect,omitempty"`
	Attempts      int             `json:"attempts"`
	Version       int             `json:"version"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// NewFormSession opens a blank form owned by ownerID.
func NewFormSession(id, ownerID string, now time.Time) *FormSession {
	general, _ := NewBlankDraft()
	return &FormSession{
		ID:            id,
		OwnerID:       ownerID,
		State:         StateIdle,
		General:       general,
		Notifications: []Notification{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Transition moves the session to next.
func (s *FormSession) Transition(next SubmissionState, now time.Time) error {
	if err := s.State.Validate(next); err != nil {
		return err
	}
	if next == StateSubmitting {
		s.Attempts++
		s.Notifications = []Notification{}
	}
	s.State = next
	s.UpdatedAt = now
	return nil
}

// Notify attaches a toast to the session.
func (s *FormSession) Notify(n Notification) {
	s.Notifications = append(s.Notifications, n)
}

// UpdateDraft changes the general fields. Nil arguments are left as they are.
func (s *FormSession) UpdateDraft(title, handle *string, now time.Time) error {
	if !s.State.CanEdit() {
		return ErrNotEditable
	}
	if title != nil {
		s.General.Title = *title
	}
	if handle != nil {
		h := *handle
		s.General.Handle = &h
	}
	s.UpdatedAt = now
	return nil
}

// Complete records the created brand.
func (s *FormSession) Complete(brandID string, now time.Time) error {
	if err := s.Transition(StateSucceeded, now); err != nil {
		return err
	}
	s.BrandID = brandID
	return nil
}

// FormView is the read-only projection handed to the view layer.
type FormView struct {
	ID            string          `json:"id"`
	State         SubmissionState `json:"state"`
	Submitting    bool            `json:"submitting"`
	Editable      bool            `json:"editable"`
	General       BrandDraft      `json:"general"`
	Notifications []Notification  `json:"notifications"`
	BrandID       string          `json:"brand_id,omitempty"`
	Redirect      string          `json:"redirect,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// View returns the projection of s.
func (s *FormSession) View() FormView {
	notifications := make([]Notification, len(s.Notifications))
	copy(notifications, s.Notifications)
	return FormView{
		ID:            s.ID,
		State:         s.State,
		Submitting:    s.State.IsInFlight(),
		Editable:      s.State.CanEdit(),
		General:       s.General,
		Notifications: notifications,
		BrandID:       s.BrandID,
		Redirect:      s.Redirect,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}
