package domain

// Notification is a toast shown to the user.
type Notification struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}
