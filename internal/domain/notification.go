package domain

import "time"

type NotificationKind string

const (
	NotificationSuccess NotificationKind = "success"
	NotificationError   NotificationKind = "error"
)

// Notification is a user-facing message emitted by a screen after an action.
type Notification struct {
	ID        string           `json:"id"`
	Kind      NotificationKind `json:"kind"`
	Message   string           `json:"message"`
	Screen    string           `json:"screen,omitempty"`
	CreatedOn time.Time        `json:"created_on"`
}
