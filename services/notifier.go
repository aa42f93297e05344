// services/notifier.go
package services

import "github.com/google/uuid"

// Notification is an outbound message requested by the core logic.
type Notification struct {
	WorkspaceID uuid.UUID
	LessonID    *uuid.UUID
	To          string
	Subject     string
	HTMLBody    string
}

// Notifier delivers notifications best-effort. Implementations log their
// own failures; callers never fail a business operation on a send error.
type Notifier interface {
	Send(n Notification) error
}
