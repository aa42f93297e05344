package services

import "errors"

var (
	ErrLessonNotFound   = errors.New("lesson not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrCustomerNotFound = errors.New("customer not found")
	ErrInvoiceNotFound  = errors.New("invoice not found")

	// ErrDuplicateInvoiceNumber is returned when a manually supplied
	// invoice number already exists for the workspace.
	ErrDuplicateInvoiceNumber = errors.New("invoice number already exists")

	// ErrInvoiceNotDraft guards edits and deletion of issued invoices.
	ErrInvoiceNotDraft = errors.New("invoice can only be modified while in draft status")

	// ErrLessonAlreadyInvoiced guards against billing a lesson twice.
	ErrLessonAlreadyInvoiced = errors.New("lesson has already been invoiced")
)

// PolicyError reports a cancellation-policy violation. The lesson is left
// untouched when one is returned.
type PolicyError struct {
	Reason string
}

func (e *PolicyError) Error() string {
	return e.Reason
}

// IsPolicyError reports whether err is a cancellation-policy violation.
func IsPolicyError(err error) bool {
	var pe *PolicyError
	return errors.As(err, &pe)
}
