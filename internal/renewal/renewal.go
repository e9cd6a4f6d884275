// Package renewal validates a librarian's proposed new due date for a loan.
package renewal

import (
	"errors"
	"fmt"
	"time"

	"locallibrary/internal/platform/clock"
)

// MaxExtensionDays bounds how far past today a loan may be renewed.
const MaxExtensionDays = 28

// DefaultExtensionDays is the renewal date offered before the librarian edits it.
const DefaultExtensionDays = 21

// ErrInvalidRenewalDate is wrapped by every renewal validation failure.
var ErrInvalidRenewalDate = errors.New("invalid renewal date")

// PastDateError reports a renewal date earlier than today.
type PastDateError struct {
	RenewalDate time.Time
	Today       time.Time
}

func (e *PastDateError) Error() string { return e.Message() }

// Message is the text shown to the user.
func (e *PastDateError) Message() string {
	return "Invalid date - renewal in past"
}

func (e *PastDateError) Unwrap() error { return ErrInvalidRenewalDate }

// TooFarInFutureError reports a renewal date beyond the allowed window.
type TooFarInFutureError struct {
	RenewalDate time.Time
	Latest      time.Time
}

func (e *TooFarInFutureError) Error() string { return e.Message() }

func (e *TooFarInFutureError) Message() string {
	return fmt.Sprintf("Invalid date - renewal more than 4 weeks ahead (latest %s)", e.Latest.Format(clock.DateLayout))
}

func (e *TooFarInFutureError) Unwrap() error { return ErrInvalidRenewalDate }

// Validate returns renewalDate unchanged when today <= renewalDate <= today+28d.
// Both arguments are compared as calendar dates.
func Validate(renewalDate, today time.Time) (time.Time, error) {
	d := clock.Date(renewalDate)
	t := clock.Date(today)

	if d.Before(t) {
		return time.Time{}, &PastDateError{RenewalDate: d, Today: t}
	}
	latest := clock.AddDays(t, MaxExtensionDays)
	if d.After(latest) {
		return time.Time{}, &TooFarInFutureError{RenewalDate: d, Latest: latest}
	}
	return renewalDate, nil
}

// DefaultProposal is the pre-filled renewal date: three weeks from today.
func DefaultProposal(today time.Time) time.Time {
	return clock.AddDays(today, DefaultExtensionDays)
}
