package renewal

import (
	"time"

	"locallibrary/internal/platform/clock"
)

// Form is the renewal request body.
type Form struct {
	RenewalDate string `json:"renewal_date" validate:"required,datetime=2006-01-02"`
}

// Clean parses the form's date and runs Validate against today.
// Callers are expected to have run struct validation first.
func (f Form) Clean(today time.Time) (time.Time, error) {
	d, err := clock.ParseDate(f.RenewalDate)
	if err != nil {
		return time.Time{}, err
	}
	return Validate(d, today)
}
