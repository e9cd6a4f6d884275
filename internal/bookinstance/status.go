package bookinstance

import (
	"database/sql/driver"
	"errors"
	"fmt"
)

// ErrInvalidStatus is returned for any loan status outside the four known values.
var ErrInvalidStatus = errors.New("invalid loan status")

// Status is the availability of a physical copy. The zero value is not a
// valid status; every copy must be given one explicitly.
type Status uint8

const (
	StatusMaintenance Status = iota + 1
	StatusOnLoan
	StatusAvailable
	StatusReserved
)

var statusCodes = map[Status]string{
	StatusMaintenance: "maintenance",
	StatusOnLoan:      "on_loan",
	StatusAvailable:   "available",
	StatusReserved:    "reserved",
}

var statusLabels = map[Status]string{
	StatusMaintenance: "Maintenance",
	StatusOnLoan:      "On loan",
	StatusAvailable:   "Available",
	StatusReserved:    "Reserved",
}

// Statuses lists every valid status in declaration order.
func Statuses() []Status {
	return []Status{StatusMaintenance, StatusOnLoan, StatusAvailable, StatusReserved}
}

// ParseStatus maps a wire code such as "on_loan" to a Status.
func ParseStatus(code string) (Status, error) {
	for s, c := range statusCodes {
		if c == code {
			return s, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidStatus, code)
}

func (s Status) Valid() bool {
	_, ok := statusCodes[s]
	return ok
}

// String returns the wire code.
func (s Status) String() string {
	if c, ok := statusCodes[s]; ok {
		return c
	}
	return fmt.Sprintf("Status(%d)", uint8(s))
}

// Label returns the human readable name.
func (s Status) Label() string {
	return statusLabels[s]
}

func (s Status) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidStatus, uint8(s))
	}
	return []byte(statusCodes[s]), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Value stores the wire code in the status column.
func (s Status) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidStatus, uint8(s))
	}
	return statusCodes[s], nil
}

// Scan rejects unknown codes coming back from the database.
func (s *Status) Scan(src any) error {
	switch v := src.(type) {
	case string:
		return s.UnmarshalText([]byte(v))
	case []byte:
		return s.UnmarshalText(v)
	default:
		return fmt.Errorf("%w: unsupported type %T", ErrInvalidStatus, src)
	}
}
