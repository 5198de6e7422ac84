package reservation

import (
	"strings"
	"unicode/utf8"
)

const MaxUserIDLength = 128

// UserID is the stable LINE subject identifier of a reservation owner.
type UserID struct {
	value string
}

func NewUserID(value string) (UserID, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return UserID{}, ErrEmptyUserID
	}
	if utf8.RuneCountInString(value) > MaxUserIDLength {
		return UserID{}, ErrUserIDTooLong
	}
	return UserID{value: value}, nil
}

func (u UserID) String() string {
	return u.value
}

func (u UserID) Equals(other UserID) bool {
	return u.value == other.value
}

func (u UserID) IsZero() bool {
	return u.value == ""
}

// PickupCode is a short, case-insensitive claim code presented at the counter.
type PickupCode struct {
	value string
}

// ReconstructPickupCode skips validation for codes read back from the store.
func ReconstructPickupCode(value string) PickupCode {
	return PickupCode{value: value}
}

func (c PickupCode) String() string {
	return c.value
}
