package domain

import (
	"encoding/base32"
	"strings"

	"github.com/google/uuid"
)

// Booking ids are "BMS" followed by the Crockford base32 form of a UUIDv7:
// a 48-bit millisecond timestamp, a per-process monotonic sequence and random
// bits. They sort by creation time and avoid the letters I, L, O and U.
const (
	BookingIDPrefix = "BMS"
	BookingIDLength = len(BookingIDPrefix) + 26
)

var crockford = base32.NewEncoding("0123456789ABCDEFGHJKMNPQRSTVWXYZ").WithPadding(base32.NoPadding)

func NewBookingID() (string, error) {
	u, err := uuid.NewV7()
	if err != nil {
		return "", err
	}

	return BookingIDPrefix + crockford.EncodeToString(u[:]), nil
}

func IsBookingID(s string) bool {
	if len(s) != BookingIDLength || !strings.HasPrefix(s, BookingIDPrefix) {
		return false
	}

	b, err := crockford.DecodeString(s[len(BookingIDPrefix):])
	if err != nil || len(b) != 16 {
		return false
	}

	return uuid.UUID(b).Version() == 7
}
