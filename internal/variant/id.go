package variant

import (
	"errors"
	"strconv"
	"strings"
	"sync/atomic"
)

// ErrInvalidID is returned when an identifier does not have the <template>::<seq> shape.
var ErrInvalidID = errors.New("invalid unit identifier format")

const idSeparator = "::"

// unitSeq is shared by every factory in the process so identifiers stay unique
// even when several factories build the same template.
var unitSeq atomic.Uint64

// ID identifies a constructed unit. IDs are opaque to callers and never reused
// within the lifetime of the process.
type ID string

// String returns the identifier as a string.
func (id ID) String() string {
	return string(id)
}

func nextID(template string) ID {
	n := unitSeq.Add(1)
	return ID(template + idSeparator + strconv.FormatUint(n, 10))
}

// ParseID splits an identifier into the template name and sequence number.
// Format: {template}::{seq}
func ParseID(id ID) (string, uint64, error) {
	s := string(id)
	i := strings.LastIndex(s, idSeparator)
	if i <= 0 {
		return "", 0, ErrInvalidID
	}

	seq, err := strconv.ParseUint(s[i+len(idSeparator):], 10, 64)
	if err != nil || seq == 0 {
		return "", 0, ErrInvalidID
	}

	return s[:i], seq, nil
}
