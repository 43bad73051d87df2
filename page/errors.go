package page

import "errors"

// These are precondition violations local to the page layer: a caller
// asked for a slot that doesn't exist, tried to write more than the page
// has room for, or tried to mutate a page opened Readonly. They are plain
// errors, not slotheap.Error, because they describe caller misuse rather
// than a taxonomy of conditions a higher layer needs to branch on.
var (
	ErrSlotOutOfRange   = errors.New("page: slot index out of range")
	ErrInsufficientSpace = errors.New("page: insufficient space for value")
	ErrReadOnly         = errors.New("page: page is readonly")
)
