package booth

import "errors"

var (
	ErrLockContended     = errors.New("advance lock is held by another instance")
	ErrLeaseLost         = errors.New("advance lease no longer held")
	ErrAlreadyInWaitlist = errors.New("user is already in the waitlist")
	ErrNotInWaitlist     = errors.New("user is not in the waitlist")
	ErrWaitlistEmpty     = errors.New("waitlist is empty")
	ErrStateNotFound     = errors.New("booth state not found")
)
