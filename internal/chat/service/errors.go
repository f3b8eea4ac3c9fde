package service

import "errors"

// Error taxonomy of the messaging core. InvalidInput and NotParticipant are
// rejected synchronously with no side effects. ChannelUnavailable is never
// user-visible: it tells the caller to take the REST path. StoreUnavailable
// is always surfaced, since silently losing a message is unacceptable.
var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrNotParticipant   = errors.New("user is not a participant of this conversation")
	ErrStoreUnavailable = errors.New("message store unavailable")
)
