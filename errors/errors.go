package errors

import "fmt"

var (
	// ErrJoinInProgress is returned by Controller.JoinChannel when a
	// previous selection is still pending handover. Re-selecting mid-join
	// is a caller contract violation; it is surfaced as an error instead
	// of a panic so the embedding application can log and recover.
	ErrJoinInProgress = fmt.Errorf("discovery: join already in progress")

	// ErrDecodeFailed names a malformed discovery wire message. The
	// controller does not return it: it logs its text when it drops such a
	// message and continues; the message is never retried.
	ErrDecodeFailed = fmt.Errorf("discovery: failed to decode message")
)
