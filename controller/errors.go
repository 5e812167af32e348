package controller

import "errors"

// Sentinel errors for send dispatch.
var (
	// ErrSendInFlight is returned when a send is attempted while a prior
	// send's reply is still outstanding. Sends within one controller are
	// strictly serialized by this guard.
	ErrSendInFlight = errors.New("a send is already in flight")

	// ErrEmptyTurn is returned when a turn carries neither text nor an
	// image.
	ErrEmptyTurn = errors.New("turn carries neither text nor an image")

	// ErrSuperseded is returned when an exchange completed after the
	// controller was reset or closed; the late reply was discarded
	// without touching the live state.
	ErrSuperseded = errors.New("send superseded by reset")
)
