// Package services defines the business logic of the chatbot engine: the
// reply pipeline, response enhancement, conversation logging, and the daily
// analytics rollup. This file centralizes common service-level error values
// so that they can be consistently returned by service methods and checked
// by callers.
//
// These errors are intended for internal use by the service layer;
// translation into user-facing messages or HTTP status codes is performed
// at the handler layer.
package services

import "errors"

var (
	// ErrChatbotNotFound indicates that the presented API key or chatbot ID
	// does not resolve to a known profile.
	ErrChatbotNotFound = errors.New("chatbot not found")

	// ErrEmptyMessage is returned when an inbound chat request carries an
	// empty utterance.
	ErrEmptyMessage = errors.New("message is empty")

	// ErrTooLong is returned when an inbound utterance exceeds the maximum
	// configured length limit.
	ErrTooLong = errors.New("message too long")

	// ErrTurnNotFound indicates that the referenced conversation turn does
	// not exist.
	ErrTurnNotFound = errors.New("conversation turn not found")

	// ErrInvalidConversion is returned when a conversion event carries a
	// negative value.
	ErrInvalidConversion = errors.New("conversion value must be >= 0")
)
