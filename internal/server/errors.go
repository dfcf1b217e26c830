package server

import (
	"errors"
	"net/http"
)

type errorKind int

const (
	kindNotFound errorKind = iota + 1
	kindUnauthorized
	kindInvalidState
	kindInvalidInput
)

type gameError struct {
	kind errorKind
	msg  string
}

func (e *gameError) Error() string {
	return e.msg
}

func (e *gameError) Is(target error) bool {
	t, ok := target.(*gameError)
	return ok && t.kind == e.kind
}

var (
	ErrNotFound     = &gameError{kind: kindNotFound, msg: "not found"}
	ErrUnauthorized = &gameError{kind: kindUnauthorized, msg: "host verification failed"}
	ErrInvalidState = &gameError{kind: kindInvalidState, msg: "invalid state"}
	ErrInvalidInput = &gameError{kind: kindInvalidInput, msg: "invalid input"}
)

var (
	errGameNotFound     = notFound("game not found")
	errPlayerNotFound   = notFound("player not found")
	errQuestionNotFound = notFound("no active question")
	errHostMismatch     = &gameError{kind: kindUnauthorized, msg: "host verification failed"}
	errNotActive        = invalidState("game is not active")
	errNotSetup         = invalidState("questions can only change during setup")
	errNoQuestions      = invalidState("add questions before starting")
	errAlreadyFinished  = invalidState("game already finished")
)

func notFound(msg string) error {
	return &gameError{kind: kindNotFound, msg: msg}
}

func invalidState(msg string) error {
	return &gameError{kind: kindInvalidState, msg: msg}
}

func invalidInput(msg string) error {
	return &gameError{kind: kindInvalidInput, msg: msg}
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
