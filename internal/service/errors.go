package service

import "errors"

// Sentinel errors shared by all services. Handlers translate these into the
// matching HTTP status; anything else maps to 400.
var (
	ErrNotFound  = errors.New("resource not found")
	ErrConflict  = errors.New("conflict with current state")
	ErrForbidden = errors.New("operation not allowed")
)

func notFound(msg string) error  { return wrap(ErrNotFound, msg) }
func conflict(msg string) error  { return wrap(ErrConflict, msg) }
func forbidden(msg string) error { return wrap(ErrForbidden, msg) }

type wrapped struct {
	sentinel error
	msg      string
}

func wrap(sentinel error, msg string) error { return &wrapped{sentinel: sentinel, msg: msg} }

func (w *wrapped) Error() string { return w.msg }
func (w *wrapped) Unwrap() error { return w.sentinel }
