package errmsg

import "errors"

// Error kinds. Every failure reported to a command caller wraps exactly one.
var (
	ErrValidation  = errors.New("validation error")
	ErrNotFound    = errors.New("not found")
	ErrUnsupported = errors.New("unsupported command")
	ErrDelegation  = errors.New("delegation error")
)

// Failure reason strings returned to callers.
const (
	ReasonNoValue         = "no value was passed"
	ReasonNoPlaylist      = "No playlist"
	ReasonInvalid         = "invalid"
	ReasonInvalidIndex    = "invalid index"
	ReasonIndexNotFound   = "couldn't find index"
	ReasonInvalidVolume   = "invalid volume"
	ReasonUnknownCommand  = "unknown command"
	ReasonNotSupported    = "command not supported"
	ReasonRemoteFailed    = "cannot request avrcp_control"
	ReasonInvalidPlaylist = "invalid playlist"
	ReasonInvalidEvent    = "Invalid event"
)

// Failure is a command failure with a named reason.
// Error returns only the reason so it can be reported verbatim.
type Failure struct {
	Kind   error
	Reason string
	Err    error // underlying cause, may be nil
}

func (f *Failure) Error() string {
	return f.Reason
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (f *Failure) Unwrap() []error {
	if f.Err == nil {
		return []error{f.Kind}
	}
	return []error{f.Kind, f.Err}
}

// Validation returns a validation failure with the given reason.
func Validation(reason string) error {
	return &Failure{Kind: ErrValidation, Reason: reason}
}

// NotFound returns a not-found failure with the given reason.
func NotFound(reason string) error {
	return &Failure{Kind: ErrNotFound, Reason: reason}
}

// Unsupported returns an unsupported-command failure with the given reason.
func Unsupported(reason string) error {
	return &Failure{Kind: ErrUnsupported, Reason: reason}
}

// Delegation returns a delegation failure wrapping the remote error.
func Delegation(err error) error {
	return &Failure{Kind: ErrDelegation, Reason: ReasonRemoteFailed, Err: err}
}

// Reason returns the reason string for err. Errors that are not a Failure
// are reported with their message.
func Reason(err error) string {
	if err == nil {
		return ""
	}
	var f *Failure
	if errors.As(err, &f) {
		return f.Reason
	}
	return err.Error()
}
