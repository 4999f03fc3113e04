package exitcodes

// ErrorWithExitCode wraps an error with the process exit code the application should terminate with when the error
// reaches the top level.
type ErrorWithExitCode struct {
	// Inner is the underlying error being wrapped.
	Inner error

	// ExitCode is the process exit code associated with the error.
	ExitCode int
}

// NewErrorWithExitCode wraps the provided error with the provided exit code.
func NewErrorWithExitCode(err error, exitCode int) *ErrorWithExitCode {
	return &ErrorWithExitCode{Inner: err, ExitCode: exitCode}
}

// Error implements the error interface by reporting the underlying error's message.
func (e *ErrorWithExitCode) Error() string {
	if e.Inner == nil {
		return ""
	}
	return e.Inner.Error()
}

// Unwrap exposes the underlying error to errors.Is and errors.As.
func (e *ErrorWithExitCode) Unwrap() error {
	return e.Inner
}

// GetInnerErrorAndExitCode resolves an error bubbled to the top level into the error to report and the exit code to
// terminate with: a nil error maps to success, an ErrorWithExitCode carries its own code, and anything else maps to
// the general error code.
func GetInnerErrorAndExitCode(err error) (error, int) {
	if err == nil {
		return nil, ExitCodeSuccess
	}
	if wrapped, ok := err.(*ErrorWithExitCode); ok {
		return wrapped.Inner, wrapped.ExitCode
	}
	return err, ExitCodeGeneralError
}
