package exitcodes

const (
	// ================================
	// Platform-universal exit codes
	// ================================

	// ExitCodeSuccess indicates no errors or failures had occurred.
	ExitCodeSuccess = 0

	// ExitCodeGeneralError indicates some type of general error occurred.
	ExitCodeGeneralError = 1

	// ================================
	// Application-specific exit codes
	// ================================
	// Note: Despite not being standardized, exit codes 2-5 are often used for common use cases, so we avoid them.

	// ExitCodeRunError indicates that there was an error during an agent run. Note that an error with error code
	// ExitCodeGeneralError and ExitCodeRunError are mutually exclusive errors.
	ExitCodeRunError = 6

	// ExitCodeHandledError indicates an error which was already reported to the user and should not be printed
	// again at the top level.
	ExitCodeHandledError = 7
)
