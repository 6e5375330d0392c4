package mutation

import "fmt"

// ValidationError is returned when a mutation's input is rejected. No remote
// call was made.
type ValidationError struct {
	Op  Op
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: invalid input: %v", e.Op, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// RemoteError is returned when the remote call of a mutation failed. Nothing
// was invalidated and the call is not retried.
type RemoteError struct {
	Op  Op
	Err error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: remote call failed: %v", e.Op, e.Err)
}

func (e *RemoteError) Unwrap() error { return e.Err }
