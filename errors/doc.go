/*
Package errors provides semantic error types for the pathstore library.

The package defines the failure taxonomy of the data-access layer with specific types that can be
checked using the standard errors.Is() function or the provided helper functions.

Common Errors:

	var (
	    ErrNotFound         = errors.New("node not found")
	    ErrMalformedPayload = errors.New("malformed payload")
	    ErrDecode           = errors.New("decode failed")
	    ErrStoreUnavailable = errors.New("store unavailable")
	    ErrIdentityMissing  = errors.New("identity missing")
	    ErrInvalidInput     = errors.New("invalid input")
	)

An absent node is not an error for typed loads: Repository.LoadOne returns (nil, nil).
ErrNotFound is used by callers that need a value, such as integration key resolution.

Usage:

	alarm, err := alarms.LoadOne(ctx, "alarms/a1")
	if err != nil {
	    if errors.IsDecode(err) {
	        // the stored node no longer matches the Alarm type
	    }
	    return nil, err
	}

	// Create typed errors
	err := errors.NewDecodeError("alarms/a1", "Alarm", "time", cause)
	err := errors.NewStoreUnavailableError("read", "alarms", cause)
	err := errors.NewValidationError("limit", "must not be negative")

None of these conditions terminate the process; they are always returned to the caller.
*/
package errors
