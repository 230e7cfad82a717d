// Package errs holds the typed errors shared by the domain, the handlers and the
// adapters.
//
// Every type pairs a struct carrying the offending parameter (and an optional cause)
// with a sentinel its Unwrap returns, so callers branch with errors.Is:
//
//	if errors.Is(err, errs.ErrObjectNotFound) {
//	    return ctx.JSON(http.StatusNotFound, ...)
//	}
//
// Handlers in the chat router treat ErrObjectNotFound, ErrValueIsRequired,
// ErrValueIsInvalid and ErrValueIsOutOfRange as user mistakes rather than faults.
package errs
