package httpapi

import "net/http"

// apiError is the adapter's error taxonomy, mapped 1:1 to HTTP status
// codes, mirroring the shape of a typical AppError enum.
type apiError struct {
	status  int
	message string
}

func (e *apiError) Error() string { return e.message }

func newAPIError(status int, message string) *apiError {
	return &apiError{status: status, message: message}
}

var (
	errAccountIDMissing   = newAPIError(http.StatusBadRequest, "`account-id` missing in Header")
	errAccountIDInvalid   = newAPIError(http.StatusBadRequest, "`account-id` is invalid")
	errAccountNotFound    = newAPIError(http.StatusForbidden, "this `account-id` does not exist")
	errOrderBodyIncorrect = newAPIError(http.StatusBadRequest, "submitted order body is incorrect")
	errOrderIDInvalid     = newAPIError(http.StatusNotFound, "the order `id` is invalid")
	errOrderNotFound      = newAPIError(http.StatusNotFound, "this order `id` does not exist or no longer exists")
	errOrderCannotCancel  = newAPIError(http.StatusGone, "this order can no longer be cancelled")
)

func orderInvalid(reason string) *apiError {
	return newAPIError(http.StatusBadRequest, reason)
}

func writeError(w http.ResponseWriter, err *apiError) {
	http.Error(w, err.message, err.status)
}
