package api

import "net/http"

// Error writes an error body for status with msg.
func Error(w http.ResponseWriter, r *http.Request, status int, msg string) {
	WriteJSON(w, r, status, ErrorResponse(status, msg))
}

// StatusError writes an error body using the standard status text as message.
func StatusError(w http.ResponseWriter, r *http.Request, status int) {
	Error(w, r, status, http.StatusText(status))
}

// BadRequest writes a 400 error response.
func BadRequest(w http.ResponseWriter, r *http.Request, msg string) {
	Error(w, r, http.StatusBadRequest, msg)
}

// Unauthorized writes a 401 error response. Missing and wrong credentials
// are indistinguishable.
func Unauthorized(w http.ResponseWriter, r *http.Request) {
	Error(w, r, http.StatusUnauthorized, "Unauthorized")
}

// NotFound writes a 404 error response.
func NotFound(w http.ResponseWriter, r *http.Request, msg string) {
	Error(w, r, http.StatusNotFound, msg)
}

// TooLarge writes a 413 error response.
func TooLarge(w http.ResponseWriter, r *http.Request, msg string) {
	Error(w, r, http.StatusRequestEntityTooLarge, msg)
}

// InternalError writes a 500 error response. msg must not leak internals.
func InternalError(w http.ResponseWriter, r *http.Request, msg string) {
	Error(w, r, http.StatusInternalServerError, msg)
}
