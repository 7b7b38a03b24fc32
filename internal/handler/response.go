// Package handler implements the HTTP endpoints of the dashboard API. Every
// response, success or failure, uses the same envelope so clients never have
// to shape-sniff errors.
package handler

// Response is the wire envelope: {success, message, data?, error?}. Domain
// errors are recovered at this boundary and converted into it; nothing
// propagates past a handler uncaught.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func successResponse(data any, message string) Response {
	return Response{Success: true, Message: message, Data: data}
}

func errorResponse(message string) Response {
	return Response{Success: false, Message: message}
}

// errorDetail carries a secondary detail string, used for joined validation
// messages.
func errorDetail(message, detail string) Response {
	return Response{Success: false, Message: message, Error: detail}
}
