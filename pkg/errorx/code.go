package errorx

import "net/http"

type Code int

var Unknown = Error{Code: 100000, Message: "Request failed"}

const (
	// Common codes
	BadRequest       Code = 100001
	BadResponse      Code = 100002
	PermissionDenied Code = 100003
	NotFound         Code = 100004
	Unauthenticated  Code = 100005
	AlreadyExists    Code = 100006
	Internal         Code = 100007
	Unavailable      Code = 100008
	TooManyRequests  Code = 100009

	// Gamification codes
	InsufficientPoints Code = 200001
	RewardUnavailable  Code = 200002
	AlreadyGranted     Code = 200003

	// Security codes
	InvalidCSRFToken Code = 300001
)

// HTTPStatus maps an error code to the status line of the response. Codes
// without an explicit mapping answer with 500.
func (c Code) HTTPStatus() int {
	switch c {
	case BadRequest, InsufficientPoints, RewardUnavailable:
		return http.StatusBadRequest
	case Unauthenticated:
		return http.StatusUnauthorized
	case PermissionDenied, InvalidCSRFToken:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	case AlreadyExists, AlreadyGranted:
		return http.StatusConflict
	case TooManyRequests:
		return http.StatusTooManyRequests
	case Unavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
