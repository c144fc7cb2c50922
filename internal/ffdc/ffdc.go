// Package ffdc defines the error type shared by all layers of the metadata server.
// An *Error carries enough first-failure data (method, parameter, HTTP code,
// user action) to be rendered into a REST response and reconstructed by a client.
package ffdc

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindInvalidParameter Kind = iota + 1
	KindUserNotAuthorized
	KindPropertyServer
	KindNotFound
	KindTypeError
)

// Sentinel errors for use with errors.Is.
var (
	ErrInvalidParameter  = errors.New("invalid parameter")
	ErrUserNotAuthorized = errors.New("user not authorized")
	ErrPropertyServer    = errors.New("property server error")
	ErrNotFound          = errors.New("not found")
	ErrTypeError         = errors.New("type error")
)

var kindInfo = map[Kind]struct {
	className string
	httpCode  int
	sentinel  error
}{
	KindInvalidParameter:  {"InvalidParameterException", http.StatusBadRequest, ErrInvalidParameter},
	KindUserNotAuthorized: {"UserNotAuthorizedException", http.StatusForbidden, ErrUserNotAuthorized},
	KindPropertyServer:    {"PropertyServerException", http.StatusInternalServerError, ErrPropertyServer},
	KindNotFound:          {"EntityNotKnownException", http.StatusNotFound, ErrNotFound},
	KindTypeError:         {"TypeErrorException", http.StatusBadRequest, ErrTypeError},
}

// Error describes a failure detected by the metadata server.
type Error struct {
	Kind Kind
	// The method that detected the failure, e.g. "CreateAsset".
	Method string
	// The name of the offending parameter or field, if any.
	Parameter string
	Message   string
	// A hint for the caller on how to resolve the problem.
	UserAction string
	// The underlying cause, if any.
	Err error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Parameter != "" {
		msg = fmt.Sprintf("%s (parameter %s)", msg, e.Parameter)
	}
	if e.Method != "" {
		msg = e.Method + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel error for e's kind.
func (e *Error) Is(target error) bool {
	info, ok := kindInfo[e.Kind]
	return ok && info.sentinel == target
}

// HTTPCode returns the HTTP status code related to e's kind.
func (e *Error) HTTPCode() int {
	if info, ok := kindInfo[e.Kind]; ok {
		return info.httpCode
	}
	return http.StatusInternalServerError
}

// ClassName returns the exception class name reported in REST responses.
func (e *Error) ClassName() string {
	if info, ok := kindInfo[e.Kind]; ok {
		return info.className
	}
	return "PropertyServerException"
}

// KindFromClassName is the inverse of (*Error).ClassName.
// Unknown class names map to KindPropertyServer.
func KindFromClassName(className string) Kind {
	for k, info := range kindInfo {
		if info.className == className {
			return k
		}
	}
	return KindPropertyServer
}

func InvalidParameter(method, parameter, format string, args ...any) *Error {
	return &Error{
		Kind:       KindInvalidParameter,
		Method:     method,
		Parameter:  parameter,
		Message:    fmt.Sprintf(format, args...),
		UserAction: "Correct the value of the parameter and retry the request.",
	}
}

func UserNotAuthorized(method, userID string) *Error {
	return &Error{
		Kind:       KindUserNotAuthorized,
		Method:     method,
		Parameter:  "userId",
		Message:    fmt.Sprintf("user %q is not authorized to issue this request", userID),
		UserAction: "Request access from the server administrator.",
	}
}

func NotFound(method, parameter, format string, args ...any) *Error {
	return &Error{
		Kind:       KindNotFound,
		Method:     method,
		Parameter:  parameter,
		Message:    fmt.Sprintf(format, args...),
		UserAction: "Check that the unique identifier refers to an existing element.",
	}
}

func TypeError(method, parameter, format string, args ...any) *Error {
	return &Error{
		Kind:       KindTypeError,
		Method:     method,
		Parameter:  parameter,
		Message:    fmt.Sprintf(format, args...),
		UserAction: "Use a type name known to the server's type definitions.",
	}
}

// PropertyServer wraps an unexpected failure of the repository or a downstream server.
func PropertyServer(method string, err error) *Error {
	return &Error{
		Kind:       KindPropertyServer,
		Method:     method,
		Message:    "the metadata server could not complete the request",
		UserAction: "Review the server log for more information.",
		Err:        err,
	}
}

// As converts err into an *Error. Errors that are not already an *Error
// are wrapped as property server errors of the given method.
func As(method string, err error) *Error {
	var fe *Error
	if errors.As(err, &fe) {
		return fe
	}
	return PropertyServer(method, err)
}

// ValidateUserID checks that userID is non-empty.
func ValidateUserID(method, userID string) error {
	if userID == "" {
		return InvalidParameter(method, "userId", "the user identifier is empty")
	}
	return nil
}

// ValidateGUID checks that a unique identifier is non-empty.
func ValidateGUID(method, parameter, guid string) error {
	if guid == "" {
		return InvalidParameter(method, parameter, "the unique identifier is empty")
	}
	return nil
}

// ValidateName checks that a required name is non-empty.
func ValidateName(method, parameter, name string) error {
	if name == "" {
		return InvalidParameter(method, parameter, "the name is empty")
	}
	return nil
}
