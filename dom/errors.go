package dom

import "github.com/pkg/errors"

// DOMError is a DOM exception. Name is the exception name scripts see,
// such as "SyntaxError".
type DOMError struct {
	Name    string
	Message string
}

func (e *DOMError) Error() string {
	return e.Name + ": " + e.Message
}

func domError(name, message string) *DOMError {
	return &DOMError{Name: name, Message: message}
}

// ErrHierarchyRequest is raised for insertions that would make a node its
// own ancestor or put a node where it cannot go.
func ErrHierarchyRequest(message string) *DOMError {
	return domError("HierarchyRequestError", message)
}

// ErrNotFound is raised when a reference child is not a child.
func ErrNotFound(message string) *DOMError {
	return domError("NotFoundError", message)
}

// ErrInvalidCharacter is raised for bad element and attribute names.
func ErrInvalidCharacter(message string) *DOMError {
	return domError("InvalidCharacterError", message)
}

func ErrNotSupported(message string) *DOMError {
	return domError("NotSupportedError", message)
}

// ErrSyntax is raised for malformed selectors.
func ErrSyntax(message string) *DOMError {
	return domError("SyntaxError", message)
}

// IsDOMError reports whether err, or an error it wraps, is a DOMError
// named name.
func IsDOMError(err error, name string) bool {
	var de *DOMError
	return errors.As(err, &de) && de.Name == name
}
