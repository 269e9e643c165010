package dom

import (
	"fmt"
	"slices"
	"strings"
)

// TokenValidationError is returned when a class token is empty or contains whitespace.
type TokenValidationError struct {
	Type    string // "SyntaxError" or "InvalidCharacterError"
	Message string
}

func (e *TokenValidationError) Error() string {
	return e.Message
}

func validateToken(token string) *TokenValidationError {
	if token == "" {
		return &TokenValidationError{
			Type:    "SyntaxError",
			Message: "The token provided must not be empty.",
		}
	}
	if strings.ContainsAny(token, " \t\n\r\f") {
		return &TokenValidationError{
			Type:    "InvalidCharacterError",
			Message: fmt.Sprintf("The token provided ('%s') contains HTML space characters, which are not valid in tokens.", token),
		}
	}
	return nil
}

// DOMTokenList is a live view over a space separated attribute such as class.
type DOMTokenList struct {
	element  *Element
	attrName string
}

func newDOMTokenList(element *Element, attrName string) *DOMTokenList {
	return &DOMTokenList{element: element, attrName: attrName}
}

// tokens returns the deduplicated tokens in document order.
func (dtl *DOMTokenList) tokens() []string {
	value := dtl.element.GetAttribute(dtl.attrName)
	var out []string
	for _, tok := range strings.Fields(value) {
		if !slices.Contains(out, tok) {
			out = append(out, tok)
		}
	}
	return out
}

// setTokens writes tokens back. An absent attribute stays absent when the
// result is empty.
func (dtl *DOMTokenList) setTokens(tokens []string) {
	if len(tokens) == 0 && !dtl.element.HasAttribute(dtl.attrName) {
		return
	}
	dtl.element.SetAttribute(dtl.attrName, strings.Join(tokens, " "))
}

// Length returns the number of tokens.
func (dtl *DOMTokenList) Length() int {
	return len(dtl.tokens())
}

// Item returns the token at index, or "" when out of range.
func (dtl *DOMTokenList) Item(index int) string {
	tokens := dtl.tokens()
	if index < 0 || index >= len(tokens) {
		return ""
	}
	return tokens[index]
}

// Contains reports whether token is present. Invalid tokens are never present.
func (dtl *DOMTokenList) Contains(token string) bool {
	if validateToken(token) != nil {
		return false
	}
	return slices.Contains(dtl.tokens(), token)
}

// Add adds tokens that are not already present.
func (dtl *DOMTokenList) Add(tokens ...string) *TokenValidationError {
	for _, token := range tokens {
		if err := validateToken(token); err != nil {
			return err
		}
	}
	current := dtl.tokens()
	for _, token := range tokens {
		if !slices.Contains(current, token) {
			current = append(current, token)
		}
	}
	dtl.setTokens(current)
	return nil
}

// Remove removes tokens.
func (dtl *DOMTokenList) Remove(tokens ...string) *TokenValidationError {
	for _, token := range tokens {
		if err := validateToken(token); err != nil {
			return err
		}
	}
	current := slices.DeleteFunc(dtl.tokens(), func(t string) bool {
		return slices.Contains(tokens, t)
	})
	dtl.setTokens(current)
	return nil
}

// Toggle flips token, or forces it on or off when force is given.
// It returns whether the token is present afterwards.
func (dtl *DOMTokenList) Toggle(token string, force ...bool) (bool, *TokenValidationError) {
	if err := validateToken(token); err != nil {
		return false, err
	}
	want := !dtl.Contains(token)
	if len(force) > 0 {
		want = force[0]
	}
	if want {
		dtl.Add(token)
	} else {
		dtl.Remove(token)
	}
	return want, nil
}

// Replace swaps oldToken for newToken in place.
func (dtl *DOMTokenList) Replace(oldToken, newToken string) (bool, *TokenValidationError) {
	if err := validateToken(oldToken); err != nil {
		return false, err
	}
	if err := validateToken(newToken); err != nil {
		return false, err
	}
	current := dtl.tokens()
	i := slices.Index(current, oldToken)
	if i < 0 {
		return false, nil
	}
	current[i] = newToken
	out := current[:0]
	for _, t := range current {
		if !slices.Contains(out, t) {
			out = append(out, t)
		}
	}
	dtl.setTokens(out)
	return true, nil
}

// Value returns the raw attribute value.
func (dtl *DOMTokenList) Value() string {
	return dtl.element.GetAttribute(dtl.attrName)
}

// Values returns the tokens.
func (dtl *DOMTokenList) Values() []string {
	return dtl.tokens()
}

func (dtl *DOMTokenList) String() string {
	return dtl.Value()
}
