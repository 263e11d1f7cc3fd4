package models

import (
	"errors"
	"fmt"
)

// ErrorKind classifies domain failures so callers can branch on category.
type ErrorKind int

const (
	KindNotFound ErrorKind = iota + 1
	KindAlreadyExists
	KindBusinessRule
	KindValidation
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindAlreadyExists:
		return "already_exists"
	case KindBusinessRule:
		return "business_rule_violation"
	case KindValidation:
		return "validation_error"
	default:
		return "unknown"
	}
}

type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func NotFound(resource, id string) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s not found with id: %s", resource, id)}
}

func AlreadyExists(resource, key string) error {
	return &Error{Kind: KindAlreadyExists, Message: fmt.Sprintf("%s already exists: %s", resource, key)}
}

func BusinessRule(format string, args ...any) error {
	return &Error{Kind: KindBusinessRule, Message: fmt.Sprintf(format, args...)}
}

// IllegalState is returned for forbidden status transitions.
func IllegalState(format string, args ...any) error {
	return &Error{Kind: KindBusinessRule, Message: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...any) error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of a domain error, or 0 for anything else.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return 0
}

func IsNotFound(err error) bool      { return KindOf(err) == KindNotFound }
func IsAlreadyExists(err error) bool { return KindOf(err) == KindAlreadyExists }
func IsBusinessRule(err error) bool  { return KindOf(err) == KindBusinessRule }
func IsValidation(err error) bool    { return KindOf(err) == KindValidation }
