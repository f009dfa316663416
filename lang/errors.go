package lang

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a runtime error.
type ErrorKind int

const (
	VariableRedefinition ErrorKind = iota
	VariableDoesNotExist
	NotCallable
	WrongNumberOfArguments
	TypeError
)

var errorKindNames = [...]string{
	VariableRedefinition:   "VariableRedefinition",
	VariableDoesNotExist:   "VariableDoesNotExist",
	NotCallable:            "NotCallable",
	WrongNumberOfArguments: "WrongNumberOfArguments",
	TypeError:              "TypeError",
}

func (k ErrorKind) String() string {
	if k >= 0 && int(k) < len(errorKindNames) {
		return errorKindNames[k]
	}
	return "ErrorKind"
}

// RuntimeError aborts evaluation. Name identifies the variable, callee or
// operator involved, when there is one.
type RuntimeError struct {
	Kind ErrorKind
	Name string
}

func (e *RuntimeError) Error() string {
	if e.Name == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Name)
}

func newError(kind ErrorKind, name string) error {
	return &RuntimeError{Kind: kind, Name: name}
}

// KindOf extracts the kind of a runtime error anywhere in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var rerr *RuntimeError
	if errors.As(err, &rerr) {
		return rerr.Kind, true
	}
	return 0, false
}
