// Package guard provides the constructor guard embedded by commands, queries
// and value objects that must only be built through their constructors.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when no specific error is supplied.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard marks a struct as built by its constructor. The zero value is
// "not constructed", so a struct literal that skips the constructor fails Validate.
//
// Example:
//
//	type AcceptOrderCommand struct {
//	    customerID kernel.UserID
//	    guard      guard.ConstructorGuard
//	}
//
//	func (c AcceptOrderCommand) Validate() error {
//	    return c.guard.Validate(ErrAcceptOrderCommandIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard in the constructed state.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns validationError (or ErrDefaultConstructorGuard when it is nil)
// if the guard is the zero value, and nil otherwise.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
