package model

import "fmt"

// LoadError reports a remote payload that could not be mapped onto an entity.
type LoadError struct {
	Entity string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Entity, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
