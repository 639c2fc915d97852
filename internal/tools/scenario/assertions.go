package scenario

import (
	"fmt"
	"log"
)

// AssertionMode controls how failed expectations are reported.
type AssertionMode int

const (
	// AssertionStrict fails the step on the first unmet expectation.
	AssertionStrict AssertionMode = iota
	// AssertionLogOnly logs unmet expectations and keeps going.
	AssertionLogOnly
)

// Assertions reports expectation failures according to Mode.
type Assertions struct {
	Mode   AssertionMode
	Logger *log.Logger
}

// Failf reports one unmet expectation. It returns an error in strict mode
// and nil after logging in log-only mode.
func (a Assertions) Failf(format string, args ...any) error {
	err := fmt.Errorf(format, args...)
	if a.Mode == AssertionStrict {
		return err
	}
	if a.Logger != nil {
		a.Logger.Printf("assertion failed: %v", err)
	}
	return nil
}
