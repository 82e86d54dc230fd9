// Package umerrors holds the fatal error taxonomy of the machine. Each sentinel
// is formatted "Code|Name: description"; wrap them with %w and test with errors.Is.
package umerrors

import (
	"errors"
	"strings"
)

// Usage (U) Errors
var (
	ErrUUsage = errors.New("U1|Usage: Invalid command line.")
)

// Load (L) Errors
var (
	ErrLOpen             = errors.New("L1|Open: Program file could not be opened or stat'ed.")
	ErrLTruncatedProgram = errors.New("L2|TruncatedProgram: Program byte length is not a multiple of four.")
	ErrLRead             = errors.New("L3|Read: Program bytes could not be read.")
)

// Memory contract (M) Errors
var (
	ErrMInvalidHandle = errors.New("M1|InvalidHandle: Segment handle was never mapped.")
	ErrMUnmapped      = errors.New("M2|Unmapped: Segment handle refers to an unmapped segment.")
	ErrMOutOfBounds   = errors.New("M3|OutOfBounds: Word offset is outside the segment.")
	ErrMUnmapZero     = errors.New("M4|UnmapZero: Segment zero cannot be unmapped.")
	ErrMTornDown      = errors.New("M5|TornDown: Segment table was already released.")
)

// Arithmetic (A) Errors
var (
	ErrADivideByZero = errors.New("A1|DivideByZero: Division by a zero register.")
)

// I/O (I) Errors
var (
	ErrIOutputRange = errors.New("I1|OutputRange: Output value is greater than 255.")
	ErrIInput       = errors.New("I2|Input: Reading the input stream failed.")
	ErrIOutput      = errors.New("I3|Output: Writing the output stream failed.")
)

// Engine (E) Errors
var (
	ErrEInvalidOpcode         = errors.New("E1|InvalidOpcode: Instruction opcode is not in 0..13.")
	ErrEProgramCounterOverrun = errors.New("E2|ProgramCounterOverrun: Program counter is past the end of segment zero.")
	ErrEInterrupted           = errors.New("E3|Interrupted: Execution was cancelled.")
	ErrEHalted                = errors.New("E4|Halted: The machine has already halted.")
)

// GetErrorName extracts the error name from the error message.
func GetErrorName(err error) string {
	if err == nil {
		return "No Error"
	}
	s := sentinelText(err)
	if !strings.Contains(s, "|") || !strings.Contains(s, ":") {
		return s
	}
	parts := strings.SplitN(s, "|", 2)
	nameParts := strings.SplitN(parts[1], ":", 2)
	return strings.TrimSpace(nameParts[0])
}

// GetErrorCode extracts the error code from the error message.
func GetErrorCode(err error) string {
	if err == nil {
		return ""
	}
	s := sentinelText(err)
	if !strings.Contains(s, "|") {
		return ""
	}
	parts := strings.SplitN(s, "|", 2)
	return strings.TrimSpace(parts[0])
}

// GetErrorCodeWithName returns the error code and name in the format "Code_ErrorName".
func GetErrorCodeWithName(err error) string {
	code := GetErrorCode(err)
	name := GetErrorName(err)
	if code == "" || name == "" {
		return ""
	}
	return code + "_" + name
}

// GetErrorDesc extracts the error description from the error message.
func GetErrorDesc(err error) string {
	if err == nil {
		return ""
	}
	parts := strings.SplitN(sentinelText(err), ":", 2)
	if len(parts) < 2 {
		return "DESC NOT SET"
	}
	return strings.TrimSpace(parts[1])
}

// sentinelText returns the message of the innermost wrapped error, so that
// context added with fmt.Errorf does not disturb the Code|Name parsing.
func sentinelText(err error) string {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err.Error()
		}
		err = next
	}
}
