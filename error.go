package treeval

import "fmt"

// ErrorKind discriminates the failure classes of a decode.
type ErrorKind uint8

const (
	// InvalidType means the input had the wrong shape, e.g. a string where
	// a mapping was needed.
	InvalidType ErrorKind = iota

	// InvalidValue means the shape was right but the value was not, e.g. a
	// mapping with three entries offered as an enum variant.
	InvalidValue

	// InvalidLength means a sequence or mapping had the wrong number of
	// elements for the target.
	InvalidLength

	// Custom carries a free-form message from a [Visitor] or [Seed].
	Custom
)

// Error is the failure type produced while decoding a [Value]. The first
// failure aborts the decode and is returned unchanged; nothing is retried
// and no partial result is kept.
//
// Got and Expected are set for [InvalidType] and [InvalidValue], Length and
// Expected for [InvalidLength]. Use [errors.As] to recover the structured
// form from a wrapped chain.
type Error struct {
	Kind     ErrorKind
	Got      Unexpected
	Expected string
	Length   int

	msg string
}

// NewInvalidType reports input of the wrong shape. expected is the
// receiver's own description, typically the visitor's Expecting string.
func NewInvalidType(got Unexpected, expected string) *Error {
	return &Error{Kind: InvalidType, Got: got, Expected: expected}
}

// NewInvalidValue reports input of the right shape but an unusable value.
func NewInvalidValue(got Unexpected, expected string) *Error {
	return &Error{Kind: InvalidValue, Got: got, Expected: expected}
}

// NewInvalidLength reports a sequence or mapping of length n where the
// target needed a different element count.
func NewInvalidLength(n int, expected string) *Error {
	return &Error{Kind: InvalidLength, Length: n, Expected: expected}
}

// NewError returns a [Custom] kind error with the given message.
func NewError(msg string) *Error {
	return &Error{Kind: Custom, msg: msg}
}

// NewErrorf returns a [Custom] kind error with a formatted message.
func NewErrorf(format string, args ...any) *Error {
	return &Error{Kind: Custom, msg: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	switch e.Kind {
	case InvalidType:
		return fmt.Sprintf("invalid type: %s, expected %s", e.Got, e.Expected)
	case InvalidValue:
		return fmt.Sprintf("invalid value: %s, expected %s", e.Got, e.Expected)
	case InvalidLength:
		return fmt.Sprintf("invalid length %d, expected %s", e.Length, e.Expected)
	default:
		return e.msg
	}
}
