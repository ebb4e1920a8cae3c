package orleans

import (
	"fmt"
	"strconv"
)

var strToCode = map[string]Code{
	"OK":                 CodeOK,
	"UNKNOWN":            CodeUnknown,
	"INVALID_ARGUMENT":   CodeInvalidArgument,
	"INVALID_PREDICATE":  CodeInvalidPredicate,
	"TYPE_RESOLUTION":    CodeTypeResolution,
	"METHOD_RESOLUTION":  CodeMethodResolution,
	"SIGNATURE_MISMATCH": CodeSignatureMismatch,
	"ALREADY_REGISTERED": CodeAlreadyRegistered,
	"INTERNAL":           CodeInternal,
}

// A Code classifies the failures this package can produce. There are no
// user-defined codes, so only the codes enumerated below are valid.
type Code uint32

const (
	CodeOK                Code = 0 // success
	CodeUnknown           Code = 1 // unclassified error
	CodeInvalidArgument   Code = 2 // nil type, codec function, or predicate
	CodeInvalidPredicate  Code = 3 // predicate is instance-bound or anonymous
	CodeTypeResolution    Code = 4 // declaring type name is not registered
	CodeMethodResolution  Code = 5 // named method absent on the resolved type
	CodeSignatureMismatch Code = 6 // method exists but isn't predicate-shaped
	CodeAlreadyRegistered Code = 7 // duplicate registration under ConflictError
	CodeInternal          Code = 8 // internal consistency violation

	minCode Code = CodeOK
	maxCode Code = CodeInternal
)

// MarshalText implements encoding.TextMarshaler. Codes are marshaled in their
// numeric representations.
func (c Code) MarshalText() ([]byte, error) {
	if c < minCode || c > maxCode {
		return nil, fmt.Errorf("invalid code %v", c)
	}
	return []byte(strconv.Itoa(int(c))), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. It accepts both numeric
// representations (as produced by MarshalText) and the all-caps names used in
// this package's documentation.
func (c *Code) UnmarshalText(b []byte) error {
	if n, ok := strToCode[string(b)]; ok {
		*c = n
		return nil
	}
	n, err := strconv.ParseUint(string(b), 10 /* base */, 32 /* bitsize */)
	if err != nil {
		return fmt.Errorf("invalid code %q", string(b))
	}
	code := Code(n)
	if code < minCode || code > maxCode {
		return fmt.Errorf("invalid code %v", n)
	}
	*c = code
	return nil
}

func (c Code) String() string {
	switch c {
	case CodeOK:
		return "OK"
	case CodeUnknown:
		return "Unknown"
	case CodeInvalidArgument:
		return "InvalidArgument"
	case CodeInvalidPredicate:
		return "InvalidPredicate"
	case CodeTypeResolution:
		return "TypeResolution"
	case CodeMethodResolution:
		return "MethodResolution"
	case CodeSignatureMismatch:
		return "SignatureMismatch"
	case CodeAlreadyRegistered:
		return "AlreadyRegistered"
	case CodeInternal:
		return "Internal"
	}
	return fmt.Sprintf("Code(%d)", c)
}
