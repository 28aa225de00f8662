package shared

import (
	"errors"
	"fmt"
)

// Kind classifies an error so callers can tell failure modes apart without parsing messages
type Kind string

const (
	KindUnknown    Kind = "unknown"
	KindValidation Kind = "validation"
	KindTransport  Kind = "transport"
	KindNotFound   Kind = "not_found"
	KindConflict   Kind = "conflict"
	KindStorage    Kind = "storage"
)

// kinded is implemented by every typed error of the ledger
type kinded interface {
	Kind() Kind
}

// KindOf returns the kind of the first typed error in err's chain
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var k kinded
	if errors.As(err, &k) {
		return k.Kind()
	}
	return KindUnknown
}

// ErrValidation reports an input rejected before any side effect
type ErrValidation struct {
	Field  string
	Reason string
}

func (e ErrValidation) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e ErrValidation) Kind() Kind { return KindValidation }

// Is matches any ErrValidation when the target field is empty
func (e ErrValidation) Is(target error) bool {
	t, ok := target.(ErrValidation)
	if !ok {
		return false
	}
	return t.Field == "" || t.Field == e.Field
}

// TransportFaultMessage is the user-facing text of an injected transport failure
const TransportFaultMessage = "Network error. Please try again."

// ErrTransportFault is returned when the simulated transport drops a call
type ErrTransportFault struct {
	Method   string
	Endpoint string
}

func (e ErrTransportFault) Error() string {
	return TransportFaultMessage
}

func (e ErrTransportFault) Kind() Kind { return KindTransport }

// Is matches any ErrTransportFault when the target endpoint is empty
func (e ErrTransportFault) Is(target error) bool {
	t, ok := target.(ErrTransportFault)
	if !ok {
		return false
	}
	return t.Endpoint == "" || (t.Endpoint == e.Endpoint && t.Method == e.Method)
}

// ErrStorage wraps a failure of the key-value store
type ErrStorage struct {
	Op  string
	Key string
	Err error
}

func (e *ErrStorage) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("storage %s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("storage %s %q failed: %v", e.Op, e.Key, e.Err)
}

func (e *ErrStorage) Unwrap() error { return e.Err }

func (e *ErrStorage) Kind() Kind { return KindStorage }

// NewStorageError wraps err unless it already is a storage error
func NewStorageError(op, key string, err error) error {
	if err == nil {
		return nil
	}
	var se *ErrStorage
	if errors.As(err, &se) {
		return err
	}
	return &ErrStorage{Op: op, Key: key, Err: err}
}
