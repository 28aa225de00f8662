package shared

// Envelope is the uniform result of every ledger operation.
// Its JSON shape is {success, data?, error?, message?}.
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Data    *T     `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`

	cause error
}

// OK builds a successful envelope carrying data
func OK[T any](data T) Envelope[T] {
	return Envelope[T]{Success: true, Data: &data}
}

// Empty builds a successful envelope without payload
func Empty[T any]() Envelope[T] {
	return Envelope[T]{Success: true}
}

// Fail builds a failed envelope from err, keeping err as the in-process cause
func Fail[T any](err error) Envelope[T] {
	return Envelope[T]{Success: false, Error: err.Error(), cause: err}
}

// WithMessage returns a copy of the envelope with an informational message
func (e Envelope[T]) WithMessage(msg string) Envelope[T] {
	e.Message = msg
	return e
}

// Err returns the cause of a failed envelope, or nil on success.
// The cause is not serialized.
func (e Envelope[T]) Err() error {
	if e.Success {
		return nil
	}
	if e.cause != nil {
		return e.cause
	}
	return errorString(e.Error)
}

type errorString string

func (e errorString) Error() string { return string(e) }
