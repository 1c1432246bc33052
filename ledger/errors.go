package ledger

// Kind classifies core errors; the presentation layer maps kinds to HTTP
// statuses and the dot code to a user message.
type Kind int

const (
	KindInternal Kind = iota
	KindInsufficientFunds
	KindInsufficientLiquidity
	KindInvalidState
	KindLimitExceeded
	KindNotFound
	KindValidation
)

type Error struct {
	Kind Kind   `json:"-"`
	Code string `json:"code"`
}

func (e *Error) Error() string {
	return e.Code
}

func NewError(kind Kind, code string) *Error {
	return &Error{Kind: kind, Code: code}
}

func InsufficientFunds(code string) *Error {
	return NewError(KindInsufficientFunds, code)
}

func InsufficientLiquidity(code string) *Error {
	return NewError(KindInsufficientLiquidity, code)
}

func InvalidState(code string) *Error {
	return NewError(KindInvalidState, code)
}

func LimitExceeded(code string) *Error {
	return NewError(KindLimitExceeded, code)
}

func NotFound(code string) *Error {
	return NewError(KindNotFound, code)
}

// KindOf returns the kind of err, KindInternal for foreign errors.
func KindOf(err error) Kind {
	if e, ok := err.(*Error); ok {
		return e.Kind
	}

	return KindInternal
}
