package ledger

import "fmt"

// Stream names one of the two transaction sets a ledger is built from.
type Stream string

const (
	StreamCredits Stream = "credits"
	StreamDebits  Stream = "debits"
)

// FetchError reports which transaction stream of an account failed to load.
type FetchError struct {
	Stream    Stream
	AccountID int64
	Err       error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("the %s of account %d could not be loaded: %v", e.Stream, e.AccountID, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
