package stats

import "fmt"

// FetchError reports a request that could not complete or returned a non-success status.
type FetchError struct {
	URL        string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// DecodeError reports a body that is not valid JSON or does not match the snapshot shape.
type DecodeError struct {
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decode snapshot: %s: %v", e.Reason, e.Err)
	}
	return "decode snapshot: " + e.Reason
}

func (e *DecodeError) Unwrap() error { return e.Err }
