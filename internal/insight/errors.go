package insight

import "fmt"

// ProviderError wraps a transient upstream inference failure. The pipeline
// never retries these itself; callers decide whether to try again.
type ProviderError struct {
	Kind Kind
	Err  error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("inference provider failure (%s): %v", e.Kind, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
