package mpesa

import (
	"encoding/json"
	"errors"
	"fmt"
)

var ErrInvalidPhone = errors.New("invalid phone number format")

// GatewayError is a transport failure or a non-2xx answer from Daraja.
type GatewayError struct {
	StatusCode int
	Body       []byte
	Err        error
}

func (e *GatewayError) Error() string {
	switch {
	case e.Err != nil && e.StatusCode == 0:
		return fmt.Sprintf("mpesa request failed: %v", e.Err)
	case e.Err != nil:
		return fmt.Sprintf("mpesa responded %d: %v", e.StatusCode, e.Err)
	default:
		return fmt.Sprintf("mpesa responded %d: %s", e.StatusCode, string(e.Body))
	}
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// Details returns the gateway body as JSON when it is valid JSON, as a string
// otherwise, or nil when there is no body.
func (e *GatewayError) Details() any {
	if len(e.Body) == 0 {
		return nil
	}
	if json.Valid(e.Body) {
		return json.RawMessage(e.Body)
	}
	return string(e.Body)
}
