package response

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dmitrymomot/wirekit/core/message"
)

// JSON creates an application/json response with 200 OK status.
// The value is encoded upfront so encoding failures surface as errors and
// the body is sent with Content-Length.
func JSON(v any) (*message.Response, error) {
	return JSONWithStatus(v, http.StatusOK)
}

// JSONWithStatus creates an application/json response with custom status code.
// A zero status means 204 for a nil value and 200 otherwise.
func JSONWithStatus(v any, status int) (*message.Response, error) {
	if status == 0 {
		status = http.StatusOK
		if v == nil {
			status = http.StatusNoContent
		}
	}
	resp := message.NewResponse(status)
	resp.Header.Set("Content-Type", ContentTypeJSON)
	if !message.BodyAllowed(status) {
		return resp, nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode json response: %w", err)
	}
	resp.Body = message.Bytes(data)
	return resp, nil
}
