package papertrade

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// contains http utils to deal with remote quote services

// statusError is a non 2xx response.
type statusError struct {
	addr   string
	status int
	text   string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("cannot http GET %v: %v", e.addr, e.text)
}

// errNotFound reports whether err is a 404 response.
func errNotFound(err error) bool {
	var s *statusError
	return errors.As(err, &s) && s.status == http.StatusNotFound
}

// jwget performs an HTTP GET request and unmarshals the JSON response into the provided data structure.
func jwget(ctx context.Context, client *http.Client, addr string, data any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &statusError{addr: addr, status: resp.StatusCode, text: resp.Status}
	}
	return json.NewDecoder(resp.Body).Decode(data)
}
