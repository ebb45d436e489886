package alumnisdk

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// getJSON performs an authenticated GET and decodes the body into out.
func (s *Session) getJSON(ctx context.Context, path string, out any) error {
	resp, err := s.Do(ctx, NewRequest(http.MethodGet, path))
	if err != nil {
		return err
	}
	return decodeBody(resp, out)
}

// sendJSON performs an authenticated request with a JSON body. out may be nil
// for endpoints answering 204.
func (s *Session) sendJSON(ctx context.Context, method, path string, in, out any) error {
	var req *Request
	if in == nil {
		req = NewRequest(method, path)
	} else {
		var err error
		req, err = NewJSONRequest(method, path, in)
		if err != nil {
			return err
		}
	}

	resp, err := s.Do(ctx, req)
	if err != nil {
		return err
	}
	if out == nil {
		discard(resp)
		return nil
	}
	return decodeBody(resp, out)
}

// deleteResource performs an authenticated DELETE.
func (s *Session) deleteResource(ctx context.Context, path string) error {
	return s.sendJSON(ctx, http.MethodDelete, path, nil, nil)
}

// decodeBody decodes a successful response returned by Do.
func decodeBody(resp *http.Response, out any) error {
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	if err := json.Unmarshal(bodyBytes, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
