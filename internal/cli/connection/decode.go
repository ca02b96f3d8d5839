package connection

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"reflect"
)

// maxBodySize caps how much of a response body is read.
const maxBodySize = 8 << 20

// response is a fully read HTTP response.
type response struct {
	status    int
	requestID string
	body      []byte
}

func readResponse(resp *http.Response) (*response, error) {
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, &TransportError{
			Method: resp.Request.Method,
			Path:   resp.Request.URL.Path,
			Cause:  fmt.Errorf("read body: %w", err),
		}
	}
	return &response{
		status:    resp.StatusCode,
		requestID: resp.Request.Header.Get("X-Request-ID"),
		body:      body,
	}, nil
}

// parse turns the response into an *APIError for non-2xx statuses, or
// decodes the body into target.
func (r *response) parse(method, path string, target any) error {
	if r.status < 200 || r.status > 299 {
		return r.apiError(method, path)
	}
	if target == nil {
		return nil
	}

	if len(bytes.TrimSpace(r.body)) == 0 {
		// An empty list body is a valid empty list.
		if v := reflect.ValueOf(target); v.Kind() == reflect.Pointer && v.Elem().Kind() == reflect.Slice {
			v.Elem().Set(reflect.MakeSlice(v.Elem().Type(), 0, 0))
			return nil
		}
		return &DecodeError{Target: typeName(target), Status: r.status, Cause: io.ErrUnexpectedEOF}
	}

	if err := json.Unmarshal(r.body, target); err != nil {
		return &DecodeError{Target: typeName(target), Status: r.status, Cause: err}
	}
	if key := missingField(r.body, target); key != "" {
		return &DecodeError{
			Target: typeName(target),
			Status: r.status,
			Cause:  fmt.Errorf("missing field %q", key),
		}
	}
	return nil
}

// requiredFielder is implemented by types whose body must carry every
// listed key.
type requiredFielder interface {
	RequiredFields() []string
}

// missingField returns the first required key that body lacks or sets to
// null, for a target of *T or *[]T where T is a requiredFielder.
func missingField(body []byte, target any) string {
	t := reflect.TypeOf(target)
	if t.Kind() != reflect.Pointer {
		return ""
	}
	t = t.Elem()
	list := t.Kind() == reflect.Slice
	if list {
		t = t.Elem()
	}
	rf, ok := reflect.Zero(t).Interface().(requiredFielder)
	if !ok || len(rf.RequiredFields()) == 0 {
		return ""
	}

	var objects []map[string]json.RawMessage
	if list {
		if err := json.Unmarshal(body, &objects); err != nil {
			return rf.RequiredFields()[0]
		}
	} else {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(body, &obj); err != nil {
			return rf.RequiredFields()[0]
		}
		objects = append(objects, obj)
	}

	for _, obj := range objects {
		for _, key := range rf.RequiredFields() {
			if v, ok := obj[key]; !ok || string(bytes.TrimSpace(v)) == "null" {
				return key
			}
		}
	}
	return ""
}

// apiError builds the structured error for a non-2xx response. The server
// message is used when present: {"message": "..."} or {"error": "..."}.
func (r *response) apiError(method, path string) *APIError {
	apiErr := &APIError{
		Status:    r.status,
		Method:    method,
		Path:      path,
		RequestID: r.requestID,
	}

	var errResp struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(r.body, &errResp); err == nil {
		apiErr.Code = errResp.Code
		apiErr.Message = errResp.Message
		if apiErr.Message == "" {
			apiErr.Message = errResp.Error
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = fmt.Sprintf("request failed with status %d", r.status)
	}
	return apiErr
}

// ParseResponse reads resp and decodes a 2xx body into target, or returns
// an *APIError. The body is always closed.
func ParseResponse(resp *http.Response, target any) error {
	r, err := readResponse(resp)
	if err != nil {
		return err
	}
	return r.parse(resp.Request.Method, resp.Request.URL.Path, target)
}

// Decode reads resp and decodes a 2xx body as T.
func Decode[T any](resp *http.Response) (T, error) {
	var v T
	err := ParseResponse(resp, &v)
	return v, err
}

func typeName(target any) string {
	t := reflect.TypeOf(target)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.String()
}
