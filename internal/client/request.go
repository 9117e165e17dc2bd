package client

import (
	"bytes"
	"context"

	"github.com/goccy/go-json"

	"github.com/fivetwenty-io/mgmt-client/internal/constants"
	"github.com/fivetwenty-io/mgmt-client/internal/http"
	"github.com/fivetwenty-io/mgmt-client/pkg/mgmt"
)

// bodyFunc renders a request body. It runs on every Execute, so multipart
// bodies get a fresh boundary and re-read their file each time.
type bodyFunc func() (body []byte, contentType string, err error)

// deferredRequest is a built request that performs no I/O until Execute.
// A request with params is a JSON POST, one with body a raw POST, and one
// with neither a GET.
type deferredRequest[T any] struct {
	httpClient *http.Client
	path       string
	route      string
	headers    map[string]string
	params     mgmt.Params
	body       bodyFunc
	decode     func(target string, data []byte) (T, error)
	target     string
}

// Execute implements mgmt.Request.
func (r *deferredRequest[T]) Execute(ctx context.Context) (T, error) {
	var zero T

	resp, err := r.send(ctx)
	if err != nil {
		return zero, err
	}

	decode := r.decode
	if decode == nil {
		decode = decodeJSON[T]
	}

	return decode(r.target, resp.Body)
}

func (r *deferredRequest[T]) send(ctx context.Context) (*http.Response, error) {
	route := http.WithRoute(r.route)

	switch {
	case r.body != nil:
		body, contentType, err := r.body()
		if err != nil {
			return nil, err
		}

		return r.httpClient.PostRaw(ctx, r.path, body, contentType, route)
	case r.params != nil:
		return r.httpClient.Post(ctx, r.path, r.params, route)
	default:
		return r.httpClient.Get(ctx, r.path, route, http.WithRequestHeaders(r.headers))
	}
}

var jsonNull = []byte("null")

// decodeJSON decodes a 2xx body into T. An empty or null body is a decode
// error since every endpoint returns a document.
func decodeJSON[T any](target string, data []byte) (T, error) {
	var result T

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, jsonNull) {
		return result, &mgmt.DecodeError{Target: target, Err: mgmt.ErrEmptyResponseBody}
	}

	err := json.Unmarshal(trimmed, &result)
	if err != nil {
		return result, &mgmt.DecodeError{Target: target, Err: err}
	}

	return result, nil
}

// jsonHeaders is sent with body-less requests, which the API still expects to
// declare a JSON content type.
func jsonHeaders() map[string]string {
	return map[string]string{"Content-Type": constants.ContentTypeJSON}
}
