package router

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/bskmt/backend/pkg/xcontext"
	"github.com/mitchellh/mapstructure"
)

// bind fills the request object from the query string for GET and DELETE, or
// from the json body for other methods. An empty body is allowed.
func bind(ctx context.Context, req any) error {
	httpReq := xcontext.HTTPRequest(ctx)
	switch httpReq.Method {
	case http.MethodGet, http.MethodDelete:
		return bindQuery(httpReq, req)
	default:
		if err := json.NewDecoder(httpReq.Body).Decode(req); err != nil && err != io.EOF {
			return err
		}
		return nil
	}
}

func bindQuery(httpReq *http.Request, req any) error {
	values := map[string]any{}
	for key, vals := range httpReq.URL.Query() {
		if len(vals) == 1 {
			values[key] = vals[0]
		} else {
			values[key] = vals
		}
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           req,
	})
	if err != nil {
		return err
	}

	return decoder.Decode(values)
}
