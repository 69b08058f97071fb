package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bskmt/backend/pkg/errorx"
	"github.com/bskmt/backend/pkg/xcontext"
)

var (
	errBadRequest       = errorx.New(errorx.BadRequest, "Cannot bind the request")
	errMethodNotAllowed = errorx.New(errorx.BadRequest, "Method is not allowed")
)

type response struct {
	Success bool   `json:"success"`
	Code    int64  `json:"code,omitempty"`
	Error   string `json:"error,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func newResponse(data any) response {
	return response{Success: true, Data: data}
}

func newErrorResponse(err error) response {
	errx := errorx.Error{}
	if !errors.As(err, &errx) {
		errx = errorx.Unknown
	}

	return response{
		Success: false,
		Code:    int64(errx.Code),
		Error:   errx.Message,
	}
}

func writeResponse(ctx context.Context) {
	w := xcontext.HTTPWriter(ctx)

	if err := xcontext.Error(ctx); err != nil {
		errx := errorx.Error{}
		if !errors.As(err, &errx) {
			errx = errorx.Unknown
		}

		w.WriteHeader(errx.Code.HTTPStatus())
		if err := writeJSON(w, newErrorResponse(err)); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot write the error response: %v", err)
		}

		return
	}

	if err := writeJSON(w, newResponse(xcontext.Response(ctx))); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot write the response: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, resp any) error {
	w.Header().Set("Content-Type", "application/json")
	b, err := json.Marshal(resp)
	if err != nil {
		return err
	}

	if _, err := w.Write(b); err != nil {
		return err
	}

	return nil
}
