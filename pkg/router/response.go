package router

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pulsespace/backend/pkg/errorx"
)

type response struct {
	Code  int64  `json:"code"`
	Error string `json:"error,omitempty"`
	Data  any    `json:"data,omitempty"`
}

func newResponse(data any) response {
	return response{Code: 0, Data: data}
}

func newErrorResponse(errx errorx.Error) response {
	return response{
		Code:  int64(errx.Code),
		Error: errx.Message,
	}
}

// WriteError writes the error envelope directly to w. It is used by handlers
// that bypass the typed wrappers, such as the websocket endpoint before the
// connection is upgraded.
func WriteError(w http.ResponseWriter, err error) error {
	errx := errorx.Unknown
	if !errors.As(err, &errx) {
		errx = errorx.Unknown
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(errx.Code.StatusCode())

	b, err := json.Marshal(newErrorResponse(errx))
	if err != nil {
		return err
	}

	if _, err := w.Write(b); err != nil {
		return err
	}

	return nil
}
