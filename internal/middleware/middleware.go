package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/sirupsen/logrus"
)

type Middleware func(http.Handler) http.Handler

// Wrap applies mws to h in order, so the last one sees the request first.
func Wrap(h http.Handler, mws ...Middleware) http.Handler {
	for i, mw := range mws {
		if mw == nil {
			panic(fmt.Sprintf("middleware: nil middleware at %d", i))
		}
		h = mw(h)
	}
	return h
}

// Recover turns a panicking handler into a logged 500 instead of a dropped
// connection. http.ErrAbortHandler is passed through untouched.
func Recover(logger *logrus.Entry) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				v := recover()
				if v == nil {
					return
				}
				if err, ok := v.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(v)
				}
				logger.WithFields(logrus.Fields{
					"panic":  fmt.Sprint(v),
					"method": r.Method,
					"uri":    r.URL.RequestURI(),
					"stack":  string(debug.Stack()),
				}).Error("handler panicked")
				http.Error(w, http.StatusText(http.StatusInternalServerError),
					http.StatusInternalServerError)
			}()
			next.ServeHTTP(w, r)
		})
	}
}
