package middleware

import (
	"net/http"
	"strconv"

	"github.com/akolanti/DocForm/internal/metrics"
	"github.com/akolanti/DocForm/pkg/logger_i"
)

type requestResponseStruct struct {
	writer     http.ResponseWriter
	req        *http.Request
	badRequest failureStruct
	logger     *logger_i.Logger
	limiter    *IPRateLimiter
}

type failureStruct struct {
	isBadRequest bool
	httpCode     int
	errorMessage string
}

type step func(requestResponseStruct) requestResponseStruct

// Wrap adds the trace id and request metrics.
func Wrap(next http.HandlerFunc) http.HandlerFunc {
	return chain(next, nil, injectTrace)
}

// WrapSession also attaches the browser session.
func WrapSession(next http.HandlerFunc) http.HandlerFunc {
	return chain(next, nil, injectTrace, injectSession)
}

// WrapLimited is WrapSession behind the per-IP rate limiter.
func WrapLimited(limiter *IPRateLimiter, next http.HandlerFunc) http.HandlerFunc {
	return chain(next, limiter, injectTrace, injectSession, rateLimiter)
}

func chain(next http.HandlerFunc, limiter *IPRateLimiter, steps ...step) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &metrics.HttpStatusRecorder{ResponseWriter: w, Status: 200} //metrics
		re := processRequest(requestResponseStruct{req: r, writer: rec, limiter: limiter}, steps)

		if !re.badRequest.isBadRequest {
			next(rec, re.req)
		}

		metrics.HttpRequestsTotal.WithLabelValues(r.URL.Path, strconv.Itoa(rec.Status)).Inc() //metrics
	}
}

func processRequest(re requestResponseStruct, steps []step) requestResponseStruct {
	re.logger = logger_i.NewLogger("middleware")
	re.logger.Debug("New request received", "method", re.req.Method, "path", re.req.URL.Path)
	for _, s := range steps {
		re = s(re)
		if re.badRequest.isBadRequest {
			handleBadRequest(re)
			return re
		}
	}
	return re
}
