package middleware

import (
	"context"
	"net"
	"net/http"
	"regexp"

	"github.com/akolanti/DocForm/internal/adapter/utils"
	"github.com/akolanti/DocForm/internal/config"
	"github.com/akolanti/DocForm/internal/handlers"
)

var validSessionID = regexp.MustCompile(`^[A-Za-z0-9-]{16,64}$`)

func injectTrace(re requestResponseStruct) requestResponseStruct {
	re.logger.Debug("Injecting trace middleware")
	req := re.req
	if req == nil {
		//this is a bad request
		re.badRequest.httpCode = http.StatusBadRequest
		re.badRequest.errorMessage = "request is empty"
		re.badRequest.isBadRequest = true
		return re
	}
	trace := req.Header.Get(config.TraceHeader)
	if trace == "" {
		trace = utils.GetNewUUID()
	}
	re.logger = re.logger.With("traceId", trace)
	ctx := context.WithValue(req.Context(), config.TRACE_ID_KEY, trace)
	req.Header.Set(config.TraceHeader, trace)
	re.writer.Header().Set(config.TraceHeader, trace)
	re.req = req.WithContext(ctx)

	re.logger.Debug("trace middleware injected")
	return re
}

// injectSession reads the session cookie and issues a new one when it is
// missing or malformed.
func injectSession(re requestResponseStruct) requestResponseStruct {
	sessionID := ""
	if c, err := re.req.Cookie(config.SessionCookieName); err == nil && validSessionID.MatchString(c.Value) {
		sessionID = c.Value
	}
	if sessionID == "" {
		sessionID = utils.GetNewUUID()
		http.SetCookie(re.writer, &http.Cookie{
			Name:     config.SessionCookieName,
			Value:    sessionID,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
			MaxAge:   int(config.RedisSessionTTL.Seconds()),
		})
		re.logger.Debug("Issued new session")
	}
	re.logger = re.logger.With("sessionId", sessionID)
	re.req = re.req.WithContext(context.WithValue(re.req.Context(), config.SESSION_ID_KEY, sessionID))
	return re
}

func rateLimiter(re requestResponseStruct) requestResponseStruct {
	re.logger.Debug("Rate limiter middleware")
	ip, _, err := net.SplitHostPort(re.req.RemoteAddr)
	if err != nil {
		ip = re.req.RemoteAddr
	}

	if !re.limiter.GetLimiter(ip).Allow() {
		re.logger.Warn("Too many requests", "ip", ip)
		re.badRequest = failureStruct{
			isBadRequest: true,
			httpCode:     http.StatusTooManyRequests,
			errorMessage: "Too many uploads, try again in a moment",
		}
		return re
	}
	re.logger.Debug("Rate limiter middleware authorized")
	return re
}

func handleBadRequest(re requestResponseStruct) {
	re.logger.Warn("Bad request", "httpCode", re.badRequest.httpCode, "errorMessage", re.badRequest.errorMessage, "IP", re.req.RemoteAddr)
	handlers.WriteErrorResponse(re.writer, re.badRequest.httpCode, re.badRequest.errorMessage)
}
