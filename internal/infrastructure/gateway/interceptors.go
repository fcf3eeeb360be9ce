package gateway

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mordensafety/admin-console/internal/api/metrics"
	"github.com/mordensafety/admin-console/internal/core/domain"
	"github.com/mordensafety/admin-console/internal/core/ports"
)

const (
	headerAuthorization = "Authorization"
	headerRequestID     = "X-Request-ID"
	headerUserAgent     = "User-Agent"
)

// BearerAuth attaches "Authorization: Bearer <token>" when the session holds
// a token. Anonymous requests and requests without a session go out as-is.
func BearerAuth(tokens ports.TokenSource) ports.RequestInterceptor {
	return ports.RequestInterceptorFunc(func(ctx context.Context, req *ports.Request, httpReq *http.Request) error {
		if req.Anonymous {
			return nil
		}
		if token, ok := tokens.CurrentToken(ctx); ok {
			httpReq.Header.Set(headerAuthorization, "Bearer "+token)
		}
		return nil
	})
}

// RequestID tags each request with a fresh X-Request-ID unless the caller
// supplied one.
func RequestID() ports.RequestInterceptor {
	return ports.RequestInterceptorFunc(func(_ context.Context, _ *ports.Request, httpReq *http.Request) error {
		if httpReq.Header.Get(headerRequestID) == "" {
			httpReq.Header.Set(headerRequestID, uuid.NewString())
		}
		return nil
	})
}

func UserAgent(ua string) ports.RequestInterceptor {
	return ports.RequestInterceptorFunc(func(_ context.Context, _ *ports.Request, httpReq *http.Request) error {
		if ua != "" {
			httpReq.Header.Set(headerUserAgent, ua)
		}
		return nil
	})
}

// SessionExpiry tears the session down and sends the operator to login when
// an authenticated request comes back 401. Teardown runs even if the
// caller's context is already cancelled.
func SessionExpiry(sessions ports.SessionManager, nav ports.Navigator, log zerolog.Logger) ports.ResponseHandler {
	return ports.ResponseHandlerFunc(func(ctx context.Context, ex ports.Exchange) {
		if ex.Status != http.StatusUnauthorized || ex.Request == nil || ex.Request.Anonymous {
			return
		}
		ctx = context.WithoutCancel(ctx)

		metrics.SessionExpirationsTotal.Inc()
		if err := sessions.Expire(ctx); err != nil {
			log.Error().Err(err).Str("path", ex.Request.Path).Msg("failed to clear expired session")
		}
		if nav != nil {
			nav.ToLogin(ctx)
		}
	})
}

// ObserveMetrics records every exchange in the gateway counters.
func ObserveMetrics() ports.ResponseHandler {
	return ports.ResponseHandlerFunc(func(_ context.Context, ex ports.Exchange) {
		method := http.MethodGet
		if ex.Request != nil && ex.Request.Method != "" {
			method = ex.Request.Method
		}
		status := "no_response"
		if ex.Status != 0 {
			status = strconv.Itoa(ex.Status)
		}
		metrics.GatewayRequestsTotal.WithLabelValues(method, status).Inc()
		metrics.GatewayRequestDuration.WithLabelValues(method).Observe(ex.Duration.Seconds())
	})
}

// LogExchanges writes one line per exchange: debug on success, warn on HTTP
// errors, error when no response arrived.
func LogExchanges(log zerolog.Logger) ports.ResponseHandler {
	return ports.ResponseHandlerFunc(func(_ context.Context, ex ports.Exchange) {
		var method, path string
		if ex.Request != nil {
			method, path = ex.Request.Method, ex.Request.Path
		}

		var ev *zerolog.Event
		switch {
		case ex.Err == nil:
			ev = log.Debug()
		case errors.Is(ex.Err, domain.ErrNoResponse):
			ev = log.Error().Err(ex.Err)
		default:
			ev = log.Warn().Err(ex.Err)
		}
		ev.Str("method", method).
			Str("path", path).
			Int("status", ex.Status).
			Dur("duration", ex.Duration).
			Msg("backend request")
	})
}
