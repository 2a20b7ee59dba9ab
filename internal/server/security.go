package server

import (
	"crypto/subtle"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/predictarena/predictarena/internal/logger"
)

// AuthMiddleware validates the API key on every request outside PublicPaths.
// Failed attempts are recorded per client IP so repeated probing shows up in
// the security log.
func AuthMiddleware(apiKey string, trustedProxies []string, detector *SuspiciousActivityDetector) func(http.Handler) http.Handler {
	proxies := newProxySet(trustedProxies)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, path := range PublicPaths {
				if strings.HasPrefix(r.URL.Path, path) {
					next.ServeHTTP(w, r)
					return
				}
			}

			providedKey := r.Header.Get(HeaderAPIKey)

			// Constant time comparison to prevent timing attacks
			if subtle.ConstantTimeCompare([]byte(providedKey), []byte(apiKey)) != 1 {
				ip := extractIP(r, proxies)
				detector.RecordFailedAuth(ip)

				logger.FromContext(r.Context()).Warn(LogMsgAuthFailed,
					"remote_addr", r.RemoteAddr,
					"path", r.URL.Path,
					"has_key", providedKey != "",
					"ip", ip)

				http.Error(w, ErrMsgUnauthorized, http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequestSizeLimitMiddleware caps request body size; settle and predict
// payloads are small, so anything near the cap is abuse.
func RequestSizeLimitMiddleware(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

// ipActivity accumulates per-IP counters inside the current window.
type ipActivity struct {
	failedAuth int
	requests   int
}

// SuspiciousActivityDetector tracks per-IP auth failures and request rates
// over a sliding window and alerts when thresholds are crossed.
type SuspiciousActivityDetector struct {
	mu          sync.Mutex
	activity    map[string]*ipActivity
	windowStart time.Time
}

func NewSuspiciousActivityDetector() *SuspiciousActivityDetector {
	return &SuspiciousActivityDetector{
		activity:    make(map[string]*ipActivity),
		windowStart: time.Now(),
	}
}

// record returns the activity entry for ip, rolling the window when stale.
// Caller must hold the mutex.
func (s *SuspiciousActivityDetector) record(ip string) *ipActivity {
	if time.Since(s.windowStart) > RateLimitWindow {
		s.activity = make(map[string]*ipActivity)
		s.windowStart = time.Now()
	}
	a, ok := s.activity[ip]
	if !ok {
		a = &ipActivity{}
		s.activity[ip] = a
	}
	return a
}

// RecordFailedAuth records a failed authentication attempt
func (s *SuspiciousActivityDetector) RecordFailedAuth(ip string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a := s.record(ip)
	a.failedAuth++

	if a.failedAuth >= FailedAuthAlertThreshold {
		slog.Warn(SecurityAlertFailedAuth,
			"ip", ip,
			"count", a.failedAuth)
	}
}

// RecordRequest counts a request against the window and reports whether the
// client is still under the rate limit.
func (s *SuspiciousActivityDetector) RecordRequest(ip string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	a := s.record(ip)
	a.requests++

	if a.requests > RateLimitMaxRequests {
		// Log every Nth blocked request to avoid log spam
		if a.requests%rateLimitLogInterval == 0 {
			slog.Warn(SecurityAlertHighRate,
				"ip", ip,
				"count_in_window", a.requests)
		}
		return false
	}
	return true
}

// SecurityLoggingMiddleware records per-IP request counts and rejects
// clients over the rate limit.
func SecurityLoggingMiddleware(trustedProxies []string, detector *SuspiciousActivityDetector) func(http.Handler) http.Handler {
	proxies := newProxySet(trustedProxies)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := extractIP(r, proxies)

			if !detector.RecordRequest(ip) {
				http.Error(w, ErrMsgTooManyRequests, http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

type proxySet map[string]struct{}

func newProxySet(trustedProxies []string) proxySet {
	set := make(proxySet, len(trustedProxies))
	for _, p := range trustedProxies {
		set[p] = struct{}{}
	}
	return set
}

// extractIP gets the client IP address from the request. X-Forwarded-For is
// honored only when the direct peer is a trusted proxy.
func extractIP(r *http.Request, proxies proxySet) string {
	remoteIP, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		remoteIP = r.RemoteAddr
	}

	if _, trusted := proxies[remoteIP]; trusted {
		if forwarded := r.Header.Get(HeaderForwardedFor); forwarded != "" {
			// X-Forwarded-For: client, proxy1, proxy2 - take the rightmost
			// entry, the hop our trusted proxy actually saw.
			ips := strings.Split(forwarded, ",")
			return strings.TrimSpace(ips[len(ips)-1])
		}
	}

	return remoteIP
}

// SecurityHeadersMiddleware adds security headers to responses
func SecurityHeadersMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set(HeaderContentType, HeaderValueNoSniff)
			w.Header().Set(HeaderFrameOptions, HeaderValueSameOrigin)
			w.Header().Set(HeaderXSSProtection, HeaderValueXSSBlock)
			w.Header().Set(HeaderReferrerPolicy, HeaderValueReferrerStrictOrigin)

			next.ServeHTTP(w, r)
		})
	}
}
