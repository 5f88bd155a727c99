package middleware

import (
	"bytes"
	"context"
	"net/http"
	"sync"
	"time"
)

// Timeout wraps an http.Handler and applies a request timeout.
// The handler runs against a buffered writer; its output is flushed
// to the client only if it finishes in time. If the deadline passes
// first, a 503 Service Unavailable response is sent and anything the
// handler writes afterwards stays in the buffer.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			done := make(chan struct{})
			buf := &bufferedWriter{
				header: make(http.Header),
				status: http.StatusOK,
			}

			go func() {
				next.ServeHTTP(buf, r.WithContext(ctx))
				close(done)
			}()

			select {
			case <-done:
				buf.flush(w)
			case <-ctx.Done():
				buf.discard()
				w.Header().Set("Content-Type", "text/plain; charset=utf-8")
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte("Request timeout"))
			}
		})
	}
}

// bufferedWriter collects the handler's response in memory so a timed-out
// handler never races the timeout response on the real connection.
type bufferedWriter struct {
	mu        sync.Mutex
	header    http.Header
	body      bytes.Buffer
	status    int
	timedOut  bool
	wroteOnce bool
}

func (bw *bufferedWriter) Header() http.Header {
	return bw.header
}

func (bw *bufferedWriter) WriteHeader(code int) {
	bw.mu.Lock()
	defer bw.mu.Unlock()
	if !bw.wroteOnce {
		bw.wroteOnce = true
		bw.status = code
	}
}

func (bw *bufferedWriter) Write(b []byte) (int, error) {
	bw.mu.Lock()
	defer bw.mu.Unlock()
	if bw.timedOut {
		return 0, http.ErrHandlerTimeout
	}
	bw.wroteOnce = true
	return bw.body.Write(b)
}

func (bw *bufferedWriter) flush(w http.ResponseWriter) {
	bw.mu.Lock()
	defer bw.mu.Unlock()
	dst := w.Header()
	for k, v := range bw.header {
		dst[k] = v
	}
	w.WriteHeader(bw.status)
	_, _ = w.Write(bw.body.Bytes())
}

func (bw *bufferedWriter) discard() {
	bw.mu.Lock()
	defer bw.mu.Unlock()
	bw.timedOut = true
}
