// ABOUTME: Query endpoint handler: rate check, retrieve, assemble, stream
// ABOUTME: Errors before the first fragment get a JSON body and non-2xx status
package server

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

type queryRequest struct {
	Query string `json:"query"`
	K     int    `json:"k,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// handleQuery runs the full online path. Retrieval completes before the
// completion call begins; fragments are flushed to the client as they
// arrive. Once streaming has started a mid-stream failure can only be
// logged, so the response is cut short rather than silently padded out.
func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Query = strings.TrimSpace(req.Query)
	if req.Query == "" {
		s.writeError(w, http.StatusBadRequest, "query is required")
		return
	}

	identity := clientIdentity(r)
	if !s.limiter.Allow(identity) {
		s.writeError(w, http.StatusTooManyRequests, "rate limit exceeded, retry after the window clears")
		return
	}

	ctx := r.Context()

	results, err := s.retriever.Retrieve(ctx, req.Query, req.K)
	if err != nil {
		s.logger.Error("retrieval failed", zap.String("query", req.Query), zap.Error(err))
		s.writeError(w, http.StatusBadGateway, "retrieval failed")
		return
	}

	prompt := s.assembler.Assemble(results, s.persona)
	fragments, errc := s.completer.Stream(ctx, prompt, req.Query)

	flusher, _ := w.(http.Flusher)
	started := false

	for fragment := range fragments {
		if !started {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.WriteHeader(http.StatusOK)
			started = true
		}
		if _, err := w.Write([]byte(fragment)); err != nil {
			// Client went away; the request context cancels the stream.
			return
		}
		if flusher != nil {
			flusher.Flush()
		}
	}

	select {
	case err := <-errc:
		if err != nil {
			s.logger.Error("completion failed", zap.Bool("mid_stream", started), zap.Error(err))
			if !started {
				s.writeError(w, http.StatusBadGateway, "completion failed")
			}
		}
	default:
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: message})
}

// clientIdentity picks the rate-limit key for a request: the real client IP
// when middleware resolved one, otherwise the bare remote address.
func clientIdentity(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
