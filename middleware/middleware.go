// Copyright (c) 2026 Kyle McDowell.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/kylemcd/tablepick/models"
	"github.com/kylemcd/tablepick/party"
	"github.com/kylemcd/tablepick/store"
)

// WithLogging wraps a handler with request logging
func WithLogging(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Log request
		slog.Info("request started",
			"method", r.Method,
			"path", r.URL.Path,
			"remote", r.RemoteAddr,
		)

		// Call the next handler
		next(w, r)

		// Log completion
		duration := time.Since(start)
		slog.Info("request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"duration_ms", duration.Milliseconds(),
		)
	}
}

// JSONResonse writes a JSON response
func JSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	err := json.NewEncoder(w).Encode(data)
	if err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// ErrorResponse writes a JSON error response
func ErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	JSONResponse(w, statusCode, models.ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	})
}

// ErrorFrom maps domain errors onto HTTP statuses and writes the response.
// Unrecognized errors become a 500 without leaking their text.
func ErrorFrom(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		ErrorResponse(w, http.StatusNotFound, err.Error())
	case errors.Is(err, party.ErrDinerNotFound):
		ErrorResponse(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, party.ErrInvalidMode),
		errors.Is(err, party.ErrInvalidVote),
		errors.Is(err, party.ErrEmptyRoster),
		errors.Is(err, party.ErrEmptyShortlist),
		errors.Is(err, party.ErrNoEliminators),
		errors.Is(err, party.ErrNotInShortlist),
		errors.Is(err, party.ErrEmptyPick):
		ErrorResponse(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, party.ErrVotingStarted),
		errors.Is(err, party.ErrAlreadyMatched),
		errors.Is(err, party.ErrHandoffPending),
		errors.Is(err, party.ErrNoHandoffPending),
		errors.Is(err, party.ErrRoundComplete),
		errors.Is(err, party.ErrNotRoundComplete),
		errors.Is(err, party.ErrExhausted),
		errors.Is(err, party.ErrNotExhausted),
		errors.Is(err, party.ErrEliminationStarted),
		errors.Is(err, party.ErrNoElimination):
		ErrorResponse(w, http.StatusConflict, err.Error())
	case errors.Is(err, party.ErrNotActiveVoter):
		ErrorResponse(w, http.StatusForbidden, err.Error())
	default:
		slog.Error("internal error", "error", err)
		ErrorResponse(w, http.StatusInternalServerError, "Internal error")
	}
}

// ParseJSONBody parses the request body into the given struct
func ParseJSONBody(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return err
	}
	return nil
}

// CORS middleware allows cross-origin requests from the frontend
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Allow requests from Vite dev server and production domains
		origin := r.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}

		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Host-Key, X-Device-UUID, X-Diner-Token")
		w.Header().Set("Access-Control-Allow-Credentials", "true")

		// Handle preflight requests
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// GetClientIP extracts the client IP address
// Checks X-Forwarded-For, X-Real-IP, then falls back to RemoteAddr
func GetClientIP(r *http.Request) string {
	// Check X-Forwarded-For (load balancers)
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// Take first IP in chain
		for i := 0; i < len(xff); i++ {
			if xff[i] == ',' || xff[i] == ' ' {
				return xff[:i]
			}
		}
		return xff
	}

	// Check X-Real-IP (nginx)
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	// Fall back to RemoteAddr
	// Strip port if present
	addr := r.RemoteAddr
	for i := len(addr) - 1; i >= 0; i-- {
		if addr[i] == ':' {
			return addr[:i]
		}
	}
	return addr
}
