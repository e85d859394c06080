package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/tetherhq/tether/internal/common"
	"github.com/tetherhq/tether/internal/server/models"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type syncRequest struct {
	LocalData json.RawMessage `json:"local_data"`
}

type syncResponse struct {
	ServerData json.RawMessage `json:"server_data"`
}

func (s *HTTPServer) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid request body"})
		return
	}

	_, err := s.users.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorValidation):
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Email and password are required"})
		case errors.Is(err, common.ErrorAlreadyExists):
			writeJSON(w, http.StatusConflict, map[string]string{"message": "Email already registered"})
		default:
			s.logger.Error(r.Context(), "signup failed", "error", err.Error(), "request_id", requestIDFrom(r.Context()))
			writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "Internal error"})
		}
		return
	}

	s.logger.Info(r.Context(), "account created", "email", req.Email, "request_id", requestIDFrom(r.Context()))
	writeJSON(w, http.StatusCreated, map[string]string{"message": "Account created"})
}

func (s *HTTPServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid request body"})
		return
	}

	token, err := s.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			// Deliberately generic: must not reveal whether the email exists.
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"})
			return
		}
		s.logger.Error(r.Context(), "login failed", "error", err.Error(), "request_id", requestIDFrom(r.Context()))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "Internal error"})
		return
	}

	s.logger.Info(r.Context(), "login ok", "email", req.Email, "request_id", requestIDFrom(r.Context()))
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (s *HTTPServer) handleSync(w http.ResponseWriter, r *http.Request, user *models.User) {
	var req syncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid request body"})
		return
	}

	serverData, err := s.users.Sync(r.Context(), user.ID, req.LocalData)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorValidation):
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "local_data must be a JSON value"})
		case errors.Is(err, common.ErrorNotFound):
			s.writeUnauthorized(w, r)
		default:
			s.logger.Error(r.Context(), "sync failed", "error", err.Error(), "request_id", requestIDFrom(r.Context()))
			writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "Internal error"})
		}
		return
	}

	writeJSON(w, http.StatusOK, syncResponse{ServerData: serverData})
}

func (s *HTTPServer) handlePing(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
