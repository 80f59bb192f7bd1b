package httpapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"taskdeck.dev/internal/audit"
	"taskdeck.dev/internal/auth"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

const (
	usernameMinLen = 3
	usernameMaxLen = 20
	passwordMinLen = 8
	passwordMaxLen = 20
)

func validateCredentials(req *credentialsRequest) map[string]string {
	req.Username = strings.TrimSpace(req.Username)
	fields := make(map[string]string)

	switch n := len(req.Username); {
	case n == 0:
		fields["username"] = "username is required"
	case n < usernameMinLen || n > usernameMaxLen:
		fields["username"] = "username must contain between 3 and 20 characters"
	}
	switch n := len(req.Password); {
	case n == 0:
		fields["password"] = "password is required"
	case n < passwordMinLen || n > passwordMaxLen:
		fields["password"] = "password must contain between 8 and 20 characters"
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

func (a *API) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}

	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if fields := validateCredentials(&req); fields != nil {
		writeError(w, r, http.StatusBadRequest, fields)
		return
	}

	session, err := a.auth.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrUsernameTaken) {
			writeError(w, r, http.StatusConflict, "username already taken")
			return
		}
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}

	_ = audit.LogEvent(r.Context(), "auth.register", map[string]any{
		"username": session.Principal.Username,
		"user_id":  session.Principal.ID.String(),
	})

	writeJSON(w, http.StatusCreated, authResponse{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
	})
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}

	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if fields := validateCredentials(&req); fields != nil {
		writeError(w, r, http.StatusBadRequest, fields)
		return
	}

	session, err := a.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		// Unknown username and wrong password are indistinguishable here.
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeError(w, r, http.StatusUnauthorized, "invalid username or password")
			return
		}
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}

	_ = audit.LogEvent(r.Context(), "auth.login", map[string]any{
		"username": session.Principal.Username,
		"user_id":  session.Principal.ID.String(),
	})

	writeJSON(w, http.StatusOK, authResponse{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
	})
}
