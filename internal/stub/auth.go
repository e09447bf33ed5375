package stub

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/vibeflo/vibeflo-go/pkg/models"
)

func (s *Service) handleRegister(w http.ResponseWriter, r *http.Request) {
	var input models.RegisterInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if input.Username == "" || input.Email == "" || len(input.Password) < 8 {
		writeError(w, http.StatusBadRequest, "username, email, and a password of at least 8 characters are required")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to hash password")
		return
	}

	s.mu.Lock()
	for _, acct := range s.accounts {
		if acct.user.Username == input.Username || acct.user.Email == input.Email {
			s.mu.Unlock()
			writeError(w, http.StatusConflict, "username or email already taken")
			return
		}
	}

	user := models.User{
		ID:        s.allocID(),
		Name:      input.Name,
		Username:  input.Username,
		Email:     input.Email,
		CreatedAt: s.now().Format(time.RFC3339),
	}
	s.accounts[user.ID] = &account{user: user, passwordHash: hash}

	token := uuid.NewString()
	s.tokens[token] = user.ID
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, models.AuthResponse{Token: token, User: user})
}

func (s *Service) handleLogin(w http.ResponseWriter, r *http.Request) {
	var input models.LoginInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	var acct *account
	login := strings.ToLower(input.Login)
	for _, candidate := range s.accounts {
		if strings.ToLower(candidate.user.Username) == login ||
			strings.ToLower(candidate.user.Email) == login {
			acct = candidate
			break
		}
	}
	s.mu.Unlock()

	if acct == nil || bcrypt.CompareHashAndPassword(acct.passwordHash, []byte(input.Password)) != nil {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token := uuid.NewString()
	s.mu.Lock()
	s.tokens[token] = acct.user.ID
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, models.AuthResponse{Token: token, User: acct.user})
}

func (s *Service) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	acct, ok := s.accounts[requestUser(r)]
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "no such user")
		return
	}
	writeJSON(w, http.StatusOK, acct.user)
}

func (s *Service) handleLogout(w http.ResponseWriter, r *http.Request) {
	auth := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(auth, "Bearer "); ok {
		s.mu.Lock()
		delete(s.tokens, token)
		s.mu.Unlock()
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}
