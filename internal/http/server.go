package httpapp

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/passgate/passgate/internal/auth"
	"github.com/passgate/passgate/internal/config"
	"github.com/passgate/passgate/internal/store"

	_ "github.com/passgate/passgate/docs" // swagger docs

	httpSwagger "github.com/swaggo/http-swagger"
	"github.com/swaggo/swag"
)

// Response messages sent to clients. Internal failures never leak the
// underlying error text; it goes to the log only.
const (
	msgMissingFields = "Missing email or password."
	msgMissingToken  = "Missing token."
	msgDuplicate     = "Email already registered."
	msgBadLogin      = "Invalid email or password."
	msgBadToken      = "Invalid token."
	msgSignupOK      = "Signup successful! Please login."
	msgLoginOK       = "Login successful!"
	msgInternal      = "Internal server error."
)

type Server struct {
	store store.Store
	auth  *auth.Service
	cfg   config.Config
	log   *slog.Logger
}

func NewServer(store store.Store, authSvc *auth.Service, cfg config.Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{store: store, auth: authSvc, cfg: cfg, log: logger}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.setCORS(w)
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	path := r.URL.Path
	switch path {
	case "/signup":
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		s.handleSignup(w, r)
		return
	case "/login":
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		s.handleLogin(w, r)
		return
	case "/validate":
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		s.handleValidate(w, r)
		return
	case "/api/version":
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		s.handleVersion(w, r)
		return
	case "/api/stats":
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		s.handleStats(w, r)
		return
	case "/api/openapi.json":
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		s.serveOpenAPIJSON(w, r)
		return
	}
	if strings.HasPrefix(path, "/swagger/") {
		httpSwagger.WrapHandler.ServeHTTP(w, r)
		return
	}
	s.handleStatic(w, r)
}

func (s *Server) setCORS(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", s.cfg.CORSOrigin)
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// handleSignup godoc
//
//	@Summary		Register an account
//	@Description	Create a new account from an email and password. The password is stored as a salted one-way hash.
//	@Tags			Credentials
//	@Accept			json
//	@Produce		json
//	@Param			credentials	body		object{email=string,password=string}	true	"Account credentials"
//	@Success		201			{object}	map[string]any		"Account created"
//	@Failure		400			{object}	map[string]any		"Missing email or password"
//	@Failure		409			{object}	map[string]any		"Email already registered"
//	@Failure		500			{object}	map[string]any		"Internal error"
//	@Router			/signup [post]
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := readJSON(r.Body, &req); err != nil {
		// Malformed JSON is treated the same as missing fields.
		writeFailure(w, http.StatusBadRequest, msgMissingFields)
		return
	}

	account, err := s.auth.Signup(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrMissingFields):
			writeFailure(w, http.StatusBadRequest, msgMissingFields)
		case errors.Is(err, store.ErrDuplicateEmail):
			s.log.Info("signup rejected", "email", req.Email, "reason", "duplicate")
			writeFailure(w, http.StatusConflict, msgDuplicate)
		default:
			s.log.Error("signup failed", "email", req.Email, "err", err)
			writeFailure(w, http.StatusInternalServerError, msgInternal)
		}
		return
	}

	s.log.Info("signup", "email", account.Email, "account_id", account.ID)
	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": msgSignupOK,
	})
}

// handleLogin godoc
//
//	@Summary		Authenticate and get a bearer token
//	@Description	Verify credentials and return the account's bearer token. The first successful login mints the token; later logins return the same value.
//	@Tags			Credentials
//	@Accept			json
//	@Produce		json
//	@Param			credentials	body		object{email=string,password=string}	true	"Account credentials"
//	@Success		200			{object}	map[string]any		"Token issued"
//	@Failure		400			{object}	map[string]any		"Missing email or password"
//	@Failure		401			{object}	map[string]any		"Invalid email or password"
//	@Failure		500			{object}	map[string]any		"Internal error"
//	@Router			/login [post]
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, msgMissingFields)
		return
	}

	account, token, err := s.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrMissingFields):
			writeFailure(w, http.StatusBadRequest, msgMissingFields)
		case errors.Is(err, auth.ErrInvalidCredentials):
			s.log.Info("login rejected", "email", req.Email)
			writeFailure(w, http.StatusUnauthorized, msgBadLogin)
		default:
			s.log.Error("login failed", "email", req.Email, "err", err)
			writeFailure(w, http.StatusInternalServerError, msgInternal)
		}
		return
	}

	s.log.Info("login", "email", account.Email, "account_id", account.ID)
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": msgLoginOK,
		"token":   token,
	})
}

// handleValidate godoc
//
//	@Summary		Validate a bearer token
//	@Description	Resolve a bearer token to the email of the account it was issued to.
//	@Tags			Credentials
//	@Accept			json
//	@Produce		json
//	@Param			token	body		object{token=string}	true	"Bearer token"
//	@Success		200		{object}	map[string]any	"Token is valid"
//	@Failure		400		{object}	map[string]any	"Missing token"
//	@Failure		401		{object}	map[string]any	"Invalid token"
//	@Failure		500		{object}	map[string]any	"Internal error"
//	@Router			/validate [post]
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token string `json:"token"`
	}
	if err := readJSON(r.Body, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, msgMissingToken)
		return
	}

	account, err := s.auth.Validate(r.Context(), req.Token)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrMissingToken):
			writeFailure(w, http.StatusBadRequest, msgMissingToken)
		case errors.Is(err, auth.ErrInvalidToken):
			writeFailure(w, http.StatusUnauthorized, msgBadToken)
		default:
			s.log.Error("validate failed", "err", err)
			writeFailure(w, http.StatusInternalServerError, msgInternal)
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"email":   account.Email,
	})
}

// handleStats godoc
//
//	@Summary		Get service statistics
//	@Description	Get counts of registered accounts and issued tokens.
//	@Tags			Stats
//	@Produce		json
//	@Success		200	{object}	map[string]any	"Service statistics"
//	@Router			/api/stats [get]
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.GetStats(r.Context())
	if err != nil {
		s.log.Error("stats failed", "err", err)
		writeFailure(w, http.StatusInternalServerError, msgInternal)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"accounts":      stats.Accounts,
		"tokens_issued": stats.TokensIssued,
	})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"version":    s.cfg.Version,
		"commit":     s.cfg.Commit,
		"build_time": s.cfg.BuildTime,
	})
}

func (s *Server) serveOpenAPIJSON(w http.ResponseWriter, r *http.Request) {
	doc, err := swag.ReadDoc()
	if err != nil {
		s.log.Error("openapi doc failed", "err", err)
		writeFailure(w, http.StatusInternalServerError, msgInternal)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Write([]byte(doc))
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeFailure(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{
		"success": false,
		"message": message,
	})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeFailure(w, http.StatusMethodNotAllowed, "Method not allowed.")
}

func notFound(w http.ResponseWriter) {
	writeFailure(w, http.StatusNotFound, "Not found.")
}

func readJSON(body io.ReadCloser, dest any) error {
	defer body.Close()
	return json.NewDecoder(body).Decode(dest)
}
