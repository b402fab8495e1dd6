package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"futonsband/internal/app"
	"futonsband/internal/ratelimit"
	"futonsband/internal/storage"
	"futonsband/internal/util"
	"futonsband/pkg/auth"
	"futonsband/pkg/domain"
)

// Config wires required dependencies for the HTTP server.
type Config struct {
	App                        *app.App
	Images                     storage.ImageStore
	RedisAddr                  string
	RedisPassword              string
	RegisterRateLimitPerMinute int
	LoginRateLimitPerMinute    int
	MaxUploadBytes             int64
}

// Server exposes the band website's HTTP API.
type Server struct {
	app             *app.App
	images          storage.ImageStore
	mux             *http.ServeMux
	maxUploadBytes  int64
	registerLimiter *ratelimit.FixedWindowLimiter
	loginLimiter    *ratelimit.FixedWindowLimiter
}

// New constructs the server with routes configured. Rate limiting is
// enabled only when a Redis address is provided.
func New(cfg Config) (*Server, error) {
	if cfg.App == nil {
		return nil, fmt.Errorf("app is required")
	}
	registerLimit := cfg.RegisterRateLimitPerMinute
	if registerLimit <= 0 {
		registerLimit = 5
	}
	loginLimit := cfg.LoginRateLimitPerMinute
	if loginLimit <= 0 {
		loginLimit = 10
	}
	var registerLimiter, loginLimiter *ratelimit.FixedWindowLimiter
	if cfg.RedisAddr != "" {
		var err error
		registerLimiter, err = ratelimit.NewRedisFixedWindowLimiter(cfg.RedisAddr, cfg.RedisPassword, "futons:ratelimit:register", registerLimit, time.Minute)
		if err != nil {
			return nil, fmt.Errorf("init register limiter: %w", err)
		}
		loginLimiter, err = ratelimit.NewRedisFixedWindowLimiter(cfg.RedisAddr, cfg.RedisPassword, "futons:ratelimit:login", loginLimit, time.Minute)
		if err != nil {
			return nil, fmt.Errorf("init login limiter: %w", err)
		}
	}
	s := &Server{
		app:             cfg.App,
		images:          cfg.Images,
		mux:             http.NewServeMux(),
		maxUploadBytes:  normalizeMaxBytes(cfg.MaxUploadBytes),
		registerLimiter: registerLimiter,
		loginLimiter:    loginLimiter,
	}
	s.routes()
	return s, nil
}

// Router returns the configured handler.
func (s *Server) Router() http.Handler {
	return util.WithRequestID(util.WithRequestLog(util.WithSecurityHeaders(util.WithCORS(s.mux))))
}

func (s *Server) routes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	// identity
	s.mux.HandleFunc("/api/register", s.handleRegister)
	s.mux.HandleFunc("/api/login", s.handleLogin)
	s.mux.Handle("/api/verify-token", s.authenticated(s.handleVerifyToken))
	s.mux.Handle("/api/newsletter-preference", s.authenticated(s.handleNewsletterPreference))

	// public content
	s.mux.HandleFunc("/api/concerts", s.handleConcerts)
	s.mux.HandleFunc("/api/concerts/", s.handleConcertByID)
	s.mux.HandleFunc("/api/songs", s.handleSongs)
	s.mux.HandleFunc("/api/songs/", s.handleSongByID)
	s.mux.HandleFunc("/api/albums", s.handleAlbums)
	s.mux.HandleFunc("/api/albums/", s.handleAlbumByID)
	s.mux.HandleFunc("/api/contact", s.handleContact)

	// admin & authenticated extras
	s.mux.Handle("/api/contacts", s.adminOnly(s.handleListContacts))
	s.mux.Handle("/api/send-newsletter", s.adminOnly(s.handleSendNewsletter))
	s.mux.Handle("/api/upload", s.authenticated(s.handleUpload))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Band API is running",
	})
}

// auth wrappers
type authHandler func(http.ResponseWriter, *http.Request, domain.User)

func (s *Server) authenticated(next authHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := s.authorize(w, r)
		if !ok {
			return
		}
		next(w, r, user)
	})
}

func (s *Server) adminOnly(next authHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := s.authorize(w, r)
		if !ok {
			return
		}
		if err := s.app.RequireAdmin(user); err != nil {
			s.audit(r, "admin.authorize", "fail", "user_id", user.ID, "reason", "forbidden")
			writeError(w, http.StatusForbidden, "Admin access required")
			return
		}
		next(w, r, user)
	})
}

// authorize resolves the bearer token to a user, writing the error response
// itself on failure. A missing token is 401; a bad one is 403.
func (s *Server) authorize(w http.ResponseWriter, r *http.Request) (domain.User, bool) {
	token, ok := bearerToken(r)
	if !ok {
		s.audit(r, "token.verify", "fail", "reason", "missing_token")
		writeError(w, http.StatusUnauthorized, "No token provided")
		return domain.User{}, false
	}
	user, err := s.app.UserFromToken(token)
	if err != nil {
		s.audit(r, "token.verify", "fail", "reason", "invalid_token")
		writeError(w, http.StatusForbidden, "Invalid or expired token")
		return domain.User{}, false
	}
	return user, true
}

// identity handlers

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	if !s.allowRate(w, r, s.registerLimiter, "too many registration attempts") {
		s.audit(r, "register", "rate_limited")
		return
	}
	var req registerRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	user, err := s.app.Register(req.Name, req.Email, req.Password, req.Newsletter)
	if err != nil {
		s.audit(r, "register", "fail", "reason", err.Error())
		s.writeAppError(w, r, err)
		return
	}
	s.audit(r, "register", "success", "user_id", user.ID)
	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "User registered successfully",
		"userId":  user.ID,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	if !s.allowRate(w, r, s.loginLimiter, "too many login attempts") {
		s.audit(r, "login", "rate_limited")
		return
	}
	var req loginRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	user, token, err := s.app.Login(req.Email, req.Password)
	if err != nil {
		s.audit(r, "login", "fail", "reason", err.Error())
		s.writeAppError(w, r, err)
		return
	}
	s.audit(r, "login", "success", "user_id", user.ID)
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"token":   token,
		"user":    user,
	})
}

func (s *Server) handleVerifyToken(w http.ResponseWriter, r *http.Request, user domain.User) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"user":    user,
	})
}

func (s *Server) handleNewsletterPreference(w http.ResponseWriter, r *http.Request, user domain.User) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var req newsletterPreferenceRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Subscribed == nil {
		writeError(w, http.StatusBadRequest, "subscribed is required")
		return
	}
	updated, err := s.app.SetNewsletterPreference(user.ID, *req.Subscribed)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"user":    updated,
	})
}

// concerts

func (s *Server) handleConcerts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		concerts, err := s.app.ListConcerts()
		if err != nil {
			s.writeAppError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success":  true,
			"concerts": concerts,
		})
	case http.MethodPost:
		s.adminOnly(s.handleCreateConcert).ServeHTTP(w, r)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleCreateConcert(w http.ResponseWriter, r *http.Request, user domain.User) {
	var req app.ConcertInput
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	concert, err := s.app.CreateConcert(r.Context(), req)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	s.audit(r, "concert.create", "success", "user_id", user.ID, "concert_id", concert.ID)
	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"concert": concert,
	})
}

func (s *Server) handleConcertByID(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "/api/concerts/")
	if id == "" {
		http.NotFound(w, r)
		return
	}
	s.adminOnly(func(w http.ResponseWriter, r *http.Request, user domain.User) {
		switch r.Method {
		case http.MethodPut:
			var req app.ConcertUpdate
			if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, "invalid JSON body")
				return
			}
			concert, err := s.app.UpdateConcert(id, req)
			if err != nil {
				s.writeAppError(w, r, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{
				"success": true,
				"concert": concert,
			})
		case http.MethodDelete:
			if err := s.app.DeleteConcert(id); err != nil {
				s.writeAppError(w, r, err)
				return
			}
			s.audit(r, "concert.delete", "success", "user_id", user.ID, "concert_id", id)
			writeJSON(w, http.StatusOK, map[string]any{
				"success": true,
				"message": "Concert deleted successfully",
			})
		default:
			methodNotAllowed(w)
		}
	}).ServeHTTP(w, r)
}

// songs

func (s *Server) handleSongs(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		songs, err := s.app.ListSongs()
		if err != nil {
			s.writeAppError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"songs":   songs,
		})
	case http.MethodPost:
		s.adminOnly(s.handleCreateSong).ServeHTTP(w, r)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleCreateSong(w http.ResponseWriter, r *http.Request, user domain.User) {
	var req app.SongInput
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	song, err := s.app.CreateSong(r.Context(), req)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	s.audit(r, "song.create", "success", "user_id", user.ID, "song_id", song.ID)
	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"song":    song,
	})
}

func (s *Server) handleSongByID(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "/api/songs/")
	if id == "" {
		http.NotFound(w, r)
		return
	}
	s.adminOnly(func(w http.ResponseWriter, r *http.Request, user domain.User) {
		switch r.Method {
		case http.MethodPut:
			var req app.SongUpdate
			if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, "invalid JSON body")
				return
			}
			song, err := s.app.UpdateSong(id, req)
			if err != nil {
				s.writeAppError(w, r, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{
				"success": true,
				"song":    song,
			})
		case http.MethodDelete:
			if err := s.app.DeleteSong(id); err != nil {
				s.writeAppError(w, r, err)
				return
			}
			s.audit(r, "song.delete", "success", "user_id", user.ID, "song_id", id)
			writeJSON(w, http.StatusOK, map[string]any{
				"success": true,
				"message": "Song deleted successfully",
			})
		default:
			methodNotAllowed(w)
		}
	}).ServeHTTP(w, r)
}

// albums

func (s *Server) handleAlbums(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		albums, err := s.app.ListAlbums()
		if err != nil {
			s.writeAppError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, albums)
	case http.MethodPost:
		s.authenticated(s.handleCreateAlbum).ServeHTTP(w, r)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleCreateAlbum(w http.ResponseWriter, r *http.Request, user domain.User) {
	var req app.AlbumInput
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	album, err := s.app.CreateAlbum(req)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	s.audit(r, "album.create", "success", "user_id", user.ID, "album_id", album.ID)
	writeJSON(w, http.StatusCreated, album)
}

// handleAlbumByID serves /api/albums/{id} and /api/albums/{id}/photos.
func (s *Server) handleAlbumByID(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/albums/")
	parts := strings.SplitN(path, "/", 2)
	id := parts[0]
	if id == "" {
		http.NotFound(w, r)
		return
	}
	if len(parts) == 2 && parts[1] != "photos" {
		http.NotFound(w, r)
		return
	}
	photos := len(parts) == 2

	s.authenticated(func(w http.ResponseWriter, r *http.Request, user domain.User) {
		if photos {
			s.handleAlbumPhotos(w, r, id)
			return
		}
		switch r.Method {
		case http.MethodPut:
			var req app.AlbumUpdate
			if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, "invalid JSON body")
				return
			}
			album, err := s.app.UpdateAlbum(id, req)
			if err != nil {
				s.writeAppError(w, r, err)
				return
			}
			writeJSON(w, http.StatusOK, album)
		case http.MethodDelete:
			if err := s.app.DeleteAlbum(id); err != nil {
				s.writeAppError(w, r, err)
				return
			}
			s.audit(r, "album.delete", "success", "user_id", user.ID, "album_id", id)
			writeJSON(w, http.StatusOK, map[string]any{
				"success": true,
				"message": "Album deleted successfully",
			})
		default:
			methodNotAllowed(w)
		}
	}).ServeHTTP(w, r)
}

func (s *Server) handleAlbumPhotos(w http.ResponseWriter, r *http.Request, albumID string) {
	var req photoRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	var (
		album domain.Album
		err   error
	)
	switch r.Method {
	case http.MethodPost:
		album, err = s.app.AddPhoto(albumID, req.PhotoPath)
	case http.MethodDelete:
		album, err = s.app.RemovePhoto(albumID, req.PhotoPath)
	default:
		methodNotAllowed(w)
		return
	}
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, album)
}

// uploads

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request, user domain.User) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	if s.images == nil {
		writeError(w, http.StatusNotImplemented, "image uploads are not configured")
		return
	}
	if s.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	}
	if err := r.ParseMultipartForm(8 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form data")
		return
	}
	file, header, err := r.FormFile("photo")
	if err != nil {
		writeError(w, http.StatusBadRequest, "photo is required (field: photo)")
		return
	}
	defer file.Close()
	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		writeError(w, http.StatusBadRequest, "only image uploads are allowed")
		return
	}
	path, err := s.images.Save(r.Context(), header.Filename, contentType, file, header.Size)
	if err != nil {
		s.audit(r, "upload", "fail", "user_id", user.ID, "reason", err.Error())
		s.writeAppError(w, r, err)
		return
	}
	s.audit(r, "upload", "success", "user_id", user.ID)
	writeJSON(w, http.StatusCreated, map[string]any{
		"success":   true,
		"imagePath": path,
	})
}

// contact

func (s *Server) handleContact(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var req contactRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if _, err := s.app.SubmitContact(r.Context(), req.Name, req.Email, req.Message); err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "Message received! We'll get back to you soon.",
	})
}

func (s *Server) handleListContacts(w http.ResponseWriter, r *http.Request, _ domain.User) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	contacts, err := s.app.ListContacts()
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"contacts": contacts,
	})
}

// newsletter

// handleSendNewsletter accepts either a free-form broadcast
// ({subject, message}) or a structured new-concert blast
// ({type: "new-concert", data: {...}}).
func (s *Server) handleSendNewsletter(w http.ResponseWriter, r *http.Request, user domain.User) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var req sendNewsletterRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	var (
		count int
		err   error
	)
	if req.Type == "new-concert" {
		count, err = s.app.BroadcastNewConcert(r.Context(), req.Data)
	} else {
		count, err = s.app.BroadcastMessage(r.Context(), req.Subject, req.Message)
	}
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	s.audit(r, "newsletter.send", "success", "user_id", user.ID, "recipients", count)
	writeJSON(w, http.StatusOK, map[string]any{
		"success":         true,
		"message":         "Newsletter sent",
		"subscriberCount": count,
	})
}

// request/response bodies

type registerRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Newsletter bool   `json:"newsletterSubscribed"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type newsletterPreferenceRequest struct {
	Subscribed *bool `json:"subscribed"`
}

type photoRequest struct {
	PhotoPath string `json:"photoPath"`
}

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

type sendNewsletterRequest struct {
	Type    string         `json:"type"`
	Data    domain.Concert `json:"data"`
	Subject string         `json:"subject"`
	Message string         `json:"message"`
}

// helpers

func pathID(r *http.Request, prefix string) string {
	id := strings.TrimPrefix(r.URL.Path, prefix)
	if id == "" || strings.Contains(id, "/") {
		return ""
	}
	return id
}

func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	if token == "" {
		return "", false
	}
	return token, true
}

func methodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeAppError maps application errors onto HTTP statuses. Anything
// unrecognized is an internal error whose detail stays out of the response.
func (s *Server) writeAppError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case app.IsInvalidInput(err):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, app.ErrEmailAlreadyExists):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, app.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		writeError(w, http.StatusForbidden, "Invalid or expired token")
	case errors.Is(err, app.ErrForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, app.ErrNotFound):
		writeError(w, http.StatusNotFound, "Not found")
	default:
		slog.Error("internal error", "path", r.URL.Path, "method", r.Method, "err", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func normalizeMaxBytes(value int64) int64 {
	if value <= 0 {
		return 10 * 1024 * 1024
	}
	return value
}

func (s *Server) allowRate(w http.ResponseWriter, r *http.Request, limiter *ratelimit.FixedWindowLimiter, msg string) bool {
	if limiter == nil {
		return true
	}
	key := r.URL.Path + "|" + clientIP(r)
	if limiter.Allow(key) {
		return true
	}
	w.Header().Set("Retry-After", "60")
	writeError(w, http.StatusTooManyRequests, msg)
	return false
}

func clientIP(r *http.Request) string {
	if xfwd := strings.TrimSpace(r.Header.Get("X-Forwarded-For")); xfwd != "" {
		parts := strings.Split(xfwd, ",")
		if len(parts) > 0 {
			ip := strings.TrimSpace(parts[0])
			if ip != "" {
				return ip
			}
		}
	}
	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
		return realIP
	}
	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err == nil && host != "" {
		return host
	}
	return strings.TrimSpace(r.RemoteAddr)
}

func (s *Server) audit(r *http.Request, event, outcome string, attrs ...any) {
	logAttrs := []any{
		"event", event,
		"outcome", outcome,
		"path", r.URL.Path,
		"method", r.Method,
		"ip", clientIP(r),
		"request_id", util.RequestIDFromRequest(r),
	}
	logAttrs = append(logAttrs, attrs...)
	if outcome == "success" {
		slog.Info("security_event", logAttrs...)
		return
	}
	slog.Warn("security_event", logAttrs...)
}
