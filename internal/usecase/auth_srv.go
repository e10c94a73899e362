package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"hostel-booking/internal/data/entity"
	"hostel-booking/internal/data/repository"
	"hostel-booking/internal/dto/request"
	"hostel-booking/internal/dto/response"
	"hostel-booking/pkg/hostelapi"
	"hostel-booking/pkg/utils"

	"go.uber.org/zap"
)

type AuthEventType string

const (
	AuthLoggedIn  AuthEventType = "logged_in"
	AuthLoggedOut AuthEventType = "logged_out"
)

const (
	ReasonLogout   = "logout"
	ReasonRejected = "rejected"
)

// AuthEvent is one change of authentication state.
type AuthEvent struct {
	Type    AuthEventType
	Session string
	UserID  string
	Reason  string
	At      time.Time
}

// ClientMeta describes the browser a session is opened for.
type ClientMeta struct {
	UserAgent string
	IPAddress string
}

type AuthService interface {
	Register(ctx context.Context, req *request.RegisterRequest) (*response.UserResponse, error)
	Login(ctx context.Context, req *request.LoginRequest, meta ClientMeta) (*response.AuthResponse, error)
	Logout(ctx context.Context, sessionToken string) error
	// CurrentToken resolves a session token to the hostel API bearer token.
	CurrentToken(ctx context.Context, sessionToken string) (string, error)
	// Invalidate ends a session without the user asking, e.g. after the API rejected its token.
	Invalidate(ctx context.Context, sessionToken, reason string)
	// Subscribe streams auth events until cancel is called.
	Subscribe() (<-chan AuthEvent, func())
}

type authService struct {
	api    HostelAPI
	repo   *repository.Repository
	config *utils.Config
	log    *zap.Logger
	now    func() time.Time

	mu     sync.Mutex
	nextID int
	subs   map[int]chan AuthEvent
}

func NewAuthService(
	api HostelAPI,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) AuthService {
	return &authService{
		api:    api,
		repo:   repo,
		config: config,
		log:    log.With(zap.String("service", "auth")),
		now:    time.Now,
		subs:   make(map[int]chan AuthEvent),
	}
}

func (s *authService) Register(ctx context.Context, req *request.RegisterRequest) (*response.UserResponse, error) {
	if err := validate(req); err != nil {
		s.log.Warn("Register validation failed", zap.Error(err))
		return nil, err
	}

	user, err := s.api.Register(ctx, hostelapi.RegisterRequest{
		Name:                 req.Name,
		Email:                req.Email,
		Phone:                req.Phone,
		Password:             req.Password,
		PasswordConfirmation: req.PasswordConfirmation,
	})
	if err != nil {
		s.log.Warn("Register rejected", zap.Error(err), zap.String("email", req.Email))
		return nil, fmt.Errorf("register: %w", err)
	}

	s.log.Info("User registered", zap.String("email", req.Email))
	resp := response.UserToResponse(user)
	if resp.Email == "" {
		resp.Email = req.Email
	}
	return resp, nil
}

func (s *authService) Login(ctx context.Context, req *request.LoginRequest, meta ClientMeta) (*response.AuthResponse, error) {
	if err := validate(req); err != nil {
		s.log.Warn("Login validation failed", zap.Error(err))
		return nil, err
	}

	result, err := s.api.Login(ctx, hostelapi.LoginRequest{Email: req.Email, Password: req.Password})
	if err != nil {
		s.log.Warn("Login rejected", zap.Error(err), zap.String("email", req.Email))
		return nil, fmt.Errorf("login: %w", err)
	}

	session, err := s.createSession(ctx, result, req.Email, meta)
	if err != nil {
		s.log.Error("Failed to create session", zap.Error(err), zap.String("email", req.Email))
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.log.Info("User logged in",
		zap.String("user_id", session.UserID),
		zap.String("email", req.Email))
	s.publish(AuthEvent{
		Type:    AuthLoggedIn,
		Session: session.Token.String(),
		UserID:  session.UserID,
		At:      s.now(),
	})

	return &response.AuthResponse{
		Token:     session.Token.String(),
		ExpiresAt: session.ExpiresAt,
		User:      response.UserToResponse(result.User),
	}, nil
}

func (s *authService) Logout(ctx context.Context, sessionToken string) error {
	if !utils.IsSessionToken(sessionToken) {
		s.log.Warn("Invalid token format")
		return ErrUnauthenticated
	}

	if err := s.repo.Session.Revoke(ctx, sessionToken); err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return ErrUnauthenticated
		}
		s.log.Error("Failed to revoke session", zap.Error(err))
		return fmt.Errorf("failed to logout: %w", err)
	}

	s.log.Info("User logged out")
	s.publish(AuthEvent{Type: AuthLoggedOut, Session: sessionToken, Reason: ReasonLogout, At: s.now()})
	return nil
}

func (s *authService) CurrentToken(ctx context.Context, sessionToken string) (string, error) {
	if !utils.IsSessionToken(sessionToken) {
		return "", ErrUnauthenticated
	}
	session, err := s.repo.Session.FindValidSession(ctx, sessionToken)
	if err != nil {
		return "", err
	}
	if session == nil {
		return "", ErrUnauthenticated
	}
	return session.UpstreamToken, nil
}

func (s *authService) Invalidate(ctx context.Context, sessionToken, reason string) {
	err := s.repo.Session.Revoke(ctx, sessionToken)
	if errors.Is(err, repository.ErrSessionNotFound) {
		return
	}
	if err != nil {
		s.log.Error("Failed to invalidate session", zap.Error(err), zap.String("reason", reason))
		return
	}
	s.log.Warn("Session invalidated", zap.String("reason", reason))
	s.publish(AuthEvent{Type: AuthLoggedOut, Session: sessionToken, Reason: reason, At: s.now()})
}

func (s *authService) Subscribe() (<-chan AuthEvent, func()) {
	ch := make(chan AuthEvent, 16)

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = ch
	s.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// publish never blocks; a subscriber that is not keeping up misses events.
func (s *authService) publish(ev AuthEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
			s.log.Warn("Auth event dropped", zap.String("type", string(ev.Type)))
		}
	}
}

// ==================== HELPER METHODS ====================

func (s *authService) createSession(ctx context.Context, result *hostelapi.LoginResponse, email string, meta ClientMeta) (*entity.Session, error) {
	now := s.now()
	session := &entity.Session{
		BaseSimple:    entity.NewBase(now),
		Token:         utils.GenerateSessionToken(),
		UpstreamToken: result.Token,
		Email:         email,
		ExpiresAt:     now.Add(time.Duration(s.config.Session.ExpiryHours) * time.Hour),
	}
	if result.User != nil {
		if result.User.ID != 0 {
			session.UserID = strconv.FormatInt(int64(result.User.ID), 10)
		}
		if result.User.Email != "" {
			session.Email = result.User.Email
		}
	}
	if meta.UserAgent != "" {
		session.UserAgent = &meta.UserAgent
	}
	if meta.IPAddress != "" {
		session.IPAddress = &meta.IPAddress
	}

	if err := s.repo.Session.Create(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}
