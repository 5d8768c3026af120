package app

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/kugesan/eduquest/internal/blob"
	"github.com/kugesan/eduquest/internal/store"
)

type Service struct {
	Config *Config
	Store  store.Store
	Blobs  blob.Store
	Auth   *Auth
}

func NewService(configPath string) (*Service, error) {
	config, err := LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	st, err := NewStore(config.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to init store: %w", err)
	}

	blobs, err := NewBlobStore(context.Background(), config)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("failed to init blob store: %w", err)
	}

	auth, err := NewAuth(config)
	if err != nil {
		st.Close()
		blobs.Close()
		return nil, fmt.Errorf("failed to init auth: %w", err)
	}

	return &Service{
		Config: config,
		Store:  st,
		Blobs:  blobs,
		Auth:   auth,
	}, nil
}

// ValidateStudentAuth checks the bearer token of the acting student. No-op
// unless auth is enabled in config.
func (s *Service) ValidateStudentAuth(r *http.Request, email string) error {
	if !s.Auth.Enabled() {
		return nil
	}

	authHeader := r.Header.Get(s.Auth.tokenHeader)
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return fmt.Errorf("invalid authorization header format")
	}
	token := strings.TrimPrefix(authHeader, "Bearer ")

	return s.Auth.ValidateToken(r.Context(), email, token)
}

func (s *Service) MaxFileSize() int64 {
	return s.Config.Uploads.MaxFileSize
}

func (s *Service) Close() error {
	var errs []error

	if err := s.Store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("store: %w", err))
	}
	if err := s.Blobs.Close(); err != nil {
		errs = append(errs, fmt.Errorf("blobs: %w", err))
	}
	if err := s.Auth.Close(); err != nil {
		errs = append(errs, fmt.Errorf("auth: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors while closing: %v", errs)
	}
	return nil
}
