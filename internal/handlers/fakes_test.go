package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/krishiguru/apiserver/internal/services"
	"github.com/krishiguru/apiserver/internal/store"
	"github.com/krishiguru/apiserver/types"
)

// fakeStore backs both repositories so tests can observe cross-table
// effects like orphan profiles.
type fakeStore struct {
	usersByEmail map[string]types.User
	profiles     map[string]types.Profile // keyed by user id
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		usersByEmail: make(map[string]types.User),
		profiles:     make(map[string]types.Profile),
	}
}

type fakeUserRepo struct {
	s *fakeStore
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (types.User, error) {
	for _, user := range r.s.usersByEmail {
		if user.ID == id {
			return user, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (types.User, error) {
	user, ok := r.s.usersByEmail[email]
	if !ok {
		return types.User{}, store.ErrNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) CreateWithProfile(_ context.Context, user types.User) (types.User, error) {
	if _, exists := r.s.usersByEmail[user.Email]; exists {
		return types.User{}, store.ErrDuplicate
	}
	now := time.Now()
	user.ID = uuid.NewString()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.s.usersByEmail[user.Email] = user
	r.s.profiles[user.ID] = types.Profile{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		FullName:  user.FullName,
		Crops:     []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	return user, nil
}

type fakeProfileRepo struct {
	s *fakeStore
}

func (r *fakeProfileRepo) GetByUserID(_ context.Context, userID string) (types.Profile, error) {
	profile, ok := r.s.profiles[userID]
	if !ok {
		return types.Profile{}, store.ErrNotFound
	}
	return profile, nil
}

func (r *fakeProfileRepo) Update(_ context.Context, profile types.Profile) (types.Profile, error) {
	if _, ok := r.s.profiles[profile.UserID]; !ok {
		return types.Profile{}, store.ErrNotFound
	}
	profile.UpdatedAt = time.Now()
	r.s.profiles[profile.UserID] = profile
	return profile, nil
}

const testJWTSecret = "test-secret"

func testUser() types.User {
	return types.User{ID: uuid.NewString(), Email: "a@x.com"}
}

// newTestRouter wires the auth and profile surface against the fake
// store, mirroring the real server layout.
func newTestRouter(s *fakeStore, tokenTTL time.Duration) http.Handler {
	userService := services.NewUserService(&fakeUserRepo{s: s})
	profileService := services.NewProfileService(&fakeProfileRepo{s: s})

	authHandler := NewAuthHandler(userService, nil, testJWTSecret, tokenTTL)
	profileHandler := NewProfileHandler(profileService)

	router := chi.NewRouter()
	router.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			AuthRouter(r, authHandler)
		})
		r.Route("/profile", func(r chi.Router) {
			ProfileRouter(r, profileHandler, authHandler.RequireAuth)
		})
	})
	return router
}
