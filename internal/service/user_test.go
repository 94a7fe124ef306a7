package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/smartcalendar/backend/internal/models"
)

type fakeUserStore struct {
	nextID int64
	users  map[int64]*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{nextID: 1, users: make(map[int64]*models.User)}
}

func (f *fakeUserStore) Create(_ context.Context, user *models.User) error {
	user.ID = f.nextID
	f.nextID++
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserStore) GetByID(_ context.Context, userID int64) (*models.User, error) {
	if user, ok := f.users[userID]; ok {
		return user, nil
	}
	return nil, ErrNotFound
}

func (f *fakeUserStore) GetByUsername(_ context.Context, username string) (*models.User, error) {
	for _, user := range f.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, user := range f.users {
		if strings.EqualFold(user.Email, email) {
			return user, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeUserStore) GetByLoginOrEmail(ctx context.Context, loginOrEmail string) (*models.User, error) {
	if user, err := f.GetByUsername(ctx, loginOrEmail); err == nil {
		return user, nil
	}
	return f.GetByEmail(ctx, loginOrEmail)
}

func (f *fakeUserStore) List(_ context.Context) ([]*models.User, error) {
	var out []*models.User
	for _, user := range f.users {
		out = append(out, user)
	}
	return out, nil
}

func (f *fakeUserStore) UpdateEmail(_ context.Context, userID int64, email string) error {
	user, ok := f.users[userID]
	if !ok {
		return ErrNotFound
	}
	user.Email = email
	return nil
}

func (f *fakeUserStore) UpdateDeviceToken(_ context.Context, userID int64, deviceToken *string) error {
	user, ok := f.users[userID]
	if !ok {
		return ErrNotFound
	}
	user.DeviceToken = deviceToken
	return nil
}

func (f *fakeUserStore) UpdateCredentials(_ context.Context, userID int64, username, passwordHash string) error {
	user, ok := f.users[userID]
	if !ok {
		return ErrNotFound
	}
	user.Username = username
	user.PasswordHash = passwordHash
	return nil
}

func TestRegisterAndAuthenticate(t *testing.T) {
	svc := NewUserService(newFakeUserStore())
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice", "alice@example.com", "s3cret")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.ID == 0 {
		t.Fatalf("expected assigned id")
	}
	if user.PasswordHash == "s3cret" || user.PasswordHash == "" {
		t.Fatalf("expected hashed password, got %q", user.PasswordHash)
	}

	got, err := svc.Authenticate(ctx, "alice", "s3cret")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if got.ID != user.ID {
		t.Fatalf("expected user %d, got %d", user.ID, got.ID)
	}

	if _, err := svc.Authenticate(ctx, "alice", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Authenticate(ctx, "nobody", "s3cret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
}

func TestRegisterRejectsTakenIdentity(t *testing.T) {
	svc := NewUserService(newFakeUserStore())
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "alice@example.com", "s3cret"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Register(ctx, "alice", "other@example.com", "s3cret"); !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
	if _, err := svc.Register(ctx, "bob", "alice@example.com", "s3cret"); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestUpdateEmailIsSelfOnly(t *testing.T) {
	store := newFakeUserStore()
	svc := NewUserService(store)
	ctx := context.Background()

	alice, _ := svc.Register(ctx, "alice", "alice@example.com", "s3cret")
	bob, _ := svc.Register(ctx, "bob", "bob@example.com", "s3cret")

	if err := svc.UpdateEmail(ctx, alice, bob.ID, "stolen@example.com"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := svc.UpdateEmail(ctx, alice, alice.ID, "new@example.com"); err != nil {
		t.Fatalf("update email: %v", err)
	}
	if store.users[alice.ID].Email != "new@example.com" {
		t.Fatalf("email not updated: %q", store.users[alice.ID].Email)
	}
}

func TestStatisticsGetReturnsZeroRowWhenMissing(t *testing.T) {
	svc := NewStatisticsService(&fakeStatsStore{})
	actor := &models.User{ID: 7}

	stats, err := svc.Get(context.Background(), actor, 7)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stats.UserID != 7 || stats.TotalCommon != 0 || stats.AverageTotalDays != 1 {
		t.Fatalf("unexpected zero-value statistics: %+v", stats)
	}

	if _, err := svc.Get(context.Background(), actor, 8); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

type fakeStatsStore struct {
	saved *models.Statistics
}

func (f *fakeStatsStore) GetByUserID(_ context.Context, userID int64) (*models.Statistics, error) {
	if f.saved != nil && f.saved.UserID == userID {
		return f.saved, nil
	}
	return nil, ErrNotFound
}

func (f *fakeStatsStore) Upsert(_ context.Context, stats *models.Statistics) error {
	f.saved = stats
	return nil
}
