//go:build !integration

package interaction

import (
	"context"
	"errors"
	"smartShop/domain"
	"testing"
)

type fakeInteractionRepo struct {
	created   []*domain.UserInteraction
	createErr error
}

func (f *fakeInteractionRepo) Create(ctx context.Context, interaction *domain.UserInteraction) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, interaction)
	return nil
}

type fakeUserRepo struct {
	users     map[string]domain.User
	created   []*domain.User
	createErr error
}

func newFakeUserRepo(ids ...string) *fakeUserRepo {
	users := make(map[string]domain.User)
	for _, id := range ids {
		users[id] = domain.User{ID: id, Name: "existing"}
	}
	return &fakeUserRepo{users: users}
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id string) (domain.User, error) {
	user, ok := f.users[id]
	if !ok {
		return domain.User{}, errors.New("user not found")
	}
	return user, nil
}

func (f *fakeUserRepo) Create(ctx context.Context, user *domain.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, user)
	f.users[user.ID] = *user
	return nil
}

func TestRecordInteraction_Valid(t *testing.T) {
	interactions := &fakeInteractionRepo{}
	svc := NewInteractionService(interactions, newFakeUserRepo("u1"))

	got, err := svc.RecordInteraction(context.Background(), "u1", "p1", domain.ActionPurchase, domain.UserIdentity{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.UserID != "u1" || got.ProductID != "p1" || got.ActionType != domain.ActionPurchase {
		t.Fatalf("recorded %+v", got)
	}
	if got.Timestamp.IsZero() {
		t.Fatal("timestamp must be set")
	}
	if len(interactions.created) != 1 {
		t.Fatalf("expected one persisted interaction, got %d", len(interactions.created))
	}
}

func TestRecordInteraction_InvalidAction(t *testing.T) {
	svc := NewInteractionService(&fakeInteractionRepo{}, newFakeUserRepo("u1"))

	_, err := svc.RecordInteraction(context.Background(), "u1", "p1", "wishlist", domain.UserIdentity{})
	if !errors.Is(err, ErrInvalidActionType) {
		t.Fatalf("expected ErrInvalidActionType, got %v", err)
	}
}

func TestRecordInteraction_MissingIDs(t *testing.T) {
	svc := NewInteractionService(&fakeInteractionRepo{}, newFakeUserRepo())

	if _, err := svc.RecordInteraction(context.Background(), "", "p1", domain.ActionView, domain.UserIdentity{}); err == nil {
		t.Fatal("expected an error for a missing user id")
	}
	if _, err := svc.RecordInteraction(context.Background(), "u1", "", domain.ActionView, domain.UserIdentity{}); err == nil {
		t.Fatal("expected an error for a missing product id")
	}
}

func TestRecordInteraction_CreatesUnknownUser(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewInteractionService(&fakeInteractionRepo{}, users)

	_, err := svc.RecordInteraction(context.Background(), "u-new", "p1", domain.ActionView,
		domain.UserIdentity{Name: "Ada", Email: "ada@example.com"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(users.created) != 1 {
		t.Fatalf("expected the user row to be created, got %d", len(users.created))
	}
	if users.created[0].Name != "Ada" || users.created[0].Email != "ada@example.com" {
		t.Fatalf("created user %+v", users.created[0])
	}
}

func TestRecordInteraction_UserNameFallbackChain(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewInteractionService(&fakeInteractionRepo{}, users)

	if _, err := svc.RecordInteraction(context.Background(), "u-email", "p1", domain.ActionView,
		domain.UserIdentity{Email: "only@example.com"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if users.created[0].Name != "only@example.com" {
		t.Fatalf("expected the email as name fallback, got %q", users.created[0].Name)
	}

	if _, err := svc.RecordInteraction(context.Background(), "u-bare", "p1", domain.ActionView,
		domain.UserIdentity{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if users.created[1].Name != "Unknown User" {
		t.Fatalf("expected the placeholder name, got %q", users.created[1].Name)
	}
}

func TestRecordInteraction_UserCreationFailureIsNotFatal(t *testing.T) {
	users := newFakeUserRepo()
	users.createErr = errors.New("duplicate key")
	interactions := &fakeInteractionRepo{}
	svc := NewInteractionService(interactions, users)

	if _, err := svc.RecordInteraction(context.Background(), "u1", "p1", domain.ActionView, domain.UserIdentity{}); err != nil {
		t.Fatalf("user creation failure must not reject the interaction: %v", err)
	}
	if len(interactions.created) != 1 {
		t.Fatal("the interaction must still be recorded")
	}
}

func TestRecordInteraction_StoreFailure(t *testing.T) {
	interactions := &fakeInteractionRepo{createErr: errors.New("connection refused")}
	svc := NewInteractionService(interactions, newFakeUserRepo("u1"))

	if _, err := svc.RecordInteraction(context.Background(), "u1", "p1", domain.ActionView, domain.UserIdentity{}); err == nil {
		t.Fatal("expected the store failure to surface")
	}
}
