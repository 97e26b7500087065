package user

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"foodgram/domain"
	"foodgram/entities"
	"foodgram/internal/testutil"
	"foodgram/pkg/jwt"
)

type userFixture struct {
	db      *gorm.DB
	s3      *testutil.FakeS3
	jwt     jwt.JWTService
	service UserService
}

func newUserFixture(t *testing.T) *userFixture {
	t.Helper()

	db := testutil.SetupTestDB(t)
	s3 := testutil.NewFakeS3()
	jwtService := jwt.NewJWTService()
	service := NewUserService(NewUserRepository(db), jwtService, s3, domain.DefaultLimits())

	return &userFixture{db: db, s3: s3, jwt: jwtService, service: service}
}

func (f *userFixture) register(t *testing.T, email, username string) domain.RegisterResponse {
	t.Helper()
	res, err := f.service.Register(context.Background(), domain.RegisterRequest{
		Email:     email,
		Username:  username,
		FirstName: "Test",
		LastName:  "User",
		Password:  "correct-horse",
	})
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	return res
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	f.register(t, "anna@example.com", "anna")

	_, err := f.service.Register(ctx, domain.RegisterRequest{
		Email: "anna@example.com", Username: "anna2",
		FirstName: "A", LastName: "B", Password: "correct-horse",
	})
	if !errors.Is(err, domain.ErrEmailAlreadyExists) {
		t.Fatalf("got %v, want ErrEmailAlreadyExists", err)
	}

	_, err = f.service.Register(ctx, domain.RegisterRequest{
		Email: "anna2@example.com", Username: "anna",
		FirstName: "A", LastName: "B", Password: "correct-horse",
	})
	if !errors.Is(err, domain.ErrUsernameTaken) {
		t.Fatalf("got %v, want ErrUsernameTaken", err)
	}
}

func TestLogin(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	registered := f.register(t, "anna@example.com", "anna")

	res, err := f.service.Login(ctx, domain.LoginRequest{
		Email: "anna@example.com", Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if res.Token == "" || res.Role != domain.RoleUser {
		t.Fatalf("unexpected login response: %+v", res)
	}

	userID, role, err := f.jwt.GetUserIDByToken(res.Token)
	if err != nil {
		t.Fatalf("decode token: %v", err)
	}
	if userID != registered.ID || role != domain.RoleUser {
		t.Fatalf("token carries (%q, %q), want (%q, %q)", userID, role, registered.ID, domain.RoleUser)
	}

	_, err = f.service.Login(ctx, domain.LoginRequest{
		Email: "anna@example.com", Password: "wrong",
	})
	if !errors.Is(err, domain.ErrCredentialsInvalid) {
		t.Fatalf("wrong password: got %v, want ErrCredentialsInvalid", err)
	}

	_, err = f.service.Login(ctx, domain.LoginRequest{
		Email: "ghost@example.com", Password: "correct-horse",
	})
	if !errors.Is(err, domain.ErrCredentialsInvalid) {
		t.Fatalf("unknown email: got %v, want ErrCredentialsInvalid", err)
	}
}

func TestSubscribeRejectsSelf(t *testing.T) {
	f := newUserFixture(t)

	anna := f.register(t, "anna@example.com", "anna")

	_, err := f.service.Subscribe(context.Background(), anna.ID, anna.ID)
	if !errors.Is(err, domain.ErrSelfSubscription) {
		t.Fatalf("got %v, want ErrSelfSubscription", err)
	}

	var count int64
	if err := f.db.Model(&entities.UserSubscription{}).Count(&count).Error; err != nil {
		t.Fatalf("count subscriptions: %v", err)
	}
	if count != 0 {
		t.Fatalf("self-subscription row stored: %d", count)
	}
}

func TestSubscribeConflictsOnSecondInsert(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	anna := f.register(t, "anna@example.com", "anna")
	boris := f.register(t, "boris@example.com", "boris")

	res, err := f.service.Subscribe(ctx, boris.ID, anna.ID)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if res.ID != boris.ID || !res.IsSubscribed {
		t.Fatalf("unexpected subscription response: %+v", res)
	}

	if _, err := f.service.Subscribe(ctx, boris.ID, anna.ID); !errors.Is(err, domain.ErrAlreadySubscribed) {
		t.Fatalf("second subscribe: got %v, want ErrAlreadySubscribed", err)
	}

	var count int64
	if err := f.db.Model(&entities.UserSubscription{}).Count(&count).Error; err != nil {
		t.Fatalf("count subscriptions: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected exactly one subscription row, got %d", count)
	}
}

func TestUnsubscribe(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	anna := f.register(t, "anna@example.com", "anna")
	boris := f.register(t, "boris@example.com", "boris")

	if err := f.service.Unsubscribe(ctx, boris.ID, anna.ID); !errors.Is(err, domain.ErrNotSubscribed) {
		t.Fatalf("got %v, want ErrNotSubscribed", err)
	}

	if _, err := f.service.Subscribe(ctx, boris.ID, anna.ID); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if err := f.service.Unsubscribe(ctx, boris.ID, anna.ID); err != nil {
		t.Fatalf("unsubscribe: %v", err)
	}
	if err := f.service.Unsubscribe(ctx, boris.ID, anna.ID); !errors.Is(err, domain.ErrNotSubscribed) {
		t.Fatalf("second unsubscribe: got %v, want ErrNotSubscribed", err)
	}
}

func TestGetUsersFlagsSubscriptions(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	anna := f.register(t, "anna@example.com", "anna")
	boris := f.register(t, "boris@example.com", "boris")
	f.register(t, "clara@example.com", "clara")

	if _, err := f.service.Subscribe(ctx, boris.ID, anna.ID); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	users, total, err := f.service.GetUsers(ctx, 1, 10, anna.ID)
	if err != nil {
		t.Fatalf("get users: %v", err)
	}
	if total != 3 {
		t.Fatalf("expected 3 users, got %d", total)
	}
	for _, u := range users {
		want := u.ID == boris.ID
		if u.IsSubscribed != want {
			t.Fatalf("wrong is_subscribed for %s: got %v, want %v", u.Username, u.IsSubscribed, want)
		}
	}
}

func TestGetSubscriptionsListsAuthorsWithRecipes(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	anna := f.register(t, "anna@example.com", "anna")
	boris := f.register(t, "boris@example.com", "boris")

	borisUUID, err := uuid.Parse(boris.ID)
	if err != nil {
		t.Fatalf("parse uuid: %v", err)
	}
	for _, name := range []string{"Soup", "Omelet"} {
		recipe := entities.Recipe{
			ID: uuid.New(), AuthorID: borisUUID,
			Name: name, Text: "x", CookingTime: 10,
		}
		if err := f.db.Create(&recipe).Error; err != nil {
			t.Fatalf("create recipe: %v", err)
		}
	}

	if _, err := f.service.Subscribe(ctx, boris.ID, anna.ID); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	subs, total, err := f.service.GetSubscriptions(ctx, anna.ID, 1, 10)
	if err != nil {
		t.Fatalf("get subscriptions: %v", err)
	}
	if total != 1 || len(subs) != 1 {
		t.Fatalf("expected one subscription, got %d (total %d)", len(subs), total)
	}
	if subs[0].ID != boris.ID || !subs[0].IsSubscribed {
		t.Fatalf("unexpected subscription entry: %+v", subs[0])
	}
	if subs[0].RecipesCount != 2 || len(subs[0].Recipes) != 2 {
		t.Fatalf("expected 2 recipes on the entry, got %d (count %d)", len(subs[0].Recipes), subs[0].RecipesCount)
	}
}

func TestUpdateAndDeleteAvatar(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	anna := f.register(t, "anna@example.com", "anna")

	res, err := f.service.UpdateAvatar(ctx, domain.UpdateAvatarRequest{
		Avatar: testutil.Base64PNG(t),
	}, anna.ID)
	if err != nil {
		t.Fatalf("update avatar: %v", err)
	}
	if res.Avatar == "" {
		t.Fatalf("avatar URL missing from response")
	}
	if len(f.s3.Uploaded) != 1 {
		t.Fatalf("expected one upload, got %d", len(f.s3.Uploaded))
	}

	if _, err := f.service.UpdateAvatar(ctx, domain.UpdateAvatarRequest{}, anna.ID); !errors.Is(err, domain.ErrAvatarRequired) {
		t.Fatalf("empty avatar: got %v, want ErrAvatarRequired", err)
	}

	if err := f.service.DeleteAvatar(ctx, anna.ID); err != nil {
		t.Fatalf("delete avatar: %v", err)
	}
	if len(f.s3.Deleted) != 1 {
		t.Fatalf("expected stored avatar to be deleted, got %v", f.s3.Deleted)
	}

	me, err := f.service.Me(ctx, anna.ID)
	if err != nil {
		t.Fatalf("me: %v", err)
	}
	if me.Avatar != "" {
		t.Fatalf("avatar URL not cleared: %q", me.Avatar)
	}
}

func TestResetPassword(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	anna := f.register(t, "anna@example.com", "anna")

	token, err := f.jwt.GenerateTokenResetPassword(map[string]any{"user_id": anna.ID}, resetTokenTTL)
	if err != nil {
		t.Fatalf("generate reset token: %v", err)
	}

	if err := f.service.ResetPassword(ctx, domain.ResetPasswordRequest{
		Token:       token,
		NewPassword: "new-password-1",
	}); err != nil {
		t.Fatalf("reset password: %v", err)
	}

	if _, err := f.service.Login(ctx, domain.LoginRequest{
		Email: "anna@example.com", Password: "correct-horse",
	}); !errors.Is(err, domain.ErrCredentialsInvalid) {
		t.Fatalf("old password still accepted")
	}
	if _, err := f.service.Login(ctx, domain.LoginRequest{
		Email: "anna@example.com", Password: "new-password-1",
	}); err != nil {
		t.Fatalf("login with new password: %v", err)
	}

	if err := f.service.ResetPassword(ctx, domain.ResetPasswordRequest{
		Token:       "not-a-token",
		NewPassword: "whatever-else",
	}); err == nil {
		t.Fatalf("garbage token accepted")
	}
}

func TestForgotPasswordUnknownEmailIsSilent(t *testing.T) {
	f := newUserFixture(t)

	if err := f.service.ForgotPassword(context.Background(), domain.ForgotPasswordRequest{
		Email: "ghost@example.com",
	}); err != nil {
		t.Fatalf("unknown email must not error: %v", err)
	}
}
