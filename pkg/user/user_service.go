package user

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"foodgram/domain"
	"foodgram/entities"
	"foodgram/internal/utils/mailing"
	"foodgram/internal/utils/storage"
	"foodgram/pkg/jwt"
)

const resetTokenTTL = 30 * time.Minute

type (
	UserService interface {
		Register(ctx context.Context, req domain.RegisterRequest) (domain.RegisterResponse, error)
		Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error)
		Me(ctx context.Context, userID string) (domain.UserResponse, error)
		GetUsers(ctx context.Context, page, limit int, viewerID string) ([]domain.UserResponse, int64, error)
		GetUserByID(ctx context.Context, id string, viewerID string) (domain.UserResponse, error)
		UpdateAvatar(ctx context.Context, req domain.UpdateAvatarRequest, userID string) (domain.UserResponse, error)
		DeleteAvatar(ctx context.Context, userID string) error

		Subscribe(ctx context.Context, targetUserID, subscriberID string) (domain.SubscriptionResponse, error)
		Unsubscribe(ctx context.Context, targetUserID, subscriberID string) error
		GetSubscriptions(ctx context.Context, subscriberID string, page, limit int) ([]domain.SubscriptionResponse, int64, error)

		ForgotPassword(ctx context.Context, req domain.ForgotPasswordRequest) error
		ResetPassword(ctx context.Context, req domain.ResetPasswordRequest) error
	}

	userService struct {
		userRepository UserRepository
		jwtService     jwt.JWTService
		s3             storage.AwsS3
		limits         domain.Limits
	}
)

func NewUserService(userRepository UserRepository, jwtService jwt.JWTService, s3 storage.AwsS3, limits domain.Limits) UserService {
	return &userService{
		userRepository: userRepository,
		jwtService:     jwtService,
		s3:             s3,
		limits:         limits,
	}
}

func (s *userService) Register(ctx context.Context, req domain.RegisterRequest) (domain.RegisterResponse, error) {
	if _, err := s.userRepository.GetUserByEmail(ctx, req.Email); err == nil {
		return domain.RegisterResponse{}, domain.ErrEmailAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.RegisterResponse{}, err
	}
	if _, err := s.userRepository.GetUserByUsername(ctx, req.Username); err == nil {
		return domain.RegisterResponse{}, domain.ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.RegisterResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.RegisterResponse{}, err
	}

	user := &entities.User{
		ID:           uuid.New(),
		Email:        req.Email,
		Username:     req.Username,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
	}

	if err := s.userRepository.CreateUser(ctx, user); err != nil {
		// The unique indexes stay authoritative under concurrent registers.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.RegisterResponse{}, domain.ErrEmailAlreadyExists
		}
		return domain.RegisterResponse{}, err
	}

	return domain.RegisterResponse{
		ID:        user.ID.String(),
		Email:     user.Email,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}, nil
}

func (s *userService) Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error) {
	user, err := s.userRepository.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.LoginResponse{}, domain.ErrCredentialsInvalid
		}
		return domain.LoginResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return domain.LoginResponse{}, domain.ErrCredentialsInvalid
	}

	token := s.jwtService.GenerateTokenUser(user.ID.String(), user.Role)
	return domain.LoginResponse{Token: token, Role: user.Role}, nil
}

func (s *userService) Me(ctx context.Context, userID string) (domain.UserResponse, error) {
	return s.GetUserByID(ctx, userID, userID)
}

func (s *userService) GetUsers(ctx context.Context, page, limit int, viewerID string) ([]domain.UserResponse, int64, error) {
	page, limit = s.limits.NormalizePage(page, limit)

	users, count, err := s.userRepository.GetUsers(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}

	subscribed, err := s.subscribedSet(ctx, viewerID)
	if err != nil {
		return nil, 0, err
	}

	res := make([]domain.UserResponse, 0, len(users))
	for _, u := range users {
		res = append(res, toUserResponse(u, subscribed[u.ID.String()]))
	}
	return res, count, nil
}

func (s *userService) GetUserByID(ctx context.Context, id string, viewerID string) (domain.UserResponse, error) {
	user, err := s.userRepository.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.UserResponse{}, domain.ErrUserNotFound
		}
		return domain.UserResponse{}, err
	}

	subscribed, err := s.subscribedSet(ctx, viewerID)
	if err != nil {
		return domain.UserResponse{}, err
	}
	return toUserResponse(user, subscribed[user.ID.String()]), nil
}

func (s *userService) UpdateAvatar(ctx context.Context, req domain.UpdateAvatarRequest, userID string) (domain.UserResponse, error) {
	user, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.UserResponse{}, domain.ErrUserNotFound
		}
		return domain.UserResponse{}, err
	}

	data, contentType, err := storage.DecodeBase64Image(req.Avatar, s.limits.MaxImageSizeBytes)
	if err != nil {
		if errors.Is(err, storage.ErrImageEmpty) {
			return domain.UserResponse{}, domain.ErrAvatarRequired
		}
		return domain.UserResponse{}, err
	}

	fileName := fmt.Sprintf("%s.jpg", user.ID)
	objectKey, err := s.s3.UploadFile(fileName, data, contentType, "avatars", storage.AllowImage...)
	if err != nil {
		return domain.UserResponse{}, err
	}

	user.AvatarURL = s.s3.GetPublicLinkKey(objectKey)
	if err := s.userRepository.UpdateUser(ctx, user); err != nil {
		return domain.UserResponse{}, err
	}

	return toUserResponse(user, false), nil
}

func (s *userService) DeleteAvatar(ctx context.Context, userID string) error {
	user, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}

	if user.AvatarURL != "" {
		objectKey := s.s3.GetObjectKeyFromLink(user.AvatarURL)
		if objectKey != "" {
			_ = s.s3.DeleteFile(objectKey)
		}
		user.AvatarURL = ""
		return s.userRepository.UpdateUser(ctx, user)
	}
	return nil
}

// Subscribe rejects self-subscription up front, then inserts and lets the
// unique constraint surface duplicates.
func (s *userService) Subscribe(ctx context.Context, targetUserID, subscriberID string) (domain.SubscriptionResponse, error) {
	if targetUserID == subscriberID {
		return domain.SubscriptionResponse{}, domain.ErrSelfSubscription
	}

	target, err := s.userRepository.GetUserByID(ctx, targetUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.SubscriptionResponse{}, domain.ErrUserNotFound
		}
		return domain.SubscriptionResponse{}, err
	}

	subscriberUUID, err := uuid.Parse(subscriberID)
	if err != nil {
		return domain.SubscriptionResponse{}, domain.ErrParseUUID
	}

	sub := &entities.UserSubscription{
		ID:           uuid.New(),
		SubscriberID: subscriberUUID,
		TargetUserID: target.ID,
	}
	if err := s.userRepository.AddSubscription(ctx, sub); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.SubscriptionResponse{}, domain.ErrAlreadySubscribed
		}
		return domain.SubscriptionResponse{}, err
	}

	return toSubscriptionResponse(target, true), nil
}

func (s *userService) Unsubscribe(ctx context.Context, targetUserID, subscriberID string) error {
	if _, err := s.userRepository.GetUserByID(ctx, targetUserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}

	rows, err := s.userRepository.RemoveSubscription(ctx, subscriberID, targetUserID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrNotSubscribed
	}
	return nil
}

func (s *userService) GetSubscriptions(ctx context.Context, subscriberID string, page, limit int) ([]domain.SubscriptionResponse, int64, error) {
	page, limit = s.limits.NormalizePage(page, limit)

	users, count, err := s.userRepository.GetSubscriptions(ctx, subscriberID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	res := make([]domain.SubscriptionResponse, 0, len(users))
	for _, u := range users {
		res = append(res, toSubscriptionResponse(u, true))
	}
	return res, count, nil
}

func (s *userService) ForgotPassword(ctx context.Context, req domain.ForgotPasswordRequest) error {
	user, err := s.userRepository.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Do not leak which emails are registered.
			return nil
		}
		return err
	}

	token, err := s.jwtService.GenerateTokenResetPassword(
		map[string]any{"user_id": user.ID.String()},
		resetTokenTTL,
	)
	if err != nil {
		return err
	}

	if err := mailing.SendPasswordResetMail(user.Email, token); err != nil {
		log.Printf("failed to send password reset mail: %v", err)
		return err
	}
	return nil
}

func (s *userService) ResetPassword(ctx context.Context, req domain.ResetPasswordRequest) error {
	claims, err := s.jwtService.ValidateTokenResetPassword(req.Token)
	if err != nil {
		return err
	}

	userID, ok := claims["user_id"].(string)
	if !ok {
		return jwt.ErrTokenInvalid
	}

	user, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user.PasswordHash = string(hash)
	return s.userRepository.UpdateUser(ctx, user)
}

func (s *userService) subscribedSet(ctx context.Context, viewerID string) (map[string]bool, error) {
	set := make(map[string]bool)
	if viewerID == "" {
		return set, nil
	}

	ids, err := s.userRepository.GetSubscribedUserIDs(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

func toUserResponse(u *entities.User, isSubscribed bool) domain.UserResponse {
	return domain.UserResponse{
		ID:           u.ID.String(),
		Email:        u.Email,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: isSubscribed,
		Avatar:       u.AvatarURL,
	}
}

func toSubscriptionResponse(u *entities.User, isSubscribed bool) domain.SubscriptionResponse {
	recipes := make([]domain.RecipeMinified, 0, len(u.Recipes))
	for _, r := range u.Recipes {
		recipes = append(recipes, domain.RecipeMinified{
			ID:          r.ID.String(),
			Name:        r.Name,
			Image:       r.ImageURL,
			CookingTime: r.CookingTime,
		})
	}
	return domain.SubscriptionResponse{
		UserResponse: toUserResponse(u, isSubscribed),
		Recipes:      recipes,
		RecipesCount: int64(len(recipes)),
	}
}
