package user

import (
	"context"

	"gorm.io/gorm"

	"foodgram/entities"
)

type (
	UserRepository interface {
		CreateUser(ctx context.Context, user *entities.User) error
		GetUserByID(ctx context.Context, id string) (*entities.User, error)
		GetUserByEmail(ctx context.Context, email string) (*entities.User, error)
		GetUserByUsername(ctx context.Context, username string) (*entities.User, error)
		GetUsers(ctx context.Context, page, limit int) ([]*entities.User, int64, error)
		UpdateUser(ctx context.Context, user *entities.User) error

		AddSubscription(ctx context.Context, sub *entities.UserSubscription) error
		RemoveSubscription(ctx context.Context, subscriberID, targetUserID string) (int64, error)
		GetSubscribedUserIDs(ctx context.Context, subscriberID string) ([]string, error)
		GetSubscriptions(ctx context.Context, subscriberID string, page, limit int) ([]*entities.User, int64, error)
	}

	userRepository struct {
		db *gorm.DB
	}
)

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) CreateUser(ctx context.Context, user *entities.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) GetUserByID(ctx context.Context, id string) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetUserByUsername(ctx context.Context, username string) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetUsers(ctx context.Context, page, limit int) ([]*entities.User, int64, error) {
	var users []*entities.User
	var count int64
	offset := (page - 1) * limit

	if err := r.db.WithContext(ctx).Model(&entities.User{}).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.WithContext(ctx).
		Offset(offset).
		Limit(limit).
		Order("username").
		Find(&users).Error; err != nil {
		return nil, 0, err
	}

	return users, count, nil
}

func (r *userRepository) UpdateUser(ctx context.Context, user *entities.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *userRepository) AddSubscription(ctx context.Context, sub *entities.UserSubscription) error {
	return r.db.WithContext(ctx).Create(sub).Error
}

func (r *userRepository) RemoveSubscription(ctx context.Context, subscriberID, targetUserID string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("subscriber_id = ? AND target_user_id = ?", subscriberID, targetUserID).
		Delete(&entities.UserSubscription{})
	return res.RowsAffected, res.Error
}

func (r *userRepository) GetSubscribedUserIDs(ctx context.Context, subscriberID string) ([]string, error) {
	var ids []string
	if err := r.db.WithContext(ctx).
		Model(&entities.UserSubscription{}).
		Where("subscriber_id = ?", subscriberID).
		Pluck("target_user_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *userRepository) GetSubscriptions(ctx context.Context, subscriberID string, page, limit int) ([]*entities.User, int64, error) {
	var users []*entities.User
	var count int64
	offset := (page - 1) * limit

	// Rebuilt per finisher so Count clauses never leak into Find.
	build := func() *gorm.DB {
		return r.db.WithContext(ctx).
			Model(&entities.User{}).
			Joins("JOIN user_subscriptions ON user_subscriptions.target_user_id = users.id").
			Where("user_subscriptions.subscriber_id = ?", subscriberID)
	}

	if err := build().Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := build().
		Preload("Recipes").
		Offset(offset).
		Limit(limit).
		Order("user_subscriptions.created_at desc").
		Find(&users).Error; err != nil {
		return nil, 0, err
	}

	return users, count, nil
}
