package entitlement

import (
	"context"

	"recruit-iq/internal/domain/users"

	"gorm.io/gorm"
)

// GormStore keeps the entitlement flag on the users table.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) IsPro(ctx context.Context, userID uint) (bool, error) {
	var user users.User
	if err := s.db.WithContext(ctx).
		Select("is_pro").
		Where("id = ?", userID).
		First(&user).Error; err != nil {
		return false, err
	}
	return user.IsPro, nil
}

// GrantPro only ever writes true, so repeated and concurrent calls commute.
func (s *GormStore) GrantPro(ctx context.Context, userID uint) error {
	return s.db.WithContext(ctx).
		Model(&users.User{}).
		Where("id = ?", userID).
		Update("is_pro", true).Error
}
