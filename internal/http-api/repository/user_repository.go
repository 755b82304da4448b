package repository

import (
	"context"
	"fmt"
	"strings"

	"foodgram/internal/http-api/models"

	"gorm.io/gorm"
)

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id int64) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	List(ctx context.Context, search string, page Page) ([]models.User, int64, error)
	UpdatePassword(ctx context.Context, id int64, hash string) error
	UpdateAvatar(ctx context.Context, id int64, avatar *string) error
	UpdateProfile(ctx context.Context, id int64, fields map[string]any) error
	Delete(ctx context.Context, id int64) ([]string, error)
}

// userRepository is the GORM implementation of UserRepository.
type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("create user: %w", translateError(err))
	}
	return nil
}

func (r *userRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	// return nil on miss so callers never see a zero-value user
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("LOWER(email) = LOWER(?)", email).First(&user).Error; err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

// List returns users ordered by id. A non-empty search matches username or email.
func (r *userRepository) List(ctx context.Context, search string, page Page) ([]models.User, int64, error) {
	query := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&models.User{})
		if s := strings.TrimSpace(search); s != "" {
			p := "%" + escapeLike(s) + "%"
			q = q.Where("username ILIKE ? OR email ILIKE ?", p, p)
		}
		return q
	}

	var total int64
	if err := query().Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	var users []models.User
	if err := query().Order("id").Limit(page.Limit()).Offset(page.Offset()).Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	return users, total, nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, id int64, hash string) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("password_hash", hash)
	if result.Error != nil {
		return fmt.Errorf("update password: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userRepository) UpdateAvatar(ctx context.Context, id int64, avatar *string) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("avatar", avatar)
	if result.Error != nil {
		return fmt.Errorf("update avatar: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateProfile writes the given columns. Unknown ids are ErrNotFound.
func (r *userRepository) UpdateProfile(ctx context.Context, id int64, fields map[string]any) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return fmt.Errorf("update user: %w", translateError(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the user together with their recipes, tokens, subscriptions
// and saved recipes. It returns the image keys of the removed recipes.
func (r *userRepository) Delete(ctx context.Context, id int64) ([]string, error) {
	var images []string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Recipe{}).Where("author_id = ?", id).Pluck("image", &images).Error; err != nil {
			return fmt.Errorf("collect recipe images: %w", err)
		}

		authored := tx.Model(&models.Recipe{}).Select("id").Where("author_id = ?", id)
		for _, dependent := range []any{
			&models.RecipeTag{},
			&models.RecipeIngredient{},
			&models.Favorite{},
			&models.ShoppingCart{},
		} {
			if err := tx.Where("recipe_id IN (?)", authored).Delete(dependent).Error; err != nil {
				return fmt.Errorf("delete recipe dependents: %w", err)
			}
		}

		owned := []*gorm.DB{
			tx.Where("author_id = ?", id).Delete(&models.Recipe{}),
			tx.Where("user_id = ?", id).Delete(&models.Favorite{}),
			tx.Where("user_id = ?", id).Delete(&models.ShoppingCart{}),
			tx.Where("user_id = ?", id).Delete(&models.AuthToken{}),
			tx.Where("subscriber_id = ? OR subscribing_id = ?", id, id).Delete(&models.Subscription{}),
		}
		for _, result := range owned {
			if result.Error != nil {
				return fmt.Errorf("delete user data: %w", result.Error)
			}
		}

		result := tx.Delete(&models.User{}, id)
		if result.Error != nil {
			return fmt.Errorf("delete user: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return images, nil
}

// escapeLike escapes LIKE wildcards in user input.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
