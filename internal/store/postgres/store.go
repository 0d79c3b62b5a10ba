// Package postgres implements the meal, profile and credential stores on a
// shared Postgres database so a user's history follows them across devices.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/samy1995/Mealwise/internal/auth"
	"github.com/samy1995/Mealwise/internal/model"
	"github.com/samy1995/Mealwise/internal/service"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Store struct {
	db *gorm.DB
}

// Open connects and migrates the cloud schema.
func Open(dsn string) (*Store, error) {
	db, err := gorm.Open(pgdriver.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := db.AutoMigrate(&userRecord{}, &profileRecord{}, &mealRecord{}); err != nil {
		return nil, fmt.Errorf("migrate postgres schema: %w", err)
	}
	return &Store{db: db}, nil
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Store) SaveMeal(ctx context.Context, m model.MealLog) (model.MealLog, error) {
	rec, err := toMealRecord(m)
	if err != nil {
		return model.MealLog{}, err
	}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return model.MealLog{}, fmt.Errorf("insert meal: %w", err)
	}
	return rec.toModel()
}

func (s *Store) ListMeals(ctx context.Context, userID string, q service.MealQuery) ([]model.MealLog, error) {
	q = q.Normalize()
	tx := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if since := strings.TrimSpace(q.SinceISO); since != "" {
		t, err := time.Parse(time.RFC3339Nano, since)
		if err != nil {
			return nil, fmt.Errorf("invalid since %q (expected ISO-8601): %w", since, err)
		}
		tx = tx.Where("logged_at >= ?", t.UTC())
	}
	var recs []mealRecord
	if err := tx.Order("logged_at DESC").Order("created_at DESC").Limit(q.PageSize).Offset(q.Offset()).Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("list meals: %w", err)
	}
	out := make([]model.MealLog, 0, len(recs))
	for _, r := range recs {
		m, err := r.toModel()
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func (s *Store) DeleteMeal(ctx context.Context, userID, mealID string) error {
	res := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", mealID, userID).Delete(&mealRecord{})
	if res.Error != nil {
		return fmt.Errorf("delete meal %s: %w", mealID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("meal %s: %w", mealID, service.ErrMealNotFound)
	}
	return nil
}

func (s *Store) GetProfile(ctx context.Context, userID string) (model.Profile, error) {
	var rec profileRecord
	err := s.db.WithContext(ctx).First(&rec, "id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Profile{}, service.ErrProfileNotFound
	}
	if err != nil {
		return model.Profile{}, fmt.Errorf("get profile %s: %w", userID, err)
	}
	return rec.toModel()
}

func (s *Store) UpsertProfile(ctx context.Context, p model.Profile) error {
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("profile id is required")
	}
	rec, err := toProfileRecord(p)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Save(&rec).Error; err != nil {
		return fmt.Errorf("upsert profile %s: %w", p.ID, err)
	}
	return nil
}

func (s *Store) UpdateProfile(ctx context.Context, userID string, patch service.ProfilePatch) (model.Profile, error) {
	var out model.Profile
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rec profileRecord
		if err := tx.First(&rec, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return service.ErrProfileNotFound
			}
			return err
		}
		current, err := rec.toModel()
		if err != nil {
			return err
		}
		next, err := toProfileRecord(patch.Apply(current))
		if err != nil {
			return err
		}
		if err := tx.Save(&next).Error; err != nil {
			return err
		}
		out, err = next.toModel()
		return err
	})
	if err != nil {
		return model.Profile{}, fmt.Errorf("update profile %s: %w", userID, err)
	}
	return out, nil
}

func (s *Store) CreateUser(ctx context.Context, u model.User) error {
	rec := userRecord{ID: u.ID, Email: u.Email, PasswordHash: u.PasswordHash}
	err := s.db.WithContext(ctx).Create(&rec).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return auth.ErrEmailTaken
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *Store) UserByEmail(ctx context.Context, email string) (model.User, error) {
	return s.findUser(ctx, "email = ?", email)
}

func (s *Store) UserByID(ctx context.Context, id string) (model.User, error) {
	return s.findUser(ctx, "id = ?", id)
}

func (s *Store) findUser(ctx context.Context, cond string, arg string) (model.User, error) {
	var rec userRecord
	err := s.db.WithContext(ctx).First(&rec, cond, arg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.User{}, auth.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("lookup user: %w", err)
	}
	return model.User{ID: rec.ID, Email: rec.Email, PasswordHash: rec.PasswordHash, CreatedAt: rec.CreatedAt}, nil
}
