package storage

import (
	"context"
	"encoding/json"
	"errors"

	"claimflow/backend/internal/config"
	"claimflow/backend/internal/models"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// eventsChannel is the Redis Pub/Sub channel for claim events.
const eventsChannel = "claims:events"

// Storage is the claim repository consumed by the workflow service.
// InTransaction provides the unit of work: every method called on the
// Storage passed to fn runs inside one database transaction, committed
// when fn returns nil and rolled back when it returns an error.
type Storage interface {
	InTransaction(ctx context.Context, fn func(tx Storage) error) error

	CreateClaim(ctx context.Context, claim *models.Claim) error
	FindClaim(ctx context.Context, id string) (*models.Claim, error)
	FindClaimForUpdate(ctx context.Context, id string) (*models.Claim, error)
	UpdateClaim(ctx context.Context, id string, changes map[string]interface{}) error
	ListClaims(ctx context.Context, filter models.ClaimFilter) ([]models.Claim, error)

	CreateDocument(ctx context.Context, doc *models.Document) error
	FindDocumentsByClaim(ctx context.Context, claimID string) ([]models.Document, error)

	FindClaimTypeByName(ctx context.Context, name string) (*models.ClaimType, error)
	FindUser(ctx context.Context, id string) (*models.User, error)
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)

	PublishClaimEvent(ctx context.Context, event models.ClaimEvent) error
}

// Service implements Storage on top of PostgreSQL (GORM) and Redis.
type Service struct {
	DB     *gorm.DB
	Redis  *redis.Client
	Logger *zap.Logger
}

// NewStorageService Constructor. Redis may be nil for callers that only
// need the database (e.g. the admin CLI).
func NewStorageService(db *gorm.DB, rdb *redis.Client, logger *zap.Logger) *Service {
	return &Service{DB: db, Redis: rdb, Logger: logger.With(zap.String("component", "storage"))}
}

// InTransaction runs fn inside a single database transaction. The
// Storage handed to fn is bound to that transaction; Redis operations
// are untouched by a rollback, which is why the claims service never
// publishes events from inside fn.
func (s *Service) InTransaction(ctx context.Context, fn func(tx Storage) error) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Service{DB: tx, Redis: s.Redis, Logger: s.Logger})
	})
}

// CreateClaim inserts a new claim row.
func (s *Service) CreateClaim(ctx context.Context, claim *models.Claim) error {
	return s.DB.WithContext(ctx).Create(claim).Error
}

// FindClaim loads a claim with its claim type and documents. Returns
// (nil, nil) when no such claim exists.
func (s *Service) FindClaim(ctx context.Context, id string) (*models.Claim, error) {
	var claim models.Claim
	err := s.DB.WithContext(ctx).
		Preload("ClaimType").
		Preload("Documents", func(db *gorm.DB) *gorm.DB {
			return db.Order("is_review_document ASC, created_at ASC")
		}).
		First(&claim, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &claim, nil
}

// FindClaimForUpdate loads the bare claim row under a row-level lock
// (SELECT ... FOR UPDATE) so that concurrent transition requests for the
// same claim serialize: the loser observes the updated status and fails
// its precondition check instead of overwriting the winner. Returns
// (nil, nil) when no such claim exists.
func (s *Service) FindClaimForUpdate(ctx context.Context, id string) (*models.Claim, error) {
	var claim models.Claim
	err := s.DB.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&claim, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &claim, nil
}

// UpdateClaim applies the given column changes to one claim row.
func (s *Service) UpdateClaim(ctx context.Context, id string, changes map[string]interface{}) error {
	result := s.DB.WithContext(ctx).
		Model(&models.Claim{}).
		Where("id = ?", id).
		Updates(changes)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListClaims returns claims matching the filter, newest first.
func (s *Service) ListClaims(ctx context.Context, filter models.ClaimFilter) ([]models.Claim, error) {
	query := s.DB.WithContext(ctx).Preload("ClaimType").Order("created_at DESC")
	if len(filter.Statuses) > 0 {
		query = query.Where("status IN ?", filter.Statuses)
	}
	if filter.ClaimantUserID != "" {
		query = query.Where("claimant_user_id = ?", filter.ClaimantUserID)
	}
	if filter.AssignedReviewerID != "" {
		query = query.Where("assigned_reviewer_id = ?", filter.AssignedReviewerID)
	}

	var claims []models.Claim
	if err := query.Find(&claims).Error; err != nil {
		s.Logger.Error("failed to list claims", zap.Error(err))
		return nil, err
	}
	return claims, nil
}

// CreateDocument inserts a document metadata row.
func (s *Service) CreateDocument(ctx context.Context, doc *models.Document) error {
	return s.DB.WithContext(ctx).Create(doc).Error
}

// FindDocumentsByClaim returns the claim's documents, claimant uploads
// first, oldest first within each group.
func (s *Service) FindDocumentsByClaim(ctx context.Context, claimID string) ([]models.Document, error) {
	var docs []models.Document
	err := s.DB.WithContext(ctx).
		Where("claim_id = ?", claimID).
		Order("is_review_document ASC, created_at ASC").
		Find(&docs).Error
	if err != nil {
		return nil, err
	}
	return docs, nil
}

// FindClaimTypeByName resolves a claim type by its display name,
// consulting the Redis cache first. Returns (nil, nil) when the name is
// unknown. Cache failures fall back to the database.
func (s *Service) FindClaimTypeByName(ctx context.Context, name string) (*models.ClaimType, error) {
	key := "claimtype:" + name

	if s.Redis != nil {
		if data, err := s.Redis.Get(ctx, key).Result(); err == nil {
			var ct models.ClaimType
			if json.Unmarshal([]byte(data), &ct) == nil {
				return &ct, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.Logger.Warn("claim type cache read failed", zap.String("name", name), zap.Error(err))
		}
	}

	var ct models.ClaimType
	err := s.DB.WithContext(ctx).First(&ct, "name = ?", name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if s.Redis != nil {
		if data, err := json.Marshal(&ct); err == nil {
			if err := s.Redis.Set(ctx, key, data, config.ClaimTypeCacheTTL).Err(); err != nil {
				s.Logger.Warn("claim type cache write failed", zap.String("name", name), zap.Error(err))
			}
		}
	}
	return &ct, nil
}

// FindUser returns the user with the given id, or (nil, nil) when there
// is none.
func (s *Service) FindUser(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := s.DB.WithContext(ctx).First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindUserByUsername returns the user with the given username, or
// (nil, nil) when there is none.
func (s *Service) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := s.DB.WithContext(ctx).First(&user, "username = ?", username).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// PublishClaimEvent publishes the event to Redis Pub/Sub for the live
// feed. With no Redis configured this is a no-op.
func (s *Service) PublishClaimEvent(ctx context.Context, event models.ClaimEvent) error {
	if s.Redis == nil {
		return nil
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return s.Redis.Publish(ctx, eventsChannel, payload).Err()
}

// SubscribeClaimEvents subscribes to the claim event channel. The
// notify hub consumes this; it is not part of the Storage interface
// because only the Redis-backed service can provide it.
func (s *Service) SubscribeClaimEvents(ctx context.Context) *redis.PubSub {
	return s.Redis.Subscribe(ctx, eventsChannel)
}
