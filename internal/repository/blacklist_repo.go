package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Jerry-Khobby/shuttle-tracker-backend/internal/models"
)

// BlacklistRepository is the revocation ledger. A token present here must
// never pass verification, whatever its signature says.
type BlacklistRepository interface {
	Add(ctx context.Context, token string, expiresAt time.Time) error
	IsBlacklisted(ctx context.Context, token string) (bool, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type mongoBlacklistRepo struct {
	col *mongo.Collection
}

func NewMongoBlacklistRepo(db *mongo.Database, collection string) BlacklistRepository {
	col := db.Collection(collection)
	_, _ = col.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys:    bson.D{{Key: "token", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return &mongoBlacklistRepo{col: col}
}

// Add is an idempotent upsert: revoking an already revoked token is a no-op
// apart from refreshing its retention deadline.
func (r *mongoBlacklistRepo) Add(ctx context.Context, token string, expiresAt time.Time) error {
	entry := models.BlacklistedToken{Token: token, ExpiresAt: expiresAt}
	_, err := r.col.UpdateOne(ctx,
		bson.M{"token": token},
		bson.M{"$set": entry},
		options.Update().SetUpsert(true),
	)
	if err != nil && mongo.IsDuplicateKeyError(err) {
		// concurrent upsert of the same token; the entry exists, which is all
		// we need
		return nil
	}
	return err
}

func (r *mongoBlacklistRepo) IsBlacklisted(ctx context.Context, token string) (bool, error) {
	err := r.col.FindOne(ctx, bson.M{"token": token}).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// DeleteExpired removes entries whose retention deadline has passed. Entries
// with expires_at >= now are always kept.
func (r *mongoBlacklistRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.col.DeleteMany(ctx, bson.M{"expires_at": bson.M{"$lt": now}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
