package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Jerry-Khobby/shuttle-tracker-backend/internal/models"
)

// DriverRepository is the credential store for drivers.
type DriverRepository interface {
	Create(ctx context.Context, d *models.Driver) error
	FindByEmail(ctx context.Context, email string) (*models.Driver, error)
	FindByID(ctx context.Context, id string) (*models.Driver, error)
}

type mongoDriverRepo struct {
	col *mongo.Collection
}

func NewMongoDriverRepo(db *mongo.Database, collection string) DriverRepository {
	col := db.Collection(collection)
	// unique email index is the authoritative uniqueness guard; the service's
	// FindByEmail precheck is best effort only
	_, _ = col.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return &mongoDriverRepo{col: col}
}

func (r *mongoDriverRepo) Create(ctx context.Context, d *models.Driver) error {
	d.CreatedAt = time.Now().UTC()
	d.UpdatedAt = d.CreatedAt
	res, err := r.col.InsertOne(ctx, d)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateEmail
		}
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		d.ID = oid
	}
	return nil
}

func (r *mongoDriverRepo) FindByEmail(ctx context.Context, email string) (*models.Driver, error) {
	var d models.Driver
	err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *mongoDriverRepo) FindByID(ctx context.Context, id string) (*models.Driver, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var d models.Driver
	err = r.col.FindOne(ctx, bson.M{"_id": objID}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}
