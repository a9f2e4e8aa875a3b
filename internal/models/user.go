package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a federated principal created on first OAuth callback.
// Email is optional because the identity lives with the external provider.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email,omitempty" json:"email,omitempty"`
	AccountID string             `bson:"account_id" json:"-"`
	Provider  string             `bson:"provider" json:"provider"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}
