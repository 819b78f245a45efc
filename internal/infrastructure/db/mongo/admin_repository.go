package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/meridiancredit/investor-portal/internal/core/domain"
)

const adminsCollection = "admins"

// AdminRepository persists administrative-tier membership. The collection
// carries a unique index on user_id.
type AdminRepository struct {
	coll *mongo.Collection
}

func NewAdminRepository(db *mongo.Database) *AdminRepository {
	return &AdminRepository{coll: db.Collection(adminsCollection)}
}

type adminDoc struct {
	UserID    string `bson:"user_id"`
	Role      string `bson:"role"`
	CreatedAt int64  `bson:"created_at"`
}

func (r *AdminRepository) FindRole(ctx context.Context, userID string) (string, error) {
	var doc adminDoc
	if err := r.coll.FindOne(ctx, bson.M{"user_id": userID}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return "", domain.ErrNoAdminRecord
		}
		return "", fmt.Errorf("find admin record: %w", err)
	}
	return doc.Role, nil
}

func (r *AdminRepository) Create(ctx context.Context, rec *domain.AdminRecord) error {
	doc := adminDoc{
		UserID:    rec.UserID,
		Role:      rec.Role,
		CreatedAt: rec.CreatedAt.Unix(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrUserExists
		}
		return fmt.Errorf("insert admin record: %w", err)
	}
	return nil
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
