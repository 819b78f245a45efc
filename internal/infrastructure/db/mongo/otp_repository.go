package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/meridiancredit/investor-portal/internal/core/domain"
)

const otpsCollection = "otps"

// OTPRepository keeps exactly one passcode document per principal (unique
// index on user_id). Issuance replaces the document wholesale and validation
// flips is_used in a single find-and-update, so neither path has a window in
// which two codes are simultaneously valid.
type OTPRepository struct {
	coll *mongo.Collection
}

func NewOTPRepository(db *mongo.Database) *OTPRepository {
	return &OTPRepository{coll: db.Collection(otpsCollection)}
}

type otpDoc struct {
	UserID    string    `bson:"user_id"`
	Code      string    `bson:"code"`
	Channel   string    `bson:"channel"`
	IsUsed    bool      `bson:"is_used"`
	ExpiresAt time.Time `bson:"expires_at"`
	CreatedAt time.Time `bson:"created_at"`
}

func (r *OTPRepository) Replace(ctx context.Context, otp *domain.OneTimePasscode) error {
	doc := otpDoc{
		UserID:    otp.UserID,
		Code:      otp.Code,
		Channel:   otp.Channel,
		IsUsed:    otp.IsUsed,
		ExpiresAt: otp.ExpiresAt,
		CreatedAt: otp.CreatedAt,
	}

	_, err := r.coll.ReplaceOne(ctx,
		bson.M{"user_id": otp.UserID},
		doc,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("replace otp: %w", err)
	}
	return nil
}

func (r *OTPRepository) Consume(ctx context.Context, userID, code string, now time.Time) error {
	filter := bson.M{
		"user_id":    userID,
		"code":       code,
		"is_used":    false,
		"expires_at": bson.M{"$gt": now},
	}
	update := bson.M{"$set": bson.M{"is_used": true}}

	err := r.coll.FindOneAndUpdate(ctx, filter, update).Err()
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return domain.ErrInvalidOTP
		}
		return fmt.Errorf("consume otp: %w", err)
	}
	return nil
}
