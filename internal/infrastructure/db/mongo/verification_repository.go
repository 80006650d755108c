package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/forka/forum-backend/internal/core/domain"
)

const collectionVerificationCodes = "verification_codes"

// VerificationRepository is the MongoDB verification ledger.
type VerificationRepository struct {
	col *mongo.Collection
}

func NewVerificationRepository(db *mongo.Database) *VerificationRepository {
	return &VerificationRepository{col: db.Collection(collectionVerificationCodes)}
}

// EnsureIndexes creates the lookup index for code adjudication.
func (r *VerificationRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{
			{Key: "user_id", Value: 1},
			{Key: "purpose", Value: 1},
			{Key: "used", Value: 1},
		}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func (r *VerificationRepository) Create(ctx context.Context, code *domain.VerificationCode) (*domain.VerificationCode, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if code.ID == "" {
		code.ID = primitive.NewObjectID().Hex()
	}
	if _, err := r.col.InsertOne(ctx, code); err != nil {
		return nil, err
	}
	return code, nil
}

func (r *VerificationRepository) InvalidateUnused(ctx context.Context, userID string, purpose domain.CodePurpose) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.UpdateMany(ctx,
		bson.M{"user_id": userID, "purpose": purpose, "used": false},
		bson.M{"$set": bson.M{"used": true}},
	)
	return err
}

// FindLatestUnused returns the newest unused code matching the triplet.
// Older matches were invalidated at issuance time; the sort is defensive.
func (r *VerificationRepository) FindLatestUnused(ctx context.Context, userID string, purpose domain.CodePurpose, code string) (*domain.VerificationCode, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"user_id": userID, "purpose": purpose, "code": code, "used": false}
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})

	var vc domain.VerificationCode
	if err := r.col.FindOne(ctx, filter, opts).Decode(&vc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrInvalidCode
		}
		return nil, err
	}
	return &vc, nil
}

func (r *VerificationRepository) MarkUsed(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"used": true}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrInvalidCode
	}
	return nil
}

func (r *VerificationRepository) DeleteByUser(ctx context.Context, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.DeleteMany(ctx, bson.M{"user_id": userID})
	return err
}
