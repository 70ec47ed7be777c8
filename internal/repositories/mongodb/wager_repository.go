package mongodb

import (
	"context"
	"time"

	"github.com/khamphay/laolotto-bot/internal/models"
	"github.com/khamphay/laolotto-bot/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// WagerRepository implements the repositories.WagerRepository interface
type WagerRepository struct {
	collection *mongo.Collection
}

// NewWagerRepository creates a new WagerRepository
func NewWagerRepository(db *mongo.Database) repositories.WagerRepository {
	return &WagerRepository{
		collection: db.Collection("wagers"),
	}
}

// EnsureIndexes creates the unique index that enforces at most one wager per
// (userId, roundId). Duplicate submissions race on this index, not on
// application-level checks.
func (r *WagerRepository) EnsureIndexes(ctx context.Context) error {
	model := mongo.IndexModel{
		Keys: bson.D{
			{Key: "userId", Value: 1},
			{Key: "roundId", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	}
	_, err := r.collection.Indexes().CreateOne(ctx, model)
	return err
}

// Create inserts a new wager. Returns a duplicate-key error when a wager
// already exists for the same user and round.
func (r *WagerRepository) Create(ctx context.Context, wager *models.Wager) error {
	if wager.CreatedAt.IsZero() {
		wager.CreatedAt = time.Now()
	}
	res, err := r.collection.InsertOne(ctx, wager)
	if err != nil {
		return err
	}
	wager.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// FindByUserAndRound finds the wager a user placed in a round
func (r *WagerRepository) FindByUserAndRound(ctx context.Context, userID, roundID string) (*models.Wager, error) {
	var wager models.Wager
	filter := bson.M{"userId": userID, "roundId": roundID}
	err := r.collection.FindOne(ctx, filter).Decode(&wager)
	if err != nil {
		return nil, err // Returns mongo.ErrNoDocuments if not found
	}
	return &wager, nil
}

// FindByRound finds all wagers placed in a round
func (r *WagerRepository) FindByRound(ctx context.Context, roundID string) ([]*models.Wager, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": 1})
	cursor, err := r.collection.Find(ctx, bson.M{"roundId": roundID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var wagers []*models.Wager
	if err := cursor.All(ctx, &wagers); err != nil {
		return nil, err
	}
	if wagers == nil {
		wagers = []*models.Wager{}
	}
	return wagers, nil
}

// FindByNumber finds wagers in a round matching a number exactly. When
// position is not PositionNone the match is narrowed to that position.
func (r *WagerRepository) FindByNumber(ctx context.Context, roundID, number string, position models.Position) ([]*models.Wager, error) {
	filter := bson.M{"roundId": roundID, "number": number}
	if position != models.PositionNone {
		filter["position"] = position
	}
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var wagers []*models.Wager
	if err := cursor.All(ctx, &wagers); err != nil {
		return nil, err
	}
	if wagers == nil {
		wagers = []*models.Wager{}
	}
	return wagers, nil
}

// CountByRound counts all wagers in a round
func (r *WagerRepository) CountByRound(ctx context.Context, roundID string) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"roundId": roundID})
}

// CountDistinctUsers counts users that placed a wager in a round
func (r *WagerRepository) CountDistinctUsers(ctx context.Context, roundID string) (int64, error) {
	values, err := r.collection.Distinct(ctx, "userId", bson.M{"roundId": roundID})
	if err != nil {
		return 0, err
	}
	return int64(len(values)), nil
}

// DeleteByRound removes all wagers belonging to a round
func (r *WagerRepository) DeleteByRound(ctx context.Context, roundID string) (int64, error) {
	res, err := r.collection.DeleteMany(ctx, bson.M{"roundId": roundID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteAll removes every wager
func (r *WagerRepository) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.collection.DeleteMany(ctx, bson.M{})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
