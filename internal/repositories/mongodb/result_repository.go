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

// ResultRepository implements the repositories.ResultRepository interface
type ResultRepository struct {
	collection *mongo.Collection
}

// NewResultRepository creates a new ResultRepository
func NewResultRepository(db *mongo.Database) repositories.ResultRepository {
	return &ResultRepository{
		collection: db.Collection("results"),
	}
}

// EnsureIndexes creates the unique index enforcing at most one result per round
func (r *ResultRepository) EnsureIndexes(ctx context.Context) error {
	model := mongo.IndexModel{
		Keys:    bson.D{{Key: "roundId", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	_, err := r.collection.Indexes().CreateOne(ctx, model)
	return err
}

// Create inserts a new result. Returns a duplicate-key error when a result
// already exists for the round.
func (r *ResultRepository) Create(ctx context.Context, result *models.Result) error {
	result.CreatedAt = time.Now()
	result.UpdatedAt = time.Now()
	res, err := r.collection.InsertOne(ctx, result)
	if err != nil {
		return err
	}
	result.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// FindByRound finds the result for a round
func (r *ResultRepository) FindByRound(ctx context.Context, roundID string) (*models.Result, error) {
	var result models.Result
	err := r.collection.FindOne(ctx, bson.M{"roundId": roundID}).Decode(&result)
	if err != nil {
		return nil, err // Returns mongo.ErrNoDocuments if not found
	}
	return &result, nil
}

// FindLatestPublished finds the most recent result that has been announced
func (r *ResultRepository) FindLatestPublished(ctx context.Context) (*models.Result, error) {
	opts := options.FindOne().SetSort(bson.M{"roundId": -1})
	var result models.Result
	err := r.collection.FindOne(ctx, bson.M{"isPublished": true}, opts).Decode(&result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// MarkPublished flips isPublished to true for a round and returns the updated
// record. The flip is conditional on isPublished being false so a concurrent
// second announce cannot succeed.
func (r *ResultRepository) MarkPublished(ctx context.Context, roundID string) (*models.Result, error) {
	filter := bson.M{"roundId": roundID, "isPublished": false}
	update := bson.M{"$set": bson.M{
		"isPublished": true,
		"announcedAt": time.Now(),
		"updatedAt":   time.Now(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var result models.Result
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&result)
	if err != nil {
		return nil, err // mongo.ErrNoDocuments when absent or already published
	}
	return &result, nil
}

// DeleteAll removes every result
func (r *ResultRepository) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.collection.DeleteMany(ctx, bson.M{})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
