package mongodb

import (
	"context"
	"time"

	"github.com/khamphay/laolotto-bot/internal/models"
	"github.com/khamphay/laolotto-bot/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Ensure adminUserRepository implements repositories.AdminUserRepository
var _ repositories.AdminUserRepository = (*adminUserRepository)(nil)

type adminUserRepository struct {
	collection *mongo.Collection
}

// NewAdminUserRepository creates a new repository for admin users
func NewAdminUserRepository(db *mongo.Database) repositories.AdminUserRepository {
	return &adminUserRepository{
		collection: db.Collection("admin_users"),
	}
}

// Create inserts a new admin user into the database
func (r *adminUserRepository) Create(ctx context.Context, adminUser *models.AdminUser) (*models.AdminUser, error) {
	adminUser.ID = primitive.NewObjectID()
	adminUser.CreatedAt = time.Now()
	adminUser.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, adminUser)
	if err != nil {
		return nil, err
	}
	return adminUser, nil
}

// FindByEmail finds an admin user by their email address
func (r *adminUserRepository) FindByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	var adminUser models.AdminUser
	filter := bson.M{"email": email}
	err := r.collection.FindOne(ctx, filter).Decode(&adminUser)
	if err != nil {
		// mongo.ErrNoDocuments lets the service layer distinguish 'not found'
		return nil, err
	}
	return &adminUser, nil
}

// FindByID finds an admin user by their ID
func (r *adminUserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.AdminUser, error) {
	var adminUser models.AdminUser
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&adminUser)
	if err != nil {
		return nil, err
	}
	return &adminUser, nil
}
