package providerRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"clinicore/config"
	"clinicore/database"
	"clinicore/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound is returned when no provider matches the given ID.
var ErrNotFound = errors.New("provider not found")

// ProviderRepository exposes read access to provider documents.
type ProviderRepository interface {
	GetByID(ctx context.Context, providerID string) (*models.Provider, error)
}

// MongoProviderRepo implements ProviderRepository using MongoDB.
type MongoProviderRepo struct {
	coll *mongo.Collection
}

// NewMongoProviderRepo constructs a new instance of MongoProviderRepo.
func NewMongoProviderRepo() ProviderRepository {
	db := database.MongoClient.Database(config.AppConfig.DatabaseName)
	return &MongoProviderRepo{coll: db.Collection("providers")}
}

// GetByID retrieves a provider document by ID.
func (repo *MongoProviderRepo) GetByID(ctx context.Context, providerID string) (*models.Provider, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var provider models.Provider
	filter := bson.M{"id": providerID}
	if err := repo.coll.FindOne(ctx, filter).Decode(&provider); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching provider with id %s: %w", providerID, err)
	}
	return &provider, nil
}
