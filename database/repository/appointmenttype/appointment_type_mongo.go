package appointmentTypeRepo

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

// ErrNotFound is returned when no appointment type matches the given ID.
var ErrNotFound = errors.New("appointment type not found")

// AppointmentTypeRepository exposes read access to appointment-type documents.
type AppointmentTypeRepository interface {
	GetByID(ctx context.Context, typeID string) (*models.AppointmentType, error)
}

// MongoAppointmentTypeRepo implements AppointmentTypeRepository using MongoDB.
type MongoAppointmentTypeRepo struct {
	coll *mongo.Collection
}

// NewMongoAppointmentTypeRepo constructs a new instance of MongoAppointmentTypeRepo.
func NewMongoAppointmentTypeRepo() AppointmentTypeRepository {
	db := database.MongoClient.Database(config.AppConfig.DatabaseName)
	return &MongoAppointmentTypeRepo{coll: db.Collection("appointment_types")}
}

// GetByID retrieves an appointment-type document by ID.
func (repo *MongoAppointmentTypeRepo) GetByID(ctx context.Context, typeID string) (*models.AppointmentType, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var apptType models.AppointmentType
	filter := bson.M{"id": typeID}
	if err := repo.coll.FindOne(ctx, filter).Decode(&apptType); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching appointment type with id %s: %w", typeID, err)
	}
	return &apptType, nil
}
