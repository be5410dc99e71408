package appointmentRepo

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
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when no appointment matches the given ID.
var ErrNotFound = errors.New("appointment not found")

// AppointmentRepository exposes queries and writes for appointment documents.
type AppointmentRepository interface {
	// ListForProviderInWindow returns appointments for a provider that overlap
	// [from, to), excluding the given statuses, sorted by start time ascending.
	ListForProviderInWindow(ctx context.Context, providerID string, from, to time.Time, excludeStatuses []string) ([]models.Appointment, error)
	// CreateTransactionally inserts an appointment inside a Mongo transaction.
	CreateTransactionally(ctx context.Context, appt *models.Appointment) error
	GetByID(ctx context.Context, apptID string) (*models.Appointment, error)
	UpdateStatus(ctx context.Context, apptID, status string) error
	CancelAppointment(ctx context.Context, apptID string) error
}

// MongoAppointmentRepo implements AppointmentRepository using MongoDB.
type MongoAppointmentRepo struct {
	coll *mongo.Collection
}

// NewMongoAppointmentRepo constructs a new instance of MongoAppointmentRepo.
func NewMongoAppointmentRepo() AppointmentRepository {
	db := database.MongoClient.Database(config.AppConfig.DatabaseName)
	return &MongoAppointmentRepo{coll: db.Collection("appointments")}
}

func (repo *MongoAppointmentRepo) ListForProviderInWindow(ctx context.Context, providerID string, from, to time.Time, excludeStatuses []string) ([]models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"provider_id": providerID,
		"start":       bson.M{"$lt": to},
		"end":         bson.M{"$gt": from},
	}
	if len(excludeStatuses) > 0 {
		filter["status"] = bson.M{"$nin": excludeStatuses}
	}

	opts := options.Find().SetSort(bson.D{{Key: "start", Value: 1}})
	cursor, err := repo.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error finding appointments for provider %s: %w", providerID, err)
	}
	defer cursor.Close(ctx)

	var appts []models.Appointment
	for cursor.Next(ctx) {
		var appt models.Appointment
		if err := cursor.Decode(&appt); err != nil {
			return nil, fmt.Errorf("error decoding appointment: %w", err)
		}
		appts = append(appts, appt)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return appts, nil
}

func (repo *MongoAppointmentRepo) CreateTransactionally(ctx context.Context, appt *models.Appointment) error {
	client := repo.coll.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnFn := func(sc mongo.SessionContext) error {
		if _, err := repo.coll.InsertOne(sc, appt); err != nil {
			return fmt.Errorf("insert appointment failed: %w", err)
		}
		return nil
	}

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		return fmt.Errorf("appointment transaction failed: %w", err)
	}

	return nil
}

func (repo *MongoAppointmentRepo) GetByID(ctx context.Context, apptID string) (*models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var appt models.Appointment
	filter := bson.M{"id": apptID}
	if err := repo.coll.FindOne(ctx, filter).Decode(&appt); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching appointment with id %s: %w", apptID, err)
	}
	return &appt, nil
}

func (repo *MongoAppointmentRepo) UpdateStatus(ctx context.Context, apptID, status string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": apptID}
	update := bson.M{"$set": bson.M{"status": status}}
	res, err := repo.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("error updating appointment %s: %w", apptID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// CancelAppointment marks an appointment cancelled. The record is kept so the
// history survives; cancelled appointments are excluded from conflict queries.
func (repo *MongoAppointmentRepo) CancelAppointment(ctx context.Context, apptID string) error {
	return repo.UpdateStatus(ctx, apptID, models.StatusCancelled)
}
