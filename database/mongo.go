package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"partyinvite/models"
	"partyinvite/sl"
)

const (
	collectionUsers       = "users"
	collectionInvitations = "invitations"
)

// MongoStore keeps invitations and users in MongoDB. Identifiers are the
// hex form of the ObjectID assigned to each document on insert.
type MongoStore struct {
	client   *mongo.Client
	database *mongo.Database
	log      *slog.Logger
}

func OpenMongo(ctx context.Context, uri, database string, log *slog.Logger) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongodb connect: %w", err)
	}
	s := &MongoStore{
		client:   client,
		database: client.Database(database),
		log:      log.With(sl.Module("database.mongo")),
	}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	s.log.Info("connected", slog.String("database", database))
	return s, nil
}

func (m *MongoStore) ensureIndexes(ctx context.Context) error {
	_, err := m.database.Collection(collectionUsers).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("mongodb users index: %w", err)
	}
	_, err = m.database.Collection(collectionInvitations).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("mongodb invitations index: %w", err)
	}
	return nil
}

func (m *MongoStore) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, nil)
}

func (m *MongoStore) Close() error {
	return m.client.Disconnect(context.Background())
}

func (m *MongoStore) invitations() *mongo.Collection {
	return m.database.Collection(collectionInvitations)
}

func (m *MongoStore) CreateInvitation(ctx context.Context, inv *models.Invitation) error {
	now := time.Now().UTC()
	inv.ID = primitive.NewObjectID().Hex()
	if inv.Status == "" {
		inv.Status = models.StatusOpen
	}
	inv.CreatedAt = now
	inv.UpdatedAt = now
	if _, err := m.invitations().InsertOne(ctx, inv); err != nil {
		return fmt.Errorf("mongodb insert invitation: %w", err)
	}
	return nil
}

func (m *MongoStore) ListInvitations(ctx context.Context) ([]models.Invitation, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := m.invitations().Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("mongodb find invitations: %w", err)
	}
	defer cursor.Close(ctx)

	invitations := []models.Invitation{}
	if err := cursor.All(ctx, &invitations); err != nil {
		return nil, fmt.Errorf("mongodb decode invitations: %w", err)
	}
	return invitations, nil
}

func (m *MongoStore) GetInvitation(ctx context.Context, id string) (*models.Invitation, error) {
	var inv models.Invitation
	err := m.invitations().FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&inv)
	if err != nil {
		return nil, m.findError(err, models.ErrNotFound)
	}
	return &inv, nil
}

func (m *MongoStore) DeleteInvitation(ctx context.Context, id string) (*models.Invitation, error) {
	var inv models.Invitation
	err := m.invitations().FindOneAndDelete(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&inv)
	if err != nil {
		return nil, m.findError(err, models.ErrNotFound)
	}
	return &inv, nil
}

func (m *MongoStore) ConfirmInvitation(ctx context.Context, id string, at time.Time) (*models.Invitation, error) {
	filter := bson.D{
		{Key: "_id", Value: id},
		{Key: "confirmed", Value: false},
		{Key: "status", Value: models.StatusOpen},
	}
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "confirmed", Value: true},
		{Key: "status", Value: models.StatusClosed},
		{Key: "confirmed_at", Value: at.UTC()},
		{Key: "updated_at", Value: at.UTC()},
	}}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var inv models.Invitation
	err := m.invitations().FindOneAndUpdate(ctx, filter, update, opts).Decode(&inv)
	if err == nil {
		return &inv, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("mongodb confirm invitation: %w", err)
	}

	current, err := m.GetInvitation(ctx, id)
	if err != nil {
		return nil, err
	}
	return nil, confirmOutcome(current)
}

func (m *MongoStore) CreateUser(ctx context.Context, user *models.User) error {
	now := time.Now().UTC()
	user.ID = primitive.NewObjectID().Hex()
	user.CreatedAt = now
	user.UpdatedAt = now
	if _, err := m.database.Collection(collectionUsers).InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.ErrConflict
		}
		return fmt.Errorf("mongodb insert user: %w", err)
	}
	return nil
}

func (m *MongoStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := m.database.Collection(collectionUsers).FindOne(ctx, bson.D{{Key: "email", Value: email}}).Decode(&user)
	if err != nil {
		return nil, m.findError(err, models.ErrUserNotFound)
	}
	return &user, nil
}

func (m *MongoStore) findError(err error, notFound error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return notFound
	}
	return fmt.Errorf("mongodb find: %w", err)
}
