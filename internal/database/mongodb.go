package database

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/Vansh-Tyagi-git/PokAImon/internal/models"
)

const (
	collectionCreatures = "creatures"
	collectionCounters  = "counters"
)

// MongoStore implements CreatureStore on MongoDB. Integer ids are assigned
// from a counters collection so the entity id contract matches the SQL
// implementations.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

// creatureDoc is the BSON shape of a creature. Kept separate from
// models.Creature so wire-format concerns stay out of the domain type.
type creatureDoc struct {
	ID              int64             `bson:"_id"`
	Name            string            `bson:"name"`
	Type            string            `bson:"type"`
	Powers          []models.Power    `bson:"powers"`
	Characteristics string            `bson:"characteristics"`
	ImageURL        string            `bson:"image_url"`
	DoodleSource    string            `bson:"doodle_source"`
	Likes           int               `bson:"likes"`
	ActionImages    map[string]string `bson:"action_images"`
	CreatedAt       time.Time         `bson:"created_at"`
}

// NewMongoStore connects to MongoDB with connection pooling.
func NewMongoStore(uri string) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clientOptions := options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(50).
		SetMinPoolSize(5).
		SetServerSelectionTimeout(5 * time.Second).
		SetConnectTimeout(10 * time.Second)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	log.Println("✅ Database connected (mongodb)")
	return &MongoStore{client: client, db: client.Database("pokaimon")}, nil
}

// nextID atomically increments and returns the creature id sequence.
func (s *MongoStore) nextID(ctx context.Context) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := s.db.Collection(collectionCounters).FindOneAndUpdate(ctx,
		bson.M{"_id": collectionCreatures},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate creature id: %w", err)
	}
	return counter.Seq, nil
}

// Insert persists a new creature with a freshly allocated id.
func (s *MongoStore) Insert(ctx context.Context, c *models.Creature) (*models.Creature, error) {
	id, err := s.nextID(ctx)
	if err != nil {
		return nil, err
	}

	doc := creatureDoc{
		ID:              id,
		Name:            c.Name,
		Type:            c.Type,
		Powers:          c.Powers,
		Characteristics: c.Characteristics,
		ImageURL:        c.ImageURL,
		DoodleSource:    c.DoodleSource,
		Likes:           0,
		ActionImages:    map[string]string{},
		CreatedAt:       time.Now().UTC(),
	}
	if _, err := s.db.Collection(collectionCreatures).InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to insert creature: %w", err)
	}
	return doc.toModel(), nil
}

// List returns every creature in the store.
func (s *MongoStore) List(ctx context.Context) ([]models.Creature, error) {
	cursor, err := s.db.Collection(collectionCreatures).Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list creatures: %w", err)
	}
	defer cursor.Close(ctx)

	var creatures []models.Creature
	for cursor.Next(ctx) {
		var doc creatureDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode creature: %w", err)
		}
		creatures = append(creatures, *doc.toModel())
	}
	return creatures, cursor.Err()
}

// GetByID returns a single creature or ErrNotFound.
func (s *MongoStore) GetByID(ctx context.Context, id int64) (*models.Creature, error) {
	var doc creatureDoc
	err := s.db.Collection(collectionCreatures).FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get creature %d: %w", id, err)
	}
	return doc.toModel(), nil
}

// Like increments the like counter and returns the updated creature.
func (s *MongoStore) Like(ctx context.Context, id int64) (*models.Creature, error) {
	var doc creatureDoc
	err := s.db.Collection(collectionCreatures).FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{"likes": 1}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to like creature %d: %w", id, err)
	}
	return doc.toModel(), nil
}

// Delete removes a creature, reporting whether the id existed.
func (s *MongoStore) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.Collection(collectionCreatures).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, fmt.Errorf("failed to delete creature %d: %w", id, err)
	}
	return res.DeletedCount > 0, nil
}

// SetActionImage upserts one key of action_images. The dotted-path $set is
// atomic on the server, so sibling keys are never clobbered.
func (s *MongoStore) SetActionImage(ctx context.Context, id int64, powerName, url string) (*models.Creature, error) {
	var doc creatureDoc
	err := s.db.Collection(collectionCreatures).FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"action_images." + powerName: url}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to set action image for %d: %w", id, err)
	}
	return doc.toModel(), nil
}

// Ping verifies the MongoDB deployment is reachable.
func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (d *creatureDoc) toModel() *models.Creature {
	images := d.ActionImages
	if images == nil {
		images = map[string]string{}
	}
	return &models.Creature{
		ID:              d.ID,
		Name:            d.Name,
		Type:            d.Type,
		Powers:          d.Powers,
		Characteristics: d.Characteristics,
		ImageURL:        d.ImageURL,
		DoodleSource:    d.DoodleSource,
		Likes:           d.Likes,
		ActionImages:    images,
		CreatedAt:       d.CreatedAt,
	}
}
