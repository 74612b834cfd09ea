package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/pagne/internal/domain/models"
	"github.com/mamadbah2/pagne/internal/repository"
)

// DefaultCollection is the collection orders live in.
const DefaultCollection = "orders"

// MongoDBRepository stores orders in a MongoDB collection.
type MongoDBRepository struct {
	client     *mongo.Client
	collection *mongo.Collection
	now        func() time.Time
}

type orderDocument struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	models.Order `bson:",inline"`
}

// NewMongoDBRepository connects to MongoDB and returns a repository bound to the
// given database and collection.
func NewMongoDBRepository(ctx context.Context, uri, dbName, collName string) (*MongoDBRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	if collName == "" {
		collName = DefaultCollection
	}

	repo := NewOrderRepository(client.Database(dbName).Collection(collName))
	repo.client = client
	return repo, nil
}

// NewOrderRepository wraps an existing collection handle.
func NewOrderRepository(collection *mongo.Collection) *MongoDBRepository {
	return &MongoDBRepository{collection: collection, now: time.Now}
}

// List returns every order sorted ascending by date, then by creation time.
func (r *MongoDBRepository) List(ctx context.Context) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "createdAt", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: find orders: %w", repository.ErrStoreUnavailable, err)
	}

	var docs []orderDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("%w: decode orders: %w", repository.ErrStoreUnavailable, err)
	}

	orders := make([]models.Order, 0, len(docs))
	for _, doc := range docs {
		order := doc.Order
		order.ID = doc.ID.Hex()
		orders = append(orders, order)
	}
	return orders, nil
}

// Insert saves a new order and returns it with its ObjectID and creation time.
func (r *MongoDBRepository) Insert(ctx context.Context, order models.Order) (models.Order, error) {
	order.ID = ""
	order.CreatedAt = r.now().UTC().Truncate(time.Millisecond)

	res, err := r.collection.InsertOne(ctx, orderDocument{Order: order})
	if err != nil {
		return models.Order{}, fmt.Errorf("%w: insert order: %w", repository.ErrStoreWrite, err)
	}

	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return models.Order{}, fmt.Errorf("%w: unexpected inserted id type %T", repository.ErrStoreWrite, res.InsertedID)
	}

	order.ID = id.Hex()
	return order, nil
}

// DeleteByID removes the order with the given hex ObjectID.
func (r *MongoDBRepository) DeleteByID(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: delete %q: %w", repository.ErrStoreWrite, id, repository.ErrNotFound)
	}

	res, err := r.collection.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return fmt.Errorf("%w: delete %s: %w", repository.ErrStoreWrite, id, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%w: delete %s: %w", repository.ErrStoreWrite, id, repository.ErrNotFound)
	}
	return nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	if r.client == nil {
		return nil
	}
	if err := r.client.Disconnect(ctx); err != nil && !errors.Is(err, mongo.ErrClientDisconnected) {
		return err
	}
	return nil
}
