package repository

import (
	"context"
	"errors"
	"fmt"

	"sonic/internal/database"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const mongoDriver = "mongo"

// NewMongoStore wires the document repositories over a MongoDB database.
// Close disconnects the owning client.
func NewMongoStore(db *mongo.Database) *Store {
	return &Store{
		Driver:         mongoDriver,
		Users:          NewMongoUserRepository(db),
		Posts:          NewMongoPostRepository(db),
		Comments:       NewMongoCommentRepository(db),
		Likes:          NewMongoLikeRepository(db),
		Participations: NewMongoParticipationRepository(db),
		ping: func(ctx context.Context) error {
			return database.PingMongo(ctx, db)
		},
		close: func(ctx context.Context) error {
			return db.Client().Disconnect(ctx)
		},
	}
}

func mongoErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	}
	return err
}

// mongoPage runs a counted, sorted and paged Find and decodes into T.
func mongoPage[T any](ctx context.Context, coll *mongo.Collection, filter bson.M, sort bson.D, page, pageSize int) ([]*T, int64, error) {
	total, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, mongoErr(err)
	}

	opts := options.Find().
		SetSort(sort).
		SetSkip(int64(page-1) * int64(pageSize)).
		SetLimit(int64(pageSize))
	cur, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, mongoErr(err)
	}

	items := []*T{}
	if err := cur.All(ctx, &items); err != nil {
		return nil, 0, mongoErr(err)
	}
	return items, total, nil
}

func mongoExists(ctx context.Context, coll *mongo.Collection, filter bson.M) (bool, error) {
	n, err := coll.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, mongoErr(err)
	}
	return n > 0, nil
}
