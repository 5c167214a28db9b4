package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"sonic/internal/config"
	"sonic/internal/middleware"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// Collection names of the document store.
const (
	UsersCollection                  = "users"
	PostsCollection                  = "posts"
	CommentsCollection               = "comments"
	LikesCollection                  = "likes"
	CampaignParticipationsCollection = "campaignParticipations"
)

const mongoConnectTimeout = 10 * time.Second

// ConnectMongo connects to MongoDB, verifies the primary is reachable and
// returns the client together with the configured database.
func ConnectMongo(ctx context.Context, cfg *config.Config) (*mongo.Client, *mongo.Database, error) {
	opts := options.Client().
		ApplyURI(cfg.MongoURI).
		SetConnectTimeout(mongoConnectTimeout).
		SetServerSelectionTimeout(mongoConnectTimeout)

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, mongoConnectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	middleware.Logger.Info("Connected to MongoDB", slog.String("database", cfg.MongoDatabase))
	return client, client.Database(cfg.MongoDatabase), nil
}

// PingMongo checks the primary is reachable.
func PingMongo(ctx context.Context, db *mongo.Database) error {
	return db.Client().Ping(ctx, readpref.Primary())
}

// CollectionIndexes pairs a collection with the indexes it must carry.
type CollectionIndexes struct {
	Collection string
	Indexes    []mongo.IndexModel
}

// MongoIndexes lists every index the repositories rely on.
func MongoIndexes() []CollectionIndexes {
	return []CollectionIndexes{
		{
			Collection: UsersCollection,
			Indexes: []mongo.IndexModel{{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("ux_users_email"),
			}},
		},
		{
			Collection: PostsCollection,
			Indexes: []mongo.IndexModel{
				{
					Keys:    bson.D{{Key: "isDeleted", Value: 1}, {Key: "createdAt", Value: -1}},
					Options: options.Index().SetName("ix_posts_isDeleted_createdAt"),
				},
				{
					Keys:    bson.D{{Key: "isFeatured", Value: 1}, {Key: "createdAt", Value: -1}},
					Options: options.Index().SetName("ix_posts_featured_createdAt"),
				},
			},
		},
		{
			Collection: CommentsCollection,
			Indexes: []mongo.IndexModel{{
				Keys: bson.D{
					{Key: "postId", Value: 1},
					{Key: "isDeleted", Value: 1},
					{Key: "createdAt", Value: 1},
				},
				Options: options.Index().SetName("ix_comments_post_isDeleted_createdAt"),
			}},
		},
		{
			Collection: LikesCollection,
			Indexes: []mongo.IndexModel{{
				Keys:    bson.D{{Key: "postId", Value: 1}, {Key: "userId", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("ux_likes_post_user"),
			}},
		},
		{
			Collection: CampaignParticipationsCollection,
			Indexes: []mongo.IndexModel{{
				Keys:    bson.D{{Key: "postId", Value: 1}, {Key: "userId", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("ux_campaign_join_post_user"),
			}},
		},
	}
}

// EnsureMongoIndexes creates missing indexes. Creating an existing index with
// the same definition is a no-op on the server.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	for _, ci := range MongoIndexes() {
		names, err := db.Collection(ci.Collection).Indexes().CreateMany(ctx, ci.Indexes)
		if err != nil {
			return fmt.Errorf("creating indexes on %s: %w", ci.Collection, err)
		}
		middleware.Logger.Info("Mongo indexes ensured",
			slog.String("collection", ci.Collection),
			slog.Any("indexes", names),
		)
	}
	return nil
}
