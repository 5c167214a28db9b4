package repository

import (
	"context"

	"sonic/internal/database"
	"sonic/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type mongoLikeRepository struct {
	coll *mongo.Collection
	in   instrument
}

// NewMongoLikeRepository creates a MongoDB-backed LikeRepository.
func NewMongoLikeRepository(db *mongo.Database) LikeRepository {
	return &mongoLikeRepository{
		coll: db.Collection(database.LikesCollection),
		in:   newInstrument(mongoDriver, database.LikesCollection),
	}
}

func (r *mongoLikeRepository) Toggle(ctx context.Context, like *models.Like) (liked bool, err error) {
	ctx, end := r.in.start(ctx, "toggle")
	defer func() { end(err) }()

	key := bson.M{"postId": like.PostID, "userId": like.UserID}
	res, err := r.coll.DeleteOne(ctx, key)
	if err != nil {
		return false, mongoErr(err)
	}
	if res.DeletedCount > 0 {
		r.in.log.LogDelete(ctx, map[string]any{"post_id": like.PostID, "user_id": like.UserID})
		return false, nil
	}

	if _, err = r.coll.InsertOne(ctx, like); err != nil {
		// Lost the race to a concurrent toggle that inserted the same like.
		if mongo.IsDuplicateKeyError(err) {
			return true, nil
		}
		return false, mongoErr(err)
	}
	r.in.log.LogCreate(ctx, map[string]any{"post_id": like.PostID, "user_id": like.UserID})
	return true, nil
}

func (r *mongoLikeRepository) Exists(ctx context.Context, postID, userID string) (exists bool, err error) {
	ctx, end := r.in.start(ctx, "exists")
	defer func() { end(err) }()

	return mongoExists(ctx, r.coll, bson.M{"postId": postID, "userId": userID})
}

func (r *mongoLikeRepository) CountForPost(ctx context.Context, postID string) (n int64, err error) {
	ctx, end := r.in.start(ctx, "count_for_post")
	defer func() { end(err) }()

	n, err = r.coll.CountDocuments(ctx, bson.M{"postId": postID})
	return n, mongoErr(err)
}

type mongoParticipationRepository struct {
	coll *mongo.Collection
	in   instrument
}

// NewMongoParticipationRepository creates a MongoDB-backed CampaignParticipationRepository.
func NewMongoParticipationRepository(db *mongo.Database) CampaignParticipationRepository {
	return &mongoParticipationRepository{
		coll: db.Collection(database.CampaignParticipationsCollection),
		in:   newInstrument(mongoDriver, database.CampaignParticipationsCollection),
	}
}

func (r *mongoParticipationRepository) Add(ctx context.Context, p *models.CampaignParticipation) (created bool, err error) {
	ctx, end := r.in.start(ctx, "add")
	defer func() { end(err) }()

	if _, err = r.coll.InsertOne(ctx, p); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, mongoErr(err)
	}
	r.in.log.LogCreate(ctx, map[string]any{"post_id": p.PostID, "user_id": p.UserID})
	return true, nil
}

func (r *mongoParticipationRepository) Exists(ctx context.Context, postID, userID string) (exists bool, err error) {
	ctx, end := r.in.start(ctx, "exists")
	defer func() { end(err) }()

	return mongoExists(ctx, r.coll, bson.M{"postId": postID, "userId": userID})
}

func (r *mongoParticipationRepository) CountForPost(ctx context.Context, postID string) (n int64, err error) {
	ctx, end := r.in.start(ctx, "count_for_post")
	defer func() { end(err) }()

	n, err = r.coll.CountDocuments(ctx, bson.M{"postId": postID})
	return n, mongoErr(err)
}

func (r *mongoParticipationRepository) ListForPost(ctx context.Context, postID string, page, pageSize int) (out models.Page[*models.CampaignParticipation], err error) {
	ctx, end := r.in.start(ctx, "list_for_post")
	defer func() { end(err) }()

	page, pageSize = models.NormalizePaging(page, pageSize)
	sort := bson.D{{Key: "joinedAt", Value: 1}, {Key: "_id", Value: 1}}
	items, total, err := mongoPage[models.CampaignParticipation](ctx, r.coll, bson.M{"postId": postID}, sort, page, pageSize)
	if err != nil {
		return out, err
	}
	return models.NewPage(items, page, pageSize, total), nil
}
