package repository

import (
	"context"

	"sonic/internal/database"
	"sonic/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type mongoCommentRepository struct {
	coll *mongo.Collection
	in   instrument
}

// NewMongoCommentRepository creates a MongoDB-backed CommentRepository.
func NewMongoCommentRepository(db *mongo.Database) CommentRepository {
	return &mongoCommentRepository{
		coll: db.Collection(database.CommentsCollection),
		in:   newInstrument(mongoDriver, database.CommentsCollection),
	}
}

func (r *mongoCommentRepository) Create(ctx context.Context, comment *models.Comment) (err error) {
	ctx, end := r.in.start(ctx, "create")
	defer func() { end(err) }()

	if _, err = r.coll.InsertOne(ctx, comment); err != nil {
		return mongoErr(err)
	}
	r.in.log.LogCreate(ctx, map[string]any{"id": comment.ID, "post_id": comment.PostID})
	return nil
}

func (r *mongoCommentRepository) Update(ctx context.Context, comment *models.Comment) (err error) {
	ctx, end := r.in.start(ctx, "update")
	defer func() { end(err) }()

	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": comment.ID}, comment)
	if err != nil {
		return mongoErr(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	r.in.log.LogUpdate(ctx, map[string]any{"id": comment.ID, "deleted": comment.IsDeleted})
	return nil
}

func (r *mongoCommentRepository) GetByID(ctx context.Context, id string) (c *models.Comment, err error) {
	ctx, end := r.in.start(ctx, "get_by_id")
	defer func() { end(err) }()

	var comment models.Comment
	if err = r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&comment); err != nil {
		return nil, mongoErr(err)
	}
	return &comment, nil
}

func (r *mongoCommentRepository) ListForPost(ctx context.Context, postID string, page, pageSize int) (out models.Page[*models.Comment], err error) {
	ctx, end := r.in.start(ctx, "list_for_post")
	defer func() { end(err) }()

	page, pageSize = models.NormalizePaging(page, pageSize)
	filter := bson.M{"postId": postID, "isDeleted": false}
	sort := bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}
	items, total, err := mongoPage[models.Comment](ctx, r.coll, filter, sort, page, pageSize)
	if err != nil {
		return out, err
	}
	return models.NewPage(items, page, pageSize, total), nil
}
