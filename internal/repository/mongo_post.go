package repository

import (
	"context"
	"regexp"

	"sonic/internal/database"
	"sonic/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type mongoPostRepository struct {
	coll *mongo.Collection
	in   instrument
}

// NewMongoPostRepository creates a MongoDB-backed PostRepository.
func NewMongoPostRepository(db *mongo.Database) PostRepository {
	return &mongoPostRepository{
		coll: db.Collection(database.PostsCollection),
		in:   newInstrument(mongoDriver, database.PostsCollection),
	}
}

func (r *mongoPostRepository) Create(ctx context.Context, post *models.Post) (err error) {
	ctx, end := r.in.start(ctx, "create")
	defer func() { end(err) }()

	if _, err = r.coll.InsertOne(ctx, post); err != nil {
		return mongoErr(err)
	}
	r.in.log.LogCreate(ctx, map[string]any{"id": post.ID, "type": string(post.Type)})
	return nil
}

func (r *mongoPostRepository) Update(ctx context.Context, post *models.Post) (err error) {
	ctx, end := r.in.start(ctx, "update")
	defer func() { end(err) }()

	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": post.ID}, post)
	if err != nil {
		return mongoErr(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	r.in.log.LogUpdate(ctx, map[string]any{"id": post.ID, "deleted": post.IsDeleted})
	return nil
}

func (r *mongoPostRepository) GetByID(ctx context.Context, id string) (p *models.Post, err error) {
	ctx, end := r.in.start(ctx, "get_by_id")
	defer func() { end(err) }()

	var post models.Post
	if err = r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&post); err != nil {
		return nil, mongoErr(err)
	}
	if post.Tags == nil {
		post.Tags = []string{}
	}
	return &post, nil
}

// postFilter translates a feed query into a document filter.
func postFilter(q PostQuery) bson.M {
	filter := bson.M{"isDeleted": false}
	if q.Type != nil {
		filter["type"] = string(*q.Type)
	}
	if q.Featured != nil {
		filter["isFeatured"] = *q.Featured
	}
	if tags := models.NormalizeTags(q.Tags); len(tags) > 0 {
		filter["tags"] = bson.M{"$in": tags}
	}
	if q.Search != "" {
		pattern := bson.M{"$regex": regexp.QuoteMeta(q.Search), "$options": "i"}
		filter["$or"] = bson.A{
			bson.M{"title": pattern},
			bson.M{"body": pattern},
		}
	}
	return filter
}

func (r *mongoPostRepository) Query(ctx context.Context, q PostQuery) (page models.Page[*models.Post], err error) {
	ctx, end := r.in.start(ctx, "query")
	defer func() { end(err) }()

	pageNum, pageSize := models.NormalizePaging(q.Page, q.PageSize)
	sort := bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}
	items, total, err := mongoPage[models.Post](ctx, r.coll, postFilter(q), sort, pageNum, pageSize)
	if err != nil {
		return page, err
	}
	for _, p := range items {
		if p.Tags == nil {
			p.Tags = []string{}
		}
	}
	return models.NewPage(items, pageNum, pageSize, total), nil
}
