package repository

import (
	"context"

	"sonic/internal/database"
	"sonic/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type mongoUserRepository struct {
	coll *mongo.Collection
	in   instrument
}

// NewMongoUserRepository creates a MongoDB-backed UserRepository.
func NewMongoUserRepository(db *mongo.Database) UserRepository {
	return &mongoUserRepository{
		coll: db.Collection(database.UsersCollection),
		in:   newInstrument(mongoDriver, database.UsersCollection),
	}
}

func (r *mongoUserRepository) Create(ctx context.Context, user *models.User) (err error) {
	ctx, end := r.in.start(ctx, "create")
	defer func() { end(err) }()

	if _, err = r.coll.InsertOne(ctx, user); err != nil {
		return mongoErr(err)
	}
	r.in.log.LogCreate(ctx, map[string]any{"id": user.ID})
	return nil
}

func (r *mongoUserRepository) Update(ctx context.Context, user *models.User) (err error) {
	ctx, end := r.in.start(ctx, "update")
	defer func() { end(err) }()

	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": user.ID}, user)
	if err != nil {
		return mongoErr(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	r.in.log.LogUpdate(ctx, map[string]any{"id": user.ID})
	return nil
}

func (r *mongoUserRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var u models.User
	if err := r.coll.FindOne(ctx, filter).Decode(&u); err != nil {
		return nil, mongoErr(err)
	}
	if u.Interests == nil {
		u.Interests = []string{}
	}
	return &u, nil
}

func (r *mongoUserRepository) GetByID(ctx context.Context, id string) (u *models.User, err error) {
	ctx, end := r.in.start(ctx, "get_by_id")
	defer func() { end(err) }()

	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoUserRepository) GetByEmail(ctx context.Context, email string) (u *models.User, err error) {
	ctx, end := r.in.start(ctx, "get_by_email")
	defer func() { end(err) }()

	return r.findOne(ctx, bson.M{"email": models.NormalizeEmail(email)})
}

func (r *mongoUserRepository) GetByIDs(ctx context.Context, ids []string) (users []*models.User, err error) {
	ctx, end := r.in.start(ctx, "get_by_ids")
	defer func() { end(err) }()

	users = []*models.User{}
	if len(ids) == 0 {
		return users, nil
	}
	cur, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, mongoErr(err)
	}
	if err = cur.All(ctx, &users); err != nil {
		return nil, mongoErr(err)
	}
	return users, nil
}

func (r *mongoUserRepository) ExistsByEmail(ctx context.Context, email string) (exists bool, err error) {
	ctx, end := r.in.start(ctx, "exists_by_email")
	defer func() { end(err) }()

	return mongoExists(ctx, r.coll, bson.M{"email": models.NormalizeEmail(email)})
}
