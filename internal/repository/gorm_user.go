package repository

import (
	"context"

	"sonic/internal/models"

	"gorm.io/gorm"
)

type gormUserRepository struct {
	db *gorm.DB
	in instrument
}

// NewGormUserRepository creates a GORM-backed UserRepository.
func NewGormUserRepository(db *gorm.DB, driver string) UserRepository {
	return &gormUserRepository{db: db, in: newInstrument(driver, "users")}
}

func (r *gormUserRepository) Create(ctx context.Context, user *models.User) (err error) {
	ctx, end := r.in.start(ctx, "create")
	defer func() { end(err) }()

	if err = gormErr(r.db.WithContext(ctx).Create(toUserRecord(user)).Error); err != nil {
		return err
	}
	r.in.log.LogCreate(ctx, map[string]any{"id": user.ID})
	return nil
}

func (r *gormUserRepository) Update(ctx context.Context, user *models.User) (err error) {
	ctx, end := r.in.start(ctx, "update")
	defer func() { end(err) }()

	rec := toUserRecord(user)
	res := r.db.WithContext(ctx).Model(rec).Select("*").Updates(rec)
	if err = gormErr(res.Error); err != nil {
		return err
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	r.in.log.LogUpdate(ctx, map[string]any{"id": user.ID})
	return nil
}

func (r *gormUserRepository) GetByID(ctx context.Context, id string) (u *models.User, err error) {
	ctx, end := r.in.start(ctx, "get_by_id")
	defer func() { end(err) }()

	var rec userRecord
	if err = gormErr(r.db.WithContext(ctx).First(&rec, "id = ?", id).Error); err != nil {
		return nil, err
	}
	return rec.toModel(), nil
}

func (r *gormUserRepository) GetByEmail(ctx context.Context, email string) (u *models.User, err error) {
	ctx, end := r.in.start(ctx, "get_by_email")
	defer func() { end(err) }()

	var rec userRecord
	err = r.db.WithContext(ctx).First(&rec, "email = ?", models.NormalizeEmail(email)).Error
	if err = gormErr(err); err != nil {
		return nil, err
	}
	return rec.toModel(), nil
}

func (r *gormUserRepository) GetByIDs(ctx context.Context, ids []string) (users []*models.User, err error) {
	ctx, end := r.in.start(ctx, "get_by_ids")
	defer func() { end(err) }()

	users = []*models.User{}
	if len(ids) == 0 {
		return users, nil
	}
	var recs []userRecord
	if err = gormErr(r.db.WithContext(ctx).Where("id IN ?", ids).Find(&recs).Error); err != nil {
		return nil, err
	}
	for i := range recs {
		users = append(users, recs[i].toModel())
	}
	return users, nil
}

func (r *gormUserRepository) ExistsByEmail(ctx context.Context, email string) (exists bool, err error) {
	ctx, end := r.in.start(ctx, "exists_by_email")
	defer func() { end(err) }()

	var n int64
	err = r.db.WithContext(ctx).Model(&userRecord{}).
		Where("email = ?", models.NormalizeEmail(email)).
		Count(&n).Error
	if err = gormErr(err); err != nil {
		return false, err
	}
	return n > 0, nil
}
