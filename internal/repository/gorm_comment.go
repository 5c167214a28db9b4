package repository

import (
	"context"

	"sonic/internal/models"

	"gorm.io/gorm"
)

type gormCommentRepository struct {
	db *gorm.DB
	in instrument
}

// NewGormCommentRepository creates a GORM-backed CommentRepository.
func NewGormCommentRepository(db *gorm.DB, driver string) CommentRepository {
	return &gormCommentRepository{db: db, in: newInstrument(driver, "comments")}
}

func (r *gormCommentRepository) Create(ctx context.Context, comment *models.Comment) (err error) {
	ctx, end := r.in.start(ctx, "create")
	defer func() { end(err) }()

	if err = gormErr(r.db.WithContext(ctx).Create(toCommentRecord(comment)).Error); err != nil {
		return err
	}
	r.in.log.LogCreate(ctx, map[string]any{"id": comment.ID, "post_id": comment.PostID})
	return nil
}

func (r *gormCommentRepository) Update(ctx context.Context, comment *models.Comment) (err error) {
	ctx, end := r.in.start(ctx, "update")
	defer func() { end(err) }()

	rec := toCommentRecord(comment)
	res := r.db.WithContext(ctx).Model(rec).Select("*").Updates(rec)
	if err = gormErr(res.Error); err != nil {
		return err
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	r.in.log.LogUpdate(ctx, map[string]any{"id": comment.ID, "deleted": comment.IsDeleted})
	return nil
}

func (r *gormCommentRepository) GetByID(ctx context.Context, id string) (c *models.Comment, err error) {
	ctx, end := r.in.start(ctx, "get_by_id")
	defer func() { end(err) }()

	var rec commentRecord
	if err = gormErr(r.db.WithContext(ctx).First(&rec, "id = ?", id).Error); err != nil {
		return nil, err
	}
	return rec.toModel(), nil
}

func (r *gormCommentRepository) ListForPost(ctx context.Context, postID string, page, pageSize int) (out models.Page[*models.Comment], err error) {
	ctx, end := r.in.start(ctx, "list_for_post")
	defer func() { end(err) }()

	page, pageSize = models.NormalizePaging(page, pageSize)
	live := func(db *gorm.DB) *gorm.DB {
		return db.Where("post_id = ? AND is_deleted = ?", postID, false)
	}

	var total int64
	if err = r.db.WithContext(ctx).Model(&commentRecord{}).Scopes(live).Count(&total).Error; err != nil {
		return out, gormErr(err)
	}

	var recs []commentRecord
	err = r.db.WithContext(ctx).Scopes(live).
		Order("created_at ASC").Order("id ASC").
		Offset(models.Offset(page, pageSize)).Limit(pageSize).
		Find(&recs).Error
	if err = gormErr(err); err != nil {
		return out, err
	}

	items := make([]*models.Comment, 0, len(recs))
	for i := range recs {
		items = append(items, recs[i].toModel())
	}
	return models.NewPage(items, page, pageSize, total), nil
}
