package repository

import (
	"context"

	"sonic/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type gormPostRepository struct {
	db *gorm.DB
	in instrument
}

// NewGormPostRepository creates a GORM-backed PostRepository. Tags live in
// post_tags and are rewritten with the post in one transaction.
func NewGormPostRepository(db *gorm.DB, driver string) PostRepository {
	return &gormPostRepository{db: db, in: newInstrument(driver, "posts")}
}

func orderedTags(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

func (r *gormPostRepository) Create(ctx context.Context, post *models.Post) (err error) {
	ctx, end := r.in.start(ctx, "create")
	defer func() { end(err) }()

	rec := toPostRecord(post)
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(rec).Error; err != nil {
			return err
		}
		if len(rec.Tags) == 0 {
			return nil
		}
		return tx.Create(&rec.Tags).Error
	})
	if err = gormErr(err); err != nil {
		return err
	}
	r.in.log.LogCreate(ctx, map[string]any{"id": post.ID, "type": string(post.Type)})
	return nil
}

func (r *gormPostRepository) Update(ctx context.Context, post *models.Post) (err error) {
	ctx, end := r.in.start(ctx, "update")
	defer func() { end(err) }()

	rec := toPostRecord(post)
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(rec).Select("*").Omit(clause.Associations).Updates(rec)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		if err := tx.Where("post_id = ?", rec.ID).Delete(&postTagRecord{}).Error; err != nil {
			return err
		}
		if len(rec.Tags) == 0 {
			return nil
		}
		return tx.Create(&rec.Tags).Error
	})
	if err = gormErr(err); err != nil {
		return err
	}
	r.in.log.LogUpdate(ctx, map[string]any{"id": post.ID, "deleted": post.IsDeleted})
	return nil
}

func (r *gormPostRepository) GetByID(ctx context.Context, id string) (p *models.Post, err error) {
	ctx, end := r.in.start(ctx, "get_by_id")
	defer func() { end(err) }()

	var rec postRecord
	err = r.db.WithContext(ctx).Preload("Tags", orderedTags).First(&rec, "id = ?", id).Error
	if err = gormErr(err); err != nil {
		return nil, err
	}
	return rec.toModel(), nil
}

func (r *gormPostRepository) Query(ctx context.Context, q PostQuery) (page models.Page[*models.Post], err error) {
	ctx, end := r.in.start(ctx, "query")
	defer func() { end(err) }()

	pageNum, pageSize := models.NormalizePaging(q.Page, q.PageSize)
	filter := func(db *gorm.DB) *gorm.DB {
		db = db.Where("is_deleted = ?", false)
		if q.Type != nil {
			db = db.Where("type = ?", string(*q.Type))
		}
		if q.Featured != nil {
			db = db.Where("is_featured = ?", *q.Featured)
		}
		if tags := models.NormalizeTags(q.Tags); len(tags) > 0 {
			db = db.Where("EXISTS (SELECT 1 FROM post_tags WHERE post_tags.post_id = posts.id AND post_tags.tag IN ?)", tags)
		}
		if q.Search != "" {
			pattern := likePattern(q.Search)
			db = db.Where("search_text LIKE ? ESCAPE '\\'", pattern)
		}
		return db
	}

	var total int64
	if err = r.db.WithContext(ctx).Model(&postRecord{}).Scopes(filter).Count(&total).Error; err != nil {
		return page, gormErr(err)
	}

	var recs []postRecord
	err = r.db.WithContext(ctx).Scopes(filter).
		Preload("Tags", orderedTags).
		Order("created_at DESC").Order("id DESC").
		Offset(models.Offset(pageNum, pageSize)).Limit(pageSize).
		Find(&recs).Error
	if err = gormErr(err); err != nil {
		return page, err
	}

	items := make([]*models.Post, 0, len(recs))
	for i := range recs {
		items = append(items, recs[i].toModel())
	}
	return models.NewPage(items, pageNum, pageSize, total), nil
}
