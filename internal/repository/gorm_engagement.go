package repository

import (
	"context"

	"sonic/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type gormLikeRepository struct {
	db *gorm.DB
	in instrument
}

// NewGormLikeRepository creates a GORM-backed LikeRepository.
func NewGormLikeRepository(db *gorm.DB, driver string) LikeRepository {
	return &gormLikeRepository{db: db, in: newInstrument(driver, "likes")}
}

func (r *gormLikeRepository) Toggle(ctx context.Context, like *models.Like) (liked bool, err error) {
	ctx, end := r.in.start(ctx, "toggle")
	defer func() { end(err) }()

	db := r.db.WithContext(ctx)
	res := db.Where("post_id = ? AND user_id = ?", like.PostID, like.UserID).Delete(&likeRecord{})
	if err = gormErr(res.Error); err != nil {
		return false, err
	}
	if res.RowsAffected > 0 {
		r.in.log.LogDelete(ctx, map[string]any{"post_id": like.PostID, "user_id": like.UserID})
		return false, nil
	}

	// A concurrent toggle may have inserted first; the unique index keeps one row either way.
	rec := &likeRecord{ID: like.ID, PostID: like.PostID, UserID: like.UserID, CreatedAt: like.CreatedAt}
	if err = gormErr(db.Clauses(clause.OnConflict{DoNothing: true}).Create(rec).Error); err != nil {
		return false, err
	}
	r.in.log.LogCreate(ctx, map[string]any{"post_id": like.PostID, "user_id": like.UserID})
	return true, nil
}

func (r *gormLikeRepository) Exists(ctx context.Context, postID, userID string) (exists bool, err error) {
	ctx, end := r.in.start(ctx, "exists")
	defer func() { end(err) }()

	var n int64
	err = r.db.WithContext(ctx).Model(&likeRecord{}).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Count(&n).Error
	if err = gormErr(err); err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *gormLikeRepository) CountForPost(ctx context.Context, postID string) (n int64, err error) {
	ctx, end := r.in.start(ctx, "count_for_post")
	defer func() { end(err) }()

	err = gormErr(r.db.WithContext(ctx).Model(&likeRecord{}).Where("post_id = ?", postID).Count(&n).Error)
	return n, err
}

type gormParticipationRepository struct {
	db *gorm.DB
	in instrument
}

// NewGormParticipationRepository creates a GORM-backed CampaignParticipationRepository.
func NewGormParticipationRepository(db *gorm.DB, driver string) CampaignParticipationRepository {
	return &gormParticipationRepository{db: db, in: newInstrument(driver, "campaign_participations")}
}

func (r *gormParticipationRepository) Add(ctx context.Context, p *models.CampaignParticipation) (created bool, err error) {
	ctx, end := r.in.start(ctx, "add")
	defer func() { end(err) }()

	rec := &participationRecord{ID: p.ID, PostID: p.PostID, UserID: p.UserID, JoinedAt: p.JoinedAt}
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(rec)
	if err = gormErr(res.Error); err != nil {
		return false, err
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	r.in.log.LogCreate(ctx, map[string]any{"post_id": p.PostID, "user_id": p.UserID})
	return true, nil
}

func (r *gormParticipationRepository) Exists(ctx context.Context, postID, userID string) (exists bool, err error) {
	ctx, end := r.in.start(ctx, "exists")
	defer func() { end(err) }()

	var n int64
	err = r.db.WithContext(ctx).Model(&participationRecord{}).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Count(&n).Error
	if err = gormErr(err); err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *gormParticipationRepository) CountForPost(ctx context.Context, postID string) (n int64, err error) {
	ctx, end := r.in.start(ctx, "count_for_post")
	defer func() { end(err) }()

	err = gormErr(r.db.WithContext(ctx).Model(&participationRecord{}).Where("post_id = ?", postID).Count(&n).Error)
	return n, err
}

func (r *gormParticipationRepository) ListForPost(ctx context.Context, postID string, page, pageSize int) (out models.Page[*models.CampaignParticipation], err error) {
	ctx, end := r.in.start(ctx, "list_for_post")
	defer func() { end(err) }()

	page, pageSize = models.NormalizePaging(page, pageSize)
	var total int64
	if err = r.db.WithContext(ctx).Model(&participationRecord{}).Where("post_id = ?", postID).Count(&total).Error; err != nil {
		return out, gormErr(err)
	}

	var recs []participationRecord
	err = r.db.WithContext(ctx).Where("post_id = ?", postID).
		Order("joined_at ASC").Order("id ASC").
		Offset(models.Offset(page, pageSize)).Limit(pageSize).
		Find(&recs).Error
	if err = gormErr(err); err != nil {
		return out, err
	}

	items := make([]*models.CampaignParticipation, 0, len(recs))
	for i := range recs {
		items = append(items, recs[i].toModel())
	}
	return models.NewPage(items, page, pageSize, total), nil
}
