package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"sonic/internal/database"

	"gorm.io/gorm"
)

// NewGormStore wires the relational repositories over an open GORM handle.
// driver is "postgres" or "sqlite" and only labels metrics and spans.
func NewGormStore(db *gorm.DB, driver string) *Store {
	return &Store{
		Driver:         driver,
		Users:          NewGormUserRepository(db, driver),
		Posts:          NewGormPostRepository(db, driver),
		Comments:       NewGormCommentRepository(db, driver),
		Likes:          NewGormLikeRepository(db, driver),
		Participations: NewGormParticipationRepository(db, driver),
		ping: func(ctx context.Context) error {
			return database.PingGorm(ctx, db)
		},
		close: func(context.Context) error {
			return database.CloseGorm(db)
		},
	}
}

func gormErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	}
	return err
}

// likePattern builds a LIKE operand matching s literally anywhere in the column.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(s)) + "%"
}
