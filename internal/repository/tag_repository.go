package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"rolodrawer/config"
	"rolodrawer/internal/apperrors"
	"rolodrawer/internal/model"
	"rolodrawer/internal/util"
)

type TagRepository struct {
	*config.Database
}

func NewTagRepository(database *config.Database) *TagRepository {
	return &TagRepository{database}
}

func (r *TagRepository) CreateTag(ctx context.Context, exec sqlx.ExtContext, tag *model.Tag) (*model.Tag, error) {
	query := `INSERT INTO tags (name, color) VALUES ($1, $2) RETURNING id, name, color, created_at`

	created := &model.Tag{}
	if err := exec.QueryRowxContext(ctx, query, tag.Name, tag.Color).StructScan(created); err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: ярлык %q уже существует", apperrors.ErrValidation, tag.Name)
		}
		return nil, util.LogError("[TagRepo] ошибка создания ярлыка", err)
	}
	return created, nil
}

func (r *TagRepository) ListTags(ctx context.Context, exec sqlx.ExtContext) ([]model.Tag, error) {
	tags := []model.Tag{}
	query := `SELECT id, name, color, created_at FROM tags ORDER BY name`
	if err := sqlx.SelectContext(ctx, exec, &tags, query); err != nil {
		return nil, util.LogError("[TagRepo] ошибка чтения ярлыков", err)
	}
	return tags, nil
}

func (r *TagRepository) ListByFile(ctx context.Context, exec sqlx.ExtContext, fileID int64) ([]model.Tag, error) {
	tags := []model.Tag{}
	query := `
		SELECT t.id, t.name, t.color, t.created_at
		FROM tags t
		JOIN file_tags ft ON ft.tag_id = t.id
		WHERE ft.file_id = $1
		ORDER BY t.name`
	if err := sqlx.SelectContext(ctx, exec, &tags, query, fileID); err != nil {
		return nil, util.LogError("[TagRepo] ошибка чтения ярлыков дела", err)
	}
	return tags, nil
}

// Assign идемпотентна: повторное назначение того же ярлыка не считается ошибкой
func (r *TagRepository) Assign(ctx context.Context, exec sqlx.ExtContext, fileID, tagID int64) error {
	query := `INSERT INTO file_tags (file_id, tag_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	if _, err := exec.ExecContext(ctx, query, fileID, tagID); err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.ErrNotFound
		}
		return util.LogError("[TagRepo] ошибка назначения ярлыка", err)
	}
	return nil
}

func (r *TagRepository) Remove(ctx context.Context, exec sqlx.ExtContext, fileID, tagID int64) error {
	query := `DELETE FROM file_tags WHERE file_id = $1 AND tag_id = $2`
	if _, err := exec.ExecContext(ctx, query, fileID, tagID); err != nil {
		return util.LogError("[TagRepo] ошибка снятия ярлыка", err)
	}
	return nil
}
