package repository

import (
	"context"
	"fmt"

	"github.com/ad-tracker/video-summarizer-go/internal/db"
	"github.com/ad-tracker/video-summarizer-go/internal/db/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PromptRepository defines operations for managing summarization prompts.
type PromptRepository interface {
	Create(ctx context.Context, prompt *models.Prompt) error
	Update(ctx context.Context, prompt *models.Prompt) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*models.Prompt, error)
	GetByName(ctx context.Context, name string) (*models.Prompt, error)

	// GetDefault returns db.ErrNotFound when no prompt is marked default.
	GetDefault(ctx context.Context) (*models.Prompt, error)

	// SetDefault marks id as the only default prompt.
	SetDefault(ctx context.Context, id int64) error

	List(ctx context.Context) ([]*models.Prompt, error)
}

type promptRepository struct {
	pool *pgxpool.Pool
}

// NewPromptRepository creates a new PromptRepository.
func NewPromptRepository(pool *pgxpool.Pool) PromptRepository {
	return &promptRepository{pool: pool}
}

const promptColumns = `id, name, prompt_text, description, is_default, created_at, updated_at`

func (r *promptRepository) Create(ctx context.Context, prompt *models.Prompt) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if prompt.IsDefault {
			if _, err := tx.Exec(ctx, `UPDATE ai_prompts SET is_default = FALSE WHERE is_default`); err != nil {
				return db.WrapError(err, "clear default prompt")
			}
		}

		query := `
			INSERT INTO ai_prompts (name, prompt_text, description, is_default)
			VALUES ($1, $2, $3, $4)
			RETURNING id, created_at, updated_at
		`
		err := tx.QueryRow(ctx, query,
			prompt.Name,
			prompt.PromptText,
			prompt.Description,
			prompt.IsDefault,
		).Scan(&prompt.ID, &prompt.CreatedAt, &prompt.UpdatedAt)
		if err != nil {
			return db.WrapError(err, "create prompt")
		}
		return nil
	})
}

func (r *promptRepository) Update(ctx context.Context, prompt *models.Prompt) error {
	query := `
		UPDATE ai_prompts
		SET name = $2, prompt_text = $3, description = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING is_default, created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		prompt.ID,
		prompt.Name,
		prompt.PromptText,
		prompt.Description,
	).Scan(&prompt.IsDefault, &prompt.CreatedAt, &prompt.UpdatedAt)
	if err != nil {
		return db.WrapError(err, "update prompt")
	}

	return nil
}

func (r *promptRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM ai_prompts WHERE id = $1`, id)
	if err != nil {
		return db.WrapError(err, "delete prompt")
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete prompt %d: %w", id, db.ErrNotFound)
	}
	return nil
}

func (r *promptRepository) GetByID(ctx context.Context, id int64) (*models.Prompt, error) {
	query := `SELECT ` + promptColumns + ` FROM ai_prompts WHERE id = $1`

	prompt, err := scanPrompt(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, db.WrapError(err, "get prompt by id")
	}
	return prompt, nil
}

func (r *promptRepository) GetByName(ctx context.Context, name string) (*models.Prompt, error) {
	query := `SELECT ` + promptColumns + ` FROM ai_prompts WHERE name = $1`

	prompt, err := scanPrompt(r.pool.QueryRow(ctx, query, name))
	if err != nil {
		return nil, db.WrapError(err, "get prompt by name")
	}
	return prompt, nil
}

func (r *promptRepository) GetDefault(ctx context.Context) (*models.Prompt, error) {
	query := `SELECT ` + promptColumns + ` FROM ai_prompts WHERE is_default`

	prompt, err := scanPrompt(r.pool.QueryRow(ctx, query))
	if err != nil {
		return nil, db.WrapError(err, "get default prompt")
	}
	return prompt, nil
}

func (r *promptRepository) SetDefault(ctx context.Context, id int64) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `UPDATE ai_prompts SET is_default = FALSE WHERE is_default AND id <> $1`, id); err != nil {
			return db.WrapError(err, "clear default prompt")
		}

		tag, err := tx.Exec(ctx, `UPDATE ai_prompts SET is_default = TRUE, updated_at = NOW() WHERE id = $1`, id)
		if err != nil {
			return db.WrapError(err, "set default prompt")
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("set default prompt %d: %w", id, db.ErrNotFound)
		}
		return nil
	})
}

func (r *promptRepository) List(ctx context.Context) ([]*models.Prompt, error) {
	query := `SELECT ` + promptColumns + ` FROM ai_prompts ORDER BY is_default DESC, name ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, db.WrapError(err, "list prompts")
	}
	defer rows.Close()

	var prompts []*models.Prompt
	for rows.Next() {
		prompt, err := scanPrompt(rows)
		if err != nil {
			return nil, fmt.Errorf("scan prompt: %w", err)
		}
		prompts = append(prompts, prompt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate prompts: %w", err)
	}

	return prompts, nil
}

func scanPrompt(row pgx.Row) (*models.Prompt, error) {
	p := &models.Prompt{}
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.PromptText,
		&p.Description,
		&p.IsDefault,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}
