package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrModelNotFound is returned when no model exists for an ID.
var ErrModelNotFound = errors.New("financial model not found")

// ModelRepo stores financial models.
// Supports Hybrid Vault: DB (Primary) + File System (Fallback/Local)
type ModelRepo struct {
	pool    *pgxpool.Pool
	fileDir string
}

// NewModelRepo creates a repository. With a pool, Postgres is the source of
// truth; without one, models are JSON files in dir (default .cache/models).
func NewModelRepo(pool *pgxpool.Pool, dir string) *ModelRepo {
	if pool == nil && dir == "" {
		dir = filepath.Join(".cache", "models")
	}
	if pool == nil {
		if err := os.MkdirAll(dir, 0755); err != nil {
			fmt.Printf("[WARNING] Check ModelRepo dir: %v\n", err)
		}
	}
	return &ModelRepo{pool: pool, fileDir: dir}
}

// Save upserts m by ID.
func (r *ModelRepo) Save(ctx context.Context, m *FinancialModel) error {
	if m.ID == uuid.Nil {
		return fmt.Errorf("model ID cannot be empty")
	}
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal model: %w", err)
	}

	// 1. DB
	if r.pool != nil {
		query := `
			INSERT INTO financial_models (id, name, model_json, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (id)
			DO UPDATE SET
				name = EXCLUDED.name,
				model_json = EXCLUDED.model_json,
				updated_at = EXCLUDED.updated_at
		`
		_, err = r.pool.Exec(ctx, query, m.ID.String(), m.Name, data, m.CreatedAt, m.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to save model: %w", err)
		}
		return nil
	}

	// 2. File
	if err := os.WriteFile(r.modelPath(m.ID), data, 0644); err != nil {
		return fmt.Errorf("failed to save model file: %w", err)
	}
	return nil
}

// Load retrieves a model by ID.
func (r *ModelRepo) Load(ctx context.Context, id uuid.UUID) (*FinancialModel, error) {
	var data []byte

	if r.pool != nil {
		query := `SELECT model_json FROM financial_models WHERE id = $1`
		err := r.pool.QueryRow(ctx, query, id.String()).Scan(&data)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, fmt.Errorf("%w: %s", ErrModelNotFound, id)
			}
			return nil, fmt.Errorf("failed to load model: %w", err)
		}
	} else {
		var err error
		data, err = os.ReadFile(r.modelPath(id))
		if err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("%w: %s", ErrModelNotFound, id)
			}
			return nil, fmt.Errorf("failed to read model file: %w", err)
		}
	}

	var m FinancialModel
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to unmarshal model: %w", err)
	}
	return &m, nil
}

// List returns summaries of all stored models, most recently updated first.
func (r *ModelRepo) List(ctx context.Context) ([]ModelSummary, error) {
	if r.pool != nil {
		rows, err := r.pool.Query(ctx, `SELECT id::text, name, updated_at FROM financial_models ORDER BY updated_at DESC`)
		if err != nil {
			return nil, fmt.Errorf("failed to list models: %w", err)
		}
		defer rows.Close()

		var out []ModelSummary
		for rows.Next() {
			var (
				id      string
				s       ModelSummary
				updated time.Time
			)
			if err := rows.Scan(&id, &s.Name, &updated); err != nil {
				return nil, fmt.Errorf("failed to scan model row: %w", err)
			}
			if s.ID, err = uuid.Parse(id); err != nil {
				return nil, fmt.Errorf("bad model id %q: %w", id, err)
			}
			s.UpdatedAt = updated
			out = append(out, s)
		}
		return out, rows.Err()
	}

	files, err := os.ReadDir(r.fileDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read model dir: %w", err)
	}
	var out []ModelSummary
	for _, f := range files {
		if f.IsDir() || filepath.Ext(f.Name()) != ".json" {
			continue
		}
		m, err := r.loadFile(filepath.Join(r.fileDir, f.Name()))
		if err != nil {
			fmt.Printf("[STORE] Skipping %s: %v\n", f.Name(), err)
			continue
		}
		out = append(out, m.Summary())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

// Delete removes a model. Deleting a missing model returns ErrModelNotFound.
func (r *ModelRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if r.pool != nil {
		tag, err := r.pool.Exec(ctx, `DELETE FROM financial_models WHERE id = $1`, id.String())
		if err != nil {
			return fmt.Errorf("failed to delete model: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: %s", ErrModelNotFound, id)
		}
		return nil
	}

	if err := os.Remove(r.modelPath(id)); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrModelNotFound, id)
		}
		return fmt.Errorf("failed to delete model file: %w", err)
	}
	return nil
}

// Internal File Helpers

func (r *ModelRepo) modelPath(id uuid.UUID) string {
	return filepath.Join(r.fileDir, id.String()+".json")
}

func (r *ModelRepo) loadFile(path string) (*FinancialModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m FinancialModel
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
