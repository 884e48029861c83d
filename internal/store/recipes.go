package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a recipe id does not exist.
var ErrNotFound = errors.New("recipe not found")

// Recipe is a stored recipe document.
type Recipe struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Tags        []string        `json:"tags"`
	Graph       json.RawMessage `json:"serializedGraph"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// CreateRecipe inserts a recipe document. An empty ID is assigned a fresh
// time-sortable UUIDv7. Returns the stored recipe with timestamps set.
func (s *Store) CreateRecipe(ctx context.Context, r Recipe) (Recipe, error) {
	if r.ID == "" {
		r.ID = uuid.Must(uuid.NewV7()).String()
	}
	if r.Title == "" {
		return Recipe{}, fmt.Errorf("create recipe: title is required")
	}
	if len(r.Graph) == 0 {
		r.Graph = json.RawMessage(`{"blocks":[]}`)
	}

	now := time.Now().UTC()
	r.CreatedAt = now
	r.UpdatedAt = now

	tagsJSON, err := marshalTags(r.Tags)
	if err != nil {
		return Recipe{}, fmt.Errorf("create recipe: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO recipes (id, title, description, tags, graph, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		r.ID,
		r.Title,
		r.Description,
		tagsJSON,
		string(r.Graph),
		r.CreatedAt.Format(time.RFC3339Nano),
		r.UpdatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return Recipe{}, fmt.Errorf("create recipe: %w", err)
	}
	return r, nil
}

// GetRecipe returns one recipe by id, or ErrNotFound.
func (s *Store) GetRecipe(ctx context.Context, id string) (Recipe, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, description, tags, graph, created_at, updated_at
		FROM recipes
		WHERE id = ?
	`, id)

	r, err := scanRecipe(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Recipe{}, fmt.Errorf("get recipe %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Recipe{}, fmt.Errorf("get recipe %s: %w", id, err)
	}
	return r, nil
}

// ListRecipes returns all recipes, most recently updated first.
// Returns an empty slice (not nil) when the store is empty.
func (s *Store) ListRecipes(ctx context.Context) ([]Recipe, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, description, tags, graph, created_at, updated_at
		FROM recipes
		ORDER BY updated_at DESC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	defer rows.Close()

	recipes := []Recipe{}
	for rows.Next() {
		r, err := scanRecipe(rows)
		if err != nil {
			return nil, fmt.Errorf("list recipes: %w", err)
		}
		recipes = append(recipes, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	return recipes, nil
}

// UpdateRecipe replaces a recipe's mutable fields (title, description,
// tags, graph) and bumps updated_at. Returns ErrNotFound for unknown ids.
func (s *Store) UpdateRecipe(ctx context.Context, r Recipe) (Recipe, error) {
	if r.ID == "" {
		return Recipe{}, fmt.Errorf("update recipe: id is required")
	}
	if r.Title == "" {
		return Recipe{}, fmt.Errorf("update recipe: title is required")
	}

	tagsJSON, err := marshalTags(r.Tags)
	if err != nil {
		return Recipe{}, fmt.Errorf("update recipe: %w", err)
	}
	r.UpdatedAt = time.Now().UTC()

	res, err := s.db.ExecContext(ctx, `
		UPDATE recipes
		SET title = ?, description = ?, tags = ?, graph = ?, updated_at = ?
		WHERE id = ?
	`,
		r.Title,
		r.Description,
		tagsJSON,
		string(r.Graph),
		r.UpdatedAt.Format(time.RFC3339Nano),
		r.ID,
	)
	if err != nil {
		return Recipe{}, fmt.Errorf("update recipe %s: %w", r.ID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return Recipe{}, fmt.Errorf("update recipe %s: %w", r.ID, err)
	}
	if n == 0 {
		return Recipe{}, fmt.Errorf("update recipe %s: %w", r.ID, ErrNotFound)
	}

	return s.GetRecipe(ctx, r.ID)
}

// DeleteRecipe removes a recipe. Returns ErrNotFound for unknown ids.
func (s *Store) DeleteRecipe(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM recipes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete recipe %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete recipe %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("delete recipe %s: %w", id, ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecipe(row rowScanner) (Recipe, error) {
	var (
		r         Recipe
		tagsJSON  string
		graph     string
		createdAt string
		updatedAt string
	)
	if err := row.Scan(&r.ID, &r.Title, &r.Description, &tagsJSON, &graph, &createdAt, &updatedAt); err != nil {
		return Recipe{}, err
	}

	if err := json.Unmarshal([]byte(tagsJSON), &r.Tags); err != nil {
		return Recipe{}, fmt.Errorf("decode tags: %w", err)
	}
	r.Graph = json.RawMessage(graph)

	var err error
	if r.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return Recipe{}, fmt.Errorf("parse created_at: %w", err)
	}
	if r.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return Recipe{}, fmt.Errorf("parse updated_at: %w", err)
	}
	return r, nil
}

func marshalTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("encode tags: %w", err)
	}
	return string(b), nil
}
