package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/canova-hq/canova-server/model"
)

func (s *Store) InsertProject(ctx context.Context, p *model.Project) error {
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO project (id, owner_id, name, initial_form_name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID, p.OwnerID, p.Name, p.InitialFormName, p.CreatedAt, p.UpdatedAt,
	)
	return err
}

func (s *Store) UpdateProject(ctx context.Context, p *model.Project) error {
	p.UpdatedAt = time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `
		UPDATE project
		SET name = ?, initial_form_name = ?, updated_at = ?
		WHERE id = ? AND owner_id = ?`,
		p.Name, p.InitialFormName, p.UpdatedAt, p.ID, p.OwnerID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n < 1 {
		return model.NotFound("Project not found")
	}
	return nil
}

func (s *Store) ProjectByID(ctx context.Context, id, ownerID string) (p model.Project, err error) {
	err = s.db.QueryRowContext(ctx, `
		SELECT id, owner_id, name, initial_form_name, created_at, updated_at
		FROM project
		WHERE id = ? AND owner_id = ?`,
		id, ownerID,
	).Scan(&p.ID, &p.OwnerID, &p.Name, &p.InitialFormName, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		err = model.NotFound("Project not found")
	}
	return
}

func (s *Store) ProjectsByOwner(ctx context.Context, ownerID string) ([]model.Project, error) {
	return s.queryProjects(ctx, `
		SELECT id, owner_id, name, initial_form_name, created_at, updated_at
		FROM project
		WHERE owner_id = ?
		ORDER BY created_at DESC`,
		ownerID,
	)
}

func (s *Store) RecentProjects(ctx context.Context, ownerID string, limit int) ([]model.Project, error) {
	return s.queryProjects(ctx, `
		SELECT id, owner_id, name, initial_form_name, created_at, updated_at
		FROM project
		WHERE owner_id = ?
		ORDER BY updated_at DESC
		LIMIT ?`,
		ownerID, limit,
	)
}

// DeleteProject removes the project, its forms (same owner, matching
// project_id) and their responses in one transaction. Safe to re-run: a
// second pass finds no project and reports not-found without touching
// anything else.
func (s *Store) DeleteProject(ctx context.Context, id, ownerID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		DELETE FROM project
		WHERE id = ? AND owner_id = ?`,
		id, ownerID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n < 1 {
		return model.NotFound("Project not found")
	}

	_, err = tx.ExecContext(ctx, `
		DELETE FROM response
		WHERE form_id IN (
			SELECT id FROM form
			WHERE owner_id = ? AND project_id = ?
		)`,
		ownerID, id,
	)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		DELETE FROM form
		WHERE owner_id = ? AND project_id = ?`,
		ownerID, id,
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (s *Store) queryProjects(ctx context.Context, query string, args ...any) ([]model.Project, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	projects := []model.Project{}
	for rows.Next() {
		p := model.Project{}
		err = rows.Scan(&p.ID, &p.OwnerID, &p.Name, &p.InitialFormName, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}
