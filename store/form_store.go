package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/canova-hq/canova-server/model"
)

const formColumns = `
	id, project_id, owner_id, name, description, background_color,
	sections, is_published, access_type, allowed_emails,
	public_slug, views, save_to_project_id, created_at, updated_at`

func (s *Store) InsertForm(ctx context.Context, f *model.Form) error {
	sections, err := encodeDoc(f.Sections)
	if err != nil {
		return err
	}
	emails, err := encodeDoc(emptyNotNil(f.AllowedEmails))
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	f.CreatedAt = now
	f.UpdatedAt = now

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO form (
			id, project_id, owner_id, name, description, background_color,
			sections, is_published, access_type, allowed_emails,
			public_slug, views, save_to_project_id, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		f.ID, f.ProjectID, f.OwnerID, f.Name, f.Description, f.BackgroundColor,
		sections, f.IsPublished, f.AccessType, emails,
		nullable(f.PublicSlug), f.Views, f.SaveToProjectID, f.CreatedAt, f.UpdatedAt,
	)
	return err
}

// UpdateForm writes the whole document back, keyed by (id, owner_id).
// Saves are last-write-wins; there is no concurrency token.
func (s *Store) UpdateForm(ctx context.Context, f *model.Form) error {
	sections, err := encodeDoc(f.Sections)
	if err != nil {
		return err
	}
	emails, err := encodeDoc(emptyNotNil(f.AllowedEmails))
	if err != nil {
		return err
	}

	f.UpdatedAt = time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `
		UPDATE form SET
			project_id = ?, name = ?, description = ?, background_color = ?,
			sections = ?, is_published = ?, access_type = ?, allowed_emails = ?,
			public_slug = ?, views = ?, save_to_project_id = ?, updated_at = ?
		WHERE id = ? AND owner_id = ?`,
		f.ProjectID, f.Name, f.Description, f.BackgroundColor,
		sections, f.IsPublished, f.AccessType, emails,
		nullable(f.PublicSlug), f.Views, f.SaveToProjectID, f.UpdatedAt,
		f.ID, f.OwnerID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n < 1 {
		return model.NotFound("Form not found")
	}
	return nil
}

func (s *Store) FormByID(ctx context.Context, id, ownerID string) (model.Form, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+formColumns+`
		FROM form
		WHERE id = ? AND owner_id = ?`,
		id, ownerID,
	)
	return scanForm(row)
}

// FormForSubmission fetches a form by id for the public response path.
// No owner filter: respondents are anonymous.
func (s *Store) FormForSubmission(ctx context.Context, id string) (model.Form, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+formColumns+`
		FROM form
		WHERE id = ?`,
		id,
	)
	return scanForm(row)
}

// FormBySlug resolves a published form by its public slug and counts the
// view in the same statement, so concurrent fetches never undercount.
func (s *Store) FormBySlug(ctx context.Context, slug string) (model.Form, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE form
		SET views = views + 1
		WHERE public_slug = ? AND is_published = 1
		RETURNING `+formColumns,
		slug,
	)
	return scanForm(row)
}

func (s *Store) FormsByOwner(ctx context.Context, ownerID string) ([]model.Form, error) {
	return s.queryForms(ctx, `
		SELECT `+formColumns+`
		FROM form
		WHERE owner_id = ?
		ORDER BY updated_at DESC`,
		ownerID,
	)
}

func (s *Store) FormsByProject(ctx context.Context, ownerID, projectID string) ([]model.Form, error) {
	return s.queryForms(ctx, `
		SELECT `+formColumns+`
		FROM form
		WHERE owner_id = ? AND project_id = ?
		ORDER BY updated_at DESC`,
		ownerID, projectID,
	)
}

func (s *Store) RecentForms(ctx context.Context, ownerID string, limit int) ([]model.Form, error) {
	return s.queryForms(ctx, `
		SELECT `+formColumns+`
		FROM form
		WHERE owner_id = ?
		ORDER BY updated_at DESC
		LIMIT ?`,
		ownerID, limit,
	)
}

// SharedForms lists published restricted forms whose allow-list contains
// the given email. Membership is checked in Go: the allow-list is a JSON
// document column, and shared lists are small.
func (s *Store) SharedForms(ctx context.Context, email string) ([]model.Form, error) {
	forms, err := s.queryForms(ctx, `
		SELECT `+formColumns+`
		FROM form
		WHERE is_published = 1 AND access_type = ?
		ORDER BY updated_at DESC`,
		model.AccessRestricted,
	)
	if err != nil {
		return nil, err
	}

	shared := []model.Form{}
	for _, f := range forms {
		for _, allowed := range f.AllowedEmails {
			if allowed == email {
				shared = append(shared, f)
				break
			}
		}
	}
	return shared, nil
}

// DeleteForm removes the form and its responses in one transaction.
// Re-running after a partial failure only reports not-found; it cannot
// leave responses attached to a live form.
func (s *Store) DeleteForm(ctx context.Context, id, ownerID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		DELETE FROM form
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
		return model.NotFound("Form not found")
	}

	_, err = tx.ExecContext(ctx, `
		DELETE FROM response
		WHERE form_id = ?`,
		id,
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (s *Store) queryForms(ctx context.Context, query string, args ...any) ([]model.Form, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	forms := []model.Form{}
	for rows.Next() {
		f, err := scanForm(rows)
		if err != nil {
			return nil, err
		}
		forms = append(forms, f)
	}
	return forms, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanForm(row rowScanner) (f model.Form, err error) {
	var sections, emails string
	var slug sql.NullString
	err = row.Scan(
		&f.ID, &f.ProjectID, &f.OwnerID, &f.Name, &f.Description, &f.BackgroundColor,
		&sections, &f.IsPublished, &f.AccessType, &emails,
		&slug, &f.Views, &f.SaveToProjectID, &f.CreatedAt, &f.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return f, model.NotFound("Form not found")
	}
	if err != nil {
		return
	}

	f.PublicSlug = slug.String
	f.Sections = []model.Section{}
	if err = decodeDoc(sections, &f.Sections); err != nil {
		return
	}
	f.AllowedEmails = []string{}
	err = decodeDoc(emails, &f.AllowedEmails)
	return
}

// nullable maps "" to NULL so the unique index on public_slug only ever
// sees assigned slugs.
func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func emptyNotNil(ss []string) []string {
	if ss == nil {
		return []string{}
	}
	return ss
}
