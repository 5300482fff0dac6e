package store

import (
	"context"
	"time"

	"github.com/canova-hq/canova-server/model"
)

func (s *Store) InsertResponse(ctx context.Context, r *model.Response) error {
	answers, err := encodeDoc(r.Answers)
	if err != nil {
		return err
	}

	r.CreatedAt = time.Now().UTC()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO response (id, form_id, responder_email, answers, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		r.ID, r.FormID, r.ResponderEmail, answers, r.CreatedAt,
	)
	return err
}

func (s *Store) ResponsesByForm(ctx context.Context, formID string) ([]model.Response, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, form_id, responder_email, answers, created_at
		FROM response
		WHERE form_id = ?
		ORDER BY created_at`,
		formID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	responses := []model.Response{}
	for rows.Next() {
		r := model.Response{}
		var answers string
		err = rows.Scan(&r.ID, &r.FormID, &r.ResponderEmail, &answers, &r.CreatedAt)
		if err != nil {
			return nil, err
		}
		r.Answers = []model.Answer{}
		if err = decodeDoc(answers, &r.Answers); err != nil {
			return nil, err
		}
		responses = append(responses, r)
	}
	return responses, rows.Err()
}

func (s *Store) CountResponses(ctx context.Context, formID string) (n int, err error) {
	err = s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM response
		WHERE form_id = ?`,
		formID,
	).Scan(&n)
	return
}
