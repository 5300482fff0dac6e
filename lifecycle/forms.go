// Package lifecycle implements the operations that move forms and projects
// through their states: create, save, rename, copy, publish, share, delete,
// and response submission with its access gating.
package lifecycle

import (
	"context"

	"github.com/canova-hq/canova-server/analytics"
	"github.com/canova-hq/canova-server/model"
	"github.com/canova-hq/canova-server/store"
)

type Forms struct {
	Store *store.Store
}

func (s *Forms) Create(ctx context.Context, ownerID, projectID, name string) (model.Form, error) {
	name, err := model.CleanName(name, "Form")
	if err != nil {
		return model.Form{}, err
	}

	form := model.Form{
		ID:              model.NewID(),
		ProjectID:       projectID,
		OwnerID:         ownerID,
		Name:            name,
		BackgroundColor: model.DefaultFormBackground,
		Sections:        []model.Section{model.DefaultSection()},
		AccessType:      model.AccessAnyone,
		AllowedEmails:   []string{},
	}
	if err := s.Store.InsertForm(ctx, &form); err != nil {
		return model.Form{}, err
	}
	return form, nil
}

func (s *Forms) ByID(ctx context.Context, ownerID, id string) (model.Form, error) {
	return s.Store.FormByID(ctx, id, ownerID)
}

func (s *Forms) List(ctx context.Context, ownerID string) ([]model.Form, error) {
	return s.Store.FormsByOwner(ctx, ownerID)
}

func (s *Forms) Shared(ctx context.Context, email string) ([]model.Form, error) {
	return s.Store.SharedForms(ctx, email)
}

// FormPatch carries a partial update from the builder; nil fields are left
// untouched on the stored form.
type FormPatch struct {
	Name            *string           `json:"name"`
	Description     *string           `json:"description"`
	BackgroundColor *string           `json:"backgroundColor"`
	Sections        *[]model.Section  `json:"sections"`
	AccessType      *model.AccessType `json:"accessType"`
	AllowedEmails   *[]string         `json:"allowedEmails"`
	SaveToProjectID *string           `json:"saveToProjectId"`
}

// Update applies a builder save. Idempotent: re-applying the same patch
// leaves the same document. Setting accessType to "anyone" clears the
// allow-list.
func (s *Forms) Update(ctx context.Context, ownerID, id string, patch FormPatch) (model.Form, error) {
	form, err := s.Store.FormByID(ctx, id, ownerID)
	if err != nil {
		return model.Form{}, err
	}

	if patch.Name != nil {
		name, err := model.CleanName(*patch.Name, "Form")
		if err != nil {
			return model.Form{}, err
		}
		form.Name = name
	}
	if patch.Description != nil {
		form.Description = *patch.Description
	}
	if patch.BackgroundColor != nil {
		form.BackgroundColor = *patch.BackgroundColor
	}
	if patch.Sections != nil {
		form.Sections = *patch.Sections
	}
	if patch.AccessType != nil {
		form.AccessType = *patch.AccessType
	}
	if patch.AllowedEmails != nil {
		form.AllowedEmails = *patch.AllowedEmails
	}
	if patch.SaveToProjectID != nil {
		form.SaveToProjectID = *patch.SaveToProjectID
	}
	if form.AccessType != model.AccessRestricted {
		form.AccessType = model.AccessAnyone
		form.AllowedEmails = []string{}
	}

	if err := s.Store.UpdateForm(ctx, &form); err != nil {
		return model.Form{}, err
	}
	return form, nil
}

func (s *Forms) Rename(ctx context.Context, ownerID, id, name string) (model.Form, error) {
	name, err := model.CleanName(name, "Form")
	if err != nil {
		return model.Form{}, err
	}

	form, err := s.Store.FormByID(ctx, id, ownerID)
	if err != nil {
		return model.Form{}, err
	}
	form.Name = name
	if err := s.Store.UpdateForm(ctx, &form); err != nil {
		return model.Form{}, err
	}
	return form, nil
}

func (s *Forms) Copy(ctx context.Context, ownerID, id string) (model.Form, error) {
	src, err := s.Store.FormByID(ctx, id, ownerID)
	if err != nil {
		return model.Form{}, err
	}

	dup := model.CopyForm(src)
	if err := s.Store.InsertForm(ctx, &dup); err != nil {
		return model.Form{}, err
	}
	return dup, nil
}

func (s *Forms) Delete(ctx context.Context, ownerID, id string) error {
	return s.Store.DeleteForm(ctx, id, ownerID)
}

type PublishOptions struct {
	AccessType      model.AccessType `json:"accessType"`
	AllowedEmails   []string         `json:"allowedEmails"`
	SaveToProjectID string           `json:"saveToProjectId"`
}

// Publish marks the form live and hands out its public slug. The slug is
// assigned once, on the first publish or share, and never regenerated.
func (s *Forms) Publish(ctx context.Context, ownerID, id string, opts PublishOptions) (model.Form, error) {
	form, err := s.Store.FormByID(ctx, id, ownerID)
	if err != nil {
		return model.Form{}, err
	}

	form.IsPublished = true
	form.AccessType = opts.AccessType
	if form.AccessType == "" {
		form.AccessType = model.AccessAnyone
	}
	applyAccess(&form, opts.AllowedEmails)
	if opts.SaveToProjectID != "" {
		form.SaveToProjectID = opts.SaveToProjectID
	}
	ensureSlug(&form)

	if err := s.Store.UpdateForm(ctx, &form); err != nil {
		return model.Form{}, err
	}
	return form, nil
}

// Share is publish without touching the project assignment; the access type
// only changes when the caller supplies a valid one.
func (s *Forms) Share(ctx context.Context, ownerID, id string, accessType model.AccessType, allowedEmails []string) (model.Form, error) {
	form, err := s.Store.FormByID(ctx, id, ownerID)
	if err != nil {
		return model.Form{}, err
	}

	if accessType == model.AccessAnyone || accessType == model.AccessRestricted {
		form.AccessType = accessType
		applyAccess(&form, allowedEmails)
	}
	form.IsPublished = true
	ensureSlug(&form)

	if err := s.Store.UpdateForm(ctx, &form); err != nil {
		return model.Form{}, err
	}
	return form, nil
}

func applyAccess(form *model.Form, allowedEmails []string) {
	if form.AccessType == model.AccessRestricted {
		if allowedEmails == nil {
			allowedEmails = []string{}
		}
		form.AllowedEmails = allowedEmails
	} else {
		form.AllowedEmails = []string{}
	}
}

func ensureSlug(form *model.Form) {
	if form.PublicSlug == "" {
		form.PublicSlug = model.NewID()
	}
}

// PublicBySlug serves the respondent-facing fetch. Counting the view is part
// of the read, so two fetches are two views.
func (s *Forms) PublicBySlug(ctx context.Context, slug string) (model.Form, error) {
	return s.Store.FormBySlug(ctx, slug)
}

// SubmitResponse appends a respondent's answers. Drafts are unreachable
// here, and restricted forms require an allow-listed email, compared
// case-sensitively as stored.
func (s *Forms) SubmitResponse(ctx context.Context, formID, responderEmail string, answers []model.Answer) (string, error) {
	form, err := s.Store.FormForSubmission(ctx, formID)
	if model.IsNotFound(err) {
		return "", model.NotFound("Form not found or not published")
	}
	if err != nil {
		return "", err
	}
	if !form.IsPublished {
		return "", model.NotPublished("Form not found or not published")
	}

	if form.AccessType == model.AccessRestricted {
		allowed := false
		for _, email := range form.AllowedEmails {
			if email == responderEmail {
				allowed = true
				break
			}
		}
		if responderEmail == "" || !allowed {
			return "", model.AccessDenied("You do not have access to respond")
		}
	}

	if answers == nil {
		answers = []model.Answer{}
	}
	response := model.Response{
		ID:             model.NewID(),
		FormID:         form.ID,
		ResponderEmail: responderEmail,
		Answers:        answers,
	}
	if err := s.Store.InsertResponse(ctx, &response); err != nil {
		return "", err
	}
	return response.ID, nil
}

type SummaryStats struct {
	TotalResponses int `json:"totalResponses"`
	Views          int `json:"views"`
}

func (s *Forms) Summary(ctx context.Context, ownerID, id string) (SummaryStats, error) {
	form, err := s.Store.FormByID(ctx, id, ownerID)
	if err != nil {
		return SummaryStats{}, err
	}
	total, err := s.Store.CountResponses(ctx, form.ID)
	if err != nil {
		return SummaryStats{}, err
	}
	return SummaryStats{TotalResponses: total, Views: form.Views}, nil
}

func (s *Forms) Analytics(ctx context.Context, ownerID, id string) (analytics.Summary, error) {
	form, err := s.Store.FormByID(ctx, id, ownerID)
	if err != nil {
		return analytics.Summary{}, err
	}
	responses, err := s.Store.ResponsesByForm(ctx, form.ID)
	if err != nil {
		return analytics.Summary{}, err
	}
	return analytics.Summarize(form, responses), nil
}

func (s *Forms) Responses(ctx context.Context, ownerID, id string) ([]model.Response, error) {
	form, err := s.Store.FormByID(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	return s.Store.ResponsesByForm(ctx, form.ID)
}
