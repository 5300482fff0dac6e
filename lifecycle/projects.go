package lifecycle

import (
	"context"

	"github.com/canova-hq/canova-server/model"
	"github.com/canova-hq/canova-server/store"
)

const recentLimit = 6

type Projects struct {
	Store *store.Store
	Forms *Forms
}

// Create spawns a project together with its initial form.
func (s *Projects) Create(ctx context.Context, ownerID, name, initialFormName string) (model.Project, model.Form, error) {
	name, err := model.CleanName(name, "Project")
	if err != nil {
		return model.Project{}, model.Form{}, err
	}
	initialFormName, err = model.CleanName(initialFormName, "Initial form")
	if err != nil {
		return model.Project{}, model.Form{}, err
	}

	project := model.Project{
		ID:              model.NewID(),
		OwnerID:         ownerID,
		Name:            name,
		InitialFormName: initialFormName,
	}
	if err := s.Store.InsertProject(ctx, &project); err != nil {
		return model.Project{}, model.Form{}, err
	}

	form, err := s.Forms.Create(ctx, ownerID, project.ID, initialFormName)
	if err != nil {
		return model.Project{}, model.Form{}, err
	}
	return project, form, nil
}

func (s *Projects) List(ctx context.Context, ownerID string) ([]model.Project, error) {
	return s.Store.ProjectsByOwner(ctx, ownerID)
}

type RecentWork struct {
	Projects []model.Project `json:"projects"`
	Forms    []model.Form    `json:"forms"`
}

// Recent returns the latest projects and forms as two independent bounded
// queries; interleaving them is the client's concern.
func (s *Projects) Recent(ctx context.Context, ownerID string) (RecentWork, error) {
	projects, err := s.Store.RecentProjects(ctx, ownerID, recentLimit)
	if err != nil {
		return RecentWork{}, err
	}
	forms, err := s.Store.RecentForms(ctx, ownerID, recentLimit)
	if err != nil {
		return RecentWork{}, err
	}
	return RecentWork{Projects: projects, Forms: forms}, nil
}

func (s *Projects) Rename(ctx context.Context, ownerID, id, name string) (model.Project, error) {
	name, err := model.CleanName(name, "Project")
	if err != nil {
		return model.Project{}, err
	}

	project, err := s.Store.ProjectByID(ctx, id, ownerID)
	if err != nil {
		return model.Project{}, err
	}
	project.Name = name
	if err := s.Store.UpdateProject(ctx, &project); err != nil {
		return model.Project{}, err
	}
	return project, nil
}

// Copy duplicates the project and every form in it. Copied forms follow the
// form copy contract (draft, zero views, no slug) and are re-pointed at the
// new project.
func (s *Projects) Copy(ctx context.Context, ownerID, id string) (model.Project, error) {
	src, err := s.Store.ProjectByID(ctx, id, ownerID)
	if err != nil {
		return model.Project{}, err
	}

	initialFormName := src.InitialFormName
	if initialFormName == "" {
		initialFormName = "Copied Form"
	}
	dup := model.Project{
		ID:              model.NewID(),
		OwnerID:         ownerID,
		Name:            src.Name + " (Copy)",
		InitialFormName: initialFormName,
	}
	if err := s.Store.InsertProject(ctx, &dup); err != nil {
		return model.Project{}, err
	}

	forms, err := s.Store.FormsByProject(ctx, ownerID, src.ID)
	if err != nil {
		return model.Project{}, err
	}
	for _, form := range forms {
		formCopy := model.CopyForm(form)
		formCopy.ProjectID = dup.ID
		formCopy.SaveToProjectID = dup.ID
		if err := s.Store.InsertForm(ctx, &formCopy); err != nil {
			return model.Project{}, err
		}
	}
	return dup, nil
}

func (s *Projects) Delete(ctx context.Context, ownerID, id string) error {
	return s.Store.DeleteProject(ctx, id, ownerID)
}

// ShareLink points collaborators at the project inside the dashboard.
func (s *Projects) ShareLink(ctx context.Context, ownerID, id string) (string, error) {
	project, err := s.Store.ProjectByID(ctx, id, ownerID)
	if err != nil {
		return "", err
	}
	return "/dashboard/projects?projectId=" + project.ID, nil
}
