package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/canova-hq/canova-server/database"
	"github.com/canova-hq/canova-server/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := database.Open(filepath.Join(t.TempDir(), "test.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return New(db)
}

func testForm(ownerID string) model.Form {
	return model.Form{
		ID:              model.NewID(),
		OwnerID:         ownerID,
		Name:            "Customer Feedback",
		BackgroundColor: model.DefaultFormBackground,
		AccessType:      model.AccessAnyone,
		AllowedEmails:   []string{},
		Sections: []model.Section{
			{
				ID:    "secA",
				Title: "Section 1",
				Color: model.DefaultSectionColor,
				Components: []model.Component{
					{ID: "q1", Type: model.ComponentQuestion, Title: "Happy?", QuestionType: model.QuestionMCQ, Options: []string{"Yes", "No"}},
				},
				Conditions: []model.Condition{
					{ID: "c1", QuestionComponentID: "q1", Operator: "equals", Value: "Yes", TargetSectionID: "secB"},
				},
			},
			{ID: "secB", Title: "Section 2", Color: model.DefaultSectionColor, Components: []model.Component{}, Conditions: []model.Condition{}},
		},
	}
}

func TestFormRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	form := testForm("owner1")
	require.NoError(t, s.InsertForm(ctx, &form))

	got, err := s.FormByID(ctx, form.ID, "owner1")
	require.NoError(t, err)

	assert.Equal(t, form.Name, got.Name)
	assert.Equal(t, form.Sections, got.Sections)
	assert.Equal(t, []string{}, got.AllowedEmails)
	assert.Empty(t, got.PublicSlug)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestFormByIDWrongOwner(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	form := testForm("owner1")
	require.NoError(t, s.InsertForm(ctx, &form))

	_, err := s.FormByID(ctx, form.ID, "intruder")
	assert.True(t, model.IsNotFound(err), "foreign forms look like missing ones")
}

func TestUpdateFormMissing(t *testing.T) {
	s := newTestStore(t)

	form := testForm("owner1")
	err := s.UpdateForm(context.Background(), &form)
	assert.True(t, model.IsNotFound(err))
}

func TestUnassignedSlugsDoNotCollide(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// the unique index must ignore forms that were never published
	for i := 0; i < 3; i++ {
		form := testForm("owner1")
		require.NoError(t, s.InsertForm(ctx, &form))
	}
}

func TestFormBySlugCountsViews(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	form := testForm("owner1")
	form.IsPublished = true
	form.PublicSlug = "slug-abc"
	require.NoError(t, s.InsertForm(ctx, &form))

	got, err := s.FormBySlug(ctx, "slug-abc")
	require.NoError(t, err)
	assert.Equal(t, 1, got.Views)

	got, err = s.FormBySlug(ctx, "slug-abc")
	require.NoError(t, err)
	assert.Equal(t, 2, got.Views, "every public fetch counts")
}

func TestFormBySlugHidesDrafts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	form := testForm("owner1")
	form.PublicSlug = "slug-draft"
	require.NoError(t, s.InsertForm(ctx, &form))

	_, err := s.FormBySlug(ctx, "slug-draft")
	assert.True(t, model.IsNotFound(err))
}

func TestDeleteFormCascadesResponses(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	form := testForm("owner1")
	require.NoError(t, s.InsertForm(ctx, &form))

	resp := model.Response{
		ID:     model.NewID(),
		FormID: form.ID,
		Answers: []model.Answer{
			{SectionID: "secA", ComponentID: "q1", Value: "Yes"},
		},
	}
	require.NoError(t, s.InsertResponse(ctx, &resp))

	require.NoError(t, s.DeleteForm(ctx, form.ID, "owner1"))

	n, err := s.CountResponses(ctx, form.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	// re-running the cascade is harmless
	err = s.DeleteForm(ctx, form.ID, "owner1")
	assert.True(t, model.IsNotFound(err))
}

func TestDeleteProjectCascades(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	project := model.Project{ID: model.NewID(), OwnerID: "owner1", Name: "Research"}
	require.NoError(t, s.InsertProject(ctx, &project))

	formIDs := []string{}
	for i := 0; i < 2; i++ {
		form := testForm("owner1")
		form.ProjectID = project.ID
		require.NoError(t, s.InsertForm(ctx, &form))
		formIDs = append(formIDs, form.ID)

		resp := model.Response{ID: model.NewID(), FormID: form.ID, Answers: []model.Answer{}}
		require.NoError(t, s.InsertResponse(ctx, &resp))
	}

	require.NoError(t, s.DeleteProject(ctx, project.ID, "owner1"))

	_, err := s.ProjectByID(ctx, project.ID, "owner1")
	assert.True(t, model.IsNotFound(err))
	for _, id := range formIDs {
		_, err := s.FormByID(ctx, id, "owner1")
		assert.True(t, model.IsNotFound(err))

		n, err := s.CountResponses(ctx, id)
		require.NoError(t, err)
		assert.Zero(t, n, "no orphaned responses")
	}
}

func TestDeleteProjectLeavesOtherOwnersForms(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	project := model.Project{ID: model.NewID(), OwnerID: "owner1", Name: "Mine"}
	require.NoError(t, s.InsertProject(ctx, &project))

	foreign := testForm("owner2")
	foreign.ProjectID = project.ID
	require.NoError(t, s.InsertForm(ctx, &foreign))

	require.NoError(t, s.DeleteProject(ctx, project.ID, "owner1"))

	_, err := s.FormByID(ctx, foreign.ID, "owner2")
	assert.NoError(t, err, "cascade only touches the owner's forms")
}

func TestSharedForms(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	shared := testForm("owner1")
	shared.IsPublished = true
	shared.AccessType = model.AccessRestricted
	shared.AllowedEmails = []string{"a@x.com", "b@x.com"}
	shared.PublicSlug = "slug-1"
	require.NoError(t, s.InsertForm(ctx, &shared))

	draft := testForm("owner1")
	draft.AccessType = model.AccessRestricted
	draft.AllowedEmails = []string{"a@x.com"}
	require.NoError(t, s.InsertForm(ctx, &draft))

	open := testForm("owner1")
	open.IsPublished = true
	open.PublicSlug = "slug-2"
	require.NoError(t, s.InsertForm(ctx, &open))

	forms, err := s.SharedForms(ctx, "a@x.com")
	require.NoError(t, err)
	require.Len(t, forms, 1, "only published restricted forms with the email qualify")
	assert.Equal(t, shared.ID, forms[0].ID)

	forms, err = s.SharedForms(ctx, "nobody@x.com")
	require.NoError(t, err)
	assert.Empty(t, forms)
}

func TestRecentQueriesAreBoundedAndOrdered(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	var lastForm, lastProject string
	for i := 0; i < 8; i++ {
		form := testForm("owner1")
		require.NoError(t, s.InsertForm(ctx, &form))
		lastForm = form.ID

		project := model.Project{ID: model.NewID(), OwnerID: "owner1", Name: "P"}
		require.NoError(t, s.InsertProject(ctx, &project))
		lastProject = project.ID

		time.Sleep(5 * time.Millisecond) // distinct updated_at
	}

	forms, err := s.RecentForms(ctx, "owner1", 6)
	require.NoError(t, err)
	require.Len(t, forms, 6)
	assert.Equal(t, lastForm, forms[0].ID)

	projects, err := s.RecentProjects(ctx, "owner1", 6)
	require.NoError(t, err)
	require.Len(t, projects, 6)
	assert.Equal(t, lastProject, projects[0].ID)
}

func TestResponsesRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	resp := model.Response{
		ID:             model.NewID(),
		FormID:         "form1",
		ResponderEmail: "a@x.com",
		Answers: []model.Answer{
			{SectionID: "secA", ComponentID: "q1", Value: "Yes"},
			{SectionID: "secA", ComponentID: "q2", Value: float64(4)},
		},
	}
	require.NoError(t, s.InsertResponse(ctx, &resp))

	got, err := s.ResponsesByForm(ctx, "form1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, resp.Answers, got[0].Answers)
	assert.Equal(t, "a@x.com", got[0].ResponderEmail)
}

func TestInsertUserDuplicateEmail(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := model.User{ID: model.NewID(), Name: "A", Email: "a@x.com", PasswordHash: "h", Location: "USA", Theme: "light"}
	require.NoError(t, s.InsertUser(ctx, &u))

	dup := model.User{ID: model.NewID(), Name: "B", Email: "a@x.com", PasswordHash: "h", Location: "USA", Theme: "light"}
	err := s.InsertUser(ctx, &dup)
	assert.True(t, model.IsKind(err, model.KindConflict))
}

func TestUserRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := model.User{ID: model.NewID(), Name: "A", Email: "a@x.com", PasswordHash: "h", Location: "USA", Theme: "light"}
	require.NoError(t, s.InsertUser(ctx, &u))

	u.OTPCode = "123456"
	u.OTPExpiresAt = time.Now().UTC().Add(10 * time.Minute)
	require.NoError(t, s.UpdateUser(ctx, &u))

	got, err := s.UserByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "123456", got.OTPCode)
	assert.False(t, got.OTPExpiresAt.IsZero())
	assert.True(t, got.ResetExpires.IsZero())

	_, err = s.UserByID(ctx, "missing")
	assert.True(t, model.IsNotFound(err))
}
