package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSection(t *testing.T) {
	sec := DefaultSection()

	assert.Equal(t, "Section 1", sec.Title)
	assert.Equal(t, DefaultSectionColor, sec.Color)
	assert.NotEmpty(t, sec.ID)
	assert.Empty(t, sec.Components)
	assert.Empty(t, sec.Conditions)

	other := DefaultSection()
	assert.NotEqual(t, sec.ID, other.ID)
}

func TestCleanName(t *testing.T) {
	name, err := CleanName("  My Form  ", "Form")
	require.NoError(t, err)
	assert.Equal(t, "My Form", name)

	_, err = CleanName("   ", "Form")
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.EqualError(t, err, "Form name is required")
}

func publishedForm() Form {
	return Form{
		ID:          "form1",
		ProjectID:   "proj1",
		OwnerID:     "owner1",
		Name:        "Feedback",
		IsPublished: true,
		AccessType:  AccessRestricted,
		AllowedEmails: []string{
			"a@x.com",
		},
		PublicSlug: "slug-123",
		Views:      42,
		Sections: []Section{
			{
				ID: "secA",
				Components: []Component{
					{ID: "q1", Type: ComponentQuestion, QuestionType: QuestionMCQ, Options: []string{"Yes", "No"}},
				},
				Conditions: []Condition{
					{ID: "c1", QuestionComponentID: "q1", Operator: "equals", Value: "Yes", TargetSectionID: "secB", ElseSectionID: "secC"},
				},
			},
			{ID: "secB"},
			{ID: "secC"},
		},
	}
}

func TestCopyFormResetsPublishState(t *testing.T) {
	src := publishedForm()
	dup := CopyForm(src)

	assert.NotEqual(t, src.ID, dup.ID)
	assert.Equal(t, "Feedback (Copy)", dup.Name)
	assert.False(t, dup.IsPublished)
	assert.Empty(t, dup.PublicSlug)
	assert.Zero(t, dup.Views)
	assert.Equal(t, src.AccessType, dup.AccessType)
	assert.Equal(t, src.AllowedEmails, dup.AllowedEmails)
	assert.Equal(t, "proj1", dup.SaveToProjectID)
}

func TestCopyFormPreservesStructure(t *testing.T) {
	src := publishedForm()
	dup := CopyForm(src)

	require.Equal(t, src.Sections, dup.Sections, "sections are copied verbatim, ids included")

	// condition references still resolve inside the copy
	cond := dup.Sections[0].Conditions[0]
	ids := map[string]bool{}
	for _, sec := range dup.Sections {
		ids[sec.ID] = true
	}
	assert.True(t, ids[cond.TargetSectionID])
	assert.True(t, ids[cond.ElseSectionID])
	assert.Equal(t, "q1", dup.Sections[0].Components[0].ID)
}

func TestCopyFormIsDeep(t *testing.T) {
	src := publishedForm()
	dup := CopyForm(src)

	dup.Sections[0].Components[0].Title = "changed"
	dup.Sections[0].Conditions[0].Value = "No"
	dup.AllowedEmails[0] = "b@x.com"

	assert.Empty(t, src.Sections[0].Components[0].Title)
	assert.Equal(t, "Yes", src.Sections[0].Conditions[0].Value)
	assert.Equal(t, "a@x.com", src.AllowedEmails[0])
}

func TestValueString(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"plain", "plain"},
		{float64(3), "3"},
		{float64(3.5), "3.5"},
		{true, "true"},
		{false, "false"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ValueString(tt.in))
	}
}

func TestErrorKinds(t *testing.T) {
	assert.True(t, IsNotFound(NotFound("x")))
	assert.False(t, IsNotFound(Invalid("x")))
	assert.True(t, IsKind(AccessDenied("x"), KindAccessDenied))
	assert.True(t, IsKind(NotPublished("x"), KindNotPublished))
	assert.True(t, IsKind(Conflict("x"), KindConflict))
	assert.EqualError(t, Invalid("boom"), "boom")
}
