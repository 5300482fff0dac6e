package analytics

import (
	"testing"

	"github.com/canova-hq/canova-server/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func surveyForm() model.Form {
	return model.Form{
		Sections: []model.Section{
			{
				ID: "sec1",
				Components: []model.Component{
					{ID: "q1", Type: model.ComponentQuestion, Title: "Satisfied?", QuestionType: model.QuestionMCQ, Options: []string{"Yes", "No"}},
					{ID: "txt", Type: model.ComponentText, Title: "Intro"},
				},
			},
			{
				ID: "sec2",
				Components: []model.Component{
					{ID: "q2", Type: model.ComponentQuestion, Title: "Rating", QuestionType: model.QuestionRating},
				},
			},
		},
	}
}

func mcqResponse(value any) model.Response {
	return model.Response{
		Answers: []model.Answer{{SectionID: "sec1", ComponentID: "q1", Value: value}},
	}
}

func TestSummarizeCounts(t *testing.T) {
	form := surveyForm()
	responses := []model.Response{
		mcqResponse("Yes"),
		mcqResponse("No"),
		mcqResponse("Yes"),
	}

	summary := Summarize(form, responses)

	assert.Equal(t, 3, summary.TotalResponses)
	require.Len(t, summary.ByQuestion, 2, "text components are not tallied")

	q1 := summary.ByQuestion[0]
	assert.Equal(t, "sec1", q1.SectionID)
	assert.Equal(t, "q1", q1.ComponentID)
	assert.Equal(t, "Satisfied?", q1.Title)
	assert.Equal(t, model.QuestionMCQ, q1.QuestionType)
	assert.Equal(t, map[string]int{"Yes": 2, "No": 1}, q1.Counts)
	assert.Equal(t, 3, q1.Total)
}

func TestSummarizeUnansweredQuestionPresent(t *testing.T) {
	summary := Summarize(surveyForm(), nil)

	require.Len(t, summary.ByQuestion, 2)
	q2 := summary.ByQuestion[1]
	assert.Equal(t, "q2", q2.ComponentID)
	assert.Equal(t, 0, q2.Total)
	assert.Empty(t, q2.Counts)
	assert.NotNil(t, q2.Counts, "consumers index counts without nil checks")
	assert.NotNil(t, q2.Options)
	assert.Equal(t, 0, summary.TotalResponses)
}

func TestSummarizeSkipsStaleAnswers(t *testing.T) {
	responses := []model.Response{
		{Answers: []model.Answer{
			{SectionID: "sec1", ComponentID: "deleted", Value: "x"},
			{SectionID: "ghost", ComponentID: "q1", Value: "y"},
			{SectionID: "sec1", ComponentID: "q1", Value: "Yes"},
		}},
	}

	summary := Summarize(surveyForm(), responses)

	q1 := summary.ByQuestion[0]
	assert.Equal(t, map[string]int{"Yes": 1}, q1.Counts)
	assert.Equal(t, 1, q1.Total)
	assert.Equal(t, 1, summary.TotalResponses)
}

func TestSummarizeValueCoercion(t *testing.T) {
	form := surveyForm()
	responses := []model.Response{
		{Answers: []model.Answer{{SectionID: "sec2", ComponentID: "q2", Value: float64(4)}}},
		{Answers: []model.Answer{{SectionID: "sec2", ComponentID: "q2", Value: "4"}}},
		{Answers: []model.Answer{{SectionID: "sec2", ComponentID: "q2", Value: nil}}},
	}

	summary := Summarize(form, responses)

	q2 := summary.ByQuestion[1]
	assert.Equal(t, map[string]int{"4": 2, "": 1}, q2.Counts, "numbers and numeric strings share a bucket, missing values get the empty one")
	assert.Equal(t, 3, q2.Total)
}

func TestSummarizeTotalsAreResponsesNotAnswers(t *testing.T) {
	form := surveyForm()
	responses := []model.Response{
		{Answers: []model.Answer{
			{SectionID: "sec1", ComponentID: "q1", Value: "Yes"},
			{SectionID: "sec2", ComponentID: "q2", Value: float64(5)},
		}},
		{Answers: []model.Answer{}}, // respondent skipped everything
	}

	summary := Summarize(form, responses)

	assert.Equal(t, 2, summary.TotalResponses)
	assert.Equal(t, 1, summary.ByQuestion[0].Total)
	assert.Equal(t, 1, summary.ByQuestion[1].Total)
}
