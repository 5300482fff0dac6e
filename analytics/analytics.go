// Package analytics computes per-question answer breakdowns for a form's
// collected responses.
package analytics

import "github.com/canova-hq/canova-server/model"

type QuestionSummary struct {
	SectionID    string             `json:"sectionId"`
	ComponentID  string             `json:"componentId"`
	Title        string             `json:"title"`
	QuestionType model.QuestionType `json:"questionType"`
	Options      []string           `json:"options"`
	Counts       map[string]int     `json:"counts"`
	Total        int                `json:"total"`
}

type Summary struct {
	ByQuestion     []QuestionSummary `json:"byQuestion"`
	TotalResponses int               `json:"totalResponses"`
}

// Summarize tallies every answer by question. Every question component
// appears in the output, answered or not, in section order. Answers that
// point at a component the form no longer has are skipped. TotalResponses
// counts response documents, not answers: respondents may skip questions,
// so per-question totals can each be smaller.
func Summarize(form model.Form, responses []model.Response) Summary {
	type key struct{ section, component string }

	byQuestion := map[key]*QuestionSummary{}
	order := []key{}

	for _, sec := range form.Sections {
		for _, cmp := range sec.Components {
			if cmp.Type != model.ComponentQuestion {
				continue
			}
			k := key{sec.ID, cmp.ID}
			options := cmp.Options
			if options == nil {
				options = []string{}
			}
			byQuestion[k] = &QuestionSummary{
				SectionID:    sec.ID,
				ComponentID:  cmp.ID,
				Title:        cmp.Title,
				QuestionType: cmp.QuestionType,
				Options:      options,
				Counts:       map[string]int{},
			}
			order = append(order, k)
		}
	}

	for _, resp := range responses {
		for _, a := range resp.Answers {
			q, known := byQuestion[key{a.SectionID, a.ComponentID}]
			if !known {
				continue
			}
			q.Counts[model.ValueString(a.Value)]++
			q.Total++
		}
	}

	out := Summary{
		ByQuestion:     make([]QuestionSummary, 0, len(order)),
		TotalResponses: len(responses),
	}
	for _, k := range order {
		out.ByQuestion = append(out.ByQuestion, *byQuestion[k])
	}
	return out
}
