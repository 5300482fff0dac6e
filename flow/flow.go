// Package flow decides which section a respondent sees next while filling
// out a form. Branching conditions run in stored order; the first one that is
// configured and whose source question has an answer picks the branch. When
// no condition applies, sections run linearly.
package flow

import (
	"strconv"
	"strings"

	"github.com/canova-hq/canova-server/model"
)

const (
	OpEquals      = "equals"
	OpNotEquals   = "notEquals"
	OpContains    = "contains"
	OpGreaterThan = "greaterThan"
	OpLessThan    = "lessThan"
)

// NextSection resolves the section to present after currentID, given the
// answers recorded so far. ok is false when the form is complete.
func NextSection(form model.Form, currentID string, answers []model.Answer) (next string, ok bool) {
	idx := -1
	for i, sec := range form.Sections {
		if sec.ID == currentID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return "", false
	}

	current := form.Sections[idx]
	for _, cond := range current.Conditions {
		if cond.QuestionComponentID == "" || cond.Operator == "" {
			continue // not configured yet
		}
		answer, answered := lookupAnswer(answers, current.ID, cond.QuestionComponentID)
		if !answered {
			continue
		}

		branch := cond.ElseSectionID
		if evaluate(cond.Operator, answer.Value, cond.Value) {
			branch = cond.TargetSectionID
		}
		if branch == "" {
			break // deciding condition has no route set: linear order
		}
		return branch, true
	}

	if idx+1 < len(form.Sections) {
		return form.Sections[idx+1].ID, true
	}
	return "", false
}

func lookupAnswer(answers []model.Answer, sectionID, componentID string) (model.Answer, bool) {
	for _, a := range answers {
		if a.SectionID == sectionID && a.ComponentID == componentID {
			return a, true
		}
	}
	return model.Answer{}, false
}

// evaluate compares an answer against a condition operand. Unknown operators
// evaluate false, so a form saved by a newer builder degrades to linear order
// instead of misrouting.
func evaluate(operator string, answer, operand any) bool {
	a := model.ValueString(answer)
	b := model.ValueString(operand)

	switch operator {
	case OpEquals:
		return a == b
	case OpNotEquals:
		return a != b
	case OpContains:
		return strings.Contains(a, b)
	case OpGreaterThan:
		af, bf, numeric := asNumbers(a, b)
		return numeric && af > bf
	case OpLessThan:
		af, bf, numeric := asNumbers(a, b)
		return numeric && af < bf
	default:
		return false
	}
}

func asNumbers(a, b string) (af, bf float64, ok bool) {
	af, errA := strconv.ParseFloat(a, 64)
	bf, errB := strconv.ParseFloat(b, 64)
	return af, bf, errA == nil && errB == nil
}
