package model

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/gofrs/uuid"
)

type ComponentType string

const (
	ComponentQuestion ComponentType = "question"
	ComponentText     ComponentType = "text"
	ComponentImage    ComponentType = "image"
	ComponentVideo    ComponentType = "video"
	ComponentLogic    ComponentType = "logic"
)

type QuestionType string

const (
	QuestionRating      QuestionType = "rating"
	QuestionMCQ         QuestionType = "mcq"
	QuestionDropdown    QuestionType = "dropdown"
	QuestionLinear      QuestionType = "linear"
	QuestionShortAnswer QuestionType = "shortAnswer"
	QuestionLongAnswer  QuestionType = "longAnswer"
	QuestionDate        QuestionType = "date"
)

type AccessType string

const (
	AccessAnyone     AccessType = "anyone"
	AccessRestricted AccessType = "restricted"
)

type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
	MediaFile  MediaType = "file"
)

const (
	DefaultSectionColor   = "#11131c"
	DefaultFormBackground = "#0b0b10"
)

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Mobile       string    `json:"mobile"`
	Location     string    `json:"location"`
	Theme        string    `json:"theme"`
	OTPCode      string    `json:"-"`
	OTPExpiresAt time.Time `json:"-"`
	ResetToken   string    `json:"-"`
	ResetExpires time.Time `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type Project struct {
	ID              string    `json:"id"`
	OwnerID         string    `json:"ownerId"`
	Name            string    `json:"name"`
	InitialFormName string    `json:"initialFormName,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

type Form struct {
	ID              string     `json:"id"`
	ProjectID       string     `json:"projectId,omitempty"`
	OwnerID         string     `json:"ownerId"`
	Name            string     `json:"name"`
	Description     string     `json:"description"`
	BackgroundColor string     `json:"backgroundColor"`
	Sections        []Section  `json:"sections"`
	IsPublished     bool       `json:"isPublished"`
	AccessType      AccessType `json:"accessType"`
	AllowedEmails   []string   `json:"allowedEmails"`
	PublicSlug      string     `json:"publicSlug,omitempty"`
	Views           int        `json:"views"`
	SaveToProjectID string     `json:"saveToProjectId,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// Section ids are stable within a form: conditions and answers refer to them.
type Section struct {
	ID         string      `json:"id"`
	Title      string      `json:"title"`
	Color      string      `json:"color"`
	Components []Component `json:"components"`
	Conditions []Condition `json:"conditions"`
}

// Component is the tagged union of everything that can appear in a section.
// Type discriminates; the remaining fields are meaningful per variant only.
type Component struct {
	ID          string        `json:"id"`
	Type        ComponentType `json:"type"`
	Title       string        `json:"title,omitempty"`
	Description string        `json:"description,omitempty"`

	// question variant
	QuestionType QuestionType    `json:"questionType,omitempty"`
	Options      []string        `json:"options,omitempty"`
	ScoreConfig  json.RawMessage `json:"scoreConfig,omitempty"`

	// image/video variants
	MediaURL  string    `json:"mediaUrl,omitempty"`
	MediaType MediaType `json:"mediaType,omitempty"`
}

// Condition routes the respondent after a section is answered. Unset
// references mean "not configured yet" and leave linear order in effect.
type Condition struct {
	ID                  string `json:"id"`
	QuestionComponentID string `json:"questionComponentId,omitempty"`
	Operator            string `json:"operator,omitempty"`
	Value               any    `json:"value,omitempty"`
	TargetSectionID     string `json:"targetSectionId,omitempty"`
	ElseSectionID       string `json:"elseSectionId,omitempty"`
}

type Response struct {
	ID             string    `json:"id"`
	FormID         string    `json:"formId"`
	ResponderEmail string    `json:"responderEmail,omitempty"`
	Answers        []Answer  `json:"answers"`
	CreatedAt      time.Time `json:"createdAt"`
}

type Answer struct {
	SectionID   string `json:"sectionId"`
	ComponentID string `json:"componentId"`
	Value       any    `json:"value"`
}

func NewID() string {
	return uuid.Must(uuid.NewV4()).String()
}

// DefaultSection is the single section every new form starts with.
func DefaultSection() Section {
	return Section{
		ID:         "sec_" + NewID(),
		Title:      "Section 1",
		Color:      DefaultSectionColor,
		Components: []Component{},
		Conditions: []Condition{},
	}
}

// CleanName trims a user-supplied name and rejects blank ones.
func CleanName(name, what string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", Invalid(what + " name is required")
	}
	return name, nil
}

// CopyForm produces a duplicate ready for insertion: fresh id, draft state,
// zero views, no slug. Sections are duplicated verbatim so that condition
// targets and component references inside the copy keep resolving.
func CopyForm(src Form) Form {
	dst := src
	dst.ID = NewID()
	dst.Name = src.Name + " (Copy)"
	dst.IsPublished = false
	dst.PublicSlug = ""
	dst.Views = 0
	dst.Sections = CopySections(src.Sections)
	dst.AllowedEmails = append([]string(nil), src.AllowedEmails...)
	if dst.SaveToProjectID == "" {
		dst.SaveToProjectID = src.ProjectID
	}
	return dst
}

func CopySections(sections []Section) []Section {
	out := make([]Section, len(sections))
	for i, sec := range sections {
		out[i] = sec
		out[i].Components = append([]Component(nil), sec.Components...)
		out[i].Conditions = append([]Condition(nil), sec.Conditions...)
	}
	return out
}

// ValueString normalizes an answer value to the string key used for counting
// and comparison. Missing values land in the empty-string bucket.
func ValueString(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		// JSON numbers decode as float64; render integral ones without a
		// fractional tail so "3" and 3 count as the same answer.
		if v == math.Trunc(v) && !math.IsInf(v, 0) {
			return fmt.Sprintf("%d", int64(v))
		}
		return fmt.Sprintf("%v", v)
	case bool:
		if v {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprint(v)
	}
}
