package models

import (
	"errors"
	"fmt"
	"time"
)

// ErrFieldShape is returned when a scalar field is given a list value
var ErrFieldShape = errors.New("field expects text")

// Canonical resume field keys, shared by the form, the renderer and the
// translatedLabels map
const (
	KeyFullName       = "fullName"
	KeyTitle          = "title"
	KeyEmail          = "email"
	KeyPhone          = "phone"
	KeyLinkedIn       = "linkedin"
	KeyGitHub         = "github"
	KeyLocation       = "location"
	KeySummary        = "summary"
	KeySkills         = "skills"
	KeyExperience     = "experience"
	KeyEducation      = "education"
	KeyProjects       = "projects"
	KeyInternship     = "internship"
	KeyCertifications = "certifications"
	KeyAchievements   = "achievements"
	KeyLanguages      = "languages"
	KeyVolunteer      = "volunteer"
	KeyHobbies        = "hobbies"
)

// ScalarKeys lists the plain string fields
var ScalarKeys = []string{
	KeyFullName, KeyTitle, KeyEmail, KeyPhone, KeyLinkedIn, KeyGitHub, KeyLocation, KeySummary,
}

// ListKeys lists the fields that accept either a delimited string or a list
var ListKeys = []string{
	KeySkills, KeyExperience, KeyEducation, KeyProjects, KeyInternship,
	KeyCertifications, KeyAchievements, KeyLanguages, KeyVolunteer, KeyHobbies,
}

// DefaultLanguage is the language drafts start in
const DefaultLanguage = "en"

// Resume is one resume document of the "resumes" collection
// @Description Resume record; list fields accept a comma-separated string or an array
type Resume struct {
	ID      string `json:"id,omitempty"`
	OwnerID string `json:"ownerId,omitempty"`

	FullName string `json:"fullName"`
	Title    string `json:"title"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	LinkedIn string `json:"linkedin"`
	GitHub   string `json:"github"`
	Location string `json:"location"`
	Summary  string `json:"summary"`

	Skills         FlexField `json:"skills" swaggertype:"object"`
	Experience     FlexField `json:"experience" swaggertype:"object"`
	Education      FlexField `json:"education" swaggertype:"object"`
	Projects       FlexField `json:"projects" swaggertype:"object"`
	Internship     FlexField `json:"internship" swaggertype:"object"`
	Certifications FlexField `json:"certifications" swaggertype:"object"`
	Achievements   FlexField `json:"achievements" swaggertype:"object"`
	Languages      FlexField `json:"languages" swaggertype:"object"`
	Volunteer      FlexField `json:"volunteer" swaggertype:"object"`
	Hobbies        FlexField `json:"hobbies" swaggertype:"object"`

	Language         string            `json:"language,omitempty"`
	TranslatedLabels map[string]string `json:"translatedLabels"`

	CreatedAt *time.Time `json:"createdAt,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// IsScalarKey reports whether key names a plain string field
func IsScalarKey(key string) bool {
	for _, k := range ScalarKeys {
		if k == key {
			return true
		}
	}
	return false
}

// IsListKey reports whether key names a string-or-list field
func IsListKey(key string) bool {
	for _, k := range ListKeys {
		if k == key {
			return true
		}
	}
	return false
}

func (r *Resume) scalar(key string) *string {
	switch key {
	case KeyFullName:
		return &r.FullName
	case KeyTitle:
		return &r.Title
	case KeyEmail:
		return &r.Email
	case KeyPhone:
		return &r.Phone
	case KeyLinkedIn:
		return &r.LinkedIn
	case KeyGitHub:
		return &r.GitHub
	case KeyLocation:
		return &r.Location
	case KeySummary:
		return &r.Summary
	}
	return nil
}

func (r *Resume) list(key string) *FlexField {
	switch key {
	case KeySkills:
		return &r.Skills
	case KeyExperience:
		return &r.Experience
	case KeyEducation:
		return &r.Education
	case KeyProjects:
		return &r.Projects
	case KeyInternship:
		return &r.Internship
	case KeyCertifications:
		return &r.Certifications
	case KeyAchievements:
		return &r.Achievements
	case KeyLanguages:
		return &r.Languages
	case KeyVolunteer:
		return &r.Volunteer
	case KeyHobbies:
		return &r.Hobbies
	}
	return nil
}

// Field returns any content field by key; scalars come back text-shaped
func (r *Resume) Field(key string) FlexField {
	if s := r.scalar(key); s != nil {
		if *s == "" {
			return FlexField{}
		}
		return Text(*s)
	}
	if f := r.list(key); f != nil {
		return f.Clone()
	}
	return FlexField{}
}

// SetField replaces a content field by key. Scalar fields only take text.
func (r *Resume) SetField(key string, value FlexField) error {
	if s := r.scalar(key); s != nil {
		switch value.Kind() {
		case FieldAbsent:
			*s = ""
		case FieldText:
			*s = value.TextValue()
		default:
			return fmt.Errorf("%w: %s", ErrFieldShape, key)
		}
		return nil
	}
	if f := r.list(key); f != nil {
		*f = value.Clone()
		return nil
	}
	return fmt.Errorf("unknown field %s", key)
}

// Clone returns a deep copy of the record
func (r *Resume) Clone() *Resume {
	if r == nil {
		return nil
	}
	out := *r
	for _, key := range ListKeys {
		*out.list(key) = r.list(key).Clone()
	}
	if r.TranslatedLabels != nil {
		out.TranslatedLabels = make(map[string]string, len(r.TranslatedLabels))
		for k, v := range r.TranslatedLabels {
			out.TranslatedLabels[k] = v
		}
	}
	if r.CreatedAt != nil {
		t := *r.CreatedAt
		out.CreatedAt = &t
	}
	if r.UpdatedAt != nil {
		t := *r.UpdatedAt
		out.UpdatedAt = &t
	}
	return &out
}

// ToDocument converts the record into Firestore document data. The id is the
// document key and is not stored in the body.
func (r *Resume) ToDocument() map[string]interface{} {
	doc := map[string]interface{}{
		"ownerId":  r.OwnerID,
		"language": r.Language,
	}
	for _, key := range ScalarKeys {
		doc[key] = *r.scalar(key)
	}
	for _, key := range ListKeys {
		if f := r.list(key); !f.IsAbsent() {
			doc[key] = f.ToValue()
		}
	}
	if r.TranslatedLabels != nil {
		labels := make(map[string]interface{}, len(r.TranslatedLabels))
		for k, v := range r.TranslatedLabels {
			labels[k] = v
		}
		doc["translatedLabels"] = labels
	}
	if r.CreatedAt != nil {
		doc["createdAt"] = *r.CreatedAt
	}
	if r.UpdatedAt != nil {
		doc["updatedAt"] = *r.UpdatedAt
	}
	return doc
}

// ResumeFromDocument rebuilds a record from Firestore document data.
// Fields of unexpected shape are skipped rather than failing the read.
func ResumeFromDocument(id string, data map[string]interface{}) *Resume {
	r := &Resume{ID: id}
	if v, ok := data["ownerId"].(string); ok {
		r.OwnerID = v
	}
	if v, ok := data["language"].(string); ok {
		r.Language = v
	}
	for _, key := range ScalarKeys {
		if v, ok := data[key].(string); ok {
			*r.scalar(key) = v
		}
	}
	for _, key := range ListKeys {
		if f, err := FlexFieldFromValue(data[key]); err == nil {
			*r.list(key) = f
		}
	}
	if raw, ok := data["translatedLabels"].(map[string]interface{}); ok {
		r.TranslatedLabels = make(map[string]string, len(raw))
		for k, v := range raw {
			if s, ok := v.(string); ok {
				r.TranslatedLabels[k] = s
			}
		}
	}
	if t, ok := data["createdAt"].(time.Time); ok {
		r.CreatedAt = &t
	}
	if t, ok := data["updatedAt"].(time.Time); ok {
		r.UpdatedAt = &t
	}
	return r
}
