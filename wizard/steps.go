package wizard

import (
	"strings"

	"github.com/resumify/backend/models"
	"github.com/resumify/backend/normalize"
)

// Step is one page of the creation form
type Step struct {
	ID     string   `json:"id"`
	Title  string   `json:"title"`
	Icon   string   `json:"icon"`
	Fields []string `json:"fields"`

	// Required fields must all be non-blank. When AnyOf is set, one
	// non-blank field is enough.
	Required []string `json:"required,omitempty"`
	AnyOf    bool     `json:"anyOf,omitempty"`
}

// Steps is the fixed step sequence
var Steps = []Step{
	{
		ID: "contact", Title: "Contact Info", Icon: "👤",
		Fields:   []string{models.KeyFullName, models.KeyTitle, models.KeyEmail, models.KeyPhone, models.KeyLocation, models.KeyLinkedIn, models.KeyGitHub},
		Required: []string{models.KeyFullName, models.KeyEmail, models.KeyPhone},
	},
	{ID: "summary", Title: "Summary", Icon: "📝", Fields: []string{models.KeySummary}, Required: []string{models.KeySummary}},
	{ID: "skills", Title: "Skills", Icon: "⚡", Fields: []string{models.KeySkills}, Required: []string{models.KeySkills}},
	{ID: "experience", Title: "Experience", Icon: "💼", Fields: []string{models.KeyExperience}, Required: []string{models.KeyExperience}},
	{ID: "education", Title: "Education", Icon: "🎓", Fields: []string{models.KeyEducation}, Required: []string{models.KeyEducation}},
	{
		ID: "projects", Title: "Projects", Icon: "🚀",
		Fields:   []string{models.KeyProjects, models.KeyInternship},
		Required: []string{models.KeyProjects, models.KeyInternship},
		AnyOf:    true,
	},
	{ID: "certifications", Title: "Certifications", Icon: "🏆", Fields: []string{models.KeyCertifications}},
	{ID: "achievements", Title: "Achievements", Icon: "⭐", Fields: []string{models.KeyAchievements}},
	{ID: "optional", Title: "Optional", Icon: "➕", Fields: []string{models.KeyLanguages, models.KeyVolunteer, models.KeyHobbies}},
}

// LastStep is the index of the final step
var LastStep = len(Steps) - 1

// Missing returns the required fields of step that are blank in r. An empty
// result means the step validates.
func (s Step) Missing(r *models.Resume) []string {
	var missing []string
	for _, key := range s.Required {
		if isBlank(r, key) {
			missing = append(missing, key)
		}
	}
	if s.AnyOf && len(missing) < len(s.Required) {
		return nil
	}
	return missing
}

func isBlank(r *models.Resume, key string) bool {
	f := r.Field(key)
	if f.Kind() == models.FieldText {
		return strings.TrimSpace(f.TextValue()) == ""
	}
	return normalize.IsBlank(f)
}

// StepIndex returns the index of a step id, or -1
func StepIndex(id string) int {
	for i, s := range Steps {
		if s.ID == id {
			return i
		}
	}
	return -1
}
