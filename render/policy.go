// Package render turns a resume record into a preview page or a printable
// PDF. Both outputs are built from the same Document, so section inclusion
// and heading labels never differ between them.
package render

import (
	"strings"

	"github.com/resumify/backend/models"
	"github.com/resumify/backend/normalize"
)

// Layout decides how a section body is drawn
type Layout string

const (
	LayoutParagraph Layout = "paragraph"
	LayoutTags      Layout = "tags"
	LayoutBullets   Layout = "bullets"
	LayoutEntries   Layout = "entries"
	LayoutInline    Layout = "inline"
)

// Section is one visible block of the document
type Section struct {
	Key     string   `json:"key"`
	Label   string   `json:"label"`
	Layout  Layout   `json:"layout"`
	Text    string   `json:"text,omitempty"`
	Items   []string `json:"items,omitempty"`
	Entries []Entry  `json:"entries,omitempty"`
}

// Entry is one structured list element: a bold lead line and detail lines
type Entry struct {
	Lead    string   `json:"lead"`
	Org     string   `json:"org,omitempty"`    // already prefixed, such as " at Acme"
	Period  string   `json:"period,omitempty"` // already wrapped, such as " (2020-2023)"
	Details []string `json:"details,omitempty"`
}

// SectionOrder lists the body sections in display order
var SectionOrder = []string{
	models.KeySummary,
	models.KeySkills,
	models.KeyExperience,
	models.KeyEducation,
	models.KeyProjects,
	models.KeyInternship,
	models.KeyCertifications,
	models.KeyLanguages,
	models.KeyAchievements,
	models.KeyVolunteer,
	models.KeyHobbies,
}

// FallbackLabels are the English section headings used when a record has no
// translated label for a key
var FallbackLabels = map[string]string{
	models.KeySummary:        "Professional Summary",
	models.KeySkills:         "Skills",
	models.KeyExperience:     "Work Experience",
	models.KeyEducation:      "Education",
	models.KeyProjects:       "Projects",
	models.KeyInternship:     "Internship Experience",
	models.KeyCertifications: "Certifications",
	models.KeyLanguages:      "Languages",
	models.KeyAchievements:   "Achievements",
	models.KeyVolunteer:      "Volunteer Work",
	models.KeyHobbies:        "Hobbies & Interests",
}

// Sentinels are placeholder answers from the creation form that count as
// "not provided". Matching is on the exact stored text.
var Sentinels = map[string]string{
	models.KeyExperience: "Fresher",
	models.KeyProjects:   "Web Apps",
	models.KeyInternship: "N.A",
}

// Label resolves a section heading: translated label, then English fallback
func Label(r *models.Resume, key string) string {
	if r != nil {
		if v := strings.TrimSpace(r.TranslatedLabels[key]); v != "" {
			return v
		}
	}
	if v, ok := FallbackLabels[key]; ok {
		return v
	}
	return key
}

// Included reports whether the section for key is rendered
func Included(r *models.Resume, key string) bool {
	if r == nil {
		return false
	}
	f := r.Field(key)
	if normalize.IsBlank(f) {
		return false
	}
	if sentinel, ok := Sentinels[key]; ok && f.Kind() == models.FieldText && f.TextValue() == sentinel {
		return false
	}
	return true
}

// Sections applies the inclusion policy and returns the visible sections
func Sections(r *models.Resume) []Section {
	out := make([]Section, 0, len(SectionOrder))
	for _, key := range SectionOrder {
		if !Included(r, key) {
			continue
		}
		out = append(out, buildSection(r, key))
	}
	return out
}

func buildSection(r *models.Resume, key string) Section {
	s := Section{Key: key, Label: Label(r, key)}
	f := r.Field(key)

	switch key {
	case models.KeySummary:
		s.Layout = LayoutParagraph
		s.Text = strings.TrimSpace(f.TextValue())
	case models.KeySkills:
		s.Layout = LayoutTags
		s.Items = itemTexts(f)
	case models.KeyCertifications, models.KeyAchievements, models.KeyLanguages:
		s.Layout = LayoutBullets
		s.Items = itemTexts(f)
	case models.KeyHobbies:
		s.Layout = LayoutInline
		s.Text = normalize.Join(f)
	default:
		if f.Kind() == models.FieldText {
			s.Layout = LayoutParagraph
			s.Text = strings.TrimSpace(f.TextValue())
			break
		}
		s.Layout = LayoutEntries
		for _, it := range f.Items() {
			if normalize.IsEntryEmpty(it) {
				continue
			}
			s.Entries = append(s.Entries, buildEntry(key, it))
		}
	}
	return s
}

func itemTexts(f models.FlexField) []string {
	items := normalize.ToEditable(f)
	out := make([]string, 0, len(items))
	for _, it := range items {
		var text string
		if it.IsRecord() && it.Get("language") != "" {
			text = languageText(it)
		} else {
			text = normalize.ItemText(it)
		}
		if text != "" {
			out = append(out, text)
		}
	}
	return out
}

func languageText(it models.Item) string {
	lang := strings.TrimSpace(it.Get("language"))
	if p := strings.TrimSpace(it.Get("proficiency")); p != "" {
		return lang + " (" + p + ")"
	}
	return lang
}

func buildEntry(key string, it models.Item) Entry {
	if !it.IsRecord() {
		return Entry{Lead: strings.TrimSpace(it.Text)}
	}
	get := func(k string) string { return strings.TrimSpace(it.Get(k)) }

	var e Entry
	switch key {
	case models.KeyExperience, models.KeyInternship:
		e.Lead = firstNonBlank(get("title"), get("role"))
		if c := get("company"); c != "" {
			e.Org = " at " + c
		}
		e.Period = wrap(get("years"))
		e.Details = nonBlank(get("description"))
	case models.KeyEducation:
		e.Lead = get("degree")
		if u := get("university"); u != "" {
			e.Org = " - " + u
		}
		e.Period = wrap(get("years"))
		var gpa string
		if g := get("gpa"); g != "" {
			gpa = "GPA: " + g
		}
		e.Details = nonBlank(gpa, get("honors"))
	case models.KeyProjects:
		e.Lead = firstNonBlank(get("name"), get("title"))
		e.Details = nonBlank(get("description"))
	case models.KeyVolunteer:
		e.Lead = get("organization")
		if role := get("role"); role != "" {
			e.Period = wrap(role)
		}
		e.Details = nonBlank(get("description"))
	}
	return e
}

func wrap(s string) string {
	if s == "" {
		return ""
	}
	return " (" + s + ")"
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func nonBlank(values ...string) []string {
	var out []string
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
