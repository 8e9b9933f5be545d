// Package labels holds the display labels of the resume form and the
// client of the label and resume translation endpoints.
package labels

import (
	"strings"

	"github.com/resumify/backend/models"
)

// Set maps a field key (plus button keys such as "next") to a display label
type Set map[string]string

// Clone returns a copy of the set
func (s Set) Clone() Set {
	out := make(Set, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Language is one selectable form language
type Language struct {
	Code string `json:"code" example:"fr"`
	Name string `json:"name" example:"French"`
}

// Languages lists the supported languages in selector order
var Languages = []Language{
	{Code: "en", Name: "English"},
	{Code: "es", Name: "Spanish"},
	{Code: "fr", Name: "French"},
	{Code: "de", Name: "German"},
	{Code: "it", Name: "Italian"},
	{Code: "pt", Name: "Portuguese"},
	{Code: "ru", Name: "Russian"},
	{Code: "ja", Name: "Japanese"},
	{Code: "ko", Name: "Korean"},
	{Code: "zh", Name: "Chinese"},
	{Code: "ar", Name: "Arabic"},
	{Code: "hi", Name: "Hindi"},
}

// Lookup returns the language for code
func Lookup(code string) (Language, bool) {
	code = strings.ToLower(strings.TrimSpace(code))
	for _, l := range Languages {
		if l.Code == code {
			return l, true
		}
	}
	return Language{}, false
}

var defaultTranslated = Set{
	models.KeyAchievements:   "Achievements",
	models.KeyCertifications: "Certifications",
	models.KeyEducation:      "Education",
	models.KeyEmail:          "Email",
	models.KeyExperience:     "Experience",
	models.KeyFullName:       "Full Name",
	models.KeyGitHub:         "GitHub",
	models.KeyHobbies:        "Hobbies",
	models.KeyInternship:     "Internship",
	models.KeyLanguages:      "Languages",
	models.KeyLinkedIn:       "LinkedIn",
	models.KeyLocation:       "Location",
	models.KeyPhone:          "Phone",
	models.KeyProjects:       "Projects",
	models.KeySkills:         "Skills",
	models.KeySummary:        "Summary",
	models.KeyTitle:          "Title",
	models.KeyVolunteer:      "Volunteer",
}

var englishForm = Set{
	models.KeyFullName:       "Full Name",
	models.KeyTitle:          "Professional Title",
	models.KeyEmail:          "Email",
	models.KeyPhone:          "Phone Number",
	models.KeyLinkedIn:       "LinkedIn URL",
	models.KeyGitHub:         "GitHub / Portfolio URL",
	models.KeyLocation:       "Location (City, State)",
	models.KeySummary:        "Professional Summary / Objective",
	models.KeySkills:         "Key Skills (separate by commas)",
	models.KeyExperience:     "Work Experience",
	models.KeyEducation:      "Education",
	models.KeyProjects:       "Projects",
	models.KeyInternship:     "Internship Experience",
	models.KeyCertifications: "Certifications / Trainings",
	models.KeyAchievements:   "Achievements / Awards",
	models.KeyLanguages:      "Languages",
	models.KeyVolunteer:      "Volunteer Work / Social Initiatives",
	models.KeyHobbies:        "Hobbies / Interests",
	"next":                   "Next",
	"back":                   "Back",
	"save":                   "Save Resume",
	"update":                 "Update Resume",
}

// DefaultTranslated returns the English translatedLabels stored with new resumes
func DefaultTranslated() Set {
	return defaultTranslated.Clone()
}

// EnglishForm returns the English form labels
func EnglishForm() Set {
	return englishForm.Clone()
}

// Snapshot builds the translatedLabels saved with a resume: the English
// section headings, overlaid with the non-blank headings a translation
// returned for canonical keys. Form prompts never enter the snapshot.
func Snapshot(translated map[string]string) map[string]string {
	out := DefaultTranslated()
	for key := range defaultTranslated {
		if v := strings.TrimSpace(translated[key]); v != "" {
			out[key] = v
		}
	}
	return out
}
