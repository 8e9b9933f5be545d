package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resumify/backend/models"
)

func sectionByKey(sections []Section, key string) (Section, bool) {
	for _, s := range sections {
		if s.Key == key {
			return s, true
		}
	}
	return Section{}, false
}

func TestSentinelExperienceIsOmitted(t *testing.T) {
	r := &models.Resume{Experience: models.Text("Fresher")}
	_, ok := sectionByKey(Sections(r), models.KeyExperience)
	assert.False(t, ok)

	r.Experience = models.Text("Senior Dev (3y)")
	s, ok := sectionByKey(Sections(r), models.KeyExperience)
	require.True(t, ok)
	assert.Equal(t, LayoutParagraph, s.Layout)
	assert.Equal(t, "Senior Dev (3y)", s.Text)
}

func TestOtherSentinels(t *testing.T) {
	r := &models.Resume{Projects: models.Text("Web Apps"), Internship: models.Text("N.A")}
	assert.Empty(t, Sections(r))

	// match is exact
	r.Projects = models.Text("Web Apps and APIs")
	_, ok := sectionByKey(Sections(r), models.KeyProjects)
	assert.True(t, ok)

	// surrounding whitespace defeats the match
	r.Projects = models.Text(" Web Apps")
	_, ok = sectionByKey(Sections(r), models.KeyProjects)
	assert.True(t, ok)
}

func TestTranslatedLabel(t *testing.T) {
	r := &models.Resume{Skills: models.Text("Go"), TranslatedLabels: map[string]string{"skills": "Compétences"}}
	s, ok := sectionByKey(Sections(r), models.KeySkills)
	require.True(t, ok)
	assert.Equal(t, "Compétences", s.Label)

	r.TranslatedLabels = nil
	s, _ = sectionByKey(Sections(r), models.KeySkills)
	assert.Equal(t, "Skills", s.Label)

	r.TranslatedLabels = map[string]string{"skills": "  "}
	s, _ = sectionByKey(Sections(r), models.KeySkills)
	assert.Equal(t, "Skills", s.Label)
}

func TestSectionOrderAndAbsence(t *testing.T) {
	r := &models.Resume{
		Hobbies: models.Strings("chess", "go"),
		Summary: "Builder",
		Skills:  models.Text("JS, Go"),
	}
	sections := Sections(r)
	require.Len(t, sections, 3)
	assert.Equal(t, models.KeySummary, sections[0].Key)
	assert.Equal(t, models.KeySkills, sections[1].Key)
	assert.Equal(t, []string{"JS", "Go"}, sections[1].Items)
	assert.Equal(t, "chess, go", sections[2].Text)
}

func TestStructuredEntries(t *testing.T) {
	r := &models.Resume{
		Experience: models.List(
			models.RecordItem(map[string]string{"title": "Engineer", "company": "Acme", "years": "2020-2023", "description": "APIs"}),
			models.RecordItem(map[string]string{"company": "Solo"}),
		),
		Education: models.List(models.RecordItem(map[string]string{"degree": "BSc", "gpa": "3.9"})),
		Languages: models.List(
			models.RecordItem(map[string]string{"language": "French", "proficiency": "Fluent"}),
			models.TextItem("German"),
		),
	}
	exp, _ := sectionByKey(Sections(r), models.KeyExperience)
	require.Len(t, exp.Entries, 2)
	assert.Equal(t, Entry{Lead: "Engineer", Org: " at Acme", Period: " (2020-2023)", Details: []string{"APIs"}}, exp.Entries[0])
	assert.Equal(t, Entry{Org: " at Solo"}, exp.Entries[1])

	edu, _ := sectionByKey(Sections(r), models.KeyEducation)
	assert.Equal(t, []string{"GPA: 3.9"}, edu.Entries[0].Details)

	lang, _ := sectionByKey(Sections(r), models.KeyLanguages)
	assert.Equal(t, []string{"French (Fluent)", "German"}, lang.Items)
}

func TestEmptyStructuredListIsAbsent(t *testing.T) {
	r := &models.Resume{Volunteer: models.List(models.RecordItem(map[string]string{"organization": ""}))}
	assert.Empty(t, Sections(r))
	assert.Empty(t, Sections(nil))
}

func TestPreviewAndPrintShareSections(t *testing.T) {
	r := &models.Resume{
		FullName:         "Jane Doe",
		Email:            "jane@x.com",
		Experience:       models.Text("Fresher"),
		Skills:           models.Text("JS, Go"),
		TranslatedLabels: map[string]string{"skills": "Compétences"},
	}
	var preview bytes.Buffer
	require.NoError(t, WritePreview(&preview, r, "/api/resumes/1/export"))
	printed, err := PrintHTML(r)
	require.NoError(t, err)

	for _, out := range []string{preview.String(), printed} {
		assert.Contains(t, out, "Jane Doe")
		assert.Contains(t, out, "Compétences")
		assert.NotContains(t, out, "Fresher")
		assert.NotContains(t, out, "Work Experience")
	}
	assert.Contains(t, preview.String(), "Download PDF")
	assert.False(t, strings.Contains(printed, "Download PDF"))
}

func TestPreviewEscapesContent(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, WritePreview(&out, &models.Resume{Summary: "<script>x</script>"}, ""))
	assert.NotContains(t, out.String(), "<script>x")
}
