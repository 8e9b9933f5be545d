package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexFieldAcceptsBothShapes(t *testing.T) {
	var r Resume
	body := `{"fullName":"Jane","skills":"JS, Go","experience":[{"title":"Dev","company":"Acme","years":3}],"hobbies":["chess","go"]}`
	require.NoError(t, json.Unmarshal([]byte(body), &r))

	assert.Equal(t, FieldText, r.Skills.Kind())
	assert.Equal(t, "JS, Go", r.Skills.TextValue())

	require.Equal(t, FieldList, r.Experience.Kind())
	items := r.Experience.Items()
	require.Len(t, items, 1)
	assert.True(t, items[0].IsRecord())
	assert.Equal(t, "3", items[0].Get("years"))

	assert.Equal(t, 2, r.Hobbies.Len())
	assert.True(t, r.Education.IsAbsent())
}

func TestFlexFieldWritesBackHeldShape(t *testing.T) {
	r := Resume{Skills: Text("a, b"), Hobbies: Strings("x"), Projects: List()}
	out, err := json.Marshal(r)
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(out, &raw))
	assert.Equal(t, "a, b", raw["skills"])
	assert.Equal(t, []interface{}{"x"}, raw["hobbies"])
	assert.Equal(t, []interface{}{}, raw["projects"])
	assert.Nil(t, raw["education"])
}

func TestFlexFieldRejectsObjects(t *testing.T) {
	var f FlexField
	assert.Error(t, json.Unmarshal([]byte(`{"a":1}`), &f))
}

func TestResumeDocumentConversion(t *testing.T) {
	r := &Resume{
		OwnerID:          "u1",
		FullName:         "Jane Doe",
		Skills:           Strings("Go", "SQL"),
		Experience:       List(RecordItem(map[string]string{"title": "Dev"})),
		Summary:          "Builder",
		TranslatedLabels: map[string]string{"skills": "Compétences"},
	}
	doc := r.ToDocument()
	assert.Equal(t, "u1", doc["ownerId"])
	assert.NotContains(t, doc, "education")

	back := ResumeFromDocument("id1", doc)
	assert.Equal(t, "id1", back.ID)
	assert.Equal(t, "Jane Doe", back.FullName)
	assert.Equal(t, "Compétences", back.TranslatedLabels["skills"])
	assert.Equal(t, "Dev", back.Experience.Items()[0].Get("title"))
	assert.Equal(t, FieldList, back.Skills.Kind())
}

func TestSetFieldScalarRejectsList(t *testing.T) {
	r := &Resume{}
	assert.NoError(t, r.SetField(KeyEmail, Text("a@b.c")))
	assert.Equal(t, "a@b.c", r.Email)
	assert.Error(t, r.SetField(KeyEmail, Strings("x")))
	assert.Error(t, r.SetField("nope", Text("x")))
}

func TestCloneIsDeep(t *testing.T) {
	r := &Resume{Experience: List(RecordItem(map[string]string{"title": "Dev"})), TranslatedLabels: map[string]string{"a": "b"}}
	c := r.Clone()
	c.TranslatedLabels["a"] = "z"
	require.NoError(t, c.SetField(KeyExperience, Text("other")))
	assert.Equal(t, "b", r.TranslatedLabels["a"])
	assert.Equal(t, FieldList, r.Experience.Kind())
}

func TestProfileCompletion(t *testing.T) {
	assert.Equal(t, 0, ProfileCompletion(nil))
	assert.Equal(t, 33, ProfileCompletion(&User{DisplayName: "J", Bio: "b"}))
	assert.Equal(t, 100, ProfileCompletion(&User{DisplayName: "J", Phone: "1", LinkedIn: "l", GitHub: "g", Bio: "b", Photo: "p"}))
}
