package normalize

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resumify/backend/models"
)

func texts(items []models.Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Text)
	}
	return out
}

func TestToEditableSplitsText(t *testing.T) {
	got := ToEditable(models.Text("a, b, c"))
	assert.Equal(t, []string{"a", "b", "c"}, texts(got))
}

func TestToEditableIsIdempotent(t *testing.T) {
	inputs := []models.FlexField{
		models.Text("a, b, c"),
		models.Text("  padded ,  values  "),
		models.Text(""),
		models.Strings("x", "y"),
		models.List(models.RecordItem(map[string]string{"title": "Dev"})),
		{},
	}
	for _, in := range inputs {
		once := ToEditable(in)
		twice := ToEditable(ToStorable(once))
		assert.Equal(t, once, twice, "input %s", in)
	}
}

func TestToEditableBlankText(t *testing.T) {
	assert.Empty(t, ToEditable(models.Text("   ")))
	assert.Empty(t, ToEditable(models.FlexField{}))
	assert.Equal(t, []string{"a", "b"}, texts(ToEditable(models.Text("a, , b"))))
}

func TestIsEntryEmpty(t *testing.T) {
	assert.True(t, IsEntryEmpty(models.RecordItem(map[string]string{"title": "", "company": "  "})))
	assert.True(t, IsEntryEmpty(models.RecordItem(nil)))
	assert.False(t, IsEntryEmpty(models.RecordItem(map[string]string{"title": "", "years": "2"})))
	assert.True(t, IsEntryEmpty(models.TextItem(" ")))
}

func TestIsBlank(t *testing.T) {
	assert.True(t, IsBlank(models.FlexField{}))
	assert.True(t, IsBlank(models.Text(" ")))
	assert.True(t, IsBlank(models.List(models.RecordItem(map[string]string{"title": ""}))))
	assert.False(t, IsBlank(models.Strings("Go")))
}

func TestAppendEntryRefusesAfterEmpty(t *testing.T) {
	f := models.List(models.RecordItem(map[string]string{"title": "Dev"}))
	f, err := AppendEntry(f, models.RecordItem(map[string]string{"title": ""}))
	require.NoError(t, err)
	assert.Equal(t, 2, f.Len())

	_, err = AppendEntry(f, models.RecordItem(map[string]string{"title": "Lead"}))
	assert.ErrorIs(t, err, ErrEmptyEntry)
}

func TestAppendEntryConvertsText(t *testing.T) {
	f, err := AppendEntry(models.Text("Go, SQL"), models.TextItem("Rust"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "SQL", "Rust"}, texts(f.Items()))
}

func TestRemoveEntry(t *testing.T) {
	f, err := RemoveEntry(models.Strings("a", "b", "c"), 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, texts(f.Items()))

	_, err = RemoveEntry(f, 5)
	assert.Error(t, err)
}

func TestJoin(t *testing.T) {
	assert.Equal(t, "chess, go", Join(models.Strings("chess", "go")))
	assert.Equal(t, "JS, Go", Join(models.Text(" JS, Go ")))
	assert.Equal(t, "English Native", Join(models.List(models.RecordItem(map[string]string{"language": "English", "proficiency": "Native"}))))
}

func TestFromInput(t *testing.T) {
	f, err := FromInput(json.RawMessage(`"JS, Go"`))
	require.NoError(t, err)
	assert.Equal(t, models.FieldText, f.Kind())

	f, err = FromInput(json.RawMessage(`[{"degree":"BSc"}]`))
	require.NoError(t, err)
	assert.Equal(t, "BSc", f.Items()[0].Get("degree"))

	f, err = FromInput(json.RawMessage(`null`))
	require.NoError(t, err)
	assert.True(t, f.IsAbsent())

	_, err = FromInput(json.RawMessage(`{"bad":true}`))
	assert.Error(t, err)
}
