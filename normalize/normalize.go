// Package normalize converts polymorphic resume list fields between their
// stored shapes (delimited text or list) and the canonical editable list.
package normalize

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/resumify/backend/models"
)

// Separator is the delimiter of text-shaped list fields
const Separator = ", "

// ErrEmptyEntry is returned when appending after an entry that is still blank
var ErrEmptyEntry = errors.New("last entry is empty")

// ErrEntryIndex is returned when removing an entry that does not exist
var ErrEntryIndex = errors.New("entry index out of range")

// ToEditable returns the canonical sequence form of a field. Lists come back
// as held; text is split on ", " with each piece trimmed and empty pieces
// dropped; absent fields give an empty sequence.
func ToEditable(f models.FlexField) []models.Item {
	switch f.Kind() {
	case models.FieldList:
		return f.Items()
	case models.FieldText:
		return splitText(f.TextValue())
	default:
		return []models.Item{}
	}
}

func splitText(s string) []models.Item {
	out := []models.Item{}
	for _, piece := range strings.Split(s, Separator) {
		if piece = strings.TrimSpace(piece); piece != "" {
			out = append(out, models.TextItem(piece))
		}
	}
	return out
}

// ToStorable wraps a sequence as a list-shaped field
func ToStorable(items []models.Item) models.FlexField {
	return models.List(items...)
}

// Join renders a field as one comma-delimited string. Record entries are
// joined by their non-blank values.
func Join(f models.FlexField) string {
	if f.Kind() == models.FieldText {
		return strings.TrimSpace(f.TextValue())
	}
	parts := make([]string, 0, f.Len())
	for _, it := range ToEditable(f) {
		if s := ItemText(it); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, Separator)
}

// ItemText flattens one entry to text
func ItemText(it models.Item) string {
	if !it.IsRecord() {
		return strings.TrimSpace(it.Text)
	}
	values := make([]string, 0, len(it.Fields))
	for _, key := range sortedKeys(it.Fields) {
		if v := strings.TrimSpace(it.Fields[key]); v != "" {
			values = append(values, v)
		}
	}
	return strings.Join(values, " ")
}

// IsEntryEmpty reports whether every value of the entry is blank
func IsEntryEmpty(it models.Item) bool {
	if !it.IsRecord() {
		return strings.TrimSpace(it.Text) == ""
	}
	for _, v := range it.Fields {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// IsBlank reports whether a field carries no content: absent, whitespace
// text, or a list whose entries are all empty
func IsBlank(f models.FlexField) bool {
	switch f.Kind() {
	case models.FieldText:
		return strings.TrimSpace(f.TextValue()) == ""
	case models.FieldList:
		for _, it := range f.Items() {
			if !IsEntryEmpty(it) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// AppendEntry appends an entry to the editable form of f. It refuses while
// the current last entry is empty, which keeps duplicate blank rows out.
func AppendEntry(f models.FlexField, it models.Item) (models.FlexField, error) {
	items := ToEditable(f)
	if n := len(items); n > 0 && IsEntryEmpty(items[n-1]) {
		return f, ErrEmptyEntry
	}
	return ToStorable(append(items, it.Clone())), nil
}

// RemoveEntry drops the entry at index from the editable form of f
func RemoveEntry(f models.FlexField, index int) (models.FlexField, error) {
	items := ToEditable(f)
	if index < 0 || index >= len(items) {
		return f, fmt.Errorf("%w: %d", ErrEntryIndex, index)
	}
	items = append(items[:index], items[index+1:]...)
	return ToStorable(items), nil
}

// FromInput decodes a request value into a field: a string, an array of
// strings or an array of records. null clears the field.
func FromInput(raw json.RawMessage) (models.FlexField, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return models.FlexField{}, nil
	}
	var f models.FlexField
	if err := json.Unmarshal(trimmed, &f); err != nil {
		return models.FlexField{}, fmt.Errorf("invalid field value: %w", err)
	}
	return f, nil
}
