package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// FieldKind tags the shape held by a FlexField
type FieldKind int

const (
	FieldAbsent FieldKind = iota
	FieldText
	FieldList
)

// Item is one entry of a list-shaped field: either a bare string or a
// record of named string sub-fields (title, company, years, ...)
type Item struct {
	Text   string
	Fields map[string]string
}

// TextItem creates a bare string entry
func TextItem(s string) Item {
	return Item{Text: s}
}

// RecordItem creates a structured entry; a nil map becomes an empty record
func RecordItem(fields map[string]string) Item {
	if fields == nil {
		fields = map[string]string{}
	}
	return Item{Fields: fields}
}

// IsRecord reports whether the entry is structured
func (i Item) IsRecord() bool {
	return i.Fields != nil
}

// Get returns a sub-field of a record entry, or "" when absent
func (i Item) Get(key string) string {
	if i.Fields == nil {
		return ""
	}
	return i.Fields[key]
}

// Clone returns a deep copy of the entry
func (i Item) Clone() Item {
	if i.Fields == nil {
		return Item{Text: i.Text}
	}
	fields := make(map[string]string, len(i.Fields))
	for k, v := range i.Fields {
		fields[k] = v
	}
	return Item{Fields: fields}
}

func (i Item) MarshalJSON() ([]byte, error) {
	if i.Fields != nil {
		return json.Marshal(i.Fields)
	}
	return json.Marshal(i.Text)
}

func (i *Item) UnmarshalJSON(data []byte) error {
	var raw interface{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	item, err := itemFromValue(raw)
	if err != nil {
		return err
	}
	*i = item
	return nil
}

// FlexField holds a resume field that may be stored either as one
// comma-delimited string or as an ordered list of entries. Both shapes are
// accepted on read and written back as held.
type FlexField struct {
	kind  FieldKind
	text  string
	items []Item
}

// Text creates a text-shaped field
func Text(s string) FlexField {
	return FlexField{kind: FieldText, text: s}
}

// List creates a list-shaped field
func List(items ...Item) FlexField {
	out := make([]Item, len(items))
	copy(out, items)
	return FlexField{kind: FieldList, items: out}
}

// Strings creates a list-shaped field of bare strings
func Strings(values ...string) FlexField {
	items := make([]Item, 0, len(values))
	for _, v := range values {
		items = append(items, TextItem(v))
	}
	return FlexField{kind: FieldList, items: items}
}

// Kind returns the held shape
func (f FlexField) Kind() FieldKind {
	return f.kind
}

// IsAbsent reports whether the field was never set
func (f FlexField) IsAbsent() bool {
	return f.kind == FieldAbsent
}

// TextValue returns the raw string of a text-shaped field
func (f FlexField) TextValue() string {
	if f.kind != FieldText {
		return ""
	}
	return f.text
}

// Items returns a copy of the entries of a list-shaped field
func (f FlexField) Items() []Item {
	if f.kind != FieldList {
		return nil
	}
	out := make([]Item, len(f.items))
	for i, it := range f.items {
		out[i] = it.Clone()
	}
	return out
}

// Len returns the number of entries of a list-shaped field
func (f FlexField) Len() int {
	return len(f.items)
}

// Clone returns a deep copy
func (f FlexField) Clone() FlexField {
	return FlexField{kind: f.kind, text: f.text, items: f.Items()}
}

func (f FlexField) MarshalJSON() ([]byte, error) {
	switch f.kind {
	case FieldText:
		return json.Marshal(f.text)
	case FieldList:
		if f.items == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(f.items)
	default:
		return []byte("null"), nil
	}
}

func (f *FlexField) UnmarshalJSON(data []byte) error {
	var raw interface{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	field, err := FlexFieldFromValue(raw)
	if err != nil {
		return err
	}
	*f = field
	return nil
}

// ToValue converts the field into plain values for document storage
func (f FlexField) ToValue() interface{} {
	switch f.kind {
	case FieldText:
		return f.text
	case FieldList:
		out := make([]interface{}, 0, len(f.items))
		for _, it := range f.items {
			if it.Fields != nil {
				rec := make(map[string]interface{}, len(it.Fields))
				for k, v := range it.Fields {
					rec[k] = v
				}
				out = append(out, rec)
				continue
			}
			out = append(out, it.Text)
		}
		return out
	default:
		return nil
	}
}

// FlexFieldFromValue converts a decoded JSON or Firestore value into a field
func FlexFieldFromValue(v interface{}) (FlexField, error) {
	switch t := v.(type) {
	case nil:
		return FlexField{}, nil
	case string:
		return Text(t), nil
	case []interface{}:
		items := make([]Item, 0, len(t))
		for _, raw := range t {
			it, err := itemFromValue(raw)
			if err != nil {
				return FlexField{}, err
			}
			items = append(items, it)
		}
		return FlexField{kind: FieldList, items: items}, nil
	case []string:
		return Strings(t...), nil
	case []map[string]interface{}:
		items := make([]Item, 0, len(t))
		for _, raw := range t {
			it, err := itemFromValue(raw)
			if err != nil {
				return FlexField{}, err
			}
			items = append(items, it)
		}
		return FlexField{kind: FieldList, items: items}, nil
	default:
		return FlexField{}, fmt.Errorf("unsupported field shape %T", v)
	}
}

func itemFromValue(v interface{}) (Item, error) {
	switch t := v.(type) {
	case string:
		return TextItem(t), nil
	case map[string]interface{}:
		fields := make(map[string]string, len(t))
		for k, raw := range t {
			if raw == nil {
				continue
			}
			fields[k] = scalarString(raw)
		}
		return RecordItem(fields), nil
	case nil:
		return TextItem(""), nil
	case json.Number, float64, int64, int, bool:
		return TextItem(scalarString(t)), nil
	default:
		return Item{}, fmt.Errorf("unsupported entry shape %T", v)
	}
}

func scalarString(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(t, 10)
	case int:
		return strconv.Itoa(t)
	case bool:
		return strconv.FormatBool(t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	}
}

// String renders the field for logs
func (f FlexField) String() string {
	switch f.kind {
	case FieldText:
		return strconv.Quote(f.text)
	case FieldList:
		parts := make([]string, 0, len(f.items))
		for _, it := range f.items {
			if it.Fields == nil {
				parts = append(parts, strconv.Quote(it.Text))
				continue
			}
			keys := make([]string, 0, len(it.Fields))
			for k := range it.Fields {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			kv := make([]string, 0, len(keys))
			for _, k := range keys {
				kv = append(kv, k+":"+strconv.Quote(it.Fields[k]))
			}
			parts = append(parts, "{"+strings.Join(kv, " ")+"}")
		}
		return "[" + strings.Join(parts, " ") + "]"
	default:
		return "<absent>"
	}
}
