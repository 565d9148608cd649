package managed

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"
)

func TestFieldValue(t *testing.T) {
	var fields []Field
	require.NoError(t, json.Unmarshal([]byte(`[
	  {"columnId": "c1", "value": "some text"},
	  {"columnId": "c2", "value": 42},
	  {"columnId": "c3", "value": 1.5},
	  {"columnId": "c4", "value": {"selectedOptions": ["a", "b"]}},
	  {"columnId": "c5", "value": {"fileIds": ["_file:1"]}},
	  {"columnId": "c6", "value": {"rowIds": ["_row:1", "_row:2"]}},
	  {"columnId": "c7", "value": null},
	  {"columnId": "c8"}
	]`), &fields))
	require.Len(t, fields, 8)

	assert.Equal(t, "some text", fields[0].Value.Interface())
	assert.Equal(t, int64(42), fields[1].Value.Interface())
	assert.Equal(t, 1.5, fields[2].Value.Interface())
	assert.Equal(t, []string{"a", "b"}, fields[3].Value.SelectedOptions)
	assert.Equal(t, []string{"_file:1"}, fields[4].Value.FileIDs)
	assert.Equal(t, []string{"_row:1", "_row:2"}, fields[5].Value.Strings())
	assert.True(t, fields[6].Value.IsNull())
	assert.True(t, fields[7].Value.IsNull())
	assert.Nil(t, fields[7].Value.Strings())

	b, err := json.Marshal(fields[3].Value)
	require.NoError(t, err)
	assert.JSONEq(t, `{"selectedOptions": ["a", "b"]}`, string(b))

	var v FieldValue
	assert.Error(t, json.Unmarshal([]byte(`true`), &v))
}

func TestFieldValueBuilders(t *testing.T) {
	b, err := json.Marshal(TextValue("x"))
	require.NoError(t, err)
	assert.Equal(t, `"x"`, string(b))

	b, err = json.Marshal(NumberValue(7))
	require.NoError(t, err)
	assert.Equal(t, `7`, string(b))

	b, err = json.Marshal(FieldValue{})
	require.NoError(t, err)
	assert.Equal(t, `null`, string(b))

	y, err := yaml.Marshal(map[string]FieldValue{"count": NumberValue(7), "label": TextValue("x")})
	require.NoError(t, err)
	assert.Equal(t, "count: 7\nlabel: x\n", string(y))
}

func TestRow(t *testing.T) {
	name := "Demo"
	parent := "_row:1"
	assert.Equal(t, "Demo", Row{HID: "demo", Name: &name}.DisplayName())
	assert.Equal(t, "demo", Row{HID: "demo"}.DisplayName())
	assert.True(t, Row{}.IsRoot())
	assert.Equal(t, "_row:1", Row{ParentID: &parent}.Parent())

	desc := RowDescription{Cols: []Column{{ID: "c1", Name: "Status"}}}
	col, ok := desc.Column("c1")
	assert.True(t, ok)
	assert.Equal(t, "Status", col.Name)
	_, ok = desc.Column("c2")
	assert.False(t, ok)
}
