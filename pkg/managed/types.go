package managed

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// RowType is the type of managed data objects
type RowType string

// Row types
const (
	RowTypeRow       RowType = "row"
	RowTypeDatabase  RowType = "database"
	RowTypeWorkspace RowType = "workspace"
)

// FileStatus of uploaded files
type FileStatus string

// File statuses
const (
	FileStatusReady    FileStatus = "ready"
	FileStatusArchived FileStatus = "archived"
)

// DataType of database columns
type DataType string

// Column data types
const (
	DataTypeInteger   DataType = "integer"
	DataTypeStr       DataType = "str"
	DataTypeSelect    DataType = "select"
	DataTypeDate      DataType = "date"
	DataTypeText      DataType = "text"
	DataTypeFile      DataType = "file"
	DataTypeReference DataType = "reference"
	DataTypeEditor    DataType = "editor"
)

// Cardinality of database columns
type Cardinality string

// Cardinalities
const (
	CardinalityOne  Cardinality = "one"
	CardinalityMany Cardinality = "many"
)

// IDFormat selects how references to rows are rendered
type IDFormat string

// ID formats
const (
	HumanID  IDFormat = "human-id"
	SystemID IDFormat = "system-id"
)

// Row as returned by ListRows
type Row struct {
	ID       string  `json:"id" yaml:"id"`
	ParentID *string `json:"parentId" yaml:"parentId"`
	HID      string  `json:"hid" yaml:"hid"`
	Name     *string `json:"name" yaml:"name"`
	Type     RowType `json:"type" yaml:"type"`
}

// IsRoot tells if this row has no parent
func (r Row) IsRoot() bool {
	return r.ParentID == nil
}

// Parent id, or the empty string for roots
func (r Row) Parent() string {
	if r.ParentID == nil {
		return ""
	}
	return *r.ParentID
}

// DisplayName of the row: its name, or its hid when unnamed
func (r Row) DisplayName() string {
	if r.Name == nil || *r.Name == "" {
		return r.HID
	}
	return *r.Name
}

// ParentRef references the parent of a row
type ParentRef struct {
	ID string `json:"id" yaml:"id"`
}

// SelectConfig holds the options of a select column
type SelectConfig struct {
	Options   []string `json:"options" yaml:"options"`
	CanCreate bool     `json:"canCreate" yaml:"canCreate"`
}

// Column of a database
type Column struct {
	ID                     string        `json:"id" yaml:"id"`
	Name                   string        `json:"name" yaml:"name"`
	Key                    string        `json:"key,omitempty" yaml:"key,omitempty"`
	ParentID               string        `json:"parentId" yaml:"parentId"`
	Type                   DataType      `json:"type" yaml:"type"`
	DateCreated            string        `json:"dateCreated,omitempty" yaml:"dateCreated,omitempty"`
	Cardinality            Cardinality   `json:"cardinality" yaml:"cardinality"`
	CanCreate              *bool         `json:"canCreate,omitempty" yaml:"canCreate,omitempty"`
	ConfigSelect           *SelectConfig `json:"configSelect,omitempty" yaml:"configSelect,omitempty"`
	ReferenceDatabaseRowID string        `json:"referenceDatabaseRowId,omitempty" yaml:"referenceDatabaseRowId,omitempty"`
}

// Field is a cell of a row
type Field struct {
	ColumnID         string     `json:"columnId" yaml:"columnId"`
	CellID           string     `json:"cellId" yaml:"cellId"`
	ValidationStatus string     `json:"validationStatus,omitempty" yaml:"validationStatus,omitempty"`
	Type             DataType   `json:"type,omitempty" yaml:"type,omitempty"`
	Value            FieldValue `json:"value" yaml:"value"`
	SystemType       *string    `json:"systemType,omitempty" yaml:"systemType,omitempty"`
}

// RowDescription as returned by DescribeRow and ListDatabaseRows.
//
// Row-only and database-only attributes are left empty when they do not apply.
type RowDescription struct {
	ID               string                 `json:"id" yaml:"id"`
	HID              string                 `json:"hid" yaml:"hid"`
	ParentID         string                 `json:"parentId" yaml:"parentId"`
	Type             RowType                `json:"type" yaml:"type"`
	Name             string                 `json:"name,omitempty" yaml:"name,omitempty"`
	DateCreated      string                 `json:"dateCreated,omitempty" yaml:"dateCreated,omitempty"`
	DateUpdated      string                 `json:"dateUpdated,omitempty" yaml:"dateUpdated,omitempty"`
	CreatedByUserDrn string                 `json:"createdByUserDrn,omitempty" yaml:"createdByUserDrn,omitempty"`
	EditedByUserDrn  string                 `json:"editedByUserDrn,omitempty" yaml:"editedByUserDrn,omitempty"`
	SubmissionStatus string                 `json:"submissionStatus,omitempty" yaml:"submissionStatus,omitempty"`
	ValidationStatus string                 `json:"validationStatus,omitempty" yaml:"validationStatus,omitempty"`
	HIDNum           int                    `json:"hidNum,omitempty" yaml:"hidNum,omitempty"`
	HIDPrefix        string                 `json:"hidPrefix,omitempty" yaml:"hidPrefix,omitempty"`
	Parent           *ParentRef             `json:"parent,omitempty" yaml:"parent,omitempty"`
	Cols             []Column               `json:"cols,omitempty" yaml:"cols,omitempty"`
	Fields           []Field                `json:"fields,omitempty" yaml:"fields,omitempty"`
	RowJSONSchema    map[string]interface{} `json:"rowJsonSchema,omitempty" yaml:"rowJsonSchema,omitempty"`
}

// Column by id
func (d RowDescription) Column(id string) (Column, bool) {
	for _, col := range d.Cols {
		if col.ID == id {
			return col, true
		}
	}
	return Column{}, false
}

// FileDescription as returned by DescribeFile
type FileDescription struct {
	ID            string     `json:"id" yaml:"id"`
	URI           string     `json:"uri" yaml:"uri"`
	Name          string     `json:"name" yaml:"name"`
	Status        FileStatus `json:"status" yaml:"status"`
	ContentLength int64      `json:"contentLength" yaml:"contentLength"`
	ContentType   string     `json:"contentType" yaml:"contentType"`
}

// Assignment of a file to a row
type Assignment struct {
	RowID string `json:"rowId" yaml:"rowId"`
}

// FileWithAssignments as returned by ListFiles
type FileWithAssignments struct {
	File        FileDescription `json:"file" yaml:"file"`
	Assignments []Assignment    `json:"assignments,omitempty" yaml:"assignments,omitempty"`
}

// DatabaseStats as returned by DescribeDatabaseStats
type DatabaseStats struct {
	RowCount int `json:"rowCount" yaml:"rowCount"`
}

// IDConversion pairs a system id with its human id
type IDConversion struct {
	ID  string `json:"id" yaml:"id"`
	HID string `json:"hid" yaml:"hid"`
}

// FileUpload is the response of CreateFileUpload
type FileUpload struct {
	UploadURL string          `json:"uploadUrl" yaml:"uploadUrl"`
	File      FileDescription `json:"file" yaml:"file"`
}

// FieldValue holds the polymorphic value of a cell: a string, a number,
// or an object carrying selected options, file ids or row ids.
type FieldValue struct {
	raw json.RawMessage

	Text            *string
	Number          *json.Number
	SelectedOptions []string
	FileIDs         []string
	RowIDs          []string
}

type fieldObject struct {
	SelectedOptions []string `json:"selectedOptions,omitempty"`
	FileIDs         []string `json:"fileIds,omitempty"`
	RowIDs          []string `json:"rowIds,omitempty"`
}

// UnmarshalJSON decodes any of the supported value shapes
func (v *FieldValue) UnmarshalJSON(data []byte) error {
	*v = FieldValue{raw: append(json.RawMessage(nil), data...)}
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v.Text = &s
	case '{':
		var obj fieldObject
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		v.SelectedOptions = obj.SelectedOptions
		v.FileIDs = obj.FileIDs
		v.RowIDs = obj.RowIDs
	default:
		n := json.Number(string(data))
		if _, err := n.Float64(); err != nil {
			return fmt.Errorf("unsupported field value %s", string(data))
		}
		v.Number = &n
	}
	return nil
}

// MarshalJSON restores the original value
func (v FieldValue) MarshalJSON() ([]byte, error) {
	if len(v.raw) > 0 {
		return v.raw, nil
	}
	switch {
	case v.Text != nil:
		return json.Marshal(*v.Text)
	case v.Number != nil:
		return []byte(v.Number.String()), nil
	case v.SelectedOptions != nil || v.FileIDs != nil || v.RowIDs != nil:
		return json.Marshal(fieldObject{SelectedOptions: v.SelectedOptions, FileIDs: v.FileIDs, RowIDs: v.RowIDs})
	default:
		return []byte("null"), nil
	}
}

// MarshalYAML renders the value as a plain scalar or list
func (v FieldValue) MarshalYAML() (interface{}, error) {
	return v.Interface(), nil
}

// IsNull tells if the value is empty
func (v FieldValue) IsNull() bool {
	return v.Text == nil && v.Number == nil && v.SelectedOptions == nil && v.FileIDs == nil && v.RowIDs == nil
}

// Interface returns the natural Go value: a string, a number, a list of strings or nil.
// Objects are flattened to the list they carry.
func (v FieldValue) Interface() interface{} {
	switch {
	case v.Text != nil:
		return *v.Text
	case v.Number != nil:
		if i, err := v.Number.Int64(); err == nil {
			return i
		}
		f, _ := v.Number.Float64()
		return f
	case v.SelectedOptions != nil:
		return v.SelectedOptions
	case v.FileIDs != nil:
		return v.FileIDs
	case v.RowIDs != nil:
		return v.RowIDs
	default:
		return nil
	}
}

// Strings returns the value as a list of strings, as used when tabulating cells
func (v FieldValue) Strings() []string {
	switch {
	case v.Text != nil:
		return []string{*v.Text}
	case v.Number != nil:
		return []string{v.Number.String()}
	case v.SelectedOptions != nil:
		return v.SelectedOptions
	case v.FileIDs != nil:
		return v.FileIDs
	case v.RowIDs != nil:
		return v.RowIDs
	default:
		return nil
	}
}

// TextValue builds a text field value
func TextValue(s string) FieldValue {
	return FieldValue{Text: &s}
}

// NumberValue builds a numeric field value
func NumberValue(i int64) FieldValue {
	n := json.Number(strconv.FormatInt(i, 10))
	return FieldValue{Number: &n}
}
