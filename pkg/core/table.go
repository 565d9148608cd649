package core

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/deeporigin/deeporigin/pkg/core/status"
	"github.com/deeporigin/deeporigin/pkg/managed"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	// ValidationStatusColumn is the name of the column holding the validation status of rows
	ValidationStatusColumn = "Validation Status"

	defaultPrimaryKey = "row"
	cellSeparator     = ", "
)

// Cell holds the values of a table cell. Empty cells have no value.
type Cell []string

// String renders the cell as a single string
func (c Cell) String() string {
	return strings.Join(c, cellSeparator)
}

// Record is a row of a table
type Record struct {
	HID              string
	ValidationStatus string
	Cells            []Cell
}

// TableAttrs carries metadata about a table
type TableAttrs struct {
	ID           string   `json:"id" yaml:"id"`
	PrimaryKey   string   `json:"primary_key" yaml:"primary_key"`
	FileIDs      []string `json:"file_ids" yaml:"file_ids"`
	ReferenceIDs []string `json:"reference_ids" yaml:"reference_ids"`
}

// Table holds all the rows of a database, flattened into named columns.
//
// The first column is the primary key, holding the hid of each row, followed by the validation status
// of rows, then every column of the database.
type Table struct {
	Attrs   TableAttrs
	Columns []string
	Records []Record

	cols []managed.Column
}

// DatabaseColumns returns the description of database columns, in table order
func (t *Table) DatabaseColumns() []managed.Column {
	return t.cols
}

// Column returns the index of a column by name, or -1
func (t *Table) Column(name string) int {
	for i, col := range t.Columns {
		if col == name {
			return i
		}
	}
	return -1
}

// Values of a record, one per column
func (r Record) Values() []Cell {
	values := make([]Cell, 0, len(r.Cells)+2)
	values = append(values, Cell{r.HID}, cellOf(r.ValidationStatus))
	return append(values, r.Cells...)
}

func cellOf(s string) Cell {
	if s == "" {
		return nil
	}
	return Cell{s}
}

// WriteCSV writes the table with a header line. Multi-valued cells are joined with ", ".
func (t *Table) WriteCSV(w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(t.Columns); err != nil {
		return err
	}
	for _, record := range t.Records {
		values := record.Values()
		line := make([]string, len(values))
		for i, value := range values {
			line[i] = value.String()
		}
		if err := writer.Write(line); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// Maps returns records as maps keyed by column name. Values are strings, lists of strings for columns
// with cardinality many, or nil.
func (t *Table) Maps() []map[string]interface{} {
	many := make(map[int]bool, len(t.cols))
	for i, col := range t.cols {
		many[i+2] = col.Cardinality == managed.CardinalityMany
	}

	res := make([]map[string]interface{}, 0, len(t.Records))
	for _, record := range t.Records {
		m := make(map[string]interface{}, len(t.Columns))
		for i, value := range record.Values() {
			switch {
			case many[i]:
				if value == nil {
					value = Cell{}
				}
				m[t.Columns[i]] = []string(value)
			case len(value) == 0:
				m[t.Columns[i]] = nil
			default:
				m[t.Columns[i]] = value[0]
			}
		}
		res = append(res, m)
	}
	return res
}

// MarshalJSON renders the table as its attributes and records
func (t *Table) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Attrs   TableAttrs               `json:"attrs"`
		Columns []string                 `json:"columns"`
		Rows    []map[string]interface{} `json:"rows"`
	}{
		Attrs:   t.Attrs,
		Columns: t.Columns,
		Rows:    t.Maps(),
	})
}

// GetTable returns a table with all rows of a database.
//
// With UseFileNames, file cells hold the names of uploaded files. With the human-id reference format,
// reference cells hold the hid of referenced rows.
func GetTable(ctx context.Context, api API, databaseID string, opts ...Option) (*Table, error) {
	settings := defaultSettings(opts)
	databaseID = strings.TrimPrefix(databaseID, Prefix)

	db, err := api.DescribeRow(ctx, databaseID, true)
	if err != nil {
		return nil, err
	}
	if db.Type != managed.RowTypeDatabase {
		return nil, status.ErrUnexpectedType.Wrap(fmt.Errorf("expected %s to resolve to a database, instead it resolves to a %s", databaseID, db.Type))
	}
	rows, err := api.ListDatabaseRows(ctx, db.ID)
	if err != nil {
		return nil, err
	}

	table := &Table{
		Attrs: TableAttrs{
			ID:         db.ID,
			PrimaryKey: primaryKey(db),
		},
		cols:    db.Cols,
		Records: make([]Record, 0, len(rows)),
	}
	table.Columns = append(table.Columns, table.Attrs.PrimaryKey, ValidationStatusColumn)
	for _, col := range db.Cols {
		table.Columns = append(table.Columns, col.Name)
	}

	// first pass: raw values, collecting files and references
	fileIDs := newStringSet()
	referenceIDs := newStringSet()
	for _, row := range rows {
		record := Record{
			HID:              row.HID,
			ValidationStatus: row.ValidationStatus,
			Cells:            make([]Cell, len(db.Cols)),
		}
		for i, col := range db.Cols {
			cell := cellValue(col, row.Fields)
			switch col.Type {
			case managed.DataTypeFile:
				fileIDs.add(cell...)
			case managed.DataTypeReference:
				referenceIDs.add(cell...)
			}
			record.Cells[i] = cell
		}
		table.Records = append(table.Records, record)
	}
	table.Attrs.FileIDs = fileIDs.list()
	table.Attrs.ReferenceIDs = referenceIDs.list()

	// second pass: resolve names
	fileNames := map[string]string{}
	if settings.useFileNames && len(table.Attrs.FileIDs) > 0 {
		if fileNames, err = resolveFileNames(ctx, api, table.Attrs.FileIDs, settings); err != nil {
			return nil, err
		}
	}
	hids := map[string]string{}
	if settings.referenceFormat == managed.HumanID && len(table.Attrs.ReferenceIDs) > 0 {
		conversions, err := api.ConvertIDFormat(ctx, table.Attrs.ReferenceIDs, nil)
		if err != nil {
			return nil, err
		}
		for _, conversion := range conversions {
			hids[conversion.ID] = conversion.HID
		}
	}
	for _, record := range table.Records {
		for i, col := range db.Cols {
			switch col.Type {
			case managed.DataTypeFile:
				rename(record.Cells[i], fileNames)
			case managed.DataTypeReference:
				rename(record.Cells[i], hids)
			}
		}
	}

	settings.l.Debug("table",
		zap.String("database", db.HID),
		zap.Int("rows", len(table.Records)),
		zap.Int("columns", len(table.Columns)),
	)
	return table, nil
}

func primaryKey(db *managed.RowDescription) string {
	if db.HIDPrefix != "" {
		return db.HIDPrefix
	}
	return defaultPrimaryKey
}

// cellValue extracts the value of a column from the fields of a row
func cellValue(col managed.Column, fields []managed.Field) Cell {
	for _, field := range fields {
		if field.ColumnID != col.ID {
			continue
		}
		var values []string
		switch col.Type {
		case managed.DataTypeSelect:
			values = field.Value.SelectedOptions
		case managed.DataTypeFile:
			values = field.Value.FileIDs
		case managed.DataTypeReference:
			values = field.Value.RowIDs
		default:
			values = field.Value.Strings()
		}
		if len(values) == 0 {
			return nil
		}
		if col.Cardinality != managed.CardinalityMany {
			return Cell{values[0]}
		}
		return append(Cell(nil), values...)
	}
	return nil
}

func rename(cell Cell, names map[string]string) {
	for i, value := range cell {
		if name, ok := names[value]; ok {
			cell[i] = name
		}
	}
}

func resolveFileNames(ctx context.Context, api API, fileIDs []string, settings Settings) (map[string]string, error) {
	descs, err := describeFiles(ctx, api, fileIDs, settings)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(descs))
	for fileID, desc := range descs {
		names[fileID] = desc.Name
	}
	return names, nil
}

func describeFiles(ctx context.Context, api API, fileIDs []string, settings Settings) (map[string]*managed.FileDescription, error) {
	var mx sync.Mutex
	descs := make(map[string]*managed.FileDescription, len(fileIDs))

	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(settings.concurrency)
	for _, toPin := range fileIDs {
		fileID := toPin
		group.Go(func() error {
			desc, err := api.DescribeFile(gctx, fileID)
			if err != nil {
				return err
			}
			mx.Lock()
			descs[fileID] = desc
			mx.Unlock()
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return descs, nil
}

// renameFiles replaces file ids in file cells
func (t *Table) renameFiles(names map[string]string) {
	for _, record := range t.Records {
		for i, col := range t.cols {
			if col.Type == managed.DataTypeFile {
				rename(record.Cells[i], names)
			}
		}
	}
}

type stringSet map[string]struct{}

func newStringSet() stringSet {
	return make(stringSet)
}

func (s stringSet) add(values ...string) {
	for _, v := range values {
		s[v] = struct{}{}
	}
}

// list of unique values, sorted
func (s stringSet) list() []string {
	res := make([]string, 0, len(s))
	for v := range s {
		res = append(res, v)
	}
	sort.Strings(res)
	return res
}
