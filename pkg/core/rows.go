package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/deeporigin/deeporigin/pkg/core/status"
	"github.com/deeporigin/deeporigin/pkg/managed"
)

// Columns of a database, or fields of a row
type Columns struct {
	Type   managed.RowType  `json:"type" yaml:"type"`
	Cols   []managed.Column `json:"cols,omitempty" yaml:"cols,omitempty"`
	Fields []managed.Field  `json:"fields,omitempty" yaml:"fields,omitempty"`
}

// GetColumns returns the columns of a database, or the fields of a row
func GetColumns(ctx context.Context, api API, rowID string) (*Columns, error) {
	rowID = strings.TrimPrefix(rowID, Prefix)
	desc, err := api.DescribeRow(ctx, rowID, true)
	if err != nil {
		return nil, err
	}

	switch desc.Type {
	case managed.RowTypeDatabase:
		return &Columns{Type: desc.Type, Cols: desc.Cols}, nil
	case managed.RowTypeRow:
		return &Columns{Type: desc.Type, Fields: desc.Fields}, nil
	default:
		return nil, status.ErrUnexpectedType.Wrap(fmt.Errorf("expected %s to resolve to a row or a database, instead it resolves to a %s", rowID, desc.Type))
	}
}

// GetRowData returns the fields of a row, keyed by the names of the columns of its database.
//
// Select cells yield their selected options, file cells their file ids and reference cells
// the ids of referenced rows. Lists collapse to their first value for columns with cardinality one.
func GetRowData(ctx context.Context, api API, rowID string) (map[string]interface{}, error) {
	rowID = strings.TrimPrefix(rowID, Prefix)
	row, err := api.DescribeRow(ctx, rowID, true)
	if err != nil {
		return nil, err
	}
	if row.Type != managed.RowTypeRow {
		return nil, status.ErrUnexpectedType.Wrap(fmt.Errorf("expected %s to resolve to a row, instead it resolves to a %s", rowID, row.Type))
	}

	parent, err := api.DescribeRow(ctx, row.ParentID, false)
	if err != nil {
		return nil, err
	}
	if parent.Type != managed.RowTypeDatabase {
		return nil, status.ErrUnexpectedType.Wrap(fmt.Errorf("expected the parent of %s to resolve to a database, instead it resolves to a %s", rowID, parent.Type))
	}

	data := make(map[string]interface{}, len(row.Fields))
	for _, field := range row.Fields {
		col, ok := parent.Column(field.ColumnID)
		if !ok {
			continue
		}
		value := field.Value.Interface()
		if list, isList := value.([]string); isList && col.Cardinality == managed.CardinalityOne {
			if len(list) == 0 {
				value = nil
			} else {
				value = list[0]
			}
		}
		data[col.Name] = value
	}
	return data, nil
}

// GetCellData returns the value of a cell, by row id and column name
func GetCellData(ctx context.Context, api API, rowID, columnName string) (interface{}, error) {
	data, err := GetRowData(ctx, api, rowID)
	if err != nil {
		return nil, err
	}
	value, ok := data[columnName]
	if !ok {
		return nil, status.ErrUnknownColumn.Wrap(fmt.Errorf("no value for column %q in %s", columnName, rowID))
	}
	return value, nil
}
