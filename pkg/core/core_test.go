package core

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"testing"

	"github.com/deeporigin/deeporigin/internal/mockapi"
	"github.com/deeporigin/deeporigin/internal/testenv"
	"github.com/deeporigin/deeporigin/pkg/core/status"
	"github.com/deeporigin/deeporigin/pkg/errors"
	"github.com/deeporigin/deeporigin/pkg/managed"
	"github.com/deeporigin/deeporigin/pkg/storage/localfs"
	storagestatus "github.com/deeporigin/deeporigin/pkg/storage/status"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func mockOnly(t testing.TB) {
	t.Helper()
	if testenv.Live() {
		t.Skip("relies on sample data")
	}
}

func TestGetTree(t *testing.T) {
	c, _, _ := testenv.Client(t, nil)
	tree, err := GetTree(context.Background(), c)
	require.NoError(t, err)
	assert.True(t, tree.IsRoot(), "expected the root to have no parent")

	if testenv.Live() {
		return
	}
	assert.Equal(t, mockapi.WorkspaceHID, tree.HID)
	require.Len(t, tree.Children, 1)
	db := tree.Children[0]
	assert.Equal(t, mockapi.DatabaseHID, db.HID)
	require.Len(t, db.Children, 2)
	for _, row := range db.Children {
		assert.Equal(t, managed.RowTypeRow, row.Type)
		assert.Empty(t, row.Children)
	}
	assert.NotNil(t, tree.Find(mockapi.Row1HID))
	assert.NotNil(t, tree.Find(mockapi.Row2ID))
	assert.Nil(t, tree.Find("nowhere"))
}

func TestGetTreeWithoutRows(t *testing.T) {
	mockOnly(t)
	c, api, _ := testenv.Client(t, nil)
	tree, err := GetTree(context.Background(), c, IncludeRows(false))
	require.NoError(t, err)

	require.Len(t, tree.Children, 1)
	assert.Empty(t, tree.Children[0].Children)
	assert.Equal(t, 2, api.Count(managed.EndpointListRows))

	var depths []int
	require.NoError(t, tree.Walk(func(_ *Node, depth int) error {
		depths = append(depths, depth)
		return nil
	}))
	assert.Equal(t, []int{0, 1}, depths)
}

func TestGetTreeRoots(t *testing.T) {
	roots := `[{"id": "_row:a", "hid": "a", "type": "workspace", "parentId": null},
	           {"id": "_row:b", "hid": "b", "type": "workspace", "parentId": null}]`
	c := managed.New(managed.WithInvoker(managed.InvokerFunc(func(_ context.Context, _ string, _, out interface{}) error {
		return json.Unmarshal([]byte(roots), out)
	})))

	_, err := GetTree(context.Background(), c)
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrRoots))
	assert.Contains(t, err.Error(), "there were 2")
}

func TestGetChildren(t *testing.T) {
	mockOnly(t)
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())
	c, _, _ := testenv.Client(t, nil)

	roots, err := GetChildren(context.Background(), c, "", ConcurrentList(1))
	require.NoError(t, err)
	require.Len(t, roots, 1)
	require.Len(t, roots[0].Children, 1)
	require.Len(t, roots[0].Children[0].Children, 2)

	nodes, err := GetChildren(context.Background(), c, "deeporigin://"+mockapi.DatabaseHID)
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, managed.RowTypeDatabase, nodes[0].Type)
	require.Len(t, nodes[0].Children, 2)
	assert.Equal(t, mockapi.Row1HID, nodes[0].Children[0].HID)
	assert.Equal(t, mockapi.Row2HID, nodes[0].Children[1].HID)

	leaves, err := GetChildren(context.Background(), c, mockapi.Row1HID)
	require.NoError(t, err)
	require.Len(t, leaves, 1)
	assert.Nil(t, leaves[0].Children)
}

func TestGetColumns(t *testing.T) {
	c, _, sample := testenv.Client(t, nil)

	cols, err := GetColumns(context.Background(), c, sample.Databases[0])
	require.NoError(t, err)
	assert.Equal(t, managed.RowTypeDatabase, cols.Type)
	assert.NotEmpty(t, cols.Cols)

	fields, err := GetColumns(context.Background(), c, sample.Rows[0])
	require.NoError(t, err)
	assert.Equal(t, managed.RowTypeRow, fields.Type)
	assert.Empty(t, fields.Cols)
}

func TestGetColumnsWorkspace(t *testing.T) {
	mockOnly(t)
	c, _, _ := testenv.Client(t, nil)
	_, err := GetColumns(context.Background(), c, mockapi.WorkspaceHID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrUnexpectedType))
}

func TestGetRowData(t *testing.T) {
	mockOnly(t)
	c, _, _ := testenv.Client(t, nil)

	data, err := GetRowData(context.Background(), c, mockapi.Row1HID)
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{
		"Order ID":           mockapi.OrderID,
		"Status":             "Ordered",
		"To client tracking": "1Z999AA10123456784",
		"Raw reads":          []string{mockapi.RawReadsFileID, mockapi.AssignedFileID},
		"Reads":              int64(42),
	}, data)

	_, err = GetRowData(context.Background(), c, mockapi.DatabaseHID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrUnexpectedType))
}

func TestGetCellData(t *testing.T) {
	mockOnly(t)
	c, _, _ := testenv.Client(t, nil)

	value, err := GetCellData(context.Background(), c, mockapi.Row2HID, "Status")
	require.NoError(t, err)
	assert.Equal(t, "Sample processed by CRO", value)

	_, err = GetCellData(context.Background(), c, mockapi.Row2HID, "Order ID")
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrUnknownColumn))
}

func TestGetTable(t *testing.T) {
	c, _, sample := testenv.Client(t, nil)
	table, err := GetTable(context.Background(), c, sample.Databases[0])
	require.NoError(t, err)

	b, err := json.Marshal(table.Attrs)
	require.NoError(t, err)
	attrs := make(map[string]interface{})
	require.NoError(t, json.Unmarshal(b, &attrs))
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	assert.Equal(t, []string{"file_ids", "id", "primary_key", "reference_ids"}, keys)

	assert.Contains(t, table.Columns, ValidationStatusColumn)
	assert.Contains(t, table.Columns, table.Attrs.PrimaryKey, "expected the primary key as a column")
	assert.Equal(t, 0, table.Column(table.Attrs.PrimaryKey))
}

func TestGetTableValues(t *testing.T) {
	mockOnly(t)
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())
	c, api, _ := testenv.Client(t, nil)
	table, err := GetTable(context.Background(), c, mockapi.DatabaseHID)
	require.NoError(t, err)

	assert.Equal(t, mockapi.DatabaseID, table.Attrs.ID)
	assert.Equal(t, "sample", table.Attrs.PrimaryKey)
	assert.Equal(t, []string{mockapi.AssignedFileID, mockapi.RawReadsFileID}, table.Attrs.FileIDs)
	assert.Equal(t, []string{mockapi.OrderID}, table.Attrs.ReferenceIDs)
	assert.Equal(t, []string{
		"sample", ValidationStatusColumn, "Order ID", "Status", "To client tracking", "Sent to client", "Raw reads", "Reads",
	}, table.Columns)
	assert.Len(t, table.DatabaseColumns(), 6)

	require.Len(t, table.Records, 2)
	assert.Equal(t, []Cell{
		{mockapi.Row1HID}, {"valid"}, {mockapi.OrderHID}, {"Ordered"}, {"1Z999AA10123456784"}, nil,
		{"pbr322_egfr (1).gb", "sequence_preprocessing.pdf"}, {"42"},
	}, table.Records[0].Values())
	assert.Equal(t, []Cell{
		{mockapi.Row2HID}, {"invalid"}, nil, {"Sample processed by CRO"}, nil, nil, {"pbr322_egfr (1).gb"}, nil,
	}, table.Records[1].Values())

	// one call per distinct file, a single conversion of references
	assert.Equal(t, 2, api.Count(managed.EndpointDescribeFile))
	assert.Equal(t, 1, api.Count(managed.EndpointConvertIDFormat))

	var csv strings.Builder
	require.NoError(t, table.WriteCSV(&csv))
	assert.Equal(t, strings.Join([]string{
		"sample,Validation Status,Order ID,Status,To client tracking,Sent to client,Raw reads,Reads",
		`sample-1,valid,order-1,Ordered,1Z999AA10123456784,,"pbr322_egfr (1).gb, sequence_preprocessing.pdf",42`,
		"sample-2,invalid,,Sample processed by CRO,,,pbr322_egfr (1).gb,",
		"",
	}, "\n"), csv.String())

	maps := table.Maps()
	require.Len(t, maps, 2)
	assert.Equal(t, []string{"pbr322_egfr (1).gb"}, maps[1]["Raw reads"])
	assert.Nil(t, maps[1]["Order ID"])
	assert.Equal(t, "42", maps[0]["Reads"])

	b, err := json.Marshal(table)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"primary_key":"sample"`)
}

func TestGetTableSystemIDs(t *testing.T) {
	mockOnly(t)
	c, api, _ := testenv.Client(t, nil)
	table, err := GetTable(context.Background(), c, mockapi.DatabaseID, UseFileNames(false), ReferenceFormat(managed.SystemID))
	require.NoError(t, err)

	require.Len(t, table.Records, 2)
	cells := table.Records[0].Values()
	assert.Equal(t, Cell{mockapi.OrderID}, cells[table.Column("Order ID")])
	assert.Equal(t, Cell{mockapi.RawReadsFileID, mockapi.AssignedFileID}, cells[table.Column("Raw reads")])
	assert.Zero(t, api.Count(managed.EndpointDescribeFile))
	assert.Zero(t, api.Count(managed.EndpointConvertIDFormat))
}

func TestGetTableNotADatabase(t *testing.T) {
	mockOnly(t)
	c, _, _ := testenv.Client(t, nil)
	_, err := GetTable(context.Background(), c, mockapi.Row1HID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrUnexpectedType))
}

func TestDownload(t *testing.T) {
	mockOnly(t)
	files := mockapi.NewFileServer()
	defer files.Close()
	c, _, _ := testenv.Client(t, files)
	ctx := context.Background()

	fs := afero.NewMemMapFs()
	dest := localfs.New(fs)
	result, err := Download(ctx, c, Prefix+mockapi.DatabaseHID, dest, IncludeFiles(true), ConcurrentList(2))
	require.NoError(t, err)

	assert.Equal(t, "db-sample.csv", result.Table)
	assert.Equal(t, map[string]string{
		mockapi.RawReadsFileID: "pbr322_egfr (1).gb",
		mockapi.AssignedFileID: "sequence_preprocessing.pdf",
	}, result.Files)

	keys, err := dest.Keys(ctx)
	require.NoError(t, err)
	sort.Strings(keys)
	assert.Equal(t, []string{"db-sample.csv", "pbr322_egfr (1).gb", "sequence_preprocessing.pdf"}, keys)

	b, err := afero.ReadFile(fs, "pbr322_egfr (1).gb")
	require.NoError(t, err)
	assert.Equal(t, mockapi.Content(mockapi.RawReadsFileID), b)

	b, err = afero.ReadFile(fs, "db-sample.csv")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(b), "sample,Validation Status,"))

	_, err = Download(ctx, c, mockapi.DatabaseHID, dest, Overwrite(false))
	require.Error(t, err)
	assert.True(t, errors.Is(err, storagestatus.ErrExists))
}

func TestDownloadNotImplemented(t *testing.T) {
	mockOnly(t)
	c, _, _ := testenv.Client(t, nil)
	_, err := Download(context.Background(), c, mockapi.Row1HID, localfs.New(afero.NewMemMapFs()))
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrNotImplemented))
}

func TestFileKey(t *testing.T) {
	taken := map[string]bool{"report.pdf": true}
	assert.Equal(t, "reads.fa", fileKey(&managed.FileDescription{ID: "_file:1", Name: "reads.fa"}, taken))
	assert.Equal(t, "_file_2_report.pdf", fileKey(&managed.FileDescription{ID: "_file:2", Name: "report.pdf"}, taken))
	assert.Equal(t, "a_b.txt", fileKey(&managed.FileDescription{ID: "_file:3", Name: "../a/b.txt"}, taken))
	assert.Equal(t, "_file:4", fileKey(&managed.FileDescription{ID: "_file:4"}, taken))
}

func TestUpload(t *testing.T) {
	mockOnly(t)
	files := mockapi.NewFileServer()
	defer files.Close()
	c, _, _ := testenv.Client(t, files)
	ctx := context.Background()

	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/data/sub", 0700))
	require.NoError(t, fs.MkdirAll("/empty", 0700))
	for _, name := range []string{"/data/a.txt", "/data/sub/b.fa"} {
		require.NoError(t, afero.WriteFile(fs, name, []byte("content of "+name), 0600))
	}

	uploaded, err := Upload(ctx, c, fs, "/data")
	require.NoError(t, err)
	require.Len(t, uploaded, 2)
	assert.Equal(t, "a.txt", uploaded[0].Name)
	assert.Equal(t, "b.fa", uploaded[1].Name)
	for i, name := range []string{"/data/a.txt", "/data/sub/b.fa"} {
		b, ok := files.Uploaded(uploaded[i].ID)
		require.True(t, ok, "expected %s to be uploaded", name)
		assert.Equal(t, fmt.Sprintf("content of %s", name), string(b))
		assert.EqualValues(t, len(b), uploaded[i].ContentLength)
	}

	single, err := Upload(ctx, c, fs, "/data/a.txt")
	require.NoError(t, err)
	require.Len(t, single, 1)

	_, err = Upload(ctx, c, fs, "/missing")
	assert.True(t, errors.Is(err, status.ErrInvalidSource))

	_, err = Upload(ctx, c, fs, "/empty")
	assert.True(t, errors.Is(err, status.ErrInvalidSource))
}
