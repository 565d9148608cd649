package managed

import (
	"context"
	"fmt"

	"github.com/deeporigin/deeporigin/pkg/managed/status"
)

// API operation names
const (
	EndpointListRows              = "ListRows"
	EndpointDescribeRow           = "DescribeRow"
	EndpointDescribeFile          = "DescribeFile"
	EndpointListDatabaseRows      = "ListDatabaseRows"
	EndpointConvertIDFormat       = "ConvertIdFormat"
	EndpointDescribeDatabaseStats = "DescribeDatabaseStats"
	EndpointListFiles             = "ListFiles"
	EndpointCreateFileDownloadURL = "CreateFileDownloadUrl"
	EndpointCreateFileUpload      = "CreateFileUpload"
)

// ListRowsOptions filter the rows listed by ListRows. Unset fields do not filter.
type ListRowsOptions struct {
	ParentID     string
	RowType      RowType
	ParentIsRoot *bool
}

type parentFilter struct {
	ID     string `json:"id,omitempty"`
	IsRoot *bool  `json:"isRoot,omitempty"`
}

type rowFilter struct {
	Parent  *parentFilter `json:"parent,omitempty"`
	RowType RowType       `json:"rowType,omitempty"`
}

type listRowsRequest struct {
	Filters []rowFilter `json:"filters"`
}

// ListRows lists rows, databases and workspaces matching all filters
func (c *Client) ListRows(ctx context.Context, opts ListRowsOptions) ([]Row, error) {
	req := listRowsRequest{Filters: []rowFilter{}}
	if opts.ParentID != "" {
		req.Filters = append(req.Filters, rowFilter{Parent: &parentFilter{ID: opts.ParentID}})
	}
	if opts.ParentIsRoot != nil {
		req.Filters = append(req.Filters, rowFilter{Parent: &parentFilter{IsRoot: opts.ParentIsRoot}})
	}
	if opts.RowType != "" {
		req.Filters = append(req.Filters, rowFilter{RowType: opts.RowType})
	}

	var rows []Row
	if err := c.Invoke(ctx, EndpointListRows, req, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

type describeRowRequest struct {
	RowID  string `json:"rowId"`
	Fields bool   `json:"fields"`
}

// DescribeRow describes a row, database or workspace. Fields are only returned when asked for.
func (c *Client) DescribeRow(ctx context.Context, rowID string, fields bool) (*RowDescription, error) {
	if rowID == "" {
		return nil, status.ErrInvalidArgument.Wrap(fmt.Errorf("a row id is required"))
	}
	var desc RowDescription
	if err := c.Invoke(ctx, EndpointDescribeRow, describeRowRequest{RowID: rowID, Fields: fields}, &desc); err != nil {
		return nil, err
	}
	return &desc, nil
}

type fileRequest struct {
	FileID string `json:"fileId"`
}

// DescribeFile describes an uploaded file
func (c *Client) DescribeFile(ctx context.Context, fileID string) (*FileDescription, error) {
	if fileID == "" {
		return nil, status.ErrInvalidArgument.Wrap(fmt.Errorf("a file id is required"))
	}
	var desc FileDescription
	if err := c.Invoke(ctx, EndpointDescribeFile, fileRequest{FileID: fileID}, &desc); err != nil {
		return nil, err
	}
	return &desc, nil
}

type listDatabaseRowsRequest struct {
	DatabaseRowID string `json:"databaseRowId"`
}

// ListDatabaseRows lists the rows of a database, with their fields
func (c *Client) ListDatabaseRows(ctx context.Context, databaseRowID string) ([]RowDescription, error) {
	if databaseRowID == "" {
		return nil, status.ErrInvalidArgument.Wrap(fmt.Errorf("a database id is required"))
	}
	var rows []RowDescription
	if err := c.Invoke(ctx, EndpointListDatabaseRows, listDatabaseRowsRequest{DatabaseRowID: databaseRowID}, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

type conversion struct {
	ID  string `json:"id,omitempty"`
	HID string `json:"hid,omitempty"`
}

type convertIDFormatRequest struct {
	Conversions []conversion `json:"conversions"`
}

// ConvertIDFormat converts system ids to human ids and back. At least one id or hid is required.
func (c *Client) ConvertIDFormat(ctx context.Context, ids, hids []string) ([]IDConversion, error) {
	if len(ids) == 0 && len(hids) == 0 {
		return nil, status.ErrInvalidArgument.Wrap(fmt.Errorf("ids or hids must be non-empty and a list of strings"))
	}
	req := convertIDFormatRequest{Conversions: make([]conversion, 0, len(ids)+len(hids))}
	for _, id := range ids {
		req.Conversions = append(req.Conversions, conversion{ID: id})
	}
	for _, hid := range hids {
		req.Conversions = append(req.Conversions, conversion{HID: hid})
	}

	var out []IDConversion
	if err := c.Invoke(ctx, EndpointConvertIDFormat, req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

type databaseStatsRequest struct {
	DatabaseID string `json:"databaseId"`
}

// DescribeDatabaseStats returns statistics about a database
func (c *Client) DescribeDatabaseStats(ctx context.Context, databaseID string) (*DatabaseStats, error) {
	if databaseID == "" {
		return nil, status.ErrInvalidArgument.Wrap(fmt.Errorf("a database id is required"))
	}
	var stats DatabaseStats
	if err := c.Invoke(ctx, EndpointDescribeDatabaseStats, databaseStatsRequest{DatabaseID: databaseID}, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// ListFilesOptions filter the files listed by ListFiles
type ListFilesOptions struct {
	IsUnassigned   *bool
	AssignedRowIDs []string
}

type fileFilter struct {
	IsUnassigned   *bool    `json:"isUnassigned,omitempty"`
	AssignedRowIDs []string `json:"assignedRowIds,omitempty"`
}

type listFilesRequest struct {
	Filters []fileFilter `json:"filters"`
}

// ListFiles lists uploaded files with their assignments to rows
func (c *Client) ListFiles(ctx context.Context, opts ListFilesOptions) ([]FileWithAssignments, error) {
	req := listFilesRequest{Filters: []fileFilter{}}
	if opts.IsUnassigned != nil {
		req.Filters = append(req.Filters, fileFilter{IsUnassigned: opts.IsUnassigned})
	}
	if len(opts.AssignedRowIDs) > 0 {
		req.Filters = append(req.Filters, fileFilter{AssignedRowIDs: opts.AssignedRowIDs})
	}

	var files []FileWithAssignments
	if err := c.Invoke(ctx, EndpointListFiles, req, &files); err != nil {
		return nil, err
	}
	return files, nil
}

type downloadURL struct {
	DownloadURL string `json:"downloadUrl"`
}

// CreateFileDownloadURL returns a presigned URL to download the contents of a file
func (c *Client) CreateFileDownloadURL(ctx context.Context, fileID string) (string, error) {
	if fileID == "" {
		return "", status.ErrInvalidArgument.Wrap(fmt.Errorf("a file id is required"))
	}
	var out downloadURL
	if err := c.Invoke(ctx, EndpointCreateFileDownloadURL, fileRequest{FileID: fileID}, &out); err != nil {
		return "", err
	}
	if out.DownloadURL == "" {
		return "", status.ErrAPI.Wrap(fmt.Errorf("no download url returned for file %s", fileID))
	}
	return out.DownloadURL, nil
}

type createFileUploadRequest struct {
	Name          string `json:"name"`
	ContentType   string `json:"contentType"`
	ContentLength string `json:"contentLength"`
}

// CreateFileUpload registers a new unassigned file and returns a presigned URL to upload its contents
func (c *Client) CreateFileUpload(ctx context.Context, name, contentType string, contentLength int64) (*FileUpload, error) {
	if name == "" {
		return nil, status.ErrInvalidArgument.Wrap(fmt.Errorf("a file name is required"))
	}
	if contentLength < 0 {
		return nil, status.ErrInvalidArgument.Wrap(fmt.Errorf("invalid content length %d", contentLength))
	}
	req := createFileUploadRequest{
		Name:          name,
		ContentType:   contentType,
		ContentLength: fmt.Sprintf("%d", contentLength),
	}
	var out FileUpload
	if err := c.Invoke(ctx, EndpointCreateFileUpload, req, &out); err != nil {
		return nil, err
	}
	if out.UploadURL == "" {
		return nil, status.ErrAPI.Wrap(fmt.Errorf("no upload url returned for %s", name))
	}
	return &out, nil
}
