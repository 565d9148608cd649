// Package mockapi serves canned managed data API responses, so that tests run without network access.
package mockapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"

	"github.com/deeporigin/deeporigin/pkg/managed/status"
)

// Call records an API call received by the mock
type Call struct {
	Endpoint string
	Body     map[string]interface{}
}

// API is a managed.Invoker answering with the sample data
type API struct {
	// FilesURL is the base of presigned download and upload URLs
	FilesURL string

	mu      sync.Mutex
	calls   []Call
	uploads int
}

// New mock API. Presigned URLs point at filesURL.
func New(filesURL string) *API {
	if filesURL == "" {
		filesURL = "https://files.invalid"
	}
	return &API{FilesURL: strings.TrimRight(filesURL, "/")}
}

// Calls received so far
func (a *API) Calls() []Call {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]Call(nil), a.calls...)
}

// Count the calls made to some endpoint
func (a *API) Count(endpoint string) int {
	n := 0
	for _, call := range a.Calls() {
		if call.Endpoint == endpoint {
			n++
		}
	}
	return n
}

// Invoke an endpoint with canned data
func (a *API) Invoke(ctx context.Context, endpoint string, body, out interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req := make(map[string]interface{})
	if err = json.Unmarshal(payload, &req); err != nil {
		return err
	}

	a.mu.Lock()
	a.calls = append(a.calls, Call{Endpoint: endpoint, Body: req})
	a.mu.Unlock()

	data, err := a.respond(endpoint, req)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	b, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}

func (a *API) respond(endpoint string, req map[string]interface{}) (interface{}, error) {
	switch endpoint {
	case "ListRows":
		return listRows(filters(req)), nil

	case "DescribeRow":
		id := resolve(str(req["rowId"]))
		desc, ok := descriptions[id]
		if !ok {
			return nil, notFound("row", req["rowId"])
		}
		obj := decodeObject(desc)
		if fields, _ := req["fields"].(bool); !fields {
			delete(obj, "fields")
		}
		return obj, nil

	case "ListDatabaseRows":
		if resolve(str(req["databaseRowId"])) != DatabaseID {
			return nil, notFound("database", req["databaseRowId"])
		}
		return json.RawMessage(databaseRows), nil

	case "DescribeFile":
		desc, ok := files[str(req["fileId"])]
		if !ok {
			return nil, notFound("file", req["fileId"])
		}
		return json.RawMessage(desc), nil

	case "DescribeDatabaseStats":
		if resolve(str(req["databaseId"])) != DatabaseID {
			return nil, notFound("database", req["databaseId"])
		}
		return map[string]int{"rowCount": RowCount}, nil

	case "ConvertIdFormat":
		return convert(req), nil

	case "ListFiles":
		return listFiles(filters(req)), nil

	case "CreateFileDownloadUrl":
		id := str(req["fileId"])
		if _, ok := files[id]; !ok {
			return nil, notFound("file", id)
		}
		return map[string]string{"downloadUrl": a.FilesURL + "/files/" + id}, nil

	case "CreateFileUpload":
		a.mu.Lock()
		a.uploads++
		id := fmt.Sprintf("_file:upload%d", a.uploads)
		a.mu.Unlock()
		size, _ := strconv.ParseInt(str(req["contentLength"]), 10, 64)
		return map[string]interface{}{
			"uploadUrl": a.FilesURL + "/files/" + id,
			"file": map[string]interface{}{
				"id":            id,
				"uri":           "s3://deeporigin-nucleus-local-uploads/files/" + id,
				"name":          str(req["name"]),
				"status":        "ready",
				"contentLength": size,
				"contentType":   str(req["contentType"]),
			},
		}, nil

	default:
		return nil, status.ErrNotFound.Wrap(fmt.Errorf("unknown endpoint %s", endpoint))
	}
}

var (
	allRows      []map[string]interface{}
	descriptions = map[string]string{
		WorkspaceID: workspaceDescription,
		DatabaseID:  databaseDescription,
		Row1ID:      row1Description,
		Row2ID:      row2Description,
	}
)

func init() {
	allRows = append(allRows, decodeObject(workspaceRow), decodeObject(databaseRow))
	var rows []map[string]interface{}
	if err := json.Unmarshal([]byte(dataRows), &rows); err != nil {
		panic(err)
	}
	allRows = append(allRows, rows...)
}

func decodeObject(doc string) map[string]interface{} {
	obj := make(map[string]interface{})
	if err := json.Unmarshal([]byte(doc), &obj); err != nil {
		panic(err)
	}
	return obj
}

func filters(req map[string]interface{}) []map[string]interface{} {
	list, _ := req["filters"].([]interface{})
	res := make([]map[string]interface{}, 0, len(list))
	for _, f := range list {
		if m, ok := f.(map[string]interface{}); ok {
			res = append(res, m)
		}
	}
	return res
}

// resolve a hid to its system id
func resolve(id string) string {
	for sys, hid := range hids {
		if hid == id {
			return sys
		}
	}
	return id
}

func str(v interface{}) string {
	s, _ := v.(string)
	return s
}

func notFound(what string, id interface{}) error {
	return status.ErrNotFound.Wrap(fmt.Errorf("%s %v does not exist", what, id))
}

func listRows(fs []map[string]interface{}) []map[string]interface{} {
	res := make([]map[string]interface{}, 0, len(allRows))
	for _, row := range allRows {
		if matchRow(row, fs) {
			res = append(res, row)
		}
	}
	return res
}

func matchRow(row map[string]interface{}, fs []map[string]interface{}) bool {
	for _, f := range fs {
		if parent, ok := f["parent"].(map[string]interface{}); ok {
			if id, ok := parent["id"]; ok && resolve(str(id)) != str(row["parentId"]) {
				return false
			}
			if isRoot, ok := parent["isRoot"].(bool); ok && isRoot != (row["parentId"] == nil) {
				return false
			}
		}
		if rowType, ok := f["rowType"]; ok && str(rowType) != str(row["type"]) {
			return false
		}
	}
	return true
}

func convert(req map[string]interface{}) []map[string]string {
	list, _ := req["conversions"].([]interface{})
	res := make([]map[string]string, 0, len(list))
	for _, c := range list {
		m, _ := c.(map[string]interface{})
		if id := str(m["id"]); id != "" {
			if hid, ok := hids[id]; ok {
				res = append(res, map[string]string{"id": id, "hid": hid})
			}
			continue
		}
		if hid := str(m["hid"]); hid != "" {
			if id := resolve(hid); id != hid {
				res = append(res, map[string]string{"id": id, "hid": hid})
			}
		}
	}
	return res
}

func listFiles(fs []map[string]interface{}) json.RawMessage {
	unassigned, assigned := true, true
	for _, f := range fs {
		if v, ok := f["isUnassigned"].(bool); ok {
			unassigned, assigned = unassigned && v, assigned && !v
		}
		if _, ok := f["assignedRowIds"]; ok {
			unassigned = false
		}
	}
	switch {
	case unassigned && assigned:
		return json.RawMessage(`[` + strings.Trim(unassignedFiles, "[]") + `,` + strings.Trim(assignedFiles, "[]\n ") + `]`)
	case unassigned:
		return json.RawMessage(unassignedFiles)
	case assigned:
		return json.RawMessage(assignedFiles)
	default:
		return json.RawMessage(`[]`)
	}
}

// Content served for a file that was never uploaded
func Content(fileID string) []byte {
	return []byte("contents of " + fileID + "\n")
}

// FileServer serves presigned download and upload URLs
type FileServer struct {
	*httptest.Server

	mu       sync.Mutex
	contents map[string][]byte
}

// NewFileServer starts a file server. Close it when done.
func NewFileServer() *FileServer {
	fs := &FileServer{contents: make(map[string][]byte)}
	fs.Server = httptest.NewServer(http.HandlerFunc(fs.serve))
	return fs
}

// Uploaded contents of a file
func (f *FileServer) Uploaded(fileID string) ([]byte, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.contents[fileID]
	return b, ok
}

func (f *FileServer) serve(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/files/")
	switch r.Method {
	case http.MethodGet:
		f.mu.Lock()
		b, ok := f.contents[id]
		f.mu.Unlock()
		if !ok {
			b = Content(id)
		}
		w.Header().Set("Content-Length", strconv.Itoa(len(b)))
		_, _ = w.Write(b)
	case http.MethodPut:
		b, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.mu.Lock()
		f.contents[id] = b
		f.mu.Unlock()
		w.WriteHeader(http.StatusOK)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}
