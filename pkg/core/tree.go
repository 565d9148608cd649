package core

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/deeporigin/deeporigin/pkg/core/status"
	"github.com/deeporigin/deeporigin/pkg/managed"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// Node of the tree of managed data
type Node struct {
	managed.Row `yaml:",inline"`
	Children    []*Node `json:"children,omitempty" yaml:"children,omitempty"`
}

// Walk the tree depth-first. Walking stops on the first error.
func (n *Node) Walk(fn func(node *Node, depth int) error) error {
	return n.walk(fn, 0)
}

func (n *Node) walk(fn func(*Node, int) error, depth int) error {
	if err := fn(n, depth); err != nil {
		return err
	}
	for _, child := range n.Children {
		if err := child.walk(fn, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// Find a node by system id or hid
func (n *Node) Find(id string) *Node {
	var found *Node
	_ = n.Walk(func(node *Node, _ int) error {
		if node.ID == id || node.HID == id {
			found = node
			return errStop
		}
		return nil
	})
	return found
}

var errStop = fmt.Errorf("stop")

// childTypes tells which types of objects may be children of a given type
func childTypes(t managed.RowType, includeRows bool) map[managed.RowType]bool {
	switch t {
	case managed.RowTypeWorkspace:
		return map[managed.RowType]bool{managed.RowTypeWorkspace: true, managed.RowTypeDatabase: true}
	case managed.RowTypeDatabase:
		return map[managed.RowType]bool{managed.RowTypeRow: includeRows}
	default:
		return nil
	}
}

// GetTree builds the tree of workspaces, databases and, optionally, rows.
//
// There must be exactly one root object.
func GetTree(ctx context.Context, api API, opts ...Option) (*Node, error) {
	settings := defaultSettings(opts)

	var objects []managed.Row
	if settings.includeRows {
		// everything is fetched at once
		all, err := api.ListRows(ctx, managed.ListRowsOptions{})
		if err != nil {
			return nil, err
		}
		objects = all
	} else {
		for _, rowType := range []managed.RowType{managed.RowTypeWorkspace, managed.RowTypeDatabase} {
			some, err := api.ListRows(ctx, managed.ListRowsOptions{RowType: rowType})
			if err != nil {
				return nil, err
			}
			objects = append(objects, some...)
		}
	}

	var roots []managed.Row
	byParent := make(map[string][]managed.Row, len(objects))
	for _, obj := range objects {
		if obj.IsRoot() {
			roots = append(roots, obj)
			continue
		}
		byParent[obj.Parent()] = append(byParent[obj.Parent()], obj)
	}
	if len(roots) != 1 {
		return nil, status.ErrRoots.Wrap(fmt.Errorf("instead, there were %d", len(roots)))
	}
	settings.l.Debug("tree", zap.Int("objects", len(objects)), zap.String("root", roots[0].HID))

	tree := &Node{Row: roots[0]}
	addChildren(tree, byParent, settings.includeRows)
	return tree, nil
}

func addChildren(node *Node, byParent map[string][]managed.Row, includeRows bool) {
	allowed := childTypes(node.Type, includeRows)
	for _, child := range byParent[node.ID] {
		if !allowed[child.Type] {
			continue
		}
		childNode := &Node{Row: child}
		addChildren(childNode, byParent, includeRows)
		node.Children = append(node.Children, childNode)
	}
}

// GetChildren recursively finds all workspaces, databases and rows under some object.
//
// With an empty id, the exploration starts from the root objects.
// Rows are leaves. Children of siblings are listed concurrently.
func GetChildren(ctx context.Context, api API, id string, opts ...Option) ([]*Node, error) {
	settings := defaultSettings(opts)
	id = strings.TrimPrefix(id, Prefix)

	var nodes []*Node
	if id == "" {
		isRoot := true
		roots, err := api.ListRows(ctx, managed.ListRowsOptions{ParentIsRoot: &isRoot})
		if err != nil {
			return nil, err
		}
		for _, root := range roots {
			nodes = append(nodes, &Node{Row: root})
		}
	} else {
		desc, err := api.DescribeRow(ctx, id, false)
		if err != nil {
			return nil, err
		}
		nodes = []*Node{{Row: rowOf(desc)}}
	}

	sem := semaphore.NewWeighted(int64(settings.concurrency))
	group, gctx := errgroup.WithContext(ctx)
	for _, node := range nodes {
		expandChildren(gctx, api, node, group, sem, settings.l)
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return nodes, nil
}

// expandChildren lists the children of a node in the background, then expands each child in turn
func expandChildren(ctx context.Context, api API, node *Node, group *errgroup.Group, sem *semaphore.Weighted, l *zap.Logger) {
	if node.Type == managed.RowTypeRow {
		return
	}
	group.Go(func() error {
		if err := sem.Acquire(ctx, 1); err != nil {
			return err
		}
		children, err := api.ListRows(ctx, managed.ListRowsOptions{ParentID: node.ID})
		sem.Release(1)
		if err != nil {
			return err
		}
		l.Debug("children", zap.String("parent", node.HID), zap.Int("count", len(children)))

		sort.SliceStable(children, func(i, j int) bool { return children[i].HID < children[j].HID })
		node.Children = make([]*Node, 0, len(children))
		for _, child := range children {
			node.Children = append(node.Children, &Node{Row: child})
		}
		for _, child := range node.Children {
			expandChildren(ctx, api, child, group, sem, l)
		}
		return nil
	})
}

func rowOf(desc *managed.RowDescription) managed.Row {
	row := managed.Row{
		ID:   desc.ID,
		HID:  desc.HID,
		Type: desc.Type,
	}
	if desc.ParentID != "" {
		parent := desc.ParentID
		row.ParentID = &parent
	}
	if desc.Name != "" {
		name := desc.Name
		row.Name = &name
	}
	return row
}
