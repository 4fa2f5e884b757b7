package datagrid

import (
	"math"
	"strconv"
	"strings"
)

// OthersGroupKey is the group key of records
// with a missing or falsy value for a grouping field.
const OthersGroupKey = "Outros"

// GroupKey returns the group key of a grouping field value.
// Nil, false, numeric zero, NaN and blank strings
// are all grouped under OthersGroupKey.
func GroupKey(val any) string {
	if isFalsy(val) {
		return OthersGroupKey
	}
	key := ValueString(val)
	if strings.TrimSpace(key) == "" {
		return OthersGroupKey
	}
	return key
}

func isFalsy(val any) bool {
	switch v := val.(type) {
	case nil:
		return true
	case bool:
		return !v
	case string:
		return false
	}
	if num, ok := numericValue(val); ok {
		return num == 0 || math.IsNaN(num)
	}
	return false
}

// GroupNode is a node of a grouping tree,
// either a leaf holding records or a branch
// holding child nodes by group key.
type GroupNode struct {
	// Items of a leaf in input order
	Items []Record
	// Keys of a branch's children in first-seen order
	Keys     []string
	Children map[string]*GroupNode
}

// IsLeaf returns true if the node holds records
// instead of child groups.
func (n *GroupNode) IsLeaf() bool {
	return n.Children == nil
}

// Child returns the child node for key or nil.
func (n *GroupNode) Child(key string) *GroupNode {
	return n.Children[key]
}

// Group recursively partitions records by the values of fields.
// The depth of the returned tree equals len(fields),
// a tree for zero fields is a single leaf holding records.
//
// Grouping is stable: group keys keep their first-seen order
// and records keep their input order within a leaf.
// Trees are never mutated after construction and
// are rebuilt from scratch for every render.
func Group(records []Record, fields []string) *GroupNode {
	return group(records, fields, 0)
}

func group(records []Record, fields []string, depth int) *GroupNode {
	if depth == len(fields) {
		return &GroupNode{Items: records}
	}
	node := &GroupNode{Children: make(map[string]*GroupNode)}
	partitions := make(map[string][]Record)
	for _, rec := range records {
		key := GroupKey(rec[fields[depth]])
		if _, ok := partitions[key]; !ok {
			node.Keys = append(node.Keys, key)
		}
		partitions[key] = append(partitions[key], rec)
	}
	for _, key := range node.Keys {
		node.Children[key] = group(partitions[key], fields, depth+1)
	}
	return node
}

// CountItems returns the number of records in all leaves below node.
func CountItems(node *GroupNode) int {
	if node == nil {
		return 0
	}
	if node.IsLeaf() {
		return len(node.Items)
	}
	count := 0
	for _, key := range node.Keys {
		count += CountItems(node.Children[key])
	}
	return count
}

// CollectItems flattens the subtree of node into
// a record list, used to get the exact membership of a group.
func CollectItems(node *GroupNode) []Record {
	if node == nil {
		return nil
	}
	if node.IsLeaf() {
		return node.Items
	}
	var items []Record
	for _, key := range node.Keys {
		items = append(items, CollectItems(node.Children[key])...)
	}
	return items
}

// GroupID returns the path-derived identifier of the group
// at depth with sibling index below the group parentID.
func GroupID(parentID string, depth, index int) string {
	return parentID + "-" + strconv.Itoa(depth) + "-" + strconv.Itoa(index)
}

// ExpansionState is the set of expanded group ids.
// Groups are collapsed initially.
// The state survives re-renders of a component
// but not its destruction.
type ExpansionState struct {
	expanded map[string]struct{}
}

func NewExpansionState() *ExpansionState {
	return &ExpansionState{expanded: make(map[string]struct{})}
}

func (e *ExpansionState) IsExpanded(id string) bool {
	_, ok := e.expanded[id]
	return ok
}

// Toggle switches the group id between collapsed and expanded
// and returns if it is expanded afterwards.
func (e *ExpansionState) Toggle(id string) bool {
	if e.IsExpanded(id) {
		delete(e.expanded, id)
		return false
	}
	e.expanded[id] = struct{}{}
	return true
}

func (e *ExpansionState) SetExpanded(id string, expanded bool) {
	if expanded {
		e.expanded[id] = struct{}{}
	} else {
		delete(e.expanded, id)
	}
}

func (e *ExpansionState) Clear() {
	clear(e.expanded)
}
