package accordion

import (
	"html/template"
	"slices"

	"github.com/domonda/go-datagrid"
)

// treeWalker turns a grouping tree into template contexts,
// collecting the rendered groups and the leaves to mount.
type treeWalker struct {
	accordion  *Accordion
	selection  *datagrid.SelectionSet
	leafLevel  LevelOptions
	levelCache map[int]LevelOptions
	// offset of the first top-level group of the page
	// within all top-level groups, keeps ids unique across pages
	offset int

	groups   map[string]*renderedGroup
	groupIDs []string
	leaves   []*Leaf
}

func (w *treeWalker) levelOptions(depth int) LevelOptions {
	opts, ok := w.levelCache[depth]
	if !ok {
		opts = w.accordion.config.LevelOptions(depth)
		w.levelCache[depth] = opts
	}
	return opts
}

// walk returns the contexts of the child groups of node.
// Children of collapsed groups are not visited.
func (w *treeWalker) walk(node *datagrid.GroupNode, parentID string, depth int, path []string) []*GroupContext {
	var (
		opts     = w.levelOptions(depth)
		label    = w.accordion.levelLabel(depth)
		keyField = w.accordion.config.KeyField
		groups   = make([]*GroupContext, len(node.Keys))
	)
	for i, key := range node.Keys {
		child := node.Children[key]
		index := i
		if depth == 0 {
			index += w.offset
		}
		id := datagrid.GroupID(parentID, depth, index)
		group := &GroupContext{
			ID:         id,
			Depth:      depth,
			Key:        key,
			Label:      label,
			Count:      FormatCount(datagrid.CountItems(child)),
			ShowCount:  opts.ShowCount,
			Selectable: opts.Selection,
			Expanded:   w.accordion.expansion.IsExpanded(id),
			Actions:    opts.Actions,
		}
		if opts.Selection || len(opts.TitleBadges) > 0 {
			items := datagrid.CollectItems(child)
			if opts.Selection {
				group.State = w.selection.StateOf(items, keyField)
			}
			for _, badge := range opts.TitleBadges {
				group.Badges = append(group.Badges, BadgeContext{
					Label: badge.Label,
					Value: BadgeValue(badge, items),
					Class: badge.Class,
				})
			}
		}
		w.groups[id] = &renderedGroup{node: child, selectable: opts.Selection}
		w.groupIDs = append(w.groupIDs, id)

		if group.Expanded {
			childPath := append(slices.Clone(path), key)
			if child.IsLeaf() {
				group.Leaf = w.leaf(id+"-leaf", id, childPath, child)
			} else {
				group.Children = w.walk(child, id, depth+1, childPath)
			}
		}
		groups[i] = group
	}
	return groups
}

func (w *treeWalker) leaf(containerID, groupID string, path []string, node *datagrid.GroupNode) template.HTML {
	w.leaves = append(w.leaves, &Leaf{
		ContainerID: containerID,
		GroupID:     groupID,
		Path:        path,
		Records:     node.Items,
		Options:     w.leafLevel,
	})
	return datagrid.ContainerPlaceholder(containerID)
}
