package datagrid

import (
	"fmt"
	"html/template"
	"maps"
	"slices"
	"strings"
)

// SelectAllCheckbox is the checkbox id of the
// select-all checkbox in a table header.
const SelectAllCheckbox = "select-all"

// Scroll is the scroll offset of a container.
type Scroll struct {
	Left int
	Top  int
}

// Surface is the document the presentation components render into.
//
// ReplaceHTML is the structural update path that replaces the whole
// content of a container. The Patch methods are the visual-only update
// path used for selection changes, they must not touch anything but
// the addressed checkbox and row state so that scroll position and
// transition state survive.
type Surface interface {
	Scroll(containerID string) Scroll
	SetScroll(containerID string, scroll Scroll)
	ReplaceHTML(containerID string, html template.HTML)
	// PatchRowSelection sets the checked state of a row checkbox
	// and the selected CSS class of the row.
	PatchRowSelection(containerID, key string, selected bool)
	// PatchCheckState sets the state of a group or select-all checkbox.
	PatchCheckState(containerID, checkboxID string, state CheckState)
}

// ContainerPlaceholder returns the empty element that marks
// where the content of a nested container is mounted.
func ContainerPlaceholder(containerID string) template.HTML {
	return template.HTML(`<div class="datagrid-container" id="` + template.HTMLEscapeString(containerID) + `"></div>`) //#nosec G203
}

// Patch is a visual-only update recorded by a BufferSurface.
type Patch struct {
	ContainerID string
	Target      string
	Value       string
}

func (p Patch) String() string {
	return fmt.Sprintf("%s/%s=%s", p.ContainerID, p.Target, p.Value)
}

// BufferSurface is an in-memory Surface that keeps
// the current HTML and the visual state of every container.
// It is used to render to files and for testing.
type BufferSurface struct {
	html       map[string]template.HTML
	scroll     map[string]Scroll
	rows       map[string]map[string]bool
	checkboxes map[string]map[string]CheckState
	patches    []Patch
	replaced   map[string]int
}

func NewBufferSurface() *BufferSurface {
	return &BufferSurface{
		html:       make(map[string]template.HTML),
		scroll:     make(map[string]Scroll),
		rows:       make(map[string]map[string]bool),
		checkboxes: make(map[string]map[string]CheckState),
		replaced:   make(map[string]int),
	}
}

func (s *BufferSurface) Scroll(containerID string) Scroll {
	return s.scroll[containerID]
}

func (s *BufferSurface) SetScroll(containerID string, scroll Scroll) {
	s.scroll[containerID] = scroll
}

// ReplaceHTML replaces the content of a container
// and resets its visual patch state.
func (s *BufferSurface) ReplaceHTML(containerID string, html template.HTML) {
	s.html[containerID] = html
	s.replaced[containerID]++
	delete(s.rows, containerID)
	delete(s.checkboxes, containerID)
}

func (s *BufferSurface) PatchRowSelection(containerID, key string, selected bool) {
	if s.rows[containerID] == nil {
		s.rows[containerID] = make(map[string]bool)
	}
	s.rows[containerID][key] = selected
	s.patches = append(s.patches, Patch{ContainerID: containerID, Target: key, Value: fmt.Sprint(selected)})
}

func (s *BufferSurface) PatchCheckState(containerID, checkboxID string, state CheckState) {
	if s.checkboxes[containerID] == nil {
		s.checkboxes[containerID] = make(map[string]CheckState)
	}
	s.checkboxes[containerID][checkboxID] = state
	s.patches = append(s.patches, Patch{ContainerID: containerID, Target: checkboxID, Value: state.String()})
}

// HTML returns the current content of a container.
func (s *BufferSurface) HTML(containerID string) template.HTML {
	return s.html[containerID]
}

// Replaced returns how often the content of a container was replaced.
func (s *BufferSurface) Replaced(containerID string) int {
	return s.replaced[containerID]
}

// RowSelected returns the patched selection state of a row
// and false as second result if the row was not patched
// since the last ReplaceHTML.
func (s *BufferSurface) RowSelected(containerID, key string) (selected, patched bool) {
	selected, patched = s.rows[containerID][key]
	return selected, patched
}

// CheckState returns the patched state of a checkbox
// and false as second result if it was not patched
// since the last ReplaceHTML.
func (s *BufferSurface) CheckState(containerID, checkboxID string) (state CheckState, patched bool) {
	state, patched = s.checkboxes[containerID][checkboxID]
	return state, patched
}

// Patches returns all visual-only updates in call order.
func (s *BufferSurface) Patches() []Patch {
	return s.patches
}

// ContainerIDs returns the sorted ids of all containers with content.
func (s *BufferSurface) ContainerIDs() []string {
	return slices.Sorted(maps.Keys(s.html))
}

// Compose returns the content of containerID with the
// ContainerPlaceholder of every nested container
// recursively replaced by its content.
func (s *BufferSurface) Compose(containerID string) template.HTML {
	return s.compose(containerID, map[string]bool{})
}

func (s *BufferSurface) compose(containerID string, visiting map[string]bool) template.HTML {
	if visiting[containerID] {
		return ""
	}
	visiting[containerID] = true
	defer delete(visiting, containerID)

	html := string(s.html[containerID])
	for _, id := range s.ContainerIDs() {
		placeholder := string(ContainerPlaceholder(id))
		if id == containerID || !strings.Contains(html, placeholder) {
			continue
		}
		inner := s.compose(id, visiting)
		mounted := strings.TrimSuffix(placeholder, "</div>") + string(inner) + "</div>"
		html = strings.ReplaceAll(html, placeholder, mounted)
	}
	return template.HTML(html) //#nosec G203
}
