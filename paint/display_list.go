package paint

import "gocko/html"

// LinkRegion is emitted once per <a href> (spec §4.6).
type LinkRegion struct {
	Rect   Rect
	Href   string
	Target string
}

// CursorRegion is emitted from the cursor property for every box whose
// resolved cursor differs from "auto" inheritance would already imply.
type CursorRegion struct {
	Rect   Rect
	Cursor string
}

// FormSubmitRegion covers <button type=submit> and <input type=submit>.
type FormSubmitRegion struct {
	Rect Rect
	Node *html.Node
}

// DetailsToggleRegion covers a <summary> element; DetailsID is the stable
// handle the layout pass issued for this box.
type DetailsToggleRegion struct {
	Rect      Rect
	DetailsID string
}

// SelectRegion covers a <select> element's bounding box along with its
// option list and the currently selected index.
type SelectRegion struct {
	Rect     Rect
	Options  []string
	Selected int
}

// ElementRegion is emitted for every painted element, used by the shell
// for general hit testing.
type ElementRegion struct {
	Rect Rect
	Node *html.Node
}

// DisplayList is an ordered sequence of paint commands plus the side-band
// region lists the painter accumulates while walking the box tree.
type DisplayList struct {
	Commands []PaintCommand

	LinkRegions          []LinkRegion
	CursorRegions        []CursorRegion
	FormSubmitRegions    []FormSubmitRegion
	DetailsToggleRegions []DetailsToggleRegion
	SelectRegions        []SelectRegion
	ElementRegions       []ElementRegion
}

func (dl *DisplayList) push(cmd PaintCommand) {
	dl.Commands = append(dl.Commands, cmd)
}

// Balanced reports whether every PushClip/PushTransform in the list has a
// matching Pop, the invariant spec §4.6 says the rasterizer may assert.
func (dl *DisplayList) Balanced() bool {
	clipDepth, transformDepth := 0, 0
	for _, cmd := range dl.Commands {
		switch cmd.(type) {
		case PushClip:
			clipDepth++
		case PopClip:
			clipDepth--
		case PushTransform:
			transformDepth++
		case PopTransform:
			transformDepth--
		}
		if clipDepth < 0 || transformDepth < 0 {
			return false
		}
	}
	return clipDepth == 0 && transformDepth == 0
}
