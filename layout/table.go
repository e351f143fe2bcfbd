package layout

import (
	"gocko/cssom"
	"gocko/html"
)

// layoutTable implements the minimum contract spec §4.5 allows for
// table: rows stack vertically, cells within a row split the
// containing width evenly. No column-width negotiation across rows.
func (e *Engine) layoutTable(n *LayoutNode) {
	contentWidth := n.Geometry.Width
	cursorY := 0.0
	var rows []*LayoutNode

	for _, section := range n.DOMNode.ChildNodes() {
		if section.Type != html.ElementNode {
			continue
		}
		rowHolder := section
		if section.Tag != "tr" {
			rowHolder = section // thead/tbody/tfoot: rows are its children
		}
		candidates := []*html.Node{rowHolder}
		if section.Tag != "tr" {
			candidates = section.Children()
		}
		for _, rowDom := range candidates {
			if rowDom.Tag != "tr" {
				continue
			}
			row := e.layoutTableRow(rowDom, n, contentWidth, cursorY)
			rows = append(rows, row)
			cursorY += row.Geometry.MarginBoxHeight()
		}
	}

	n.Children = rows
	if n.Style.Height.IsAuto() {
		n.Geometry.Height = cursorY
	}
}

func (e *Engine) layoutTableRow(rowDom *html.Node, table *LayoutNode, contentWidth, y float64) *LayoutNode {
	cells := rowDom.Children()
	row := &LayoutNode{DOMNode: rowDom, Mode: ModeBlock, Display: "table-row", Style: cssom.NewComputedStyle(), Parent: table}
	row.Geometry.X = table.Geometry.ContentLeft()
	row.Geometry.Y = table.Geometry.ContentTop() + y
	row.Geometry.Width = contentWidth

	n := maxf(float64(len(cells)), 1)
	cellWidth := contentWidth / n
	rowHeight := 0.0
	x := 0.0
	for _, cellDom := range cells {
		cellStyle, _ := cellDom.ComputedStyle.(*cssom.ComputedStyle)
		if cellStyle != nil && cellStyle.IsHidden() {
			continue
		}
		cell := e.buildElement(cellDom, row, cellWidth)
		if cell == nil {
			continue
		}
		cell.Geometry.X = row.Geometry.X + x
		cell.Geometry.Y = row.Geometry.Y
		cell.Geometry.Width = cellWidth
		x += cellWidth
		if cell.Geometry.MarginBoxHeight() > rowHeight {
			rowHeight = cell.Geometry.MarginBoxHeight()
		}
		row.Children = append(row.Children, cell)
	}
	row.Geometry.Height = rowHeight
	return row
}
