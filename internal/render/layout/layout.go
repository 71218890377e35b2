package layout

import "image"

// Inset shrinks rect by paddingPx on all sides.
func Inset(rect image.Rectangle, paddingPx int) image.Rectangle {
	if paddingPx <= 0 {
		return rect
	}
	out := image.Rect(rect.Min.X+paddingPx, rect.Min.Y+paddingPx, rect.Max.X-paddingPx, rect.Max.Y-paddingPx)
	if out.Dx() <= 0 || out.Dy() <= 0 {
		c := image.Pt(rect.Min.X+rect.Dx()/2, rect.Min.Y+rect.Dy()/2)
		return image.Rectangle{Min: c, Max: c}
	}
	return out
}

// Normalize ensures Min is <= Max on both axes.
func Normalize(rect image.Rectangle) image.Rectangle {
	if rect.Min.X > rect.Max.X {
		rect.Min.X, rect.Max.X = rect.Max.X, rect.Min.X
	}
	if rect.Min.Y > rect.Max.Y {
		rect.Min.Y, rect.Max.Y = rect.Max.Y, rect.Min.Y
	}
	return rect
}

// SplitHorizontal splits rect into top and bottom parts.
// topHeightPx is clamped to [0, rect.Dy()].
func SplitHorizontal(rect image.Rectangle, topHeightPx int) (top image.Rectangle, bottom image.Rectangle) {
	rect = Normalize(rect)
	height := rect.Dy()
	if topHeightPx < 0 {
		topHeightPx = 0
	}
	if topHeightPx > height {
		topHeightPx = height
	}
	top = image.Rect(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y+topHeightPx)
	bottom = image.Rect(rect.Min.X, rect.Min.Y+topHeightPx, rect.Max.X, rect.Max.Y)
	return top, bottom
}

// Grid splits rect into columns×rows equal cells in row-major order.
// The last column and row absorb rounding remainders.
func Grid(rect image.Rectangle, columns, rows int) []image.Rectangle {
	rect = Normalize(rect)
	if columns <= 0 || rows <= 0 {
		return nil
	}
	cellW := rect.Dx() / columns
	cellH := rect.Dy() / rows
	cells := make([]image.Rectangle, 0, columns*rows)
	for r := 0; r < rows; r++ {
		for c := 0; c < columns; c++ {
			minX := rect.Min.X + c*cellW
			minY := rect.Min.Y + r*cellH
			maxX := minX + cellW
			maxY := minY + cellH
			if c == columns-1 {
				maxX = rect.Max.X
			}
			if r == rows-1 {
				maxY = rect.Max.Y
			}
			cells = append(cells, image.Rect(minX, minY, maxX, maxY))
		}
	}
	return cells
}

// CenterSquare returns the largest square that fits into rect, centered.
func CenterSquare(rect image.Rectangle) image.Rectangle {
	rect = Normalize(rect)
	size := rect.Dx()
	if rect.Dy() < size {
		size = rect.Dy()
	}
	x := rect.Min.X + (rect.Dx()-size)/2
	y := rect.Min.Y + (rect.Dy()-size)/2
	return image.Rect(x, y, x+size, y+size)
}

// Tiles lays out columns×rows square tiles with paddingPx around each.
func Tiles(rect image.Rectangle, columns, rows, paddingPx int) []image.Rectangle {
	cells := Grid(rect, columns, rows)
	for i, c := range cells {
		cells[i] = CenterSquare(Inset(c, paddingPx))
	}
	return cells
}
