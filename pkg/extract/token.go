package extract

import "sort"

// Point is one vertex of a token's bounding polygon on the source image.
type Point struct {
	X float64
	Y float64
}

// Token is a single OCR-recognized text span with its confidence and
// position. Either Box or the derived coordinates must be populated; when
// Box is present it is authoritative and the coordinates are recomputed
// from it before use.
type Token struct {
	Text       string
	Confidence float64
	Box        []Point

	CenterX float64
	CenterY float64
	Top     float64
	Left    float64
}

// deriveGeometry fills CenterX/CenterY/Top/Left from the bounding polygon
// by min/max over its points. Tokens without a polygon are left untouched.
func (t *Token) deriveGeometry() {
	if len(t.Box) == 0 {
		return
	}
	minX, maxX := t.Box[0].X, t.Box[0].X
	minY, maxY := t.Box[0].Y, t.Box[0].Y
	for _, p := range t.Box[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	t.Left = minX
	t.Top = minY
	t.CenterX = (minX + maxX) / 2
	t.CenterY = (minY + maxY) / 2
}

// sortByPosition returns a copy of tokens in approximate reading order
// (top to bottom, then left to right), with geometry derived.
func sortByPosition(tokens []Token) []Token {
	out := make([]Token, len(tokens))
	copy(out, tokens)
	for i := range out {
		out[i].deriveGeometry()
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Top != out[j].Top {
			return out[i].Top < out[j].Top
		}
		return out[i].Left < out[j].Left
	})
	return out
}
