// Package diagram implements the generator behind POST /draw. It is a
// deliberately small rule-based stand-in for an LLM backend: the query
// is split into steps and rendered as a vertical flow of labeled boxes
// joined by arrows. The HTTP contract only fixes the request/response
// schema, so richer generators can be swapped in behind the same
// interface.
package diagram

import (
	"context"
	"strings"

	"sketchsync/internal/shape"
)

const (
	boxWidth   = 200
	boxHeight  = 80
	gap        = 60
	originX    = 120
	originY    = 80
	labelInset = 16
)

type FlowGenerator struct{}

func NewFlowGenerator() *FlowGenerator {
	return &FlowGenerator{}
}

// Generate lays the query's steps out top to bottom. Steps are separated
// by "then", "->" or sentence punctuation; an unsplittable query yields
// a single box.
func (g *FlowGenerator) Generate(_ context.Context, query string) ([]shape.Shape, error) {
	steps := splitSteps(query)
	if len(steps) == 0 {
		return []shape.Shape{}, nil
	}

	st := shape.Style{
		StrokeColor: shape.StrokeColors[0],
		BgColor:     shape.BackgroundColors[0],
		StrokeWidth: shape.StrokeWidths[0],
		StrokeStyle: shape.StrokeStyles[0],
		Radius:      shape.Edges[1],
	}

	var shapes []shape.Shape
	for i, step := range steps {
		y := float64(originY + i*(boxHeight+gap))
		shapes = append(shapes, shape.NewRectangle("", originX, y, boxWidth, boxHeight, st))
		shapes = append(shapes, shape.NewText("", originX+labelInset, y+boxHeight/2, step, shape.FontSizeFor("M"), st.StrokeColor))

		if i > 0 {
			top := y - gap
			shapes = append(shapes, shape.NewLine(shape.ToolArrow, "", originX+boxWidth/2, top, originX+boxWidth/2, y, st))
		}
	}
	return shapes, nil
}

func splitSteps(query string) []string {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	f := func(r rune) bool { return r == '.' || r == ';' || r == '\n' }
	raw := strings.FieldsFunc(replaceConnectors(query), f)

	var steps []string
	for _, s := range raw {
		if s = strings.TrimSpace(s); s != "" {
			steps = append(steps, s)
		}
	}
	return steps
}

func replaceConnectors(q string) string {
	q = strings.ReplaceAll(q, "->", ".")
	q = strings.ReplaceAll(q, " then ", ".")
	return q
}
