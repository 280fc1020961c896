// Package editor drives the canvas from pointer events: tool selection,
// drag-based shape creation, selection and corner-handle resizing, pen
// capture, panning and text commits. It owns no rendering; consumers
// read the store and the transient overlays and repaint through a
// surface implementation.
//
// All pointer positions arriving here are screen-space, relative to the
// canvas origin; the editor converts them to world space through its
// viewport.
package editor

import (
	"context"
	"math"
	"strings"

	"sketchsync/internal/client"
	"sketchsync/internal/geometry"
	"sketchsync/internal/shape"
	"sketchsync/internal/store"
	"sketchsync/internal/viewport"
)

// dragThreshold is the minimum per-axis movement before a resize drag
// takes effect.
const dragThreshold = 1

type Editor struct {
	vp   *viewport.Viewport
	sync *client.Client

	tool  shape.Tool
	style shape.Style

	textSize string

	drawing bool
	start   viewport.Point // world

	panning  bool
	startPan viewport.Point // screen

	penPoints []shape.Point

	resizing     bool
	corner       geometry.Corner
	resizeBase   shape.Shape
	resizeBounds geometry.Rect

	selectionRect *geometry.Rect
	borderBounds  *geometry.Rect
}

// New builds an editor around a viewport and a sync client. The client
// works unconnected, so offline drawing needs no special casing.
func New(vp *viewport.Viewport, sync *client.Client) *Editor {
	return &Editor{
		vp:   vp,
		sync: sync,
		tool: shape.ToolSelection,
		style: shape.Style{
			StrokeColor: shape.StrokeColors[0],
			BgColor:     shape.BackgroundColors[0],
			StrokeWidth: shape.StrokeWidths[0],
			StrokeStyle: shape.StrokeStyles[0],
			Radius:      shape.Edges[0],
		},
		textSize: "M",
	}
}

func (e *Editor) Store() *store.Store          { return e.sync.Store() }
func (e *Editor) Viewport() *viewport.Viewport { return e.vp }

func (e *Editor) Tool() shape.Tool         { return e.tool }
func (e *Editor) SetTool(t shape.Tool)     { e.tool = t }
func (e *Editor) SetStyle(s shape.Style)   { e.style = s }
func (e *Editor) SetTextSize(label string) { e.textSize = label }

// SelectionRect exposes the transient drag-selection overlay. It is not
// a shape and never enters the store.
func (e *Editor) SelectionRect() (geometry.Rect, bool) {
	if e.selectionRect == nil {
		return geometry.Rect{}, false
	}
	return *e.selectionRect, true
}

// SetBorderBounds records the selection border rectangle computed by the
// renderer, which handle hit-testing runs against.
func (e *Editor) SetBorderBounds(r geometry.Rect) { e.borderBounds = &r }

// Zoom steps the viewport zoom around an optional focal point.
func (e *Editor) Zoom(in bool, focal *viewport.Point) { e.vp.Zoom(in, focal) }

// PointerDown begins a gesture: handle grab, selection hit, pan start,
// pen capture or drag creation.
func (e *Editor) PointerDown(ctx context.Context, screen viewport.Point) {
	world := e.vp.ScreenToWorld(screen)

	if e.tool == shape.ToolSelection {
		e.handleSelect(ctx, world)
	}

	e.start = world

	if sel, ok := e.Store().Selected(); ok && e.resizing {
		e.resizeBase = sel
		if box, ok := geometry.BoundingBox(sel); ok {
			e.resizeBounds = box
		}
	}

	switch e.tool {
	case shape.ToolHand:
		e.panning = true
		e.startPan = screen
		return
	case shape.ToolPen:
		e.penPoints = []shape.Point{{X: world.X, Y: world.Y, Pressure: shape.DefaultPressure}}
	}

	e.drawing = true
}

// handleSelect resolves a pointer press while the selection tool is
// active: first the corner handles of the current selection, then a
// z-order hit-test over the shapes. Handle priority is top-left,
// bottom-left, top-right, bottom-right.
func (e *Editor) handleSelect(ctx context.Context, world viewport.Point) {
	if e.borderBounds != nil {
		if corner, ok := geometry.HandleAt(*e.borderBounds, world.X, world.Y); ok {
			e.corner = corner
			e.resizing = true
			return
		}
	}

	_, hadSelection := e.Store().Selected()
	hit, ok := geometry.HitTest(e.Store().Shapes(), world.X, world.Y)
	if !ok {
		e.Store().Select("")
		e.borderBounds = nil
	} else if hadSelection {
		// Only an already-active selection broadcasts the change.
		e.sync.SelectShape(ctx, hit.ID)
	} else {
		e.Store().Select(hit.ID)
	}
	e.resizing = false
}

// PointerMove continues the active gesture and feeds the cursor channel.
func (e *Editor) PointerMove(ctx context.Context, screen viewport.Point) {
	world := e.vp.ScreenToWorld(screen)
	e.sync.SendCursor(ctx, world)

	if e.panning {
		e.vp.PanBy(screen.X-e.startPan.X, screen.Y-e.startPan.Y)
		e.startPan = screen
		return
	}

	moved := math.Abs(world.X-e.start.X) > dragThreshold || math.Abs(world.Y-e.start.Y) > dragThreshold

	if e.resizing && e.corner != "" && moved {
		if _, ok := e.Store().Selected(); ok {
			updated := geometry.Resize(e.resizeBase, e.resizeBounds, e.corner, world.X, world.Y)
			e.sync.ResizeShape(ctx, updated)
		}
		return
	}

	if !e.drawing {
		return
	}

	switch e.tool {
	case shape.ToolSelection:
		r := geometry.NormalizeRect(e.start.X, e.start.Y, world.X, world.Y)
		e.selectionRect = &r
	case shape.ToolPen:
		e.penPoints = append(e.penPoints, shape.Point{X: world.X, Y: world.Y, Pressure: shape.DefaultPressure})
	}
}

// PenPoints exposes the in-progress stroke for preview rendering.
func (e *Editor) PenPoints() []shape.Point { return e.penPoints }

// PointerUp completes the gesture. Drag creation only commits with
// non-zero movement on both axes; drag tools fall back to the selection
// tool afterwards.
func (e *Editor) PointerUp(ctx context.Context, screen viewport.Point) {
	if e.panning {
		e.panning = false
		return
	}

	e.resizing = false
	e.corner = ""

	if !e.drawing {
		return
	}
	e.drawing = false

	switch e.tool {
	case shape.ToolPen, shape.ToolText, shape.ToolHand:
	default:
		defer func() { e.tool = shape.ToolSelection }()
	}

	end := e.vp.ScreenToWorld(screen)
	if e.start.X == end.X || e.start.Y == end.Y {
		return
	}

	box := geometry.NormalizeRect(e.start.X, e.start.Y, end.X, end.Y)
	userID := e.sync.UserID()

	switch e.tool {
	case shape.ToolSelection:
		e.selectionRect = nil

	case shape.ToolRectangle:
		e.sync.CreateShape(ctx, shape.NewRectangle(userID, box.X, box.Y, box.Width, box.Height, e.style))

	case shape.ToolEllipse:
		e.sync.CreateShape(ctx, shape.NewEllipse(userID, box.X, box.Y, box.Width, box.Height, e.style))

	case shape.ToolDiamond:
		e.sync.CreateShape(ctx, shape.NewDiamond(userID, box.X, box.Y, box.Width, box.Height, e.style))

	case shape.ToolLine, shape.ToolArrow:
		e.sync.CreateShape(ctx, shape.NewLine(e.tool, userID, e.start.X, e.start.Y, end.X, end.Y, e.style))

	case shape.ToolPen:
		e.sync.CreateShape(ctx, shape.NewPen(userID, e.penPoints))
		e.penPoints = nil
	}
}

// CommitText creates a text shape at the given screen position. Empty
// or whitespace-only content commits nothing; either way the tool
// returns to selection.
func (e *Editor) CommitText(ctx context.Context, screen viewport.Point, text string) {
	defer func() { e.tool = shape.ToolSelection }()

	if strings.TrimSpace(text) == "" {
		return
	}
	world := e.vp.ScreenToWorld(screen)
	font := shape.FontSizeFor(e.textSize)
	e.sync.CreateShape(ctx, shape.NewText(e.sync.UserID(), world.X, world.Y, text, font, e.style.StrokeColor))
}
