package shape

import "time"

// Tool identifies a shape variant. The zero value is not a valid tool.
type Tool string

const (
	ToolSelection Tool = "selection"
	ToolRectangle Tool = "rectangle"
	ToolEllipse   Tool = "ellipse"
	ToolLine      Tool = "line"
	ToolArrow     Tool = "arrow"
	ToolDiamond   Tool = "diamond"
	ToolPen       Tool = "pen"
	ToolText      Tool = "text"

	// Tools with no shape variant of their own.
	ToolHand Tool = "hand"
	ToolAI   Tool = "ai"
)

// DefaultPressure is assumed for pen samples that carry no pressure.
const DefaultPressure = 0.5

// Point is one pen sample. Pressure is optional on the wire; zero means
// "not recorded" and readers substitute DefaultPressure.
type Point struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Pressure float64 `json:"pressure,omitempty"`
}

// EffectivePressure returns the recorded pressure or DefaultPressure.
func (p Point) EffectivePressure() float64 {
	if p.Pressure == 0 {
		return DefaultPressure
	}
	return p.Pressure
}

// Shape is the tagged union of all drawable variants. Type selects the
// variant; only the fields belonging to that variant are meaningful, the
// rest stay at their zero value and are omitted on the wire. Every
// variant's bounding box is derivable from its own fields alone.
type Shape struct {
	ID   string `json:"id"`
	Type Tool   `json:"type"`

	X float64 `json:"x,omitempty"`
	Y float64 `json:"y,omitempty"`

	// rectangle, diamond, selection. Width/Height are signed: negative
	// values mean the shape was drawn leftward/upward.
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
	Radius float64 `json:"radius,omitempty"`

	// ellipse. X,Y is the top-left of the bounding box, not the center.
	RadiusX    float64 `json:"radiusX,omitempty"`
	RadiusY    float64 `json:"radiusY,omitempty"`
	Rotation   float64 `json:"rotation,omitempty"`
	StartAngle float64 `json:"startAngle,omitempty"`
	EndAngle   float64 `json:"endAngle,omitempty"`

	// line, arrow: signed delta from the start point to the end point.
	DX float64 `json:"dx,omitempty"`
	DY float64 `json:"dy,omitempty"`

	// pen
	Points []Point `json:"points,omitempty"`

	// text
	Text     string `json:"text,omitempty"`
	FontSize string `json:"fontSize,omitempty"`
	Color    string `json:"color,omitempty"`

	StrokeColor string  `json:"strokeColor,omitempty"`
	BgColor     string  `json:"bgColor,omitempty"`
	FillColor   string  `json:"fillColor,omitempty"`
	StrokeWidth float64 `json:"strokeWidth,omitempty"`
	StrokeStyle float64 `json:"strokeStyle,omitempty"`

	UserID    string     `json:"userId,omitempty"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

// Style carries the toolbar-selected stroke/fill settings a new shape is
// created with.
type Style struct {
	StrokeColor string
	BgColor     string
	StrokeWidth float64
	StrokeStyle float64
	Radius      float64
}

// NewRectangle builds a rectangle from a drag. Width/height keep their
// sign so the drag direction survives round-trips.
func NewRectangle(userID string, x, y, width, height float64, st Style) Shape {
	return Shape{
		ID:          NewID(userID),
		Type:        ToolRectangle,
		X:           x,
		Y:           y,
		Width:       width,
		Height:      height,
		Radius:      st.Radius,
		StrokeColor: st.StrokeColor,
		BgColor:     st.BgColor,
		StrokeWidth: st.StrokeWidth,
		StrokeStyle: st.StrokeStyle,
		UserID:      userID,
	}
}

// NewEllipse builds an ellipse whose bounding box is x,y,width,height.
func NewEllipse(userID string, x, y, width, height float64, st Style) Shape {
	return Shape{
		ID:          NewID(userID),
		Type:        ToolEllipse,
		X:           x,
		Y:           y,
		RadiusX:     width / 2,
		RadiusY:     height / 2,
		StrokeColor: st.StrokeColor,
		BgColor:     st.BgColor,
		StrokeWidth: st.StrokeWidth,
		StrokeStyle: st.StrokeStyle,
		UserID:      userID,
	}
}

// NewDiamond builds a diamond from a drag box.
func NewDiamond(userID string, x, y, width, height float64, st Style) Shape {
	return Shape{
		ID:          NewID(userID),
		Type:        ToolDiamond,
		X:           x,
		Y:           y,
		Width:       width,
		Height:      height,
		StrokeColor: st.StrokeColor,
		BgColor:     st.BgColor,
		StrokeWidth: st.StrokeWidth,
		StrokeStyle: st.StrokeStyle,
		UserID:      userID,
	}
}

// NewLine builds a line or arrow from a start point to an end point.
// tool must be ToolLine or ToolArrow.
func NewLine(tool Tool, userID string, x, y, endX, endY float64, st Style) Shape {
	return Shape{
		ID:          NewID(userID),
		Type:        tool,
		X:           x,
		Y:           y,
		DX:          endX - x,
		DY:          endY - y,
		StrokeColor: st.StrokeColor,
		StrokeWidth: st.StrokeWidth,
		StrokeStyle: st.StrokeStyle,
		UserID:      userID,
	}
}

// NewPen builds a freehand stroke from the captured samples. The slice
// is copied so the caller may keep appending to its buffer.
func NewPen(userID string, points []Point) Shape {
	pts := make([]Point, len(points))
	copy(pts, points)
	return Shape{
		ID:     NewID(userID),
		Type:   ToolPen,
		Points: pts,
		UserID: userID,
	}
}

// NewText builds a committed text shape. Callers must not commit empty
// content; see the store's creation rules.
func NewText(userID string, x, y float64, text, fontSize, color string) Shape {
	return Shape{
		ID:       NewID(userID),
		Type:     ToolText,
		X:        x,
		Y:        y,
		Text:     text,
		FontSize: fontSize,
		Color:    color,
		UserID:   userID,
	}
}
