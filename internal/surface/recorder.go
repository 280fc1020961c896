package surface

import "fmt"

// Op is one recorded drawing call.
type Op struct {
	Name string
	Args []float64
	Text string
}

// Recorder captures drawing calls for assertions in tests and for
// serializing a shape's render into a replayable form.
type Recorder struct {
	Ops []Op
}

func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) record(name string, args ...float64) {
	r.Ops = append(r.Ops, Op{Name: name, Args: args})
}

// Calls returns the recorded op names in order.
func (r *Recorder) Calls() []string {
	names := make([]string, len(r.Ops))
	for i, op := range r.Ops {
		names[i] = op.Name
	}
	return names
}

// Count reports how many times an op was recorded.
func (r *Recorder) Count(name string) int {
	n := 0
	for _, op := range r.Ops {
		if op.Name == name {
			n++
		}
	}
	return n
}

func (r *Recorder) Save()                    { r.record("save") }
func (r *Recorder) Restore()                 { r.record("restore") }
func (r *Recorder) Translate(dx, dy float64) { r.record("translate", dx, dy) }

func (r *Recorder) BeginPath()          { r.record("beginPath") }
func (r *Recorder) MoveTo(x, y float64) { r.record("moveTo", x, y) }
func (r *Recorder) LineTo(x, y float64) { r.record("lineTo", x, y) }
func (r *Recorder) QuadTo(cx, cy, x, y float64) {
	r.record("quadTo", cx, cy, x, y)
}
func (r *Recorder) ArcTo(x1, y1, x2, y2, radius float64) {
	r.record("arcTo", x1, y1, x2, y2, radius)
}
func (r *Recorder) Ellipse(cx, cy, rx, ry, rotation, startAngle, endAngle float64) {
	r.record("ellipse", cx, cy, rx, ry, rotation, startAngle, endAngle)
}
func (r *Recorder) ClosePath() { r.record("closePath") }

func (r *Recorder) SetStrokeStyle(color string, width, dash float64) {
	r.Ops = append(r.Ops, Op{Name: "setStrokeStyle", Args: []float64{width, dash}, Text: color})
}
func (r *Recorder) SetFillStyle(color string) {
	r.Ops = append(r.Ops, Op{Name: "setFillStyle", Text: color})
}
func (r *Recorder) Stroke() { r.record("stroke") }
func (r *Recorder) Fill()   { r.record("fill") }

func (r *Recorder) FillText(text, font, color string, x, y float64) {
	r.Ops = append(r.Ops, Op{Name: "fillText", Args: []float64{x, y}, Text: fmt.Sprintf("%s|%s|%s", text, font, color)})
}
