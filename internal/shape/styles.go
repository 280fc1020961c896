package shape

// Toolbar palettes. Indices into these tables are what the picker UI
// hands the core; the core resolves them to concrete values here.
var (
	StrokeColors     = []string{"#000", "#f87171", "#22c55e", "#60a5fa", "#f97316", "#d1d5db"}
	BackgroundColors = []string{"transparent", "#1f2937", "#7f1d1d", "#166534", "#1d4ed8", "#a16207", "#4b5563"}
	StrokeWidths     = []float64{2, 3, 5}
	StrokeStyles     = []float64{0, 3}
	Edges            = []float64{0, 15}
	TextSizes        = []string{"S", "M", "L"}
)

// FontSizeFor maps a text-size label to the CSS font size committed into
// text shapes.
func FontSizeFor(size string) string {
	switch size {
	case "S":
		return "12px"
	case "L":
		return "30px"
	default:
		return "20px"
	}
}
