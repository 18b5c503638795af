package domain

// ShapeKind is the shape of a flowchart node
type ShapeKind string

const (
	ShapeStart       ShapeKind = "start"
	ShapeEnd         ShapeKind = "end"
	ShapeProcess     ShapeKind = "process"
	ShapeDecision    ShapeKind = "decision"
	ShapeInput       ShapeKind = "input"
	ShapeOutput      ShapeKind = "output"
	ShapeDocument    ShapeKind = "document"
	ShapeDatabase    ShapeKind = "database"
	ShapePredefined  ShapeKind = "predefined"
	ShapeDelay       ShapeKind = "delay"
	ShapeStoredData  ShapeKind = "stored-data"
	ShapeManualInput ShapeKind = "manual-input"
	ShapeDisplay     ShapeKind = "display"
	ShapePreparation ShapeKind = "preparation"
	ShapeConnector   ShapeKind = "connector"
	ShapeOffPage     ShapeKind = "off-page"
)

// ShapeDefinition holds the defaults a new node of a shape kind starts with
type ShapeDefinition struct {
	Kind         ShapeKind
	Label        string
	Icon         string
	Description  string
	DefaultSize  Size
	DefaultColor string
}

// Shapes is the static shape library. "end" has no entry of its own and
// shares the terminal defaults of "start".
var Shapes = []ShapeDefinition{
	{ShapeStart, "Start/End", "Circle", "Terminal point - Start or end of process", Size{120, 60}, "#10B981"},
	{ShapeProcess, "Process", "Square", "Action or operation step", Size{140, 80}, "#3B82F6"},
	{ShapeDecision, "Decision", "Diamond", "Conditional branch (Yes/No)", Size{140, 100}, "#F59E0B"},
	{ShapeInput, "Input", "Parallelogram", "Data input operation", Size{140, 70}, "#8B5CF6"},
	{ShapeOutput, "Output", "Parallelogram", "Data output operation", Size{140, 70}, "#EC4899"},
	{ShapeDocument, "Document", "FileText", "Document or report", Size{140, 90}, "#06B6D4"},
	{ShapeDatabase, "Database", "Database", "Database storage", Size{140, 90}, "#6366F1"},
	{ShapePredefined, "Predefined", "RectangleHorizontal", "Predefined process (subroutine)", Size{140, 80}, "#84CC16"},
	{ShapeDelay, "Delay", "Clock", "Wait or delay operation", Size{120, 70}, "#F97316"},
	{ShapeStoredData, "Stored Data", "HardDrive", "Data storage", Size{140, 90}, "#14B8A6"},
	{ShapeManualInput, "Manual Input", "Keyboard", "Manual data entry", Size{140, 80}, "#A855F7"},
	{ShapeDisplay, "Display", "Monitor", "Display output", Size{140, 80}, "#E11D48"},
	{ShapePreparation, "Preparation", "Hexagon", "Initialization or preparation", Size{140, 90}, "#0EA5E9"},
	{ShapeConnector, "Connector", "CircleDot", "Connection point within page", Size{50, 50}, "#64748B"},
	{ShapeOffPage, "Off-Page", "ArrowRightToLine", "Connection to another page", Size{100, 60}, "#94A3B8"},
}

var shapeKinds = []ShapeKind{
	ShapeStart, ShapeEnd, ShapeProcess, ShapeDecision, ShapeInput, ShapeOutput,
	ShapeDocument, ShapeDatabase, ShapePredefined, ShapeDelay, ShapeStoredData,
	ShapeManualInput, ShapeDisplay, ShapePreparation, ShapeConnector, ShapeOffPage,
}

// ShapeKinds returns every shape kind in library order
func ShapeKinds() []ShapeKind {
	out := make([]ShapeKind, len(shapeKinds))
	copy(out, shapeKinds)
	return out
}

// Valid reports whether k is a known shape kind
func (k ShapeKind) Valid() bool {
	for _, s := range shapeKinds {
		if s == k {
			return true
		}
	}
	return false
}

// ShapeDefaults returns the definition for k. Unknown kinds fall back to process.
func ShapeDefaults(k ShapeKind) ShapeDefinition {
	if k == ShapeEnd {
		k = ShapeStart
	}
	for _, s := range Shapes {
		if s.Kind == k {
			return s
		}
	}
	return Shapes[1]
}

// BorderStyle is the line style of a border or stroke
type BorderStyle string

const (
	BorderSolid  BorderStyle = "solid"
	BorderDashed BorderStyle = "dashed"
	BorderDotted BorderStyle = "dotted"
)

// Valid reports whether s is a known style
func (s BorderStyle) Valid() bool {
	switch s {
	case BorderSolid, BorderDashed, BorderDotted:
		return true
	}
	return false
}

// NodeData is the styling of a flowchart node
type NodeData struct {
	Label       string      `json:"label"`
	Description string      `json:"description,omitempty"`
	Color       string      `json:"color,omitempty"`
	BorderColor string      `json:"borderColor,omitempty"`
	TextColor   string      `json:"textColor,omitempty"`
	FontSize    float64     `json:"fontSize,omitempty"`
	BorderWidth float64     `json:"borderWidth,omitempty"`
	BorderStyle BorderStyle `json:"borderStyle,omitempty"`
	Opacity     *float64    `json:"opacity,omitempty"`
	Icon        string      `json:"icon,omitempty"`
}

// FlowchartNode is a shape on the flowchart canvas
type FlowchartNode struct {
	ID       string    `json:"id"`
	Type     ShapeKind `json:"type"`
	Position Position  `json:"position"`
	Size     Size      `json:"size"`
	Data     NodeData  `json:"data"`
	Rotation float64   `json:"rotation"`
	ZIndex   int       `json:"zIndex"`
}

// Clone returns a deep copy of the node
func (n FlowchartNode) Clone() FlowchartNode {
	n.Data.Opacity = cloneFloat(n.Data.Opacity)
	return n
}

// EdgeRouting is how a flowchart edge is drawn between its endpoints
type EdgeRouting string

const (
	RoutingSmooth   EdgeRouting = "smooth"
	RoutingStraight EdgeRouting = "straight"
	RoutingStep     EdgeRouting = "step"
	RoutingBezier   EdgeRouting = "bezier"
)

// Valid reports whether r is a known routing style
func (r EdgeRouting) Valid() bool {
	switch r {
	case RoutingSmooth, RoutingStraight, RoutingStep, RoutingBezier:
		return true
	}
	return false
}

// EdgeData is the styling of a flowchart edge
type EdgeData struct {
	Color          string      `json:"color,omitempty"`
	StrokeWidth    float64     `json:"strokeWidth,omitempty"`
	StrokeStyle    BorderStyle `json:"strokeStyle,omitempty"`
	StartArrow     *bool       `json:"startArrow,omitempty"`
	EndArrow       *bool       `json:"endArrow,omitempty"`
	LabelBgColor   string      `json:"labelBgColor,omitempty"`
	LabelTextColor string      `json:"labelTextColor,omitempty"`
}

// FlowchartEdge connects two flowchart nodes
type FlowchartEdge struct {
	ID           string      `json:"id"`
	Source       string      `json:"source"`
	Target       string      `json:"target"`
	Type         EdgeRouting `json:"type"`
	Label        string      `json:"label,omitempty"`
	Data         EdgeData    `json:"data"`
	SourceHandle string      `json:"sourceHandle,omitempty"`
	TargetHandle string      `json:"targetHandle,omitempty"`
}

// Clone returns a deep copy of the edge
func (e FlowchartEdge) Clone() FlowchartEdge {
	e.Data.StartArrow = cloneBool(e.Data.StartArrow)
	e.Data.EndArrow = cloneBool(e.Data.EndArrow)
	return e
}

// Touches reports whether the edge starts or ends at the node
func (e FlowchartEdge) Touches(nodeID string) bool {
	return e.Source == nodeID || e.Target == nodeID
}

// DefaultEdgeData returns the styling new edges start with
func DefaultEdgeData() EdgeData {
	start, end := false, true
	return EdgeData{
		Color:          "#64748B",
		StrokeWidth:    2,
		StrokeStyle:    BorderSolid,
		StartArrow:     &start,
		EndArrow:       &end,
		LabelBgColor:   "#1E293B",
		LabelTextColor: "#F1F5F9",
	}
}

// Merge overlays the non-zero fields of o on top of d
func (d EdgeData) Merge(o EdgeData) EdgeData {
	if o.Color != "" {
		d.Color = o.Color
	}
	if o.StrokeWidth != 0 {
		d.StrokeWidth = o.StrokeWidth
	}
	if o.StrokeStyle != "" {
		d.StrokeStyle = o.StrokeStyle
	}
	if o.StartArrow != nil {
		d.StartArrow = cloneBool(o.StartArrow)
	}
	if o.EndArrow != nil {
		d.EndArrow = cloneBool(o.EndArrow)
	}
	if o.LabelBgColor != "" {
		d.LabelBgColor = o.LabelBgColor
	}
	if o.LabelTextColor != "" {
		d.LabelTextColor = o.LabelTextColor
	}
	return d
}

// NodePatch holds the flowchart node fields to overwrite; nil fields are left unchanged
type NodePatch struct {
	Position *Position
	Size     *Size
	Rotation *float64
	ZIndex   *int
	Data     *NodeDataPatch
}

// Apply merges the patch into n
func (p NodePatch) Apply(n *FlowchartNode) {
	if p.Position != nil {
		n.Position = *p.Position
	}
	if p.Size != nil {
		n.Size = *p.Size
	}
	if p.Rotation != nil {
		n.Rotation = *p.Rotation
	}
	if p.ZIndex != nil {
		n.ZIndex = *p.ZIndex
	}
	if p.Data != nil {
		p.Data.Apply(&n.Data)
	}
}

// NodeDataPatch holds the node styling fields to overwrite
type NodeDataPatch struct {
	Label       *string
	Description *string
	Color       *string
	BorderColor *string
	TextColor   *string
	FontSize    *float64
	BorderWidth *float64
	BorderStyle *BorderStyle
	Opacity     *float64
	Icon        *string
}

// Apply merges the patch into d
func (p NodeDataPatch) Apply(d *NodeData) {
	if p.Label != nil {
		d.Label = *p.Label
	}
	if p.Description != nil {
		d.Description = *p.Description
	}
	if p.Color != nil {
		d.Color = *p.Color
	}
	if p.BorderColor != nil {
		d.BorderColor = *p.BorderColor
	}
	if p.TextColor != nil {
		d.TextColor = *p.TextColor
	}
	if p.FontSize != nil {
		d.FontSize = *p.FontSize
	}
	if p.BorderWidth != nil {
		d.BorderWidth = *p.BorderWidth
	}
	if p.BorderStyle != nil {
		d.BorderStyle = *p.BorderStyle
	}
	if p.Opacity != nil {
		d.Opacity = cloneFloat(p.Opacity)
	}
	if p.Icon != nil {
		d.Icon = *p.Icon
	}
}

// EdgePatch holds the flowchart edge fields to overwrite; nil fields are left unchanged
type EdgePatch struct {
	Type         *EdgeRouting
	Label        *string
	SourceHandle *string
	TargetHandle *string
	Data         *EdgeData
}

// Apply merges the patch into e. Data is overlaid with EdgeData.Merge.
func (p EdgePatch) Apply(e *FlowchartEdge) {
	if p.Type != nil {
		e.Type = *p.Type
	}
	if p.Label != nil {
		e.Label = *p.Label
	}
	if p.SourceHandle != nil {
		e.SourceHandle = *p.SourceHandle
	}
	if p.TargetHandle != nil {
		e.TargetHandle = *p.TargetHandle
	}
	if p.Data != nil {
		e.Data = e.Data.Merge(*p.Data)
	}
}
