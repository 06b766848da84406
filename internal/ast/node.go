package ast

type NodeType int

const (
	ILLEGAL NodeType = iota

	// Cell arithmetic
	INC
	DEC

	// Pointer movement
	MOVE_LEFT
	MOVE_RIGHT

	// Control flow
	LOOP

	// I/O
	IN
	OUT
)

var nodeTypeNames = [...]string{
	ILLEGAL:    "ILLEGAL",
	INC:        "INC",
	DEC:        "DEC",
	MOVE_LEFT:  "MOVE_LEFT",
	MOVE_RIGHT: "MOVE_RIGHT",
	LOOP:       "LOOP",
	IN:         "IN",
	OUT:        "OUT",
}

func (t NodeType) String() string {
	if t < 0 || int(t) >= len(nodeTypeNames) {
		return "NodeType(?)"
	}
	return nodeTypeNames[t]
}

type Node interface {
	NodePos() Position
	NodeType() NodeType
	String() string
}

// Instr is a node of the structured instruction tree. The set of
// implementations is closed: only this package can add one.
type Instr interface {
	Node
	isInstr()
}

func (*Inc) isInstr()       {}
func (*Dec) isInstr()       {}
func (*MoveLeft) isInstr()  {}
func (*MoveRight) isInstr() {}
func (*Loop) isInstr()      {}
func (*In) isInstr()        {}
func (*Out) isInstr()       {}

func (i *Inc) NodePos() Position { return i.Pos }
func (*Inc) NodeType() NodeType  { return INC }

func (d *Dec) NodePos() Position { return d.Pos }
func (*Dec) NodeType() NodeType  { return DEC }

func (m *MoveLeft) NodePos() Position { return m.Pos }
func (*MoveLeft) NodeType() NodeType  { return MOVE_LEFT }

func (m *MoveRight) NodePos() Position { return m.Pos }
func (*MoveRight) NodeType() NodeType  { return MOVE_RIGHT }

func (l *Loop) NodePos() Position { return l.Pos }
func (*Loop) NodeType() NodeType  { return LOOP }

func (i *In) NodePos() Position { return i.Pos }
func (*In) NodeType() NodeType  { return IN }

func (o *Out) NodePos() Position { return o.Pos }
func (*Out) NodeType() NodeType  { return OUT }
