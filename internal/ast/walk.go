package ast

// Visitor is called for every instruction in depth-first, source order.
// depth is the loop nesting level of the instruction (0 at top level).
// Returning false skips the children of a loop.
type Visitor func(instr Instr, depth int) bool

// Walk visits every instruction of the program
func Walk(p *Program, visit Visitor) {
	walkBody(p.Body, 0, visit)
}

func walkBody(body []Instr, depth int, visit Visitor) {
	for _, instr := range body {
		if !visit(instr, depth) {
			continue
		}
		if loop, ok := instr.(*Loop); ok {
			walkBody(loop.Body, depth+1, visit)
		}
	}
}

// Stats summarises the shape of a program
type Stats struct {
	Counts   map[NodeType]int
	Total    int
	MaxDepth int
}

// CollectStats counts instructions by kind and measures loop nesting
func CollectStats(p *Program) Stats {
	stats := Stats{Counts: make(map[NodeType]int)}
	Walk(p, func(instr Instr, depth int) bool {
		stats.Counts[instr.NodeType()]++
		stats.Total++
		if _, ok := instr.(*Loop); ok && depth+1 > stats.MaxDepth {
			stats.MaxDepth = depth + 1
		}
		return true
	})
	return stats
}
