package target

import "fmt"

// Flatten rewrites structured loops into labels and conditional jumps:
//
//	jz   [ptr+g], endN
//	loopN:
//	  body
//	jnz  [ptr+g], loopN
//	endN:
//
// The result executes the same as the structured program.
func Flatten(program *Program) *Program {
	f := &flattener{}
	flat := &Program{
		TapeSize: program.TapeSize,
		NumTemps: program.NumTemps,
		Setup:    program.Setup,
		Teardown: program.Teardown,
	}
	flat.Body = f.flatten(program.Body, nil)
	return flat
}

type flattener struct {
	loops int
}

func (f *flattener) flatten(body []Stmt, out []Stmt) []Stmt {
	for _, stmt := range body {
		loop, ok := stmt.(*CondLoop)
		if !ok {
			out = append(out, stmt)
			continue
		}

		n := f.loops
		f.loops++
		start := fmt.Sprintf("loop%d", n)
		end := fmt.Sprintf("end%d", n)

		out = append(out, &JumpIfZero{Guard: loop.Guard, Target: end}, &Label{Name: start})
		out = f.flatten(loop.Body, out)
		out = append(out, &JumpIfNonZero{Guard: loop.Guard, Target: start}, &Label{Name: end})
	}
	return out
}
