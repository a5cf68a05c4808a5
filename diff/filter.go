package diff

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// opEnv is the environment one operation exposes to a filter
// expression.
type opEnv struct {
	Op    string `expr:"op"`
	Path  string `expr:"path"`
	Count int    `expr:"count"`
}

// Filter keeps the operations for which the expression evaluates to
// true. Expressions see op (changed/added/removed), path (the
// $.field[index] form) and count, e.g.
//
//	op == "removed" && path startsWith "$.records"
func Filter(cs ChangeSet, src string) (ChangeSet, error) {
	prg, err := expr.Compile(src, expr.Env(opEnv{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compiling filter %q: %w", src, err)
	}
	var res ChangeSet
	for i := range cs {
		keep, err := runFilter(prg, &cs[i])
		if err != nil {
			return nil, err
		}
		if keep {
			res = append(res, cs[i])
		}
	}
	return res, nil
}

func runFilter(prg *vm.Program, op *Op) (bool, error) {
	env := opEnv{
		Op:    op.Kind.String(),
		Path:  op.Path.String(),
		Count: op.Count,
	}
	out, err := expr.Run(prg, env)
	if err != nil {
		return false, err
	}
	return out.(bool), nil
}
