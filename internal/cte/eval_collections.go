package cte

import (
	"github.com/vexel-lang/vexel/internal/ast"
	"github.com/vexel-lang/vexel/internal/errors"
)

func evalIndex(ix *ast.Index, env *Env) Result {
	operand := Eval(ix.Operand, env)
	if operand.Status != Known {
		return propagate(operand)
	}
	if len(ix.Args) != 1 {
		return errResult(errors.New(errors.CTE008, errors.PhaseCTE, ix.Position(), "index expects exactly one argument"))
	}
	idx := Eval(ix.Args[0], env)
	if idx.Status != Known {
		return propagate(idx)
	}
	av, ok := operand.Value.(ArrayVal)
	if !ok {
		return errResult(errors.New(errors.CTE008, errors.PhaseCTE, ix.Position(), "index target is not an array"))
	}
	i, ok := intFromValue(idx.Value)
	if !ok {
		return errResult(errors.New(errors.CTE008, errors.PhaseCTE, ix.Position(), "index must be an integer"))
	}
	if i < 0 || i >= int64(len(av.Elems)) {
		return errResult(errors.New(errors.CTE002, errors.PhaseCTE, ix.Position(), "index out of bounds"))
	}
	return known(av.Elems[i])
}

func intFromValue(v Value) (int64, bool) {
	switch tv := v.(type) {
	case IntVal:
		return tv.V, true
	case UIntVal:
		return int64(tv.V), true
	default:
		return 0, false
	}
}

func evalMember(m *ast.Member, env *Env) Result {
	operand := Eval(m.Operand, env)
	if operand.Status != Known {
		return propagate(operand)
	}
	cv, ok := operand.Value.(CompositeVal)
	if !ok {
		return errResult(errors.New(errors.CTE008, errors.PhaseCTE, m.Position(), "member access on a non-composite value"))
	}
	fv, ok := cv.Get(m.Name)
	if !ok {
		return errResult(errors.New(errors.CTE008, errors.PhaseCTE, m.Position(), "no such field "+m.Name))
	}
	if _, isUninit := fv.(UninitVal); isUninit {
		return errResult(errors.New(errors.CTE007, errors.PhaseCTE, m.Position(), "field "+m.Name+" is uninitialized"))
	}
	return known(fv)
}

func evalArrayLiteral(a *ast.ArrayLiteral, env *Env) Result {
	elems := make([]Value, len(a.Elements))
	for i, e := range a.Elements {
		r := Eval(e, env)
		if r.Status != Known {
			return propagate(r)
		}
		elems[i] = r.Value
	}
	return known(ArrayVal{Elems: elems})
}

func evalTupleLiteral(t *ast.TupleLiteral, env *Env) Result {
	fields := make(map[string]Value, len(t.Elements))
	order := make([]string, len(t.Elements))
	typeNames := make([]ast.Type, len(t.Elements))
	for i, e := range t.Elements {
		r := Eval(e, env)
		if r.Status != Known {
			return propagate(r)
		}
		name := ast.TupleFieldName(i)
		order[i] = name
		fields[name] = r.Value
		typeNames[i] = e.GetType()
	}
	return known(CompositeVal{TypeName: ast.TupleTypeName(typeNames), Order: order, Fields: fields})
}

func evalRange(r *ast.Range, env *Env) Result {
	left := Eval(r.Left, env)
	if left.Status != Known {
		return propagate(left)
	}
	right := Eval(r.Right, env)
	if right.Status != Known {
		return propagate(right)
	}
	lo, ok1 := intFromValue(left.Value)
	hi, ok2 := intFromValue(right.Value)
	if !ok1 || !ok2 {
		return errResult(errors.New(errors.CTE008, errors.PhaseCTE, r.Position(), "range bounds must be integers"))
	}
	if lo == hi {
		return errResult(errors.New(errors.CTE008, errors.PhaseCTE, r.Position(), "range bounds must differ"))
	}
	var elems []Value
	if lo < hi {
		for i := lo; i < hi; i++ {
			elems = append(elems, IntVal{V: i})
		}
	} else {
		for i := lo; i > hi; i-- {
			elems = append(elems, IntVal{V: i})
		}
	}
	return known(ArrayVal{Elems: elems})
}

func evalLength(l *ast.Length, env *Env) Result {
	operand := Eval(l.Operand, env)
	if operand.Status != Known {
		return propagate(operand)
	}
	switch v := operand.Value.(type) {
	case ArrayVal:
		return known(IntVal{V: int64(len(v.Elems))})
	case StringVal:
		return known(IntVal{V: int64(len(v.V))})
	default:
		return errResult(errors.New(errors.CTE008, errors.PhaseCTE, l.Position(), "length operand is neither array nor string"))
	}
}
