package ir

// CopySources returns every local index that value is a transparent copy
// of: a bare Get, a tee's own fallthrough Get (`local.tee $z (local.get $x)`
// reads as a copy of $x, not of $z), or, recursively, an If whose arms are
// both themselves copies. It returns nil when value is not a copy of
// anything, which callers treat as "don't weigh/propagate this".
func CopySources(value Expression) []int {
	switch v := value.(type) {
	case *GetLocal:
		return []int{v.Index}
	case *SetLocal:
		if !v.Tee {
			return nil
		}
		return CopySources(v.Value)
	case *If:
		if v.IfFalse == nil {
			return nil
		}
		t := CopySources(v.IfTrue)
		f := CopySources(v.IfFalse)
		if t == nil || f == nil {
			return nil
		}
		return append(t, f...)
	default:
		return nil
	}
}
