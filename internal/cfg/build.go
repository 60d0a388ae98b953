package cfg

import "github.com/wasmforge/wopt/ir"

// Build walks fn's body and constructs its control-flow graph. Every
// GetLocal/SetLocal encountered, anywhere in the tree (including nested
// inside operand position), is recorded as an Action on the block it
// executes in, in evaluation order.
func Build(fn *ir.Function) *Graph {
	b := &builder{
		g:       &Graph{},
		targets: map[string]*BasicBlock{},
	}
	b.g.Entry = b.g.newBlock()
	b.current = b.g.Entry
	if fn.Body != nil {
		b.visit(&fn.Body)
	}
	return b.g
}

type builder struct {
	g       *Graph
	current *BasicBlock
	targets map[string]*BasicBlock
}

// orphan starts a fresh, unlinked block. Used after an unconditional
// transfer of control (br, return, unreachable, br_table): anything that
// follows in the same sequence is unreachable code, and must not be
// attributed to the block that just terminated.
func (b *builder) orphan() {
	b.current = b.g.newBlock()
}

func (b *builder) recordAccess(e ir.Expression, origin *ir.Expression) {
	switch n := e.(type) {
	case *ir.GetLocal:
		b.current.Actions = append(b.current.Actions, Action{Kind: ActionGet, Index: n.Index, Origin: origin})
	case *ir.SetLocal:
		b.current.Actions = append(b.current.Actions, Action{Kind: ActionSet, Index: n.Index, Origin: origin})
	}
}

// visit walks e (held at slot origin), threading b.current through any
// control-flow splits/joins e introduces, and recording every Get/Set it or
// its descendants perform.
func (b *builder) visit(origin *ir.Expression) {
	e := *origin
	if e == nil {
		return
	}

	switch n := e.(type) {
	case *ir.Block:
		b.visitBlock(n)
		return
	case *ir.If:
		b.visitIf(n)
		return
	case *ir.Loop:
		b.visitLoop(n)
		return
	case *ir.Break:
		b.visitBreak(n)
		return
	case *ir.Switch:
		b.visitSwitch(n)
		return
	case *ir.Return:
		if n.Value != nil {
			b.visit(&n.Value)
		}
		b.orphan()
		return
	case *ir.Unreachable:
		b.orphan()
		return
	}

	// Straight-line node: visit children in evaluation order, then record
	// this node's own access (a SetLocal's value is visited before the
	// set itself takes effect).
	for _, child := range e.Children() {
		b.visit(child)
	}
	b.recordAccess(e, origin)
}

func (b *builder) visitBlock(n *ir.Block) {
	var after *BasicBlock
	if n.Name != "" {
		after = b.g.newBlock()
		prev, had := b.targets[n.Name]
		b.targets[n.Name] = after
		defer func() {
			if had {
				b.targets[n.Name] = prev
			} else {
				delete(b.targets, n.Name)
			}
		}()
	}
	for i := range n.List {
		b.visit(&n.List[i])
	}
	if after != nil {
		link(b.current, after)
		b.current = after
	}
}

func (b *builder) visitIf(n *ir.If) {
	b.visit(&n.Condition)
	cond := b.current

	thenBlock := b.g.newBlock()
	link(cond, thenBlock)
	b.current = thenBlock
	b.visit(&n.IfTrue)
	endThen := b.current

	var endElse *BasicBlock
	if n.IfFalse != nil {
		elseBlock := b.g.newBlock()
		link(cond, elseBlock)
		b.current = elseBlock
		b.visit(&n.IfFalse)
		endElse = b.current
	}

	join := b.g.newBlock()
	link(endThen, join)
	if endElse != nil {
		link(endElse, join)
	} else {
		link(cond, join)
	}
	b.current = join
}

func (b *builder) visitLoop(n *ir.Loop) {
	top := b.g.newBlock()
	top.IsLoopTop = true
	link(b.current, top)
	b.current = top

	if n.Name != "" {
		prev, had := b.targets[n.Name]
		b.targets[n.Name] = top
		defer func() {
			if had {
				b.targets[n.Name] = prev
			} else {
				delete(b.targets, n.Name)
			}
		}()
	}

	b.visit(&n.Body)

	after := b.g.newBlock()
	link(b.current, after)
	b.current = after
}

func (b *builder) visitBreak(n *ir.Break) {
	if n.Value != nil {
		b.visit(&n.Value)
	}
	if n.Condition != nil {
		b.visit(&n.Condition)
	}
	target := b.targets[n.Name]
	if target != nil && target.IsLoopTop {
		linkBackEdge(b.current, target)
	} else {
		link(b.current, target)
	}
	if n.Condition == nil {
		// Unconditional: falls through to nothing.
		b.orphan()
	}
	// br_if falls through in the not-taken case; b.current stays live.
}

func (b *builder) visitSwitch(n *ir.Switch) {
	if n.Value != nil {
		b.visit(&n.Value)
	}
	b.visit(&n.Condition)

	seen := map[*BasicBlock]bool{}
	linkTarget := func(name string) {
		target := b.targets[name]
		if target == nil || seen[target] {
			return
		}
		seen[target] = true
		if target.IsLoopTop {
			linkBackEdge(b.current, target)
		} else {
			link(b.current, target)
		}
	}
	for _, name := range n.Names {
		linkTarget(name)
	}
	linkTarget(n.Default)
	b.orphan()
}
