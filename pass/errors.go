// Package pass defines the contract every optimization stage implements and
// the diagnostic error model shared across them (spec 4.13, 7).
package pass

import "fmt"

// Phase names the stage of the pipeline a Diagnostic originated in.
type Phase string

const (
	PhaseCFG         Phase = "cfg"
	PhaseLiveness    Phase = "liveness"
	PhaseEquivalence Phase = "equivalence"
	PhaseCoalesce    Phase = "coalesce"
	PhaseRSE         Phase = "redundant-set-elimination"
	PhaseCopyProp    Phase = "copy-propagation"
	PhaseDeLICM      Phase = "de-licm"
	PhaseReorder     Phase = "reorder"
	PhaseSizeEst     Phase = "size-estimate"
	PhaseABI         Phase = "abi"
)

// Kind classifies how severely a Diagnostic should be treated.
type Kind string

const (
	// KindIRViolation means the input tree broke an invariant the pass
	// assumed held; fatal, aborts the batch.
	KindIRViolation Kind = "ir-violation"
	// KindABIInconsistent means the module's external surface (imports,
	// exports, globals) is in a state no legalization can repair safely;
	// fatal, aborts the batch.
	KindABIInconsistent Kind = "abi-inconsistent"
	// KindOptimizationAborted means this one function could not be safely
	// optimized; non-fatal, the function passes through unmodified.
	KindOptimizationAborted Kind = "optimization-aborted"
)

// Diagnostic is the error type every pass reports through. It carries
// enough context (phase, kind, the function it concerns) for the scheduler
// to decide whether to abort the batch or skip-and-continue.
type Diagnostic struct {
	Phase   Phase
	Kind    Kind
	Func    string
	Detail  string
	Cause   error
}

func (d *Diagnostic) Error() string {
	if d.Func != "" {
		return fmt.Sprintf("%s[%s]: %s: %s", d.Phase, d.Kind, d.Func, d.Detail)
	}
	return fmt.Sprintf("%s[%s]: %s", d.Phase, d.Kind, d.Detail)
}

func (d *Diagnostic) Unwrap() error { return d.Cause }

// Fatal reports whether this diagnostic must abort the whole batch rather
// than just skip the offending function.
func (d *Diagnostic) Fatal() bool {
	return d.Kind == KindIRViolation || d.Kind == KindABIInconsistent
}

// Builder accumulates the fields of a Diagnostic fluently, mirroring the
// teacher's errors.Builder shape.
type Builder struct {
	d Diagnostic
}

func NewBuilder(phase Phase, kind Kind) *Builder {
	return &Builder{d: Diagnostic{Phase: phase, Kind: kind}}
}

func (b *Builder) Func(name string) *Builder {
	b.d.Func = name
	return b
}

func (b *Builder) Detail(format string, args ...any) *Builder {
	b.d.Detail = fmt.Sprintf(format, args...)
	return b
}

func (b *Builder) Cause(err error) *Builder {
	b.d.Cause = err
	return b
}

func (b *Builder) Build() *Diagnostic {
	d := b.d
	return &d
}
