package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/joshuapare/goatmalloc/arena/alloc"
	"github.com/joshuapare/goatmalloc/arena/verify"
)

// OpKind is a script operation.
type OpKind byte

const (
	OpAlloc OpKind = 'a'
	OpFree  OpKind = 'f'
)

// Op is one script step: "a<size>" allocates size bytes, "f<n>" frees the
// n-th allocation of the script (zero-based, counting failed ones too).
type Op struct {
	Kind OpKind
	Arg  int
}

func (o Op) String() string { return fmt.Sprintf("%c%d", o.Kind, o.Arg) }

// ParseScript splits s on whitespace and commas and parses each step.
func ParseScript(s string) ([]Op, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
	ops := make([]Op, 0, len(fields))
	for _, f := range fields {
		if len(f) < 2 {
			return nil, fmt.Errorf("invalid step %q", f)
		}
		kind := OpKind(f[0])
		if kind != OpAlloc && kind != OpFree {
			return nil, fmt.Errorf("invalid step %q: unknown operation %q", f, f[0])
		}
		n, err := strconv.Atoi(f[1:])
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid step %q: bad number", f)
		}
		ops = append(ops, Op{Kind: kind, Arg: n})
	}
	return ops, nil
}

// StepResult records the outcome of one script step.
type StepResult struct {
	Step  string `json:"step"`
	Ref   int    `json:"ref,omitempty"`
	Size  int    `json:"size,omitempty"`
	Error string `json:"error,omitempty"`
}

// RunScript replays ops against al and checks the chunk list after every
// step. Allocation failures are recorded and the script continues; freeing an
// allocation that failed or was already freed is an error, as is any broken
// invariant.
func RunScript(al *alloc.Allocator, ops []Op) ([]StepResult, error) {
	var (
		refs    []int
		ok      []bool
		results = make([]StepResult, 0, len(ops))
	)
	for i, op := range ops {
		res := StepResult{Step: op.String()}
		switch op.Kind {
		case OpAlloc:
			ref, payload, err := al.Alloc(op.Arg)
			refs = append(refs, ref)
			ok = append(ok, err == nil)
			if err != nil {
				if !errors.Is(err, alloc.ErrOutOfMemory) {
					return results, fmt.Errorf("step %d (%s): %w", i, op, err)
				}
				res.Error = err.Error()
			} else {
				res.Ref, res.Size = ref, len(payload)
			}
		case OpFree:
			if op.Arg >= len(refs) {
				return results, fmt.Errorf("step %d (%s): no allocation #%d", i, op, op.Arg)
			}
			if !ok[op.Arg] {
				return results, fmt.Errorf("step %d (%s): allocation #%d failed", i, op, op.Arg)
			}
			res.Ref = refs[op.Arg]
			if err := al.Free(refs[op.Arg]); err != nil {
				return results, fmt.Errorf("step %d (%s): %w", i, op, err)
			}
		}
		results = append(results, res)
		if err := verify.AllInvariants(al.Arena().Bytes()); err != nil {
			return results, fmt.Errorf("step %d (%s): %w", i, op, err)
		}
	}
	return results, nil
}
