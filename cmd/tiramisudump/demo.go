package main

import (
	"github.com/rtohid/tiramisu/pkg/hoststmt"
	"github.com/rtohid/tiramisu/pkg/hoststmt/llvmstmt"
	"github.com/rtohid/tiramisu/pkg/ir"
	"github.com/rtohid/tiramisu/pkg/schedule"
)

// demoOptions selects which scheduling transformations buildDemo applies,
// mirroring the end-to-end scenarios of spec.md §8: scenario 1 (pointwise
// add, no transformations) when both flags are false, scenario 2 (tile +
// parallelize) when tile is set.
type demoOptions struct {
	tile     bool
	parallel bool
}

// buildDemo constructs the "pointwise add" function spec.md §8 scenario 1
// describes: output[i,j] = input[i,j] + cast(u8,i) + 4 over a 10x20 domain,
// with input and output 10x20 buffers of 32-bit integers.
func buildDemo(opts demoOptions) (*ir.Function, hoststmt.Builder, error) {
	fn, err := ir.New("pointwise_add")
	if err != nil {
		return nil, nil, err
	}

	elem := ir.ElementType{Width: 32, Signed: true}

	inputBuf, err := ir.NewBuffer(fn, "input", []int64{10, 20}, elem, ir.Input)
	if err != nil {
		return nil, nil, err
	}

	outputBuf, err := ir.NewBuffer(fn, "output", []int64{10, 20}, elem, ir.Output)
	if err != nil {
		return nil, nil, err
	}

	builder := llvmstmt.NewBuilder()

	i := builder.IterExpr("i")
	j := builder.IterExpr("j")

	flatIndex := builder.Add(builder.Mul(i, builder.ConstExpr(inputBuf.Sizes[1])), j)
	loaded := builder.LoadExpr(inputBuf.Name, flatIndex)
	castI := builder.CastExpr(ir.ElementType{Width: 8}, i)
	body := builder.Add(builder.Add(loaded, castI), builder.ConstExpr(4))

	output, err := ir.NewComputation(fn, "{ S[i,j] : 0 <= i < 10 and 0 <= j < 20 }", body, true, elem)
	if err != nil {
		return nil, nil, err
	}

	if err := schedule.BindTo(output, outputBuf.Name); err != nil {
		return nil, nil, err
	}

	if opts.tile {
		if err := schedule.Tile(output, 0, 1, 2, 2); err != nil {
			return nil, nil, err
		}

		if opts.parallel {
			if err := schedule.TagParallelDimension(output, 0); err != nil {
				return nil, nil, err
			}
		}
	}

	return fn, builder, nil
}
