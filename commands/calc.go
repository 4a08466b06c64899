package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/batonkit/baton"
)

// CalcInput is the argument schema for the calc command.
type CalcInput struct {
	Op string  `json:"op" jsonschema:"operation to perform: add, sub, mul, or div"`
	A  float64 `json:"a" jsonschema:"left operand"`
	B  float64 `json:"b" jsonschema:"right operand"`
}

// CalcOutput is the result schema for the calc command.
type CalcOutput struct {
	Result float64 `json:"result"`
}

// Calc returns a command performing four-function arithmetic. Unknown
// operations and division by zero are run failures, which the registry
// reports as command execution errors the model can recover from.
func Calc() baton.Command {
	return must(baton.NewCommand("calc", "Performs basic arithmetic on two operands.",
		func(_ context.Context, in CalcInput) (CalcOutput, error) {
			switch in.Op {
			case "add":
				return CalcOutput{Result: in.A + in.B}, nil
			case "sub":
				return CalcOutput{Result: in.A - in.B}, nil
			case "mul":
				return CalcOutput{Result: in.A * in.B}, nil
			case "div":
				if in.B == 0 {
					return CalcOutput{}, errors.New("division by zero")
				}
				return CalcOutput{Result: in.A / in.B}, nil
			default:
				return CalcOutput{}, fmt.Errorf("unknown operation %q (want add, sub, mul, or div)", in.Op)
			}
		}))
}
