package expr_test

import (
	"fmt"

	"github.com/scram-go/scram/expr"
)

// ExampleArithmetic demonstrates composing a deterministic expression
// tree (spec §4.1) and reading its current value.
func ExampleArithmetic() {
	mt := expr.NewMissionTime(8760)
	rate := expr.NewConstant(1e-5)
	unavailability := expr.Product(rate, mt)
	fmt.Printf("%.4f\n", unavailability.Value())

	// Output:
	// 0.0876
}
