package matrix_test

import (
	"fmt"

	"github.com/katalvlaran/lowrank/matrix"
)

// ExampleSVD factors a diagonal matrix and prints its singular values.
func ExampleSVD() {
	a, _ := matrix.NewFromRows([][]float64{
		{3, 0},
		{0, -4},
		{0, 0},
	})
	u, s, vt, err := matrix.SVD(a)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(s)
	fmt.Println(u.Rows(), u.Cols(), vt.Rows(), vt.Cols())
	// Output:
	// [4 3]
	// 3 2 2 2
}

// ExampleLU shows that the permuted lower factor times U restores the input.
func ExampleLU() {
	a, _ := matrix.NewFromRows([][]float64{
		{1, 2},
		{4, 1},
		{2, 3},
	})
	pl, u, _ := matrix.LU(a)
	back, _ := matrix.Mul(pl, u)
	ok, _ := matrix.AllClose(back, a, 1e-12, 1e-12)
	fmt.Println(ok)
	// Output:
	// true
}
