// SPDX-License-Identifier: MIT

package xsfile_test

import (
	"fmt"
	"os"
	"strings"

	"github.com/katalvlaran/mgxs/xs"
	"github.com/katalvlaran/mgxs/xsfile"
)

// ExampleParse reads a one-group absorber and finalizes it.
func ExampleParse() {
	text := `absorber
NUM_GROUPS 1
SIGMA_T_BEGIN
0 2.0
SIGMA_T_END
`
	in, err := xsfile.Parse(strings.NewReader(text), "absorber.xs")
	if err != nil {
		fmt.Println(err)
		return
	}
	rec, _ := xs.New(in)
	fmt.Println(rec.SigmaA(), rec.IsFissionable())
	// Output: [2] false
}

// ExampleWrite prints the serialization of a pure absorber.
func ExampleWrite() {
	rec, _ := xs.MakeSimple0(1, 2.0)
	_ = xsfile.Write(os.Stdout, rec)
	// Output:
	// NUM_GROUPS 1
	// NUM_MOMENTS 1
	// SIGMA_T_BEGIN
	// 0 2
	// SIGMA_T_END
	// SIGMA_A_BEGIN
	// 0 2
	// SIGMA_A_END
}
