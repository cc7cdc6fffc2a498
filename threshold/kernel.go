package threshold

import "strings"

// Kernel identifies a numeric kernel whose execution strategy is governed by
// a threshold.
type Kernel uint8

// The fixed kernel set. The order is stable and used for iteration.
const (
	AggregateAll Kernel = iota
	ApplyCholesky
	ApplyLU
	AXPY
	FillConjugated
	FillMatchingBoth
	FillMatchingLeft
	FillMatchingRight
	FillMatchingSingle
	FillTransposed
	GenerateApplyAndCopyHouseholderColumn
	GenerateApplyAndCopyHouseholderRow
	HermitianRank2Update
	HouseholderHermitian
	HouseholderLeft
	HouseholderRight
	MAXPY
	ModifyAll
	MultiplyBoth
	MultiplyHermitianAndVector
	MultiplyLeft
	MultiplyRight
	RotateLeft
	RotateRight
	SubstituteBackwards
	SubstituteForwards
	SubtractScaledVector

	numKernels
)

var kernelNames = [numKernels]string{
	AggregateAll:                          "AggregateAll",
	ApplyCholesky:                         "ApplyCholesky",
	ApplyLU:                               "ApplyLU",
	AXPY:                                  "AXPY",
	FillConjugated:                        "FillConjugated",
	FillMatchingBoth:                      "FillMatchingBoth",
	FillMatchingLeft:                      "FillMatchingLeft",
	FillMatchingRight:                     "FillMatchingRight",
	FillMatchingSingle:                    "FillMatchingSingle",
	FillTransposed:                        "FillTransposed",
	GenerateApplyAndCopyHouseholderColumn: "GenerateApplyAndCopyHouseholderColumn",
	GenerateApplyAndCopyHouseholderRow:    "GenerateApplyAndCopyHouseholderRow",
	HermitianRank2Update:                  "HermitianRank2Update",
	HouseholderHermitian:                  "HouseholderHermitian",
	HouseholderLeft:                       "HouseholderLeft",
	HouseholderRight:                      "HouseholderRight",
	MAXPY:                                 "MAXPY",
	ModifyAll:                             "ModifyAll",
	MultiplyBoth:                          "MultiplyBoth",
	MultiplyHermitianAndVector:            "MultiplyHermitianAndVector",
	MultiplyLeft:                          "MultiplyLeft",
	MultiplyRight:                         "MultiplyRight",
	RotateLeft:                            "RotateLeft",
	RotateRight:                           "RotateRight",
	SubstituteBackwards:                   "SubstituteBackwards",
	SubstituteForwards:                    "SubstituteForwards",
	SubtractScaledVector:                  "SubtractScaledVector",
}

// String returns the kernel name.
func (k Kernel) String() string {
	if k >= numKernels {
		return "unknown"
	}
	return kernelNames[k]
}

// Valid reports whether k belongs to the kernel set.
func (k Kernel) Valid() bool {
	return k < numKernels
}

// Kernels returns every kernel in stable order.
func Kernels() []Kernel {
	ks := make([]Kernel, numKernels)
	for i := range ks {
		ks[i] = Kernel(i)
	}
	return ks
}

// ParseKernel looks a kernel up by name, ignoring case.
func ParseKernel(s string) (Kernel, bool) {
	s = strings.TrimSpace(s)
	for i, name := range kernelNames {
		if strings.EqualFold(name, s) {
			return Kernel(i), true
		}
	}
	return 0, false
}
