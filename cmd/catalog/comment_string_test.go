package catalog

import (
	"testing"
)

func TestCommentString(t *testing.T) {
	tests := []struct {
		intNames, floatNames []string
		order                []int
		sizes                []int
		out                  string
	}{
		{[]string{"A"}, []string{}, []int{0}, []int{1},
			"# Column contents: A(0)"},
		{[]string{}, []string{"A"}, []int{0}, []int{1},
			"# Column contents: A(0)"},
		{[]string{"A"}, []string{}, []int{0}, []int{11},
			"# Column contents: A(0-10)"},
		{[]string{"A"}, []string{"B"}, []int{0, 1}, []int{1, 1},
			"# Column contents: A(0) B(1)"},
		{[]string{"A"}, []string{"B"}, []int{1, 0}, []int{1, 1},
			"# Column contents: B(0) A(1)"},
		{[]string{"A"}, []string{"B"}, []int{0, 1}, []int{1, 2},
			"# Column contents: A(0) B(1-2)"},
		{[]string{"A"}, []string{"B"}, []int{1, 0}, []int{1, 2},
			"# Column contents: B(0-1) A(2)"},
		{[]string{"A", "C"}, []string{"B"}, []int{0, 2, 1}, []int{1, 1, 2},
			"# Column contents: A(0) B(1-2) C(3)"},
	}

	for i, test := range tests {
		out := CommentString(test.intNames,
			test.floatNames, test.order, test.sizes)
		if out != test.out {
			t.Errorf("%d) Expected '%s', got '%s'.", i, test.out, out)
		}
	}
}

func TestFormatParseRoundTrip(t *testing.T) {
	ids := []int64{0, 12, 3}
	masses := []float64{5e14, 2.25e13, 1e14}
	radii := []float64{1500, 400, 900}

	lines := FormatCols([][]int64{ids}, [][]float64{masses, radii},
		[]int{0, 1, 2})
	if len(lines) != 3 {
		t.Fatalf("Expected 3 lines, got %d.", len(lines))
	}

	header := CommentString([]string{"ID"}, []string{"M200c", "R200c"},
		[]int{0, 1, 2}, []int{1, 1, 1})
	text := append([]string{header}, lines...)

	icols, fcols, err := ParseLines(text, []int{0}, []int{1, 2})
	if err != nil {
		t.Fatalf("Parse error: %s", err.Error())
	}

	for i := range ids {
		if icols[0][i] != ids[i] {
			t.Errorf("ID %d parsed as %d.", ids[i], icols[0][i])
		}
		if fcols[0][i] != masses[i] {
			t.Errorf("Mass %g parsed as %g.", masses[i], fcols[0][i])
		}
		if fcols[1][i] != radii[i] {
			t.Errorf("Radius %g parsed as %g.", radii[i], fcols[1][i])
		}
	}
}
