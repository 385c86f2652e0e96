package rows

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetect_Scenarios(t *testing.T) {
	tests := []struct {
		name string
		rows []Row
		want []int
	}{
		{
			name: "one repeat",
			rows: []Row{{"a", 1}, {"b", 2}, {"a", 1}},
			want: []int{0, 2},
		},
		{
			name: "three copies",
			rows: []Row{{"a", 1}, {"a", 1}, {"a", 1}},
			want: []int{0, 1, 2},
		},
		{
			name: "differ in second cell",
			rows: []Row{{"a", 1}, {"a", 2}},
			want: []int{},
		},
		{
			name: "differing lengths",
			rows: []Row{{"x"}, {"x", "y"}},
			want: []int{},
		},
		{
			name: "empty input",
			rows: []Row{},
			want: []int{},
		},
		{
			name: "nil input",
			rows: nil,
			want: []int{},
		},
		{
			name: "two independent classes",
			rows: []Row{{"a"}, {"b"}, {"c"}, {"b"}, {"a"}},
			want: []int{0, 1, 3, 4},
		},
		{
			name: "empty rows match each other",
			rows: []Row{{}, {"a"}, {}},
			want: []int{0, 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Detect(tt.rows)
			assert.Equal(t, tt.want, got.Sorted())
		})
	}
}

func TestDetect_CellPolicy(t *testing.T) {
	tests := []struct {
		name  string
		a, b  Row
		equal bool
	}{
		{"number and string never collide", Row{1}, Row{"1"}, false},
		{"nil and empty string differ", Row{nil}, Row{""}, false},
		{"bool and string differ", Row{true}, Row{"TRUE"}, false},
		{"bool and number differ", Row{true}, Row{1}, false},
		{"int and float of same value match", Row{int(1)}, Row{float64(1)}, true},
		{"int64 and uint8 match", Row{int64(7)}, Row{uint8(7)}, true},
		{"negative zero matches zero", Row{math.Copysign(0, -1)}, Row{0.0}, true},
		{"NaN matches NaN", Row{math.NaN()}, Row{math.NaN()}, true},
		{"fractions compare by value", Row{1.5}, Row{1.25}, false},
		{"large integers stay exact", Row{int64(1<<53 + 1)}, Row{int64(1 << 53)}, false},
		{"strings are case sensitive", Row{"A"}, Row{"a"}, false},
		{"delimiter inside a cell does not merge cells", Row{"a,b", "c"}, Row{"a", "b,c"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.equal, Equal(tt.a, tt.b))

			set := Detect([]Row{tt.a, tt.b})
			if tt.equal {
				assert.Equal(t, []int{0, 1}, set.Sorted())
			} else {
				assert.Zero(t, set.Len())
			}
		})
	}
}

func TestDetect_DoesNotMutateInput(t *testing.T) {
	input := []Row{{"a", 1, nil}, {"a", 1, nil}, {"b", true}}
	snapshot := []Row{{"a", 1, nil}, {"a", 1, nil}, {"b", true}}

	Detect(input)

	assert.Equal(t, snapshot, input)
}

func TestDetect_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	alphabet := []Cell{"a", "b", 1, 2.5, true, nil, ""}

	for iter := 0; iter < 200; iter++ {
		n := rng.Intn(30)
		input := make([]Row, n)
		for i := range input {
			width := 1 + rng.Intn(3)
			r := make(Row, width)
			for j := range r {
				r[j] = alphabet[rng.Intn(len(alphabet))]
			}
			input[i] = r
		}

		first := Detect(input)
		second := Detect(input)
		require.Equal(t, first.Sorted(), second.Sorted(), "idempotence")

		for i := range input {
			matches := 0
			for j := range input {
				if i != j && Equal(input[i], input[j]) {
					matches++
					// symmetry: a flagged index implies its partner is flagged
					if first.Has(i) {
						require.True(t, first.Has(j))
					}
				}
			}
			// completeness and no false positives
			require.Equal(t, matches > 0, first.Has(i), "row %d %v", i, input[i])
		}
	}
}

func TestGroups(t *testing.T) {
	input := []Row{{"a"}, {"b"}, {"a"}, {"c"}, {"b"}, {"a"}}

	groups := Groups(input)

	assert.Equal(t, [][]int{{0, 2, 5}, {1, 4}}, groups)
}

func TestUniqueAndFirstOccurrences(t *testing.T) {
	input := []Row{{"a", 1}, {"b", 2}, {"a", 1}, {"c", 3}}
	set := Detect(input)

	assert.Equal(t, []Row{{"b", 2}, {"c", 3}}, Unique(input, set))
	assert.Equal(t, []Row{{"a", 1}, {"b", 2}, {"c", 3}}, FirstOccurrences(input))
}

func TestString(t *testing.T) {
	assert.Equal(t, "", String(nil))
	assert.Equal(t, "TRUE", String(true))
	assert.Equal(t, "1234567.5", String(1234567.5))
	assert.Equal(t, "42", String(42))
	assert.Equal(t, "text", String("text"))
}
