package article

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBoundaries(t *testing.T) {
	tests := []struct {
		name string
		m    int
		h2   []int
		want [4]int
	}{
		{name: "empty", m: 0, want: [4]int{0, 0, 0, 0}},
		{name: "single block", m: 1, want: [4]int{1, 1, 1, 1}},
		{name: "no headings", m: 5, want: [4]int{1, 2, 4, 5}},
		{name: "one heading", m: 6, h2: []int{2}, want: [4]int{2, 3, 5, 6}},
		{name: "two headings", m: 6, h2: []int{1, 4}, want: [4]int{1, 2, 4, 6}},
		{name: "four headings", m: 10, h2: []int{2, 4, 6, 8}, want: [4]int{2, 6, 8, 10}},
		{name: "headings only", m: 3, h2: []int{0, 1, 2}, want: [4]int{0, 1, 2, 3}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := boundaries(tc.m, tc.h2)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("boundaries mismatch (-want +got):\n%s", diff)
			}
			for i := 1; i < len(got); i++ {
				if got[i] < got[i-1] {
					t.Fatalf("boundaries not monotonic: %v", got)
				}
			}
		})
	}
}
