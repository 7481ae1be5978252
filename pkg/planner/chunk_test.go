package planner

import (
	"fmt"
	"reflect"
	"testing"
)

func TestChunk_Example(t *testing.T) {
	got := Chunk([]string{"a", "b", "c"}, 2)
	want := [][]string{{"a", "b"}, {"c"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Chunk() = %q, want %q", got, want)
	}
}

func TestChunk_CountAndConcatenation(t *testing.T) {
	for k := 0; k <= 25; k++ {
		keywords := make([]string, k)
		for i := range keywords {
			keywords[i] = fmt.Sprintf("kw-%d", i)
		}

		for n := 1; n <= 12; n++ {
			chunks := Chunk(keywords, n)

			wantCount := (k + n - 1) / n
			if len(chunks) != wantCount {
				t.Fatalf("k=%d n=%d: got %d chunks, want %d", k, n, len(chunks), wantCount)
			}

			var joined []string
			for i, c := range chunks {
				if len(c) == 0 || len(c) > n {
					t.Fatalf("k=%d n=%d: chunk %d has size %d", k, n, i, len(c))
				}
				if i < len(chunks)-1 && len(c) != n {
					t.Fatalf("k=%d n=%d: non-final chunk %d has size %d", k, n, i, len(c))
				}
				joined = append(joined, c...)
			}
			if k > 0 && !reflect.DeepEqual(joined, keywords) {
				t.Fatalf("k=%d n=%d: concatenation = %q, want %q", k, n, joined, keywords)
			}
		}
	}
}

func TestChunk_NonPositiveSize(t *testing.T) {
	got := Chunk([]string{"a", "b"}, 0)
	want := [][]string{{"a"}, {"b"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Chunk(n=0) = %q, want %q", got, want)
	}
}

func TestChunk_AppendDoesNotClobberNeighbour(t *testing.T) {
	keywords := []string{"a", "b", "c", "d"}
	chunks := Chunk(keywords, 2)

	_ = append(chunks[0], "x")

	if chunks[1][0] != "c" {
		t.Errorf("append to first chunk overwrote second chunk: %q", chunks[1])
	}
}
