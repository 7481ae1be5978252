package planner

// Chunk splits keywords into consecutive groups of size n; the last group may
// be shorter. Sizes below 1 are treated as 1. The groups share the backing
// array of keywords.
func Chunk(keywords []string, n int) [][]string {
	if n < 1 {
		n = 1
	}

	chunks := make([][]string, 0, (len(keywords)+n-1)/n)
	for i := 0; i < len(keywords); i += n {
		end := i + n
		if end > len(keywords) {
			end = len(keywords)
		}
		chunks = append(chunks, keywords[i:end:end])
	}
	return chunks
}
