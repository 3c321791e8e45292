package quizgen

// DefaultChunkSize is the window length, in characters, used when none is configured.
const DefaultChunkSize = 4000

// splitChunks cuts text into consecutive windows of at most size runes.
func splitChunks(text string, size int) []string {
	if size <= 0 {
		size = DefaultChunkSize
	}
	runes := []rune(text)
	if len(runes) <= size {
		return []string{text}
	}
	chunks := make([]string, 0, (len(runes)+size-1)/size)
	for start := 0; start < len(runes); start += size {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}

// distribute splits total evenly across n chunks, remainder to the last one.
func distribute(total, n int) []int {
	if n <= 0 {
		return nil
	}
	counts := make([]int, n)
	per := total / n
	for i := range counts {
		counts[i] = per
	}
	counts[n-1] += total - per*n
	return counts
}
