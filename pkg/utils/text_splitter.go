package utils

// SplitText slices text into windows of at most chunkSize runes, each window
// starting chunkSize-overlap runes after the previous one. maxChunks <= 0
// means no cap.
func SplitText(text string, chunkSize int, overlap int, maxChunks int) []string {
	if text == "" || chunkSize <= 0 {
		return nil
	}

	runes := []rune(text)
	totalLen := len(runes)
	if totalLen <= chunkSize {
		return []string{text}
	}

	step := chunkSize - overlap
	if step <= 0 {
		step = chunkSize // overlap >= chunkSize would never advance
	}

	var chunks []string
	for i := 0; i < totalLen; i += step {
		if maxChunks > 0 && len(chunks) >= maxChunks {
			break
		}

		end := i + chunkSize
		if end > totalLen {
			end = totalLen
		}
		chunks = append(chunks, string(runes[i:end]))

		if end == totalLen {
			break
		}
	}

	return chunks
}
