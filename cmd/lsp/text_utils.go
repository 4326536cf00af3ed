package main

func getLine(content string, lineIndex int) string {
	start := 0
	currentLine := 0

	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			if currentLine == lineIndex {
				return content[start:i]
			}
			start = i + 1
			currentLine++
		}
	}

	if currentLine == lineIndex {
		return content[start:]
	}
	return ""
}

// wordAt returns the identifier under (line, char) and the character
// offset where it starts, or "" and -1.
func wordAt(content string, line, char int) (string, int) {
	lineStr := getLine(content, line)
	if char < 0 || char >= len(lineStr) {
		// A cursor just past the last character still counts.
		if char == len(lineStr) && char > 0 {
			char--
		} else {
			return "", -1
		}
	}

	start := char
	for start > 0 && isIdentifierChar(lineStr[start-1]) {
		start--
	}
	end := char
	for end < len(lineStr) && isIdentifierChar(lineStr[end]) {
		end++
	}

	if start >= end {
		return "", -1
	}
	return lineStr[start:end], start
}

func isIdentifierChar(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9') || b == '_' || b == '$'
}
