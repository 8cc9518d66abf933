// Package text provides text measurement utilities shared by the rewriter
// and the gate evaluators: rune-accurate counting and CJK-density
// measurement over mixed Chinese/English copy.
package text

// CountRunes counts Unicode characters (runes) in text. Byte-length is the
// wrong measure everywhere this pipeline handles Chinese copy, so every
// length floor and ratio goes through rune counting.
//
//	CountRunes("hello")    // 5
//	CountRunes("数据中心")  // 4
//	CountRunes("AI芯片")   // 4
func CountRunes(text string) int {
	return len([]rune(text))
}

// isCJK reports whether r falls in the CJK Unified Ideographs block.
func isCJK(r rune) bool {
	return r >= 0x4E00 && r <= 0x9FFF
}

// CountCJK counts the CJK ideographs in text.
func CountCJK(text string) int {
	n := 0
	for _, r := range text {
		if isCJK(r) {
			n++
		}
	}
	return n
}

// CJKRatio returns CountCJK/CountRunes for text, 0 for empty input. This is
// the zh_ratio definition the newsroom gates evaluate.
func CJKRatio(text string) float64 {
	total := CountRunes(text)
	if total == 0 {
		return 0
	}
	return float64(CountCJK(text)) / float64(total)
}
