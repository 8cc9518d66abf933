package classify

// stopwordListEN is the EN function-word list used to reject non-entity
// Title-Case tokens (sentence-initial words, etc.). Matched case-insensitively.
var stopwordListEN = []string{
	"a", "an", "the", "and", "or", "but", "nor", "so", "yet", "for",
	"in", "on", "at", "by", "to", "of", "with", "from", "as", "is",
	"are", "was", "were", "be", "been", "being", "this", "that", "these",
	"those", "it", "its", "it's", "they", "them", "their", "he", "she",
	"his", "her", "we", "our", "you", "your", "i", "my", "me", "who",
	"what", "which", "when", "where", "why", "how", "all", "any", "some",
	"no", "not", "only", "own", "same", "than", "too", "very", "just",
	"will", "would", "should", "could", "can", "may", "might", "must",
	"shall", "do", "does", "did", "done", "have", "has", "had", "having",
	"about", "after", "again", "against", "before", "below", "between",
	"both", "during", "each", "few", "further", "here", "there", "into",
	"more", "most", "other", "out", "over", "same", "then", "once",
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday",
	"sunday", "january", "february", "march", "april", "may", "june",
	"july", "august", "september", "october", "november", "december",
	"today", "yesterday", "tomorrow", "new", "latest", "breaking",
	"however",
}

// stopwordListZH is the common CJK function-word list used to reject
// non-entity candidate tokens in Chinese text.
var stopwordListZH = []string{
	"的", "了", "在", "是", "我", "有", "和", "就", "不", "人",
	"都", "一", "一个", "上", "也", "很", "到", "说", "要", "去",
	"你", "会", "着", "没有", "看", "好", "自己", "这", "那", "与",
	"及", "被", "把", "让", "但", "而", "或", "对", "为", "从",
	"将", "已", "还", "又", "其", "此", "之", "等", "并", "于",
}
