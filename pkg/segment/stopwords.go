package segment

// stopwords holds function words, particles and domain-generic filler
// that carry no discriminative value for review keyword analysis.
// Single-character entries are already removed by the length filter
// but stay listed so the set stands on its own.
var stopwords = map[string]struct{}{
	// Function words and pronouns
	"的": {}, "了": {}, "在": {}, "是": {}, "我": {}, "有": {}, "和": {}, "就": {},
	"不": {}, "人": {}, "都": {}, "一": {}, "一个": {}, "上": {}, "也": {}, "很": {},
	"到": {}, "说": {}, "要": {}, "去": {}, "你": {}, "会": {}, "着": {}, "没有": {},
	"看": {}, "好": {}, "自己": {}, "这": {}, "那": {}, "么": {}, "为": {}, "这个": {},
	"来": {}, "个": {}, "中": {}, "大": {}, "里": {}, "可": {}, "能": {}, "但": {},
	"而": {}, "与": {}, "给": {}, "对": {}, "被": {}, "从": {}, "还": {}, "让": {},
	"把": {}, "又": {}, "更": {}, "时": {}, "地": {}, "得": {},
	// Modal particles
	"啊": {}, "吧": {}, "呢": {}, "哦": {}, "哈": {}, "嗯": {}, "呀": {}, "啦": {},
	"嘛": {}, "吗": {},
	// Domain-generic filler
	"电影": {}, "影片": {}, "部": {}, "片": {}, "这部": {}, "一部": {},
	"觉得": {}, "感觉": {}, "真的": {},
	// Degree and connective filler
	"太": {}, "挺": {}, "特别": {}, "非常": {}, "十分": {}, "比较": {}, "还是": {},
	"已经": {}, "就是": {}, "可以": {}, "所以": {}, "如果": {}, "虽然": {},
	"因为": {}, "但是": {}, "然后": {}, "最后": {},
	// Whitespace that some segmenters emit as tokens
	"　": {}, " ": {}, "\n": {}, "\t": {}, "\r": {},
}

// IsStopword reports whether the token is excluded from frequency
// analysis by fixed policy.
func IsStopword(token string) bool {
	_, ok := stopwords[token]
	return ok
}
