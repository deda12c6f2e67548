package scoring

// KeywordDelta 关键词与其对得分的贡献，按序保存，便于逐项单测。
type KeywordDelta struct {
	Keyword string
	Delta   float64
}

// 费用相关关键词：描述里任意一个出现即认为提案涉及资金支出。
var costKeywords = []string{"spend", "cost", "budget", "fund", "eth", "token"}

var communityPositive = []KeywordDelta{
	{"community", 0.08},
	{"decentralized", 0.08},
	{"transparent", 0.08},
	{"education", 0.08},
	{"growth", 0.08},
	{"sustainable", 0.08},
	{"public", 0.08},
	{"open source", 0.08},
}

var communityNegative = []KeywordDelta{
	{"centralized", -0.15},
	{"exclusive", -0.15},
	{"private", -0.15},
	{"restricted", -0.15},
}

// 高风险词命中不设上限，多个命中线性叠加。
var riskHigh = []KeywordDelta{
	{"risky", -0.2},
	{"experimental", -0.2},
	{"untested", -0.2},
	{"no audit", -0.2},
	{"instant", -0.2},
	{"immediately", -0.2},
}

var riskMedium = []KeywordDelta{
	{"new", -0.05},
	{"change", -0.05},
	{"modify", -0.05},
	{"remove", -0.05},
}

// 低风险词只在描述里找，标题不计。
var riskLow = []KeywordDelta{
	{"audit", 0.1},
	{"tested", 0.1},
	{"proven", 0.1},
	{"standard", 0.1},
	{"established", 0.1},
}

// structureMarkers 在原始描述（保留大小写）里匹配。
var structureMarkers = []string{"##", "###", "1.", "2.", "-"}

var timelineWords = []string{"week", "month", "timeline", "phase"}

var implementationWords = []string{"contract", "audit", "test", "develop"}
