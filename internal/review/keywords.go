package review

import "regexp"

// Rules is the static classification data injected into the review
// pipeline: ordered keyword sets plus a small number of patterns. Logic
// lives in the classifiers; localization only touches this file.
type Rules struct {
	Greetings []string

	TimeKeywords []string
	TimePatterns []*regexp.Regexp

	IntellectualKeywords    []string
	IntellectualPatterns    []*regexp.Regexp
	NonIntellectualKeywords []string
	QuestionWords           []string
	SubjectivePhrases       []string

	UncertaintyPhrases []string
	ExcludePhrases     []string
	HedgeWords         []string
	UncertainEndings   []string

	RelativeTimeKeywords []string
	YearPatterns         []*regexp.Regexp
}

// DefaultRules returns the built-in rule set (Chinese plus English
// near-equivalents).
func DefaultRules() *Rules {
	return &Rules{
		Greetings: []string{
			"你好", "hello", "hi", "您好", "早上好", "下午好", "晚上好",
			"早安", "晚安", "good morning", "good afternoon", "good evening",
			"good night", "嗨", "hey", "哈喽", "哈罗", "喂", "在吗",
			"在不在", "有人吗", "请问", "打扰了", "不好意思", "excuse me",
			"sorry", "谢谢", "thank you", "thanks", "再见", "bye", "goodbye",
			"拜拜", "回见", "see you", "怎么样", "how are you", "最近怎么样",
			"近来可好", "还好吗", "一切都好吗", "身体好吗",
		},

		TimeKeywords: []string{
			// direct temporal nouns
			"今天", "明天", "昨天", "现在", "当前",
			"今日", "明日", "昨日", "本日", "今晚",
			// date questions
			"日期", "几号", "号数", "多少号",
			"年月日", "月份", "年份",
			// clock-time questions
			"时间", "几点", "点钟", "现在时间",
			"当前时间", "现在几点", "什么时候",
			// weekday questions
			"星期", "礼拜", "周几", "星期几",
			"礼拜几", "今天星期", "今天礼拜",
			// temporal state
			"现在是", "今天是", "当前是",
			"现在几", "今天几", "当前几",
			// English near-equivalents
			"what time", "what day", "what date",
		},
		TimePatterns: compileAll(
			`.*今天.*`, `.*现在.*`, `.*当前.*`,
			`.*几号.*`, `.*几点.*`, `.*星期.*`,
			`.*日期.*`, `.*时间.*`, `.*礼拜.*`,
		),

		IntellectualKeywords: []string{
			// knowledge questions
			"什么是", "what is", "如何", "how to", "how do", "为什么", "why",
			"怎么样", "怎么办", "原理", "定义", "概念", "解释", "说明",
			"介绍", "区别", "差异", "比较", "优缺点", "特点", "特征",
			// technical questions
			"编程", "代码", "python", "java", "javascript", "html", "css",
			"算法", "数据结构", "机器学习", "人工智能", "ai", "ml", "dl",
			"数据库", "sql", "网络", "服务器", "系统", "软件", "硬件",
			// academic questions
			"数学", "物理", "化学", "生物", "历史", "地理", "经济", "政治",
			"哲学", "心理学", "社会学", "文学", "艺术", "科学", "研究",
			// analytical questions
			"分析", "计算", "求解", "证明", "推导", "解决", "方案", "策略",
			"方法", "步骤", "流程", "过程", "原因", "结果", "影响", "效果",
			// information lookup
			"最新", "当前", "现在", "目前", "2020", "2021", "2022", "2023", "2024", "2025",
			"价格", "多少钱", "费用", "成本", "市场", "股票", "汇率", "天气",
			"新闻", "事件", "发生", "时间", "地点", "人物", "公司", "产品",
			// professional domains
			"医学", "法律", "金融", "投资", "管理", "营销", "设计", "工程",
			"建筑", "教育", "培训", "考试", "证书", "资格", "职业", "工作",
		},
		IntellectualPatterns: compileAll(
			`.*是什么.*`, `.*怎么.*`, `.*如何.*`, `.*为什么.*`,
			`.*什么.*`, `.*哪.*`, `.*多少.*`, `.*几.*`,
			`.*能否.*`, `.*可以.*`, `.*应该.*`, `.*需要.*`,
			`.*有没有.*`, `.*是否.*`, `.*会不会.*`, `.*能不能.*`,
			`.*请问.*`, `.*想知道.*`, `.*了解.*`, `.*学习.*`,
		),
		NonIntellectualKeywords: []string{
			// emotional expression
			"开心", "高兴", "快乐", "伤心", "难过", "生气", "愤怒", "担心", "害怕",
			"喜欢", "讨厌", "爱", "恨", "想念", "思念", "感谢", "抱歉", "对不起",
			// small talk
			"聊天", "闲聊", "说话", "陪我", "无聊", "有趣", "好玩", "搞笑",
			"天气真好", "今天心情", "最近怎样", "过得如何", "身体好吗",
			// simple interaction
			"再见", "拜拜", "晚安", "早安", "保重", "加油", "努力", "坚持",
			"祝福", "祝贺", "恭喜", "节日快乐", "生日快乐", "新年快乐",
		},
		QuestionWords: []string{
			"什么", "怎么", "如何", "为什么", "哪", "多少", "几",
			"what", "how", "why", "where", "when", "who",
		},
		SubjectivePhrases: []string{
			"你觉得", "你认为", "你喜欢", "你想", "感觉如何", "怎么样",
		},

		UncertaintyPhrases: []string{
			// direct "I don't know"
			"不知道", "不清楚", "不了解", "不确定", "不太清楚", "不太了解",
			"我不知道", "我不清楚", "我不了解", "我不确定", "我不太清楚",
			// cannot answer
			"无法回答", "不能回答", "无法解答", "不能解答", "无法答复", "不能答复",
			"我无法回答", "我不能回答", "我无法解答", "我不能解答",
			"对不起，我无法回答", "抱歉，我无法回答", "很抱歉，我无法回答",
			"对不起，我不能回答", "抱歉，我不能回答", "很抱歉，我不能回答",
			"cannot answer", "unable to answer", "can't answer", "i cannot answer",
			"i am unable to answer", "i can't answer", "sorry, i cannot answer",
			"sorry, i can't answer", "i'm sorry, i cannot answer",
			// refusal
			"拒绝回答", "不便回答", "不适合回答", "不宜回答", "不方便回答",
			"我拒绝回答", "我不便回答", "我不适合回答", "我不宜回答",
			"refuse to answer", "decline to answer", "not appropriate to answer",
			"i refuse to answer", "i decline to answer", "not suitable to answer",
			// English uncertainty
			"i don't know", "i'm not sure", "i'm uncertain", "not sure",
			"don't know", "unclear", "uncertain", "i have no idea",
			"no idea", "i'm not certain", "not certain", "i can't say",
			// hedging
			"可能", "也许", "大概", "估计", "应该是", "似乎", "好像",
			"据我所知", "据了解", "听说", "据说", "可能是", "或许",
			"maybe", "perhaps", "possibly", "probably", "might be",
			"could be", "seems like", "appears to be", "i think",
			// insufficient information
			"没有足够信息", "没有足够的信息", "信息不足", "缺乏信息", "无法确定", "难以确定",
			"无法给出", "无法提供", "没有相关信息", "缺少数据", "信息有限",
			"insufficient information", "lack of information", "no information",
			"cannot determine", "unable to determine", "cannot provide",
			// needs more information / verification
			"需要更多信息", "需要进一步", "需要查证", "建议查询", "建议搜索",
			"请查询", "请搜索", "请核实", "需要核实", "需要确认",
			"need more information", "need to check", "need to verify",
			"suggest checking", "recommend checking", "please verify",
			// possibly outdated
			"可能已过时", "信息可能过时", "可能不是最新", "需要最新信息",
			"建议查看最新", "可能有变化", "情况可能改变",
			"might be outdated", "information may be outdated", "may have changed",
			"might have changed", "need latest information", "check latest",
			// limited knowledge
			"我的知识有限", "知识有限", "了解有限", "可能有误", "如有错误",
			"仅供参考", "请以实际为准", "建议核实", "请确认",
			"my knowledge is limited", "limited knowledge", "may be incorrect",
			"for reference only", "please verify", "please confirm",
			// speculative
			"我猜测", "我推测", "我认为可能", "估计可能", "大致上",
			"粗略地说", "一般来说", "通常情况下", "在我印象中",
			"i guess", "i assume", "i suppose", "roughly speaking",
			"generally speaking", "typically", "usually", "in my understanding",
			// ethical / content-policy refusal
			"我的目的是", "我不会参与", "我不能参与", "不实信息", "不当信息",
			"有害信息", "违法信息", "不合适的内容", "不适当的内容",
			"my purpose is", "i will not participate", "i cannot participate",
			"inappropriate content", "harmful content", "illegal content",
			"misinformation", "false information", "not appropriate",
			// technical capability limits
			"无法访问", "不能访问", "无法连接", "不能连接", "无法获取", "不能获取",
			"无法追踪", "不能追踪", "无法检测", "不能检测", "无法查看", "不能查看",
			"无法读取", "不能读取", "无法浏览", "不能浏览", "无法打开", "不能打开",
			"我无法访问", "我不能访问", "我无法连接", "我不能连接",
			"我无法追踪", "我不能追踪", "我无法检测", "我不能检测",
			"我是一个文本模型", "我是文本模型", "作为文本模型", "作为AI模型",
			"我是AI助手", "作为AI助手", "我没有能力", "我不具备能力",
			"cannot access", "unable to access", "can't access", "cannot connect",
			"unable to connect", "can't connect", "cannot track", "unable to track",
			"can't track", "cannot browse", "unable to browse", "can't browse",
			"i cannot access", "i am unable to access", "i can't access",
			"i cannot connect", "i am unable to connect", "i can't connect",
			"i am a text model", "i am an ai model", "as an ai model",
			"as a text model", "i don't have the ability", "i lack the ability",
			// image / visual limits
			"无法提供图片", "不能提供图片", "无法生成图片", "不能生成图片",
			"无法显示图片", "不能显示图片", "无法创建图片", "不能创建图片",
			"无法处理图片", "不能处理图片", "没有图片功能", "无图片生成功能",
			"无法提供视觉", "不能提供视觉", "无法处理视觉", "不能处理视觉",
			"目前我无法提供图片", "目前无法提供图片", "我无法生成图片",
			"我不能显示图片", "作为文本AI无法", "作为语言模型无法",
			// multimedia limits
			"无法播放", "不能播放", "无法显示视频", "不能显示视频",
			"无法处理音频", "不能处理音频", "无法生成音频", "不能生成音频",
			// realtime / connectivity limits
			"无法获取实时", "不能获取实时", "无法访问实时", "不能访问实时",
			"无法联网", "不能联网", "无法上网", "不能上网",
		},
		ExcludePhrases: []string{
			"通常情况下", "一般来说", "通常", "一般而言", "generally", "usually", "typically",
		},
		HedgeWords: []string{
			"可能", "也许", "大概", "估计", "maybe", "perhaps", "possibly", "probably",
		},
		UncertainEndings: []string{
			"不太确定", "不太清楚", "可能有误", "仅供参考", "请核实",
			"建议查证", "需要确认", "可能不准确", "请以实际为准",
			"not sure", "not certain", "may be wrong", "please verify",
			"please check", "for reference only", "need confirmation",
		},

		RelativeTimeKeywords: []string{
			"去年", "今年", "明年", "上年", "本年", "下年",
			"最近", "近期", "当前", "目前", "现在",
			"最新", "新发布", "刚刚", "刚发布",
			"最近几年", "近几年", "过去几年",
		},
		YearPatterns: compileAll(
			// bare and suffixed years: 2019年, 2020
			`(\d{4})\s*年`,
			`\b(\d{4})\b`,
			// year + month, ISO-like dates
			`(\d{4})\s*年\s*\d+\s*月`,
			`(\d{4})-\d{1,2}-\d{1,2}`,
			`(\d{4})/\d{1,2}/\d{1,2}`,
			// month-name + year: January 2024
			`[A-Za-z]+\s+(\d{4})`,
			// year ranges: 2020-2024, 2019至2023
			`(\d{4})\s*[-至到]\s*(\d{4})`,
			// quarters: 2024年第一季度, 2023年Q1
			`(\d{4})\s*年\s*第[一二三四1234]\s*季度`,
			`(\d{4})\s*年\s*Q[1234]`,
			// publication markers
			`发布于\s*(\d{4})`,
			`更新于\s*(\d{4})`,
			`截至\s*(\d{4})`,
			`自\s*(\d{4})\s*年`,
		),
	}
}

func compileAll(patterns ...string) []*regexp.Regexp {
	res := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		res = append(res, regexp.MustCompile(p))
	}
	return res
}
