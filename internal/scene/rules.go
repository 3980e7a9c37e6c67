package scene

// Rule maps a keyword set to a category label and an image-generation
// prompt fragment. Rules are scanned in declaration order and the first
// match wins, so order is significant: keyword sets overlap across rules.
type Rule struct {
	Keywords []string
	Label    string
	Fragment string
}

var emotionRules = []Rule{
	{
		Keywords: []string{"嬉しい", "楽しい", "笑", "うふふ", "わーい", "最高", "やったー", "😊", "😄", "🎉"},
		Label:    "喜び",
		Fragment: "happy expression, bright smile, sparkling eyes, cheerful",
	},
	{
		Keywords: []string{"怒", "イライラ", "ムカつく", "プンプン", "許せない", "💢", "😠", "😡"},
		Label:    "怒り",
		Fragment: "angry expression, frowning, furrowed brows, clenched fists",
	},
	{
		Keywords: []string{"悲しい", "泣", "うるうる", "しょんぼり", "寂しい", "😢", "😭", "😔"},
		Label:    "悲しみ",
		Fragment: "sad expression, teary eyes, downcast look, melancholic",
	},
	{
		Keywords: []string{"恥ずかし", "照れ", "もじもじ", "ドキドキ", "赤面", "😳", "😊", "💕"},
		Label:    "恥ずかしさ",
		Fragment: "blushing, shy expression, embarrassed, looking away",
	},
	{
		Keywords: []string{"驚", "びっくり", "えっ", "まじで", "うそ", "😲", "😱", "🤔"},
		Label:    "驚き",
		Fragment: "surprised expression, wide eyes, open mouth, shocked",
	},
	{
		Keywords: []string{"困", "悩", "うーん", "どうしよう", "迷", "😅", "😰", "🤷"},
		Label:    "困惑",
		Fragment: "confused expression, troubled look, thinking pose",
	},
	{
		Keywords: []string{"愛", "好き", "ラブ", "ドキ", "胸きゅん", "💕", "❤️", "😍"},
		Label:    "愛情",
		Fragment: "loving expression, gentle smile, warm eyes, affectionate",
	},
}

var defaultEmotion = Match{Label: "自然", Fragment: "natural expression, gentle look, calm"}

var scenarioRules = []Rule{
	{
		Keywords: []string{"お風呂", "シャワー", "入浴", "温泉", "バスタオル"},
		Label:    "バスルーム",
		Fragment: "bathroom setting, steam, water droplets, towel",
	},
	{
		Keywords: []string{"ベッド", "寝室", "布団", "枕", "寝る", "眠い"},
		Label:    "ベッドルーム",
		Fragment: "bedroom setting, bed, pillows, soft lighting",
	},
	{
		Keywords: []string{"キッチン", "料理", "食事", "ご飯", "コーヒー"},
		Label:    "キッチン",
		Fragment: "kitchen setting, cooking, food preparation",
	},
	{
		Keywords: []string{"外", "散歩", "公園", "街", "外出", "買い物"},
		Label:    "屋外",
		Fragment: "outdoor setting, natural lighting, scenery background",
	},
	{
		Keywords: []string{"学校", "教室", "勉強", "宿題", "制服"},
		Label:    "学校",
		Fragment: "school setting, classroom, desk, school uniform",
	},
	{
		Keywords: []string{"海", "ビーチ", "水着", "泳", "夏"},
		Label:    "ビーチ",
		Fragment: "beach setting, ocean background, summer, swimwear",
	},
	{
		Keywords: []string{"夜", "暗い", "月", "星", "ライト"},
		Label:    "夜",
		Fragment: "night setting, dark atmosphere, moonlight, soft lighting",
	},
}

var defaultScenario = Match{Label: "室内", Fragment: "indoor setting, room background, soft lighting"}

var actionRules = []Rule{
	{
		Keywords: []string{"おはよう", "こんにちは", "こんばんは", "ただいま", "いらっしゃい", "やっほ"},
		Label:    "挨拶",
		Fragment: "waving hand, friendly greeting pose",
	},
	{
		Keywords: []string{"食べ", "もぐもぐ", "いただきます", "おいしい", "ごちそう"},
		Label:    "食事中",
		Fragment: "eating, holding food",
	},
	{
		Keywords: []string{"歩", "散歩", "向かお", "行こう"},
		Label:    "歩く",
		Fragment: "walking, casual stride",
	},
	{
		Keywords: []string{"考え", "どうしよ", "うーん", "悩ん"},
		Label:    "考え中",
		Fragment: "thinking pose, hand on chin",
	},
	{
		Keywords: []string{"笑", "にこ", "ふふ", "くすくす"},
		Label:    "微笑み",
		Fragment: "smiling, cheerful pose",
	},
	{
		Keywords: []string{"見て", "眺め", "じっと", "見つめ"},
		Label:    "見つめる",
		Fragment: "gazing, attentive look",
	},
	{
		Keywords: []string{"座", "椅子", "ソファ", "腰掛け"},
		Label:    "座る",
		Fragment: "sitting",
	},
	{
		Keywords: []string{"立っ", "立ち上が", "起立"},
		Label:    "立つ",
		Fragment: "standing",
	},
}

var defaultAction = Match{Label: "自然", Fragment: "natural pose"}

var expressionRules = []Rule{
	{
		Keywords: []string{"ウインク", "ぱちり"},
		Label:    "ウインク",
		Fragment: "winking",
	},
	{
		Keywords: []string{"うなず", "頷", "うんうん"},
		Label:    "頷く",
		Fragment: "nodding",
	},
	{
		Keywords: []string{"首をかしげ", "きょとん", "はてな"},
		Label:    "首をかしげる",
		Fragment: "tilting head",
	},
	{
		Keywords: []string{"指差", "ほら見て", "あれを見て"},
		Label:    "指差す",
		Fragment: "pointing",
	},
	{
		Keywords: []string{"ぎゅっ", "抱きしめ", "ハグ", "抱きつ"},
		Label:    "抱きしめる",
		Fragment: "hugging",
	},
	{
		Keywords: []string{"だめ", "ストップ", "待って", "やめて"},
		Label:    "制止",
		Fragment: "hand up, stop gesture",
	},
}

var defaultExpression = Match{Label: "自然", Fragment: "natural gesture"}
