package scene

import "testing"

func TestClassifyEmotion(t *testing.T) {
	tests := []struct {
		reply string
		want  string
	}{
		{"わーい！やったー！😄", "喜び"},
		{"もう、ムカつくなぁ…💢", "怒り"},
		{"しょんぼり…寂しいよ", "悲しみ"},
		{"そ、そんなこと言われたら照れちゃう…", "恥ずかしさ"},
		{"えっ、まじで！？", "驚き"},
		{"うーん、どうしようかな", "困惑"},
		{"大好きだよ❤️", "愛情"},
		{"今日はいい天気だね", "自然"},
	}
	for _, tt := range tests {
		got := Classify(tt.reply, nil)
		if got.Emotion.Label != tt.want {
			t.Errorf("Classify(%q) emotion = %q, want %q", tt.reply, got.Emotion.Label, tt.want)
		}
	}
}

func TestClassifyEmotionFirstMatchWins(t *testing.T) {
	// 😊 appears in both the joy and embarrassment rules. Joy is declared
	// first so it must win.
	got := Classify("😊", nil)
	if got.Emotion.Label != "喜び" {
		t.Errorf("emotion = %q, want 喜び", got.Emotion.Label)
	}
}

func TestClassifyScenarioFromReply(t *testing.T) {
	got := Classify("お風呂に入ろうかな", nil)
	if got.Scenario.Label != "バスルーム" {
		t.Errorf("scenario = %q, want バスルーム", got.Scenario.Label)
	}
	if got.Scenario.Fragment != "bathroom setting, steam, water droplets, towel" {
		t.Errorf("fragment = %q", got.Scenario.Fragment)
	}
}

func TestClassifyScenarioUsesContext(t *testing.T) {
	reply := "何か飲んでいる"
	ctx := []string{"海でビーチボール遊び"}

	alone := Classify(reply, nil)
	if alone.Scenario.Label != "室内" {
		t.Errorf("without context scenario = %q, want 室内", alone.Scenario.Label)
	}

	withCtx := Classify(reply, ctx)
	if withCtx.Scenario.Label != "ビーチ" {
		t.Errorf("with context scenario = %q, want ビーチ", withCtx.Scenario.Label)
	}
}

func TestClassifyEmotionIgnoresContext(t *testing.T) {
	// Context lines only influence the scenario axis.
	got := Classify("静かだね", []string{"わーい！やったー！"})
	if got.Emotion.Label != "自然" {
		t.Errorf("emotion = %q, want 自然", got.Emotion.Label)
	}
}

func TestClassifyActionAndExpression(t *testing.T) {
	got := Classify("おはよう！ぎゅっと抱きしめちゃう", nil)
	if got.Action.Label != "挨拶" {
		t.Errorf("action = %q, want 挨拶", got.Action.Label)
	}
	if got.Expression.Label != "抱きしめる" {
		t.Errorf("expression = %q, want 抱きしめる", got.Expression.Label)
	}
}

func TestClassifyDefaults(t *testing.T) {
	got := Classify("hello", nil)
	if got.Emotion.Fragment != "natural expression, gentle look, calm" {
		t.Errorf("emotion fragment = %q", got.Emotion.Fragment)
	}
	if got.Scenario.Fragment != "indoor setting, room background, soft lighting" {
		t.Errorf("scenario fragment = %q", got.Scenario.Fragment)
	}
	if got.Action.Fragment != "natural pose" {
		t.Errorf("action fragment = %q", got.Action.Fragment)
	}
	if got.Expression.Fragment != "natural gesture" {
		t.Errorf("expression fragment = %q", got.Expression.Fragment)
	}
}

func TestClassifyDeterministic(t *testing.T) {
	reply := "海で泳いだあと、嬉しくて笑っちゃった😊"
	ctx := []string{"今日は夏だね"}
	first := Classify(reply, ctx)
	for i := 0; i < 5; i++ {
		if got := Classify(reply, ctx); got != first {
			t.Fatalf("classification changed between runs: %+v vs %+v", got, first)
		}
	}
}
