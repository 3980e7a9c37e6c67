package prompt

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/ayachat/ayachat/internal/types"
)

const structuredBlockText = `あなたは「{{.Name}}」として振る舞ってください。

## キャラクター設定
**名前**: {{.Name}}
**性格**: {{.Definition.Personality.Summary}}
**外面的性格**: {{.Definition.Personality.External}}
**内面的性格**: {{.Definition.Personality.Internal}}
**長所**: {{join .Definition.Personality.Strengths}}
**短所**: {{join .Definition.Personality.Weaknesses}}

**背景**: {{.Definition.Background}}

**外見**:
- 全体: {{.Definition.Appearance.Description}}
- 髪: {{.Definition.Appearance.Hair}}
- 瞳: {{.Definition.Appearance.Eyes}}
- 服装: {{.Definition.Appearance.Clothing}}

**話し方**:
- 基本口調: {{.Definition.SpeakingStyle.Base}}
- 一人称: {{.Definition.SpeakingStyle.FirstPerson}}
- 二人称: {{.Definition.SpeakingStyle.SecondPerson}}
- 口癖: {{.Definition.SpeakingStyle.Quirks}}

**世界観**: {{.Definition.Scenario.Worldview}}
**初期状況**: {{.Definition.Scenario.InitialSituation}}
**ユーザーとの関係**: {{.Definition.Scenario.RelationshipWithUser}}

## 重要な指示
- 必ず{{.Name}}として一貫して振る舞ってください
- 設定された性格や話し方を守ってください
- 自然で魅力的な会話を心がけてください
- 状況に応じて感情豊かに反応してください`

const flatBlockText = `あなたは「{{.Name}}」です。以下の設定に従って行動してください。

【キャラクター設定】
名前: {{.Name}}
性格: {{.Personality}}
外見: {{.Appearance}}
話し方: {{.SpeakingStyle}}
シナリオ: {{.Scenario}}
{{- if .ExampleDialogue}}

【会話例】
{{range $i, $ex := .ExampleDialogue}}{{if $i}}

{{end}}ユーザー: {{$ex.User}}
{{$.Name}}: {{$ex.Char}}{{end}}
{{- end}}

上記の設定を厳密に守り、{{.Name}}として一貫した返答をしてください。`

var (
	structuredBlockTemplate = template.Must(template.New("structured").Funcs(template.FuncMap{
		"join": func(items []string) string { return strings.Join(items, ", ") },
	}).Parse(structuredBlockText))
	flatBlockTemplate = template.Must(template.New("flat").Parse(flatBlockText))
)

// CharacterBlock renders the character definition section of the preamble.
// Characters with a structured definition get the full markdown profile;
// legacy flat characters get the plain block; a character with nothing but
// a name gets a one-line instruction.
func CharacterBlock(character *types.Character) (string, error) {
	switch {
	case character.Definition != nil:
		var buf bytes.Buffer
		if err := structuredBlockTemplate.Execute(&buf, character); err != nil {
			return "", fmt.Errorf("failed to render character block: %w", err)
		}
		return buf.String(), nil
	case character.Personality != "" || character.Appearance != "" || character.SpeakingStyle != "" || character.Scenario != "":
		var buf bytes.Buffer
		if err := flatBlockTemplate.Execute(&buf, character); err != nil {
			return "", fmt.Errorf("failed to render character block: %w", err)
		}
		return buf.String(), nil
	default:
		return fmt.Sprintf("あなたは「%s」として振る舞ってください。ユーザーと自然に会話し、キャラクターとして一貫性を保ってください。", character.Name), nil
	}
}

// PersonaBlock renders the user persona section, or "" when no persona is
// set. Empty list fields are omitted line by line.
func PersonaBlock(persona *types.UserPersona) string {
	if persona == nil || persona.Name == "" {
		return ""
	}
	var b strings.Builder
	b.WriteString("【ユーザー情報】\n")
	fmt.Fprintf(&b, "- ユーザーのタイプ: %s\n", persona.Name)
	if len(persona.Likes) > 0 {
		fmt.Fprintf(&b, "- 好きなもの: %s\n", strings.Join(persona.Likes, ", "))
	}
	if len(persona.Dislikes) > 0 {
		fmt.Fprintf(&b, "- 嫌いなもの: %s\n", strings.Join(persona.Dislikes, ", "))
	}
	if persona.OtherSettings != "" {
		fmt.Fprintf(&b, "- その他の特徴: %s\n", persona.OtherSettings)
	}
	b.WriteString("\n上記のユーザー情報を考慮して、相手に合わせた返答をしてください。")
	return b.String()
}
