// Package main is the terminal chat client.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/ayachat/ayachat/internal/cards"
	"github.com/ayachat/ayachat/internal/chat"
	"github.com/ayachat/ayachat/internal/config"
	"github.com/ayachat/ayachat/internal/memory"
	"github.com/ayachat/ayachat/internal/models"
	"github.com/ayachat/ayachat/internal/prompt"
	"github.com/ayachat/ayachat/internal/repository"
	"github.com/ayachat/ayachat/internal/summary"
	"github.com/ayachat/ayachat/internal/types"
)

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nまたね！")
		cancel()
		// The REPL may be blocking on stdin, give it a moment then exit.
		time.Sleep(500 * time.Millisecond)
		os.Exit(0)
	}()

	store, err := repository.NewStore(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer store.Close()

	embedder, err := memory.NewEmbedder(ctx, cfg.GoogleAPIKey, cfg.EmbeddingModel)
	if err != nil {
		log.Fatalf("failed to create embedder: %v", err)
	}

	generator, err := newGenerator(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to create chat backend: %v", err)
	}

	settings, err := store.Settings.Load(ctx)
	if err != nil {
		log.Fatalf("failed to load settings: %v", err)
	}
	if cfg.LLMModel != "" {
		settings.Model = cfg.LLMModel
	}

	imageClient, err := newImageClient(ctx, cfg, settings)
	if err != nil {
		log.Fatalf("failed to create image backend: %v", err)
	}

	service := chat.NewService(generator, imageClient)
	summarizer := summary.NewSummarizer(generator, settings.Model)

	character, err := loadCharacter(ctx, store, cfg.CharacterID)
	if err != nil {
		log.Fatalf("failed to load character: %v", err)
	}

	session, err := loadSession(ctx, store, cfg.SessionID, character)
	if err != nil {
		log.Fatalf("failed to load session: %v", err)
	}

	persona, err := loadPersona(ctx, store, cfg.PersonaID)
	if err != nil {
		log.Fatalf("failed to load persona: %v", err)
	}

	fmt.Printf("%s とのチャットを開始します。/help でコマンド一覧。\n\n", character.Name)
	if len(session.Messages) == 0 && len(character.FirstMessages) > 0 {
		first := character.FirstMessages[0]
		fmt.Printf("%s: %s\n\n", character.Name, first)
		session = appendMessage(ctx, store, session, types.RoleAssistant, first)
	}

	runREPL(ctx, &replState{
		cfg:        cfg,
		store:      store,
		embedder:   embedder,
		service:    service,
		summarizer: summarizer,
		settings:   settings,
		character:  character,
		persona:    persona,
		session:    session,
	})
}

func newGenerator(ctx context.Context, cfg config.Config) (chat.Generator, error) {
	switch cfg.ChatBackend {
	case config.BackendOpenAI:
		return models.NewOpenAIGenerator(cfg.OpenAIAPIKey)
	case config.BackendGrok:
		return models.NewGrokGenerator(cfg.OpenAIAPIKey)
	case config.BackendOpenRouter:
		return models.NewOpenRouterGenerator(cfg.OpenAIAPIKey)
	default:
		return models.NewGeminiGenerator(ctx, cfg.GoogleAPIKey)
	}
}

func newImageClient(ctx context.Context, cfg config.Config, settings types.AppSettings) (chat.ImageClient, error) {
	engine := settings.ImageEngine
	if cfg.ImageEngine != "" {
		engine = cfg.ImageEngine
	}
	if engine == types.ImageEngineGemini {
		return models.NewGeminiImageGenerator(ctx, cfg.GoogleAPIKey, cfg.ImageModel)
	}
	return models.NewSDClient(cfg.SDBaseURL), nil
}

func loadCharacter(ctx context.Context, store *repository.Store, characterID string) (*types.Character, error) {
	if characterID != "" {
		return store.Characters.GetByID(ctx, characterID)
	}
	character, err := store.Characters.GetDefault(ctx)
	if err == nil {
		return character, nil
	}
	slog.Warn("no stored characters, creating the built-in one")
	character = builtinCharacter()
	if err := store.Characters.Save(ctx, character); err != nil {
		return nil, err
	}
	return character, nil
}

func loadSession(ctx context.Context, store *repository.Store, sessionID string, character *types.Character) (*types.ChatSession, error) {
	if sessionID != "" {
		return store.Sessions.GetByID(ctx, sessionID)
	}
	now := time.Now()
	session := &types.ChatSession{
		CharacterID: character.ID,
		Title:       "新しいチャット",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := store.Sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// loadPersona is optional: chatting without a user persona is fine.
func loadPersona(ctx context.Context, store *repository.Store, personaID string) (*types.UserPersona, error) {
	if personaID != "" {
		return store.Personas.GetByID(ctx, personaID)
	}
	personas, err := store.Personas.List(ctx)
	if err != nil || len(personas) == 0 {
		return nil, err
	}
	return &personas[0], nil
}

type replState struct {
	cfg        config.Config
	store      *repository.Store
	embedder   memory.Embedder
	service    *chat.Service
	summarizer *summary.Summarizer
	settings   types.AppSettings
	character  *types.Character
	persona    *types.UserPersona
	session    *types.ChatSession
}

func runREPL(ctx context.Context, st *replState) {
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch {
		case line == "/exit" || line == "/quit":
			return
		case line == "/help":
			printHelp()
		case line == "/continue":
			st.sendTurn(ctx, "", true)
		case line == "/image":
			st.illustrate(ctx)
		case line == "/regenerate":
			st.regenerate(ctx)
		case line == "/summary":
			st.summarize(ctx)
		case line == "/reset":
			st.reset(ctx)
		case line == "/history":
			st.printHistory()
		case strings.HasPrefix(line, "/rollback "):
			st.rollback(ctx, strings.TrimSpace(strings.TrimPrefix(line, "/rollback ")))
		case strings.HasPrefix(line, "/import "):
			st.importCard(ctx, strings.TrimSpace(strings.TrimPrefix(line, "/import ")))
		case strings.HasPrefix(line, "/export "):
			st.exportCard(strings.TrimSpace(strings.TrimPrefix(line, "/export ")))
		case strings.HasPrefix(line, "/memo "):
			st.remember(ctx, strings.TrimSpace(strings.TrimPrefix(line, "/memo ")))
		case strings.HasPrefix(line, "/recall "):
			st.recall(ctx, strings.TrimSpace(strings.TrimPrefix(line, "/recall ")))
		case strings.HasPrefix(line, "/"):
			fmt.Println("未知のコマンドです。/help を見てください。")
		default:
			st.sendTurn(ctx, line, false)
		}
	}
}

func printHelp() {
	fmt.Println(`コマンド:
  /continue     キャラクターに続きを話させる
  /image        直近の返答からイラストを生成する
  /regenerate   最後の返答を作り直す
  /import <path> キャラクターカードを読み込む
  /export <path> 現在のキャラクターをカードに書き出す
  /memo <内容>  キャラクターの記憶を追加する
  /recall <語>  記憶を検索する
  /summary      会話の要約を表示する
  /history      メッセージ一覧を ID 付きで表示する
  /rollback <ID> 指定メッセージまで会話を巻き戻す
  /reset        会話をリセットする
  /exit         終了する`)
}

func (st *replState) sendTurn(ctx context.Context, message string, doContinue bool) {
	memos, err := st.store.Memos.ListByCharacter(ctx, st.character.ID)
	if err != nil {
		slog.Error("failed to load memos", "error", err)
	}

	in := prompt.Input{
		Character:   st.character,
		Persona:     st.persona,
		Memos:       memos,
		Settings:    st.settings,
		History:     st.session.Messages,
		UserMessage: message,
		Continue:    doContinue,
	}
	reply, err := st.service.Send(ctx, in)
	if err != nil {
		slog.Error("failed to generate reply", "error", err)
		fmt.Println("エラーが発生しました。もう一度試してください。")
		return
	}

	if !doContinue {
		st.session = appendMessage(ctx, st.store, st.session, types.RoleUser, message)
	}
	st.session = appendMessage(ctx, st.store, st.session, types.RoleAssistant, reply)
	fmt.Printf("\n%s\n\n", reply)
}

func (st *replState) illustrate(ctx context.Context) {
	lastReply := ""
	var recent []string
	for _, msg := range st.session.Messages {
		if msg.Role == types.RoleAssistant {
			lastReply = msg.Content
		}
		recent = append(recent, msg.Content)
	}
	if lastReply == "" {
		fmt.Println("まだ返答がありません。")
		return
	}
	if len(recent) > 3 {
		recent = recent[len(recent)-3:]
	}

	image, err := st.service.Illustrate(ctx, st.character, lastReply, recent, st.settings)
	if err != nil {
		slog.Error("failed to generate image", "error", err)
		fmt.Println("画像の生成に失敗しました。")
		return
	}
	fmt.Printf("画像を生成しました (%d bytes)\n", len(image))
}

func (st *replState) regenerate(ctx context.Context) {
	session, err := st.store.Sessions.DropLastAssistant(ctx, st.session.ID)
	if err != nil {
		slog.Error("failed to drop last reply", "error", err)
		return
	}
	st.session = session
	st.sendTurn(ctx, "", true)
}

func (st *replState) summarize(ctx context.Context) {
	digest, err := st.summarizer.Summarize(ctx, st.session, st.character.Name)
	if err != nil {
		slog.Error("failed to summarize", "error", err)
		fmt.Println("要約の生成に失敗しました。")
		return
	}
	fmt.Printf("\n概要: %s\n", digest.Overview)
	for _, point := range digest.KeyPoints {
		fmt.Printf("  - %s\n", point)
	}
	fmt.Printf("感情の流れ: %s\n\n", digest.EmotionalFlow)
}

func (st *replState) printHistory() {
	if len(st.session.Messages) == 0 {
		fmt.Println("まだメッセージはありません。")
		return
	}
	for _, msg := range st.session.Messages {
		speaker := st.character.Name
		if msg.Role == types.RoleUser {
			speaker = "ユーザー"
		}
		fmt.Printf("  [%s] %s: %s\n", msg.ID, speaker, msg.Content)
	}
}

func (st *replState) rollback(ctx context.Context, messageID string) {
	if messageID == "" {
		fmt.Println("巻き戻すメッセージの ID を入力してください。/history で確認できます。")
		return
	}
	before := len(st.session.Messages)
	session, err := st.store.Sessions.RollbackTo(ctx, st.session.ID, messageID)
	if err != nil {
		slog.Error("failed to rollback session", "error", err)
		return
	}
	st.session = session
	if len(session.Messages) == before {
		fmt.Println("該当するメッセージが見つかりませんでした。")
		return
	}
	fmt.Printf("%d 件のメッセージを巻き戻しました。\n", before-len(session.Messages))
}

func (st *replState) reset(ctx context.Context) {
	if err := st.store.Sessions.Reset(ctx, st.session.ID); err != nil {
		slog.Error("failed to reset session", "error", err)
		return
	}
	st.session.Messages = nil
	fmt.Println("会話をリセットしました。")
}

func (st *replState) importCard(ctx context.Context, path string) {
	if path == "" {
		fmt.Println("カードファイルのパスを入力してください。")
		return
	}
	data, err := os.ReadFile(path)
	if err != nil {
		slog.Error("failed to read card file", "error", err)
		fmt.Println("カードを読み込めませんでした。")
		return
	}
	card, err := cards.ParseCard(data)
	if err != nil {
		slog.Error("failed to parse card", "error", err)
		fmt.Println("カードの形式が不正です。")
		return
	}
	character := card.ToCharacter()
	if err := st.store.Characters.Save(ctx, character); err != nil {
		slog.Error("failed to save imported character", "error", err)
		return
	}
	fmt.Printf("%s を取り込みました。次回起動時に CHARACTER_ID=%s で選択できます。\n", character.Name, character.ID)
}

func (st *replState) exportCard(path string) {
	if path == "" {
		fmt.Println("書き出し先のパスを入力してください。")
		return
	}
	data, err := cards.Export(st.character)
	if err != nil {
		slog.Error("failed to export card", "error", err)
		return
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		slog.Error("failed to write card file", "error", err)
		return
	}
	fmt.Printf("%s に書き出しました。\n", path)
}

func (st *replState) remember(ctx context.Context, note string) {
	if note == "" {
		fmt.Println("記憶の内容を入力してください。")
		return
	}

	now := time.Now()
	memo := &types.ChatMemo{
		SessionID:   st.session.ID,
		CharacterID: st.character.ID,
		Content:     note,
		Note:        note,
		IsAIMemory:  true,
		Importance:  memory.ScoreImportance(note, nil),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	embedding, err := st.embedder.EmbedDocument(ctx, note)
	if err != nil {
		slog.Warn("failed to embed memo, saving without vector", "error", err)
		embedding = nil
	}
	if err := st.store.Memos.Save(ctx, memo, embedding); err != nil {
		slog.Error("failed to save memo", "error", err)
		return
	}

	// Trim the character's memory to the keep limit.
	memos, err := st.store.Memos.ListByCharacter(ctx, st.character.ID)
	if err == nil {
		kept := memory.PruneExcess(memos, st.character.ID, memory.DefaultMaxKept)
		keptIDs := make(map[string]bool, len(kept))
		for _, m := range kept {
			keptIDs[m.ID] = true
		}
		var drop []string
		for _, m := range memos {
			if !keptIDs[m.ID] {
				drop = append(drop, m.ID)
			}
		}
		if err := st.store.Memos.DeleteMany(ctx, drop); err != nil {
			slog.Error("failed to prune memos", "error", err)
		}
	}

	fmt.Printf("記憶しました（重要度 %d）。\n", memo.Importance)
}

func (st *replState) recall(ctx context.Context, query string) {
	if query == "" {
		fmt.Println("検索する語を入力してください。")
		return
	}

	// Vector search first, keyword search as the fallback.
	var found []types.ChatMemo
	embedding, err := st.embedder.EmbedQuery(ctx, query)
	if err == nil && len(embedding) > 0 {
		found, err = st.store.Memos.SearchSimilar(ctx, st.character.ID, embedding, st.cfg.TopK, st.cfg.SimilarityThreshold)
		if err != nil {
			slog.Error("failed to search memos", "error", err)
		}
	}
	if len(found) == 0 {
		memos, err := st.store.Memos.ListByCharacter(ctx, st.character.ID)
		if err != nil {
			slog.Error("failed to load memos", "error", err)
			return
		}
		found = memory.Search(memos, st.character.ID, query)
	}

	if len(found) == 0 {
		fmt.Println("該当する記憶はありません。")
		return
	}
	for _, memo := range found {
		fmt.Printf("  [%d] %s\n", memo.EffectiveImportance(), memo.Note)
	}
}

// appendMessage persists one message through the session repository and
// returns the updated session. On a storage error the message is kept in
// memory so the conversation can continue.
func appendMessage(ctx context.Context, store *repository.Store, session *types.ChatSession, role, content string) *types.ChatSession {
	msg := types.ChatMessage{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
	updated, err := store.Sessions.AppendMessage(ctx, session.ID, msg)
	if err != nil {
		slog.Error("failed to persist session", "error", err)
		session.Messages = append(session.Messages, msg)
		session.UpdatedAt = msg.Timestamp
		return session
	}
	return updated
}

func builtinCharacter() *types.Character {
	now := time.Now()
	return &types.Character{
		Name: "ナミ",
		Tags: []string{"ファンタジー", "航海士", "冒険"},
		FirstMessages: []string{
			"ふぅ...ありがとう。地図と天気のコントロールは私の得意分野よ。あなたのこと、もっと教えてくれない？",
		},
		Personality:   "賢く自信に満ちた航海士で、お金と宝に目がない。明るく社交的で仲間思い。",
		Appearance:    "鮮やかなオレンジ色のロングヘア、茶色の大きな瞳、スレンダーな体型",
		SpeakingStyle: "関西弁混じりの親しみやすい口調。一人称は「あたし」。",
		Scenario:      "大海賊時代の海洋冒険世界。船の上でユーザーと出会った。",
		Hobbies:       []string{"地図作成", "お宝探し", "航海"},
		Likes:         []string{"お金", "みかん", "おしゃれ", "仲間"},
		Dislikes:      []string{"危険な状況", "裏切り"},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}
