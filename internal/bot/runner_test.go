// internal/bot/runner_test.go
package bot

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/solwatch/screener-bot/internal/config"
	"github.com/solwatch/screener-bot/internal/storage"
	"github.com/solwatch/screener-bot/internal/token"
)

type fakeSource struct {
	addresses []string
	pairs     map[string]*token.Pair
	fetchErr  map[string]error
}

func (f *fakeSource) DiscoverTokens(context.Context) []string {
	return f.addresses
}

func (f *fakeSource) TokenPair(_ context.Context, address string) (*token.Pair, error) {
	if err := f.fetchErr[address]; err != nil {
		return nil, err
	}
	return f.pairs[address], nil
}

type fakeEvaluator struct {
	results map[string]*token.Token
}

func (f *fakeEvaluator) Evaluate(_ context.Context, pair *token.Pair) (*token.Token, error) {
	return f.results[pair.BaseToken.Address], nil
}

type fakeDB struct {
	saved   []*token.Token
	saveErr error
	report  *storage.Report
	closed  bool
}

func (f *fakeDB) SaveToken(_ context.Context, t *token.Token) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, t)
	return nil
}

func (f *fakeDB) Report(context.Context) (*storage.Report, error) {
	if f.report != nil {
		return f.report, nil
	}
	return &storage.Report{StatusCounts: map[token.Status]int{}}, nil
}

func (f *fakeDB) Close() error {
	f.closed = true
	return nil
}

type fakeNotifier struct {
	messages []string
}

func (f *fakeNotifier) Notify(text string) {
	f.messages = append(f.messages, text)
}

func testConfigStore(t *testing.T) *config.Store {
	t.Helper()
	doc := `{
		"api_settings": {
			"dexscreener_api_url": "https://api.dexscreener.com",
			"rugcheck_url": "https://api.rugcheck.xyz/v1/tokens",
			"request_delay": 1
		},
		"telegram_settings": {
			"telegram_bot_token": "token",
			"telegram_chat_id": 123456
		},
		"filters": {},
		"supply_check": {"bundled_threshold": 0.9}
	}`
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	store, err := config.Load(path)
	require.NoError(t, err)
	return store
}

func pairFor(address string) *token.Pair {
	return &token.Pair{BaseToken: &token.BaseToken{Address: address, Name: "Sample", Symbol: "SMPL"}}
}

func TestRunPass(t *testing.T) {
	store := testConfigStore(t)
	accepted := &token.Token{Address: "Mint111", Status: token.StatusDead}

	source := &fakeSource{
		addresses: []string{"Mint111", "Mint222", "Mint333"},
		pairs: map[string]*token.Pair{
			"Mint111": pairFor("Mint111"),
			"Mint222": pairFor("Mint222"),
		},
		fetchErr: map[string]error{"Mint333": errors.New("rate limited")},
	}
	evaluator := &fakeEvaluator{results: map[string]*token.Token{
		"Mint111": accepted,
		// Mint222 evaluates to nil: rejected by the pipeline.
	}}
	db := &fakeDB{report: &storage.Report{
		TotalTokens:  1,
		StatusCounts: map[token.Status]int{token.StatusDead: 1},
	}}
	notifier := &fakeNotifier{}

	runner := NewRunner(&RunnerConfig{
		Store:    store,
		Source:   source,
		Pipeline: evaluator,
		DB:       db,
		Notifier: notifier,
		Logger:   zaptest.NewLogger(t),
	})
	runner.delay = 0

	require.NoError(t, runner.runPass(context.Background()))

	// Only the accepted token is persisted; the fetch error and the rejection
	// are skipped without aborting the pass.
	require.Len(t, db.saved, 1)
	assert.Same(t, accepted, db.saved[0])

	require.Len(t, notifier.messages, 1)
	assert.Contains(t, notifier.messages[0], "Analysis Report")
	assert.Contains(t, notifier.messages[0], `"total_tokens": 1`)
}

func TestRunPassPersistenceFailureAborts(t *testing.T) {
	store := testConfigStore(t)

	source := &fakeSource{
		addresses: []string{"Mint111"},
		pairs:     map[string]*token.Pair{"Mint111": pairFor("Mint111")},
	}
	evaluator := &fakeEvaluator{results: map[string]*token.Token{
		"Mint111": {Address: "Mint111", Status: token.StatusNormal},
	}}
	db := &fakeDB{saveErr: errors.New("disk full")}
	notifier := &fakeNotifier{}

	runner := NewRunner(&RunnerConfig{
		Store:    store,
		Source:   source,
		Pipeline: evaluator,
		DB:       db,
		Notifier: notifier,
		Logger:   zaptest.NewLogger(t),
	})
	runner.delay = 0

	err := runner.runPass(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "persist token Mint111")
	assert.Empty(t, notifier.messages, "no report after an aborted pass")
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	store := testConfigStore(t)
	db := &fakeDB{}
	notifier := &fakeNotifier{}

	runner := NewRunner(&RunnerConfig{
		Store:    store,
		Source:   &fakeSource{},
		Pipeline: &fakeEvaluator{},
		DB:       db,
		Notifier: notifier,
		Logger:   zaptest.NewLogger(t),
	})
	runner.delay = 0

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, runner.Run(ctx))

	require.Len(t, notifier.messages, 2)
	assert.Equal(t, "Screener bot started.", notifier.messages[0])
	assert.Equal(t, "Screener bot stopped.", notifier.messages[1])
}

func TestClose(t *testing.T) {
	db := &fakeDB{}
	runner := NewRunner(&RunnerConfig{
		Store:    testConfigStore(t),
		Source:   &fakeSource{},
		Pipeline: &fakeEvaluator{},
		DB:       db,
		Notifier: &fakeNotifier{},
		Logger:   zaptest.NewLogger(t),
	})
	require.NoError(t, runner.Close())
	assert.True(t, db.closed)
}

func TestFormatReport(t *testing.T) {
	report := &storage.Report{
		TotalTokens: 3,
		StatusCounts: map[token.Status]int{
			token.StatusNormal: 2,
			token.StatusPumped: 1,
		},
		FakeVolumeDetected: 1,
		BundledSupplyCount: 2,
		Blacklisted:        4,
	}

	text := formatReport(report)
	require.Contains(t, text, "Analysis Report")

	var decoded storage.Report
	require.NoError(t, json.Unmarshal([]byte(text[len("Analysis Report: "):]), &decoded))
	assert.Equal(t, report.TotalTokens, decoded.TotalTokens)
	assert.Equal(t, report.Blacklisted, decoded.Blacklisted)
}
