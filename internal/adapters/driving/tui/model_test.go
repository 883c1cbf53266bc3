package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haneul-labs/chaja-cli/internal/core/domain"
)

type mockSearchService struct {
	results []domain.SearchResult
	err     error
	queries []string
}

func (m *mockSearchService) Search(
	_ context.Context, query string, _ domain.SearchOptions,
) ([]domain.SearchResult, error) {
	m.queries = append(m.queries, query)
	if m.err != nil {
		return nil, m.err
	}
	return m.results, nil
}

type mockEngineService struct {
	count int
}

func (m *mockEngineService) Build(context.Context, []domain.DocumentRef) error { return nil }
func (m *mockEngineService) Add(context.Context, domain.DocumentRef) error     { return nil }
func (m *mockEngineService) Update(context.Context, domain.DocumentRef) error  { return nil }
func (m *mockEngineService) Remove(context.Context, string) error              { return nil }
func (m *mockEngineService) Rename(context.Context, string, domain.DocumentRef) error {
	return nil
}
func (m *mockEngineService) Apply(context.Context, domain.DocumentChange) error { return nil }
func (m *mockEngineService) Count() int                                         { return m.count }
func (m *mockEngineService) Clear(context.Context) error                        { return nil }
func (m *mockEngineService) Settings() domain.Settings                          { return domain.DefaultSettings() }
func (m *mockEngineService) SetThreshold(float64) error                         { return nil }
func (m *mockEngineService) Close() error                                       { return nil }

func testResults() []domain.SearchResult {
	return []domain.SearchResult{
		{
			Ref:      domain.DocumentRef{Path: "/vault/회의록.md", Name: "회의록"},
			Score:    2.07,
			Strategy: domain.StrategyDirect,
			Preview:  "프로젝트 회의록 정리\n다음 줄",
		},
		{
			Ref:      domain.DocumentRef{Path: "/vault/회고.md", Name: "회고"},
			Score:    1.42,
			Strategy: domain.StrategyInitials,
			Preview:  "분기 회고",
		},
	}
}

func newTestModel() (Model, *mockSearchService) {
	search := &mockSearchService{results: testResults()}
	model := New(Ports{
		Search: search,
		Engine: &mockEngineService{count: 12},
	}, "notes")
	return model, search
}

// sized delivers a WindowSizeMsg so the model renders.
func sized(t *testing.T, m Model) Model {
	t.Helper()
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return next.(Model)
}

// typeString feeds runes into the model one keystroke at a time.
func typeString(t *testing.T, m Model, s string) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, r := range s {
		var next tea.Model
		next, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = next.(Model)
	}
	return m, cmd
}

// completed delivers results for the model's current query sequence.
func completed(t *testing.T, m Model, results []domain.SearchResult, err error) Model {
	t.Helper()
	next, _ := m.Update(searchCompleted{seq: m.seq, results: results, err: err})
	return next.(Model)
}

func TestNew_StartsEmpty(t *testing.T) {
	model, _ := newTestModel()

	assert.Equal(t, "", model.Query())
	assert.Equal(t, "", model.Selected())
	assert.Empty(t, model.Results())
	assert.False(t, model.Ready())
}

func TestModel_Init(t *testing.T) {
	model, _ := newTestModel()

	assert.NotNil(t, model.Init())
}

func TestModel_Update_WindowSize(t *testing.T) {
	model, _ := newTestModel()

	model = sized(t, model)

	assert.True(t, model.Ready())
}

func TestModel_TypingUpdatesQueryAndSearches(t *testing.T) {
	model, _ := newTestModel()

	model, cmd := typeString(t, model, "회의")

	assert.Equal(t, "회의", model.Query())
	assert.True(t, model.searching)
	assert.NotNil(t, cmd)
}

func TestModel_SearchCmd_CallsService(t *testing.T) {
	model, search := newTestModel()

	msg := model.search("회의", 3)()

	sc, ok := msg.(searchCompleted)
	require.True(t, ok)
	assert.Equal(t, 3, sc.seq)
	assert.Len(t, sc.results, 2)
	require.NoError(t, sc.err)
	assert.Equal(t, []string{"회의"}, search.queries)
}

func TestModel_SearchCmd_NoService(t *testing.T) {
	model := New(Ports{}, "notes")

	msg := model.search("회의", 1)()

	sc, ok := msg.(searchCompleted)
	require.True(t, ok)
	assert.ErrorIs(t, sc.err, ErrNoSearchService)
}

func TestModel_SearchCompleted_SetsResults(t *testing.T) {
	model, _ := newTestModel()
	model, _ = typeString(t, model, "회의")

	model = completed(t, model, testResults(), nil)

	assert.False(t, model.searching)
	require.Len(t, model.Results(), 2)
	assert.Equal(t, 0, model.SelectedIndex())
	assert.NoError(t, model.Err())
}

func TestModel_SearchCompleted_DropsStaleSequence(t *testing.T) {
	model, _ := newTestModel()
	model, _ = typeString(t, model, "회의")

	next, _ := model.Update(searchCompleted{seq: model.seq - 1, results: testResults()})
	model = next.(Model)

	assert.True(t, model.searching, "stale results must not settle the query")
	assert.Empty(t, model.Results())
}

func TestModel_SearchCompleted_Error(t *testing.T) {
	model, _ := newTestModel()
	model, _ = typeString(t, model, "회의")

	model = completed(t, model, nil, assert.AnError)

	assert.Error(t, model.Err())
	assert.Empty(t, model.Results())
}

func TestModel_ClearingQueryResetsResults(t *testing.T) {
	model, _ := newTestModel()
	model, _ = typeString(t, model, "ㅎ")
	model = completed(t, model, testResults(), nil)

	next, _ := model.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	model = next.(Model)

	assert.Equal(t, "", model.Query())
	assert.Empty(t, model.Results())
	assert.False(t, model.searching)
}

func TestModel_Navigation(t *testing.T) {
	model, _ := newTestModel()
	model, _ = typeString(t, model, "회")
	model = completed(t, model, testResults(), nil)

	next, _ := model.Update(tea.KeyMsg{Type: tea.KeyDown})
	model = next.(Model)
	assert.Equal(t, 1, model.SelectedIndex())

	// Bottom of the list clamps.
	next, _ = model.Update(tea.KeyMsg{Type: tea.KeyCtrlJ})
	model = next.(Model)
	assert.Equal(t, 1, model.SelectedIndex())

	next, _ = model.Update(tea.KeyMsg{Type: tea.KeyCtrlK})
	model = next.(Model)
	assert.Equal(t, 0, model.SelectedIndex())

	// Top of the list clamps.
	next, _ = model.Update(tea.KeyMsg{Type: tea.KeyUp})
	model = next.(Model)
	assert.Equal(t, 0, model.SelectedIndex())
}

func TestModel_EnterSelectsAndQuits(t *testing.T) {
	model, _ := newTestModel()
	model, _ = typeString(t, model, "회")
	model = completed(t, model, testResults(), nil)

	next, _ := model.Update(tea.KeyMsg{Type: tea.KeyDown})
	model = next.(Model)

	next, cmd := model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	model = next.(Model)

	assert.Equal(t, "/vault/회고.md", model.Selected())
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModel_EnterWithoutResultsIsNoop(t *testing.T) {
	model, _ := newTestModel()

	next, cmd := model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	model = next.(Model)

	assert.Equal(t, "", model.Selected())
	assert.Nil(t, cmd)
}

func TestModel_EscQuitsWithoutSelecting(t *testing.T) {
	model, _ := newTestModel()
	model, _ = typeString(t, model, "회")
	model = completed(t, model, testResults(), nil)

	next, cmd := model.Update(tea.KeyMsg{Type: tea.KeyEsc})
	model = next.(Model)

	assert.Equal(t, "", model.Selected())
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModel_View_BeforeReady(t *testing.T) {
	model, _ := newTestModel()

	assert.Equal(t, "Initialising...", model.View())
}

func TestModel_View_IdleShowsDocumentCount(t *testing.T) {
	model, _ := newTestModel()
	model = sized(t, model)

	view := model.View()

	assert.Contains(t, view, "Chaja")
	assert.Contains(t, view, "notes")
	assert.Contains(t, view, "12 documents indexed")
	assert.Contains(t, view, "Ready")
}

func TestModel_View_RendersResults(t *testing.T) {
	model, _ := newTestModel()
	model = sized(t, model)
	model, _ = typeString(t, model, "회")
	model = completed(t, model, testResults(), nil)

	view := model.View()

	assert.Contains(t, view, "회의록")
	assert.Contains(t, view, "2.07 direct")
	assert.Contains(t, view, "회고")
	assert.Contains(t, view, "1.42 initials")
	assert.Contains(t, view, "프로젝트 회의록 정리")
	assert.NotContains(t, view, "다음 줄", "previews collapse to their first line")
	assert.Contains(t, view, "2 results")
	assert.Contains(t, view, "enter: select")
}

func TestModel_View_NoResults(t *testing.T) {
	model, _ := newTestModel()
	model = sized(t, model)
	model, _ = typeString(t, model, "없음")
	model = completed(t, model, nil, nil)

	assert.Contains(t, model.View(), "No results")
}

func TestModel_View_Error(t *testing.T) {
	model, _ := newTestModel()
	model = sized(t, model)
	model, _ = typeString(t, model, "회")
	model = completed(t, model, nil, assert.AnError)

	assert.Contains(t, model.View(), "Error: ")
}

func TestModel_RenderName_HighlightRanges(t *testing.T) {
	model, _ := newTestModel()

	// Ranges are rune offsets; out-of-range ends must not panic.
	rendered := model.renderName("회의록", []domain.MatchRange{
		{Start: 0, End: 1},
		{Start: 2, End: 9},
	})

	assert.Contains(t, rendered, "회의")
	assert.Contains(t, rendered, "록")
}

func TestModel_WithContext(t *testing.T) {
	model, _ := newTestModel()

	type ctxKey string
	ctx := context.WithValue(context.Background(), ctxKey("k"), "v")
	model = model.WithContext(ctx)

	assert.Equal(t, ctx, model.ctx)
}

func TestClip(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		max      int
		expected string
	}{
		{
			name:     "short string passes through",
			input:    "회의록",
			max:      10,
			expected: "회의록",
		},
		{
			name:     "long string gains ellipsis",
			input:    "아주아주아주아주 긴 문서 이름",
			max:      8,
			expected: "아주아주아...",
		},
		{
			name:     "exact length passes through",
			input:    "abcd",
			max:      4,
			expected: "abcd",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, clip(tt.input, tt.max))
		})
	}
}
