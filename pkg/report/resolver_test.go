package report

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"report-bot-be/internal/entity"
	"report-bot-be/internal/pkg/logger"
	"report-bot-be/pkg/store"
)

type fakeLinks struct {
	urls  map[string]string
	err   error
	calls []string
}

func (f *fakeLinks) LookupDownloadURL(ctx context.Context, name string) (string, error) {
	f.calls = append(f.calls, name)
	if f.err != nil {
		return "", f.err
	}
	return f.urls[name], nil
}

func TestPadCode(t *testing.T) {
	assert.Equal(t, "035", PadCode("35"))
	assert.Equal(t, "005", PadCode("5"))
	assert.Equal(t, "120", PadCode("120"))
	assert.Equal(t, "1234", PadCode("1234"))
}

func TestResolveArtifactName(t *testing.T) {
	got := ResolveArtifactName(store.CategoryOrder, "035", "佐藤", "月次オーダー")
	assert.Equal(t, "035_月次オーダー_佐藤.pdf", got)
}

func TestResolveArtifactNameDepartmentSummary(t *testing.T) {
	got := ResolveArtifactName(store.CategoryPerformance, "035", "佐藤", "部門別実績まとめ")
	assert.Equal(t, "000_部門別実績まとめ.pdf", got)
}

func TestResolveArtifactNameInstructionPassthrough(t *testing.T) {
	assert.Equal(t, "035_作業指示_佐藤.pdf",
		ResolveArtifactName(store.CategoryInstruction, "", "", "035_作業指示_佐藤"))
	assert.Equal(t, "035_作業指示_佐藤.pdf",
		ResolveArtifactName(store.CategoryInstruction, "", "", "035_作業指示_佐藤.pdf"))
}

func TestLookupDirectHit(t *testing.T) {
	links := &fakeLinks{urls: map[string]string{"a.pdf": "https://drive/a"}}
	r := NewResolver(links, logger.NewNopLogger())

	url, err := r.Lookup(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, "https://drive/a", url)
	assert.Equal(t, []string{"a.pdf"}, links.calls)
}

func TestLookupFallsBackToOldExactlyOnce(t *testing.T) {
	links := &fakeLinks{urls: map[string]string{"OLD_a.pdf": "https://drive/old-a"}}
	r := NewResolver(links, logger.NewNopLogger())

	url, err := r.Lookup(context.Background(), "a.pdf")
	require.NoError(t, err)
	assert.Equal(t, "https://drive/old-a", url)
	assert.Equal(t, []string{"a.pdf", "OLD_a.pdf"}, links.calls)
}

func TestLookupMissingEverywhere(t *testing.T) {
	links := &fakeLinks{urls: map[string]string{}}
	r := NewResolver(links, logger.NewNopLogger())

	url, err := r.Lookup(context.Background(), "a.pdf")
	require.NoError(t, err)
	assert.Empty(t, url)
	// No second round of fallbacks, one retry and done.
	assert.Equal(t, []string{"a.pdf", "OLD_a.pdf"}, links.calls)
}

func TestLookupPropagatesErrors(t *testing.T) {
	links := &fakeLinks{err: errors.New("boom")}
	r := NewResolver(links, logger.NewNopLogger())

	_, err := r.Lookup(context.Background(), "a.pdf")
	assert.Error(t, err)
	assert.Len(t, links.calls, 1)
}

func TestGroupByEmployee(t *testing.T) {
	rows := []entity.Report{
		{Name: "35_作業指示_佐藤", WriteDate: "d1"},
		{Name: "035_追加指示_佐藤", WriteDate: "d2"},
		{Name: "120_作業指示_田中", WriteDate: "d3"},
		{Name: "壊れた名前", WriteDate: "d4"},
		{Name: "二つ_だけ", WriteDate: "d5"},
	}
	groups := GroupByEmployee(rows)

	require.Len(t, groups, 2)
	assert.Len(t, groups["035"], 2)
	assert.Equal(t, "作業指示", groups["035"][0].Title)
	assert.Equal(t, "佐藤", groups["035"][0].Employee)
	assert.Len(t, groups["120"], 1)
}

func TestGroupByEmployeeStripsPDFFromName(t *testing.T) {
	groups := GroupByEmployee([]entity.Report{{Name: "035_指示_佐藤.pdf"}})
	require.Len(t, groups["035"], 1)
	assert.Equal(t, "佐藤", groups["035"][0].Employee)
}

func TestEmployeeRefs(t *testing.T) {
	groups := map[string][]Entry{
		"035": {{Employee: "佐藤"}},
		"120": {{Employee: "田中"}},
	}
	refs := EmployeeRefs(groups)
	assert.Len(t, refs, 2)
}
