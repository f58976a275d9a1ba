package main

import (
	"bytes"
	"context"
	"testing"
	"time"

	"bluff-board/internal/dashboard"

	"bluff-board/internal/web"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegionText(t *testing.T) {
	got := regionText("<h2>遊戲紀錄</h2><p>a &amp; b</p><p>&lt;c&gt;</p>")
	assert.Equal(t, "== 遊戲紀錄 ==\n  a & b\n  <c>\n", got)
}

func TestPrintingDocumentPrintsOnlyChanges(t *testing.T) {
	var out bytes.Buffer
	doc := newPrintingDocument(&out)
	regions := []web.RegionHTML{
		{ID: web.RegionPlayers, HTML: "<h2>玩家狀態</h2><p>Ada - 分數: 100 - 角色: </p>"},
		{ID: web.RegionLogs, HTML: "<h2>遊戲紀錄</h2>"},
	}

	require.NoError(t, doc.Replace(regions))
	assert.Contains(t, out.String(), "  Ada - 分數: 100 - 角色: \n")
	printed := out.Len()

	require.NoError(t, doc.Replace(regions))
	assert.Equal(t, printed, out.Len())

	regions[1].HTML = "<h2>遊戲紀錄</h2><p>遊戲開始</p>"
	require.NoError(t, doc.Replace(regions))
	assert.Contains(t, out.String()[printed:], "  遊戲開始\n")
}

func TestPrintingDocumentRejectsUnknownRegion(t *testing.T) {
	var out bytes.Buffer
	doc := newPrintingDocument(&out)
	err := doc.Replace([]web.RegionHTML{{ID: "scores", HTML: "x"}})
	assert.Error(t, err)
	assert.Zero(t, out.Len())
}

type blockingRefresher struct {
	release chan struct{}
}

func (b blockingRefresher) Refresh(ctx context.Context) error {
	<-b.release
	return nil
}

func TestWaitCyclesGivesUpOnStalledRefresh(t *testing.T) {
	refresher := blockingRefresher{release: make(chan struct{})}
	handle := dashboard.NewPoller(refresher, time.Hour).Start(context.Background())
	handle.Stop()
	<-handle.Done()

	start := time.Now()
	assert.False(t, waitCycles(handle, 50*time.Millisecond))
	assert.Less(t, time.Since(start), time.Second)

	close(refresher.release)
	assert.True(t, waitCycles(handle, time.Second))
}
