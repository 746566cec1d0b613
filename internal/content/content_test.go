package content

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func TestLoadMixedFormats(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "rules.json", `[{"id":"r1","title":"ゴミ出し","description":"火曜と金曜"}]`)
	writeFile(t, dir, "sop.yaml", `
- id: airbnb
  platform: Airbnb
  icon: "🏠"
  loginUrl: https://www.airbnb.jp/hosting
  tips: [レビュー返信は24時間以内]
  checkOrder: [予約確認, メッセージ]
`)
	writeFile(t, dir, "templates.json", `[{"id":"t1","title":"チェックイン案内","category":"checkin","platform":["airbnb"],"body":"ようこそ","userAdded":true}]`)
	writeFile(t, dir, "cancellation.yml", `
airbnb:
  note: 柔軟
  policy:
    - {range: "30日前まで", charge: 0, refund: 100}
    - {range: "当日", charge: 100, refund: 0}
`)

	snap, err := NewLoader(dir, nil).Load()
	require.NoError(t, err)

	require.Len(t, snap.Rules, 1)
	assert.Equal(t, "火曜と金曜", snap.Rules[0].Description)
	require.Len(t, snap.SOP, 1)
	assert.Equal(t, "https://www.airbnb.jp/hosting", snap.SOP[0].LoginURL)
	assert.Equal(t, []string{"予約確認", "メッセージ"}, snap.SOP[0].CheckOrder)
	require.Len(t, snap.Templates, 1)
	assert.False(t, snap.Templates[0].UserAdded, "built-in templates are never user-added")
	require.Contains(t, snap.Cancellation, "airbnb")
	assert.Len(t, snap.Cancellation["airbnb"].Policy, 2)
	assert.Equal(t, 100, snap.Cancellation["airbnb"].Policy[1].Charge)
}

func TestLoadMissingFilesGiveEmptyCollections(t *testing.T) {
	snap, err := NewLoader(t.TempDir(), nil).Load()
	require.NoError(t, err)
	assert.NotNil(t, snap.Rules)
	assert.Empty(t, snap.Rules)
	assert.Empty(t, snap.SOP)
	assert.Empty(t, snap.Templates)
	assert.NotNil(t, snap.Cancellation)
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "rules.json", `[{`)

	_, err := NewLoader(dir, nil).Load()
	assert.Error(t, err)
}

func TestIsContentFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/c/rules.json", true},
		{"/c/sop.yml", true},
		{"cancellation.yaml", true},
		{"/c/rules.json.swp", false},
		{"/c/notes.json", false},
		{"/c/templates.txt", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, IsContentFile(tt.path))
		})
	}
}

func TestLibraryReloadKeepsPreviousOnError(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "rules.json", `[{"id":"r1","title":"a","description":"b"}]`)

	lib, err := NewLibrary(NewLoader(dir, nil), nil)
	require.NoError(t, err)

	writeFile(t, dir, "rules.json", `not json`)
	require.Error(t, lib.Reload())
	assert.Len(t, lib.Snapshot().Rules, 1)
}

func TestWatcherReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "rules.json", `[]`)

	lib, err := NewLibrary(NewLoader(dir, nil), nil)
	require.NoError(t, err)

	w, err := NewWatcher(lib, nil)
	require.NoError(t, err)
	w.delay = 10 * time.Millisecond
	reloaded := make(chan struct{}, 1)
	w.OnReload = func() {
		select {
		case reloaded <- struct{}{}:
		default:
		}
	}
	require.NoError(t, w.Start())
	defer w.Stop()

	writeFile(t, dir, "rules.json", `[{"id":"r9","title":"新ルール","description":"x"}]`)

	select {
	case <-reloaded:
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not reload")
	}
	require.Len(t, lib.Snapshot().Rules, 1)
	assert.Equal(t, "r9", lib.Snapshot().Rules[0].ID)
}

func TestWatcherStartTwice(t *testing.T) {
	lib, err := NewLibrary(NewLoader(t.TempDir(), nil), nil)
	require.NoError(t, err)
	w, err := NewWatcher(lib, nil)
	require.NoError(t, err)

	require.NoError(t, w.Start())
	assert.Error(t, w.Start())
	require.NoError(t, w.Stop())
}
