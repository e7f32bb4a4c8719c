package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-cosmic-codex/internal/codex"
	"github.com/tartampluch/go-cosmic-codex/internal/config"
	"github.com/tartampluch/go-cosmic-codex/internal/server"
	"github.com/tartampluch/go-cosmic-codex/internal/worldevents"
	"github.com/zalando/go-keyring"
)

func testApp() *app {
	a := newApp()
	a.logSetup = func(bool) io.Closer { return nil }
	return a
}

// captureLogs routes the default logger into a buffer for the test's duration.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

// execute runs the CLI with args and returns stdout.
func execute(t *testing.T, a *app, stdin string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd(a)
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, testApp(), "", config.CmdVersion)

	require.NoError(t, err)
	assert.Contains(t, out, config.AppName)
	assert.Contains(t, out, config.Version)
	assert.Contains(t, out, "commit "+config.Commit)
}

func TestTimelineCmd(t *testing.T) {
	out, err := execute(t, testApp(), "",
		config.CmdTimeline, "--birth", "1990-05-24", "--archetype", "Sage", "--no-world-events")
	require.NoError(t, err)

	var tl codex.Timeline
	require.NoError(t, json.Unmarshal([]byte(out), &tl))
	assert.Equal(t, codex.ArchetypeSage, tl.Archetype)
	assert.Equal(t, time.Date(1990, 5, 24, 0, 0, 0, 0, time.UTC), tl.BirthDate)
	assert.Positive(t, tl.TotalEvents)
	assert.Len(t, tl.FuturePotentials, 3)
	for _, ev := range tl.AllEvents {
		assert.Nil(t, ev.WorldEvent)
	}
}

func TestTimelineCmd_ArchetypeFromSunSign(t *testing.T) {
	out, err := execute(t, testApp(), "", config.CmdTimeline, "--birth", "1990-08-07", "--no-world-events")
	require.NoError(t, err)

	var tl codex.Timeline
	require.NoError(t, json.Unmarshal([]byte(out), &tl))
	assert.Equal(t, codex.ArchetypeSovereign, tl.Archetype, "the Sun is in Leo")
}

func TestTimelineCmd_French(t *testing.T) {
	out, err := execute(t, testApp(), "",
		config.CmdTimeline, "--birth", "1990-05-24", "--no-world-events", "--lang", "fr")

	require.NoError(t, err)
	assert.Contains(t, out, "Année de retour solaire")
}

func TestTimelineCmd_Ascendant(t *testing.T) {
	out, err := execute(t, testApp(), "",
		config.CmdTimeline, "--birth", "1990-05-24", "--no-world-events", "--ascendant", "0")

	require.NoError(t, err)
	assert.Contains(t, out, "House")

	_, err = execute(t, testApp(), "",
		config.CmdTimeline, "--birth", "1990-05-24", "--no-world-events", "--ascendant", "400")
	assert.Error(t, err)
}

func TestTimelineCmd_VCard(t *testing.T) {
	path := filepath.Join(t.TempDir(), "me.vcf")
	require.NoError(t, os.WriteFile(path,
		[]byte("BEGIN:VCARD\r\nVERSION:4.0\r\nFN:Jane\r\nBDAY:19850310\r\nEND:VCARD\r\n"), 0o600))

	out, err := execute(t, testApp(), "", config.CmdTimeline, "--vcard", path, "--no-world-events")
	require.NoError(t, err)

	var tl codex.Timeline
	require.NoError(t, json.Unmarshal([]byte(out), &tl))
	assert.Equal(t, time.Date(1985, 3, 10, 0, 0, 0, 0, time.UTC), tl.BirthDate)
}

func TestTimelineCmd_InvalidInput(t *testing.T) {
	tests := map[string][]string{
		"missing birth": {config.CmdTimeline, "--no-world-events"},
		"bad birth":     {config.CmdTimeline, "--birth", "24/05/1990", "--no-world-events"},
		"future birth":  {config.CmdTimeline, "--birth", "2999-01-01", "--no-world-events"},
		"missing vcard": {config.CmdTimeline, "--vcard", "/does/not/exist.vcf", "--no-world-events"},
	}
	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := execute(t, testApp(), "", args...)
			assert.Error(t, err)
		})
	}
}

func TestICSCmd(t *testing.T) {
	out, err := execute(t, testApp(), "", config.CmdICS, "--birth", "1990-05-24", "--no-world-events")

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "BEGIN:VCALENDAR"))
	assert.Contains(t, out, "BEGIN:VEVENT")
	assert.Contains(t, out, "BEGIN:VALARM")
}

func TestKeySetCmd(t *testing.T) {
	keyring.MockInit()

	out, err := execute(t, testApp(), "  my-secret-key \n", config.CmdKey, config.CmdKeySet)

	require.NoError(t, err)
	assert.Contains(t, out, config.MsgKeyStored)
	assert.Equal(t, "my-secret-key", worldevents.NewsArchiveKey(""))

	_, err = execute(t, testApp(), "\n", config.CmdKey, config.CmdKeySet)
	assert.Error(t, err, "empty keys are rejected")
}

func TestInitConfig_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cosmic.yaml")
	require.NoError(t, os.WriteFile(path, []byte("language: fr\nserver:\n  port: \"19000\"\n"), 0o600))
	t.Setenv("COSMIC_WORLD_EVENTS_MAX_PARALLEL", "9")

	a := testApp()
	_, err := execute(t, a, "", "--config", path, config.CmdVersion)
	require.NoError(t, err)

	assert.Equal(t, "fr", a.settings.Language)
	assert.Equal(t, "19000", a.settings.Server.Port)
	assert.Equal(t, 9, a.settings.WorldEvents.MaxParallel)
	assert.Equal(t, config.DefaultRefreshInterval, a.settings.Server.RefreshInterval)
}

func TestInitConfig_LogsLoadedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cosmic.yaml")
	require.NoError(t, os.WriteFile(path, []byte("language: fr\n"), 0o600))
	logs := captureLogs(t)

	_, err := execute(t, testApp(), "", "--config", path, config.CmdVersion)
	require.NoError(t, err)

	assert.Contains(t, logs.String(), config.MsgConfigLoaded)
	assert.Contains(t, logs.String(), filepath.Base(path))
}

func TestInitConfig_BrokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cosmic.yaml")
	require.NoError(t, os.WriteFile(path, []byte("language: [unclosed\n"), 0o600))

	_, err := execute(t, testApp(), "", "--config", path, config.CmdVersion)
	assert.Error(t, err)
}

func TestInitConfig_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		env  string
		val  string
	}{
		{"Port out of range", "COSMIC_SERVER_PORT", "99999"},
		{"World events toggle", "COSMIC_WORLD_EVENTS_ENABLED", "maybe"},
		{"Lookup timeout", "COSMIC_WORLD_EVENTS_TIMEOUT", "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.env, tt.val)

			_, err := execute(t, testApp(), "", config.CmdVersion)
			require.Error(t, err)
			assert.Contains(t, err.Error(), config.ErrConfigRead)
		})
	}
}

func TestRefresh_PublishesTimeline(t *testing.T) {
	a := testApp()
	settings, err := config.Load(a.v)
	require.NoError(t, err)
	a.settings = settings

	srv := server.NewTimelineServer("0")
	f := &timelineFlags{birth: "1990-05-24", noWorld: true, ascendant: config.NoAscendantSentinel}

	require.NoError(t, a.refresh(context.Background(), srv, f))
	assert.True(t, srv.Ready())
}

func TestRefreshLoop_StopsOnCancel(t *testing.T) {
	a := testApp()
	settings, err := config.Load(a.v)
	require.NoError(t, err)
	a.settings = settings

	srv := server.NewTimelineServer("0")
	f := &timelineFlags{birth: "1990-05-24", noWorld: true, ascendant: config.NoAscendantSentinel}
	logs := captureLogs(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		a.refreshLoop(ctx, srv, f, time.Hour)
		close(done)
	}()

	require.Eventually(t, srv.Ready, 10*time.Second, 10*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("refresh loop did not stop")
	}

	assert.Contains(t, logs.String(), config.MsgWorkerStart)
	assert.Contains(t, logs.String(), `"interval":"1h0m0s"`)
	assert.Contains(t, logs.String(), config.MsgWorkerStop)
}
