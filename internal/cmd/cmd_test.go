package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravitrone/credir/internal/config"
	"github.com/gravitrone/credir/internal/store"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestServeAnswersUntilCancelled(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Serve(ctx, ln, ServeOptions{DB: ":memory:", Seed: true}, quietLogger())
	}()

	base := "http://" + ln.Addr().String()
	var resp *http.Response
	require.Eventually(t, func() bool {
		resp, err = http.Get(base + "/api/listings?per_page=5")
		return err == nil
	}, 5*time.Second, 20*time.Millisecond)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var doc map[string]json.RawMessage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&doc))
	assert.Contains(t, doc, "listings")
	assert.Contains(t, doc, "filters")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("serve did not stop")
	}
}

func TestWidthsListAndReset(t *testing.T) {
	st, err := store.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	var out bytes.Buffer
	require.NoError(t, ListWidths(&out, st))
	assert.Contains(t, out.String(), "no saved widths")

	require.NoError(t, store.SaveWidths(st, "listings", map[string]int{"title": 40, "city": 12}))
	require.NoError(t, store.SaveWidths(st, "brokers", map[string]int{"name": 18}))

	out.Reset()
	require.NoError(t, ListWidths(&out, st))
	assert.Contains(t, out.String(), "listings")
	assert.Contains(t, out.String(), "city=12 title=40")

	out.Reset()
	require.NoError(t, ResetWidths(&out, st, []string{"listings"}, false))
	assert.Contains(t, out.String(), "reset listings")
	widths, err := store.LoadWidths(st, "listings")
	require.NoError(t, err)
	assert.Empty(t, widths)

	out.Reset()
	require.NoError(t, ResetWidths(&out, st, nil, true))
	assert.Contains(t, out.String(), "reset brokers")
	entries, err := st.ListKeys(store.WidthsPrefix)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestWidthsResetNeedsTarget(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cmd := WidthsCmd()
	cmd.SetArgs([]string{"reset"})
	cmd.SetOut(io.Discard)
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--all")
}

func TestConfigInitThenShow(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv(config.EnvAPIURL, "")
	t.Setenv(config.EnvAPIKey, "")

	var out bytes.Buffer
	require.NoError(t, InitConfig(&out, "http://listings.test", false))
	assert.Contains(t, out.String(), config.Path())

	info, err := os.Stat(config.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	err = InitConfig(&out, "", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	cfg, err := config.Load()
	require.NoError(t, err)
	cfg.APIKey = "secret-key"

	out.Reset()
	require.NoError(t, ShowConfig(&out, cfg))
	assert.Contains(t, out.String(), "api_url: http://listings.test")
	assert.Contains(t, out.String(), "secr****")
	assert.NotContains(t, out.String(), "secret-key")
}

func TestConfigCmdUnknownSubcommand(t *testing.T) {
	cmd := ConfigCmd()
	cmd.SetArgs([]string{"nope"})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	err := cmd.Execute()
	assert.Error(t, err)
}
