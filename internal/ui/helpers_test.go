package ui

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/gravitrone/credir/internal/api"
	"github.com/gravitrone/credir/internal/listingdb"
	"github.com/gravitrone/credir/internal/server"
)

// testAPI is the demo listing server with a request log and a failure switch.
type testAPI struct {
	client *api.Client
	fail   atomic.Bool

	mu      sync.Mutex
	queries []url.Values
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db, err := listingdb.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, listingdb.Seed(context.Background(), db))

	router := server.New(db, quietLogger())
	ta := &testAPI{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/health" {
			ta.mu.Lock()
			ta.queries = append(ta.queries, r.URL.Query())
			ta.mu.Unlock()
		}
		if ta.fail.Load() {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"error":{"code":"UNAVAILABLE","message":"backend down"}}`))
			return
		}
		router.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)
	ta.client = api.NewClient(srv.URL, "")
	return ta
}

func (ta *testAPI) last(t *testing.T) url.Values {
	t.Helper()
	ta.mu.Lock()
	defer ta.mu.Unlock()
	require.NotEmpty(t, ta.queries)
	return ta.queries[len(ta.queries)-1]
}

func (ta *testAPI) count() int {
	ta.mu.Lock()
	defer ta.mu.Unlock()
	return len(ta.queries)
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// exec runs cmd and every command of a batch, returning the messages.
// Never pass a command that arms a timer.
func exec(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, exec(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeKey(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}
