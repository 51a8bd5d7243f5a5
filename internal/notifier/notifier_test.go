package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ResaleEngine/internal/appraisal"
	"ResaleEngine/internal/config"
	"ResaleEngine/internal/logging"
	"ResaleEngine/internal/model"
	"ResaleEngine/internal/pricing"
)

func newTestTelegram(url string) *TelegramNotifier {
	n := NewTelegramNotifier(config.TelegramConfig{BotToken: "TOKEN", ChatID: "42", APIBase: url}, "", logging.Discard())
	n.RetryBase = time.Millisecond
	return n
}

func TestTelegramSend(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/botTOKEN/sendMessage", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	require.NoError(t, newTestTelegram(srv.URL).Send(context.Background(), "hello"))
	assert.Equal(t, "42", got["chat_id"])
	assert.Equal(t, "hello", got["text"])
	assert.Equal(t, "HTML", got["parse_mode"])
}

func TestTelegramSend_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"ok":false,"description":"chat not found"}`))
	}))
	defer srv.Close()

	err := newTestTelegram(srv.URL).Send(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
	assert.Contains(t, err.Error(), "chat not found")
}

func TestTelegramSendWithRetry(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	n := newTestTelegram(srv.URL)
	require.NoError(t, n.SendWithRetry(context.Background(), "hi", 3))
	assert.Equal(t, int32(3), calls.Load())

	calls.Store(-100)
	err := n.SendWithRetry(context.Background(), "hi", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all 2 attempts failed")
}

func TestTelegramSendWithRetry_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	n := newTestTelegram(srv.URL)
	n.RetryBase = time.Hour
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := n.SendWithRetry(ctx, "hi", 5)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestStartPolling_DispatchesCommands(t *testing.T) {
	var (
		mu      sync.Mutex
		replies []string
		served  atomic.Bool
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/getUpdates"):
			if served.Swap(true) {
				time.Sleep(20 * time.Millisecond)
				w.Write([]byte(`{"ok":true,"result":[]}`))
				return
			}
			w.Write([]byte(`{"ok":true,"result":[
				{"update_id":7,"message":{"text":" /presets "}},
				{"update_id":8}
			]}`))
		case strings.HasSuffix(r.URL.Path, "/sendMessage"):
			var body map[string]string
			json.NewDecoder(r.Body).Decode(&body)
			mu.Lock()
			replies = append(replies, body["text"])
			mu.Unlock()
			w.Write([]byte(`{"ok":true}`))
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		newTestTelegram(srv.URL).StartPolling(ctx, func(_ context.Context, cmd string) string {
			return "reply to " + cmd
		})
		close(done)
	}()

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(replies) == 1
	}, 2*time.Second, 10*time.Millisecond)
	cancel()
	<-done

	assert.Equal(t, []string{"reply to /presets"}, replies)
}

func TestLogNotifier(t *testing.T) {
	n := NewLogNotifier(logging.Discard())
	assert.Equal(t, "log", n.Name())
	assert.NoError(t, n.Send(context.Background(), "x"))
}

func sampleAppraisal() *appraisal.Appraisal {
	r := pricing.AnalyzeMarket([]float64{10, 20, 30}, []float64{15, 25}, "A", 0.4, 0.8)
	return &appraisal.Appraisal{
		Query:     "switch <oled>",
		Condition: model.ConditionA,
		Analysis:  r,
		Posting:   pricing.Posting(r),
	}
}

func TestFormatters(t *testing.T) {
	a := sampleAppraisal()

	msg := FormatAppraisal(a)
	assert.Contains(t, msg, "switch &lt;oled&gt;")
	assert.Contains(t, msg, "Max buy:</b> $9.60")
	assert.Contains(t, msg, "Fast sale: $19.40")
	assert.Contains(t, msg, "Liquidity: 52 (Weak)")

	item := config.WatchItem{Name: "Switch", AlertMetric: config.MetricMaxBuy, AlertThreshold: 5, MaxRisk: "HIGH"}
	alert := FormatAlert(item, a, a.Analysis.MaxBuy)
	assert.Contains(t, alert, "Watchlist: Switch")
	assert.Contains(t, alert, "max_buy = 9.60 (threshold 5.00)")

	presets := FormatPresets([]appraisal.Preset{{Name: "balanced", LocalFactor: 0.8, Default: true}})
	assert.Contains(t, presets, "balanced: 0.80 (default)")

	assert.Equal(t, "Watchlist is empty.", FormatWatchlist(nil, nil))
	wl := FormatWatchlist([]config.WatchItem{item}, map[string]bool{"Switch": true})
	assert.Contains(t, wl, "qualifying")
}
