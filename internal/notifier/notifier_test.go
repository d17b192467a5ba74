package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"FinanceHarvester/internal/model"
	"FinanceHarvester/internal/pipeline"
)

func testSummary() *pipeline.Summary {
	return &pipeline.Summary{
		RunID:       "abc",
		Range:       model.DateRange{Start: "2020-01-01", End: "2024-01-01"},
		Started:     time.Date(2024, 1, 2, 19, 0, 0, 0, time.UTC),
		Duration:    90 * time.Second,
		Total:       1200,
		Excluded:    2,
		Present:     1100,
		Absent:      98,
		Saved:       1099,
		SaveFailed:  1,
		Tables:      map[model.TableKind]int{model.HistoricalData: 1100},
		Missing:     map[model.TableKind]int{model.HistoricalData: 98},
		Cancelled:   true,
		SaveSkipped: 0,
	}
}

func TestFormatRunSummary(t *testing.T) {
	got := FormatRunSummary(testSummary())
	for _, want := range []string{
		"2020-01-01..2024-01-01",
		"Symbols: 1,200 (2 excluded)",
		"historical_data: 1,100 ok, 98 missing",
		"Saved: 1,099 | failed: 1",
		"1m30s",
		"cancelled",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("summary missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "skipped") {
		t.Errorf("unexpected skipped line:\n%s", got)
	}
}

func TestFormatStatus(t *testing.T) {
	got := FormatStatus(true, testSummary(), time.Date(2024, 1, 3, 19, 0, 0, 0, time.UTC))
	for _, want := range []string{"in progress", "abc", "1,099 saved", "2024-01-03 19:00"} {
		if !strings.Contains(got, want) {
			t.Errorf("status missing %q:\n%s", want, got)
		}
	}
	if got := FormatStatus(false, nil, time.Time{}); !strings.Contains(got, "Idle") || strings.Contains(got, "Next run") {
		t.Errorf("idle status = %q", got)
	}
}

func TestSend(t *testing.T) {
	var payload map[string]string
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		json.NewDecoder(r.Body).Decode(&payload)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	tn := NewTelegramNotifier("TOKEN", "42", "", nil)
	tn.APIURL = srv.URL
	if err := tn.Send(context.Background(), "hello"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if path != "/botTOKEN/sendMessage" {
		t.Errorf("path = %q", path)
	}
	if payload["chat_id"] != "42" || payload["text"] != "hello" || payload["parse_mode"] != "HTML" {
		t.Errorf("payload = %v", payload)
	}
}

func TestSendWithRetry_GivesUp(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		http.Error(w, "nope", http.StatusBadRequest)
	}))
	defer srv.Close()

	tn := NewTelegramNotifier("TOKEN", "42", "", nil)
	tn.APIURL = srv.URL
	if err := tn.SendWithRetry(context.Background(), "hello", 0); err == nil {
		t.Fatal("expected error")
	}
	if hits != 1 {
		t.Errorf("hits = %d, want 1", hits)
	}
}

func TestStartPolling_RepliesToCommands(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	replies := make(chan string, 1)
	var polled int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/getUpdates"):
			if atomic.AddInt32(&polled, 1) == 1 {
				w.Write([]byte(`{"ok":true,"result":[{"update_id":7,"message":{"text":" /status "}}]}`))
				return
			}
			if r.URL.Query().Get("offset") != "8" {
				t.Errorf("offset = %q, want 8", r.URL.Query().Get("offset"))
			}
			<-r.Context().Done()
		case strings.HasSuffix(r.URL.Path, "/sendMessage"):
			var p map[string]string
			json.NewDecoder(r.Body).Decode(&p)
			replies <- p["text"]
			w.Write([]byte(`{"ok":true}`))
		}
	}))
	defer srv.Close()

	tn := NewTelegramNotifier("TOKEN", "42", "", nil)
	tn.APIURL = srv.URL
	done := make(chan struct{})
	go func() {
		tn.StartPolling(ctx, func(cmd string) string { return "got " + cmd })
		close(done)
	}()

	select {
	case reply := <-replies:
		if reply != "got /status" {
			t.Errorf("reply = %q", reply)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no reply sent")
	}
	cancel()
	<-done
}
