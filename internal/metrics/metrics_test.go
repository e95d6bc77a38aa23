package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"civic_ingest/internal/model"
)

func TestCounters(t *testing.T) {
	m := New()

	m.RunStarted()
	m.PostScanned(model.RawPost{Source: model.SourceEmail})
	m.PostScanned(model.RawPost{Source: model.SourceEmail})
	m.PostScanned(model.RawPost{Source: model.SourceGroup})
	m.PostImported(model.ComplaintRecord{Department: "Sanitation", Urgency: model.UrgencyMedium})
	m.PostRejected(model.Verdict{IsFake: true, Reasons: []string{"a", "b"}})
	m.SinkFailed()

	if diff := cmp.Diff(2.0, testutil.ToFloat64(m.PostsScanned.WithLabelValues("email"))); diff != "" {
		t.Errorf("email scanned mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(1.0, testutil.ToFloat64(m.PostsImported.WithLabelValues("Sanitation", "medium"))); diff != "" {
		t.Errorf("imported mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(1.0, testutil.ToFloat64(m.PostsRejected.WithLabelValues("b"))); diff != "" {
		t.Errorf("rejected mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(1.0, testutil.ToFloat64(m.RunActive)); diff != "" {
		t.Errorf("run active mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(1.0, testutil.ToFloat64(m.SinkErrors)); diff != "" {
		t.Errorf("sink errors mismatch (-want +got):\n%s", diff)
	}

	m.RunFinished()
	if diff := cmp.Diff(0.0, testutil.ToFloat64(m.RunActive)); diff != "" {
		t.Errorf("run active after finish mismatch (-want +got):\n%s", diff)
	}
}

func TestHandler(t *testing.T) {
	m := New()
	m.PostScanned(model.RawPost{Source: model.SourceSocial})

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("get metrics: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if !strings.Contains(string(body), `civic_ingest_posts_scanned_total{source="social-short-form"} 1`) {
		t.Errorf("metrics output missing scanned counter:\n%s", body)
	}
}
