package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCountersIncrement(t *testing.T) {
	hits := testutil.ToFloat64(cacheLookups.WithLabelValues("hit"))
	RecordCacheHit()
	if got := testutil.ToFloat64(cacheLookups.WithLabelValues("hit")); got != hits+1 {
		t.Fatalf("hit counter = %v, want %v", got, hits+1)
	}

	stale := testutil.ToFloat64(cacheStaleWrites)
	RecordStaleWrite()
	if got := testutil.ToFloat64(cacheStaleWrites); got != stale+1 {
		t.Fatalf("stale counter = %v, want %v", got, stale+1)
	}

	SetTreeSize(12, 7)
	if testutil.ToFloat64(treeSize) != 12 || testutil.ToFloat64(indexedEntries) != 7 {
		t.Fatalf("tree gauges not set")
	}

	before := testutil.ToFloat64(resolves.WithLabelValues("raw"))
	RecordResolve("raw")
	if got := testutil.ToFloat64(resolves.WithLabelValues("raw")); got != before+1 {
		t.Fatalf("resolve counter = %v", got)
	}
}

func TestWriteTextfile(t *testing.T) {
	RecordSessionOpen("ok")
	RecordDecompile("classfile", "ok", 20*time.Millisecond)
	path := filepath.Join(t.TempDir(), "classbrowser.prom")
	if err := WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	for _, name := range []string{"classbrowser_sessions_opened_total", "classbrowser_decompile_duration_seconds"} {
		if !strings.Contains(string(data), name) {
			t.Fatalf("textfile missing %s", name)
		}
	}
}
