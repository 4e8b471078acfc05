package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/philipp01105/ulog/handler"
)

type staticSource handler.Snapshot

func (s staticSource) Stats() handler.Snapshot { return handler.Snapshot(s) }

func TestCollector_ReportsSnapshot(t *testing.T) {
	c := NewCollector(staticSource{
		ConsoleLines: 10,
		FileLines:    4,
		FileFlushes:  2,
		Truncated:    1,
		Skipped:      5,
		WriteErrors:  3,
	}, "")

	expected := `
# HELP ulog_lines_total Log lines written, by sink.
# TYPE ulog_lines_total counter
ulog_lines_total{sink="console"} 10
ulog_lines_total{sink="file"} 4
# HELP ulog_file_flushes_total Flushes of the file sink.
# TYPE ulog_file_flushes_total counter
ulog_file_flushes_total 2
# HELP ulog_truncated_records_total Records that overflowed the buffer.
# TYPE ulog_truncated_records_total counter
ulog_truncated_records_total 1
# HELP ulog_skipped_records_total Records below every active threshold.
# TYPE ulog_skipped_records_total counter
ulog_skipped_records_total 5
# HELP ulog_file_open_failures_total Failed attempts to open the log file.
# TYPE ulog_file_open_failures_total counter
ulog_file_open_failures_total 0
# HELP ulog_write_errors_total Failed sink writes and flushes.
# TYPE ulog_write_errors_total counter
ulog_write_errors_total 3
`
	if err := testutil.CollectAndCompare(c, strings.NewReader(expected)); err != nil {
		t.Fatal(err)
	}
}

func TestCollector_Register(t *testing.T) {
	reg := prometheus.NewPedanticRegistry()
	c := NewCollector(staticSource{}, "app_log")
	if err := reg.Register(c); err != nil {
		t.Fatalf("register: %v", err)
	}
	if n := testutil.CollectAndCount(c); n != 7 {
		t.Errorf("CollectAndCount = %d, want 7", n)
	}
	if n := testutil.CollectAndCount(c, "app_log_lines_total"); n != 2 {
		t.Errorf("lines series = %d, want 2", n)
	}
}
