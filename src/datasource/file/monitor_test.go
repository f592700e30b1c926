package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestMonitorMatches(t *testing.T) {
	m := &Monitor{keyword: "spotify"}

	cases := []struct {
		path string
		want bool
	}{
		{"spotify_top_hits.csv", true},
		{"Spotify_Top_Hits.XLSX", true},
		{"spotify_notes.txt", false},
		{"other_data.csv", false},
	}
	for _, c := range cases {
		if got := m.matches(c.path); got != c.want {
			t.Errorf("matches(%q) = %v, want %v", c.path, got, c.want)
		}
	}
}

func TestMonitorReportsNewDatasetFile(t *testing.T) {
	dir := t.TempDir()
	monitor, err := NewMonitor(dir, "spotify")
	if err != nil {
		t.Fatal(err)
	}
	defer monitor.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	seen := make(chan string, 1)
	go monitor.Watch(ctx, func(path string) {
		select {
		case seen <- path:
		default:
		}
	})

	// Give the watch loop a moment to start before dropping the file.
	time.Sleep(100 * time.Millisecond)
	target := filepath.Join(dir, "spotify_top_hits.csv")
	if err := os.WriteFile(target, []byte("artist,year\n"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-seen:
		if got != target {
			t.Errorf("handler got %q, want %q", got, target)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("monitor never reported the new dataset file")
	}
}
