package record

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
)

// CSVWriter は "score,best_tile,steps,elapsed" の行を <dir>/<task>.csv に追記する
type CSVWriter struct {
	mu  sync.Mutex
	dir string
}

// NewCSVWriter は dir 以下に書き込む CSVWriter を生成する
func NewCSVWriter(dir string) *CSVWriter {
	return &CSVWriter{dir: dir}
}

// Path はタスクの結果ファイルのパスを返す
func (w *CSVWriter) Path(task string) string {
	return filepath.Join(w.dir, task+".csv")
}

func (w *CSVWriter) Append(rec Record) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	path := w.Path(rec.Task)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create result dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}

	cw := csv.NewWriter(f)
	cw.Write([]string{
		strconv.Itoa(rec.Score),
		strconv.Itoa(rec.BestTile),
		strconv.Itoa(rec.Steps),
		strconv.FormatFloat(rec.Elapsed, 'f', 3, 64),
	})
	cw.Flush()
	if err := cw.Error(); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
