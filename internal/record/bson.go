package record

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/mgo.v2/bson"
)

// maxDocumentSize は BSON ドキュメントの最大サイズ（16MiB）
const maxDocumentSize = 16 << 20

// BSONWriter は1ゲーム1ドキュメントで <dir>/<task>.bson に追記する
type BSONWriter struct {
	mu  sync.Mutex
	dir string
}

// NewBSONWriter は dir 以下に書き込む BSONWriter を生成する
func NewBSONWriter(dir string) *BSONWriter {
	return &BSONWriter{dir: dir}
}

// Path はタスクの結果ファイルのパスを返す
func (w *BSONWriter) Path(task string) string {
	return filepath.Join(w.dir, task+".bson")
}

func (w *BSONWriter) Append(rec Record) error {
	if rec.ID == "" {
		rec.ID = bson.NewObjectId()
	}
	doc, err := bson.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

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
	if _, err := f.Write(doc); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// ReadBSON は連結された BSON ドキュメントを全て読み出す
func ReadBSON(r io.Reader) ([]Record, error) {
	var records []Record
	for {
		var size [4]byte
		if _, err := io.ReadFull(r, size[:]); err != nil {
			if errors.Is(err, io.EOF) {
				return records, nil
			}
			return nil, fmt.Errorf("read document size: %w", err)
		}

		n := binary.LittleEndian.Uint32(size[:])
		if n < 5 || n > maxDocumentSize {
			return nil, fmt.Errorf("invalid document size %d", n)
		}
		doc := make([]byte, n)
		copy(doc, size[:])
		if _, err := io.ReadFull(r, doc[4:]); err != nil {
			return nil, fmt.Errorf("read document: %w", err)
		}

		var rec Record
		if err := bson.Unmarshal(doc, &rec); err != nil {
			return nil, fmt.Errorf("unmarshal record: %w", err)
		}
		records = append(records, rec)
	}
}
