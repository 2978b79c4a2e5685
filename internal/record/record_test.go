package record

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/matryer/is"

	"github.com/nnaakkaaii/minimax2048/internal/domain"
)

func finalBoard() domain.Board {
	return domain.NewBoardFromCells([4][4]int{
		{2048, 1024, 512, 256},
		{2, 4, 8, 16},
		{32768, 64, 32, 4},
		{2, 8, 2, 4},
	})
}

func TestNew(t *testing.T) {
	is := is.New(t)
	rec, err := New("minimax", "minimax", 1234, 56, 1500*time.Millisecond, finalBoard())
	is.NoErr(err)

	is.Equal(rec.BestTile, 32768)
	is.Equal(rec.Elapsed, 1.5)
	is.True(rec.FinalBoard().Equal(finalBoard()))
}

func TestNewRejectsUnpackableBoard(t *testing.T) {
	_, err := New("t", "random", 0, 0, 0, domain.NewBoard().Set(0, 0, 65536))
	if err == nil {
		t.Fatal("expected error for a tile above 32768")
	}
}

func TestCSVWriterAppends(t *testing.T) {
	is := is.New(t)
	w := NewCSVWriter(t.TempDir())

	for i := 0; i < 2; i++ {
		rec, err := New("results/minimax", "minimax", 100*(i+1), 10, 250*time.Millisecond, finalBoard())
		is.NoErr(err)
		is.NoErr(w.Append(rec))
	}

	data, err := os.ReadFile(w.Path("results/minimax"))
	is.NoErr(err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	is.Equal(len(lines), 2)
	is.Equal(lines[0], "100,32768,10,0.250")
	is.Equal(lines[1], "200,32768,10,0.250")
}

func TestBSONWriterRoundTrip(t *testing.T) {
	is := is.New(t)
	w := NewBSONWriter(t.TempDir())

	for i := 0; i < 3; i++ {
		rec, err := New("bench", "minimax", i, i*10, time.Second, finalBoard())
		is.NoErr(err)
		is.NoErr(w.Append(rec))
	}

	f, err := os.Open(w.Path("bench"))
	is.NoErr(err)
	defer f.Close()

	records, err := ReadBSON(f)
	is.NoErr(err)
	is.Equal(len(records), 3)
	for i, rec := range records {
		is.True(rec.ID.Valid())
		is.Equal(rec.Task, "bench")
		is.Equal(rec.Score, i)
		is.Equal(rec.Steps, i*10)
		is.Equal(rec.BestTile, 32768)
		is.True(rec.FinalBoard().Equal(finalBoard()))
	}
}

func TestReadBSONEmpty(t *testing.T) {
	records, err := ReadBSON(strings.NewReader(""))
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 0 {
		t.Errorf("expected no records, got %d", len(records))
	}
}

func TestReadBSONTruncated(t *testing.T) {
	if _, err := ReadBSON(strings.NewReader("\x20\x00\x00\x00\x01")); err == nil {
		t.Error("expected error for a truncated document")
	}
}

func TestReadBSONRejectsOversizedDocument(t *testing.T) {
	if _, err := ReadBSON(strings.NewReader("\xff\xff\xff\x7f\x00")); err == nil {
		t.Error("expected error for a document larger than 16MiB")
	}
}
