package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"
)

// ZipSink accumulates artifacts into one compressed archive. The caller owns
// the underlying writer and must call Close before using the archive.
type ZipSink struct {
	zw    *zip.Writer
	names map[string]int
}

func NewZipSink(w io.Writer) *ZipSink {
	return &ZipSink{
		zw:    zip.NewWriter(w),
		names: make(map[string]int),
	}
}

func (s *ZipSink) Write(name string, data []byte) error {
	entry, err := s.zw.Create(s.uniqueName(name))
	if err != nil {
		return err
	}
	_, err = entry.Write(data)
	return err
}

func (s *ZipSink) Close() error {
	return s.zw.Close()
}

// uniqueName disambiguates duplicate filenames: two records can share an RFP
// and pole number when a survey was redone.
func (s *ZipSink) uniqueName(name string) string {
	n := s.names[name]
	s.names[name] = n + 1
	if n == 0 {
		return name
	}
	ext := filepath.Ext(name)
	return fmt.Sprintf("%s_%d%s", strings.TrimSuffix(name, ext), n+1, ext)
}

// DirSink writes each artifact as its own file under a directory; the
// file-per-record counterpart to ZipSink.
type DirSink struct {
	dir   string
	names map[string]int
}

func NewDirSink(dir string) *DirSink {
	return &DirSink{
		dir:   dir,
		names: make(map[string]int),
	}
}

func (s *DirSink) Write(name string, data []byte) error {
	n := s.names[name]
	s.names[name] = n + 1
	if n > 0 {
		ext := filepath.Ext(name)
		name = fmt.Sprintf("%s_%d%s", strings.TrimSuffix(name, ext), n+1, ext)
	}
	return os.WriteFile(filepath.Join(s.dir, name), data, 0o644)
}
