// Package csvfile implements storage.RowSink as a comma separated file that
// grows across runs.
package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"os"
	"sync"

	"github.com/go-git/go-billy/v5"

	"companyscan/pkg/domain"
	"companyscan/pkg/serrors"
	"companyscan/pkg/storage"
)

// Sink appends rows to a CSV file. The header line is written only when the
// file is new or empty, so repeated runs keep a single header.
type Sink struct {
	mu     sync.Mutex
	file   billy.File
	writer *csv.Writer
	rows   int
}

var _ storage.RowSink = (*Sink)(nil)

// Open opens or creates the file at path on fs for appending.
func Open(fs billy.Filesystem, path string) (*Sink, error) {
	fresh := true
	if info, err := fs.Stat(path); err == nil {
		fresh = info.Size() == 0
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, serrors.Wrap(serrors.ErrInternal, err, "could not stat %s", path)
	}

	f, err := fs.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrInternal, err, "could not open %s", path)
	}

	s := &Sink{file: f, writer: csv.NewWriter(f)}
	if fresh {
		if _, err := f.Write([]byte(domain.RowHeader + "\n")); err != nil {
			_ = f.Close()

			return nil, serrors.Wrap(serrors.ErrInternal, err, "could not write header to %s", path)
		}
	}

	return s, nil
}

// WriteRow appends row and flushes it to the file.
func (s *Sink) WriteRow(_ context.Context, row domain.Row) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file == nil {
		return storage.ErrClosed
	}
	if err := s.writer.Write(row.Sanitized().Record()); err != nil {
		return serrors.Wrap(serrors.ErrInternal, err, "could not write row %s", row.Number)
	}
	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		return serrors.Wrap(serrors.ErrInternal, err, "could not flush row %s", row.Number)
	}
	s.rows++

	return nil
}

// Rows returns the number of rows written through s.
func (s *Sink) Rows() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.rows
}

func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file == nil {
		return nil
	}
	s.writer.Flush()
	err := errors.Join(s.writer.Error(), s.file.Close())
	s.file = nil

	return err
}
