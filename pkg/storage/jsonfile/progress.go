// Package jsonfile implements storage.ProgressStore as a small JSON document
// on a billy filesystem.
package jsonfile

import (
	"context"
	"os"
	"path"
	"strconv"
	"sync"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"companyscan/pkg/domain"
	"companyscan/pkg/serrors"
	"companyscan/pkg/storage"
)

const (
	britishKey  = "british_company_last_number"
	scottishKey = "scottish_company_last_number"
)

type extraField struct {
	key   string
	value jx.Raw
}

// Store keeps progress in a JSON object with the keys
// british_company_last_number and scottish_company_last_number. Unknown keys
// found by Load are written back unchanged by Save.
type Store struct {
	fs   billy.Filesystem
	path string

	mu    sync.Mutex
	extra []extraField
}

var _ storage.ProgressStore = (*Store)(nil)

// New returns a Store for the file at path on fs.
func New(fs billy.Filesystem, path string) *Store {
	return &Store{fs: fs, path: path}
}

// Path returns the location of the progress file.
func (s *Store) Path() string { return s.path }

func (s *Store) Load(_ context.Context) (domain.Progress, error) {
	data, err := util.ReadFile(s.fs, s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.Progress{}, serrors.Wrap(serrors.ErrNotFound, err, "progress file %s not found", s.path)
		}

		return domain.Progress{}, serrors.Wrap(serrors.ErrInternal, err, "could not read progress file %s", s.path)
	}

	progress, extra, err := decode(data)
	if err != nil {
		return domain.Progress{}, serrors.Wrap(serrors.ErrMalformed, err, "could not decode progress file %s", s.path)
	}

	s.mu.Lock()
	s.extra = extra
	s.mu.Unlock()

	return progress, nil
}

// Save writes progress to a temporary file next to the target and renames it
// over the target, so readers see either the old or the new document.
func (s *Store) Save(_ context.Context, progress domain.Progress) error {
	s.mu.Lock()
	data := encode(progress, s.extra)
	s.mu.Unlock()

	if dir := path.Dir(s.path); dir != "." && dir != "/" {
		if err := s.fs.MkdirAll(dir, 0o755); err != nil {
			return serrors.Wrap(serrors.ErrInternal, err, "could not create directory %s", dir)
		}
	}

	tmp, err := s.fs.TempFile(path.Dir(s.path), "."+path.Base(s.path)+".")
	if err != nil {
		return serrors.Wrap(serrors.ErrInternal, err, "could not create temporary progress file")
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = s.fs.Remove(tmpName)

		return serrors.Wrap(serrors.ErrInternal, err, "could not write temporary progress file")
	}
	if err := tmp.Close(); err != nil {
		_ = s.fs.Remove(tmpName)

		return serrors.Wrap(serrors.ErrInternal, err, "could not close temporary progress file")
	}
	if err := s.fs.Rename(tmpName, s.path); err != nil {
		_ = s.fs.Remove(tmpName)

		return serrors.Wrap(serrors.ErrInternal, err, "could not replace progress file %s", s.path)
	}

	return nil
}

func decode(data []byte) (domain.Progress, []extraField, error) {
	var (
		progress domain.Progress
		extra    []extraField
	)

	d := jx.DecodeBytes(data)
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case britishKey:
			n, err := decodeNumber(d)
			if err != nil {
				return err
			}
			progress.BritishLastNumber = n
		case scottishKey:
			n, err := decodeNumber(d)
			if err != nil {
				return err
			}
			progress.ScottishLastNumber = n
		default:
			raw, err := d.Raw()
			if err != nil {
				return err
			}
			extra = append(extra, extraField{key: key, value: append(jx.Raw(nil), raw...)})
		}

		return nil
	})
	if err != nil {
		return domain.Progress{}, nil, err
	}

	return progress, extra, nil
}

// decodeNumber accepts both 123 and "123". Positions are never negative.
func decodeNumber(d *jx.Decoder) (int64, error) {
	var (
		n   int64
		err error
	)
	switch d.Next() {
	case jx.String:
		var s string
		if s, err = d.Str(); err != nil {
			return 0, err
		}
		n, err = strconv.ParseInt(s, 10, 64)
	case jx.Null:
		return 0, d.Null()
	default:
		n, err = d.Int64()
	}
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, errors.Errorf("negative position %d", n)
	}

	return n, nil
}

func encode(progress domain.Progress, extra []extraField) []byte {
	var e jx.Encoder
	e.SetIdent(2)
	e.Obj(func(e *jx.Encoder) {
		e.FieldStart(britishKey)
		e.Int64(progress.BritishLastNumber)
		e.FieldStart(scottishKey)
		e.Int64(progress.ScottishLastNumber)
		for _, f := range extra {
			e.FieldStart(f.key)
			e.Raw(f.value)
		}
	})

	return append(e.Bytes(), '\n')
}
