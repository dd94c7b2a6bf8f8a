// Package storage keeps analyst notes per host, in bbolt or in postgres.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.etcd.io/bbolt"

	"github.com/L1nMay/scanresults/internal/config"
	"github.com/L1nMay/scanresults/internal/model"
)

const bucketNotes = "notes"

var errNoBucket = errors.New("bucket not found")

// NotesStore is implemented by Storage and Postgres.
type NotesStore interface {
	AddNote(ip, text string) (model.Note, error)
	Notes(ip string) ([]model.Note, error)
	HostsWithComments() (map[string]struct{}, error)
	Close() error
}

// Open returns the notes store selected by cfg.Backend. migrationsDir is only
// used by the postgres backend.
func Open(cfg config.NotesConfig, migrationsDir string) (NotesStore, error) {
	switch strings.ToLower(cfg.Backend) {
	case "bolt", "":
		if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
		s, err := NewStorage(cfg.DBPath)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "postgres":
		pg, err := NewPostgres(cfg.DSN)
		if err != nil {
			return nil, err
		}
		if err := pg.Migrate(migrationsDir); err != nil {
			_ = pg.Close()
			return nil, fmt.Errorf("migrations: %w", err)
		}
		return pg, nil
	default:
		return nil, fmt.Errorf("unknown notes backend %q", cfg.Backend)
	}
}

// Storage keeps notes in a bbolt file, one key per host holding its notes as json.
type Storage struct {
	db *bbolt.DB
}

func NewStorage(dbPath string) (*Storage, error) {
	db, err := bbolt.Open(dbPath, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, e := tx.CreateBucketIfNotExists([]byte(bucketNotes))
		return e
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Storage{db: db}, nil
}

func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Storage) AddNote(ip, text string) (model.Note, error) {
	note := model.Note{Text: text, CreatedAt: time.Now().UTC()}

	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketNotes))
		if b == nil {
			return errNoBucket
		}

		var notes []model.Note
		if v := b.Get([]byte(ip)); v != nil {
			if err := json.Unmarshal(v, &notes); err != nil {
				return err
			}
		}
		notes = append(notes, note)

		data, err := json.Marshal(notes)
		if err != nil {
			return err
		}
		return b.Put([]byte(ip), data)
	})
	return note, err
}

// Notes returns the notes of ip, oldest first.
func (s *Storage) Notes(ip string) ([]model.Note, error) {
	notes := []model.Note{}
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketNotes))
		if b == nil {
			return errNoBucket
		}
		v := b.Get([]byte(ip))
		if v == nil {
			return nil
		}
		return json.Unmarshal(v, &notes)
	})
	if err != nil {
		return nil, err
	}
	return notes, nil
}

func (s *Storage) HostsWithComments() (map[string]struct{}, error) {
	out := map[string]struct{}{}
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketNotes))
		if b == nil {
			return errNoBucket
		}
		return b.ForEach(func(k, v []byte) error {
			var notes []model.Note
			if err := json.Unmarshal(v, &notes); err != nil {
				return err
			}
			if len(notes) > 0 {
				out[string(k)] = struct{}{}
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
