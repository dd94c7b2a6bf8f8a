package storage

import (
	"database/sql"
	"time"

	_ "github.com/lib/pq"

	"github.com/L1nMay/scanresults/internal/model"
)

type Postgres struct {
	db *sql.DB
}

func NewPostgres(dsn string) (*Postgres, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Postgres{db: db}, nil
}

func (p *Postgres) Close() error {
	if p == nil || p.db == nil {
		return nil
	}
	return p.db.Close()
}

// Migrate applies the .sql files in dir in name order.
func (p *Postgres) Migrate(dir string) error {
	return RunMigrations(p.db, dir)
}

func (p *Postgres) AddNote(ip, text string) (model.Note, error) {
	var n model.Note
	err := p.db.QueryRow(`
		INSERT INTO notes (ip, body, created_at)
		VALUES ($1, $2, $3)
		RETURNING body, created_at
	`, ip, text, time.Now().UTC()).Scan(&n.Text, &n.CreatedAt)
	return n, err
}

func (p *Postgres) Notes(ip string) ([]model.Note, error) {
	rows, err := p.db.Query(`
		SELECT body, created_at
		FROM notes
		WHERE ip = $1
		ORDER BY created_at, id
	`, ip)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Note, 0)
	for rows.Next() {
		var n model.Note
		if err := rows.Scan(&n.Text, &n.CreatedAt); err != nil {
			return nil, err
		}
		n.CreatedAt = n.CreatedAt.UTC()
		out = append(out, n)
	}
	return out, rows.Err()
}

func (p *Postgres) HostsWithComments() (map[string]struct{}, error) {
	rows, err := p.db.Query(`SELECT DISTINCT ip FROM notes`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]struct{}{}
	for rows.Next() {
		var ip string
		if err := rows.Scan(&ip); err != nil {
			return nil, err
		}
		out[ip] = struct{}{}
	}
	return out, rows.Err()
}
