package artifactdb

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	_ "modernc.org/sqlite"

	"clipcast/internal/feature"
	"clipcast/internal/forest"
	"clipcast/internal/predict"
)

// ErrNoArtifacts reports that no fitted artifact set has been stored yet.
var ErrNoArtifacts = errors.New("no stored artifact set")

// DB wraps a SQLite database used to persist fitted artifact sets.
// One row holds one complete matched set (both encoders, the vectorizer state,
// the forest), so a load can never mix artifacts from different fits.
type DB struct{ sql *sql.DB }

func Open(path string) (*DB, error) {
	d, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := d.Exec(`PRAGMA journal_mode=WAL; PRAGMA synchronous=NORMAL;`); err != nil {
		return nil, err
	}
	db := &DB{sql: d}
	if err := db.migrate(); err != nil {
		_ = d.Close()
		return nil, err
	}
	return db, nil
}

func (d *DB) Close() error { return d.sql.Close() }

func (d *DB) migrate() error {
	_, err := d.sql.Exec(`
	CREATE TABLE IF NOT EXISTS artifact_sets (
	  id INTEGER PRIMARY KEY AUTOINCREMENT,
	  created_at INTEGER NOT NULL,
	  threshold INTEGER NOT NULL,
	  author_classes TEXT NOT NULL,
	  music_classes TEXT NOT NULL,
	  vocab TEXT NOT NULL,
	  idf TEXT NOT NULL,
	  forest BLOB NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_sets_created ON artifact_sets(created_at);
	`)
	return err
}

// SaveSet persists a fitted artifact set as a single row, which makes the
// write atomic: a reader sees either the whole set or nothing.
func (d *DB) SaveSet(ctx context.Context, a *predict.Artifacts) error {
	authorClasses, err := json.Marshal(a.Authors.Classes())
	if err != nil {
		return err
	}
	musicClasses, err := json.Marshal(a.Music.Classes())
	if err != nil {
		return err
	}
	vocab, err := json.Marshal(a.Text.Vocab())
	if err != nil {
		return err
	}
	idf, err := json.Marshal(a.Text.IDF())
	if err != nil {
		return err
	}
	forestBlob, err := a.Model.Encode()
	if err != nil {
		return err
	}
	_, err = d.sql.ExecContext(ctx,
		`INSERT INTO artifact_sets(created_at, threshold, author_classes, music_classes, vocab, idf, forest)
		 VALUES(?,?,?,?,?,?,?)`,
		a.CreatedAt.Unix(), a.Threshold, string(authorClasses), string(musicClasses), string(vocab), string(idf), forestBlob)
	return err
}

// LoadLatest restores the most recently stored artifact set.
func (d *DB) LoadLatest(ctx context.Context) (*predict.Artifacts, error) {
	row := d.sql.QueryRowContext(ctx,
		`SELECT created_at, threshold, author_classes, music_classes, vocab, idf, forest
		 FROM artifact_sets ORDER BY id DESC LIMIT 1`)
	var createdAt int64
	var threshold int
	var authorClasses, musicClasses, vocabJSON, idfJSON string
	var forestBlob []byte
	if err := row.Scan(&createdAt, &threshold, &authorClasses, &musicClasses, &vocabJSON, &idfJSON, &forestBlob); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoArtifacts
		}
		return nil, err
	}

	var authors, music, vocab []string
	var idf []float64
	if err := json.Unmarshal([]byte(authorClasses), &authors); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(musicClasses), &music); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(vocabJSON), &vocab); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(idfJSON), &idf); err != nil {
		return nil, err
	}
	f, err := forest.Decode(forestBlob)
	if err != nil {
		return nil, err
	}
	return &predict.Artifacts{
		Authors:   feature.NewLabelEncoderFromClasses(authors),
		Music:     feature.NewLabelEncoderFromClasses(music),
		Text:      feature.NewVectorizerFromState(vocab, idf),
		Model:     f,
		Threshold: threshold,
		CreatedAt: time.Unix(createdAt, 0).UTC(),
	}, nil
}

// Prune keeps only the newest keep sets.
func (d *DB) Prune(ctx context.Context, keep int) error {
	if keep < 1 {
		keep = 1
	}
	_, err := d.sql.ExecContext(ctx,
		`DELETE FROM artifact_sets WHERE id NOT IN (SELECT id FROM artifact_sets ORDER BY id DESC LIMIT ?)`, keep)
	return err
}
