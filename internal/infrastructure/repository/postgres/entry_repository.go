package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kirillkom/voice-journal/internal/core/domain"
)

// EntryRepository is insert-only for journal entries; entries are never
// updated or deleted once written.
type EntryRepository struct {
	db *sql.DB
}

func NewEntryRepository(db *sql.DB) *EntryRepository {
	return &EntryRepository{db: db}
}

func (r *EntryRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026082802)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS journal_entries (
	id TEXT PRIMARY KEY,
	user_id TEXT,
	entry_timestamp TIMESTAMPTZ NOT NULL,
	analysis JSONB NOT NULL,
	audio_url TEXT NOT NULL,
	transcription TEXT NOT NULL,
	speaker_moods JSONB NOT NULL DEFAULT '[]'::jsonb,
	prompts JSONB NOT NULL DEFAULT '[]'::jsonb,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_journal_entries_user_ts ON journal_entries(user_id, entry_timestamp);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

// CreateEntry inserts one immutable entry. A missing user id is stored as
// NULL: unauthenticated captures keep their entries without an owner.
func (r *EntryRepository) CreateEntry(ctx context.Context, entry *domain.JournalEntry) error {
	analysisJSON, err := json.Marshal(entry.Analysis)
	if err != nil {
		return fmt.Errorf("marshal analysis: %w", err)
	}
	moodsJSON, err := json.Marshal(orEmptyMoods(entry.SpeakerMoods))
	if err != nil {
		return fmt.Errorf("marshal speaker moods: %w", err)
	}
	promptsJSON, err := json.Marshal(orEmptyStrings(entry.Prompts))
	if err != nil {
		return fmt.Errorf("marshal prompts: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO journal_entries (
	id, user_id, entry_timestamp, analysis, audio_url, transcription, speaker_moods, prompts, created_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
`,
		entry.ID, nullableString(entry.UserID), entry.Timestamp, analysisJSON,
		entry.AudioURL, entry.Transcription, moodsJSON, promptsJSON, time.Now().UTC(),
	)
	if err != nil {
		return domain.WrapError(domain.ErrPersistence, "insert journal entry", err)
	}
	return nil
}

func (r *EntryRepository) ListEntries(ctx context.Context, userID string, from, to time.Time, limit int) ([]domain.JournalEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	if to.IsZero() {
		to = time.Now().UTC()
	}

	const base = `
SELECT id, user_id, entry_timestamp, analysis, audio_url, transcription, speaker_moods, prompts
FROM journal_entries
`
	var rows *sql.Rows
	var err error
	if userID == "" {
		rows, err = r.db.QueryContext(ctx, base+`
WHERE user_id IS NULL AND entry_timestamp >= $1 AND entry_timestamp <= $2
ORDER BY entry_timestamp ASC
LIMIT $3
`, from, to, limit)
	} else {
		rows, err = r.db.QueryContext(ctx, base+`
WHERE user_id = $1 AND entry_timestamp >= $2 AND entry_timestamp <= $3
ORDER BY entry_timestamp ASC
LIMIT $4
`, userID, from, to, limit)
	}
	if err != nil {
		return nil, domain.WrapError(domain.ErrPersistence, "list journal entries", err)
	}
	defer rows.Close()

	var entries []domain.JournalEntry
	for rows.Next() {
		var entry domain.JournalEntry
		var owner sql.NullString
		var analysisRaw, moodsRaw, promptsRaw []byte

		err := rows.Scan(
			&entry.ID, &owner, &entry.Timestamp, &analysisRaw,
			&entry.AudioURL, &entry.Transcription, &moodsRaw, &promptsRaw,
		)
		if err != nil {
			return nil, fmt.Errorf("scan journal entry: %w", err)
		}
		if err := json.Unmarshal(analysisRaw, &entry.Analysis); err != nil {
			return nil, fmt.Errorf("unmarshal analysis: %w", err)
		}
		if err := json.Unmarshal(moodsRaw, &entry.SpeakerMoods); err != nil {
			return nil, fmt.Errorf("unmarshal speaker moods: %w", err)
		}
		if err := json.Unmarshal(promptsRaw, &entry.Prompts); err != nil {
			return nil, fmt.Errorf("unmarshal prompts: %w", err)
		}
		entry.UserID = owner.String
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate journal entries: %w", err)
	}
	return entries, nil
}

func orEmptyMoods(moods []domain.SpeakerMood) []domain.SpeakerMood {
	if moods == nil {
		return []domain.SpeakerMood{}
	}
	return moods
}

func orEmptyStrings(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
