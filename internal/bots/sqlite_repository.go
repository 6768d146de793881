package bots

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/spectramedia/bettybot/internal/profile"
)

// SQLiteRepository stores bot records in a SQLite file. Every call runs on
// a scoped connection from the database/sql pool; there is no long-lived
// transaction state.
type SQLiteRepository struct {
	db *sql.DB
}

// OpenSQLite opens (and creates if needed) the bot store at path.
func OpenSQLite(path string) (*SQLiteRepository, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("bots: failed to create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("bots: failed to open sqlite store: %w", err)
	}

	repo := &SQLiteRepository{db: db}
	if err := repo.init(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return repo, nil
}

// Close releases the underlying pool.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) init(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
	CREATE TABLE IF NOT EXISTS bots (
		public_id    TEXT PRIMARY KEY,
		bot_key      TEXT NOT NULL,
		pack         TEXT NOT NULL,
		name         TEXT,
		color        TEXT,
		avatar_file  TEXT,
		greeting     TEXT,
		buyer_email  TEXT,
		owner_name   TEXT,
		profile_json TEXT
	)`)
	if err != nil {
		return fmt.Errorf("bots: failed to ensure bots table: %w", err)
	}
	return nil
}

// Get retrieves a bot by public id.
func (r *SQLiteRepository) Get(ctx context.Context, publicID string) (*Bot, error) {
	if publicID == "" {
		return nil, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
	SELECT public_id, bot_key, pack, name, color, avatar_file, greeting, buyer_email, owner_name, profile_json
	FROM bots WHERE public_id = ? LIMIT 1`, publicID)

	var bot Bot
	var profileJSON sql.NullString
	err := row.Scan(
		&bot.PublicID, &bot.BotKey, &bot.Pack, &bot.Name, &bot.Color,
		&bot.AvatarFile, &bot.Greeting, &bot.BuyerEmail, &bot.OwnerName, &profileJSON,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("bots: failed to load bot %s: %w", publicID, err)
	}

	if profileJSON.Valid && profileJSON.String != "" {
		var prof profile.Profile
		// A corrupt profile column degrades to an empty profile rather
		// than failing the lookup.
		if err := json.Unmarshal([]byte(profileJSON.String), &prof); err == nil {
			bot.Profile = prof
		}
	}
	return &bot, nil
}

// Upsert inserts or updates a bot record keyed by public id.
func (r *SQLiteRepository) Upsert(ctx context.Context, bot *Bot) error {
	if bot == nil || bot.PublicID == "" {
		return errors.New("bots: public id required")
	}

	profileJSON, err := json.Marshal(bot.Profile)
	if err != nil {
		return fmt.Errorf("bots: failed to marshal profile: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
	INSERT INTO bots(public_id, bot_key, pack, name, color, avatar_file, greeting, buyer_email, owner_name, profile_json)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(public_id) DO UPDATE SET
	  pack=excluded.pack,
	  name=excluded.name,
	  color=excluded.color,
	  avatar_file=excluded.avatar_file,
	  greeting=excluded.greeting,
	  buyer_email=excluded.buyer_email,
	  owner_name=excluded.owner_name,
	  profile_json=excluded.profile_json`,
		bot.PublicID, bot.BotKey, bot.Pack, bot.Name, bot.Color,
		bot.AvatarFile, bot.Greeting, bot.BuyerEmail, bot.OwnerName, string(profileJSON),
	)
	if err != nil {
		return fmt.Errorf("bots: failed to upsert bot %s: %w", bot.PublicID, err)
	}
	return nil
}
