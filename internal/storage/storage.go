package storage

import (
	"context"
	"time"
)

// Storage abstracts persistence for register sources, cached register
// snapshots, and extracted entries. The extraction core treats it as an
// opaque store keyed by fetch date; outside the snapshot cache path it never
// reads back its own writes.
type Storage interface {
	// Sources
	ListSources(ctx context.Context) ([]Source, error)
	UpsertSource(ctx context.Context, s Source) error

	// Register snapshots: one cached response payload per (source, date).
	GetRegisterSnapshot(ctx context.Context, source, date string) (*RegisterSnapshot, error)
	SaveRegisterSnapshot(ctx context.Context, snap RegisterSnapshot) error

	// Extracted entries keyed by fetch date (ISO form, so ranges sort).
	SaveEntries(ctx context.Context, entries []Entry) error
	ListEntries(ctx context.Context, dateFrom, dateTo string) ([]Entry, error)

	// Settings
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error

	// Scheduled job bookkeeping
	UpdateScheduledJob(ctx context.Context, name string, started time.Time, dur time.Duration, success bool, errMsg string) error

	Ping(ctx context.Context) error

	// Close releases any resources (no-op for in-memory).
	Close() error
}

// AccountStore holds users, API tokens, policy rules, and email settings.
// The auth and notification services require it; callers assert it off the
// Storage they opened.
type AccountStore interface {
	CreateUser(ctx context.Context, u User) error
	GetUser(ctx context.Context, id string) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	ListUsers(ctx context.Context) ([]User, error)

	CreateToken(ctx context.Context, t Token) error
	GetTokenByHash(ctx context.Context, hash string) (*Token, error)
	ListTokens(ctx context.Context, userID string) ([]Token, error)
	DeleteToken(ctx context.Context, id string) error
	UpdateTokenLastUsed(ctx context.Context, id string) error

	LoadCasbinRules(ctx context.Context) ([]CasbinRule, error)
	AddCasbinRule(ctx context.Context, rule CasbinRule) error
	RemoveCasbinRule(ctx context.Context, rule CasbinRule) error

	GetEmailConfig(ctx context.Context) (*EmailConfig, error)
	SaveEmailConfig(ctx context.Context, cfg EmailConfig) error
}
