package storage

import (
	"context"
	"testing"
	"time"
)

func TestMemorySources(t *testing.T) {
	st := NewMemoryWithSources([]Source{
		{Key: "html-register", Name: "FMCSA Register (HTML)", Kind: "html"},
	})
	ctx := context.Background()

	sources, err := st.ListSources(ctx)
	if err != nil {
		t.Fatalf("list sources failed: %v", err)
	}
	if len(sources) != 1 || sources[0].Key != "html-register" {
		t.Fatalf("unexpected sources: %+v", sources)
	}

	if err := st.UpsertSource(ctx, Source{Key: "pdf-register", Kind: "pdf"}); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	if err := st.UpsertSource(ctx, Source{Key: "html-register", Kind: "html", Name: "renamed"}); err != nil {
		t.Fatalf("upsert existing failed: %v", err)
	}

	sources, _ = st.ListSources(ctx)
	if len(sources) != 2 {
		t.Fatalf("expected 2 sources after upsert, got %d", len(sources))
	}
}

func TestMemorySnapshots(t *testing.T) {
	st := NewMemory()
	ctx := context.Background()

	snap, err := st.GetRegisterSnapshot(ctx, "html", "2024-01-02")
	if err != nil {
		t.Fatalf("get missing snapshot errored: %v", err)
	}
	if snap != nil {
		t.Fatal("expected nil for missing snapshot")
	}

	if err := st.SaveRegisterSnapshot(ctx, RegisterSnapshot{
		Source:    "html",
		Date:      "2024-01-02",
		Payload:   []byte(`{"success":true}`),
		FetchedAt: time.Now(),
	}); err != nil {
		t.Fatalf("save snapshot failed: %v", err)
	}

	snap, err = st.GetRegisterSnapshot(ctx, "html", "2024-01-02")
	if err != nil || snap == nil {
		t.Fatalf("expected saved snapshot, got %v / %v", snap, err)
	}
	if string(snap.Payload) != `{"success":true}` {
		t.Errorf("unexpected payload %q", snap.Payload)
	}

	// Same source, different date: still a miss.
	snap, _ = st.GetRegisterSnapshot(ctx, "html", "2024-01-03")
	if snap != nil {
		t.Error("expected miss for different date")
	}
}

func TestMemoryEntries(t *testing.T) {
	st := NewMemory()
	ctx := context.Background()

	batch := []Entry{
		{Number: "MC-1", Title: "Alpha", Category: "CERTIFICATE", FetchDate: "2024-01-02"},
		{Number: "MC-2", Title: "Beta", Category: "PERMIT", FetchDate: "2024-01-02"},
		{Number: "MC-1", Title: "Alpha", Category: "CERTIFICATE", FetchDate: "2024-01-02"}, // dup in batch
	}
	if err := st.SaveEntries(ctx, batch); err != nil {
		t.Fatalf("save entries failed: %v", err)
	}
	// Re-saving the same batch must not duplicate rows.
	if err := st.SaveEntries(ctx, batch); err != nil {
		t.Fatalf("re-save failed: %v", err)
	}

	rows, err := st.ListEntries(ctx, "", "")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 unique entries, got %d", len(rows))
	}

	// Same entry on a later date is a distinct row.
	if err := st.SaveEntries(ctx, []Entry{
		{Number: "MC-1", Title: "Alpha", Category: "CERTIFICATE", FetchDate: "2024-01-03"},
	}); err != nil {
		t.Fatalf("save later date failed: %v", err)
	}

	rows, _ = st.ListEntries(ctx, "2024-01-03", "")
	if len(rows) != 1 {
		t.Fatalf("expected 1 entry from 2024-01-03 on, got %d", len(rows))
	}

	rows, _ = st.ListEntries(ctx, "2024-01-01", "2024-01-02")
	if len(rows) != 2 {
		t.Fatalf("expected 2 entries in range, got %d", len(rows))
	}
}

func TestMemorySettings(t *testing.T) {
	st := NewMemory()
	ctx := context.Background()

	val, err := st.GetSetting(ctx, "refresh_interval_seconds")
	if err != nil {
		t.Fatalf("get missing setting errored: %v", err)
	}
	if val != "" {
		t.Errorf("expected empty value for missing setting, got %q", val)
	}

	if err := st.SetSetting(ctx, "refresh_interval_seconds", "600"); err != nil {
		t.Fatalf("set setting failed: %v", err)
	}
	val, _ = st.GetSetting(ctx, "refresh_interval_seconds")
	if val != "600" {
		t.Errorf("expected 600, got %q", val)
	}
}

func TestMemoryScheduledJob(t *testing.T) {
	st := NewMemory()
	ctx := context.Background()

	started := time.Now()
	if err := st.UpdateScheduledJob(ctx, "refresh_register", started, 2*time.Second, false, "boom"); err != nil {
		t.Fatalf("update job failed: %v", err)
	}
	if err := st.UpdateScheduledJob(ctx, "refresh_register", started, time.Second, true, ""); err != nil {
		t.Fatalf("second update failed: %v", err)
	}
}

func TestMemoryAccounts(t *testing.T) {
	st := NewMemory()
	ctx := context.Background()

	u := User{ID: "u1", Username: "ops", PasswordHash: "x", Role: "admin"}
	if err := st.CreateUser(ctx, u); err != nil {
		t.Fatalf("create user failed: %v", err)
	}

	got, err := st.GetUserByUsername(ctx, "ops")
	if err != nil || got == nil {
		t.Fatalf("get user failed: %v / %v", got, err)
	}
	if got.Role != "admin" {
		t.Errorf("unexpected role %q", got.Role)
	}

	missing, err := st.GetUserByUsername(ctx, "nobody")
	if err != nil {
		t.Fatalf("get missing user errored: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for missing user")
	}

	tok := Token{ID: "t1", UserID: "u1", TokenHash: "hash1", Role: "admin"}
	if err := st.CreateToken(ctx, tok); err != nil {
		t.Fatalf("create token failed: %v", err)
	}
	gotTok, err := st.GetTokenByHash(ctx, "hash1")
	if err != nil || gotTok == nil {
		t.Fatalf("get token failed: %v / %v", gotTok, err)
	}
	if gotTok.UserID != "u1" {
		t.Errorf("unexpected token user %q", gotTok.UserID)
	}

	if err := st.DeleteToken(ctx, "t1"); err != nil {
		t.Fatalf("delete token failed: %v", err)
	}
	gotTok, _ = st.GetTokenByHash(ctx, "hash1")
	if gotTok != nil {
		t.Error("expected token gone after delete")
	}
}

func TestMemoryEmailConfig(t *testing.T) {
	st := NewMemory()
	ctx := context.Background()

	cfg, err := st.GetEmailConfig(ctx)
	if err != nil {
		t.Fatalf("get missing config errored: %v", err)
	}
	if cfg != nil {
		t.Fatal("expected nil before save")
	}

	if err := st.SaveEmailConfig(ctx, EmailConfig{
		ID:          "c1",
		Provider:    "smtp",
		Host:        "mail.example.com",
		Port:        587,
		FromAddress: "alerts@example.com",
		Recipients:  "ops@example.com",
		Enabled:     true,
	}); err != nil {
		t.Fatalf("save config failed: %v", err)
	}

	cfg, _ = st.GetEmailConfig(ctx)
	if cfg == nil || cfg.Host != "mail.example.com" || !cfg.Enabled {
		t.Fatalf("unexpected config %+v", cfg)
	}
}
