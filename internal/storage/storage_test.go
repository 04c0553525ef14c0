package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/happyhackingspace/campo/classifier"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "campo.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLearnedEntriesRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	entries, err := s.LearnedEntries(ctx)
	if err != nil {
		t.Fatalf("LearnedEntries on empty store: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("empty store has %d entries", len(entries))
	}

	if err := s.StoreLearnedEntry(ctx, "cpf do titular", classifier.FieldCPF, "cpf"); err != nil {
		t.Fatalf("StoreLearnedEntry: %v", err)
	}
	if err := s.StoreLearnedEntry(ctx, "seu email", classifier.FieldEmail, "email"); err != nil {
		t.Fatalf("StoreLearnedEntry: %v", err)
	}

	entries, err = s.LearnedEntries(ctx)
	if err != nil {
		t.Fatalf("LearnedEntries: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len = %d, want 2", len(entries))
	}
	if entries[0].Signals != "cpf do titular" || entries[0].Type != classifier.FieldCPF || entries[0].GeneratorType != "cpf" {
		t.Errorf("entry 0 = %+v", entries[0])
	}
}

func TestStoreLearnedEntryUpsert(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.StoreLearnedEntry(ctx, "cpf", classifier.FieldCPF, ""); err != nil {
		t.Fatalf("StoreLearnedEntry: %v", err)
	}
	if err := s.StoreLearnedEntry(ctx, "cpf", classifier.FieldCPF, "cpf"); err != nil {
		t.Fatalf("StoreLearnedEntry upsert: %v", err)
	}

	entries, err := s.LearnedEntries(ctx)
	if err != nil {
		t.Fatalf("LearnedEntries: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("len = %d, want 1 after upsert", len(entries))
	}
	if entries[0].GeneratorType != "cpf" {
		t.Errorf("GeneratorType = %q, want updated value", entries[0].GeneratorType)
	}
}

func TestDatasetEntries(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, e := range []classifier.DatasetEntry{
		{Signals: "cpf do titular", Type: classifier.FieldCPF, Source: "loja.com.br", Difficulty: "hard"},
		{Signals: "seu email", Type: classifier.FieldEmail, Source: "blog.com.br", Difficulty: "hard"},
		{Signals: "email de contato", Type: classifier.FieldEmail, Source: "loja.com.br", Difficulty: "easy"},
	} {
		if err := s.AddDatasetEntry(ctx, e); err != nil {
			t.Fatalf("AddDatasetEntry: %v", err)
		}
	}

	entries, err := s.DatasetEntries(ctx)
	if err != nil {
		t.Fatalf("DatasetEntries: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("len = %d, want 3", len(entries))
	}
	if entries[0].Source != "loja.com.br" || entries[0].Difficulty != "hard" {
		t.Errorf("entry 0 = %+v", entries[0])
	}
}

func TestStats(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	s.StoreLearnedEntry(ctx, "cpf", classifier.FieldCPF, "")
	s.StoreLearnedEntry(ctx, "outro cpf", classifier.FieldCPF, "")
	s.AddDatasetEntry(ctx, classifier.DatasetEntry{Signals: "cpf", Type: classifier.FieldCPF, Source: "a.com"})
	s.AddDatasetEntry(ctx, classifier.DatasetEntry{Signals: "email", Type: classifier.FieldEmail, Source: "b.com"})
	s.AddDatasetEntry(ctx, classifier.DatasetEntry{Signals: "email 2", Type: classifier.FieldEmail, Source: "a.com"})

	st, err := s.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if st.LearnedCount != 2 || st.DatasetCount != 3 {
		t.Errorf("counts = %d/%d, want 2/3", st.LearnedCount, st.DatasetCount)
	}
	if st.LearnedByType[classifier.FieldCPF] != 2 {
		t.Errorf("learned cpf = %d", st.LearnedByType[classifier.FieldCPF])
	}
	if st.DatasetByType[classifier.FieldEmail] != 2 {
		t.Errorf("dataset email = %d", st.DatasetByType[classifier.FieldEmail])
	}
	if st.DatasetSources != 2 {
		t.Errorf("sources = %d, want 2", st.DatasetSources)
	}
}

func TestGetDomain(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://www.example.com.br/cadastro", "example"},
		{"http://loja.example.com:8080/", "example"},
		{"https://example.co.uk/form", "example"},
		{"localhost", "localhost"},
	}
	for _, tt := range tests {
		if got := GetDomain(tt.url); got != tt.want {
			t.Errorf("GetDomain(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}
