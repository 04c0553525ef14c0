package campo

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/happyhackingspace/campo/classifier"
	"github.com/happyhackingspace/campo/internal/storage"
)

const registrationHTML = `
<html><body>
<form>
  <input type="email" name="contato">
  <label for="doc">CPF</label>
  <input type="text" id="doc" name="doc">
  <input type="text" name="xyzzy_42">
</form>
</body></html>`

func newTestClassifier(t *testing.T) *Classifier {
	t.Helper()
	c, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestExtractFieldsEndToEnd(t *testing.T) {
	c := newTestClassifier(t)
	fields, err := c.ExtractFields(registrationHTML)
	if err != nil {
		t.Fatalf("ExtractFields: %v", err)
	}
	if len(fields) != 3 {
		t.Fatalf("len = %d, want 3", len(fields))
	}

	email := fields[0]
	if email.FieldType != classifier.FieldEmail {
		t.Errorf("email field = %s", email.FieldType)
	}
	if email.DetectionMethod != "html-type" || email.DetectionConfidence != 1.0 {
		t.Errorf("email method/confidence = %s/%v, want html-type/1.0",
			email.DetectionMethod, email.DetectionConfidence)
	}

	cpf := fields[1]
	if cpf.FieldType != classifier.FieldCPF {
		t.Errorf("cpf field = %s", cpf.FieldType)
	}
	if cpf.DetectionMethod != "keyword" {
		t.Errorf("cpf method = %s, want keyword", cpf.DetectionMethod)
	}

	// Nonsense signals fall through to the terminal sentinel.
	junk := fields[2]
	if junk.FieldType != classifier.FieldUnknown || junk.DetectionMethod != classifier.FallbackMethod {
		t.Errorf("junk field = %s via %s, want unknown via %s",
			junk.FieldType, junk.DetectionMethod, classifier.FallbackMethod)
	}
	if junk.DetectionConfidence != classifier.FallbackConfidence {
		t.Errorf("junk confidence = %v, want %v", junk.DetectionConfidence, classifier.FallbackConfidence)
	}
}

func TestExtractFieldsAsyncWithoutOracle(t *testing.T) {
	c := newTestClassifier(t)
	fields, err := c.ExtractFieldsAsync(context.Background(), registrationHTML)
	if err != nil {
		t.Fatalf("ExtractFieldsAsync: %v", err)
	}
	if len(fields) != 3 {
		t.Fatalf("len = %d, want 3", len(fields))
	}
	if fields[0].FieldType != classifier.FieldEmail {
		t.Errorf("email field = %s", fields[0].FieldType)
	}
}

func TestFillPlan(t *testing.T) {
	c := newTestClassifier(t)
	fields, err := c.ExtractFields(registrationHTML)
	if err != nil {
		t.Fatalf("ExtractFields: %v", err)
	}
	plan := c.FillPlan(fields)
	if len(plan) != len(fields) {
		t.Fatalf("plan has %d entries, want %d", len(plan), len(fields))
	}
	for _, e := range plan {
		if e.Selector == "" || e.Value == "" {
			t.Errorf("incomplete entry %+v", e)
		}
	}
	if plan[1].Type != classifier.FieldCPF {
		t.Errorf("plan[1].Type = %s, want cpf", plan[1].Type)
	}
}

func TestStreamFields(t *testing.T) {
	c := newTestClassifier(t)
	ch, err := c.StreamFields(context.Background(), registrationHTML)
	if err != nil {
		t.Fatalf("StreamFields: %v", err)
	}
	n := 0
	for f := range ch {
		if f.DetectionMethod == "" {
			t.Errorf("field %s yielded unclassified", f.Selector)
		}
		n++
	}
	if n != 3 {
		t.Errorf("yielded %d fields, want 3", n)
	}
}

func TestSaveAndLoad(t *testing.T) {
	c := newTestClassifier(t)
	path := filepath.Join(t.TempDir(), "model.json")
	if err := c.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	fields, err := loaded.ExtractFields(registrationHTML)
	if err != nil {
		t.Fatalf("ExtractFields: %v", err)
	}
	if fields[1].FieldType != classifier.FieldCPF {
		t.Errorf("loaded classifier: cpf field = %s", fields[1].FieldType)
	}
}

func TestTrainAndEvaluateFromStore(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "campo.db"))
	if err != nil {
		t.Fatalf("storage.Open: %v", err)
	}
	defer store.Close()
	ctx := context.Background()

	seedStoreEntries(t, store)

	model, err := Train(ctx, store, TrainOptions{})
	if err != nil {
		t.Fatalf("Train: %v", err)
	}
	got, _ := model.Best(model.Vectorize("cpf do cliente"))
	if got != classifier.FieldCPF {
		t.Errorf("trained model classifies 'cpf do cliente' as %s", got)
	}

	res, err := Evaluate(ctx, store, EvalOptions{Folds: 2})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if res.Total == 0 {
		t.Error("Evaluate scored no examples")
	}
	if res.Accuracy < 0 || res.Accuracy > 1 {
		t.Errorf("Accuracy = %v", res.Accuracy)
	}
}

func TestTrainEmptyStoreFails(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "campo.db"))
	if err != nil {
		t.Fatalf("storage.Open: %v", err)
	}
	defer store.Close()

	if _, err := Train(context.Background(), store, TrainOptions{}); err == nil {
		t.Error("Train on empty store: want error")
	}
}

func seedStoreEntries(t *testing.T, store *storage.Store) {
	t.Helper()
	ctx := context.Background()
	entries := []classifier.DatasetEntry{
		{Signals: "cpf do titular", Type: classifier.FieldCPF, Source: "https://a.com.br/x"},
		{Signals: "numero do cpf", Type: classifier.FieldCPF, Source: "https://b.com.br/x"},
		{Signals: "informe seu cpf", Type: classifier.FieldCPF, Source: "https://c.com.br/x"},
		{Signals: "digite o cpf", Type: classifier.FieldCPF, Source: "https://d.com.br/x"},
		{Signals: "endereco de email", Type: classifier.FieldEmail, Source: "https://a.com.br/x"},
		{Signals: "seu email para contato", Type: classifier.FieldEmail, Source: "https://b.com.br/x"},
		{Signals: "email corporativo", Type: classifier.FieldEmail, Source: "https://c.com.br/x"},
		{Signals: "confirme o email", Type: classifier.FieldEmail, Source: "https://d.com.br/x"},
		{Signals: "telefone para contato", Type: classifier.FieldPhone, Source: "https://a.com.br/x"},
		{Signals: "telefone celular com ddd", Type: classifier.FieldPhone, Source: "https://b.com.br/x"},
		{Signals: "numero de telefone", Type: classifier.FieldPhone, Source: "https://c.com.br/x"},
		{Signals: "telefone residencial", Type: classifier.FieldPhone, Source: "https://d.com.br/x"},
	}
	for _, e := range entries {
		if err := store.AddDatasetEntry(ctx, e); err != nil {
			t.Fatalf("AddDatasetEntry: %v", err)
		}
	}
}
