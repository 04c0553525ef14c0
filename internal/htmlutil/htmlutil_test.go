package htmlutil

import (
	"strings"
	"testing"
)

const sampleForm = `
<html><body>
<form id="cadastro">
  <label for="nome">Nome completo</label>
  <input type="text" id="nome" name="nome">

  <label for="cpf">CPF</label>
  <input type="text" id="cpf" name="cpf" placeholder="000.000.000-00">

  <input type="email" name="email" aria-label="E-mail">

  <label>Telefone <input type="tel"></label>

  <textarea name="mensagem" title="Sua mensagem"></textarea>

  <select name="estado"><option>SP</option></select>

  <input type="hidden" name="csrf" value="x">
  <input type="submit" value="Enviar">
  <input type="button" value="Limpar">
</form>
</body></html>`

func TestExtractFields(t *testing.T) {
	doc, err := LoadHTMLString(sampleForm)
	if err != nil {
		t.Fatalf("LoadHTMLString: %v", err)
	}
	fields := ExtractFields(doc)
	if len(fields) != 6 {
		for _, f := range fields {
			t.Logf("  %s (%s/%s)", f.Selector, f.Tag, f.NativeType)
		}
		t.Fatalf("extracted %d fields, want 6", len(fields))
	}

	nome := fields[0]
	if nome.Selector != "#nome" {
		t.Errorf("selector = %q, want #nome", nome.Selector)
	}
	if nome.Label != "Nome completo" {
		t.Errorf("label = %q", nome.Label)
	}
	if nome.NativeType != "text" || nome.Tag != "input" {
		t.Errorf("tag/type = %s/%s", nome.Tag, nome.NativeType)
	}

	cpf := fields[1]
	if cpf.ContextSignals == "" {
		t.Fatal("cpf field has no signals")
	}
	for _, want := range []string{"cpf", "000 000 000 00"} {
		if !strings.Contains(cpf.ContextSignals, want) {
			t.Errorf("cpf signals %q missing %q", cpf.ContextSignals, want)
		}
	}

	email := fields[2]
	if email.Selector != `input[name="email"]` {
		t.Errorf("email selector = %q", email.Selector)
	}
	if !strings.Contains(email.ContextSignals, "e mail") {
		t.Errorf("email signals %q missing aria-label text", email.ContextSignals)
	}

	tel := fields[3]
	if tel.Label != "Telefone" {
		t.Errorf("ancestor label = %q, want Telefone", tel.Label)
	}

	if fields[4].Tag != "textarea" || fields[5].Tag != "select" {
		t.Errorf("tags = %s/%s, want textarea/select", fields[4].Tag, fields[5].Tag)
	}
}

func TestExtractFieldsSkipsNonFillable(t *testing.T) {
	doc, err := LoadHTMLString(`<form>
		<input type="hidden" name="h">
		<input type="submit">
		<input type="reset">
		<input type="image">
		<input type="button">
		<input type="file" name="f">
	</form>`)
	if err != nil {
		t.Fatalf("LoadHTMLString: %v", err)
	}
	if fields := ExtractFields(doc); len(fields) != 0 {
		t.Errorf("extracted %d fields, want 0", len(fields))
	}
}

func TestExtractFieldsUniqueSelectors(t *testing.T) {
	doc, err := LoadHTMLString(`<form>
		<input type="text">
		<input type="text">
		<input type="text">
	</form>`)
	if err != nil {
		t.Fatalf("LoadHTMLString: %v", err)
	}
	fields := ExtractFields(doc)
	if len(fields) != 3 {
		t.Fatalf("extracted %d fields, want 3", len(fields))
	}
	seen := make(map[string]bool)
	for _, f := range fields {
		if seen[f.Selector] {
			t.Errorf("duplicate selector %q", f.Selector)
		}
		seen[f.Selector] = true
	}
}

func TestExtractFieldsMissingTypeDefaultsToText(t *testing.T) {
	doc, err := LoadHTMLString(`<form><input name="q"></form>`)
	if err != nil {
		t.Fatalf("LoadHTMLString: %v", err)
	}
	fields := ExtractFields(doc)
	if len(fields) != 1 {
		t.Fatalf("extracted %d fields, want 1", len(fields))
	}
	if fields[0].NativeType != "text" {
		t.Errorf("NativeType = %q, want text", fields[0].NativeType)
	}
}

func TestFindLabel(t *testing.T) {
	doc, err := LoadHTMLString(sampleForm)
	if err != nil {
		t.Fatalf("LoadHTMLString: %v", err)
	}

	byFor := FindLabel(doc.Selection, doc.Find("#cpf"))
	if byFor == nil {
		t.Fatal("FindLabel(#cpf) = nil")
	}
	if got := strings.TrimSpace(byFor.Text()); got != "CPF" {
		t.Errorf("label text = %q, want CPF", got)
	}

	ancestor := FindLabel(doc.Selection, doc.Find(`input[type="tel"]`))
	if ancestor == nil {
		t.Fatal("FindLabel(tel) = nil")
	}
	if got := strings.TrimSpace(ancestor.Text()); !strings.Contains(got, "Telefone") {
		t.Errorf("ancestor label text = %q", got)
	}

	if got := FindLabel(doc.Selection, doc.Find(`input[name="email"]`)); got != nil {
		t.Errorf("FindLabel(unlabeled) = %q, want nil", got.Text())
	}
}

func TestForms(t *testing.T) {
	doc, err := LoadHTMLString(`<form id="a"></form><form id="b"></form>`)
	if err != nil {
		t.Fatalf("LoadHTMLString: %v", err)
	}
	if got := Forms(doc); len(got) != 2 {
		t.Errorf("Forms = %d, want 2", len(got))
	}
}

