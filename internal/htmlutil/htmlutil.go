// Package htmlutil extracts fillable form fields from HTML documents.
package htmlutil

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/happyhackingspace/campo/classifier"
	"github.com/happyhackingspace/campo/internal/textutil"
)

// Input types that carry no user-typed value and are skipped during
// extraction.
var skippedInputTypes = map[string]bool{
	"hidden": true,
	"submit": true,
	"button": true,
	"image":  true,
	"reset":  true,
	"file":   true,
}

// LoadHTML parses HTML bytes into a goquery Document.
func LoadHTML(r io.Reader) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(r)
}

// LoadHTMLString parses an HTML string into a goquery Document.
func LoadHTMLString(htmlStr string) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(htmlStr))
}

// ExtractFields scans the document for fillable inputs, textareas and selects
// and returns one FormField per element, in document order. Hidden and
// button-like inputs are skipped. Selectors are unique within one scan.
func ExtractFields(doc *goquery.Document) []*classifier.FormField {
	var fields []*classifier.FormField
	nthByTag := make(map[string]int)

	doc.Find("input, textarea, select").Each(func(_ int, s *goquery.Selection) {
		tag := goquery.NodeName(s)
		nthByTag[tag]++

		nativeType := ""
		if tag == "input" {
			tp, exists := s.Attr("type")
			if !exists || tp == "" {
				tp = "text"
			}
			nativeType = strings.ToLower(strings.TrimSpace(tp))
			if skippedInputTypes[nativeType] {
				return
			}
		}

		name, _ := s.Attr("name")
		id, _ := s.Attr("id")
		labelText := labelTextFor(doc, s)

		f := &classifier.FormField{
			Selector:       selectorFor(s, tag, name, id, nthByTag[tag]),
			Element:        s,
			Label:          labelText,
			Name:           name,
			ID:             id,
			Tag:            tag,
			NativeType:     nativeType,
			ContextSignals: buildSignals(s, name, id, labelText),
		}
		fields = append(fields, f)
	})
	return fields
}

// selectorFor builds a CSS selector for the element: by id, then by tag and
// name, then by position.
func selectorFor(s *goquery.Selection, tag, name, id string, nth int) string {
	if id != "" {
		return "#" + id
	}
	if name != "" {
		return fmt.Sprintf("%s[name=%q]", tag, name)
	}
	return fmt.Sprintf("%s:nth-of-type(%d)", tag, nth)
}

// labelTextFor resolves the label text for a field: a label[for] matching the
// id, or an ancestor label element.
func labelTextFor(doc *goquery.Document, elem *goquery.Selection) string {
	if label := FindLabel(doc.Selection, elem); label != nil {
		return strings.TrimSpace(label.Text())
	}
	return ""
}

// buildSignals joins the field's identifying attributes and label into one
// normalized signal string for the classifiers.
func buildSignals(s *goquery.Selection, name, id, labelText string) string {
	parts := make([]string, 0, 6)
	appendPart := func(v string) {
		if strings.TrimSpace(v) != "" {
			parts = append(parts, v)
		}
	}
	appendPart(labelText)
	appendPart(name)
	appendPart(id)
	placeholder, _ := s.Attr("placeholder")
	appendPart(placeholder)
	title, _ := s.Attr("title")
	appendPart(title)
	ariaLabel, _ := s.Attr("aria-label")
	appendPart(ariaLabel)
	return textutil.Normalize(strings.Join(parts, " "))
}

// FindLabel returns the label element associated with a form field, or nil.
func FindLabel(scope *goquery.Selection, elem *goquery.Selection) *goquery.Selection {
	if id, exists := elem.Attr("id"); exists && id != "" {
		label := scope.Find("label[for=\"" + id + "\"]")
		if label.Length() > 0 {
			return label.First()
		}
	}
	if parent := elem.Closest("label"); parent.Length() > 0 {
		return parent
	}
	return nil
}

// Forms returns all form elements in the document.
func Forms(doc *goquery.Document) []*goquery.Selection {
	var forms []*goquery.Selection
	doc.Find("form").Each(func(_ int, s *goquery.Selection) {
		forms = append(forms, s)
	})
	return forms
}
