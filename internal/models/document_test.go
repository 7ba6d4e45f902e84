package models

import "testing"

func TestDocument_Validate(t *testing.T) {
	valid := Document{
		ID:       "doc_001",
		Title:    "Personal Loan Requirements",
		Content:  "Minimum age of 21 years.",
		Category: "loans",
		Source:   "lending_policies.pdf",
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid document rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Document)
	}{
		{"missing id", func(d *Document) { d.ID = "" }},
		{"missing title", func(d *Document) { d.Title = "" }},
		{"missing content", func(d *Document) { d.Content = "" }},
		{"missing category", func(d *Document) { d.Category = "" }},
		{"missing source", func(d *Document) { d.Source = "" }},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			d := valid
			c.mutate(&d)
			if err := d.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestRetrieveRequest_Validate(t *testing.T) {
	q := RetrieveRequest{Query: "loan requirements"}
	if err := q.Validate(3, 20); err != nil {
		t.Fatal(err)
	}
	if q.TopK != 3 {
		t.Errorf("TopK = %d, want default 3", q.TopK)
	}

	q = RetrieveRequest{Query: "loan requirements", TopK: 100}
	if err := q.Validate(3, 20); err != nil {
		t.Fatal(err)
	}
	if q.TopK != 20 {
		t.Errorf("TopK = %d, want capped 20", q.TopK)
	}

	q = RetrieveRequest{}
	if err := q.Validate(3, 20); err == nil {
		t.Error("expected error for empty query")
	}
}
