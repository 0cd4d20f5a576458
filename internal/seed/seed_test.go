package seed

import (
	"errors"
	"loadboard-service/internal/domain"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	s := Default()

	if len(s.Loads) != 6 {
		t.Fatalf("loads = %d, want 6", len(s.Loads))
	}
	if len(s.CarrierEmails) != 5 {
		t.Fatalf("carrier emails = %d, want 5", len(s.CarrierEmails))
	}
	for _, l := range s.Loads {
		if err := domain.ValidateDetails(l.LoadDetails); err != nil {
			t.Errorf("load %s invalid: %v", l.ID, err)
		}
	}
}

func TestDefaultReturnsIndependentCopies(t *testing.T) {
	a := Default()
	a.Loads[0].Origin = "changed"

	b := Default()
	if b.Loads[0].Origin == "changed" {
		t.Fatal("Default shares state between calls")
	}
}

func TestFromFileRejectsMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.json")
	if err := os.WriteFile(path, []byte(`{"loads": {}, "carrierEmails": []}`), 0o644); err != nil {
		t.Fatalf("write seed: %v", err)
	}

	_, err := FromFile(path)
	if !errors.Is(err, domain.ErrMalformedState) {
		t.Fatalf("err = %v, want ErrMalformedState", err)
	}
}

func TestFromFileRejectsInvalidLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.json")
	doc := `{"loads": [{"id": "x", "itemDescriptions": [], "origin": "A", "destinations": ["B"]}], "carrierEmails": []}`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write seed: %v", err)
	}

	_, err := FromFile(path)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}
