package pipeline

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tsereda/declarant/internal/dictionary"
	"github.com/tsereda/declarant/internal/model"
)

const sampleCSV = `Company Name,Contact Name,Email Address,Article Description,PFAS Presence,Known or Reasonably Ascertainable Basis,Evidence,CBI Claim
Acme,Jane Doe,jane@acme.example,contains PFOA coating,,supplier survey,,false
Globex,John Roe,john@globex.example,steel bracket,No,lab test,report.pdf,yes
`

func TestDecodeDeclarationsText(t *testing.T) {
	decls, err := DecodeDeclarationsText(sampleCSV)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(decls) != 2 {
		t.Fatalf("Expected 2 declarations, got %d", len(decls))
	}

	if decls[0].CompanyName != "Acme" {
		t.Errorf("Expected 'Acme', got %q", decls[0].CompanyName)
	}
	if decls[0].PFASPresence != model.PresenceUnknown {
		t.Errorf("Expected blank presence to default to Unknown, got %q", decls[0].PFASPresence)
	}
	if decls[0].Evidence.Valid {
		t.Errorf("Expected absent evidence, got %+v", decls[0].Evidence)
	}

	if decls[1].PFASPresence != "No" {
		t.Errorf("Expected 'No', got %q", decls[1].PFASPresence)
	}
	if !decls[1].CBIClaim {
		t.Error("Expected CBI claim true for 'yes'")
	}
	if !decls[1].Evidence.Valid || decls[1].Evidence.String != "report.pdf" {
		t.Errorf("Expected evidence 'report.pdf', got %+v", decls[1].Evidence)
	}
}

func TestDecodeDeclarations_RaggedRows(t *testing.T) {
	csv := "Company Name,Contact Name,Email Address\nAcme\n"
	decls, err := DecodeDeclarationsText(csv)
	if err != nil {
		t.Fatalf("Expected short rows to be tolerated, got %v", err)
	}
	if len(decls) != 1 || decls[0].CompanyName != "Acme" {
		t.Fatalf("Unexpected declarations: %+v", decls)
	}
	if decls[0].ContactName != "" {
		t.Errorf("Expected missing cell to default empty, got %q", decls[0].ContactName)
	}
}

func TestDecodeDeclarations_Empty(t *testing.T) {
	decls, err := DecodeDeclarationsText("")
	if err != nil {
		t.Fatalf("Expected no error for empty input, got %v", err)
	}
	if len(decls) != 0 {
		t.Errorf("Expected 0 declarations, got %d", len(decls))
	}
}

func TestPipeline_RunWithDictionary(t *testing.T) {
	decls, err := DecodeDeclarationsText(sampleCSV)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	p := NewPipeline(model.DefaultConfig())
	result, err := p.Run(context.Background(), decls, dictionary.New([]string{"pfoa"}))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if result.Promoted != 1 {
		t.Errorf("Expected 1 promotion, got %d", result.Promoted)
	}
	if result.Report.Declarations[0].PFASPresence != "Yes" {
		t.Errorf("Expected promoted 'Yes', got %q", result.Report.Declarations[0].PFASPresence)
	}
	if result.Report.Summary.ResponseRate != 1.0 {
		t.Errorf("Expected response rate 1.0, got %f", result.Report.Summary.ResponseRate)
	}
}

func TestPipeline_RunWithoutDictionary(t *testing.T) {
	decls, err := DecodeDeclarationsText(sampleCSV)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	p := NewPipeline(model.DefaultConfig())
	result, err := p.Run(context.Background(), decls, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if result.Promoted != 0 {
		t.Errorf("Expected no promotions, got %d", result.Promoted)
	}
	if result.Report.Declarations[0].PFASPresence != "Unknown" {
		t.Errorf("Expected 'Unknown' without dictionary, got %q", result.Report.Declarations[0].PFASPresence)
	}
}

func TestPipeline_RunFiles(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "suppliers.csv")
	dictPath := filepath.Join(dir, "pfas.txt")
	if err := os.WriteFile(csvPath, []byte(sampleCSV), 0644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	if err := os.WriteFile(dictPath, []byte("pfoa\n"), 0644); err != nil {
		t.Fatalf("write dict: %v", err)
	}

	p := NewPipeline(model.DefaultConfig())
	result, err := p.RunFiles(context.Background(), csvPath, dictPath)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if result.Report.Summary.SupplierCount != 2 {
		t.Errorf("Expected 2 suppliers, got %d", result.Report.Summary.SupplierCount)
	}
	if result.Promoted != 1 {
		t.Errorf("Expected 1 promotion, got %d", result.Promoted)
	}
}

func TestPipeline_RunFiles_MissingCSV(t *testing.T) {
	p := NewPipeline(model.DefaultConfig())
	if _, err := p.RunFiles(context.Background(), filepath.Join(t.TempDir(), "nope.csv"), ""); err == nil {
		t.Error("Expected error for missing CSV")
	}
}

func TestRenderJSON_RoundTrip(t *testing.T) {
	decls, _ := DecodeDeclarationsText(sampleCSV)
	p := NewPipeline(model.DefaultConfig())
	result, err := p.Run(context.Background(), decls, nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	path := filepath.Join(t.TempDir(), "report.json")
	if err := NewRenderer(true).RenderJSON(result.Report, path); err != nil {
		t.Fatalf("render: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	// The persisted document must have exactly the two top-level keys.
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(doc) != 2 {
		t.Errorf("Expected exactly 2 top-level keys, got %d", len(doc))
	}
	for _, key := range []string{"summary", "declarations"} {
		if _, ok := doc[key]; !ok {
			t.Errorf("Expected top-level key %q", key)
		}
	}

	var roundTrip model.Report
	if err := json.Unmarshal(data, &roundTrip); err != nil {
		t.Fatalf("round-trip unmarshal: %v", err)
	}
	if roundTrip.Summary.SupplierCount != 2 {
		t.Errorf("Expected supplier count to survive round-trip, got %d", roundTrip.Summary.SupplierCount)
	}
}

func TestRenderMarkdown(t *testing.T) {
	decls, _ := DecodeDeclarationsText(sampleCSV)
	p := NewPipeline(model.DefaultConfig())
	result, _ := p.Run(context.Background(), decls, dictionary.New([]string{"pfoa"}))

	path := filepath.Join(t.TempDir(), "report.md")
	if err := NewRenderer(true).RenderMarkdown(result, path); err != nil {
		t.Fatalf("render: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	md := string(data)
	for _, want := range []string{"# PFAS Declaration Report", "| Acme |", "Response rate", "promoted to Yes"} {
		if !strings.Contains(md, want) {
			t.Errorf("Expected markdown to contain %q", want)
		}
	}
}
