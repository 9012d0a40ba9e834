package pipeline

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tsereda/declarant/internal/model"
)

// DecodeDeclarations reads supplier declarations from CSV text with a
// header row. Each data row is decoded into a header→value mapping and
// handed to the parser; short rows are tolerated the same way missing
// columns are.
func DecodeDeclarations(r io.Reader) ([]model.SupplierDeclaration, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // rows may be ragged, missing cells just default

	header, err := reader.Read()
	if err == io.EOF {
		return []model.SupplierDeclaration{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	var declarations []model.SupplierDeclaration
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}

		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			}
		}
		declarations = append(declarations, model.DeclarationFromRow(row))
	}

	return declarations, nil
}

// LoadDeclarations reads declarations from a CSV file on disk.
func LoadDeclarations(path string) ([]model.SupplierDeclaration, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open declarations: %w", err)
	}
	defer f.Close()

	decls, err := DecodeDeclarations(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return decls, nil
}

// DecodeDeclarationsText is DecodeDeclarations over an in-memory
// string, as received from an upload.
func DecodeDeclarationsText(text string) ([]model.SupplierDeclaration, error) {
	return DecodeDeclarations(strings.NewReader(text))
}
