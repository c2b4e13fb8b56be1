package assembler

import (
	"bytes"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Documents below this page count are structurally broken for a
// multi-section guidelines layout
const minDocumentPages = 8

// verifyDocument parses the rendered bytes back with an independent
// PDF implementation and checks the page count, catching renderer
// output a viewer would reject
func verifyDocument(data []byte) (int, error) {
	conf := model.NewDefaultConfiguration()

	if err := api.Validate(bytes.NewReader(data), conf); err != nil {
		return 0, fmt.Errorf("document failed validation: %w", err)
	}

	pdfCtx, err := api.ReadContext(bytes.NewReader(data), conf)
	if err != nil {
		return 0, fmt.Errorf("document is unreadable: %w", err)
	}

	if pdfCtx.PageCount < minDocumentPages {
		return 0, fmt.Errorf("document has %d pages, expected at least %d", pdfCtx.PageCount, minDocumentPages)
	}
	return pdfCtx.PageCount, nil
}
