// Package pdf renders stored document payloads into PDF artifacts.
package pdf

import (
	"context"
	"fmt"

	"github.com/gosimple/slug"
	documentdomain "github.com/smallbiznis/paydocs/internal/document/domain"
)

// Renderer turns a stored document into an artifact and returns its URI.
// Rendering reads the frozen payload only; it never touches the
// calculation services.
type Renderer interface {
	Render(ctx context.Context, doc *documentdomain.GeneratedDocument) (string, error)
}

// ArtifactName builds a stable file name for one document.
func ArtifactName(doc *documentdomain.GeneratedDocument) string {
	return slug.Make(fmt.Sprintf("%s-%s", doc.Type, doc.ID.String())) + ".pdf"
}

func formatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}
