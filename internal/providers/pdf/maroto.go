package pdf

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	appconfig "github.com/smallbiznis/paydocs/internal/config"
	documentdomain "github.com/smallbiznis/paydocs/internal/document/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type MarotoRenderer struct {
	log *zap.Logger
	dir string
}

type RendererParam struct {
	fx.In

	Log *zap.Logger
	Cfg appconfig.Config
}

func NewMarotoRenderer(p RendererParam) Renderer {
	return &MarotoRenderer{
		log: p.Log.Named("pdf.renderer"),
		dir: p.Cfg.ArtifactDir,
	}
}

func (r *MarotoRenderer) Render(ctx context.Context, doc *documentdomain.GeneratedDocument) (string, error) {
	m, err := r.build(doc)
	if err != nil {
		return "", err
	}

	rendered, err := m.Generate()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return "", err
	}

	path := filepath.Join(r.dir, ArtifactName(doc))
	if err := rendered.Save(path); err != nil {
		return "", err
	}

	r.log.Info("artifact rendered",
		zap.String("document_id", doc.ID.String()),
		zap.String("type", string(doc.Type)),
		zap.String("path", path),
	)
	return path, nil
}

func (r *MarotoRenderer) build(doc *documentdomain.GeneratedDocument) (core.Maroto, error) {
	switch doc.Type {
	case documentdomain.DocumentTypePaystub:
		var payload documentdomain.PaystubPayload
		if err := json.Unmarshal(doc.Payload, &payload); err != nil {
			return nil, err
		}
		return buildPaystub(payload), nil
	case documentdomain.DocumentTypeW2:
		var payload documentdomain.W2Payload
		if err := json.Unmarshal(doc.Payload, &payload); err != nil {
			return nil, err
		}
		return buildW2(payload), nil
	case documentdomain.DocumentType1099Misc:
		var payload documentdomain.Form1099Payload
		if err := json.Unmarshal(doc.Payload, &payload); err != nil {
			return nil, err
		}
		return build1099(payload), nil
	case documentdomain.DocumentTypeTaxReturn:
		var payload documentdomain.TaxReturnPayload
		if err := json.Unmarshal(doc.Payload, &payload); err != nil {
			return nil, err
		}
		return buildTaxReturn(payload), nil
	}
	return nil, documentdomain.ErrInvalidDocumentType
}

func newDocument() core.Maroto {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	return maroto.New(cfg)
}

func buildPaystub(p documentdomain.PaystubPayload) core.Maroto {
	m := newDocument()

	m.AddRow(12,
		text.NewCol(12, "Earnings Statement", props.Text{
			Size:  18,
			Style: fontstyle.Bold,
			Align: align.Center,
		}),
	)

	m.AddRow(30,
		col.New(6).Add(
			text.New(p.Employer.Name, props.Text{Style: fontstyle.Bold}),
			text.New(p.Employer.Address, props.Text{Top: 5}),
			text.New("EIN: "+p.Employer.EIN, props.Text{Top: 10}),
		),
		col.New(6).Add(
			text.New(p.Employee.Name, props.Text{Style: fontstyle.Bold}),
			text.New(p.Employee.Address, props.Text{Top: 5}),
			text.New("SSN: "+maskTaxID(p.Employee.TaxID), props.Text{Top: 10}),
		),
	)

	m.AddRow(10,
		text.NewCol(12, fmt.Sprintf("Pay period %s - %s, paid %s",
			p.Period.StartDate.Format("01/02/2006"),
			p.Period.EndDate.Format("01/02/2006"),
			p.Period.PayDate.Format("01/02/2006"),
		), props.Text{Size: 9}),
	)

	addLineTable(m, "Earnings", p.Earnings)
	addLineTable(m, "Deductions", p.Deductions)
	addLineTable(m, "Year to Date", p.YtdLines)

	m.AddRow(12,
		col.New(8),
		text.NewCol(2, "Net Pay", props.Text{Style: fontstyle.Bold, Size: 11}),
		text.NewCol(2, formatCents(p.NetCents), props.Text{Style: fontstyle.Bold, Size: 11, Align: align.Right}),
	)

	return m
}

func buildW2(p documentdomain.W2Payload) core.Maroto {
	m := newDocument()

	m.AddRow(12,
		text.NewCol(12, fmt.Sprintf("Form W-2 Wage and Tax Statement %d", p.Year), props.Text{
			Size:  16,
			Style: fontstyle.Bold,
			Align: align.Center,
		}),
	)

	m.AddRow(30,
		col.New(6).Add(
			text.New("Employer", props.Text{Style: fontstyle.Bold}),
			text.New(p.Employer.Name, props.Text{Top: 5}),
			text.New(p.Employer.Address, props.Text{Top: 10}),
			text.New("EIN: "+p.Employer.EIN, props.Text{Top: 15}),
		),
		col.New(6).Add(
			text.New("Employee", props.Text{Style: fontstyle.Bold}),
			text.New(p.Employee.Name, props.Text{Top: 5}),
			text.New(p.Employee.Address, props.Text{Top: 10}),
			text.New("SSN: "+maskTaxID(p.Employee.TaxID), props.Text{Top: 15}),
		),
	)

	boxes := []struct {
		label string
		cents int64
	}{
		{"1. Wages, tips, other compensation", p.Box1WagesCents},
		{"2. Federal income tax withheld", p.Box2FederalWithheldCents},
		{"3. Social security wages", p.Box3SocialSecurityWages},
		{"4. Social security tax withheld", p.Box4SocialSecurityWithheld},
		{"5. Medicare wages and tips", p.Box5MedicareWagesCents},
		{"6. Medicare tax withheld", p.Box6MedicareWithheldCents},
		{"16. State wages, tips, etc.", p.Box16StateWagesCents},
		{"17. State income tax", p.Box17StateWithheldCents},
		{"18. Local wages, tips, etc.", p.Box18LocalWagesCents},
		{"19. Local income tax", p.Box19LocalWithheldCents},
	}
	for _, box := range boxes {
		m.AddRow(8,
			text.NewCol(8, box.label, props.Text{Size: 9}),
			text.NewCol(4, formatCents(box.cents), props.Text{Size: 9, Align: align.Right}),
		)
	}

	return m
}

func build1099(p documentdomain.Form1099Payload) core.Maroto {
	m := newDocument()

	m.AddRow(12,
		text.NewCol(12, fmt.Sprintf("Form 1099-MISC %d", p.Year), props.Text{
			Size:  16,
			Style: fontstyle.Bold,
			Align: align.Center,
		}),
	)

	m.AddRow(30,
		col.New(6).Add(
			text.New("Payer", props.Text{Style: fontstyle.Bold}),
			text.New(p.Payer.Name, props.Text{Top: 5}),
			text.New(p.Payer.Address, props.Text{Top: 10}),
			text.New("EIN: "+p.Payer.EIN, props.Text{Top: 15}),
		),
		col.New(6).Add(
			text.New("Recipient", props.Text{Style: fontstyle.Bold}),
			text.New(p.Recipient.Name, props.Text{Top: 5}),
			text.New(p.Recipient.Address, props.Text{Top: 10}),
			text.New("TIN: "+maskTaxID(p.Recipient.TaxID), props.Text{Top: 15}),
		),
	)

	m.AddRow(10,
		text.NewCol(8, "1. Nonemployee compensation", props.Text{Size: 10}),
		text.NewCol(4, formatCents(p.NonemployeeCompCents), props.Text{Size: 10, Align: align.Right}),
	)

	return m
}

func buildTaxReturn(p documentdomain.TaxReturnPayload) core.Maroto {
	m := newDocument()

	m.AddRow(12,
		text.NewCol(12, fmt.Sprintf("Tax Return Summary %d", p.Year), props.Text{
			Size:  16,
			Style: fontstyle.Bold,
			Align: align.Center,
		}),
	)

	m.AddRow(20,
		col.New(12).Add(
			text.New(p.Taxpayer.Name, props.Text{Style: fontstyle.Bold}),
			text.New(p.Taxpayer.Address, props.Text{Top: 5}),
			text.New("Filing status: "+string(p.Taxpayer.FilingStatus), props.Text{Top: 10}),
		),
	)

	lines := []struct {
		label string
		cents int64
	}{
		{"Total income", p.TotalIncomeCents},
		{"Deductions", p.DeductionsCents},
		{"Taxable income", p.TaxableIncomeCents},
		{"Estimated tax", p.EstimatedTaxCents},
		{"Credits", p.CreditsCents},
		{"Total withheld", p.TotalWithheldCents},
	}
	for _, line := range lines {
		m.AddRow(8,
			text.NewCol(8, line.label, props.Text{Size: 10}),
			text.NewCol(4, formatCents(line.cents), props.Text{Size: 10, Align: align.Right}),
		)
	}

	if p.RefundCents > 0 || p.OwedCents == 0 {
		m.AddRow(10,
			text.NewCol(8, "Refund", props.Text{Size: 11, Style: fontstyle.Bold}),
			text.NewCol(4, formatCents(p.RefundCents), props.Text{Size: 11, Style: fontstyle.Bold, Align: align.Right}),
		)
	} else {
		m.AddRow(10,
			text.NewCol(8, "Amount owed", props.Text{Size: 11, Style: fontstyle.Bold}),
			text.NewCol(4, formatCents(p.OwedCents), props.Text{Size: 11, Style: fontstyle.Bold, Align: align.Right}),
		)
	}

	return m
}

func addLineTable(m core.Maroto, title string, lines []documentdomain.Line) {
	m.AddRow(10,
		text.NewCol(12, title, props.Text{Style: fontstyle.Bold, Size: 10, Top: 2}),
	)
	for _, line := range lines {
		m.AddRow(7,
			text.NewCol(8, line.Label, props.Text{Size: 9}),
			text.NewCol(4, formatCents(line.AmountCents), props.Text{Size: 9, Align: align.Right}),
		)
	}
}

// maskTaxID keeps only the last four digits.
func maskTaxID(taxID string) string {
	if len(taxID) <= 4 {
		return taxID
	}
	masked := make([]byte, len(taxID)-4)
	for i := range masked {
		masked[i] = '*'
	}
	return string(masked) + taxID[len(taxID)-4:]
}
