package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jung-kurt/gofpdf"

	"gestor/internal/models"
)

// Generator is an interface so handlers can be tested with a mock.
type Generator interface {
	GenerateLedgerReport(data LedgerReportData) (string, error)
}

type LedgerReportData struct {
	Transactions []models.Transaction
	From, To     time.Time
	GeneratedBy  string
	Filename     string // bare file name; generated when empty
}

// ReportGenerator renders ledger reports under RootDir.
type ReportGenerator struct {
	RootDir  string // storage root, e.g. "./files"
	FontPath string // TTF path, e.g. "assets/fonts/DejaVuSans.ttf"
	fontName string
}

func NewReportGenerator(rootDir, fontPath string) *ReportGenerator {
	return &ReportGenerator{
		RootDir:  filepath.Clean(rootDir),
		FontPath: fontPath,
		fontName: "DejaVu",
	}
}

func (g *ReportGenerator) GenerateLedgerReport(data LedgerReportData) (string, error) {
	filename := data.Filename
	if filename == "" {
		filename = fmt.Sprintf("relatorio_financeiro_%s.pdf", data.To.Format("2006-01"))
	}
	absPath, err := g.ensureTarget(filename)
	if err != nil {
		return "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Relatório Financeiro", false)
	pdf.SetAuthor("Gestor", false)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)

	g.addUTF8Font(pdf)
	pdf.AddPage()

	// ===== Header
	pdf.SetFont(g.fontName, "B", 18)
	pdf.CellFormat(0, 10, "RELATÓRIO FINANCEIRO", "", 1, "C", false, 0, "")

	pdf.SetFont(g.fontName, "", 12)
	sub := fmt.Sprintf("Período: %s — %s",
		data.From.Format("02.01.2006"),
		data.To.Format("02.01.2006"),
	)
	pdf.CellFormat(0, 7, sub, "", 1, "C", false, 0, "")
	g.hr(pdf)

	pdf.Ln(3)

	// ===== Totals
	var income, expense, invested float64
	for _, t := range data.Transactions {
		switch t.Type {
		case models.TransactionIncome:
			income += t.Value
		case models.TransactionExpense:
			expense += t.Value
		case models.TransactionInvestment:
			invested += t.Value
		}
	}

	g.sectionTitle(pdf, "Resumo")
	g.kvLine(pdf, "Receitas", fmt.Sprintf("%.2f MZN", income))
	g.kvLine(pdf, "Despesas", fmt.Sprintf("%.2f MZN", expense))
	g.kvLine(pdf, "Investimentos", fmt.Sprintf("%.2f MZN", invested))
	g.kvLine(pdf, "Saldo", fmt.Sprintf("%.2f MZN", income-expense-invested))
	pdf.Ln(2)
	g.hr(pdf)

	// ===== Entries
	g.sectionTitle(pdf, "Movimentos")
	pdf.SetFont(g.fontName, "B", 10)
	pdf.CellFormat(25, 7, "Data", "B", 0, "L", false, 0, "")
	pdf.CellFormat(70, 7, "Descrição", "B", 0, "L", false, 0, "")
	pdf.CellFormat(35, 7, "Categoria", "B", 0, "L", false, 0, "")
	pdf.CellFormat(20, 7, "Estado", "B", 0, "L", false, 0, "")
	pdf.CellFormat(0, 7, "Valor", "B", 1, "R", false, 0, "")

	pdf.SetFont(g.fontName, "", 10)
	for _, t := range data.Transactions {
		val := t.Value
		if t.Type != models.TransactionIncome {
			val = -val
		}
		pdf.CellFormat(25, 6, t.Date.Format("02.01.2006"), "", 0, "L", false, 0, "")
		pdf.CellFormat(70, 6, t.Description, "", 0, "L", false, 0, "")
		pdf.CellFormat(35, 6, t.Category, "", 0, "L", false, 0, "")
		pdf.CellFormat(20, 6, string(t.Status), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, fmt.Sprintf("%.2f", val), "", 1, "R", false, 0, "")
	}
	pdf.Ln(2)
	g.hr(pdf)

	// ===== Footer block
	pdf.SetFont(g.fontName, "", 10)
	pdf.CellFormat(0, 6,
		fmt.Sprintf("Gerado por %s em %s", data.GeneratedBy, time.Now().Format("02.01.2006 15:04")),
		"", 1, "L", false, 0, "")

	// ===== Page numbers
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont(g.fontName, "", 10)
		pdf.CellFormat(0, 10,
			fmt.Sprintf("Pág. %d/{nb}", pdf.PageNo()),
			"", 0, "C", false, 0, "",
		)
	})

	if err := pdf.OutputFileAndClose(absPath); err != nil {
		return "", err
	}
	return "/" + filepath.ToSlash(filepath.Base(absPath)), nil
}

// ===== helpers =====

func (g *ReportGenerator) sectionTitle(pdf *gofpdf.Fpdf, s string) {
	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 7, s, "", 1, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)
}

func (g *ReportGenerator) kvLine(pdf *gofpdf.Fpdf, key, val string) {
	pdf.SetFont(g.fontName, "B", 11)
	pdf.CellFormat(45, 6, key+":", "", 0, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, val, "", 1, "L", false, 0, "")
}

func (g *ReportGenerator) hr(pdf *gofpdf.Fpdf) {
	y := pdf.GetY() + 1.5
	pdf.SetLineWidth(0.2)
	pdf.Line(20, y, 190, y)
	pdf.SetY(y + 2)
}

func (g *ReportGenerator) ensureTarget(filename string) (string, error) {
	if err := os.MkdirAll(g.RootDir, 0o755); err != nil {
		return "", fmt.Errorf("create files dir: %w", err)
	}
	filename = filepath.Base(filename) // safety
	return filepath.Join(g.RootDir, filename), nil
}

func (g *ReportGenerator) addUTF8Font(pdf *gofpdf.Fpdf) {
	pdf.AddUTF8Font(g.fontName, "", g.FontPath)
	pdf.AddUTF8Font(g.fontName, "B", g.FontPath)
}
