package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// Generator — интерфейс (удобно мокать в тестах)
type Generator interface {
	GenerateAgreement(data AgreementData) (string, error)
}

// AgreementGenerator — реализация на gofpdf.
type AgreementGenerator struct {
	RootDir  string // корень хранения, например "./files"
	FontPath string // путь до TTF с кириллицей
	fontName string
}

type AgreementData struct {
	MemberID int
	Phone    string
	Surname  string
	Name     string
	Patronymic string
	Address  string
	CreatedAt time.Time
	Filename  string // имя файла (без путей); если пусто — сгенерируем
}

func NewAgreementGenerator(rootDir, fontPath string) *AgreementGenerator {
	return &AgreementGenerator{
		RootDir:  filepath.Clean(rootDir),
		FontPath: fontPath,
		fontName: "DejaVu",
	}
}

// GenerateAgreement — шаблон соглашения участника программы, заполненный
// анкетными данными. Участник распечатывает, подписывает и загружает
// его в слот agreement.
func (g *AgreementGenerator) GenerateAgreement(data AgreementData) (string, error) {
	filename := data.Filename
	if filename == "" {
		filename = fmt.Sprintf("agreement_member_%d.pdf", data.MemberID)
	}
	absPath, err := g.ensureTarget(filename)
	if err != nil {
		return "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Соглашение участника №%d", data.MemberID), false)
	pdf.SetAuthor("Верный", false)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)

	g.addUTF8Font(pdf)
	pdf.AddPage()

	// ===== Заголовок
	pdf.SetFont(g.fontName, "B", 18)
	pdf.CellFormat(0, 10, "СОГЛАШЕНИЕ УЧАСТНИКА", "", 1, "C", false, 0, "")

	pdf.SetFont(g.fontName, "", 12)
	sub := fmt.Sprintf("№ VP-%06d  от  %s",
		data.MemberID,
		data.CreatedAt.Format("02.01.2006"),
	)
	pdf.CellFormat(0, 7, sub, "", 1, "C", false, 0, "")
	g.hr(pdf)

	pdf.Ln(3)

	// ===== Участник
	g.sectionTitle(pdf, "Участник")
	fio := strings.TrimSpace(strings.Join([]string{data.Surname, data.Name, data.Patronymic}, " "))
	g.kvLine(pdf, "ФИО", fio)
	g.kvLine(pdf, "Телефон", "+7 "+data.Phone)
	if data.Address != "" {
		g.kvLine(pdf, "Адрес", data.Address)
	}
	pdf.Ln(2)
	g.hr(pdf)

	// ===== Условия участия
	g.sectionTitle(pdf, "Условия участия")
	pdf.SetFont(g.fontName, "", 11)
	intro := "Настоящим Участник подтверждает вступление в программу и согласие с её правилами. " +
		"Подробные условия участия определяются Правилами программы и Приложениями к ним."
	pdf.MultiCell(0, 6, intro, "", "L", false)
	pdf.Ln(1)

	terms := []string{
		"1. Участник подтверждает достоверность указанных в анкете сведений.",
		"2. Участник даёт согласие на обработку персональных данных в объёме, необходимом для участия в программе.",
		"3. Соглашение вступает в силу с даты подписания Участником и принятия документов программой.",
		"4. Все споры разрешаются путём переговоров, при недостижении согласия — в соответствии с применимым законодательством.",
	}
	for _, t := range terms {
		pdf.MultiCell(0, 6, t, "", "L", false)
	}
	pdf.Ln(2)
	g.hr(pdf)

	// ===== Подпись
	g.sectionTitle(pdf, "Подпись участника")
	pdf.Ln(6)

	lineY := pdf.GetY()
	pdf.SetLineWidth(0.3)
	pdf.Line(20, lineY+10, 100, lineY+10)
	pdf.SetY(lineY + 12)
	pdf.SetX(20)
	pdf.Cell(80, 5, "(подпись, ФИО)")

	// ===== Нумерация страниц
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont(g.fontName, "", 10)
		pdf.CellFormat(0, 10,
			fmt.Sprintf("Стр. %d/{nb}", pdf.PageNo()),
			"", 0, "C", false, 0, "",
		)
	})

	if err := pdf.OutputFileAndClose(absPath); err != nil {
		return "", err
	}
	return absPath, nil
}

// ===== helpers =====

func (g *AgreementGenerator) sectionTitle(pdf *gofpdf.Fpdf, s string) {
	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 7, s, "", 1, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)
}

func (g *AgreementGenerator) kvLine(pdf *gofpdf.Fpdf, key, val string) {
	pdf.SetFont(g.fontName, "B", 11)
	pdf.CellFormat(45, 6, key+":", "", 0, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, val, "", 1, "L", false, 0, "")
}

func (g *AgreementGenerator) hr(pdf *gofpdf.Fpdf) {
	y := pdf.GetY() + 1.5
	pdf.SetLineWidth(0.2)
	pdf.Line(20, y, 190, y)
	pdf.SetY(y + 2)
}

func (g *AgreementGenerator) ensureTarget(filename string) (string, error) {
	dir := filepath.Join(g.RootDir, "generated")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create files dir: %w", err)
	}
	filename = filepath.Base(filename) // безопасность
	return filepath.Join(dir, filename), nil
}

func (g *AgreementGenerator) addUTF8Font(pdf *gofpdf.Fpdf) {
	pdf.AddUTF8Font(g.fontName, "", g.FontPath)
	pdf.AddUTF8Font(g.fontName, "B", g.FontPath)
}
