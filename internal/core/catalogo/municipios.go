// internal/core/catalogo/municipios.go
package catalogo

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/schollz/closestmatch"
	"github.com/shakinm/xlsReader/xls"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Tabela municipal de alíquotas de ISS, carregada de planilhas enviadas
// pela contabilidade (.xlsx, .xls ou .csv em ISO-8859-1). Preenche o
// colaborador de alíquotas municipais previsto pelo calculador de ISS.

type TabelaISS struct {
	porCodigo      map[string]float64
	nomeParaCodigo map[string]string
	nomes          *closestmatch.ClosestMatch
}

// AliquotaPorCodigo consulta pelo código IBGE do município, caindo no
// padrão de 5% quando não carregado.
func (t *TabelaISS) AliquotaPorCodigo(codigoMunicipio string) float64 {
	if t != nil {
		if aliq, ok := t.porCodigo[codigoMunicipio]; ok {
			return aliq
		}
	}
	return AliquotaISSPadrao
}

// AliquotaPorNome resolve nomes imprecisos de município por aproximação
// antes de consultar a tabela.
func (t *TabelaISS) AliquotaPorNome(nome string) (float64, bool) {
	if t == nil || t.nomes == nil {
		return 0, false
	}
	match := t.nomes.Closest(normalizeTexto(nome))
	if match == "" {
		return 0, false
	}
	codigo := t.nomeParaCodigo[match]
	aliq, ok := t.porCodigo[codigo]
	return aliq, ok
}

// Tamanho informa quantos municípios foram carregados.
func (t *TabelaISS) Tamanho() int {
	if t == nil {
		return 0
	}
	return len(t.porCodigo)
}

var naoAlfanumericoRegex = regexp.MustCompile(`[^A-Z0-9 ]+`)
var espacosRegex = regexp.MustCompile(`\s+`)

func normalizeTexto(str string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(func(r rune) bool {
		return unicode.Is(unicode.Mn, r)
	}))
	result, _, _ := transform.String(t, str)
	result = strings.ToUpper(result)
	result = naoAlfanumericoRegex.ReplaceAllString(result, " ")
	result = espacosRegex.ReplaceAllString(result, " ")
	return strings.TrimSpace(result)
}

func parseAliquotaBRL(val string) (float64, error) {
	s := strings.TrimSpace(val)
	if s == "" {
		return 0.0, nil
	}
	s = strings.TrimSuffix(s, "%")
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

func converterXLSXparaCSV(file io.Reader) (io.Reader, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var buffer bytes.Buffer
	writer := csv.NewWriter(&buffer)
	writer.Comma = ';'

	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			continue
		}
		for _, row := range rows {
			if err := writer.Write(row); err != nil {
				return nil, err
			}
		}
	}

	writer.Flush()
	return &buffer, writer.Error()
}

func converterXLSparaCSV(file io.Reader) (io.Reader, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	workbook, err := xls.OpenReader(bytes.NewReader(data))
	if err != nil {
		if _, errX := excelize.OpenReader(bytes.NewReader(data)); errX == nil {
			return converterXLSXparaCSV(bytes.NewReader(data))
		}
		return nil, err
	}

	var buffer bytes.Buffer
	writer := csv.NewWriter(&buffer)
	writer.Comma = ';'

	for _, sheet := range workbook.GetSheets() {
		for _, row := range sheet.GetRows() {
			var csvRow []string
			for _, cell := range row.GetCols() {
				csvRow = append(csvRow, cell.GetString())
			}
			if err := writer.Write(csvRow); err != nil {
				return nil, err
			}
		}
	}

	writer.Flush()
	return &buffer, writer.Error()
}

// CarregarTabelaISS lê uma planilha com colunas código IBGE; nome do
// município; alíquota (formato brasileiro, "2,5" ou "2,5%"). Linhas sem as
// três colunas ou com alíquota ilegível são ignoradas.
func CarregarTabelaISS(file io.Reader, filename string) (*TabelaISS, error) {
	var csvReader io.Reader
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".xlsx":
		converted, err := converterXLSXparaCSV(file)
		if err != nil {
			return nil, fmt.Errorf("erro ao converter .xlsx para .csv: %w", err)
		}
		csvReader = converted
	case ".xls":
		converted, err := converterXLSparaCSV(file)
		if err != nil {
			return nil, fmt.Errorf("erro ao converter .xls para .csv: %w", err)
		}
		csvReader = converted
	case ".csv":
		decoder := charmap.ISO8859_1.NewDecoder()
		csvReader = transform.NewReader(file, decoder)
	default:
		return nil, fmt.Errorf("formato de tabela de alíquotas não suportado: %s", ext)
	}

	reader := csv.NewReader(csvReader)
	reader.Comma = ';'
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("erro ao ler tabela de alíquotas: %w", err)
	}

	tabela := &TabelaISS{
		porCodigo:      make(map[string]float64),
		nomeParaCodigo: make(map[string]string),
	}
	var nomes []string

	for _, record := range records {
		if len(record) < 3 {
			continue
		}
		codigo := strings.TrimSpace(record[0])
		nome := normalizeTexto(record[1])
		if codigo == "" || nome == "" {
			continue
		}
		aliquota, err := parseAliquotaBRL(record[2])
		if err != nil || aliquota <= 0 {
			continue
		}
		if _, existe := tabela.porCodigo[codigo]; !existe {
			nomes = append(nomes, nome)
		}
		tabela.porCodigo[codigo] = aliquota
		tabela.nomeParaCodigo[nome] = codigo
	}

	if len(tabela.porCodigo) == 0 {
		return nil, fmt.Errorf("nenhuma alíquota municipal válida encontrada no arquivo")
	}

	tabela.nomes = closestmatch.New(nomes, []int{2, 3})
	return tabela, nil
}
