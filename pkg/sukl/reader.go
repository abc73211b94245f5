package sukl

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// SÚKL exports have shipped in Windows-1250 historically and in UTF-8 on the
// NKOD open-data portal; ISO 8859-2 and Windows-1252 cover stray variants.
var encodings = []struct {
	name string
	enc  encoding.Encoding
}{
	{"utf-8", unicode.UTF8},
	{"windows-1250", charmap.Windows1250},
	{"iso-8859-2", charmap.ISO8859_2},
	{"windows-1252", charmap.Windows1252},
}

// NKOD exports use a comma, older SÚKL dumps a semicolon, some mirrors a tab.
var delimiters = []rune{',', ';', '\t'}

// columnVariants maps each record field to the header spellings seen across
// SÚKL export generations.
var columnVariants = map[string][]string{
	"name":                {"NAZEV", "nazev", "název"},
	"active_ingredient":   {"UCINNE_LATKY", "ucinne_latky", "účinné_látky"},
	"strength":            {"SILA", "sila", "síla"},
	"form":                {"LEKOVA_FORMA", "lekova_forma", "léková_forma", "FORMA"},
	"manufacturer":        {"DRZITEL_ROZHODNUTI", "drzitel_rozhodnuti", "držitel_rozhodnutí", "DRZ"},
	"registration_number": {"REGISTRACNI_CISLO", "registracni_cislo", "registrační_číslo", "REG"},
	"atc_code":            {"ATC_KOD", "atc_kod", "atc_kód", "ATC_WHO"},
	"indication":          {"INDIKACE", "indikace"},
	"contraindication":    {"KONTRAINDIKACE", "kontraindikace"},
	"side_effects":        {"NEZADOUCI_UCINKY", "nezadouci_ucinky", "nežádoucí_účinky"},
	"interactions":        {"INTERAKCE", "interakce"},
	"dosage":              {"DAVKOVANI", "davkovani", "dávkování"},
	"price":               {"CENA", "cena"},
	"prescription":        {"PREDPISOVOST", "predpisovost", "VYDEJ"},
	"code":                {"KOD_SUKL"},
	"packaging":           {"BALENI"},
	"route":               {"CESTA"},
	"ean":                 {"EAN"},
}

// emptyMarkers are cell values that mean "no data" in the exports.
var emptyMarkers = map[string]struct{}{
	"nan": {}, "null": {}, "none": {}, "na": {}, "n/a": {},
}

var ErrUnreadable = errors.New("sukl: file does not parse as a registry export under any known encoding")

// ReadFile loads and cleans a SÚKL CSV export, trying each known encoding
// and delimiter until one yields a plausible table. Rows without a name and
// without both ingredient and ATC code are dropped.
func ReadFile(path string) ([]*Record, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("sukl: read %s: %w", path, err)
	}
	return Read(raw)
}

// Read parses raw export bytes. A candidate parse is accepted when the
// header has more than five columns and at least the name column maps.
func Read(raw []byte) ([]*Record, error) {
	for _, enc := range encodings {
		if enc.name == "utf-8" && !utf8.Valid(raw) {
			continue
		}
		decoded, err := decode(raw, enc.enc.NewDecoder())
		if err != nil {
			continue
		}
		for _, delimiter := range delimiters {
			records, ok := parse(decoded, delimiter)
			if ok {
				return records, nil
			}
		}
	}
	return nil, ErrUnreadable
}

func decode(raw []byte, decoder *encoding.Decoder) ([]byte, error) {
	decoded, _, err := transform.Bytes(decoder, raw)
	return decoded, err
}

func parse(data []byte, delimiter rune) ([]*Record, bool) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, false
	}
	if len(header) <= 5 {
		return nil, false
	}

	columns := mapColumns(header)
	if _, ok := columns["name"]; !ok {
		return nil, false
	}

	var records []*Record
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		record := buildRecord(row, columns)
		if record.Valid() {
			records = append(records, record)
		}
	}
	return records, true
}

func mapColumns(header []string) map[string]int {
	index := map[string]int{}
	for i, name := range header {
		index[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	columns := map[string]int{}
	for field, variants := range columnVariants {
		for _, variant := range variants {
			if i, ok := index[variant]; ok {
				columns[field] = i
				break
			}
		}
	}
	return columns
}

func buildRecord(row []string, columns map[string]int) *Record {
	cell := func(field string) string {
		i, ok := columns[field]
		if !ok || i >= len(row) {
			return ""
		}
		return cleanCell(row[i])
	}
	return &Record{
		Name:               cell("name"),
		ActiveIngredient:   cell("active_ingredient"),
		Strength:           cell("strength"),
		Form:               cell("form"),
		Manufacturer:       cell("manufacturer"),
		RegistrationNumber: cell("registration_number"),
		AtcCode:            cell("atc_code"),
		Indication:         cell("indication"),
		Contraindication:   cell("contraindication"),
		SideEffects:        cell("side_effects"),
		Interactions:       cell("interactions"),
		Dosage:             cell("dosage"),
		Price:              cell("price"),
		PrescriptionRaw:    cell("prescription"),
		Code:               cell("code"),
		Packaging:          cell("packaging"),
		Route:              cell("route"),
		Ean:                cell("ean"),
	}
}

func cleanCell(value string) string {
	value = strings.TrimSpace(value)
	if _, empty := emptyMarkers[strings.ToLower(value)]; empty {
		return ""
	}
	return value
}
