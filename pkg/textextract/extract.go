package textextract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	pdf "github.com/ledongthuc/pdf"
)

// Extraction is the best-effort text of one file. Failures land in Error.
type Extraction struct {
	Text  string `json:"text"`
	Pages int    `json:"pages,omitempty"`
	Error string `json:"error,omitempty"`
}

// Extractor turns a file on disk into plain text. Implementations never panic
// on corrupt input.
type Extractor interface {
	Extract(path string) Extraction
}

var AllowedExts = map[string]bool{
	".pdf":  true,
	".docx": true,
	".pptx": true,
	".txt":  true,
	".md":   true,
}

func Allowed(ext string) bool {
	return AllowedExts[strings.ToLower(ext)]
}

type fileExtractor struct {
	maxBytes int64
}

// NewExtractor reads files up to maxBytes (0 means 50 MB).
func NewExtractor(maxBytes int64) Extractor {
	if maxBytes <= 0 {
		maxBytes = 50 << 20
	}
	return &fileExtractor{maxBytes: maxBytes}
}

func (e *fileExtractor) Extract(path string) (res Extraction) {
	defer func() {
		if r := recover(); r != nil {
			res = Extraction{Error: fmt.Sprintf("parse failed: %v", r)}
		}
	}()

	info, err := os.Stat(path)
	if err != nil {
		return Extraction{Error: err.Error()}
	}
	if info.Size() == 0 {
		return Extraction{Error: "empty file"}
	}
	if info.Size() > e.maxBytes {
		return Extraction{Error: fmt.Sprintf("file too large: %d bytes", info.Size())}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Extraction{Error: err.Error()}
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".pdf":
		return extractPDF(data)
	case ".docx":
		return extractDOCX(data)
	case ".pptx":
		return extractPPTX(data)
	case ".txt", ".md":
		return Extraction{Text: tidyLines(string(data))}
	default:
		return Extraction{Error: fmt.Sprintf("unsupported extension %s", ext)}
	}
}

func isPDF(b []byte) bool {
	return len(b) >= 5 && string(b[:5]) == "%PDF-"
}

func isZip(b []byte) bool {
	return len(b) >= 4 && b[0] == 'P' && b[1] == 'K' && b[2] == 3 && b[3] == 4
}

func extractPDF(data []byte) Extraction {
	if !isPDF(data) {
		return Extraction{Error: "file claims pdf but missing %PDF header"}
	}
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Extraction{Error: fmt.Sprintf("pdf reader: %v", err)}
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return Extraction{Pages: r.NumPage(), Error: fmt.Sprintf("pdf plaintext: %v", err)}
	}
	b, err := io.ReadAll(plain)
	if err != nil {
		return Extraction{Pages: r.NumPage(), Error: fmt.Sprintf("pdf read: %v", err)}
	}

	text := tidyLines(string(b))
	res := Extraction{Text: text, Pages: r.NumPage()}
	if text == "" {
		res.Error = "no text layer (scanned pdf needs OCR)"
	}
	return res
}

func extractDOCX(data []byte) Extraction {
	if !isZip(data) {
		return Extraction{Error: "file claims docx but is not a valid zip container"}
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Extraction{Error: err.Error()}
	}

	f := findZipFile(zr, "word/document.xml")
	if f == nil {
		return Extraction{Error: "docx has no word/document.xml"}
	}
	b, err := readZipFile(f)
	if err != nil {
		return Extraction{Error: err.Error()}
	}

	text := tidyLines(textFromXML(b, "t", "p"))
	if text == "" {
		return Extraction{Error: "no text extracted from docx"}
	}
	return Extraction{Text: text}
}

func extractPPTX(data []byte) Extraction {
	if !isZip(data) {
		return Extraction{Error: "file claims pptx but is not a valid zip container"}
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Extraction{Error: err.Error()}
	}

	var slides []*zip.File
	for _, f := range zr.File {
		if strings.HasPrefix(f.Name, "ppt/slides/") && strings.HasSuffix(f.Name, ".xml") &&
			!strings.Contains(strings.TrimPrefix(f.Name, "ppt/slides/"), "/") {
			slides = append(slides, f)
		}
	}
	sort.Slice(slides, func(i, j int) bool { return slideNumber(slides[i].Name) < slideNumber(slides[j].Name) })

	var parts []string
	for _, f := range slides {
		b, err := readZipFile(f)
		if err != nil {
			return Extraction{Pages: len(slides), Error: err.Error()}
		}
		if t := tidyLines(textFromXML(b, "t", "p")); t != "" {
			parts = append(parts, t)
		}
	}

	text := strings.Join(parts, "\n\n")
	if text == "" {
		return Extraction{Pages: len(slides), Error: "no text extracted from pptx"}
	}
	return Extraction{Text: text, Pages: len(slides)}
}

// slideNumber pulls N out of ppt/slides/slideN.xml so slide10 sorts after slide9.
func slideNumber(name string) int {
	base := strings.TrimSuffix(filepath.Base(name), ".xml")
	n := 0
	for _, r := range base {
		if r >= '0' && r <= '9' {
			n = n*10 + int(r-'0')
		}
	}
	return n
}

func findZipFile(zr *zip.Reader, name string) *zip.File {
	for _, f := range zr.File {
		if f.Name == name {
			return f
		}
	}
	return nil
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// textFromXML collects the character data of textTag elements and emits a
// newline at the end of every paraTag element.
func textFromXML(data []byte, textTag, paraTag string) string {
	dec := xml.NewDecoder(bytes.NewReader(data))
	var out strings.Builder
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		switch el := tok.(type) {
		case xml.StartElement:
			if el.Name.Local != textTag {
				continue
			}
			var v string
			if err := dec.DecodeElement(&v, &el); err == nil {
				out.WriteString(v)
			}
		case xml.EndElement:
			if el.Name.Local == paraTag {
				out.WriteString("\n")
			}
		}
	}
	return out.String()
}

// tidyLines collapses runs of spaces within each line and trims the result,
// keeping line breaks so paragraph structure survives.
func tidyLines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, " ", " ")
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.Join(strings.Fields(l), " ")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
