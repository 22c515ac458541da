package inspect

import (
	"bytes"
	"fmt"

	pdflib "github.com/ledongthuc/pdf"
)

// PDFInfo is what can be read back out of a rendered PDF.
type PDFInfo struct {
	Title string   `json:"title,omitempty"`
	Pages int      `json:"pages"`
	Text  []string `json:"text"` // plain text per page
}

// PDF reads the page count, title and per-page text from data.
func PDF(data []byte) (PDFInfo, error) {
	reader, err := pdflib.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return PDFInfo{}, fmt.Errorf("open pdf: %w", err)
	}

	info := PDFInfo{
		Title: reader.Trailer().Key("Info").Key("Title").Text(),
		Pages: reader.NumPage(),
	}
	for i := 1; i <= info.Pages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			info.Text = append(info.Text, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return PDFInfo{}, fmt.Errorf("page %d: %w", i, err)
		}
		info.Text = append(info.Text, text)
	}
	return info, nil
}
