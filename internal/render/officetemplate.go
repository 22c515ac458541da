package render

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/dgallion1/notepress/internal/style"
)

const (
	stylesPart = "word/styles.xml"
	corePart   = "docProps/core.xml"
)

// officeStyle is one <w:style> entry in the generated styles part.
type officeStyle struct {
	style.OfficeRule
	Default bool
	Outline int // outline level for headings, -1 for body text
}

var partFuncs = template.FuncMap{"x": escapeXML}

// Child order inside pPr and rPr follows the WordprocessingML schema.
var stylesTemplate = template.Must(template.New("styles").Funcs(partFuncs).Parse(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:docDefaults><w:rPrDefault><w:rPr><w:rFonts w:asciiTheme="minorHAnsi" w:eastAsiaTheme="minorEastAsia" w:hAnsiTheme="minorHAnsi" w:cstheme="minorBidi"/><w:sz w:val="22"/><w:szCs w:val="22"/><w:lang w:val="en-US"/></w:rPr></w:rPrDefault><w:pPrDefault><w:pPr><w:spacing w:after="0" w:line="276" w:lineRule="auto"/></w:pPr></w:pPrDefault></w:docDefaults>
{{- range .Styles}}
<w:style w:type="paragraph"{{if .Default}} w:default="1"{{end}} w:styleId="{{x .StyleID}}">
<w:name w:val="{{x .Name}}"/>{{if not .Default}}<w:basedOn w:val="{{x $.Normal}}"/><w:next w:val="{{x $.Normal}}"/>{{end}}<w:qFormat/>
<w:pPr>{{if ge .Outline 0}}<w:keepNext/>{{end}}{{if .Shading}}<w:shd w:val="clear" w:color="auto" w:fill="{{x .Shading}}"/>{{end}}<w:spacing w:before="{{.SpaceBefore}}" w:after="{{.SpaceAfter}}"/>{{if ge .Outline 0}}<w:outlineLvl w:val="{{.Outline}}"/>{{end}}</w:pPr>
<w:rPr>{{if .Font}}<w:rFonts w:ascii="{{x .Font}}" w:hAnsi="{{x .Font}}" w:cs="{{x .Font}}"/>{{end}}{{if .Bold}}<w:b/><w:bCs/>{{end}}{{if .Color}}<w:color w:val="{{x .Color}}"/>{{end}}<w:sz w:val="{{.Size}}"/><w:szCs w:val="{{.Size}}"/>{{if .Underline}}<w:u w:val="single"{{if .UnderlineColor}} w:color="{{x .UnderlineColor}}"{{end}}/>{{end}}</w:rPr>
</w:style>
{{- end}}
</w:styles>
`))

var coreTemplate = template.Must(template.New("core").Funcs(partFuncs).Parse(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:dcterms="http://purl.org/dc/terms/" xmlns:dcmitype="http://purl.org/dc/dcmitype/" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance"><dc:title>{{x .Title}}</dc:title><dc:creator>{{x .Creator}}</dc:creator><dcterms:created xsi:type="dcterms:W3CDTF">{{.Stamp}}</dcterms:created><dcterms:modified xsi:type="dcterms:W3CDTF">{{.Stamp}}</dcterms:modified></cp:coreProperties>
`))

// stylesXML builds word/styles.xml from the office table. go-docx can only
// set spacing-before on a paragraph, so all spacing lives on the styles.
func stylesXML(rules map[style.Tag]style.OfficeRule) ([]byte, error) {
	data := struct {
		Normal string
		Styles []officeStyle
	}{Normal: rules[style.TagParagraph].StyleID}

	for _, tag := range style.Tags {
		rule, ok := rules[tag]
		if !ok {
			return nil, fmt.Errorf("no office rule for %q", tag)
		}
		s := officeStyle{OfficeRule: rule, Outline: -1}
		if rule.Name == "" {
			s.Name = rule.StyleID
		}
		s.Color = strings.TrimPrefix(rule.Color, "#")
		s.UnderlineColor = strings.TrimPrefix(rule.UnderlineColor, "#")
		s.Shading = strings.TrimPrefix(rule.Shading, "#")
		switch tag {
		case style.TagH1:
			s.Outline = 0
		case style.TagH2:
			s.Outline = 1
		case style.TagH3:
			s.Outline = 2
		case style.TagParagraph:
			s.Default = true
		}
		data.Styles = append(data.Styles, s)
	}

	var buf bytes.Buffer
	if err := stylesTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// coreXML builds docProps/core.xml carrying the title.
func coreXML(title string, stamp time.Time) ([]byte, error) {
	var buf bytes.Buffer
	err := coreTemplate.Execute(&buf, struct {
		Title, Creator, Stamp string
	}{title, creator, stamp.UTC().Format(time.RFC3339)})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func escapeXML(s string) (string, error) {
	var b strings.Builder
	if err := xml.EscapeText(&b, []byte(s)); err != nil {
		return "", err
	}
	return b.String(), nil
}
