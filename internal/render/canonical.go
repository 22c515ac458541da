package render

import (
	"archive/zip"
	"bytes"
	"fmt"
	"sort"
)

const contentTypesPart = "[Content_Types].xml"

// repack rewrites a zip package with entries in a fixed order:
// [Content_Types].xml first, then the remaining names sorted. Parts named in
// replace are written with the given content instead of the original.
// go-docx writes its entries in map order, so this is what makes identical
// documents produce identical bytes.
func repack(data []byte, replace map[string][]byte) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("read package: %w", err)
	}

	files := make([]*zip.File, len(zr.File))
	copy(files, zr.File)
	sort.Slice(files, func(i, j int) bool {
		a, b := files[i].Name, files[j].Name
		if a == contentTypesPart || b == contentTypesPart {
			return a == contentTypesPart && b != contentTypesPart
		}
		return a < b
	})

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, f := range files {
		if content, ok := replace[f.Name]; ok {
			w, err := zw.CreateHeader(&zip.FileHeader{Name: f.Name, Method: zip.Deflate})
			if err != nil {
				return nil, fmt.Errorf("write %s: %w", f.Name, err)
			}
			if _, err := w.Write(content); err != nil {
				return nil, fmt.Errorf("write %s: %w", f.Name, err)
			}
			continue
		}
		if err := zw.Copy(f); err != nil {
			return nil, fmt.Errorf("copy %s: %w", f.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close package: %w", err)
	}
	return buf.Bytes(), nil
}
