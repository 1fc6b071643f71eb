package services

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"log"
	"path"
	"sort"
	"strings"
	"unicode"

	"code.sajari.com/docconv"
	"github.com/ledongthuc/pdf"
)

// ExtractorConfig carries every extraction threshold as an explicit value.
// The defaults were tuned against the target corpus; override them through
// the environment, not by editing call sites.
type ExtractorConfig struct {
	// MinFileSize rejects truncated uploads before any extraction runs.
	MinFileSize int
	// FallbackMinChars is the compact-character count under which the next
	// strategy in the chain is tried.
	FallbackMinChars int
	// ScannedMinBytes and ScannedMaxChars together classify a document as
	// scanned/image-only: big enough to be a real document, yet with almost
	// no extractable text layer.
	ScannedMinBytes int
	ScannedMaxChars int
	// MaxOCRImages caps how many embedded DOCX images are sent to the
	// image-to-text collaborator.
	MaxOCRImages int
	// GarbageRatio is the share of unreadable runes above which the output
	// is classified as an encoding problem rather than usable text.
	GarbageRatio float64
}

func DefaultExtractorConfig() ExtractorConfig {
	return ExtractorConfig{
		MinFileSize:      1024,
		FallbackMinChars: 50,
		ScannedMinBytes:  100 * 1024,
		ScannedMaxChars:  200,
		MaxOCRImages:     3,
		GarbageRatio:     0.3,
	}
}

type ExtractionMethod string

const (
	MethodPrimary  ExtractionMethod = "primary"
	MethodFallback ExtractionMethod = "fallback"
	MethodOCR      ExtractionMethod = "ocr"
)

// ExtractionResult is normalized plain text plus the signals callers use to
// judge how much to trust it.
type ExtractionResult struct {
	Text        string
	Method      ExtractionMethod
	CharDensity float64
	CompactLen  int
}

// ImageTextReader is the OCR collaborator: one raster image in, visible text out.
type ImageTextReader interface {
	ExtractImageText(ctx context.Context, image []byte, mimeType string) (string, error)
}

type DocumentExtractor interface {
	Extract(ctx context.Context, data []byte, declaredMime string) (*ExtractionResult, error)
}

type documentExtractor struct {
	cfg ExtractorConfig
	ocr ImageTextReader
}

// NewDocumentExtractor builds an extractor with the given thresholds. The OCR
// reader may be nil, in which case image-only DOCX files are classified as
// scanned instead of being OCRed.
func NewDocumentExtractor(cfg ExtractorConfig, ocr ImageTextReader) DocumentExtractor {
	return &documentExtractor{cfg: cfg, ocr: ocr}
}

type documentKind int

const (
	kindPDF documentKind = iota
	kindDOCX
)

// extractionStrategy is one attempt in the ordered chain. Strategies report
// failure as an error OR as an empty string; the chain treats both the same.
type extractionStrategy struct {
	name string
	run  func(data []byte) (string, error)
}

func (e *documentExtractor) Extract(ctx context.Context, data []byte, declaredMime string) (*ExtractionResult, error) {
	kind, err := classifyMime(declaredMime)
	if err != nil {
		return nil, err
	}

	if len(data) < e.cfg.MinFileSize {
		return nil, errWithCode(CodeFileTooSmall, fmt.Errorf("%d bytes", len(data)))
	}
	if err := checkMagicHeader(kind, data); err != nil {
		return nil, err
	}

	strategies := e.strategiesFor(kind)

	// Pick-best reducer over the ordered chain: stop as soon as a strategy
	// yields enough text, otherwise keep whichever produced the most.
	bestText, bestIdx := "", -1
	for i, strategy := range strategies {
		raw, err := strategy.run(data)
		if err != nil {
			log.Printf("⚠️  Extraction strategy %s failed: %v\n", strategy.name, err)
			continue
		}
		text := NormalizeText(raw)
		if CompactLen(text) > CompactLen(bestText) {
			bestText, bestIdx = text, i
		}
		if CompactLen(text) >= e.cfg.FallbackMinChars {
			break
		}
	}

	compact := CompactLen(bestText)

	// A big file with almost no text layer is a scanned document, not a
	// short one. DOCX can still be rescued through its embedded images.
	if len(data) > e.cfg.ScannedMinBytes && compact < e.cfg.ScannedMaxChars {
		if kind == kindDOCX && e.ocr != nil {
			result, ocrErr := e.extractViaOCR(ctx, data)
			if ocrErr == nil {
				return result, nil
			}
			log.Printf("⚠️  OCR branch failed: %v\n", ocrErr)
		}
		return nil, errWithCode(CodeScannedDocSuspected, nil)
	}

	if compact < e.cfg.FallbackMinChars {
		return nil, errWithCode(CodeExtractionFailed, fmt.Errorf("only %d usable characters", compact))
	}

	if garbageRatio(bestText) > e.cfg.GarbageRatio {
		return nil, errWithCode(CodeEncodingIssue, nil)
	}

	method := MethodPrimary
	if bestIdx > 0 {
		method = MethodFallback
	}

	return &ExtractionResult{
		Text:        bestText,
		Method:      method,
		CharDensity: float64(compact) / float64(len(data)),
		CompactLen:  compact,
	}, nil
}

func (e *documentExtractor) strategiesFor(kind documentKind) []extractionStrategy {
	switch kind {
	case kindPDF:
		return []extractionStrategy{
			{"pdf-text-layer", extractPDFTextLayer},
			{"pdf-docconv", func(data []byte) (string, error) { return extractWithDocconv(data, "application/pdf") }},
		}
	default:
		return []extractionStrategy{
			{"docx-xml", extractDOCXParagraphs},
			{"docx-docconv", func(data []byte) (string, error) {
				return extractWithDocconv(data, "application/vnd.openxmlformats-officedocument.wordprocessingml.document")
			}},
		}
	}
}

func classifyMime(declaredMime string) (documentKind, error) {
	mime := strings.ToLower(strings.TrimSpace(declaredMime))
	switch {
	case strings.Contains(mime, "pdf"):
		return kindPDF, nil
	case strings.Contains(mime, "wordprocessingml"), strings.Contains(mime, "msword"), strings.HasSuffix(mime, "docx"):
		return kindDOCX, nil
	default:
		return 0, errWithCode(CodeUnsupportedFormat, fmt.Errorf("declared mime %q", declaredMime))
	}
}

func checkMagicHeader(kind documentKind, data []byte) error {
	switch kind {
	case kindPDF:
		if !bytes.HasPrefix(data, []byte("%PDF-")) {
			return errWithCode(CodeInvalidHeader, fmt.Errorf("missing %%PDF- header"))
		}
	case kindDOCX:
		// DOCX is a zip archive.
		if !bytes.HasPrefix(data, []byte("PK\x03\x04")) {
			return errWithCode(CodeInvalidHeader, fmt.Errorf("missing zip header"))
		}
	}
	return nil
}

// extractPDFTextLayer walks every page of the text layer and concatenates the
// text runs. Pages that fail to decode are skipped rather than aborting the
// whole document.
func extractPDFTextLayer(data []byte) (text string, err error) {
	// The text-layer walker panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf text layer panicked: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	var builder strings.Builder
	totalPage := reader.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := reader.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}

		builder.WriteString(pageText)
		builder.WriteString("\n\n")
	}

	return builder.String(), nil
}

// extractWithDocconv runs the independent second extraction library. Different
// extractors fail on different malformed documents, which is the whole point
// of the fallback chain.
func extractWithDocconv(data []byte, mimeType string) (string, error) {
	res, err := docconv.Convert(bytes.NewReader(data), mimeType, true)
	if err != nil {
		return "", fmt.Errorf("docconv: %w", err)
	}
	return res.Body, nil
}

// docx paragraph XML elements of interest
type docxText struct {
	Value string `xml:",chardata"`
}

// extractDOCXParagraphs pulls all paragraph text runs straight out of
// word/document.xml inside the archive.
func extractDOCXParagraphs(data []byte) (string, error) {
	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open DOCX archive: %w", err)
	}

	var document *zip.File
	for _, f := range archive.File {
		if f.Name == "word/document.xml" {
			document = f
			break
		}
	}
	if document == nil {
		return "", fmt.Errorf("word/document.xml not found")
	}

	rc, err := document.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open document.xml: %w", err)
	}
	defer rc.Close()

	var builder strings.Builder
	decoder := xml.NewDecoder(rc)
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to decode document.xml: %w", err)
		}

		switch t := token.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				var run docxText
				if err := decoder.DecodeElement(&run, &t); err == nil {
					builder.WriteString(run.Value)
				}
			}
		case xml.EndElement:
			if t.Name.Local == "p" {
				builder.WriteString("\n")
			}
		}
	}

	return builder.String(), nil
}

// extractViaOCR locates the largest embedded raster images in the DOCX archive
// and sends each to the image-to-text collaborator.
func (e *documentExtractor) extractViaOCR(ctx context.Context, data []byte) (*ExtractionResult, error) {
	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open DOCX archive: %w", err)
	}

	var images []*zip.File
	for _, f := range archive.File {
		if !strings.HasPrefix(f.Name, "word/media/") {
			continue
		}
		switch strings.ToLower(path.Ext(f.Name)) {
		case ".png", ".jpg", ".jpeg":
			images = append(images, f)
		}
	}
	if len(images) == 0 {
		return nil, fmt.Errorf("no embedded raster images")
	}

	sort.Slice(images, func(i, j int) bool {
		return images[i].UncompressedSize64 > images[j].UncompressedSize64
	})
	if len(images) > e.cfg.MaxOCRImages {
		images = images[:e.cfg.MaxOCRImages]
	}

	var parts []string
	for _, img := range images {
		rc, err := img.Open()
		if err != nil {
			continue
		}
		imgData, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			continue
		}

		mimeType := "image/png"
		if ext := strings.ToLower(path.Ext(img.Name)); ext == ".jpg" || ext == ".jpeg" {
			mimeType = "image/jpeg"
		}

		text, err := e.ocr.ExtractImageText(ctx, imgData, mimeType)
		if err != nil {
			log.Printf("⚠️  OCR failed for %s: %v\n", img.Name, err)
			continue
		}
		parts = append(parts, text)
	}

	text := NormalizeText(strings.Join(parts, "\n"))
	compact := CompactLen(text)
	if compact < e.cfg.FallbackMinChars {
		return nil, fmt.Errorf("OCR produced only %d usable characters", compact)
	}

	return &ExtractionResult{
		Text:        text,
		Method:      MethodOCR,
		CharDensity: float64(compact) / float64(len(data)),
		CompactLen:  compact,
	}, nil
}

// garbageRatio measures how much of the text is replacement characters or
// other unreadable runes, which signals a codepage mismatch upstream.
func garbageRatio(text string) float64 {
	if text == "" {
		return 0
	}
	total, garbage := 0, 0
	for _, r := range text {
		total++
		if r == unicode.ReplacementChar || (!unicode.IsGraphic(r) && !unicode.IsSpace(r)) {
			garbage++
		}
	}
	return float64(garbage) / float64(total)
}
