package services

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testExtractorConfig() ExtractorConfig {
	cfg := DefaultExtractorConfig()
	cfg.MinFileSize = 10
	return cfg
}

func buildDOCX(t *testing.T, paragraphs []string, media map[string][]byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	var body strings.Builder
	body.WriteString(`<?xml version="1.0"?><w:document><w:body>`)
	for _, p := range paragraphs {
		body.WriteString("<w:p><w:r><w:t>" + p + "</w:t></w:r></w:p>")
	}
	body.WriteString(`</w:body></w:document>`)

	doc, err := w.Create("word/document.xml")
	require.NoError(t, err)
	_, err = doc.Write([]byte(body.String()))
	require.NoError(t, err)

	for name, data := range media {
		f, err := w.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Store})
		require.NoError(t, err)
		_, err = f.Write(data)
		require.NoError(t, err)
	}

	require.NoError(t, w.Close())
	return buf.Bytes()
}

func requireAnalysisCode(t *testing.T, err error, code string) *AnalysisError {
	t.Helper()

	var analysisErr *AnalysisError
	require.True(t, errors.As(err, &analysisErr), "expected AnalysisError, got %v", err)
	require.Equal(t, code, analysisErr.Code)
	return analysisErr
}

func TestExtractRejectsUnsupportedMime(t *testing.T) {
	extractor := NewDocumentExtractor(testExtractorConfig(), nil)

	_, err := extractor.Extract(context.Background(), []byte("whatever content"), "text/plain")
	requireAnalysisCode(t, err, CodeUnsupportedFormat)
}

func TestExtractRejectsTinyFile(t *testing.T) {
	extractor := NewDocumentExtractor(testExtractorConfig(), nil)

	_, err := extractor.Extract(context.Background(), []byte("abc"), "application/pdf")
	requireAnalysisCode(t, err, CodeFileTooSmall)
}

func TestExtractRejectsWrongMagicHeader(t *testing.T) {
	extractor := NewDocumentExtractor(testExtractorConfig(), nil)

	_, err := extractor.Extract(context.Background(), []byte("definitely not a pdf"), "application/pdf")
	requireAnalysisCode(t, err, CodeInvalidHeader)

	_, err = extractor.Extract(context.Background(), []byte("definitely not a docx"), "application/vnd.openxmlformats-officedocument.wordprocessingml.document")
	requireAnalysisCode(t, err, CodeInvalidHeader)
}

func TestExtractReadsDOCXParagraphs(t *testing.T) {
	data := buildDOCX(t, []string{
		"Eletricista industrial com dez anos de experiência",
		"Manutenção preventiva e corretiva de painéis elétricos",
	}, nil)

	extractor := NewDocumentExtractor(testExtractorConfig(), nil)
	result, err := extractor.Extract(context.Background(), data, "application/vnd.openxmlformats-officedocument.wordprocessingml.document")
	require.NoError(t, err)

	assert.Equal(t, MethodPrimary, result.Method)
	assert.Contains(t, result.Text, "Eletricista industrial")
	assert.Contains(t, result.Text, "painéis elétricos")
	assert.Equal(t, 2, len(strings.Split(result.Text, "\n")))
	assert.Greater(t, result.CompactLen, 50)
	assert.Greater(t, result.CharDensity, 0.0)
}

func TestExtractClassifiesLargeTextlessPDFAsScanned(t *testing.T) {
	data := append([]byte("%PDF-1.4\n"), make([]byte, 150*1024)...)

	extractor := NewDocumentExtractor(testExtractorConfig(), nil)
	_, err := extractor.Extract(context.Background(), data, "application/pdf")

	analysisErr := requireAnalysisCode(t, err, CodeScannedDocSuspected)
	assert.True(t, analysisErr.SuspectedScanned)
}

func TestExtractFailsOnShortUsableText(t *testing.T) {
	data := buildDOCX(t, []string{"curto"}, nil)

	extractor := NewDocumentExtractor(testExtractorConfig(), nil)
	_, err := extractor.Extract(context.Background(), data, "application/vnd.openxmlformats-officedocument.wordprocessingml.document")
	requireAnalysisCode(t, err, CodeExtractionFailed)
}

type fakeImageReader struct {
	text  string
	err   error
	calls int
}

func (f *fakeImageReader) ExtractImageText(_ context.Context, _ []byte, _ string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

func TestExtractFallsBackToOCRForImageOnlyDOCX(t *testing.T) {
	cfg := testExtractorConfig()
	cfg.ScannedMinBytes = 512

	media := map[string][]byte{
		"word/media/image1.png": bytes.Repeat([]byte{0x89}, 2048),
	}
	data := buildDOCX(t, nil, media)

	ocr := &fakeImageReader{text: "Eletricista com experiência em manutenção industrial e comandos elétricos"}
	extractor := NewDocumentExtractor(cfg, ocr)

	result, err := extractor.Extract(context.Background(), data, "application/vnd.openxmlformats-officedocument.wordprocessingml.document")
	require.NoError(t, err)

	assert.Equal(t, MethodOCR, result.Method)
	assert.Contains(t, result.Text, "manutenção industrial")
	assert.Equal(t, 1, ocr.calls)
}

func TestExtractImageOnlyDOCXWithoutOCRIsScanned(t *testing.T) {
	cfg := testExtractorConfig()
	cfg.ScannedMinBytes = 512

	media := map[string][]byte{
		"word/media/image1.png": bytes.Repeat([]byte{0x89}, 2048),
	}
	data := buildDOCX(t, nil, media)

	extractor := NewDocumentExtractor(cfg, nil)
	_, err := extractor.Extract(context.Background(), data, "application/vnd.openxmlformats-officedocument.wordprocessingml.document")
	requireAnalysisCode(t, err, CodeScannedDocSuspected)
}

func TestGarbageRatio(t *testing.T) {
	assert.Equal(t, 0.0, garbageRatio("texto limpo"))
	assert.Greater(t, garbageRatio("ab���"), 0.3)
}
