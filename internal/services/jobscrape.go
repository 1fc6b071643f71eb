package services

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

var (
	scriptRegex  = regexp.MustCompile(`(?is)<script[\s\S]*?</script>`)
	styleRegex   = regexp.MustCompile(`(?is)<style[\s\S]*?</style>`)
	commentRegex = regexp.MustCompile(`<!--[\s\S]*?-->`)
	tagRegex     = regexp.MustCompile(`<[^>]+>`)

	// Job pages bury the posting under navigation chrome; slicing from the
	// first requirements-ish heading keeps the useful part.
	relevantBlockRegex = regexp.MustCompile(`(?i)(responsabilid|requisitos|atividad|qualific|requirements|duties|about the role)`)
)

// JobScraper resolves a job description given by URL into plain page text.
// A failed scrape is not fatal: the pipeline continues with the original
// string and flags descricao_vaga_invalida.
type JobScraper interface {
	Scrape(ctx context.Context, src string) (string, bool)
}

type jobScraper struct {
	client   *http.Client
	maxChars int
}

func NewJobScraper(timeout time.Duration, maxChars int) JobScraper {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if maxChars <= 0 {
		maxChars = 18000
	}
	return &jobScraper{
		client:   &http.Client{Timeout: timeout},
		maxChars: maxChars,
	}
}

// IsLikelyURL reports whether the pasted job description is actually a link.
func IsLikelyURL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func (s *jobScraper) Scrape(ctx context.Context, src string) (string, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return "", false
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 ATS-Evaluator/1.0")
	req.Header.Set("Accept-Language", "pt-BR,pt;q=0.9,en;q=0.8")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", false
	}

	html, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", false
	}

	text := stripHTML(string(html))
	if idx := relevantBlockRegex.FindStringIndex(text); idx != nil {
		text = text[idx[0]:]
	}

	return Truncate(text, s.maxChars), true
}

func stripHTML(html string) string {
	text := scriptRegex.ReplaceAllString(html, " ")
	text = styleRegex.ReplaceAllString(text, " ")
	text = commentRegex.ReplaceAllString(text, " ")
	text = tagRegex.ReplaceAllString(text, " ")
	text = whitespaceRegex.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
