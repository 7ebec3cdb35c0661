// Package chat implements the conversational surface: classifying
// questions, orchestrating SQL generation and execution, and phrasing the
// results as Portuguese answers.
package chat

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"go.uber.org/zap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/turbopartners/turbochat/pkg/models"
)

// Classifier recognizes the intent of a free-text question.
type Classifier interface {
	Classify(text string) models.Question
}

// ClassifierConfig tunes the keyword classifier.
type ClassifierConfig struct {
	// Now supplies the reference time for relative periods ("este mês",
	// "ano passado"). Defaults to time.Now.
	Now func() time.Time

	// MaxTopN caps extracted ranking sizes. Defaults to 100.
	MaxTopN int

	// TaxIDLength is the digit count of a valid CNPJ. Defaults to 14.
	TaxIDLength int
}

type keywordClassifier struct {
	now         func() time.Time
	maxTopN     int
	taxIDLength int
	logger      *zap.Logger
}

// NewClassifier creates the keyword classifier.
func NewClassifier(cfg ClassifierConfig, logger *zap.Logger) Classifier {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.MaxTopN <= 0 {
		cfg.MaxTopN = 100
	}
	if cfg.TaxIDLength <= 0 {
		cfg.TaxIDLength = 14
	}
	return &keywordClassifier{
		now:         cfg.Now,
		maxTopN:     cfg.MaxTopN,
		taxIDLength: cfg.TaxIDLength,
		logger:      logger.Named("classifier"),
	}
}

var _ Classifier = (*keywordClassifier)(nil)

var (
	taxIDPattern    = regexp.MustCompile(`\d{2}\.?\d{3}\.?\d{3}/?\d{4}-?\d{2}|\d{14}`)
	yearPattern     = regexp.MustCompile(`\b(20\d{2})\b`)
	topNPattern     = regexp.MustCompile(`\b(?:top|os|as)?\s*(\d{1,3})\s*(?:maiores|melhores|principais|clientes)\b`)
	bareTopPattern  = regexp.MustCompile(`\btop\s*(\d{1,3})\b`)
	daysPattern     = regexp.MustCompile(`\b(\d{1,4})\s*dias?\b`)
	greetingPattern = regexp.MustCompile(`\b(oi|ola|eai|opa|bom dia|boa tarde|boa noite)\b`)
	nonDigits       = regexp.MustCompile(`\D`)
)

// monthNames maps accent-stripped Portuguese month names to their number.
var monthNames = map[string]time.Month{
	"janeiro":   time.January,
	"fevereiro": time.February,
	"marco":     time.March,
	"abril":     time.April,
	"maio":      time.May,
	"junho":     time.June,
	"julho":     time.July,
	"agosto":    time.August,
	"setembro":  time.September,
	"outubro":   time.October,
	"novembro":  time.November,
	"dezembro":  time.December,
}

// Classify applies the keyword rules in priority order. Rules earlier in
// the chain are more specific; a question carrying a CNPJ is a lookup no
// matter what else it says.
func (c *keywordClassifier) Classify(text string) models.Question {
	question := models.Question{Text: text, Intent: models.IntentUnknown}
	normalized := normalize(text)

	switch {
	case c.isGreeting(normalized):
		question.Intent = models.IntentGreeting

	case c.isHelp(normalized):
		question.Intent = models.IntentHelp

	case c.extractTaxID(text) != "":
		question.Intent = models.IntentClientLookup
		question.Params.TaxID = c.extractTaxID(text)

	case c.isRanking(normalized):
		question.Intent = models.IntentTopClients
		question.Params.TopN = c.extractTopN(normalized)

	case c.isDelinquency(normalized):
		question.Intent = models.IntentDelinquentClients
		question.Params.MinDaysOverdue = extractDays(normalized)

	case c.isRevenue(normalized):
		year, month, scoped := c.extractPeriod(normalized)
		if scoped {
			question.Intent = models.IntentRevenueByPeriod
			question.Params.Year = year
			question.Params.Month = month
		} else {
			question.Intent = models.IntentTotalRevenue
		}
	}

	c.logger.Debug("question classified",
		zap.String("intent", string(question.Intent)))

	return question
}

// normalize lowercases the text and strips diacritics so keyword matching
// does not depend on accents.
func normalize(text string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, strings.ToLower(text))
	if err != nil {
		return strings.ToLower(text)
	}
	return stripped
}

func (c *keywordClassifier) isGreeting(text string) bool {
	return greetingPattern.MatchString(text) && !c.hasQuerySignal(text)
}

func (c *keywordClassifier) isHelp(text string) bool {
	for _, kw := range []string{"ajuda", "help", "o que voce faz", "o que voce pode", "como funciona", "como usar"} {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// hasQuerySignal reports whether the text carries data-question vocabulary,
// so "olá, quanto recebemos?" is not swallowed by the greeting rule.
func (c *keywordClassifier) hasQuerySignal(text string) bool {
	for _, kw := range []string{"receb", "receita", "fatur", "arrecad", "cliente", "inadimplen", "vencid", "atras", "devendo", "cnpj", "quanto"} {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func (c *keywordClassifier) extractTaxID(text string) string {
	match := taxIDPattern.FindString(text)
	if match == "" {
		return ""
	}
	digits := nonDigits.ReplaceAllString(match, "")
	if len(digits) != c.taxIDLength {
		return ""
	}
	return digits
}

func (c *keywordClassifier) isRanking(text string) bool {
	for _, kw := range []string{"top ", "maiores", "melhores clientes", "principais clientes", "ranking", "quem mais pagou", "quem mais paga"} {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func (c *keywordClassifier) extractTopN(text string) int {
	n := 0
	if m := topNPattern.FindStringSubmatch(text); len(m) >= 2 {
		n, _ = strconv.Atoi(m[1])
	} else if m := bareTopPattern.FindStringSubmatch(text); len(m) >= 2 {
		n, _ = strconv.Atoi(m[1])
	}
	if n <= 0 {
		return 10
	}
	if n > c.maxTopN {
		return c.maxTopN
	}
	return n
}

func (c *keywordClassifier) isDelinquency(text string) bool {
	for _, kw := range []string{"inadimplen", "vencid", "atras", "devendo", "nao pagou", "nao pagaram", "devedores"} {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func extractDays(text string) int {
	if m := daysPattern.FindStringSubmatch(text); len(m) >= 2 {
		days, _ := strconv.Atoi(m[1])
		return days
	}
	return 0
}

func (c *keywordClassifier) isRevenue(text string) bool {
	for _, kw := range []string{"receb", "receita", "fatur", "arrecad"} {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// extractPeriod resolves explicit years, month names and relative periods.
// The third return is false when the question carries no period at all.
func (c *keywordClassifier) extractPeriod(text string) (year int, month int, scoped bool) {
	now := c.now()

	if m := yearPattern.FindStringSubmatch(text); len(m) >= 2 {
		year, _ = strconv.Atoi(m[1])
		scoped = true
	}

	for name, m := range monthNames {
		if strings.Contains(text, name) {
			month = int(m)
			if year == 0 {
				year = now.Year()
			}
			scoped = true
			break
		}
	}

	switch {
	case strings.Contains(text, "mes passado"):
		// AddDate on day 31 can skip a month; anchoring on day 1 avoids it.
		prev := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -1, 0)
		year, month, scoped = prev.Year(), int(prev.Month()), true
	case strings.Contains(text, "este mes"), strings.Contains(text, "esse mes"), strings.Contains(text, "mes atual"):
		year, month, scoped = now.Year(), int(now.Month()), true
	case strings.Contains(text, "ano passado"):
		year, month, scoped = now.Year()-1, 0, true
	case strings.Contains(text, "este ano"), strings.Contains(text, "esse ano"), strings.Contains(text, "ano atual"):
		year, month, scoped = now.Year(), 0, true
	}

	return year, month, scoped
}
