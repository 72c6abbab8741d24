package nlp

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/yourusername/agent-orchestrator/internal/llm"
	"github.com/yourusername/agent-orchestrator/models"
)

// Analyzer runs the full NLP pipeline over a query: intent, entities,
// complexity, priority, language, sentiment and keywords.
type Analyzer struct {
	classifier *IntentClassifier
	extractor  *EntityExtractor
	logger     *zap.Logger
}

// NewAnalyzer creates an analyzer. llmManager may be nil for a purely
// rule-based pipeline.
func NewAnalyzer(llmManager *llm.Manager, logger *zap.Logger) *Analyzer {
	return &Analyzer{
		classifier: NewIntentClassifier(llmManager, logger),
		extractor:  NewEntityExtractor(),
		logger:     logger,
	}
}

// Analyze produces the complete analysis for a query. The overall
// confidence mirrors the intent confidence since entity matches carry
// their own per-match scores.
func (a *Analyzer) Analyze(ctx context.Context, query string) *models.NLPAnalysis {
	started := time.Now()

	intent := a.classifier.Classify(ctx, query)
	entities := a.extractor.Extract(query)
	complexity := AssessComplexity(query, entities)
	priority := AssessPriority(intent.Category, complexity)

	analysis := &models.NLPAnalysis{
		Query:      query,
		Intent:     intent,
		Entities:   entities,
		Complexity: complexity,
		Priority:   priority,
		Confidence: intent.Confidence,
		Language:   detectLanguage(query),
		Sentiment:  detectSentiment(query),
		Keywords:   extractKeywords(query),
		Timestamp:  time.Now().UTC(),
	}

	a.logger.Debug("query analyzed",
		zap.String("intent", string(intent.Category)),
		zap.String("complexity", string(complexity)),
		zap.String("priority", string(priority)),
		zap.Int("entities", len(entities)),
		zap.Duration("took", time.Since(started)))

	return analysis
}

var frenchMarkers = []string{
	"le ", "la ", "les ", "une ", "des ", "est ", "sont ", "avec ",
	"pour ", "dans ", "je ", "nous ", "vous ", "cette ", "et ",
}

// detectLanguage distinguishes English from French on common function
// words. Two or more French markers flip the result to "fr".
func detectLanguage(query string) string {
	lower := " " + strings.ToLower(query) + " "
	hits := 0
	for _, marker := range frenchMarkers {
		if strings.Contains(lower, " "+marker) {
			hits++
		}
	}
	if hits >= 2 {
		return "fr"
	}
	return "en"
}

var positiveWords = []string{
	"great", "good", "excellent", "love", "amazing", "helpful", "thanks",
	"perfect", "awesome", "best",
}

var negativeWords = []string{
	"bad", "terrible", "hate", "awful", "problem", "issue", "broken",
	"urgent", "fail", "worst", "wrong",
}

func detectSentiment(query string) models.Sentiment {
	lower := strings.ToLower(query)
	score := 0
	for _, word := range positiveWords {
		if strings.Contains(lower, word) {
			score++
		}
	}
	for _, word := range negativeWords {
		if strings.Contains(lower, word) {
			score--
		}
	}
	switch {
	case score > 0:
		return models.SentimentPositive
	case score < 0:
		return models.SentimentNegative
	default:
		return models.SentimentNeutral
	}
}

var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true,
	"but": true, "in": true, "on": true, "at": true, "to": true,
	"for": true, "of": true, "with": true, "by": true, "is": true,
	"are": true, "was": true, "were": true, "be": true, "been": true,
	"have": true, "has": true, "had": true, "do": true, "does": true,
	"did": true, "will": true, "would": true, "could": true,
	"should": true, "can": true, "that": true, "this": true,
	"these": true, "those": true, "i": true, "you": true, "we": true,
	"they": true, "it": true, "my": true, "our": true, "me": true,
	"please": true,
}

// extractKeywords keeps the meaningful words of the query in order,
// dropping stop words, punctuation and anything shorter than 3 runes.
func extractKeywords(query string) []string {
	fields := strings.Fields(strings.ToLower(query))
	keywords := make([]string, 0, len(fields))
	seen := make(map[string]bool)

	for _, field := range fields {
		word := strings.Trim(field, ".,!?;:\"'()[]{}")
		if len(word) < 3 || stopWords[word] || seen[word] {
			continue
		}
		seen[word] = true
		keywords = append(keywords, word)
	}

	return keywords
}
