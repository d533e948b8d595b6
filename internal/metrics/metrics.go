package metrics

import (
	"sync"
	"time"
)

// Metrics tracks pipeline activity for the /metrics and /health endpoints.
type Metrics struct {
	mu sync.RWMutex

	// Counters
	SearchRequests         int64
	ArticlesFetched        int64
	ArticlesFiltered       int64
	SuccessfulTranslations int64
	FailedTranslations     int64
	GPTSummaries           int64
	GPTBatchAborts         int64
	KeywordRuns            int64
	WordcloudsRendered     int64

	// Timings
	LastProcessingTime    time.Duration
	AverageProcessingTime time.Duration
	TotalProcessingTime   time.Duration
	ProcessingCount       int64

	// Status
	LastRunTime   time.Time
	LastErrorTime time.Time
	LastError     string
	IsHealthy     bool
}

var Global = &Metrics{IsHealthy: true}

func (m *Metrics) IncrementSearchRequests() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SearchRequests++
}

func (m *Metrics) AddArticlesFetched(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ArticlesFetched += int64(n)
}

func (m *Metrics) AddArticlesFiltered(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ArticlesFiltered += int64(n)
}

func (m *Metrics) IncrementSuccessfulTranslations() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SuccessfulTranslations++
}

func (m *Metrics) IncrementFailedTranslations() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FailedTranslations++
}

func (m *Metrics) IncrementGPTSummaries() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GPTSummaries++
}

func (m *Metrics) IncrementGPTBatchAborts() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GPTBatchAborts++
}

func (m *Metrics) IncrementKeywordRuns() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.KeywordRuns++
}

func (m *Metrics) IncrementWordcloudsRendered() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.WordcloudsRendered++
}

func (m *Metrics) RecordProcessingTime(duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.LastProcessingTime = duration
	m.TotalProcessingTime += duration
	m.ProcessingCount++

	if m.ProcessingCount > 0 {
		m.AverageProcessingTime = m.TotalProcessingTime / time.Duration(m.ProcessingCount)
	}
}

func (m *Metrics) SetLastRun() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastRunTime = time.Now()
	m.IsHealthy = true
}

func (m *Metrics) SetError(err string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastError = err
	m.LastErrorTime = time.Now()
	m.IsHealthy = false
}

func (m *Metrics) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"search_requests":            m.SearchRequests,
		"articles_fetched":           m.ArticlesFetched,
		"articles_filtered":          m.ArticlesFiltered,
		"successful_translations":    m.SuccessfulTranslations,
		"failed_translations":        m.FailedTranslations,
		"gpt_summaries":              m.GPTSummaries,
		"gpt_batch_aborts":           m.GPTBatchAborts,
		"keyword_runs":               m.KeywordRuns,
		"wordclouds_rendered":        m.WordcloudsRendered,
		"last_processing_time_ms":    m.LastProcessingTime.Milliseconds(),
		"average_processing_time_ms": m.AverageProcessingTime.Milliseconds(),
		"last_run_time":              m.LastRunTime.Format(time.RFC3339),
		"last_error_time":            m.LastErrorTime.Format(time.RFC3339),
		"last_error":                 m.LastError,
		"is_healthy":                 m.IsHealthy,
	}
}
