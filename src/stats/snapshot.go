package stats

// Snapshot is one statistics payload as received from the dashboard-data endpoint.
// A Snapshot is never mutated after Fetch returns it.
type Snapshot struct {
	SafeCount     int            `json:"safe_count"`
	PhishingCount int            `json:"phishing_count"`
	TopKeywords   []KeywordCount `json:"top_keywords"`
}

// KeywordCount is one entry of the top keywords list.
type KeywordCount struct {
	Keyword string `json:"keyword"`
	Count   int    `json:"count"`
}

// Total returns phishing + safe.
func (s Snapshot) Total() int { return s.SafeCount + s.PhishingCount }

// wireSnapshot mirrors Snapshot with pointers so missing keys can be told apart from zeros.
type wireSnapshot struct {
	SafeCount     *int           `json:"safe_count"`
	PhishingCount *int           `json:"phishing_count"`
	TopKeywords   *[]wireKeyword `json:"top_keywords"`
}

type wireKeyword struct {
	Keyword *string `json:"keyword"`
	Count   *int    `json:"count"`
}
