package quote

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"pitchboard/models"
)

// QuoteService fetches a random quote from the external feed shown on the
// landing page. The feed is decoration; callers are expected to drop the
// quote and render without it when Random fails.
type QuoteService struct {
	url    string
	client *http.Client
}

func NewQuoteService(url string) *QuoteService {
	return &QuoteService{
		url: url,
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

// Random fetches one quote from the feed.
func (s *QuoteService) Random() (*models.Quote, error) {
	resp, err := s.client.Get(s.url)
	if err != nil {
		return nil, fmt.Errorf("error fetching quote: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("quote feed returned status %d", resp.StatusCode)
	}

	var q models.Quote
	if err := json.NewDecoder(resp.Body).Decode(&q); err != nil {
		return nil, fmt.Errorf("error decoding quote: %w", err)
	}
	return &q, nil
}
