package tracker

import (
	"bufio"
	"math/rand"
	"os"
	"strings"
)

type Quote struct {
	Text string
}

// QuoteStore holds the motivational lines shown on the daily checklist.
type QuoteStore struct {
	Path   string
	Quotes []Quote
}

func (s *QuoteStore) Load() error {
	f, err := os.Open(s.Path)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(bufio.NewReader(f))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		s.Quotes = append(s.Quotes, Quote{Text: line})
	}
	return scanner.Err()
}

// GetQuote returns a random quote, or the zero Quote when none are loaded.
func (s *QuoteStore) GetQuote() Quote {
	if len(s.Quotes) == 0 {
		return Quote{}
	}
	return s.Quotes[rand.Intn(len(s.Quotes))]
}
