package journal

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hawk-journal/hawk/internal/domain"
	"github.com/hawk-journal/hawk/internal/kv"
)

// timeNow is stubbed in tests.
var timeNow = time.Now

const (
	dayPrefix  = "journal.day."
	dateLayout = "2006-01-02"
)

// Day is one calendar day of the journal: hour-by-hour entries plus a
// mood value, stored under journal.day.<YYYY-MM-DD>.
type Day struct {
	Date      string         `json:"date"`
	Entries   map[int]string `json:"entries,omitempty"`
	Mood      string         `json:"mood,omitempty"`
	UpdatedAt int64          `json:"updatedAt"`
}

// DaySummary is the calendar-grid projection of a day: no entry bodies.
type DaySummary struct {
	Date       string `json:"date"`
	Mood       string `json:"mood,omitempty"`
	EntryCount int    `json:"entryCount"`
}

// Store reads and writes journal days.
type Store struct {
	store kv.Store
}

func NewStore(store kv.Store) *Store {
	return &Store{store: store}
}

func dayKey(date string) string {
	return dayPrefix + date
}

func validDate(date string) bool {
	_, err := time.Parse(dateLayout, date)
	return err == nil
}

// Get returns the day's record, or an empty record for days never written.
func (s *Store) Get(date string) (*Day, error) {
	if !validDate(date) {
		return nil, fmt.Errorf("%w: invalid date %q", domain.ErrBadRequest, date)
	}

	data, err := s.store.Get(dayKey(date))
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return &Day{Date: date, Entries: map[int]string{}}, nil
	}

	var day Day
	if err := json.Unmarshal(data, &day); err != nil {
		return nil, fmt.Errorf("failed to decode day %s: %w", date, err)
	}
	if day.Entries == nil {
		day.Entries = map[int]string{}
	}
	return &day, nil
}

// Put validates and stores the full day record, refreshing updatedAt.
// Empty entries are dropped so cleared hours do not accumulate.
func (s *Store) Put(day Day) error {
	if !validDate(day.Date) {
		return fmt.Errorf("%w: invalid date %q", domain.ErrBadRequest, day.Date)
	}
	for hour, text := range day.Entries {
		if hour < 0 || hour > 23 {
			return fmt.Errorf("%w: hour %d out of range", domain.ErrBadRequest, hour)
		}
		if text == "" {
			delete(day.Entries, hour)
		}
	}

	day.UpdatedAt = timeNow().UnixMilli()
	data, err := json.Marshal(day)
	if err != nil {
		return fmt.Errorf("failed to encode day %s: %w", day.Date, err)
	}
	return s.store.Set(dayKey(day.Date), data)
}

// Month returns a summary for every recorded day in a YYYY-MM month,
// oldest first, for the calendar grid.
func (s *Store) Month(month string) ([]DaySummary, error) {
	if _, err := time.Parse("2006-01", month); err != nil {
		return nil, fmt.Errorf("%w: invalid month %q", domain.ErrBadRequest, month)
	}

	entries, err := s.store.List(dayPrefix + month + "-")
	if err != nil {
		return nil, err
	}

	summaries := make([]DaySummary, 0, len(entries))
	for _, e := range entries {
		var day Day
		if err := json.Unmarshal(e.Value, &day); err != nil {
			return nil, fmt.Errorf("failed to decode day %s: %w", e.Key, err)
		}
		summaries = append(summaries, DaySummary{
			Date:       day.Date,
			Mood:       day.Mood,
			EntryCount: len(day.Entries),
		})
	}
	return summaries, nil
}
