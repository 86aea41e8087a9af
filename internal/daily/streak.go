package daily

import "time"

// MaxResults caps the per-date results log; oldest entries are evicted first.
const MaxResults = 90

// Result is one calendar day's daily-challenge outcome.
type Result struct {
	Date     string `json:"date"`
	Won      bool   `json:"won"`
	Attempts int    `json:"attempts"`
}

// Record is the persisted daily-challenge history of a player.
// Results holds at most one entry per date, in play order.
type Record struct {
	LastPlayedDate *string  `json:"lastPlayedDate"`
	CurrentStreak  int      `json:"currentStreak"`
	LongestStreak  int      `json:"longestStreak"`
	Results        []Result `json:"results"`
}

// NewRecord returns the first-run record.
func NewRecord() Record {
	return Record{Results: []Result{}}
}

func (r Record) find(date string) int {
	for i := len(r.Results) - 1; i >= 0; i-- {
		if r.Results[i].Date == date {
			return i
		}
	}
	return -1
}

func (r Record) wonOn(date string) bool {
	i := r.find(date)
	return i >= 0 && r.Results[i].Won
}

// UpdateStreak folds one finished daily session into the record.
//
// A win extends the streak when yesterday was won (or the streak is 0) and
// otherwise restarts it at 1; a second win on the same date changes nothing.
// A loss never touches the streak, so a player may retry the same day. The
// day's entry is created on first play and upgraded in place on a later win.
// The input record is not modified.
func UpdateStreak(rec Record, today time.Time, won bool, attempts int) Record {
	out := rec
	out.Results = append([]Result(nil), rec.Results...)

	key := DateKey(today)
	yesterday := DateKey(today.UTC().AddDate(0, 0, -1))
	idx := out.find(key)

	switch {
	case won && idx >= 0 && out.Results[idx].Won:
		// Already credited today.
	case won:
		if out.CurrentStreak == 0 || out.wonOn(yesterday) {
			out.CurrentStreak++
		} else {
			out.CurrentStreak = 1
		}
		if out.CurrentStreak > out.LongestStreak {
			out.LongestStreak = out.CurrentStreak
		}
		if idx >= 0 {
			out.Results[idx] = Result{Date: key, Won: true, Attempts: attempts}
		} else {
			out.Results = append(out.Results, Result{Date: key, Won: true, Attempts: attempts})
		}
	case idx < 0:
		out.Results = append(out.Results, Result{Date: key, Won: false, Attempts: attempts})
	}

	out.LastPlayedDate = &key
	if n := len(out.Results); n > MaxResults {
		out.Results = append([]Result(nil), out.Results[n-MaxResults:]...)
	}
	return out
}

// HasPlayedToday reports whether the record has an entry for today.
func HasPlayedToday(rec Record, today time.Time) bool {
	return rec.find(DateKey(today)) >= 0
}

// HasWonToday reports whether today's entry is a win.
func HasWonToday(rec Record, today time.Time) bool {
	return rec.wonOn(DateKey(today))
}

// DisplayStreak is the streak as of today: the stored value while a win exists
// for today or yesterday, otherwise 0 because a full day has elapsed unplayed.
func DisplayStreak(rec Record, today time.Time) int {
	if rec.wonOn(DateKey(today)) || rec.wonOn(DateKey(today.UTC().AddDate(0, 0, -1))) {
		return rec.CurrentStreak
	}
	return 0
}
