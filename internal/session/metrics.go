package session

import (
	"math"
	"time"
	"unicode/utf8"
)

// Metrics computes words per minute and accuracy for a reference text typed
// in elapsed time with the given number of errors. WPM is 0 when no time has
// elapsed; accuracy is clamped to [0, 100].
func Metrics(reference string, errors int, elapsed time.Duration) (wpm, accuracy int) {
	minutes := elapsed.Minutes()
	if minutes > 0 {
		wpm = int(math.Round(float64(WordCount(reference)) / minutes))
	}

	accuracy = 100
	length := utf8.RuneCountInString(reference)
	if length > 0 && errors > 0 {
		accuracy = int(math.Round(100 - float64(errors)/float64(length)*100))
	}
	if accuracy < 0 {
		accuracy = 0
	}
	if accuracy > 100 {
		accuracy = 100
	}
	return wpm, accuracy
}
