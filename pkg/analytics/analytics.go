// Package analytics counts words for keyword extraction.
package analytics

import (
	"sort"
	"strings"
	"unicode"
)

type Analytics struct{}

// stopwordList holds words ignored by frequency analysis.
const stopwordList = `
a about above across after afterwards again against all almost alone
along already also although always am among amongst amount an and
another any anyhow anyone anything anyway anywhere are aren't around as
at back be became because become becomes becoming been before beforehand
behind being below beside besides between beyond both but by can can't
cannot could couldn't did didn't do does doesn't doing don't done down
during each either else elsewhere enough entirely especially etc even
ever every everyone everything everywhere few for former formerly from
further had hadn't has hasn't have haven't having he he'd he'll he's
hence her here hereafter hereby herein here's hereupon hers herself him
himself his how however i i'd i'll i'm i've if in indeed into is isn't
it it's its itself just keep last latter latterly least less let let's
like likely made make many may maybe me meanwhile might mine more
moreover most mostly much must mustn't my myself neither never
nevertheless next no nobody none noone nor not nothing now nowhere of
off often on once one only onto or other others otherwise our ours
ourselves out over own part per perhaps please put rather re same see
seem seemed seeming seems several she she'd she'll she's should
shouldn't since so some somehow someone something sometime sometimes
somewhere still such take than that that's the their theirs them
themselves then thence there thereafter thereby therefore therein
there's thereupon these they they'd they'll they're they've this those
through throughout thru thus to together too toward towards under until
up upon us use very via was wasn't we we'd we'll we're we've well were
weren't what whatever what's when whence whenever where whereafter
whereas whereby wherein where's whereupon wherever whether which while
whither who who'd whoever who'll who's whose why with within without
won't would wouldn't yet you you'd you'll you're you've your yours
yourself yourselves ain't it'll shan't that'll when's
`

var stopwords = func() map[string]struct{} {
	words := strings.Fields(stopwordList)
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}()

// IsStopword checks if a word is a common stopword that should be filtered out.
func IsStopword(word string) bool {
	_, exists := stopwords[strings.ToLower(word)]
	return exists
}

// WordFrequency counts the non-stopword words of text. Words are lowercased
// and trimmed of leading and trailing characters that are not letters or
// digits; apostrophes inside a word are kept.
func (a *Analytics) WordFrequency(text string) map[string]int {
	frequencies := make(map[string]int)

	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.TrimFunc(word, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		word = strings.ReplaceAll(word, "\u2019", "'")

		if word == "" || IsStopword(word) || len([]rune(word)) < 2 {
			continue
		}

		frequencies[word]++
	}

	return frequencies
}

// WordCount is a word and the number of times it occurred.
type WordCount struct {
	Word  string
	Count int
}

// Rank orders frequencies by count, highest first, breaking ties
// alphabetically, and returns at most n entries. keep, when non-nil,
// filters words out before ranking.
func Rank(frequencies map[string]int, n int, keep func(string) bool) []WordCount {
	counts := make([]WordCount, 0, len(frequencies))
	for k, v := range frequencies {
		if keep != nil && !keep(k) {
			continue
		}
		counts = append(counts, WordCount{k, v})
	}

	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Word < counts[j].Word
	})

	if n < 0 {
		n = 0
	}
	if len(counts) > n {
		counts = counts[:n]
	}
	return counts
}

// TopNWords returns the n most frequent words of text with their counts.
func (a *Analytics) TopNWords(text string, n int) map[string]int {
	top := make(map[string]int)
	for _, wc := range Rank(a.WordFrequency(text), n, nil) {
		top[wc.Word] = wc.Count
	}
	return top
}
