// Package tokenizer counts tokens the way the downstream embedding model does.
package tokenizer

import (
	"errors"
	"fmt"
	"sync"

	"github.com/pkoukk/tiktoken-go"
	tiktoken_loader "github.com/pkoukk/tiktoken-go-loader"
)

// EstimateEncoding selects the chars/4 heuristic instead of a BPE encoding.
const EstimateEncoding = "estimate"

// charsPerToken is the heuristic ratio used by the estimate counter.
const charsPerToken = 4

var ErrUnknownEncoding = errors.New("unknown encoding")

// Counter returns the number of tokens in a text. Implementations must be
// deterministic and safe for concurrent use.
type Counter interface {
	Count(text string) int
	Name() string
}

var loaderOnce sync.Once

// New returns the counter for a named encoding: any tiktoken encoding
// (cl100k_base, o200k_base, p50k_base, r50k_base) or "estimate".
// BPE ranks are loaded from the embedded offline loader, never the network.
func New(encoding string) (Counter, error) {
	if encoding == EstimateEncoding {
		return Estimate{}, nil
	}

	loaderOnce.Do(func() {
		tiktoken.SetBpeLoader(tiktoken_loader.NewOfflineLoader())
	})

	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrUnknownEncoding, encoding, err)
	}
	return &BPE{name: encoding, enc: enc}, nil
}

// BPE counts tokens with a tiktoken encoding.
type BPE struct {
	name string
	enc  *tiktoken.Tiktoken
}

func (b *BPE) Count(text string) int {
	if text == "" {
		return 0
	}
	return len(b.enc.Encode(text, nil, nil))
}

func (b *BPE) Name() string { return b.name }

// Estimate approximates tokens as ceil(runes/4).
type Estimate struct{}

func (Estimate) Count(text string) int {
	n := len([]rune(text))
	return (n + charsPerToken - 1) / charsPerToken
}

func (Estimate) Name() string { return EstimateEncoding }
