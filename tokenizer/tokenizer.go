// Package tokenizer counts tokens with tiktoken encodings and estimates the
// token cost of images.
package tokenizer

import (
	"github.com/pkoukk/tiktoken-go"
)

// DefaultEncoding is used for models tiktoken does not know.
const DefaultEncoding = "cl100k_base"

// Encoder counts the tokens of a text.
type Encoder interface {
	Count(text string) int
}

// Tiktoken is an Encoder backed by a tiktoken BPE encoding.
type Tiktoken struct {
	enc  *tiktoken.Tiktoken
	name string
}

// Count returns the number of tokens in text. Special-token markers are
// encoded as ordinary text.
func (t *Tiktoken) Count(text string) int {
	if text == "" {
		return 0
	}
	return len(t.enc.Encode(text, nil, nil))
}

// Name returns the encoding name, or the model name it was resolved from.
func (t *Tiktoken) Name() string { return t.name }

// ForModel returns the encoding tiktoken associates with model. When the
// model is unknown it returns DefaultEncoding and fallback is true.
func ForModel(model string) (enc *Tiktoken, fallback bool, err error) {
	if e, err := tiktoken.EncodingForModel(model); err == nil {
		return &Tiktoken{enc: e, name: model}, false, nil
	}
	e, err := tiktoken.GetEncoding(DefaultEncoding)
	if err != nil {
		return nil, true, err
	}
	return &Tiktoken{enc: e, name: DefaultEncoding}, true, nil
}
