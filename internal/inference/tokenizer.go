package inference

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"movie-sentiment/pkg/apperror"

	"github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/pretrained"
)

const (
	DefaultMaxLength = 128

	tokenizerFile = "tokenizer.json"
)

// padTokens are tried in order when tokenizer.json has no padding config.
var padTokens = []string{"[PAD]", "<pad>"}

// Encoding is a fixed-length model input. Mask 1 marks a real token and 0
// marks padding.
type Encoding struct {
	IDs           []int64
	AttentionMask []int64
}

// textEncoder is the part of *tokenizer.Tokenizer the adapter uses.
type textEncoder interface {
	EncodeSingle(input string, addSpecialTokensOpt ...bool) (*tokenizer.Encoding, error)
	TokenToId(token string) (int, bool)
}

// Tokenizer turns review text into model input of exactly maxLength
// positions.
type Tokenizer struct {
	enc       textEncoder
	maxLength int
	padID     int64
}

// LoadTokenizer reads a HuggingFace tokenizer.json. path may be the file
// itself or the directory holding it.
func LoadTokenizer(path string, maxLength int) (*Tokenizer, error) {
	if maxLength <= 0 {
		maxLength = DefaultMaxLength
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, apperror.Startup("tokenizer not found", err)
	}
	if info.IsDir() {
		path = filepath.Join(path, tokenizerFile)
	}

	config, err := tokenizer.ConfigFromFile(path)
	if err == nil && config == nil {
		err = fmt.Errorf("empty config")
	}
	if err != nil {
		return nil, apperror.Startup("could not load tokenizer", fmt.Errorf("%s: %w", path, err))
	}

	tk, err := fromFile(path, config)
	if err != nil {
		return nil, apperror.Startup("could not load tokenizer", fmt.Errorf("%s: %w", path, err))
	}

	padID, ok := configPadID(config)
	return newTokenizer(tk, maxLength, padID, ok), nil
}

// fromFile builds the tokenizer without the file's truncation and padding
// sections. fit does both; the library's truncation panics on single
// sequences and its padding parser rejects the HuggingFace strategy format.
func fromFile(path string, config *tokenizer.Config) (*tokenizer.Tokenizer, error) {
	if config.Truncation == nil && config.Padding == nil {
		return load(path)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	doc["truncation"] = json.RawMessage("null")
	doc["padding"] = json.RawMessage("null")
	stripped, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}

	f, err := os.CreateTemp("", "tokenizer-*.json")
	if err != nil {
		return nil, err
	}
	defer os.Remove(f.Name())
	if _, err := f.Write(stripped); err != nil {
		f.Close()
		return nil, err
	}
	if err := f.Close(); err != nil {
		return nil, err
	}

	return load(f.Name())
}

// load turns a panic on a malformed tokenizer.json into an error.
func load(path string) (tk *tokenizer.Tokenizer, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parse tokenizer: %v", r)
		}
	}()
	return pretrained.FromFile(path)
}

// configPadID reads padding.pad_id from tokenizer.json, if set.
func configPadID(config *tokenizer.Config) (int64, bool) {
	if config == nil || config.Padding == nil {
		return 0, false
	}
	id, ok := config.Padding["pad_id"].(float64)
	if !ok || id < 0 {
		return 0, false
	}
	return int64(id), true
}

// newTokenizer resolves the pad id from the configured value, then from the
// vocabulary's pad token, defaulting to 0.
func newTokenizer(enc textEncoder, maxLength int, configured int64, hasConfigured bool) *Tokenizer {
	t := &Tokenizer{enc: enc, maxLength: maxLength}
	if hasConfigured {
		t.padID = configured
		return t
	}
	for _, token := range padTokens {
		if id, ok := enc.TokenToId(token); ok {
			t.padID = int64(id)
			break
		}
	}
	return t
}

// MaxLength is the fixed sequence length of every Encoding.
func (t *Tokenizer) MaxLength() int {
	return t.maxLength
}

// Encode tokenizes text with special tokens. Empty text is valid and yields
// the special tokens followed by padding. Text longer than MaxLength is
// truncated, keeping the closing special tokens.
func (t *Tokenizer) Encode(text string) (Encoding, error) {
	encoded, err := t.enc.EncodeSingle(text, true)
	if err != nil {
		return Encoding{}, fmt.Errorf("encode text: %w", err)
	}
	return t.fit(encoded.Ids, encoded.AttentionMask, encoded.SpecialTokenMask), nil
}

// fit truncates or right-pads ids and mask to maxLength. On truncation the
// trailing run of special tokens (e.g. [SEP]) is moved to the end of the
// kept window.
func (t *Tokenizer) fit(ids, mask, special []int) Encoding {
	out := Encoding{
		IDs:           make([]int64, t.maxLength),
		AttentionMask: make([]int64, t.maxLength),
	}

	keep := ids
	keepMask := mask
	if len(ids) > t.maxLength {
		tail := trailingSpecial(ids, special)
		if tail >= t.maxLength {
			tail = 0
		}
		head := t.maxLength - tail
		keep = append(append([]int{}, ids[:head]...), ids[len(ids)-tail:]...)
		if len(mask) == len(ids) {
			keepMask = append(append([]int{}, mask[:head]...), mask[len(mask)-tail:]...)
		} else {
			keepMask = nil
		}
	}

	for i := 0; i < t.maxLength; i++ {
		if i >= len(keep) {
			out.IDs[i] = t.padID
			continue
		}
		out.IDs[i] = int64(keep[i])
		if i < len(keepMask) {
			out.AttentionMask[i] = int64(keepMask[i])
		} else {
			out.AttentionMask[i] = 1
		}
	}

	return out
}

func trailingSpecial(ids, special []int) int {
	if len(special) != len(ids) {
		return 0
	}
	n := 0
	for i := len(special) - 1; i >= 0 && special[i] == 1; i-- {
		n++
	}
	return n
}
