// Copyright 2026 ldakit Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package dataset

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/juju/errors"
)

// FormatError reports a malformed corpus or vocabulary line. Line is
// 1-based, as editors count.
type FormatError struct {
	Line    int
	Token   string
	Message string
}

func (e *FormatError) Error() string {
	if e.Token != "" {
		return fmt.Sprintf("dataset: line %d: token %q: %s", e.Line, e.Token, e.Message)
	}
	return fmt.Sprintf("dataset: line %d: %s", e.Line, e.Message)
}

// Vocabulary is an ordered list of unique words. The position of a word is
// the column index used by the corpus parser and the model parameters.
type Vocabulary struct {
	words []string
}

// LoadVocabulary reads a vocabulary file, one word per line. The line number
// (0-indexed) is the column index. Duplicated words are rejected.
func LoadVocabulary(r io.Reader) (*Vocabulary, error) {
	var words []string
	seen := mapset.NewSet[string]()
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		word := strings.TrimSpace(scanner.Text())
		if word == "" {
			return nil, &FormatError{Line: len(words) + 1, Message: "empty word"}
		}
		if !seen.Add(word) {
			return nil, &FormatError{Line: len(words) + 1, Token: word, Message: "duplicated word"}
		}
		words = append(words, word)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Trace(err)
	}
	return &Vocabulary{words: words}, nil
}

func (v *Vocabulary) Size() int {
	return len(v.words)
}

// Word returns the word at column index j.
func (v *Vocabulary) Word(j int) string {
	if j < 0 || j >= len(v.words) {
		panic(ErrIndexOutOfRange)
	}
	return v.words[j]
}

// ParseCorpus reads a sparse bag-of-words corpus, one document per line, each
// line a comma-separated list of index:count tokens with 1-indexed vocabulary
// positions, and expands it into a dense document x vocabulary matrix.
// Unmentioned positions stay zero. Parsing is pure: it either returns the
// complete matrix or a *FormatError, never a partial result.
func ParseCorpus(r io.Reader, vocabSize int) (*Matrix, error) {
	if vocabSize <= 0 {
		return nil, errors.NotValidf("vocabulary size %d", vocabSize)
	}
	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Trace(err)
	}

	m := NewMatrix(len(lines), vocabSize)
	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		for _, token := range strings.Split(line, ",") {
			kv := strings.SplitN(token, ":", 2)
			if len(kv) != 2 {
				return nil, &FormatError{Line: i + 1, Token: token, Message: "missing count separator"}
			}
			index, err := strconv.Atoi(strings.TrimSpace(kv[0]))
			if err != nil {
				return nil, &FormatError{Line: i + 1, Token: token, Message: "malformed word index"}
			}
			count, err := strconv.Atoi(strings.TrimSpace(kv[1]))
			if err != nil || count < 0 {
				return nil, &FormatError{Line: i + 1, Token: token, Message: "malformed word count"}
			}
			if index < 1 || index > vocabSize {
				return nil, &FormatError{Line: i + 1, Token: token,
					Message: fmt.Sprintf("word index out of range [1, %d]", vocabSize)}
			}
			// the source encoding is 1-indexed
			m.Set(i, index-1, float32(count))
		}
	}
	return m, nil
}
