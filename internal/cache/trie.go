// Cinematch - Content-Based Movie Recommendation and Evaluation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package cache

import (
	"sort"
	"strings"
	"sync"
	"unicode"
)

// trieNode is a node of the word trie. ids holds the documents containing the
// word that ends at this node.
type trieNode struct {
	children map[rune]*trieNode
	ids      map[int]struct{}
}

func newTrieNode() *trieNode {
	return &trieNode{children: make(map[rune]*trieNode)}
}

// TitleIndex is a thread-safe word-prefix index over titles.
//
// Titles are split into lower-cased words. A query matches a title when every
// query word is a prefix of some title word, so "mat" and "the matrix" both
// match "The Matrix (1999)".
type TitleIndex struct {
	mu   sync.RWMutex
	root *trieNode
	size int
}

// NewTitleIndex creates an empty index.
func NewTitleIndex() *TitleIndex {
	return &TitleIndex{root: newTrieNode()}
}

// Insert indexes title under id. Titles without words are ignored.
func (t *TitleIndex) Insert(id int, title string) {
	words := splitWords(title)
	if len(words) == 0 {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	for _, w := range words {
		node := t.root
		for _, ch := range w {
			next := node.children[ch]
			if next == nil {
				next = newTrieNode()
				node.children[ch] = next
			}
			node = next
		}
		if node.ids == nil {
			node.ids = make(map[int]struct{})
		}
		node.ids[id] = struct{}{}
	}
	t.size++
}

// Search returns the ids matching every word of query, ascending, at most
// limit of them. A non-positive limit returns all matches.
func (t *TitleIndex) Search(query string, limit int) []int {
	words := splitWords(query)
	if len(words) == 0 {
		return nil
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	var matched map[int]struct{}
	for _, w := range words {
		found := t.prefixIDs(w)
		if matched == nil {
			matched = found
		} else {
			for id := range matched {
				if _, ok := found[id]; !ok {
					delete(matched, id)
				}
			}
		}
		if len(matched) == 0 {
			return nil
		}
	}

	ids := make([]int, 0, len(matched))
	for id := range matched {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	return ids
}

// Size returns the number of indexed titles.
func (t *TitleIndex) Size() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.size
}

// prefixIDs collects the ids of every word starting with prefix.
// Must be called with the read lock held.
func (t *TitleIndex) prefixIDs(prefix string) map[int]struct{} {
	node := t.root
	for _, ch := range prefix {
		node = node.children[ch]
		if node == nil {
			return map[int]struct{}{}
		}
	}

	out := make(map[int]struct{})
	collectIDs(node, out)
	return out
}

// collectIDs recursively collects the ids below node.
func collectIDs(node *trieNode, out map[int]struct{}) {
	for id := range node.ids {
		out[id] = struct{}{}
	}
	for _, child := range node.children {
		collectIDs(child, out)
	}
}

// splitWords lower-cases s and splits it on anything that is not a letter or
// digit.
func splitWords(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
