package fzf

import (
	"errors"
	"fmt"

	"github.com/ktr0731/go-fuzzyfinder"

	"github.com/Paintersrp/numdex/internal/cache"
	"github.com/Paintersrp/numdex/internal/numbered"
	"github.com/Paintersrp/numdex/internal/vault"
	"github.com/Paintersrp/numdex/utils"
)

// ErrNoSelection is returned when the picker is closed without a choice.
var ErrNoSelection = errors.New("no folder selected")

const previewCacheSize = 32

// Candidate is one numbered folder offered by the picker.
type Candidate struct {
	Folder string
	// Note is the folder note path, or "" if the folder has none.
	Note string
}

type previewKey struct {
	note  string
	width int
}

// FuzzyFinder picks a numbered folder from the vault.
type FuzzyFinder struct {
	store      vault.Store
	Header     string
	candidates []Candidate
	previews   *cache.LRU[previewKey, string]
	find       func([]Candidate, func(int) string, ...fuzzyfinder.Option) (int, error)
}

func NewFuzzyFinder(store vault.Store, header string) *FuzzyFinder {
	return &FuzzyFinder{
		store:    store,
		Header:   header,
		previews: cache.NewLRU[previewKey, string](previewCacheSize),
		find: func(c []Candidate, label func(int) string, opts ...fuzzyfinder.Option) (int, error) {
			return fuzzyfinder.Find(c, label, opts...)
		},
	}
}

// Candidates lists the vault's numbered folders in the order they are
// collected, with their folder notes resolved.
func (f *FuzzyFinder) Candidates() ([]Candidate, error) {
	root, err := f.store.Root()
	if err != nil {
		return nil, fmt.Errorf("error listing folders: %w", err)
	}

	folders := numbered.Collect(root)
	candidates := make([]Candidate, 0, len(folders))
	for _, folder := range folders {
		note, err := numbered.ResolveFolderNote(f.store, folder)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, Candidate{Folder: folder, Note: note})
	}

	return candidates, nil
}

// Run opens the picker, optionally prefilled with query.
func (f *FuzzyFinder) Run(query string) (Candidate, error) {
	candidates, err := f.Candidates()
	if err != nil {
		return Candidate{}, err
	}
	if len(candidates) == 0 {
		return Candidate{}, fmt.Errorf("no numbered folders found in the vault")
	}
	f.candidates = candidates

	options := []fuzzyfinder.Option{
		fuzzyfinder.WithPreviewWindow(f.renderMarkdownPreview),
	}
	if query != "" {
		options = append(options, fuzzyfinder.WithQuery(query))
	}
	if f.Header != "" {
		options = append(options, fuzzyfinder.WithHeader(f.Header))
	}

	idx, err := f.find(candidates, f.label, options...)
	if errors.Is(err, fuzzyfinder.ErrAbort) {
		return Candidate{}, ErrNoSelection
	}
	if err != nil {
		return Candidate{}, fmt.Errorf("error selecting folder: %w", err)
	}
	if idx < 0 || idx >= len(candidates) {
		return Candidate{}, ErrNoSelection
	}

	return candidates[idx], nil
}

func (f *FuzzyFinder) label(i int) string {
	c := f.candidates[i]
	if c.Note == "" {
		return c.Folder
	}
	return c.Folder + " [note]"
}

func (f *FuzzyFinder) renderMarkdownPreview(i, w, h int) string {
	if i < 0 || i >= len(f.candidates) {
		return ""
	}

	c := f.candidates[i]
	if c.Note == "" {
		return fmt.Sprintf("%s\n\nNo folder note.", c.Folder)
	}

	key := previewKey{note: c.Note, width: w}
	if rendered, ok := f.previews.Get(key); ok {
		return rendered
	}

	content, err := f.store.ReadFile(c.Note)
	if err != nil {
		return "Error reading file"
	}

	markdown, err := utils.RenderMarkdown(string(content), w)
	if err != nil {
		return "Error rendering markdown"
	}

	f.previews.Put(key, markdown)
	return markdown
}
