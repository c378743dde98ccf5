package block

import (
	"context"
	"errors"
	"fmt"
	"path"
	"regexp"
	"sync"

	"github.com/jonwraymond/blocklibrary/source"
)

// ErrInvalidName reports a block name outside the allowed grammar.
var ErrInvalidName = errors.New("block: invalid name")

// namePattern is the block-name grammar: lowercase alphanumerics and
// hyphens, starting with a letter.
var namePattern = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)

// readmeVariants are the README filenames probed for, in preference
// order.
var readmeVariants = []string{"README.md", "readme.md"}

// ValidateName checks name against the block-name grammar.
func ValidateName(name string) error {
	if !namePattern.MatchString(name) {
		return fmt.Errorf("%w: %q (want lowercase letters, digits, and hyphens, starting with a letter)", ErrInvalidName, name)
	}
	return nil
}

// Block is a fully loaded block: its source files plus presence flags
// for each.
type Block struct {
	Name      string `json:"name"`
	JS        string `json:"js,omitempty"`
	CSS       string `json:"css,omitempty"`
	Readme    string `json:"readme,omitempty"`
	HasJS     bool   `json:"hasJS"`
	HasCSS    bool   `json:"hasCSS"`
	HasReadme bool   `json:"hasReadme"`
}

// Exists reports whether any of the block's files were found.
func (b Block) Exists() bool {
	return b.HasJS || b.HasCSS || b.HasReadme
}

// Listing is one entry in a block inventory.
type Listing struct {
	Name   string `json:"name"`
	HasJS  bool   `json:"hasJS"`
	HasCSS bool   `json:"hasCSS"`
}

// Load reads the named block's script, stylesheet, and README from
// src. The three reads are issued concurrently; a missing file clears
// its presence flag rather than failing the load.
func Load(ctx context.Context, src source.Source, name string) (Block, error) {
	if err := ValidateName(name); err != nil {
		return Block{}, err
	}

	b := Block{Name: name}
	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		b.JS, b.HasJS = src.FileContent(ctx, scriptPath(name))
	}()
	go func() {
		defer wg.Done()
		b.CSS, b.HasCSS = src.FileContent(ctx, stylePath(name))
	}()
	go func() {
		defer wg.Done()
		b.Readme, b.HasReadme = Readme(ctx, src, name)
	}()
	wg.Wait()
	return b, nil
}

// Readme reads the block's README, probing each accepted filename
// concurrently. The earliest variant in preference order wins.
func Readme(ctx context.Context, src source.Source, name string) (string, bool) {
	contents := make([]string, len(readmeVariants))
	found := make([]bool, len(readmeVariants))
	var wg sync.WaitGroup
	for i, file := range readmeVariants {
		wg.Add(1)
		go func() {
			defer wg.Done()
			contents[i], found[i] = src.FileContent(ctx, path.Join(name, file))
		}()
	}
	wg.Wait()
	for i := range readmeVariants {
		if found[i] {
			return contents[i], true
		}
	}
	return "", false
}

// List enumerates the blocks in src and reports which standard files
// each one carries. Existence probes fan out, one goroutine per
// block.
func List(ctx context.Context, src source.Source) ([]Listing, error) {
	entries, err := src.ListBlocks(ctx)
	if err != nil {
		return nil, err
	}

	listings := make([]Listing, len(entries))
	var wg sync.WaitGroup
	for i, entry := range entries {
		wg.Add(1)
		go func() {
			defer wg.Done()
			listings[i] = Listing{
				Name:   entry.Name,
				HasJS:  src.FileExists(ctx, scriptPath(entry.Name)),
				HasCSS: src.FileExists(ctx, stylePath(entry.Name)),
			}
		}()
	}
	wg.Wait()
	return listings, nil
}

func scriptPath(name string) string { return path.Join(name, name+".js") }
func stylePath(name string) string  { return path.Join(name, name+".css") }
