// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package sources

import (
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/spf13/afero"
	"golang.org/x/crypto/blake2b"
)

var (
	// source files have names that match the pattern IDENT.hdl
	rxSourceFile = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*\.hdl$`)
)

// File is a source file found by Collect.
type File struct {
	Name string // base name, e.g. adder.hdl
	Path string // path to the file, including root
	Size int64
}

// IsSourceFile reports whether name looks like a source file.
func IsSourceFile(name string) bool {
	return rxSourceFile.MatchString(name)
}

// Collect walks root and returns every source file under it, sorted by path.
// If root is itself a source file, it is the only result.
func Collect(fs afero.Fs, root string, debug bool) ([]*File, error) {
	var files []*File
	err := afero.Walk(fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if !IsSourceFile(info.Name()) {
			if debug {
				log.Printf("sources: %q: does not match IDENT.hdl\n", path)
			}
			return nil
		}
		files = append(files, &File{
			Name: info.Name(),
			Path: path,
			Size: info.Size(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("collect %s: %w", root, err)
	}
	sort.Slice(files, func(i, j int) bool {
		return filepath.ToSlash(files[i].Path) < filepath.ToSlash(files[j].Path)
	})
	return files, nil
}

// Digest returns the hex BLAKE2b-256 digest of data.
func Digest(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}
