package skills

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"sort"
)

var hashFieldDelimiter = []byte{0}

// FileOpener opens a file for reading.
type FileOpener func(path string) (io.ReadCloser, error)

// SkillDigest is the content summary of a skill directory.
type SkillDigest struct {
	Digest    string
	FileCount int
}

// ContentHasher computes deterministic digests of skill directories.
type ContentHasher struct {
	openFile FileOpener
}

// NewContentHasher constructs a hasher that reads from the local filesystem.
func NewContentHasher() *ContentHasher {
	return NewContentHasherWithOpener(nil)
}

// NewContentHasherWithOpener constructs a hasher that reads files through the provided opener.
func NewContentHasherWithOpener(openFile FileOpener) *ContentHasher {
	if openFile == nil {
		openFile = func(path string) (io.ReadCloser, error) {
			return os.Open(path)
		}
	}
	return &ContentHasher{openFile: openFile}
}

// Hash digests every file under skillPath. Files are visited in lexicographic
// order of their slash-separated relative paths, and each contributes its
// relative path, a NUL byte, its contents, and another NUL byte.
// Any read failure aborts with a HashError.
func (hasher *ContentHasher) Hash(skillPath string) (SkillDigest, error) {
	absoluteFiles := EnumerateFiles(skillPath)

	relativeFiles := make([]string, 0, len(absoluteFiles))
	absoluteByRelative := make(map[string]string, len(absoluteFiles))
	for _, absoluteFile := range absoluteFiles {
		relativePath, relativeError := filepath.Rel(skillPath, absoluteFile)
		if relativeError != nil {
			return SkillDigest{}, HashError{SkillPath: skillPath, FilePath: absoluteFile, Err: relativeError}
		}
		normalizedRelativePath := filepath.ToSlash(relativePath)
		relativeFiles = append(relativeFiles, normalizedRelativePath)
		absoluteByRelative[normalizedRelativePath] = absoluteFile
	}
	sort.Strings(relativeFiles)

	digest := sha256.New()
	for _, relativePath := range relativeFiles {
		absoluteFile := absoluteByRelative[relativePath]
		if copyError := hasher.writeFile(digest, relativePath, absoluteFile); copyError != nil {
			return SkillDigest{}, HashError{SkillPath: skillPath, FilePath: absoluteFile, Err: copyError}
		}
	}

	return SkillDigest{Digest: hex.EncodeToString(digest.Sum(nil)), FileCount: len(relativeFiles)}, nil
}

func (hasher *ContentHasher) writeFile(destination io.Writer, relativePath string, absoluteFile string) error {
	fileReader, openError := hasher.openFile(absoluteFile)
	if openError != nil {
		return openError
	}
	defer fileReader.Close()

	_, _ = io.WriteString(destination, relativePath)
	_, _ = destination.Write(hashFieldDelimiter)
	if _, copyError := io.Copy(destination, fileReader); copyError != nil {
		return copyError
	}
	_, _ = destination.Write(hashFieldDelimiter)
	return nil
}
