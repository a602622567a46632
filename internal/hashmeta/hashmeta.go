// Package hashmeta computes sample digests and renders them as YARA meta
// lines ready to paste into a rule's meta section.
package hashmeta

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

const indent = "        "

// Sums holds the hex digests of one sample.
type Sums struct {
	MD5    string
	SHA1   string
	SHA256 string
	Size   int64
}

// Compute reads r once and feeds every hash from the same stream.
func Compute(r io.Reader) (Sums, error) {
	m, s1, s256 := md5.New(), sha1.New(), sha256.New()
	n, err := io.Copy(io.MultiWriter(m, s1, s256), r)
	if err != nil {
		return Sums{}, fmt.Errorf("hashing: %w", err)
	}
	return Sums{
		MD5:    hex.EncodeToString(m.Sum(nil)),
		SHA1:   hex.EncodeToString(s1.Sum(nil)),
		SHA256: hex.EncodeToString(s256.Sum(nil)),
		Size:   n,
	}, nil
}

// ComputeFile hashes the file at path.
func ComputeFile(path string) (Sums, error) {
	f, err := os.Open(path)
	if err != nil {
		return Sums{}, err
	}
	defer func() { _ = f.Close() }()
	return Compute(f)
}

// WriteMeta writes the three hash_* meta lines, keys padded to 16 columns.
func (s Sums) WriteMeta(w io.Writer) error {
	for _, kv := range [][2]string{
		{"hash_md5", s.MD5},
		{"hash_sha1", s.SHA1},
		{"hash_sha256", s.SHA256},
	} {
		if _, err := fmt.Fprintf(w, "%s%-16s= \"%s\"\n", indent, kv[0], kv[1]); err != nil {
			return err
		}
	}
	return nil
}
