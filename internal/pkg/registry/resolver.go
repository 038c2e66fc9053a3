// Package registry implements read-only traversal of a DN42-style flat-file
// registry: ASN -> tech-c (person) -> email, and ASN -> mnt-by (maintainer)
// -> pgp-fingerprint. Every lookup is a pure function over the filesystem;
// nothing is cached, so registry edits are visible on the very next call
// (spec.md §4.1, §9 design note).
package registry

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/HappyLadySauce/errors"

	"github.com/dn42/autopeerd/internal/pkg/code"
)

// AutNumPath returns the path of the per-ASN aut-num object file, failing
// with a distinguishable reason if the registry root, the aut-num
// subdirectory, or the per-ASN file is missing.
func AutNumPath(root string, asn int64) (string, error) {
	st, err := os.Stat(root)
	if err != nil || !st.IsDir() {
		return "", errors.WithCode(code.ErrRegistryLookupFailed, "registry %s is not a directory", root)
	}

	autNumDir := filepath.Join(root, "data", "aut-num")
	st, err = os.Stat(autNumDir)
	if err != nil || !st.IsDir() {
		return "", errors.WithCode(code.ErrRegistryLookupFailed, "aut-num directory %s does not exist", autNumDir)
	}

	asnFile := filepath.Join(autNumDir, fmt.Sprintf("AS%d", asn))
	if st, err := os.Stat(asnFile); err != nil || st.IsDir() {
		return "", errors.WithCode(code.ErrRegistryLookupFailed, "ASN file %s does not exist", asnFile)
	}

	return asnFile, nil
}

// Email resolves the tech-c contact of asn's aut-num object to its e-mail
// attribute.
func Email(root string, asn int64) (string, error) {
	asnFile, err := AutNumPath(root, asn)
	if err != nil {
		return "", err
	}

	techc, err := firstFieldValue(asnFile, "tech-c:")
	if err != nil {
		return "", errors.WithCode(code.ErrRegistryLookupFailed, "tech-c not found in %s", asnFile)
	}

	personFile := filepath.Join(root, "data", "person", techc)
	if st, err := os.Stat(personFile); err != nil || st.IsDir() {
		return "", errors.WithCode(code.ErrRegistryLookupFailed, "person file %s does not exist", personFile)
	}

	email, err := firstFieldValue(personFile, "e-mail:")
	if err != nil {
		return "", errors.WithCode(code.ErrRegistryLookupFailed, "email not found in %s", personFile)
	}

	return email, nil
}

// Mntner resolves the mnt-by reference of asn's aut-num object to its
// maintainer handle.
func Mntner(root string, asn int64) (string, error) {
	asnFile, err := AutNumPath(root, asn)
	if err != nil {
		return "", err
	}

	mntby, err := firstFieldValue(asnFile, "mnt-by:")
	if err != nil {
		return "", errors.WithCode(code.ErrRegistryLookupFailed, "mnt-by not found in %s", asnFile)
	}

	return mntby, nil
}

// PGPFingerprint resolves asn's maintainer object to the pgp-fingerprint
// value of its first matching auth: line.
func PGPFingerprint(root string, asn int64) (string, error) {
	mntby, err := Mntner(root, asn)
	if err != nil {
		return "", err
	}

	mntnerFile := filepath.Join(root, "data", "mntner", mntby)
	if st, err := os.Stat(mntnerFile); err != nil || st.IsDir() {
		return "", errors.WithCode(code.ErrRegistryLookupFailed, "mntner file %s does not exist", mntnerFile)
	}

	f, err := os.Open(mntnerFile)
	if err != nil {
		return "", errors.WithCode(code.ErrRegistryLookupFailed, "cannot open mntner file %s", mntnerFile)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) >= 3 && fields[0] == "auth:" && fields[1] == "pgp-fingerprint" {
			return fields[2], nil
		}
	}

	return "", errors.WithCode(code.ErrRegistryLookupFailed, "pgp-fingerprint auth line not found in %s", mntnerFile)
}

// firstFieldValue scans path line by line and returns the first
// whitespace-split token following the first line whose leading token
// equals key.
func firstFieldValue(path, key string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errors.WithCode(code.ErrRegistryLookupFailed, "cannot open %s", path)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) >= 2 && fields[0] == key {
			return fields[1], nil
		}
	}

	return "", errors.WithCode(code.ErrRegistryLookupFailed, "key %s not found in %s", key, path)
}
