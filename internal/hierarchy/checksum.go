package hierarchy

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"

	"github.com/codenest/codenest/internal/domain"
)

// Digest returns the hex-encoded content digest stored in file metadata.
// MD5 here is an integrity check against corruption, not an authenticity
// mechanism.
func Digest(content []byte) string {
	sum := md5.Sum(content)

	return hex.EncodeToString(sum[:])
}

// VerifyChecksum compares content against the checksum recorded for a file.
// A mismatch is reported as ErrIntegrity and never silently corrected.
func VerifyChecksum(file *domain.File, content []byte) error {
	actual := Digest(content)

	if actual != file.Checksum {
		return fmt.Errorf("%w: file %s expected %s got %s", domain.ErrIntegrity, file.ID, file.Checksum, actual)
	}

	return nil
}

// CountLines reports the number of newline-separated segments in text
// content, which is what the editor displays as the line count.
func CountLines(content []byte) int64 {
	var count int64 = 1

	for _, b := range content {
		if b == '\n' {
			count++
		}
	}

	return count
}
