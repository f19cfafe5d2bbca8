package utils

import (
	"bytes"
	"io"
	"os"
	"unicode/utf8"
)

// sniffLength defines the maximum number of bytes read when detecting binary content.
const sniffLength = 8000

// IsBinary reports whether the provided byte slice appears to contain binary data.
// A NUL byte or invalid UTF-8 within the first sniffLength bytes marks data as binary.
func IsBinary(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	sample := data
	if len(sample) > sniffLength {
		sample = trimToRuneBoundary(sample[:sniffLength])
	}
	if bytes.IndexByte(sample, 0) >= 0 {
		return true
	}
	return !utf8.Valid(sample)
}

// IsFileBinary reads up to sniffLength bytes from the file at path and determines
// if the content appears to be binary. Unreadable files are reported as not binary.
func IsFileBinary(path string) bool {
	fileHandle, openError := os.Open(path)
	if openError != nil {
		return false
	}
	defer fileHandle.Close()

	buffer := make([]byte, sniffLength)
	bytesRead, readError := io.ReadFull(fileHandle, buffer)
	if readError != nil && readError != io.EOF && readError != io.ErrUnexpectedEOF {
		return false
	}
	return IsBinary(buffer[:bytesRead])
}

// trimToRuneBoundary drops a trailing partial UTF-8 sequence left by truncation.
func trimToRuneBoundary(data []byte) []byte {
	for trimmed := 0; trimmed < utf8.UTFMax && len(data) > 0; trimmed++ {
		lastRune, _ := utf8.DecodeLastRune(data)
		if lastRune != utf8.RuneError {
			return data
		}
		data = data[:len(data)-1]
	}
	return data
}
