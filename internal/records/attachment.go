package records

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// EncodeAttachment converts an uploaded file into the embeddable blob shape.
// The payload is a data URL, matching what browser clients historically
// wrote into the files column, so rows written by either side decode the
// same way. The whole file is held in memory; there is no streaming path.
func EncodeAttachment(file BinaryFile) FileBlob {
	return FileBlob{
		Name: file.Name,
		Type: file.MIMEType,
		Size: int64(len(file.Data)),
		Data: "data:" + file.MIMEType + ";base64," + base64.StdEncoding.EncodeToString(file.Data),
	}
}

// DecodeAttachment recovers the original bytes from an embedded blob.
// Payloads with a data-URL prefix are decoded from the part after the first
// comma; bare base64 payloads are accepted as-is. The round trip is
// lossless for arbitrary binary content.
func DecodeAttachment(blob FileBlob) (*BinaryFile, error) {
	payload := blob.Data
	if idx := strings.IndexByte(payload, ','); idx >= 0 && strings.HasPrefix(payload, "data:") {
		payload = payload[idx+1:]
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("records: decode attachment %q: %w", blob.Name, err)
	}
	return &BinaryFile{Name: blob.Name, MIMEType: blob.Type, Data: data}, nil
}
