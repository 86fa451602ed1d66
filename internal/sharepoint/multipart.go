package sharepoint

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/netanyamuni/incident-backend/internal/incident/domain"
)

// MultipartRequest is an assembled multipart/form-data body ready for
// submission.
type MultipartRequest struct {
	Boundary    string
	ContentType string
	Body        []byte
}

// GenerateWebKitBoundary returns a browser-identical multipart boundary:
// "----WebKitFormBoundary" followed by 16 lowercase hex characters from
// a cryptographically random source. A fresh boundary is drawn per call.
func GenerateWebKitBoundary() string {
	b := make([]byte, 8)
	rand.Read(b)
	return "----WebKitFormBoundary" + hex.EncodeToString(b)
}

// BuildMultipartRequest serializes the payload as a single-line UTF-8
// JSON part named "json", optionally followed by a binary file part.
//
// The endpoint inspects the raw stream, so byte order and CRLF
// sequencing are part of the contract. mime/multipart is deliberately
// not used here: it emits its own boundary format and header layout.
func BuildMultipartRequest(payload *domain.MunicipalityPayload, file *domain.DecodedFile) (*MultipartRequest, error) {
	boundary := GenerateWebKitBoundary()

	jsonData, err := encodePayload(payload)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}

	var body bytes.Buffer
	body.WriteString("--" + boundary + "\r\n")
	body.WriteString(`Content-Disposition: form-data; name="json"` + "\r\n")
	body.WriteString("\r\n")
	body.Write(jsonData)
	body.WriteString("\r\n")

	if file != nil {
		body.WriteString("--" + boundary + "\r\n")
		body.WriteString(fmt.Sprintf(
			`Content-Disposition: form-data; name=%q; filename=%q`,
			file.FieldName, file.Filename) + "\r\n")
		body.WriteString("Content-Type: " + file.ContentType + "\r\n")
		body.WriteString("\r\n")
		body.Write(file.Data)
		body.WriteString("\r\n")
	}

	body.WriteString("--" + boundary + "--\r\n")

	return &MultipartRequest{
		Boundary:    boundary,
		ContentType: "multipart/form-data; boundary=" + boundary,
		Body:        body.Bytes(),
	}, nil
}

// encodePayload marshals the payload as single-line JSON with Hebrew
// text preserved unescaped.
func encodePayload(payload *domain.MunicipalityPayload) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(payload); err != nil {
		return nil, err
	}
	// Encode appends a trailing newline that must not reach the body.
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
