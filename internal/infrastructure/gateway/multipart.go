package gateway

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"

	"github.com/mordensafety/admin-console/internal/core/ports"
)

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// encodeMultipart renders the form into memory so the body length, and with
// it upload progress, is known up front.
func encodeMultipart(form *ports.MultipartForm) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, f := range form.Fields {
		if err := w.WriteField(f.Name, f.Value); err != nil {
			return nil, "", fmt.Errorf("write field %q: %w", f.Name, err)
		}
	}
	for _, f := range form.Files {
		part, err := createFilePart(w, f)
		if err != nil {
			return nil, "", fmt.Errorf("create file part %q: %w", f.Field, err)
		}
		if f.Content != nil {
			if _, err := io.Copy(part, f.Content); err != nil {
				return nil, "", fmt.Errorf("copy file %q: %w", f.Filename, err)
			}
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart: %w", err)
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

func createFilePart(w *multipart.Writer, f ports.FormFile) (io.Writer, error) {
	if f.ContentType == "" {
		return w.CreateFormFile(f.Field, f.Filename)
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(f.Field), quoteEscaper.Replace(f.Filename)))
	h.Set("Content-Type", f.ContentType)
	return w.CreatePart(h)
}

// progressReader reports integer percent of the body consumed by the
// transport, once per change.
type progressReader struct {
	r     io.Reader
	total int64
	read  int64
	last  int
	fn    func(int)
}

func newProgressReader(payload []byte, fn func(int)) *progressReader {
	return &progressReader{r: bytes.NewReader(payload), total: int64(len(payload)), last: -1, fn: fn}
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	p.read += int64(n)
	if p.total > 0 {
		pct := int(p.read * 100 / p.total)
		if pct != p.last {
			p.last = pct
			p.fn(pct)
		}
	}
	return n, err
}
