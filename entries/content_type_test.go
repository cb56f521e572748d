package entries

import (
	"testing"
)

func TestContentTypeName(t *testing.T) {
	tests := []struct {
		mime string
		want string
	}{
		{"image/png", "png"},
		{"application/vnd.sqlite3", "sqlite3"},
		{"application/x-executable", "executable"},
		{"image/svg+xml", "svg"},
		{"text/plain; charset=us-ascii", "plain"},
		{"", ""},
	}

	for _, tt := range tests {
		ct := &ContentType{MIMEType: tt.mime}
		if got := ct.Name(); got != tt.want {
			t.Errorf("Name(%q) = %q, want %q", tt.mime, got, tt.want)
		}
	}
}

func TestContentTypeExtension(t *testing.T) {
	tests := []struct {
		mime string
		want string
	}{
		{MIMETypeImagePNG, ".png"},
		{MIMETypeApplicationZip, ".zip"},
		{MIMETypeApplicationGzip, ".gz"},
		{"application/pdf; charset=binary", ".pdf"},
		{"application/x-totally-unknown", ".bin"},
		{"", ""},
	}

	for _, tt := range tests {
		ct := &ContentType{MIMEType: tt.mime}
		if got := ct.Extension(); got != tt.want {
			t.Errorf("Extension(%q) = %q, want %q", tt.mime, got, tt.want)
		}
	}
}

func TestContentTypePredicates(t *testing.T) {
	png := &ContentType{MIMEType: MIMETypeImagePNG}
	if !png.IsImage() || png.IsText() || png.IsArchive() {
		t.Errorf("unexpected predicates for %s", png.MIMEType)
	}

	gz := &ContentType{MIMEType: MIMETypeApplicationGzip}
	if !gz.IsArchive() || gz.IsImage() {
		t.Errorf("unexpected predicates for %s", gz.MIMEType)
	}

	script := &ContentType{MIMEType: "text/x-shellscript"}
	if !script.IsText() {
		t.Error("expected shell script to be text")
	}

	elf := &ContentType{MIMEType: "application/x-executable"}
	if !elf.IsExecutable() {
		t.Error("expected ELF to be executable")
	}

	var none *ContentType
	if none.IsText() || none.IsImage() || none.String() != "" || none.Name() != "" {
		t.Error("nil content type should report nothing")
	}
}

func TestContentTypeString(t *testing.T) {
	ct := &ContentType{Message: "PNG image data", MIMEType: MIMETypeImagePNG}
	if ct.String() != "PNG image data" {
		t.Errorf("String() = %q", ct.String())
	}

	ct = &ContentType{MIMEType: MIMETypeImagePNG}
	if ct.String() != MIMETypeImagePNG {
		t.Errorf("String() = %q", ct.String())
	}
}
