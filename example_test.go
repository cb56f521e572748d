package magic_test

import (
	"fmt"
	"strings"
	"testing/fstest"

	"github.com/gobeaver/magic"
)

func ExampleNew() {
	m, err := magic.New()
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	ct, _ := m.ContentTypeOfBytes([]byte("GIF89a\x40\x01\xf0\x00"))
	fmt.Println(ct.Message)
	fmt.Println(ct.MIMEType)

	// Nothing matches plain words
	ct, _ = m.ContentTypeOfBytes([]byte("hello"))
	fmt.Println(ct == nil)
	// Output:
	// GIF image data, version 89a, 320 x 240
	// image/gif
	// true
}

func ExampleNewFromReader() {
	rules := strings.Join([]string{
		"# my formats",
		"0\tstring\tMYFMT\tMy format",
		"!:mime\tapplication/x-myfmt",
		">5\tbyte\tx\t\\b, revision %d",
	}, "\n")

	m, err := magic.NewFromReader(strings.NewReader(rules))
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	ct, _ := m.ContentTypeOfBytes([]byte("MYFMT\x03"))
	fmt.Println(ct.Message)
	fmt.Println(ct.Name())
	// Output:
	// My format, revision 3
	// myfmt
}

func ExampleNewFromFS() {
	fsys := fstest.MapFS{
		"magic.d/archives.magic": {Data: []byte("0\tstring\tPK\\003\\004\tZip archive data\n")},
		"magic.d/images.magic":   {Data: []byte("0\tbeshort\t0xffd8\tJPEG image data\n")},
		"magic.d/README":         {Data: []byte("not a rule file\n")},
	}

	m, err := magic.NewFromFS(fsys, "magic.d", magic.WithPattern("*.magic"))
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	ct, _ := m.ContentTypeOfBytes([]byte{0xff, 0xd8, 0xff, 0xe0})
	fmt.Println(m.Len(), ct)
	// Output:
	// 2 JPEG image data
}
