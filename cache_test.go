package magic

import (
	"bytes"
	"compress/gzip"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gzipText(t *testing.T, text string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(text))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestNew_BuiltIn(t *testing.T) {
	m, err := New()
	require.NoError(t, err)
	assert.Greater(t, m.Len(), 10)

	tests := []struct {
		name string
		data []byte
		msg  string
		mime string
	}{
		{
			name: "zip",
			data: []byte{'P', 'K', 0x03, 0x04, 0x14, 0x00},
			msg:  "Zip archive data, at least v20 to extract",
			mime: "application/zip",
		},
		{
			name: "png",
			data: []byte{
				0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n',
				0, 0, 0, 13, 'I', 'H', 'D', 'R',
				0, 0, 0, 16, 0, 0, 0, 32, 8,
			},
			msg:  "PNG image data, 16 x 32, 8-bit",
			mime: "image/png",
		},
		{
			name: "pdf",
			data: []byte("%PDF-1.7\n"),
			msg:  "PDF document, version 1.7",
			mime: "application/pdf",
		},
		{
			name: "gzip",
			data: []byte{0x1f, 0x8b, 0x08, 0x00},
			msg:  "gzip compressed data, deflated",
			mime: "application/gzip",
		},
		{
			name: "sqlite",
			data: []byte("SQLite format 3\x00"),
			msg:  "SQLite 3.x database",
			mime: "application/vnd.sqlite3",
		},
		{
			name: "html",
			data: []byte("<!DOCTYPE html><html></html>"),
			msg:  "HTML document text",
			mime: "text/html",
		},
		{
			name: "shell",
			data: []byte("#!/bin/sh\necho hi\n"),
			msg:  "POSIX shell script text executable",
			mime: "text/x-shellscript",
		},
		{
			name: "wave",
			data: []byte("RIFF\x24\x00\x00\x00WAVEfmt "),
			msg:  "RIFF (little-endian) data, WAVE audio",
			mime: "audio/x-wav",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ct, err := m.ContentTypeOfBytes(tt.data)
			require.NoError(t, err)
			require.NotNil(t, ct)
			assert.Equal(t, tt.msg, ct.Message)
			assert.Equal(t, tt.mime, ct.MIMEType)
		})
	}

	ct, err := m.ContentTypeOfBytes([]byte("just some words"))
	require.NoError(t, err)
	assert.Nil(t, ct)
}

func TestNew_ELF(t *testing.T) {
	m, err := New()
	require.NoError(t, err)

	data := make([]byte, 64)
	copy(data, "\x7fELF")
	data[4], data[5], data[16] = 2, 1, 3

	ct, err := m.ContentTypeOfBytes(data)
	require.NoError(t, err)
	require.NotNil(t, ct)
	assert.Equal(t, "ELF 64-bit LSB shared object", ct.Message)
	assert.True(t, ct.IsExecutable())
}

func TestNew_SharedAcrossInstances(t *testing.T) {
	a, err := New()
	require.NoError(t, err)
	b, err := New(WithReadSize(10))
	require.NoError(t, err)

	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	assert.Equal(t, a.Len(), b.Len())
	require.NotEmpty(t, a.roots)
	assert.Same(t, a.roots[0], b.roots[0])
	assert.NotEqual(t, a.FileReadSize(), b.FileReadSize(), "read size is per instance")

	data := []byte("GIF89a\x10\x00\x20\x00")
	ctA, err := a.ContentTypeOfBytes(data)
	require.NoError(t, err)
	ctB, err := b.ContentTypeOfBytes(data)
	require.NoError(t, err)
	assert.Equal(t, ctA, ctB)
}

func TestNew_MatchesUncompressedDatabase(t *testing.T) {
	builtIn, err := New()
	require.NoError(t, err)

	plain, err := NewFromPath("database/magic")
	require.NoError(t, err)

	assert.Equal(t, builtIn.Fingerprint(), plain.Fingerprint())
	assert.Equal(t, builtIn.Len(), plain.Len())
}

func TestBuiltinCache_ParsesOnceUnderConcurrency(t *testing.T) {
	text := "0\tstring\tGIF8\tGIF image data\n0\tstring\tPK\\x03\\x04\tZip archive data\n"
	c := newBuiltinCache(fstest.MapFS{"db.gz": {Data: gzipText(t, text)}}, "db.gz")

	const workers = 32
	results := make([]*builtinDB, workers)
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			db, err := c.get(zerolog.Nop())
			assert.NoError(t, err)
			results[i] = db
		}(i)
	}
	close(start)
	wg.Wait()

	assert.EqualValues(t, 1, c.parses.Load())
	for _, db := range results {
		require.NotNil(t, db)
		assert.Same(t, results[0], db)
		assert.Len(t, db.roots, 2)
	}
}

func TestBuiltinCache_Missing(t *testing.T) {
	c := newBuiltinCache(fstest.MapFS{}, "magic.gz")

	_, err := c.get(zerolog.Nop())
	assert.ErrorIs(t, err, ErrMissingBuiltInDatabase)

	// failures are not memoized
	_, err = c.get(zerolog.Nop())
	assert.ErrorIs(t, err, ErrMissingBuiltInDatabase)
	assert.EqualValues(t, 2, c.parses.Load())
	assert.Nil(t, c.value.Load())
}

func TestBuiltinCache_Corrupt(t *testing.T) {
	c := newBuiltinCache(fstest.MapFS{"magic.gz": {Data: []byte("not gzip")}}, "magic.gz")

	_, err := c.get(zerolog.Nop())
	assert.True(t, IsIO(err))
	assert.Nil(t, c.value.Load())
}
