package tags

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bogem/id3v2/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	jpegData = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F'}
	pngData  = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}
)

// createTestMP3 writes a minimal MP3 frame and tags it with the given title
// and pictures.
func createTestMP3(t *testing.T, dir, title string, pics ...id3v2.PictureFrame) string {
	t.Helper()
	path := filepath.Join(dir, "test.mp3")

	// Minimal MP3 frame (MPEG1 Layer3, 128kbps, 44100Hz, stereo)
	mp3Frame := make([]byte, 417)
	mp3Frame[0] = 0xff
	mp3Frame[1] = 0xfb
	mp3Frame[2] = 0x90
	require.NoError(t, os.WriteFile(path, mp3Frame, 0o600))

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	require.NoError(t, err)
	defer tag.Close()

	tag.SetVersion(4)
	tag.SetDefaultEncoding(id3v2.EncodingUTF8)
	if title != "" {
		tag.SetTitle(title)
		tag.SetArtist("Test Artist")
		tag.SetAlbum("Test Album")
		tag.SetGenre("Rock")
	}
	for _, p := range pics {
		tag.AddAttachedPicture(p)
	}
	require.NoError(t, tag.Save())
	return path
}

func picture(kind byte, mime string, data []byte) id3v2.PictureFrame {
	return id3v2.PictureFrame{
		Encoding:    id3v2.EncodingUTF8,
		MimeType:    mime,
		PictureType: kind,
		Description: mime,
		Picture:     data,
	}
}

func TestReadPictures_MP3(t *testing.T) {
	dir := t.TempDir()
	path := createTestMP3(t, dir, "Test",
		picture(id3v2.PTOther, "image/png", pngData),
		picture(id3v2.PTFrontCover, "image/jpeg", jpegData),
	)

	pics, err := ReadPictures(path)
	require.NoError(t, err)
	require.Len(t, pics, 2)

	kinds := map[PictureKind]string{}
	for _, p := range pics {
		kinds[p.Kind] = p.MIMEType
	}
	assert.Equal(t, "image/jpeg", kinds[PictureFrontCover])
	assert.Equal(t, "image/png", kinds[PictureImage])
}

func TestReadPictures_MP3WithoutPictures(t *testing.T) {
	path := createTestMP3(t, t.TempDir(), "Test")

	pics, err := ReadPictures(path)

	require.NoError(t, err)
	assert.Empty(t, pics)
}

func TestReadPictures_MissingFile(t *testing.T) {
	_, err := ReadPictures(filepath.Join(t.TempDir(), "missing.mp3"))
	assert.Error(t, err)
}

func TestSelectCoverArt(t *testing.T) {
	front := Picture{MIMEType: "image/jpeg", Data: jpegData, Kind: PictureFrontCover}
	other := Picture{MIMEType: "image/png", Data: pngData, Kind: PictureImage}
	other2 := Picture{MIMEType: "image/gif", Data: []byte("GIF89a"), Kind: PictureImage}
	icon := Picture{MIMEType: "image/png", Data: pngData, Kind: PicturePreview}

	tests := []struct {
		name string
		pics []Picture
		want *Picture
	}{
		{"front cover wins over earlier image", []Picture{other, front}, &front},
		{"front cover wins over preview", []Picture{icon, front}, &front},
		{"last image without front cover", []Picture{other, other2}, &other2},
		{"image wins over preview", []Picture{icon, other}, &other},
		{"preview as last resort", []Picture{icon}, &icon},
		{"nothing", nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SelectCoverArt(tt.pics)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func TestDataURI(t *testing.T) {
	p := &Picture{MIMEType: "image/jpeg", Data: []byte("abc")}

	assert.Equal(t, "data:image/jpeg;base64,YWJj", DataURI(p))
}

func TestDataURI_SniffsMIME(t *testing.T) {
	p := &Picture{Data: pngData}

	got := DataURI(p)

	assert.True(t, strings.HasPrefix(got, "data:image/png;base64,"), "got %q", got)
}

func TestDataURI_Empty(t *testing.T) {
	assert.Empty(t, DataURI(nil))
	assert.Empty(t, DataURI(&Picture{MIMEType: "image/png"}))
}
