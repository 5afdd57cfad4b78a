package tags

import (
	"encoding/base64"
	"net/http"
	"os"

	"github.com/bogem/id3v2/v2"
	"github.com/dhowden/tag"
	"github.com/go-flac/flacpicture"
	goflac "github.com/go-flac/go-flac"
)

// PictureKind classifies an embedded picture.
type PictureKind int

const (
	PictureImage      PictureKind = iota // any image that is not an icon
	PictureFrontCover                    // an image flagged as the front cover
	PicturePreview                       // a file icon / preview image
)

// Picture is an embedded image found in a media file.
type Picture struct {
	MIMEType string
	Data     []byte
	Kind     PictureKind
}

// ReadPictures returns all embedded pictures of a media file in file order.
// Files without pictures return an empty slice and no error.
func ReadPictures(path string) ([]Picture, error) {
	switch ext(path) {
	case ExtMP3:
		return readMP3Pictures(path)
	case ExtFLAC:
		return readFLACPictures(path)
	}
	return readGenericPictures(path)
}

func readMP3Pictures(path string) ([]Picture, error) {
	id3tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return nil, err
	}
	defer id3tag.Close()

	var pics []Picture
	for _, frame := range id3tag.GetFrames(id3tag.CommonID("Attached picture")) {
		pf, ok := frame.(id3v2.PictureFrame)
		if !ok || len(pf.Picture) == 0 {
			continue
		}
		kind := PictureImage
		switch pf.PictureType {
		case id3v2.PTFrontCover:
			kind = PictureFrontCover
		case id3v2.PTFileIcon, id3v2.PTOtherFileIcon:
			kind = PicturePreview
		}
		pics = append(pics, Picture{MIMEType: pf.MimeType, Data: pf.Picture, Kind: kind})
	}
	return pics, nil
}

func readFLACPictures(path string) ([]Picture, error) {
	f, err := goflac.ParseFile(path)
	if err != nil {
		return nil, err
	}

	var pics []Picture
	for _, meta := range f.Meta {
		if meta.Type != goflac.Picture {
			continue
		}
		pic, err := flacpicture.ParseFromMetaDataBlock(*meta)
		if err != nil || len(pic.ImageData) == 0 {
			continue
		}
		kind := PictureImage
		switch pic.PictureType {
		case flacpicture.PictureTypeFrontCover:
			kind = PictureFrontCover
		case flacpicture.PictureTypeFileIcon, flacpicture.PictureTypeOtherIcon:
			kind = PicturePreview
		}
		pics = append(pics, Picture{MIMEType: pic.MIME, Data: pic.ImageData, Kind: kind})
	}
	return pics, nil
}

func readGenericPictures(path string) ([]Picture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return nil, nil //nolint:nilerr // untagged file has no pictures
	}
	p := m.Picture()
	if p == nil || len(p.Data) == 0 {
		return nil, nil
	}
	kind := PictureImage
	if p.Type == "Cover (front)" {
		kind = PictureFrontCover
	}
	return []Picture{{MIMEType: p.MIMEType, Data: p.Data, Kind: kind}}, nil
}

// SelectCoverArt picks the album art to publish: the front cover if one of
// the images is flagged as such, otherwise the last image, otherwise the
// last preview image. Returns nil if there is nothing to publish.
func SelectCoverArt(pics []Picture) *Picture {
	var image, preview *Picture
	for i := range pics {
		switch pics[i].Kind {
		case PictureFrontCover:
			return &pics[i]
		case PictureImage:
			image = &pics[i]
		case PicturePreview:
			preview = &pics[i]
		}
	}
	if image != nil {
		return image
	}
	return preview
}

// DataURI encodes a picture as a data URI. The MIME type is sniffed from the
// content when the container did not record one.
func DataURI(p *Picture) string {
	if p == nil || len(p.Data) == 0 {
		return ""
	}
	mime := p.MIMEType
	if mime == "" {
		mime = http.DetectContentType(p.Data)
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(p.Data)
}
