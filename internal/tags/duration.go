package tags

import (
	"fmt"
	"os"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/wav"
)

// OpenStream opens a media file and returns a seekable decoded stream.
// Closing the streamer closes the file. Only formats with a bundled beep
// decoder are supported.
func OpenStream(path string) (beep.StreamSeekCloser, beep.Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, beep.Format{}, err
	}

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	switch ext(path) {
	case ExtMP3:
		streamer, format, err = mp3.Decode(f)
	case ExtFLAC:
		streamer, format, err = flac.Decode(f)
	case ExtWAV:
		streamer, format, err = wav.Decode(f)
	default:
		f.Close()
		return nil, beep.Format{}, fmt.Errorf("unsupported format: %s", ext(path))
	}
	if err != nil {
		f.Close()
		return nil, beep.Format{}, err
	}
	return streamer, format, nil
}

// ReadDuration decodes the stream header of a media file and returns its
// length.
func ReadDuration(path string) (time.Duration, error) {
	streamer, format, err := OpenStream(path)
	if err != nil {
		return 0, err
	}
	defer streamer.Close()

	return format.SampleRate.D(streamer.Len()), nil
}
