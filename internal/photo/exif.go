package photo

import (
	"errors"
	"io"
	"strconv"
	"strings"

	exif "github.com/dsoprea/go-exif/v3"
)

const orientationTagID = 0x0112

// readOrientation returns the IFD0 orientation tag, or OrientationUnknown when
// the stream carries no EXIF block or no orientation entry.
func readOrientation(rs io.ReadSeeker) (Orientation, error) {
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return OrientationUnknown, err
	}

	// The TIFF block sits inside the container (APP1 for JPEG), so locate it
	// before parsing.
	raw, err := exif.SearchAndExtractExifWithReader(rs)
	if err != nil {
		if errorsIsNoExif(err) {
			return OrientationUnknown, nil
		}
		return OrientationUnknown, err
	}

	tags, _, err := exif.GetFlatExifData(raw, nil)
	if err != nil {
		return OrientationUnknown, err
	}

	for _, tag := range tags {
		if tag.TagId != orientationTagID && tag.TagName != "Orientation" {
			continue
		}
		// IFD0 is enumerated first; the thumbnail IFD may repeat the tag.
		if tag.IfdPath != "" && tag.IfdPath != "IFD" && tag.IfdPath != "IFD0" {
			continue
		}
		if o, ok := orientationValue(tag); ok {
			return o, nil
		}
	}

	return OrientationUnknown, nil
}

func orientationValue(tag exif.ExifTag) (Orientation, bool) {
	switch v := tag.Value.(type) {
	case []uint16:
		if len(v) > 0 {
			return checked(int(v[0]))
		}
	case uint16:
		return checked(int(v))
	case []uint32:
		if len(v) > 0 {
			return checked(int(v[0]))
		}
	}

	n, err := strconv.Atoi(strings.TrimSpace(tag.FormattedFirst))
	if err != nil {
		return OrientationUnknown, false
	}
	return checked(n)
}

func checked(n int) (Orientation, bool) {
	o := Orientation(n)
	if o < OrientationUp || o > OrientationLeft {
		return OrientationUnknown, false
	}
	return o, true
}

func errorsIsNoExif(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, exif.ErrNoExif) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "no exif")
}
