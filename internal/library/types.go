package library

import "filterlab/pkg/imgutil"

// Entry is one image file found by Scan.
type Entry struct {
	Path    string
	RelPath string
	Kind    imgutil.Kind
	Size    int64
}

type Summary struct {
	Files  int
	Images int
	Errors int
}

type ProgressUpdate struct {
	FilesDelta  int
	ImagesDelta int
	ErrorDelta  int
}

type job struct {
	Path    string
	RelPath string
}

type result struct {
	Entry     Entry
	Supported bool
	Err       error
}
