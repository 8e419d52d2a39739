package fattree

import (
	"io"

	"github.com/aligator/fattree/checkpoint"
	"github.com/spf13/afero"
)

// Source provides positioned reads on a volume image.
// Generated mock using mockgen:
//  mockgen -source=image.go -destination=image_mock_test.go -package fattree
type Source interface {
	// Read returns length bytes starting at offset.
	// If fewer bytes are available they are returned together with an error
	// matching ErrShortRead. They are never padded.
	Read(offset int64, length int) ([]byte, error)
}

// Image is a Source backed by a file of an afero.Fs.
type Image struct {
	file afero.File
	size int64
}

// OpenImage opens the image at path read-only and determines its size.
func OpenImage(fs afero.Fs, path string) (*Image, error) {
	file, err := fs.Open(path)
	if err != nil {
		return nil, checkpoint.Wrap(err, ErrOpenImage)
	}

	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, checkpoint.Wrap(err, ErrOpenImage)
	}

	return &Image{
		file: file,
		size: stat.Size(),
	}, nil
}

// Size is the size of the image in bytes.
func (i *Image) Size() int64 {
	return i.size
}

func (i *Image) Name() string {
	return i.file.Name()
}

func (i *Image) Read(offset int64, length int) ([]byte, error) {
	if offset < 0 || offset >= i.size {
		return nil, checkpoint.Wrapf(ErrShortRead, "offset %d is outside of the image (%d bytes)", offset, i.size)
	}

	buf := make([]byte, length)
	n, err := i.file.ReadAt(buf, offset)
	if n == length {
		// ReadAt may report io.EOF together with a complete read at the end of the file.
		return buf, nil
	}

	if err != nil && err != io.EOF {
		return buf[:n], checkpoint.Wrap(err, ErrShortRead)
	}
	return buf[:n], checkpoint.Wrapf(ErrShortRead, "read %d of %d bytes at offset %d", n, length, offset)
}

func (i *Image) Close() error {
	return i.file.Close()
}
